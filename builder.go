// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// GrammarFlag is the flag bitset carried by the single Grammar row.
type GrammarFlag uint16

const (
	// GrammarCaseSensitive marks a grammar whose terminals were matched
	// case-sensitively by the DFA that produced its tables.
	GrammarCaseSensitive GrammarFlag = 1 << iota
)

type tokenSymbolRow struct {
	name  StringHandle
	flags TokenSymbolFlag
}

type nonterminalRow struct {
	name            StringHandle
	flags           NonterminalFlag
	productionQuota uint32
	productionsLeft uint32
	firstProduction uint32 // 1-based; one past the productions owed to earlier nonterminals
}

type productionRow struct {
	head        uint32
	memberQuota uint32
	membersLeft uint32
	firstMember uint32
}

type groupRow struct {
	name         StringHandle
	container    uint32
	start        uint32
	end          uint32
	flags        GroupFlag
	nestingQuota uint32
	nestingLeft  uint32
	firstNesting uint32
}

type stateMachineRow struct {
	kind byte
	blob BlobHandle
}

type specialNameRow struct {
	name   StringHandle
	entity EntityHandle
}

// GrammarBuilder assembles a grammar respecting the global size/ordering
// invariants in spec.md §4.5. It is staged and stateful: grammar info,
// token symbols, nonterminals, productions, members, groups, and state
// machines each have a required order of operations, enforced here rather
// than left to the writer.
type GrammarBuilder struct {
	logger *log.Helper

	strings *stringHeapBuilder
	blobs   *blobHeapBuilder

	grammarSet  bool
	grammarName StringHandle
	startNT     uint32
	grammarFlgs GrammarFlag

	tokenSymbols    []tokenSymbolRow
	sawNonTermToken bool

	nonterminals []nonterminalRow
	ntCursor     int // index of the nonterminal currently consuming its production quota

	productions []productionRow
	prodCursor  int // index of the production currently consuming its member quota

	members []uint32 // coded TokenSymbol|Nonterminal references

	groups       []groupRow
	groupCursor  int
	groupNesting []uint32

	stateMachines   []stateMachineRow
	seenSMKinds     map[byte]bool
	specialNames    []specialNameRow
	seenSpecialName map[string]bool
}

// NewGrammarBuilder returns an empty builder. A nil logger defaults to a
// filtered stdout logger, mirroring pe.Options.Logger's default.
func NewGrammarBuilder(logger log.Logger) *GrammarBuilder {
	if logger == nil {
		logger = log.NewFilter(log.DefaultLogger, log.FilterLevel(log.LevelError))
	}
	b := &GrammarBuilder{
		logger:          log.NewHelper(logger),
		strings:         newStringHeapBuilder(),
		blobs:           newBlobHeapBuilder(),
		seenSMKinds:     map[byte]bool{},
		seenSpecialName: map[string]bool{},
	}
	b.logger.Debugf("grammar: builder initialized")
	return b
}

// InternString interns s into the string heap, available for building
// blobs (e.g. DFA/LR state machines) that reference strings indirectly.
func (b *GrammarBuilder) InternString(s string) (StringHandle, error) {
	return b.strings.intern(s)
}

// SetGrammarInfo sets the grammar's name, start nonterminal, and flags.
// May be called at most once, and start must already have been added via
// AddNonterminal.
func (b *GrammarBuilder) SetGrammarInfo(name string, start NonterminalHandle, flags GrammarFlag) error {
	if b.grammarSet {
		return fmt.Errorf("%w: grammar info already set", ErrInvalidOperation)
	}
	if start == 0 || uint32(start) > uint32(len(b.nonterminals)) {
		return fmt.Errorf("%w: start nonterminal %d has not been added yet", ErrInvalidOperation, start)
	}
	h, err := b.strings.intern(name)
	if err != nil {
		return err
	}
	b.grammarName = h
	b.startNT = uint32(start)
	b.grammarFlgs = flags
	b.grammarSet = true
	return nil
}

// AddTerminal adds a terminal token symbol. Terminals must be added before
// any non-terminal token symbol, and may not carry GroupStart.
func (b *GrammarBuilder) AddTerminal(name string, flags TokenSymbolFlag) (TokenSymbolHandle, error) {
	if b.sawNonTermToken {
		return 0, fmt.Errorf("%w: terminals must be added before non-terminal token symbols", ErrInvalidOperation)
	}
	if flags&TokenSymbolGroupStart != 0 {
		return 0, fmt.Errorf("%w: a terminal may not carry the GroupStart flag", ErrInvalidOperation)
	}
	return b.addTokenSymbol(name, flags|TokenSymbolTerminal)
}

// AddTokenSymbol adds a non-terminal token symbol (noise, group delimiter,
// or generated). Must follow every terminal.
func (b *GrammarBuilder) AddTokenSymbol(name string, flags TokenSymbolFlag) (TokenSymbolHandle, error) {
	if flags&TokenSymbolTerminal != 0 {
		return 0, fmt.Errorf("%w: use AddTerminal for terminal token symbols", ErrInvalidOperation)
	}
	b.sawNonTermToken = true
	return b.addTokenSymbol(name, flags)
}

func (b *GrammarBuilder) addTokenSymbol(name string, flags TokenSymbolFlag) (TokenSymbolHandle, error) {
	if uint64(len(b.tokenSymbols))+1 > MaxSymbolRowCount {
		return 0, fmt.Errorf("%w: TokenSymbol table would exceed %d rows", ErrSizeLimitExceeded, MaxSymbolRowCount)
	}
	h, err := b.strings.intern(name)
	if err != nil {
		return 0, err
	}
	b.tokenSymbols = append(b.tokenSymbols, tokenSymbolRow{name: h, flags: flags})
	return TokenSymbolHandle(len(b.tokenSymbols)), nil
}

// AddNonterminal adds a nonterminal that will own productionCount
// productions, to be supplied by the next productionCount calls to
// AddProduction.
func (b *GrammarBuilder) AddNonterminal(name string, flags NonterminalFlag, productionCount uint32) (NonterminalHandle, error) {
	if uint64(len(b.nonterminals))+1 > MaxSymbolRowCount {
		return 0, fmt.Errorf("%w: Nonterminal table would exceed %d rows", ErrSizeLimitExceeded, MaxSymbolRowCount)
	}
	h, err := b.strings.intern(name)
	if err != nil {
		return 0, err
	}
	// Productions are consumed in nonterminal order, so this nonterminal's
	// productions begin right after every earlier nonterminal's quota.
	first := uint32(1)
	if n := len(b.nonterminals); n > 0 {
		prev := &b.nonterminals[n-1]
		first = prev.firstProduction + prev.productionQuota
	}
	b.nonterminals = append(b.nonterminals, nonterminalRow{
		name:            h,
		flags:           flags,
		productionQuota: productionCount,
		productionsLeft: productionCount,
		firstProduction: first,
	})
	return NonterminalHandle(len(b.nonterminals)), nil
}

// currentNonterminal returns the index (0-based) of the nonterminal
// presently consuming its production quota, advancing past any that
// declared zero productions.
func (b *GrammarBuilder) currentNonterminal() int {
	for b.ntCursor < len(b.nonterminals) && b.nonterminals[b.ntCursor].productionsLeft == 0 {
		b.ntCursor++
	}
	return b.ntCursor
}

// AddProduction adds a production to the nonterminal currently consuming
// its quota (spec.md §4.5), declaring it will own memberCount members,
// to be supplied by the next memberCount calls to AddProductionMember.
func (b *GrammarBuilder) AddProduction(memberCount uint32) (ProductionHandle, error) {
	i := b.currentNonterminal()
	if i >= len(b.nonterminals) {
		return 0, fmt.Errorf("%w: no nonterminal is awaiting productions", ErrInvalidOperation)
	}
	if uint64(len(b.productions))+1 > MaxRowCount {
		return 0, fmt.Errorf("%w: Production table would exceed %d rows", ErrSizeLimitExceeded, MaxRowCount)
	}
	nt := &b.nonterminals[i]
	nt.productionsLeft--
	firstMember := uint32(1)
	if n := len(b.productions); n > 0 {
		prev := &b.productions[n-1]
		firstMember = prev.firstMember + prev.memberQuota
	}
	b.productions = append(b.productions, productionRow{
		head:        uint32(i) + 1,
		memberQuota: memberCount,
		membersLeft: memberCount,
		firstMember: firstMember,
	})
	return ProductionHandle(len(b.productions)), nil
}

func (b *GrammarBuilder) currentProduction() int {
	for b.prodCursor < len(b.productions) && b.productions[b.prodCursor].membersLeft == 0 {
		b.prodCursor++
	}
	return b.prodCursor
}

// AddProductionMember adds member to the production currently consuming
// its quota. member must be a non-null handle to an already-added
// TokenSymbol or Nonterminal row.
func (b *GrammarBuilder) AddProductionMember(member EntityHandle) error {
	i := b.currentProduction()
	if i >= len(b.productions) {
		return fmt.Errorf("%w: no production is awaiting members", ErrInvalidOperation)
	}
	switch member.Kind() {
	case EntityKindTokenSymbol:
		if member.IsNull() || member.Row() > uint32(len(b.tokenSymbols)) {
			return fmt.Errorf("%w: production member references unknown token symbol %d", ErrInvalidHandle, member.Row())
		}
	case EntityKindNonterminal:
		if member.IsNull() || member.Row() > uint32(len(b.nonterminals)) {
			return fmt.Errorf("%w: production member references unknown nonterminal %d", ErrInvalidHandle, member.Row())
		}
	default:
		return fmt.Errorf("%w: production member must be a token symbol or nonterminal", ErrInvalidOperation)
	}
	if uint64(len(b.members))+1 > MaxRowCount {
		return fmt.Errorf("%w: ProductionMember table would exceed %d rows", ErrSizeLimitExceeded, MaxRowCount)
	}
	prod := &b.productions[i]
	prod.membersLeft--
	b.members = append(b.members, encodeCodedMember(member))
	return nil
}

// AddGroup adds a lexical group that will own nestedGroupCount nested
// groups, supplied by the next nestedGroupCount calls to AddGroupNesting.
func (b *GrammarBuilder) AddGroup(name string, container, start, end TokenSymbolHandle, flags GroupFlag, nestedGroupCount uint32) (GroupHandle, error) {
	if uint64(len(b.groups))+1 > MaxRowCount {
		return 0, fmt.Errorf("%w: Group table would exceed %d rows", ErrSizeLimitExceeded, MaxRowCount)
	}
	for _, h := range []TokenSymbolHandle{container, start, end} {
		if h == 0 || uint32(h) > uint32(len(b.tokenSymbols)) {
			return 0, fmt.Errorf("%w: group references unknown token symbol %d", ErrInvalidHandle, h)
		}
	}
	h, err := b.strings.intern(name)
	if err != nil {
		return 0, err
	}
	firstNesting := uint32(1)
	if n := len(b.groups); n > 0 {
		prev := &b.groups[n-1]
		firstNesting = prev.firstNesting + prev.nestingQuota
	}
	b.groups = append(b.groups, groupRow{
		name:         h,
		container:    uint32(container),
		start:        uint32(start),
		end:          uint32(end),
		flags:        flags,
		nestingQuota: nestedGroupCount,
		nestingLeft:  nestedGroupCount,
		firstNesting: firstNesting,
	})
	return GroupHandle(len(b.groups)), nil
}

func (b *GrammarBuilder) currentGroup() int {
	for b.groupCursor < len(b.groups) && b.groups[b.groupCursor].nestingLeft == 0 {
		b.groupCursor++
	}
	return b.groupCursor
}

// AddGroupNesting adds a nested group to the group currently consuming
// its quota.
func (b *GrammarBuilder) AddGroupNesting(nested GroupHandle) error {
	i := b.currentGroup()
	if i >= len(b.groups) {
		return fmt.Errorf("%w: no group is awaiting nested groups", ErrInvalidOperation)
	}
	if nested == 0 || uint32(nested) > uint32(len(b.groups)) {
		return fmt.Errorf("%w: group nesting references unknown group %d", ErrInvalidHandle, nested)
	}
	if uint64(len(b.groupNesting))+1 > MaxRowCount {
		return fmt.Errorf("%w: GroupNesting table would exceed %d rows", ErrSizeLimitExceeded, MaxRowCount)
	}
	grp := &b.groups[i]
	grp.nestingLeft--
	b.groupNesting = append(b.groupNesting, uint32(nested))
	return nil
}

// AddStateMachine stores a pre-encoded DFA or LR state-machine blob under
// kind. Kinds are unique per grammar.
func (b *GrammarBuilder) AddStateMachine(kind byte, blob []byte) error {
	if b.seenSMKinds[kind] {
		return fmt.Errorf("%w: state machine kind %d already present", ErrInvalidData, kind)
	}
	if uint64(len(b.stateMachines))+1 > MaxRowCount {
		return fmt.Errorf("%w: StateMachine table would exceed %d rows", ErrSizeLimitExceeded, MaxRowCount)
	}
	h, err := b.blobs.intern(blob)
	if err != nil {
		return err
	}
	b.seenSMKinds[kind] = true
	b.stateMachines = append(b.stateMachines, stateMachineRow{kind: kind, blob: h})
	return nil
}

// AddSpecialName adds an author-assigned alias for entity. Names are
// unique per grammar.
func (b *GrammarBuilder) AddSpecialName(name string, entity EntityHandle) error {
	if b.seenSpecialName[name] {
		return fmt.Errorf("%w: special name %q already present", ErrInvalidData, name)
	}
	if entity.IsNull() {
		return fmt.Errorf("%w: special name cannot reference the null entity", ErrInvalidHandle)
	}
	if uint64(len(b.specialNames))+1 > MaxRowCount {
		return fmt.Errorf("%w: SpecialName table would exceed %d rows", ErrSizeLimitExceeded, MaxRowCount)
	}
	h, err := b.strings.intern(name)
	if err != nil {
		return err
	}
	b.seenSpecialName[name] = true
	b.specialNames = append(b.specialNames, specialNameRow{name: h, entity: entity})
	return nil
}

// Build assembles the finished grammar file. Grammar info must have been
// set; every declared production/member/nesting quota must be fully
// consumed.
func (b *GrammarBuilder) Build() ([]byte, error) {
	if !b.grammarSet {
		return nil, fmt.Errorf("%w: grammar info was never set", ErrInvalidOperation)
	}
	if i := b.currentNonterminal(); i < len(b.nonterminals) {
		return nil, fmt.Errorf("%w: nonterminal %d still awaits %d productions", ErrInvalidOperation, i+1, b.nonterminals[i].productionsLeft)
	}
	if i := b.currentProduction(); i < len(b.productions) {
		return nil, fmt.Errorf("%w: production %d still awaits %d members", ErrInvalidOperation, i+1, b.productions[i].membersLeft)
	}
	if i := b.currentGroup(); i < len(b.groups) {
		return nil, fmt.Errorf("%w: group %d still awaits %d nested groups", ErrInvalidOperation, i+1, b.groups[i].nestingLeft)
	}
	b.logger.Infow("msg", "grammar: assembling container",
		"tokenSymbols", len(b.tokenSymbols), "nonterminals", len(b.nonterminals),
		"productions", len(b.productions), "stateMachines", len(b.stateMachines))

	counts := rowCounts{
		tblGrammar:          1,
		tblTokenSymbol:      uint32(len(b.tokenSymbols)),
		tblGroup:            uint32(len(b.groups)),
		tblGroupNesting:     uint32(len(b.groupNesting)),
		tblNonterminal:      uint32(len(b.nonterminals)),
		tblProduction:       uint32(len(b.productions)),
		tblProductionMember: uint32(len(b.members)),
		tblStateMachine:     uint32(len(b.stateMachines)),
		tblSpecialName:      uint32(len(b.specialNames)),
	}

	var present uint64
	for k := 0; k < tableKindCount; k++ {
		if counts[k] > 0 {
			present |= 1 << uint(k)
		}
	}

	strBytes := b.strings.bytes()
	blobBytes := b.blobs.bytes()
	stringSmall := len(strBytes) <= 65535
	blobSmall := len(blobBytes) <= 65535

	layout := tableLayout{
		stringRefWidth:    heapRefWidth(stringSmall),
		blobRefWidth:      heapRefWidth(blobSmall),
		tokenSymbolWidth:  rowRefWidth(counts[tblTokenSymbol]),
		nonterminalWidth:  rowRefWidth(counts[tblNonterminal]),
		productionWidth:   rowRefWidth(counts[tblProduction]),
		groupWidth:        rowRefWidth(counts[tblGroup]),
		groupNestingWidth: rowRefWidth(counts[tblGroupNesting]),
		memberWidth:       rowRefWidth(counts[tblProductionMember]),
		codedMemberWidth:  codedRefWidth(counts[tblTokenSymbol], counts[tblNonterminal]),
	}

	// --- Lay out the #~ stream header ---
	var presentList []int
	for k := 0; k < tableKindCount; k++ {
		if present&(1<<uint(k)) != 0 {
			presentList = append(presentList, k)
		}
	}
	tableHeaderLen := 8 + 5*len(presentList) + 1
	if rem := tableHeaderLen % 8; rem != 0 {
		tableHeaderLen += 8 - rem
	}

	tables := [tableKindCount]tableInfo{}
	off := uint32(tableHeaderLen)
	for _, k := range presentList {
		info := buildTableInfo(k, counts[k], off, layout)
		tables[k] = info
		off += uint32(info.rowWidth) * counts[k]
	}
	tableStreamLen := off

	// --- Lay out the container ---
	var streams []rawStreamEntry
	fileOff := uint32(headerSize)
	numStreams := 1
	if len(strBytes) > 0 {
		numStreams++
	}
	if len(blobBytes) > 0 {
		numStreams++
	}
	fileOff += uint32(numStreams) * streamDirEntrySize

	if len(strBytes) > 0 {
		streams = append(streams, rawStreamEntry{id: streamIDStrings, name: streamNameStrings, offset: fileOff, length: uint32(len(strBytes))})
		fileOff += uint32(len(strBytes))
	}
	if len(blobBytes) > 0 {
		streams = append(streams, rawStreamEntry{id: streamIDBlob, name: streamNameBlob, offset: fileOff, length: uint32(len(blobBytes))})
		fileOff += uint32(len(blobBytes))
	}
	tableStreamOff := fileOff
	streams = append(streams, rawStreamEntry{id: streamIDTable, name: streamNameTable, offset: tableStreamOff, length: tableStreamLen})
	fileOff += tableStreamLen

	buf := make([]byte, fileOff)
	writeContainerHeader(buf, streams)

	for _, s := range streams {
		switch s.name {
		case streamNameStrings:
			copy(buf[s.offset:s.offset+s.length], strBytes)
		case streamNameBlob:
			copy(buf[s.offset:s.offset+s.length], blobBytes)
		}
	}

	tsBuf := buf[tableStreamOff : tableStreamOff+tableStreamLen]
	putUint64(tsBuf[0:8], present)
	hoff := 8
	for _, k := range presentList {
		putUint32(tsBuf[hoff:hoff+4], counts[k])
		tsBuf[hoff+4] = tables[k].rowWidth
		hoff += 5
	}
	var heapFlags byte
	if stringSmall {
		heapFlags |= 0x01
	}
	if blobSmall {
		heapFlags |= 0x02
	}
	tsBuf[hoff] = heapFlags

	b.writeGrammarRow(tsBuf, tables, layout)
	b.writeTokenSymbolRows(tsBuf, tables)
	b.writeGroupRows(tsBuf, tables)
	b.writeGroupNestingRows(tsBuf, tables)
	b.writeNonterminalRows(tsBuf, tables)
	b.writeProductionRows(tsBuf, tables)
	b.writeProductionMemberRows(tsBuf, tables)
	b.writeStateMachineRows(tsBuf, tables)
	b.writeSpecialNameRows(tsBuf, tables)

	b.logger.Debugf("grammar: built container, %d bytes", len(buf))
	return buf, nil
}

func putUint64(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * uint(i)))
	}
}

func putUint32(buf []byte, v uint32) {
	for i := 0; i < 4; i++ {
		buf[i] = byte(v >> (8 * uint(i)))
	}
}

func (b *GrammarBuilder) writeGrammarRow(buf []byte, tables [tableKindCount]tableInfo, l tableLayout) {
	info := &tables[tblGrammar]
	putUint(buf, info.colBase[0], info.colWidths[0], uint32(b.grammarName))
	putUint(buf, info.colBase[1], info.colWidths[1], b.startNT)
	putUint(buf, info.colBase[2], info.colWidths[2], uint32(b.grammarFlgs))
}

func (b *GrammarBuilder) writeTokenSymbolRows(buf []byte, tables [tableKindCount]tableInfo) {
	info := &tables[tblTokenSymbol]
	for i, row := range b.tokenSymbols {
		r := uint32(i)
		putUint(buf, info.colBase[0]+r*uint32(info.colWidths[0]), info.colWidths[0], uint32(row.name))
		putUint(buf, info.colBase[1]+r*uint32(info.colWidths[1]), info.colWidths[1], uint32(row.flags))
	}
}

func (b *GrammarBuilder) writeGroupRows(buf []byte, tables [tableKindCount]tableInfo) {
	info := &tables[tblGroup]
	for i, row := range b.groups {
		r := uint32(i)
		putUint(buf, info.colBase[0]+r*uint32(info.colWidths[0]), info.colWidths[0], uint32(row.name))
		putUint(buf, info.colBase[1]+r*uint32(info.colWidths[1]), info.colWidths[1], row.container)
		putUint(buf, info.colBase[2]+r*uint32(info.colWidths[2]), info.colWidths[2], row.start)
		putUint(buf, info.colBase[3]+r*uint32(info.colWidths[3]), info.colWidths[3], row.end)
		putUint(buf, info.colBase[4]+r*uint32(info.colWidths[4]), info.colWidths[4], uint32(row.flags))
		putUint(buf, info.colBase[5]+r*uint32(info.colWidths[5]), info.colWidths[5], row.firstNesting)
	}
}

func (b *GrammarBuilder) writeGroupNestingRows(buf []byte, tables [tableKindCount]tableInfo) {
	info := &tables[tblGroupNesting]
	for i, v := range b.groupNesting {
		r := uint32(i)
		putUint(buf, info.colBase[0]+r*uint32(info.colWidths[0]), info.colWidths[0], v)
	}
}

func (b *GrammarBuilder) writeNonterminalRows(buf []byte, tables [tableKindCount]tableInfo) {
	info := &tables[tblNonterminal]
	for i, row := range b.nonterminals {
		r := uint32(i)
		putUint(buf, info.colBase[0]+r*uint32(info.colWidths[0]), info.colWidths[0], uint32(row.name))
		putUint(buf, info.colBase[1]+r*uint32(info.colWidths[1]), info.colWidths[1], uint32(row.flags))
		putUint(buf, info.colBase[2]+r*uint32(info.colWidths[2]), info.colWidths[2], row.firstProduction)
	}
}

func (b *GrammarBuilder) writeProductionRows(buf []byte, tables [tableKindCount]tableInfo) {
	info := &tables[tblProduction]
	for i, row := range b.productions {
		r := uint32(i)
		putUint(buf, info.colBase[0]+r*uint32(info.colWidths[0]), info.colWidths[0], row.head)
		putUint(buf, info.colBase[1]+r*uint32(info.colWidths[1]), info.colWidths[1], row.firstMember)
	}
}

func (b *GrammarBuilder) writeProductionMemberRows(buf []byte, tables [tableKindCount]tableInfo) {
	info := &tables[tblProductionMember]
	for i, v := range b.members {
		r := uint32(i)
		putUint(buf, info.colBase[0]+r*uint32(info.colWidths[0]), info.colWidths[0], v)
	}
}

func (b *GrammarBuilder) writeStateMachineRows(buf []byte, tables [tableKindCount]tableInfo) {
	info := &tables[tblStateMachine]
	for i, row := range b.stateMachines {
		r := uint32(i)
		putUint(buf, info.colBase[0]+r*uint32(info.colWidths[0]), info.colWidths[0], uint32(row.kind))
		putUint(buf, info.colBase[1]+r*uint32(info.colWidths[1]), info.colWidths[1], uint32(row.blob))
	}
}

func (b *GrammarBuilder) writeSpecialNameRows(buf []byte, tables [tableKindCount]tableInfo) {
	info := &tables[tblSpecialName]
	for i, row := range b.specialNames {
		r := uint32(i)
		putUint(buf, info.colBase[0]+r*uint32(info.colWidths[0]), info.colWidths[0], uint32(row.name))
		putUint(buf, info.colBase[1]+r*uint32(info.colWidths[1]), info.colWidths[1], uint32(row.entity))
	}
}

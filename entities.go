// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"fmt"
	"sort"
)

// EntityKind tags which table an EntityHandle addresses.
type EntityKind uint8

const (
	EntityKindTokenSymbol EntityKind = iota
	EntityKindNonterminal
	EntityKindProduction
)

func (k EntityKind) String() string {
	switch k {
	case EntityKindTokenSymbol:
		return "TokenSymbol"
	case EntityKindNonterminal:
		return "Nonterminal"
	case EntityKindProduction:
		return "Production"
	default:
		return "Unknown"
	}
}

// EntityHandle packs a 24-bit 1-based row index and an 8-bit table tag
// into a single 32-bit value, per spec.md §9. The zero value is null.
type EntityHandle uint32

// NewEntityHandle builds a handle for the given kind and 1-based row.
func NewEntityHandle(kind EntityKind, row uint32) EntityHandle {
	return EntityHandle(row<<8 | uint32(kind))
}

// Kind returns the table this handle addresses.
func (h EntityHandle) Kind() EntityKind { return EntityKind(h & 0xFF) }

// Row returns the 1-based row index within that table.
func (h EntityHandle) Row() uint32 { return uint32(h) >> 8 }

// IsNull reports whether h is the null handle.
func (h EntityHandle) IsNull() bool { return h == 0 }

// checkKind returns ErrInvalidHandle if h is null or does not address the
// wanted table kind.
func (h EntityHandle) checkKind(want EntityKind) error {
	if h.IsNull() {
		return fmt.Errorf("%w: null entity handle", ErrInvalidHandle)
	}
	if h.Kind() != want {
		return fmt.Errorf("%w: entity handle addresses %s, want %s", ErrInvalidHandle, h.Kind(), want)
	}
	return nil
}

// TokenSymbolFlag is the flag bitset carried by a TokenSymbol row.
type TokenSymbolFlag uint32

const (
	TokenSymbolTerminal TokenSymbolFlag = 1 << iota
	TokenSymbolGroupStart
	TokenSymbolNoise
	TokenSymbolHidden
	TokenSymbolGenerated
)

// NonterminalFlag is the flag bitset carried by a Nonterminal row.
type NonterminalFlag uint16

const (
	NonterminalGenerated NonterminalFlag = 1 << iota
)

// GroupFlag is the flag bitset carried by a Group row.
type GroupFlag uint16

const (
	// GroupAdvanceByCharacter means the group advances one character at a
	// time while scanning for the end terminal, rather than one token.
	GroupAdvanceByCharacter GroupFlag = 1 << iota
	// GroupEndingModeClosed means the group is closed by its end
	// terminal; if clear, the group also ends implicitly at EOF.
	GroupEndingModeClosed
)

// TokenSymbolHandle is a 1-based row index into the TokenSymbol table.
type TokenSymbolHandle uint32

// NonterminalHandle is a 1-based row index into the Nonterminal table.
type NonterminalHandle uint32

// ProductionHandle is a 1-based row index into the Production table.
type ProductionHandle uint32

// GroupHandle is a 1-based row index into the Group table.
type GroupHandle uint32

// TokenSymbolInfo is the decoded content of one TokenSymbol row.
type TokenSymbolInfo struct {
	Name  string
	Flags TokenSymbolFlag
}

// NonterminalInfo is the decoded content of one Nonterminal row.
type NonterminalInfo struct {
	Name  string
	Flags NonterminalFlag
}

// ProductionInfo is the decoded content of one Production row.
type ProductionInfo struct {
	Head    NonterminalHandle
	Members []EntityHandle
}

// GroupInfo is the decoded content of one Group row.
type GroupInfo struct {
	Name            string
	Container       TokenSymbolHandle
	Start           TokenSymbolHandle
	End             TokenSymbolHandle
	Flags           GroupFlag
	NestedGroups    []GroupHandle
}

func columnRow(ts *tableStream, k, col int, row uint32) uint32 {
	return ts.cell(k, col, row)
}

// TokenSymbolCount returns the number of rows in the TokenSymbol table.
func (g *Grammar) TokenSymbolCount() uint32 { return g.tables.counts[tblTokenSymbol] }

// NonterminalCount returns the number of rows in the Nonterminal table.
func (g *Grammar) NonterminalCount() uint32 { return g.tables.counts[tblNonterminal] }

// ProductionCount returns the number of rows in the Production table.
func (g *Grammar) ProductionCount() uint32 { return g.tables.counts[tblProduction] }

// GroupCount returns the number of rows in the Group table.
func (g *Grammar) GroupCount() uint32 { return g.tables.counts[tblGroup] }

// TokenSymbol returns the decoded row for h.
func (g *Grammar) TokenSymbol(h TokenSymbolHandle) (TokenSymbolInfo, error) {
	if h == 0 || uint32(h) > g.TokenSymbolCount() {
		return TokenSymbolInfo{}, fmt.Errorf("%w: token symbol %d out of range", ErrInvalidHandle, h)
	}
	nameRef := StringHandle(columnRow(&g.tables, tblTokenSymbol, 0, uint32(h)))
	flags := columnRow(&g.tables, tblTokenSymbol, 1, uint32(h))
	name, err := g.strings.get(nameRef)
	if err != nil {
		return TokenSymbolInfo{}, err
	}
	return TokenSymbolInfo{Name: name, Flags: TokenSymbolFlag(flags)}, nil
}

// IsTerminal reports whether h carries the Terminal flag.
func (g *Grammar) IsTerminal(h TokenSymbolHandle) (bool, error) {
	info, err := g.TokenSymbol(h)
	if err != nil {
		return false, err
	}
	return info.Flags&TokenSymbolTerminal != 0, nil
}

// Nonterminal returns the decoded row for h.
func (g *Grammar) Nonterminal(h NonterminalHandle) (NonterminalInfo, error) {
	if h == 0 || uint32(h) > g.NonterminalCount() {
		return NonterminalInfo{}, fmt.Errorf("%w: nonterminal %d out of range", ErrInvalidHandle, h)
	}
	nameRef := StringHandle(columnRow(&g.tables, tblNonterminal, 0, uint32(h)))
	flags := columnRow(&g.tables, tblNonterminal, 1, uint32(h))
	name, err := g.strings.get(nameRef)
	if err != nil {
		return NonterminalInfo{}, err
	}
	return NonterminalInfo{Name: name, Flags: NonterminalFlag(flags)}, nil
}

// productionFirst returns the value of Nonterminal[row].ProductionFirst,
// treating one past the last row as "one past the last production" for
// range computation.
func (g *Grammar) productionFirst(row uint32) uint32 {
	if row == 0 {
		return 1
	}
	if row > g.NonterminalCount() {
		return g.ProductionCount() + 1
	}
	return columnRow(&g.tables, tblNonterminal, 2, row)
}

// ProductionsOf returns the productions owned by h, using the
// monotonically non-decreasing ProductionFirst column to slice
// [first[h], first[h+1]) without a linear scan (spec.md §3).
func (g *Grammar) ProductionsOf(h NonterminalHandle) ([]ProductionHandle, error) {
	if h == 0 || uint32(h) > g.NonterminalCount() {
		return nil, fmt.Errorf("%w: nonterminal %d out of range", ErrInvalidHandle, h)
	}
	first := g.productionFirst(uint32(h))
	last := g.productionFirst(uint32(h) + 1)
	out := make([]ProductionHandle, 0, last-first)
	for p := first; p < last; p++ {
		out = append(out, ProductionHandle(p))
	}
	return out, nil
}

// NonterminalOfProduction finds the nonterminal owning production p by
// binary-searching the ProductionFirst column, per spec.md §3: "this
// turns head lookup for a production into a binary search".
func (g *Grammar) NonterminalOfProduction(p ProductionHandle) (NonterminalHandle, error) {
	if p == 0 || uint32(p) > g.ProductionCount() {
		return 0, fmt.Errorf("%w: production %d out of range", ErrInvalidHandle, p)
	}
	n := int(g.NonterminalCount())
	row := uint32(p)
	idx := sort.Search(n, func(i int) bool {
		return g.productionFirst(uint32(i+1)+1) > row
	})
	return NonterminalHandle(idx + 1), nil
}

func (g *Grammar) memberFirst(row uint32) uint32 {
	if row == 0 {
		return 1
	}
	if row > g.ProductionCount() {
		return g.tables.counts[tblProductionMember] + 1
	}
	return columnRow(&g.tables, tblProduction, 1, row)
}

func decodeCodedMember(raw uint32) EntityHandle {
	tag := raw & 1
	row := raw >> 1
	if tag == 0 {
		return NewEntityHandle(EntityKindTokenSymbol, row)
	}
	return NewEntityHandle(EntityKindNonterminal, row)
}

func encodeCodedMember(h EntityHandle) uint32 {
	var tag uint32
	if h.Kind() == EntityKindNonterminal {
		tag = 1
	}
	return h.Row()<<1 | tag
}

// Production returns the decoded row for h.
func (g *Grammar) Production(h ProductionHandle) (ProductionInfo, error) {
	if h == 0 || uint32(h) > g.ProductionCount() {
		return ProductionInfo{}, fmt.Errorf("%w: production %d out of range", ErrInvalidHandle, h)
	}
	head := columnRow(&g.tables, tblProduction, 0, uint32(h))
	first := g.memberFirst(uint32(h))
	last := g.memberFirst(uint32(h) + 1)
	members := make([]EntityHandle, 0, last-first)
	for m := first; m < last; m++ {
		raw := columnRow(&g.tables, tblProductionMember, 0, m)
		members = append(members, decodeCodedMember(raw))
	}
	return ProductionInfo{Head: NonterminalHandle(head), Members: members}, nil
}

func (g *Grammar) groupNestingFirst(row uint32) uint32 {
	if row == 0 {
		return 1
	}
	if row > g.GroupCount() {
		return g.tables.counts[tblGroupNesting] + 1
	}
	return columnRow(&g.tables, tblGroup, 5, row)
}

// Group returns the decoded row for h.
func (g *Grammar) Group(h GroupHandle) (GroupInfo, error) {
	if h == 0 || uint32(h) > g.GroupCount() {
		return GroupInfo{}, fmt.Errorf("%w: group %d out of range", ErrInvalidHandle, h)
	}
	row := uint32(h)
	nameRef := StringHandle(columnRow(&g.tables, tblGroup, 0, row))
	name, err := g.strings.get(nameRef)
	if err != nil {
		return GroupInfo{}, err
	}
	container := columnRow(&g.tables, tblGroup, 1, row)
	start := columnRow(&g.tables, tblGroup, 2, row)
	end := columnRow(&g.tables, tblGroup, 3, row)
	flags := columnRow(&g.tables, tblGroup, 4, row)

	first := g.groupNestingFirst(row)
	last := g.groupNestingFirst(row + 1)
	nested := make([]GroupHandle, 0, last-first)
	for n := first; n < last; n++ {
		nested = append(nested, GroupHandle(columnRow(&g.tables, tblGroupNesting, 0, n)))
	}

	return GroupInfo{
		Name:         name,
		Container:    TokenSymbolHandle(container),
		Start:        TokenSymbolHandle(start),
		End:          TokenSymbolHandle(end),
		Flags:        GroupFlag(flags),
		NestedGroups: nested,
	}, nil
}

// SpecialNameCount returns the number of rows in the SpecialName table.
func (g *Grammar) SpecialNameCount() uint32 { return g.tables.counts[tblSpecialName] }

// SymbolFromSpecialName resolves an author-assigned alias to the entity it
// names, or ok=false if no such special name exists.
func (g *Grammar) SymbolFromSpecialName(name string) (EntityHandle, bool, error) {
	n := g.SpecialNameCount()
	for row := uint32(1); row <= n; row++ {
		nameRef := StringHandle(columnRow(&g.tables, tblSpecialName, 0, row))
		rowName, err := g.strings.get(nameRef)
		if err != nil {
			return 0, false, err
		}
		if rowName == name {
			raw := columnRow(&g.tables, tblSpecialName, 1, row)
			return EntityHandle(raw), true, nil
		}
	}
	return 0, false, nil
}

// SpecialName is one row of the SpecialName table.
type SpecialName struct {
	Name   string
	Entity EntityHandle
}

// SpecialNames enumerates every special name in table order.
func (g *Grammar) SpecialNames() ([]SpecialName, error) {
	n := g.SpecialNameCount()
	out := make([]SpecialName, 0, n)
	for row := uint32(1); row <= n; row++ {
		nameRef := StringHandle(columnRow(&g.tables, tblSpecialName, 0, row))
		name, err := g.strings.get(nameRef)
		if err != nil {
			return nil, err
		}
		raw := columnRow(&g.tables, tblSpecialName, 1, row)
		out = append(out, SpecialName{Name: name, Entity: EntityHandle(raw)})
	}
	return out, nil
}

// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"encoding/binary"
	"fmt"
)

// Table kinds, in the canonical on-disk order (spec.md §4.1).
const (
	tblGrammar = iota
	tblTokenSymbol
	tblGroup
	tblGroupNesting
	tblNonterminal
	tblProduction
	tblProductionMember
	tblStateMachine
	tblSpecialName
	tableKindCount
)

var tableKindNames = [tableKindCount]string{
	tblGrammar:          "Grammar",
	tblTokenSymbol:      "TokenSymbol",
	tblGroup:            "Group",
	tblGroupNesting:     "GroupNesting",
	tblNonterminal:      "Nonterminal",
	tblProduction:       "Production",
	tblProductionMember: "ProductionMember",
	tblStateMachine:     "StateMachine",
	tblSpecialName:      "SpecialName",
}

// tableLayout holds the widths chosen for one loaded grammar, recomputed
// per spec.md §3 "Cross-table references use variable-width integers
// chosen per grammar". Widths are stored once as immutable fields rather
// than monomorphizing the reader over them (spec.md §9 design notes).
type tableLayout struct {
	stringRefWidth    byte // width of a String heap index
	blobRefWidth      byte // width of a Blob heap index
	tokenSymbolWidth  byte // width of a TokenSymbol row reference
	nonterminalWidth  byte // width of a Nonterminal row reference
	productionWidth   byte // width of a Production row reference
	groupWidth        byte // width of a Group row reference
	groupNestingWidth byte // width of a GroupNesting row reference
	memberWidth       byte // width of a ProductionMember row reference
	codedMemberWidth  byte // width of the TokenSymbol|Nonterminal coded reference
}

// rowCounts holds the row count of each present table (0 if absent).
type rowCounts [tableKindCount]uint32

// tableInfo describes one table's placement within the #~ stream.
type tableInfo struct {
	present   bool
	rowCount  uint32
	rowWidth  byte
	baseOff   uint32   // offset of this table's column-major data within the #~ stream
	colWidths []byte   // width of each column, in declaration order
	colBase   []uint32 // base offset of each column within the #~ stream
}

// tableStream is the decoded "#~" stream: schema-derived per-table layout
// information plus the buffer it reads from.
type tableStream struct {
	data    []byte // the #~ stream's bytes; tableInfo offsets are relative to its start
	layout  tableLayout
	counts  rowCounts
	tables  [tableKindCount]tableInfo
	present uint64 // raw bitmap of present tables, as read
	sorted  uint64 // reserved for future compatibility; always 0 here
}

// schemaColumns returns the column widths for table kind k, given the
// layout already chosen for this grammar. This is the single source of
// truth for every table's on-disk shape (spec.md §4.1, §4.4).
func schemaColumns(k int, l tableLayout) []byte {
	switch k {
	case tblGrammar:
		return []byte{l.stringRefWidth, l.nonterminalWidth, 2}
	case tblTokenSymbol:
		return []byte{l.stringRefWidth, 4}
	case tblGroup:
		return []byte{l.stringRefWidth, l.tokenSymbolWidth, l.tokenSymbolWidth, l.tokenSymbolWidth, 2, l.groupNestingWidth}
	case tblGroupNesting:
		return []byte{l.groupWidth}
	case tblNonterminal:
		return []byte{l.stringRefWidth, 2, l.productionWidth}
	case tblProduction:
		return []byte{l.nonterminalWidth, l.memberWidth}
	case tblProductionMember:
		return []byte{l.codedMemberWidth}
	case tblStateMachine:
		return []byte{1, l.blobRefWidth}
	case tblSpecialName:
		return []byte{l.stringRefWidth, 4}
	default:
		panic("grammar: unknown table kind")
	}
}

func sumWidths(ws []byte) byte {
	var total int
	for _, w := range ws {
		total += int(w)
	}
	return byte(total)
}

// buildTableInfo lays out one table's columns in column-major order: each
// column occupies rowCount contiguous entries of its own width before the
// next column begins. This is distinct from the table's rowWidth, which is
// only the sum of column widths used for schema validation and for
// stepping to the next table in the stream.
func buildTableInfo(k int, rowCount uint32, base uint32, l tableLayout) tableInfo {
	cols := schemaColumns(k, l)
	info := tableInfo{
		rowCount:  rowCount,
		rowWidth:  sumWidths(cols),
		baseOff:   base,
		colWidths: cols,
		colBase:   make([]uint32, len(cols)),
	}
	off := base
	for i, w := range cols {
		info.colBase[i] = off
		off += uint32(w) * rowCount
	}
	return info
}

// cell reads column col of the given 1-based row index from table k.
func (ts *tableStream) cell(k int, col int, row uint32) uint32 {
	info := &ts.tables[k]
	w := info.colWidths[col]
	off := info.colBase[col] + (row-1)*uint32(w)
	return readUint(ts.data, off, w)
}

// parseTableStream decodes the "#~" stream header and lays out every
// present table, validating declared row widths against the schema.
func parseTableStream(sectionData []byte, stringHeapSmall, blobHeapSmall bool) (tableStream, error) {
	ts := tableStream{data: sectionData}
	if len(sectionData) < 8 {
		return ts, fmt.Errorf("%w: table stream too short", ErrMalformedContainer)
	}

	ts.present = binary.LittleEndian.Uint64(sectionData[0:8])
	off := uint32(8)

	var presentList []int
	for k := 0; k < tableKindCount; k++ {
		if ts.present&(1<<uint(k)) != 0 {
			presentList = append(presentList, k)
		}
	}

	for _, k := range presentList {
		if off+5 > uint32(len(sectionData)) {
			return ts, fmt.Errorf("%w: table stream header truncated", ErrMalformedContainer)
		}
		ts.counts[k] = binary.LittleEndian.Uint32(sectionData[off : off+4])
		declaredWidth := sectionData[off+4]
		off += 5
		ts.tables[k].rowWidth = declaredWidth
	}

	if off >= uint32(len(sectionData)) {
		return ts, fmt.Errorf("%w: table stream missing heap-size flags byte", ErrMalformedContainer)
	}
	heapFlags := sectionData[off]
	off++
	if (heapFlags&0x01 != 0) != stringHeapSmall || (heapFlags&0x02 != 0) != blobHeapSmall {
		return ts, fmt.Errorf("%w: table stream heap-size flags disagree with stream directory", ErrInvalidData)
	}

	// Pad to an 8-byte boundary.
	if rem := off % 8; rem != 0 {
		off += 8 - rem
	}

	layout := tableLayout{
		stringRefWidth:    heapRefWidth(stringHeapSmall),
		blobRefWidth:      heapRefWidth(blobHeapSmall),
		tokenSymbolWidth:  rowRefWidth(ts.counts[tblTokenSymbol]),
		nonterminalWidth:  rowRefWidth(ts.counts[tblNonterminal]),
		productionWidth:   rowRefWidth(ts.counts[tblProduction]),
		groupWidth:        rowRefWidth(ts.counts[tblGroup]),
		groupNestingWidth: rowRefWidth(ts.counts[tblGroupNesting]),
		memberWidth:       rowRefWidth(ts.counts[tblProductionMember]),
		codedMemberWidth:  codedRefWidth(ts.counts[tblTokenSymbol], ts.counts[tblNonterminal]),
	}
	ts.layout = layout

	for _, k := range presentList {
		info := buildTableInfo(k, ts.counts[k], off, layout)
		if info.rowWidth != ts.tables[k].rowWidth {
			return ts, fmt.Errorf("%w: table %s declared row width %d, schema expects %d",
				ErrInvalidData, tableKindNames[k], ts.tables[k].rowWidth, info.rowWidth)
		}
		ts.tables[k] = info
		ts.tables[k].present = true
		rowBytes := uint64(info.rowWidth) * uint64(info.rowCount)
		if uint64(off)+rowBytes > uint64(len(sectionData)) {
			return ts, fmt.Errorf("%w: table %s overruns stream", ErrMalformedContainer, tableKindNames[k])
		}
		off += uint32(rowBytes)
	}

	if k := tblGrammar; ts.tables[k].present && ts.counts[k] != 1 {
		return ts, fmt.Errorf("%w: Grammar table must have exactly one row", ErrInvalidData)
	}

	return ts, nil
}

// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// State-machine kind tags, as stored in the StateMachine table's kind
// column (spec.md §6).
const (
	smKindDFANoConflicts       byte = 0
	smKindDFAConflicts         byte = 1
	smKindDFADefaultSupplement byte = 2
	smKindLR                   byte = 3
	smKindGLR                  byte = 4
)

// asciiFail marks an ASCII fast-path entry that is known to fail for every
// state reachable through it.
const asciiFail = -1

// dfaEdge is one outgoing transition: characters in [keyFrom, keyTo] lead
// to target. Edges within a state are sorted by keyTo and non-overlapping.
type dfaEdge struct {
	keyFrom uint32
	keyTo   uint32
	target  uint32
}

// dfaState is the runtime (already-decoded) view of one DFA state, shared
// by both the with- and without-conflicts on-disk layouts.
type dfaState struct {
	edges      []dfaEdge
	hasDefault bool
	defTarget  uint32
	accepts    []TokenSymbolHandle
}

// DFA is a character-driven state machine used for tokenization, decoded
// from a StateMachine blob (spec.md §4.6).
type DFA struct {
	states    []dfaState
	conflicts bool

	asciiOnce  sync.Once
	asciiTable []int32 // len(states)*128, flattened
}

// DFA returns the grammar's tokenizer state machine, or nil if none is
// present. A with-conflicts DFA (kind 1) takes priority over a
// without-conflicts one (kind 0) if, implausibly, both are present; an
// optional kind-2 default-transition supplement is then merged into a
// with-conflicts DFA, each default it declares overriding that state's
// inline one (see applyDefaultSupplement). A kind-0 DFA is returned
// without consulting any supplement.
func (g *Grammar) DFA() (*DFA, error) {
	if blob, ok, err := g.stateMachineBlob(smKindDFAConflicts); err != nil {
		return nil, err
	} else if ok {
		d, err := decodeDFA(blob, true)
		if err != nil {
			return nil, err
		}
		if supp, ok, err := g.stateMachineBlob(smKindDFADefaultSupplement); err != nil {
			return nil, err
		} else if ok {
			if err := applyDefaultSupplement(d, supp); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
	if blob, ok, err := g.stateMachineBlob(smKindDFANoConflicts); err != nil {
		return nil, err
	} else if ok {
		return decodeDFA(blob, false)
	}
	return nil, nil
}

// decodeDFA parses a DFA blob. Layout (all fields little-endian u32 unless
// noted):
//
//	header:     stateCount, edgeCount [, acceptPoolCount if conflicts]
//	per state:  firstEdge, hasDefault(u8), defaultTarget
//	            [without-conflicts only: hasAccept(u8), then acceptSymbol if hasAccept != 0]
//	[with-conflicts: firstAccept table, stateCount+1 entries, the last a sentinel]
//	edges pool: edgeCount * (keyFrom, keyTo, target)
//	[with-conflicts: accepts pool: acceptPoolCount * acceptSymbol]
func decodeDFA(blob []byte, conflicts bool) (*DFA, error) {
	const headerMin = 8
	if len(blob) < headerMin {
		return nil, fmt.Errorf("%w: DFA blob too short", ErrInvalidData)
	}
	stateCount := binary.LittleEndian.Uint32(blob[0:4])
	edgeCount := binary.LittleEndian.Uint32(blob[4:8])
	off := 8

	var acceptPoolCount uint32
	if conflicts {
		if len(blob) < 12 {
			return nil, fmt.Errorf("%w: DFA blob too short for conflict header", ErrInvalidData)
		}
		acceptPoolCount = binary.LittleEndian.Uint32(blob[8:12])
		off = 12
	}

	d := &DFA{states: make([]dfaState, stateCount), conflicts: conflicts}

	firstEdge := make([]uint32, stateCount)
	firstAccept := make([]uint32, stateCount+1)

	for s := uint32(0); s < stateCount; s++ {
		if conflicts {
			if off+9 > len(blob) {
				return nil, fmt.Errorf("%w: DFA state record truncated", ErrInvalidData)
			}
			firstEdge[s] = binary.LittleEndian.Uint32(blob[off : off+4])
			hasDefault := blob[off+4] != 0
			defTarget := binary.LittleEndian.Uint32(blob[off+5 : off+9])
			d.states[s].hasDefault = hasDefault
			d.states[s].defTarget = defTarget
			off += 9
		} else {
			if off+10 > len(blob) {
				return nil, fmt.Errorf("%w: DFA state record truncated", ErrInvalidData)
			}
			firstEdge[s] = binary.LittleEndian.Uint32(blob[off : off+4])
			hasDefault := blob[off+4] != 0
			defTarget := binary.LittleEndian.Uint32(blob[off+5 : off+9])
			hasAccept := blob[off+9] != 0
			off += 10
			d.states[s].hasDefault = hasDefault
			d.states[s].defTarget = defTarget
			if hasAccept {
				if off+4 > len(blob) {
					return nil, fmt.Errorf("%w: DFA accept symbol truncated", ErrInvalidData)
				}
				acceptSym := binary.LittleEndian.Uint32(blob[off : off+4])
				off += 4
				d.states[s].accepts = []TokenSymbolHandle{TokenSymbolHandle(acceptSym)}
			}
		}
	}

	if conflicts {
		for s := uint32(0); s <= stateCount; s++ {
			if off+4 > len(blob) {
				return nil, fmt.Errorf("%w: DFA firstAccept sentinel truncated", ErrInvalidData)
			}
			firstAccept[s] = binary.LittleEndian.Uint32(blob[off : off+4])
			off += 4
		}
	}

	edgesStart := off
	needed := edgesStart + int(edgeCount)*12
	if needed > len(blob) {
		return nil, fmt.Errorf("%w: DFA edge pool truncated", ErrInvalidData)
	}
	edgesPool := make([]dfaEdge, edgeCount)
	for i := uint32(0); i < edgeCount; i++ {
		base := edgesStart + int(i)*12
		edgesPool[i] = dfaEdge{
			keyFrom: binary.LittleEndian.Uint32(blob[base : base+4]),
			keyTo:   binary.LittleEndian.Uint32(blob[base+4 : base+8]),
			target:  binary.LittleEndian.Uint32(blob[base+8 : base+12]),
		}
	}
	off = edgesStart + int(edgeCount)*12

	var acceptsPool []uint32
	if conflicts {
		needed := off + int(acceptPoolCount)*4
		if needed > len(blob) {
			return nil, fmt.Errorf("%w: DFA accept pool truncated", ErrInvalidData)
		}
		acceptsPool = make([]uint32, acceptPoolCount)
		for i := uint32(0); i < acceptPoolCount; i++ {
			base := off + int(i)*4
			acceptsPool[i] = binary.LittleEndian.Uint32(blob[base : base+4])
		}
	}

	for s := uint32(0); s < stateCount; s++ {
		var edgeEnd uint32
		if s+1 < stateCount {
			edgeEnd = firstEdge[s+1]
		} else {
			edgeEnd = edgeCount
		}
		if firstEdge[s] > edgeEnd || edgeEnd > edgeCount {
			return nil, fmt.Errorf("%w: DFA state %d has an invalid edge range", ErrInvalidData, s)
		}
		d.states[s].edges = edgesPool[firstEdge[s]:edgeEnd]

		if conflicts {
			start, end := firstAccept[s], firstAccept[s+1]
			if start > end || end > acceptPoolCount {
				return nil, fmt.Errorf("%w: DFA state %d has an invalid accept range", ErrInvalidData, s)
			}
			accs := make([]TokenSymbolHandle, 0, end-start)
			for _, a := range acceptsPool[start:end] {
				accs = append(accs, TokenSymbolHandle(a))
			}
			d.states[s].accepts = accs
		}
	}

	return d, nil
}

// applyDefaultSupplement merges a kind-2 supplement blob's per-state
// default transitions into a with-conflicts DFA already decoded. Layout:
// u32 stateCount; per state: hasDefault(u8), defaultTarget(u32).
func applyDefaultSupplement(d *DFA, blob []byte) error {
	if len(blob) < 4 {
		return fmt.Errorf("%w: DFA default-transition supplement too short", ErrInvalidData)
	}
	stateCount := binary.LittleEndian.Uint32(blob[0:4])
	if int(stateCount) != len(d.states) {
		return fmt.Errorf("%w: default-transition supplement state count %d disagrees with DFA state count %d",
			ErrInvalidData, stateCount, len(d.states))
	}
	off := 4
	for s := uint32(0); s < stateCount; s++ {
		if off+5 > len(blob) {
			return fmt.Errorf("%w: default-transition supplement record truncated", ErrInvalidData)
		}
		hasDefault := blob[off] != 0
		target := binary.LittleEndian.Uint32(blob[off+1 : off+5])
		off += 5
		if hasDefault {
			d.states[s].hasDefault = true
			d.states[s].defTarget = target
		}
	}
	return nil
}

// StateCount returns the number of states in the DFA.
func (d *DFA) StateCount() int { return len(d.states) }

// Conflicts reports whether this DFA may carry more than one accept
// symbol per state.
func (d *DFA) Conflicts() bool { return d.conflicts }

// Accepts returns the accept symbols of state, in pool order. For a
// without-conflicts DFA this has length 0 or 1.
func (d *DFA) Accepts(state int) []TokenSymbolHandle { return d.states[state].accepts }

func (d *DFA) canContinue(state int) bool {
	s := &d.states[state]
	return len(s.edges) > 0 || s.hasDefault
}

// NextState implements the next-state algorithm of spec.md §4.6: binary
// search the state's edges by keyTo, fall back to the default transition,
// else report failure with -1.
func (d *DFA) NextState(state int, c uint32) int32 {
	if state < 0 || state >= len(d.states) {
		return asciiFail
	}
	if c < 128 {
		if table := d.prebuiltASCII(); table != nil {
			return table[state*128+int(c)]
		}
	}
	return d.nextStateSlow(state, c)
}

func (d *DFA) nextStateSlow(state int, c uint32) int32 {
	s := &d.states[state]
	if i := edgeSearch(s.edges, c); i >= 0 {
		e := s.edges[i]
		if e.keyFrom <= c && c <= e.keyTo {
			return int32(e.target)
		}
	}
	if s.hasDefault {
		return int32(s.defTarget)
	}
	return asciiFail
}

// prebuiltASCII lazily builds the 128-entry-per-state ASCII fast path
// table, merging edges and default transitions, per spec.md §4.6. Safe to
// call concurrently; callers must still follow the "prepareForParsing
// before concurrent use" contract from spec.md §5 for the first call.
func (d *DFA) prebuiltASCII() []int32 {
	d.asciiOnce.Do(func() {
		table := make([]int32, len(d.states)*128)
		for s := range d.states {
			for c := 0; c < 128; c++ {
				table[s*128+c] = d.nextStateSlow(s, uint32(c))
			}
		}
		d.asciiTable = table
	})
	return d.asciiTable
}

// PrepareForParsing builds the ASCII fast-path cache eagerly. Callers that
// share a DFA across goroutines must call this once before any concurrent
// Match/NextState call (spec.md §5).
func (d *DFA) PrepareForParsing() { d.prebuiltASCII() }

// Match implements the longest-match streaming tokenization algorithm of
// spec.md §4.6. input is a sequence of code units (spec.md §6 "consumed
// external interfaces" — the core is code-unit-type agnostic; code units
// are passed here as uint32 so any width fits). It returns the accepted
// token (if any), the number of code units consumed, and the ending
// state.
func (d *DFA) Match(input []uint32, isFinal bool) (token TokenSymbolHandle, ok bool, consumed int, endState int) {
	state := 0
	pos := 0

	var lastAccept TokenSymbolHandle
	var hasAccept bool
	lastAcceptPos := 0
	lastAcceptState := 0

	ranOutOfInput := true
	for pos < len(input) {
		next := d.NextState(state, input[pos])
		if next < 0 {
			ranOutOfInput = false
			break
		}
		state = int(next)
		pos++
		if accs := d.states[state].accepts; len(accs) > 0 {
			hasAccept = true
			lastAccept = accs[0]
			lastAcceptPos = pos
			lastAcceptState = state
		}
	}

	if !isFinal && ranOutOfInput && d.canContinue(state) {
		return 0, false, pos, state
	}
	if !hasAccept {
		return 0, false, 0, 0
	}
	return lastAccept, true, lastAcceptPos, lastAcceptState
}

// DFAEdgeSpec and DFAStateSpec describe a DFA for GrammarBuilder.AddDFA,
// mirroring the runtime dfaEdge/dfaState shape without exposing them.
type DFAEdgeSpec struct {
	KeyFrom, KeyTo uint32
	Target         uint32
}

// DFAStateSpec is one state's edges, optional default transition, and
// accept symbols (0 or 1 for a without-conflicts DFA, any number for a
// with-conflicts one). Edges must already be sorted by KeyTo ascending
// and non-overlapping, per the DFA edge-ordering invariant (spec.md §8).
type DFAStateSpec struct {
	Edges         []DFAEdgeSpec
	HasDefault    bool
	DefaultTarget uint32
	Accepts       []TokenSymbolHandle
}

// AddDFA encodes states as a DFA blob and adds it to the grammar as a
// StateMachine row of the appropriate kind (0 if every state has at most
// one accept symbol, 1 otherwise).
func (b *GrammarBuilder) AddDFA(states []DFAStateSpec) error {
	conflicts := false
	for _, st := range states {
		if len(st.Accepts) > 1 {
			conflicts = true
		}
		for i := 1; i < len(st.Edges); i++ {
			if st.Edges[i-1].KeyTo >= st.Edges[i].KeyFrom {
				return fmt.Errorf("%w: DFA edges must be strictly ordered and non-overlapping", ErrInvalidData)
			}
		}
	}
	blob := encodeDFA(states, conflicts)
	kind := smKindDFANoConflicts
	if conflicts {
		kind = smKindDFAConflicts
	}
	return b.AddStateMachine(kind, blob)
}

func encodeDFA(states []DFAStateSpec, conflicts bool) []byte {
	var edgeCount, acceptCount uint32
	firstEdge := make([]uint32, len(states))
	firstAccept := make([]uint32, len(states)+1)
	for i, st := range states {
		firstEdge[i] = edgeCount
		edgeCount += uint32(len(st.Edges))
		firstAccept[i] = acceptCount
		acceptCount += uint32(len(st.Accepts))
	}
	firstAccept[len(states)] = acceptCount

	var buf []byte
	put32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}

	put32(uint32(len(states)))
	put32(edgeCount)
	if conflicts {
		put32(acceptCount)
	}

	for i, st := range states {
		put32(firstEdge[i])
		if st.HasDefault {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		put32(st.DefaultTarget)
		if !conflicts {
			if len(st.Accepts) == 1 {
				buf = append(buf, 1)
				put32(uint32(st.Accepts[0]))
			} else {
				buf = append(buf, 0)
			}
		}
	}
	if conflicts {
		for i := 0; i <= len(states); i++ {
			put32(firstAccept[i])
		}
	}

	for _, st := range states {
		for _, e := range st.Edges {
			put32(e.KeyFrom)
			put32(e.KeyTo)
			put32(e.Target)
		}
	}
	if conflicts {
		for _, st := range states {
			for _, a := range st.Accepts {
				put32(uint32(a))
			}
		}
	}
	return buf
}

// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
)

// Action is a single LR action: Shift(state), Reduce(production), or
// Error, packed the way spec.md §4.7 describes (0 = error, n > 0 = shift
// to state n-1, n < 0 = reduce production -n).
type Action int32

// ActionKind classifies an Action.
type ActionKind uint8

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
)

// Kind reports which case this action represents.
func (a Action) Kind() ActionKind {
	switch {
	case a == 0:
		return ActionError
	case a > 0:
		return ActionShift
	default:
		return ActionReduce
	}
}

// ShiftState returns the destination state for a shift action.
func (a Action) ShiftState() uint32 { return uint32(a) - 1 }

// ReduceProduction returns the production to reduce for a reduce action.
func (a Action) ReduceProduction() ProductionHandle { return ProductionHandle(-int32(a)) }

// EOFAction is the unsigned encoding of an end-of-file action: 0 = error,
// 1 = accept, k > 1 = reduce production k-1.
type EOFAction uint32

// EOFActionKind classifies an EOFAction.
type EOFActionKind uint8

const (
	EOFActionError EOFActionKind = iota
	EOFActionAccept
	EOFActionReduce
)

func (a EOFAction) Kind() EOFActionKind {
	switch {
	case a == 0:
		return EOFActionError
	case a == 1:
		return EOFActionAccept
	default:
		return EOFActionReduce
	}
}

func (a EOFAction) ReduceProduction() ProductionHandle { return ProductionHandle(a - 1) }

type lrActionEntry struct {
	terminal TokenSymbolHandle
	action   Action
}

type lrGotoEntry struct {
	nonterminal NonterminalHandle
	state       uint32
}

type lrState struct {
	actions    []lrActionEntry // sorted by terminal
	eofActions []EOFAction     // len 1 for conflict-free, any length for GLR
	gotos      []lrGotoEntry   // sorted by nonterminal
}

// LR is a shift-reduce parser table, decoded from a StateMachine blob
// (spec.md §4.7). glr is true for a GLR(1) table, where states may carry
// more than one applicable action or EOF action.
type LR struct {
	states []lrState
	glr    bool

	prepareOnce sync.Once
	actionMaps  []map[TokenSymbolHandle]Action
	gotoMaps    []map[NonterminalHandle]uint32
}

// LR returns the grammar's parser table, or nil if none is present. A
// GLR(1) table (kind 4) takes priority over an LR(1) one (kind 3) if,
// implausibly, both are present.
func (g *Grammar) LR() (*LR, error) {
	if blob, ok, err := g.stateMachineBlob(smKindGLR); err != nil {
		return nil, err
	} else if ok {
		return decodeLR(blob, true)
	}
	if blob, ok, err := g.stateMachineBlob(smKindLR); err != nil {
		return nil, err
	} else if ok {
		return decodeLR(blob, false)
	}
	return nil, nil
}

// decodeLR parses an LR/GLR blob. Layout (little-endian u32 unless
// noted):
//
//	header:    stateCount
//	per state: actionCount, gotoCount, eofActionCount
//	action pool:     actionCount-total * (terminal u32, action i32)
//	goto pool:       gotoCount-total * (nonterminal u32, state u32)
//	eofAction pool:  eofActionCount-total * (eofAction u32)
func decodeLR(blob []byte, glr bool) (*LR, error) {
	if len(blob) < 4 {
		return nil, fmt.Errorf("%w: LR blob too short", ErrInvalidData)
	}
	stateCount := binary.LittleEndian.Uint32(blob[0:4])
	off := 4

	type counts struct{ actions, gotos, eofs uint32 }
	per := make([]counts, stateCount)
	for s := uint32(0); s < stateCount; s++ {
		if off+12 > len(blob) {
			return nil, fmt.Errorf("%w: LR state header truncated", ErrInvalidData)
		}
		per[s] = counts{
			actions: binary.LittleEndian.Uint32(blob[off : off+4]),
			gotos:   binary.LittleEndian.Uint32(blob[off+4 : off+8]),
			eofs:    binary.LittleEndian.Uint32(blob[off+8 : off+12]),
		}
		off += 12
	}
	if !glr {
		for _, c := range per {
			if c.eofs != 1 {
				return nil, fmt.Errorf("%w: conflict-free LR state must carry exactly one EOF action", ErrInvalidData)
			}
		}
	}

	lr := &LR{states: make([]lrState, stateCount), glr: glr}

	for s := uint32(0); s < stateCount; s++ {
		n := per[s].actions
		if off+int(n)*8 > len(blob) {
			return nil, fmt.Errorf("%w: LR action pool truncated", ErrInvalidData)
		}
		entries := make([]lrActionEntry, n)
		for i := uint32(0); i < n; i++ {
			base := off + int(i)*8
			entries[i] = lrActionEntry{
				terminal: TokenSymbolHandle(binary.LittleEndian.Uint32(blob[base : base+4])),
				action:   Action(int32(binary.LittleEndian.Uint32(blob[base+4 : base+8]))),
			}
		}
		lr.states[s].actions = entries
		off += int(n) * 8
	}

	for s := uint32(0); s < stateCount; s++ {
		n := per[s].gotos
		if off+int(n)*8 > len(blob) {
			return nil, fmt.Errorf("%w: LR goto pool truncated", ErrInvalidData)
		}
		entries := make([]lrGotoEntry, n)
		for i := uint32(0); i < n; i++ {
			base := off + int(i)*8
			entries[i] = lrGotoEntry{
				nonterminal: NonterminalHandle(binary.LittleEndian.Uint32(blob[base : base+4])),
				state:       binary.LittleEndian.Uint32(blob[base+4 : base+8]),
			}
		}
		lr.states[s].gotos = entries
		off += int(n) * 8
	}

	for s := uint32(0); s < stateCount; s++ {
		n := per[s].eofs
		if off+int(n)*4 > len(blob) {
			return nil, fmt.Errorf("%w: LR EOF-action pool truncated", ErrInvalidData)
		}
		entries := make([]EOFAction, n)
		for i := uint32(0); i < n; i++ {
			base := off + int(i)*4
			entries[i] = EOFAction(binary.LittleEndian.Uint32(blob[base : base+4]))
		}
		lr.states[s].eofActions = entries
		off += int(n) * 4
	}

	return lr, nil
}

// StateCount returns the number of states in the table.
func (lr *LR) StateCount() int { return len(lr.states) }

// GLR reports whether this table may carry more than one applicable
// action per (state, terminal) or per (state, EOF).
func (lr *LR) GLR() bool { return lr.glr }

// prepare lazily builds per-state hash maps for the conflict-free single-
// action query path, per spec.md §5/§9 "lazy caches" and "prepareForParsing".
func (lr *LR) prepare() {
	lr.prepareOnce.Do(func() {
		lr.actionMaps = make([]map[TokenSymbolHandle]Action, len(lr.states))
		lr.gotoMaps = make([]map[NonterminalHandle]uint32, len(lr.states))
		for i, st := range lr.states {
			am := make(map[TokenSymbolHandle]Action, len(st.actions))
			for _, e := range st.actions {
				am[e.terminal] = e.action
			}
			lr.actionMaps[i] = am

			gm := make(map[NonterminalHandle]uint32, len(st.gotos))
			for _, e := range st.gotos {
				gm[e.nonterminal] = e.state
			}
			lr.gotoMaps[i] = gm
		}
	})
}

// PrepareForParsing eagerly builds the lazy lookup caches. Callers sharing
// an LR table across goroutines must call this once before any concurrent
// query (spec.md §5).
func (lr *LR) PrepareForParsing() { lr.prepare() }

// GetAction returns the single action for (state, terminal). GLR tables
// reject this query with NotSupported since more than one action may
// apply; use Actions instead.
func (lr *LR) GetAction(state int, terminal TokenSymbolHandle) (Action, error) {
	if lr.glr {
		return 0, fmt.Errorf("%w: GetAction is unsupported on a GLR table, use Actions", ErrNotSupported)
	}
	if state < 0 || state >= len(lr.states) {
		return 0, fmt.Errorf("%w: LR state %d out of range", ErrInvalidHandle, state)
	}
	lr.prepare()
	return lr.actionMaps[state][terminal], nil
}

// GetEndOfFileAction returns the single EOF action for state. GLR tables
// reject this query with NotSupported; use EOFActions instead.
func (lr *LR) GetEndOfFileAction(state int) (EOFAction, error) {
	if lr.glr {
		return 0, fmt.Errorf("%w: GetEndOfFileAction is unsupported on a GLR table, use EOFActions", ErrNotSupported)
	}
	if state < 0 || state >= len(lr.states) {
		return 0, fmt.Errorf("%w: LR state %d out of range", ErrInvalidHandle, state)
	}
	if len(lr.states[state].eofActions) == 0 {
		return 0, nil
	}
	return lr.states[state].eofActions[0], nil
}

// GetGoto returns the destination state for (state, nonterminal).
// KeyNotFound if the state's Goto list has no entry for nonterminal.
func (lr *LR) GetGoto(state int, nonterminal NonterminalHandle) (uint32, error) {
	if state < 0 || state >= len(lr.states) {
		return 0, fmt.Errorf("%w: LR state %d out of range", ErrInvalidHandle, state)
	}
	lr.prepare()
	if s, ok := lr.gotoMaps[state][nonterminal]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: no goto for nonterminal %d at state %d", ErrKeyNotFound, nonterminal, state)
}

// Actions returns every (terminal, action) pair applicable at state, the
// enumerable view GLR drivers consume (spec.md §4.7).
func (lr *LR) Actions(state int) ([]TokenSymbolHandle, []Action) {
	st := lr.states[state]
	terms := make([]TokenSymbolHandle, len(st.actions))
	acts := make([]Action, len(st.actions))
	for i, e := range st.actions {
		terms[i] = e.terminal
		acts[i] = e.action
	}
	return terms, acts
}

// EOFActions returns every EOF action applicable at state.
func (lr *LR) EOFActions(state int) []EOFAction {
	out := make([]EOFAction, len(lr.states[state].eofActions))
	copy(out, lr.states[state].eofActions)
	return out
}

// Gotos returns every (nonterminal, state) pair at state.
func (lr *LR) Gotos(state int) ([]NonterminalHandle, []uint32) {
	st := lr.states[state]
	nts := make([]NonterminalHandle, len(st.gotos))
	dests := make([]uint32, len(st.gotos))
	for i, e := range st.gotos {
		nts[i] = e.nonterminal
		dests[i] = e.state
	}
	return nts, dests
}

// LRStateSpec describes one state for GrammarBuilder.AddLR.
type LRStateSpec struct {
	Actions    map[TokenSymbolHandle]Action
	Gotos      map[NonterminalHandle]uint32
	EOFActions []EOFAction // exactly 1 per state for LR(1); more than 1 in any state makes the table GLR
}

// AddLR encodes states as an LR/GLR blob and adds it to the grammar as a
// StateMachine row. The table is built as GLR (kind 4) if any state
// carries more than one EOF action; otherwise LR(1) (kind 3).
func (b *GrammarBuilder) AddLR(states []LRStateSpec) error {
	glr := false
	for _, st := range states {
		if len(st.EOFActions) > 1 {
			glr = true
			break
		}
	}
	blob, err := encodeLR(states, glr)
	if err != nil {
		return err
	}
	kind := smKindLR
	if glr {
		kind = smKindGLR
	}
	return b.AddStateMachine(kind, blob)
}

func encodeLR(states []LRStateSpec, glr bool) ([]byte, error) {
	var buf []byte
	put32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}
	puti32 := func(v int32) { put32(uint32(v)) }

	put32(uint32(len(states)))
	for _, st := range states {
		if !glr && len(st.EOFActions) != 1 {
			return nil, fmt.Errorf("%w: a conflict-free LR(1) state must declare exactly one EOF action", ErrInvalidOperation)
		}
		put32(uint32(len(st.Actions)))
		put32(uint32(len(st.Gotos)))
		put32(uint32(len(st.EOFActions)))
	}

	for _, st := range states {
		terms := sortedTerminals(st.Actions)
		for _, t := range terms {
			put32(uint32(t))
			puti32(int32(st.Actions[t]))
		}
	}
	for _, st := range states {
		nts := sortedNonterminals(st.Gotos)
		for _, n := range nts {
			put32(uint32(n))
			put32(st.Gotos[n])
		}
	}
	for _, st := range states {
		for _, e := range st.EOFActions {
			put32(uint32(e))
		}
	}
	return buf, nil
}

func sortedTerminals(m map[TokenSymbolHandle]Action) []TokenSymbolHandle {
	out := make([]TokenSymbolHandle, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedNonterminals(m map[NonterminalHandle]uint32) []NonterminalHandle {
	out := make([]NonterminalHandle, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import "testing"

func codeUnits(s string) []uint32 {
	out := make([]uint32, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = uint32(s[i])
	}
	return out
}

// buildIdentifierDFA builds a two-state DFA: state 0 is the start state,
// state 1 accepts ID and self-loops on [0-9a-z], mirroring a minimal
// identifier tokenizer.
func buildIdentifierDFA(t *testing.T) (*Grammar, TokenSymbolHandle) {
	t.Helper()
	b := NewGrammarBuilder(nil)
	id, err := b.AddTerminal("ID", TokenSymbolTerminal)
	if err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	start, err := b.AddNonterminal("Start", 0, 0)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("Ident", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
	}

	alnum := []DFAEdgeSpec{
		{KeyFrom: '0', KeyTo: '9', Target: 1},
		{KeyFrom: 'a', KeyTo: 'z', Target: 1},
	}
	states := []DFAStateSpec{
		{Edges: alnum},
		{Edges: alnum, Accepts: []TokenSymbolHandle{id}},
	}
	if err := b.AddDFA(states); err != nil {
		t.Fatalf("AddDFA: %v", err)
	}

	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g, err := LoadBytes(data, nil)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g, id
}

func TestDFA_MatchLongestMatchScenarios(t *testing.T) {
	g, id := buildIdentifierDFA(t)
	dfa, err := g.DFA()
	if err != nil {
		t.Fatalf("DFA: %v", err)
	}
	if dfa == nil {
		t.Fatal("DFA() = nil, want a decoded DFA")
	}
	if dfa.Conflicts() {
		t.Error("Conflicts() = true, want false for a single-accept-per-state DFA")
	}

	tests := []struct {
		name         string
		input        string
		isFinal      bool
		wantOK       bool
		wantConsumed int
		wantState    int
	}{
		{"trailing delimiter, final", "foo7 ", true, true, 4, 1},
		{"exhausted input, not final, withheld", "foo7", false, false, 4, 1},
		{"exhausted input, final", "foo7", true, true, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok, consumed, state := dfa.Match(codeUnits(tt.input), tt.isFinal)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if consumed != tt.wantConsumed {
				t.Errorf("consumed = %d, want %d", consumed, tt.wantConsumed)
			}
			if state != tt.wantState {
				t.Errorf("endState = %d, want %d", state, tt.wantState)
			}
			if tt.wantOK && token != id {
				t.Errorf("token = %d, want %d", token, id)
			}
		})
	}
}

func TestDFA_MatchNoAccept(t *testing.T) {
	g, _ := buildIdentifierDFA(t)
	dfa, err := g.DFA()
	if err != nil {
		t.Fatalf("DFA: %v", err)
	}
	_, ok, consumed, state := dfa.Match(codeUnits(" "), true)
	if ok {
		t.Errorf("ok = true for input with no accept, want false")
	}
	if consumed != 0 || state != 0 {
		t.Errorf("consumed/state = %d/%d, want 0/0 when nothing was ever accepted", consumed, state)
	}
}

func TestDFA_NextStateASCIIFastPathMatchesSlowPath(t *testing.T) {
	g, _ := buildIdentifierDFA(t)
	dfa, err := g.DFA()
	if err != nil {
		t.Fatalf("DFA: %v", err)
	}
	dfa.PrepareForParsing()
	for c := uint32(0); c < 128; c++ {
		fast := dfa.NextState(0, c)
		slow := dfa.nextStateSlow(0, c)
		if fast != slow {
			t.Fatalf("NextState(0, %d) = %d via fast path, %d via slow path", c, fast, slow)
		}
	}
}

func TestGrammarBuilder_AddDFA_RejectsUnorderedEdges(t *testing.T) {
	b := NewGrammarBuilder(nil)
	states := []DFAStateSpec{
		{Edges: []DFAEdgeSpec{
			{KeyFrom: 'b', KeyTo: 'c', Target: 0},
			{KeyFrom: 'a', KeyTo: 'a', Target: 0},
		}},
	}
	if err := b.AddDFA(states); err == nil {
		t.Fatal("AddDFA with unordered edges = nil error, want ErrInvalidData")
	}
}

func TestDFA_WithConflicts(t *testing.T) {
	b := NewGrammarBuilder(nil)
	kw, err := b.AddTerminal("KwIf", TokenSymbolTerminal)
	if err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	id, err := b.AddTerminal("ID", TokenSymbolTerminal)
	if err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	start, err := b.AddNonterminal("Start", 0, 0)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("Conflicts", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
	}
	states := []DFAStateSpec{
		{Accepts: []TokenSymbolHandle{kw, id}},
	}
	if err := b.AddDFA(states); err != nil {
		t.Fatalf("AddDFA: %v", err)
	}
	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g, err := LoadBytes(data, nil)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	defer g.Close()

	dfa, err := g.DFA()
	if err != nil {
		t.Fatalf("DFA: %v", err)
	}
	if !dfa.Conflicts() {
		t.Error("Conflicts() = false, want true for a state with two accepts")
	}
	accs := dfa.Accepts(0)
	if len(accs) != 2 {
		t.Fatalf("Accepts(0) = %v, want 2 entries", accs)
	}
}

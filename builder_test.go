// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"errors"
	"testing"
)

func TestGrammarBuilder_RejectsTokenSymbolOrdering(t *testing.T) {
	b := NewGrammarBuilder(nil)
	if _, err := b.AddTokenSymbol("NoiseComment", TokenSymbolNoise); err != nil {
		t.Fatalf("AddTokenSymbol: %v", err)
	}
	if _, err := b.AddTerminal("ID", TokenSymbolTerminal); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("AddTerminal after a non-terminal token symbol = %v, want ErrInvalidOperation", err)
	}
}

func TestGrammarBuilder_RejectsTerminalWithGroupStart(t *testing.T) {
	b := NewGrammarBuilder(nil)
	if _, err := b.AddTerminal("Quote", TokenSymbolGroupStart); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("AddTerminal with GroupStart = %v, want ErrInvalidOperation", err)
	}
}

func TestGrammarBuilder_RejectsProductionWithoutAwaitingNonterminal(t *testing.T) {
	b := NewGrammarBuilder(nil)
	if _, err := b.AddProduction(0); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("AddProduction with no nonterminal declared = %v, want ErrInvalidOperation", err)
	}
}

func TestGrammarBuilder_RejectsMemberWithoutAwaitingProduction(t *testing.T) {
	b := NewGrammarBuilder(nil)
	id, err := b.AddTerminal("ID", TokenSymbolTerminal)
	if err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	if err := b.AddProductionMember(NewEntityHandle(EntityKindTokenSymbol, uint32(id))); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("AddProductionMember with no production declared = %v, want ErrInvalidOperation", err)
	}
}

func TestGrammarBuilder_RejectsUnresolvedQuotaAtBuild(t *testing.T) {
	b := NewGrammarBuilder(nil)
	id, err := b.AddTerminal("ID", TokenSymbolTerminal)
	if err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	start, err := b.AddNonterminal("Start", 0, 1)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("Incomplete", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
	}
	_ = id
	if _, err := b.Build(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Build with an unconsumed production quota = %v, want ErrInvalidOperation", err)
	}
}

func TestGrammarBuilder_RejectsGrammarInfoSetTwice(t *testing.T) {
	b := NewGrammarBuilder(nil)
	start, err := b.AddNonterminal("Start", 0, 0)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("First", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
	}
	if err := b.SetGrammarInfo("Second", start, 0); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("SetGrammarInfo called twice = %v, want ErrInvalidOperation", err)
	}
}

func TestGrammarBuilder_RejectsDuplicateStateMachineKind(t *testing.T) {
	b := NewGrammarBuilder(nil)
	if err := b.AddStateMachine(smKindLR, []byte{1, 2, 3}); err != nil {
		t.Fatalf("AddStateMachine: %v", err)
	}
	if err := b.AddStateMachine(smKindLR, []byte{4, 5, 6}); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("AddStateMachine with a duplicate kind = %v, want ErrInvalidData", err)
	}
}

func TestGrammarBuilder_RejectsDuplicateSpecialName(t *testing.T) {
	b := NewGrammarBuilder(nil)
	id, err := b.AddTerminal("ID", TokenSymbolTerminal)
	if err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	h := NewEntityHandle(EntityKindTokenSymbol, uint32(id))
	if err := b.AddSpecialName("Identifier", h); err != nil {
		t.Fatalf("AddSpecialName: %v", err)
	}
	if err := b.AddSpecialName("Identifier", h); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("AddSpecialName with a duplicate name = %v, want ErrInvalidData", err)
	}
}

func TestGrammarBuilder_GroupNestingQuota(t *testing.T) {
	b := NewGrammarBuilder(nil)
	lparen, err := b.AddTerminal("(", 0)
	if err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	rparen, err := b.AddTerminal(")", TokenSymbolTerminal)
	if err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	outer, err := b.AddGroup("Paren", lparen, lparen, rparen, GroupEndingModeClosed, 1)
	if err != nil {
		t.Fatalf("AddGroup(outer): %v", err)
	}
	inner, err := b.AddGroup("Inner", lparen, lparen, rparen, GroupEndingModeClosed, 0)
	if err != nil {
		t.Fatalf("AddGroup(inner): %v", err)
	}
	if err := b.AddGroupNesting(inner); err != nil {
		t.Fatalf("AddGroupNesting: %v", err)
	}

	start, err := b.AddNonterminal("Start", 0, 0)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("Groups", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
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

	info, err := g.Group(outer)
	if err != nil {
		t.Fatalf("Group(outer): %v", err)
	}
	if len(info.NestedGroups) != 1 || info.NestedGroups[0] != inner {
		t.Errorf("outer group nested = %v, want [%d]", info.NestedGroups, inner)
	}
}

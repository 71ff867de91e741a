// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"errors"
	"testing"
)

// TestGrammar_LoadRejectsTruncatedDFABlob bypasses AddDFA's own well-formed
// encoder to attach a deliberately truncated DFA blob, and confirms that
// content validation at load time catches it instead of panicking or
// silently accepting garbage.
func TestGrammar_LoadRejectsTruncatedDFABlob(t *testing.T) {
	b := NewGrammarBuilder(nil)
	start, err := b.AddNonterminal("Start", 0, 0)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("Truncated", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
	}
	if err := b.AddStateMachine(smKindDFANoConflicts, []byte{1, 2, 3}); err != nil {
		t.Fatalf("AddStateMachine: %v", err)
	}
	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := LoadBytes(data, nil); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("LoadBytes with a truncated DFA blob = %v, want ErrInvalidData", err)
	}
}

// TestGrammar_SkipContentValidationDefersTruncatedBlobError confirms that
// skipping content validation at load time lets the malformed grammar
// through, and that a later explicit Validate(true) still catches it.
func TestGrammar_SkipContentValidationDefersTruncatedBlobError(t *testing.T) {
	b := NewGrammarBuilder(nil)
	start, err := b.AddNonterminal("Start", 0, 0)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("Deferred", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
	}
	if err := b.AddStateMachine(smKindDFANoConflicts, []byte{1, 2, 3}); err != nil {
		t.Fatalf("AddStateMachine: %v", err)
	}
	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	g, err := LoadBytes(data, &LoadOptions{SkipContentValidation: true})
	if err != nil {
		t.Fatalf("LoadBytes with SkipContentValidation: %v", err)
	}
	defer g.Close()

	if err := g.Validate(true); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("Validate(true) on a deferred truncated DFA blob = %v, want ErrInvalidData", err)
	}
}

// TestGrammar_ValidateRejectsOutOfRangeDFAAccept builds a structurally
// well-formed DFA whose single accept symbol references a token symbol that
// does not exist, and confirms the content validation pass's handle check
// catches it.
func TestGrammar_ValidateRejectsOutOfRangeDFAAccept(t *testing.T) {
	b := NewGrammarBuilder(nil)
	start, err := b.AddNonterminal("Start", 0, 0)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("BadAccept", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
	}
	states := []DFAStateSpec{
		{Accepts: []TokenSymbolHandle{TokenSymbolHandle(7)}},
	}
	if err := b.AddDFA(states); err != nil {
		t.Fatalf("AddDFA: %v", err)
	}
	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := LoadBytes(data, nil); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("LoadBytes with an out-of-range DFA accept = %v, want ErrInvalidHandle", err)
	}
}

// TestGrammar_LoadRejectsDuplicateStateMachineKindInHandCraftedFile builds a
// grammar with two distinct StateMachine kinds through GrammarBuilder (which
// already forbids duplicates itself via seenSMKinds), then patches the
// second row's kind byte directly in the encoded bytes to collide with the
// first, simulating a hand-crafted file that never went through the
// builder. validateStateMachineKindsUnique must catch it unconditionally.
func TestGrammar_LoadRejectsDuplicateStateMachineKindInHandCraftedFile(t *testing.T) {
	b := NewGrammarBuilder(nil)
	start, err := b.AddNonterminal("Start", 0, 0)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("Dup", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
	}
	if err := b.AddStateMachine(smKindDFANoConflicts, []byte{0, 0, 0, 0, 0, 0, 0, 0}); err != nil {
		t.Fatalf("AddStateMachine(dfa): %v", err)
	}
	if err := b.AddStateMachine(smKindLR, []byte{0, 0, 0, 0}); err != nil {
		t.Fatalf("AddStateMachine(lr): %v", err)
	}
	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	g, err := LoadBytes(data, nil)
	if err != nil {
		t.Fatalf("LoadBytes on well-formed data: %v", err)
	}
	info := g.tables.tables[tblStateMachine]
	kindWidth := info.colWidths[0]
	row2Off := g.streams.table.offset + info.colBase[0] + uint32(kindWidth)
	g.Close()

	corrupted := append([]byte(nil), data...)
	corrupted[row2Off] = smKindDFANoConflicts

	if _, err := LoadBytes(corrupted, nil); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("LoadBytes with duplicate state machine kinds = %v, want ErrInvalidData", err)
	}
}

// TestGrammar_LoadRejectsDuplicateSpecialNameInHandCraftedFile mirrors
// TestGrammar_LoadRejectsDuplicateStateMachineKindInHandCraftedFile for
// SpecialName: two distinct names are added via the builder, then the
// second row's name reference is patched to match the first's, bypassing
// AddSpecialName's own seenSpecialName guard.
func TestGrammar_LoadRejectsDuplicateSpecialNameInHandCraftedFile(t *testing.T) {
	b := NewGrammarBuilder(nil)
	start, err := b.AddNonterminal("Start", 0, 0)
	if err != nil {
		t.Fatalf("AddNonterminal: %v", err)
	}
	if err := b.SetGrammarInfo("Dup", start, 0); err != nil {
		t.Fatalf("SetGrammarInfo: %v", err)
	}
	h := NewEntityHandle(EntityKindNonterminal, uint32(start))
	if err := b.AddSpecialName("First", h); err != nil {
		t.Fatalf("AddSpecialName(First): %v", err)
	}
	if err := b.AddSpecialName("Second", h); err != nil {
		t.Fatalf("AddSpecialName(Second): %v", err)
	}
	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	g, err := LoadBytes(data, nil)
	if err != nil {
		t.Fatalf("LoadBytes on well-formed data: %v", err)
	}
	info := g.tables.tables[tblSpecialName]
	nameWidth := info.colWidths[0]
	firstNameRaw := g.tables.cell(tblSpecialName, 0, 1)
	row2Off := g.streams.table.offset + info.colBase[0] + uint32(nameWidth)
	g.Close()

	corrupted := append([]byte(nil), data...)
	putUint(corrupted, row2Off, nameWidth, firstNameRaw)

	if _, err := LoadBytes(corrupted, nil); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("LoadBytes with duplicate special names = %v, want ErrInvalidData", err)
	}
}

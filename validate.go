// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import "fmt"

// Validate re-runs the grammar's validation passes. Container and schema
// validation (stream/table/row bounds, declared-vs-schema row widths,
// uniqueness of stream and state-machine kinds) always ran at load time
// and cannot be disabled; content is the monotonicity/range/handle-
// resolution pass, run at load time unless LoadOptions.SkipContentValidation
// was set. A caller who skipped it may run it later via this method,
// mirroring pe.File.Parse being separate from pe.New (spec.md §4.8,
// SPEC_FULL.md §4).
func (g *Grammar) Validate(content bool) error {
	if err := g.validateSchema(); err != nil {
		return err
	}
	if !content {
		return nil
	}
	return g.validateContent()
}

// validateSchema re-checks invariants that parseTableStream already
// enforces once at parse time, plus the uniqueness checks a hand-crafted
// file could violate without ever going through GrammarBuilder; kept here
// so Validate is a complete, re-entrant entry point even if called
// standalone on an already-loaded Grammar (e.g. after
// LoadOptions.SkipContentValidation).
func (g *Grammar) validateSchema() error {
	if g.tables.tables[tblGrammar].present && g.tables.counts[tblGrammar] != 1 {
		return fmt.Errorf("%w: Grammar table must have exactly one row", ErrInvalidData)
	}
	if err := g.validateStateMachineKindsUnique(); err != nil {
		return err
	}
	if err := g.validateSpecialNamesUnique(); err != nil {
		return err
	}
	return nil
}

// validateStateMachineKindsUnique rejects two StateMachine rows sharing a
// kind, mirroring GrammarBuilder.AddStateMachine's seenSMKinds check
// (builder.go) for files that never went through the builder.
func (g *Grammar) validateStateMachineKindsUnique() error {
	n := g.tables.counts[tblStateMachine]
	seen := make(map[byte]bool, n)
	for row := uint32(1); row <= n; row++ {
		kind := byte(g.tables.cell(tblStateMachine, 0, row))
		if seen[kind] {
			return fmt.Errorf("%w: duplicate state machine kind %d", ErrInvalidData, kind)
		}
		seen[kind] = true
	}
	return nil
}

// validateSpecialNamesUnique rejects two SpecialName rows sharing a name,
// mirroring GrammarBuilder.AddSpecialName's seenSpecialName check
// (builder.go) for files that never went through the builder.
func (g *Grammar) validateSpecialNamesUnique() error {
	n := g.tables.counts[tblSpecialName]
	seen := make(map[string]bool, n)
	for row := uint32(1); row <= n; row++ {
		nameRef := StringHandle(g.tables.cell(tblSpecialName, 0, row))
		name, err := g.strings.get(nameRef)
		if err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate special name %q", ErrInvalidData, name)
		}
		seen[name] = true
	}
	return nil
}

// validateContent runs the monotonicity/ordering/handle-resolution pass
// of spec.md §4.8, surfacing the first violation found.
func (g *Grammar) validateContent() error {
	if err := g.validateNonterminalProductionRanges(); err != nil {
		return err
	}
	if err := g.validateProductionMemberRanges(); err != nil {
		return err
	}
	if err := g.validateGroupNestingRanges(); err != nil {
		return err
	}
	if err := g.validateProductionMembers(); err != nil {
		return err
	}
	if err := g.validateGroupHandles(); err != nil {
		return err
	}
	if err := g.validateSpecialNames(); err != nil {
		return err
	}
	if err := g.validateStateMachines(); err != nil {
		return err
	}
	return nil
}

func (g *Grammar) validateNonterminalProductionRanges() error {
	n := g.NonterminalCount()
	prodCount := g.ProductionCount()
	prev := uint32(1)
	for row := uint32(1); row <= n; row++ {
		first := g.productionFirst(row)
		if first < prev || first > prodCount+1 {
			return fmt.Errorf("%w: Nonterminal[%d].ProductionFirst=%d violates monotonicity", ErrInvalidData, row, first)
		}
		prev = first
	}
	return nil
}

func (g *Grammar) validateProductionMemberRanges() error {
	n := g.ProductionCount()
	memberCount := g.tables.counts[tblProductionMember]
	prev := uint32(1)
	for row := uint32(1); row <= n; row++ {
		first := g.memberFirst(row)
		if first < prev || first > memberCount+1 {
			return fmt.Errorf("%w: Production[%d].MemberFirst=%d violates monotonicity", ErrInvalidData, row, first)
		}
		prev = first
	}
	return nil
}

func (g *Grammar) validateGroupNestingRanges() error {
	n := g.GroupCount()
	nestingCount := g.tables.counts[tblGroupNesting]
	prev := uint32(1)
	for row := uint32(1); row <= n; row++ {
		first := g.groupNestingFirst(row)
		if first < prev || first > nestingCount+1 {
			return fmt.Errorf("%w: Group[%d].NestingFirst=%d violates monotonicity", ErrInvalidData, row, first)
		}
		prev = first
	}
	return nil
}

func (g *Grammar) validateProductionMembers() error {
	n := g.tables.counts[tblProductionMember]
	tsCount := g.TokenSymbolCount()
	ntCount := g.NonterminalCount()
	for row := uint32(1); row <= n; row++ {
		raw := g.tables.cell(tblProductionMember, 0, row)
		h := decodeCodedMember(raw)
		switch h.Kind() {
		case EntityKindTokenSymbol:
			if h.Row() == 0 || h.Row() > tsCount {
				return fmt.Errorf("%w: ProductionMember[%d] references unknown token symbol %d", ErrInvalidHandle, row, h.Row())
			}
		case EntityKindNonterminal:
			if h.Row() == 0 || h.Row() > ntCount {
				return fmt.Errorf("%w: ProductionMember[%d] references unknown nonterminal %d", ErrInvalidHandle, row, h.Row())
			}
		default:
			return fmt.Errorf("%w: ProductionMember[%d] has an unrecognized entity tag", ErrInvalidData, row)
		}
	}
	return nil
}

func (g *Grammar) validateGroupHandles() error {
	n := g.GroupCount()
	tsCount := g.TokenSymbolCount()
	groupCount := n
	for row := uint32(1); row <= n; row++ {
		container := g.tables.cell(tblGroup, 1, row)
		start := g.tables.cell(tblGroup, 2, row)
		end := g.tables.cell(tblGroup, 3, row)
		for _, h := range []uint32{container, start, end} {
			if h == 0 || h > tsCount {
				return fmt.Errorf("%w: Group[%d] references unknown token symbol %d", ErrInvalidHandle, row, h)
			}
		}
	}
	nn := g.tables.counts[tblGroupNesting]
	for row := uint32(1); row <= nn; row++ {
		child := g.tables.cell(tblGroupNesting, 0, row)
		if child == 0 || child > groupCount {
			return fmt.Errorf("%w: GroupNesting[%d] references unknown group %d", ErrInvalidHandle, row, child)
		}
	}
	return nil
}

// validateSpecialNames checks each row's entity handle resolves to a real
// row; name uniqueness is a schema-tier concern handled unconditionally by
// validateSpecialNamesUnique instead.
func (g *Grammar) validateSpecialNames() error {
	n := g.SpecialNameCount()
	tsCount, ntCount, prodCount := g.TokenSymbolCount(), g.NonterminalCount(), g.ProductionCount()
	for row := uint32(1); row <= n; row++ {
		raw := g.tables.cell(tblSpecialName, 1, row)
		h := EntityHandle(raw)
		if h.IsNull() {
			return fmt.Errorf("%w: SpecialName[%d] references the null entity", ErrInvalidHandle, row)
		}
		var max uint32
		switch h.Kind() {
		case EntityKindTokenSymbol:
			max = tsCount
		case EntityKindNonterminal:
			max = ntCount
		case EntityKindProduction:
			max = prodCount
		default:
			return fmt.Errorf("%w: SpecialName[%d] has an unrecognized entity tag", ErrInvalidData, row)
		}
		if h.Row() == 0 || h.Row() > max {
			return fmt.Errorf("%w: SpecialName[%d] references unknown %s %d", ErrInvalidHandle, row, h.Kind(), h.Row())
		}
	}
	return nil
}

func (g *Grammar) validateStateMachines() error {
	if dfa, err := g.DFA(); err != nil {
		return err
	} else if dfa != nil {
		if err := validateDFAContent(dfa, g.TokenSymbolCount()); err != nil {
			return err
		}
	}
	if lr, err := g.LR(); err != nil {
		return err
	} else if lr != nil {
		if err := validateLRContent(lr, g.ProductionCount()); err != nil {
			return err
		}
	}
	return nil
}

func validateDFAContent(d *DFA, tsCount uint32) error {
	n := len(d.states)
	for i, st := range d.states {
		for j, e := range st.edges {
			if e.keyFrom > e.keyTo {
				return fmt.Errorf("%w: DFA state %d edge %d has keyFrom > keyTo", ErrInvalidData, i, j)
			}
			if j > 0 && st.edges[j-1].keyTo >= e.keyFrom {
				return fmt.Errorf("%w: DFA state %d edges are not strictly ordered", ErrInvalidData, i)
			}
			if e.target != 0 && int(e.target) >= n {
				return fmt.Errorf("%w: DFA state %d edge %d targets unknown state %d", ErrInvalidData, i, j, e.target)
			}
		}
		if st.hasDefault && int(st.defTarget) >= n {
			return fmt.Errorf("%w: DFA state %d default transition targets unknown state %d", ErrInvalidData, i, st.defTarget)
		}
		for _, a := range st.accepts {
			if a == 0 || uint32(a) > tsCount {
				return fmt.Errorf("%w: DFA state %d accepts unknown token symbol %d", ErrInvalidHandle, i, a)
			}
		}
	}
	return nil
}

func validateLRContent(lr *LR, prodCount uint32) error {
	n := len(lr.states)
	for i, st := range lr.states {
		for _, e := range st.actions {
			if e.action.Kind() == ActionShift && int(e.action.ShiftState()) >= n {
				return fmt.Errorf("%w: LR state %d shifts to unknown state %d", ErrInvalidData, i, e.action.ShiftState())
			}
			if e.action.Kind() == ActionReduce && (e.action.ReduceProduction() == 0 || uint32(e.action.ReduceProduction()) > prodCount) {
				return fmt.Errorf("%w: LR state %d reduces unknown production %d", ErrInvalidData, i, e.action.ReduceProduction())
			}
		}
		for _, e := range st.gotos {
			if int(e.state) >= n {
				return fmt.Errorf("%w: LR state %d gotos to unknown state %d", ErrInvalidData, i, e.state)
			}
		}
		for _, e := range st.eofActions {
			if e.Kind() == EOFActionReduce && (e.ReduceProduction() == 0 || uint32(e.ReduceProduction()) > prodCount) {
				return fmt.Errorf("%w: LR state %d EOF-reduces unknown production %d", ErrInvalidData, i, e.ReduceProduction())
			}
		}
	}
	return nil
}

// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package grammar reads the grammar table container format: a zero-copy,
// memory-mappable binary layout describing a context-free grammar's
// symbols, productions, lexical groups, and optional DFA/LR state
// machines, plus a staged builder for writing one.
package grammar

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// Default size-limit overrides, consumed when a LoadOptions field is left
// at its zero value, mirroring pe.Options's MaxCOFFSymbolsCount default.
const (
	defaultMaxTokenSymbols = MaxSymbolRowCount
	defaultMaxNonterminals = MaxSymbolRowCount
)

// LoadOptions configures Load and LoadBytes, mirroring pe.Options.
type LoadOptions struct {
	// SkipContentValidation skips the content-validation pass (spec.md
	// §4.8) at load time; the caller may run it later via Grammar.Validate.
	SkipContentValidation bool

	// MaxTokenSymbols overrides the TokenSymbol row-count ceiling enforced
	// at load time, by default MaxSymbolRowCount.
	MaxTokenSymbols uint32

	// MaxNonterminals overrides the Nonterminal row-count ceiling enforced
	// at load time, by default MaxSymbolRowCount.
	MaxNonterminals uint32

	// Logger is a custom structured logger; defaults to a filtered stdout
	// logger at LevelError, as in pe.Options.
	Logger log.Logger
}

// Grammar is a loaded, read-only view over a grammar container's byte
// buffer. Every accessor reads directly out of that buffer; nothing is
// copied into richer structures at load time (spec.md §3 "zero-copy").
type Grammar struct {
	data    []byte
	mapping mmap.MMap // non-nil only when loaded via Load (file-backed)
	f       *os.File

	major, minor uint16
	streams      streamTable

	strings stringHeap
	blobs   blobHeap
	tables  tableStream

	opts   *LoadOptions
	logger *log.Helper
}

func defaultLogger(l log.Logger) *log.Helper {
	if l == nil {
		l = log.NewStdLogger(os.Stdout)
		return log.NewHelper(log.NewFilter(l, log.FilterLevel(log.LevelError)))
	}
	return log.NewHelper(l)
}

// Load memory-maps the file at path read-only and parses it as a grammar
// container, exactly like pe.New.
func Load(path string, opts *LoadOptions) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	g, err := parseGrammar([]byte(data), opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}
	g.mapping = data
	g.f = f
	return g, nil
}

// LoadBytes parses data as a grammar container without any file or mmap
// involvement, exactly like pe.NewBytes. data is retained, not copied; the
// caller must not mutate it afterward (spec.md §3 Ownership).
func LoadBytes(data []byte, opts *LoadOptions) (*Grammar, error) {
	return parseGrammar(data, opts)
}

func parseGrammar(data []byte, opts *LoadOptions) (*Grammar, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	effective := *opts
	if effective.MaxTokenSymbols == 0 {
		effective.MaxTokenSymbols = defaultMaxTokenSymbols
	}
	if effective.MaxNonterminals == 0 {
		effective.MaxNonterminals = defaultMaxNonterminals
	}

	g := &Grammar{
		data:   data,
		opts:   &effective,
		logger: defaultLogger(opts.Logger),
	}

	major, minor, streams, err := parseContainerHeader(data)
	if err != nil {
		return nil, err
	}
	g.major, g.minor, g.streams = major, minor, streams
	g.logger.Debugf("grammar: parsed container header, version %d.%d, %d streams", major, minor, len(streams.raw))

	var stringData, blobData []byte
	if streams.hasStrings {
		stringData = data[streams.strings.offset : streams.strings.offset+streams.strings.length]
	}
	if streams.hasBlob {
		blobData = data[streams.blob.offset : streams.blob.offset+streams.blob.length]
	}

	sh, err := newStringHeap(stringData)
	if err != nil {
		return nil, err
	}
	g.strings = sh
	g.blobs = newBlobHeap(blobData)

	tableData := data[streams.table.offset : streams.table.offset+streams.table.length]
	stringSmall := len(stringData) <= 65535
	blobSmall := len(blobData) <= 65535
	ts, err := parseTableStream(tableData, stringSmall, blobSmall)
	if err != nil {
		return nil, err
	}
	g.tables = ts

	if ts.counts[tblTokenSymbol] > effective.MaxTokenSymbols {
		return nil, fmt.Errorf("%w: TokenSymbol row count %d exceeds configured limit %d",
			ErrSizeLimitExceeded, ts.counts[tblTokenSymbol], effective.MaxTokenSymbols)
	}
	if ts.counts[tblNonterminal] > effective.MaxNonterminals {
		return nil, fmt.Errorf("%w: Nonterminal row count %d exceeds configured limit %d",
			ErrSizeLimitExceeded, ts.counts[tblNonterminal], effective.MaxNonterminals)
	}
	// Production, ProductionMember, Group, GroupNesting, StateMachine, and
	// SpecialName have no per-grammar LoadOptions override; a hand-crafted
	// file is still bound by MaxRowCount (spec.md §3), the same ceiling
	// GrammarBuilder enforces row-by-row as it builds one.
	for _, k := range []int{tblProduction, tblProductionMember, tblGroup, tblGroupNesting, tblStateMachine, tblSpecialName} {
		if ts.counts[k] > MaxRowCount {
			return nil, fmt.Errorf("%w: %s row count %d exceeds %d",
				ErrSizeLimitExceeded, tableKindNames[k], ts.counts[k], MaxRowCount)
		}
	}

	if !effective.SkipContentValidation {
		if err := g.Validate(true); err != nil {
			return nil, err
		}
	} else {
		if err := g.Validate(false); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Close releases the file mapping, if any. It is a no-op for grammars
// loaded via LoadBytes.
func (g *Grammar) Close() error {
	if g.mapping != nil {
		if err := g.mapping.Unmap(); err != nil {
			return err
		}
		g.mapping = nil
	}
	if g.f != nil {
		if err := g.f.Close(); err != nil {
			return err
		}
		g.f = nil
	}
	return nil
}

// ToBytes returns a copy of the grammar's original byte buffer. Because
// Grammar is strictly read-only after load (spec.md §3 Ownership), this
// trivially satisfies the round-trip law in spec.md §8: re-loading the
// result reproduces an identical buffer byte-for-byte.
func (g *Grammar) ToBytes() []byte {
	out := make([]byte, len(g.data))
	copy(out, g.data)
	return out
}

// Version returns the container's major and minor version.
func (g *Grammar) Version() (major, minor uint16) { return g.major, g.minor }

// Name returns the grammar's name, from the Grammar table's single row.
func (g *Grammar) Name() (string, error) {
	if !g.tables.tables[tblGrammar].present {
		return "", nil
	}
	nameRef := StringHandle(g.tables.cell(tblGrammar, 0, 1))
	return g.strings.get(nameRef)
}

// StartNonterminal returns the grammar's start symbol.
func (g *Grammar) StartNonterminal() (NonterminalHandle, error) {
	if !g.tables.tables[tblGrammar].present {
		return 0, fmt.Errorf("%w: grammar has no Grammar row", ErrInvalidData)
	}
	return NonterminalHandle(g.tables.cell(tblGrammar, 1, 1)), nil
}

// Flags returns the grammar-level flag bitset.
func (g *Grammar) Flags() (GrammarFlag, error) {
	if !g.tables.tables[tblGrammar].present {
		return 0, nil
	}
	return GrammarFlag(g.tables.cell(tblGrammar, 2, 1)), nil
}

// stateMachineBlob returns the raw blob for the first StateMachine row of
// the given kind, or nil with ok=false if no such row exists.
func (g *Grammar) stateMachineBlob(kind byte) ([]byte, bool, error) {
	n := g.tables.counts[tblStateMachine]
	for row := uint32(1); row <= n; row++ {
		k := byte(g.tables.cell(tblStateMachine, 0, row))
		if k != kind {
			continue
		}
		h := BlobHandle(g.tables.cell(tblStateMachine, 1, row))
		b, err := g.blobs.get(h)
		if err != nil {
			return nil, false, err
		}
		return b, true, nil
	}
	return nil, false, nil
}

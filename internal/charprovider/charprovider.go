// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package charprovider decodes a raw byte stream into the 16-bit code
// units the DFA engine consumes, the "consumed external interface"
// spec.md §6 leaves abstract ("current instantiation is 16-bit code
// units").
package charprovider

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// FromUTF16LE decodes a UTF-16LE byte stream (with or without a leading
// byte-order mark) into its 16-bit code units, grounded on the same
// golang.org/x/text/encoding/unicode decoder the teacher's
// DecodeUTF16String uses for BOM-aware interpretation. Surrogate pairs
// are preserved as two separate code units, matching the wire
// representation a DFA's edges are defined over.
func FromUTF16LE(data []byte) ([]uint32, error) {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	text, err := decoder.Bytes(data)
	if err != nil {
		return nil, err
	}
	units := utf16.Encode([]rune(string(text)))
	out := make([]uint32, len(units))
	for i, u := range units {
		out[i] = uint32(u)
	}
	return out, nil
}

// Provider yields a finite sequence of code units to a DFA.Match caller,
// tracking its own cursor so a tokenizer can repeatedly slice off
// consumed prefixes.
type Provider struct {
	units []uint32
	pos   int
}

// NewProvider wraps an already-decoded code-unit slice.
func NewProvider(units []uint32) *Provider {
	return &Provider{units: units}
}

// Remaining returns the code units not yet consumed.
func (p *Provider) Remaining() []uint32 { return p.units[p.pos:] }

// Advance marks n code units as consumed.
func (p *Provider) Advance(n int) { p.pos += n }

// Done reports whether every code unit has been consumed.
func (p *Provider) Done() bool { return p.pos >= len(p.units) }

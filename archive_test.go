// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"bytes"
	"errors"
	"testing"
)

func TestCompactExportImportRoundTrip(t *testing.T) {
	data := buildTrivialGrammar(t)
	g, err := LoadBytes(data, nil)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	defer g.Close()

	archive, err := CompactExport(g)
	if err != nil {
		t.Fatalf("CompactExport: %v", err)
	}
	if bytes.Equal(archive, data) {
		t.Error("CompactExport produced the same bytes as the raw grammar, want a compressed side artifact")
	}

	g2, err := CompactImport(archive, nil)
	if err != nil {
		t.Fatalf("CompactImport: %v", err)
	}
	defer g2.Close()

	name, err := g2.Name()
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "Trivial" {
		t.Errorf("round-tripped Name = %q, want %q", name, "Trivial")
	}
	if !bytes.Equal(g2.ToBytes(), data) {
		t.Error("CompactImport did not recover the original grammar bytes")
	}
}

func TestCompactImport_RejectsBadMagic(t *testing.T) {
	if _, err := CompactImport([]byte("not-an-archive"), nil); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("CompactImport with bad magic = %v, want ErrMalformedContainer", err)
	}
}

func TestCompactImport_RejectsTruncatedArchive(t *testing.T) {
	if _, err := CompactImport([]byte{'F', 'K', 'A', '1'}, nil); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("CompactImport with a truncated archive = %v, want ErrMalformedContainer", err)
	}
}

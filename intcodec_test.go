// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import "testing"

func TestRowRefWidth(t *testing.T) {
	tests := []struct {
		rowCount uint32
		want     byte
	}{
		{0, 1},
		{254, 1},
		{255, 2},
		{65534, 2},
		{65535, 4},
		{1 << 20, 4},
	}
	for _, tt := range tests {
		if got := rowRefWidth(tt.rowCount); got != tt.want {
			t.Errorf("rowRefWidth(%d) = %d, want %d", tt.rowCount, got, tt.want)
		}
	}
}

func TestCodedRefWidth(t *testing.T) {
	// max(rowCount1, rowCount2) * 2 feeds rowRefWidth: a table with 200 rows
	// still needs only 1 byte on its own, but coded against a 200-row peer
	// the doubled count (400) already crosses the 255 threshold.
	if got := codedRefWidth(200, 10); got != 2 {
		t.Errorf("codedRefWidth(200, 10) = %d, want 2", got)
	}
	if got := codedRefWidth(100, 10); got != 1 {
		t.Errorf("codedRefWidth(100, 10) = %d, want 1", got)
	}
	if got := codedRefWidth(40000, 1); got != 4 {
		t.Errorf("codedRefWidth(40000, 1) = %d, want 4", got)
	}
}

func TestHeapRefWidth(t *testing.T) {
	if got := heapRefWidth(true); got != 2 {
		t.Errorf("heapRefWidth(true) = %d, want 2", got)
	}
	if got := heapRefWidth(false); got != 4 {
		t.Errorf("heapRefWidth(false) = %d, want 4", got)
	}
}

func TestReadPutUintRoundTrip(t *testing.T) {
	for _, width := range []byte{1, 2, 4} {
		buf := make([]byte, 8)
		var v uint32
		switch width {
		case 1:
			v = 0xAB
		case 2:
			v = 0xBEEF
		case 4:
			v = 0xDEADBEEF
		}
		putUint(buf, 2, width, v)
		if got := readUint(buf, 2, width); got != v {
			t.Errorf("width %d: readUint(putUint(%d)) = %d, want %d", width, v, got, v)
		}
	}
}

func TestBlobLengthPrefixRoundTrip(t *testing.T) {
	lengths := []uint32{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0xFFFF, 1 << 20}
	for _, length := range lengths {
		buf := encodeBlobLengthPrefix(nil, length)
		if uint32(len(buf)) != blobLengthPrefixSize(length) {
			t.Errorf("length %d: encoded %d bytes, blobLengthPrefixSize said %d", length, len(buf), blobLengthPrefixSize(length))
		}
		got, n := decodeBlobLengthPrefix(buf, 0)
		if got != length {
			t.Errorf("length %d: decodeBlobLengthPrefix = %d", length, got)
		}
		if n != uint32(len(buf)) {
			t.Errorf("length %d: decodeBlobLengthPrefix consumed %d, want %d", length, n, len(buf))
		}
	}
}

func TestEdgeSearch(t *testing.T) {
	edges := []dfaEdge{
		{keyFrom: 'a', keyTo: 'f', target: 1},
		{keyFrom: 'h', keyTo: 'h', target: 2},
		{keyFrom: 'x', keyTo: 'z', target: 3},
	}
	tests := []struct {
		c    uint32
		want int
	}{
		{'a', 0},
		{'f', 0},
		{'g', 1}, // falls in the gap before 'h', first edge with keyTo >= 'g'
		{'h', 1},
		{'y', 2},
		{'~', 2}, // past every edge: edgeSearch returns the last edge
	}
	for _, tt := range tests {
		if got := edgeSearch(edges, tt.c); got != tt.want {
			t.Errorf("edgeSearch(%q) = %d, want %d", tt.c, got, tt.want)
		}
	}
	if got := edgeSearch(nil, 'a'); got != -1 {
		t.Errorf("edgeSearch(nil) = %d, want -1", got)
	}
}

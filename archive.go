// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"encoding/binary"
	"fmt"

	"github.com/axiomhq/fsst"
)

// archiveMagic tags a CompactExport archive. It is unrelated to the
// grammar container's own magic and never appears inside a grammar file.
var archiveMagic = [4]byte{'F', 'K', 'A', '1'}

// CompactExport FSST-compresses a grammar's raw byte buffer for archival
// or distribution. This is a side artifact, never the canonical
// toBytes() wire form: it cannot participate in the byte-for-byte
// round-trip law of spec.md §8, since the whole point is that its bytes
// differ from the grammar's own. CompactImport reverses it exactly.
func CompactExport(g *Grammar) ([]byte, error) {
	raw := g.data
	table := fsst.Train([][]byte{raw})
	tableBytes, err := table.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("grammar: marshaling FSST symbol table: %w", err)
	}
	encoded := table.EncodeAll(raw)

	buf := make([]byte, 0, 4+4+len(tableBytes)+4+4+len(encoded))
	buf = append(buf, archiveMagic[:]...)
	buf = appendUint32(buf, uint32(len(tableBytes)))
	buf = append(buf, tableBytes...)
	buf = appendUint32(buf, uint32(len(raw)))
	buf = appendUint32(buf, uint32(len(encoded)))
	buf = append(buf, encoded...)
	return buf, nil
}

// CompactImport reverses CompactExport and loads the result as a Grammar.
func CompactImport(archive []byte, opts *LoadOptions) (*Grammar, error) {
	if len(archive) < 4 || archive[0] != archiveMagic[0] || archive[1] != archiveMagic[1] ||
		archive[2] != archiveMagic[2] || archive[3] != archiveMagic[3] {
		return nil, fmt.Errorf("%w: not a compact grammar archive", ErrMalformedContainer)
	}
	off := 4
	if off+4 > len(archive) {
		return nil, fmt.Errorf("%w: compact archive truncated", ErrMalformedContainer)
	}
	tableLen := binary.LittleEndian.Uint32(archive[off : off+4])
	off += 4
	if off+int(tableLen) > len(archive) {
		return nil, fmt.Errorf("%w: compact archive truncated", ErrMalformedContainer)
	}
	tableBytes := archive[off : off+int(tableLen)]
	off += int(tableLen)

	if off+8 > len(archive) {
		return nil, fmt.Errorf("%w: compact archive truncated", ErrMalformedContainer)
	}
	rawLen := binary.LittleEndian.Uint32(archive[off : off+4])
	encLen := binary.LittleEndian.Uint32(archive[off+4 : off+8])
	off += 8
	if off+int(encLen) > len(archive) {
		return nil, fmt.Errorf("%w: compact archive truncated", ErrMalformedContainer)
	}
	encoded := archive[off : off+int(encLen)]

	var table fsst.Table
	if err := table.UnmarshalBinary(tableBytes); err != nil {
		return nil, fmt.Errorf("grammar: unmarshaling FSST symbol table: %w", err)
	}
	raw := table.DecodeAll(encoded)
	if uint32(len(raw)) != rawLen {
		return nil, fmt.Errorf("%w: compact archive decoded to %d bytes, expected %d", ErrInvalidData, len(raw), rawLen)
	}
	return LoadBytes(raw, opts)
}

func appendUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

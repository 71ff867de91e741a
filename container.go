// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"encoding/binary"
	"fmt"
)

// Container limits (§3 Invariants).
const (
	// MaxHeapSize is the largest number of bytes either heap may hold.
	MaxHeapSize = 1<<29 - 1

	// MaxRowCount is the largest row count for most tables.
	MaxRowCount = 1<<24 - 1

	// MaxSymbolRowCount is the largest row count for TokenSymbol and
	// Nonterminal, chosen so a 24-bit EntityHandle can address any row.
	MaxSymbolRowCount = 1<<20 - 1
)

// Container version.
const (
	CurrentMajor      = 1
	CurrentMinor      = 0
	MinSupportedMajor = 1
)

// magic is the 8-byte file signature, "Farkle\0\0".
var magic = [8]byte{'F', 'a', 'r', 'k', 'l', 'e', 0, 0}

// Recognized stream identifiers, stored little-endian as 8-byte values.
const (
	streamIDStrings uint64 = 0x73676E6972745323
	streamIDBlob    uint64 = 0x000000646F6C4223
	streamIDTable   uint64 = 0x0000000000007E23
)

const (
	streamNameStrings = "#Strings"
	streamNameBlob    = "#Blob"
	streamNameTable   = "#~"
)

// headerSize is the fixed preamble: 8-byte magic, u16 major, u16 minor,
// u32 streamCount.
const headerSize = 8 + 2 + 2 + 4

// streamDirEntrySize is the size of one stream directory entry: u64
// identifier, u32 offset, u32 length.
const streamDirEntrySize = 8 + 4 + 4

// streamSection records the bounds of one recognized stream within the
// container's byte buffer.
type streamSection struct {
	offset uint32
	length uint32
}

// streamTable holds the sections for every recognized stream, plus the
// full directory as read, unknown streams included.
type streamTable struct {
	strings streamSection
	blob    streamSection
	table   streamSection

	hasStrings bool
	hasBlob    bool
	hasTable   bool

	// raw is the complete, ordered stream directory as read from the file,
	// including unknown streams the reader otherwise ignores. ToBytes does
	// not use it: it copies the original buffer instead.
	raw []rawStreamEntry
}

type rawStreamEntry struct {
	id     uint64
	name   string
	offset uint32
	length uint32
}

// parseContainerHeader validates the magic and version, then parses the
// stream directory. See spec §4.1 "Loading contract".
func parseContainerHeader(data []byte) (major, minor uint16, streams streamTable, err error) {
	if len(data) < headerSize {
		return 0, 0, streams, fmt.Errorf("%w: file shorter than header", ErrMalformedContainer)
	}
	for i := 0; i < 8; i++ {
		if data[i] != magic[i] {
			return 0, 0, streams, fmt.Errorf("%w: bad magic", ErrMalformedContainer)
		}
	}

	major = binary.LittleEndian.Uint16(data[8:10])
	minor = binary.LittleEndian.Uint16(data[10:12])
	if major < MinSupportedMajor || major > CurrentMajor {
		if major > CurrentMajor {
			return major, minor, streams, fmt.Errorf("%w: file major version %d is newer than supported %d", ErrUnsupportedVersion, major, CurrentMajor)
		}
		return major, minor, streams, fmt.Errorf("%w: file major version %d is older than minimum supported %d", ErrUnsupportedVersion, major, MinSupportedMajor)
	}

	streamCount := binary.LittleEndian.Uint32(data[12:16])
	off := uint32(headerSize)

	seen := map[uint64]bool{}
	for i := uint32(0); i < streamCount; i++ {
		if uint64(off)+streamDirEntrySize > uint64(len(data)) {
			return major, minor, streams, fmt.Errorf("%w: stream directory truncated", ErrMalformedContainer)
		}
		id := binary.LittleEndian.Uint64(data[off : off+8])
		entryOff := binary.LittleEndian.Uint32(data[off+8 : off+12])
		entryLen := binary.LittleEndian.Uint32(data[off+12 : off+16])
		off += streamDirEntrySize

		if uint64(entryOff)+uint64(entryLen) > uint64(len(data)) {
			return major, minor, streams, fmt.Errorf("%w: stream %x bounds out of range", ErrMalformedContainer, id)
		}

		name := streamName(id)
		if name == streamNameStrings || name == streamNameBlob || name == streamNameTable {
			if seen[id] {
				return major, minor, streams, fmt.Errorf("%w: duplicate stream %s", ErrInvalidData, name)
			}
			seen[id] = true
		}

		switch name {
		case streamNameStrings:
			streams.strings = streamSection{offset: entryOff, length: entryLen}
			streams.hasStrings = true
		case streamNameBlob:
			streams.blob = streamSection{offset: entryOff, length: entryLen}
			streams.hasBlob = true
		case streamNameTable:
			streams.table = streamSection{offset: entryOff, length: entryLen}
			streams.hasTable = true
		}

		streams.raw = append(streams.raw, rawStreamEntry{id: id, name: name, offset: entryOff, length: entryLen})
	}

	if !streams.hasTable {
		return major, minor, streams, fmt.Errorf("%w: missing required #~ stream", ErrInvalidData)
	}

	return major, minor, streams, nil
}

func streamName(id uint64) string {
	switch id {
	case streamIDStrings:
		return streamNameStrings
	case streamIDBlob:
		return streamNameBlob
	case streamIDTable:
		return streamNameTable
	default:
		return ""
	}
}

// writeContainerHeader writes the magic, version, and stream directory,
// returning the byte offset immediately following the directory.
func writeContainerHeader(buf []byte, entries []rawStreamEntry) int {
	copy(buf[0:8], magic[:])
	binary.LittleEndian.PutUint16(buf[8:10], CurrentMajor)
	binary.LittleEndian.PutUint16(buf[10:12], CurrentMinor)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(entries)))

	off := headerSize
	for _, e := range entries {
		binary.LittleEndian.PutUint64(buf[off:off+8], e.id)
		binary.LittleEndian.PutUint32(buf[off+8:off+12], e.offset)
		binary.LittleEndian.PutUint32(buf[off+12:off+16], e.length)
		off += streamDirEntrySize
	}
	return off
}

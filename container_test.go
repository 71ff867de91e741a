// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"errors"
	"testing"
)

func TestParseContainerHeader_RejectsMissingTableStream(t *testing.T) {
	buf := make([]byte, headerSize)
	writeContainerHeader(buf, nil)
	if _, _, _, err := parseContainerHeader(buf); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("parseContainerHeader with no #~ stream = %v, want ErrInvalidData", err)
	}
}

func TestParseContainerHeader_RejectsDuplicateStream(t *testing.T) {
	entries := []rawStreamEntry{
		{id: streamIDTable, name: streamNameTable, offset: 0, length: 0},
		{id: streamIDTable, name: streamNameTable, offset: 0, length: 0},
	}
	size := headerSize + len(entries)*streamDirEntrySize
	buf := make([]byte, size)
	writeContainerHeader(buf, entries)
	if _, _, _, err := parseContainerHeader(buf); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("parseContainerHeader with a duplicate #~ entry = %v, want ErrInvalidData", err)
	}
}

func TestParseContainerHeader_RejectsOutOfRangeStream(t *testing.T) {
	entries := []rawStreamEntry{
		{id: streamIDTable, name: streamNameTable, offset: 0, length: 1000},
	}
	size := headerSize + len(entries)*streamDirEntrySize
	buf := make([]byte, size)
	writeContainerHeader(buf, entries)
	if _, _, _, err := parseContainerHeader(buf); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("parseContainerHeader with an out-of-range stream = %v, want ErrMalformedContainer", err)
	}
}

func TestParseContainerHeader_RoundTripsRecognizedStreams(t *testing.T) {
	tableBytes := []byte{1, 2, 3, 4}
	stringsBytes := []byte{0, 'a', 0}
	entries := []rawStreamEntry{
		{id: streamIDStrings, name: streamNameStrings, offset: uint32(headerSize + 2*streamDirEntrySize), length: uint32(len(stringsBytes))},
		{id: streamIDTable, name: streamNameTable, offset: uint32(headerSize+2*streamDirEntrySize) + uint32(len(stringsBytes)), length: uint32(len(tableBytes))},
	}
	dirSize := headerSize + len(entries)*streamDirEntrySize
	buf := make([]byte, dirSize+len(stringsBytes)+len(tableBytes))
	writeContainerHeader(buf, entries)
	copy(buf[entries[0].offset:], stringsBytes)
	copy(buf[entries[1].offset:], tableBytes)

	major, minor, streams, err := parseContainerHeader(buf)
	if err != nil {
		t.Fatalf("parseContainerHeader: %v", err)
	}
	if major != CurrentMajor || minor != CurrentMinor {
		t.Errorf("version = %d.%d, want %d.%d", major, minor, CurrentMajor, CurrentMinor)
	}
	if !streams.hasStrings || !streams.hasTable || streams.hasBlob {
		t.Errorf("stream presence = strings:%v blob:%v table:%v, want true/false/true",
			streams.hasStrings, streams.hasBlob, streams.hasTable)
	}
	if streams.strings.offset != entries[0].offset || streams.strings.length != entries[0].length {
		t.Errorf("strings section = %+v, want offset=%d length=%d", streams.strings, entries[0].offset, entries[0].length)
	}
	if len(streams.raw) != 2 {
		t.Errorf("raw directory has %d entries, want 2", len(streams.raw))
	}
}

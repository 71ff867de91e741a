// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// StringHandle is a 32-bit offset into the string heap. The zero value
// denotes the empty string.
type StringHandle uint32

// stringHeap is a read-only view of the "#Strings" stream: a byte run that
// begins and ends with NUL, holding NUL-terminated UTF-8 strings.
type stringHeap struct {
	data []byte
}

func newStringHeap(data []byte) (stringHeap, error) {
	h := stringHeap{data: data}
	if len(data) == 0 {
		return h, nil
	}
	if data[0] != 0 || data[len(data)-1] != 0 {
		return h, fmt.Errorf("%w: string heap must begin and end with NUL", ErrInvalidData)
	}
	return h, nil
}

// get returns the string at handle. Handle 0 is the empty string.
func (h stringHeap) get(handle StringHandle) (string, error) {
	if handle == 0 {
		return "", nil
	}
	off := uint32(handle)
	if off >= uint32(len(h.data)) {
		return "", fmt.Errorf("%w: string handle %d out of range", ErrInvalidHandle, handle)
	}
	end := bytes.IndexByte(h.data[off:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated string at handle %d", ErrInvalidData, handle)
	}
	s := h.data[off : off+uint32(end)]
	if !utf8.Valid(s) {
		return "", fmt.Errorf("%w: string at handle %d is not valid UTF-8", ErrInvalidData, handle)
	}
	return string(s), nil
}

// find performs reverse lookup by content: it fences the query with NUL
// bytes on both sides and searches the heap for that exact byte sequence,
// guaranteeing any match lands on string boundaries. Returns handle 0 and
// false if not found (or if s is empty, which always resolves to handle 0
// when the heap is non-empty).
func (h stringHeap) find(s string) (StringHandle, bool) {
	if s == "" {
		if len(h.data) > 0 {
			return 0, true
		}
		return 0, false
	}
	fenced := make([]byte, 0, len(s)+2)
	fenced = append(fenced, 0)
	fenced = append(fenced, s...)
	fenced = append(fenced, 0)
	idx := bytes.Index(h.data, fenced)
	if idx < 0 {
		return 0, false
	}
	return StringHandle(idx + 1), true
}

// stringHeapBuilder interns strings by value, deduplicating exact matches
// and rejecting embedded NULs, while tracking a running total size.
type stringHeapBuilder struct {
	buf     []byte
	offsets map[string]StringHandle
}

func newStringHeapBuilder() *stringHeapBuilder {
	b := &stringHeapBuilder{offsets: map[string]StringHandle{}}
	b.buf = append(b.buf, 0) // leading NUL, per the heap invariant.
	return b
}

// intern adds s to the heap if not already present, returning its handle.
func (b *stringHeapBuilder) intern(s string) (StringHandle, error) {
	if s == "" {
		return 0, nil
	}
	if h, ok := b.offsets[s]; ok {
		return h, nil
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return 0, fmt.Errorf("%w: string contains embedded NUL", ErrInvalidData)
	}
	if uint64(len(b.buf))+uint64(len(s))+1 > MaxHeapSize {
		return 0, fmt.Errorf("%w: string heap would exceed %d bytes", ErrSizeLimitExceeded, MaxHeapSize)
	}
	handle := StringHandle(len(b.buf))
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	b.offsets[s] = handle
	return handle, nil
}

func (b *stringHeapBuilder) bytes() []byte {
	if len(b.buf) == 1 {
		// Only the leading NUL was ever written; an empty heap (no
		// strings at all) round-trips as zero bytes, not one.
		return nil
	}
	return b.buf
}

func (b *stringHeapBuilder) size() uint32 {
	return uint32(len(b.bytes()))
}

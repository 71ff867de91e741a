// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import "fmt"

// BlobHandle is a 32-bit offset into the blob heap. The zero value denotes
// the empty blob.
type BlobHandle uint32

// blobHeap is a read-only view of the "#Blob" stream: a byte run of
// length-prefixed entries.
type blobHeap struct {
	data []byte
}

func newBlobHeap(data []byte) blobHeap {
	return blobHeap{data: data}
}

// get returns the bytes at handle. Handle 0 is the empty blob.
func (h blobHeap) get(handle BlobHandle) ([]byte, error) {
	if handle == 0 {
		return nil, nil
	}
	off := uint32(handle)
	if off >= uint32(len(h.data)) {
		return nil, fmt.Errorf("%w: blob handle %d out of range", ErrInvalidHandle, handle)
	}
	length, prefixLen := decodeBlobLengthPrefix(h.data, off)
	start := off + prefixLen
	end := uint64(start) + uint64(length)
	if end > uint64(len(h.data)) {
		return nil, fmt.Errorf("%w: blob at handle %d overruns heap", ErrInvalidData, handle)
	}
	return h.data[start:end], nil
}

// blobHeapBuilder interns byte blobs by value, deduplicating exact matches.
type blobHeapBuilder struct {
	buf     []byte
	offsets map[string]BlobHandle
}

func newBlobHeapBuilder() *blobHeapBuilder {
	return &blobHeapBuilder{offsets: map[string]BlobHandle{}}
}

// intern adds data to the heap if not already present, returning its handle.
func (b *blobHeapBuilder) intern(data []byte) (BlobHandle, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if uint64(len(data)) > MaxHeapSize {
		return 0, fmt.Errorf("%w: single blob exceeds %d bytes", ErrSizeLimitExceeded, MaxHeapSize)
	}
	key := string(data)
	if h, ok := b.offsets[key]; ok {
		return h, nil
	}
	entrySize := uint64(blobLengthPrefixSize(uint32(len(data)))) + uint64(len(data))
	if uint64(len(b.buf))+entrySize > MaxHeapSize {
		return 0, fmt.Errorf("%w: blob heap would exceed %d bytes", ErrSizeLimitExceeded, MaxHeapSize)
	}
	// Handle 0 is reserved for the empty blob, so the first real entry
	// must not start at offset 0; reserve a single leading byte the same
	// way the string heap reserves a leading NUL.
	if len(b.buf) == 0 {
		b.buf = append(b.buf, 0)
	}
	handle := BlobHandle(len(b.buf))
	b.buf = encodeBlobLengthPrefix(b.buf, uint32(len(data)))
	b.buf = append(b.buf, data...)
	b.offsets[key] = handle
	return handle, nil
}

func (b *blobHeapBuilder) bytes() []byte {
	return b.buf
}

func (b *blobHeapBuilder) size() uint32 {
	return uint32(len(b.buf))
}

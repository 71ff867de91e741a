// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package grammar

import "errors"

// Errors
var (
	// ErrUnsupportedVersion is returned when a grammar file's major version
	// falls outside [MinSupportedMajor, CurrentMajor].
	ErrUnsupportedVersion = errors.New("grammar: unsupported container version")

	// ErrMalformedContainer is returned when a stream, table, or row bound
	// is out of range.
	ErrMalformedContainer = errors.New("grammar: malformed container")

	// ErrInvalidData is returned when a schema mismatch, ordering
	// violation, bad heap, or duplicate stream/state-machine kind is found.
	ErrInvalidData = errors.New("grammar: invalid data")

	// ErrInvalidHandle is returned when a null or out-of-range handle is
	// passed to a typed lookup.
	ErrInvalidHandle = errors.New("grammar: invalid handle")

	// ErrInvalidOperation is returned when the builder is called out of
	// order or with arguments it does not accept (e.g. a terminal carrying
	// GroupStart). LR actions are always encoded as 32-bit values, so no
	// shift-target or reduce-production width overflow is checked.
	ErrInvalidOperation = errors.New("grammar: invalid operation")

	// ErrSizeLimitExceeded is returned when a heap or table would exceed
	// its maximum size.
	ErrSizeLimitExceeded = errors.New("grammar: size limit exceeded")

	// ErrNotSupported is returned for a GLR single-action query on a
	// conflict-carrying machine.
	ErrNotSupported = errors.New("grammar: operation not supported")

	// ErrKeyNotFound is returned by getGoto when no entry exists for the
	// requested nonterminal at the given state.
	ErrKeyNotFound = errors.New("grammar: key not found")
)

// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

//go:build gofuzz

package grammar

// Fuzz round-trips arbitrary bytes through LoadBytes the same way the
// teacher's Fuzz round-trips NewBytes+Parse: a crash or panic anywhere
// in the container/heap/table/DFA/LR decoders is the bug go-fuzz is
// looking for, not the return value itself.
func Fuzz(data []byte) int {
	g, err := LoadBytes(data, &LoadOptions{SkipContentValidation: false})
	if err != nil {
		return 0
	}
	defer g.Close()

	if dfa, err := g.DFA(); err == nil && dfa != nil {
		dfa.PrepareForParsing()
	}
	if lr, err := g.LR(); err == nil && lr != nil {
		lr.PrepareForParsing()
	}

	_ = g.ToBytes()
	return 1
}

/*
   Simple World  - mutation engine

   Copyright 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a copy
   of this software and associated documentation files (the "Software"), to deal
   in the Software without restriction, including without limitation the rights
   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
   copies of the Software, and to permit persons to whom the Software is
   furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.
*/

// Package mutation walks a code blob one word at a time and, at each word
// with probability p, applies one of six transformations, producing a
// new blob and an ordered audit trail of what happened.
package mutation

import (
	"encoding/binary"
	"math/rand"
)

// Kind identifies one of the six mutation transformations.
type Kind int

const (
	Replace Kind = iota
	Partial
	Permute
	Insert
	Duplicate
	Delete
)

// Record is one applied mutation: its kind, the byte offset in the
// original blob it applies to, and the word values involved. Original is
// unused for Insert/Duplicate; Mutated is unused for Delete.
type Record struct {
	Kind     Kind
	Offset   int
	Original uint32
	Mutated  uint32
}

// Apply walks code one big-endian word at a time. At each word position,
// with probability p, it picks one of the six kinds with equal
// sub-probability and applies it. It returns the mutated blob and the
// ordered list of mutations applied; an empty list means code is
// returned unchanged.
func Apply(code []byte, p float64, rng *rand.Rand) ([]byte, []Record) {
	if p <= 0 {
		return append([]byte(nil), code...), nil
	}

	var records []Record
	var out []byte
	i := 0
	for i < len(code) {
		if rng.Float64() >= p {
			out = append(out, code[i:i+4]...)
			i += 4
			continue
		}

		switch Kind(rng.Intn(6)) {
		case Replace:
			oldWord := binary.BigEndian.Uint32(code[i : i+4])
			newWord := randomWord(rng)
			out = appendWord(out, newWord)
			records = append(records, Record{Kind: Replace, Offset: i, Original: oldWord, Mutated: newWord})
			i += 4

		case Partial:
			oldWord := binary.BigEndian.Uint32(code[i : i+4])
			newWord := partialMutation(oldWord, rng)
			out = appendWord(out, newWord)
			records = append(records, Record{Kind: Partial, Offset: i, Original: oldWord, Mutated: newWord})
			i += 4

		case Permute:
			oldWord := binary.BigEndian.Uint32(code[i : i+4])
			newWord := permuteWord(oldWord, rng)
			out = appendWord(out, newWord)
			records = append(records, Record{Kind: Permute, Offset: i, Original: oldWord, Mutated: newWord})
			i += 4

		case Insert:
			newWord := randomWord(rng)
			out = appendWord(out, newWord)
			records = append(records, Record{Kind: Insert, Offset: i, Mutated: newWord})
			// Current word is not consumed; loop again at the same i.

		case Duplicate:
			if i == 0 || len(out) == 0 {
				newWord := randomWord(rng)
				out = appendWord(out, newWord)
				records = append(records, Record{Kind: Insert, Offset: i, Mutated: newWord})
				continue
			}
			prevWord := binary.BigEndian.Uint32(out[len(out)-4:])
			out = appendWord(out, prevWord)
			records = append(records, Record{Kind: Duplicate, Offset: i, Mutated: prevWord})

		case Delete:
			oldWord := binary.BigEndian.Uint32(code[i : i+4])
			records = append(records, Record{Kind: Delete, Offset: i, Original: oldWord})
			i += 4
		}
	}

	return out, records
}

func appendWord(buf []byte, word uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], word)
	return append(buf, b[:]...)
}

func randomWord(rng *rand.Rand) uint32 {
	return rng.Uint32()
}

// partialMutation overwrites 1..4 random byte lanes of word with random
// values.
func partialMutation(word uint32, rng *rand.Rand) uint32 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], word)
	count := 1 + rng.Intn(4)
	for i := 0; i < count; i++ {
		lane := rng.Intn(4)
		b[lane] = byte(rng.Intn(256))
	}
	return binary.BigEndian.Uint32(b[:])
}

// permuteWord produces a word whose bytes are sampled with replacement
// from word's own bytes.
func permuteWord(word uint32, rng *rand.Rand) uint32 {
	var src, dst [4]byte
	binary.BigEndian.PutUint32(src[:], word)
	for i := range dst {
		dst[i] = src[rng.Intn(4)]
	}
	return binary.BigEndian.Uint32(dst[:])
}

/*
   Simple World  - Word and byte lane utilities

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

// Package word provides byte-lane access and endian conversion for the
// 32-bit words that flow between the CPU, memory, and object files.
//
// Byte index 0 is always the most significant byte, the one that appears
// first when a word is serialized big-endian - the same convention the
// instruction layout (internal/instruction) uses for its opcode byte.
package word

import "errors"

// ErrRangeError is returned when a byte index outside 0..3 is requested.
var ErrRangeError = errors.New("byte index out of range")

// GetByte returns byte i (0 = most significant) of word.
func GetByte(w uint32, i int) (uint8, error) {
	if i < 0 || i > 3 {
		return 0, ErrRangeError
	}
	shift := uint(24 - 8*i)
	return uint8(w >> shift), nil
}

// SetByte returns word with byte i (0 = most significant) replaced by value.
func SetByte(w uint32, i int, value uint8) (uint32, error) {
	if i < 0 || i > 3 {
		return 0, ErrRangeError
	}
	shift := uint(24 - 8*i)
	mask := uint32(0xff) << shift
	return (w &^ mask) | (uint32(value) << shift), nil
}

// SwapBytes reverses all four bytes of word: b0 b1 b2 b3 -> b3 b2 b1 b0.
func SwapBytes(w uint32) uint32 {
	return (w>>24)&0xff | (w>>8)&0xff00 | (w<<8)&0xff0000 | (w << 24)
}

// SwapHalves exchanges the high and low 16-bit halves of word:
// b0 b1 b2 b3 -> b2 b3 b0 b1.
func SwapHalves(w uint32) uint32 {
	return (w << 16) | (w >> 16)
}

// SwapHalfBytes swaps the two bytes within each half-word without moving
// the halves themselves: b0 b1 b2 b3 -> b1 b0 b3 b2. Composed with
// SwapHalves this yields the full byte reversal SwapBytes performs.
func SwapHalfBytes(w uint32) uint32 {
	hi := w & 0xffff0000
	lo := w & 0x0000ffff
	hi = (hi>>8)&0x00ff0000 | (hi<<8)&0xff000000
	lo = (lo>>8)&0x000000ff | (lo<<8)&0x0000ff00
	return hi | lo
}

/*
   Simple World  - hex formatting

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

// Package hexfmt renders words and byte runs as hex text for the
// disassembler's raw-data fallback and for the disasm command's address
// column.
package hexfmt

import "strings"

var digits = "0123456789abcdef"

// FormatWords appends each word in words as 8 hex digits, space separated.
func FormatWords(str *strings.Builder, words []uint32) {
	for _, full := range words {
		shift := 28
		for range 8 {
			str.WriteByte(digits[(full>>shift)&0xf])
			shift -= 4
		}
		str.WriteByte(' ')
	}
}

// FormatBytes appends each byte in data as 2 hex digits, space separated
// when space is true.
func FormatBytes(str *strings.Builder, space bool, data []byte) {
	for _, b := range data {
		str.WriteByte(digits[(b>>4)&0xf])
		str.WriteByte(digits[b&0xf])
		if space {
			str.WriteByte(' ')
		}
	}
}

// Word renders a single 32-bit word as "0xNNNNNNNN".
func Word(word uint32) string {
	var b strings.Builder
	b.WriteString("0x")
	FormatWords(&b, []uint32{word})
	return strings.TrimSpace(b.String())
}

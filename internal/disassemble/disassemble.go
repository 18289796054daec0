/*
   Simple World  - disassembler

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

// Package disassemble renders one encoded word as a mnemonic-and-operand
// line, driven entirely by the ISA's opcode and register tables. An
// opcode or register code the ISA doesn't know falls back to raw-data
// rendering rather than failing; the caller decides what an undecodable
// word means.
package disassemble

import (
	"fmt"

	"github.com/rcornwell/simpleworld/internal/hexfmt"
	"github.com/rcornwell/simpleworld/internal/instruction"
	"github.com/rcornwell/simpleworld/internal/isa"
)

// Word renders word against set: "mnemonic reg1 reg2 {reg3|0xNNNN}" on a
// known opcode with known register codes, or "0xNNNNNNNN" otherwise.
func Word(set *isa.ISA, word uint32) string {
	inst := instruction.Decode(word)

	info, err := set.InstructionByCode(inst.Code)
	if err != nil {
		return rawData(word)
	}

	text := info.Name
	regName := func(code uint8) (string, bool) {
		name, err := set.RegisterName(code)
		return name, err == nil
	}

	if info.RegCount >= 1 {
		name, ok := regName(inst.First)
		if !ok {
			return rawData(word)
		}
		text += " " + name
	}
	if info.RegCount >= 2 {
		name, ok := regName(inst.Second)
		if !ok {
			return rawData(word)
		}
		text += " " + name
	}
	if info.RegCount == 3 {
		name, ok := regName(inst.ThirdRegister())
		if !ok {
			return rawData(word)
		}
		text += " " + name
	} else if info.HasImmediate {
		text += fmt.Sprintf(" 0x%04x", inst.Third)
	}
	return text
}

func rawData(word uint32) string {
	return hexfmt.Word(word)
}

/*
   Simple World  - Instruction encoding and decoding

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

// Package instruction defines the fixed 32-bit instruction layout shared by
// the CPU, the assembler, and the disassembler, and the pure encode/decode
// pair between that layout and an Instruction value.
//
// Layout (byte 0 is most significant, matching internal/word's convention):
//
//	byte 0        opcode
//	byte 1        high nibble: first register code; low nibble: second
//	              register code
//	bytes 2-3     16-bit field: either an immediate/address, or (for the
//	              three-register form) zero in byte 2 and the third
//	              register code in the low nibble of byte 3
package instruction

// Third holds either a 16-bit immediate/address or a third register code,
// depending on the opcode's declared arity. Which interpretation applies is
// a property of the opcode (internal/isa), not of the instruction itself.
type Instruction struct {
	Code   uint8
	First  uint8 // 4-bit register code
	Second uint8 // 4-bit register code
	Third  uint16
}

// Encode packs inst into its big-endian 32-bit word form. First and Second
// are truncated to 4 bits; Third is truncated to 16 bits.
func Encode(inst Instruction) uint32 {
	b1 := (inst.First&0x0f)<<4 | (inst.Second & 0x0f)
	return uint32(inst.Code)<<24 | uint32(b1)<<16 | uint32(inst.Third)
}

// EncodeThreeRegister packs inst using the three-register form: byte 2 is
// zero, and the third register code occupies the low nibble of byte 3.
// Callers that know the opcode takes three registers (arity 3 in the ISA
// registry) use this instead of stashing the register code in Third
// themselves, so the zero padding in byte 2 is never their concern.
func EncodeThreeRegister(code, first, second, third uint8) uint32 {
	return Encode(Instruction{
		Code:   code,
		First:  first,
		Second: second,
		Third:  uint16(third & 0x0f),
	})
}

// Decode unpacks a big-endian 32-bit instruction word.
func Decode(word uint32) Instruction {
	return Instruction{
		Code:   uint8(word >> 24),
		First:  uint8(word>>20) & 0x0f,
		Second: uint8(word>>16) & 0x0f,
		Third:  uint16(word),
	}
}

// ThirdRegister extracts the third register code from the low nibble of
// the Third field, for instructions encoded with EncodeThreeRegister.
func (inst Instruction) ThirdRegister() uint8 {
	return uint8(inst.Third) & 0x0f
}

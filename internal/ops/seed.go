/*
   Simple World  - ISA seeding

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

package ops

import (
	"fmt"

	"github.com/rcornwell/simpleworld/internal/isa"
)

// World opcode, fixed by the original implementation's isa.cpp and
// reused here so assembled code and disassembly stay meaningful against
// it (see SPEC_FULL.md "Base opcode table").
const OpWorld uint8 = 0x58

// Seed registers every opcode in the base instruction set plus the
// world opcode, and the sixteen register names, onto a fresh ISA. The
// opcode assignment matches the original simpleworld's cpu.cpp exactly.
func Seed(set *isa.ISA) error {
	type entry struct {
		code     uint8
		name     string
		regCount uint8
		imm      bool
		exec     isa.Executor
	}

	entries := []entry{
		// Management
		{0x00, "stop", 0, false, Stop},
		{0x01, "restart", 0, false, Restart},

		// Move
		{0x08, "move", 2, false, Move},
		{0x0a, "swap", 2, false, Swap},

		// Stack
		{0x0c, "push", 1, false, Push},
		{0x0e, "pop", 1, false, Pop},

		// Load
		{0x10, "load", 1, true, Load},
		{0x11, "loadi", 1, true, LoadImmediate},
		{0x12, "loadrr", 3, false, LoadRegReg},
		{0x13, "loadri", 2, true, LoadRegImmediate},

		// Store
		{0x18, "store", 1, true, Store},
		{0x1a, "storerr", 3, false, StoreRegReg},
		{0x1b, "storeri", 2, true, StoreRegImmediate},

		// Branch
		{0x20, "b", 0, true, Branch},
		{0x21, "beq", 2, true, BranchEqual},
		{0x22, "bne", 2, true, BranchNotEqual},
		{0x23, "blt", 2, true, BranchLessThan},
		{0x24, "bltu", 2, true, BranchLessThanUnsigned},
		{0x25, "bgt", 2, true, BranchGreaterThan},
		{0x26, "bgtu", 2, true, BranchGreaterThanUnsigned},
		{0x27, "ble", 2, true, BranchLessEqual},
		{0x28, "bleu", 2, true, BranchLessEqualUnsigned},
		{0x29, "bge", 2, true, BranchGreaterEqual},
		{0x2a, "bgeu", 2, true, BranchGreaterEqualUnsigned},

		// Function / interrupt
		{0x30, "call", 0, true, Call},
		{0x31, "int", 0, true, SoftwareInterrupt},
		{0x34, "ret", 0, false, Return},
		{0x35, "reti", 0, false, ReturnFromInterrupt},

		// Arithmetic
		{0x40, "add", 3, false, Add},
		{0x41, "addi", 2, true, AddImmediate},
		{0x42, "sub", 3, false, Sub},
		{0x43, "subi", 2, true, SubImmediate},
		{0x44, "multl", 3, false, MultiplyLow},
		{0x45, "multli", 2, true, MultiplyLowImmediate},
		{0x46, "multlu", 3, false, MultiplyLowUnsigned},
		{0x47, "multlui", 2, true, MultiplyLowUnsignedImmediate},
		{0x48, "multh", 3, false, MultiplyHigh},
		{0x49, "multhi", 2, true, MultiplyHighImmediate},
		{0x4a, "multhu", 3, false, MultiplyHighUnsigned},
		{0x4b, "multhui", 2, true, MultiplyHighUnsignedImmediate},
		{0x4c, "div", 3, false, Divide},
		{0x4d, "divi", 2, true, DivideImmediate},
		{0x4e, "divu", 3, false, DivideUnsigned},
		{0x4f, "divui", 2, true, DivideUnsignedImmediate},
		{0x50, "mod", 3, false, Modulo},
		{0x51, "modi", 2, true, ModuloImmediate},
		{0x52, "modu", 3, false, ModuloUnsigned},
		{0x53, "modui", 2, true, ModuloUnsignedImmediate},

		// Logic
		{0x60, "not", 2, false, Not},
		{0x68, "or", 3, false, Or},
		{0x69, "ori", 2, true, OrImmediate},
		{0x6a, "and", 3, false, And},
		{0x6b, "andi", 2, true, AndImmediate},
		{0x6c, "xor", 3, false, Xor},
		{0x6d, "xori", 2, true, XorImmediate},

		// Shift
		{0x70, "sll", 3, false, ShiftLeftLogical},
		{0x71, "slli", 2, true, ShiftLeftLogicalImmediate},
		{0x72, "sla", 3, false, ShiftLeftArithmetic},
		{0x73, "slai", 2, true, ShiftLeftArithmeticImmediate},
		{0x74, "srl", 3, false, ShiftRightLogical},
		{0x75, "srli", 2, true, ShiftRightLogicalImmediate},
		{0x76, "sra", 3, false, ShiftRightArithmetic},
		{0x77, "srai", 2, true, ShiftRightArithmeticImmediate},
		{0x78, "rol", 3, false, RotateLeft},
		{0x79, "roli", 2, true, RotateLeftImmediate},
		{0x7a, "rri", 3, false, RotateRight},
		{0x7b, "rrii", 2, true, RotateRightImmediate},

		// World
		{OpWorld, "world", 0, true, World},
	}

	for _, e := range entries {
		if err := set.AddInstruction(e.code, e.name, e.regCount, e.imm, e.exec); err != nil {
			return err
		}
	}

	for code := uint8(0); code <= 0x0c; code++ {
		if err := set.AddRegister(code, registerName(code)); err != nil {
			return err
		}
	}
	if err := set.AddRegister(RegPC, "pc"); err != nil {
		return err
	}
	if err := set.AddRegister(RegSTP, "stp"); err != nil {
		return err
	}
	if err := set.AddRegister(RegITP, "itp"); err != nil {
		return err
	}
	return nil
}

func registerName(code uint8) string {
	return fmt.Sprintf("r%d", code)
}

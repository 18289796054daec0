/*
   Simple World  - Opcode executors

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

// Package ops implements the executor for every opcode in the base
// instruction set: management, move, stack, load/store, branch,
// call/return/interrupt, arithmetic, logic, and shift. Each executor has
// the signature isa.Executor and touches only the register file and data
// memory it is given - no executor here reaches into the world grid or
// the persistence layer, matching the CPU/simulator decoupling described
// for the world opcode.
package ops

import (
	"github.com/rcornwell/simpleworld/internal/instruction"
	"github.com/rcornwell/simpleworld/internal/isa"
)

// Register codes, fixed by the canonical opcode/register assignment this
// repository adopts (r0..r12 general purpose, pc/stp/itp special).
const (
	RegPC  uint8 = 0xd
	RegSTP uint8 = 0xe
	RegITP uint8 = 0xf
)

func regGet(regs isa.Memory, code uint8) uint32 {
	v, err := regs.GetWord(int(code)*4, false)
	if err != nil {
		// Register file is always exactly 64 bytes (§6.3); a code in
		// 0..15 can never be out of range.
		panic("ops: register file access out of range: " + err.Error())
	}
	return v
}

func regSet(regs isa.Memory, code uint8, value uint32) {
	if err := regs.PutWord(int(code)*4, value, false); err != nil {
		panic("ops: register file access out of range: " + err.Error())
	}
}

func faultScratch(scratch *isa.Scratch, code uint8, r0, r1, r2 uint32) {
	scratch.Code = code
	scratch.R0 = r0
	scratch.R1 = r1
	scratch.R2 = r2
}

// --- Management ---

// Stop halts the CPU.
func Stop(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return isa.Halt
}

// Restart zeroes all 16 registers, including pc, so execution resumes at
// address 0. This mirrors the original implementation's restart
// semantics, kept deliberately (see DESIGN.md Open Question decisions).
func Restart(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	for code := uint8(0); code < 16; code++ {
		regSet(regs, code, 0)
	}
	return isa.AdvancePC
}

// --- Move ---

// Move copies a word from src to dst.
func Move(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second))
	return isa.AdvancePC
}

// Swap writes to dst the word from src with its two 16-bit halves
// exchanged.
func Swap(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	v := regGet(regs, inst.Second)
	regSet(regs, inst.First, v<<16|v>>16)
	return isa.AdvancePC
}

// --- Stack ---

// Push stores r at mem[sp], then decrements sp by 4.
func Push(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	sp := regGet(regs, RegSTP)
	if err := mem.PutWord(int(sp), regGet(regs, inst.First), false); err != nil {
		faultScratch(scratch, isa.InterruptMemoryFault, uint32(isa.InterruptMemoryFault), regGet(regs, RegPC), sp)
		return isa.RaiseInterrupt
	}
	regSet(regs, RegSTP, sp-4)
	return isa.AdvancePC
}

// Pop increments sp by 4, then loads into r.
func Pop(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	sp := regGet(regs, RegSTP) + 4
	v, err := mem.GetWord(int(sp), false)
	if err != nil {
		faultScratch(scratch, isa.InterruptMemoryFault, uint32(isa.InterruptMemoryFault), regGet(regs, RegPC), sp)
		return isa.RaiseInterrupt
	}
	regSet(regs, RegSTP, sp)
	regSet(regs, inst.First, v)
	return isa.AdvancePC
}

// --- Load / store ---

func memFault(regs isa.Memory, scratch *isa.Scratch, addr uint32) isa.Action {
	faultScratch(scratch, isa.InterruptMemoryFault, uint32(isa.InterruptMemoryFault), regGet(regs, RegPC), addr)
	return isa.RaiseInterrupt
}

// Load loads mem[addr] into r.
func Load(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	addr := uint32(inst.Third)
	v, err := mem.GetWord(int(addr), false)
	if err != nil {
		return memFault(regs, scratch, addr)
	}
	regSet(regs, inst.First, v)
	return isa.AdvancePC
}

// LoadImmediate zero-extends imm into r.
func LoadImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, uint32(inst.Third))
	return isa.AdvancePC
}

// LoadRegReg loads mem[base+index] into r.
func LoadRegReg(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	addr := regGet(regs, inst.Second) + regGet(regs, inst.ThirdRegister())
	v, err := mem.GetWord(int(addr), false)
	if err != nil {
		return memFault(regs, scratch, addr)
	}
	regSet(regs, inst.First, v)
	return isa.AdvancePC
}

// LoadRegImmediate loads mem[base+imm] into r.
func LoadRegImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	addr := regGet(regs, inst.Second) + uint32(inst.Third)
	v, err := mem.GetWord(int(addr), false)
	if err != nil {
		return memFault(regs, scratch, addr)
	}
	regSet(regs, inst.First, v)
	return isa.AdvancePC
}

// Store stores r into mem[addr].
func Store(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	addr := uint32(inst.Third)
	if err := mem.PutWord(int(addr), regGet(regs, inst.First), false); err != nil {
		return memFault(regs, scratch, addr)
	}
	return isa.AdvancePC
}

// StoreRegReg stores r into mem[base+index].
func StoreRegReg(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	addr := regGet(regs, inst.First) + regGet(regs, inst.ThirdRegister())
	if err := mem.PutWord(int(addr), regGet(regs, inst.Second), false); err != nil {
		return memFault(regs, scratch, addr)
	}
	return isa.AdvancePC
}

// StoreRegImmediate stores r into mem[base+imm].
func StoreRegImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	addr := regGet(regs, inst.First) + uint32(inst.Third)
	if err := mem.PutWord(int(addr), regGet(regs, inst.Second), false); err != nil {
		return memFault(regs, scratch, addr)
	}
	return isa.AdvancePC
}

// --- Branch ---

// Branch is an unconditional jump to addr. Like every branch below, it
// sets pc itself and returns Jumped so the CPU core does not also add 4.
func Branch(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, RegPC, uint32(inst.Third))
	return isa.Jumped
}

func condBranch(regs isa.Memory, inst instruction.Instruction, taken bool) isa.Action {
	if taken {
		regSet(regs, RegPC, uint32(inst.Third))
	} else {
		regSet(regs, RegPC, regGet(regs, RegPC)+4)
	}
	return isa.Jumped
}

// The ten comparison branches. Each compares r1 (inst.First) to r2
// (inst.Second) and branches to inst.Third on truth, falling through
// (pc += 4) otherwise - so unlike every other AdvancePC executor, these
// set pc themselves rather than letting the CPU core add 4.

func BranchEqual(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, regGet(regs, inst.First) == regGet(regs, inst.Second))
}

func BranchNotEqual(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, regGet(regs, inst.First) != regGet(regs, inst.Second))
}

func BranchLessThan(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, int32(regGet(regs, inst.First)) < int32(regGet(regs, inst.Second)))
}

func BranchLessThanUnsigned(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, regGet(regs, inst.First) < regGet(regs, inst.Second))
}

func BranchGreaterThan(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, int32(regGet(regs, inst.First)) > int32(regGet(regs, inst.Second)))
}

func BranchGreaterThanUnsigned(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, regGet(regs, inst.First) > regGet(regs, inst.Second))
}

func BranchLessEqual(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, int32(regGet(regs, inst.First)) <= int32(regGet(regs, inst.Second)))
}

func BranchLessEqualUnsigned(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, regGet(regs, inst.First) <= regGet(regs, inst.Second))
}

func BranchGreaterEqual(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, int32(regGet(regs, inst.First)) >= int32(regGet(regs, inst.Second)))
}

func BranchGreaterEqualUnsigned(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return condBranch(regs, inst, regGet(regs, inst.First) >= regGet(regs, inst.Second))
}

// --- Function / interrupt primitives ---

// Call pushes pc+4 and sets pc to addr.
func Call(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	sp := regGet(regs, RegSTP)
	if err := mem.PutWord(int(sp), regGet(regs, RegPC)+4, false); err != nil {
		return memFault(regs, scratch, sp)
	}
	regSet(regs, RegSTP, sp-4)
	regSet(regs, RegPC, uint32(inst.Third))
	return isa.Jumped
}

// Return pops into pc.
func Return(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	sp := regGet(regs, RegSTP) + 4
	v, err := mem.GetWord(int(sp), false)
	if err != nil {
		return memFault(regs, scratch, sp)
	}
	regSet(regs, RegSTP, sp)
	regSet(regs, RegPC, v)
	return isa.Jumped
}

// SoftwareInterrupt raises a software interrupt carrying code imm.
func SoftwareInterrupt(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	faultScratch(scratch, isa.InterruptSoftware, uint32(inst.Third), regGet(regs, RegPC), 0)
	return isa.RaiseInterrupt
}

// ReturnFromInterrupt restores all 16 registers from the stack, in the
// reverse of the order the dispatcher pushed them in (r15 first, r0
// last), undoing the interrupt dispatcher's save. Because pc (register
// code RegPC) is itself one of the 16 restored registers, it resumes
// exactly where the interrupted instruction left off; the CPU core must
// not add 4 on top, so this returns Jumped.
func ReturnFromInterrupt(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	sp := regGet(regs, RegSTP)
	for code := int(15); code >= 0; code-- {
		sp += 4
		v, err := mem.GetWord(int(sp), false)
		if err != nil {
			return memFault(regs, scratch, sp)
		}
		// Writing register 14 (stp) here restores the saved
		// pre-dispatch stack pointer directly; the local sp above
		// is only this loop's own walk up the stack and is
		// deliberately not written back afterward.
		regSet(regs, uint8(code), v)
	}
	return isa.Jumped
}

// --- Arithmetic ---

func Add(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)+regGet(regs, inst.ThirdRegister()))
	return isa.AdvancePC
}

func AddImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)+uint32(inst.Third))
	return isa.AdvancePC
}

func Sub(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)-regGet(regs, inst.ThirdRegister()))
	return isa.AdvancePC
}

func SubImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)-uint32(inst.Third))
	return isa.AdvancePC
}

func MultiplyLow(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	p := int64(int32(regGet(regs, inst.Second))) * int64(int32(regGet(regs, inst.ThirdRegister())))
	regSet(regs, inst.First, uint32(p))
	return isa.AdvancePC
}

func MultiplyLowImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	p := int64(int32(regGet(regs, inst.Second))) * int64(uint32(inst.Third))
	regSet(regs, inst.First, uint32(p))
	return isa.AdvancePC
}

func MultiplyLowUnsigned(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	p := uint64(regGet(regs, inst.Second)) * uint64(regGet(regs, inst.ThirdRegister()))
	regSet(regs, inst.First, uint32(p))
	return isa.AdvancePC
}

func MultiplyLowUnsignedImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	p := uint64(regGet(regs, inst.Second)) * uint64(inst.Third)
	regSet(regs, inst.First, uint32(p))
	return isa.AdvancePC
}

func MultiplyHigh(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	p := int64(int32(regGet(regs, inst.Second))) * int64(int32(regGet(regs, inst.ThirdRegister())))
	regSet(regs, inst.First, uint32(p>>32))
	return isa.AdvancePC
}

func MultiplyHighImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	p := int64(int32(regGet(regs, inst.Second))) * int64(uint32(inst.Third))
	regSet(regs, inst.First, uint32(p>>32))
	return isa.AdvancePC
}

func MultiplyHighUnsigned(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	p := uint64(regGet(regs, inst.Second)) * uint64(regGet(regs, inst.ThirdRegister()))
	regSet(regs, inst.First, uint32(p>>32))
	return isa.AdvancePC
}

func MultiplyHighUnsignedImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	p := uint64(regGet(regs, inst.Second)) * uint64(inst.Third)
	regSet(regs, inst.First, uint32(p>>32))
	return isa.AdvancePC
}

func divideByZero(regs isa.Memory, scratch *isa.Scratch, dividend uint32) isa.Action {
	faultScratch(scratch, isa.InterruptDivideByZero, uint32(isa.InterruptDivideByZero), regGet(regs, RegPC), dividend)
	return isa.RaiseInterrupt
}

func Divide(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	dividend := int32(regGet(regs, inst.Second))
	divisor := int32(regGet(regs, inst.ThirdRegister()))
	if divisor == 0 {
		return divideByZero(regs, scratch, uint32(dividend))
	}
	regSet(regs, inst.First, uint32(dividend/divisor))
	return isa.AdvancePC
}

func DivideImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	dividend := int32(regGet(regs, inst.Second))
	divisor := int32(uint32(inst.Third))
	if divisor == 0 {
		return divideByZero(regs, scratch, uint32(dividend))
	}
	regSet(regs, inst.First, uint32(dividend/divisor))
	return isa.AdvancePC
}

func DivideUnsigned(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	dividend := regGet(regs, inst.Second)
	divisor := regGet(regs, inst.ThirdRegister())
	if divisor == 0 {
		return divideByZero(regs, scratch, dividend)
	}
	regSet(regs, inst.First, dividend/divisor)
	return isa.AdvancePC
}

func DivideUnsignedImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	dividend := regGet(regs, inst.Second)
	divisor := uint32(inst.Third)
	if divisor == 0 {
		return divideByZero(regs, scratch, dividend)
	}
	regSet(regs, inst.First, dividend/divisor)
	return isa.AdvancePC
}

func Modulo(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	dividend := int32(regGet(regs, inst.Second))
	divisor := int32(regGet(regs, inst.ThirdRegister()))
	if divisor == 0 {
		return divideByZero(regs, scratch, uint32(dividend))
	}
	regSet(regs, inst.First, uint32(dividend%divisor))
	return isa.AdvancePC
}

func ModuloImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	dividend := int32(regGet(regs, inst.Second))
	divisor := int32(uint32(inst.Third))
	if divisor == 0 {
		return divideByZero(regs, scratch, uint32(dividend))
	}
	regSet(regs, inst.First, uint32(dividend%divisor))
	return isa.AdvancePC
}

func ModuloUnsigned(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	dividend := regGet(regs, inst.Second)
	divisor := regGet(regs, inst.ThirdRegister())
	if divisor == 0 {
		return divideByZero(regs, scratch, dividend)
	}
	regSet(regs, inst.First, dividend%divisor)
	return isa.AdvancePC
}

func ModuloUnsignedImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	dividend := regGet(regs, inst.Second)
	divisor := uint32(inst.Third)
	if divisor == 0 {
		return divideByZero(regs, scratch, dividend)
	}
	regSet(regs, inst.First, dividend%divisor)
	return isa.AdvancePC
}

// --- Logic ---

func Not(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, ^regGet(regs, inst.Second))
	return isa.AdvancePC
}

func Or(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)|regGet(regs, inst.ThirdRegister()))
	return isa.AdvancePC
}

func OrImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)|uint32(inst.Third))
	return isa.AdvancePC
}

func And(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)&regGet(regs, inst.ThirdRegister()))
	return isa.AdvancePC
}

func AndImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)&uint32(inst.Third))
	return isa.AdvancePC
}

func Xor(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)^regGet(regs, inst.ThirdRegister()))
	return isa.AdvancePC
}

func XorImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	regSet(regs, inst.First, regGet(regs, inst.Second)^uint32(inst.Third))
	return isa.AdvancePC
}

// --- Shift ---

func shiftAmount(v uint32) uint {
	return uint(v % 32)
}

func ShiftLeftLogical(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(regGet(regs, inst.ThirdRegister()))
	regSet(regs, inst.First, regGet(regs, inst.Second)<<n)
	return isa.AdvancePC
}

func ShiftLeftLogicalImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(uint32(inst.Third))
	regSet(regs, inst.First, regGet(regs, inst.Second)<<n)
	return isa.AdvancePC
}

// ShiftLeftArithmetic is identical to the logical left shift per §4.E.
func ShiftLeftArithmetic(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return ShiftLeftLogical(regs, mem, scratch, inst)
}

func ShiftLeftArithmeticImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return ShiftLeftLogicalImmediate(regs, mem, scratch, inst)
}

func ShiftRightLogical(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(regGet(regs, inst.ThirdRegister()))
	regSet(regs, inst.First, regGet(regs, inst.Second)>>n)
	return isa.AdvancePC
}

func ShiftRightLogicalImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(uint32(inst.Third))
	regSet(regs, inst.First, regGet(regs, inst.Second)>>n)
	return isa.AdvancePC
}

func ShiftRightArithmetic(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(regGet(regs, inst.ThirdRegister()))
	regSet(regs, inst.First, uint32(int32(regGet(regs, inst.Second))>>n))
	return isa.AdvancePC
}

func ShiftRightArithmeticImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(uint32(inst.Third))
	regSet(regs, inst.First, uint32(int32(regGet(regs, inst.Second))>>n))
	return isa.AdvancePC
}

func rotl(v uint32, n uint) uint32 { return v<<n | v>>(32-n) }
func rotr(v uint32, n uint) uint32 { return v>>n | v<<(32-n) }

func RotateLeft(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(regGet(regs, inst.ThirdRegister()))
	if n == 0 {
		regSet(regs, inst.First, regGet(regs, inst.Second))
	} else {
		regSet(regs, inst.First, rotl(regGet(regs, inst.Second), n))
	}
	return isa.AdvancePC
}

func RotateLeftImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(uint32(inst.Third))
	if n == 0 {
		regSet(regs, inst.First, regGet(regs, inst.Second))
	} else {
		regSet(regs, inst.First, rotl(regGet(regs, inst.Second), n))
	}
	return isa.AdvancePC
}

func RotateRight(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(regGet(regs, inst.ThirdRegister()))
	if n == 0 {
		regSet(regs, inst.First, regGet(regs, inst.Second))
	} else {
		regSet(regs, inst.First, rotr(regGet(regs, inst.Second), n))
	}
	return isa.AdvancePC
}

func RotateRightImmediate(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	n := shiftAmount(uint32(inst.Third))
	if n == 0 {
		regSet(regs, inst.First, regGet(regs, inst.Second))
	} else {
		regSet(regs, inst.First, rotr(regGet(regs, inst.Second), n))
	}
	return isa.AdvancePC
}

// --- World ---

// World requests the multi-tick world-action subprotocol described in
// §4.M. The executor itself carries no grid or persistence access: it
// only flags the request, leaving resolution to internal/scheduler's
// resolveAction.
func World(regs, mem isa.Memory, scratch *isa.Scratch, inst instruction.Instruction) isa.Action {
	return isa.WorldRequest
}

// Results a matured world action writes into r0, matching the original
// simpleworld's ActionSuccess/ActionFailure values; ActionInterrupted is
// this port's own name for the third case §4.M and §5 describe (an
// unrelated interrupt cancels the action in flight).
const (
	ActionSuccess     uint32 = 0
	ActionFailure     uint32 = 1
	ActionInterrupted uint32 = 2
)

// World-action subcommands selected by the `world` opcode's immediate
// operand (inst.Third) once the action matures. The numbering matches
// the original simpleworld's ACTION_* constants in operations_world.cpp
// exactly, so assembled "world" immediates keep their original meaning.
const (
	ActionNothing           uint32 = 0x00
	ActionMyselfID          uint32 = 0x10
	ActionMyselfSize        uint32 = 0x11
	ActionMyselfEnergy      uint32 = 0x12
	ActionMyselfPosition    uint32 = 0x13
	ActionMyselfOrientation uint32 = 0x14
	ActionDetect            uint32 = 0x20
	ActionInfoID            uint32 = 0x30
	ActionInfoSize          uint32 = 0x31
	ActionInfoEnergy        uint32 = 0x32
	ActionInfoPosition      uint32 = 0x33
	ActionInfoOrientation   uint32 = 0x34
	ActionMoveForward       uint32 = 0x40
	ActionMoveBackward      uint32 = 0x41
	ActionTurnLeft          uint32 = 0x42
	ActionTurnRight         uint32 = 0x43
	ActionAttack            uint32 = 0x50
	ActionEat               uint32 = 0x60
	ActionEgg               uint32 = 0x70
)

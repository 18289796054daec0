/*
   Simple World  - CPU fetch-decode-execute core

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

// Package cpu is one bug's virtual CPU: a register file, a data memory,
// a reference to the shared ISA, and the fetch-decode-execute loop that
// steps it one instruction at a time. The CPU never reaches into the
// world grid or the persistence layer itself - the scheduler is the only
// caller of Step, and the world opcode's full resolution happens outside
// this package, in internal/scheduler, once Step reports a WorldRequest.
package cpu

import (
	"errors"
	"fmt"

	"github.com/rcornwell/simpleworld/internal/instruction"
	"github.com/rcornwell/simpleworld/internal/isa"
	"github.com/rcornwell/simpleworld/internal/memory"
)

// Register codes for the three special-purpose registers, the same codes
// internal/ops uses, so callers outside that package need not import it
// just to name pc/stp/itp.
const (
	RegPC  = 0xd
	RegSTP = 0xe
	RegITP = 0xf
)

// ErrInstructionFault is the error recorded (not raised as a Go error -
// it becomes an interrupt) when the fetched opcode is not in the ISA.
var ErrInstructionFault = errors.New("instruction fault: unknown opcode")

// Status is what Step observed happened this call.
type Status int

const (
	Running Status = iota
	Halted
	// WorldRequested means the world opcode was issued; internal/scheduler
	// must resolve it via the instruction's Third field (the subcommand
	// immediate) and, on maturity, call ResumeAfterWorldAction.
	WorldRequested
)

// CPU is one bug's virtual machine: 64 bytes of registers (r0..r12, pc,
// stp, itp) plus a data Memory, stepped against a shared ISA.
type CPU struct {
	Registers *memory.Memory
	Memory    *memory.Memory
	ISA       *isa.ISA
	halted    bool
	// pending is set by raise-interrupt (an executor's returned action, an
	// instruction/memory fault, or the scheduler's RaiseTimer/
	// RaiseWorldAction) and dispatched at the start of the next Step,
	// never the same call that set it (§4.F steps 1-2).
	pending *isa.Scratch
}

// New returns a CPU with a zeroed 64-byte register file over mem and set.
func New(set *isa.ISA, mem *memory.Memory) *CPU {
	return &CPU{
		Registers: memory.New(16 * 4),
		Memory:    mem,
		ISA:       set,
	}
}

// Halted reports whether stop has run.
func (c *CPU) Halted() bool {
	return c.halted
}

// Reg returns register code's current value (host-native, no bounds
// surprises since the register file is always exactly 64 bytes).
func (c *CPU) Reg(code uint8) uint32 {
	v, _ := c.Registers.GetWord(int(code)*4, false)
	return v
}

// SetReg writes register code.
func (c *CPU) SetReg(code uint8, value uint32) {
	_ = c.Registers.PutWord(int(code)*4, value, false)
}

// Step implements §4.F's execute_one:
//  1. If halted, it is a no-op.
//  2. If an interrupt is pending (raised by the previous Step, or by the
//     scheduler via RaiseTimer/RaiseWorldAction since then), dispatch it
//     and return without fetching anything this call.
//  3. Otherwise fetch mem[pc], decode, look up the executor (an unknown
//     opcode raises instruction-fault).
//  4. Invoke the executor and apply the returned Action. raise-interrupt
//     only records the pending interrupt for the *next* Step; pc is left
//     untouched.
//
// The world opcode is handled specially: Step does not resolve it, it
// reports WorldRequested and leaves pc untouched; once the action matures
// the scheduler decodes the subcommand from the instruction still at pc
// and then calls ResumeAfterWorldAction.
func (c *CPU) Step() (Status, instruction.Instruction, error) {
	if c.halted {
		return Halted, instruction.Instruction{}, nil
	}

	if c.pending != nil {
		scratch := *c.pending
		c.pending = nil
		c.dispatchInterrupt(scratch)
		return Running, instruction.Instruction{}, nil
	}

	pc := c.Reg(RegPC)
	word, err := c.Memory.GetWord(int(pc), false)
	if err != nil {
		c.raiseMemoryFault(pc)
		return Running, instruction.Instruction{}, nil
	}
	inst := instruction.Decode(word)

	info, err := c.ISA.InstructionByCode(inst.Code)
	if err != nil {
		c.raiseInstructionFault(pc)
		return Running, inst, nil
	}

	var scratch isa.Scratch
	action := info.Exec(c.Registers, c.Memory, &scratch, inst)
	switch action {
	case isa.AdvancePC:
		c.SetReg(RegPC, pc+4)
	case isa.Jumped:
		// Executor already wrote pc (branch, call, ret, reti).
	case isa.RaiseInterrupt:
		c.setPending(scratch)
	case isa.Halt:
		c.halted = true
		return Halted, inst, nil
	case isa.WorldRequest:
		return WorldRequested, inst, nil
	}
	return Running, inst, nil
}

// setPending records scratch as the interrupt to dispatch at the start of
// the next Step, overwriting whatever was previously pending. Only one
// interrupt is held: a raise before that Step (such as the scheduler's
// RaiseTimer after an executor raised one) replaces the earlier one.
func (c *CPU) setPending(scratch isa.Scratch) {
	s := scratch
	c.pending = &s
}

// ResumeAfterWorldAction is called by the scheduler once a world action
// has matured (or been cancelled): r0 carries the subcommand's result
// (ActionSuccess/ActionFailure/ActionInterrupted, see internal/ops), and
// pc is advanced past the world instruction exactly as any other
// completed instruction would be.
func (c *CPU) ResumeAfterWorldAction(r0 uint32) {
	c.SetReg(0, r0)
	c.SetReg(RegPC, c.Reg(RegPC)+4)
}

// RaiseTimer raises the timer interrupt on this CPU, dispatched at the
// start of the next Step the same way any other interrupt is - used by
// the scheduler every 64th tick (§4.M step 3).
func (c *CPU) RaiseTimer() {
	c.setPending(isa.Scratch{Code: isa.InterruptTimer})
}

// RaiseWorldAction raises the world-action interrupt, used by the
// scheduler when a matured world action's subcommand immediate is not in
// the closed table (§4.M: "If the imm is not in the table, the executor
// raises the world-action interrupt and the action is abandoned"). Like
// any other raised interrupt it is only dispatched - pushing registers
// and jumping to the handler, or silently dropping and advancing pc with
// no handler installed - on the next Step.
func (c *CPU) RaiseWorldAction() {
	c.setPending(isa.Scratch{Code: isa.InterruptWorldAction})
}

// CancelWorldAction is called by the scheduler when an unrelated
// interrupt arrives while a world action is in flight (§4.M,
// §5 Cancellation): it writes ActionInterrupted into r0, advances pc past
// the world instruction, and then lets the interrupt itself dispatch
// normally on the next Step.
func (c *CPU) CancelWorldAction(actionInterrupted uint32) {
	c.ResumeAfterWorldAction(actionInterrupted)
}

func (c *CPU) raiseMemoryFault(pc uint32) {
	c.setPending(isa.Scratch{
		Code: isa.InterruptMemoryFault,
		R0:   uint32(isa.InterruptMemoryFault),
		R1:   pc,
	})
}

func (c *CPU) raiseInstructionFault(pc uint32) {
	c.setPending(isa.Scratch{
		Code: isa.InterruptInstructionFault,
		R0:   uint32(isa.InterruptInstructionFault),
		R1:   pc,
	})
}

// dispatchInterrupt implements §4.F's dispatch: when itp != 0 and a
// non-zero handler address is installed, push r0..r15 in ascending order,
// load the scratch record into r0..r2, and jump to the handler. With no
// handler installed the interrupt is silently dropped and pc advances,
// matching "otherwise ... silently dropped".
func (c *CPU) dispatchInterrupt(scratch isa.Scratch) {
	itp := c.Reg(RegITP)
	if itp == 0 {
		c.SetReg(RegPC, c.Reg(RegPC)+4)
		return
	}
	handler, err := c.Memory.GetWord(int(itp)+4*int(scratch.Code), false)
	if err != nil || handler == 0 {
		c.SetReg(RegPC, c.Reg(RegPC)+4)
		return
	}

	sp := c.Reg(RegSTP)
	for code := uint8(0); code < 16; code++ {
		_ = c.Memory.PutWord(int(sp), c.Reg(code), false)
		sp -= 4
	}
	c.SetReg(RegSTP, sp)

	c.SetReg(0, scratch.R0)
	c.SetReg(1, scratch.R1)
	c.SetReg(2, scratch.R2)
	c.SetReg(RegPC, handler)
}

// Kill marks the CPU halted without running stop, used by the scheduler
// when a bug is killed outright (fault-on-fault, energy underflow).
func (c *CPU) Kill() {
	c.halted = true
}

func (c *CPU) String() string {
	return fmt.Sprintf("pc=%#06x stp=%#06x itp=%#06x halted=%v",
		c.Reg(RegPC), c.Reg(RegSTP), c.Reg(RegITP), c.halted)
}

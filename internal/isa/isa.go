/*
   Simple World  - Instruction-set architecture registry

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

// Package isa is the instruction-set-architecture registry: the mapping
// between opcode bytes and mnemonics, register codes and names, and the
// interrupt taxonomy every CPU shares. It carries no execution state of its
// own; internal/cpu consults it once per fetch-decode-execute step.
package isa

import (
	"errors"
	"fmt"

	"github.com/rcornwell/simpleworld/internal/instruction"
)

// ErrNotFound is returned by any lookup (opcode, mnemonic, register code,
// register name, interrupt code) that does not resolve.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by an Add* call naming a code or name already
// registered.
var ErrDuplicate = errors.New("already exists")

// Action is what an executor asks the CPU core to do next.
type Action int

const (
	AdvancePC Action = iota
	RaiseInterrupt
	Halt
	// WorldRequest is returned only by the world opcode's executor: the
	// instruction blocks without advancing pc while internal/scheduler
	// runs the multi-tick action subprotocol described in §4.M. This is
	// the CPU side of the "action delegate" capability: the executor
	// itself never touches the world grid or the persistence layer, it
	// only signals that a world action was requested.
	WorldRequest
	// Jumped is returned by executors that already wrote pc themselves
	// (branches, call, ret, reti): the CPU core must not add 4 on top.
	// The original instruction set has a fourth "do nothing" outcome
	// alongside advance-pc/raise-interrupt/halt for exactly this case;
	// this registry keeps it as its own Action rather than overloading
	// AdvancePC, since a branch's target and pc+4 are different things.
	Jumped
)

// Scratch is the pending-interrupt record an executor fills in when it
// returns RaiseInterrupt. The dispatcher (internal/cpu) consumes and
// clears it on the next step.
type Scratch struct {
	Code       uint8
	R0, R1, R2 uint32
}

// Executor implements one opcode's effect. regs and mem are the bug's
// register file and data memory; scratch is shared pending-interrupt
// storage the executor fills in only when it returns RaiseInterrupt.
type Executor func(regs, mem Memory, scratch *Scratch, inst instruction.Instruction) Action

// Memory is the subset of *internal/memory.Memory an executor needs,
// named here to avoid an import cycle (internal/memory never needs isa).
type Memory interface {
	GetWord(addr int, bigEndian bool) (uint32, error)
	PutWord(addr int, value uint32, bigEndian bool) error
}

// Instruction describes one opcode: its mnemonic, operand arity, whether
// it consumes the 16-bit immediate/third-register field, and its executor.
type Instruction struct {
	Code         uint8
	Name         string
	RegCount     uint8
	HasImmediate bool
	Exec         Executor
}

// Interrupt describes one interrupt type.
type Interrupt struct {
	Code        uint8
	Name        string
	FatalIfUnmasked bool
}

// Fixed interrupt codes, shared by every ISA instance created with New.
const (
	InterruptTimer            uint8 = 0
	InterruptSoftware         uint8 = 1
	InterruptInstructionFault uint8 = 2
	InterruptMemoryFault      uint8 = 3
	InterruptDivideByZero     uint8 = 4
	InterruptWorldAction      uint8 = 5
	InterruptWorldEvent       uint8 = 6
)

// ISA is the registry of opcodes, registers, and interrupts.
type ISA struct {
	instructions map[uint8]Instruction
	mnemonics    map[string]uint8
	registers    map[uint8]string
	regCodes     map[string]uint8
	interrupts   map[uint8]Interrupt
	intNames     map[string]uint8
}

// New returns an empty ISA with the five fixed CPU interrupts and the two
// simulation-layer interrupts (world-action, world-event) pre-registered,
// per §4.D.
func New() *ISA {
	isa := &ISA{
		instructions: make(map[uint8]Instruction),
		mnemonics:    make(map[string]uint8),
		registers:    make(map[uint8]string),
		regCodes:     make(map[string]uint8),
		interrupts:   make(map[uint8]Interrupt),
		intNames:     make(map[string]uint8),
	}
	for _, in := range []Interrupt{
		{InterruptTimer, "timer", false},
		{InterruptSoftware, "software", false},
		{InterruptInstructionFault, "instruction-fault", true},
		{InterruptMemoryFault, "memory-fault", true},
		{InterruptDivideByZero, "divide-by-zero", true},
		{InterruptWorldAction, "world-action", false},
		{InterruptWorldEvent, "world-event", false},
	} {
		if err := isa.AddInterrupt(in.Code, in.Name, in.FatalIfUnmasked); err != nil {
			panic(fmt.Sprintf("isa.New: builtin interrupt %s: %v", in.Name, err))
		}
	}
	return isa
}

// AddInstruction registers one opcode. reg_count must be 0..3.
func (isa *ISA) AddInstruction(code uint8, name string, regCount uint8, hasImmediate bool, exec Executor) error {
	if _, ok := isa.instructions[code]; ok {
		return fmt.Errorf("instruction code %#x: %w", code, ErrDuplicate)
	}
	if _, ok := isa.mnemonics[name]; ok {
		return fmt.Errorf("instruction name %q: %w", name, ErrDuplicate)
	}
	isa.instructions[code] = Instruction{
		Code: code, Name: name, RegCount: regCount,
		HasImmediate: hasImmediate, Exec: exec,
	}
	isa.mnemonics[name] = code
	return nil
}

// InstructionByCode looks up an instruction by opcode.
func (isa *ISA) InstructionByCode(code uint8) (Instruction, error) {
	in, ok := isa.instructions[code]
	if !ok {
		return Instruction{}, fmt.Errorf("opcode %#x: %w", code, ErrNotFound)
	}
	return in, nil
}

// InstructionByName looks up an instruction by mnemonic.
func (isa *ISA) InstructionByName(name string) (Instruction, error) {
	code, ok := isa.mnemonics[name]
	if !ok {
		return Instruction{}, fmt.Errorf("mnemonic %q: %w", name, ErrNotFound)
	}
	return isa.instructions[code], nil
}

// AddRegister registers one 4-bit register code under name.
func (isa *ISA) AddRegister(code uint8, name string) error {
	if _, ok := isa.registers[code]; ok {
		return fmt.Errorf("register code %#x: %w", code, ErrDuplicate)
	}
	if _, ok := isa.regCodes[name]; ok {
		return fmt.Errorf("register name %q: %w", name, ErrDuplicate)
	}
	isa.registers[code] = name
	isa.regCodes[name] = code
	return nil
}

// RegisterName looks up a register's name by code.
func (isa *ISA) RegisterName(code uint8) (string, error) {
	name, ok := isa.registers[code]
	if !ok {
		return "", fmt.Errorf("register code %#x: %w", code, ErrNotFound)
	}
	return name, nil
}

// RegisterCode looks up a register's code by name.
func (isa *ISA) RegisterCode(name string) (uint8, error) {
	code, ok := isa.regCodes[name]
	if !ok {
		return 0, fmt.Errorf("register name %q: %w", name, ErrNotFound)
	}
	return code, nil
}

// AddInterrupt registers one interrupt type.
func (isa *ISA) AddInterrupt(code uint8, name string, fatalIfUnmasked bool) error {
	if _, ok := isa.interrupts[code]; ok {
		return fmt.Errorf("interrupt code %#x: %w", code, ErrDuplicate)
	}
	if _, ok := isa.intNames[name]; ok {
		return fmt.Errorf("interrupt name %q: %w", name, ErrDuplicate)
	}
	isa.interrupts[code] = Interrupt{code, name, fatalIfUnmasked}
	isa.intNames[name] = code
	return nil
}

// InterruptByCode looks up an interrupt type by code.
func (isa *ISA) InterruptByCode(code uint8) (Interrupt, error) {
	in, ok := isa.interrupts[code]
	if !ok {
		return Interrupt{}, fmt.Errorf("interrupt code %#x: %w", code, ErrNotFound)
	}
	return in, nil
}

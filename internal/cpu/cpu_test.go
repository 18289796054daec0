package cpu

/*
 * Simple World - tests for the CPU fetch-decode-execute core
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"testing"

	"github.com/rcornwell/simpleworld/internal/instruction"
	"github.com/rcornwell/simpleworld/internal/isa"
	"github.com/rcornwell/simpleworld/internal/memory"
	"github.com/rcornwell/simpleworld/internal/ops"
)

// RaiseWorldAction only marks the world-action interrupt pending; the
// next Step dispatches it (jumps to the handler, without having advanced
// pc itself first) - used when a matured world action's subcommand
// immediate is not in the scheduler's closed table.
func TestRaiseWorldActionDispatchesWithoutAdvancingPC(t *testing.T) {
	loadi := func(r uint8, imm uint16) uint32 {
		return instruction.Encode(instruction.Instruction{Code: 0x11, First: r, Third: imm})
	}
	reti := instruction.Encode(instruction.Instruction{Code: 0x35})

	set := isa.New()
	if err := ops.Seed(set); err != nil {
		t.Fatalf("ops.Seed returned error: %v", err)
	}
	mem := memory.New(0x200)
	_ = mem.PutWord(0, instruction.Encode(instruction.Instruction{Code: ops.OpWorld, Third: 0xff}), false)
	_ = mem.PutWord(0x40, loadi(3, 0x99), false)
	_ = mem.PutWord(0x44, reti, false)
	// ITP table: handler for world-action (code 5) at offset 5*4.
	_ = mem.PutWord(0x100+5*4, 0x40, false)

	c := New(set, mem)
	c.SetReg(RegITP, 0x100)
	c.SetReg(RegSTP, 0x1f0)

	pcBefore := c.Reg(RegPC)
	c.RaiseWorldAction()
	if got := c.Reg(RegPC); got != pcBefore {
		t.Fatalf("pc after RaiseWorldAction (before next Step) = %#x, want unchanged %#x", got, pcBefore)
	}
	if _, _, err := c.Step(); err != nil { // dispatches the pending interrupt
		t.Fatalf("Step() dispatch returned error: %v", err)
	}
	if got := c.Reg(RegPC); got != 0x40 {
		t.Fatalf("pc after dispatch = %#x, want 0x40 (jumped to handler)", got)
	}

	if _, _, err := c.Step(); err != nil { // loadi r3 0x99 in handler
		t.Fatalf("Step() loadi returned error: %v", err)
	}
	if _, _, err := c.Step(); err != nil { // reti
		t.Fatalf("Step() reti returned error: %v", err)
	}
	// reti restores every register, including pc, to its pre-dispatch
	// value - since RaiseWorldAction never advances pc itself, that
	// value is still the world instruction's own address.
	if got := c.Reg(RegPC); got != pcBefore {
		t.Errorf("pc after reti = %#x, want %#x (restored, not advanced)", got, pcBefore)
	}
	if got := c.Reg(3); got != 0 {
		t.Errorf("r3 = %#x, want 0 (restored to its pre-dispatch value)", got)
	}
}

// With no handler installed, the next Step after RaiseWorldAction
// silently drops the interrupt and advances pc, the same as any other
// undispatched interrupt.
func TestRaiseWorldActionWithNoHandlerAdvancesPC(t *testing.T) {
	c := newTestCPU(t, []uint32{instruction.Encode(instruction.Instruction{Code: ops.OpWorld, Third: 0xff})})
	c.RaiseWorldAction()
	if _, _, err := c.Step(); err != nil {
		t.Fatalf("Step() returned error: %v", err)
	}
	if got := c.Reg(RegPC); got != 4 {
		t.Errorf("pc after dispatch with no handler = %#x, want 4", got)
	}
}

func newTestCPU(t *testing.T, image []uint32) *CPU {
	t.Helper()
	set := isa.New()
	if err := ops.Seed(set); err != nil {
		t.Fatalf("ops.Seed returned error: %v", err)
	}
	mem := memory.New(64)
	for i, w := range image {
		if err := mem.PutWord(i*4, w, false); err != nil {
			t.Fatalf("PutWord(%d) returned error: %v", i, err)
		}
	}
	return New(set, mem)
}

// Tiniest program: the first word is stop; after one step the CPU is
// halted and no register has changed (§8 scenario 1).
func TestTiniestProgram(t *testing.T) {
	c := newTestCPU(t, []uint32{0x00000000})
	status, _, err := c.Step()
	if err != nil {
		t.Fatalf("Step() returned error: %v", err)
	}
	if status != Halted {
		t.Fatalf("status = %v, want Halted", status)
	}
	if !c.Halted() {
		t.Error("Halted() = false, want true")
	}
	if c.Reg(RegPC) != 0 {
		t.Errorf("pc = %#x, want 0", c.Reg(RegPC))
	}
}

// Load immediate and add: loadi r0 1; loadi r1 2; add r2 r0 r1; stop.
// After running, r2 == 3 and pc == 0x10 (§8 scenario 2).
func TestLoadImmediateAndAdd(t *testing.T) {
	loadi := func(r uint8, imm uint16) uint32 {
		return instruction.Encode(instruction.Instruction{Code: 0x11, First: r, Third: imm})
	}
	add := instruction.Encode(instruction.Instruction{Code: 0x40, First: 2, Second: 0, Third: 1})
	stop := uint32(0x00000000)

	c := newTestCPU(t, []uint32{loadi(0, 1), loadi(1, 2), add, stop})

	for i := 0; i < 3; i++ {
		status, _, err := c.Step()
		if err != nil {
			t.Fatalf("Step() %d returned error: %v", i, err)
		}
		if status != Running {
			t.Fatalf("Step() %d status = %v, want Running", i, status)
		}
	}
	status, _, err := c.Step()
	if err != nil {
		t.Fatalf("final Step() returned error: %v", err)
	}
	if status != Halted {
		t.Fatalf("final status = %v, want Halted", status)
	}
	if got := c.Reg(2); got != 3 {
		t.Errorf("r2 = %d, want 3", got)
	}
	if got := c.Reg(RegPC); got != 0x10 {
		t.Errorf("pc = %#x, want 0x10", got)
	}
}

// Divide by zero: with an ITP and handler installed that writes 0xDEAD
// to a fixed address, running leaves 0xDEAD in that cell (§8 scenario 3).
func TestDivideByZeroInterrupt(t *testing.T) {
	// Program layout:
	//   0x00 loadi r0 5
	//   0x04 loadi r1 0
	//   0x08 div r2 r0 r1
	//   0x0c stop
	// Handler at 0x40:
	//   0x40 loadi r3 0xdead
	//   0x44 store r3 0x50   (store to address 0x50)
	//   0x48 reti
	// ITP table at 0x100: entry for divide-by-zero interrupt (index 4)
	// holds handler address 0x40.
	loadi := func(r uint8, imm uint16) uint32 {
		return instruction.Encode(instruction.Instruction{Code: 0x11, First: r, Third: imm})
	}
	div := instruction.Encode(instruction.Instruction{Code: 0x4c, First: 2, Second: 0, Third: 1})
	store := instruction.Encode(instruction.Instruction{Code: 0x18, First: 3, Third: 0x50})
	reti := instruction.Encode(instruction.Instruction{Code: 0x35})
	stop := uint32(0)

	set := isa.New()
	if err := ops.Seed(set); err != nil {
		t.Fatalf("ops.Seed returned error: %v", err)
	}
	mem := memory.New(0x200)
	prog := []uint32{loadi(0, 5), loadi(1, 0), div, stop}
	for i, w := range prog {
		_ = mem.PutWord(i*4, w, false)
	}
	handler := []uint32{loadi(3, 0xdead), store, reti}
	for i, w := range handler {
		_ = mem.PutWord(0x40+i*4, w, false)
	}
	// ITP table: handler for divide-by-zero (code 4) at offset 4*4=0x10
	// from the table base.
	_ = mem.PutWord(0x100+4*4, 0x40, false)

	c := New(set, mem)
	c.SetReg(RegITP, 0x100)
	c.SetReg(RegSTP, 0x1f0)

	for i := 0; i < 10; i++ {
		status, _, err := c.Step()
		if err != nil {
			t.Fatalf("Step() %d returned error: %v", i, err)
		}
		if status == Halted {
			break
		}
	}

	got, err := mem.GetWord(0x50, false)
	if err != nil {
		t.Fatalf("GetWord(0x50) returned error: %v", err)
	}
	if got != 0xdead {
		t.Errorf("mem[0x50] = %#x, want 0xdead", got)
	}
}

// Interrupt save/restore: after int 0x00 with a handler that immediately
// retis, r3 and sp are unchanged (§8 scenario 4).
func TestInterruptSaveRestore(t *testing.T) {
	loadi := func(r uint8, imm uint16) uint32 {
		return instruction.Encode(instruction.Instruction{Code: 0x11, First: r, Third: imm})
	}
	intInst := instruction.Encode(instruction.Instruction{Code: 0x31, Third: 0})
	reti := instruction.Encode(instruction.Instruction{Code: 0x35})

	set := isa.New()
	if err := ops.Seed(set); err != nil {
		t.Fatalf("ops.Seed returned error: %v", err)
	}
	mem := memory.New(0x200)
	prog := []uint32{loadi(3, 0x42), intInst}
	for i, w := range prog {
		_ = mem.PutWord(i*4, w, false)
	}
	_ = mem.PutWord(0x40, reti, false)
	// ITP table: handler for software interrupt (code 1) at offset 1*4.
	_ = mem.PutWord(0x100+1*4, 0x40, false)

	c := New(set, mem)
	c.SetReg(RegITP, 0x100)
	c.SetReg(RegSTP, 0x1f0)

	preSP := c.Reg(RegSTP)

	if _, _, err := c.Step(); err != nil { // loadi r3
		t.Fatalf("Step() loadi returned error: %v", err)
	}
	if _, _, err := c.Step(); err != nil { // int 0x00: only marks it pending
		t.Fatalf("Step() int returned error: %v", err)
	}
	if _, _, err := c.Step(); err != nil { // dispatches the pending interrupt
		t.Fatalf("Step() dispatch returned error: %v", err)
	}
	if _, _, err := c.Step(); err != nil { // reti at handler
		t.Fatalf("Step() reti returned error: %v", err)
	}

	if got := c.Reg(3); got != 0x42 {
		t.Errorf("r3 after reti = %#x, want 0x42", got)
	}
	if got := c.Reg(RegSTP); got != preSP {
		t.Errorf("sp after reti = %#x, want %#x", got, preSP)
	}
}

package ops

/*
 * Simple World - tests for opcode executors
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"testing"

	"github.com/rcornwell/simpleworld/internal/instruction"
	"github.com/rcornwell/simpleworld/internal/isa"
	"github.com/rcornwell/simpleworld/internal/memory"
)

func newRegs() *memory.Memory { return memory.New(16 * 4) }

func TestAdd(t *testing.T) {
	regs := newRegs()
	regSet(regs, 1, 2)
	regSet(regs, 2, 3)
	inst := instruction.Instruction{First: 0, Second: 1, Third: 2} // third register code in low nibble
	action := Add(regs, regs, &isa.Scratch{}, inst)
	if action != isa.AdvancePC {
		t.Fatalf("Add() action = %v, want AdvancePC", action)
	}
	if got := regGet(regs, 0); got != 5 {
		t.Errorf("Add() r0 = %d, want 5", got)
	}
}

func TestDivideByZero(t *testing.T) {
	regs := newRegs()
	regSet(regs, 1, 5)
	regSet(regs, 2, 0)
	inst := instruction.Instruction{First: 0, Second: 1, Third: 2}
	scratch := &isa.Scratch{}
	action := Divide(regs, regs, scratch, inst)
	if action != isa.RaiseInterrupt {
		t.Fatalf("Divide by zero action = %v, want RaiseInterrupt", action)
	}
	if scratch.Code != isa.InterruptDivideByZero {
		t.Errorf("scratch.Code = %d, want InterruptDivideByZero", scratch.Code)
	}
}

func TestRestartZeroesAllRegisters(t *testing.T) {
	regs := newRegs()
	for i := uint8(0); i < 16; i++ {
		regSet(regs, i, 0xffffffff)
	}
	action := Restart(regs, regs, &isa.Scratch{}, instruction.Instruction{})
	if action != isa.AdvancePC {
		t.Fatalf("Restart() action = %v, want AdvancePC", action)
	}
	for i := uint8(0); i < 16; i++ {
		if got := regGet(regs, i); got != 0 {
			t.Errorf("register %d = %#x, want 0 after restart", i, got)
		}
	}
}

func TestBranchTakenSetsJumped(t *testing.T) {
	regs := newRegs()
	regSet(regs, RegPC, 0x100)
	regSet(regs, 0, 5)
	regSet(regs, 1, 5)
	inst := instruction.Instruction{First: 0, Second: 1, Third: 0x200}
	action := BranchEqual(regs, regs, &isa.Scratch{}, inst)
	if action != isa.Jumped {
		t.Fatalf("BranchEqual() action = %v, want Jumped", action)
	}
	if got := regGet(regs, RegPC); got != 0x200 {
		t.Errorf("pc after taken branch = %#x, want 0x200", got)
	}
}

func TestBranchNotTakenFallsThrough(t *testing.T) {
	regs := newRegs()
	regSet(regs, RegPC, 0x100)
	regSet(regs, 0, 5)
	regSet(regs, 1, 6)
	inst := instruction.Instruction{First: 0, Second: 1, Third: 0x200}
	action := BranchEqual(regs, regs, &isa.Scratch{}, inst)
	if action != isa.Jumped {
		t.Fatalf("BranchEqual() action = %v, want Jumped", action)
	}
	if got := regGet(regs, RegPC); got != 0x104 {
		t.Errorf("pc after untaken branch = %#x, want 0x104", got)
	}
}

func TestPushPop(t *testing.T) {
	regs := newRegs()
	mem := memory.New(256)
	regSet(regs, RegSTP, 0x80)
	regSet(regs, 0, 0x42)

	if action := Push(regs, mem, &isa.Scratch{}, instruction.Instruction{First: 0}); action != isa.AdvancePC {
		t.Fatalf("Push() action = %v, want AdvancePC", action)
	}
	if got := regGet(regs, RegSTP); got != 0x7c {
		t.Errorf("sp after push = %#x, want 0x7c", got)
	}

	regSet(regs, 1, 0)
	if action := Pop(regs, mem, &isa.Scratch{}, instruction.Instruction{First: 1}); action != isa.AdvancePC {
		t.Fatalf("Pop() action = %v, want AdvancePC", action)
	}
	if got := regGet(regs, 1); got != 0x42 {
		t.Errorf("popped value = %#x, want 0x42", got)
	}
	if got := regGet(regs, RegSTP); got != 0x80 {
		t.Errorf("sp after pop = %#x, want 0x80", got)
	}
}

func TestCallAndReturn(t *testing.T) {
	regs := newRegs()
	mem := memory.New(256)
	regSet(regs, RegSTP, 0x80)
	regSet(regs, RegPC, 0x10)

	action := Call(regs, mem, &isa.Scratch{}, instruction.Instruction{Third: 0x40})
	if action != isa.Jumped {
		t.Fatalf("Call() action = %v, want Jumped", action)
	}
	if got := regGet(regs, RegPC); got != 0x40 {
		t.Errorf("pc after call = %#x, want 0x40", got)
	}

	action = Return(regs, mem, &isa.Scratch{}, instruction.Instruction{})
	if action != isa.Jumped {
		t.Fatalf("Return() action = %v, want Jumped", action)
	}
	if got := regGet(regs, RegPC); got != 0x14 {
		t.Errorf("pc after return = %#x, want 0x14 (call site + 4)", got)
	}
}

// World never resolves the action itself - it always reports WorldRequest
// and leaves the scheduler to decode the subcommand from the instruction's
// Third field once the action matures.
func TestWorldAlwaysRequestsAction(t *testing.T) {
	regs := newRegs()
	mem := memory.New(64)
	inst := instruction.Instruction{Third: uint16(ActionMoveForward)}
	action := World(regs, mem, &isa.Scratch{}, inst)
	if action != isa.WorldRequest {
		t.Fatalf("World() action = %v, want WorldRequest", action)
	}
}

func TestActionSubcommandsAreDistinct(t *testing.T) {
	actions := map[string]uint32{
		"Nothing":           ActionNothing,
		"MyselfID":          ActionMyselfID,
		"MyselfOrientation": ActionMyselfOrientation,
		"Detect":            ActionDetect,
		"InfoID":            ActionInfoID,
		"InfoOrientation":   ActionInfoOrientation,
		"MoveForward":       ActionMoveForward,
		"MoveBackward":      ActionMoveBackward,
		"TurnLeft":          ActionTurnLeft,
		"TurnRight":         ActionTurnRight,
		"Attack":            ActionAttack,
		"Eat":               ActionEat,
		"Egg":               ActionEgg,
	}
	seen := make(map[uint32]string, len(actions))
	for name, value := range actions {
		if other, ok := seen[value]; ok {
			t.Errorf("%s and %s share subcommand value %#x", name, other, value)
		}
		seen[value] = name
	}
}

func TestActionResultValuesAreDistinct(t *testing.T) {
	if ActionSuccess == ActionFailure || ActionFailure == ActionInterrupted || ActionSuccess == ActionInterrupted {
		t.Fatalf("ActionSuccess=%d ActionFailure=%d ActionInterrupted=%d must all differ",
			ActionSuccess, ActionFailure, ActionInterrupted)
	}
}

func TestShiftRotate(t *testing.T) {
	regs := newRegs()
	regSet(regs, 1, 0x80000001)
	action := RotateLeftImmediate(regs, regs, &isa.Scratch{}, instruction.Instruction{First: 0, Second: 1, Third: 1})
	if action != isa.AdvancePC {
		t.Fatalf("RotateLeftImmediate() action = %v, want AdvancePC", action)
	}
	if got := regGet(regs, 0); got != 0x00000003 {
		t.Errorf("rotl(0x80000001, 1) = %#x, want 0x3", got)
	}
}

// The signed-immediate arithmetic executors zero-extend their 16-bit
// immediate rather than sign-extending it, the same as AddImmediate and
// the unsigned divide/modulo immediate paths: an immediate of 0x8000
// means +32768, never -32768.
func TestArithmeticImmediateZeroExtends(t *testing.T) {
	inst := instruction.Instruction{First: 0, Second: 1, Third: 0x8000}

	regs := newRegs()
	regSet(regs, 1, 2)
	if action := MultiplyLowImmediate(regs, regs, &isa.Scratch{}, inst); action != isa.AdvancePC {
		t.Fatalf("MultiplyLowImmediate() action = %v, want AdvancePC", action)
	}
	if got := regGet(regs, 0); got != 2*0x8000 {
		t.Errorf("MultiplyLowImmediate(2, 0x8000) = %#x, want %#x", got, uint32(2*0x8000))
	}

	regs = newRegs()
	regSet(regs, 1, 2)
	if action := MultiplyHighImmediate(regs, regs, &isa.Scratch{}, inst); action != isa.AdvancePC {
		t.Fatalf("MultiplyHighImmediate() action = %v, want AdvancePC", action)
	}
	if got := regGet(regs, 0); got != 0 {
		t.Errorf("MultiplyHighImmediate(2, 0x8000) = %#x, want 0 (product fits in low word)", got)
	}

	regs = newRegs()
	regSet(regs, 1, 0x10000)
	if action := DivideImmediate(regs, regs, &isa.Scratch{}, inst); action != isa.AdvancePC {
		t.Fatalf("DivideImmediate() action = %v, want AdvancePC", action)
	}
	if got := regGet(regs, 0); got != 2 {
		t.Errorf("DivideImmediate(0x10000, 0x8000) = %d, want 2 (positive divisor)", int32(got))
	}

	regs = newRegs()
	regSet(regs, 1, 0x10001)
	if action := ModuloImmediate(regs, regs, &isa.Scratch{}, inst); action != isa.AdvancePC {
		t.Fatalf("ModuloImmediate() action = %v, want AdvancePC", action)
	}
	if got := regGet(regs, 0); got != 1 {
		t.Errorf("ModuloImmediate(0x10001, 0x8000) = %d, want 1 (positive divisor)", int32(got))
	}
}

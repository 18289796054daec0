package isa

/*
 * Simple World - tests for the ISA registry
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"errors"
	"testing"

	"github.com/rcornwell/simpleworld/internal/instruction"
)

func TestBuiltinInterrupts(t *testing.T) {
	set := New()
	for _, code := range []uint8{
		InterruptTimer, InterruptSoftware, InterruptInstructionFault,
		InterruptMemoryFault, InterruptDivideByZero, InterruptWorldAction,
		InterruptWorldEvent,
	} {
		if _, err := set.InterruptByCode(code); err != nil {
			t.Errorf("InterruptByCode(%d) returned error: %v", code, err)
		}
	}
}

func TestAddInstructionAndLookup(t *testing.T) {
	set := New()
	exec := func(regs, mem Memory, scratch *Scratch, inst instruction.Instruction) Action {
		return AdvancePC
	}
	_ = exec

	if err := set.AddInstruction(0x00, "stop", 0, false, nil); err != nil {
		t.Fatalf("AddInstruction returned error: %v", err)
	}

	in, err := set.InstructionByCode(0x00)
	if err != nil {
		t.Fatalf("InstructionByCode returned error: %v", err)
	}
	if in.Name != "stop" {
		t.Errorf("InstructionByCode().Name = %q, want stop", in.Name)
	}

	in, err = set.InstructionByName("stop")
	if err != nil {
		t.Fatalf("InstructionByName returned error: %v", err)
	}
	if in.Code != 0x00 {
		t.Errorf("InstructionByName().Code = %#x, want 0", in.Code)
	}
}

func TestAddInstructionDuplicate(t *testing.T) {
	set := New()
	if err := set.AddInstruction(0x00, "stop", 0, false, nil); err != nil {
		t.Fatalf("first AddInstruction returned error: %v", err)
	}
	if err := set.AddInstruction(0x00, "other", 0, false, nil); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate code = %v, want ErrDuplicate", err)
	}
	if err := set.AddInstruction(0x01, "stop", 0, false, nil); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate name = %v, want ErrDuplicate", err)
	}
}

func TestInstructionNotFound(t *testing.T) {
	set := New()
	if _, err := set.InstructionByCode(0xff); !errors.Is(err, ErrNotFound) {
		t.Errorf("InstructionByCode(unknown) = %v, want ErrNotFound", err)
	}
	if _, err := set.InstructionByName("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("InstructionByName(unknown) = %v, want ErrNotFound", err)
	}
}

func TestRegisters(t *testing.T) {
	set := New()
	if err := set.AddRegister(0x0, "r0"); err != nil {
		t.Fatalf("AddRegister returned error: %v", err)
	}
	if err := set.AddRegister(0x0, "r0dup"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate register code = %v, want ErrDuplicate", err)
	}
	if err := set.AddRegister(0x1, "r0"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate register name = %v, want ErrDuplicate", err)
	}

	name, err := set.RegisterName(0x0)
	if err != nil || name != "r0" {
		t.Errorf("RegisterName(0) = %q, %v, want r0, nil", name, err)
	}
	code, err := set.RegisterCode("r0")
	if err != nil || code != 0x0 {
		t.Errorf("RegisterCode(r0) = %#x, %v, want 0, nil", code, err)
	}
	if _, err := set.RegisterName(0xf); !errors.Is(err, ErrNotFound) {
		t.Errorf("RegisterName(unknown) = %v, want ErrNotFound", err)
	}
}

package disassemble

/*
 * Simple World - tests for the opcode-table-driven disassembler
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"testing"

	"github.com/rcornwell/simpleworld/internal/assemble"
	"github.com/rcornwell/simpleworld/internal/isa"
	"github.com/rcornwell/simpleworld/internal/ops"
	"github.com/rcornwell/simpleworld/internal/source"
)

func newISA(t *testing.T) *isa.ISA {
	t.Helper()
	set := isa.New()
	if err := ops.Seed(set); err != nil {
		t.Fatalf("ops.Seed returned error: %v", err)
	}
	return set
}

func TestRoundTripAssembleDisassemble(t *testing.T) {
	set := newISA(t)
	cases := []string{
		"stop",
		"loadi r0 0x002a",
		"add r2 r0 r1",
		"b 0x0010",
	}
	for _, line := range cases {
		f := source.New()
		_ = f.Insert(0, line, "t.sw")
		a := assemble.New(set, nil)
		mem, _, err := a.Assemble(f, "t.sw")
		if err != nil {
			t.Fatalf("Assemble(%q) returned error: %v", line, err)
		}
		word, _ := mem.GetWord(0, true)
		got := Word(set, word)
		if got != line {
			t.Errorf("Word(assemble(%q)) = %q, want %q", line, got, line)
		}
	}
}

func TestUnknownOpcodeFallsBackToRaw(t *testing.T) {
	set := newISA(t)
	got := Word(set, 0xff000000)
	if got != "0xff000000" {
		t.Errorf("Word(unknown opcode) = %q, want 0xff000000", got)
	}
}

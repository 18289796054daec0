package mutation

/*
 * Simple World - tests for the mutation engine
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestZeroProbabilityLeavesCodeUnchanged(t *testing.T) {
	code := []byte{0x11, 0x11, 0x11, 0x11, 0x22, 0x22, 0x22, 0x22}
	rng := rand.New(rand.NewSource(1))
	out, records := Apply(code, 0, rng)
	if !bytes.Equal(out, code) {
		t.Errorf("Apply(p=0) = %x, want unchanged %x", out, code)
	}
	if records != nil {
		t.Errorf("Apply(p=0) records = %v, want nil", records)
	}
}

// Mutation determinism: code [0x11111111, 0x22222222] at probability 1.0
// with a fixed seed produces at least two mutation records (spec
// scenario 6). Replaying the same seed is covered by
// TestDeterministicWithFixedSeed.
func TestFullProbabilityMutatesEveryWord(t *testing.T) {
	code := []byte{0x11, 0x11, 0x11, 0x11, 0x22, 0x22, 0x22, 0x22}
	rng := rand.New(rand.NewSource(42))
	_, records := Apply(code, 1.0, rng)
	if len(records) < 2 {
		t.Fatalf("len(records) = %d, want >= 2", len(records))
	}
}

func TestDeterministicWithFixedSeed(t *testing.T) {
	code := []byte{0x11, 0x11, 0x11, 0x11, 0x22, 0x22, 0x22, 0x22}
	out1, rec1 := Apply(code, 1.0, rand.New(rand.NewSource(7)))
	out2, rec2 := Apply(code, 1.0, rand.New(rand.NewSource(7)))
	if !bytes.Equal(out1, out2) {
		t.Errorf("same seed produced different output: %x vs %x", out1, out2)
	}
	if len(rec1) != len(rec2) {
		t.Errorf("same seed produced different record counts: %d vs %d", len(rec1), len(rec2))
	}
}

func TestDeleteShrinksOutput(t *testing.T) {
	// Every Insert or Duplicate record adds one word to the output and
	// every Delete record removes one, so across many seeds the output
	// length follows the records exactly; each Delete record carries the
	// original word with no Mutated value.
	code := []byte{0xaa, 0xbb, 0xcc, 0xdd, 0x11, 0x22, 0x33, 0x44}
	sawDelete := false
	for seed := int64(0); seed < 50; seed++ {
		out, records := Apply(code, 1.0, rand.New(rand.NewSource(seed)))
		want := len(code)
		for _, r := range records {
			switch r.Kind {
			case Insert, Duplicate:
				want += 4
			case Delete:
				want -= 4
				sawDelete = true
				if r.Mutated != 0 {
					t.Errorf("seed %d: Delete record Mutated = %#x, want 0", seed, r.Mutated)
				}
			}
		}
		if len(out) != want {
			t.Errorf("seed %d: len(out) = %d, want %d", seed, len(out), want)
		}
	}
	if !sawDelete {
		t.Fatal("no seed produced a Delete record")
	}
}

func TestDuplicateAtOriginBehavesLikeInsert(t *testing.T) {
	// Duplicate at offset 0 has no previous word to copy, so it behaves
	// as an Insert; verify the record says Insert, not Duplicate.
	code := []byte{0x11, 0x11, 0x11, 0x11}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		_, records := Apply(code, 1.0, rng)
		for _, r := range records {
			if r.Offset == 0 && r.Kind == Duplicate {
				t.Fatalf("Duplicate recorded at offset 0, want Insert")
			}
		}
	}
}

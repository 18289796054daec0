package word

/*
 * Simple World - tests for word and byte lane utilities
 *
 * Copyright 2024, Richard Cornwell
 */

import "testing"

func TestGetSetByte(t *testing.T) {
	var w uint32 = 0x11223344
	for i, want := range []uint8{0x11, 0x22, 0x33, 0x44} {
		got, err := GetByte(w, i)
		if err != nil {
			t.Fatalf("GetByte(%d) returned error: %v", i, err)
		}
		if got != want {
			t.Errorf("GetByte(%d) = %#x, want %#x", i, got, want)
		}
	}

	for i := range 4 {
		nw, err := SetByte(w, i, 0xaa)
		if err != nil {
			t.Fatalf("SetByte(%d) returned error: %v", i, err)
		}
		got, _ := GetByte(nw, i)
		if got != 0xaa {
			t.Errorf("SetByte(%d) did not update lane, got %#x", i, got)
		}
	}
}

func TestGetSetByteRange(t *testing.T) {
	if _, err := GetByte(0, 4); err != ErrRangeError {
		t.Errorf("GetByte(4) = %v, want ErrRangeError", err)
	}
	if _, err := GetByte(0, -1); err != ErrRangeError {
		t.Errorf("GetByte(-1) = %v, want ErrRangeError", err)
	}
	if _, err := SetByte(0, 4, 0); err != ErrRangeError {
		t.Errorf("SetByte(4) = %v, want ErrRangeError", err)
	}
}

func TestSwapBytes(t *testing.T) {
	if got := SwapBytes(0x11223344); got != 0x44332211 {
		t.Errorf("SwapBytes() = %#x, want 0x44332211", got)
	}
}

func TestSwapHalves(t *testing.T) {
	if got := SwapHalves(0x11223344); got != 0x33441122 {
		t.Errorf("SwapHalves() = %#x, want 0x33441122", got)
	}
}

func TestSwapHalfBytes(t *testing.T) {
	if got := SwapHalfBytes(0x11223344); got != 0x22114433 {
		t.Errorf("SwapHalfBytes() = %#x, want 0x22114433", got)
	}
	// SwapHalfBytes then SwapHalves equals full byte reversal.
	w := uint32(0x11223344)
	got := SwapHalves(SwapHalfBytes(w))
	want := SwapBytes(w)
	if got != want {
		t.Errorf("SwapHalves(SwapHalfBytes(w)) = %#x, want %#x", got, want)
	}
}

package hexfmt

/*
 * Simple World - tests for hex formatting helpers
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"strings"
	"testing"
)

func TestFormatWords(t *testing.T) {
	var b strings.Builder
	FormatWords(&b, []uint32{0x0000002a, 0xdeadbeef})
	got := b.String()
	want := "0000002a deadbeef "
	if got != want {
		t.Errorf("FormatWords() = %q, want %q", got, want)
	}
}

func TestFormatBytes(t *testing.T) {
	var b strings.Builder
	FormatBytes(&b, true, []byte{0xde, 0xad})
	if got := b.String(); got != "de ad " {
		t.Errorf("FormatBytes(space) = %q, want %q", got, "de ad ")
	}

	b.Reset()
	FormatBytes(&b, false, []byte{0xde, 0xad})
	if got := b.String(); got != "dead" {
		t.Errorf("FormatBytes(no space) = %q, want %q", got, "dead")
	}
}

func TestWord(t *testing.T) {
	if got := Word(0x2a); got != "0x0000002a" {
		t.Errorf("Word(0x2a) = %q, want 0x0000002a", got)
	}
}

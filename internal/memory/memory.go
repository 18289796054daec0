/*
   Simple World  - Byte-addressable memory

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

// Package memory implements a fixed-but-resizable, zero-initialized byte
// array with bounds-checked word/half-word/quarter-word typed access, used
// both as the CPU's data space and as its 64-byte register file.
//
// Unlike the teacher's emu/memory, which is a single package-level
// singleton sized for one S/370 CPU, this Memory is a plain struct: a
// world holds many bugs, each with its own registers-Memory and its own
// data-Memory, so there is no room for package-level state here.
package memory

import (
	"encoding/binary"
	"errors"

	"github.com/rcornwell/simpleworld/internal/word"
)

// Width of a typed access, in bytes.
type Width int

const (
	Quarter Width = 1
	Half    Width = 2
	Word    Width = 4
)

// ErrAddressOutOfRange is returned when address+width exceeds the size of
// the memory.
var ErrAddressOutOfRange = errors.New("address out of range")

// Memory is a contiguous, zero-initialized byte array.
type Memory struct {
	buf []byte
}

// New allocates a zeroed Memory of size bytes.
func New(size int) *Memory {
	return &Memory{buf: make([]byte, size)}
}

// Size returns the current size of m in bytes.
func (m *Memory) Size() int {
	return len(m.buf)
}

// Resize changes the size of m. New bytes, if any, are zeroed; shrinking
// truncates and discards the removed bytes.
func (m *Memory) Resize(newSize int) {
	if newSize < 0 {
		newSize = 0
	}
	if newSize <= len(m.buf) {
		m.buf = m.buf[:newSize]
		return
	}
	grown := make([]byte, newSize)
	copy(grown, m.buf)
	m.buf = grown
}

// Assign replaces the entire contents of m with a copy of source.
func (m *Memory) Assign(source *Memory) {
	m.buf = make([]byte, len(source.buf))
	copy(m.buf, source.buf)
}

// Bytes returns the raw underlying buffer. Callers must not retain it
// across a Resize or Assign.
func (m *Memory) Bytes() []byte {
	return m.buf
}

func (m *Memory) checkRange(addr int, w Width) error {
	if addr < 0 || addr+int(w) > len(m.buf) {
		return ErrAddressOutOfRange
	}
	return nil
}

// GetQuarter returns the single byte at addr.
func (m *Memory) GetQuarter(addr int) (uint8, error) {
	if err := m.checkRange(addr, Quarter); err != nil {
		return 0, err
	}
	return m.buf[addr], nil
}

// PutQuarter stores a single byte at addr.
func (m *Memory) PutQuarter(addr int, value uint8) error {
	if err := m.checkRange(addr, Quarter); err != nil {
		return err
	}
	m.buf[addr] = value
	return nil
}

// GetHalf returns the 16-bit half-word at addr. bigEndian selects whether
// the two bytes already in memory are read in big-endian byte order
// (the canonical in-memory/object-file form) or host-native order.
func (m *Memory) GetHalf(addr int, bigEndian bool) (uint16, error) {
	if err := m.checkRange(addr, Half); err != nil {
		return 0, err
	}
	b0, b1 := m.buf[addr], m.buf[addr+1]
	if bigEndian {
		return uint16(b0)<<8 | uint16(b1), nil
	}
	return nativeHalf(b0, b1), nil
}

// PutHalf stores a 16-bit half-word at addr, encoded as bigEndian directs.
func (m *Memory) PutHalf(addr int, value uint16, bigEndian bool) error {
	if err := m.checkRange(addr, Half); err != nil {
		return err
	}
	if bigEndian {
		m.buf[addr] = uint8(value >> 8)
		m.buf[addr+1] = uint8(value)
		return nil
	}
	b0, b1 := nativeHalfBytes(value)
	m.buf[addr] = b0
	m.buf[addr+1] = b1
	return nil
}

// GetWord returns the 32-bit word at addr, decoded as bigEndian directs.
// The default caller convention throughout this repo is host-native
// (bigEndian=false); the assembler and object-file reader always pass
// bigEndian=true, since §6.2's object image is defined as big-endian.
func (m *Memory) GetWord(addr int, bigEndian bool) (uint32, error) {
	if err := m.checkRange(addr, Word); err != nil {
		return 0, err
	}
	b0, b1, b2, b3 := m.buf[addr], m.buf[addr+1], m.buf[addr+2], m.buf[addr+3]
	if bigEndian {
		return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3), nil
	}
	return nativeWord(b0, b1, b2, b3), nil
}

// PutWord stores the 32-bit word value at addr, encoded as bigEndian directs.
func (m *Memory) PutWord(addr int, value uint32, bigEndian bool) error {
	if err := m.checkRange(addr, Word); err != nil {
		return err
	}
	if bigEndian {
		m.buf[addr] = uint8(value >> 24)
		m.buf[addr+1] = uint8(value >> 16)
		m.buf[addr+2] = uint8(value >> 8)
		m.buf[addr+3] = uint8(value)
		return nil
	}
	b0, b1, b2, b3 := nativeWordBytes(value)
	m.buf[addr] = b0
	m.buf[addr+1] = b1
	m.buf[addr+2] = b2
	m.buf[addr+3] = b3
	return nil
}

// nativeHalf/nativeWord and their *Bytes inverses translate between the
// in-memory big-endian byte stream and the host's native integer
// representation. binary.NativeEndian reports the host's order; when it
// disagrees with big-endian, word.SwapBytes performs the same byte-lane
// reversal the assembler and object-file codec use at that boundary.
func nativeHalf(b0, b1 byte) uint16 {
	be := uint16(b0)<<8 | uint16(b1)
	if hostIsBigEndian() {
		return be
	}
	return be>>8 | be<<8
}

func nativeHalfBytes(value uint16) (byte, byte) {
	be := value
	if !hostIsBigEndian() {
		be = value>>8 | value<<8
	}
	return byte(be >> 8), byte(be)
}

func nativeWord(b0, b1, b2, b3 byte) uint32 {
	be := uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
	if hostIsBigEndian() {
		return be
	}
	return word.SwapBytes(be)
}

func nativeWordBytes(value uint32) (byte, byte, byte, byte) {
	be := value
	if !hostIsBigEndian() {
		be = word.SwapBytes(value)
	}
	return byte(be >> 24), byte(be >> 16), byte(be >> 8), byte(be)
}

// hostIsBigEndian reports whether the host's native byte order is
// big-endian, using binary.NativeEndian rather than an unsafe pointer
// probe.
func hostIsBigEndian() bool {
	return binary.NativeEndian.Uint16([]byte{0x01, 0x02}) == 0x0102
}

/*
   Simple World  - line-addressable source buffer

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

// Package source holds assembler input as a flat, line-addressable buffer.
// Every line carries an origin tag so error messages and .include expansion
// can still point back at the file a line actually came from after
// includes have been spliced in.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// ErrLineOutOfRange is returned by Get/Insert/Remove when pos falls
// outside [0, Lines()] (or [0, Lines()) for Get/Remove).
var ErrLineOutOfRange = errors.New("line out of range")

// ErrFileAccess wraps the underlying os error from Load/Save.
var ErrFileAccess = errors.New("file access error")

// Line is one line of text plus the path it was read from, preserved
// across .include splicing so later passes can report accurate origins.
type Line struct {
	Text   string
	Origin string
}

// File is a line-addressable buffer of source text.
type File struct {
	lines []Line
}

// New returns an empty File.
func New() *File {
	return &File{}
}

// Lines reports the number of lines currently in the buffer.
func (f *File) Lines() int {
	return len(f.lines)
}

// Get returns line pos's text.
func (f *File) Get(pos int) (string, error) {
	if pos < 0 || pos >= len(f.lines) {
		return "", fmt.Errorf("get line %d: %w", pos, ErrLineOutOfRange)
	}
	return f.lines[pos].Text, nil
}

// Origin returns the path line pos originally came from.
func (f *File) Origin(pos int) (string, error) {
	if pos < 0 || pos >= len(f.lines) {
		return "", fmt.Errorf("origin line %d: %w", pos, ErrLineOutOfRange)
	}
	return f.lines[pos].Origin, nil
}

// Set overwrites line pos's text in place, used by constant/label
// substitution passes.
func (f *File) Set(pos int, text string) error {
	if pos < 0 || pos >= len(f.lines) {
		return fmt.Errorf("set line %d: %w", pos, ErrLineOutOfRange)
	}
	f.lines[pos].Text = text
	return nil
}

// Insert splices a single line into the buffer at pos, pushing the rest
// down. pos == Lines() appends.
func (f *File) Insert(pos int, text string, origin string) error {
	if pos < 0 || pos > len(f.lines) {
		return fmt.Errorf("insert at %d: %w", pos, ErrLineOutOfRange)
	}
	f.lines = append(f.lines, Line{})
	copy(f.lines[pos+1:], f.lines[pos:])
	f.lines[pos] = Line{Text: text, Origin: origin}
	return nil
}

// InsertFile splices another File's lines into this one at pos, used by
// the assembler's .include expansion.
func (f *File) InsertFile(pos int, other *File) error {
	if pos < 0 || pos > len(f.lines) {
		return fmt.Errorf("insert file at %d: %w", pos, ErrLineOutOfRange)
	}
	inserted := make([]Line, len(other.lines))
	copy(inserted, other.lines)
	tail := make([]Line, len(f.lines)-pos)
	copy(tail, f.lines[pos:])
	f.lines = append(f.lines[:pos], append(inserted, tail...)...)
	return nil
}

// Remove deletes n lines starting at pos.
func (f *File) Remove(pos int, n int) error {
	if pos < 0 || n < 0 || pos+n > len(f.lines) {
		return fmt.Errorf("remove %d,%d: %w", pos, n, ErrLineOutOfRange)
	}
	f.lines = append(f.lines[:pos], f.lines[pos+n:]...)
	return nil
}

// Load replaces the buffer with the lines of filename, each tagged with
// filename as its origin.
func (f *File) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load %s: %w: %w", filename, ErrFileAccess, err)
	}
	defer file.Close()

	var lines []Line
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, Line{Text: scanner.Text(), Origin: filename})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("load %s: %w: %w", filename, ErrFileAccess, err)
	}
	f.lines = lines
	return nil
}

// Save writes the buffer to filename, one line per text line, newline
// terminated.
func (f *File) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save %s: %w: %w", filename, ErrFileAccess, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, line := range f.lines {
		if _, err := w.WriteString(line.Text); err != nil {
			return fmt.Errorf("save %s: %w: %w", filename, ErrFileAccess, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("save %s: %w: %w", filename, ErrFileAccess, err)
		}
	}
	return w.Flush()
}

/*
 * Simple World - command-line front end
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rcornwell/simpleworld/internal/assemble"
	"github.com/rcornwell/simpleworld/internal/disassemble"
	"github.com/rcornwell/simpleworld/internal/hexfmt"
	"github.com/rcornwell/simpleworld/internal/source"
)

// cmdAsm assembles a source file into a raw object file of big-endian
// words, the format cmdSpawn/cmdEgg read back with os.ReadFile.
func cmdAsm(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("asm: usage: asm <source-file> <object-file>")
	}
	srcPath, outPath := args[0], args[1]

	set, err := newISA()
	if err != nil {
		return fmt.Errorf("asm: %w", err)
	}

	src := source.New()
	if err := src.Load(srcPath); err != nil {
		return fmt.Errorf("asm: %w", err)
	}

	a := assemble.New(set, []string{filepath.Dir(srcPath)})
	mem, pragmas, err := a.Assemble(src, srcPath)
	if err != nil {
		return fmt.Errorf("asm: %w", err)
	}

	if err := os.WriteFile(outPath, mem.Bytes(), 0o644); err != nil {
		return fmt.Errorf("asm: %w", err)
	}
	log.Info("assembled", "src", srcPath, "out", outPath, "bytes", mem.Size(), "pragmas", len(pragmas))
	return nil
}

// cmdDisasm renders an object file's words one instruction per line,
// address first.
func cmdDisasm(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("disasm: usage: disasm <object-file>")
	}

	set, err := newISA()
	if err != nil {
		return fmt.Errorf("disasm: %w", err)
	}

	blob, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("disasm: %w", err)
	}
	if len(blob)%4 != 0 {
		return fmt.Errorf("disasm: object file length %d is not a multiple of 4", len(blob))
	}

	for addr := 0; addr < len(blob); addr += 4 {
		word := uint32(blob[addr])<<24 | uint32(blob[addr+1])<<16 | uint32(blob[addr+2])<<8 | uint32(blob[addr+3])
		fmt.Printf("%s: %s\n", hexfmt.Word(uint32(addr)), disassemble.Word(set, word))
	}
	return nil
}

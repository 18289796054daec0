/*
   Simple World  - assembler

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

// Package assemble turns a Source buffer into an encoded Memory image, in
// five passes: include expansion, symbol collection, substitution, block
// expansion, emission. Each pass fully finishes before the next starts,
// unlike the fetch-decode-execute loop in internal/cpu - there is no
// interleaving here, only straight-line preprocessing followed by a final
// render against the ISA.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rcornwell/simpleworld/internal/instruction"
	"github.com/rcornwell/simpleworld/internal/isa"
	"github.com/rcornwell/simpleworld/internal/memory"
	"github.com/rcornwell/simpleworld/internal/source"
)

// ParseError reports a diagnostic tied to a source line.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

var (
	reBlank     = regexp.MustCompile(`^\s*$`)
	reComment   = regexp.MustCompile(`^\s*#.*$`)
	reInclude   = regexp.MustCompile(`^\s*\.include\s+"([^"]*)"\s*(#.*)?$`)
	reDefine    = regexp.MustCompile(`^\s*\.define\s+([A-Za-z_][A-Za-z0-9_]*)\s+(0[xX][0-9A-Fa-f]{1,4})\s*(#.*)?$`)
	reBlock     = regexp.MustCompile(`^\s*\.block\s+(0[xX][0-9A-Fa-f]+)\s*(#.*)?$`)
	reLabel     = regexp.MustCompile(`^\s*\.label\s+([A-Za-z_][A-Za-z0-9_]*)\s*(#.*)?$`)
	rePragmaNum = regexp.MustCompile(`^\s*\.pragma\s+([A-Za-z_][A-Za-z0-9_]*)\s+(0[xX][0-9A-Fa-f]{1,8})\s*(#.*)?$`)
	rePragmaStr = regexp.MustCompile(`^\s*\.pragma\s+([A-Za-z_][A-Za-z0-9_]*)\s+"([^"]*)"\s*(#.*)?$`)
	reData      = regexp.MustCompile(`^\s*(0[xX][0-9A-Fa-f]{1,8})\s*(#.*)?$`)
	reStrip     = regexp.MustCompile(`#.*$`)
)

// Pragma is one retained .pragma directive, kept as metadata only.
type Pragma struct {
	Name  string
	Value string
}

// Assembler holds the inputs for one assembly: the ISA to encode against
// and the directories searched for .include targets.
type Assembler struct {
	ISA         *isa.ISA
	IncludePath []string
}

// New returns an Assembler bound to set, searching dirs for includes.
func New(set *isa.ISA, dirs []string) *Assembler {
	return &Assembler{ISA: set, IncludePath: dirs}
}

// Assemble runs all five passes over src (mutated in place by passes 1-4)
// and returns the encoded image plus any retained pragmas.
func (a *Assembler) Assemble(src *source.File, mainPath string) (*memory.Memory, []Pragma, error) {
	if err := a.expandIncludes(src, mainPath); err != nil {
		return nil, nil, err
	}
	symbols, err := a.collectSymbols(src)
	if err != nil {
		return nil, nil, err
	}
	if err := substitute(src, symbols); err != nil {
		return nil, nil, err
	}
	if err := expandBlocks(src); err != nil {
		return nil, nil, err
	}
	return a.emit(src)
}

// expandIncludes implements pass 1: splice included files in, rejecting a
// path that is already part of the transitive closure.
func (a *Assembler) expandIncludes(src *source.File, mainPath string) error {
	abs, err := filepath.Abs(mainPath)
	if err != nil {
		abs = mainPath
	}
	seen := map[string]bool{abs: true}

	for i := 0; i < src.Lines(); {
		line, err := src.Get(i)
		if err != nil {
			return err
		}
		m := reInclude.FindStringSubmatch(line)
		if m == nil {
			i++
			continue
		}
		target, found := a.findInclude(m[1])
		if !found {
			return &ParseError{Line: i, Reason: fmt.Sprintf("%s not found", m[1])}
		}
		canon, err := filepath.Abs(target)
		if err != nil {
			canon = target
		}
		if seen[canon] {
			return &ParseError{Line: i, Reason: fmt.Sprintf("%s already included", canon)}
		}
		seen[canon] = true

		included := source.New()
		if err := included.Load(target); err != nil {
			return &ParseError{Line: i, Reason: err.Error()}
		}
		if err := src.Remove(i, 1); err != nil {
			return err
		}
		if err := src.InsertFile(i, included); err != nil {
			return err
		}
		// Do not advance i: the spliced-in lines may themselves contain
		// .include directives that must be expanded before moving on.
	}
	return nil
}

func (a *Assembler) findInclude(name string) (string, bool) {
	for _, dir := range a.IncludePath {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// collectSymbols implements pass 2: record .define/.label values keyed by
// name, removing their lines, and track the running byte offset that only
// instruction/data/block lines advance.
func (a *Assembler) collectSymbols(src *source.File) (map[string]string, error) {
	symbols := make(map[string]string)
	offset := 0
	i := 0
	for i < src.Lines() {
		line, err := src.Get(i)
		if err != nil {
			return nil, err
		}
		switch {
		case reDefine.MatchString(line):
			m := reDefine.FindStringSubmatch(line)
			if _, dup := symbols[m[1]]; dup {
				return nil, &ParseError{Line: i, Reason: fmt.Sprintf("name %s already defined", m[1])}
			}
			symbols[m[1]] = m[2]
			_ = src.Remove(i, 1)
		case reLabel.MatchString(line):
			m := reLabel.FindStringSubmatch(line)
			if _, dup := symbols[m[1]]; dup {
				return nil, &ParseError{Line: i, Reason: fmt.Sprintf("name %s already defined", m[1])}
			}
			symbols[m[1]] = fmt.Sprintf("0x%x", offset)
			_ = src.Remove(i, 1)
		case isBlank(line), isComment(line), rePragmaNum.MatchString(line), rePragmaStr.MatchString(line):
			i++
		case reBlock.MatchString(line):
			m := reBlock.FindStringSubmatch(line)
			size, err := strconv.ParseUint(m[1][2:], 16, 32)
			if err != nil {
				return nil, &ParseError{Line: i, Reason: "invalid block size"}
			}
			offset += int((size + 3) / 4 * 4)
			i++
		case reData.MatchString(line):
			offset += 4
			i++
		default:
			// Treated as an instruction line; every instruction is 4 bytes
			// regardless of operand count.
			offset += 4
			i++
		}
	}
	return symbols, nil
}

// substitute implements pass 3: replace every whole-word occurrence of a
// recorded symbol name with its value, on every remaining line.
func substitute(src *source.File, symbols map[string]string) error {
	for i := 0; i < src.Lines(); i++ {
		line, err := src.Get(i)
		if err != nil {
			return err
		}
		for name, value := range symbols {
			line = regexp.MustCompile(`\b`+regexp.QuoteMeta(name)+`\b`).ReplaceAllString(line, value)
		}
		if err := src.Set(i, line); err != nil {
			return err
		}
	}
	return nil
}

// expandBlocks implements pass 4: replace each .block N with ceil(N/4)
// zero-word lines.
func expandBlocks(src *source.File) error {
	for i := 0; i < src.Lines(); {
		line, err := src.Get(i)
		if err != nil {
			return err
		}
		m := reBlock.FindStringSubmatch(line)
		if m == nil {
			i++
			continue
		}
		size, err := strconv.ParseUint(m[1][2:], 16, 32)
		if err != nil {
			return &ParseError{Line: i, Reason: "invalid block size"}
		}
		words := int((size + 3) / 4)
		if err := src.Remove(i, 1); err != nil {
			return err
		}
		for w := 0; w < words; w++ {
			if err := src.Insert(i+w, "0x00000000", ""); err != nil {
				return err
			}
		}
		i += words
	}
	return nil
}

// emit implements pass 5: render every remaining non-blank, non-comment,
// non-pragma line as a data word or an encoded instruction.
func (a *Assembler) emit(src *source.File) (*memory.Memory, []Pragma, error) {
	var words []uint32
	var pragmas []Pragma

	for i := 0; i < src.Lines(); i++ {
		line, err := src.Get(i)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case isBlank(line), isComment(line):
			continue
		case rePragmaNum.MatchString(line):
			m := rePragmaNum.FindStringSubmatch(line)
			pragmas = append(pragmas, Pragma{Name: m[1], Value: m[2]})
		case rePragmaStr.MatchString(line):
			m := rePragmaStr.FindStringSubmatch(line)
			pragmas = append(pragmas, Pragma{Name: m[1], Value: m[2]})
		case reData.MatchString(line):
			m := reData.FindStringSubmatch(line)
			v, err := strconv.ParseUint(m[1][2:], 16, 32)
			if err != nil {
				return nil, nil, &ParseError{Line: i, Reason: "invalid data literal"}
			}
			words = append(words, uint32(v))
		default:
			word, err := a.emitInstruction(i, line)
			if err != nil {
				return nil, nil, err
			}
			words = append(words, word)
		}
	}

	mem := memory.New(len(words) * 4)
	for i, w := range words {
		if err := mem.PutWord(i*4, w, true); err != nil {
			return nil, nil, err
		}
	}
	return mem, pragmas, nil
}

func (a *Assembler) emitInstruction(lineNo int, line string) (uint32, error) {
	fields := strings.Fields(reStrip.ReplaceAllString(line, ""))
	if len(fields) == 0 {
		return 0, &ParseError{Line: lineNo, Reason: "empty instruction"}
	}
	info, err := a.ISA.InstructionByName(fields[0])
	if err != nil {
		return 0, &ParseError{Line: lineNo, Reason: fmt.Sprintf("unknown instruction %s", fields[0])}
	}

	want := int(info.RegCount) + 1
	if info.HasImmediate {
		want++
	}
	if len(fields) != want {
		return 0, &ParseError{Line: lineNo, Reason: "wrong number of parameters"}
	}

	var inst instruction.Instruction
	inst.Code = info.Code

	reg := func(tok string) (uint8, error) {
		code, err := a.ISA.RegisterCode(tok)
		if err != nil {
			return 0, &ParseError{Line: lineNo, Reason: fmt.Sprintf("unknown register %s", tok)}
		}
		return code, nil
	}

	idx := 1
	if info.RegCount >= 1 {
		r, err := reg(fields[idx])
		if err != nil {
			return 0, err
		}
		inst.First = r
		idx++
	}
	if info.RegCount >= 2 {
		r, err := reg(fields[idx])
		if err != nil {
			return 0, err
		}
		inst.Second = r
		idx++
	}
	if info.RegCount == 3 {
		r, err := reg(fields[idx])
		if err != nil {
			return 0, err
		}
		inst.Third = uint16(r)
		idx++
	} else if info.HasImmediate {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(fields[idx], "0x"), "0X"), 16, 16)
		if err != nil {
			return 0, &ParseError{Line: lineNo, Reason: "invalid immediate value"}
		}
		inst.Third = uint16(v)
	}

	return instruction.Encode(inst), nil
}

func isBlank(line string) bool   { return reBlank.MatchString(line) }
func isComment(line string) bool { return reComment.MatchString(line) }

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

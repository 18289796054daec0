/*
   Simple World  - seed file configuration parser

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

// Package config parses the line-oriented seed file the `create`
// subcommand reads to populate a fresh store: one directive per line,
// '#' starts a comment that runs to end of line, fields split on
// whitespace, and the first field is a directive keyword dispatched
// through a small registration table in the style of
// config/configparser's RegisterModel.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rcornwell/simpleworld/internal/store"
	"github.com/rcornwell/simpleworld/internal/world"
)

// ParseError reports a diagnostic tied to a source line, matching
// internal/assemble's ParseError.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// SpawnDirective names a code file to lay eggs from on a configured
// cadence. CodeFile is resolved to a Code row (and CodeID filled into a
// store.Spawn) by the caller, once it has an open Tx to read the file
// and insert the blob with.
type SpawnDirective struct {
	CodeFile   string
	Frequency  int
	Max        int
	Start, End world.Position
	Energy     int64
}

// ResourceDirective drops a food pile in a region on a configured cadence.
type ResourceDirective struct {
	Frequency  int
	Max        int
	Start, End world.Position
	Size       int
}

// Config is everything one seed file describes: the environment row to
// install (built up field by field from `environment` directives) plus
// every spawn/resource directive, in file order.
type Config struct {
	Environment store.Environment
	Spawns      []SpawnDirective
	Resources   []ResourceDirective
}

type directiveFunc func(cfg *Config, fields []string) error

var directives = map[string]directiveFunc{
	"environment": parseEnvironment,
	"spawn":       parseSpawn,
	"resource":    parseResource,
}

// environmentFields maps a directive's <key> token to the Environment
// field it sets, via setter closures so one dispatch handles every key
// without repeating the parse-then-assign boilerplate per field.
var environmentFields = map[string]func(e *store.Environment, value string) error{
	"size_x":                intSetter(func(e *store.Environment, v int) { e.SizeX = v }),
	"size_y":                intSetter(func(e *store.Environment, v int) { e.SizeY = v }),
	"time_rot":              int64Setter(func(e *store.Environment, v int64) { e.TimeRot = v }),
	"size_rot":              intSetter(func(e *store.Environment, v int) { e.SizeRot = v }),
	"mutations_probability": floatSetter(func(e *store.Environment, v float64) { e.MutationsProbability = v }),
	"time_birth":            int64Setter(func(e *store.Environment, v int64) { e.TimeBirth = v }),
	"time_mutate":           int64Setter(func(e *store.Environment, v int64) { e.TimeMutate = v }),
	"time_laziness":         int64Setter(func(e *store.Environment, v int64) { e.TimeLaziness = v }),
	"energy_laziness":       int64Setter(func(e *store.Environment, v int64) { e.EnergyLaziness = v }),
	"attack_multiplier":     floatSetter(func(e *store.Environment, v float64) { e.AttackMultiplier = v }),
	"time_myself":           int64Setter(func(e *store.Environment, v int64) { e.TimeMyself = v }),
	"time_detect":           int64Setter(func(e *store.Environment, v int64) { e.TimeDetect = v }),
	"time_info":             int64Setter(func(e *store.Environment, v int64) { e.TimeInfo = v }),
	"time_move":             int64Setter(func(e *store.Environment, v int64) { e.TimeMove = v }),
	"time_turn":             int64Setter(func(e *store.Environment, v int64) { e.TimeTurn = v }),
	"time_attack":           int64Setter(func(e *store.Environment, v int64) { e.TimeAttack = v }),
	"time_eat":              int64Setter(func(e *store.Environment, v int64) { e.TimeEat = v }),
	"time_egg":              int64Setter(func(e *store.Environment, v int64) { e.TimeEgg = v }),
	"time_nothing":          int64Setter(func(e *store.Environment, v int64) { e.TimeNothing = v }),
	"energy_myself":         int64Setter(func(e *store.Environment, v int64) { e.EnergyMyself = v }),
	"energy_detect":         int64Setter(func(e *store.Environment, v int64) { e.EnergyDetect = v }),
	"energy_info":           int64Setter(func(e *store.Environment, v int64) { e.EnergyInfo = v }),
	"energy_move":           int64Setter(func(e *store.Environment, v int64) { e.EnergyMove = v }),
	"energy_turn":           int64Setter(func(e *store.Environment, v int64) { e.EnergyTurn = v }),
	"energy_attack":         int64Setter(func(e *store.Environment, v int64) { e.EnergyAttack = v }),
	"energy_eat":            int64Setter(func(e *store.Environment, v int64) { e.EnergyEat = v }),
	"energy_egg":            int64Setter(func(e *store.Environment, v int64) { e.EnergyEgg = v }),
	"energy_nothing":        int64Setter(func(e *store.Environment, v int64) { e.EnergyNothing = v }),
}

func intSetter(set func(*store.Environment, int)) func(*store.Environment, string) error {
	return func(e *store.Environment, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", value, err)
		}
		set(e, v)
		return nil
	}
}

func int64Setter(set func(*store.Environment, int64)) func(*store.Environment, string) error {
	return func(e *store.Environment, value string) error {
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", value, err)
		}
		set(e, v)
		return nil
	}
}

func floatSetter(set func(*store.Environment, float64)) func(*store.Environment, string) error {
	return func(e *store.Environment, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q: %w", value, err)
		}
		set(e, v)
		return nil
	}
}

// SetField applies a single "environment" directive's key/value pair to an
// already-loaded Environment, the same table Parse uses for "environment"
// lines. Used by the `env` subcommand to edit one field of an existing row
// without replaying a whole seed file.
func SetField(e *store.Environment, key, value string) error {
	setter, ok := environmentFields[key]
	if !ok {
		return fmt.Errorf("unknown environment key %q", key)
	}
	return setter(e, value)
}

// FieldNames returns every recognized environment directive key, sorted,
// for the `env` subcommand's usage message.
func FieldNames() []string {
	names := make([]string, 0, len(environmentFields))
	for name := range environmentFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseEnvironment(cfg *Config, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("environment directive wants 2 fields, got %d", len(fields))
	}
	setter, ok := environmentFields[fields[0]]
	if !ok {
		return fmt.Errorf("unknown environment key %q", fields[0])
	}
	return setter(&cfg.Environment, fields[1])
}

func parseSpawn(cfg *Config, fields []string) error {
	if len(fields) != 8 {
		return fmt.Errorf("spawn directive wants 8 fields, got %d", len(fields))
	}
	freq, max, start, end, err := parseRegionFields(fields[1:7])
	if err != nil {
		return err
	}
	energy, err := strconv.ParseInt(fields[7], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid energy %q: %w", fields[7], err)
	}
	cfg.Spawns = append(cfg.Spawns, SpawnDirective{
		CodeFile: fields[0], Frequency: freq, Max: max, Start: start, End: end, Energy: energy,
	})
	return nil
}

func parseResource(cfg *Config, fields []string) error {
	if len(fields) != 7 {
		return fmt.Errorf("resource directive wants 7 fields, got %d", len(fields))
	}
	freq, max, start, end, err := parseRegionFields(fields[0:6])
	if err != nil {
		return err
	}
	size, err := strconv.Atoi(fields[6])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", fields[6], err)
	}
	cfg.Resources = append(cfg.Resources, ResourceDirective{
		Frequency: freq, Max: max, Start: start, End: end, Size: size,
	})
	return nil
}

// parseRegionFields parses the shared "<freq> <max> <x1> <y1> <x2> <y2>"
// tail both spawn and resource directives carry.
func parseRegionFields(fields []string) (freq, max int, start, end world.Position, err error) {
	ints := make([]int, len(fields))
	for i, f := range fields {
		v, perr := strconv.Atoi(f)
		if perr != nil {
			return 0, 0, world.Position{}, world.Position{}, fmt.Errorf("invalid integer %q: %w", f, perr)
		}
		ints[i] = v
	}
	return ints[0], ints[1], world.Position{X: ints[2], Y: ints[3]}, world.Position{X: ints[4], Y: ints[5]}, nil
}

// Load reads and parses a seed file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads directives from r until EOF.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		keyword := strings.ToLower(fields[0])
		directive, ok := directives[keyword]
		if !ok {
			return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("unknown directive %q", fields[0])}
		}
		if err := directive(cfg, fields[1:]); err != nil {
			return nil, &ParseError{Line: lineNo, Reason: err.Error()}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return cfg, nil
}

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
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/rcornwell/simpleworld/internal/config"
	"github.com/rcornwell/simpleworld/internal/isa"
	"github.com/rcornwell/simpleworld/internal/ops"
	"github.com/rcornwell/simpleworld/internal/scheduler"
	"github.com/rcornwell/simpleworld/internal/store"
	"github.com/rcornwell/simpleworld/internal/world"
)

// newISA returns an isa.ISA with every opcode and interrupt simworld knows
// about registered, the same set the scheduler runs bugs under.
func newISA() (*isa.ISA, error) {
	set := isa.New()
	if err := ops.Seed(set); err != nil {
		return nil, fmt.Errorf("seed instruction set: %w", err)
	}
	return set, nil
}

// splitFlags pulls "-name value" / "--name value" pairs named in known out
// of args, storing each value through its pointer in known and returning
// the remaining positional arguments. Subcommands take few enough options that a full getopt Set
// per subcommand isn't worth the indirection; this mirrors what the
// dispatch table in command/parser already does for its own arguments.
func splitFlags(args []string, known map[string]*string) ([]string, error) {
	var rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		name, hasName := flagName(a, known)
		if !hasName {
			rest = append(rest, a)
			continue
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("flag %s requires a value", a)
		}
		i++
		*known[name] = args[i]
	}
	return rest, nil
}

func flagName(a string, known map[string]*string) (string, bool) {
	trimmed := a
	switch {
	case len(a) > 2 && a[:2] == "--":
		trimmed = a[2:]
	case len(a) > 1 && a[:1] == "-":
		trimmed = a[1:]
	default:
		return "", false
	}
	if _, ok := known[trimmed]; ok {
		return trimmed, true
	}
	return "", false
}

// cmdCreate opens (creating if necessary) a store at args[0] and installs
// an Environment row, optionally seeded from a config file.
func cmdCreate(args []string) error {
	var optConfig string
	rest, err := splitFlags(args, map[string]*string{"config": &optConfig, "c": &optConfig})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if len(rest) != 1 {
		return fmt.Errorf("create: usage: create [--config file] <db-path>")
	}
	dbPath := rest[0]

	var cfg *config.Config
	if optConfig != "" {
		var err error
		cfg, err = config.Load(optConfig)
		if err != nil {
			return fmt.Errorf("create: %w", err)
		}
	} else {
		cfg = &config.Config{}
	}
	if cfg.Environment.SizeX == 0 {
		cfg.Environment.SizeX = 32
	}
	if cfg.Environment.SizeY == 0 {
		cfg.Environment.SizeY = 32
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer tx.Rollback()

	env := cfg.Environment
	if err := tx.PutEnvironment(ctx, &env); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	for _, sp := range cfg.Spawns {
		blob, err := os.ReadFile(sp.CodeFile)
		if err != nil {
			return fmt.Errorf("create: spawn code file %s: %w", sp.CodeFile, err)
		}
		codeID, err := tx.PutCode(ctx, blob, len(blob))
		if err != nil {
			return fmt.Errorf("create: %w", err)
		}
		if _, err := tx.PutSpawn(ctx, store.Spawn{
			CodeID: codeID, Frequency: sp.Frequency, Max: sp.Max,
			Start: sp.Start, End: sp.End, Energy: sp.Energy,
		}); err != nil {
			return fmt.Errorf("create: %w", err)
		}
	}
	for _, r := range cfg.Resources {
		if _, err := tx.PutResource(ctx, store.Resource{
			Frequency: r.Frequency, Max: r.Max, Start: r.Start, End: r.End, Size: r.Size,
		}); err != nil {
			return fmt.Errorf("create: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	log.Info("world created", "db", dbPath, "size_x", env.SizeX, "size_y", env.SizeY,
		"spawns", len(cfg.Spawns), "resources", len(cfg.Resources))
	return nil
}

// cmdRun opens a store, loads its scheduler state, and steps it forward a
// requested number of ticks.
func cmdRun(args []string) error {
	var optTicks, optSeed string
	rest, err := splitFlags(args, map[string]*string{
		"ticks": &optTicks, "t": &optTicks,
		"seed": &optSeed, "s": &optSeed,
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if len(rest) != 1 {
		return fmt.Errorf("run: usage: run [--ticks N] [--seed N] <db-path>")
	}
	ticks := 1
	if optTicks != "" {
		ticks, err = strconv.Atoi(optTicks)
		if err != nil {
			return fmt.Errorf("run: invalid --ticks %q: %w", optTicks, err)
		}
	}
	seed := int64(0)
	if optSeed != "" {
		seed, err = strconv.ParseInt(optSeed, 10, 64)
		if err != nil {
			return fmt.Errorf("run: invalid --seed %q: %w", optSeed, err)
		}
	}

	s, err := store.Open(rest[0])
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer s.Close()

	set2, err := newISA()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	ctx := context.Background()
	env, err := s.GetEnvironment(ctx)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	grid := world.New(env.SizeX, env.SizeY)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sched := scheduler.New(s, set2, grid, rng)
	if err := sched.Load(ctx); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	for i := 0; i < ticks; i++ {
		if err := sched.Tick(ctx); err != nil {
			return fmt.Errorf("run: tick %d: %w", i, err)
		}
	}
	log.Info("run complete", "ticks", ticks)
	return nil
}

// cmdInfo prints the latest statistics row.
func cmdInfo(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("info: expected exactly one db-path argument")
	}
	s, err := store.Open(args[0])
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	st, err := s.LatestStats(ctx)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	fmt.Printf("time=%d alive=%d eggs=%d food=%d energy=%d families=%d mutations=%d age=%d\n",
		st.Time, st.Alive, st.Eggs, st.Food, st.Energy, st.Families, st.Mutations, st.Age)
	fmt.Printf("last tick: births=%d sons=%d deaths=%d kills=%d mutations=%d\n",
		st.LastBirths, st.LastSons, st.LastDeaths, st.LastKills, st.LastMutations)
	return nil
}

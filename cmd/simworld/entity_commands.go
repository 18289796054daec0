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
	"os"
	"strconv"
	"strings"

	"github.com/rcornwell/simpleworld/internal/config"
	"github.com/rcornwell/simpleworld/internal/store"
	"github.com/rcornwell/simpleworld/internal/world"
)

// cmdEnv with one argument prints the environment row; with a second
// key/value pair it edits that one field in place.
func cmdEnv(args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return fmt.Errorf("env: usage: env <db-path> [<key> <value>]\nknown keys: %s",
			strings.Join(config.FieldNames(), ", "))
	}
	s, err := store.Open(args[0])
	if err != nil {
		return fmt.Errorf("env: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	if len(args) == 1 {
		env, err := s.GetEnvironment(ctx)
		if err != nil {
			return fmt.Errorf("env: %w", err)
		}
		fmt.Printf("%+v\n", env)
		return nil
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return fmt.Errorf("env: %w", err)
	}
	defer tx.Rollback()

	env, err := s.GetEnvironment(ctx)
	if err != nil {
		return fmt.Errorf("env: %w", err)
	}
	if err := config.SetField(&env, args[1], args[2]); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	if err := tx.PutEnvironment(ctx, &env); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	log.Info("environment updated", "key", args[1], "value", args[2])
	return nil
}

// cmdEgg inserts a new egg: a code file, a grid position, and a starting
// energy, the manual equivalent of what a `spawn` directive does on its
// own cadence during `run`.
func cmdEgg(args []string) error {
	if len(args) != 5 {
		return fmt.Errorf("egg: usage: egg <db-path> <code-file> <x> <y> <energy>")
	}
	dbPath, codeFile := args[0], args[1]
	x, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("egg: invalid x %q: %w", args[2], err)
	}
	y, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("egg: invalid y %q: %w", args[3], err)
	}
	energy, err := strconv.ParseInt(args[4], 10, 64)
	if err != nil {
		return fmt.Errorf("egg: invalid energy %q: %w", args[4], err)
	}

	blob, err := os.ReadFile(codeFile)
	if err != nil {
		return fmt.Errorf("egg: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("egg: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		return fmt.Errorf("egg: %w", err)
	}
	defer tx.Rollback()

	env, err := s.GetEnvironment(ctx)
	if err != nil {
		return fmt.Errorf("egg: %w", err)
	}

	codeID, err := tx.PutCode(ctx, blob, len(blob))
	if err != nil {
		return fmt.Errorf("egg: %w", err)
	}
	worldID, err := tx.PutWorld(ctx, store.World{Position: world.Position{X: x, Y: y}})
	if err != nil {
		return fmt.Errorf("egg: %w", err)
	}
	bugID, err := tx.PutBug(ctx, store.Bug{CodeID: codeID, Creation: env.Time})
	if err != nil {
		return fmt.Errorf("egg: %w", err)
	}
	if err := tx.PutEgg(ctx, store.Egg{BugID: bugID, WorldID: worldID, Energy: energy, MemoryID: codeID}); err != nil {
		return fmt.Errorf("egg: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("egg: %w", err)
	}
	log.Info("egg laid", "bug_id", bugID, "x", x, "y", y, "energy", energy)
	return nil
}

// cmdFood inserts a food pile at a position.
func cmdFood(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("food: usage: food <db-path> <x> <y> <size>")
	}
	x, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("food: invalid x %q: %w", args[1], err)
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("food: invalid y %q: %w", args[2], err)
	}
	size, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("food: invalid size %q: %w", args[3], err)
	}

	s, err := store.Open(args[0])
	if err != nil {
		return fmt.Errorf("food: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		return fmt.Errorf("food: %w", err)
	}
	defer tx.Rollback()

	env, err := s.GetEnvironment(ctx)
	if err != nil {
		return fmt.Errorf("food: %w", err)
	}
	worldID, err := tx.PutWorld(ctx, store.World{Position: world.Position{X: x, Y: y}})
	if err != nil {
		return fmt.Errorf("food: %w", err)
	}
	foodID, err := tx.PutFood(ctx, store.Food{Time: env.Time, WorldID: worldID, Size: size})
	if err != nil {
		return fmt.Errorf("food: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("food: %w", err)
	}
	log.Info("food placed", "food_id", foodID, "x", x, "y", y, "size", size)
	return nil
}

// cmdSpawn inserts a spawn region config row from a code file.
func cmdSpawn(args []string) error {
	if len(args) != 8 {
		return fmt.Errorf("spawn: usage: spawn <db-path> <code-file> <freq> <max> <x1> <y1> <x2> <y2>")
	}
	dbPath, codeFile := args[0], args[1]
	ints, err := parseInts(args[2:])
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	freq, max, x1, y1, x2, y2 := ints[0], ints[1], ints[2], ints[3], ints[4], ints[5]

	blob, err := os.ReadFile(codeFile)
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	defer tx.Rollback()

	codeID, err := tx.PutCode(ctx, blob, len(blob))
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	spawnID, err := tx.PutSpawn(ctx, store.Spawn{
		CodeID: codeID, Frequency: freq, Max: max,
		Start: world.Position{X: x1, Y: y1}, End: world.Position{X: x2, Y: y2},
	})
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	log.Info("spawn region added", "spawn_id", spawnID, "code_id", codeID)
	return nil
}

// cmdResource inserts a resource region config row.
func cmdResource(args []string) error {
	if len(args) != 8 {
		return fmt.Errorf("resource: usage: resource <db-path> <freq> <max> <x1> <y1> <x2> <y2> <size>")
	}
	dbPath := args[0]
	ints, err := parseInts(args[1:7])
	if err != nil {
		return fmt.Errorf("resource: %w", err)
	}
	freq, max, x1, y1, x2, y2 := ints[0], ints[1], ints[2], ints[3], ints[4], ints[5]
	size, err := strconv.Atoi(args[7])
	if err != nil {
		return fmt.Errorf("resource: invalid size %q: %w", args[7], err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("resource: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		return fmt.Errorf("resource: %w", err)
	}
	defer tx.Rollback()

	resID, err := tx.PutResource(ctx, store.Resource{
		Frequency: freq, Max: max,
		Start: world.Position{X: x1, Y: y1}, End: world.Position{X: x2, Y: y2}, Size: size,
	})
	if err != nil {
		return fmt.Errorf("resource: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("resource: %w", err)
	}
	log.Info("resource region added", "resource_id", resID)
	return nil
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

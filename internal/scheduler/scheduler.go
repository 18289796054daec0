/*
   Simple World  - world scheduler

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

// Package scheduler drives the simulation one tick at a time: it owns the
// in-memory world Grid and one cpu.CPU per alive bug, and on every Tick
// mutates scheduled bugs, delivers the timer interrupt, steps every bug's
// CPU, resolves matured world actions, debits laziness, hatches eggs,
// spawns configured bugs/resources, rots food, and commits everything in
// a single internal/store transaction. The CPU core itself never touches
// the grid or the store; this package is the only caller of cpu.Step and
// the only place the world opcode's subcommand table is resolved.
package scheduler

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rcornwell/simpleworld/internal/cpu"
	"github.com/rcornwell/simpleworld/internal/isa"
	"github.com/rcornwell/simpleworld/internal/memory"
	"github.com/rcornwell/simpleworld/internal/mutation"
	"github.com/rcornwell/simpleworld/internal/ops"
	"github.com/rcornwell/simpleworld/internal/store"
	"github.com/rcornwell/simpleworld/internal/world"
)

// TimerInterval is how many ticks elapse between timer interrupts
// delivered to every alive bug (§4.M step 3).
const TimerInterval = 64

// ActionDuration is how many ticks a world action takes to mature, fixed
// for every subcommand regardless of its configured time_* cost (§4.M).
const ActionDuration = 16

// liveBug is one alive bug's in-memory execution state: its CPU plus the
// store-facing bookkeeping (which row IDs back its registers and code,
// where it sits and faces on the grid) that Tick must keep in sync with
// the database every tick.
type liveBug struct {
	bugID          int64
	cpu            *cpu.CPU
	worldID        int64
	registersID    int64
	memoryID       int64
	birth          int64
	energy         int64
	lastAction     *int64
	actionDeadline *int64
	position       world.Position
	orientation    world.Orientation
}

// Scheduler holds the live simulation: the persistence layer, the shared
// ISA every bug's CPU is built against, the world grid, a source of
// randomness for mutation/spawn placement, and one liveBug per alive bug.
type Scheduler struct {
	Store *store.Store
	ISA   *isa.ISA
	Grid  *world.Grid
	RNG   *rand.Rand

	bugs        map[int64]*liveBug
	order       []int64
	foodSize    map[int64]int
	foodWorldID map[int64]int64
}

// New returns a Scheduler over an already-open store and a grid sized to
// match its Environment row. Callers must call Load before Tick.
func New(s *store.Store, set *isa.ISA, grid *world.Grid, rng *rand.Rand) *Scheduler {
	return &Scheduler{
		Store:       s,
		ISA:         set,
		Grid:        grid,
		RNG:         rng,
		bugs:        make(map[int64]*liveBug),
		foodSize:    make(map[int64]int),
		foodWorldID: make(map[int64]int64),
	}
}

// Load populates the grid and the scheduler's live bug set from whatever
// is currently persisted: every alive bug gets a CPU built from its
// stored code/registers blobs, every egg and food pile claims its grid
// cell. Call this once after Open, before the first Tick.
func (s *Scheduler) Load(ctx context.Context) error {
	alive, err := s.Store.ListAliveBugs(ctx)
	if err != nil {
		return fmt.Errorf("scheduler load: %w", err)
	}
	for _, ab := range alive {
		if err := s.loadAliveBug(ctx, ab); err != nil {
			return fmt.Errorf("scheduler load: %w", err)
		}
	}

	eggs, err := s.Store.ListEggs(ctx)
	if err != nil {
		return fmt.Errorf("scheduler load: %w", err)
	}
	for _, egg := range eggs {
		w, err := s.Store.GetWorld(ctx, egg.WorldID)
		if err != nil {
			return fmt.Errorf("scheduler load: egg %d: %w", egg.BugID, err)
		}
		if err := s.Grid.Add(w.Position, world.Occupant{Kind: world.KindEgg, ID: egg.BugID}); err != nil {
			return fmt.Errorf("scheduler load: egg %d: %w", egg.BugID, err)
		}
	}

	foods, err := s.Store.ListFood(ctx)
	if err != nil {
		return fmt.Errorf("scheduler load: %w", err)
	}
	for _, f := range foods {
		w, err := s.Store.GetWorld(ctx, f.WorldID)
		if err != nil {
			return fmt.Errorf("scheduler load: food %d: %w", f.ID, err)
		}
		if err := s.Grid.Add(w.Position, world.Occupant{Kind: world.KindFood, ID: f.ID}); err != nil {
			return fmt.Errorf("scheduler load: food %d: %w", f.ID, err)
		}
		s.foodSize[f.ID] = f.Size
		s.foodWorldID[f.ID] = f.WorldID
	}
	return nil
}

func (s *Scheduler) loadAliveBug(ctx context.Context, ab store.AliveBug) error {
	w, err := s.Store.GetWorld(ctx, ab.WorldID)
	if err != nil {
		return fmt.Errorf("alive bug %d: %w", ab.BugID, err)
	}
	code, err := s.Store.GetCode(ctx, ab.MemoryID)
	if err != nil {
		return fmt.Errorf("alive bug %d: %w", ab.BugID, err)
	}
	regs, err := s.Store.GetRegisters(ctx, ab.RegistersID)
	if err != nil {
		return fmt.Errorf("alive bug %d: %w", ab.BugID, err)
	}

	mem := memory.New(len(code))
	copy(mem.Bytes(), code)
	c := cpu.New(s.ISA, mem)
	copy(c.Registers.Bytes(), regs)

	lb := &liveBug{
		bugID:          ab.BugID,
		cpu:            c,
		worldID:        ab.WorldID,
		registersID:    ab.RegistersID,
		memoryID:       ab.MemoryID,
		birth:          ab.Birth,
		energy:         ab.Energy,
		lastAction:     ab.TimeLastAction,
		actionDeadline: ab.ActionDeadline,
		position:       w.Position,
	}
	if w.Orientation != nil {
		lb.orientation = *w.Orientation
	}

	if err := s.Grid.Add(w.Position, world.Occupant{Kind: world.KindBug, ID: ab.BugID}); err != nil {
		return fmt.Errorf("alive bug %d: %w", ab.BugID, err)
	}
	s.bugs[ab.BugID] = lb
	s.order = append(s.order, ab.BugID)
	return nil
}

// Tick advances the simulation by exactly one tick, per §4.M's nine steps:
// mutate scheduled bugs, deliver the timer interrupt every TimerInterval
// ticks (cancelling any in-flight world action first), step every alive
// bug's CPU, debit laziness, hatch ready eggs, spawn configured bugs and
// resources, rot food, and commit the whole tick's writes together with a
// fresh Stats row. A failure at any step rolls the transaction back and
// leaves Environment.Time unadvanced.
func (s *Scheduler) Tick(ctx context.Context) error {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	env, err := s.Store.GetEnvironment(ctx)
	if err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	env.Time++
	if err := tx.PutEnvironment(ctx, &env); err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	if err := s.mutateScheduled(ctx, tx, &env); err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	if env.Time%TimerInterval == 0 {
		if err := s.raiseTimerOnAll(ctx, tx, &env); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
	}

	for _, bugID := range append([]int64(nil), s.order...) {
		lb, ok := s.bugs[bugID]
		if !ok {
			continue
		}
		if err := s.stepBug(ctx, tx, &env, lb); err != nil {
			return fmt.Errorf("tick: bug %d: %w", bugID, err)
		}
	}

	if err := s.applyLaziness(ctx, tx, &env); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	if err := s.hatchEggs(ctx, tx, &env); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	if err := s.spawnBugs(ctx, tx, &env); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	if err := s.spawnResources(ctx, tx, &env); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	if err := s.rotFood(ctx, tx, &env); err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	stats, err := s.computeStats(ctx, env)
	if err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	if _, err := tx.PutStats(ctx, stats); err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	committed = true
	return nil
}

// mutateScheduled applies internal/mutation to every bug whose age is a
// nonzero multiple of env.TimeMutate (§4.M step 2). Mutated code is
// persisted as a new Code row rather than overwriting the old one, since
// Code rows are otherwise immutable once written.
func (s *Scheduler) mutateScheduled(ctx context.Context, tx *store.Tx, env *store.Environment) error {
	if env.TimeMutate <= 0 {
		return nil
	}
	for _, bugID := range s.order {
		lb, ok := s.bugs[bugID]
		if !ok {
			continue
		}
		age := env.Time - lb.birth
		if age <= 0 || age%env.TimeMutate != 0 {
			continue
		}

		original := append([]byte(nil), lb.cpu.Memory.Bytes()...)
		mutated, records := mutation.Apply(original, env.MutationsProbability, s.RNG)
		if len(records) == 0 {
			continue
		}

		codeID, err := tx.PutCode(ctx, mutated, len(mutated))
		if err != nil {
			return err
		}
		if err := s.recordMutations(ctx, tx, env, lb.bugID, records); err != nil {
			return err
		}

		lb.memoryID = codeID
		lb.cpu.Memory.Resize(len(mutated))
		copy(lb.cpu.Memory.Bytes(), mutated)
		if err := s.persistBugState(ctx, tx, lb); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) recordMutations(ctx context.Context, tx *store.Tx, env *store.Environment, bugID int64, records []mutation.Record) error {
	for _, r := range records {
		var original, mutated *int64
		if r.Kind != mutation.Insert && r.Kind != mutation.Duplicate {
			o := int64(r.Original)
			original = &o
		}
		if r.Kind != mutation.Delete {
			m := int64(r.Mutated)
			mutated = &m
		}
		if _, err := tx.PutMutation(ctx, store.Mutation{
			BugID: bugID, Time: env.Time, Type: int(r.Kind), Position: r.Offset,
			Original: original, Mutated: mutated,
		}); err != nil {
			return err
		}
	}
	return nil
}

// raiseTimerOnAll delivers the timer interrupt to every alive bug. A bug
// with a world action in flight has it cancelled first (§5 Cancellation);
// CancelWorldAction writes ActionInterrupted into r0 and advances pc past
// the world instruction, and because dispatchInterrupt pushes the whole
// register file onto the stack before loading the timer's own scratch
// values, that ActionInterrupted result still comes back correctly once
// the handler returns - so the cancellation and the timer dispatch can
// both happen within this same tick, with no deferred-interrupt queue.
func (s *Scheduler) raiseTimerOnAll(ctx context.Context, tx *store.Tx, env *store.Environment) error {
	for _, bugID := range s.order {
		lb, ok := s.bugs[bugID]
		if !ok {
			continue
		}
		if lb.actionDeadline != nil {
			lb.cpu.CancelWorldAction(ops.ActionInterrupted)
			lb.actionDeadline = nil
		}
		lb.cpu.RaiseTimer()
		if err := s.persistBugState(ctx, tx, lb); err != nil {
			return err
		}
	}
	return nil
}

// stepBug advances one bug by one tick: if it has a world action awaiting
// maturity, either leaves it pending or resolves it; otherwise it steps
// the CPU once, recording a halt as death and a world-action request as
// the start of a new 16-tick wait.
func (s *Scheduler) stepBug(ctx context.Context, tx *store.Tx, env *store.Environment, lb *liveBug) error {
	if lb.actionDeadline != nil {
		if env.Time < *lb.actionDeadline {
			return nil
		}
		return s.resolveAction(ctx, tx, env, lb)
	}

	status, _, _ := lb.cpu.Step()
	switch status {
	case cpu.Halted:
		return s.killBug(ctx, tx, env, lb.bugID, nil)
	case cpu.WorldRequested:
		deadline := env.Time + ActionDuration
		lb.actionDeadline = &deadline
	default:
		t := env.Time
		lb.lastAction = &t
	}
	return s.persistBugState(ctx, tx, lb)
}

// persistBugState writes a liveBug's mutable, every-tick-changing fields
// (registers, energy, last-action time, action deadline) back to the
// store. Code/world-position writes happen at their own call sites since
// they change far less often.
func (s *Scheduler) persistBugState(ctx context.Context, tx *store.Tx, lb *liveBug) error {
	if err := tx.UpdateRegisters(ctx, lb.registersID, append([]byte(nil), lb.cpu.Registers.Bytes()...)); err != nil {
		return err
	}
	return tx.UpdateAliveBug(ctx, store.AliveBug{
		BugID:          lb.bugID,
		WorldID:        lb.worldID,
		Birth:          lb.birth,
		Energy:         lb.energy,
		TimeLastAction: lb.lastAction,
		ActionDeadline: lb.actionDeadline,
		RegistersID:    lb.registersID,
		MemoryID:       lb.memoryID,
	})
}

// killBug converts a dead bug's corpse into a food pile of the same size
// as its program, at the position it died, and records a DeadBug row.
func (s *Scheduler) killBug(ctx context.Context, tx *store.Tx, env *store.Environment, bugID int64, killerID *int64) error {
	lb, ok := s.bugs[bugID]
	if !ok {
		return nil
	}

	oldWorld, err := s.Store.GetWorld(ctx, lb.worldID)
	if err != nil {
		return fmt.Errorf("kill bug %d: %w", bugID, err)
	}
	if err := tx.DeleteAliveBug(ctx, bugID); err != nil {
		return err
	}
	if err := tx.DeleteWorld(ctx, lb.worldID); err != nil {
		return err
	}
	if err := s.Grid.Remove(oldWorld.Position); err != nil {
		return fmt.Errorf("kill bug %d: %w", bugID, err)
	}

	size := lb.cpu.Memory.Size()
	foodWorldID, err := tx.PutWorld(ctx, store.World{Position: oldWorld.Position})
	if err != nil {
		return err
	}
	foodID, err := tx.PutFood(ctx, store.Food{Time: env.Time, WorldID: foodWorldID, Size: size})
	if err != nil {
		return err
	}
	if err := s.Grid.Add(oldWorld.Position, world.Occupant{Kind: world.KindFood, ID: foodID}); err != nil {
		return err
	}
	s.foodSize[foodID] = size
	s.foodWorldID[foodID] = foodWorldID

	birth := lb.birth
	if err := tx.PutDeadBug(ctx, store.DeadBug{BugID: bugID, Death: env.Time, Birth: &birth, KillerID: killerID}); err != nil {
		return err
	}

	delete(s.bugs, bugID)
	s.removeFromOrder(bugID)
	return nil
}

func (s *Scheduler) removeFromOrder(bugID int64) {
	for i, id := range s.order {
		if id == bugID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// killEgg removes an unhatched egg that was attacked to death, recording
// a DeadBug row with no birth (it never hatched).
func (s *Scheduler) killEgg(ctx context.Context, tx *store.Tx, env *store.Environment, eggBugID int64, killerID *int64) error {
	egg, err := s.Store.GetEgg(ctx, eggBugID)
	if err != nil {
		return fmt.Errorf("kill egg %d: %w", eggBugID, err)
	}
	w, err := s.Store.GetWorld(ctx, egg.WorldID)
	if err != nil {
		return fmt.Errorf("kill egg %d: %w", eggBugID, err)
	}
	if err := tx.DeleteEgg(ctx, eggBugID); err != nil {
		return err
	}
	if err := tx.DeleteWorld(ctx, egg.WorldID); err != nil {
		return err
	}
	if err := s.Grid.Remove(w.Position); err != nil {
		return fmt.Errorf("kill egg %d: %w", eggBugID, err)
	}
	return tx.PutDeadBug(ctx, store.DeadBug{BugID: eggBugID, Death: env.Time, KillerID: killerID})
}

// applyLaziness debits EnergyLaziness from every bug whose last observable
// action is older than TimeLaziness ticks, per the resolved Open Question
// (not "every time_laziness ticks"). A bug that underflows dies.
func (s *Scheduler) applyLaziness(ctx context.Context, tx *store.Tx, env *store.Environment) error {
	if env.TimeLaziness <= 0 {
		return nil
	}
	for _, bugID := range append([]int64(nil), s.order...) {
		lb, ok := s.bugs[bugID]
		if !ok {
			continue
		}
		last := lb.birth
		if lb.lastAction != nil {
			last = *lb.lastAction
		}
		if env.Time-last <= env.TimeLaziness {
			continue
		}
		lb.energy -= env.EnergyLaziness
		if lb.energy <= 0 {
			if err := s.killBug(ctx, tx, env, bugID, nil); err != nil {
				return err
			}
			continue
		}
		if err := s.persistBugState(ctx, tx, lb); err != nil {
			return err
		}
	}
	return nil
}

// hatchEggs promotes every egg whose incubation period has elapsed into
// an AliveBug. Readiness is env.Time >= bug.Creation + env.TimeBirth: the
// schema has no separate hatch_time column (§6.3 names none, and neither
// does the original's own egg accessor set), so TimeBirth doubles as the
// incubation period, already being the only birth-related duration the
// Environment row carries.
func (s *Scheduler) hatchEggs(ctx context.Context, tx *store.Tx, env *store.Environment) error {
	eggs, err := s.Store.ListEggs(ctx)
	if err != nil {
		return err
	}
	for _, egg := range eggs {
		bug, err := s.Store.GetBug(ctx, egg.BugID)
		if err != nil {
			return fmt.Errorf("hatch egg %d: %w", egg.BugID, err)
		}
		if env.Time < bug.Creation+env.TimeBirth {
			continue
		}

		w, err := s.Store.GetWorld(ctx, egg.WorldID)
		if err != nil {
			return fmt.Errorf("hatch egg %d: %w", egg.BugID, err)
		}
		code, err := s.Store.GetCode(ctx, egg.MemoryID)
		if err != nil {
			return fmt.Errorf("hatch egg %d: %w", egg.BugID, err)
		}

		registersID, err := tx.PutRegisters(ctx, make([]byte, 16*4))
		if err != nil {
			return err
		}
		if err := tx.DeleteEgg(ctx, egg.BugID); err != nil {
			return err
		}
		if err := tx.PutAliveBug(ctx, store.AliveBug{
			BugID: egg.BugID, WorldID: egg.WorldID, Birth: env.Time, Energy: egg.Energy,
			RegistersID: registersID, MemoryID: egg.MemoryID,
		}); err != nil {
			return err
		}

		if err := s.Grid.Remove(w.Position); err != nil {
			return fmt.Errorf("hatch egg %d: %w", egg.BugID, err)
		}
		if err := s.Grid.Add(w.Position, world.Occupant{Kind: world.KindBug, ID: egg.BugID}); err != nil {
			return fmt.Errorf("hatch egg %d: %w", egg.BugID, err)
		}

		mem := memory.New(len(code))
		copy(mem.Bytes(), code)
		lb := &liveBug{
			bugID: egg.BugID, cpu: cpu.New(s.ISA, mem), worldID: egg.WorldID,
			registersID: registersID, memoryID: egg.MemoryID, birth: env.Time,
			energy: egg.Energy, position: w.Position,
		}
		if w.Orientation != nil {
			lb.orientation = *w.Orientation
		}
		s.bugs[egg.BugID] = lb
		s.order = append(s.order, egg.BugID)
	}
	return nil
}

// spawnBugs lays a new egg in every configured spawn region whose
// frequency divides env.Time evenly, as long as the region is not already
// at its configured population cap and a free cell can be found in it
// (§4.M step 7). Population is approximated as "bugs currently occupying
// the region" rather than tracked per-spawner lineage, since nothing else
// in this repository needs per-spawner ancestry.
func (s *Scheduler) spawnBugs(ctx context.Context, tx *store.Tx, env *store.Environment) error {
	spawns, err := s.Store.ListSpawns(ctx)
	if err != nil {
		return err
	}
	for _, sp := range spawns {
		if sp.Frequency <= 0 || env.Time%int64(sp.Frequency) != 0 {
			continue
		}
		if s.countInRegion(sp.Start, sp.End, world.KindBug) >= sp.Max {
			continue
		}
		pos, ok := s.freePositionInRegion(sp.Start, sp.End)
		if !ok {
			continue
		}

		bugID, err := tx.PutBug(ctx, store.Bug{CodeID: sp.CodeID, Creation: env.Time})
		if err != nil {
			return err
		}
		facing := world.RandomOrientation(s.RNG)
		worldID, err := tx.PutWorld(ctx, store.World{Position: pos, Orientation: &facing})
		if err != nil {
			return err
		}
		if err := tx.PutEgg(ctx, store.Egg{BugID: bugID, WorldID: worldID, Energy: sp.Energy, MemoryID: sp.CodeID}); err != nil {
			return err
		}
		if err := s.Grid.Add(pos, world.Occupant{Kind: world.KindEgg, ID: bugID}); err != nil {
			return err
		}
	}
	return nil
}

// spawnResources drops a new food pile in every configured resource
// region on its configured cadence, mirroring spawnBugs.
func (s *Scheduler) spawnResources(ctx context.Context, tx *store.Tx, env *store.Environment) error {
	resources, err := s.Store.ListResources(ctx)
	if err != nil {
		return err
	}
	for _, r := range resources {
		if r.Frequency <= 0 || env.Time%int64(r.Frequency) != 0 {
			continue
		}
		if s.countInRegion(r.Start, r.End, world.KindFood) >= r.Max {
			continue
		}
		pos, ok := s.freePositionInRegion(r.Start, r.End)
		if !ok {
			continue
		}

		worldID, err := tx.PutWorld(ctx, store.World{Position: pos})
		if err != nil {
			return err
		}
		foodID, err := tx.PutFood(ctx, store.Food{Time: env.Time, WorldID: worldID, Size: r.Size})
		if err != nil {
			return err
		}
		if err := s.Grid.Add(pos, world.Occupant{Kind: world.KindFood, ID: foodID}); err != nil {
			return err
		}
		s.foodSize[foodID] = r.Size
		s.foodWorldID[foodID] = worldID
	}
	return nil
}

func (s *Scheduler) countInRegion(start, end world.Position, kind world.Kind) int {
	count := 0
	for x := start.X; x <= end.X; x++ {
		for y := start.Y; y <= end.Y; y++ {
			occ, err := s.Grid.Get(world.Position{X: x, Y: y})
			if err == nil && occ.Kind == kind {
				count++
			}
		}
	}
	return count
}

func (s *Scheduler) freePositionInRegion(start, end world.Position) (world.Position, bool) {
	for x := start.X; x <= end.X; x++ {
		for y := start.Y; y <= end.Y; y++ {
			p := world.Position{X: x, Y: y}
			if used, err := s.Grid.Used(p); err == nil && !used {
				return p, true
			}
		}
	}
	return world.Position{}, false
}

// rotFood shrinks every food pile by env.SizeRot on env.TimeRot's cadence,
// removing it once its size reaches zero (§4.M step 8).
func (s *Scheduler) rotFood(ctx context.Context, tx *store.Tx, env *store.Environment) error {
	if env.TimeRot <= 0 || env.Time%env.TimeRot != 0 {
		return nil
	}
	foods, err := s.Store.ListFood(ctx)
	if err != nil {
		return err
	}
	for _, f := range foods {
		newSize := f.Size - env.SizeRot
		if err := tx.UpdateFoodSize(ctx, f.ID, newSize); err != nil {
			return err
		}
		if newSize <= 0 {
			w, err := s.Store.GetWorld(ctx, f.WorldID)
			if err != nil {
				return fmt.Errorf("rot food %d: %w", f.ID, err)
			}
			if err := tx.DeleteWorld(ctx, f.WorldID); err != nil {
				return err
			}
			if err := s.Grid.Remove(w.Position); err != nil {
				return fmt.Errorf("rot food %d: %w", f.ID, err)
			}
			delete(s.foodSize, f.ID)
			delete(s.foodWorldID, f.ID)
		} else {
			s.foodSize[f.ID] = newSize
		}
	}
	return nil
}

// computeStats summarizes the tick's resulting population for the Stats
// row §4.M appends every tick. Families is approximated as the current
// alive-bug count: tracing father_id chains back to root ancestors would
// need a dedicated lineage index nothing else in this repository needs.
func (s *Scheduler) computeStats(ctx context.Context, env store.Environment) (store.Stats, error) {
	eggs, err := s.Store.ListEggs(ctx)
	if err != nil {
		return store.Stats{}, err
	}
	foods, err := s.Store.ListFood(ctx)
	if err != nil {
		return store.Stats{}, err
	}

	var totalEnergy int64
	for _, lb := range s.bugs {
		totalEnergy += lb.energy
	}
	for _, e := range eggs {
		totalEnergy += e.Energy
	}
	for _, f := range foods {
		totalEnergy += int64(f.Size)
	}

	return store.Stats{
		Time:     env.Time,
		Families: len(s.bugs),
		Alive:    len(s.bugs),
		Eggs:     len(eggs),
		Food:     len(foods),
		Energy:   totalEnergy,
	}, nil
}

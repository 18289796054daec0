/*
   Simple World  - persistence layer

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

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rcornwell/simpleworld/internal/world"
)

// Environment is the single-row table of simulation-wide parameters and
// the §6.3 action time/energy tables. Only one row is ever written per
// database; a fresh environment reuses ID 1.
type Environment struct {
	ID                    int64
	Time                  int64
	SizeX, SizeY          int
	TimeRot               int64
	SizeRot               int
	MutationsProbability  float64
	TimeBirth             int64
	TimeMutate            int64
	TimeLaziness          int64
	EnergyLaziness        int64
	AttackMultiplier      float64
	TimeMyself, TimeDetect, TimeInfo, TimeMove, TimeTurn, TimeAttack, TimeEat, TimeEgg, TimeNothing                      int64
	EnergyMyself, EnergyDetect, EnergyInfo, EnergyMove, EnergyTurn, EnergyAttack, EnergyEat, EnergyEgg, EnergyNothing    int64
}

// PutEnvironment inserts or updates the single environment row.
func (t *Tx) PutEnvironment(ctx context.Context, e *Environment) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO environment (id, time, size_x, size_y, time_rot, size_rot,
			mutations_probability, time_birth, time_mutate, time_laziness,
			energy_laziness, attack_multiplier,
			time_myself, time_detect, time_info, time_move, time_turn,
			time_attack, time_eat, time_egg, time_nothing,
			energy_myself, energy_detect, energy_info, energy_move, energy_turn,
			energy_attack, energy_eat, energy_egg, energy_nothing)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			time=excluded.time, size_x=excluded.size_x, size_y=excluded.size_y,
			time_rot=excluded.time_rot, size_rot=excluded.size_rot,
			mutations_probability=excluded.mutations_probability,
			time_birth=excluded.time_birth, time_mutate=excluded.time_mutate,
			time_laziness=excluded.time_laziness, energy_laziness=excluded.energy_laziness,
			attack_multiplier=excluded.attack_multiplier,
			time_myself=excluded.time_myself, time_detect=excluded.time_detect,
			time_info=excluded.time_info, time_move=excluded.time_move,
			time_turn=excluded.time_turn, time_attack=excluded.time_attack,
			time_eat=excluded.time_eat, time_egg=excluded.time_egg,
			time_nothing=excluded.time_nothing,
			energy_myself=excluded.energy_myself, energy_detect=excluded.energy_detect,
			energy_info=excluded.energy_info, energy_move=excluded.energy_move,
			energy_turn=excluded.energy_turn, energy_attack=excluded.energy_attack,
			energy_eat=excluded.energy_eat, energy_egg=excluded.energy_egg,
			energy_nothing=excluded.energy_nothing`,
		e.Time, e.SizeX, e.SizeY, e.TimeRot, e.SizeRot, e.MutationsProbability,
		e.TimeBirth, e.TimeMutate, e.TimeLaziness, e.EnergyLaziness, e.AttackMultiplier,
		e.TimeMyself, e.TimeDetect, e.TimeInfo, e.TimeMove, e.TimeTurn,
		e.TimeAttack, e.TimeEat, e.TimeEgg, e.TimeNothing,
		e.EnergyMyself, e.EnergyDetect, e.EnergyInfo, e.EnergyMove, e.EnergyTurn,
		e.EnergyAttack, e.EnergyEat, e.EnergyEgg, e.EnergyNothing)
	if err != nil {
		return fmt.Errorf("put environment: %w", err)
	}
	e.ID = 1
	t.store.cache.put("environment", 1, *e)
	return nil
}

// GetEnvironment reads back the single environment row. Environment.time
// is expected to only ever increase; callers that advance time should
// read, bump Time, and PutEnvironment the result in the same Tx.
func (s *Store) GetEnvironment(ctx context.Context) (Environment, error) {
	if v, ok := s.cache.get("environment", 1); ok {
		return v.(Environment), nil
	}
	var e Environment
	row := s.db.QueryRowContext(ctx, `SELECT id, time, size_x, size_y, time_rot, size_rot,
		mutations_probability, time_birth, time_mutate, time_laziness, energy_laziness,
		attack_multiplier,
		time_myself, time_detect, time_info, time_move, time_turn, time_attack, time_eat, time_egg, time_nothing,
		energy_myself, energy_detect, energy_info, energy_move, energy_turn, energy_attack, energy_eat, energy_egg, energy_nothing
		FROM environment WHERE id = 1`)
	err := row.Scan(&e.ID, &e.Time, &e.SizeX, &e.SizeY, &e.TimeRot, &e.SizeRot,
		&e.MutationsProbability, &e.TimeBirth, &e.TimeMutate, &e.TimeLaziness, &e.EnergyLaziness,
		&e.AttackMultiplier,
		&e.TimeMyself, &e.TimeDetect, &e.TimeInfo, &e.TimeMove, &e.TimeTurn, &e.TimeAttack, &e.TimeEat, &e.TimeEgg, &e.TimeNothing,
		&e.EnergyMyself, &e.EnergyDetect, &e.EnergyInfo, &e.EnergyMove, &e.EnergyTurn, &e.EnergyAttack, &e.EnergyEat, &e.EnergyEgg, &e.EnergyNothing)
	if errors.Is(err, sql.ErrNoRows) {
		return Environment{}, fmt.Errorf("get environment: %w", ErrNotFound)
	}
	if err != nil {
		return Environment{}, fmt.Errorf("get environment: %w", err)
	}
	s.cache.put("environment", 1, e)
	return e, nil
}

// World is a position plus optional facing, shared by AliveBug, Egg, and
// Food rows.
type World struct {
	ID          int64
	Position    world.Position
	Orientation *world.Orientation
}

// PutWorld inserts a new world row and returns its ID.
func (t *Tx) PutWorld(ctx context.Context, w World) (int64, error) {
	var orientation any
	if w.Orientation != nil {
		orientation = int(*w.Orientation)
	}
	res, err := t.tx.ExecContext(ctx, `INSERT INTO world (position_x, position_y, orientation) VALUES (?, ?, ?)`,
		w.Position.X, w.Position.Y, orientation)
	if err != nil {
		return 0, fmt.Errorf("put world: %w", err)
	}
	return res.LastInsertId()
}

// UpdateWorldPosition overwrites a world row's grid coordinates, used
// when its occupant moves.
func (t *Tx) UpdateWorldPosition(ctx context.Context, id int64, pos world.Position) error {
	if _, err := t.tx.ExecContext(ctx, `UPDATE world SET position_x = ?, position_y = ? WHERE id = ?`, pos.X, pos.Y, id); err != nil {
		return fmt.Errorf("update world position %d: %w", id, err)
	}
	t.store.cache.put("world", id, nil)
	return nil
}

// UpdateWorldOrientation overwrites a world row's facing, used when its
// occupant turns.
func (t *Tx) UpdateWorldOrientation(ctx context.Context, id int64, o world.Orientation) error {
	if _, err := t.tx.ExecContext(ctx, `UPDATE world SET orientation = ? WHERE id = ?`, int(o), id); err != nil {
		return fmt.Errorf("update world orientation %d: %w", id, err)
	}
	t.store.cache.put("world", id, nil)
	return nil
}

// DeleteWorld removes a world row (an occupant leaving the grid entirely:
// eaten food, a bug that died, a hatched egg).
func (t *Tx) DeleteWorld(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM world WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete world %d: %w", id, err)
	}
	t.store.cache.put("world", id, nil)
	return nil
}

// GetWorld reads a world row by ID.
func (s *Store) GetWorld(ctx context.Context, id int64) (World, error) {
	if v, ok := s.cache.get("world", id); ok {
		if v == nil {
			return World{}, fmt.Errorf("get world %d: %w", id, ErrNotFound)
		}
		return v.(World), nil
	}
	var w World
	var orientation sql.NullInt64
	row := s.db.QueryRowContext(ctx, `SELECT id, position_x, position_y, orientation FROM world WHERE id = ?`, id)
	if err := row.Scan(&w.ID, &w.Position.X, &w.Position.Y, &orientation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return World{}, fmt.Errorf("get world %d: %w", id, ErrNotFound)
		}
		return World{}, fmt.Errorf("get world %d: %w", id, err)
	}
	if orientation.Valid {
		o := world.Orientation(orientation.Int64)
		w.Orientation = &o
	}
	s.cache.put("world", id, w)
	return w, nil
}

// PutCode inserts an instruction blob and returns its ID. size is the
// declared program size in bytes (§6.3); blob's length must equal size
// and be a multiple of 4, mirroring the Code invariant.
func (t *Tx) PutCode(ctx context.Context, blob []byte, size int) (int64, error) {
	if len(blob) != size {
		return 0, fmt.Errorf("put code: blob length %d != declared size %d: %w", len(blob), size, ErrReferentialIntegrity)
	}
	if size%4 != 0 {
		return 0, fmt.Errorf("put code: size %d not a multiple of 4: %w", size, ErrReferentialIntegrity)
	}
	res, err := t.tx.ExecContext(ctx, `INSERT INTO code (blob) VALUES (?)`, blob)
	if err != nil {
		return 0, fmt.Errorf("put code: %w", err)
	}
	return res.LastInsertId()
}

// GetCode reads back a code blob by ID.
func (s *Store) GetCode(ctx context.Context, id int64) ([]byte, error) {
	if v, ok := s.cache.get("code", id); ok {
		return append([]byte(nil), v.([]byte)...), nil
	}
	var blob []byte
	row := s.db.QueryRowContext(ctx, `SELECT blob FROM code WHERE id = ?`, id)
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get code %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get code %d: %w", id, err)
	}
	s.cache.put("code", id, blob)
	return append([]byte(nil), blob...), nil
}

// PutRegisters inserts a register file snapshot and returns its ID.
func (t *Tx) PutRegisters(ctx context.Context, blob []byte) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO registers (blob) VALUES (?)`, blob)
	if err != nil {
		return 0, fmt.Errorf("put registers: %w", err)
	}
	return res.LastInsertId()
}

// UpdateRegisters overwrites an existing register row in place, used
// every tick a bug executes without hatching a new row.
func (t *Tx) UpdateRegisters(ctx context.Context, id int64, blob []byte) error {
	if _, err := t.tx.ExecContext(ctx, `UPDATE registers SET blob = ? WHERE id = ?`, blob, id); err != nil {
		return fmt.Errorf("update registers %d: %w", id, err)
	}
	t.store.cache.put("registers", id, append([]byte(nil), blob...))
	return nil
}

// GetRegisters reads back a register file snapshot by ID.
func (s *Store) GetRegisters(ctx context.Context, id int64) ([]byte, error) {
	if v, ok := s.cache.get("registers", id); ok {
		return append([]byte(nil), v.([]byte)...), nil
	}
	var blob []byte
	row := s.db.QueryRowContext(ctx, `SELECT blob FROM registers WHERE id = ?`, id)
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get registers %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get registers %d: %w", id, err)
	}
	s.cache.put("registers", id, blob)
	return append([]byte(nil), blob...), nil
}

// Bug is a row shared by every bug that has ever existed, alive or dead,
// egg or hatched; AliveBug/Egg/DeadBug rows reference it by ID.
type Bug struct {
	ID       int64
	CodeID   int64
	Creation int64
	FatherID *int64
}

// PutBug inserts a new bug identity row and returns its ID.
func (t *Tx) PutBug(ctx context.Context, b Bug) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO bug (code_id, creation, father_id) VALUES (?, ?, ?)`,
		b.CodeID, b.Creation, b.FatherID)
	if err != nil {
		return 0, fmt.Errorf("put bug: %w", err)
	}
	return res.LastInsertId()
}

// BugExists reports whether bugID names a row in Bug, the check §6.3
// requires before accepting a DeadBug.killer_id.
func (s *Store) BugExists(ctx context.Context, bugID int64) (bool, error) {
	var exists bool
	row := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bug WHERE id = ?)`, bugID)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("bug exists %d: %w", bugID, err)
	}
	return exists, nil
}

// Egg is a laid-but-unhatched bug: its world position, accumulated
// energy, and the memory it will hatch with.
type Egg struct {
	BugID    int64
	WorldID  int64
	Energy   int64
	MemoryID int64
}

// PutEgg inserts an egg row. The world(id) UNIQUE constraint already
// enforces "no two Egg/AliveBug rows share a world_id" for eggs; callers
// must check AliveBug separately since the invariant spans both tables.
func (t *Tx) PutEgg(ctx context.Context, e Egg) error {
	_, err := t.tx.ExecContext(ctx, `INSERT INTO egg (bug_id, world_id, energy, memory_id) VALUES (?, ?, ?, ?)`,
		e.BugID, e.WorldID, e.Energy, e.MemoryID)
	if err != nil {
		return fmt.Errorf("put egg %d: %w", e.BugID, err)
	}
	return nil
}

// UpdateEggEnergy overwrites an egg's accumulated energy, used when it
// is attacked but survives.
func (t *Tx) UpdateEggEnergy(ctx context.Context, bugID int64, energy int64) error {
	if _, err := t.tx.ExecContext(ctx, `UPDATE egg SET energy = ? WHERE bug_id = ?`, energy, bugID); err != nil {
		return fmt.Errorf("update egg energy %d: %w", bugID, err)
	}
	return nil
}

// DeleteEgg removes an egg row, used when it hatches into an AliveBug.
func (t *Tx) DeleteEgg(ctx context.Context, bugID int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM egg WHERE bug_id = ?`, bugID); err != nil {
		return fmt.Errorf("delete egg %d: %w", bugID, err)
	}
	return nil
}

// GetEgg reads an egg row by its owning bug ID.
func (s *Store) GetEgg(ctx context.Context, bugID int64) (Egg, error) {
	var e Egg
	row := s.db.QueryRowContext(ctx, `SELECT bug_id, world_id, energy, memory_id FROM egg WHERE bug_id = ?`, bugID)
	if err := row.Scan(&e.BugID, &e.WorldID, &e.Energy, &e.MemoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Egg{}, fmt.Errorf("get egg %d: %w", bugID, ErrNotFound)
		}
		return Egg{}, fmt.Errorf("get egg %d: %w", bugID, err)
	}
	return e, nil
}

// ListEggs returns every unhatched egg.
func (s *Store) ListEggs(ctx context.Context) ([]Egg, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bug_id, world_id, energy, memory_id FROM egg`)
	if err != nil {
		return nil, fmt.Errorf("list eggs: %w", err)
	}
	defer rows.Close()
	var out []Egg
	for rows.Next() {
		var e Egg
		if err := rows.Scan(&e.BugID, &e.WorldID, &e.Energy, &e.MemoryID); err != nil {
			return nil, fmt.Errorf("list eggs: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetBug reads a bug identity row by ID.
func (s *Store) GetBug(ctx context.Context, id int64) (Bug, error) {
	var b Bug
	row := s.db.QueryRowContext(ctx, `SELECT id, code_id, creation, father_id FROM bug WHERE id = ?`, id)
	if err := row.Scan(&b.ID, &b.CodeID, &b.Creation, &b.FatherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bug{}, fmt.Errorf("get bug %d: %w", id, ErrNotFound)
		}
		return Bug{}, fmt.Errorf("get bug %d: %w", id, err)
	}
	return b, nil
}

// AliveBug is a hatched, living bug's full execution state.
type AliveBug struct {
	BugID          int64
	WorldID        int64
	Birth          int64
	Energy         int64
	TimeLastAction *int64
	ActionDeadline *int64
	RegistersID    int64
	MemoryID       int64
}

// worldOccupied reports whether world_id is already claimed by an
// AliveBug or Egg row, the cross-table half of §6.3's uniqueness
// invariant the UNIQUE column constraint alone can't express.
func (t *Tx) worldOccupied(ctx context.Context, worldID int64) (bool, error) {
	var exists bool
	row := t.tx.QueryRowContext(ctx, `SELECT EXISTS(
		SELECT 1 FROM alive_bug WHERE world_id = ?
		UNION SELECT 1 FROM egg WHERE world_id = ?)`, worldID, worldID)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check world occupancy %d: %w", worldID, err)
	}
	return exists, nil
}

// PutAliveBug inserts an alive-bug row, failing with
// ErrReferentialIntegrity if world_id is already claimed by another
// AliveBug or Egg.
func (t *Tx) PutAliveBug(ctx context.Context, ctxBug AliveBug) error {
	occupied, err := t.worldOccupied(ctx, ctxBug.WorldID)
	if err != nil {
		return err
	}
	if occupied {
		return fmt.Errorf("put alive bug %d: world %d already occupied: %w", ctxBug.BugID, ctxBug.WorldID, ErrReferentialIntegrity)
	}
	_, err = t.tx.ExecContext(ctx, `INSERT INTO alive_bug
		(bug_id, world_id, birth, energy, time_last_action, action_time, registers_id, memory_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ctxBug.BugID, ctxBug.WorldID, ctxBug.Birth, ctxBug.Energy,
		ctxBug.TimeLastAction, ctxBug.ActionDeadline, ctxBug.RegistersID, ctxBug.MemoryID)
	if err != nil {
		return fmt.Errorf("put alive bug %d: %w", ctxBug.BugID, err)
	}
	return nil
}

// UpdateAliveBug overwrites the mutable fields of an existing alive-bug
// row: energy, last-action time, and the outstanding world-action
// deadline (nil once the action completes or is cancelled).
func (t *Tx) UpdateAliveBug(ctx context.Context, b AliveBug) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE alive_bug SET
		energy = ?, time_last_action = ?, action_time = ?
		WHERE bug_id = ?`,
		b.Energy, b.TimeLastAction, b.ActionDeadline, b.BugID)
	if err != nil {
		return fmt.Errorf("update alive bug %d: %w", b.BugID, err)
	}
	return nil
}

// DeleteAliveBug removes an alive-bug row, used when it dies.
func (t *Tx) DeleteAliveBug(ctx context.Context, bugID int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM alive_bug WHERE bug_id = ?`, bugID); err != nil {
		return fmt.Errorf("delete alive bug %d: %w", bugID, err)
	}
	return nil
}

// GetAliveBug reads an alive-bug row by its bug ID.
func (s *Store) GetAliveBug(ctx context.Context, bugID int64) (AliveBug, error) {
	var b AliveBug
	row := s.db.QueryRowContext(ctx, `SELECT bug_id, world_id, birth, energy, time_last_action, action_time, registers_id, memory_id
		FROM alive_bug WHERE bug_id = ?`, bugID)
	if err := row.Scan(&b.BugID, &b.WorldID, &b.Birth, &b.Energy, &b.TimeLastAction, &b.ActionDeadline, &b.RegistersID, &b.MemoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AliveBug{}, fmt.Errorf("get alive bug %d: %w", bugID, ErrNotFound)
		}
		return AliveBug{}, fmt.Errorf("get alive bug %d: %w", bugID, err)
	}
	return b, nil
}

// ListAliveBugs returns every alive bug ordered by birth, then bug_id, a
// stable iteration order the scheduler uses to visit bugs each tick.
func (s *Store) ListAliveBugs(ctx context.Context) ([]AliveBug, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bug_id, world_id, birth, energy, time_last_action, action_time, registers_id, memory_id
		FROM alive_bug ORDER BY birth, bug_id`)
	if err != nil {
		return nil, fmt.Errorf("list alive bugs: %w", err)
	}
	defer rows.Close()
	var out []AliveBug
	for rows.Next() {
		var b AliveBug
		if err := rows.Scan(&b.BugID, &b.WorldID, &b.Birth, &b.Energy, &b.TimeLastAction, &b.ActionDeadline, &b.RegistersID, &b.MemoryID); err != nil {
			return nil, fmt.Errorf("list alive bugs: scan: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeadBug is a terminated bug's record: when it died, when it was born
// (carried forward from AliveBug for convenience), and who killed it, if
// anyone.
type DeadBug struct {
	BugID    int64
	Death    int64
	Birth    *int64
	KillerID *int64
}

// PutDeadBug inserts a dead-bug row, failing with
// ErrReferentialIntegrity if KillerID names a bug that doesn't exist.
func (t *Tx) PutDeadBug(ctx context.Context, d DeadBug) error {
	if d.KillerID != nil {
		exists, err := t.store.BugExists(ctx, *d.KillerID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("put dead bug %d: killer %d does not exist: %w", d.BugID, *d.KillerID, ErrReferentialIntegrity)
		}
	}
	_, err := t.tx.ExecContext(ctx, `INSERT INTO dead_bug (bug_id, death, birth, killer_id) VALUES (?, ?, ?, ?)`,
		d.BugID, d.Death, d.Birth, d.KillerID)
	if err != nil {
		return fmt.Errorf("put dead bug %d: %w", d.BugID, err)
	}
	return nil
}

// GetDeadBug reads a dead-bug row by bug ID.
func (s *Store) GetDeadBug(ctx context.Context, bugID int64) (DeadBug, error) {
	var d DeadBug
	row := s.db.QueryRowContext(ctx, `SELECT bug_id, death, birth, killer_id FROM dead_bug WHERE bug_id = ?`, bugID)
	if err := row.Scan(&d.BugID, &d.Death, &d.Birth, &d.KillerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DeadBug{}, fmt.Errorf("get dead bug %d: %w", bugID, ErrNotFound)
		}
		return DeadBug{}, fmt.Errorf("get dead bug %d: %w", bugID, err)
	}
	return d, nil
}

// Food is a pile of food sitting on the grid, decaying toward zero over
// time (§4.M's "rot food" step).
type Food struct {
	ID      int64
	Time    int64
	WorldID int64
	Size    int
}

// PutFood inserts a food row and returns its ID.
func (t *Tx) PutFood(ctx context.Context, f Food) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO food (time, world_id, size) VALUES (?, ?, ?)`, f.Time, f.WorldID, f.Size)
	if err != nil {
		return 0, fmt.Errorf("put food: %w", err)
	}
	return res.LastInsertId()
}

// UpdateFoodSize overwrites a food pile's remaining size, or deletes the
// row outright once it rots to zero.
func (t *Tx) UpdateFoodSize(ctx context.Context, id int64, size int) error {
	if size <= 0 {
		_, err := t.tx.ExecContext(ctx, `DELETE FROM food WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete rotted food %d: %w", id, err)
		}
		return nil
	}
	if _, err := t.tx.ExecContext(ctx, `UPDATE food SET size = ? WHERE id = ?`, size, id); err != nil {
		return fmt.Errorf("update food %d: %w", id, err)
	}
	return nil
}

// ListFood returns every food pile currently on the grid.
func (s *Store) ListFood(ctx context.Context) ([]Food, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, time, world_id, size FROM food`)
	if err != nil {
		return nil, fmt.Errorf("list food: %w", err)
	}
	defer rows.Close()
	var out []Food
	for rows.Next() {
		var f Food
		if err := rows.Scan(&f.ID, &f.Time, &f.WorldID, &f.Size); err != nil {
			return nil, fmt.Errorf("list food: scan: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Mutation is one audit-trail entry produced by internal/mutation,
// persisted against the bug it was applied to.
type Mutation struct {
	ID                 int64
	BugID              int64
	Time               int64
	Type               int
	Position           int
	Original, Mutated  *int64
}

// PutMutation inserts a mutation audit record.
func (t *Tx) PutMutation(ctx context.Context, m Mutation) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO mutation (bug_id, time, type, position, original, mutated)
		VALUES (?, ?, ?, ?, ?, ?)`, m.BugID, m.Time, m.Type, m.Position, m.Original, m.Mutated)
	if err != nil {
		return 0, fmt.Errorf("put mutation: %w", err)
	}
	return res.LastInsertId()
}

// ListMutationsForBug returns every mutation ever recorded against bugID,
// in application order.
func (s *Store) ListMutationsForBug(ctx context.Context, bugID int64) ([]Mutation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, bug_id, time, type, position, original, mutated
		FROM mutation WHERE bug_id = ? ORDER BY id`, bugID)
	if err != nil {
		return nil, fmt.Errorf("list mutations for bug %d: %w", bugID, err)
	}
	defer rows.Close()
	var out []Mutation
	for rows.Next() {
		var m Mutation
		if err := rows.Scan(&m.ID, &m.BugID, &m.Time, &m.Type, &m.Position, &m.Original, &m.Mutated); err != nil {
			return nil, fmt.Errorf("list mutations for bug %d: scan: %w", bugID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Spawn is a configured bug-spawning region, read from the `create` seed
// file's `spawn` directives (internal/config).
type Spawn struct {
	ID                   int64
	CodeID               int64
	Frequency, Max       int
	Start, End           world.Position
	Energy               int64
}

// PutSpawn inserts a spawn region.
func (t *Tx) PutSpawn(ctx context.Context, sp Spawn) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO spawn (code_id, frequency, max, start_x, start_y, end_x, end_y, energy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sp.CodeID, sp.Frequency, sp.Max, sp.Start.X, sp.Start.Y, sp.End.X, sp.End.Y, sp.Energy)
	if err != nil {
		return 0, fmt.Errorf("put spawn: %w", err)
	}
	return res.LastInsertId()
}

// ListSpawns returns every configured spawn region.
func (s *Store) ListSpawns(ctx context.Context) ([]Spawn, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, code_id, frequency, max, start_x, start_y, end_x, end_y, energy FROM spawn`)
	if err != nil {
		return nil, fmt.Errorf("list spawns: %w", err)
	}
	defer rows.Close()
	var out []Spawn
	for rows.Next() {
		var sp Spawn
		if err := rows.Scan(&sp.ID, &sp.CodeID, &sp.Frequency, &sp.Max, &sp.Start.X, &sp.Start.Y, &sp.End.X, &sp.End.Y, &sp.Energy); err != nil {
			return nil, fmt.Errorf("list spawns: scan: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Resource is a configured food-spawning region, read from the `create`
// seed file's `resource` directives.
type Resource struct {
	ID             int64
	Frequency, Max int
	Start, End     world.Position
	Size           int
}

// PutResource inserts a resource region.
func (t *Tx) PutResource(ctx context.Context, r Resource) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO resource (frequency, max, start_x, start_y, end_x, end_y, size)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Frequency, r.Max, r.Start.X, r.Start.Y, r.End.X, r.End.Y, r.Size)
	if err != nil {
		return 0, fmt.Errorf("put resource: %w", err)
	}
	return res.LastInsertId()
}

// ListResources returns every configured resource region.
func (s *Store) ListResources(ctx context.Context) ([]Resource, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, frequency, max, start_x, start_y, end_x, end_y, size FROM resource`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()
	var out []Resource
	for rows.Next() {
		var r Resource
		if err := rows.Scan(&r.ID, &r.Frequency, &r.Max, &r.Start.X, &r.Start.Y, &r.End.X, &r.End.Y, &r.Size); err != nil {
			return nil, fmt.Errorf("list resources: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats is one tick's worth of population summary statistics, appended
// every tick by the scheduler (§4.M) for the `info` command to read back.
type Stats struct {
	ID                                                            int64
	Time                                                          int64
	Families, Alive, Eggs, Food                                   int
	Energy                                                        int64
	Mutations, Age                                                int64
	LastBirths, LastSons, LastDeaths, LastKills, LastMutations     int
}

// PutStats appends one tick's statistics row.
func (t *Tx) PutStats(ctx context.Context, st Stats) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO stats
		(time, families, alive, eggs, food, energy, mutations, age,
		 last_births, last_sons, last_deaths, last_kills, last_mutations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.Time, st.Families, st.Alive, st.Eggs, st.Food, st.Energy, st.Mutations, st.Age,
		st.LastBirths, st.LastSons, st.LastDeaths, st.LastKills, st.LastMutations)
	if err != nil {
		return 0, fmt.Errorf("put stats: %w", err)
	}
	return res.LastInsertId()
}

// LatestStats returns the most recently appended stats row.
func (s *Store) LatestStats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx, `SELECT id, time, families, alive, eggs, food, energy, mutations, age,
		last_births, last_sons, last_deaths, last_kills, last_mutations
		FROM stats ORDER BY time DESC LIMIT 1`)
	err := row.Scan(&st.ID, &st.Time, &st.Families, &st.Alive, &st.Eggs, &st.Food, &st.Energy, &st.Mutations, &st.Age,
		&st.LastBirths, &st.LastSons, &st.LastDeaths, &st.LastKills, &st.LastMutations)
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{}, fmt.Errorf("latest stats: %w", ErrNotFound)
	}
	if err != nil {
		return Stats{}, fmt.Errorf("latest stats: %w", err)
	}
	return st, nil
}

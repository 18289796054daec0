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

// Package store is the SQLite-backed persistence layer: one row type per
// entity (Environment, World, Code, Registers, Bug, Egg, AliveBug,
// DeadBug, Food, Mutation, Spawn, Resource, Stats), CRUD plus the lookups
// the scheduler needs, and a transaction helper with nested savepoints so
// one failed world-action can roll back without losing the rest of the
// tick's work.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row with the requested ID doesn't exist.
var ErrNotFound = errors.New("row not found")

// ErrReferentialIntegrity is returned when a write would violate one of
// §6.3's invariants (duplicate position, dangling killer_id, and so on).
var ErrReferentialIntegrity = errors.New("referential integrity violation")

const schema = `
CREATE TABLE IF NOT EXISTS environment (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	size_x INTEGER NOT NULL,
	size_y INTEGER NOT NULL,
	time_rot INTEGER NOT NULL,
	size_rot INTEGER NOT NULL,
	mutations_probability REAL NOT NULL,
	time_birth INTEGER NOT NULL,
	time_mutate INTEGER NOT NULL,
	time_laziness INTEGER NOT NULL,
	energy_laziness INTEGER NOT NULL,
	attack_multiplier REAL NOT NULL,
	time_myself INTEGER NOT NULL DEFAULT 0,
	time_detect INTEGER NOT NULL DEFAULT 0,
	time_info INTEGER NOT NULL DEFAULT 0,
	time_move INTEGER NOT NULL DEFAULT 0,
	time_turn INTEGER NOT NULL DEFAULT 0,
	time_attack INTEGER NOT NULL DEFAULT 0,
	time_eat INTEGER NOT NULL DEFAULT 0,
	time_egg INTEGER NOT NULL DEFAULT 0,
	time_nothing INTEGER NOT NULL DEFAULT 0,
	energy_myself INTEGER NOT NULL DEFAULT 0,
	energy_detect INTEGER NOT NULL DEFAULT 0,
	energy_info INTEGER NOT NULL DEFAULT 0,
	energy_move INTEGER NOT NULL DEFAULT 0,
	energy_turn INTEGER NOT NULL DEFAULT 0,
	energy_attack INTEGER NOT NULL DEFAULT 0,
	energy_eat INTEGER NOT NULL DEFAULT 0,
	energy_egg INTEGER NOT NULL DEFAULT 0,
	energy_nothing INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS world (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	position_x INTEGER NOT NULL,
	position_y INTEGER NOT NULL,
	orientation INTEGER
);

CREATE TABLE IF NOT EXISTS code (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	blob BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS registers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	blob BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS bug (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code_id INTEGER NOT NULL REFERENCES code(id),
	creation INTEGER NOT NULL,
	father_id INTEGER REFERENCES bug(id)
);

CREATE TABLE IF NOT EXISTS egg (
	bug_id INTEGER PRIMARY KEY REFERENCES bug(id),
	world_id INTEGER NOT NULL UNIQUE REFERENCES world(id),
	energy INTEGER NOT NULL,
	memory_id INTEGER NOT NULL REFERENCES code(id)
);

CREATE TABLE IF NOT EXISTS alive_bug (
	bug_id INTEGER PRIMARY KEY REFERENCES bug(id),
	world_id INTEGER NOT NULL UNIQUE REFERENCES world(id),
	birth INTEGER NOT NULL,
	energy INTEGER NOT NULL,
	time_last_action INTEGER,
	action_time INTEGER,
	registers_id INTEGER NOT NULL REFERENCES registers(id),
	memory_id INTEGER NOT NULL REFERENCES code(id)
);

CREATE TABLE IF NOT EXISTS dead_bug (
	bug_id INTEGER PRIMARY KEY REFERENCES bug(id),
	death INTEGER NOT NULL,
	birth INTEGER,
	killer_id INTEGER REFERENCES bug(id)
);

CREATE TABLE IF NOT EXISTS food (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	world_id INTEGER NOT NULL REFERENCES world(id),
	size INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS mutation (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bug_id INTEGER NOT NULL REFERENCES bug(id),
	time INTEGER NOT NULL,
	type INTEGER NOT NULL,
	position INTEGER NOT NULL,
	original INTEGER,
	mutated INTEGER
);

CREATE TABLE IF NOT EXISTS spawn (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code_id INTEGER NOT NULL REFERENCES code(id),
	frequency INTEGER NOT NULL,
	max INTEGER NOT NULL,
	start_x INTEGER NOT NULL,
	start_y INTEGER NOT NULL,
	end_x INTEGER NOT NULL,
	end_y INTEGER NOT NULL,
	energy INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS resource (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	frequency INTEGER NOT NULL,
	max INTEGER NOT NULL,
	start_x INTEGER NOT NULL,
	start_y INTEGER NOT NULL,
	end_x INTEGER NOT NULL,
	end_y INTEGER NOT NULL,
	size INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS stats (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	families INTEGER NOT NULL,
	alive INTEGER NOT NULL,
	eggs INTEGER NOT NULL,
	food INTEGER NOT NULL,
	energy INTEGER NOT NULL,
	mutations INTEGER NOT NULL,
	age INTEGER NOT NULL,
	last_births INTEGER NOT NULL,
	last_sons INTEGER NOT NULL,
	last_deaths INTEGER NOT NULL,
	last_kills INTEGER NOT NULL,
	last_mutations INTEGER NOT NULL
);
`

// Store is a handle on the SQLite-backed persistence layer. Reads go
// through a small row cache so that two fetches of the same ID inside a
// tick see the same values; the cache is cleared whenever a transaction
// commits or rolls back, since that is the only point values can change
// underneath it. Go 1.22 has no GC-observed weak pointer type, so the
// "weak" row cache §4.K calls for is approximated with a plain map
// invalidated at transaction boundaries rather than by the collector.
type Store struct {
	db    *sql.DB
	cache rowCache
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, cache: newRowCache()}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx is one transaction, with nested savepoints available for
// action-level rollback (§4.K).
type Tx struct {
	tx    *sql.Tx
	store *Store
	depth int
}

// Begin starts a transaction. All of a tick's writes (§4.M) belong in one
// Tx so a mid-tick failure can't leave a half-written tick on disk.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx, store: s}, nil
}

// Commit finalizes the transaction and clears the row cache.
func (t *Tx) Commit() error {
	defer t.store.cache.clear()
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction and clears the row cache.
func (t *Tx) Rollback() error {
	defer t.store.cache.clear()
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// Savepoint begins a nested savepoint, letting one world-action's writes
// be undone without discarding the rest of the tick.
func (t *Tx) Savepoint(ctx context.Context) (*Savepoint, error) {
	t.depth++
	name := fmt.Sprintf("sp_%d", t.depth)
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		t.depth--
		return nil, fmt.Errorf("savepoint %s: %w", name, err)
	}
	return &Savepoint{tx: t, name: name}, nil
}

// Savepoint is a named nested transaction point.
type Savepoint struct {
	tx   *Tx
	name string
}

// Release commits the savepoint's changes into the enclosing transaction.
func (sp *Savepoint) Release(ctx context.Context) error {
	_, err := sp.tx.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp.name)
	if err != nil {
		return fmt.Errorf("release savepoint %s: %w", sp.name, err)
	}
	return nil
}

// Rollback undoes everything since the savepoint was taken, leaving the
// enclosing transaction otherwise intact.
func (sp *Savepoint) Rollback(ctx context.Context) error {
	_, err := sp.tx.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp.name)
	if err != nil {
		return fmt.Errorf("rollback to savepoint %s: %w", sp.name, err)
	}
	return nil
}

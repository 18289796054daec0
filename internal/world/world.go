/*
   Simple World  - toroidal world grid

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

// Package world is the fixed-size toroidal grid bugs, eggs, and food live
// on. Size is fixed at construction; every position wraps modulo the grid
// dimensions, so movement never falls off an edge.
package world

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrPositionUsed is returned by Add/Move when the target cell is occupied.
	ErrPositionUsed = errors.New("position is already used")
	// ErrOutOfRange is returned when a position falls outside the grid.
	ErrOutOfRange = errors.New("position is outside of the world")
	// ErrNotUsed is returned by Remove/Get/Move when the source cell is empty.
	ErrNotUsed = errors.New("position is not used")
	// ErrNotMovable is returned by Move when the occupant cannot move (food).
	ErrNotMovable = errors.New("element is not movable")
	// ErrWorldFull is returned by UnusedPosition when no cell is free.
	ErrWorldFull = errors.New("world has no free position")
)

// Kind distinguishes what occupies a cell.
type Kind int

const (
	KindBug Kind = iota
	KindEgg
	KindFood
)

// Movable reports whether a Kind can be the target of Move; food cannot.
func (k Kind) Movable() bool {
	return k != KindFood
}

// Orientation is one of the four cardinal directions a bug faces.
type Orientation int

const (
	North Orientation = iota
	East
	South
	West
)

// Turn is a relative rotation applied to an Orientation.
type Turn int

const (
	TurnLeft Turn = iota
	TurnRight
)

// Movement is a step taken relative to the current Orientation.
type Movement int

const (
	MoveForward Movement = iota
	MoveBackward
)

// Turned returns orientation rotated by side.
func Turned(orientation Orientation, side Turn) Orientation {
	if side == TurnLeft {
		return Orientation((int(orientation) + 3) % 4)
	}
	return Orientation((int(orientation) + 5) % 4)
}

func opposite(m Movement) Movement {
	if m == MoveForward {
		return MoveBackward
	}
	return MoveForward
}

// Position is a single grid cell's coordinates.
type Position struct {
	X, Y int
}

// Moved returns position stepped one cell in movement relative to
// orientation, wrapping both axes modulo max.
func Moved(position Position, orientation Orientation, movement Movement, max Position) Position {
	switch orientation {
	case South:
		movement = opposite(movement)
		fallthrough
	case North:
		if movement == MoveForward {
			position.X = (position.X - 1 + max.X) % max.X
		} else {
			position.X = (position.X + 1 + max.X) % max.X
		}
	case West:
		movement = opposite(movement)
		fallthrough
	case East:
		if movement == MoveForward {
			position.Y = (position.Y + 1 + max.Y) % max.Y
		} else {
			position.Y = (position.Y - 1 + max.Y) % max.Y
		}
	}
	return position
}

// Occupant is what Grid stores in an occupied cell.
type Occupant struct {
	Kind Kind
	// ID is the owning bug/egg/food row's primary key in internal/store.
	ID int64
}

// Grid is a fixed-size toroidal grid of optionally-occupied cells.
type Grid struct {
	size    Position
	cells   map[Position]Occupant
	numUsed int
}

// New returns an empty width x height grid.
func New(width, height int) *Grid {
	return &Grid{
		size:  Position{X: width, Y: height},
		cells: make(map[Position]Occupant),
	}
}

// Size returns the grid's fixed dimensions.
func (g *Grid) Size() Position {
	return g.size
}

func (g *Grid) inRange(p Position) bool {
	return p.X >= 0 && p.X < g.size.X && p.Y >= 0 && p.Y < g.size.Y
}

func (g *Grid) checkRange(p Position) error {
	if !g.inRange(p) {
		return fmt.Errorf("position (%d, %d) outside world (%d, %d): %w", p.X, p.Y, g.size.X, g.size.Y, ErrOutOfRange)
	}
	return nil
}

// Add places occupant at position.
func (g *Grid) Add(position Position, occupant Occupant) error {
	if err := g.checkRange(position); err != nil {
		return err
	}
	if _, used := g.cells[position]; used {
		return fmt.Errorf("add (%d, %d): %w", position.X, position.Y, ErrPositionUsed)
	}
	g.cells[position] = occupant
	g.numUsed++
	return nil
}

// Remove clears position.
func (g *Grid) Remove(position Position) error {
	if err := g.checkRange(position); err != nil {
		return err
	}
	if _, used := g.cells[position]; !used {
		return fmt.Errorf("remove (%d, %d): %w", position.X, position.Y, ErrNotUsed)
	}
	delete(g.cells, position)
	g.numUsed--
	return nil
}

// Get returns position's occupant.
func (g *Grid) Get(position Position) (Occupant, error) {
	if err := g.checkRange(position); err != nil {
		return Occupant{}, err
	}
	occ, used := g.cells[position]
	if !used {
		return Occupant{}, fmt.Errorf("get (%d, %d): %w", position.X, position.Y, ErrNotUsed)
	}
	return occ, nil
}

// Used reports whether position is occupied.
func (g *Grid) Used(position Position) (bool, error) {
	if err := g.checkRange(position); err != nil {
		return false, err
	}
	_, used := g.cells[position]
	return used, nil
}

// Move relocates the occupant at from to to, failing if from is empty,
// to is occupied, or the occupant's Kind is not movable.
func (g *Grid) Move(from, to Position) error {
	if err := g.checkRange(from); err != nil {
		return err
	}
	if err := g.checkRange(to); err != nil {
		return err
	}
	occ, used := g.cells[from]
	if !used {
		return fmt.Errorf("move from (%d, %d): %w", from.X, from.Y, ErrNotUsed)
	}
	if _, used := g.cells[to]; used {
		return fmt.Errorf("move to (%d, %d): %w", to.X, to.Y, ErrPositionUsed)
	}
	if !occ.Kind.Movable() {
		return fmt.Errorf("move (%d, %d): %w", from.X, from.Y, ErrNotMovable)
	}
	delete(g.cells, from)
	g.cells[to] = occ
	return nil
}

// UnusedPosition returns a uniformly sampled free position in the grid,
// or ErrWorldFull if every cell is occupied.
func (g *Grid) UnusedPosition(rng *rand.Rand) (Position, error) {
	total := g.size.X * g.size.Y
	if g.numUsed >= total {
		return Position{}, ErrWorldFull
	}
	for {
		p := Position{X: rng.Intn(g.size.X), Y: rng.Intn(g.size.Y)}
		if _, used := g.cells[p]; !used {
			return p, nil
		}
	}
}

// RandomOrientation returns one of the four cardinal orientations,
// uniformly sampled.
func RandomOrientation(rng *rand.Rand) Orientation {
	return Orientation(rng.Intn(4))
}

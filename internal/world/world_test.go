package world

/*
 * Simple World - tests for the toroidal world grid
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"errors"
	"math/rand"
	"testing"
)

func TestAddGetRemove(t *testing.T) {
	g := New(4, 4)
	pos := Position{X: 1, Y: 2}
	if err := g.Add(pos, Occupant{Kind: KindBug, ID: 1}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	occ, err := g.Get(pos)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if occ.ID != 1 {
		t.Errorf("Get().ID = %d, want 1", occ.ID)
	}
	if err := g.Remove(pos); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if used, _ := g.Used(pos); used {
		t.Error("Used() after remove = true, want false")
	}
}

func TestAddPositionUsed(t *testing.T) {
	g := New(2, 2)
	pos := Position{X: 0, Y: 0}
	_ = g.Add(pos, Occupant{Kind: KindFood})
	if err := g.Add(pos, Occupant{Kind: KindBug}); !errors.Is(err, ErrPositionUsed) {
		t.Errorf("Add on used cell = %v, want ErrPositionUsed", err)
	}
}

func TestOutOfRange(t *testing.T) {
	g := New(2, 2)
	if err := g.Add(Position{X: 5, Y: 0}, Occupant{}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Add out of range = %v, want ErrOutOfRange", err)
	}
}

func TestMoveRejectsFood(t *testing.T) {
	g := New(2, 2)
	from := Position{X: 0, Y: 0}
	to := Position{X: 1, Y: 0}
	_ = g.Add(from, Occupant{Kind: KindFood})
	if err := g.Move(from, to); !errors.Is(err, ErrNotMovable) {
		t.Errorf("Move of food = %v, want ErrNotMovable", err)
	}
}

func TestMoveBug(t *testing.T) {
	g := New(2, 2)
	from := Position{X: 0, Y: 0}
	to := Position{X: 1, Y: 0}
	_ = g.Add(from, Occupant{Kind: KindBug, ID: 7})
	if err := g.Move(from, to); err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	if used, _ := g.Used(from); used {
		t.Error("source still used after move")
	}
	occ, err := g.Get(to)
	if err != nil || occ.ID != 7 {
		t.Errorf("Get(to) = %+v, %v, want ID 7", occ, err)
	}
}

func TestWorldFull(t *testing.T) {
	g := New(1, 1)
	_ = g.Add(Position{X: 0, Y: 0}, Occupant{Kind: KindBug})
	rng := rand.New(rand.NewSource(1))
	if _, err := g.UnusedPosition(rng); !errors.Is(err, ErrWorldFull) {
		t.Errorf("UnusedPosition on full grid = %v, want ErrWorldFull", err)
	}
}

// Wraparound movement: a bug facing North that moves forward 16 times on
// a 4x4 toroidal grid returns to its origin (spec scenario 5).
func TestMovementWrapsAroundGrid(t *testing.T) {
	max := Position{X: 4, Y: 4}
	pos := Position{X: 0, Y: 0}
	for i := 0; i < 16; i++ {
		pos = Moved(pos, North, MoveForward, max)
	}
	if pos != (Position{X: 0, Y: 0}) {
		t.Errorf("position after 16 forward steps = %+v, want origin", pos)
	}
}

func TestTurnLeftRight(t *testing.T) {
	if got := Turned(North, TurnRight); got != East {
		t.Errorf("Turned(North, Right) = %v, want East", got)
	}
	if got := Turned(North, TurnLeft); got != West {
		t.Errorf("Turned(North, Left) = %v, want West", got)
	}
	if got := Turned(West, TurnRight); got != North {
		t.Errorf("Turned(West, Right) = %v, want North", got)
	}
}

func TestMoveSouthIsOppositeOfNorth(t *testing.T) {
	max := Position{X: 4, Y: 4}
	pos := Position{X: 2, Y: 2}
	north := Moved(pos, North, MoveForward, max)
	south := Moved(pos, South, MoveBackward, max)
	if north != south {
		t.Errorf("North forward = %+v, South backward = %+v, want equal", north, south)
	}
}

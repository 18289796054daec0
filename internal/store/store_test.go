package store

/*
 * Simple World - tests for the persistence layer
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rcornwell/simpleworld/internal/world"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnvironmentRoundTrip(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	env := &Environment{Time: 1, SizeX: 32, SizeY: 32, MutationsProbability: 0.1}
	if err := tx.PutEnvironment(ctx, env); err != nil {
		t.Fatalf("PutEnvironment: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := s.GetEnvironment(ctx)
	if err != nil {
		t.Fatalf("GetEnvironment: %v", err)
	}
	if got.Time != 1 || got.SizeX != 32 {
		t.Errorf("GetEnvironment = %+v, want Time=1 SizeX=32", got)
	}
}

func TestCodeLengthMustMatchDeclaredSize(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.PutCode(ctx, []byte{1, 2, 3}, 4); !errors.Is(err, ErrReferentialIntegrity) {
		t.Errorf("PutCode with short blob = %v, want ErrReferentialIntegrity", err)
	}
	if _, err := tx.PutCode(ctx, []byte{1, 2, 3}, 3); !errors.Is(err, ErrReferentialIntegrity) {
		t.Errorf("PutCode with non-multiple-of-4 size = %v, want ErrReferentialIntegrity", err)
	}
}

func TestCodeRoundTrip(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	blob := []byte{0, 0, 0, 0, 1, 1, 1, 1}
	id, err := tx.PutCode(ctx, blob, len(blob))
	if err != nil {
		t.Fatalf("PutCode: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := s.GetCode(ctx, id)
	if err != nil {
		t.Fatalf("GetCode: %v", err)
	}
	if string(got) != string(blob) {
		t.Errorf("GetCode = %x, want %x", got, blob)
	}
}

// Two alive bugs cannot share a world position (§6.3 invariant).
func TestAliveBugWorldUniqueness(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback()

	codeID, err := tx.PutCode(ctx, []byte{0, 0, 0, 0}, 4)
	if err != nil {
		t.Fatalf("PutCode: %v", err)
	}
	regID, err := tx.PutRegisters(ctx, make([]byte, 64))
	if err != nil {
		t.Fatalf("PutRegisters: %v", err)
	}
	worldID, err := tx.PutWorld(ctx, World{Position: world.Position{X: 1, Y: 1}})
	if err != nil {
		t.Fatalf("PutWorld: %v", err)
	}

	bug1ID, err := tx.PutBug(ctx, Bug{CodeID: codeID, Creation: 0})
	if err != nil {
		t.Fatalf("PutBug: %v", err)
	}
	if err := tx.PutAliveBug(ctx, AliveBug{BugID: bug1ID, WorldID: worldID, RegistersID: regID, MemoryID: codeID}); err != nil {
		t.Fatalf("first PutAliveBug: %v", err)
	}

	bug2ID, err := tx.PutBug(ctx, Bug{CodeID: codeID, Creation: 0})
	if err != nil {
		t.Fatalf("PutBug: %v", err)
	}
	err = tx.PutAliveBug(ctx, AliveBug{BugID: bug2ID, WorldID: worldID, RegistersID: regID, MemoryID: codeID})
	if !errors.Is(err, ErrReferentialIntegrity) {
		t.Errorf("second PutAliveBug on same world = %v, want ErrReferentialIntegrity", err)
	}
}

// A DeadBug row's killer_id must name an existing bug (§6.3 invariant).
func TestDeadBugKillerMustExist(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback()

	codeID, err := tx.PutCode(ctx, []byte{0, 0, 0, 0}, 4)
	if err != nil {
		t.Fatalf("PutCode: %v", err)
	}
	bugID, err := tx.PutBug(ctx, Bug{CodeID: codeID, Creation: 0})
	if err != nil {
		t.Fatalf("PutBug: %v", err)
	}

	missing := int64(9999)
	err = tx.PutDeadBug(ctx, DeadBug{BugID: bugID, Death: 1, KillerID: &missing})
	if !errors.Is(err, ErrReferentialIntegrity) {
		t.Errorf("PutDeadBug with missing killer = %v, want ErrReferentialIntegrity", err)
	}

	killerID, err := tx.PutBug(ctx, Bug{CodeID: codeID, Creation: 0})
	if err != nil {
		t.Fatalf("PutBug (killer): %v", err)
	}
	if err := tx.PutDeadBug(ctx, DeadBug{BugID: bugID, Death: 1, KillerID: &killerID}); err != nil {
		t.Errorf("PutDeadBug with real killer: %v", err)
	}
}

func TestSavepointRollbackKeepsEnclosingWrites(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	env := &Environment{Time: 5, SizeX: 8, SizeY: 8}
	if err := tx.PutEnvironment(ctx, env); err != nil {
		t.Fatalf("PutEnvironment: %v", err)
	}

	sp, err := tx.Savepoint(ctx)
	if err != nil {
		t.Fatalf("Savepoint: %v", err)
	}
	if _, err := tx.PutCode(ctx, []byte{0, 0, 0, 0}, 4); err != nil {
		t.Fatalf("PutCode: %v", err)
	}
	if err := sp.Rollback(ctx); err != nil {
		t.Fatalf("Savepoint Rollback: %v", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := s.GetEnvironment(ctx)
	if err != nil {
		t.Fatalf("GetEnvironment: %v", err)
	}
	if got.Time != 5 {
		t.Errorf("GetEnvironment.Time = %d, want 5 (enclosing write should survive savepoint rollback)", got.Time)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM code`).Scan(&count); err != nil {
		t.Fatalf("count code rows: %v", err)
	}
	if count != 0 {
		t.Errorf("code row count = %d, want 0 (rolled-back savepoint should not persist)", count)
	}
}

func TestStatsAppendAndLatest(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := tx.PutStats(ctx, Stats{Time: 1, Alive: 3}); err != nil {
		t.Fatalf("PutStats: %v", err)
	}
	if _, err := tx.PutStats(ctx, Stats{Time: 2, Alive: 5}); err != nil {
		t.Fatalf("PutStats: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	latest, err := s.LatestStats(ctx)
	if err != nil {
		t.Fatalf("LatestStats: %v", err)
	}
	if latest.Time != 2 || latest.Alive != 5 {
		t.Errorf("LatestStats = %+v, want Time=2 Alive=5", latest)
	}
}

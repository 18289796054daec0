package config

/*
 * Simple World - tests for the seed file parser
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"strings"
	"testing"

	"github.com/rcornwell/simpleworld/internal/store"
)

func TestParseEnvironmentDirectives(t *testing.T) {
	src := `
# a seed file
environment size_x 16
environment size_y 16
environment time_rot 64
environment mutations_probability 0.1
environment attack_multiplier 2.5
`
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Environment.SizeX != 16 || cfg.Environment.SizeY != 16 {
		t.Errorf("size = (%d,%d), want (16,16)", cfg.Environment.SizeX, cfg.Environment.SizeY)
	}
	if cfg.Environment.TimeRot != 64 {
		t.Errorf("TimeRot = %d, want 64", cfg.Environment.TimeRot)
	}
	if cfg.Environment.MutationsProbability != 0.1 {
		t.Errorf("MutationsProbability = %v, want 0.1", cfg.Environment.MutationsProbability)
	}
	if cfg.Environment.AttackMultiplier != 2.5 {
		t.Errorf("AttackMultiplier = %v, want 2.5", cfg.Environment.AttackMultiplier)
	}
}

func TestParseSpawnAndResource(t *testing.T) {
	src := `
spawn bug.obj 10 5 0 0 15 15 100
resource 20 8 1 1 14 14 50
`
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Spawns) != 1 {
		t.Fatalf("Spawns = %d entries, want 1", len(cfg.Spawns))
	}
	sp := cfg.Spawns[0]
	if sp.CodeFile != "bug.obj" || sp.Frequency != 10 || sp.Max != 5 || sp.Energy != 100 {
		t.Errorf("spawn = %+v, unexpected", sp)
	}
	if sp.Start.X != 0 || sp.Start.Y != 0 || sp.End.X != 15 || sp.End.Y != 15 {
		t.Errorf("spawn region = %+v..%+v, unexpected", sp.Start, sp.End)
	}

	if len(cfg.Resources) != 1 {
		t.Fatalf("Resources = %d entries, want 1", len(cfg.Resources))
	}
	r := cfg.Resources[0]
	if r.Frequency != 20 || r.Max != 8 || r.Size != 50 {
		t.Errorf("resource = %+v, unexpected", r)
	}
}

func TestParseRejectsUnknownDirective(t *testing.T) {
	_, err := Parse(strings.NewReader("bogus 1 2 3\n"))
	if err == nil {
		t.Fatal("Parse() err = nil, want error for unknown directive")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("err type = %T, want *ParseError", err)
	}
	if perr.Line != 1 {
		t.Errorf("ParseError.Line = %d, want 1", perr.Line)
	}
}

func TestParseRejectsUnknownEnvironmentKey(t *testing.T) {
	_, err := Parse(strings.NewReader("environment bogus_key 5\n"))
	if err == nil {
		t.Fatal("Parse() err = nil, want error for unknown environment key")
	}
}

func TestSetFieldAndFieldNames(t *testing.T) {
	var env store.Environment
	if err := SetField(&env, "time_mutate", "7"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if env.TimeMutate != 7 {
		t.Errorf("TimeMutate = %d, want 7", env.TimeMutate)
	}
	if err := SetField(&env, "bogus", "1"); err == nil {
		t.Fatal("SetField() err = nil, want error for unknown key")
	}

	names := FieldNames()
	found := false
	for _, n := range names {
		if n == "time_mutate" {
			found = true
		}
	}
	if !found {
		t.Errorf("FieldNames() = %v, missing time_mutate", names)
	}
}

func TestParseIgnoresCommentsAndBlankLines(t *testing.T) {
	cfg, err := Parse(strings.NewReader("\n# just a comment\n   \nenvironment size_x 4 # trailing comment\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Environment.SizeX != 4 {
		t.Errorf("SizeX = %d, want 4", cfg.Environment.SizeX)
	}
}

package main

/*
 * Simple World - tests for the command-line front end
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatchCommandExactAndPrefix(t *testing.T) {
	if got := matchCommand("run"); len(got) != 1 || got[0].name != "run" {
		t.Fatalf("matchCommand(run) = %+v, want single run match", got)
	}
	if got := matchCommand("cr"); len(got) != 1 || got[0].name != "create" {
		t.Fatalf("matchCommand(cr) = %+v, want single create match", got)
	}
	// "e" is ambiguous between "env" and "egg".
	if got := matchCommand("e"); len(got) != 2 {
		t.Fatalf("matchCommand(e) = %+v, want 2 ambiguous matches", got)
	}
	if got := matchCommand("bogus"); len(got) != 0 {
		t.Fatalf("matchCommand(bogus) = %+v, want no matches", got)
	}
}

func TestSplitFlags(t *testing.T) {
	var config string
	rest, err := splitFlags([]string{"--config", "seed.txt", "db.sqlite"}, map[string]*string{"config": &config, "c": &config})
	if err != nil {
		t.Fatalf("splitFlags: %v", err)
	}
	if config != "seed.txt" {
		t.Errorf("config = %q, want seed.txt", config)
	}
	if len(rest) != 1 || rest[0] != "db.sqlite" {
		t.Errorf("rest = %v, want [db.sqlite]", rest)
	}
}

func TestSplitFlagsMissingValue(t *testing.T) {
	var config string
	_, err := splitFlags([]string{"--config"}, map[string]*string{"config": &config})
	if err == nil {
		t.Fatal("splitFlags() err = nil, want error for missing value")
	}
}

func TestCmdCreateAndEnv(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "world.sqlite")

	if err := cmdCreate([]string{dbPath}); err != nil {
		t.Fatalf("cmdCreate: %v", err)
	}
	if err := cmdEnv([]string{dbPath, "time_rot", "99"}); err != nil {
		t.Fatalf("cmdEnv set: %v", err)
	}
	if err := cmdEnv([]string{dbPath}); err != nil {
		t.Fatalf("cmdEnv get: %v", err)
	}
}

func TestCmdCreateFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "world.sqlite")
	cfgPath := filepath.Join(dir, "seed.cfg")
	codePath := filepath.Join(dir, "bug.obj")

	if err := os.WriteFile(codePath, make([]byte, 8), 0o644); err != nil {
		t.Fatalf("write code file: %v", err)
	}
	cfg := "environment size_x 10\nenvironment size_y 10\nspawn " + codePath + " 5 2 0 0 9 9 50\nresource 5 2 0 0 9 9 10\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if err := cmdCreate([]string{"--config", cfgPath, dbPath}); err != nil {
		t.Fatalf("cmdCreate: %v", err)
	}
}

func TestCmdFoodAndEgg(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "world.sqlite")
	codePath := filepath.Join(dir, "bug.obj")

	if err := os.WriteFile(codePath, make([]byte, 4), 0o644); err != nil {
		t.Fatalf("write code file: %v", err)
	}
	if err := cmdCreate([]string{dbPath}); err != nil {
		t.Fatalf("cmdCreate: %v", err)
	}
	if err := cmdFood([]string{dbPath, "1", "1", "20"}); err != nil {
		t.Fatalf("cmdFood: %v", err)
	}
	if err := cmdEgg([]string{dbPath, codePath, "2", "2", "30"}); err != nil {
		t.Fatalf("cmdEgg: %v", err)
	}
}

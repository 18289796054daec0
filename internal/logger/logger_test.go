package logger

/*
 * Simple World - tests for the slog wrapper
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerWritesToFile(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, false)
	log.Info("tick complete", "time", 42)

	out := buf.String()
	if !strings.Contains(out, "tick complete") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.Contains(out, "INFO:") {
		t.Errorf("output %q missing level", out)
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn, false)
	log.Info("should be dropped")
	log.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Errorf("output %q should not contain info-level record", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("output %q missing warn-level record", out)
	}
}

package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewBuildsForEveryLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error", "unknown"} {
		for _, pretty := range []bool{true, false} {
			if _, err := New(lvl, pretty); err != nil {
				t.Errorf("New(%q, %v) error = %v", lvl, pretty, err)
			}
		}
	}
}

func TestValidLevel(t *testing.T) {
	tests := map[string]bool{
		"debug":   true,
		"INFO":    true,
		"warn":    true,
		"error":   true,
		"fatal":   false,
		"verbose": false,
		"":        false,
	}
	for lvl, want := range tests {
		if got := ValidLevel(lvl); got != want {
			t.Errorf("ValidLevel(%q) = %v, want %v", lvl, got, want)
		}
	}
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core)).With(String("component", "store"))

	log.Debug("hidden")
	log.Info("added", Int64("id", 7), Bool("read", true))
	log.Warn("failed", Error(errors.New("boom")))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["component"] != "store" {
		t.Errorf("component = %v, want store", ctx["component"])
	}
	if ctx["id"] != int64(7) {
		t.Errorf("id = %v, want 7", ctx["id"])
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entries[1].Level)
	}
}

func TestNopDiscards(t *testing.T) {
	log := NewNop()
	log.Infof("nothing %d", 1)
	log.With(String("k", "v")).Error("still nothing")
	_ = log.Sync()
}

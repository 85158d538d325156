package log

import (
	"errors"
	"testing"
	"time"
)

func TestFieldHelpers(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
	}{
		{"string", String("k", "v"), "k"},
		{"int", Int("n", 42), "n"},
		{"uint32", Uint32("id", 0x1F4), "id"},
		{"float64", Float64("x", 1.5), "x"},
		{"bool", Bool("ok", true), "ok"},
		{"duration", Duration("d", time.Second), "d"},
		{"error", Err(errors.New("boom")), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
		})
	}
}

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NewNoopLogger()
	logger.Debug("debug", String("k", "v"))
	logger.Info("info")
	logger.Warn("warn", Int("n", 1))
	logger.Error("error", Err(errors.New("boom")))
}

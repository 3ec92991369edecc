package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		debug        bool
		debugEnabled bool
	}{
		{debug: false, debugEnabled: false},
		{debug: true, debugEnabled: true},
	}

	for _, tt := range tests {
		log, err := New(tt.debug)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := log.Desugar().Core().Enabled(zapcore.DebugLevel); got != tt.debugEnabled {
			t.Errorf("debug=%v: expected debug level enabled=%v, got %v", tt.debug, tt.debugEnabled, got)
		}
	}
}

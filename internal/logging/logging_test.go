package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		env       string
		wantDebug bool
	}{
		{"production info", false, "production", false},
		{"production debug", true, "production", true},
		{"development debug", true, "development", true},
		{"development info", false, "development", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.debug, tt.env)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if got := log.Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !log.Core().Enabled(zap.InfoLevel) {
				t.Error("info level must always be enabled")
			}
		})
	}
}

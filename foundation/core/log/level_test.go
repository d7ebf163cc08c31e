// File: level_test.go
// Title: Log Level Tests
// Description: Tests for level names, filtering and parsing.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-18

package log

import (
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
		short string
	}{
		{LevelTrace, "trace", "TRC"},
		{LevelDebug, "debug", "DBG"},
		{LevelInfo, "info", "INF"},
		{LevelWarn, "warn", "WRN"},
		{LevelError, "error", "ERR"},
		{LevelFatal, "fatal", "FTL"},
		{Level(99), "unknown", "???"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
			if got := tt.level.ShortString(); got != tt.short {
				t.Errorf("ShortString() = %v, want %v", got, tt.short)
			}
		})
	}
}

func TestLevelShouldLog(t *testing.T) {
	if !LevelError.ShouldLog(LevelWarn) {
		t.Error("error should be logged at warn minimum")
	}
	if LevelDebug.ShouldLog(LevelInfo) {
		t.Error("debug should not be logged at info minimum")
	}
	if !LevelInfo.ShouldLog(LevelInfo) {
		t.Error("level should be logged at its own minimum")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{" WARN ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"err", LevelError, false},
		{"trc", LevelTrace, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

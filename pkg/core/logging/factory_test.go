package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	mdwlog "github.com/msto63/ccp/foundation/core/log"
)

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("test")
	if cfg.Name != "test" {
		t.Errorf("Name = %v, want test", cfg.Name)
	}
	if cfg.Level != "warn" {
		t.Errorf("Level = %v, want warn", cfg.Level)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected mdwlog.Level
	}{
		{"trace", mdwlog.LevelTrace},
		{"debug", mdwlog.LevelDebug},
		{"info", mdwlog.LevelInfo},
		{"warn", mdwlog.LevelWarn},
		{"warning", mdwlog.LevelWarn},
		{"error", mdwlog.LevelError},
		{"bogus", mdwlog.LevelInfo},
		{"", mdwlog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(LoggerConfig{Level: tt.level, Output: &bytes.Buffer{}})
			if logger.GetLevel() != tt.expected {
				t.Errorf("GetLevel() = %v, want %v", logger.GetLevel(), tt.expected)
			}
		})
	}
}

func TestNewLogger_JSONByDefaultOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Name: "frontend", Level: "info", Output: &buf})

	logger.Info("checked", mdwlog.Fields{"tokens": 7})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "checked" {
		t.Errorf("message = %v, want checked", entry["message"])
	}
	if logger.Name() != "frontend" {
		t.Errorf("Name() = %v, want frontend", logger.Name())
	}
}

func TestNewLogger_ExplicitFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "info", Format: "logfmt", Output: &buf})

	logger.Info("checked", mdwlog.Fields{"tokens": 7})

	if !strings.Contains(buf.String(), "tokens=7") {
		t.Errorf("logfmt output = %q, want tokens=7", buf.String())
	}
}

func TestNewLogger_AdditionalOutputs(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:             "info",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Warn("twice")

	if !strings.Contains(primary.String(), "twice") || !strings.Contains(extra.String(), "twice") {
		t.Errorf("entry missing from an output: primary=%q extra=%q", primary.String(), extra.String())
	}
}

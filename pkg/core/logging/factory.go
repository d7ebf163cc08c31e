// ============================================================================
// ccp - expression language front end
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured foundation loggers
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	mdwlog "github.com/msto63/ccp/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: console on a
	// terminal, json otherwise)
	Format string

	// Output writer (default: stderr)
	Output io.Writer

	// Additional outputs
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:  name,
		Level: "warn",
	}
}

// NewLogger creates a foundation logger from cfg. Unknown levels fall back
// to info, unknown formats to JSON.
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	level, _ := mdwlog.ParseLevel(cfg.Level)

	format := mdwlog.FormatJSON
	if cfg.Format == "" {
		if isTerminal(output) {
			format = mdwlog.FormatConsole
		}
	} else if f, err := mdwlog.ParseFormat(cfg.Format); err == nil {
		format = f
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.Name,
	})
}

// NewSimpleLogger creates a logger for a component with standard configuration
func NewSimpleLogger(name string) *mdwlog.Logger {
	return NewLogger(DefaultLoggerConfig(name))
}

// isTerminal reports whether w is a file attached to a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

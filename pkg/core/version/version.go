// ============================================================================
// ccp - expression language front end
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI and its components
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for ccp components
const (
	// Release version
	Release = "0.1.0"

	// Component versions
	Lexer   = "1.0.0"
	Parser  = "1.0.0"
	Journal = "1.0.0"
	Server  = "1.0.0"
)

// Build metadata, set with -ldflags "-X ...".
var (
	GitCommit = "development"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "lexer":
		return Lexer
	case "parser":
		return Parser
	case "journal":
		return Journal
	case "server":
		return Server
	default:
		return Release
	}
}

// Info returns a multi-line build description
func Info() string {
	return fmt.Sprintf("ccp v%s\n  Git Commit: %s\n  Build Date: %s\n  Go Version: %s\n  OS/Arch:    %s/%s\n",
		Release, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

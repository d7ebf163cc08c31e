// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across ccp. Front-end
//              diagnostics (lexical, syntax, naming) share the code space
//              with infrastructure failures so reporting layers can
//              classify any error with a single lookup.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2025-10-18 v0.2.0: Front-end diagnostic codes, trimmed platform codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeCanceled     Code = "CANCELED"

	// Front-end diagnostics
	CodeLexical Code = "LEXICAL"
	CodeSyntax  Code = "SYNTAX"
	CodeName    Code = "NAME"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// I/O and network
	CodeIOError      Code = "IO_ERROR"
	CodeNetworkError Code = "NETWORK_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeInvalidLength    Code = "INVALID_LENGTH"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeCanceled,
		CodeLexical, CodeSyntax, CodeName,
		CodeDatabaseError, CodeIOError, CodeNetworkError,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeValidationFailed, CodeInvalidLength:
		return true
	default:
		return false
	}
}

// IsDiagnostic reports whether the code describes a problem in the checked
// source rather than in the tool itself.
func (c Code) IsDiagnostic() bool {
	return c == CodeLexical || c == CodeSyntax || c == CodeName
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeLexical, CodeSyntax, CodeName:
		return "diagnostic"
	case CodeDatabaseError:
		return "storage"
	case CodeIOError, CodeNetworkError:
		return "io"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeValidationFailed, CodeInvalidLength, CodeInvalidInput:
		return "validation"
	default:
		return "generic"
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error code.
// Diagnostics are successful checks of bad programs, hence 200.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeLexical, CodeSyntax, CodeName:
		return 200
	case CodeNotFound:
		return 404
	case CodeInvalidInput, CodeValidationFailed, CodeInvalidLength:
		return 400
	case CodeCanceled:
		return 408
	case CodeDatabaseError:
		return 503
	default:
		return 500
	}
}

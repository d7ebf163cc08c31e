// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so that logging and
//              reporting can pick an appropriate level per failure.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2025-10-18 v0.2.0: Severity mapping for diagnostic codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a problem in user input, such as a rejected program
	SeverityLow Severity = iota

	// SeverityMedium indicates a failure with a workaround
	SeverityMedium

	// SeverityHigh indicates a failure of a tool component (storage, config)
	SeverityHigh

	// SeverityCritical indicates the tool cannot continue
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeDatabaseError, CodeConfigError, CodeInvalidConfig, CodeMissingConfig:
		return SeverityHigh
	case CodeIOError, CodeNetworkError, CodeCanceled:
		return SeverityMedium
	case CodeLexical, CodeSyntax, CodeName,
		CodeInvalidInput, CodeNotFound, CodeValidationFailed, CodeInvalidLength:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

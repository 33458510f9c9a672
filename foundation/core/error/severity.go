// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to pick the log level for an error.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-19 v0.2.0: Severity mapping for phrase and execution codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow covers user input problems such as a malformed phrase
	SeverityLow Severity = iota

	// SeverityMedium covers failures with an obvious workaround
	SeverityMedium

	// SeverityHigh covers broken environments: missing tools, unusable storage
	SeverityHigh

	// SeverityCritical makes the tool unusable
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

// ShouldAlert returns true if this severity level should be surfaced loudly
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the severity level for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeEnvironmentError:
		return SeverityCritical

	case CodeToolUnavailable, CodeDatabaseError, CodeConnectionFailed, CodeInternal:
		return SeverityHigh

	case CodeCommandFailed, CodeTimeout, CodeConfigError, CodeInvalidConfig:
		return SeverityMedium

	case CodeUnexpectedToken, CodeMissingToken, CodeInvalidPath, CodeUnsupportedFormat,
		CodeInvalidOperation, CodeInvalidCommand, CodeInvalidInput, CodeNotFound:
		return SeverityLow

	default:
		return SeverityMedium
	}
}

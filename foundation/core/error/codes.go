// File: codes.go
// Title: Error Code Definitions
// Description: Standardized error codes used to classify failures across the
//              phrase pipeline, the runner backends and the CLI.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Phrase and execution codes, dropped auth/business codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Phrase parsing
	CodeUnexpectedToken   Code = "PHRASE_UNEXPECTED_TOKEN"
	CodeMissingToken      Code = "PHRASE_MISSING_TOKEN"
	CodeInvalidPath       Code = "PHRASE_INVALID_PATH"
	CodeUnsupportedFormat Code = "PHRASE_UNSUPPORTED_FORMAT"

	// Command rendering
	CodeInvalidOperation Code = "INVALID_OPERATION"

	// Execution
	CodeInvalidCommand  Code = "INVALID_COMMAND"
	CodeCommandFailed   Code = "COMMAND_FAILED"
	CodeToolUnavailable Code = "TOOL_UNAVAILABLE"

	// Storage
	CodeDatabaseError    Code = "DATABASE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"

	// Configuration and environment
	CodeConfigError      Code = "CONFIG_ERROR"
	CodeInvalidConfig    Code = "INVALID_CONFIG"
	CodeEnvironmentError Code = "ENVIRONMENT_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeUnexpectedToken, CodeMissingToken, CodeInvalidPath, CodeUnsupportedFormat,
		CodeInvalidOperation,
		CodeInvalidCommand, CodeCommandFailed, CodeToolUnavailable,
		CodeDatabaseError, CodeConnectionFailed,
		CodeConfigError, CodeInvalidConfig, CodeEnvironmentError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeUnexpectedToken, CodeMissingToken, CodeInvalidPath, CodeUnsupportedFormat:
		return "parse"
	case CodeInvalidOperation:
		return "render"
	case CodeInvalidCommand, CodeCommandFailed, CodeToolUnavailable, CodeTimeout:
		return "execution"
	case CodeDatabaseError, CodeConnectionFailed:
		return "database"
	case CodeConfigError, CodeInvalidConfig, CodeEnvironmentError:
		return "configuration"
	default:
		return "generic"
	}
}

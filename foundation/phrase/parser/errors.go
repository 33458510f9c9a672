// File: errors.go
// Title: Phrase Parse Errors
// Description: Error taxonomy for phrase parsing. Every ParseError unwraps to
//              one of four sentinel errors so callers can branch with
//              errors.Is.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by errors.Is against a *ParseError
var (
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrMissingToken      = errors.New("missing expected token")
	ErrInvalidPath       = errors.New("invalid path")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ErrorKind classifies a parse failure
type ErrorKind int

const (
	KindUnexpectedToken ErrorKind = iota
	KindMissingToken
	KindInvalidPath
	KindUnsupportedFormat
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindUnexpectedToken:
		return "UnexpectedToken"
	case KindMissingToken:
		return "MissingToken"
	case KindInvalidPath:
		return "InvalidPath"
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingToken:
		return ErrMissingToken
	case KindInvalidPath:
		return ErrInvalidPath
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	default:
		return ErrUnexpectedToken
	}
}

// ParseError describes why a token sequence is not a valid phrase. For
// InvalidPath and UnsupportedFormat, Detail is exactly the offending path.
// Index is the token index where parsing stopped; Pos is the byte offset of
// that token in the phrase, or -1 when input ended first.
type ParseError struct {
	Kind   ErrorKind
	Detail string
	Index  int
	Pos    int
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Detail)
}

// Unwrap returns the sentinel for the error kind
func (e *ParseError) Unwrap() error {
	return e.Kind.sentinel()
}

// AsParseError extracts a *ParseError from an error chain
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

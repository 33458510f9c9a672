// File: stringx.go
// Title: String Utilities
// Description: Small string helpers shared by the CLI, runner and terminal UI:
//              blank checks, defaults, rune-safe truncation and a quote-aware
//              command line splitter.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2025-01-26 v0.2.0: Enhanced documentation
// - 2026-10-19 v0.3.0: SplitQuoted for rendered command lines

package stringx

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnterminatedQuote is returned by SplitQuoted for an unclosed '"'
var ErrUnterminatedQuote = errors.New("unterminated quote")

// IsBlank returns true if the string is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// FirstNonBlank returns the first non-blank string from the provided strings.
func FirstNonBlank(values ...string) string {
	for _, s := range values {
		if !IsBlank(s) {
			return s
		}
	}
	return ""
}

// Truncate shortens s to at most maxLen runes, ending with ellipsis when cut.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	keep := maxLen - utf8.RuneCountInString(ellipsis)
	if keep <= 0 {
		return string([]rune(ellipsis)[:maxLen])
	}
	return string([]rune(s)[:keep]) + ellipsis
}

// SplitQuoted splits a command line on whitespace. Text inside double quotes
// is kept in one field and the quotes are removed; `""` yields an empty
// field. No other escaping is interpreted.
func SplitQuoted(line string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		inQuote bool
		started bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case unicode.IsSpace(r) && !inQuote:
			if started {
				fields = append(fields, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if started {
		fields = append(fields, current.String())
	}
	return fields, nil
}

// Quote wraps s in double quotes for display in a command line
func Quote(s string) string {
	return `"` + s + `"`
}

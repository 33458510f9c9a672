// ============================================================================
// ff - plain-English media command translator
// ============================================================================
//
// Package:     repl
// Description: Transcript entries and async messages
// Author:      msto63
// Created:     2025-12-07
// Modified:    2026-10-19
// License:     MIT
// ============================================================================

package repl

import (
	"time"

	"github.com/msto63/ff/internal/translator"
)

// EntryKind classifies a transcript entry
type EntryKind int

const (
	EntryPhrase EntryKind = iota
	EntryCommand
	EntryResult
	EntryError
	EntrySystem
)

// Entry is one line block in the transcript
type Entry struct {
	Kind      EntryKind
	Content   string
	Guidance  []string
	Timestamp time.Time
	Duration  time.Duration
}

// processedMsg is sent when a phrase has been handled
type processedMsg struct {
	outcome  *translator.Outcome
	err      error
	duration time.Duration
}

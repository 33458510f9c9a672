// Package history records every processed phrase so past commands can be
// listed, inspected and summarised.
package history

import (
	"context"
	"time"
)

// Status is the outcome of one processed phrase
type Status string

const (
	StatusParsed    Status = "parsed"
	StatusDryRun    Status = "dry_run"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusRejected  Status = "rejected"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusParsed, StatusDryRun, StatusSucceeded, StatusFailed, StatusRejected:
		return true
	}
	return false
}

// Run is one history entry
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Phrase     string    `json:"phrase" yaml:"phrase"`
	Operation  string    `json:"operation,omitempty" yaml:"operation,omitempty"`
	InputPath  string    `json:"input_path,omitempty" yaml:"input_path,omitempty"`
	OutputPath string    `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Command    string    `json:"command,omitempty" yaml:"command,omitempty"`
	Status     Status    `json:"status" yaml:"status"`
	Backend    string    `json:"backend,omitempty" yaml:"backend,omitempty"`
	ExitCode   int       `json:"exit_code" yaml:"exit_code"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms"`
	ErrorCode  string    `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Filter defines criteria for listing runs
type Filter struct {
	Status    Status
	Operation string
	Limit     int
	Offset    int
}

// Stats summarises the stored runs
type Stats struct {
	Total       int64            `json:"total" yaml:"total"`
	ByStatus    map[string]int64 `json:"by_status" yaml:"by_status"`
	ByOperation map[string]int64 `json:"by_operation" yaml:"by_operation"`
	LastRun     time.Time        `json:"last_run,omitempty" yaml:"last_run,omitempty"`
}

// Store defines run persistence
type Store interface {
	// Record stores run, filling ID and CreatedAt when empty
	Record(ctx context.Context, run *Run) error
	// List returns runs newest first
	List(ctx context.Context, filter Filter) ([]*Run, error)
	// Get returns the run whose ID equals or uniquely starts with id
	Get(ctx context.Context, id string) (*Run, error)
	// Clear deletes all runs and returns how many were removed
	Clear(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

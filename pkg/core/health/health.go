// Package health runs environment checks (media tool, container daemon,
// history database) and aggregates them into a report.
package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status represents the outcome of a check
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusSkipped   Status = "skipped"
)

// CheckResult represents the result of a single check
type CheckResult struct {
	Name     string                 `json:"name" yaml:"name"`
	Status   Status                 `json:"status" yaml:"status"`
	Message  string                 `json:"message,omitempty" yaml:"message,omitempty"`
	Duration time.Duration          `json:"duration" yaml:"duration"`
	Details  map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// Checker is a named check
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

type namedCheck struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &namedCheck{name: name, fn: fn}
}

func (c *namedCheck) Name() string                          { return c.name }
func (c *namedCheck) Check(ctx context.Context) CheckResult { return c.fn(ctx) }

// ErrorCheck builds a checker that reports unhealthy when fn fails and
// healthy with okMessage otherwise
func ErrorCheck(name, okMessage string, fn func(ctx context.Context) error) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		if err := fn(ctx); err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Status: StatusHealthy, Message: okMessage}
	})
}

// Skipped builds a checker that always reports skipped with reason
func Skipped(name, reason string) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusSkipped, Message: reason}
	})
}

// Registry holds the checks of one report
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	name     string
	version  string
}

// NewRegistry creates an empty registry
func NewRegistry(name, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		name:     name,
		version:  version,
	}
}

// Register adds checker, replacing one with the same name
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// Check runs all checks concurrently. Results are ordered by name. Any
// unhealthy check makes the report unhealthy; degraded checks degrade it.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report := &Report{
		Name:      r.name,
		Version:   r.version,
		Timestamp: time.Now(),
		Checks:    make([]CheckResult, 0, len(r.checkers)),
	}

	var wg sync.WaitGroup
	results := make(chan CheckResult, len(r.checkers))

	for _, checker := range r.checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)
			if result.Name == "" {
				result.Name = c.Name()
			}
			results <- result
		}(checker)
	}

	wg.Wait()
	close(results)

	report.Status = StatusHealthy
	for result := range results {
		report.Checks = append(report.Checks, result)
		switch result.Status {
		case StatusUnhealthy:
			report.Status = StatusUnhealthy
		case StatusDegraded:
			if report.Status != StatusUnhealthy {
				report.Status = StatusDegraded
			}
		}
	}
	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})

	return report
}

// CheckWithTimeout runs all checks with a deadline
func (r *Registry) CheckWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Check(ctx)
}

// Report is the aggregated result of a registry run
type Report struct {
	Name      string        `json:"name" yaml:"name"`
	Version   string        `json:"version" yaml:"version"`
	Status    Status        `json:"status" yaml:"status"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Checks    []CheckResult `json:"checks" yaml:"checks"`
}

// Healthy reports whether no check failed
func (r *Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// String returns a one-line summary
func (r *Report) String() string {
	return fmt.Sprintf("%s %s: %s (%d checks)", r.Name, r.Version, r.Status, len(r.Checks))
}

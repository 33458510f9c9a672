package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/ff/foundation/core/error"
)

// MemoryStore implements Store in memory. It backs sessions that must not
// touch the database and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []*Run
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record stores a copy of run
func (s *MemoryStore) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if !run.Status.Valid() {
		return mdwerror.New(fmt.Sprintf("invalid run status: %q", run.Status)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("history.Record")
	}

	stored := *run
	s.runs = append(s.runs, &stored)
	return nil
}

// List returns matching runs newest first
func (s *MemoryStore) List(ctx context.Context, filter Filter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Run
	for i := len(s.runs) - 1; i >= 0; i-- {
		r := s.runs[i]
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Operation != "" && r.Operation != filter.Operation {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	// insertion order breaks ties
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Get returns the run with the given ID or unique prefix
func (s *MemoryStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mdwerror.New("run id is empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("history.Get")
	}

	var matches []*Run
	for _, r := range s.runs {
		if strings.HasPrefix(r.ID, id) {
			cp := *r
			matches = append(matches, &cp)
		}
	}
	return pickOne(id, matches)
}

// Clear removes all runs
func (s *MemoryStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.runs))
	s.runs = nil
	return n, nil
}

// Stats returns run statistics
func (s *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		Total:       int64(len(s.runs)),
		ByStatus:    make(map[string]int64),
		ByOperation: make(map[string]int64),
	}
	for _, r := range s.runs {
		stats.ByStatus[string(r.Status)]++
		op := r.Operation
		if op == "" {
			op = "none"
		}
		stats.ByOperation[op]++
		if r.CreatedAt.After(stats.LastRun) {
			stats.LastRun = r.CreatedAt
		}
	}
	return stats, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	"github.com/msto63/ff/foundation/utils/filex"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: filex.ExpandHome("~/.ff/history.db"),
	}
}

// NewSQLiteStore opens (and creates) the history database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if err := filex.EnsureDir(filepath.Dir(cfg.Path)); err != nil {
		return nil, dbError(err, "failed to create directory", "history.Open")
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, dbError(err, "failed to open database", "history.Open")
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "history.Open")
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		phrase TEXT NOT NULL,
		operation TEXT,
		input_path TEXT,
		output_path TEXT,
		command TEXT,
		status TEXT NOT NULL,
		backend TEXT,
		exit_code INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		error_code TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	CREATE INDEX IF NOT EXISTS idx_runs_operation ON runs(operation);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run
func (s *SQLiteStore) Record(ctx context.Context, run *Run) error {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, phrase, operation, input_path, output_path, command,
			status, backend, exit_code, duration_ms, error_code, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt, run.Phrase, run.Operation, run.InputPath, run.OutputPath, run.Command,
		string(run.Status), run.Backend, run.ExitCode, run.DurationMS, run.ErrorCode, run.Error)
	if err != nil {
		return dbError(err, "failed to insert run", "history.Record")
	}

	return nil
}

const selectRuns = `SELECT id, created_at, phrase, operation, input_path, output_path, command,
	status, backend, exit_code, duration_ms, error_code, error FROM runs`

// List retrieves runs based on filter criteria
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectRuns + ` WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.Operation != "" {
		query += " AND operation = ?"
		args = append(args, filter.Operation)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	return s.queryRuns(ctx, "history.List", query, args...)
}

// Get returns a run by ID or unique ID prefix
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mdwerror.New("run id is empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("history.Get")
	}

	pattern := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(id) + "%"
	runs, err := s.queryRuns(ctx, "history.Get", selectRuns+` WHERE id LIKE ? ESCAPE '\' LIMIT 2`, pattern)
	if err != nil {
		return nil, err
	}
	return pickOne(id, runs)
}

func (s *SQLiteStore) queryRuns(ctx context.Context, op, query string, args ...interface{}) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query runs", op)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var status string
		var operation, input, output, command, backend, errCode, errMsg sql.NullString

		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Phrase, &operation, &input, &output, &command,
			&status, &backend, &run.ExitCode, &run.DurationMS, &errCode, &errMsg); err != nil {
			return nil, dbError(err, "failed to scan run", op)
		}

		run.Status = Status(status)
		run.Operation = operation.String
		run.InputPath = input.String
		run.OutputPath = output.String
		run.Command = command.String
		run.Backend = backend.String
		run.ErrorCode = errCode.String
		run.Error = errMsg.String
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read runs", op)
	}

	return runs, nil
}

// Clear deletes all runs
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, dbError(err, "failed to clear runs", "history.Clear")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats returns run statistics
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		ByStatus:    make(map[string]int64),
		ByOperation: make(map[string]int64),
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&stats.Total); err != nil {
		return nil, dbError(err, "failed to count runs", "history.Stats")
	}

	if err := s.countBy(ctx, "status", stats.ByStatus); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, "operation", stats.ByOperation); err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		var last Run
		row := s.db.QueryRowContext(ctx, `SELECT created_at FROM runs ORDER BY created_at DESC LIMIT 1`)
		if err := row.Scan(&last.CreatedAt); err != nil {
			return nil, dbError(err, "failed to read last run", "history.Stats")
		}
		stats.LastRun = last.CreatedAt
	}

	return stats, nil
}

// countBy fills counts grouped by a fixed column name
func (s *SQLiteStore) countBy(ctx context.Context, column string, into map[string]int64) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(`+column+`, ''), COUNT(*) FROM runs GROUP BY 1`)
	if err != nil {
		return dbError(err, "failed to group runs", "history.Stats")
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return dbError(err, "failed to scan group", "history.Stats")
		}
		if key == "" {
			key = "none"
		}
		into[key] = count
	}
	return rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func dbError(err error, msg, op string) error {
	return mdwerror.Wrap(err, msg).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(op)
}

// pickOne resolves a prefix lookup result
func pickOne(id string, runs []*Run) (*Run, error) {
	switch len(runs) {
	case 0:
		return nil, mdwerror.New(fmt.Sprintf("run not found: %s", id)).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("history.Get").
			WithDetail("id", id)
	case 1:
		return runs[0], nil
	}
	for _, r := range runs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, mdwerror.New(fmt.Sprintf("run id prefix is ambiguous: %s", id)).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("history.Get").
		WithDetail("id", id)
}

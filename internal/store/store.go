package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"centerview/internal/review"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases are rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages per-root review persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the state database inside root.
func Open(root string) (*Store, error) {
	stateDir := filepath.Join(root, review.StateDirName)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// SetMark upserts the desired label for a path.
func (s *Store) SetMark(ctx context.Context, path string, label review.Label) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pending_marks (path, label, marked_at) VALUES (?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET label = excluded.label, marked_at = excluded.marked_at`,
		path, label.String(), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set mark: %w", err)
	}
	return nil
}

// ClearMark removes the mark for a path, if any.
func (s *Store) ClearMark(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM pending_marks WHERE path = ?", path); err != nil {
		return fmt.Errorf("clear mark: %w", err)
	}
	return nil
}

// Marks returns all persisted marks keyed by path.
func (s *Store) Marks(ctx context.Context) (map[string]review.Label, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, label FROM pending_marks")
	if err != nil {
		return nil, fmt.Errorf("query marks: %w", err)
	}
	defer rows.Close()

	marks := make(map[string]review.Label)
	for rows.Next() {
		var path, label string
		if err := rows.Scan(&path, &label); err != nil {
			return nil, fmt.Errorf("scan mark: %w", err)
		}
		parsed, err := review.ParseLabel(label)
		if err != nil {
			// A corrupted row must not poison the whole session; skip it.
			continue
		}
		marks[path] = parsed
	}
	return marks, rows.Err()
}

// PruneMarks deletes marks whose path is not in the valid set and returns the
// removed paths.
func (s *Store) PruneMarks(ctx context.Context, valid map[string]struct{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path FROM pending_marks")
	if err != nil {
		return nil, fmt.Errorf("query marks: %w", err)
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan mark: %w", err)
		}
		if _, ok := valid[path]; !ok {
			stale = append(stale, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, path := range stale {
		if err := s.ClearMark(ctx, path); err != nil {
			return nil, err
		}
	}
	return stale, nil
}

// Run summarizes one recorded apply run.
type Run struct {
	RunID          string
	StartedAt      time.Time
	Moved          int
	AlreadyApplied int
	Failed         int
}

// FailureRow is one per-item failure recorded for a run.
type FailureRow struct {
	RunID  string
	Path   string
	Reason string
	Cause  string
}

// RecordRun persists the outcome of an apply run and its failures.
func (s *Store) RecordRun(ctx context.Context, run Run, failures []FailureRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO apply_runs (run_id, started_at, moved, already_applied, failed)
         VALUES (?, ?, ?, ?, ?)`,
		run.RunID, startedAt.UTC().Format(time.RFC3339Nano),
		run.Moved, run.AlreadyApplied, run.Failed,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, failure := range failures {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO apply_failures (run_id, path, reason, cause) VALUES (?, ?, ?, ?)",
			run.RunID, failure.Path, failure.Reason, failure.Cause,
		); err != nil {
			return fmt.Errorf("insert failure: %w", err)
		}
	}
	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, moved, already_applied, failed
         FROM apply_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		if err := rows.Scan(&run.RunID, &startedAt, &run.Moved, &run.AlreadyApplied, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			run.StartedAt = parsed
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunFailures returns the failures recorded for one run, in insertion order.
func (s *Store) RunFailures(ctx context.Context, runID string) ([]FailureRow, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, path, reason, cause FROM apply_failures WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var failures []FailureRow
	for rows.Next() {
		var row FailureRow
		var cause sql.NullString
		if err := rows.Scan(&row.RunID, &row.Path, &row.Reason, &cause); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		row.Cause = cause.String
		failures = append(failures, row)
	}
	return failures, rows.Err()
}

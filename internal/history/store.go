// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists batch run reports in a SQLite database so past
// runs can be listed, inspected, and exported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docpress/pkg/types"
)

const dbFile = "history.db"

// Store manages the run history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at dir/history.db, creating
// the schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			operation TEXT NOT NULL,
			started_at TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			total INTEGER NOT NULL,
			succeeded INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id TEXT NOT NULL REFERENCES runs(id),
			ordinal INTEGER NOT NULL,
			input TEXT NOT NULL,
			output TEXT,
			status TEXT NOT NULL,
			kind TEXT,
			message TEXT,
			size_before INTEGER,
			size_after INTEGER,
			grew INTEGER,
			pages INTEGER,
			elapsed_ms INTEGER,
			PRIMARY KEY (run_id, ordinal)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record persists a completed batch report, one row per run plus one row
// per file outcome.
func (s *Store) Record(ctx context.Context, report types.BatchReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, operation, started_at, completed_at, total, succeeded, failed, skipped, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.Operation,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.CompletedAt.UTC().Format(time.RFC3339Nano),
		report.Total(), report.SuccessCount(), report.FailureCount(), report.SkippedCount(),
		report.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, ordinal, input, output, status, kind, message, size_before, size_after, grew, pages, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range report.Outcomes {
		grew := 0
		if o.Grew {
			grew = 1
		}
		_, err := stmt.ExecContext(ctx,
			report.RunID, i, o.Input, o.Output, string(o.Status), string(o.Kind), o.Message,
			o.SizeBefore, o.SizeAfter, grew, o.Pages, o.Elapsed.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("inserting outcome %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Run is one recorded batch run.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	Operation   string    `json:"operation" yaml:"operation"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
	Total       int       `json:"total" yaml:"total"`
	Succeeded   int       `json:"succeeded" yaml:"succeeded"`
	Failed      int       `json:"failed" yaml:"failed"`
	Skipped     int       `json:"skipped" yaml:"skipped"`
	ElapsedMS   int64     `json:"elapsed_ms" yaml:"elapsed_ms"`
}

// Runs returns the most recent runs, newest first. A limit of zero or
// less returns all runs.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, operation, started_at, completed_at, total, succeeded, failed, skipped, elapsed_ms
		FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, completed string
		if err := rows.Scan(&r.ID, &r.Operation, &started, &completed,
			&r.Total, &r.Succeeded, &r.Failed, &r.Skipped, &r.ElapsedMS); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.CompletedAt, _ = time.Parse(time.RFC3339Nano, completed)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FindRun resolves a run by full ID or unambiguous ID prefix.
func (s *Store) FindRun(ctx context.Context, id string) (Run, error) {
	runs, err := s.Runs(ctx, 0)
	if err != nil {
		return Run{}, err
	}

	var matches []Run
	for _, r := range runs {
		if r.ID == id {
			return r, nil
		}
		if len(id) >= 4 && len(r.ID) > len(id) && r.ID[:len(id)] == id {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return Run{}, fmt.Errorf("no run matching %q", id)
	default:
		return Run{}, fmt.Errorf("run id %q is ambiguous (%d matches)", id, len(matches))
	}
}

// Outcome is one recorded file result within a run.
type Outcome struct {
	Input      string `json:"input" yaml:"input"`
	Output     string `json:"output,omitempty" yaml:"output,omitempty"`
	Status     string `json:"status" yaml:"status"`
	Kind       string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	SizeBefore int64  `json:"size_before,omitempty" yaml:"size_before,omitempty"`
	SizeAfter  int64  `json:"size_after,omitempty" yaml:"size_after,omitempty"`
	Grew       bool   `json:"grew,omitempty" yaml:"grew,omitempty"`
	Pages      int    `json:"pages,omitempty" yaml:"pages,omitempty"`
	ElapsedMS  int64  `json:"elapsed_ms,omitempty" yaml:"elapsed_ms,omitempty"`
}

// Outcomes returns the file outcomes of a run in original input order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT input, output, status, kind, message, size_before, size_after, grew, pages, elapsed_ms
		 FROM outcomes WHERE run_id = ? ORDER BY ordinal`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var o Outcome
		var grew int
		if err := rows.Scan(&o.Input, &o.Output, &o.Status, &o.Kind, &o.Message,
			&o.SizeBefore, &o.SizeAfter, &grew, &o.Pages, &o.ElapsedMS); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Grew = grew != 0
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

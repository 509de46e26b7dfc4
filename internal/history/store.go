// Package history records one row per tracking run in the repository
// database, so `wordtracker stats` can show how the index grew.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MaxRuns bounds the runs table; older rows are pruned on insert.
const MaxRuns = 500

// Run summarizes one tracking run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Files      int
	Lines      int
	Tokens     int
	NewWords   int
	TotalWords int
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Totals aggregates every stored run.
type Totals struct {
	Runs   int
	Files  int
	Lines  int
	Tokens int
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a store on an open database. The schema must exist (see
// InitSchema).
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &Store{db: db}, nil
}

// InitSchema creates the runs table if it does not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		files INTEGER NOT NULL DEFAULT 0,
		lines INTEGER NOT NULL DEFAULT 0,
		tokens INTEGER NOT NULL DEFAULT 0,
		new_words INTEGER NOT NULL DEFAULT 0,
		total_words INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

// Record stores a run and prunes the table to MaxRuns rows.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, finished_at, files, lines, tokens, new_words, total_words)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
		run.Files, run.Lines, run.Tokens, run.NewWords, run.TotalWords)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM runs
		WHERE id NOT IN (
			SELECT id FROM runs
			ORDER BY id DESC
			LIMIT ?
		)
	`, MaxRuns)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, files, lines, tokens, new_words, total_words
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &started, &finished, &r.Files, &r.Lines, &r.Tokens, &r.NewWords, &r.TotalWords); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Totals sums every stored run.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(files), 0), COALESCE(SUM(lines), 0), COALESCE(SUM(tokens), 0)
		FROM runs
	`).Scan(&t.Runs, &t.Files, &t.Lines, &t.Tokens)
	if err != nil {
		return Totals{}, fmt.Errorf("query totals: %w", err)
	}
	return t, nil
}

// Clear deletes every run.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/words"
)

// DefaultPath is the repository file used when none is configured.
const DefaultPath = "repository.db"

const schema = `
CREATE TABLE IF NOT EXISTS words (
	text TEXT PRIMARY KEY,
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS occurrences (
	word TEXT NOT NULL REFERENCES words(text) ON DELETE CASCADE,
	file TEXT NOT NULL,
	line INTEGER NOT NULL,
	PRIMARY KEY (word, file, line)
);
CREATE INDEX IF NOT EXISTS idx_occurrences_file ON occurrences(file);
`

// Repository is an open repository database.
type Repository struct {
	db   *sql.DB
	path string
}

// validateIntegrity checks an existing database file before it is opened.
// A missing file is valid; it will be created.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}
	return nil
}

// quarantine moves a corrupt repository aside so a fresh one can start.
func quarantine(path string, cause error) error {
	aside := path + ".corrupt"
	slog.Warn("repository_corrupted",
		slog.String("path", path),
		slog.String("moved_to", aside),
		slog.String("error", cause.Error()))

	if err := os.Rename(path, aside); err != nil {
		return apperrors.New(apperrors.ErrCodeRepositoryCorrupt, "repository is corrupted and cannot be moved aside", err).
			WithDetail("path", path).
			WithSuggestion(fmt.Sprintf("Remove %s manually to start a new repository", path))
	}
	_ = os.Remove(path + "-wal")
	_ = os.Remove(path + "-shm")
	return nil
}

// Open opens or creates the repository at path. An empty path opens an
// in-memory repository. A corrupted file is renamed to <path>.corrupt and
// an empty repository is started in its place.
func Open(ctx context.Context, path string) (*Repository, error) {
	dsn := ":memory:"
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.IOError("cannot create repository directory", err).WithDetail("dir", dir)
		}
		if validErr := validateIntegrity(path); validErr != nil {
			if err := quarantine(path, validErr); err != nil {
				return nil, err
			}
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.IOError("failed to open repository", err).WithDetail("path", path)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// modernc.org/sqlite ignores most DSN parameters; pragmas go through Exec.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	if path == "" {
		pragmas = pragmas[1:]
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, apperrors.IOError("failed to configure repository", err).WithDetail("pragma", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, apperrors.IOError("failed to create repository schema", err).WithDetail("path", path)
	}

	slog.Debug("repository_opened", slog.String("path", path))
	return &Repository{db: db, path: path}, nil
}

// DB returns the underlying database for stores sharing the repository file.
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Path returns the repository file path ("" for in-memory).
func (r *Repository) Path() string {
	return r.path
}

// Load reads the stored snapshot. An empty repository yields an empty
// snapshot.
func (r *Repository) Load(ctx context.Context) (*words.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT text FROM words ORDER BY position`)
	if err != nil {
		return nil, apperrors.IOError("failed to read words", err)
	}
	defer rows.Close()

	snap := &words.Snapshot{}
	pos := make(map[string]int)
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, apperrors.IOError("failed to scan word", err)
		}
		pos[text] = len(snap.Words)
		snap.Words = append(snap.Words, words.WordRecord{Text: text})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.IOError("failed to read words", err)
	}

	occ, err := r.db.QueryContext(ctx, `SELECT word, file, line FROM occurrences ORDER BY word, file, line`)
	if err != nil {
		return nil, apperrors.IOError("failed to read occurrences", err)
	}
	defer occ.Close()

	for occ.Next() {
		var word, file string
		var line int
		if err := occ.Scan(&word, &file, &line); err != nil {
			return nil, apperrors.IOError("failed to scan occurrence", err)
		}
		i, ok := pos[word]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeRepositoryCorrupt, "occurrence references an unknown word", nil).
				WithDetail("word", word)
		}
		rec := &snap.Words[i]
		if n := len(rec.Files); n == 0 || rec.Files[n-1].File != file {
			rec.Files = append(rec.Files, words.FileLines{File: file})
		}
		last := &rec.Files[len(rec.Files)-1]
		last.Lines = append(last.Lines, line)
	}
	if err := occ.Err(); err != nil {
		return nil, apperrors.IOError("failed to read occurrences", err)
	}

	slog.Debug("repository_loaded", slog.String("path", r.path), slog.Int("words", len(snap.Words)))
	return snap, nil
}

// Save replaces the stored snapshot in a single transaction.
func (r *Repository) Save(ctx context.Context, snap *words.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.IOError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM occurrences`); err != nil {
		return apperrors.IOError("clear occurrences", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM words`); err != nil {
		return apperrors.IOError("clear words", err)
	}

	wordStmt, err := tx.PrepareContext(ctx, `INSERT INTO words (text, position) VALUES (?, ?)`)
	if err != nil {
		return apperrors.IOError("prepare statement", err)
	}
	defer wordStmt.Close()

	occStmt, err := tx.PrepareContext(ctx, `INSERT INTO occurrences (word, file, line) VALUES (?, ?, ?)`)
	if err != nil {
		return apperrors.IOError("prepare statement", err)
	}
	defer occStmt.Close()

	if snap != nil {
		for i, rec := range snap.Words {
			if _, err := wordStmt.ExecContext(ctx, rec.Text, i); err != nil {
				return apperrors.IOError("insert word", err).WithDetail("word", rec.Text)
			}
			for _, fl := range rec.Files {
				for _, line := range fl.Lines {
					if _, err := occStmt.ExecContext(ctx, rec.Text, fl.File, line); err != nil {
						return apperrors.IOError("insert occurrence", err).WithDetail("word", rec.Text)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.IOError("commit transaction", err)
	}

	count := 0
	if snap != nil {
		count = len(snap.Words)
	}
	slog.Debug("repository_saved", slog.String("path", r.path), slog.Int("words", count))
	return nil
}

// Close closes the database.
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

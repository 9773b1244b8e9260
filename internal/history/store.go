package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the database to adopt the new schema.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages outcome persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the outcome database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
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
		return fmt.Errorf("%w: database has version %d, expected %d (delete the database to rebuild)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// Record inserts one outcome row.
func (s *Store) Record(ctx context.Context, rec Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO outcomes (run_id, source_path, destination, digest, outcome, error_text, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.SourcePath,
		rec.Destination,
		rec.Digest,
		string(rec.Outcome),
		rec.ErrorText,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// List returns the most recent outcome rows, newest first. A runID filters
// to a single run; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, runID string, limit int) ([]Record, error) {
	query := "SELECT id, run_id, source_path, destination, digest, outcome, error_text, created_at FROM outcomes"
	var args []any
	if strings.TrimSpace(runID) != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var outcome, createdAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.SourcePath, &rec.Destination, &rec.Digest, &outcome, &rec.ErrorText, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		rec.Outcome = Outcome(outcome)
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return records, nil
}

// RunSummary aggregates outcome counts for one run.
type RunSummary struct {
	RunID      string `json:"run_id"`
	Moved      int    `json:"moved"`
	Duplicates int    `json:"duplicates"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
}

// Summarize returns per-outcome counts for the given run.
func (s *Store) Summarize(ctx context.Context, runID string) (*RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT outcome, COUNT(1) FROM outcomes WHERE run_id = ? GROUP BY outcome", runID)
	if err != nil {
		return nil, fmt.Errorf("summarize run: %w", err)
	}
	defer rows.Close()

	summary := &RunSummary{RunID: runID}
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		switch Outcome(outcome) {
		case OutcomeMoved:
			summary.Moved = count
		case OutcomeDuplicate:
			summary.Duplicates = count
		case OutcomeSkipped:
			summary.Skipped = count
		case OutcomeFailed:
			summary.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return summary, nil
}

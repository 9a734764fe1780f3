package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite audit store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRun scans a row into a RunEntry.
func scanRun(s scanner) (*RunEntry, error) {
	entry := &RunEntry{}
	var durationMS int64

	err := s.Scan(
		&entry.ID, &entry.RunID, &entry.DonorName,
		&entry.RankingPolicy, &entry.CompatibilityPolicy,
		&entry.RecordCount, &entry.SkippedCount,
		&durationMS, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Duration = time.Duration(durationMS) * time.Millisecond
	return entry, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS match_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		donor_name TEXT NOT NULL,
		ranking_policy TEXT NOT NULL,
		compatibility_policy TEXT NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		skipped_count INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_match_runs_run_id ON match_runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_match_runs_created_at ON match_runs(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save persists a run entry.
func (s *SQLiteStore) Save(ctx context.Context, entry *RunEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO match_runs (
			run_id, donor_name, ranking_policy, compatibility_policy,
			record_count, skipped_count, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.RunID,
		entry.DonorName,
		entry.RankingPolicy,
		entry.CompatibilityPolicy,
		entry.RecordCount,
		entry.SkippedCount,
		entry.Duration.Milliseconds(),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	entry.ID = id

	return nil
}

// Get retrieves an entry by run ID.
func (s *SQLiteStore) Get(ctx context.Context, runID string) (*RunEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, run_id, donor_name, ranking_policy, compatibility_policy,
			record_count, skipped_count, duration_ms, created_at
		FROM match_runs
		WHERE run_id = ?
		LIMIT 1
	`, runID)

	entry, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return entry, nil
}

// List returns audited runs newest first with pagination.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*RunEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, donor_name, ranking_policy, compatibility_policy,
			record_count, skipped_count, duration_ms, created_at
		FROM match_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*RunEntry
	for rows.Next() {
		entry, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// Count returns the total number of audited runs.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM match_runs").Scan(&count)
	return count, err
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

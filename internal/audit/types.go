// Package audit persists a trail of match runs for traceability.
// Entries hold run metadata only (identifiers, policies, counts, timing);
// patient biometrics and rankings are never written to disk.
package audit

import (
	"context"
	"time"
)

// RunEntry is one audited match run.
type RunEntry struct {
	ID                  int64         `json:"id"`
	RunID               string        `json:"run_id"`
	DonorName           string        `json:"donor_name"`
	RankingPolicy       string        `json:"ranking_policy"`
	CompatibilityPolicy string        `json:"compatibility_policy"`
	RecordCount         int           `json:"record_count"`
	SkippedCount        int           `json:"skipped_count"`
	Duration            time.Duration `json:"duration"`
	CreatedAt           time.Time     `json:"created_at"`
}

// Store is the audit trail persistence interface.
type Store interface {
	// Save persists a run entry, assigning its ID.
	Save(ctx context.Context, entry *RunEntry) error

	// Get retrieves an entry by run ID, returning nil when absent.
	Get(ctx context.Context, runID string) (*RunEntry, error)

	// List returns entries newest first with pagination.
	List(ctx context.Context, limit, offset int) ([]*RunEntry, error)

	// Count returns the total number of audited runs.
	Count(ctx context.Context) (int64, error)

	// Close releases store resources.
	Close() error
}

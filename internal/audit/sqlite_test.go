package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEntry(runID string) *RunEntry {
	return &RunEntry{
		RunID:               runID,
		DonorName:           "Donor A",
		RankingPolicy:       "clinical",
		CompatibilityPolicy: "full-chart",
		RecordCount:         12,
		SkippedCount:        1,
		Duration:            5 * time.Millisecond,
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("run-1")
	require.NoError(t, store.Save(ctx, entry))
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	loaded, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, entry.RunID, loaded.RunID)
	assert.Equal(t, entry.DonorName, loaded.DonorName)
	assert.Equal(t, entry.RankingPolicy, loaded.RankingPolicy)
	assert.Equal(t, entry.CompatibilityPolicy, loaded.CompatibilityPolicy)
	assert.Equal(t, entry.RecordCount, loaded.RecordCount)
	assert.Equal(t, entry.SkippedCount, loaded.SkippedCount)
	assert.Equal(t, entry.Duration, loaded.Duration)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Get(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSQLiteStore_ListAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, runID := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, store.Save(ctx, sampleEntry(runID)))
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	entries, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "run-3", entries[0].RunID)
	assert.Equal(t, "run-2", entries[1].RunID)

	rest, err := store.List(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "run-1", rest[0].RunID)
}

func TestSQLiteStore_DuplicateRunIDRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleEntry("run-1")))
	assert.Error(t, store.Save(ctx, sampleEntry("run-1")))
}

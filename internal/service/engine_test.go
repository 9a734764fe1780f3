package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phm-match-engine/internal/domain"
)

func newTestEngine(t *testing.T) *MatchEngine {
	t.Helper()
	engine, err := NewMatchEngine(testLogger(), domain.EngineConfig{
		RankingPolicy:       string(domain.CLINICAL),
		CompatibilityPolicy: string(domain.FULL_CHART),
	}, 8)
	require.NoError(t, err)
	return engine
}

func TestMatchEngine_Run(t *testing.T) {
	engine := newTestEngine(t)

	bad := validRecipient("bad")
	bad.Profile.Height = -1

	exact := validRecipient("exact")
	exact.BloodType = bt(domain.ABO_O, domain.RH_NEGATIVE)

	result, err := engine.Run(context.Background(), validDonor(), []domain.Recipient{
		validRecipient("plain"),
		bad,
		exact,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "Donor A", result.DonorName)
	assert.Greater(t, result.DonorPHM, 0.0)
	assert.Equal(t, domain.CLINICAL, result.RankingPolicy)
	assert.Equal(t, domain.FULL_CHART, result.CompatibilityPolicy)

	require.Len(t, result.Records, 2)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "bad", result.Skipped[0].RecipientID)

	// The exact O-/O- match ranks ahead of the merely compatible one.
	assert.Equal(t, "exact", result.Records[0].Recipient.ID)
	assert.Equal(t, "plain", result.Records[1].Recipient.ID)
}

func TestMatchEngine_Run_InvalidDonor(t *testing.T) {
	engine := newTestEngine(t)

	donor := validDonor()
	donor.Profile.Gender = "UNSPECIFIED"

	_, err := engine.Run(context.Background(), donor, []domain.Recipient{validRecipient("R1")})
	require.Error(t, err)

	var validation *domain.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestMatchEngine_GetRun(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Run(context.Background(), validDonor(), []domain.Recipient{validRecipient("R1")})
	require.NoError(t, err)

	cached, err := engine.GetRun(result.RunID)
	require.NoError(t, err)
	assert.Equal(t, result, cached)

	_, err = engine.GetRun("no-such-run")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestMatchEngine_Run_CancelledContext(t *testing.T) {
	engine := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, validDonor(), []domain.Recipient{validRecipient("R1")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchEngine_Run_MergesUpstreamSkips(t *testing.T) {
	engine := newTestEngine(t)

	dropped := domain.SkippedRecord{RecipientID: "line 3", Reason: "unparseable row"}

	result, err := engine.Run(context.Background(), validDonor(), []domain.Recipient{validRecipient("R1")}, dropped)
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "line 3", result.Skipped[0].RecipientID)

	// The cached result already carries the merged manifest; nothing is
	// appended to it after the run.
	cached, err := engine.GetRun(result.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.Skipped, cached.Skipped)
}

func TestMatchEngine_Run_EmptyRoster(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Run(context.Background(), validDonor(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Skipped)
}

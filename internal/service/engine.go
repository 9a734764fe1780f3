package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/phm-match-engine/internal/domain"
)

// defaultRunCacheSize bounds the in-memory cache of recent match results
// when the configuration does not supply a size.
const defaultRunCacheSize = 64

// MatchEngine orchestrates a complete matching run: validation, record
// building, and ranking. Completed runs are kept in a bounded in-memory
// LRU cache keyed by run ID so the report layer can retrieve them.
//
// The engine is purely computational; it performs no I/O and is safe for
// concurrent use, since every run builds its own records and the cache is
// internally synchronized.
type MatchEngine struct {
	logger  *logrus.Logger
	builder *MatchBuilder
	ranker  *Ranker
	compat  *CompatibilityEvaluator
	runs    *lru.Cache[string, *domain.MatchResult]
}

// NewMatchEngine creates a matching engine with the given policies.
func NewMatchEngine(logger *logrus.Logger, cfg domain.EngineConfig, cacheSize int) (*MatchEngine, error) {
	if cacheSize <= 0 {
		cacheSize = defaultRunCacheSize
	}

	runs, err := lru.New[string, *domain.MatchResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create run cache: %w", err)
	}

	compat := NewCompatibilityEvaluator(domain.CompatibilityPolicy(cfg.CompatibilityPolicy))
	calculator := NewPHMCalculator(logger)

	return &MatchEngine{
		logger:  logger,
		builder: NewMatchBuilder(logger, calculator, compat),
		ranker:  NewRanker(domain.RankingPolicy(cfg.RankingPolicy)),
		compat:  compat,
		runs:    runs,
	}, nil
}

// Run matches one donor against the candidate list and returns the ranked
// result. The recipient list is read-only to the engine; the returned
// records are owned exclusively by the result. Rows already dropped
// upstream (roster ingestion) may be passed as preSkipped; they join the
// result's skip manifest here, before the result is cached, so the cached
// entry is complete and never touched afterwards.
func (e *MatchEngine) Run(ctx context.Context, donor domain.Donor, recipients []domain.Recipient, preSkipped ...domain.SkippedRecord) (*domain.MatchResult, error) {
	startTime := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"donor_name":           donor.Name,
		"donor_blood_type":     donor.BloodType.String(),
		"recipients":           len(recipients),
		"ranking_policy":       e.ranker.Policy().String(),
		"compatibility_policy": e.compat.Policy().String(),
	}).Info("Starting match run")

	records, skippedRecords, donorPHM, err := e.builder.BuildMatches(donor, recipients)
	if err != nil {
		return nil, fmt.Errorf("failed to build match records: %w", err)
	}

	ranked := e.ranker.Rank(records)
	skipped := append(skippedRecords, preSkipped...)

	result := &domain.MatchResult{
		RunID:               uuid.New().String(),
		DonorName:           donor.Name,
		DonorPHM:            donorPHM,
		CreatedAt:           startTime.UTC(),
		CompatibilityPolicy: e.compat.Policy(),
		RankingPolicy:       e.ranker.Policy(),
		Records:             ranked,
		Skipped:             skipped,
		ProcessingTime:      time.Since(startTime),
	}

	e.runs.Add(result.RunID, result)

	e.logger.WithFields(logrus.Fields{
		"run_id":          result.RunID,
		"donor_phm":       result.DonorPHM,
		"ranked_records":  len(result.Records),
		"skipped_records": len(result.Skipped),
		"processing_time": result.ProcessingTime,
	}).Info("Match run completed")

	return result, nil
}

// GetRun retrieves a recent match result by run ID.
func (e *MatchEngine) GetRun(runID string) (*domain.MatchResult, error) {
	result, ok := e.runs.Get(runID)
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, domain.ErrRunNotFound)
	}
	return result, nil
}

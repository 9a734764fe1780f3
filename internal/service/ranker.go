package service

import (
	"math"
	"sort"

	"github.com/phm-match-engine/internal/domain"
)

// comparatorStage orders two match records on one criterion. It returns a
// negative value when a ranks ahead of b, positive when b ranks ahead,
// and zero when the stage cannot separate them, deferring to the next
// stage in the chain.
type comparatorStage func(a, b *domain.MatchRecord) int

// Ranker sorts match records with a deterministic, stable, total-order
// comparator built from an ordered chain of stages. The chain is selected
// by ranking policy so both documented orderings share one engine.
type Ranker struct {
	policy domain.RankingPolicy
	stages []comparatorStage
}

// NewRanker creates a ranker for the given policy. An invalid policy
// falls back to the default clinical ordering.
func NewRanker(policy domain.RankingPolicy) *Ranker {
	if !policy.IsValid() {
		policy = domain.CLINICAL
	}

	var stages []comparatorStage
	switch policy {
	case domain.WAITLIST:
		stages = []comparatorStage{
			compareCompatibility,
			compareRisk,
			compareStatus,
			compareDateAdded,
		}
	default:
		stages = []comparatorStage{
			compareCompatibility,
			compareExactMatch,
			compareRisk,
			compareRatioProximity,
		}
	}

	return &Ranker{policy: policy, stages: stages}
}

// Policy returns the ranking policy this ranker applies.
func (r *Ranker) Policy() domain.RankingPolicy {
	return r.policy
}

// Rank returns a new slice holding the records in ranked order. The input
// slice is not modified and record contents are never changed in place,
// so ranking is safe to repeat and reproducible: the sort is stable, and
// records tied on every stage keep their original input order.
func (r *Ranker) Rank(records []domain.MatchRecord) []domain.MatchRecord {
	ranked := make([]domain.MatchRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		return r.compare(&ranked[i], &ranked[j]) < 0
	})

	return ranked
}

// compare applies each stage in order until one separates the records.
func (r *Ranker) compare(a, b *domain.MatchRecord) int {
	for _, stage := range r.stages {
		if c := stage(a, b); c != 0 {
			return c
		}
	}
	return 0
}

// compareCompatibility ranks blood-type-compatible records first.
func compareCompatibility(a, b *domain.MatchRecord) int {
	return compareBool(a.BloodTypeCompatible, b.BloodTypeCompatible)
}

// compareExactMatch ranks exact blood-type matches first.
func compareExactMatch(a, b *domain.MatchRecord) int {
	return compareBool(a.ExactBloodTypeMatch, b.ExactBloodTypeMatch)
}

// compareRisk ranks acceptable-risk records ahead of high-risk ones.
func compareRisk(a, b *domain.MatchRecord) int {
	return compareBool(a.Risk == domain.ACCEPTABLE, b.Risk == domain.ACCEPTABLE)
}

// compareRatioProximity ranks by ascending distance of the PHM ratio from
// the ideal 1.0.
func compareRatioProximity(a, b *domain.MatchRecord) int {
	da := math.Abs(a.PHMRatio - 1.0)
	db := math.Abs(b.PHMRatio - 1.0)
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	default:
		return 0
	}
}

// compareStatus ranks by ascending waiting-list status (1 is most urgent).
func compareStatus(a, b *domain.MatchRecord) int {
	return a.Status - b.Status
}

// compareDateAdded ranks by ascending listing date. A record without a
// date ranks after one with a date; two missing dates tie, preserving the
// stable input order. Missing dates must never crash the ranker.
func compareDateAdded(a, b *domain.MatchRecord) int {
	switch {
	case a.DateAdded == nil && b.DateAdded == nil:
		return 0
	case a.DateAdded == nil:
		return 1
	case b.DateAdded == nil:
		return -1
	case a.DateAdded.Before(*b.DateAdded):
		return -1
	case b.DateAdded.Before(*a.DateAdded):
		return 1
	default:
		return 0
	}
}

// compareBool ranks true ahead of false.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

package service

import (
	"github.com/phm-match-engine/internal/domain"
)

// Septile band boundaries on the donor/recipient PHM ratio, from the
// reference study. Each band is closed below and open above; the first
// band is open below and the last open above, so the seven bands
// partition the positive real line with no gaps or overlaps.
const (
	bandU3Upper = 0.863
	bandU2Upper = 0.929
	bandU1Upper = 0.983
	bandRUpper  = 1.039
	bandO1Upper = 1.111
	bandO2Upper = 1.221
)

// highRiskThreshold is the undersizing risk boundary. It is intentionally
// a separate constant from the 0.863 band edge: the two thresholds come
// from different analyses in the source study and must not be derived
// from one another.
const highRiskThreshold = 0.86

// ClassifyCategory maps a PHM ratio to its septile size-match band.
// Total over all real inputs.
func ClassifyCategory(ratio float64) domain.MatchCategory {
	switch {
	case ratio < bandU3Upper:
		return domain.SEVERELY_UNDERSIZED
	case ratio < bandU2Upper:
		return domain.MODERATELY_UNDERSIZED
	case ratio < bandU1Upper:
		return domain.MILDLY_UNDERSIZED
	case ratio < bandRUpper:
		return domain.WELL_MATCHED
	case ratio < bandO1Upper:
		return domain.MILDLY_OVERSIZED
	case ratio < bandO2Upper:
		return domain.MODERATELY_OVERSIZED
	default:
		return domain.SEVERELY_OVERSIZED
	}
}

// ClassifyRisk maps a PHM ratio to the undersizing risk verdict:
// HIGH_RISK below 0.86, ACCEPTABLE at or above it.
func ClassifyRisk(ratio float64) domain.RiskLevel {
	if ratio < highRiskThreshold {
		return domain.HIGH_RISK
	}
	return domain.ACCEPTABLE
}

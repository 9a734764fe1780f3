// Package domain contains core business entities and types for donor-recipient
// heart size matching using Predicted Heart Mass (PHM).
//
// Reference: Kransdorf et al. (2019) Predicted heart mass is the optimal
// metric for size match in adult heart transplantation.
// J Heart Lung Transplant. 38(2):156-165. doi: 10.1016/j.healun.2018.09.017
package domain

import (
	"errors"
	"strings"
)

// Gender represents the biological sex used by the PHM regression formula.
// The formula coefficients differ by sex, so this must be one of the two
// values the reference study was derived from.
type Gender string

const (
	MALE   Gender = "MALE"
	FEMALE Gender = "FEMALE"
)

// ABOGroup represents the ABO blood group component of a blood type.
type ABOGroup string

const (
	ABO_A  ABOGroup = "A"
	ABO_B  ABOGroup = "B"
	ABO_AB ABOGroup = "AB"
	ABO_O  ABOGroup = "O"
)

// RhFactor represents the Rhesus sign component of a blood type.
type RhFactor string

const (
	RH_POSITIVE RhFactor = "+"
	RH_NEGATIVE RhFactor = "-"
)

// MatchCategory represents one of the seven ordered septile size-match bands
// derived from the PHM ratio thresholds of the reference study.
type MatchCategory string

const (
	SEVERELY_UNDERSIZED   MatchCategory = "U3"
	MODERATELY_UNDERSIZED MatchCategory = "U2"
	MILDLY_UNDERSIZED     MatchCategory = "U1"
	WELL_MATCHED          MatchCategory = "R"
	MILDLY_OVERSIZED      MatchCategory = "O1"
	MODERATELY_OVERSIZED  MatchCategory = "O2"
	SEVERELY_OVERSIZED    MatchCategory = "O3"
)

// RiskLevel represents the undersizing risk verdict for a PHM ratio.
type RiskLevel string

const (
	ACCEPTABLE RiskLevel = "ACCEPTABLE"
	HIGH_RISK  RiskLevel = "HIGH_RISK"
)

// CompatibilityPolicy selects how blood-type compatibility is evaluated.
type CompatibilityPolicy string

const (
	// FULL_CHART applies the standard 8x8 transfusion chart including the
	// Rhesus sign. This is the primary policy.
	FULL_CHART CompatibilityPolicy = "full-chart"

	// ABO_ONLY ignores the Rhesus sign for the compatibility verdict and
	// raises an advisory rhesus-mismatch flag instead.
	ABO_ONLY CompatibilityPolicy = "abo-only"
)

// RankingPolicy selects the comparator chain used to order match records.
type RankingPolicy string

const (
	// CLINICAL orders by compatibility, exact blood-type match, risk level,
	// then proximity of the PHM ratio to 1.0. This is the default policy.
	CLINICAL RankingPolicy = "clinical"

	// WAITLIST orders by compatibility, risk level, waiting-list status,
	// then date added. Exact blood-type match is not considered.
	WAITLIST RankingPolicy = "waitlist"
)

// Validation errors for clinical data integrity
var (
	ErrInvalidGender        = errors.New("invalid gender")
	ErrInvalidBloodType     = errors.New("invalid blood type")
	ErrInvalidMatchCategory = errors.New("invalid match category")
	ErrInvalidRiskLevel     = errors.New("invalid risk level")
	ErrInvalidPolicy        = errors.New("invalid policy")
	ErrRunNotFound          = errors.New("match run not found")
)

// ParseGender parses a gender value case-insensitively. Any value other
// than male/female is rejected because the PHM coefficients are undefined
// for it.
func ParseGender(value string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "MALE", "M":
		return MALE, nil
	case "FEMALE", "F":
		return FEMALE, nil
	default:
		return "", ErrInvalidGender
	}
}

// IsValid validates the gender value.
func (g Gender) IsValid() bool {
	switch g {
	case MALE, FEMALE:
		return true
	default:
		return false
	}
}

// String returns the string representation of the gender.
func (g Gender) String() string {
	return string(g)
}

// IsValid validates the ABO group.
func (a ABOGroup) IsValid() bool {
	switch a {
	case ABO_A, ABO_B, ABO_AB, ABO_O:
		return true
	default:
		return false
	}
}

// IsValid validates the Rhesus factor.
func (r RhFactor) IsValid() bool {
	switch r {
	case RH_POSITIVE, RH_NEGATIVE:
		return true
	default:
		return false
	}
}

// BloodType is one of the 8 ABO/Rhesus combinations. The zero value
// represents an unknown or absent blood type, which is a legal state:
// compatibility lookups degrade to incompatible rather than failing.
type BloodType struct {
	Group ABOGroup `json:"group"`
	Rh    RhFactor `json:"rh"`
}

// Known reports whether the blood type carries an actual value.
func (bt BloodType) Known() bool {
	return bt.Group != "" && bt.Rh != ""
}

// IsValid validates the blood type. An unknown (zero) blood type is not
// valid on its own; callers that allow absence must check Known first.
func (bt BloodType) IsValid() bool {
	return bt.Group.IsValid() && bt.Rh.IsValid()
}

// String returns the literal combination, e.g. "A+" or "AB-".
// Unknown blood types render as "unknown" for logging and reports.
func (bt BloodType) String() string {
	if !bt.Known() {
		return "unknown"
	}
	return string(bt.Group) + string(bt.Rh)
}

// Equal reports literal equality of two known blood types. Unknown types
// are never equal to anything, including each other.
func (bt BloodType) Equal(other BloodType) bool {
	if !bt.Known() || !other.Known() {
		return false
	}
	return bt.Group == other.Group && bt.Rh == other.Rh
}

// IsValid validates that the category is one of the seven septile bands.
func (mc MatchCategory) IsValid() bool {
	switch mc {
	case SEVERELY_UNDERSIZED, MODERATELY_UNDERSIZED, MILDLY_UNDERSIZED,
		WELL_MATCHED, MILDLY_OVERSIZED, MODERATELY_OVERSIZED, SEVERELY_OVERSIZED:
		return true
	default:
		return false
	}
}

// String returns the short band code.
func (mc MatchCategory) String() string {
	return string(mc)
}

// Description returns a human-readable description of the size-match band
// for clinical reporting.
func (mc MatchCategory) Description() string {
	switch mc {
	case SEVERELY_UNDERSIZED:
		return "Severely Undersized"
	case MODERATELY_UNDERSIZED:
		return "Moderately Undersized"
	case MILDLY_UNDERSIZED:
		return "Mildly Undersized"
	case WELL_MATCHED:
		return "Well-Matched"
	case MILDLY_OVERSIZED:
		return "Mildly Oversized"
	case MODERATELY_OVERSIZED:
		return "Moderately Oversized"
	case SEVERELY_OVERSIZED:
		return "Severely Oversized"
	default:
		return "Unknown category"
	}
}

// LogFields returns structured logging fields for audit trails.
func (mc MatchCategory) LogFields() map[string]any {
	return map[string]any{
		"match_category": string(mc),
		"description":    mc.Description(),
		"is_valid":       mc.IsValid(),
	}
}

// IsValid validates the risk level.
func (rl RiskLevel) IsValid() bool {
	switch rl {
	case ACCEPTABLE, HIGH_RISK:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (rl RiskLevel) String() string {
	return string(rl)
}

// RequiresClinicalReview determines if the risk level requires clinical
// follow-up before the match can be acted on.
func (rl RiskLevel) RequiresClinicalReview() bool {
	switch rl {
	case ACCEPTABLE:
		return false
	default:
		return true // Conservative approach for high-risk and unknown levels
	}
}

// IsValid validates the compatibility policy.
func (cp CompatibilityPolicy) IsValid() bool {
	switch cp {
	case FULL_CHART, ABO_ONLY:
		return true
	default:
		return false
	}
}

// String returns the string representation of the compatibility policy.
func (cp CompatibilityPolicy) String() string {
	return string(cp)
}

// IsValid validates the ranking policy.
func (rp RankingPolicy) IsValid() bool {
	switch rp {
	case CLINICAL, WAITLIST:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ranking policy.
func (rp RankingPolicy) String() string {
	return string(rp)
}

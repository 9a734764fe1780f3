package service

import (
	"github.com/phm-match-engine/internal/domain"
)

// fullChart is the standard 8x8 transfusion compatibility table, keyed by
// recipient type, listing every donor type that may donate to it.
// O- is the universal donor; AB+ the universal recipient.
var fullChart = map[domain.BloodType][]domain.BloodType{
	{Group: domain.ABO_O, Rh: domain.RH_NEGATIVE}: {
		{Group: domain.ABO_O, Rh: domain.RH_NEGATIVE},
	},
	{Group: domain.ABO_O, Rh: domain.RH_POSITIVE}: {
		{Group: domain.ABO_O, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_O, Rh: domain.RH_POSITIVE},
	},
	{Group: domain.ABO_A, Rh: domain.RH_NEGATIVE}: {
		{Group: domain.ABO_A, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_O, Rh: domain.RH_NEGATIVE},
	},
	{Group: domain.ABO_A, Rh: domain.RH_POSITIVE}: {
		{Group: domain.ABO_A, Rh: domain.RH_POSITIVE},
		{Group: domain.ABO_A, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_O, Rh: domain.RH_POSITIVE},
		{Group: domain.ABO_O, Rh: domain.RH_NEGATIVE},
	},
	{Group: domain.ABO_B, Rh: domain.RH_NEGATIVE}: {
		{Group: domain.ABO_B, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_O, Rh: domain.RH_NEGATIVE},
	},
	{Group: domain.ABO_B, Rh: domain.RH_POSITIVE}: {
		{Group: domain.ABO_B, Rh: domain.RH_POSITIVE},
		{Group: domain.ABO_B, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_O, Rh: domain.RH_POSITIVE},
		{Group: domain.ABO_O, Rh: domain.RH_NEGATIVE},
	},
	{Group: domain.ABO_AB, Rh: domain.RH_NEGATIVE}: {
		{Group: domain.ABO_AB, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_A, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_B, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_O, Rh: domain.RH_NEGATIVE},
	},
	{Group: domain.ABO_AB, Rh: domain.RH_POSITIVE}: {
		{Group: domain.ABO_AB, Rh: domain.RH_POSITIVE},
		{Group: domain.ABO_AB, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_A, Rh: domain.RH_POSITIVE},
		{Group: domain.ABO_A, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_B, Rh: domain.RH_POSITIVE},
		{Group: domain.ABO_B, Rh: domain.RH_NEGATIVE},
		{Group: domain.ABO_O, Rh: domain.RH_POSITIVE},
		{Group: domain.ABO_O, Rh: domain.RH_NEGATIVE},
	},
}

// aboChart lists compatible donor ABO groups per recipient ABO group,
// ignoring the Rhesus sign. Used by the ABO-only policy.
var aboChart = map[domain.ABOGroup][]domain.ABOGroup{
	domain.ABO_O:  {domain.ABO_O},
	domain.ABO_A:  {domain.ABO_A, domain.ABO_O},
	domain.ABO_B:  {domain.ABO_B, domain.ABO_O},
	domain.ABO_AB: {domain.ABO_AB, domain.ABO_A, domain.ABO_B, domain.ABO_O},
}

// CompatibilityEvaluator evaluates donor-to-recipient blood-type
// compatibility under a selectable policy. Lookups never fail: an unknown
// or absent blood type on either side degrades to incompatible, since
// compatibility is advisory at this layer, not safety-critical.
type CompatibilityEvaluator struct {
	policy domain.CompatibilityPolicy
}

// NewCompatibilityEvaluator creates an evaluator for the given policy.
// An invalid policy falls back to the primary full-chart policy.
func NewCompatibilityEvaluator(policy domain.CompatibilityPolicy) *CompatibilityEvaluator {
	if !policy.IsValid() {
		policy = domain.FULL_CHART
	}
	return &CompatibilityEvaluator{policy: policy}
}

// Policy returns the policy this evaluator applies.
func (e *CompatibilityEvaluator) Policy() domain.CompatibilityPolicy {
	return e.policy
}

// IsCompatible reports whether the donor type may donate to the recipient
// type under the evaluator's policy. Returns false, never an error, when
// either type is unknown.
func (e *CompatibilityEvaluator) IsCompatible(donor, recipient domain.BloodType) bool {
	if !donor.Known() || !recipient.Known() {
		return false
	}

	switch e.policy {
	case domain.ABO_ONLY:
		for _, group := range aboChart[recipient.Group] {
			if donor.Group == group {
				return true
			}
		}
		return false
	default:
		for _, allowed := range fullChart[recipient] {
			if donor.Equal(allowed) {
				return true
			}
		}
		return false
	}
}

// IsExactMatch reports literal equality of the two blood types,
// independent of compatibility. Unknown types never match exactly.
func (e *CompatibilityEvaluator) IsExactMatch(donor, recipient domain.BloodType) bool {
	return donor.Equal(recipient)
}

// RhesusMismatch reports the advisory flag of the ABO-only policy: the
// recipient is Rh-negative while the donor is Rh-positive. The flag never
// blocks a match. Under the full-chart policy it is always false, since
// the chart already excludes that pairing.
func (e *CompatibilityEvaluator) RhesusMismatch(donor, recipient domain.BloodType) bool {
	if e.policy != domain.ABO_ONLY {
		return false
	}
	if !donor.Known() || !recipient.Known() {
		return false
	}
	return recipient.Rh == domain.RH_NEGATIVE && donor.Rh == domain.RH_POSITIVE
}

package domain

import (
	"math"
	"time"
)

// Waiting-list status bounds. 1 is the most urgent, 7 the least.
// DefaultStatus is assigned when the upstream roster did not supply one.
const (
	HighestStatus = 1
	LowestStatus  = 7
	DefaultStatus = LowestStatus
)

// BiometricProfile holds the anthropometric inputs of the PHM regression.
// Height is unit-ambiguous on purpose: values above 3 are centimeters,
// otherwise meters. The calculator owns that normalization rule.
// Immutable once constructed for a given calculation.
type BiometricProfile struct {
	Gender Gender  `json:"gender" validate:"required"`
	Age    float64 `json:"age" validate:"gt=0"`    // years
	Height float64 `json:"height" validate:"gt=0"` // cm or m, see calculator
	Weight float64 `json:"weight" validate:"gt=0"` // kg
}

// Validate ensures the profile meets the requirements of the PHM formula.
// Every numeric field must be a finite positive number: NaN and infinities
// parse as floats upstream but poison every power term, and age zero
// diverges because the right-ventricular term raises age to a negative
// exponent. Returns *InvalidInputError naming the offending field.
func (p *BiometricProfile) Validate() error {
	if !p.Gender.IsValid() {
		return NewInvalidInputError("gender", "gender must be male or female", string(p.Gender))
	}
	if !isFinitePositive(p.Age) {
		return NewInvalidInputError("age", "age must be a finite positive number", p.Age)
	}
	if !isFinitePositive(p.Height) {
		return NewInvalidInputError("height", "height must be a finite positive number", p.Height)
	}
	if !isFinitePositive(p.Weight) {
		return NewInvalidInputError("weight", "weight must be a finite positive number", p.Weight)
	}
	return nil
}

// isFinitePositive also rejects NaN, which fails the comparison on its own.
func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Donor represents the organ donor. Exactly one donor participates in a
// single matching run.
type Donor struct {
	Name      string           `json:"name"`
	Profile   BiometricProfile `json:"profile"`
	BloodType BloodType        `json:"blood_type,omitempty"` // zero value means unknown
}

// Validate ensures the donor can be matched against. An incomplete donor
// is fatal to the whole run, so this is checked before any computation.
func (d *Donor) Validate() error {
	if err := d.Profile.Validate(); err != nil {
		return err
	}
	if d.BloodType.Known() && !d.BloodType.IsValid() {
		return NewInvalidInputError("blood_type", "malformed blood type", d.BloodType.String())
	}
	return nil
}

// Recipient represents one candidate on the waiting list.
// BloodType, Status and DateAdded are optional: the engine must run
// correctly when the upstream roster did not supply them.
type Recipient struct {
	ID        string           `json:"id" validate:"required"` // hospital/patient id
	Name      string           `json:"name"`
	Profile   BiometricProfile `json:"profile"`
	BloodType BloodType        `json:"blood_type,omitempty"`
	Status    int              `json:"status,omitempty"` // 1..7, 0 means not supplied
	DateAdded *time.Time       `json:"date_added,omitempty"`
}

// Validate ensures the recipient record conforms to the typed contract.
// A failure here is non-fatal to the batch; the match builder skips the
// record and reports it.
func (r *Recipient) Validate() error {
	if r.ID == "" {
		return NewInvalidInputError("id", "recipient ID is required", r.ID)
	}
	if err := r.Profile.Validate(); err != nil {
		return err
	}
	if r.BloodType.Known() && !r.BloodType.IsValid() {
		return NewInvalidInputError("blood_type", "malformed blood type", r.BloodType.String())
	}
	if r.Status != 0 && (r.Status < HighestStatus || r.Status > LowestStatus) {
		return NewInvalidInputError("status", "status out of range", r.Status)
	}
	return nil
}

// EffectiveStatus returns the waiting-list status, defaulting to the
// lowest priority when the roster did not supply one.
func (r *Recipient) EffectiveStatus() int {
	if r.Status == 0 {
		return DefaultStatus
	}
	return r.Status
}

// MatchRecord is the enriched per-recipient result of one matching run.
// It is created fresh for every run, owned by that run's output list, and
// never mutated after construction; the ranker only reorders the list.
type MatchRecord struct {
	Recipient Recipient `json:"recipient"`

	DonorPHM     float64 `json:"donor_phm"`     // grams
	RecipientPHM float64 `json:"recipient_phm"` // grams
	PHMRatio     float64 `json:"phm_ratio"`     // donor / recipient, 1.0 = ideal

	Category MatchCategory `json:"match_category"`
	Risk     RiskLevel     `json:"risk_level"`

	BloodTypeCompatible bool `json:"blood_type_compatible"`
	ExactBloodTypeMatch bool `json:"exact_blood_type_match"`

	// RhesusMismatch is an advisory flag only raised under the ABO-only
	// compatibility policy; it never affects the compatibility verdict.
	RhesusMismatch bool `json:"rhesus_mismatch,omitempty"`

	Status    int        `json:"status"`
	DateAdded *time.Time `json:"date_added,omitempty"`
}

// LogFields returns structured logging fields for audit trails.
func (m *MatchRecord) LogFields() map[string]any {
	return map[string]any{
		"recipient_id":   m.Recipient.ID,
		"phm_ratio":      m.PHMRatio,
		"match_category": m.Category.String(),
		"risk_level":     m.Risk.String(),
		"compatible":     m.BloodTypeCompatible,
		"exact_match":    m.ExactBloodTypeMatch,
	}
}

// MatchResult is the complete outcome of one matching run: the ranked
// records plus the manifest of skipped recipients.
type MatchResult struct {
	RunID     string    `json:"run_id"`
	DonorName string    `json:"donor_name"`
	DonorPHM  float64   `json:"donor_phm"`
	CreatedAt time.Time `json:"created_at"`

	CompatibilityPolicy CompatibilityPolicy `json:"compatibility_policy"`
	RankingPolicy       RankingPolicy       `json:"ranking_policy"`

	Records []MatchRecord   `json:"records"`
	Skipped []SkippedRecord `json:"skipped,omitempty"`

	ProcessingTime time.Duration `json:"processing_time"`
}

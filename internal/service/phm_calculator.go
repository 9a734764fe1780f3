// Package service implements the donor-recipient matching engine: PHM
// computation, ratio classification, blood-type compatibility, match
// building, and ranking.
package service

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/phm-match-engine/internal/domain"
)

// PHM regression coefficients and exponents from the reference study.
// Left-ventricular mass term:
//
//	LVM = Clvm(sex) * height_m^0.54 * weight_kg^0.61
//
// Right-ventricular mass term:
//
//	RVM = Crvm(sex) * age_y^-0.32 * height_m^1.135 * weight_kg^0.315
//
// PHM = LVM + RVM, in grams.
const (
	lvmCoefficientFemale = 6.82
	lvmCoefficientMale   = 8.25
	lvmHeightExponent    = 0.54
	lvmWeightExponent    = 0.61

	rvmCoefficientFemale = 10.59
	rvmCoefficientMale   = 11.25
	rvmAgeExponent       = -0.32
	rvmHeightExponent    = 1.135
	rvmWeightExponent    = 0.315
)

// heightCentimeterThreshold is the sole unit-disambiguation rule for the
// height input: values above it are centimeters, otherwise meters.
// No human is 3 m tall and no adult is 3 cm tall, so the rule has no
// fallback.
const heightCentimeterThreshold = 3.0

// PHMCalculator computes Predicted Heart Mass from a biometric profile.
// It is a pure calculation service: no I/O, no shared state.
type PHMCalculator struct {
	logger *logrus.Logger
}

// NewPHMCalculator creates a new PHM calculator service
func NewPHMCalculator(logger *logrus.Logger) *PHMCalculator {
	return &PHMCalculator{logger: logger}
}

// Compute maps a biometric profile to its predicted heart mass in grams.
// The result is strictly positive for valid inputs: every multiplicative
// term is a positive base raised to a real exponent.
//
// Returns *domain.InvalidInputError when age, height, or weight is
// non-positive or non-finite, or the gender is unrecognized. No rounding
// is applied; presentation rounding belongs to the report layer.
func (c *PHMCalculator) Compute(profile domain.BiometricProfile) (float64, error) {
	if err := profile.Validate(); err != nil {
		return 0, err
	}

	heightM := normalizeHeightMeters(profile.Height)

	var lvmCoefficient, rvmCoefficient float64
	switch profile.Gender {
	case domain.FEMALE:
		lvmCoefficient = lvmCoefficientFemale
		rvmCoefficient = rvmCoefficientFemale
	case domain.MALE:
		lvmCoefficient = lvmCoefficientMale
		rvmCoefficient = rvmCoefficientMale
	}

	lvm := lvmCoefficient *
		math.Pow(heightM, lvmHeightExponent) *
		math.Pow(profile.Weight, lvmWeightExponent)

	rvm := rvmCoefficient *
		math.Pow(profile.Age, rvmAgeExponent) *
		math.Pow(heightM, rvmHeightExponent) *
		math.Pow(profile.Weight, rvmWeightExponent)

	phm := lvm + rvm

	c.logger.WithFields(logrus.Fields{
		"gender":   profile.Gender.String(),
		"height_m": heightM,
		"lvm":      lvm,
		"rvm":      rvm,
		"phm":      phm,
	}).Debug("Computed predicted heart mass")

	return phm, nil
}

// normalizeHeightMeters converts the unit-ambiguous height input to meters.
func normalizeHeightMeters(height float64) float64 {
	if height > heightCentimeterThreshold {
		return height / 100.0
	}
	return height
}

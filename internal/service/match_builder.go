package service

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/phm-match-engine/internal/domain"
)

// MatchBuilder combines the PHM calculator, classifier, and compatibility
// evaluator into enriched per-recipient match records.
type MatchBuilder struct {
	logger     *logrus.Logger
	calculator *PHMCalculator
	compat     *CompatibilityEvaluator
}

// NewMatchBuilder creates a new match builder
func NewMatchBuilder(logger *logrus.Logger, calculator *PHMCalculator, compat *CompatibilityEvaluator) *MatchBuilder {
	return &MatchBuilder{
		logger:     logger,
		calculator: calculator,
		compat:     compat,
	}
}

// BuildMatches computes one match record per well-formed recipient.
//
// The donor profile is validated first and its PHM computed exactly once;
// an incomplete donor is fatal (*domain.ValidationError) because there is
// nothing to rank against. A malformed individual recipient does not abort
// the run: it is skipped and reported in the returned manifest, so one bad
// row cannot block an otherwise valid batch.
func (b *MatchBuilder) BuildMatches(donor domain.Donor, recipients []domain.Recipient) ([]domain.MatchRecord, []domain.SkippedRecord, float64, error) {
	if err := donor.Validate(); err != nil {
		var invalid *domain.InvalidInputError
		if errors.As(err, &invalid) {
			return nil, nil, 0, domain.NewValidationError(invalid.Field, "donor "+invalid.Message, invalid.Value)
		}
		return nil, nil, 0, err
	}

	donorPHM, err := b.calculator.Compute(donor.Profile)
	if err != nil {
		return nil, nil, 0, err
	}

	records := make([]domain.MatchRecord, 0, len(recipients))
	skipped := make([]domain.SkippedRecord, 0)

	for _, recipient := range recipients {
		record, err := b.buildRecord(donor, recipient, donorPHM)
		if err != nil {
			entry := domain.SkippedRecord{
				RecipientID:   recipient.ID,
				RecipientName: recipient.Name,
				Reason:        err.Error(),
			}
			var invalid *domain.InvalidInputError
			if errors.As(err, &invalid) {
				entry.Field = invalid.Field
				entry.Reason = invalid.Message
			}
			skipped = append(skipped, entry)

			b.logger.WithFields(logrus.Fields{
				"recipient_id": recipient.ID,
				"field":        entry.Field,
				"reason":       entry.Reason,
			}).Warn("Skipping malformed recipient record")
			continue
		}
		records = append(records, record)
	}

	b.logger.WithFields(logrus.Fields{
		"donor_phm":     donorPHM,
		"total_records": len(records),
		"skipped":       len(skipped),
	}).Info("Built match records")

	return records, skipped, donorPHM, nil
}

// buildRecord computes the enriched record for a single recipient. The
// full typed contract is enforced through Recipient.Validate, so every
// malformed field ends up in the skip manifest with its field name.
// Status and dateAdded are carried through unchanged, with status
// defaulting to the lowest priority when absent.
func (b *MatchBuilder) buildRecord(donor domain.Donor, recipient domain.Recipient, donorPHM float64) (domain.MatchRecord, error) {
	if err := recipient.Validate(); err != nil {
		return domain.MatchRecord{}, err
	}

	recipientPHM, err := b.calculator.Compute(recipient.Profile)
	if err != nil {
		return domain.MatchRecord{}, err
	}

	ratio := donorPHM / recipientPHM

	return domain.MatchRecord{
		Recipient:           recipient,
		DonorPHM:            donorPHM,
		RecipientPHM:        recipientPHM,
		PHMRatio:            ratio,
		Category:            ClassifyCategory(ratio),
		Risk:                ClassifyRisk(ratio),
		BloodTypeCompatible: b.compat.IsCompatible(donor.BloodType, recipient.BloodType),
		ExactBloodTypeMatch: b.compat.IsExactMatch(donor.BloodType, recipient.BloodType),
		RhesusMismatch:      b.compat.RhesusMismatch(donor.BloodType, recipient.BloodType),
		Status:              recipient.EffectiveStatus(),
		DateAdded:           recipient.DateAdded,
	}, nil
}

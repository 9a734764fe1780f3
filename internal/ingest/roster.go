// Package ingest reads recipient waiting-list rosters from CSV exports.
// It owns every coercion concern the engine refuses to deal with: header
// discovery and case folding, numeric parsing, date parsing, and
// blood-type normalization. Rows it cannot salvage are reported, never
// fatal, so one bad row cannot block an otherwise valid file.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/phm-match-engine/internal/domain"
	"github.com/phm-match-engine/pkg/bloodtype"
)

// headerAliases maps the canonical column names to the header spellings
// seen in hospital exports. Matching is case-insensitive after trimming.
var headerAliases = map[string][]string{
	"id":         {"id", "patient id", "patient_id", "hospital id", "hospital_id", "mrn"},
	"name":       {"name", "patient name", "patient_name", "full name"},
	"gender":     {"gender", "sex"},
	"age":        {"age", "age years", "age_years"},
	"height":     {"height", "height cm", "height_cm", "height m", "height_m"},
	"weight":     {"weight", "weight kg", "weight_kg"},
	"blood_type": {"blood type", "blood_type", "bloodtype", "abo", "abo rh", "abo_rh"},
	"status":     {"status", "priority", "urgency"},
	"date_added": {"date added", "date_added", "listed", "listing date", "listing_date", "date listed"},
}

// dateLayouts are tried in order when parsing the date-added column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// RosterReader parses recipient rosters into typed Recipient values.
type RosterReader struct {
	logger *logrus.Logger
}

// NewRosterReader creates a new roster reader
func NewRosterReader(logger *logrus.Logger) *RosterReader {
	return &RosterReader{logger: logger}
}

// Read parses a CSV roster. It returns the well-formed recipients in file
// order plus a manifest of rows that had to be dropped. Only a structural
// failure (unreadable header, missing mandatory columns) is returned as
// an error.
func (r *RosterReader) Read(reader io.Reader) ([]domain.Recipient, []domain.SkippedRecord, error) {
	cr := csv.NewReader(reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to read roster header: %w", domain.ErrIngestion, err)
	}

	columns, err := discoverColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var recipients []domain.Recipient
	var dropped []domain.SkippedRecord

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			dropped = append(dropped, domain.SkippedRecord{
				RecipientID: fmt.Sprintf("line %d", line),
				Reason:      fmt.Sprintf("unparseable row: %v", err),
			})
			continue
		}

		recipient, rowErr := r.parseRow(columns, row)
		if rowErr != nil {
			dropped = append(dropped, domain.SkippedRecord{
				RecipientID:   cellOr(columns, row, "id", fmt.Sprintf("line %d", line)),
				RecipientName: cellOr(columns, row, "name", ""),
				Reason:        rowErr.Error(),
			})
			r.logger.WithFields(logrus.Fields{
				"line":   line,
				"reason": rowErr.Error(),
			}).Warn("Dropping malformed roster row")
			continue
		}
		recipients = append(recipients, recipient)
	}

	r.logger.WithFields(logrus.Fields{
		"recipients": len(recipients),
		"dropped":    len(dropped),
	}).Info("Parsed recipient roster")

	return recipients, dropped, nil
}

// discoverColumns maps canonical column names to their index in the
// header row. The mandatory biometric columns must all be present.
func discoverColumns(header []string) (map[string]int, error) {
	folded := make(map[string]int, len(header))
	for i, h := range header {
		folded[strings.ToLower(strings.TrimSpace(h))] = i
	}

	columns := make(map[string]int)
	for canonical, aliases := range headerAliases {
		for _, alias := range aliases {
			if idx, ok := folded[alias]; ok {
				columns[canonical] = idx
				break
			}
		}
	}

	for _, required := range []string{"id", "gender", "age", "height", "weight"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%s: roster is missing required column %q", domain.ErrIngestion, required)
		}
	}

	return columns, nil
}

// parseRow coerces one CSV row into a typed Recipient. Mandatory fields
// that fail to parse drop the row; malformed optional fields are left
// absent instead.
func (r *RosterReader) parseRow(columns map[string]int, row []string) (domain.Recipient, error) {
	id := cellOr(columns, row, "id", "")
	if id == "" {
		return domain.Recipient{}, fmt.Errorf("missing patient id")
	}

	gender, err := domain.ParseGender(cellOr(columns, row, "gender", ""))
	if err != nil {
		return domain.Recipient{}, fmt.Errorf("field gender: %w", err)
	}

	age, err := parseFloatCell(columns, row, "age")
	if err != nil {
		return domain.Recipient{}, err
	}
	height, err := parseFloatCell(columns, row, "height")
	if err != nil {
		return domain.Recipient{}, err
	}
	weight, err := parseFloatCell(columns, row, "weight")
	if err != nil {
		return domain.Recipient{}, err
	}

	recipient := domain.Recipient{
		ID:   id,
		Name: cellOr(columns, row, "name", ""),
		Profile: domain.BiometricProfile{
			Gender: gender,
			Age:    age,
			Height: height,
			Weight: weight,
		},
	}

	if raw := cellOr(columns, row, "blood_type", ""); raw != "" {
		bt, err := bloodtype.Parse(raw)
		if err != nil {
			r.logger.WithField("value", raw).Warn("Unrecognized blood type, treating as unknown")
		} else {
			recipient.BloodType = bt
		}
	}

	if raw := cellOr(columns, row, "status", ""); raw != "" {
		status, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || status < domain.HighestStatus || status > domain.LowestStatus {
			r.logger.WithField("value", raw).Warn("Unrecognized status, leaving unset")
		} else {
			recipient.Status = status
		}
	}

	if raw := cellOr(columns, row, "date_added", ""); raw != "" {
		if added, ok := parseDate(raw); ok {
			recipient.DateAdded = &added
		} else {
			r.logger.WithField("value", raw).Warn("Unrecognized date added, leaving unset")
		}
	}

	return recipient, nil
}

// parseDate tries each supported layout in order.
func parseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseFloatCell parses a mandatory numeric column. ParseFloat accepts
// "NaN" and "Inf" spellings, which are never valid biometrics, so those
// are rejected here along with anything non-numeric.
func parseFloatCell(columns map[string]int, row []string, name string) (float64, error) {
	raw := cellOr(columns, row, name, "")
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("field %s: not a finite number: %q", name, raw)
	}
	return value, nil
}

// cellOr returns the trimmed cell under the canonical column name, or the
// fallback when the column is absent or the row is short.
func cellOr(columns map[string]int, row []string, name, fallback string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return fallback
	}
	value := strings.TrimSpace(row[idx])
	if value == "" {
		return fallback
	}
	return value
}

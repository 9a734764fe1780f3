// Package bloodtype parses blood-type notation as it appears in hospital
// spreadsheets into the engine's typed representation. It tolerates the
// spellings that show up in practice: "A+", "ab pos", "0-", "O NEG",
// "AB Positive".
package bloodtype

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phm-match-engine/internal/domain"
)

// bloodTypePattern matches an ABO group followed by a Rhesus sign in any
// of the common spellings. The digit zero is accepted for the O group
// because it is a frequent spreadsheet typo (and the standard notation in
// several European countries).
var bloodTypePattern = regexp.MustCompile(`^(AB|A|B|O|0)\s*(\+|-|POS|NEG|POSITIVE|NEGATIVE)$`)

// Parse parses a blood-type string into a domain.BloodType.
// An empty or whitespace-only input parses to the unknown (zero) blood
// type without error, since absence is a legal state for the engine.
func Parse(input string) (domain.BloodType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	if normalized == "" {
		return domain.BloodType{}, nil
	}

	matches := bloodTypePattern.FindStringSubmatch(normalized)
	if matches == nil {
		return domain.BloodType{}, fmt.Errorf("%s: unrecognized blood type %q", domain.ErrBloodTypeCode, input)
	}

	group := domain.ABOGroup(matches[1])
	if matches[1] == "0" {
		group = domain.ABO_O
	}

	var rh domain.RhFactor
	switch matches[2] {
	case "+", "POS", "POSITIVE":
		rh = domain.RH_POSITIVE
	case "-", "NEG", "NEGATIVE":
		rh = domain.RH_NEGATIVE
	}

	return domain.BloodType{Group: group, Rh: rh}, nil
}

// MustParse parses a blood-type string and panics on failure. Intended
// for constants and tests.
func MustParse(input string) domain.BloodType {
	bt, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return bt
}

// Normalize returns the canonical spelling ("A+", "AB-") for a parseable
// input, or an error for anything unrecognized.
func Normalize(input string) (string, error) {
	bt, err := Parse(input)
	if err != nil {
		return "", err
	}
	if !bt.Known() {
		return "", nil
	}
	return bt.String(), nil
}

package ingest

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phm-match-engine/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const sampleRoster = `Patient ID,Name,Sex,Age,Height,Weight,Blood Type,Priority,Date Added
H-1001,Jane Smith,female,52,165,64,AB+,2,2024-03-15
H-1002,John Doe,MALE,47,1.82,88,o neg,,
H-1003,Bad Row,male,not-a-number,180,80,A+,1,2024-01-02
H-1004,Odd Extras,female,61,158,70,klingon,9,someday
`

func TestRosterReader_Read(t *testing.T) {
	reader := NewRosterReader(testLogger())

	recipients, dropped, err := reader.Read(strings.NewReader(sampleRoster))
	require.NoError(t, err)

	require.Len(t, recipients, 3)
	require.Len(t, dropped, 1)

	// Row with the unparseable age is dropped and reported.
	assert.Equal(t, "H-1003", dropped[0].RecipientID)
	assert.Contains(t, dropped[0].Reason, "age")

	first := recipients[0]
	assert.Equal(t, "H-1001", first.ID)
	assert.Equal(t, "Jane Smith", first.Name)
	assert.Equal(t, domain.FEMALE, first.Profile.Gender)
	assert.Equal(t, 52.0, first.Profile.Age)
	assert.Equal(t, 165.0, first.Profile.Height)
	assert.Equal(t, 64.0, first.Profile.Weight)
	assert.Equal(t, "AB+", first.BloodType.String())
	assert.Equal(t, 2, first.Status)
	require.NotNil(t, first.DateAdded)
	assert.True(t, first.DateAdded.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))

	// Optional columns may be empty; blood type spellings are normalized.
	second := recipients[1]
	assert.Equal(t, "O-", second.BloodType.String())
	assert.Equal(t, 0, second.Status)
	assert.Nil(t, second.DateAdded)

	// Malformed optional fields degrade to absent instead of dropping the row.
	third := recipients[2]
	assert.Equal(t, "H-1004", third.ID)
	assert.False(t, third.BloodType.Known())
	assert.Equal(t, 0, third.Status)
	assert.Nil(t, third.DateAdded)
}

func TestRosterReader_HeaderAliases(t *testing.T) {
	reader := NewRosterReader(testLogger())

	csv := `MRN,GENDER,age,HEIGHT_CM,weight kg
42,male,33,178,75
`
	recipients, dropped, err := reader.Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, dropped)
	require.Len(t, recipients, 1)
	assert.Equal(t, "42", recipients[0].ID)
	assert.Equal(t, domain.MALE, recipients[0].Profile.Gender)
}

func TestRosterReader_MissingRequiredColumn(t *testing.T) {
	reader := NewRosterReader(testLogger())

	csv := `id,name,age,height,weight
1,No Gender,40,170,70
`
	_, _, err := reader.Read(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrIngestion)
	assert.Contains(t, err.Error(), "gender")
}

// ParseFloat accepts "NaN" and "Inf" spellings; those rows must be
// dropped like any other unparseable biometric.
func TestRosterReader_NonFiniteNumbersDropped(t *testing.T) {
	reader := NewRosterReader(testLogger())

	csv := `id,gender,age,height,weight
R1,male,NaN,180,80
R2,female,44,+Inf,70
R3,male,44,180,80
`
	recipients, dropped, err := reader.Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "R3", recipients[0].ID)
	require.Len(t, dropped, 2)
	assert.Contains(t, dropped[0].Reason, "age")
	assert.Contains(t, dropped[1].Reason, "height")
}

func TestRosterReader_MissingID(t *testing.T) {
	reader := NewRosterReader(testLogger())

	csv := `id,gender,age,height,weight
,female,40,170,70
X-1,female,41,172,72
`
	recipients, dropped, err := reader.Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "X-1", recipients[0].ID)
	require.Len(t, dropped, 1)
	assert.Contains(t, dropped[0].Reason, "missing patient id")
}

func TestRosterReader_EmptyInput(t *testing.T) {
	reader := NewRosterReader(testLogger())

	_, _, err := reader.Read(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrIngestion)
}

func TestParseDate_Layouts(t *testing.T) {
	for _, raw := range []string{"2024-03-15", "15/03/2024", "15 Mar 2024", "Mar 15, 2024"} {
		parsed, ok := parseDate(raw)
		assert.True(t, ok, "layout %q", raw)
		assert.Equal(t, 2024, parsed.Year())
	}

	_, ok := parseDate("the ides of March")
	assert.False(t, ok)
}

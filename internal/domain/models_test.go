package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() BiometricProfile {
	return BiometricProfile{Gender: FEMALE, Age: 50, Height: 165, Weight: 65}
}

func TestBiometricProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BiometricProfile)
		wantErr bool
	}{
		{"Valid profile", func(p *BiometricProfile) {}, false},
		{"Height in meters is valid", func(p *BiometricProfile) { p.Height = 1.65 }, false},
		{"Missing gender", func(p *BiometricProfile) { p.Gender = "" }, true},
		{"Unrecognized gender", func(p *BiometricProfile) { p.Gender = "X" }, true},
		{"Zero age", func(p *BiometricProfile) { p.Age = 0 }, true},
		{"Negative height", func(p *BiometricProfile) { p.Height = -170 }, true},
		{"Zero weight", func(p *BiometricProfile) { p.Weight = 0 }, true},
		{"NaN age", func(p *BiometricProfile) { p.Age = math.NaN() }, true},
		{"Infinite weight", func(p *BiometricProfile) { p.Weight = math.Inf(1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := validProfile()
			tt.mutate(&profile)
			err := profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDonor_Validate(t *testing.T) {
	donor := Donor{Name: "D", Profile: validProfile()}
	require.NoError(t, donor.Validate())

	// Unknown blood type is allowed.
	donor.BloodType = BloodType{}
	require.NoError(t, donor.Validate())

	// A present but malformed blood type is not.
	donor.BloodType = BloodType{Group: "C", Rh: RH_POSITIVE}
	assert.Error(t, donor.Validate())

	donor.BloodType = BloodType{Group: ABO_O, Rh: RH_NEGATIVE}
	donor.Profile.Age = 0
	assert.Error(t, donor.Validate())
}

func TestRecipient_Validate(t *testing.T) {
	recipient := Recipient{ID: "R1", Profile: validProfile()}
	require.NoError(t, recipient.Validate())

	recipient.ID = ""
	assert.Error(t, recipient.Validate())

	recipient.ID = "R1"
	recipient.Status = 8
	assert.Error(t, recipient.Validate())

	recipient.Status = LowestStatus
	assert.NoError(t, recipient.Validate())
}

func TestRecipient_EffectiveStatus(t *testing.T) {
	recipient := Recipient{ID: "R1", Profile: validProfile()}
	assert.Equal(t, DefaultStatus, recipient.EffectiveStatus())

	recipient.Status = 1
	assert.Equal(t, 1, recipient.EffectiveStatus())
}

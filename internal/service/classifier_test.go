package service

import (
	"testing"

	"github.com/phm-match-engine/internal/domain"
)

func TestClassifyCategory_Bands(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  domain.MatchCategory
	}{
		{"Deep undersizing", 0.5, domain.SEVERELY_UNDERSIZED},
		{"Just below U3 boundary", 0.8629999, domain.SEVERELY_UNDERSIZED},
		{"U3 boundary belongs to U2", 0.863, domain.MODERATELY_UNDERSIZED},
		{"Just below U2 boundary", 0.9289999, domain.MODERATELY_UNDERSIZED},
		{"U2 boundary belongs to U1", 0.929, domain.MILDLY_UNDERSIZED},
		{"Just below U1 boundary", 0.9829999, domain.MILDLY_UNDERSIZED},
		{"U1 boundary belongs to R", 0.983, domain.WELL_MATCHED},
		{"Ideal ratio", 1.0, domain.WELL_MATCHED},
		{"Just below R boundary", 1.0389999, domain.WELL_MATCHED},
		{"R boundary belongs to O1", 1.039, domain.MILDLY_OVERSIZED},
		{"O1 boundary belongs to O2", 1.111, domain.MODERATELY_OVERSIZED},
		{"Just below O2 boundary", 1.2209999, domain.MODERATELY_OVERSIZED},
		{"O2 boundary belongs to O3", 1.221, domain.SEVERELY_OVERSIZED},
		{"Deep oversizing", 2.0, domain.SEVERELY_OVERSIZED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCategory(tt.ratio); got != tt.want {
				t.Errorf("ClassifyCategory(%v) = %v, want %v", tt.ratio, got, tt.want)
			}
		})
	}
}

func TestClassifyCategory_Total(t *testing.T) {
	// Every ratio maps to a valid band, including extremes.
	for _, ratio := range []float64{0.0001, 0.86, 0.9999999, 1.0000001, 10, 1000} {
		if got := ClassifyCategory(ratio); !got.IsValid() {
			t.Errorf("ClassifyCategory(%v) = %v, not a valid band", ratio, got)
		}
	}
}

func TestClassifyRisk_Boundary(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  domain.RiskLevel
	}{
		{"Boundary value is acceptable", 0.86, domain.ACCEPTABLE},
		{"Just below boundary", 0.8599, domain.HIGH_RISK},
		{"Well below boundary", 0.5, domain.HIGH_RISK},
		{"Ideal ratio", 1.0, domain.ACCEPTABLE},
		{"Oversized is not high risk", 1.5, domain.ACCEPTABLE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRisk(tt.ratio); got != tt.want {
				t.Errorf("ClassifyRisk(%v) = %v, want %v", tt.ratio, got, tt.want)
			}
		})
	}
}

// The risk threshold (0.86) and the U3 band edge (0.863) come from
// different analyses and must stay independent: a ratio between them is
// severely undersized yet acceptable risk.
func TestClassify_IndependentThresholds(t *testing.T) {
	ratio := 0.861

	if got := ClassifyCategory(ratio); got != domain.SEVERELY_UNDERSIZED {
		t.Errorf("ClassifyCategory(%v) = %v, want %v", ratio, got, domain.SEVERELY_UNDERSIZED)
	}
	if got := ClassifyRisk(ratio); got != domain.ACCEPTABLE {
		t.Errorf("ClassifyRisk(%v) = %v, want %v", ratio, got, domain.ACCEPTABLE)
	}
}

package scan

import (
	"math"
	"testing"
)

func TestPremium(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		nav   float64
		want  float64
	}{
		{"premium", 2.000, 1.950, 2.5641},
		{"discount", 0.980, 1.000, -2.0},
		{"flat", 1.500, 1.500, 0},
		{"deep discount", 3.800, 4.000, -5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Premium(tt.price, tt.nav)
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("Premium(%f, %f) = %f, want %f", tt.price, tt.nav, got, tt.want)
			}
		})
	}
}

func TestRuleQualifies(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		reading Reading
		want    bool
	}{
		{
			name:    "deep discount with volume",
			rule:    Rule{Threshold: -1.3, MinVolume: 2000},
			reading: Reading{PremiumPct: -2.0, Volume: 3000},
			want:    true,
		},
		{
			name:    "premium never qualifies",
			rule:    Rule{Threshold: -1.5, MinVolume: 0},
			reading: Reading{PremiumPct: 2.56, Volume: 9999},
			want:    false,
		},
		{
			name:    "discount too shallow",
			rule:    Rule{Threshold: -1.3, MinVolume: 0},
			reading: Reading{PremiumPct: -1.0, Volume: 9999},
			want:    false,
		},
		{
			name:    "exactly at threshold does not qualify",
			rule:    Rule{Threshold: -1.3, MinVolume: 0},
			reading: Reading{PremiumPct: -1.3, Volume: 9999},
			want:    false,
		},
		{
			name:    "volume below floor",
			rule:    Rule{Threshold: -1.3, MinVolume: 2000},
			reading: Reading{PremiumPct: -2.0, Volume: 1999},
			want:    false,
		},
		{
			name:    "zero floor disables liquidity check",
			rule:    Rule{Threshold: -1.3, MinVolume: 0},
			reading: Reading{PremiumPct: -2.0, Volume: 1},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Qualifies(tt.reading); got != tt.want {
				t.Errorf("Qualifies() = %v, want %v", got, tt.want)
			}
		})
	}
}

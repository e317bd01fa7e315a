package matching

import (
	"math"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected the defaults to validate, got %v", err)
	}

	if err := DefaultEnsembleConfig().Validate(); err != nil {
		t.Fatalf("expected the ensemble defaults to validate, got %v", err)
	}
}

func TestConfigValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "negative threshold",
			mutate: func(c *Config) { c.CharacterSimilarityThreshold = -0.1 },
		},
		{
			name:   "nan boost",
			mutate: func(c *Config) { c.CityStateBoost = math.NaN() },
		},
		{
			name:   "negative weight",
			mutate: func(c *Config) { c.Weights.Location = -1 },
		},
		{
			name:   "no performance levels",
			mutate: func(c *Config) { c.PerformanceLevels = nil },
		},
		{
			name:   "fitness above one",
			mutate: func(c *Config) { c.PerformanceLevels[0].Fitness = 1.5 },
		},
		{
			name: "unsorted performance levels",
			mutate: func(c *Config) {
				c.PerformanceLevels[0], c.PerformanceLevels[1] = c.PerformanceLevels[1], c.PerformanceLevels[0]
			},
		},
		{
			name: "unsorted bonus rules",
			mutate: func(c *Config) {
				c.BonusRules[0], c.BonusRules[1] = c.BonusRules[1], c.BonusRules[0]
			},
		},
		{
			name:   "zero competitiveness factor",
			mutate: func(c *Config) { c.CompetitivenessLevels[0].Factor = 0 },
		},
		{
			name:   "inverted normalization range",
			mutate: func(c *Config) { c.CGPANormalization = Range{Min: 9.5, Max: 6.0} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestPerformanceFitness(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	tests := []struct {
		score  float64
		expect float64
	}{
		{score: 9.2, expect: 1.0},
		{score: 8.5, expect: 1.0},
		{score: 8.49, expect: 0.8},
		{score: 7.0, expect: 0.6},
		{score: 6.2, expect: 0.4},
		{score: 4.0, expect: 0.2},
		{score: -1.0, expect: 0},
	}

	for _, tt := range tests {
		if got := cfg.performanceFitness(tt.score); got != tt.expect {
			t.Fatalf("fitness(%v): expected %v, got %v", tt.score, tt.expect, got)
		}
	}
}

func TestExcessBonus(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	tests := []struct {
		excess float64
		expect float64
	}{
		{excess: 0, expect: 0},
		{excess: 0.5, expect: 0},
		{excess: 0.6, expect: 0.09},
		{excess: 1.0, expect: 0.1},
		{excess: 1.5, expect: 0.15},
		{excess: 3.0, expect: 0.2},
	}

	for _, tt := range tests {
		if got := cfg.excessBonus(tt.excess); math.Abs(got-tt.expect) > 1e-9 {
			t.Fatalf("bonus(%v): expected %v, got %v", tt.excess, tt.expect, got)
		}
	}
}

func TestCompetitivenessFactor(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	tests := []struct {
		minimum float64
		expect  float64
	}{
		{minimum: 9.0, expect: 1.1},
		{minimum: 8.0, expect: 1.1},
		{minimum: 7.5, expect: 1.05},
		{minimum: 6.0, expect: 1.0},
		{minimum: 2.0, expect: 0.95},
	}

	for _, tt := range tests {
		if got := cfg.competitivenessFactor(tt.minimum); got != tt.expect {
			t.Fatalf("factor(%v): expected %v, got %v", tt.minimum, tt.expect, got)
		}
	}
}

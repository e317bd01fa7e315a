package matching

import (
	"math"
	"testing"
)

func TestCGPAScore(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	tests := []struct {
		name      string
		candidate float64
		minimum   float64
		expect    float64
	}{
		{
			name:      "no requirement scores zero",
			candidate: 9.0,
			minimum:   0,
			expect:    0,
		},
		{
			name:      "negative requirement scores zero",
			candidate: 9.0,
			minimum:   -1,
			expect:    0,
		},
		{
			name:      "below minimum is ineligible",
			candidate: 6.0,
			minimum:   7.0,
			expect:    0,
		},
		{
			name:      "excellent with excess bonus saturates",
			candidate: 9.0,
			minimum:   7.0,
			expect:    1,
		},
		{
			name:      "good level no bonus",
			candidate: 7.0,
			minimum:   6.5,
			expect:    0.6,
		},
		{
			name:      "good level with small excess bonus",
			candidate: 7.2,
			minimum:   6.5,
			expect:    0.7,
		},
		{
			name:      "competitive requirement scales up",
			candidate: 7.6,
			minimum:   7.5,
			expect:    0.84,
		},
		{
			name:      "lax requirement scales down",
			candidate: 6.5,
			minimum:   5.0,
			expect:    0.7125,
		},
		{
			name:      "perfect ten reaches top level",
			candidate: 10.0,
			minimum:   8.5,
			expect:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.CGPAScore(tt.candidate, tt.minimum)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestCGPAScoreMonotonicInCandidate(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	prev := -1.0
	for c := 7.0; c <= 10.0; c += 0.05 {
		got := e.CGPAScore(c, 7.0)
		if got < prev {
			t.Fatalf("score decreased at cgpa %.2f: %v < %v", c, got, prev)
		}
		if got < 0 || got > 1 {
			t.Fatalf("score out of [0, 1] at cgpa %.2f: %v", c, got)
		}
		prev = got
	}
}

func TestCGPAScoreRejectsNaN(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	if got := e.CGPAScore(math.NaN(), 7.0); got != 0 {
		t.Fatalf("expected 0.0 for NaN candidate, got %v", got)
	}

	if got := e.CGPAScore(8.0, math.NaN()); got != 0 {
		t.Fatalf("expected 0.0 for NaN minimum, got %v", got)
	}
}

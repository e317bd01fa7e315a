package matching

import (
	"math"
	"testing"

	"github.com/placematch/matchengine/internal/embedding"

	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, table *embedding.Table) *Engine {
	t.Helper()

	e, err := New(nil, table, zap.NewNop())
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}

	return e
}

func TestComprehensiveNormalizedWeights(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	// Every component saturates at 1, so weights summing to 1 must give
	// exactly 1.
	res := e.Comprehensive(PairRequest{
		CandidateSkills:     "Python",
		RequiredSkills:      "Python",
		CandidateLocation:   "Mumbai",
		OpportunityLocation: "Mumbai",
		CandidateCGPA:       9.0,
		MinimumCGPA:         7.0,
		Weights:             Weights{Skills: 0.65, Location: 0.20, CGPA: 0.15},
	})

	for name, got := range map[string]float64{
		"skills":   res.Skills,
		"location": res.Location,
		"cgpa":     res.CGPA,
	} {
		if math.Abs(got-1) > 1e-9 {
			t.Fatalf("expected %s component 1.0, got %v", name, got)
		}
	}

	if math.Abs(res.Total-1) > 1e-9 {
		t.Fatalf("expected total 1.0, got %v", res.Total)
	}
}

func TestComprehensiveDoesNotNormalizeWeights(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	res := e.Comprehensive(PairRequest{
		CandidateSkills:     "Python",
		RequiredSkills:      "Python",
		CandidateLocation:   "Mumbai",
		OpportunityLocation: "Mumbai",
		CandidateCGPA:       9.0,
		MinimumCGPA:         7.0,
		Weights:             Weights{Skills: 1, Location: 1, CGPA: 1},
	})

	if math.Abs(res.Total-3) > 1e-9 {
		t.Fatalf("expected total 3.0 with unit weights, got %v", res.Total)
	}
}

func TestComprehensiveZeroWeightsSelectDefaults(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	res := e.Comprehensive(PairRequest{
		CandidateSkills: "Python",
		RequiredSkills:  "Python",
	})

	if res.Weights != DefaultConfig().Weights {
		t.Fatalf("expected default weights, got %+v", res.Weights)
	}
}

func TestComprehensiveBreakdownConsistent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	res := e.Comprehensive(PairRequest{
		CandidateSkills:     "Python, SQL, Git",
		RequiredSkills:      "Python, Java",
		CandidateLocation:   "Pune",
		OpportunityLocation: "Mumbai",
		CandidateCGPA:       7.8,
		MinimumCGPA:         6.5,
	})

	recombined := res.Weights.Skills*res.Skills +
		res.Weights.Location*res.Location +
		res.Weights.CGPA*res.CGPA

	if math.Abs(res.Total-recombined) > 1e-9 {
		t.Fatalf("total %v does not match recombined components %v", res.Total, recombined)
	}

	for name, got := range map[string]float64{
		"skills":   res.Skills,
		"location": res.Location,
		"cgpa":     res.CGPA,
	} {
		if got < 0 || got > 1 {
			t.Fatalf("component %s out of [0, 1]: %v", name, got)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.PerformanceLevels = nil

	if _, err := New(cfg, nil, zap.NewNop()); err == nil {
		t.Fatal("expected an error for a config without performance levels")
	}
}

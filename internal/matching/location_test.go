package matching

import (
	"math"
	"testing"

	"github.com/placematch/matchengine/internal/embedding"
)

func TestLocationSimilarity(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	tests := []struct {
		name        string
		candidate   string
		opportunity string
		expect      float64
	}{
		{
			name:        "exact match",
			candidate:   "Mumbai",
			opportunity: "Mumbai",
			expect:      1,
		},
		{
			name:        "exact match ignores case and punctuation",
			candidate:   "  mumbai ",
			opportunity: "MUMBAI.",
			expect:      1,
		},
		{
			name:        "city versus its state",
			candidate:   "Mumbai",
			opportunity: "Maharashtra",
			expect:      0.3,
		},
		{
			name:        "two cities in one state",
			candidate:   "Mumbai",
			opportunity: "Pune",
			expect:      0.3,
		},
		{
			name:        "city versus its zone",
			candidate:   "Delhi",
			opportunity: "North India",
			expect:      0.2,
		},
		{
			name:        "two cities sharing a zone",
			candidate:   "Bangalore",
			opportunity: "Chennai",
			expect:      0.2,
		},
		{
			name:        "unrelated cities",
			candidate:   "Mumbai",
			opportunity: "Kolkata",
			expect:      0,
		},
		{
			name:        "empty candidate",
			candidate:   "",
			opportunity: "Mumbai",
			expect:      0,
		},
		{
			name:        "empty opportunity",
			candidate:   "Mumbai",
			opportunity: "   ",
			expect:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.LocationSimilarity(tt.candidate, tt.opportunity)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestLocationSimilarityBoostAddsToBase(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	// "Navi Mumbai" contains the opportunity city outright: base 1.0,
	// same-state boost on top, clamped back to 1.
	if got := e.LocationSimilarity("Navi Mumbai", "Mumbai"); got != 1 {
		t.Fatalf("expected 1.0, got %v", got)
	}
}

func TestLocationSimilarityEmbeddingFallback(t *testing.T) {
	t.Parallel()

	table := embedding.NewTable(map[string][]float32{
		"mumbai": {1, 0},
		"bombay": {0.95, 0.31225},
	})

	e := newTestEngine(t, table)

	// "Bombay" is in no geographic table, so only the vector space links
	// it to Mumbai: (cos+1)/2 with cos 0.95.
	got := e.LocationSimilarity("Bombay", "Mumbai")
	if math.Abs(got-0.975) > 1e-6 {
		t.Fatalf("expected 0.975, got %v", got)
	}
}

func TestLocationSimilarityWithoutEmbeddingsIsBoostOnly(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	got := e.LocationSimilarity("Hyderabad", "Telangana")
	if math.Abs(got-e.Config().CityStateBoost) > 1e-9 {
		t.Fatalf("expected the bare city-state boost, got %v", got)
	}
}

func TestResolveArea(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	tests := []struct {
		name  string
		loc   string
		state string
		zone  string
	}{
		{name: "city", loc: "mumbai", state: "maharashtra", zone: "west"},
		{name: "city inside a longer string", loc: "near pune maharashtra", state: "maharashtra", zone: "west"},
		{name: "state name", loc: "tamil nadu", state: "tamil nadu", zone: "south"},
		{name: "zone name", loc: "north india", state: "", zone: "north"},
		{name: "unknown", loc: "atlantis", state: "", zone: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state, zone := e.resolveArea(tt.loc)
			if state != tt.state || zone != tt.zone {
				t.Fatalf("expected %s/%s, got %s/%s", tt.state, tt.zone, state, zone)
			}
		})
	}
}

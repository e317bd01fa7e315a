package matching

import (
	"fmt"
	"sort"

	"github.com/placematch/matchengine/internal/embedding"
	"github.com/placematch/matchengine/internal/textnorm"
	"github.com/placematch/matchengine/internal/util"

	"go.uber.org/zap"
)

const logPreviewLen = 120

// PairRequest carries one candidate/opportunity pair to score.
type PairRequest struct {
	CandidateSkills     string  `json:"candidate_skills"`
	RequiredSkills      string  `json:"required_skills"`
	CandidateLocation   string  `json:"candidate_location"`
	OpportunityLocation string  `json:"opportunity_location"`
	CandidateCGPA       float64 `json:"candidate_cgpa"`
	MinimumCGPA         float64 `json:"minimum_cgpa"`

	// Weights override the configured defaults when any field is set.
	Weights Weights `json:"weights"`
}

// Result is a scored pair: the weighted total plus the unweighted component
// scores and the weights that produced the total.
type Result struct {
	Total    float64 `json:"total"`
	Skills   float64 `json:"skills"`
	Location float64 `json:"location"`
	CGPA     float64 `json:"cgpa"`
	Weights  Weights `json:"weights"`
}

// Engine scores candidate/opportunity pairs against a fixed config and
// embedding table. It is read-only after New and safe for concurrent use.
// The table may be nil; matchers then fall back to their lexical tiers.
type Engine struct {
	cfg    *Config
	table  *embedding.Table
	logger *zap.Logger

	// Geography lookups, normalized and sorted longest-name-first at
	// construction so free-text resolution is deterministic.
	cities    []cityEntry
	states    []string
	zoneNames []string
	stateZone map[string]string
}

type cityEntry struct {
	name  string
	state string
}

// New validates the config and builds an engine. A nil config selects the
// defaults.
func New(cfg *Config, table *embedding.Table, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		table:     table,
		logger:    logger,
		stateZone: make(map[string]string),
	}
	e.buildAreaIndex()

	return e, nil
}

func (e *Engine) buildAreaIndex() {
	stateSet := make(map[string]struct{})

	for city, state := range e.cfg.CityStates {
		city = textnorm.Normalize(city)
		state = textnorm.Normalize(state)
		if city == "" || state == "" {
			continue
		}

		e.cities = append(e.cities, cityEntry{name: city, state: state})
		stateSet[state] = struct{}{}
	}

	zones := make([]string, 0, len(e.cfg.Regions))
	zoneStates := make(map[string][]string, len(e.cfg.Regions))
	for zone, states := range e.cfg.Regions {
		norm := textnorm.Normalize(zone)
		if norm == "" {
			continue
		}

		zones = append(zones, norm)
		zoneStates[norm] = states
	}
	sort.Strings(zones)

	for _, zone := range zones {
		for _, state := range zoneStates[zone] {
			state = textnorm.Normalize(state)
			if state == "" {
				continue
			}

			if _, ok := e.stateZone[state]; !ok {
				e.stateZone[state] = zone
			}
			stateSet[state] = struct{}{}
		}
	}

	for state := range stateSet {
		e.states = append(e.states, state)
	}

	sort.Slice(e.cities, func(i, j int) bool {
		if len(e.cities[i].name) != len(e.cities[j].name) {
			return len(e.cities[i].name) > len(e.cities[j].name)
		}
		return e.cities[i].name < e.cities[j].name
	})
	sortLongestFirst(e.states)

	e.zoneNames = zones
	sortLongestFirst(e.zoneNames)
}

func sortLongestFirst(s []string) {
	sort.Slice(s, func(i, j int) bool {
		if len(s[i]) != len(s[j]) {
			return len(s[i]) > len(s[j])
		}
		return s[i] < s[j]
	})
}

// Comprehensive combines the three component scores using the request's
// weights, or the configured defaults when the request carries none.
// Weights are applied exactly as given with no normalization, so callers
// own the output scale: weights summing to 1 keep the total within [0, 1].
func (e *Engine) Comprehensive(req PairRequest) Result {
	weights := req.Weights
	if weights == (Weights{}) {
		weights = e.cfg.Weights
	}

	res := Result{
		Skills:   e.SkillSimilarity(req.CandidateSkills, req.RequiredSkills),
		Location: e.LocationSimilarity(req.CandidateLocation, req.OpportunityLocation),
		CGPA:     e.CGPAScore(req.CandidateCGPA, req.MinimumCGPA),
		Weights:  weights,
	}
	res.Total = weights.Skills*res.Skills + weights.Location*res.Location + weights.CGPA*res.CGPA

	e.logger.Debug("scored pair",
		zap.Float64("total", res.Total),
		zap.Float64("skills", res.Skills),
		zap.Float64("location", res.Location),
		zap.Float64("cgpa", res.CGPA),
		zap.String("required_skills", util.TruncateForLog(req.RequiredSkills, logPreviewLen)),
		zap.String("opportunity_location", util.TruncateForLog(req.OpportunityLocation, logPreviewLen)),
	)

	return res
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

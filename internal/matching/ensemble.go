package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/placematch/matchengine/internal/textnorm"
	"github.com/placematch/matchengine/internal/util"
)

// Ensemble blending methods.
const (
	MethodWeighted = "weighted"
	MethodMaxScore = "max_score"
	MethodVoting   = "voting"
)

// EnsembleConfig controls how the embedding scorer blends with the lexical
// baseline and which matches count as acceptable.
type EnsembleConfig struct {
	Method            string           `mapstructure:"method" yaml:"method"`
	MethodWeights     MethodWeights    `mapstructure:"method-weights" yaml:"method-weights"`
	MinScoreThreshold float64          `mapstructure:"min-score-threshold" yaml:"min-score-threshold"`
	Validation        ValidationConfig `mapstructure:"validation" yaml:"validation"`
}

// MethodWeights blend the two totals under the weighted method.
type MethodWeights struct {
	Traditional float64 `mapstructure:"traditional" yaml:"traditional"`
	Embedding   float64 `mapstructure:"embedding" yaml:"embedding"`
}

// ValidationConfig gates matches on minimum component quality.
type ValidationConfig struct {
	Enabled          bool    `mapstructure:"enabled" yaml:"enabled"`
	MinSkillMatch    float64 `mapstructure:"min-skill-match" yaml:"min-skill-match"`
	MinLocationMatch float64 `mapstructure:"min-location-match" yaml:"min-location-match"`
}

// DefaultEnsembleConfig returns the built-in blend settings.
func DefaultEnsembleConfig() *EnsembleConfig {
	return &EnsembleConfig{
		Method:            MethodWeighted,
		MethodWeights:     MethodWeights{Traditional: 0.4, Embedding: 0.6},
		MinScoreThreshold: 0.2,
		Validation: ValidationConfig{
			Enabled:          true,
			MinSkillMatch:    0.15,
			MinLocationMatch: 0,
		},
	}
}

// Validate rejects blend settings the ensemble cannot score with.
func (c *EnsembleConfig) Validate() error {
	switch c.Method {
	case MethodWeighted, MethodMaxScore, MethodVoting:
	default:
		return fmt.Errorf("unknown ensemble method %q", c.Method)
	}

	for name, v := range map[string]float64{
		"traditional": c.MethodWeights.Traditional,
		"embedding":   c.MethodWeights.Embedding,
	} {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("method weight %s must be a non-negative number, got %v", name, v)
		}
	}

	if !isFinite(c.MinScoreThreshold) || c.MinScoreThreshold < 0 {
		return fmt.Errorf("min-score-threshold must be a non-negative number, got %v", c.MinScoreThreshold)
	}

	for name, v := range map[string]float64{
		"min-skill-match":    c.Validation.MinSkillMatch,
		"min-location-match": c.Validation.MinLocationMatch,
	} {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("validation %s must be a non-negative number, got %v", name, v)
		}
	}

	return nil
}

// Ensemble blends the engine's embedding-based score with the lexical
// baseline.
type Ensemble struct {
	engine *Engine
	cfg    *EnsembleConfig
}

// NewEnsemble validates the blend settings and wraps the engine. A nil
// config selects the defaults.
func NewEnsemble(engine *Engine, cfg *EnsembleConfig) (*Ensemble, error) {
	if cfg == nil {
		cfg = DefaultEnsembleConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ensemble config: %w", err)
	}

	return &Ensemble{engine: engine, cfg: cfg}, nil
}

// EnsembleResult carries both totals, the blended total, and the
// validation verdict.
type EnsembleResult struct {
	Total          float64 `json:"total"`
	Method         string  `json:"method"`
	SelectedMethod string  `json:"selected_method"`
	Embedding      Result  `json:"embedding"`
	Traditional    Result  `json:"traditional"`
	Valid          bool    `json:"valid"`
}

// Score runs both scorers and blends them per the configured method:
// weighted sums the totals under the method weights, max_score takes the
// stronger total, voting rebuilds the total from the stronger of each
// component pair.
func (s *Ensemble) Score(req PairRequest) EnsembleResult {
	emb := s.engine.Comprehensive(req)
	trad := s.engine.Traditional(req)

	res := EnsembleResult{
		Method:      s.cfg.Method,
		Embedding:   emb,
		Traditional: trad,
		Valid:       true,
	}

	switch s.cfg.Method {
	case MethodMaxScore:
		res.Total = math.Max(trad.Total, emb.Total)
		res.SelectedMethod = "embedding"
		if trad.Total >= emb.Total {
			res.SelectedMethod = "traditional"
		}
	case MethodVoting:
		w := trad.Weights
		res.Total = w.Skills*math.Max(trad.Skills, emb.Skills) +
			w.Location*math.Max(trad.Location, emb.Location) +
			w.CGPA*math.Max(trad.CGPA, emb.CGPA)
		res.SelectedMethod = "hybrid"
	default:
		res.Total = s.cfg.MethodWeights.Traditional*trad.Total +
			s.cfg.MethodWeights.Embedding*emb.Total
		res.SelectedMethod = MethodWeighted
	}

	if s.cfg.Validation.Enabled {
		res.Valid = emb.Skills >= s.cfg.Validation.MinSkillMatch &&
			emb.Location >= s.cfg.Validation.MinLocationMatch
	}

	return res
}

// Accept reports whether a result clears the score floor and the
// validation gates.
func (s *Ensemble) Accept(res EnsembleResult) bool {
	return res.Valid && res.Total >= s.cfg.MinScoreThreshold
}

// Traditional scores a pair with the lexical baseline the ensemble blends
// against: Jaccard skill overlap, exact-match location, and the CGPA
// scaled linearly over the configured normalization range. The baseline
// gives no partial credit for skills or location, and applies the same
// CGPA eligibility gate as CGPAScore: no stated requirement or a candidate
// below it scores 0.
func (e *Engine) Traditional(req PairRequest) Result {
	weights := req.Weights
	if weights == (Weights{}) {
		weights = e.cfg.Weights
	}

	res := Result{
		Skills:  jaccard(textnorm.Tokenize(req.CandidateSkills), textnorm.Tokenize(req.RequiredSkills)),
		Weights: weights,
	}

	cand := strings.Join(textnorm.Tokenize(req.CandidateLocation), " ")
	opp := strings.Join(textnorm.Tokenize(req.OpportunityLocation), " ")
	if cand != "" && cand == opp {
		res.Location = 1
	}

	if req.MinimumCGPA > 0 && isFinite(req.CandidateCGPA) && req.CandidateCGPA >= req.MinimumCGPA {
		res.CGPA = normRange(req.CandidateCGPA, e.cfg.CGPANormalization)
	}

	res.Total = weights.Skills*res.Skills + weights.Location*res.Location + weights.CGPA*res.CGPA

	return res
}

// jaccard is intersection-over-union of two token sets; either side empty
// scores 0.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}

	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	var inter int
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}

	union := len(setA) + len(setB) - inter

	return float64(inter) / float64(union)
}

// normRange maps v linearly onto [0, 1] over r, clamping outside it.
func normRange(v float64, r Range) float64 {
	if r.Max <= r.Min {
		return 0
	}

	return util.Clamp01((v - r.Min) / (r.Max - r.Min))
}

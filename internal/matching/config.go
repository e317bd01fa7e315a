package matching

import (
	"fmt"
	"math"
)

// Config drives every scoring decision. All knobs are data so deployments
// can retune matching without a rebuild; DefaultConfig returns the tables
// the engine ships with.
type Config struct {
	// CharacterSimilarityThreshold is the minimum edit-distance ratio a
	// token pair must reach to count when neither side has a vector.
	CharacterSimilarityThreshold float64 `mapstructure:"character-similarity-threshold" yaml:"character-similarity-threshold"`

	// CityStateBoost is added when both locations resolve to one state,
	// RegionalBoost when they only share a zone.
	CityStateBoost float64 `mapstructure:"city-state-boost" yaml:"city-state-boost"`
	RegionalBoost  float64 `mapstructure:"regional-boost" yaml:"regional-boost"`

	// CityStates maps a city to its state. Regions maps a zone name
	// ("north") to the states it contains.
	CityStates map[string]string   `mapstructure:"city-states" yaml:"city-states"`
	Regions    map[string][]string `mapstructure:"regions" yaml:"regions"`

	// PerformanceLevels, BonusRules and CompetitivenessLevels must be
	// ordered by descending threshold; the first level that applies wins.
	PerformanceLevels     []PerformanceLevel     `mapstructure:"performance-levels" yaml:"performance-levels"`
	BonusRules            []BonusRule            `mapstructure:"bonus-rules" yaml:"bonus-rules"`
	CompetitivenessLevels []CompetitivenessLevel `mapstructure:"competitiveness-levels" yaml:"competitiveness-levels"`

	// CGPANormalization is the range the lexical baseline scales a CGPA
	// over.
	CGPANormalization Range `mapstructure:"cgpa-normalization" yaml:"cgpa-normalization"`

	// Weights apply when a request does not carry its own.
	Weights Weights `mapstructure:"weights" yaml:"weights"`
}

// PerformanceLevel maps a CGPA floor to a fitness value.
type PerformanceLevel struct {
	Name     string  `mapstructure:"name" yaml:"name"`
	MinScore float64 `mapstructure:"min-score" yaml:"min-score"`
	Fitness  float64 `mapstructure:"fitness" yaml:"fitness"`
}

// BonusRule rewards a candidate exceeding the required CGPA: the first
// rule whose threshold the excess crosses grants
// min(max-bonus, excess*multiplier).
type BonusRule struct {
	Threshold  float64 `mapstructure:"threshold" yaml:"threshold"`
	Multiplier float64 `mapstructure:"multiplier" yaml:"multiplier"`
	MaxBonus   float64 `mapstructure:"max-bonus" yaml:"max-bonus"`
}

// CompetitivenessLevel scales the academic score by how demanding the
// opportunity's minimum CGPA is.
type CompetitivenessLevel struct {
	MinRequired float64 `mapstructure:"min-required" yaml:"min-required"`
	Factor      float64 `mapstructure:"factor" yaml:"factor"`
}

// Range is a closed numeric interval.
type Range struct {
	Min float64 `mapstructure:"min" yaml:"min"`
	Max float64 `mapstructure:"max" yaml:"max"`
}

// Weights are applied to component scores exactly as given; the engine
// never normalizes them. Weights summing to 1 keep totals in [0, 1].
type Weights struct {
	Skills   float64 `mapstructure:"skills" yaml:"skills" json:"skills"`
	Location float64 `mapstructure:"location" yaml:"location" json:"location"`
	CGPA     float64 `mapstructure:"cgpa" yaml:"cgpa" json:"cgpa"`
}

// DefaultConfig returns the built-in scoring tables.
func DefaultConfig() *Config {
	return &Config{
		CharacterSimilarityThreshold: 0.3,
		CityStateBoost:               0.3,
		RegionalBoost:                0.2,
		CityStates: map[string]string{
			"mumbai":        "maharashtra",
			"delhi":         "delhi",
			"bangalore":     "karnataka",
			"chennai":       "tamil nadu",
			"hyderabad":     "telangana",
			"pune":          "maharashtra",
			"kolkata":       "west bengal",
			"ahmedabad":     "gujarat",
			"jaipur":        "rajasthan",
			"lucknow":       "uttar pradesh",
			"kanpur":        "uttar pradesh",
			"nagpur":        "maharashtra",
			"indore":        "madhya pradesh",
			"bhopal":        "madhya pradesh",
			"visakhapatnam": "andhra pradesh",
			"patna":         "bihar",
			"vadodara":      "gujarat",
			"ludhiana":      "punjab",
			"agra":          "uttar pradesh",
			"nashik":        "maharashtra",
			"faridabad":     "haryana",
			"meerut":        "uttar pradesh",
			"rajkot":        "gujarat",
			"kalyan":        "maharashtra",
			"vasai":         "maharashtra",
			"varanasi":      "uttar pradesh",
			"srinagar":      "jammu and kashmir",
			"aurangabad":    "maharashtra",
			"noida":         "uttar pradesh",
			"solapur":       "maharashtra",
		},
		Regions: map[string][]string{
			"north":   {"delhi", "punjab", "haryana", "himachal pradesh", "jammu and kashmir", "uttarakhand", "uttar pradesh"},
			"south":   {"karnataka", "tamil nadu", "kerala", "andhra pradesh", "telangana"},
			"east":    {"west bengal", "odisha", "bihar", "jharkhand", "assam"},
			"west":    {"maharashtra", "gujarat", "rajasthan", "goa"},
			"central": {"madhya pradesh", "chhattisgarh"},
		},
		PerformanceLevels: []PerformanceLevel{
			{Name: "excellent", MinScore: 8.5, Fitness: 1.0},
			{Name: "very_good", MinScore: 7.5, Fitness: 0.8},
			{Name: "good", MinScore: 6.5, Fitness: 0.6},
			{Name: "satisfactory", MinScore: 6.0, Fitness: 0.4},
			{Name: "minimum", MinScore: 0.0, Fitness: 0.2},
		},
		BonusRules: []BonusRule{
			{Threshold: 1.0, Multiplier: 0.1, MaxBonus: 0.2},
			{Threshold: 0.5, Multiplier: 0.15, MaxBonus: 0.1},
		},
		CompetitivenessLevels: []CompetitivenessLevel{
			{MinRequired: 8.0, Factor: 1.1},
			{MinRequired: 7.0, Factor: 1.05},
			{MinRequired: 6.0, Factor: 1.0},
			{MinRequired: 0.0, Factor: 0.95},
		},
		CGPANormalization: Range{Min: 6.0, Max: 9.5},
		Weights:           Weights{Skills: 0.65, Location: 0.20, CGPA: 0.15},
	}
}

// Validate rejects configurations the engine cannot score with.
func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"character-similarity-threshold": c.CharacterSimilarityThreshold,
		"city-state-boost":               c.CityStateBoost,
		"regional-boost":                 c.RegionalBoost,
	} {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("%s must be a non-negative number, got %v", name, v)
		}
	}

	if err := c.Weights.validate(); err != nil {
		return err
	}

	if len(c.PerformanceLevels) == 0 {
		return fmt.Errorf("at least one performance level is required")
	}

	for i, lvl := range c.PerformanceLevels {
		if !isFinite(lvl.MinScore) || !isFinite(lvl.Fitness) || lvl.Fitness < 0 || lvl.Fitness > 1 {
			return fmt.Errorf("performance level %q: fitness must be within [0, 1]", lvl.Name)
		}
		if i > 0 && lvl.MinScore >= c.PerformanceLevels[i-1].MinScore {
			return fmt.Errorf("performance levels must be ordered by descending min-score")
		}
	}

	for i, rule := range c.BonusRules {
		if !isFinite(rule.Threshold) || !isFinite(rule.Multiplier) || !isFinite(rule.MaxBonus) {
			return fmt.Errorf("bonus rule %d: all fields must be numbers", i)
		}
		if i > 0 && rule.Threshold >= c.BonusRules[i-1].Threshold {
			return fmt.Errorf("bonus rules must be ordered by descending threshold")
		}
	}

	for i, lvl := range c.CompetitivenessLevels {
		if !isFinite(lvl.MinRequired) || !isFinite(lvl.Factor) || lvl.Factor <= 0 {
			return fmt.Errorf("competitiveness level %d: factor must be positive", i)
		}
		if i > 0 && lvl.MinRequired >= c.CompetitivenessLevels[i-1].MinRequired {
			return fmt.Errorf("competitiveness levels must be ordered by descending min-required")
		}
	}

	if c.CGPANormalization.Max <= c.CGPANormalization.Min {
		return fmt.Errorf("cgpa-normalization range must have max > min")
	}

	return nil
}

func (w Weights) validate() error {
	for name, v := range map[string]float64{
		"skills":   w.Skills,
		"location": w.Location,
		"cgpa":     w.CGPA,
	} {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("weight %s must be a non-negative number, got %v", name, v)
		}
	}

	return nil
}

// performanceFitness returns the fitness of the first level whose floor the
// score reaches, 0 when the score is below every level.
func (c *Config) performanceFitness(score float64) float64 {
	for _, lvl := range c.PerformanceLevels {
		if score >= lvl.MinScore {
			return lvl.Fitness
		}
	}

	return 0
}

// excessBonus rewards exceeding the requirement; the first rule whose
// threshold the excess crosses applies.
func (c *Config) excessBonus(excess float64) float64 {
	for _, rule := range c.BonusRules {
		if excess > rule.Threshold {
			return math.Min(rule.MaxBonus, excess*rule.Multiplier)
		}
	}

	return 0
}

// competitivenessFactor scales by how demanding the required minimum is.
func (c *Config) competitivenessFactor(minimum float64) float64 {
	for _, lvl := range c.CompetitivenessLevels {
		if minimum >= lvl.MinRequired {
			return lvl.Factor
		}
	}

	return 1
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

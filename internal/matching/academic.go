package matching

import (
	"math"

	"github.com/placematch/matchengine/internal/util"
)

// CGPAScore scores academic fit, in [0, 1]. A non-positive minimum means
// the opportunity states no requirement and the component scores 0; how to
// weight that is the caller's decision, not the scorer's. A candidate
// below the minimum is ineligible and also scores 0. Above it, the
// candidate's performance level sets the base, exceeding the requirement
// earns a capped bonus, and the competitiveness of the requirement scales
// the result. Monotonic in the candidate's CGPA for a fixed minimum.
func (e *Engine) CGPAScore(candidate, minimumRequired float64) float64 {
	if !isFinite(candidate) || !isFinite(minimumRequired) {
		return 0
	}

	if minimumRequired <= 0 {
		return 0
	}

	if candidate < minimumRequired {
		return 0
	}

	base := e.cfg.performanceFitness(candidate)

	if bonus := e.cfg.excessBonus(candidate - minimumRequired); bonus > 0 {
		base = math.Min(1, base+bonus)
	}

	return util.Clamp01(base * e.cfg.competitivenessFactor(minimumRequired))
}

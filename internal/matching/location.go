package matching

import (
	"strings"

	"github.com/placematch/matchengine/internal/textnorm"
	"github.com/placematch/matchengine/internal/util"
)

// LocationSimilarity scores geographic affinity between the candidate's
// location and the opportunity's, in [0, 1]. Identical normalized strings
// score 1. Otherwise the base token-set similarity is raised by the
// city-state boost when both resolve to the same state, or by the regional
// boost when they only share a zone. Either side empty scores 0.
func (e *Engine) LocationSimilarity(candidateLoc, opportunityLoc string) float64 {
	candTokens := textnorm.Tokenize(candidateLoc)
	oppTokens := textnorm.Tokenize(opportunityLoc)

	if len(candTokens) == 0 || len(oppTokens) == 0 {
		return 0
	}

	cand := strings.Join(candTokens, " ")
	opp := strings.Join(oppTokens, " ")

	if cand == opp {
		return 1
	}

	base := e.tokenSetSimilarity(oppTokens, candTokens)

	return util.Clamp01(base + e.geoBoost(cand, opp))
}

// tokenSetSimilarity averages, over ref tokens, the best exact, substring
// or embedding signal among the other side's tokens. The edit-distance
// tier is deliberately absent here: unlike skill names, unrelated place
// names are often close in spelling.
func (e *Engine) tokenSetSimilarity(ref, other []string) float64 {
	if len(ref) == 0 || len(other) == 0 {
		return 0
	}

	var sum float64
	for _, rt := range ref {
		var best float64

		for _, ot := range other {
			if score := e.tokenPairScore(rt, ot, false); score > best {
				best = score
			}
			if best >= exactScore {
				break
			}
		}

		sum += best
	}

	return sum / float64(len(ref))
}

// geoBoost returns the bonus for two normalized locations: the city-state
// boost when both resolve to one state, the regional boost when they only
// share a zone, 0 otherwise.
func (e *Engine) geoBoost(a, b string) float64 {
	stateA, zoneA := e.resolveArea(a)
	stateB, zoneB := e.resolveArea(b)

	if stateA != "" && stateA == stateB {
		return e.cfg.CityStateBoost
	}

	if zoneA != "" && zoneA == zoneB {
		return e.cfg.RegionalBoost
	}

	return 0
}

// resolveArea maps a free-form normalized location to a (state, zone)
// pair. A mentioned city resolves through its state; a state name resolves
// to itself; a location naming only a zone ("north india") resolves to
// just that zone. Lookup lists are longest-name-first, so the most
// specific mention wins and resolution is deterministic.
func (e *Engine) resolveArea(loc string) (state, zone string) {
	for _, c := range e.cities {
		if containsPhrase(loc, c.name) {
			state = c.state
			break
		}
	}

	if state == "" {
		for _, s := range e.states {
			if containsPhrase(loc, s) {
				state = s
				break
			}
		}
	}

	if state != "" {
		return state, e.stateZone[state]
	}

	for _, z := range e.zoneNames {
		if containsPhrase(loc, z) {
			return "", z
		}
	}

	return "", ""
}

// containsPhrase reports whether phrase appears in haystack on word
// boundaries. Both sides must be normalized, space-joined token strings.
func containsPhrase(haystack, phrase string) bool {
	return strings.Contains(" "+haystack+" ", " "+phrase+" ")
}

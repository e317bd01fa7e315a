package matching

import (
	"strings"

	"github.com/placematch/matchengine/internal/textnorm"
	"github.com/placematch/matchengine/internal/util"
)

const (
	exactScore     = 1.0
	substringScore = 0.85
)

// SkillSimilarity scores how well candidate skills cover required skills,
// in [0, 1]. Each required token takes the strongest signal it finds among
// the candidate tokens and the final score is the mean over required
// tokens, so the measure is asymmetric: it answers "how much of what is
// required does the candidate bring", not the reverse. An empty required
// set is trivially satisfied and scores 1.
func (e *Engine) SkillSimilarity(candidateSkills, requiredSkills string) float64 {
	required := textnorm.Tokenize(requiredSkills)
	if len(required) == 0 {
		return 1
	}

	candidate := textnorm.Tokenize(candidateSkills)
	if len(candidate) == 0 {
		return 0
	}

	var sum float64
	for _, req := range required {
		sum += e.bestTokenMatch(req, candidate)
	}

	return util.Clamp01(sum / float64(len(required)))
}

// bestTokenMatch returns the strongest pair score for one required token
// over all candidate tokens. An exact hit is unbeatable, so scanning stops
// there.
func (e *Engine) bestTokenMatch(required string, candidate []string) float64 {
	var best float64

	for _, cand := range candidate {
		if score := e.tokenPairScore(required, cand, true); score > best {
			best = score
		}
		if best >= exactScore {
			break
		}
	}

	return best
}

// tokenPairScore runs the match tiers for one token pair: exact equality,
// substring containment either way, embedding cosine mapped onto [0, 1],
// and, when either token has no vector and charTier is set, an
// edit-distance ratio gated by the configured threshold.
func (e *Engine) tokenPairScore(a, b string, charTier bool) float64 {
	if a == b {
		return exactScore
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return substringScore
	}

	if cos, ok := e.table.Similarity(a, b); ok {
		return (cos + 1) / 2
	}

	if !charTier {
		return 0
	}

	if ratio := editRatio(a, b); ratio >= e.cfg.CharacterSimilarityThreshold {
		return ratio
	}

	return 0
}

// editRatio is 1 - levenshtein/maxLen over runes, in [0, 1].
func editRatio(a, b string) float64 {
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i

		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			m := curr[j-1] + 1 // insertion
			if del := prev[j] + 1; del < m {
				m = del
			}
			if sub := prev[j-1] + cost; sub < m {
				m = sub
			}

			curr[j] = m
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}

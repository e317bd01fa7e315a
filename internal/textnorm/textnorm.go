package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold collapses Unicode compatibility forms and strips combining marks, so
// "résumé" compares equal to "resume" and full-width forms become ASCII.
var fold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases text, folds it and collapses whitespace runs to
// single spaces. Both sides of every string comparison in the matchers go
// through this, so comparisons stay case- and accent-insensitive.
func Normalize(text string) string {
	folded, _, _ := transform.String(fold, text)

	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Tokenize splits text into lower-cased tokens. Any non-letter, non-digit
// rune separates tokens, and camel-case compounds split at lower-to-upper
// boundaries: "MachineLearning" yields "machine" and "learning" while
// acronyms ("NLP") and trailing digits ("python3") stay whole. Empty and
// all-separator input yield an empty slice.
func Tokenize(text string) []string {
	folded, _, _ := transform.String(fold, text)

	tokens := make([]string, 0, 8)

	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, strings.ToLower(b.String()))
			b.Reset()
		}
	}

	var prev rune
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if unicode.IsUpper(r) && unicode.IsLower(prev) {
				flush()
			}
			b.WriteRune(r)
		} else {
			flush()
		}
		prev = r
	}
	flush()

	return tokens
}

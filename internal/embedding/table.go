package embedding

import (
	"math"
	"strings"
)

// Table is a word-vector table keyed by lower-cased token. It is built once
// (from a vectors file or a remote provider) and read-only afterwards, so it
// is safe for concurrent use. A nil *Table is a valid "no embeddings" table:
// every lookup misses and matchers fall back to their lexical tiers.
type Table struct {
	dim     int
	vectors map[string][]float32
}

// NewTable builds a table from an already-prepared vector map. Keys are
// lower-cased, empty vectors are dropped. Vectors are expected to share one
// dimension; pairs that do not cannot be compared and score as absent.
func NewTable(vectors map[string][]float32) *Table {
	t := &Table{vectors: make(map[string][]float32, len(vectors))}

	for token, vec := range vectors {
		if len(vec) == 0 {
			continue
		}
		if t.dim == 0 {
			t.dim = len(vec)
		}
		t.vectors[strings.ToLower(token)] = vec
	}

	return t
}

// Vector returns the stored vector for a token. The boolean is false when
// the token is absent; absence is an expected state, not an error. The
// returned slice is shared and must be treated as read-only.
func (t *Table) Vector(token string) ([]float32, bool) {
	if t == nil {
		return nil, false
	}

	vec, ok := t.vectors[strings.ToLower(token)]

	return vec, ok
}

// Similarity returns the cosine similarity of two tokens in [-1, 1]. The
// boolean is false when either token is absent from the table or the stored
// vectors disagree on dimension.
func (t *Table) Similarity(a, b string) (float64, bool) {
	va, ok := t.Vector(a)
	if !ok {
		return 0, false
	}

	vb, ok := t.Vector(b)
	if !ok {
		return 0, false
	}

	if len(va) != len(vb) {
		return 0, false
	}

	return cosine(va, vb), true
}

// Len returns the number of stored tokens.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.vectors)
}

// Dimension returns the vector dimension, 0 for an empty table.
func (t *Table) Dimension() int {
	if t == nil {
		return 0
	}

	return t.dim
}

// cosine computes similarity with float64 accumulation to keep long
// float32 vectors numerically stable. Zero-norm or mismatched-length
// pairs score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

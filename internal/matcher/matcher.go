// Package matcher resolves face embeddings to enrolled identities by
// nearest-neighbor search over the encoding store.
package matcher

import (
	"math"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/encoding"
)

// Matcher scores a query embedding against every reference embedding using
// Euclidean distance. An identity with several references scores as the
// minimum distance over them (closest reference wins). The global winner is
// accepted only when its score is at or below the threshold; otherwise the
// result is unknown, which is a normal outcome rather than an error.
type Matcher struct {
	threshold float64
}

func New(threshold float64) (*Matcher, error) {
	if threshold <= 0 {
		return nil, domain.ErrInvalidThreshold
	}
	return &Matcher{threshold: threshold}, nil
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match resolves one embedding against the store. Identities are visited in
// lexicographic key order and a later identity only wins with a strictly
// smaller score, so bit-identical ties deterministically resolve to the
// smallest key.
func (m *Matcher) Match(embedding []float64, store *encoding.Store) domain.MatchResult {
	if len(embedding) != store.Dim() {
		return domain.MatchResult{Unknown: true, Distance: math.Inf(1)}
	}

	best := domain.MatchResult{Unknown: true, Distance: math.Inf(1)}

	for _, key := range store.Keys() {
		score := math.Inf(1)
		for _, ref := range store.Embeddings(key) {
			if d := EuclideanDistance(embedding, ref); d < score {
				score = d
			}
		}

		if score < best.Distance {
			best = domain.MatchResult{ExternalID: key, Distance: score}
		}
	}

	if best.Distance > m.threshold {
		return domain.MatchResult{Unknown: true, Distance: best.Distance}
	}

	return best
}

// EuclideanDistance computes the L2 distance between two embedding vectors.
// Returns +Inf for mismatched or empty inputs.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}

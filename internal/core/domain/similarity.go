package domain

import "math"

// SimilarityWeights are the fixed blend weights for combining the five
// similarity sub-scores. Weights must sum to 1.0.
type SimilarityWeights struct {
	Text     float64
	Visual   float64
	Thematic float64
	Temporal float64
	Semantic float64
}

// DefaultSimilarityWeights returns the production blend.
func DefaultSimilarityWeights() SimilarityWeights {
	return SimilarityWeights{
		Text:     0.30,
		Visual:   0.20,
		Thematic: 0.20,
		Temporal: 0.15,
		Semantic: 0.15,
	}
}

// Valid returns true if the weights sum to 1.0 within tolerance.
func (w SimilarityWeights) Valid() bool {
	sum := w.Text + w.Visual + w.Thematic + w.Temporal + w.Semantic
	return math.Abs(sum-1.0) < 1e-9
}

// SimilarityScore holds the multi-signal similarity between two
// documents. The pair is unordered and canonicalised so that
// DocumentA < DocumentB, avoiding duplicate edges in the relationship
// graph.
type SimilarityScore struct {
	// DocumentA is the lexicographically smaller document ID.
	DocumentA string

	// DocumentB is the lexicographically larger document ID.
	DocumentB string

	// Sub-scores, each in [0,1].
	TextScore     float64
	VisualScore   float64
	ThematicScore float64
	TemporalScore float64
	SemanticScore float64

	// Combined is the weighted sum of the sub-scores. It must be
	// recomputed via Recompute whenever any component changes.
	Combined float64
}

// NewSimilarityScore creates a score for the given pair with the IDs
// canonicalised into lexicographic order.
func NewSimilarityScore(a, b string) SimilarityScore {
	if b < a {
		a, b = b, a
	}
	return SimilarityScore{DocumentA: a, DocumentB: b}
}

// Recompute refreshes Combined from the current sub-scores.
func (s *SimilarityScore) Recompute(w SimilarityWeights) {
	s.Combined = w.Text*s.TextScore +
		w.Visual*s.VisualScore +
		w.Thematic*s.ThematicScore +
		w.Temporal*s.TemporalScore +
		w.Semantic*s.SemanticScore
}

// Involves returns true if the pair includes the given document.
func (s SimilarityScore) Involves(docID string) bool {
	return s.DocumentA == docID || s.DocumentB == docID
}

// Other returns the counterpart of docID in the pair, or an empty
// string when docID is not part of the pair.
func (s SimilarityScore) Other(docID string) string {
	switch docID {
	case s.DocumentA:
		return s.DocumentB
	case s.DocumentB:
		return s.DocumentA
	default:
		return ""
	}
}

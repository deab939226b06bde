package services

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/retrace-cli/internal/cache"
	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
)

// SemanticScorer wraps an embedding provider with vector caching and
// maps cosine similarity into [0,1] for blending with the lexical
// scores. A nil provider makes the scorer permanently unavailable.
type SemanticScorer struct {
	provider   driven.EmbeddingProvider
	embedCache *cache.Cache[string, []float32]
}

// NewSemanticScorer creates a scorer. The provider may be nil.
func NewSemanticScorer(provider driven.EmbeddingProvider) *SemanticScorer {
	return &SemanticScorer{
		provider:   provider,
		embedCache: cache.New[string, []float32](cache.DefaultCapacity),
	}
}

// Available reports whether semantic scoring can run.
func (s *SemanticScorer) Available() bool {
	return s != nil && s.provider != nil
}

// Embed returns the cached or freshly computed embedding for text.
func (s *SemanticScorer) Embed(ctx context.Context, text string) ([]float32, error) {
	if !s.Available() {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if vec, ok := s.embedCache.Get(text); ok {
		return vec, nil
	}

	vec, err := s.provider.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	s.embedCache.Put(text, vec)
	return vec, nil
}

// Score returns the semantic similarity of two texts in [0,1].
// Cosine similarity lands in [-1,1]; it is shifted and halved so the
// result composes with the other unit-interval scores.
func (s *SemanticScorer) Score(ctx context.Context, a, b string) (float64, error) {
	va, err := s.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return (cosine(va, vb) + 1) / 2, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

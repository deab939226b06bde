package driving

import (
	"context"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

// SearchService provides progressive fallback search to external actors.
type SearchService interface {
	// Search runs the tiered retrieval pipeline for a parsed query.
	// It always returns a usable result: timeouts yield partial
	// results with TimedOut set, unavailable capabilities are recorded
	// in SkippedTiers, and inactionable queries short-circuit to an
	// empty result.
	Search(ctx context.Context, query domain.SearchQuery) (domain.SearchResult, error)
}

// SimilarityService exposes pairwise document similarity for
// relationship discovery.
type SimilarityService interface {
	// Similarity computes the multi-signal similarity between two
	// documents.
	Similarity(ctx context.Context, a, b domain.Document) (domain.SimilarityScore, error)

	// Related returns the documents most similar to the given one,
	// ranked by combined score descending.
	Related(ctx context.Context, docID string, limit int) ([]domain.SimilarityScore, error)
}

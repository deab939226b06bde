package driving

import (
	"context"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

// ParserService converts raw query text into a structured SearchQuery.
// Typed and voice-transcribed input arrive through the same contract.
type ParserService interface {
	// Parse tokenises the text, classifies intent, extracts entities
	// and temporal filters, and scores overall confidence.
	// Empty or unparseable input yields an inactionable query, never
	// an error.
	Parse(ctx context.Context, text string) (domain.SearchQuery, error)
}

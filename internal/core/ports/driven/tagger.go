package driven

import (
	"context"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

// Tagger performs named-entity recognition over raw text.
// This is an optional service - when nil, extraction relies on the
// pattern and lexicon strategies only.
//
// Implementations may include:
//   - Lexicon-based tagging with curated name/place/organisation lists
//   - Platform NLP frameworks where available
type Tagger interface {
	// Tag returns the recognised spans for person, place, and
	// organisation mentions, with the tagger's native confidence.
	Tag(ctx context.Context, text string) ([]TaggedSpan, error)

	// Languages returns the BCP 47 primary subtags the tagger
	// supports. Unsupported languages fall back to patterns only.
	Languages() []string
}

// TaggedSpan is a single tagger recognition.
type TaggedSpan struct {
	// Text is the matched span, verbatim.
	Text string

	// Type is the entity classification (person, place, organization).
	Type domain.EntityType

	// Start is the byte offset of the span in the source text.
	Start int

	// End is the byte offset one past the span.
	End int

	// Confidence is the tagger's native confidence in [0,1].
	Confidence float64
}

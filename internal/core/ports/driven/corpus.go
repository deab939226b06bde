package driven

import (
	"context"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

// CorpusStore provides access to the screenshot corpus.
// The search core reads documents; writes happen only at import time.
type CorpusStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents in the corpus.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, id string) error

	// Count returns the number of documents in the corpus.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// Package memory provides in-memory implementations of storage ports
// for testing and ephemeral sessions.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
)

var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory document store. Safe for concurrent use.
type CorpusStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

// NewCorpusStore creates an empty in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{docs: make(map[string]domain.Document)}
}

// SaveDocument stores or updates a document.
func (s *CorpusStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *CorpusStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents ordered by ID for deterministic
// iteration.
func (s *CorpusStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// DeleteDocument removes a document.
func (s *CorpusStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// Count returns the number of stored documents.
func (s *CorpusStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Close releases resources.
func (s *CorpusStore) Close() error {
	return nil
}

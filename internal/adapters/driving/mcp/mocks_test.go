package mcp

import (
	"context"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

// mockParserService is a mock implementation of driving.ParserService.
type mockParserService struct {
	query domain.SearchQuery
	err   error
}

func (m *mockParserService) Parse(_ context.Context, text string) (domain.SearchQuery, error) {
	if m.err != nil {
		return domain.SearchQuery{}, m.err
	}
	q := m.query
	if q.RawText == "" {
		q.RawText = text
	}
	return q, nil
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	result    domain.SearchResult
	err       error
	gotQuery  domain.SearchQuery
	callCount int
}

func (m *mockSearchService) Search(_ context.Context, query domain.SearchQuery) (domain.SearchResult, error) {
	m.gotQuery = query
	m.callCount++
	return m.result, m.err
}

// mockSimilarityService is a mock implementation of driving.SimilarityService.
type mockSimilarityService struct {
	score  domain.SimilarityScore
	scores []domain.SimilarityScore
	err    error
}

func (m *mockSimilarityService) Similarity(_ context.Context, _, _ domain.Document) (domain.SimilarityScore, error) {
	return m.score, m.err
}

func (m *mockSimilarityService) Related(_ context.Context, _ string, limit int) ([]domain.SimilarityScore, error) {
	if m.err != nil {
		return nil, m.err
	}
	scores := m.scores
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

// mockCorpusStore is a mock implementation of driven.CorpusStore.
type mockCorpusStore struct {
	docs    []domain.Document
	listErr error
	getErr  error
}

func (m *mockCorpusStore) SaveDocument(_ context.Context, _ *domain.Document) error {
	return nil
}

func (m *mockCorpusStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			doc := m.docs[i]
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCorpusStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.docs, nil
}

func (m *mockCorpusStore) DeleteDocument(_ context.Context, _ string) error {
	return nil
}

func (m *mockCorpusStore) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func (m *mockCorpusStore) Close() error {
	return nil
}

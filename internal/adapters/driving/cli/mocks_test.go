package cli

import (
	"context"
	"sort"

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
	q.RawText = text
	return q, nil
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	result domain.SearchResult
	err    error
}

func (m *mockSearchService) Search(_ context.Context, _ domain.SearchQuery) (domain.SearchResult, error) {
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
	docs    map[string]domain.Document
	saveErr error
}

func newMockCorpusStore() *mockCorpusStore {
	return &mockCorpusStore{docs: make(map[string]domain.Document)}
}

func (m *mockCorpusStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.ID] = *doc
	return nil
}

func (m *mockCorpusStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockCorpusStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *mockCorpusStore) DeleteDocument(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *mockCorpusStore) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func (m *mockCorpusStore) Close() error {
	return nil
}

// mockSpellChecker is a mock implementation of driven.SpellChecker.
type mockSpellChecker struct {
	learned []string
}

func (m *mockSpellChecker) Correct(word string) (string, bool) {
	return word, false
}

func (m *mockSpellChecker) Learn(words []string) {
	m.learned = append(m.learned, words...)
}

// mockExtractor is a mock implementation of EntityExtractor.
type mockExtractor struct {
	entities []domain.ExtractedEntity
}

func (m *mockExtractor) Extract(_ context.Context, _ string) []domain.ExtractedEntity {
	return m.entities
}

// setupTestServices swaps in happy-path mocks and returns a cleanup
// that restores the previous wiring.
func setupTestServices() func() {
	oldParser := parserService
	oldSearch := searchService
	oldSimilarity := similarityService
	oldCorpus := corpusStore
	oldSpell := spellChecker
	oldExtractor := entityExtractor

	parserService = &mockParserService{query: domain.SearchQuery{
		NormalizedText: "test query",
		Intent:         domain.IntentFind,
		Terms:          []string{"test", "query"},
		Confidence:     1.0,
		Actionable:     true,
	}}
	searchService = &mockSearchService{result: domain.SearchResult{
		Items: []domain.ScoredDocument{
			{DocumentID: "doc-1", Score: 0.95, MatchedTerms: []string{"test"}},
		},
		TierReached: domain.TierExact,
	}}
	similarityService = &mockSimilarityService{}
	corpusStore = newMockCorpusStore()
	spellChecker = &mockSpellChecker{}
	entityExtractor = &mockExtractor{}

	return func() {
		parserService = oldParser
		searchService = oldSearch
		similarityService = oldSimilarity
		corpusStore = oldCorpus
		spellChecker = oldSpell
		entityExtractor = oldExtractor
	}
}

package services

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrace-cli/internal/matching"
)

// mockCorpus is an in-memory CorpusStore with injectable failures.
type mockCorpus struct {
	docs    []domain.Document
	listErr error
	getErr  error
}

func (m *mockCorpus) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *mockCorpus) GetDocument(_ context.Context, id string) (*domain.Document, error) {
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

func (m *mockCorpus) ListDocuments(_ context.Context) ([]domain.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Document(nil), m.docs...), nil
}

func (m *mockCorpus) DeleteDocument(_ context.Context, id string) error {
	for i := range m.docs {
		if m.docs[i].ID == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockCorpus) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func (m *mockCorpus) Close() error { return nil }

// mockSpellChecker corrects from a fixed table.
type mockSpellChecker struct {
	corrections map[string]string
	learned     []string
}

func (m *mockSpellChecker) Correct(word string) (string, bool) {
	if fixed, ok := m.corrections[word]; ok {
		return fixed, true
	}
	return word, false
}

func (m *mockSpellChecker) Learn(words []string) {
	m.learned = append(m.learned, words...)
}

// mockTagger returns fixed spans with injectable failure, recording
// the text it was asked to tag.
type mockTagger struct {
	spans   []driven.TaggedSpan
	err     error
	langs   []string
	gotText string
}

func (m *mockTagger) Tag(_ context.Context, text string) ([]driven.TaggedSpan, error) {
	m.gotText = text
	if m.err != nil {
		return nil, m.err
	}
	return m.spans, nil
}

func (m *mockTagger) Languages() []string {
	if m.langs != nil {
		return m.langs
	}
	return []string{"en"}
}

// mockEmbedding produces deterministic bag-of-words vectors so texts
// sharing tokens score higher. delay simulates a slow model server and
// respects context cancellation.
type mockEmbedding struct {
	vectors map[string][]float32
	err     error
	delay   time.Duration

	calls     atomic.Int64
	started   chan struct{}
	startOnce sync.Once
}

func (m *mockEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	if m.started != nil {
		m.startOnce.Do(func() { close(m.started) })
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	return bowVector(text), nil
}

func (m *mockEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int              { return 16 }
func (m *mockEmbedding) ModelName() string            { return "mock-embed" }
func (m *mockEmbedding) Ping(_ context.Context) error { return nil }
func (m *mockEmbedding) Close() error                 { return nil }

func bowVector(text string) []float32 {
	vec := make([]float32, 16)
	for _, tok := range matching.Tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(matching.Stem(tok)))
		vec[h.Sum32()%16]++
	}
	return vec
}

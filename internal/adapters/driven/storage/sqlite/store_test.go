package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleDocument(id string) *domain.Document {
	return &domain.Document{
		ID:            id,
		ExtractedText: "Receipt from Marriott Hotel Paris Total $180.00",
		Timestamp:     time.Date(2025, time.July, 2, 10, 0, 0, 0, time.UTC),
		Tags:          []string{"receipt", "travel"},
		Entities: []domain.ExtractedEntity{
			{Type: domain.EntityBrand, Value: "marriott", Start: 13, End: 21, Confidence: 0.8},
			{Type: domain.EntityCurrency, Value: "$180.00", Start: 40, End: 47, Confidence: 0.9},
		},
		VisualSignature: []float64{0.2, 0.5, 0.3},
		Language:        "en",
	}
}

func TestStore_MigratesOnOpen(t *testing.T) {
	s := newTestStore(t)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NotEmpty(t, s.Path())
}

func TestStore_SaveAndGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := sampleDocument("doc-1")
	require.NoError(t, s.SaveDocument(ctx, doc))

	got, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ExtractedText, got.ExtractedText)
	assert.True(t, doc.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, doc.Tags, got.Tags)
	assert.Equal(t, doc.Entities, got.Entities)
	assert.Equal(t, doc.VisualSignature, got.VisualSignature)
	assert.Equal(t, "en", got.Language)
}

func TestStore_SaveUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := sampleDocument("doc-1")
	require.NoError(t, s.SaveDocument(ctx, doc))

	doc.ExtractedText = "updated"
	doc.Tags = []string{"updated"}
	require.NoError(t, s.SaveDocument(ctx, doc))

	got, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.ExtractedText)
	assert.Equal(t, []string{"updated"}, got.Tags)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_SaveInvalid(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.SaveDocument(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.SaveDocument(context.Background(), &domain.Document{}), domain.ErrInvalidInput)
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDocument(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_NilSignatureAndEntities(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := &domain.Document{
		ID:        "bare",
		Timestamp: time.Date(2025, time.July, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveDocument(ctx, doc))

	got, err := s.GetDocument(ctx, "bare")
	require.NoError(t, err)
	assert.Nil(t, got.VisualSignature)
	assert.Nil(t, got.Entities)
	assert.False(t, got.HasText())
}

func TestStore_ListOrderedByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(t, s.SaveDocument(ctx, sampleDocument(id)))
	}

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "alpha", docs[0].ID)
	assert.Equal(t, "bravo", docs[1].ID)
	assert.Equal(t, "charlie", docs[2].ID)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDocument(ctx, sampleDocument("doc-1")))
	require.NoError(t, s.DeleteDocument(ctx, "doc-1"))

	_, err := s.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.DeleteDocument(ctx, "doc-1"), domain.ErrNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SaveDocument(ctx, sampleDocument("doc-1")))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
}

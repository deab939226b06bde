package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

func newTestSimilarityEngine(t *testing.T, corpus *mockCorpus, semantic *SemanticScorer) *SimilarityEngine {
	t.Helper()
	e, err := NewSimilarityEngine(corpus, semantic, domain.DefaultSimilarityWeights())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestSimilarityEngine_IdenticalDocuments(t *testing.T) {
	e := newTestSimilarityEngine(t, &mockCorpus{}, nil)

	a := domain.Document{ID: "a", ExtractedText: "receipt marriott hotel", Tags: []string{"travel"}, Timestamp: parisReceiptTime}
	b := domain.Document{ID: "b", ExtractedText: "receipt marriott hotel", Tags: []string{"travel"}, Timestamp: parisReceiptTime}

	score, err := e.Similarity(context.Background(), a, b)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, score.Combined, 1e-9,
		"identical available signals with renormalised weights score 1.0")
	assert.InDelta(t, 1.0, score.TextScore, 1e-9)
	assert.InDelta(t, 1.0, score.ThematicScore, 1e-9)
	assert.InDelta(t, 1.0, score.TemporalScore, 1e-9)
}

func TestSimilarityEngine_UnrelatedDocuments(t *testing.T) {
	e := newTestSimilarityEngine(t, &mockCorpus{}, nil)

	a := domain.Document{ID: "a", ExtractedText: "receipt marriott hotel", Tags: []string{"travel"}, Timestamp: parisReceiptTime}
	b := domain.Document{ID: "b", ExtractedText: "birthday cake candles", Tags: []string{"party"}, Timestamp: parisReceiptTime.AddDate(0, -6, 0)}

	score, err := e.Similarity(context.Background(), a, b)

	require.NoError(t, err)
	assert.Less(t, score.Combined, 0.1)
}

func TestSimilarityEngine_CanonicalPairOrder(t *testing.T) {
	e := newTestSimilarityEngine(t, &mockCorpus{}, nil)

	a := domain.Document{ID: "zebra", Timestamp: parisReceiptTime}
	b := domain.Document{ID: "aardvark", Timestamp: parisReceiptTime}

	score, err := e.Similarity(context.Background(), a, b)

	require.NoError(t, err)
	assert.Equal(t, "aardvark", score.DocumentA)
	assert.Equal(t, "zebra", score.DocumentB)
}

func TestSimilarityEngine_VisualSignatures(t *testing.T) {
	e := newTestSimilarityEngine(t, &mockCorpus{}, nil)

	sig := []float64{0.2, 0.5, 0.3}
	a := domain.Document{ID: "a", VisualSignature: sig, Timestamp: parisReceiptTime}
	b := domain.Document{ID: "b", VisualSignature: sig, Timestamp: parisReceiptTime}

	score, err := e.Similarity(context.Background(), a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score.VisualScore, 1e-9)

	// A missing signature zeroes the sub-score without sinking the
	// combined score below what the other signals support.
	c := domain.Document{ID: "c", Timestamp: parisReceiptTime}
	degraded, err := e.Similarity(context.Background(), a, c)
	require.NoError(t, err)
	assert.Zero(t, degraded.VisualScore)
	// Only the temporal signal is live; its weight is renormalised
	// against text and thematic: 0.15 / (0.30 + 0.20 + 0.15).
	assert.InDelta(t, 0.15/0.65, degraded.Combined, 1e-9)
}

func TestVisualSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, visualSimilarity([]float64{1, 0}, []float64{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, visualSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Zero(t, visualSimilarity(nil, []float64{1}))
}

func TestTemporalSimilarity(t *testing.T) {
	base := parisReceiptTime

	assert.InDelta(t, 1.0, temporalSimilarity(base, base), 1e-9)
	assert.InDelta(t, 0.5, temporalSimilarity(base, base.Add(15*24*time.Hour)), 1e-9)
	assert.Zero(t, temporalSimilarity(base, base.Add(31*24*time.Hour)))
	assert.Equal(t,
		temporalSimilarity(base, base.Add(10*24*time.Hour)),
		temporalSimilarity(base.Add(10*24*time.Hour), base),
		"decay is symmetric")
}

func TestThematicSimilarity_SharedTheme(t *testing.T) {
	a := domain.Document{ExtractedText: "invoice for the flight"}
	b := domain.Document{ExtractedText: "hotel booking payment"}

	// Both documents carry travel and finance vocabulary.
	assert.InDelta(t, 1.0, thematicSimilarity(a, b), 1e-9)

	c := domain.Document{ExtractedText: "pizza menu"}
	assert.Zero(t, thematicSimilarity(a, c))
}

func TestSimilarityEngine_SemanticSubScore(t *testing.T) {
	scorer := NewSemanticScorer(&mockEmbedding{})
	e := newTestSimilarityEngine(t, &mockCorpus{}, scorer)

	a := domain.Document{ID: "a", ExtractedText: "marriott hotel receipt paris", Timestamp: parisReceiptTime}
	b := domain.Document{ID: "b", ExtractedText: "marriott hotel invoice paris", Timestamp: parisReceiptTime}

	score, err := e.Similarity(context.Background(), a, b)

	require.NoError(t, err)
	assert.Greater(t, score.SemanticScore, 0.5, "texts sharing most tokens embed nearby")
}

func TestSimilarityEngine_InvalidWeights(t *testing.T) {
	_, err := NewSimilarityEngine(&mockCorpus{}, nil, domain.SimilarityWeights{Text: 0.5})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSimilarityEngine_Related(t *testing.T) {
	corpus := &mockCorpus{docs: []domain.Document{
		{ID: "target", ExtractedText: "marriott hotel receipt", Tags: []string{"travel"}, Timestamp: parisReceiptTime},
		{ID: "twin", ExtractedText: "marriott hotel receipt", Tags: []string{"travel"}, Timestamp: parisReceiptTime},
		{ID: "cousin", ExtractedText: "delta boarding pass", Tags: []string{"travel"}, Timestamp: parisReceiptTime.AddDate(0, 0, -3)},
		{ID: "stranger", ExtractedText: "birthday cake candles", Tags: []string{"party"}, Timestamp: parisReceiptTime.AddDate(0, -6, 0)},
	}}
	e := newTestSimilarityEngine(t, corpus, nil)

	scores, err := e.Related(context.Background(), "target", 10)

	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, "twin", scores[0].Other("target"))
	assert.Equal(t, "cousin", scores[1].Other("target"))
	assert.Equal(t, "stranger", scores[2].Other("target"))
	for i := 1; i < len(scores); i++ {
		assert.LessOrEqual(t, scores[i].Combined, scores[i-1].Combined)
	}
}

func TestSimilarityEngine_RelatedHonoursLimit(t *testing.T) {
	corpus := &mockCorpus{docs: []domain.Document{
		{ID: "target", ExtractedText: "receipt", Timestamp: parisReceiptTime},
		{ID: "b", ExtractedText: "receipt", Timestamp: parisReceiptTime},
		{ID: "c", ExtractedText: "receipt", Timestamp: parisReceiptTime},
		{ID: "d", ExtractedText: "receipt", Timestamp: parisReceiptTime},
	}}
	e := newTestSimilarityEngine(t, corpus, nil)

	scores, err := e.Related(context.Background(), "target", 2)

	require.NoError(t, err)
	assert.Len(t, scores, 2)

	_, err = e.Related(context.Background(), "target", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSimilarityEngine_RelatedUnknownDocument(t *testing.T) {
	e := newTestSimilarityEngine(t, &mockCorpus{}, nil)

	_, err := e.Related(context.Background(), "ghost", 5)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package services

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrace-cli/internal/logger"
	"github.com/custodia-labs/retrace-cli/internal/matching"
)

var _ driving.SimilarityService = (*SimilarityEngine)(nil)

// temporalDecayWindow is the capture-time distance at which the
// temporal sub-score reaches zero. Screenshots taken within the same
// month are plausibly related; beyond that, time carries no signal.
const temporalDecayWindow = 30 * 24 * time.Hour

// topicLexicon maps stemmed tokens to coarse themes for the thematic
// sub-score. Tags contribute directly alongside these themes.
var topicLexicon = map[string]string{
	"receipt": "finance", "invoice": "finance", "bill": "finance",
	"payment": "finance", "bank": "finance", "tax": "finance",
	"salary": "finance", "refund": "finance", "price": "finance",
	"statement": "finance", "transaction": "finance",

	"flight": "travel", "hotel": "travel", "booking": "travel",
	"trip": "travel", "train": "travel", "taxi": "travel",
	"airport": "travel", "luggage": "travel", "passport": "travel",
	"itinerary": "travel", "airline": "travel",

	"restaurant": "food", "food": "food", "coffee": "food",
	"menu": "food", "grocery": "food", "pizza": "food",
	"cake": "food", "dinner": "food", "lunch": "food",

	"dress": "shopping", "shirt": "shopping", "shoe": "shopping",
	"jacket": "shopping", "bag": "shopping", "order": "shopping",
	"cart": "shopping", "discount": "shopping", "coupon": "shopping",
	"store": "shopping", "delivery": "shopping",

	"meeting": "work", "email": "work", "calendar": "work",
	"deadline": "work", "project": "work", "resume": "work",
	"contract": "work", "report": "work",

	"doctor": "health", "pharmacy": "health", "prescription": "health",
	"appointment": "health", "gym": "health", "workout": "health",
}

// SimilarityEngine computes multi-signal pairwise document similarity
// from five sub-scores: shared text, visual signature distance, theme
// overlap, capture-time proximity, and embedding similarity.
//
// When a signal is unavailable for a pair (no visual signatures, no
// embedding provider), its weight is redistributed across the
// remaining signals rather than silently zeroing the combined score.
type SimilarityEngine struct {
	corpus   driven.CorpusStore
	semantic *SemanticScorer
	weights  domain.SimilarityWeights
	pool     *ants.Pool
}

// NewSimilarityEngine creates an engine with a worker pool sized to
// the machine for batch comparisons. semantic may be nil.
func NewSimilarityEngine(corpus driven.CorpusStore, semantic *SemanticScorer, weights domain.SimilarityWeights) (*SimilarityEngine, error) {
	if !weights.Valid() {
		return nil, fmt.Errorf("%w: similarity weights must sum to 1.0", domain.ErrInvalidInput)
	}
	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		return nil, fmt.Errorf("creating similarity worker pool: %w", err)
	}
	return &SimilarityEngine{
		corpus:   corpus,
		semantic: semantic,
		weights:  weights,
		pool:     pool,
	}, nil
}

// Close releases the worker pool.
func (e *SimilarityEngine) Close() error {
	e.pool.Release()
	return nil
}

// Similarity implements driving.SimilarityService.
func (e *SimilarityEngine) Similarity(ctx context.Context, a, b domain.Document) (domain.SimilarityScore, error) {
	score := domain.NewSimilarityScore(a.ID, b.ID)

	score.TextScore = textSimilarity(a, b)
	score.ThematicScore = thematicSimilarity(a, b)
	score.TemporalScore = temporalSimilarity(a.Timestamp, b.Timestamp)

	weights := e.weights
	if a.VisualSignature != nil && b.VisualSignature != nil {
		score.VisualScore = visualSimilarity(a.VisualSignature, b.VisualSignature)
	} else {
		weights.Visual = 0
	}

	if e.semantic.Available() && a.HasText() && b.HasText() {
		semScore, err := e.semantic.Score(ctx, a.ExtractedText, b.ExtractedText)
		if err != nil {
			if ctx.Err() != nil {
				return domain.SimilarityScore{}, ctx.Err()
			}
			logger.Warn("semantic sub-score failed for %s/%s: %v", a.ID, b.ID, err)
			weights.Semantic = 0
		} else {
			score.SemanticScore = semScore
		}
	} else {
		weights.Semantic = 0
	}

	score.Recompute(renormalize(weights))
	return score, nil
}

// Related implements driving.SimilarityService. Pair comparisons fan
// out across the worker pool; ordering of the final ranking is
// deterministic regardless of completion order.
func (e *SimilarityEngine) Related(ctx context.Context, docID string, limit int) ([]domain.SimilarityScore, error) {
	if e.corpus == nil {
		return nil, domain.ErrCorpusUnavailable
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}

	target, err := e.corpus.GetDocument(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", docID, err)
	}
	docs, err := e.corpus.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	var (
		mu       sync.Mutex
		scores   []domain.SimilarityScore
		firstErr error
		wg       sync.WaitGroup
	)
	for _, doc := range docs {
		if doc.ID == docID {
			continue
		}
		doc := doc
		wg.Add(1)
		submit := e.pool.Submit(func() {
			defer wg.Done()
			score, err := e.Similarity(ctx, *target, doc)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			scores = append(scores, score)
		})
		if submit != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submitting comparison: %w", submit)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Combined != scores[j].Combined {
			return scores[i].Combined > scores[j].Combined
		}
		return scores[i].Other(docID) < scores[j].Other(docID)
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

// textSimilarity is the Jaccard overlap of the documents' searchable
// token sets.
func textSimilarity(a, b domain.Document) float64 {
	return matching.JaccardTokens(a.SearchableText(), b.SearchableText())
}

// visualSimilarity compares colour/layout signatures as histograms:
// one minus the mean absolute per-bin difference.
func visualSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var dist float64
	for i := 0; i < n; i++ {
		dist += math.Abs(a[i] - b[i])
	}
	sim := 1 - dist/float64(n)
	if sim < 0 {
		return 0
	}
	return sim
}

// thematicSimilarity is the Jaccard overlap of the documents' theme
// sets, derived from tags and topic-lexicon hits in the text.
func thematicSimilarity(a, b domain.Document) float64 {
	ta, tb := themesOf(a), themesOf(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for theme := range ta {
		if tb[theme] {
			shared++
		}
	}
	return float64(shared) / float64(len(ta)+len(tb)-shared)
}

func themesOf(doc domain.Document) map[string]bool {
	themes := map[string]bool{}
	for _, tag := range doc.Tags {
		stem := matching.Stem(strings.ToLower(tag))
		if theme, ok := topicLexicon[stem]; ok {
			themes[theme] = true
		} else {
			themes[stem] = true
		}
	}
	for _, tok := range matching.ContentTokens(doc.ExtractedText) {
		if theme, ok := topicLexicon[matching.Stem(tok)]; ok {
			themes[theme] = true
		}
	}
	return themes
}

// temporalSimilarity decays linearly from 1 (same instant) to 0 at
// the decay window.
func temporalSimilarity(a, b time.Time) float64 {
	delta := a.Sub(b)
	if delta < 0 {
		delta = -delta
	}
	if delta >= temporalDecayWindow {
		return 0
	}
	return 1 - float64(delta)/float64(temporalDecayWindow)
}

// renormalize scales non-zero weights back to a unit sum after
// unavailable signals were zeroed.
func renormalize(w domain.SimilarityWeights) domain.SimilarityWeights {
	sum := w.Text + w.Visual + w.Thematic + w.Temporal + w.Semantic
	if sum <= 0 {
		return w
	}
	w.Text /= sum
	w.Visual /= sum
	w.Thematic /= sum
	w.Temporal /= sum
	w.Semantic /= sum
	return w
}

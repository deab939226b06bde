package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/retrace-cli/internal/cache"
	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrace-cli/internal/logger"
	"github.com/custodia-labs/retrace-cli/internal/matching"
)

var _ driving.SearchService = (*Engine)(nil)

// Tier score discounts. Deeper tiers produce less certain matches, so
// their scores are scaled down relative to exact hits.
const (
	spellingDiscount = 0.9
	synonymDiscount  = 0.85

	// semanticFloor is the minimum shifted-cosine score for a document
	// to count as a semantic hit.
	semanticFloor = 0.5

	// ctxCheckInterval is how many documents a lexical tier scores
	// between deadline checks. The budget is a hard bound, so tiers
	// must notice expiry mid-corpus, not only between tiers.
	ctxCheckInterval = 64
)

// Engine runs the progressive fallback search pipeline: five tiers
// from exact matching to semantic similarity, escalating only while
// results are insufficient. All tiers share one wall-clock budget.
//
// The spell checker and semantic scorer are optional; a missing
// capability records its tier in SkippedTiers instead of failing.
//
// Submitting a new search cancels any search still in flight, so
// keystroke-debounced callers always converge on the latest query.
type Engine struct {
	corpus   driven.CorpusStore
	spell    driven.SpellChecker
	semantic *SemanticScorer

	fuzzy    *matching.FuzzyMatcher
	synonyms *matching.SynonymExpander
	cfg      domain.SearchConfig

	resultCache *cache.Cache[string, domain.SearchResult]

	mu       sync.Mutex
	inFlight *flight
}

// flight identifies one in-flight search so that finishing an old
// search never cancels its successor.
type flight struct {
	cancel context.CancelFunc
}

// NewEngine creates a search engine. spell and semantic may be nil;
// the corresponding tiers are skipped.
func NewEngine(corpus driven.CorpusStore, spell driven.SpellChecker, semantic *SemanticScorer, cfg domain.SearchConfig) *Engine {
	cfg = cfg.WithDefaults()
	return &Engine{
		corpus:      corpus,
		spell:       spell,
		semantic:    semantic,
		fuzzy:       matching.NewFuzzyMatcher(cfg.FuzzyThreshold, cache.New[string, matching.FuzzyBreakdown](cache.DefaultCapacity)),
		synonyms:    matching.NewSynonymExpander(),
		cfg:         cfg,
		resultCache: cache.New[string, domain.SearchResult](cache.DefaultCapacity),
	}
}

// CacheStats reports search cache effectiveness.
func (e *Engine) CacheStats() cache.Stats {
	return e.resultCache.Stats()
}

// Search implements driving.SearchService.
func (e *Engine) Search(ctx context.Context, query domain.SearchQuery) (domain.SearchResult, error) {
	if e.corpus == nil {
		return domain.SearchResult{}, domain.ErrCorpusUnavailable
	}
	if query.IsEmpty() || !query.Actionable {
		logger.Debug("query not actionable, short-circuiting: %q", query.RawText)
		return domain.SearchResult{}, nil
	}

	key := resultCacheKey(query)
	if cached, ok := e.resultCache.Get(key); ok {
		cached.FromCache = true
		cached.Elapsed = 0
		return cached, nil
	}

	ctx, finish := e.begin(ctx)
	defer finish()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	started := time.Now()
	result, err := e.run(ctx, query)
	result.Elapsed = time.Since(started)
	if err != nil {
		return domain.SearchResult{}, err
	}

	// Timed-out partials are usable but not authoritative.
	if !result.TimedOut {
		e.resultCache.Put(key, result)
	}
	logger.Debug("search %q: %d results via tier %s in %s",
		query.RawText, len(result.Items), result.TierReached, result.Elapsed)
	return result, nil
}

// begin registers this search as the single in-flight search,
// cancelling any predecessor. The returned finish deregisters it.
func (e *Engine) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	f := &flight{cancel: cancel}

	e.mu.Lock()
	if e.inFlight != nil {
		e.inFlight.cancel()
	}
	e.inFlight = f
	e.mu.Unlock()

	return ctx, func() {
		cancel()
		e.mu.Lock()
		if e.inFlight == f {
			e.inFlight = nil
		}
		e.mu.Unlock()
	}
}

type tierRunner struct {
	tier      domain.Tier
	available func() bool
	run       func(ctx context.Context, docs []domain.Document, query domain.SearchQuery) ([]domain.ScoredDocument, error)
}

func (e *Engine) run(ctx context.Context, query domain.SearchQuery) (domain.SearchResult, error) {
	var result domain.SearchResult

	docs, err := e.loadCandidates(ctx, query)
	if err != nil {
		return result, err
	}
	if len(docs) == 0 {
		return result, nil
	}

	byID := make(map[string]domain.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	runners := []tierRunner{
		{domain.TierExact, nil, e.runExact},
		{domain.TierSpelling, func() bool { return e.spell != nil }, e.runSpelling},
		{domain.TierSynonym, nil, e.runSynonym},
		{domain.TierFuzzy, nil, e.runFuzzy},
		{domain.TierSemantic, func() bool { return e.semantic.Available() }, e.runSemantic},
	}

	merged := map[string]domain.ScoredDocument{}
	for _, runner := range runners {
		if err := searchErr(ctx); err != nil {
			if errors.Is(err, domain.ErrSearchCancelled) {
				return result, err
			}
			result.TimedOut = true
			break
		}

		if runner.available != nil && !runner.available() {
			result.SkippedTiers = append(result.SkippedTiers, runner.tier)
			continue
		}

		tierStart := time.Now()
		items, err := runner.run(ctx, docs, query)
		if err != nil {
			if cErr := searchErr(ctx); cErr != nil {
				if errors.Is(cErr, domain.ErrSearchCancelled) {
					return result, cErr
				}
				// Keep whatever the tier scored before the deadline.
				result.TierReached = runner.tier
				result.TimedOut = true
				mergeItems(merged, items)
				break
			}
			// Capability failed at runtime (e.g. embedding server
			// went away). Degrade like an unavailable tier.
			logger.Warn("tier %s failed: %v", runner.tier, err)
			result.SkippedTiers = append(result.SkippedTiers, runner.tier)
			continue
		}

		result.TierReached = runner.tier
		mergeItems(merged, items)
		logger.Debug("tier %s: %d hits (%d merged) in %s",
			runner.tier, len(items), len(merged), time.Since(tierStart))

		if e.sufficient(merged) {
			break
		}
	}

	result.Items = rankItems(merged, byID, e.cfg.MaxResults)
	return result, nil
}

func searchErr(ctx context.Context) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return domain.ErrSearchCancelled
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ctx.Err()
	default:
		return nil
	}
}

// loadCandidates fetches the corpus, applying the temporal filter as a
// pre-filter so every tier scores only documents inside the range.
func (e *Engine) loadCandidates(ctx context.Context, query domain.SearchQuery) ([]domain.Document, error) {
	docs, err := e.corpus.ListDocuments(ctx)
	if err != nil {
		if cErr := searchErr(ctx); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	if query.TemporalFilter == nil {
		return docs, nil
	}
	filtered := docs[:0]
	for _, doc := range docs {
		if query.TemporalFilter.Contains(doc.Timestamp) {
			filtered = append(filtered, doc)
		}
	}
	return filtered, nil
}

// sufficient reports whether escalation can stop: enough results and a
// confident top hit.
func (e *Engine) sufficient(merged map[string]domain.ScoredDocument) bool {
	if len(merged) < e.cfg.SufficientResults {
		return false
	}
	top := 0.0
	for _, item := range merged {
		if item.Score > top {
			top = item.Score
		}
	}
	return top >= e.cfg.MinTopScore
}

// searchTerms returns the query's matching terms, falling back to all
// normalised tokens when stripping left nothing.
func searchTerms(query domain.SearchQuery) []string {
	if len(query.Terms) > 0 {
		return query.Terms
	}
	return strings.Fields(query.NormalizedText)
}

func (e *Engine) runExact(ctx context.Context, docs []domain.Document, query domain.SearchQuery) ([]domain.ScoredDocument, error) {
	return scoreByTerms(ctx, docs, searchTerms(query), 1.0)
}

func (e *Engine) runSpelling(ctx context.Context, docs []domain.Document, query domain.SearchQuery) ([]domain.ScoredDocument, error) {
	terms := searchTerms(query)
	corrected := make([]string, len(terms))
	changed := false
	for i, term := range terms {
		fixed, ok := e.spell.Correct(term)
		corrected[i] = fixed
		if ok && fixed != term {
			changed = true
		}
	}
	if !changed {
		return nil, nil
	}
	logger.Debug("spelling tier corrected %v -> %v", terms, corrected)
	return scoreByTerms(ctx, docs, corrected, spellingDiscount)
}

func (e *Engine) runSynonym(ctx context.Context, docs []domain.Document, query domain.SearchQuery) ([]domain.ScoredDocument, error) {
	terms := searchTerms(query)

	var out []domain.ScoredDocument
	for i, doc := range docs {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
		docTokens := newTokenSet(doc.SearchableText())

		var matched []string
		for _, term := range terms {
			context := otherTerms(terms, term)
			for _, expansion := range e.synonyms.Expand(term, context) {
				if tokenMatch(docTokens, expansion) {
					matched = append(matched, term)
					break
				}
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, domain.ScoredDocument{
			DocumentID:   doc.ID,
			Score:        synonymDiscount * float64(len(matched)) / float64(len(terms)),
			MatchedTerms: matched,
		})
	}
	return out, nil
}

func (e *Engine) runFuzzy(ctx context.Context, docs []domain.Document, query domain.SearchQuery) ([]domain.ScoredDocument, error) {
	terms := searchTerms(query)

	var out []domain.ScoredDocument
	for i, doc := range docs {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
		docTokens := matching.Tokenize(doc.SearchableText())

		var matched []string
		var total float64
		for _, term := range terms {
			best := 0.0
			for _, tok := range docTokens {
				if breakdown, ok := e.fuzzy.Match(term, tok); ok && breakdown.Combined > best {
					best = breakdown.Combined
				}
			}
			if best > 0 {
				matched = append(matched, term)
				total += best
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, domain.ScoredDocument{
			DocumentID:   doc.ID,
			Score:        total / float64(len(terms)),
			MatchedTerms: matched,
		})
	}
	return out, nil
}

func (e *Engine) runSemantic(ctx context.Context, docs []domain.Document, query domain.SearchQuery) ([]domain.ScoredDocument, error) {
	terms := searchTerms(query)
	queryText := strings.Join(terms, " ")

	var out []domain.ScoredDocument
	for _, doc := range docs {
		score, err := e.semantic.Score(ctx, queryText, doc.SearchableText())
		if err != nil {
			return out, err
		}
		if score < semanticFloor {
			continue
		}
		out = append(out, domain.ScoredDocument{
			DocumentID:   doc.ID,
			Score:        score,
			MatchedTerms: terms,
		})
	}
	return out, nil
}

// scoreByTerms is exact token matching shared by the exact and
// spelling tiers: score is term coverage times the tier discount.
// Terms compare both verbatim and stemmed, so "receipts" hits
// "receipt". Documents scored before the deadline are returned
// alongside the context error.
func scoreByTerms(ctx context.Context, docs []domain.Document, terms []string, discount float64) ([]domain.ScoredDocument, error) {
	var out []domain.ScoredDocument
	for i, doc := range docs {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
		docTokens := newTokenSet(doc.SearchableText())

		var matched []string
		for _, term := range terms {
			if tokenMatch(docTokens, term) {
				matched = append(matched, term)
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, domain.ScoredDocument{
			DocumentID:   doc.ID,
			Score:        discount * float64(len(matched)) / float64(len(terms)),
			MatchedTerms: matched,
		})
	}
	return out, nil
}

// tokenSet holds a document's tokens in verbatim and stemmed form.
type tokenSet map[string]bool

func newTokenSet(text string) tokenSet {
	set := tokenSet{}
	for _, tok := range matching.Tokenize(text) {
		set[tok] = true
		set[matching.Stem(tok)] = true
	}
	return set
}

func tokenMatch(set tokenSet, term string) bool {
	return set[term] || set[matching.Stem(term)]
}

func otherTerms(terms []string, exclude string) []string {
	var out []string
	for _, t := range terms {
		if t != exclude {
			out = append(out, t)
		}
	}
	return out
}

// mergeItems unions tier output into the accumulated result set,
// keeping the highest score per document and unioning matched terms.
func mergeItems(merged map[string]domain.ScoredDocument, items []domain.ScoredDocument) {
	for _, item := range items {
		existing, ok := merged[item.DocumentID]
		if !ok {
			merged[item.DocumentID] = item
			continue
		}
		if item.Score > existing.Score {
			existing.Score = item.Score
		}
		existing.MatchedTerms = unionTerms(existing.MatchedTerms, item.MatchedTerms)
		merged[item.DocumentID] = existing
	}
}

func unionTerms(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := append([]string(nil), a...)
	for _, t := range a {
		seen[t] = true
	}
	for _, t := range b {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// rankItems orders the merged set deterministically: score descending,
// then newer documents first, then document ID ascending.
func rankItems(merged map[string]domain.ScoredDocument, byID map[string]domain.Document, limit int) []domain.ScoredDocument {
	items := make([]domain.ScoredDocument, 0, len(merged))
	for _, item := range merged {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		ti := byID[items[i].DocumentID].Timestamp
		tj := byID[items[j].DocumentID].Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return items[i].DocumentID < items[j].DocumentID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// resultCacheKey identifies a query by its matching-relevant parts:
// the normalised text plus the resolved temporal bounds. Two phrasings
// that normalise identically share a cache entry.
func resultCacheKey(query domain.SearchQuery) string {
	if query.TemporalFilter == nil {
		return query.NormalizedText
	}
	return fmt.Sprintf("%s|%d|%d",
		query.NormalizedText,
		query.TemporalFilter.Start.Unix(),
		query.TemporalFilter.End.Unix())
}

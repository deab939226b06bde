package matching

import (
	"unicode/utf8"

	"github.com/xrash/smetrics"

	"github.com/custodia-labs/retrace-cli/internal/cache"
)

// Fuzzy matching constants.
const (
	// DefaultFuzzyThreshold is the minimum combined score for a
	// candidate to count as a fuzzy match. Scores below this are
	// discarded entirely, bounding false positives.
	DefaultFuzzyThreshold = 0.6

	// minFuzzyLength guards against noisy edit-distance and n-gram
	// scores on very short strings; below it only exact and phonetic
	// evidence counts.
	minFuzzyLength = 3
)

// FuzzyWeights blends the individual similarity algorithms.
// Weights sum to 1.0.
type FuzzyWeights struct {
	Edit     float64
	Jaccard  float64
	NGram    float64
	Phonetic float64
}

// DefaultFuzzyWeights returns the production blend: edit distance
// dominates because single-character typos are the common case in
// keystroke-debounced queries.
func DefaultFuzzyWeights() FuzzyWeights {
	return FuzzyWeights{
		Edit:     0.40,
		Jaccard:  0.20,
		NGram:    0.20,
		Phonetic: 0.20,
	}
}

// FuzzyBreakdown reports the per-algorithm scores behind a combined
// fuzzy score. All values are in [0,1].
type FuzzyBreakdown struct {
	Edit     float64
	Jaccard  float64
	NGram    float64
	Phonetic float64
	Combined float64
}

// FuzzyMatcher scores string similarity with a fixed blend of four
// algorithms: normalised Levenshtein distance, token Jaccard overlap,
// character bigram overlap, and Soundex phonetic matching.
//
// Scoring is pure, so results may be memoised across tiers and
// sessions via an optional injected cache.
type FuzzyMatcher struct {
	weights   FuzzyWeights
	threshold float64
	pairCache *cache.Cache[string, FuzzyBreakdown]
}

// NewFuzzyMatcher creates a matcher with the given acceptance
// threshold. A non-positive threshold falls back to the default.
// pairCache may be nil to disable memoisation.
func NewFuzzyMatcher(threshold float64, pairCache *cache.Cache[string, FuzzyBreakdown]) *FuzzyMatcher {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &FuzzyMatcher{
		weights:   DefaultFuzzyWeights(),
		threshold: threshold,
		pairCache: pairCache,
	}
}

// Threshold returns the acceptance threshold.
func (m *FuzzyMatcher) Threshold() float64 {
	return m.threshold
}

// Score computes the combined similarity of query and candidate with
// a per-algorithm breakdown.
func (m *FuzzyMatcher) Score(query, candidate string) FuzzyBreakdown {
	query = Normalize(query)
	candidate = Normalize(candidate)

	if m.pairCache != nil {
		if cached, ok := m.pairCache.Get(pairKey(query, candidate)); ok {
			return cached
		}
	}

	breakdown := m.score(query, candidate)

	if m.pairCache != nil {
		m.pairCache.Put(pairKey(query, candidate), breakdown)
	}
	return breakdown
}

// Match reports whether candidate is an acceptable fuzzy match for
// query. Candidates below the threshold are rejected outright, not
// merely ranked low.
func (m *FuzzyMatcher) Match(query, candidate string) (FuzzyBreakdown, bool) {
	breakdown := m.Score(query, candidate)
	return breakdown, breakdown.Combined >= m.threshold
}

func (m *FuzzyMatcher) score(query, candidate string) FuzzyBreakdown {
	if query == "" || candidate == "" {
		return FuzzyBreakdown{}
	}
	if query == candidate {
		return FuzzyBreakdown{Edit: 1, Jaccard: 1, NGram: 1, Phonetic: 1, Combined: 1}
	}

	phonetic := phoneticScore(query, candidate)

	// Short strings: edit distance and bigrams are too noisy, rely on
	// exact and phonetic evidence only.
	if utf8.RuneCountInString(query) < minFuzzyLength ||
		utf8.RuneCountInString(candidate) < minFuzzyLength {
		return FuzzyBreakdown{Phonetic: phonetic, Combined: phonetic}
	}

	edit := editScore(query, candidate)
	jac := JaccardTokens(query, candidate)
	ngram := jaccard(Bigrams(query), Bigrams(candidate))

	combined := m.weights.Edit*edit +
		m.weights.Jaccard*jac +
		m.weights.NGram*ngram +
		m.weights.Phonetic*phonetic

	return FuzzyBreakdown{
		Edit:     edit,
		Jaccard:  jac,
		NGram:    ngram,
		Phonetic: phonetic,
		Combined: combined,
	}
}

// editScore normalises Levenshtein distance into [0,1].
func editScore(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 1)
	score := 1.0 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// phoneticScore compares Soundex codes token-wise: the fraction of
// query tokens with a phonetic counterpart in the candidate.
func phoneticScore(a, b string) float64 {
	tokensA := Tokenize(a)
	tokensB := Tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	codesB := make(map[string]bool, len(tokensB))
	for _, tok := range tokensB {
		codesB[smetrics.Soundex(tok)] = true
	}

	matched := 0
	for _, tok := range tokensA {
		if codesB[smetrics.Soundex(tok)] {
			matched++
		}
	}
	return float64(matched) / float64(len(tokensA))
}

func pairKey(query, candidate string) string {
	return query + "\x00" + candidate
}

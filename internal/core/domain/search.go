package domain

import "time"

// Tier identifies one stage of the progressive fallback pipeline.
// Tiers are strictly ordered from cheapest to most expensive.
type Tier int

// Search tiers in escalation order.
const (
	// TierExact matches normalised query terms against document
	// text, tags, and entity values.
	TierExact Tier = iota + 1

	// TierSpelling re-runs exact matching with spell-corrected terms.
	TierSpelling

	// TierSynonym matches the synonym-expanded term set.
	TierSynonym

	// TierFuzzy scores candidates with combined string-similarity
	// metrics, keeping only those above the acceptance threshold.
	TierFuzzy

	// TierSemantic scores candidates by embedding similarity. This is
	// the final tier regardless of result count.
	TierSemantic
)

// IsValid returns true if the tier is within the pipeline range.
func (t Tier) IsValid() bool {
	return t >= TierExact && t <= TierSemantic
}

// String returns a human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSpelling:
		return "spelling"
	case TierSynonym:
		return "synonym"
	case TierFuzzy:
		return "fuzzy"
	case TierSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// SearchConfig holds the tuning constants for the progressive search
// pipeline. Zero values are replaced with defaults by the engine.
type SearchConfig struct {
	// Timeout is the wall-clock budget shared across all tiers.
	Timeout time.Duration

	// SufficientResults is the result count at which the pipeline
	// stops escalating to more expensive tiers.
	SufficientResults int

	// MinTopScore is the minimum top-result score required, together
	// with SufficientResults, to stop escalating.
	MinTopScore float64

	// FuzzyThreshold is the acceptance threshold for tier 4 matches.
	FuzzyThreshold float64

	// MaxResults caps the ranked list returned to the caller.
	MaxResults int
}

// DefaultSearchConfig returns the production tuning constants.
// The timeout satisfies the 2s worst-case interactive budget.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Timeout:           2 * time.Second,
		SufficientResults: 5,
		MinTopScore:       0.7,
		FuzzyThreshold:    0.6,
		MaxResults:        50,
	}
}

// WithDefaults fills unset fields with default values.
func (c SearchConfig) WithDefaults() SearchConfig {
	def := DefaultSearchConfig()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.SufficientResults <= 0 {
		c.SufficientResults = def.SufficientResults
	}
	if c.MinTopScore <= 0 {
		c.MinTopScore = def.MinTopScore
	}
	if c.FuzzyThreshold <= 0 {
		c.FuzzyThreshold = def.FuzzyThreshold
	}
	if c.MaxResults <= 0 {
		c.MaxResults = def.MaxResults
	}
	return c
}

// ScoredDocument is a single ranked search hit.
type ScoredDocument struct {
	// DocumentID is the matched document.
	DocumentID string

	// Score is the relevance score in [0,1].
	Score float64

	// MatchedTerms are the query terms that produced the match.
	MatchedTerms []string
}

// TierResult holds the outcome of running a single tier.
// Invariant: Items are sorted by score descending, ties broken by
// document recency (newer first), then by document ID.
type TierResult struct {
	// Tier identifies which stage produced these items.
	Tier Tier

	// Items are the scored hits from this tier.
	Items []ScoredDocument

	// Elapsed is the wall-clock time the tier consumed.
	Elapsed time.Duration
}

// SearchResult is the ranked output of a progressive search plus the
// metadata callers display ("results via tier 3, 45ms").
type SearchResult struct {
	// Items are the ranked hits. Ordering is deterministic: score
	// descending, then recency, then document ID.
	Items []ScoredDocument

	// TierReached is the deepest tier that executed. Zero when the
	// query short-circuited before any tier ran.
	TierReached Tier

	// Elapsed is the total wall-clock search time.
	Elapsed time.Duration

	// TimedOut is true when the global budget expired mid-tier and
	// Items holds the partial results accumulated so far.
	TimedOut bool

	// FromCache is true when the result was served from the search
	// cache without running any tier.
	FromCache bool

	// SkippedTiers lists tiers skipped because their backing
	// capability was unavailable (e.g., no embedding provider).
	// Distinct from tiers never reached due to early termination.
	SkippedTiers []Tier
}

package domain

import "time"

// Intent is the classified purpose of a query.
type Intent string

// Recognised query intents.
const (
	IntentFind    Intent = "find"
	IntentShow    Intent = "show"
	IntentSearch  Intent = "search"
	IntentFilter  Intent = "filter"
	IntentUnknown Intent = "unknown"
)

// IsValid returns true if the intent is recognised.
func (i Intent) IsValid() bool {
	switch i {
	case IntentFind, IntentShow, IntentSearch, IntentFilter, IntentUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (i Intent) String() string {
	return string(i)
}

// DateRange is a resolved temporal filter with inclusive bounds.
// Invariant: Start <= End.
type DateRange struct {
	// Start is the first instant covered by the range.
	Start time.Time

	// End is the last instant covered by the range.
	End time.Time
}

// Valid returns true if the range bounds are ordered.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Contains returns true if t falls within the range (inclusive).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// SearchQuery is the parsed representation of one user request.
// It is constructed once per query submission and never mutated.
type SearchQuery struct {
	// RawText is the original input, preserved verbatim.
	RawText string

	// NormalizedText is the lowercased, whitespace-collapsed,
	// punctuation-stripped form used for matching and as cache key.
	NormalizedText string

	// Intent is the classified purpose of the query.
	Intent Intent

	// Entities holds extracted entities in extraction order.
	Entities []ExtractedEntity

	// TemporalFilter is the resolved date range, if any phrase matched.
	TemporalFilter *DateRange

	// Terms are the content tokens remaining after intent and filler
	// words are stripped. These drive lexical matching; intent
	// vocabulary must never leak into them.
	Terms []string

	// Confidence is the overall parse confidence in [0,1], a weighted
	// blend of intent-match confidence and mean entity confidence.
	Confidence float64

	// Actionable is true when the query carries enough signal to
	// search: confidence above threshold and at least one of entities,
	// a temporal filter, or non-trivial content terms.
	Actionable bool
}

// IsEmpty returns true if the query has no usable content.
func (q SearchQuery) IsEmpty() bool {
	return q.NormalizedText == ""
}

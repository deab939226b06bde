package services

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrace-cli/internal/matching"
)

var _ driving.ParserService = (*Parser)(nil)

// Parse confidence blend and actionability threshold.
const (
	intentWeight = 0.6
	entityWeight = 0.4

	// actionableThreshold is the minimum parse confidence for a query
	// to be dispatched to search.
	actionableThreshold = 0.5
)

// intentVocabulary maps leading verbs to intents. Only a match at the
// start of the query counts; a mid-sentence "find" is content.
var intentVocabulary = map[string]domain.Intent{
	"find":    domain.IntentFind,
	"locate":  domain.IntentFind,
	"get":     domain.IntentFind,
	"show":    domain.IntentShow,
	"display": domain.IntentShow,
	"list":    domain.IntentShow,
	"search":  domain.IntentSearch,
	"look":    domain.IntentSearch,
	"filter":  domain.IntentFilter,
	"only":    domain.IntentFilter,
}

// fillerVocabulary holds words that carry no matching signal for a
// screenshot corpus. Media words are filler because every document is
// a screenshot; keeping them would match the entire corpus.
var fillerVocabulary = map[string]bool{
	"me": true, "my": true, "all": true, "the": true, "a": true,
	"an": true, "of": true, "for": true, "from": true, "in": true,
	"on": true, "at": true, "with": true, "that": true, "this": true,
	"to": true, "please": true, "some": true, "any": true,
	"screenshot": true, "screenshots": true, "picture": true,
	"pictures": true, "photo": true, "photos": true, "image": true,
	"images": true, "pic": true, "pics": true,
}

// temporalVocabulary holds tokens consumed by the temporal resolver.
// They are stripped from content terms only when a date range actually
// resolved, so "last" in "last name" survives.
var temporalVocabulary = map[string]bool{
	"yesterday": true, "today": true, "tomorrow": true, "last": true,
	"next": true, "week": true, "month": true, "year": true,
	"ago": true, "day": true, "days": true, "weeks": true,
	"months": true, "years": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
	"one": true, "two": true, "three": true, "four": true, "five": true,
	"six": true, "seven": true, "eight": true, "nine": true, "ten": true,
}

// Parser converts raw query text into a structured SearchQuery.
// It composes the entity extractor and temporal resolver, classifies
// intent from a small verb vocabulary, and scores overall confidence.
//
// Parsing is total: malformed input produces an inactionable query,
// never an error.
type Parser struct {
	extractor *EntityExtractor
	resolver  *TemporalResolver
	clock     func() time.Time
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithClock overrides the reference instant used for temporal
// resolution. Intended for tests.
func WithClock(clock func() time.Time) ParserOption {
	return func(p *Parser) { p.clock = clock }
}

// NewParser creates a parser.
func NewParser(extractor *EntityExtractor, resolver *TemporalResolver, opts ...ParserOption) *Parser {
	p := &Parser{
		extractor: extractor,
		resolver:  resolver,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse implements driving.ParserService.
func (p *Parser) Parse(ctx context.Context, text string) (domain.SearchQuery, error) {
	raw := text
	norm := matching.Normalize(text)

	query := domain.SearchQuery{
		RawText:        raw,
		NormalizedText: norm,
		Intent:         domain.IntentUnknown,
	}
	if norm == "" {
		return query, nil
	}

	tokens := strings.Fields(norm)

	intent, intentConfidence := classifyIntent(tokens)
	query.Intent = intent

	// Extraction and temporal resolution run on the text with the
	// leading intent verb removed, so verbs like "find" can never
	// surface as entities or temporal anchors.
	stripped, offset := stripLeadingIntent(raw)

	query.TemporalFilter = p.resolver.Resolve(stripped, p.clock())

	query.Entities = shiftEntities(p.extractor.Extract(ctx, stripped), offset)

	query.Terms = contentTerms(tokens, query.TemporalFilter != nil)

	query.Confidence = intentWeight*intentConfidence +
		entityWeight*domain.MeanEntityConfidence(query.Entities)
	query.Actionable = query.Confidence >= actionableThreshold &&
		(len(query.Entities) > 0 || query.TemporalFilter != nil || len(query.Terms) > 0)

	return query, nil
}

// stripLeadingIntent removes a recognised intent verb from the start
// of the text, returning the remainder and the byte offset where the
// remainder begins in the original.
func stripLeadingIntent(text string) (string, int) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	lead := len(text) - len(trimmed)

	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end < 0 {
		end = len(trimmed)
	}
	if _, ok := intentVocabulary[matching.Normalize(trimmed[:end])]; !ok {
		return text, 0
	}

	rest := trimmed[end:]
	offset := lead + end + (len(rest) - len(strings.TrimLeftFunc(rest, unicode.IsSpace)))
	return text[offset:], offset
}

// shiftEntities maps spans extracted from the intent-stripped text
// back to RawText byte offsets. The extractor caches its output, so
// the slice is copied before adjusting.
func shiftEntities(entities []domain.ExtractedEntity, offset int) []domain.ExtractedEntity {
	if offset == 0 || len(entities) == 0 {
		return entities
	}
	shifted := make([]domain.ExtractedEntity, len(entities))
	copy(shifted, entities)
	for i := range shifted {
		shifted[i].Start += offset
		shifted[i].End += offset
	}
	return shifted
}

// classifyIntent inspects the leading token. A recognised verb yields
// full intent confidence; anything else is an implicit search at half
// confidence.
func classifyIntent(tokens []string) (domain.Intent, float64) {
	if len(tokens) == 0 {
		return domain.IntentUnknown, 0
	}
	if intent, ok := intentVocabulary[tokens[0]]; ok {
		return intent, 1.0
	}
	return domain.IntentUnknown, 0.5
}

// contentTerms strips intent vocabulary, filler, stop words, and (when
// a temporal filter resolved) temporal tokens, leaving the terms that
// drive lexical matching.
func contentTerms(tokens []string, temporalResolved bool) []string {
	var terms []string
	for i, tok := range tokens {
		if i == 0 {
			if _, ok := intentVocabulary[tok]; ok {
				continue
			}
		}
		if fillerVocabulary[tok] || matching.IsStopWord(tok) {
			continue
		}
		if temporalResolved && (temporalVocabulary[tok] || isNumeric(tok)) {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(tok) > 0
}

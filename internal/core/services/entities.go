package services

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/retrace-cli/internal/cache"
	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrace-cli/internal/logger"
	"github.com/custodia-labs/retrace-cli/internal/matching"
)

// Extraction confidence constants.
const (
	// patternConfidence is assigned to regex-validated structured
	// entities (emails, URLs, phones, currency, dates, times).
	patternConfidence = 0.9

	// lexiconConfidence is assigned to curated-list matches (colors,
	// objects, document types, brands, business types).
	lexiconConfidence = 0.8

	// shortSpanDiscount reduces confidence for spans under four bytes,
	// which carry less disambiguating evidence.
	shortSpanDiscount = 0.8

	// nonEnglishTaggerDiscount reduces tagger confidence outside
	// English, where curated coverage is thinner.
	nonEnglishTaggerDiscount = 0.85
)

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	urlPattern      = regexp.MustCompile(`(?i)\bhttps?://[^\s]+|\bwww\.[^\s]+`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)
	currencyPattern = regexp.MustCompile(`(?i)[$€£¥]\s?\d+(?:[.,]\d{1,2})?|\b\d+(?:[.,]\d{1,2})?\s?(?:dollars|euros|pounds|usd|eur|gbp)\b`)
	datePattern     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{4}\b`)
	timePattern     = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?::\d{2})?\s?(?:am|pm)?\b|\b\d{1,2}\s?(?:am|pm)\b`)
	quantityPattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:kg|g|lb|lbs|oz|km|mi|miles|ml|l|litres|liters|pcs|items)\b`)
)

// Curated lexicons. Keys are stemmed, lowercased tokens.
var (
	colorLexicon = lexicon("red", "blue", "green", "yellow", "black", "white",
		"orange", "purple", "pink", "brown", "grey", "gray", "gold",
		"silver", "beige", "navy", "teal", "maroon", "cyan", "magenta")

	documentLexicon = lexicon("receipt", "invoice", "ticket", "contract",
		"statement", "menu", "coupon", "voucher", "certificate",
		"license", "passport", "resume", "report", "payslip", "itinerary")

	objectLexicon = lexicon("dress", "shirt", "shoe", "jacket", "bag", "car",
		"laptop", "watch", "table", "chair", "bike", "bottle", "book",
		"cup", "plant", "dog", "cat", "flower", "cake", "pizza", "sofa",
		"camera", "headphone", "ring", "necklace")

	businessLexicon = lexicon("hotel", "restaurant", "cafe", "bank",
		"airline", "hospital", "pharmacy", "gym", "university", "school",
		"airport", "supermarket", "salon", "bakery", "cinema")

	brandLexicon = lexicon("marriott", "hilton", "amazon", "apple", "google",
		"microsoft", "nike", "adidas", "starbucks", "uber", "lyft",
		"netflix", "spotify", "samsung", "tesla", "ikea", "walmart",
		"target", "delta", "airbnb", "zara", "sephora")
)

func lexicon(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[matching.Stem(w)] = true
	}
	return m
}

// EntityExtractor extracts typed entities from text by combining three
// strategies: validated patterns for structured data, curated lexicons
// for visual and commercial vocabulary, and an optional linguistic
// tagger for names, places, and organisations.
//
// Extraction never fails: a missing or erroring tagger degrades to the
// pattern and lexicon strategies. When spans from different strategies
// overlap, the structured pattern wins.
type EntityExtractor struct {
	tagger      driven.Tagger
	taggerLangs map[string]bool
	cache       *cache.Cache[string, []domain.ExtractedEntity]
}

// NewEntityExtractor creates an extractor. The tagger may be nil.
func NewEntityExtractor(tagger driven.Tagger) *EntityExtractor {
	e := &EntityExtractor{
		tagger: tagger,
		cache:  cache.New[string, []domain.ExtractedEntity](cache.DefaultCapacity),
	}
	if tagger != nil {
		e.taggerLangs = make(map[string]bool)
		for _, lang := range tagger.Languages() {
			e.taggerLangs[lang] = true
		}
	}
	return e
}

// CacheStats reports extraction cache effectiveness.
func (e *EntityExtractor) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// Extract returns the entities recognised in text, sorted by start
// offset. Repeated extractions of identical text are served from an
// internal cache.
func (e *EntityExtractor) Extract(ctx context.Context, text string) []domain.ExtractedEntity {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lang := DetectLanguage(text)
	key := lang + "\x00" + text
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}

	var candidates []domain.ExtractedEntity
	candidates = append(candidates, e.patternEntities(text)...)
	candidates = append(candidates, e.lexiconEntities(text)...)
	candidates = append(candidates, e.taggerEntities(ctx, text, lang)...)

	entities := resolveOverlaps(candidates)
	e.cache.Put(key, entities)
	return entities
}

func (e *EntityExtractor) patternEntities(text string) []domain.ExtractedEntity {
	var out []domain.ExtractedEntity

	add := func(typ domain.EntityType, loc []int, canonical func(string) string) {
		span := text[loc[0]:loc[1]]
		value := span
		if canonical != nil {
			value = canonical(span)
		}
		out = append(out, domain.ExtractedEntity{
			Type:       typ,
			Value:      value,
			Start:      loc[0],
			End:        loc[1],
			Confidence: spanConfidence(patternConfidence, span),
		})
	}

	for _, loc := range emailPattern.FindAllStringIndex(text, -1) {
		add(domain.EntityEmail, loc, strings.ToLower)
	}
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		add(domain.EntityURL, loc, strings.ToLower)
	}
	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		// Separator-heavy dates satisfy the phone shape too; the date
		// interpretation wins.
		if datePattern.MatchString(text[loc[0]:loc[1]]) {
			continue
		}
		add(domain.EntityPhone, loc, canonicalPhone)
	}
	for _, loc := range currencyPattern.FindAllStringIndex(text, -1) {
		add(domain.EntityCurrency, loc, strings.ToLower)
	}
	for _, loc := range datePattern.FindAllStringIndex(text, -1) {
		add(domain.EntityDate, loc, nil)
	}
	for _, loc := range timePattern.FindAllStringIndex(text, -1) {
		add(domain.EntityTime, loc, strings.ToLower)
	}
	for _, loc := range quantityPattern.FindAllStringIndex(text, -1) {
		quantity := domain.ExtractedEntity{
			Type:       domain.EntityQuantity,
			Value:      strings.ToLower(text[loc[0]:loc[1]]),
			Start:      loc[0],
			End:        loc[1],
			Confidence: spanConfidence(lexiconConfidence, text[loc[0]:loc[1]]),
		}
		out = append(out, quantity)
	}
	return out
}

func (e *EntityExtractor) lexiconEntities(text string) []domain.ExtractedEntity {
	var out []domain.ExtractedEntity
	for _, tok := range tokensWithOffsets(text) {
		stem := matching.Stem(strings.ToLower(tok.text))

		var typ domain.EntityType
		switch {
		case colorLexicon[stem]:
			typ = domain.EntityColor
		case documentLexicon[stem]:
			typ = domain.EntityDocument
		case objectLexicon[stem]:
			typ = domain.EntityObject
		case businessLexicon[stem]:
			typ = domain.EntityOrganization
		case brandLexicon[stem]:
			typ = domain.EntityBrand
		default:
			continue
		}

		out = append(out, domain.ExtractedEntity{
			Type:       typ,
			Value:      strings.ToLower(tok.text),
			Start:      tok.start,
			End:        tok.end,
			Confidence: spanConfidence(lexiconConfidence, tok.text),
		})
	}
	return out
}

func (e *EntityExtractor) taggerEntities(ctx context.Context, text, lang string) []domain.ExtractedEntity {
	if e.tagger == nil || !e.taggerLangs[lang] {
		return nil
	}

	spans, err := e.tagger.Tag(ctx, text)
	if err != nil {
		logger.Debug("tagger failed, falling back to patterns: %v", err)
		return nil
	}

	multiplier := 1.0
	if lang != "en" {
		multiplier = nonEnglishTaggerDiscount
	}

	out := make([]domain.ExtractedEntity, 0, len(spans))
	for _, span := range spans {
		out = append(out, domain.ExtractedEntity{
			Type:       span.Type,
			Value:      strings.ToLower(span.Text),
			Start:      span.Start,
			End:        span.End,
			Confidence: span.Confidence * multiplier,
		})
	}
	return out
}

// resolveOverlaps keeps at most one entity per overlapping region.
// Structured pattern matches win over lexicon and tagger spans; among
// equals, higher confidence wins, then the longer span.
func resolveOverlaps(candidates []domain.ExtractedEntity) []domain.ExtractedEntity {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]domain.ExtractedEntity, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Type.IsStructured() != b.Type.IsStructured() {
			return a.Type.IsStructured()
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return (a.End - a.Start) > (b.End - b.Start)
	})

	var kept []domain.ExtractedEntity
	for _, cand := range ranked {
		overlaps := false
		for _, k := range kept {
			if cand.Overlaps(k) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, cand)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

func spanConfidence(base float64, span string) float64 {
	if len(span) < 4 {
		return base * shortSpanDiscount
	}
	return base
}

func canonicalPhone(span string) string {
	var b strings.Builder
	for _, r := range span {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type offsetToken struct {
	text  string
	start int
	end   int
}

// tokensWithOffsets splits text into letter/digit runs with their byte
// offsets preserved, so lexicon entities carry accurate spans.
func tokensWithOffsets(text string) []offsetToken {
	var tokens []offsetToken
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, offsetToken{text: text[start:i], start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, offsetToken{text: text[start:], start: start, end: len(text)})
	}
	return tokens
}

// DetectLanguage returns the BCP 47 primary subtag inferred from the
// dominant script of the text. Latin-script text defaults to English;
// finer Latin-language discrimination is out of reach without a
// statistical model.
func DetectLanguage(text string) string {
	counts := map[string]int{}
	total := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		switch {
		case unicode.Is(unicode.Han, r):
			counts["zh"]++
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			counts["ja"]++
		case unicode.Is(unicode.Hangul, r):
			counts["ko"]++
		case unicode.Is(unicode.Cyrillic, r):
			counts["ru"]++
		case unicode.Is(unicode.Arabic, r):
			counts["ar"]++
		case unicode.Is(unicode.Hebrew, r):
			counts["he"]++
		case unicode.Is(unicode.Greek, r):
			counts["el"]++
		case unicode.Is(unicode.Devanagari, r):
			counts["hi"]++
		case unicode.Is(unicode.Thai, r):
			counts["th"]++
		}
	}
	if total == 0 {
		return "en"
	}

	// Japanese text mixes kana with Han characters; kana presence is
	// the deciding signal.
	if counts["ja"] > 0 {
		return "ja"
	}

	best, bestCount := "en", 0
	for lang, count := range counts {
		if count > bestCount {
			best, bestCount = lang, count
		}
	}
	if bestCount*2 < total {
		return "en"
	}
	return best
}

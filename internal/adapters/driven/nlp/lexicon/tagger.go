package lexicon

import (
	"context"
	"strings"
	"unicode"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
)

var _ driven.Tagger = (*Tagger)(nil)

// taggerConfidence is the fixed confidence for list matches. Lists
// carry no ambiguity model, so every hit is equally trusted.
const taggerConfidence = 0.85

var placeList = []string{
	"paris", "london", "tokyo", "berlin", "madrid", "rome", "amsterdam",
	"barcelona", "lisbon", "vienna", "prague", "dublin", "athens",
	"new york", "san francisco", "los angeles", "chicago", "boston",
	"seattle", "austin", "miami", "toronto", "vancouver", "sydney",
	"melbourne", "singapore", "hong kong", "dubai", "istanbul",
	"bangkok", "seoul", "beijing", "shanghai", "mumbai", "delhi",
	"france", "germany", "spain", "italy", "japan", "canada",
	"australia", "brazil", "mexico", "india", "china",
}

var organizationList = []string{
	"marriott", "hilton", "hyatt", "accor", "united airlines",
	"delta airlines", "air france", "lufthansa", "british airways",
	"chase", "citibank", "wells fargo", "hsbc", "barclays",
	"deutsche bank", "goldman sachs", "visa", "mastercard", "paypal",
	"stripe", "amazon", "google", "microsoft", "apple", "meta",
	"netflix", "spotify", "airbnb", "booking.com", "expedia",
	"starbucks", "mcdonalds", "ikea", "zara", "uniqlo",
}

var personFirstNames = []string{
	"james", "mary", "john", "patricia", "robert", "jennifer",
	"michael", "linda", "david", "elizabeth", "william", "sarah",
	"richard", "susan", "joseph", "jessica", "thomas", "karen",
	"daniel", "emily", "matthew", "anna", "christopher", "maria",
	"anthony", "laura", "mark", "sophie", "paul", "alice",
	"andrew", "olivia", "kevin", "emma", "brian", "julia",
}

// Tagger recognises people, places, and organisations by matching
// text against curated lists. Multi-word names match greedily, longest
// first.
type Tagger struct {
	places map[string]bool
	orgs   map[string]bool
	names  map[string]bool

	// maxSpanWords bounds the window scanned for multi-word matches.
	maxSpanWords int
}

// NewTagger creates a list-backed tagger.
func NewTagger() *Tagger {
	t := &Tagger{
		places:       make(map[string]bool, len(placeList)),
		orgs:         make(map[string]bool, len(organizationList)),
		names:        make(map[string]bool, len(personFirstNames)),
		maxSpanWords: 1,
	}
	for _, p := range placeList {
		t.places[p] = true
		t.trackSpanWords(p)
	}
	for _, o := range organizationList {
		t.orgs[o] = true
		t.trackSpanWords(o)
	}
	for _, n := range personFirstNames {
		t.names[n] = true
	}
	return t
}

func (t *Tagger) trackSpanWords(entry string) {
	words := strings.Count(entry, " ") + 1
	if words > t.maxSpanWords {
		t.maxSpanWords = words
	}
}

// Tag implements driven.Tagger.
func (t *Tagger) Tag(_ context.Context, text string) ([]driven.TaggedSpan, error) {
	words := splitWords(text)

	var spans []driven.TaggedSpan
	for i := 0; i < len(words); {
		span, consumed := t.matchAt(text, words, i)
		if consumed == 0 {
			i++
			continue
		}
		spans = append(spans, span)
		i += consumed
	}
	return spans, nil
}

// matchAt tries the longest candidate window starting at word i.
func (t *Tagger) matchAt(text string, words []word, i int) (driven.TaggedSpan, int) {
	limit := t.maxSpanWords
	if remaining := len(words) - i; remaining < limit {
		limit = remaining
	}

	for n := limit; n >= 1; n-- {
		start := words[i].start
		end := words[i+n-1].end
		// Sentence-final dots stick to the word ("paris."); drop them.
		for end > start && text[end-1] == '.' {
			end--
		}
		candidate := strings.ToLower(text[start:end])

		var typ domain.EntityType
		switch {
		case t.orgs[candidate]:
			typ = domain.EntityOrganization
		case t.places[candidate]:
			typ = domain.EntityPlace
		case n == 1 && t.names[candidate] && words[i].capitalized:
			// A bare first name only counts when written as a name.
			typ = domain.EntityPerson
		default:
			continue
		}

		return driven.TaggedSpan{
			Text:       text[start:end],
			Type:       typ,
			Start:      start,
			End:        end,
			Confidence: taggerConfidence,
		}, n
	}
	return driven.TaggedSpan{}, 0
}

// Languages implements driven.Tagger. The lists are English-only.
func (t *Tagger) Languages() []string {
	return []string{"en"}
}

type word struct {
	start       int
	end         int
	capitalized bool
}

func splitWords(text string) []word {
	var words []word
	start := -1
	capitalized := false
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' {
			if start < 0 {
				start = i
				capitalized = unicode.IsUpper(r)
			}
			continue
		}
		if start >= 0 {
			words = append(words, word{start: start, end: i, capitalized: capitalized})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, word{start: start, end: len(text), capitalized: capitalized})
	}
	return words
}

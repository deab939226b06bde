package lexicon

import (
	"strings"
	"sync"

	"github.com/xrash/smetrics"

	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrace-cli/internal/matching"
)

var _ driven.SpellChecker = (*SpellChecker)(nil)

// Correction limits. Words shorter than minCorrectableLength are too
// ambiguous to correct; candidates further than maxEditDistance away
// are unrelated words, not typos.
const (
	minCorrectableLength = 4
	maxEditDistance      = 2
)

// seedVocabulary covers the query vocabulary of a screenshot corpus.
// Corpus tokens are layered on top via Learn at startup.
var seedVocabulary = []string{
	"receipt", "invoice", "ticket", "document", "statement", "payment",
	"booking", "reservation", "confirmation", "screenshot", "picture",
	"restaurant", "hotel", "flight", "boarding", "travel", "holiday",
	"grocery", "shopping", "delivery", "tracking", "order", "refund",
	"subscription", "account", "password", "message", "email",
	"address", "calendar", "meeting", "appointment", "schedule",
	"birthday", "wedding", "concert", "museum", "parking",
	"insurance", "prescription", "pharmacy", "doctor", "workout",
	"recipe", "menu", "coffee", "dinner", "lunch", "breakfast",
}

// SpellChecker corrects misspelled query tokens against a vocabulary
// of known words. The vocabulary starts from a curated seed and grows
// with corpus tokens, so corrections steer towards words that actually
// appear in indexed screenshots.
type SpellChecker struct {
	mu    sync.RWMutex
	vocab map[string]bool
}

// NewSpellChecker creates a checker with the seed vocabulary.
func NewSpellChecker() *SpellChecker {
	c := &SpellChecker{vocab: make(map[string]bool, len(seedVocabulary))}
	c.Learn(seedVocabulary)
	return c
}

// Correct implements driven.SpellChecker. It returns the closest
// vocabulary word within the edit-distance bound, or the word
// unchanged when none qualifies. Known words are never "corrected".
func (c *SpellChecker) Correct(word string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if len(normalized) < minCorrectableLength {
		return word, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.vocab[normalized] || c.vocab[matching.Stem(normalized)] {
		return word, false
	}

	best := ""
	bestDist := maxEditDistance + 1
	for candidate := range c.vocab {
		// Cheap length pre-filter before the O(n*m) distance.
		if delta := len(candidate) - len(normalized); delta > maxEditDistance || delta < -maxEditDistance {
			continue
		}
		dist := smetrics.WagnerFischer(normalized, candidate, 1, 1, 1)
		if dist < bestDist || (dist == bestDist && best != "" && candidate < best) {
			best = candidate
			bestDist = dist
		}
	}
	if best == "" || bestDist > maxEditDistance {
		return word, false
	}
	return best, true
}

// Learn implements driven.SpellChecker.
func (c *SpellChecker) Learn(words []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range words {
		normalized := strings.ToLower(strings.TrimSpace(w))
		if len(normalized) < minCorrectableLength {
			continue
		}
		c.vocab[normalized] = true
	}
}

// VocabularySize returns the number of known words.
func (c *SpellChecker) VocabularySize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vocab)
}

package matching

import (
	"strings"
	"unicode"
)

// stopWords are filtered from token streams before matching.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// IsStopWord returns true for common function words that carry no
// matching signal.
func IsStopWord(word string) bool {
	return stopWords[strings.ToLower(word)]
}

// Normalize lowercases text, strips punctuation, and collapses
// whitespace runs into single spaces. The result is the canonical
// matching form and the cache key for parsed queries.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case r == '$' || r == '€' || r == '£' || r == '¥':
			// Currency symbols carry meaning for entity extraction.
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits text into lowercased tokens with punctuation
// trimmed. Stop words are retained; callers filter as needed.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		cleaned := strings.ToLower(strings.Trim(f, ".,!?;:'\"-()[]{}"))
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// ContentTokens tokenises and drops stop words.
func ContentTokens(text string) []string {
	tokens := Tokenize(text)
	filtered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !stopWords[tok] {
			filtered = append(filtered, tok)
		}
	}
	return filtered
}

// Stem reduces simple English plurals so "receipts" matches "receipt".
// Deliberately conservative: only trailing plural suffixes are
// removed, never derivational ones.
func Stem(term string) string {
	switch {
	case len(term) > 4 && strings.HasSuffix(term, "ies"):
		return term[:len(term)-3] + "y"
	case len(term) > 4 && strings.HasSuffix(term, "ses"):
		return term[:len(term)-2]
	case len(term) > 3 && strings.HasSuffix(term, "es") &&
		(strings.HasSuffix(term, "ches") || strings.HasSuffix(term, "shes") || strings.HasSuffix(term, "xes")):
		return term[:len(term)-2]
	case len(term) > 3 && strings.HasSuffix(term, "s") && !strings.HasSuffix(term, "ss"):
		return term[:len(term)-1]
	default:
		return term
	}
}

// Bigrams returns the set of character bigrams in s.
func Bigrams(s string) map[string]bool {
	runes := []rune(s)
	grams := make(map[string]bool, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])] = true
	}
	return grams
}

// JaccardTokens returns the Jaccard overlap of the token sets of a
// and b, in [0,1].
func JaccardTokens(a, b string) float64 {
	setA := make(map[string]bool)
	for _, tok := range ContentTokens(a) {
		setA[tok] = true
	}
	setB := make(map[string]bool)
	for _, tok := range ContentTokens(b) {
		setB[tok] = true
	}
	return jaccard(setA, setB)
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

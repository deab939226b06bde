package driven

// SpellChecker suggests corrections for misspelled query tokens.
// This is an optional service - when nil, the spelling tier is
// skipped entirely.
type SpellChecker interface {
	// Correct returns the best correction for the given word and true,
	// or the word unchanged and false when no correction is known.
	Correct(word string) (string, bool)

	// Learn adds words to the checker's vocabulary. Corpus tokens are
	// fed in at startup so corrections steer towards indexed content.
	Learn(words []string)
}

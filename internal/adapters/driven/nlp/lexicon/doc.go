// Package lexicon provides NLP capability adapters built from curated
// word lists: a named-entity tagger for people, places, and
// organisations, and a vocabulary-based spell checker.
//
// They exist so the search core has working Tagger and SpellChecker
// ports on machines without a platform NLP framework. Quality is
// bounded by list coverage; the ports degrade gracefully when these
// adapters are absent, so shipping them is strictly an improvement.
package lexicon

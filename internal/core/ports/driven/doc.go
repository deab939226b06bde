// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// The NLP/ML capabilities (Tagger, SpellChecker, EmbeddingProvider)
// are deliberately abstracted: they are platform services with no
// universal equivalent, so the core algorithms never depend on a
// concrete implementation. Every capability is optional — a nil port
// degrades the corresponding pipeline stage instead of failing the
// search.
package driven

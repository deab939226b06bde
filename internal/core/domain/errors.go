package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorpusUnavailable indicates no corpus store is configured.
	// Search cannot run without document access.
	ErrCorpusUnavailable = errors.New("corpus store unavailable")

	// ErrEmbeddingUnavailable indicates the embedding provider is not
	// configured. The semantic tier and semantic sub-score are skipped.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrSpellCheckerUnavailable indicates no spell checker is
	// configured. The spelling tier is skipped.
	ErrSpellCheckerUnavailable = errors.New("spell checker unavailable")

	// ErrTaggerUnavailable indicates no linguistic tagger is
	// configured. Extraction falls back to patterns and lexicons only.
	ErrTaggerUnavailable = errors.New("tagger unavailable")

	// ErrSearchCancelled indicates the search was superseded by a
	// newer query. Never surfaced to users; the newer query's result
	// becomes authoritative.
	ErrSearchCancelled = errors.New("search cancelled")
)

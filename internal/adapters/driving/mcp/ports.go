package mcp

import (
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Parser turns raw query text into structured queries.
	Parser driving.ParserService

	// Search runs the progressive fallback pipeline.
	Search driving.SearchService

	// Similarity provides related-document lookup. Optional; the
	// related_documents tool reports unavailability when nil.
	Similarity driving.SimilarityService

	// Corpus backs the document resources. Optional.
	Corpus driven.CorpusStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Parser == nil {
		return ErrMissingParserService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Similarity and Corpus are optional
	return nil
}

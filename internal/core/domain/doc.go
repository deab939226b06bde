// Package domain defines the core business entities for Retrace.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A screenshot record with OCR text and metadata
//   - SearchQuery: The parsed representation of one user request
//   - ExtractedEntity: A typed span of meaning pulled from text
//   - DateRange: A resolved temporal filter
//   - SearchResult: Ranked documents plus search metadata
//   - SimilarityScore: Multi-signal similarity between two documents
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

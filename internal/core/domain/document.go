package domain

import (
	"strings"
	"time"
)

// Document represents a screenshot record in the searchable corpus.
// It is the canonical representation after OCR and entity tagging at
// ingestion. Documents are consumed read-only by the search core.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// ExtractedText is the OCR output. Empty when recognition found
	// no text in the screenshot.
	ExtractedText string

	// Timestamp is when the screenshot was captured.
	Timestamp time.Time

	// Tags are AI-assigned labels (e.g., "receipt", "travel").
	Tags []string

	// Entities are extracted from ExtractedText at ingestion time.
	Entities []ExtractedEntity

	// VisualSignature is an opaque colour/layout signature used only
	// for visual similarity scoring. Nil when unavailable.
	VisualSignature []float64

	// Language is the detected language of ExtractedText (BCP 47
	// primary subtag, e.g., "en"). Empty when undetected.
	Language string
}

// HasText returns true if OCR produced any text for this document.
func (d Document) HasText() bool {
	return strings.TrimSpace(d.ExtractedText) != ""
}

// SearchableText returns the combined lowercased text surface used
// for lexical matching: extracted text, tags, and entity values.
func (d Document) SearchableText() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(d.ExtractedText))
	for _, tag := range d.Tags {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(tag))
	}
	for _, e := range d.Entities {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(e.Value))
	}
	return b.String()
}

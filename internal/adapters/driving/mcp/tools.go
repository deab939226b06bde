package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"natural language query to find screenshots"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results    []SearchResultOutput `json:"results"`
	Count      int                  `json:"count"`
	Tier       string               `json:"tier,omitempty"`
	ElapsedMS  int64                `json:"elapsed_ms"`
	TimedOut   bool                 `json:"timed_out,omitempty"`
	FromCache  bool                 `json:"from_cache,omitempty"`
	Actionable bool                 `json:"actionable"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID   string   `json:"document_id"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
}

// ParseInput is the input schema for the parse_query tool.
type ParseInput struct {
	Query string `json:"query" jsonschema:"natural language query to analyse"`
}

// ParseOutput is the structured interpretation of a query.
type ParseOutput struct {
	Intent     string         `json:"intent"`
	Terms      []string       `json:"terms,omitempty"`
	Entities   []EntityOutput `json:"entities,omitempty"`
	From       string         `json:"from,omitempty"`
	To         string         `json:"to,omitempty"`
	Confidence float64        `json:"confidence"`
	Actionable bool           `json:"actionable"`
}

// EntityOutput represents a single extracted entity.
type EntityOutput struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// RelatedInput is the input schema for the related_documents tool.
type RelatedInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document to find related screenshots for"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of related documents (default 5)"`
}

// RelatedOutput is the output schema for the related_documents tool.
type RelatedOutput struct {
	Related []RelatedDocumentOutput `json:"related"`
	Count   int                     `json:"count"`
}

// RelatedDocumentOutput is one related document with its similarity
// breakdown.
type RelatedDocumentOutput struct {
	DocumentID string  `json:"document_id"`
	Combined   float64 `json:"combined"`
	Text       float64 `json:"text"`
	Visual     float64 `json:"visual"`
	Thematic   float64 `json:"thematic"`
	Temporal   float64 `json:"temporal"`
	Semantic   float64 `json:"semantic"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the screenshot corpus with a natural language query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_query",
		Description: "Parse a query into intent, entities, temporal filter, and content terms without searching",
	}, s.handleParse)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "related_documents",
		Description: "Find screenshots most similar to a given document",
	}, s.handleRelated)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	query, err := s.ports.Parser.Parse(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	result, err := s.ports.Search.Search(ctx, query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	items := result.Items
	if len(items) > limit {
		items = items[:limit]
	}

	output := SearchOutput{
		Results:    make([]SearchResultOutput, len(items)),
		Count:      len(items),
		ElapsedMS:  result.Elapsed.Milliseconds(),
		TimedOut:   result.TimedOut,
		FromCache:  result.FromCache,
		Actionable: query.Actionable,
	}
	if result.TierReached.IsValid() {
		output.Tier = result.TierReached.String()
	}

	for i := range items {
		output.Results[i] = SearchResultOutput{
			DocumentID:   items[i].DocumentID,
			Score:        items[i].Score,
			MatchedTerms: items[i].MatchedTerms,
		}
	}

	return nil, output, nil
}

// handleParse handles the parse_query tool invocation.
func (s *Server) handleParse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseInput,
) (*mcp.CallToolResult, ParseOutput, error) {
	query, err := s.ports.Parser.Parse(ctx, input.Query)
	if err != nil {
		return nil, ParseOutput{}, err
	}

	output := ParseOutput{
		Intent:     query.Intent.String(),
		Terms:      query.Terms,
		Confidence: query.Confidence,
		Actionable: query.Actionable,
	}
	if query.TemporalFilter != nil {
		output.From = query.TemporalFilter.Start.Format(time.RFC3339)
		output.To = query.TemporalFilter.End.Format(time.RFC3339)
	}
	for _, e := range query.Entities {
		output.Entities = append(output.Entities, EntityOutput{
			Type:       e.Type.String(),
			Value:      e.Value,
			Confidence: e.Confidence,
		})
	}

	return nil, output, nil
}

// handleRelated handles the related_documents tool invocation.
func (s *Server) handleRelated(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelatedInput,
) (*mcp.CallToolResult, RelatedOutput, error) {
	if s.ports.Similarity == nil {
		return nil, RelatedOutput{}, errors.New("similarity service not configured")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	scores, err := s.ports.Similarity.Related(ctx, input.DocumentID, limit)
	if err != nil {
		return nil, RelatedOutput{}, err
	}

	output := RelatedOutput{
		Related: make([]RelatedDocumentOutput, len(scores)),
		Count:   len(scores),
	}
	for i, sc := range scores {
		output.Related[i] = relatedDocumentOutput(sc, input.DocumentID)
	}

	return nil, output, nil
}

func relatedDocumentOutput(sc domain.SimilarityScore, docID string) RelatedDocumentOutput {
	return RelatedDocumentOutput{
		DocumentID: sc.Other(docID),
		Combined:   sc.Combined,
		Text:       sc.TextScore,
		Visual:     sc.VisualScore,
		Thematic:   sc.ThematicScore,
		Temporal:   sc.TemporalScore,
		Semantic:   sc.SemanticScore,
	}
}

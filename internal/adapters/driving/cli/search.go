package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search screenshots with a natural language query",
	Long: `Parses the query and runs the progressive fallback pipeline:
exact matching first, then spelling correction, synonym expansion,
fuzzy matching, and finally semantic search when an embedding provider
is configured. Cheaper tiers win; the pipeline stops escalating as soon
as enough good results are found.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if parserService == nil || searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := cmd.Context()
	query, err := parserService.Parse(ctx, args[0])
	if err != nil {
		return fmt.Errorf("parsing query: %w", err)
	}

	result, err := searchService.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}
	return outputSearchTable(cmd, query, result)
}

func outputSearchJSON(cmd *cobra.Command, result domain.SearchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, query domain.SearchQuery, result domain.SearchResult) error {
	if !query.Actionable {
		cmd.Println("Query is too vague to search. Try naming what you're looking for.")
		return nil
	}

	if len(result.Items) == 0 {
		cmd.Println("No results found.")
		printSearchFooter(cmd, result)
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, item := range result.Items {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, item.DocumentID, item.Score)
		if len(item.MatchedTerms) > 0 {
			cmd.Printf("      matched: %v\n", item.MatchedTerms)
		}
	}
	cmd.Println()
	printSearchFooter(cmd, result)
	return nil
}

func printSearchFooter(cmd *cobra.Command, result domain.SearchResult) {
	switch {
	case result.FromCache:
		cmd.Printf("%d results from cache\n", len(result.Items))
	case result.TierReached.IsValid():
		cmd.Printf("%d results via %s tier, %dms\n",
			len(result.Items), result.TierReached, result.Elapsed.Milliseconds())
	}
	if result.TimedOut {
		cmd.Println("Search timed out; results may be partial.")
	}
	for _, tier := range result.SkippedTiers {
		cmd.Printf("Skipped %s tier (capability unavailable).\n", tier)
	}
}

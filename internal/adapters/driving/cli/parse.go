package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse [query]",
	Short: "Show how a query would be interpreted",
	Long: `Parses the query without searching and prints the structured
interpretation: intent, extracted entities, resolved date range,
content terms, and overall confidence. Useful for understanding why a
search returned what it did.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "output the parsed query as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if parserService == nil {
		return errors.New("parser service not configured")
	}

	query, err := parserService.Parse(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("parsing query: %w", err)
	}

	if parseJSON {
		data, err := json.MarshalIndent(query, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal query: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputParseTable(cmd, query)
}

func outputParseTable(cmd *cobra.Command, query domain.SearchQuery) error {
	cmd.Printf("Intent:     %s\n", query.Intent)
	cmd.Printf("Terms:      %v\n", query.Terms)
	if query.TemporalFilter != nil {
		cmd.Printf("Date range: %s to %s\n",
			query.TemporalFilter.Start.Format(time.DateOnly),
			query.TemporalFilter.End.Format(time.DateOnly))
	}
	if len(query.Entities) > 0 {
		cmd.Println("Entities:")
		for _, e := range query.Entities {
			cmd.Printf("  %-13s %q (%.2f)\n", e.Type.String()+":", e.Value, e.Confidence)
		}
	}
	cmd.Printf("Confidence: %.2f\n", query.Confidence)
	cmd.Printf("Actionable: %t\n", query.Actionable)
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

var (
	similarLimit int
	similarJSON  bool
)

var similarCmd = &cobra.Command{
	Use:   "similar [documentID]",
	Short: "Find screenshots similar to a document",
	Long: `Ranks the corpus against the given document by blending text
overlap, visual signature, shared themes, capture-time proximity, and
semantic similarity. Signals without data are dropped and the remaining
weights renormalised, so documents missing a visual signature or an
embedding still rank sensibly.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 5, "maximum number of related documents")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output scores as JSON")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	if similarityService == nil {
		return errors.New("similarity service not configured")
	}

	docID := args[0]
	scores, err := similarityService.Related(cmd.Context(), docID, similarLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %q not found", docID)
		}
		return fmt.Errorf("finding related documents: %w", err)
	}

	if similarJSON {
		data, err := json.MarshalIndent(scores, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal scores: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(scores) == 0 {
		cmd.Println("No related documents found.")
		return nil
	}

	cmd.Printf("Documents related to %s:\n\n", docID)
	for i, score := range scores {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, score.Other(docID), score.Combined)
		cmd.Printf("      text %.2f  visual %.2f  thematic %.2f  temporal %.2f  semantic %.2f\n",
			score.TextScore, score.VisualScore, score.ThematicScore,
			score.TemporalScore, score.SemanticScore)
	}
	return nil
}

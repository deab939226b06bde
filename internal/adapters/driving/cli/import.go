package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/matching"
)

var importCmd = &cobra.Command{
	Use:   "import [file.json]",
	Short: "Import screenshot records into the corpus",
	Long: `Loads screenshot records from a JSON file into the local corpus.
Each record carries the OCR text, capture timestamp, optional tags,
visual signature, and language. Entities are extracted at import time
so searches never pay the extraction cost, and corpus tokens are fed to
the spell checker so corrections steer towards indexed content.

Records without an ID are assigned one.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importRecord is the JSON shape of one screenshot record.
type importRecord struct {
	ID              string    `json:"id,omitempty"`
	Text            string    `json:"text"`
	Timestamp       time.Time `json:"timestamp"`
	Tags            []string  `json:"tags,omitempty"`
	VisualSignature []float64 `json:"visual_signature,omitempty"`
	Language        string    `json:"language,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	if corpusStore == nil {
		return errors.New("corpus store not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	var records []importRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing import file: %w", err)
	}

	ctx := cmd.Context()
	var vocabulary []string
	for i, rec := range records {
		doc := &domain.Document{
			ID:              rec.ID,
			ExtractedText:   rec.Text,
			Timestamp:       rec.Timestamp,
			Tags:            rec.Tags,
			VisualSignature: rec.VisualSignature,
			Language:        rec.Language,
		}
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		if doc.Timestamp.IsZero() {
			return fmt.Errorf("record %d: missing timestamp", i)
		}

		if entityExtractor != nil && doc.HasText() {
			doc.Entities = entityExtractor.Extract(ctx, doc.ExtractedText)
		}

		if err := corpusStore.SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("saving record %d (%s): %w", i, doc.ID, err)
		}

		vocabulary = append(vocabulary, matching.Tokenize(doc.SearchableText())...)
	}

	if spellChecker != nil {
		spellChecker.Learn(vocabulary)
	}

	total, err := corpusStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}
	cmd.Printf("Imported %d documents (corpus now holds %d).\n", len(records), total)
	return nil
}

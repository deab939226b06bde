// Package cli provides the cobra command tree for the retrace binary.
// Services are injected once at startup via SetServices; commands fail
// with a clear error when a required service is missing.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrace-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// EntityExtractor precomputes document entities at import time.
// Extraction failures are contained inside the extractor; it always
// returns whatever succeeded.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) []domain.ExtractedEntity
}

var (
	parserService     driving.ParserService
	searchService     driving.SearchService
	similarityService driving.SimilarityService
	corpusStore       driven.CorpusStore
	spellChecker      driven.SpellChecker
	entityExtractor   EntityExtractor
)

// Services bundles everything the command tree needs.
type Services struct {
	Parser     driving.ParserService
	Search     driving.SearchService
	Similarity driving.SimilarityService
	Corpus     driven.CorpusStore
	Spell      driven.SpellChecker
	Extractor  EntityExtractor
}

// SetServices wires the core services into the command tree.
func SetServices(s Services) {
	parserService = s.Parser
	searchService = s.Search
	similarityService = s.Similarity
	corpusStore = s.Corpus
	spellChecker = s.Spell
	entityExtractor = s.Extractor
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "retrace",
	Short: "Conversational search over your screenshot history",
	Long: `Retrace answers natural language questions about your screenshots.
Queries like "find that receipt from last week" are parsed into intent,
entities, and date ranges, then matched against the local corpus with
progressively smarter (and slower) strategies until results are found.

All processing happens on-device.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Command retrace is the on-device conversational screenshot search CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/retrace-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/retrace-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/retrace-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/retrace-cli/internal/adapters/driven/nlp/lexicon"
	"github.com/custodia-labs/retrace-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/retrace-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/retrace-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrace-cli/internal/core/services"
	"github.com/custodia-labs/retrace-cli/internal/logger"
	"github.com/custodia-labs/retrace-cli/internal/matching"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising config: %w", err)
	}
	cfg, err := configStore.Load()
	if err != nil {
		logger.Warn("config unreadable, using defaults: %v", err)
	}

	corpus, err := newCorpusStore(cfg)
	if err != nil {
		return fmt.Errorf("initialising corpus: %w", err)
	}
	defer corpus.Close() //nolint:errcheck

	spell := lexicon.NewSpellChecker()
	seedSpellChecker(corpus, spell)

	scorer := newSemanticScorer(cfg)

	extractor := services.NewEntityExtractor(lexicon.NewTagger())
	parser := services.NewParser(extractor, services.NewTemporalResolver())
	engine := services.NewEngine(corpus, spell, scorer, cfg.SearchSettings())
	similarity, err := services.NewSimilarityEngine(corpus, scorer, domain.DefaultSimilarityWeights())
	if err != nil {
		return fmt.Errorf("initialising similarity engine: %w", err)
	}
	defer similarity.Close() //nolint:errcheck

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Parser:     parser,
		Search:     engine,
		Similarity: similarity,
		Corpus:     corpus,
		Spell:      spell,
		Extractor:  extractor,
	})

	return cli.Execute()
}

func newCorpusStore(cfg file.Config) (driven.CorpusStore, error) {
	if cfg.Storage.Backend == "memory" {
		return memory.NewCorpusStore(), nil
	}
	return sqlite.NewStore(cfg.Storage.DataDir)
}

// newSemanticScorer builds the semantic capability from config. A nil
// scorer is valid: the semantic tier and sub-score degrade gracefully.
func newSemanticScorer(cfg file.Config) *services.SemanticScorer {
	switch cfg.Embedding.Provider {
	case "none":
		return nil
	case "openai":
		provider, err := openai.NewProvider(openai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			logger.Warn("openai embedding unavailable: %v", err)
			return nil
		}
		return services.NewSemanticScorer(provider)
	default:
		return services.NewSemanticScorer(ollama.NewProvider(ollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		}))
	}
}

// seedSpellChecker feeds corpus tokens into the spell checker so
// corrections steer towards indexed content.
func seedSpellChecker(corpus driven.CorpusStore, spell *lexicon.SpellChecker) {
	docs, err := corpus.ListDocuments(context.Background())
	if err != nil {
		logger.Warn("spell checker seeding skipped: %v", err)
		return
	}
	var vocabulary []string
	for i := range docs {
		vocabulary = append(vocabulary, matching.Tokenize(docs[i].SearchableText())...)
	}
	spell.Learn(vocabulary)
}

package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

// Config is the full on-disk configuration.
type Config struct {
	Search    SearchConfig    `toml:"search"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Storage   StorageConfig   `toml:"storage"`
}

// SearchConfig tunes the progressive search pipeline.
type SearchConfig struct {
	// TimeoutMS is the wall-clock search budget in milliseconds.
	TimeoutMS int64 `toml:"timeout_ms"`

	// SufficientResults stops tier escalation once reached.
	SufficientResults int `toml:"sufficient_results"`

	// MinTopScore is the top-score half of the sufficiency check.
	MinTopScore float64 `toml:"min_top_score"`

	// FuzzyThreshold is the fuzzy-match acceptance threshold.
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`

	// MaxResults caps the ranked result list.
	MaxResults int `toml:"max_results"`
}

// EmbeddingConfig selects and configures the semantic backend.
type EmbeddingConfig struct {
	// Provider is "ollama", "openai", or "none".
	Provider string `toml:"provider"`

	// BaseURL overrides the provider's API endpoint.
	BaseURL string `toml:"base_url,omitempty"`

	// Model overrides the provider's default embedding model.
	Model string `toml:"model,omitempty"`

	// APIKey authenticates remote providers.
	APIKey string `toml:"api_key,omitempty"`
}

// StorageConfig selects the corpus backend.
type StorageConfig struct {
	// Backend is "sqlite" or "memory".
	Backend string `toml:"backend"`

	// DataDir overrides the default data directory.
	DataDir string `toml:"data_dir,omitempty"`
}

// DefaultConfig returns the configuration for a fresh install:
// local-only search with the SQLite corpus and Ollama when reachable.
func DefaultConfig() Config {
	search := domain.DefaultSearchConfig()
	return Config{
		Search: SearchConfig{
			TimeoutMS:         search.Timeout.Milliseconds(),
			SufficientResults: search.SufficientResults,
			MinTopScore:       search.MinTopScore,
			FuzzyThreshold:    search.FuzzyThreshold,
			MaxResults:        search.MaxResults,
		},
		Embedding: EmbeddingConfig{Provider: "ollama"},
		Storage:   StorageConfig{Backend: "sqlite"},
	}
}

// SearchSettings converts the persisted tuning into domain form.
// Unset fields fall back to defaults via WithDefaults.
func (c Config) SearchSettings() domain.SearchConfig {
	return domain.SearchConfig{
		Timeout:           time.Duration(c.Search.TimeoutMS) * time.Millisecond,
		SufficientResults: c.Search.SufficientResults,
		MinTopScore:       c.Search.MinTopScore,
		FuzzyThreshold:    c.Search.FuzzyThreshold,
		MaxResults:        c.Search.MaxResults,
	}.WithDefaults()
}

// Store persists configuration as TOML.
type Store struct {
	mu       sync.Mutex
	filePath string
}

// NewStore creates a config store. If configDir is empty, defaults to
// ~/.retrace.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".retrace")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &Store{filePath: filepath.Join(configDir, "config.toml")}, nil
}

// Load reads the configuration, returning defaults when no file
// exists yet.
func (s *Store) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := DefaultConfig()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration with restricted permissions, since it
// may hold an API key.
func (s *Store) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}

package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	cfg, err := s.Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Search.MaxResults = 10
	cfg.Embedding.Provider = "openai"
	cfg.Embedding.APIKey = "sk-test"
	cfg.Storage.Backend = "memory"
	require.NoError(t, s.Save(cfg))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestStore_SaveRestrictsPermissions(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(DefaultConfig()))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "config may hold an API key")
}

func TestStore_PartialFileFallsBackPerField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.toml"),
		[]byte("[search]\nmax_results = 7\n"),
		0600,
	))

	s, err := NewStore(dir)
	require.NoError(t, err)

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.MaxResults)
	assert.Equal(t, "ollama", cfg.Embedding.Provider, "unset sections keep defaults")
}

func TestConfig_SearchSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.TimeoutMS = 1500

	settings := cfg.SearchSettings()

	assert.Equal(t, 1500*time.Millisecond, settings.Timeout)
	assert.Equal(t, 5, settings.SufficientResults)

	// Zeroed fields are refilled with defaults.
	cfg.Search = SearchConfig{}
	assert.Equal(t, 2*time.Second, cfg.SearchSettings().Timeout)
}

func TestStore_LoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [toml"), 0600))

	s, err := NewStore(dir)
	require.NoError(t, err)

	cfg, err := s.Load()
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg, "caller still gets usable defaults")
}

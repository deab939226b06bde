package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
)

func TestSimilarCmd_Use(t *testing.T) {
	assert.Equal(t, "similar [documentID]", similarCmd.Use)
}

func TestSimilarCmd_HasLimitFlag(t *testing.T) {
	flag := similarCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestSimilarCmd_PrintsRelatedDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	score := domain.NewSimilarityScore("doc-a", "doc-b")
	score.TextScore = 0.8
	score.ThematicScore = 1.0
	score.Combined = 0.72
	similarityService = &mockSimilarityService{scores: []domain.SimilarityScore{score}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"similar", "doc-a"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "related to doc-a")
	assert.Contains(t, buf.String(), "doc-b (0.72)")
	assert.Contains(t, buf.String(), "thematic 1.00")
}

func TestSimilarCmd_NoRelatedDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"similar", "doc-a"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No related documents found")
}

func TestSimilarCmd_UnknownDocument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	similarityService = &mockSimilarityService{err: domain.ErrNotFound}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"similar", "ghost"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "\"ghost\" not found")
}

func TestSimilarCmd_ServiceNotConfigured(t *testing.T) {
	oldSimilarity := similarityService
	similarityService = nil
	defer func() {
		similarityService = oldSimilarity
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"similar", "doc-a"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "similarity service not configured")
}

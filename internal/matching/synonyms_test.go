package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynonymExpander_KnownTerm(t *testing.T) {
	e := NewSynonymExpander()

	expanded := e.Expand("receipt", nil)

	require.NotEmpty(t, expanded)
	assert.Equal(t, "receipt", expanded[0], "original term comes first")
	assert.Contains(t, expanded, "invoice")
	assert.Contains(t, expanded, "bill")
	assert.LessOrEqual(t, len(expanded), MaxExpansions)
}

func TestSynonymExpander_PluralNormalised(t *testing.T) {
	e := NewSynonymExpander()

	expanded := e.Expand("Receipts", nil)

	assert.Equal(t, "receipt", expanded[0])
	assert.Contains(t, expanded, "invoice")
}

func TestSynonymExpander_UnknownTerm(t *testing.T) {
	e := NewSynonymExpander()

	expanded := e.Expand("zzyzx", nil)

	assert.Equal(t, []string{"zzyzx"}, expanded)
}

func TestSynonymExpander_ContextualDisambiguation(t *testing.T) {
	e := NewSynonymExpander()

	// "bank" near money context picks the financial set.
	financial := e.Expand("bank", []string{"money", "statement"})
	assert.Contains(t, financial, "account")
	assert.Contains(t, financial, "transaction")

	// "bank" near river context has no matching set: literal only.
	river := e.Expand("bank", []string{"river", "fishing"})
	assert.Equal(t, []string{"bank"}, river)
}

func TestSynonymExpander_Deterministic(t *testing.T) {
	e := NewSynonymExpander()

	first := e.Expand("hotel", []string{"paris", "trip"})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Expand("hotel", []string{"paris", "trip"}))
	}
}

func TestSynonymExpander_EmptyTerm(t *testing.T) {
	e := NewSynonymExpander()

	assert.Nil(t, e.Expand("", nil))
	assert.Nil(t, e.Expand("  !? ", nil))
}

func TestDictionarySize_MeetsCoverageTarget(t *testing.T) {
	assert.GreaterOrEqual(t, DictionarySize(), 200,
		"curated dictionary must cover at least 200 mappings")
}

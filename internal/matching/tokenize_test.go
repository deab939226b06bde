package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Find My Receipts", "find my receipts"},
		{"strips punctuation", "hotel, receipt!", "hotel receipt"},
		{"collapses whitespace", "blue   dress\t receipts", "blue dress receipts"},
		{"keeps currency symbols", "total $180.00", "total $180 00"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Find (blue) dress, receipts!")
	assert.Equal(t, []string{"find", "blue", "dress", "receipts"}, tokens)
}

func TestContentTokens_DropsStopWords(t *testing.T) {
	tokens := ContentTokens("the receipt from the hotel in Paris")
	assert.Equal(t, []string{"receipt", "hotel", "paris"}, tokens)
}

func TestStem(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"receipts", "receipt"},
		{"dresses", "dress"},
		{"categories", "category"},
		{"boxes", "box"},
		{"glass", "glass"},
		{"bus", "bu"}, // conservative suffix rule, acceptable noise
		{"dress", "dress"},
		{"cat", "cat"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stem(tt.input))
		})
	}
}

func TestJaccardTokens(t *testing.T) {
	assert.InDelta(t, 1.0, JaccardTokens("hotel receipt", "receipt hotel"), 1e-9)
	assert.InDelta(t, 0.0, JaccardTokens("hotel", "rocket"), 1e-9)

	// {hotel, receipt} vs {hotel, booking}: 1 shared of 3 total.
	assert.InDelta(t, 1.0/3.0, JaccardTokens("hotel receipt", "hotel booking"), 1e-9)
}

func TestBigrams(t *testing.T) {
	grams := Bigrams("abc")
	assert.Len(t, grams, 2)
	assert.True(t, grams["ab"])
	assert.True(t, grams["bc"])

	assert.Empty(t, Bigrams("a"))
}

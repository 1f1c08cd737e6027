package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{0.3, 0.7}, 0.0},
		{"zero on right", []float32{0.3, 0.7}, []float32{0, 0}, 0.0},
		{"empty", []float32{}, []float32{}, 0.0},
		{"nil", nil, nil, 0.0},
		{"dimension mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"scaled", []float32{2, 0}, []float32{5, 0}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestLexicalTokens(t *testing.T) {
	assert.Equal(t, []string{"laravel", "voice", "assistant"}, lexicalTokens("Laravel voice assistant"))
	assert.Equal(t, []string{"what", "php?"}, lexicalTokens("  what is a  PHP? "))
	assert.Empty(t, lexicalTokens("a an to"))
}

func TestMatchesAnyToken(t *testing.T) {
	tokens := lexicalTokens("Laravel voice assistant")
	assert.True(t, matchesAnyToken("Notes", "Building LARAVEL voice assistants", tokens))
	assert.True(t, matchesAnyToken("Voice guide", "", tokens))
	assert.False(t, matchesAnyToken("Cooking", "Pasta recipes", tokens))
	assert.False(t, matchesAnyToken("anything", "anything", nil))
}

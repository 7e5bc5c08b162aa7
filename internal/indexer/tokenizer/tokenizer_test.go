package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"the quick fox", []string{"the", "quick", "fox"}},
		{"the  quick,fox", []string{"the", "quick", "fox"}},
		{" the fox", []string{"", "the", "fox"}},
		{"the fox.", []string{"the", "fox", ""}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Split(tt.in), "Split(%q)", tt.in)
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"quick", "brown", "fox"}, Words("  quick-brown fox!"))
	assert.Empty(t, Words("  ,. "))
}

func TestPositions(t *testing.T) {
	got := Positions(Split("the cat the dog"))

	assert.Equal(t, 3, got.Len())
	the, ok := got.Get("the")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2}, the)
	dog, _ := got.Get("dog")
	assert.Equal(t, []int{3}, dog)
}

func TestPositions_EmptyTokensKeepAlignment(t *testing.T) {
	tokens := Split(" the fox")
	got := Positions(tokens)

	assert.False(t, got.Contains(""))
	fox, ok := got.Get("fox")
	require.True(t, ok)
	assert.Equal(t, []int{2}, fox)
	assert.Equal(t, "fox", tokens[2])
}

func TestPositions_StrictlyIncreasing(t *testing.T) {
	text := strings.Repeat("a b a c ", 50)
	for word, list := range Positions(Split(text)).All() {
		require.NotEmpty(t, list, word)
		for i := 1; i < len(list); i++ {
			assert.Less(t, list[i-1], list[i], word)
		}
	}
}

func BenchmarkPositions(b *testing.B) {
	tokens := Split(strings.Repeat("information retrieval systems form the backbone of modern search ", 200))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Positions(tokens)
	}
}

// BenchmarkPositions_Short measures positional tokenization of a short document.
func BenchmarkPositions_Short(b *testing.B) {
	tokens := Split("the quick brown fox jumps over the lazy dog while the other fox sleeps under the tree")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Positions(tokens)
	}
}

package corrector

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
)

func buildIndex(t *testing.T, docs ...[2]string) *index.Index {
	t.Helper()
	b := index.NewBuilder(32)
	for _, d := range docs {
		_, err := b.Add(index.Document{ID: d[0], Tokens: tokenizer.Split(d[1])})
		require.NoError(t, err)
	}
	return b.Build()
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"flaw", "lawn", 2},
		{"fox", "fox", 0},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EditDistance(tt.a, tt.b), "EditDistance(%q, %q)", tt.a, tt.b)
	}
}

func TestEditDistance_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("identity", prop.ForAll(
		func(s string) bool { return EditDistance(s, s) == 0 },
		gen.AnyString(),
	))
	properties.Property("symmetry", prop.ForAll(
		func(a, b string) bool { return EditDistance(a, b) == EditDistance(b, a) },
		gen.AlphaString(),
		gen.AlphaString(),
	))
	properties.Property("bounded by the longer word", prop.ForAll(
		func(a, b string) bool {
			d := EditDistance(a, b)
			return d <= max(len([]rune(a)), len([]rune(b)))
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestLinear_KnownWordIsIdempotent(t *testing.T) {
	c := NewLinear(buildIndex(t, [2]string{"a.txt", "the quick fox"}))

	got, err := c.Correct("quick")
	require.NoError(t, err)
	assert.Equal(t, "quick", got.Word)
	assert.Equal(t, 0, got.Distance)
	assert.False(t, got.Corrected())
}

func TestLinear_NearestWord(t *testing.T) {
	c := NewLinear(buildIndex(t, [2]string{"a.txt", "the quick brown fox"}))

	got, err := c.Correct("quik")
	require.NoError(t, err)
	assert.Equal(t, "quick", got.Word)
	assert.Equal(t, 1, got.Distance)
	assert.True(t, got.Corrected())
	assert.Equal(t, "quik", got.Original)
}

func TestLinear_FirstEncounteredWinsTies(t *testing.T) {
	c := NewLinear(buildIndex(t,
		[2]string{"a.txt", "dog"},
		[2]string{"b.txt", "cat bat"},
	))
	assert.Equal(t, 3, c.VocabularySize())

	got, err := c.Correct("hat")
	require.NoError(t, err)
	assert.Equal(t, "cat", got.Word, "cat and bat tie at 1; cat is seen first")
}

func TestLinear_EmptyCorpus(t *testing.T) {
	c := NewLinear(buildIndex(t, [2]string{"a.txt", ""}))
	_, err := c.Correct("fox")
	assert.True(t, errors.Is(err, apperrors.ErrUnknownWord))
}

func BenchmarkEditDistance(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = EditDistance("normalization", "tokenization")
	}
}

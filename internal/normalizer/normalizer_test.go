package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/config"
)

func TestNormalize(t *testing.T) {
	n := New(config.NormalizerConfig{DropPossessive: true})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "The Quick FOX", "the quick fox"},
		{"punctuation", "Hello, world! (again)", "hello world again"},
		{"whitespace", "  a\t\tb\n\nc  ", "a b c"},
		{"possessive dropped", "the dog's bone", "the bone"},
		{"curly possessive dropped", "the dog’s bone", "the bone"},
		{"contraction split", "don't stop", "don t stop"},
		{"non ascii letters removed", "café crème", "caf cr me"},
		{"digits kept", "route 66", "route 66"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalize_KeepPossessive(t *testing.T) {
	n := New(config.NormalizerConfig{})
	assert.Equal(t, "the dog s bone", n.Normalize("the dog's bone"))
}

func TestNormalize_Stem(t *testing.T) {
	n := New(config.NormalizerConfig{Stem: true, DropPossessive: true})
	assert.True(t, n.Stems())
	assert.Equal(t, "run dog jump", n.Normalize("Running dogs jumped"))
	assert.Equal(t, "run", n.Word("running"))
}

func TestWord(t *testing.T) {
	n := New(config.NormalizerConfig{DropPossessive: true})
	assert.Equal(t, "fox", n.Word("FOX"))
	assert.Equal(t, "", n.Word("fox's"))
	assert.Equal(t, "foo", n.Word("foo_"))
}

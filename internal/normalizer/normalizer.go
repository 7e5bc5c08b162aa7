// Package normalizer turns raw document text into the space-delimited
// token stream the index consumes.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/config"
)

// Normalizer lowercases text, strips everything but ASCII letters and
// digits, optionally drops possessive forms and optionally stems each word
// with the Snowball English stemmer.
type Normalizer struct {
	stem           bool
	dropPossessive bool
}

// New builds a Normalizer from cfg.
func New(cfg config.NormalizerConfig) *Normalizer {
	return &Normalizer{stem: cfg.Stem, dropPossessive: cfg.DropPossessive}
}

// Stems reports whether words are stemmed. Query operands must go through
// Word when it does, or they would never match the corpus.
func (n *Normalizer) Stems() bool {
	return n.stem
}

// Normalize returns the words of text joined by single spaces.
func (n *Normalizer) Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, raw := range strings.FieldsFunc(text, isSeparator) {
		for _, word := range n.words(raw) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
		}
	}
	return b.String()
}

// Word normalizes a single query word. It returns "" when nothing of the
// word survives.
func (n *Normalizer) Word(word string) string {
	return strings.Join(n.words(word), "")
}

// words normalizes one apostrophe-bearing chunk. Possessives ("dog's") are
// dropped whole; anything else is split on non-alphanumerics.
func (n *Normalizer) words(raw string) []string {
	if n.dropPossessive && isPossessive(raw) {
		return nil
	}
	parts := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return !isASCIIAlnum(r)
	})
	if !n.stem {
		return parts
	}
	for i, p := range parts {
		if s := english.Stem(p, false); s != "" {
			parts[i] = s
		}
	}
	return parts
}

func isPossessive(word string) bool {
	lower := strings.ToLower(word)
	return strings.Contains(lower, "'s") || strings.Contains(lower, "’s")
}

// isSeparator keeps apostrophes inside chunks so possessives can be seen.
func isSeparator(r rune) bool {
	return r != '\'' && r != '’' && !isASCIIAlnum(r) && !unicode.IsLetter(r)
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

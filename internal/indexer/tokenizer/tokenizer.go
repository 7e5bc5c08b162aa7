// Package tokenizer turns a normalized document into positional word
// lists. Positions are raw indices into the split token stream, so empty
// tokens produced by leading or trailing delimiters still occupy a slot.
package tokenizer

import (
	"regexp"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/dynmap"
)

var nonWord = regexp.MustCompile(`\W+`)

// Split breaks text on runs of non-word characters. A leading or trailing
// delimiter yields an empty token at that end.
func Split(text string) []string {
	return nonWord.Split(text, -1)
}

// Words is Split without the empty tokens, for query operands.
func Words(text string) []string {
	parts := Split(text)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// Positions maps every non-empty token to the ascending list of indices at
// which it occurs. The counter advances on every token, empty or not.
func Positions(tokens []string) *dynmap.Map[string, []int] {
	return PositionsWithCapacity(tokens, dynmap.DefaultCapacity)
}

// PositionsWithCapacity is Positions with an explicit initial map capacity.
func PositionsWithCapacity(tokens []string, capacity int) *dynmap.Map[string, []int] {
	positions := dynmap.NewWithCapacity[string, []int](capacity)
	for pos, token := range tokens {
		if token == "" {
			continue
		}
		list, _ := positions.Get(token)
		positions.Put(token, append(list, pos))
	}
	return positions
}

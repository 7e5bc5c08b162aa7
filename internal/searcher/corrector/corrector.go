// Package corrector maps query words onto the nearest word that occurs in
// the corpus by Levenshtein distance.
package corrector

import (
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/dynmap"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
)

// Correction is the vocabulary word chosen for a query word.
type Correction struct {
	Original string `json:"original"`
	Word     string `json:"word"`
	Distance int    `json:"distance"`
}

// Corrected reports whether the query word was replaced.
func (c Correction) Corrected() bool {
	return c.Distance > 0
}

// Corrector finds the closest occurring word. Implementations other than
// the linear scan (BK-tree, trie) plug in here.
type Corrector interface {
	Correct(word string) (Correction, error)
}

// Corpus is what the linear scan needs from the index.
type Corpus interface {
	Contains(word string) bool
	Documents() []index.Document
}

// Linear compares a word against every distinct corpus word in first
// occurrence order (documents, then tokens left to right).
type Linear struct {
	corpus     Corpus
	vocabulary []string
}

func NewLinear(corpus Corpus) *Linear {
	seen := dynmap.New[string, struct{}]()
	vocabulary := make([]string, 0)
	for _, doc := range corpus.Documents() {
		for _, token := range doc.Tokens {
			if token == "" || seen.Contains(token) {
				continue
			}
			seen.Put(token, struct{}{})
			vocabulary = append(vocabulary, token)
		}
	}
	return &Linear{corpus: corpus, vocabulary: vocabulary}
}

// Correct returns word itself when it is indexed; otherwise the first
// vocabulary word at minimum distance wins.
func (l *Linear) Correct(word string) (Correction, error) {
	if l.corpus.Contains(word) {
		return Correction{Original: word, Word: word}, nil
	}
	if len(l.vocabulary) == 0 {
		return Correction{}, apperrors.Newf(apperrors.ErrUnknownWord, "%q cannot be corrected against an empty corpus", word)
	}
	best := Correction{Original: word, Word: l.vocabulary[0], Distance: EditDistance(word, l.vocabulary[0])}
	for _, candidate := range l.vocabulary[1:] {
		if best.Distance == 0 {
			break
		}
		if d := EditDistance(word, candidate); d < best.Distance {
			best.Word = candidate
			best.Distance = d
		}
	}
	return best, nil
}

// VocabularySize returns the number of distinct corpus words scanned.
func (l *Linear) VocabularySize() int {
	return len(l.vocabulary)
}

// EditDistance is the Levenshtein distance between a and b over runes,
// computed with a single rolling row of len(b)+1 cells.
func EditDistance(a, b string) int {
	source, target := []rune(a), []rune(b)
	if len(source) == 0 {
		return len(target)
	}
	if len(target) == 0 {
		return len(source)
	}
	row := make([]int, len(target)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(source); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(target); j++ {
			above := row[j]
			if source[i-1] == target[j-1] {
				row[j] = diag
			} else {
				row[j] = min(diag, above, row[j-1]) + 1
			}
			diag = above
		}
	}
	return row[len(target)]
}

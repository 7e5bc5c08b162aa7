package ranker

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/dynmap"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
)

// Successor is a word observed immediately after the query word.
type Successor struct {
	Word        string  `json:"word"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}

// Successors tallies the token following every occurrence of word and
// returns them by descending probability, ties by ascending word.
// Occurrences at the end of a document have no successor and are not
// counted.
func Successors(idx Index, word string) ([]Successor, error) {
	fm, ok := idx.Lookup(word)
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrUnknownWord, "%q is not in the vocabulary", word)
	}
	counts := dynmap.New[string, int]()
	total := 0
	for i := 0; i < fm.Len(); i++ {
		_, ordinal, positions := fm.Entry(i)
		doc := idx.DocumentAt(ordinal)
		for _, pos := range positions {
			next, ok := doc.TokenAt(pos + 1)
			if !ok {
				continue
			}
			n, _ := counts.Get(next)
			counts.Put(next, n+1)
			total++
		}
	}
	if total == 0 {
		return nil, apperrors.Newf(apperrors.ErrNoBigram, "%q is never followed by another word", word)
	}

	result := make([]Successor, 0, counts.Len())
	for next, n := range counts.All() {
		result = append(result, Successor{
			Word:        next,
			Count:       n,
			Probability: float64(n) / float64(total),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Probability != result[j].Probability {
			return result[i].Probability > result[j].Probability
		}
		return result[i].Word < result[j].Word
	})
	return result, nil
}

// MostProbableNext returns the most probable successor of word.
func MostProbableNext(idx Index, word string) (Successor, error) {
	successors, err := Successors(idx, word)
	if err != nil {
		return Successor{}, err
	}
	return successors[0], nil
}

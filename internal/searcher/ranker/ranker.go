// Package ranker scores documents against query words with TF-IDF and
// predicts the most probable successor of a word from corpus bigrams.
package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/dynmap"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
)

// Index is the read side of the frozen inverted index used for ranking.
type Index interface {
	Lookup(word string) (*index.FileMap, bool)
	NumDocuments() int
	DocumentAt(ordinal int) index.Document
}

type ScoredDoc struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

// Score accumulates tf*idf for every query word into one score per
// document. Repeated query words contribute again.
func Score(idx Index, words []string) (*dynmap.Map[string, float64], error) {
	scores := dynmap.New[string, float64]()
	totalDocs := idx.NumDocuments()
	for _, word := range words {
		fm, ok := idx.Lookup(word)
		if !ok {
			return nil, apperrors.Newf(apperrors.ErrUnknownWord, "%q is not in the vocabulary", word)
		}
		idf := computeIDF(totalDocs, fm.DocumentFrequency())
		for i := 0; i < fm.Len(); i++ {
			docID, ordinal, positions := fm.Entry(i)
			tf := computeTF(len(positions), idx.DocumentAt(ordinal).WordCount())
			prev, _ := scores.Get(docID)
			scores.Put(docID, prev+tf*idf)
		}
	}
	return scores, nil
}

// Rank orders scored documents by descending score, ties by ascending id.
func Rank(scores *dynmap.Map[string, float64]) []ScoredDoc {
	result := make([]ScoredDoc, 0, scores.Len())
	for docID, score := range scores.All() {
		result = append(result, ScoredDoc{DocID: docID, Score: score})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].DocID < result[j].DocID
	})
	return result
}

// MostRelevant returns the best-scoring document for words.
func MostRelevant(idx Index, words []string) (ScoredDoc, error) {
	scores, err := Score(idx, words)
	if err != nil {
		return ScoredDoc{}, err
	}
	ranked := Rank(scores)
	if len(ranked) == 0 {
		return ScoredDoc{}, apperrors.Newf(apperrors.ErrNoResults, "no document matches %q", words)
	}
	return ranked[0], nil
}

func computeIDF(totalDocs int, docFreq int) float64 {
	return 1 + math.Log(float64(1+totalDocs)/float64(1+docFreq))
}

func computeTF(occurrences int, docLength int) float64 {
	if docLength == 0 {
		return 0
	}
	return float64(occurrences) / float64(docLength)
}

package index

import (
	"iter"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/dynmap"
)

// WordMap is the inverted index proper: word -> FileMap.
type WordMap struct {
	words *dynmap.Map[string, *FileMap]
}

func newWordMap(capacity int) *WordMap {
	return &WordMap{words: dynmap.NewWithCapacity[string, *FileMap](capacity)}
}

func (w *WordMap) add(word string, ordinal uint32, docID string, positions []int) error {
	fm, ok := w.words.Get(word)
	if !ok {
		fm = newFileMap()
		w.words.Put(word, fm)
	}
	return fm.add(ordinal, docID, positions)
}

// Get returns the FileMap for word.
func (w *WordMap) Get(word string) (*FileMap, bool) {
	return w.words.Get(word)
}

// Contains reports whether word occurs anywhere in the corpus.
func (w *WordMap) Contains(word string) bool {
	return w.words.Contains(word)
}

// Len returns the vocabulary size.
func (w *WordMap) Len() int {
	return w.words.Len()
}

// All yields every word with its FileMap in unspecified order.
func (w *WordMap) All() iter.Seq2[string, *FileMap] {
	return w.words.All()
}

// Words returns the vocabulary sorted lexicographically.
func (w *WordMap) Words() []string {
	words := make([]string, 0, w.words.Len())
	for word := range w.words.Keys() {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

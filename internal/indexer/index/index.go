package index

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/dynmap"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
)

// Builder accumulates documents in ingestion order. It is used once: Build
// freezes it and every later Add fails.
type Builder struct {
	words    *WordMap
	docs     []Document
	ordinals *dynmap.Map[string, int]
	capacity int
	frozen   bool
}

func NewBuilder(capacity int) *Builder {
	if capacity < 1 {
		capacity = dynmap.DefaultCapacity
	}
	return &Builder{
		words:    newWordMap(capacity),
		ordinals: dynmap.NewWithCapacity[string, int](capacity),
		capacity: capacity,
	}
}

// Add tokenizes doc positionally and appends one FileMap entry for each
// distinct word it contains. It returns the number of distinct words.
func (b *Builder) Add(doc Document) (int, error) {
	if b.frozen {
		return 0, apperrors.Newf(apperrors.ErrIndexFrozen, "cannot add %q after build", doc.ID)
	}
	if doc.ID == "" {
		return 0, apperrors.New(apperrors.ErrInvalidDocument, "document id is empty")
	}
	if b.ordinals.Contains(doc.ID) {
		return 0, apperrors.Newf(apperrors.ErrDocumentExists, "document %q ingested twice", doc.ID)
	}
	ordinal := len(b.docs)
	b.ordinals.Put(doc.ID, ordinal)
	b.docs = append(b.docs, doc)

	distinct := 0
	for word, positions := range tokenizer.PositionsWithCapacity(doc.Tokens, b.capacity).All() {
		if err := b.words.add(word, uint32(ordinal), doc.ID, positions); err != nil {
			return distinct, err
		}
		distinct++
	}
	return distinct, nil
}

// Build freezes the builder and returns the read-only index.
func (b *Builder) Build() *Index {
	b.frozen = true
	return &Index{
		words:       b.words,
		docs:        b.docs,
		ordinals:    b.ordinals,
		fingerprint: fingerprint(b.docs),
	}
}

// Index is the frozen corpus: the WordMap plus every document's token
// stream in ingestion order. It is safe for concurrent reads.
type Index struct {
	words       *WordMap
	docs        []Document
	ordinals    *dynmap.Map[string, int]
	fingerprint string
}

// Lookup returns the FileMap of word.
func (idx *Index) Lookup(word string) (*FileMap, bool) {
	return idx.words.Get(word)
}

// Contains reports whether word is a vocabulary word.
func (idx *Index) Contains(word string) bool {
	return idx.words.Contains(word)
}

// Words exposes the WordMap.
func (idx *Index) Words() *WordMap {
	return idx.words
}

func (idx *Index) NumDocuments() int {
	return len(idx.docs)
}

// DocumentAt returns the document with the given ingestion ordinal.
func (idx *Index) DocumentAt(ordinal int) Document {
	return idx.docs[ordinal]
}

// Document looks a document up by id.
func (idx *Index) Document(id string) (Document, bool) {
	ordinal, ok := idx.ordinals.Get(id)
	if !ok {
		return Document{}, false
	}
	return idx.docs[ordinal], true
}

// Documents returns all documents in ingestion order. The slice is shared.
func (idx *Index) Documents() []Document {
	return idx.docs
}

// Fingerprint is a hex sha256 over every document id and token, stable for
// identical corpora ingested in the same order.
func (idx *Index) Fingerprint() string {
	return idx.fingerprint
}

func fingerprint(docs []Document) string {
	h := sha256.New()
	for _, doc := range docs {
		h.Write([]byte(doc.ID))
		h.Write([]byte{0})
		for _, t := range doc.Tokens {
			h.Write([]byte(t))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}

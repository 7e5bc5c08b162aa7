package index

import (
	"github.com/RoaringBitmap/roaring"

	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
)

// FileMap records, for one word, the documents containing it and the
// positions of the word inside each. docIDs[i], ordinals[i] and
// positions[i] always describe the same document.
type FileMap struct {
	docIDs    []string
	ordinals  []uint32
	positions [][]int
	docs      *roaring.Bitmap
}

func newFileMap() *FileMap {
	return &FileMap{docs: roaring.New()}
}

func (f *FileMap) add(ordinal uint32, docID string, positions []int) error {
	if len(positions) == 0 {
		return apperrors.Newf(apperrors.ErrInvalidDocument, "no positions for document %q", docID)
	}
	if f.docs.Contains(ordinal) {
		return apperrors.Newf(apperrors.ErrDocumentExists, "document %q already recorded", docID)
	}
	f.docs.Add(ordinal)
	f.docIDs = append(f.docIDs, docID)
	f.ordinals = append(f.ordinals, ordinal)
	f.positions = append(f.positions, positions)
	return nil
}

// DocumentFrequency is the number of documents containing the word.
func (f *FileMap) DocumentFrequency() int {
	return int(f.docs.GetCardinality())
}

// Len returns the number of parallel entries; equal to DocumentFrequency.
func (f *FileMap) Len() int {
	return len(f.docIDs)
}

// DocumentIDs returns the ids in ingestion order. The slice is shared and
// must not be modified.
func (f *FileMap) DocumentIDs() []string {
	return f.docIDs
}

// Entry returns the document id, its ingestion ordinal and the word's
// positions for entry i.
func (f *FileMap) Entry(i int) (docID string, ordinal int, positions []int) {
	return f.docIDs[i], int(f.ordinals[i]), f.positions[i]
}

// Positions returns the positions recorded for docID.
func (f *FileMap) Positions(docID string) ([]int, bool) {
	for i, id := range f.docIDs {
		if id == docID {
			return f.positions[i], true
		}
	}
	return nil, false
}

// ContainsOrdinal reports whether the document at ordinal contains the word.
func (f *FileMap) ContainsOrdinal(ordinal int) bool {
	return ordinal >= 0 && f.docs.Contains(uint32(ordinal))
}

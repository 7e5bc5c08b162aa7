package index

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/tokenizer"
)

const benchText = "this is a benchmark document with several terms for testing the indexing performance of the inverted index"

// BenchmarkBuilderAdd measures per-document insert throughput.
func BenchmarkBuilderAdd(b *testing.B) {
	tokens := tokenizer.Split(benchText)
	builder := NewBuilder(32)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.Add(Document{ID: fmt.Sprintf("doc-%d", i), Tokens: tokens}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLookup measures single-word lookup latency over 10 000 documents.
func BenchmarkLookup(b *testing.B) {
	tokens := tokenizer.Split(benchText)
	builder := NewBuilder(32)
	for i := 0; i < 10000; i++ {
		if _, err := builder.Add(Document{ID: fmt.Sprintf("doc-%d", i), Tokens: tokens}); err != nil {
			b.Fatal(err)
		}
	}
	idx := builder.Build()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			fm, _ := idx.Lookup("index")
			_ = fm
		}
	})
}

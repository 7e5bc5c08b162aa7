package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/tokenizer"
)

func benchIndex(b *testing.B, docs int) *index.Index {
	b.Helper()
	words := []string{"search", "engine", "with", "bigram", "prediction", "and", "ranking", "of", "documents"}
	builder := index.NewBuilder(32)
	for i := 0; i < docs; i++ {
		text := ""
		for j := range 40 {
			text += words[(i+j*7)%len(words)] + " "
		}
		if _, err := builder.Add(index.Document{ID: fmt.Sprintf("doc-%05d.txt", i), Tokens: tokenizer.Split(text)}); err != nil {
			b.Fatal(err)
		}
	}
	return builder.Build()
}

// BenchmarkExecute measures end-to-end query latency over 1000 documents,
// with and without operand correction.
func BenchmarkExecute(b *testing.B) {
	e := New(benchIndex(b, 1000), nil)
	queries := []struct {
		name  string
		query string
	}{
		{"search_single", "search bigram"},
		{"search_multi", "search bigram ranking documents"},
		{"search_corrected", "search bigarm rankin"},
		{"bigram", "the most probable bigram of search"},
		{"bigram_corrected", "the most probable bigram of serch"},
	}
	ctx := context.Background()
	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := e.Execute(ctx, q.query); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

package indexer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/metrics"
)

// Engine drives index construction: one forward pass over the corpus in
// ingestion order, then Freeze.
type Engine struct {
	builder     *index.Builder
	cfg         config.IndexConfig
	metrics     *metrics.Metrics
	logger      *slog.Logger
	started     time.Time
	totalDocs   int
	totalTokens int
}

// NewEngine creates an Engine. m may be nil.
func NewEngine(cfg config.IndexConfig, m *metrics.Metrics) *Engine {
	return &Engine{
		builder: index.NewBuilder(cfg.InitialCapacity),
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "indexer"),
		started: time.Now(),
	}
}

func (e *Engine) IndexDocument(doc index.Document) error {
	distinct, err := e.builder.Add(doc)
	if err != nil {
		return fmt.Errorf("indexing document %s: %w", doc.ID, err)
	}
	words := doc.WordCount()
	e.totalDocs++
	e.totalTokens += words
	if e.metrics != nil {
		e.metrics.DocsIndexedTotal.Inc()
		e.metrics.TokensIndexedTotal.Add(float64(words))
	}
	e.logger.Debug("document indexed",
		"doc_id", doc.ID,
		"token_count", words,
		"distinct_words", distinct,
	)
	return nil
}

// IndexAll indexes docs in order and stops at the first failure; there is
// no partial-corpus mode.
func (e *Engine) IndexAll(docs []index.Document) error {
	for _, doc := range docs {
		if err := e.IndexDocument(doc); err != nil {
			return err
		}
	}
	return nil
}

// Freeze ends construction and returns the read-only index.
func (e *Engine) Freeze() *index.Index {
	idx := e.builder.Build()
	elapsed := time.Since(e.started)
	if e.metrics != nil {
		e.metrics.VocabularySize.Set(float64(idx.Words().Len()))
		e.metrics.IndexBuildSeconds.Set(elapsed.Seconds())
	}
	e.logger.Info("index frozen",
		"documents", e.totalDocs,
		"tokens", e.totalTokens,
		"vocabulary", idx.Words().Len(),
		"elapsed", elapsed.Round(time.Millisecond),
	)
	return idx
}

// Build is the single-call form of IndexAll followed by Freeze.
func Build(cfg config.IndexConfig, m *metrics.Metrics, docs []index.Document) (*index.Index, error) {
	e := NewEngine(cfg, m)
	if err := e.IndexAll(docs); err != nil {
		return nil, err
	}
	return e.Freeze(), nil
}

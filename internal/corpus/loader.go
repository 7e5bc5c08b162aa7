// Package corpus reads a dataset directory into normalized documents ready
// for indexing.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
)

// Normalizer converts raw text to a space-delimited token stream.
type Normalizer interface {
	Normalize(text string) string
}

// Loader reads every regular file of a directory. Files are ingested in
// lexicographic name order; that order is the document order of the index.
type Loader struct {
	cfg        config.CorpusConfig
	normalizer Normalizer
	logger     *slog.Logger
}

func NewLoader(cfg config.CorpusConfig, normalizer Normalizer) *Loader {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Loader{
		cfg:        cfg,
		normalizer: normalizer,
		logger:     slog.Default().With("component", "corpus-loader"),
	}
}

// Load reads, validates and normalizes the whole directory. Any failing
// file aborts the load.
func (l *Loader) Load(ctx context.Context) ([]index.Document, error) {
	entries, err := os.ReadDir(l.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", l.cfg.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			l.logger.Debug("skipping non-regular entry", "name", entry.Name())
			continue
		}
		names = append(names, entry.Name())
	}

	docs := make([]index.Document, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := l.loadFile(name)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("corpus loaded",
		"dir", l.cfg.Dir,
		"documents", len(docs),
		"workers", l.cfg.Workers,
	)
	return docs, nil
}

func (l *Loader) loadFile(name string) (index.Document, error) {
	data, err := os.ReadFile(filepath.Join(l.cfg.Dir, name))
	if err != nil {
		return index.Document{}, fmt.Errorf("reading corpus file %s: %w", name, err)
	}
	if err := validateFile(name, data); err != nil {
		return index.Document{}, apperrors.Newf(apperrors.ErrInvalidDocument, "%v", err)
	}

	text := string(data)
	if l.cfg.HTML && isHTML(name) {
		text, err = extractText(text)
		if err != nil {
			return index.Document{}, apperrors.Newf(apperrors.ErrInvalidDocument, "%s: %v", name, err)
		}
	}

	doc := index.Document{
		ID:     name,
		Tokens: tokenizer.Split(l.normalizer.Normalize(text)),
	}
	l.logger.Debug("document loaded", "doc_id", name, "tokens", doc.WordCount())
	return doc, nil
}

func isHTML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

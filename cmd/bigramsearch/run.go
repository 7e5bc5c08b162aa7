package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/analytics/collector"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/normalizer"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/runlog"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/database"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/tracing"
)

type runOptions struct {
	flushCache bool
	stdout     io.Writer
}

// run loads the corpus, freezes the index and answers the query file.
// Redis, Kafka and the run log are optional; when one is enabled but
// unreachable the run continues without it.
func run(ctx context.Context, cfg *config.Config, opts runOptions) (*executor.Summary, error) {
	log := logger.FromContext(ctx)
	started := time.Now()
	m := metrics.New()

	ctx, root := tracing.StartSpan(ctx, "run")
	defer func() {
		root.End()
		root.Log(log)
	}()

	qio, err := openQueryIO(cfg.Query, opts.stdout)
	if err != nil {
		return nil, err
	}
	defer qio.close()

	norm := normalizer.New(cfg.Normalizer)

	_, loadSpan := tracing.StartSpan(ctx, "load")
	docs, err := corpus.NewLoader(cfg.Corpus, norm).Load(ctx)
	loadSpan.SetAttr("documents", len(docs))
	loadSpan.End()
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	_, indexSpan := tracing.StartSpan(ctx, "index")
	idx, err := indexer.Build(cfg.Index, m, docs)
	indexSpan.End()
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	indexSpan.SetAttr("vocabulary", idx.Words().Len())

	execOpts := []executor.Option{executor.WithMetrics(m)}
	if norm.Stems() {
		execOpts = append(execOpts, executor.WithOperandNormalizer(norm.Word))
	}

	if cfg.Redis.Enabled {
		client, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, answer caching disabled", "error", err)
		} else {
			defer client.Close()
			namespace := idx.Fingerprint()[:16] + ":stem=" + strconv.FormatBool(norm.Stems())
			qc := cache.New(client, namespace, cfg.Redis.CacheTTL, m)
			if opts.flushCache {
				if _, err := qc.Invalidate(ctx); err != nil {
					log.Warn("cache flush failed", "error", err)
				}
			}
			execOpts = append(execOpts, executor.WithCache(qc))
			log.Info("answer cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		bc := collector.NewBatchCollector(producer, cfg.Kafka.BatchSize, cfg.Kafka.FlushInterval)
		bc.OnDrop = func(n int) { m.EventsDropped.Add(float64(n)) }
		bc.Start(ctx)
		defer bc.Close()
		execOpts = append(execOpts, executor.WithTracker(bc))
		log.Info("query events enabled", "topic", cfg.Kafka.Topic)
	}

	summary, err := answerQueries(ctx, qio, executor.New(idx, nil, execOpts...))
	if err != nil {
		return summary, err
	}

	if cfg.Database.Enabled {
		if err := recordRun(ctx, cfg, idx, started, summary); err != nil {
			log.Error("run log not saved", "error", err)
		}
	}

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := m.WriteTextfile(path); err != nil {
			log.Error("metrics textfile not written", "path", path, "error", err)
		}
	}

	log.Info("run finished",
		"documents", idx.NumDocuments(),
		"vocabulary", idx.Words().Len(),
		"queries", summary.Total,
		"answered", summary.Answered,
		"failed", summary.Failed,
		"failures", summary.Failures,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return summary, nil
}

// queryIO holds the query input and the answer output of a run.
type queryIO struct {
	in   *os.File
	out  io.Writer
	file *os.File
}

// openQueryIO opens the query file and creates (or truncates) the output
// file. It runs before the corpus is loaded, so a failed run never leaves
// the previous run's answers behind.
func openQueryIO(cfg config.QueryConfig, stdout io.Writer) (*queryIO, error) {
	in, err := os.Open(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("opening query file: %w", err)
	}
	qio := &queryIO{in: in, out: stdout}
	if cfg.Output != "-" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			_ = in.Close()
			return nil, fmt.Errorf("creating output file: %w", err)
		}
		qio.file = file
		qio.out = file
	}
	return qio, nil
}

func (q *queryIO) close() {
	_ = q.in.Close()
	if q.file != nil {
		_ = q.file.Close()
	}
}

func answerQueries(ctx context.Context, qio *queryIO, exec *executor.Executor) (*executor.Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "queries")
	defer span.End()

	summary, err := exec.Run(ctx, qio.in, qio.out)
	if err != nil {
		return summary, err
	}
	if qio.file != nil {
		if err := qio.file.Sync(); err != nil {
			return summary, fmt.Errorf("syncing output file: %w", err)
		}
	}
	span.SetAttr("queries", summary.Total)
	span.SetAttr("failed", summary.Failed)
	return summary, nil
}

func recordRun(ctx context.Context, cfg *config.Config, idx *index.Index, started time.Time, summary *executor.Summary) error {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	store := runlog.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	return store.SaveRun(ctx, runlog.Run{
		ID:          logger.RunID(ctx),
		StartedAt:   started,
		FinishedAt:  time.Now(),
		CorpusDir:   cfg.Corpus.Dir,
		Fingerprint: idx.Fingerprint(),
		Documents:   idx.NumDocuments(),
		Vocabulary:  idx.Words().Len(),
		Total:       summary.Total,
		Answered:    summary.Answered,
		Failed:      summary.Failed,
	}, runlog.AnswersFromSummary(summary))
}

// Package executor answers query lines against a frozen index: it parses
// each line, corrects its operands and hands them to the ranker.
package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/searcher/corrector"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/metrics"
)

const maxLineBytes = 1 << 20

// Answer is the outcome of one successful query.
type Answer struct {
	Query       string   `json:"query"`
	Type        string   `json:"type"`
	Terms       []string `json:"terms"`
	Line        string   `json:"line"`
	Score       float64  `json:"score,omitempty"`
	Probability float64  `json:"probability,omitempty"`
}

// Cache memoises answers across runs over the same corpus.
type Cache interface {
	GetOrCompute(ctx context.Context, query string, compute func() (*Answer, error)) (*Answer, bool, error)
}

// Tracker receives one analytics event per processed line.
type Tracker interface {
	Track(key string, value any)
}

// Outcome records what happened to one input line.
type Outcome struct {
	Line     int
	Query    string
	Answer   *Answer
	Err      error
	CacheHit bool
	Latency  time.Duration
}

// Summary aggregates a Run.
type Summary struct {
	Total     int
	Answered  int
	Failed    int
	CacheHits int
	Failures  map[string]int
	Outcomes  []Outcome
}

// Option customises an Executor.
type Option func(*Executor)

// WithCache serves answers through c.
func WithCache(c Cache) Option {
	return func(e *Executor) { e.cache = c }
}

// WithTracker publishes query events through t.
func WithTracker(t Tracker) Option {
	return func(e *Executor) { e.tracker = t }
}

// WithMetrics records query counters and latencies on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithOperandNormalizer rewrites every operand before correction, so
// queries go through the same normalization as the corpus.
func WithOperandNormalizer(fn func(string) string) Option {
	return func(e *Executor) { e.normalize = fn }
}

// Executor dispatches query lines. It keeps no state between lines beyond
// the read-only index and corrector.
type Executor struct {
	idx       *index.Index
	corrector corrector.Corrector
	cache     Cache
	tracker   Tracker
	metrics   *metrics.Metrics
	normalize func(string) string
	logger    *slog.Logger
}

// New creates an Executor over idx. A nil corr uses the linear corrector.
func New(idx *index.Index, corr corrector.Corrector, opts ...Option) *Executor {
	if corr == nil {
		corr = corrector.NewLinear(idx)
	}
	e := &Executor{
		idx:       idx,
		corrector: corr,
		logger:    slog.Default().With("component", "query-executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute answers a single query line. Errors carry the line text.
func (e *Executor) Execute(ctx context.Context, line string) (*Answer, error) {
	answer, _, err := e.execute(ctx, line)
	return answer, err
}

func (e *Executor) execute(ctx context.Context, line string) (*Answer, bool, error) {
	plan, err := parser.Parse(line)
	if err != nil {
		return nil, false, apperrors.WithQuery(err, line)
	}
	compute := func() (*Answer, error) { return e.answer(plan) }

	var (
		answer *Answer
		hit    bool
	)
	if e.cache != nil {
		answer, hit, err = e.cache.GetOrCompute(ctx, line, compute)
	} else {
		answer, err = compute()
	}
	if err != nil {
		return nil, false, apperrors.WithQuery(err, line)
	}
	return answer, hit, nil
}

func (e *Executor) answer(plan *parser.QueryPlan) (*Answer, error) {
	terms, err := e.correct(plan.Terms)
	if err != nil {
		return nil, err
	}
	answer := &Answer{
		Query: plan.RawQuery,
		Type:  plan.Type.String(),
		Terms: terms,
	}
	switch plan.Type {
	case parser.QueryBigram:
		next, err := ranker.MostProbableNext(e.idx, terms[0])
		if err != nil {
			return nil, err
		}
		answer.Line = terms[0] + " " + next.Word
		answer.Probability = next.Probability
	case parser.QuerySearch:
		best, err := ranker.MostRelevant(e.idx, terms)
		if err != nil {
			return nil, err
		}
		answer.Line = best.DocID
		answer.Score = best.Score
	}
	return answer, nil
}

func (e *Executor) correct(words []string) ([]string, error) {
	out := make([]string, 0, len(words))
	for _, word := range words {
		if e.normalize != nil {
			if n := e.normalize(word); n != "" {
				word = n
			}
		}
		c, err := e.corrector.Correct(word)
		if err != nil {
			return nil, err
		}
		if c.Corrected() {
			e.logger.Debug("corrected query word",
				"original", c.Original,
				"word", c.Word,
				"distance", c.Distance,
			)
		}
		out = append(out, c.Word)
	}
	return out, nil
}

// Run answers every line of r in order and writes one line per successful
// query to w. A failed query is logged with its line text and skipped; the
// rest of the input is still answered. Run only returns an error when
// reading, writing or the context fails.
func (e *Executor) Run(ctx context.Context, r io.Reader, w io.Writer) (*Summary, error) {
	log := logger.FromContext(ctx).With("component", "query-executor")
	runID := logger.RunID(ctx)
	summary := &Summary{Failures: make(map[string]int)}

	out := bufio.NewWriter(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("query run interrupted at line %d: %w", lineNo+1, err)
		}
		lineNo++
		line := scanner.Text()

		start := time.Now()
		answer, hit, err := e.execute(ctx, line)
		latency := time.Since(start)

		outcome := Outcome{Line: lineNo, Query: line, Answer: answer, Err: err, CacheHit: hit, Latency: latency}
		summary.Outcomes = append(summary.Outcomes, outcome)
		summary.Total++
		e.observe(line, answer, err, latency)
		e.track(runID, outcome)

		if err != nil {
			kind := apperrors.Kind(err)
			summary.Failed++
			summary.Failures[kind]++
			log.Warn("query failed",
				"line", lineNo,
				"query", line,
				"kind", kind,
				"error", err,
			)
			continue
		}
		summary.Answered++
		if hit {
			summary.CacheHits++
		}
		if _, err := fmt.Fprintln(out, answer.Line); err != nil {
			return summary, fmt.Errorf("writing answer for line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading queries: %w", err)
	}
	if err := out.Flush(); err != nil {
		return summary, fmt.Errorf("flushing answers: %w", err)
	}

	log.Info("queries answered",
		"total", summary.Total,
		"answered", summary.Answered,
		"failed", summary.Failed,
		"cache_hits", summary.CacheHits,
	)
	return summary, nil
}

func (e *Executor) observe(line string, answer *Answer, err error, latency time.Duration) {
	if e.metrics == nil {
		return
	}
	queryType := "unknown"
	if answer != nil {
		queryType = answer.Type
	} else if plan, perr := parser.Parse(line); perr == nil {
		queryType = plan.Type.String()
	}
	e.metrics.QueriesTotal.WithLabelValues(queryType, apperrors.Kind(err)).Inc()
	e.metrics.QueryDuration.WithLabelValues(queryType).Observe(latency.Seconds())
}

func (e *Executor) track(runID string, o Outcome) {
	if e.tracker == nil {
		return
	}
	event := analytics.QueryEvent{
		Type:      analytics.EventAnswered,
		RunID:     runID,
		Line:      o.Line,
		Query:     o.Query,
		CacheHit:  o.CacheHit,
		LatencyUs: o.Latency.Microseconds(),
		Timestamp: time.Now().UTC(),
	}
	if o.Err != nil {
		event.Type = analytics.EventFailed
		event.ErrorKind = apperrors.Kind(o.Err)
	} else {
		event.QueryType = o.Answer.Type
		event.Terms = o.Answer.Terms
		event.Answer = o.Answer.Line
	}
	e.tracker.Track(runID, event)
}

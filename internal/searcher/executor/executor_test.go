package executor

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/metrics"
)

func buildIndex(t *testing.T, docs ...[2]string) *index.Index {
	t.Helper()
	b := index.NewBuilder(32)
	for _, d := range docs {
		_, err := b.Add(index.Document{ID: d[0], Tokens: tokenizer.Split(d[1])})
		require.NoError(t, err)
	}
	return b.Build()
}

func foxIndex(t *testing.T) *index.Index {
	return buildIndex(t,
		[2]string{"doc1.txt", "the quick fox"},
		[2]string{"doc2.txt", "the slow fox"},
	)
}

func TestRun_EndToEnd(t *testing.T) {
	e := New(foxIndex(t), nil)
	var out bytes.Buffer

	summary, err := e.Run(context.Background(),
		strings.NewReader("search fox\nthe most probable bigram of the\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "doc1.txt\nthe quick\n", out.String())
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Answered)
	assert.Zero(t, summary.Failed)
}

func TestRun_SkipsFailedQueries(t *testing.T) {
	e := New(foxIndex(t), nil)
	var out bytes.Buffer

	input := strings.Join([]string{
		"find fox",
		"search quick",
		"the most probable bigram of fox",
		"the most probable bigram of quick slow",
		"the most probable bigram of quik",
	}, "\n")
	summary, err := e.Run(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)

	assert.Equal(t, "doc1.txt\nquick fox\n", out.String())
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.Answered)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 2, summary.Failures["query_format"])
	assert.Equal(t, 1, summary.Failures["no_bigram"])

	failed := summary.Outcomes[2]
	require.Error(t, failed.Err)
	assert.ErrorIs(t, failed.Err, apperrors.ErrNoBigram)
	assert.Equal(t, "the most probable bigram of fox", apperrors.Query(failed.Err))
}

func TestExecute_CorrectsOperands(t *testing.T) {
	e := New(foxIndex(t), nil)

	answer, err := e.Execute(context.Background(), "the most probable bigram of teh")
	require.NoError(t, err)
	assert.Equal(t, "the quick", answer.Line)
	assert.Equal(t, []string{"the"}, answer.Terms)
	assert.InDelta(t, 0.5, answer.Probability, 1e-12)

	answer, err = e.Execute(context.Background(), "search slwo")
	require.NoError(t, err)
	assert.Equal(t, "doc2.txt", answer.Line)
	assert.Equal(t, "search", answer.Type)
}

func TestExecute_OperandNormalizer(t *testing.T) {
	e := New(foxIndex(t), nil, WithOperandNormalizer(strings.ToLower))

	answer, err := e.Execute(context.Background(), "search SLOW")
	require.NoError(t, err)
	assert.Equal(t, "doc2.txt", answer.Line)
}

func TestExecute_EmptyCorpus(t *testing.T) {
	e := New(buildIndex(t), nil)

	_, err := e.Execute(context.Background(), "search fox")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownWord)
	assert.Equal(t, "search fox", apperrors.Query(err))
}

type memoryCache struct {
	answers map[string]*Answer
}

func (c *memoryCache) GetOrCompute(_ context.Context, query string, compute func() (*Answer, error)) (*Answer, bool, error) {
	if a, ok := c.answers[query]; ok {
		return a, true, nil
	}
	a, err := compute()
	if err != nil {
		return nil, false, err
	}
	c.answers[query] = a
	return a, false, nil
}

type recordingTracker struct {
	mu     sync.Mutex
	events []analytics.QueryEvent
}

func (r *recordingTracker) Track(_ string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, value.(analytics.QueryEvent))
}

func TestRun_CacheTrackerMetrics(t *testing.T) {
	cache := &memoryCache{answers: make(map[string]*Answer)}
	tracker := &recordingTracker{}
	m := metrics.New()
	e := New(foxIndex(t), nil, WithCache(cache), WithTracker(tracker), WithMetrics(m))

	ctx := logger.WithRunID(context.Background(), "run-1")
	var out bytes.Buffer
	summary, err := e.Run(ctx, strings.NewReader("search fox\nsearch fox\nbogus\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, "doc1.txt\ndoc1.txt\n", out.String())
	assert.Equal(t, 1, summary.CacheHits)

	require.Len(t, tracker.events, 3)
	assert.Equal(t, analytics.EventAnswered, tracker.events[0].Type)
	assert.False(t, tracker.events[0].CacheHit)
	assert.True(t, tracker.events[1].CacheHit)
	assert.Equal(t, "run-1", tracker.events[1].RunID)
	assert.Equal(t, analytics.EventFailed, tracker.events[2].Type)
	assert.Equal(t, "query_format", tracker.events[2].ErrorKind)

	var metric dto.Metric
	require.NoError(t, m.QueriesTotal.WithLabelValues("search", "ok").Write(&metric))
	assert.Equal(t, 2.0, metric.GetCounter().GetValue())
	require.NoError(t, m.QueriesTotal.WithLabelValues("unknown", "query_format").Write(&metric))
	assert.Equal(t, 1.0, metric.GetCounter().GetValue())
}

func TestRun_CancelledContext(t *testing.T) {
	e := New(foxIndex(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, strings.NewReader("search fox\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

// Package metrics defines the Prometheus collectors recorded during a run
// and writes them in text exposition format once the run finishes.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for a run.
type Metrics struct {
	Registry           *prometheus.Registry
	QueriesTotal       *prometheus.CounterVec
	QueryDuration      *prometheus.HistogramVec
	DocsIndexedTotal   prometheus.Counter
	TokensIndexedTotal prometheus.Counter
	VocabularySize     prometheus.Gauge
	IndexBuildSeconds  prometheus.Gauge
	CacheHitsTotal     prometheus.Counter
	CacheMissesTotal   prometheus.Counter
	EventsDropped      prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry so
// several runs in one process never collide.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bigramsearch_queries_total",
				Help: "Queries processed by type and result kind.",
			},
			[]string{"type", "result"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bigramsearch_query_duration_seconds",
				Help:    "Query processing latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"type"},
		),
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bigramsearch_documents_indexed_total",
				Help: "Documents added to the inverted index.",
			},
		),
		TokensIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bigramsearch_tokens_indexed_total",
				Help: "Non-empty tokens added to the inverted index.",
			},
		),
		VocabularySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bigramsearch_vocabulary_size",
				Help: "Distinct words in the frozen index.",
			},
		),
		IndexBuildSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bigramsearch_index_build_seconds",
				Help: "Wall time spent building the index.",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bigramsearch_cache_hits_total",
				Help: "Answers served from the Redis cache.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bigramsearch_cache_misses_total",
				Help: "Answers computed because the cache had no entry.",
			},
		),
		EventsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bigramsearch_query_events_dropped_total",
				Help: "Query events dropped after repeated publish failures.",
			},
		),
	}

	m.Registry.MustRegister(
		m.QueriesTotal,
		m.QueryDuration,
		m.DocsIndexedTotal,
		m.TokensIndexedTotal,
		m.VocabularySize,
		m.IndexBuildSeconds,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.EventsDropped,
	)
	return m
}

// WriteTextfile writes every registered metric to path in the format read
// by the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}

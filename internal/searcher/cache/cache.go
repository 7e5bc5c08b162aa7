// Package cache keeps query answers in Redis so repeated runs over the same
// corpus skip correction and ranking.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/redis"
)

const keyPrefix = "bigramsearch:answer:"

// Store is the subset of the Redis client the cache uses.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache maps a query line to its answer. Keys are scoped by a
// namespace (the index fingerprint plus anything else that changes
// answers) so a different corpus never sees stale entries. Only successful
// answers are stored; Redis failures degrade to a miss.
type QueryCache struct {
	store     Store
	namespace string
	ttl       time.Duration
	metrics   *metrics.Metrics
	group     singleflight.Group
	logger    *slog.Logger
	hits      atomic.Int64
	misses    atomic.Int64
}

// New creates a QueryCache. m may be nil.
func New(store Store, namespace string, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:     store,
		namespace: namespace,
		ttl:       ttl,
		metrics:   m,
		logger:    slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached answer for query, if any.
func (c *QueryCache) Get(ctx context.Context, query string) (*executor.Answer, bool) {
	key := c.buildKey(query)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil, false
	}
	var answer executor.Answer
	if err := json.Unmarshal([]byte(data), &answer); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hit()
	c.logger.Debug("cache hit", "query", query, "key", key)
	return &answer, true
}

// Set stores answer under query.
func (c *QueryCache) Set(ctx context.Context, query string, answer *executor.Answer) {
	key := c.buildKey(query)
	data, err := json.Marshal(answer)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached answer or computes, stores and returns
// it. Concurrent callers for the same query share one computation.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	compute func() (*executor.Answer, error),
) (*executor.Answer, bool, error) {
	if answer, ok := c.Get(ctx, query); ok {
		return answer, true, nil
	}
	key := c.buildKey(query)
	val, err, _ := c.group.Do(key, func() (any, error) {
		answer, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, answer)
		return answer, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.Answer), false, nil
}

// Invalidate deletes every cached answer in every namespace.
func (c *QueryCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

// Stats returns the hit and miss counts since creation.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) hit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

func (c *QueryCache) buildKey(query string) string {
	hash := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s%s:%x", keyPrefix, c.namespace, hash[:16])
}

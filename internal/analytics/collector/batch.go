// Package collector buffers analytics events in memory and publishes them
// in batches.
package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/kafka"
)

// Publisher writes a batch of events. *kafka.Producer satisfies it.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

// BatchCollector accumulates events and flushes them when the batch reaches
// a configurable size or after a time interval. Failed batches are requeued
// up to three batches' worth; anything beyond that is dropped and reported
// through OnDrop.
type BatchCollector struct {
	publisher     Publisher
	mu            sync.Mutex
	buffer        []kafka.Event
	batchSize     int
	flushInterval time.Duration
	logger        *slog.Logger

	// OnDrop, if set, is called with the number of events discarded.
	OnDrop func(n int)

	cancel   context.CancelFunc
	done     chan struct{}
	inflight sync.WaitGroup
}

// NewBatchCollector creates a BatchCollector that flushes when the buffer
// reaches batchSize events or after flushInterval, whichever comes first.
func NewBatchCollector(publisher Publisher, batchSize int, flushInterval time.Duration) *BatchCollector {
	if batchSize <= 0 {
		batchSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	return &BatchCollector{
		publisher:     publisher,
		buffer:        make([]kafka.Event, 0, batchSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		logger:        slog.Default().With("component", "batch-collector"),
	}
}

// Start launches the background flush loop. It runs until ctx is cancelled
// or Close is called.
func (bc *BatchCollector) Start(ctx context.Context) {
	ctx, bc.cancel = context.WithCancel(ctx)
	bc.done = make(chan struct{})
	go func() {
		defer close(bc.done)
		ticker := time.NewTicker(bc.flushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				bc.flush(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
	bc.logger.Info("batch collector started",
		"batch_size", bc.batchSize,
		"flush_interval", bc.flushInterval,
	)
}

// Track adds an event to the buffer. A full buffer triggers a flush in the
// background.
func (bc *BatchCollector) Track(key string, value any) {
	bc.mu.Lock()
	bc.buffer = append(bc.buffer, kafka.Event{Key: key, Value: value})
	shouldFlush := len(bc.buffer) >= bc.batchSize
	bc.mu.Unlock()

	if shouldFlush {
		bc.inflight.Add(1)
		go func() {
			defer bc.inflight.Done()
			bc.flush(context.Background())
		}()
	}
}

// Close stops the flush loop, waits for in-flight flushes and publishes
// whatever is still buffered with a short deadline.
func (bc *BatchCollector) Close() {
	if bc.cancel != nil {
		bc.cancel()
		<-bc.done
	}
	bc.inflight.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	bc.flush(ctx)
	if n := bc.BufferLen(); n > 0 {
		bc.drop(n)
		bc.mu.Lock()
		bc.buffer = bc.buffer[:0]
		bc.mu.Unlock()
	}
}

// BufferLen returns the current number of buffered events.
func (bc *BatchCollector) BufferLen() int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return len(bc.buffer)
}

func (bc *BatchCollector) flush(ctx context.Context) {
	bc.mu.Lock()
	if len(bc.buffer) == 0 {
		bc.mu.Unlock()
		return
	}
	batch := bc.buffer
	bc.buffer = make([]kafka.Event, 0, bc.batchSize)
	bc.mu.Unlock()

	if err := bc.publisher.PublishBatch(ctx, batch); err != nil {
		bc.logger.Error("batch flush failed",
			"batch_size", len(batch),
			"error", err,
		)
		bc.mu.Lock()
		bc.buffer = append(batch, bc.buffer...)
		limit := bc.batchSize * 3
		dropped := 0
		if len(bc.buffer) > limit {
			dropped = len(bc.buffer) - limit
			bc.buffer = bc.buffer[:limit]
		}
		bc.mu.Unlock()
		if dropped > 0 {
			bc.drop(dropped)
		}
		return
	}

	bc.logger.Debug("batch flushed", "events", len(batch))
}

func (bc *BatchCollector) drop(n int) {
	bc.logger.Warn("events dropped", "dropped", n)
	if bc.OnDrop != nil {
		bc.OnDrop(n)
	}
}

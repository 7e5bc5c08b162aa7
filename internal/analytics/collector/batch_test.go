package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/kafka"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]kafka.Event
	err     error
}

func (p *recordingPublisher) PublishBatch(_ context.Context, events []kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, events)
	return nil
}

func (p *recordingPublisher) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.batches {
		n += len(b)
	}
	return n
}

func TestBatchCollector_CloseFlushesRemainder(t *testing.T) {
	pub := &recordingPublisher{}
	bc := NewBatchCollector(pub, 10, time.Hour)
	bc.Start(context.Background())

	bc.Track("run", "a")
	bc.Track("run", "b")
	assert.Equal(t, 2, bc.BufferLen())

	bc.Close()
	assert.Equal(t, 2, pub.total())
	assert.Equal(t, 0, bc.BufferLen())
}

func TestBatchCollector_FullBatchFlushes(t *testing.T) {
	pub := &recordingPublisher{}
	bc := NewBatchCollector(pub, 2, time.Hour)
	bc.Start(context.Background())

	bc.Track("run", 1)
	bc.Track("run", 2)
	bc.Track("run", 3)
	bc.Close()

	assert.Equal(t, 3, pub.total())
}

func TestBatchCollector_TickerFlushes(t *testing.T) {
	pub := &recordingPublisher{}
	bc := NewBatchCollector(pub, 100, 5*time.Millisecond)
	bc.Start(context.Background())
	defer bc.Close()

	bc.Track("run", "x")
	require.Eventually(t, func() bool { return pub.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestBatchCollector_DropsOnPersistentFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	bc := NewBatchCollector(pub, 1, time.Hour)
	var mu sync.Mutex
	dropped := 0
	bc.OnDrop = func(n int) {
		mu.Lock()
		dropped += n
		mu.Unlock()
	}

	for i := range 5 {
		bc.Track("run", i)
	}
	bc.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, dropped)
	assert.Equal(t, 0, pub.total())
}

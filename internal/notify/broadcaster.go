// Package notify fans alert batches out to registered listeners.
package notify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/observability"
)

const DefaultBufferSize = 100

type subscriber struct {
	ch      chan models.AlertBatch
	hazards map[models.HazardType]struct{} // empty = everything
}

// wants matches the batch hazard or, for mixed batches, any alert's hazard.
func (s *subscriber) wants(batch models.AlertBatch) bool {
	if len(s.hazards) == 0 {
		return true
	}
	if _, ok := s.hazards[batch.HazardType]; ok {
		return true
	}
	for _, a := range batch.Alerts {
		if _, ok := s.hazards[a.HazardType]; ok {
			return true
		}
	}
	return false
}

type Broadcaster struct {
	subscribers map[uint64]*subscriber
	nextID      atomic.Uint64
	bufferSize  int
	metrics     *observability.Metrics
	closed      bool
	mu          sync.RWMutex
}

// NewBroadcaster creates a broadcaster. metrics may be nil.
func NewBroadcaster(bufferSize int, metrics *observability.Metrics) *Broadcaster {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Broadcaster{
		subscribers: make(map[uint64]*subscriber),
		bufferSize:  bufferSize,
		metrics:     metrics,
	}
}

// Subscribe registers a listener for the given hazard types, or for all
// of them when none are given. The channel is closed on Unsubscribe or Close.
func (b *Broadcaster) Subscribe(hazards ...models.HazardType) (uint64, <-chan models.AlertBatch) {
	id := b.nextID.Add(1)
	sub := &subscriber{
		ch:      make(chan models.AlertBatch, b.bufferSize),
		hazards: make(map[models.HazardType]struct{}, len(hazards)),
	}
	for _, h := range hazards {
		sub.hazards[h] = struct{}{}
	}

	b.mu.Lock()
	if b.closed {
		close(sub.ch)
	} else {
		b.subscribers[id] = sub
	}
	count := len(b.subscribers)
	b.mu.Unlock()

	b.setGauge(count)
	return id, sub.ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
	count := len(b.subscribers)
	b.mu.Unlock()

	b.setGauge(count)
}

// Publish delivers batch to every interested listener and returns how many
// received it. A listener whose buffer is full misses the batch.
func (b *Broadcaster) Publish(batch models.AlertBatch) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, sub := range b.subscribers {
		if !sub.wants(batch) {
			continue
		}
		select {
		case sub.ch <- batch:
			delivered++
		default:
			if b.metrics != nil {
				b.metrics.BatchesDropped.Inc()
			}
		}
	}
	return delivered
}

// Listen calls fn for every batch until ctx is done or the broadcaster is
// closed. It blocks.
func (b *Broadcaster) Listen(ctx context.Context, fn func(models.AlertBatch), hazards ...models.HazardType) {
	id, ch := b.Subscribe(hazards...)
	defer b.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-ch:
			if !ok {
				return
			}
			fn(batch)
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels so streams exit. Later subscribers
// get an already-closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()

	b.setGauge(0)
}

func (b *Broadcaster) setGauge(n int) {
	if b.metrics != nil {
		b.metrics.StreamSubscribers.Set(float64(n))
	}
}

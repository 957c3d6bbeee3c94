// Package queue buffers notifications between the service and the worker pool.
//
// Enqueue never blocks: when the buffer is full the notification is dropped
// and counted, so a slow sink cannot stall a request.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Item is a queued notification with its enqueue time.
type Item struct {
	Notification model.Notification
	EnqueuedAt   time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds n to the queue. Returns ErrFull or ErrClosed when rejected.
	Enqueue(ctx context.Context, n model.Notification) error

	// Dequeue returns a channel of queued items. It is closed once the queue
	// is closed and drained, or when ctx is done.
	Dequeue(ctx context.Context) <-chan Item

	// Len returns the current number of queued items.
	Len() int

	// Close stops accepting items. Already queued items are still delivered.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Item
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Item, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds n without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, n model.Notification) error { //nolint:gocritic // passed by value into the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case q.items <- Item{Notification: n, EnqueuedAt: time.Now()}:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.items))
		return nil
	default:
		metrics.RecordQueueDropped()
		return ErrFull
	}
}

// Dequeue returns a channel that receives items as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Item {
	out := make(chan Item)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case it, ok := <-q.items:
				if !ok {
					return
				}
				select {
				case out <- it:
					metrics.RecordQueueDequeue(float64(time.Since(it.EnqueuedAt).Microseconds()) / 1000)
					metrics.UpdateQueueSize(len(q.items))
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued items.
func (q *InMemoryQueue) Len() int {
	return len(q.items)
}

// Close stops accepting notifications. Safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

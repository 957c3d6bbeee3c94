package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/alumnet/internal/adapters/mq/queue"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/pkg/logger"
	"github.com/okian/alumnet/pkg/metrics"
)

const (
	defaultWorkerCount  = 4
	poolShutdownTimeout = 30 * time.Second
)

// Sink delivers a notification somewhere: a log, a broker, a live socket.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n model.Notification) error
}

// Queue defines how workers receive notifications.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Item
}

// InMemoryWorker fans each dequeued notification out to every sink.
type InMemoryWorker struct {
	queue Queue
	sinks []Sink
	name  string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, sinks []Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		sinks:    sinks,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run delivers notifications until ctx is done, Shutdown is called, or the
// queue is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case it, ok := <-items:
			if !ok {
				return
			}
			if err := w.deliver(ctx, it.Notification); err != nil {
				w.logger.Error(ctx, "notification delivery failed",
					logger.String("notification_id", it.Notification.ID),
					logger.String("kind", it.Notification.Kind),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for the in-flight delivery.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// deliver tries every sink; one failing sink does not starve the others.
func (w *InMemoryWorker) deliver(ctx context.Context, n model.Notification) error { //nolint:gocritic // value from channel
	start := time.Now()
	metrics.UpdateWorkerActiveCount(1)
	defer func() {
		metrics.UpdateWorkerActiveCount(-1)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	var errs []error
	for _, s := range w.sinks {
		if err := s.Deliver(ctx, n); err != nil {
			metrics.RecordNotificationFailure(s.Name())
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		metrics.RecordNotificationSent(s.Name(), n.Kind)
	}
	return errors.Join(errs...)
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers.
func NewPool(workerCount int, q Queue, sinks []Sink) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, sinks, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}

// Package dedupe remembers idempotency keys of mutating requests together
// with the response they produced, so a retried request is answered from the
// cache instead of being applied twice.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// State is where a key stands in its lifecycle.
type State int

const (
	// Fresh means the key was unknown and is now recorded as in flight.
	Fresh State = iota
	// InFlight means another request with the key has not finished yet.
	InFlight
	// Completed means a response is cached for the key.
	Completed
)

// Response is a cached HTTP response.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Deduper records idempotency keys.
type Deduper interface {
	// Begin atomically checks key and records it as in flight when Fresh.
	// The Response is set only for Completed.
	Begin(ctx context.Context, key string) (State, Response)

	// Complete caches resp for a key recorded by Begin.
	Complete(ctx context.Context, key string, resp Response)

	// Unrecord forgets key so the request can be retried, e.g. after a
	// server error.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

type entry struct {
	key  string
	done bool
	resp Response
}

// inMemoryDeduper keeps keys in insertion order; the front is the newest.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50_000,
		seen:    make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) Begin(_ context.Context, key string) (State, Response) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		e := el.Value.(*entry)
		if !e.done {
			return InFlight, Response{}
		}
		return Completed, e.resp
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[key] = d.order.PushFront(&entry{key: key})
	d.size.Add(1)
	return Fresh, Response{}
}

func (d *inMemoryDeduper) Complete(_ context.Context, key string, resp Response) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.seen[key]; ok {
		e := el.Value.(*entry)
		e.done = true
		e.resp = Response{Status: resp.Status, ContentType: resp.ContentType, Body: append([]byte(nil), resp.Body...)}
	}
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.seen[key]; ok {
		d.order.Remove(el)
		delete(d.seen, key)
		d.size.Add(-1)
	}
}

// evictOldest drops the least recently added key. Must hold d.mu.
func (d *inMemoryDeduper) evictOldest() {
	el := d.order.Back()
	if el == nil {
		return
	}
	d.order.Remove(el)
	delete(d.seen, el.Value.(*entry).key)
	d.size.Add(-1)
}

// Size returns the current number of keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

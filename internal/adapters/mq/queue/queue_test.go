package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/alumnet/internal/domain/model"
)

func note(id string) model.Notification {
	return model.Notification{ID: id, UserID: "u1", Kind: model.NotifyBadgeEarned}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if err := q.Enqueue(ctx, note("n1")); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	it := <-q.Dequeue(ctx)
	if it.Notification.ID != "n1" {
		t.Errorf("expected n1, got %v", it.Notification.ID)
	}
	if it.EnqueuedAt.IsZero() {
		t.Error("expected enqueue time to be set")
	}
}

func TestInMemoryQueue_DropsWhenFull(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"n1", "n2"} {
		if err := q.Enqueue(ctx, note(id)); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}
	if err := q.Enqueue(ctx, note("n3")); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(50))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	const producers, perProducer = 10, 100

	var received sync.WaitGroup
	received.Add(producers * perProducer)
	for i := 0; i < 4; i++ {
		go func() {
			for range q.Dequeue(ctx) {
				received.Done()
			}
		}()
	}

	var produced sync.WaitGroup
	for i := 0; i < producers; i++ {
		produced.Add(1)
		go func(id int) {
			defer produced.Done()
			for j := 0; j < perProducer; j++ {
				for q.Enqueue(ctx, note(fmt.Sprintf("n%d_%d", id, j))) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}
	produced.Wait()

	done := make(chan struct{})
	go func() { received.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for consumers")
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	_ = q.Enqueue(ctx, note("n1"))
	_ = q.Enqueue(ctx, note("n2"))
	if err := q.Close(); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if err := q.Enqueue(ctx, note("n3")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	var got []string
	timeout := time.After(time.Second)
	ch := q.Dequeue(ctx)
	for {
		select {
		case it, ok := <-ch:
			if !ok {
				if len(got) != 2 {
					t.Errorf("expected queued items to drain, got %v", got)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got %v", err)
				}
				return
			}
			got = append(got, it.Notification.ID)
		case <-timeout:
			t.Fatal("expected dequeue channel to close")
		}
	}
}

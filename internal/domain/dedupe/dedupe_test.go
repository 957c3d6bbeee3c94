package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/alumnet/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		Convey("When a key is seen for the first time", func() {
			state, _ := d.Begin(ctx, "k1")

			Convey("Then it is fresh and recorded", func() {
				So(state, ShouldEqual, dedupe.Fresh)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And it is retried before completing", func() {
				state, _ := d.Begin(ctx, "k1")
				So(state, ShouldEqual, dedupe.InFlight)
			})

			Convey("And it is retried after completing", func() {
				body := []byte(`{"ok":true}`)
				d.Complete(ctx, "k1", dedupe.Response{Status: 201, ContentType: "application/json", Body: body})
				body[0] = 'X'
				state, resp := d.Begin(ctx, "k1")

				Convey("Then the cached response is replayed unchanged", func() {
					So(state, ShouldEqual, dedupe.Completed)
					So(resp.Status, ShouldEqual, 201)
					So(string(resp.Body), ShouldEqual, `{"ok":true}`)
				})
			})

			Convey("And it is unrecorded", func() {
				d.Unrecord(ctx, "k1")
				d.Unrecord(ctx, "missing")

				Convey("Then it becomes fresh again", func() {
					So(d.Size(), ShouldEqual, 0)
					state, _ := d.Begin(ctx, "k1")
					So(state, ShouldEqual, dedupe.Fresh)
				})
			})
		})

		Convey("When completing an unknown key", func() {
			d.Complete(ctx, "ghost", dedupe.Response{Status: 200})
			So(d.Size(), ShouldEqual, 0)
		})
	})
}

func TestInMemoryDeduper_Eviction(t *testing.T) {
	Convey("Given a deduper bounded to three keys", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, k := range []string{"a", "b", "c", "d"} {
			d.Begin(ctx, k)
		}

		Convey("Then the oldest key was evicted", func() {
			So(d.Size(), ShouldEqual, 3)
			state, _ := d.Begin(ctx, "d")
			So(state, ShouldEqual, dedupe.InFlight)
			state, _ = d.Begin(ctx, "a")
			So(state, ShouldEqual, dedupe.Fresh)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.Begin(ctx, fmt.Sprintf("k%d", i))
		}
		So(d.Size(), ShouldEqual, 1000)
	})
}

func TestInMemoryDeduper_Concurrent(t *testing.T) {
	Convey("Given many goroutines racing on one key", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()
		var wg sync.WaitGroup
		var mu sync.Mutex
		fresh := 0
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if s, _ := d.Begin(ctx, "same"); s == dedupe.Fresh {
					mu.Lock()
					fresh++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one wins", func() {
			So(fresh, ShouldEqual, 1)
		})
	})
}

package service

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyedLocker(t *testing.T) {
	Convey("Given a keyed locker", t, func() {
		k := newKeyedLocker()

		Convey("When overlapping id sets are locked concurrently in opposite order", func() {
			var wg sync.WaitGroup
			counter := 0
			for i := 0; i < 50; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					unlock := k.Lock("a", "b")
					counter++
					unlock()
				}()
				go func() {
					defer wg.Done()
					unlock := k.Lock("b", "a", "b")
					counter++
					unlock()
				}()
			}
			done := make(chan struct{})
			go func() { wg.Wait(); close(done) }()

			Convey("Then every caller finishes and entries are released", func() {
				select {
				case <-done:
				case <-time.After(5 * time.Second):
					t.Fatal("deadlock")
				}
				So(counter, ShouldEqual, 100)
				So(k.size(), ShouldEqual, 0)
			})
		})

		Convey("When one id is held", func() {
			unlock := k.Lock("x")
			acquired := make(chan struct{})
			go func() {
				u := k.Lock("x")
				close(acquired)
				u()
			}()

			Convey("Then a second caller waits for release", func() {
				select {
				case <-acquired:
					t.Fatal("lock acquired twice")
				case <-time.After(20 * time.Millisecond):
				}
				unlock()
				select {
				case <-acquired:
				case <-time.After(time.Second):
					t.Fatal("waiter never acquired")
				}
			})
		})
	})
}

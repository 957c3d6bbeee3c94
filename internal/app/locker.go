package service

import (
	"slices"
	"sync"
)

// keyedLocker serializes read-modify-write cycles per record id inside one
// process. It does not coordinate multiple replicas.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*keyedLock)}
}

// Lock acquires every id in sorted order, so overlapping callers cannot
// deadlock, and returns the matching unlock.
func (k *keyedLocker) Lock(ids ...string) (unlock func()) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	held := make([]*keyedLock, 0, len(ids))
	for _, id := range ids {
		k.mu.Lock()
		l, ok := k.locks[id]
		if !ok {
			l = &keyedLock{}
			k.locks[id] = l
		}
		l.refs++
		k.mu.Unlock()

		l.mu.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			k.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(k.locks, ids[i])
			}
			k.mu.Unlock()
		}
	}
}

// size is the number of ids currently locked or awaited.
func (k *keyedLocker) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

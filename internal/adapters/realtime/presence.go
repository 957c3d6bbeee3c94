// Package realtime relays chat, typing and notification events between
// connected users over websockets and tracks who is online.
package realtime

import (
	"sort"
	"sync"
)

// Conn is one live connection of a user.
type Conn interface {
	// Send queues m for delivery. It returns false when the connection is
	// too slow or already gone.
	Send(m Message) bool
}

// Registry tracks the live connections of each user. A user is online while
// at least one connection is registered.
type Registry interface {
	// Join registers c and reports whether the user just came online.
	Join(userID string, c Conn) bool
	// Leave removes c and reports whether the user just went offline.
	Leave(userID string, c Conn) bool
	// Conns returns the live connections of userID.
	Conns(userID string) []Conn
	// Online returns the online user ids in ascending order.
	Online() []string
}

// MemoryRegistry is an in-process Registry.
type MemoryRegistry struct {
	mu    sync.RWMutex
	conns map[string]map[Conn]struct{}
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{conns: make(map[string]map[Conn]struct{})}
}

func (r *MemoryRegistry) Join(userID string, c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[Conn]struct{})
		r.conns[userID] = set
	}
	set[c] = struct{}{}
	return !ok
}

func (r *MemoryRegistry) Leave(userID string, c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		return false
	}
	delete(set, c)
	if len(set) > 0 {
		return false
	}
	delete(r.conns, userID)
	return true
}

func (r *MemoryRegistry) Conns(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.conns[userID]
	out := make([]Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

func (r *MemoryRegistry) Online() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.conns))
	for id := range r.conns {
		out = append(out, id)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

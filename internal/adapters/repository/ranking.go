package repository

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/okian/alumnet/pkg/metrics"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank   int
	UserID string
	Score  int
}

// Leaderboard is an in-memory order-statistics treap over composite scores.
//
// Ordering: score DESC, then userID ASC. In-order traversal yields the
// leaderboard from best to worst. Equal scores share a rank and the next
// distinct score skips the tied positions (1, 1, 3).
type Leaderboard struct {
	mu   sync.RWMutex
	root *node
	byID map[string]int
}

type node struct {
	id    string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

// NewLeaderboard returns an empty leaderboard.
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{byID: make(map[string]int)}
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aScore, aID) ranks before (bScore, bID).
func less(aScore int, aID string, bScore int, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, score int) *node {
	if n == nil {
		return &node{id: id, score: score, prio: rand.Uint64(), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score int) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && id == n.id:
		// Rotate the higher-priority child up until the node is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	case less(score, id, n.score, n.id):
		n.left = deleteNode(n.left, id, score)
	default:
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// countAbove returns how many entries score strictly higher than score.
func countAbove(n *node, score int) int {
	c := 0
	for n != nil {
		if n.score > score {
			c += 1 + nsize(n.left)
			n = n.right
		} else {
			n = n.left
		}
	}
	return c
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{UserID: n.id, Score: n.score})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// assignRanksWithTies gives tied scores the same rank; entries must start at
// the top of the leaderboard.
func assignRanksWithTies(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// Upsert sets the score of userID, replacing any previous value. It reports
// whether the stored score changed.
func (l *Leaderboard) Upsert(_ context.Context, userID string, score int) bool {
	l.mu.Lock()
	old, ok := l.byID[userID]
	if ok && old == score {
		l.mu.Unlock()
		return false
	}
	if ok {
		l.root = deleteNode(l.root, userID, old)
	}
	l.byID[userID] = score
	l.root = insert(l.root, userID, score)
	size := len(l.byID)
	l.mu.Unlock()

	metrics.UpdateLeaderboardSize(size)
	return true
}

// Remove drops userID. Unknown ids are ignored.
func (l *Leaderboard) Remove(_ context.Context, userID string) {
	l.mu.Lock()
	if old, ok := l.byID[userID]; ok {
		l.root = deleteNode(l.root, userID, old)
		delete(l.byID, userID)
	}
	size := len(l.byID)
	l.mu.Unlock()
	metrics.UpdateLeaderboardSize(size)
}

// Rank returns the entry for userID in O(log n) or ErrNotFound.
func (l *Leaderboard) Rank(_ context.Context, userID string) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	score, ok := l.byID[userID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return Entry{Rank: countAbove(l.root, score) + 1, UserID: userID, Score: score}, nil
}

// TopN returns the best n entries.
func (l *Leaderboard) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	l.mu.RLock()
	out := make([]Entry, 0, min(n, len(l.byID)))
	collectTopN(l.root, n, &out)
	l.mu.RUnlock()
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of ranked users.
func (l *Leaderboard) Count(_ context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byID)
}

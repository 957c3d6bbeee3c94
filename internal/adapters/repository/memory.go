package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/pkg/metrics"
)

// MemoryStore is an in-memory Store guarded by a single RWMutex.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*model.User
	emails    map[string]string
	referrals map[string]*model.Referral
	sessions  map[string]*model.Session
	closed    bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*model.User),
		emails:    make(map[string]string),
		referrals: make(map[string]*model.Referral),
		sessions:  make(map[string]*model.Session),
	}
}

// observe records the latency of op and counts failures other than ErrNotFound.
func observe(op string, start time.Time, err *error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	if *err != nil && *err != ErrNotFound {
		metrics.RecordStoreError(op)
	}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *MemoryStore) CreateUser(_ context.Context, u *model.User) (err error) {
	defer observe("create_user", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if _, ok := s.users[u.ID]; ok {
		return ErrConflict
	}
	key := emailKey(u.Email)
	if key != "" {
		if _, ok := s.emails[key]; ok {
			return ErrConflict
		}
		s.emails[key] = u.ID
	}
	s.users[u.ID] = u.Clone()
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (u *model.User, err error) {
	defer observe("get_user", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return stored.Clone(), nil
}

func (s *MemoryStore) PutUser(_ context.Context, u *model.User) (err error) {
	defer observe("put_user", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	old, ok := s.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	oldKey, newKey := emailKey(old.Email), emailKey(u.Email)
	if oldKey != newKey {
		if owner, taken := s.emails[newKey]; taken && owner != u.ID && newKey != "" {
			return ErrConflict
		}
		delete(s.emails, oldKey)
		if newKey != "" {
			s.emails[newKey] = u.ID
		}
	}
	s.users[u.ID] = u.Clone()
	return nil
}

func (s *MemoryStore) ListUsers(_ context.Context) (out []*model.User, err error) {
	defer observe("list_users", time.Now(), &err)
	s.mu.RLock()
	out = make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) PutReferral(_ context.Context, r *model.Referral) (err error) {
	defer observe("put_referral", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.referrals[r.ID] = r.Clone()
	return nil
}

func (s *MemoryStore) GetReferral(_ context.Context, id string) (r *model.Referral, err error) {
	defer observe("get_referral", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.referrals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return stored.Clone(), nil
}

func (s *MemoryStore) ListReferrals(_ context.Context) (out []*model.Referral, err error) {
	defer observe("list_referrals", time.Now(), &err)
	s.mu.RLock()
	out = make([]*model.Referral, 0, len(s.referrals))
	for _, r := range s.referrals {
		out = append(out, r.Clone())
	}
	s.mu.RUnlock()
	sortReferrals(out)
	return out, nil
}

func (s *MemoryStore) PutSession(_ context.Context, ses *model.Session) (err error) {
	defer observe("put_session", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.sessions[ses.ID] = ses.Clone()
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (ses *model.Session, err error) {
	defer observe("get_session", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return stored.Clone(), nil
}

func (s *MemoryStore) ListSessions(_ context.Context) (out []*model.Session, err error) {
	defer observe("list_sessions", time.Now(), &err)
	s.mu.RLock()
	out = make([]*model.Session, 0, len(s.sessions))
	for _, ses := range s.sessions {
		out = append(out, ses.Clone())
	}
	s.mu.RUnlock()
	sortSessions(out)
	return out, nil
}

// Close marks the store closed. Reads keep working.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func sortReferrals(rs []*model.Referral) {
	sort.SliceStable(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.After(rs[j].CreatedAt)
		}
		return rs[i].ID < rs[j].ID
	})
}

func sortSessions(ss []*model.Session) {
	sort.SliceStable(ss, func(i, j int) bool {
		if !ss[i].DateTime.Equal(ss[j].DateTime) {
			return ss[i].DateTime.Before(ss[j].DateTime)
		}
		return ss[i].ID < ss[j].ID
	})
}

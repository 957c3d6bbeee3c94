// Package repository persists user, referral and session documents and keeps
// the composite-score leaderboard index.
package repository

import (
	"context"

	"github.com/okian/alumnet/internal/domain/model"
)

// Users stores user documents. Emails are unique.
type Users interface {
	// CreateUser inserts a new user. Returns ErrConflict on a duplicate id or email.
	CreateUser(ctx context.Context, u *model.User) error
	// GetUser returns a copy of the user or ErrNotFound.
	GetUser(ctx context.Context, id string) (*model.User, error)
	// PutUser replaces an existing user. Returns ErrNotFound if it was never created.
	PutUser(ctx context.Context, u *model.User) error
	// ListUsers returns all users ordered by id.
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// Referrals stores referral documents.
type Referrals interface {
	PutReferral(ctx context.Context, r *model.Referral) error
	GetReferral(ctx context.Context, id string) (*model.Referral, error)
	// ListReferrals returns referrals newest first.
	ListReferrals(ctx context.Context) ([]*model.Referral, error)
}

// Sessions stores mentoring session documents.
type Sessions interface {
	PutSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	// ListSessions returns sessions by ascending start time.
	ListSessions(ctx context.Context) ([]*model.Session, error)
}

// Store is the full document store. Every returned document is a copy owned by
// the caller.
type Store interface {
	Users
	Referrals
	Sessions
	Close() error
}

package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/alumnet/internal/domain/model"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQL(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "alumnet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestStore_Users(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := &model.User{ID: "u1", Name: "Ada", Email: "Ada@Example.com", Skills: []string{"go"}, Credits: 10}
			require.NoError(t, s.CreateUser(ctx, u))

			assert.ErrorIs(t, s.CreateUser(ctx, &model.User{ID: "u1"}), ErrConflict)
			assert.ErrorIs(t, s.CreateUser(ctx, &model.User{ID: "u2", Email: "ada@example.com"}), ErrConflict)
			require.NoError(t, s.CreateUser(ctx, &model.User{ID: "u3"}))
			require.NoError(t, s.CreateUser(ctx, &model.User{ID: "u4"}), "empty emails do not collide")

			got, err := s.GetUser(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, "Ada", got.Name)
			assert.Equal(t, []string{"go"}, got.Skills)

			got.Skills = append(got.Skills, "rust")
			got.Credits = 9
			require.NoError(t, s.PutUser(ctx, got))
			again, err := s.GetUser(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, []string{"go", "rust"}, again.Skills)
			assert.Equal(t, 9, again.Credits)

			assert.ErrorIs(t, s.PutUser(ctx, &model.User{ID: "ghost"}), ErrNotFound)
			_, err = s.GetUser(ctx, "ghost")
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := s.ListUsers(ctx)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "u1", all[0].ID)
		})
	}
}

func TestStore_ReferralsAndSessions(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

			require.NoError(t, s.PutReferral(ctx, &model.Referral{ID: "r1", Company: "Acme", CreatedAt: base}))
			require.NoError(t, s.PutReferral(ctx, &model.Referral{ID: "r2", Company: "Globex", CreatedAt: base.Add(time.Hour)}))
			require.NoError(t, s.PutReferral(ctx, &model.Referral{
				ID: "r1", Company: "Acme", CreatedAt: base,
				Applicants: []model.Applicant{{UserID: "u1", Status: model.ApplicantApplied, Rank: 1}},
			}))

			refs, err := s.ListReferrals(ctx)
			require.NoError(t, err)
			require.Len(t, refs, 2)
			assert.Equal(t, "r2", refs[0].ID, "newest first")
			r1, err := s.GetReferral(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, 1, r1.AppliedCount())

			require.NoError(t, s.PutSession(ctx, &model.Session{ID: "s2", DateTime: base.Add(48 * time.Hour)}))
			require.NoError(t, s.PutSession(ctx, &model.Session{ID: "s1", DateTime: base}))
			ses, err := s.ListSessions(ctx)
			require.NoError(t, err)
			require.Len(t, ses, 2)
			assert.Equal(t, "s1", ses[0].ID, "earliest first")
			assert.True(t, ses[0].DateTime.Equal(base))

			_, err = s.GetSession(ctx, "nope")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.GetReferral(ctx, "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := &model.User{ID: "u1", Skills: []string{"go"}}
	require.NoError(t, s.CreateUser(ctx, u))
	u.Skills[0] = "mutated"

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "go", got.Skills[0])

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.PutUser(ctx, got), ErrStoreClosed)
}

func TestOpenSQL_RejectsUnknownDriver(t *testing.T) {
	_, err := OpenSQL(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}

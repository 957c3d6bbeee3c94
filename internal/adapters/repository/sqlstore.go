package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/alumnet/internal/domain/model"
)

// SQL drivers understood by OpenSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Documents live as JSON in a doc column; only the lookup keys are columns.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT,
		doc TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (email)`,
	`CREATE TABLE IF NOT EXISTS referrals (
		id TEXT PRIMARY KEY,
		created_at BIGINT NOT NULL,
		doc TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		starts_at BIGINT NOT NULL,
		doc TEXT NOT NULL
	)`,
}

// SQLStore is a Store over sqlx, backed by SQLite or PostgreSQL.
type SQLStore struct {
	db              *sqlx.DB
	driver          string
	maxOpenConns    int
	connMaxLifetime time.Duration
}

// OpenSQL connects to driver at dsn and creates the tables if missing.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...SQLOption) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("repository: unsupported driver %q", driver)
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: connect %s: %w", driver, err)
	}
	s := &SQLStore{db: db, driver: driver, maxOpenConns: 10, connMaxLifetime: 30 * time.Minute}
	for _, opt := range opts {
		opt(s)
	}
	if driver == DriverSQLite {
		// One long-lived connection: avoids SQLITE_BUSY and keeps ":memory:" alive.
		s.maxOpenConns = 1
		s.connMaxLifetime = 0
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetConnMaxLifetime(s.connMaxLifetime)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("repository: create schema: %w", err)
		}
	}
	return s, nil
}

// Close closes the underlying pool.
func (s *SQLStore) Close() error { return s.db.Close() }

// isUniqueViolation recognizes duplicate-key failures from either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullEmail stores empty emails as NULL so the unique index ignores them.
func nullEmail(email string) sql.NullString {
	key := emailKey(email)
	return sql.NullString{String: key, Valid: key != ""}
}

func (s *SQLStore) CreateUser(ctx context.Context, u *model.User) (err error) {
	defer observe("create_user", time.Now(), &err)
	doc, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("repository: encode user: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO users (id, email, doc) VALUES (?, ?, ?)`),
		u.ID, nullEmail(u.Email), string(doc))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("repository: insert user: %w", err)
	}
	return nil
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (u *model.User, err error) {
	defer observe("get_user", time.Now(), &err)
	u = new(model.User)
	if err := s.getDoc(ctx, `SELECT doc FROM users WHERE id = ?`, id, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *SQLStore) PutUser(ctx context.Context, u *model.User) (err error) {
	defer observe("put_user", time.Now(), &err)
	doc, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("repository: encode user: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE users SET email = ?, doc = ? WHERE id = ?`),
		nullEmail(u.Email), string(doc), u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("repository: update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListUsers(ctx context.Context) (out []*model.User, err error) {
	defer observe("list_users", time.Now(), &err)
	var docs []string
	if err := s.db.SelectContext(ctx, &docs, `SELECT doc FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("repository: list users: %w", err)
	}
	return decodeAll[model.User](docs)
}

func (s *SQLStore) PutReferral(ctx context.Context, r *model.Referral) (err error) {
	defer observe("put_referral", time.Now(), &err)
	return s.upsert(ctx, "referrals", "created_at", r.ID, r.CreatedAt.UnixNano(), r)
}

func (s *SQLStore) GetReferral(ctx context.Context, id string) (r *model.Referral, err error) {
	defer observe("get_referral", time.Now(), &err)
	r = new(model.Referral)
	if err := s.getDoc(ctx, `SELECT doc FROM referrals WHERE id = ?`, id, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLStore) ListReferrals(ctx context.Context) (out []*model.Referral, err error) {
	defer observe("list_referrals", time.Now(), &err)
	var docs []string
	if err := s.db.SelectContext(ctx, &docs, `SELECT doc FROM referrals ORDER BY created_at DESC, id`); err != nil {
		return nil, fmt.Errorf("repository: list referrals: %w", err)
	}
	return decodeAll[model.Referral](docs)
}

func (s *SQLStore) PutSession(ctx context.Context, ses *model.Session) (err error) {
	defer observe("put_session", time.Now(), &err)
	return s.upsert(ctx, "sessions", "starts_at", ses.ID, ses.DateTime.UnixNano(), ses)
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (ses *model.Session, err error) {
	defer observe("get_session", time.Now(), &err)
	ses = new(model.Session)
	if err := s.getDoc(ctx, `SELECT doc FROM sessions WHERE id = ?`, id, ses); err != nil {
		return nil, err
	}
	return ses, nil
}

func (s *SQLStore) ListSessions(ctx context.Context) (out []*model.Session, err error) {
	defer observe("list_sessions", time.Now(), &err)
	var docs []string
	if err := s.db.SelectContext(ctx, &docs, `SELECT doc FROM sessions ORDER BY starts_at, id`); err != nil {
		return nil, fmt.Errorf("repository: list sessions: %w", err)
	}
	return decodeAll[model.Session](docs)
}

// upsert writes doc under id; both drivers accept ON CONFLICT ... DO UPDATE.
func (s *SQLStore) upsert(ctx context.Context, table, orderCol, id string, order int64, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", table, err)
	}
	q := fmt.Sprintf(`INSERT INTO %[1]s (id, %[2]s, doc) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET %[2]s = excluded.%[2]s, doc = excluded.doc`, table, orderCol)
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), id, order, string(doc)); err != nil {
		return fmt.Errorf("repository: upsert %s: %w", table, err)
	}
	return nil
}

func (s *SQLStore) getDoc(ctx context.Context, q, id string, dst any) error {
	var doc string
	if err := s.db.GetContext(ctx, &doc, s.db.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("repository: get %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(doc), dst); err != nil {
		return fmt.Errorf("repository: decode %s: %w", id, err)
	}
	return nil
}

func decodeAll[T any](docs []string) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		v := new(T)
		if err := json.Unmarshal([]byte(doc), v); err != nil {
			return nil, fmt.Errorf("repository: decode: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

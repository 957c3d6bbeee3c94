package repository

import "time"

// SQLOption configures a SQLStore.
type SQLOption func(*SQLStore)

// WithMaxOpenConns bounds the connection pool.
func WithMaxOpenConns(n int) SQLOption {
	return func(s *SQLStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithConnMaxLifetime recycles pooled connections after d.
func WithConnMaxLifetime(d time.Duration) SQLOption {
	return func(s *SQLStore) {
		if d > 0 {
			s.connMaxLifetime = d
		}
	}
}

package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("record already exists")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrStoreClosed  = errors.New("store closed")
)

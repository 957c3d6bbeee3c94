package service

import "errors"

// Sentinel kinds for service errors. Domain errors from referral, mentoring,
// resume, document and repository pass through wrapped.
var (
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadyConnected = errors.New("already connected")
)

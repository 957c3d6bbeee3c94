package mentoring

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by session operations.
var (
	ErrInvalidSession      = errors.New("session requires title, domain and a valid type and time")
	ErrSessionUnavailable  = errors.New("session is not available for booking")
	ErrDuplicateBooking    = errors.New("already booked")
	ErrCapacityExceeded    = errors.New("session is full")
	ErrInsufficientCredits = errors.New("not enough credits")
	ErrNotParticipant      = errors.New("user did not attend this session")
	ErrDuplicateRating     = errors.New("already rated")
	ErrInvalidTransition   = errors.New("invalid session status transition")
)

// CreditDeficitError reports the balance a booking fell short on.
type CreditDeficitError struct {
	Have int
	Need int
}

func (e *CreditDeficitError) Error() string {
	return fmt.Sprintf("not enough credits: need %d, have %d", e.Need, e.Have)
}

func (e *CreditDeficitError) Unwrap() error { return ErrInsufficientCredits }

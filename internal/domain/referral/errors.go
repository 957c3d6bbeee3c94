package referral

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by referral operations.
var (
	ErrInvalidReferral      = errors.New("referral requires company and role")
	ErrReferralClosed       = errors.New("referral is no longer open")
	ErrBelowMinimumScore    = errors.New("profile score below referral minimum")
	ErrDuplicateApplication = errors.New("already applied")
	ErrCapacityExceeded     = errors.New("maximum applicants reached")
	ErrApplicantNotFound    = errors.New("applicant not found")
	ErrInvalidStatus        = errors.New("invalid status")
)

// ScoreDeficitError reports how far a profile is below a referral minimum.
type ScoreDeficitError struct {
	Current  int
	Required int
}

func (e *ScoreDeficitError) Error() string {
	return fmt.Sprintf("minimum profile score of %d required, current score %d", e.Required, e.Current)
}

func (e *ScoreDeficitError) Unwrap() error { return ErrBelowMinimumScore }

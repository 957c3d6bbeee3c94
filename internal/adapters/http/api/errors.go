package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/alumnet/internal/adapters/document"
	"github.com/okian/alumnet/internal/adapters/repository"
	service "github.com/okian/alumnet/internal/app"
	"github.com/okian/alumnet/internal/domain/mentoring"
	"github.com/okian/alumnet/internal/domain/referral"
	"github.com/okian/alumnet/internal/domain/resume"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("missing X-User-ID header")
	ErrRateLimited  = errors.New("rate limited")
	ErrInFlight     = errors.New("request with this idempotency key is in progress")
)

// opError tags an error with the handler operation that produced it.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.err != nil && e.kind != nil:
		return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
	case e.err != nil:
		return fmt.Sprintf("%s: %v", e.op, e.err)
	default:
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	}
}

func (e *opError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// Wrap tags err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// WrapKind tags err with op and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// NewKind returns an op-tagged sentinel.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// errorStatus maps an error to its HTTP status and machine code.
func errorStatus(err error) (int, string) {
	var deficit *referral.ScoreDeficitError
	var credits *mentoring.CreditDeficitError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrInFlight):
		return http.StatusConflict, "in_flight"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, referral.ErrApplicantNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, document.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, document.ErrUnsupportedDocument):
		return http.StatusUnsupportedMediaType, "unsupported_document"
	case errors.Is(err, document.ErrCorruptDocument), errors.Is(err, resume.ErrUnreadableDocument):
		return http.StatusUnprocessableEntity, "unreadable_document"
	case errors.As(err, &deficit):
		return http.StatusForbidden, "below_minimum_score"
	case errors.As(err, &credits):
		return http.StatusPaymentRequired, "insufficient_credits"
	case errors.Is(err, service.ErrAlreadyConnected),
		errors.Is(err, referral.ErrDuplicateApplication),
		errors.Is(err, mentoring.ErrDuplicateBooking),
		errors.Is(err, mentoring.ErrDuplicateRating):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, referral.ErrCapacityExceeded), errors.Is(err, mentoring.ErrCapacityExceeded):
		return http.StatusConflict, "capacity_exceeded"
	case errors.Is(err, referral.ErrReferralClosed), errors.Is(err, mentoring.ErrSessionUnavailable):
		return http.StatusConflict, "unavailable"
	case errors.Is(err, mentoring.ErrNotParticipant):
		return http.StatusForbidden, "not_participant"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, referral.ErrInvalidReferral),
		errors.Is(err, referral.ErrInvalidStatus),
		errors.Is(err, mentoring.ErrInvalidSession),
		errors.Is(err, mentoring.ErrInvalidTransition):
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "internal_error"
}

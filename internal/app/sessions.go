package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/alumnet/internal/domain/mentoring"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/types"
	"github.com/okian/alumnet/pkg/logger"
	"github.com/okian/alumnet/pkg/metrics"
)

// CreateSession schedules a mentoring session. Only alumni and admins may host.
func (s *Service) CreateSession(ctx context.Context, hostID string, d mentoring.Draft) (*model.Session, error) {
	host, err := s.store.GetUser(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if !canPost(host) {
		return nil, fmt.Errorf("%w: only alumni can host sessions", ErrForbidden)
	}
	ses, err := mentoring.New(s.newID(), hostID, d, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.PutSession(ctx, &ses); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "session scheduled",
		logger.String("session_id", ses.ID),
		logger.String("domain", ses.Domain),
		logger.String("type", ses.Type),
	)
	return &ses, nil
}

// ListSessions returns active sessions by start time, optionally filtered
// by a case-insensitive domain substring.
func (s *Service) ListSessions(ctx context.Context, domain string) ([]*model.Session, error) {
	all, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	domain = strings.ToLower(strings.TrimSpace(domain))
	out := make([]*model.Session, 0, len(all))
	for _, ses := range all {
		if !mentoring.Active(ses) {
			continue
		}
		if domain != "" && !strings.Contains(strings.ToLower(ses.Domain), domain) {
			continue
		}
		out = append(out, ses)
	}
	return out, nil
}

// RecommendedSessions ranks active sessions by relevance to the user.
func (s *Service) RecommendedSessions(ctx context.Context, userID string) ([]mentoring.Recommendation, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	vals := make([]model.Session, 0, len(all))
	for _, ses := range all {
		vals = append(vals, *ses)
	}
	return mentoring.Recommend(vals, u), nil
}

// BookSession seats the user and charges the credit cost. The user's balance
// is restored when the session cannot be saved.
func (s *Service) BookSession(ctx context.Context, sessionID, userID string) (model.Participant, error) {
	unlock := s.locks.Lock(sessionID, userID)
	defer unlock()

	ses, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return model.Participant{}, err
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return model.Participant{}, err
	}
	if ses.HostID == userID {
		return model.Participant{}, fmt.Errorf("%w: hosts cannot book their own session", ErrInvalidInput)
	}

	p, err := mentoring.Book(ses, u, s.now().UTC())
	if err != nil {
		metrics.RecordSessionBooking(bookOutcome(err))
		return model.Participant{}, err
	}
	if err := s.saveUser(ctx, u); err != nil {
		return model.Participant{}, err
	}
	if err := s.store.PutSession(ctx, ses); err != nil {
		u.Credits += ses.CreditCost
		if rbErr := s.saveUser(ctx, u); rbErr != nil {
			s.logger.Error(ctx, "credit rollback failed",
				logger.String("user_id", userID),
				logger.String("session_id", sessionID),
				logger.Error(rbErr),
			)
		}
		return model.Participant{}, err
	}
	metrics.RecordSessionBooking("booked")

	s.notify(ctx, ses.HostID, model.NotifySessionBooked, "Session booked",
		fmt.Sprintf("%s booked %s", u.Name, ses.Title),
		map[string]any{"sessionId": ses.ID, "userId": userID})
	return p, nil
}

func bookOutcome(err error) string {
	switch {
	case errors.Is(err, mentoring.ErrSessionUnavailable):
		return "unavailable"
	case errors.Is(err, mentoring.ErrDuplicateBooking):
		return "duplicate"
	case errors.Is(err, mentoring.ErrCapacityExceeded):
		return "full"
	case errors.Is(err, mentoring.ErrInsufficientCredits):
		return "insufficient_credits"
	}
	return "error"
}

// MyBookings lists the sessions the user is seated in, by start time.
func (s *Service) MyBookings(ctx context.Context, userID string) ([]types.Booking, error) {
	all, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := []types.Booking{}
	for _, ses := range all {
		for _, p := range ses.Participants {
			if p.UserID != userID {
				continue
			}
			out = append(out, types.Booking{
				Session:       *ses,
				BookedAt:      p.BookedAt,
				Rated:         ses.HasRated(userID),
				AverageRating: mentoring.AverageRating(ses),
			})
			break
		}
	}
	return out, nil
}

// RateSession records a participant's rating.
func (s *Service) RateSession(ctx context.Context, sessionID, userID string, rating int, feedback string) (model.Rating, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	ses, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return model.Rating{}, err
	}
	r, err := mentoring.Rate(ses, userID, rating, feedback)
	if err != nil {
		return model.Rating{}, err
	}
	if err := s.store.PutSession(ctx, ses); err != nil {
		return model.Rating{}, err
	}
	return r, nil
}

// SetSessionStatus advances a session. Only the host or an admin may do so.
func (s *Service) SetSessionStatus(ctx context.Context, sessionID, actorID, status string) (*model.Session, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	ses, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if ses.HostID != actorID {
		actor, err := s.store.GetUser(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if actor.Role != model.RoleAdmin {
			return nil, fmt.Errorf("%w: only the host can change this session", ErrForbidden)
		}
	}
	if err := mentoring.SetStatus(ses, status); err != nil {
		return nil, err
	}
	if err := s.store.PutSession(ctx, ses); err != nil {
		return nil, err
	}
	return ses, nil
}

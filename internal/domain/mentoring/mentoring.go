// Package mentoring implements mentoring sessions: creation, credit-paid
// booking, ratings and relevance-ranked recommendations.
package mentoring

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/scoring"
)

// Defaults for new sessions.
const (
	DefaultDuration        = 60
	DefaultMaxParticipants = 30
	DefaultCreditCost      = 1

	minRating = 1
	maxRating = 5
)

// Draft carries the host-supplied fields of a session.
type Draft struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Domain          string    `json:"domain"`
	Type            string    `json:"type"`
	DateTime        time.Time `json:"dateTime"`
	Duration        int       `json:"duration"`
	MaxParticipants int       `json:"maxParticipants"`
	CreditCost      int       `json:"creditCost"`
}

// New builds an upcoming session. A 1:1 session always seats one.
func New(id, hostID string, d Draft, now time.Time) (model.Session, error) {
	title := strings.TrimSpace(d.Title)
	domain := strings.TrimSpace(d.Domain)
	if title == "" || domain == "" || d.DateTime.IsZero() {
		return model.Session{}, ErrInvalidSession
	}
	kind := d.Type
	if kind == "" {
		kind = model.SessionGroup
	}
	if kind != model.SessionGroup && kind != model.SessionOneOnOne {
		return model.Session{}, ErrInvalidSession
	}

	s := model.Session{
		ID:              id,
		HostID:          hostID,
		Title:           title,
		Description:     d.Description,
		Domain:          domain,
		Type:            kind,
		DateTime:        d.DateTime,
		Duration:        d.Duration,
		MaxParticipants: d.MaxParticipants,
		Participants:    []model.Participant{},
		Ratings:         []model.Rating{},
		Status:          model.SessionUpcoming,
		CreditCost:      d.CreditCost,
		CreatedAt:       now,
	}
	if s.Duration <= 0 {
		s.Duration = DefaultDuration
	}
	if s.MaxParticipants <= 0 {
		s.MaxParticipants = DefaultMaxParticipants
	}
	if kind == model.SessionOneOnOne {
		s.MaxParticipants = 1
	}
	if s.CreditCost <= 0 {
		s.CreditCost = DefaultCreditCost
	}
	return s, nil
}

// Active reports whether s is listed to users.
func Active(s *model.Session) bool {
	return s.Status == model.SessionUpcoming || s.Status == model.SessionOngoing
}

// Book seats u in s and deducts the credit cost from u. Nothing changes on
// error.
func Book(s *model.Session, u *model.User, now time.Time) (model.Participant, error) {
	if s.Status != model.SessionUpcoming {
		return model.Participant{}, ErrSessionUnavailable
	}
	if s.IsParticipant(u.ID) {
		return model.Participant{}, ErrDuplicateBooking
	}
	if len(s.Participants) >= s.MaxParticipants {
		return model.Participant{}, ErrCapacityExceeded
	}
	if u.Credits < s.CreditCost {
		return model.Participant{}, &CreditDeficitError{Have: u.Credits, Need: s.CreditCost}
	}
	u.Credits -= s.CreditCost
	p := model.Participant{UserID: u.ID, BookedAt: now}
	s.Participants = append(s.Participants, p)
	return p, nil
}

// Rate records a participant's rating, clamped to 1..5.
func Rate(s *model.Session, userID string, rating int, feedback string) (model.Rating, error) {
	if !s.IsParticipant(userID) {
		return model.Rating{}, ErrNotParticipant
	}
	if s.HasRated(userID) {
		return model.Rating{}, ErrDuplicateRating
	}
	r := model.Rating{
		UserID:   userID,
		Rating:   scoring.Clamp(rating, minRating, maxRating),
		Feedback: strings.TrimSpace(feedback),
	}
	s.Ratings = append(s.Ratings, r)
	return r, nil
}

// AverageRating is the mean rating, or 0 when unrated.
func AverageRating(s *model.Session) float64 {
	if len(s.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range s.Ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(s.Ratings))
}

var transitions = map[string][]string{
	model.SessionUpcoming: {model.SessionOngoing, model.SessionCompleted, model.SessionCancelled},
	model.SessionOngoing:  {model.SessionCompleted, model.SessionCancelled},
}

// SetStatus moves s along upcoming -> ongoing -> completed; cancellation is
// allowed until completion.
func SetStatus(s *model.Session, status string) error {
	for _, next := range transitions[s.Status] {
		if next == status {
			s.Status = status
			return nil
		}
	}
	return ErrInvalidTransition
}

// Recommendation is an active session scored for one user.
type Recommendation struct {
	Session   model.Session `json:"session"`
	Relevance int           `json:"relevance"`
	IsBooked  bool          `json:"isBooked"`
	SpotsLeft int           `json:"spotsLeft"`
}

// Recommend ranks active sessions by relevance to u. Sessions of equal
// relevance keep start-time order.
func Recommend(sessions []model.Session, u *model.User) []Recommendation {
	out := make([]Recommendation, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		if !Active(s) {
			continue
		}
		out = append(out, Recommendation{
			Session:   *s,
			Relevance: scoring.SessionRelevance(u, s.Domain),
			IsBooked:  s.IsParticipant(u.ID),
			SpotsLeft: s.SpotsLeft(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Session.DateTime.Before(out[j].Session.DateTime)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})
	return out
}

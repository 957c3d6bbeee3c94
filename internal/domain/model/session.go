package model

import "time"

// Session types.
const (
	SessionGroup    = "group"
	SessionOneOnOne = "1:1"
)

// Session statuses.
const (
	SessionUpcoming  = "upcoming"
	SessionOngoing   = "ongoing"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// Participant is a booked seat in a session.
type Participant struct {
	UserID   string    `json:"userId"`
	BookedAt time.Time `json:"bookedAt"`
}

// Rating is a participant's feedback on a session.
type Rating struct {
	UserID   string `json:"userId"`
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// Session is a mentoring session hosted by an alumnus.
type Session struct {
	ID              string        `json:"id"`
	HostID          string        `json:"hostId"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Domain          string        `json:"domain"`
	Type            string        `json:"type"`
	DateTime        time.Time     `json:"dateTime"`
	Duration        int           `json:"duration"`
	MaxParticipants int           `json:"maxParticipants"`
	Participants    []Participant `json:"participants"`
	Ratings         []Rating      `json:"ratings"`
	Status          string        `json:"status"`
	CreditCost      int           `json:"creditCost"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// IsParticipant reports whether userID booked the session.
func (s *Session) IsParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// HasRated reports whether userID already rated the session.
func (s *Session) HasRated(userID string) bool {
	for _, r := range s.Ratings {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// SpotsLeft returns the remaining capacity.
func (s *Session) SpotsLeft() int {
	left := s.MaxParticipants - len(s.Participants)
	if left < 0 {
		return 0
	}
	return left
}

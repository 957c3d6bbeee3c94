package model

import "time"

// Notification kinds.
const (
	NotifyBadgeEarned      = "badge_earned"
	NotifyReferralApplied  = "referral_applied"
	NotifyApplicantUpdated = "applicant_updated"
	NotifySessionBooked    = "session_booked"
	NotifyConnection       = "connection"
)

// Notification is a user-facing event dispatched through the queue.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

package model

import "time"

// Referral statuses.
const (
	ReferralOpen   = "open"
	ReferralClosed = "closed"
	ReferralFilled = "filled"
)

// Applicant statuses.
const (
	ApplicantEligible    = "eligible"
	ApplicantApplied     = "applied"
	ApplicantShortlisted = "shortlisted"
	ApplicantRejected    = "rejected"
)

// Applicant is one user's application to a referral.
type Applicant struct {
	UserID     string    `json:"userId"`
	MatchScore int       `json:"matchScore"`
	Rank       int       `json:"rank"`
	Status     string    `json:"status"`
	AppliedAt  time.Time `json:"appliedAt"`
}

// Referral is a referral opening posted by an alumnus.
type Referral struct {
	ID              string      `json:"id"`
	PostedBy        string      `json:"postedBy"`
	Company         string      `json:"company"`
	Role            string      `json:"role"`
	Description     string      `json:"description"`
	RequiredSkills  []string    `json:"requiredSkills"`
	MinProfileScore int         `json:"minProfileScore"`
	MaxApplicants   int         `json:"maxApplicants"`
	Applicants      []Applicant `json:"applicants"`
	Status          string      `json:"status"`
	Deadline        time.Time   `json:"deadline"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Applicant returns the application of userID, if any.
func (r *Referral) Applicant(userID string) (Applicant, bool) {
	for _, a := range r.Applicants {
		if a.UserID == userID {
			return a, true
		}
	}
	return Applicant{}, false
}

// AppliedCount counts applicants whose status is applied.
func (r *Referral) AppliedCount() int {
	n := 0
	for _, a := range r.Applicants {
		if a.Status == ApplicantApplied {
			n++
		}
	}
	return n
}

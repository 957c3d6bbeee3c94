// Package types contains response shapes shared by the service and the API.
package types

import (
	"time"

	"github.com/okian/alumnet/internal/domain/model"
)

// LeaderboardEntry is one ranked student.
type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	UserID          string `json:"id"`
	Name            string `json:"name"`
	ProfilePic      string `json:"profilePic"`
	CompositeScore  int    `json:"compositeScore"`
	ProfileStrength int    `json:"profileStrength"`
	RoleReadiness   int    `json:"roleReadiness"`
	ResumeScore     int    `json:"resumeScore"`
	SkillGrowth     int    `json:"skillGrowth"`
	BadgeCount      int    `json:"badgeCount"`
}

// CurrentScores are a user's latest derived scores.
type CurrentScores struct {
	ProfileStrength int `json:"profileStrength"`
	RoleReadiness   int `json:"roleReadiness"`
	ResumeScore     int `json:"resumeScore"`
	SkillGrowth     int `json:"skillGrowth"`
}

// Progress is the score trend view.
type Progress struct {
	ScoreHistory    []model.ScoreEntry `json:"scoreHistory"`
	CurrentScores   CurrentScores      `json:"currentScores"`
	Skills          []string           `json:"skills"`
	ProjectCount    int                `json:"projectCount"`
	CertCount       int                `json:"certCount"`
	InternshipCount int                `json:"internshipCount"`
}

// Dashboard is the student home summary.
type Dashboard struct {
	CurrentScores
	CompositeScore int                `json:"compositeScore"`
	Rank           int                `json:"rank"`
	TargetRole     string             `json:"targetRole"`
	BadgeCount     int                `json:"badgeCount"`
	Credits        int                `json:"credits"`
	SkillCount     int                `json:"skillCount"`
	ProjectCount   int                `json:"projectCount"`
	RecentHistory  []model.ScoreEntry `json:"recentHistory"`
}

// ProfileScore is the result of recomputing a profile.
type ProfileScore struct {
	ProfileStrength int  `json:"profileStrength"`
	RoleReadiness   int  `json:"roleReadiness"`
	ResumeScore     int  `json:"resumeScore"`
	SkillGrowth     int  `json:"skillGrowth"`
	RecordedToday   bool `json:"recordedToday"`
}

// Summary describes a numeric sample.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// CohortStats summarizes student scores, overall and per batch.
type CohortStats struct {
	Students        int                `json:"students"`
	ProfileStrength Summary            `json:"profileStrength"`
	RoleReadiness   Summary            `json:"roleReadiness"`
	ResumeScore     Summary            `json:"resumeScore"`
	Composite       Summary            `json:"composite"`
	ByBatch         map[string]Summary `json:"byBatch"`
}

// Stats is the service-level counters view.
type Stats struct {
	Users          int   `json:"users"`
	Students       int   `json:"students"`
	Alumni         int   `json:"alumni"`
	Referrals      int   `json:"referrals"`
	OpenReferrals  int   `json:"openReferrals"`
	Sessions       int   `json:"sessions"`
	OnlineUsers    int   `json:"onlineUsers"`
	QueueDepth     int   `json:"queueDepth"`
	IdempotencyLen int64 `json:"idempotencyKeys"`
}

// ReferralDetails is a referral with its applicants resolved to names.
type ReferralDetails struct {
	Referral   model.Referral  `json:"referral"`
	Applicants []ApplicantView `json:"applicants"`
	Poster     *PublicUser     `json:"poster,omitempty"`
}

// ApplicantView is an applicant joined with public profile fields.
type ApplicantView struct {
	model.Applicant
	Name            string `json:"name"`
	ProfileStrength int    `json:"profileStrength"`
}

// PublicUser is the subset of a user shown to other users.
type PublicUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	ProfilePic string `json:"profilePic"`
	Company    string `json:"company,omitempty"`
	JobRole    string `json:"jobRole,omitempty"`
}

// Public returns the public view of u.
func Public(u *model.User) PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Role:       u.Role,
		ProfilePic: u.ProfilePic,
		Company:    u.Company,
		JobRole:    u.JobRole,
	}
}

// Booking is a session the user booked.
type Booking struct {
	Session       model.Session `json:"session"`
	BookedAt      time.Time     `json:"bookedAt"`
	Rated         bool          `json:"rated"`
	AverageRating float64       `json:"averageRating"`
}

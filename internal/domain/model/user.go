// Package model contains domain models passed between layers.
package model

import "time"

// User roles.
const (
	RoleStudent = "student"
	RoleAlumni  = "alumni"
	RoleAdmin   = "admin"
)

// Project is a portfolio project listed on a profile.
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link"`
}

// Internship is a work or internship experience entry.
type Internship struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Certification is a credential listed on a profile.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	Link   string `json:"link"`
}

// ScoreEntry is one daily snapshot in the score history.
type ScoreEntry struct {
	Date            time.Time `json:"date"`
	ProfileStrength int       `json:"profileStrength"`
	RoleReadiness   int       `json:"roleReadiness"`
	ResumeScore     int       `json:"resumeScore"`
}

// Badge is a one-time achievement. Membership is keyed by Name.
type Badge struct {
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	EarnedAt time.Time `json:"earnedAt"`
}

// User is the persisted user document.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profilePic"`
	Course     string `json:"course"`
	Batch      string `json:"batch"`
	Company    string `json:"company"`
	JobRole    string `json:"jobRole"`
	LinkedIn   string `json:"linkedIn"`
	Location   string `json:"location"`

	Skills         []string        `json:"skills"`
	Projects       []Project       `json:"projects"`
	Internships    []Internship    `json:"internships"`
	Certifications []Certification `json:"certifications"`
	TargetRole     string          `json:"targetRole"`
	CVName         string          `json:"cvName"`

	// Derived scores, always recomputed before dependent reads.
	ProfileStrengthScore int `json:"profileStrengthScore"`
	RoleReadinessScore   int `json:"roleReadinessScore"`
	ResumeScore          int `json:"resumeScore"`
	SkillGrowthScore     int `json:"skillGrowthScore"`

	ScoreHistory []ScoreEntry `json:"scoreHistory"`
	Badges       []Badge      `json:"badges"`
	Credits      int          `json:"credits"`
	Connections  []string     `json:"connections"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasBadge reports whether a badge with the given name was already earned.
func (u *User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b.Name == name {
			return true
		}
	}
	return false
}

// BadgeNames returns the names of all earned badges.
func (u *User) BadgeNames() []string {
	names := make([]string, 0, len(u.Badges))
	for _, b := range u.Badges {
		names = append(names, b.Name)
	}
	return names
}

// IsConnected reports whether other is in the user's connections.
func (u *User) IsConnected(other string) bool {
	for _, c := range u.Connections {
		if c == other {
			return true
		}
	}
	return false
}

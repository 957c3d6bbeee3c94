// Package badges awards one-time achievements from materialized user state.
package badges

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/alumnet/internal/domain/model"
)

// Definition is one badge in the catalog.
type Definition struct {
	Name        string
	Icon        string
	Description string
	Earned      func(u *model.User) bool
}

func atLeast(get func(u *model.User) int, n int) func(u *model.User) bool {
	return func(u *model.User) bool { return get(u) >= n }
}

var (
	profileStrength = func(u *model.User) int { return u.ProfileStrengthScore }
	skillCount      = func(u *model.User) int { return len(u.Skills) }
	projectCount    = func(u *model.User) int { return len(u.Projects) }
	internCount     = func(u *model.User) int { return len(u.Internships) }
	certCount       = func(u *model.User) int { return len(u.Certifications) }
	resumeScore     = func(u *model.User) int { return u.ResumeScore }
	readiness       = func(u *model.User) int { return u.RoleReadinessScore }
	connections     = func(u *model.User) int { return len(u.Connections) }
	historyLen      = func(u *model.User) int { return len(u.ScoreHistory) }
)

// catalog is evaluated and awarded in this order.
var catalog = []Definition{
	{"Profile Starter", "🌱", "Profile strength reached 20%", atLeast(profileStrength, 20)},
	{"Profile Builder", "🏗️", "Profile strength reached 50%", atLeast(profileStrength, 50)},
	{"Profile Master", "👑", "Profile strength reached 80%", atLeast(profileStrength, 80)},
	{"Skill Collector", "🎯", "Added 5+ skills", atLeast(skillCount, 5)},
	{"Skill Expert", "💎", "Added 10+ skills", atLeast(skillCount, 10)},
	{"Project Builder", "🚀", "Added 2+ projects", atLeast(projectCount, 2)},
	{"Project Champion", "🏆", "Added 4+ projects", atLeast(projectCount, 4)},
	{"Intern Ready", "💼", "Added internship experience", atLeast(internCount, 1)},
	{"Certified Pro", "📜", "Earned 2+ certifications", atLeast(certCount, 2)},
	{"Resume Ready", "📄", "ATS score reached 60%", atLeast(resumeScore, 60)},
	{"Resume Master", "✨", "ATS score reached 80%", atLeast(resumeScore, 80)},
	{"Role Focused", "🎯", "Selected a target career role", func(u *model.User) bool {
		return strings.TrimSpace(u.TargetRole) != ""
	}},
	{"Career Ready", "🔥", "Role readiness reached 70%", atLeast(readiness, 70)},
	{"Networker", "🤝", "Made 5+ connections", atLeast(connections, 5)},
	{"Growth Mindset", "📈", "Tracked progress 5+ times", atLeast(historyLen, 5)},
}

// Catalog returns a copy of the badge definitions in award order.
func Catalog() []Definition {
	return append([]Definition(nil), catalog...)
}

// Result is the outcome of one evaluation.
type Result struct {
	NewBadges []model.Badge `json:"newBadges"`
	Message   string        `json:"message"`
}

// Evaluate returns the badges u newly qualifies for, in catalog order, all
// stamped with now. Badges already in u.Badges are skipped.
func Evaluate(u *model.User, now time.Time) Result {
	res := Result{NewBadges: []model.Badge{}}
	for _, d := range catalog {
		if u.HasBadge(d.Name) || !d.Earned(u) {
			continue
		}
		res.NewBadges = append(res.NewBadges, model.Badge{Name: d.Name, Icon: d.Icon, EarnedAt: now})
	}
	if n := len(res.NewBadges); n > 0 {
		res.Message = fmt.Sprintf("🎉 You earned %d new badge(s)!", n)
	} else {
		res.Message = "No new badges earned yet. Keep improving!"
	}
	return res
}

// Status is a badge with its earned state for one user.
type Status struct {
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Description string     `json:"description"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earnedAt"`
}

// Listing splits the catalog into earned and available badges.
type Listing struct {
	Earned      []Status `json:"earned"`
	Available   []Status `json:"available"`
	Total       int      `json:"total"`
	EarnedCount int      `json:"earnedCount"`
}

// Overview lists every badge with the user's earned state.
func Overview(earned []model.Badge) Listing {
	at := make(map[string]time.Time, len(earned))
	for _, b := range earned {
		at[b.Name] = b.EarnedAt
	}
	out := Listing{Earned: []Status{}, Available: []Status{}, Total: len(catalog)}
	for _, d := range catalog {
		s := Status{Name: d.Name, Icon: d.Icon, Description: d.Description}
		if t, ok := at[d.Name]; ok {
			s.Earned = true
			s.EarnedAt = &t
			out.Earned = append(out.Earned, s)
			continue
		}
		out.Available = append(out.Available, s)
	}
	out.EarnedCount = len(out.Earned)
	return out
}

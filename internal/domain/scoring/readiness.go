package scoring

import (
	"strings"

	"github.com/okian/alumnet/internal/domain/model"
)

// Readiness is the fit of a user against one target role.
type Readiness struct {
	Role       string   `json:"targetRole"`
	Recognized bool     `json:"recognized"`
	Score      int      `json:"readinessScore"`
	Matched    []string `json:"matchedSkills"`
	Missing    []string `json:"missingSkills"`
}

// RoleReadiness scores u against role. Unknown roles are scored against the
// default role; an empty role scores 0.
func (e *Engine) RoleReadiness(u *model.User, role string) Readiness {
	role = strings.TrimSpace(role)
	if role == "" {
		return Readiness{Matched: []string{}, Missing: []string{}}
	}
	r, ok := e.catalog.Lookup(role)
	matched, missing := matchSkills(u.Skills, r.Skills)

	base := float64(len(matched)) / float64(len(r.Skills)) * 75
	bonus := capAt(len(u.Projects)*3, 10) +
		capAt(len(u.Internships)*5, 10) +
		capAt(len(u.Certifications)*2, 5)

	return Readiness{
		Role:       role,
		Recognized: ok,
		Score:      Clamp(Round(base+float64(bonus)), 0, MaxScore),
		Matched:    matched,
		Missing:    missing,
	}
}

// Package scoring computes the profile, readiness, ATS, referral match and
// session relevance scores. Every function is pure; the same input always
// yields the same score.
package scoring

import (
	"strings"
	"unicode/utf8"

	"github.com/okian/alumnet/internal/catalog"
	"github.com/okian/alumnet/internal/domain/lexicon"
	"github.com/okian/alumnet/internal/domain/model"
)

// MaxScore is the upper bound of every score.
const MaxScore = 100

// RoleCatalog resolves target roles to their skill and keyword lists.
type RoleCatalog interface {
	Lookup(role string) (catalog.Role, bool)
	ATSKeywords(role string) []string
	DefaultRole() string
}

// Engine scores users against a role catalog.
type Engine struct {
	catalog RoleCatalog
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog replaces the embedded catalog.
func WithCatalog(c RoleCatalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// NewEngine returns an engine backed by the embedded catalog unless
// overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	return e
}

// matchSkills splits required into those some user skill covers and those
// none does, keeping catalog order.
func matchSkills(userSkills, required []string) (matched, missing []string) {
	matched = []string{}
	missing = []string{}
	for _, req := range required {
		if lexicon.AnyContains(userSkills, req) {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return matched, missing
}

func present(s string) bool { return strings.TrimSpace(s) != "" }

func longerThan(s string, n int) bool { return utf8.RuneCountInString(s) > n }

// ProfileStrength scores how complete a profile is.
func ProfileStrength(u *model.User) int {
	score := 0
	if present(u.Name) {
		score += 5
	}
	if longerThan(u.Bio, 20) {
		score += 10
	}
	if present(u.ProfilePic) {
		score += 5
	}
	score += capAt(len(u.Skills)*4, 20)
	score += capAt(len(u.Projects)*7, 20)
	score += capAt(len(u.Internships)*8, 15)
	score += capAt(len(u.Certifications)*5, 10)
	if present(u.Course) {
		score += 5
	}
	if present(u.LinkedIn) {
		score += 5
	}
	if present(u.TargetRole) {
		score += 5
	}
	return Clamp(score, 0, MaxScore)
}

package scoring

import (
	"strings"

	"github.com/okian/alumnet/internal/domain/lexicon"
	"github.com/okian/alumnet/internal/domain/model"
)

// neutralScore stands in for a component that cannot be measured.
const neutralScore = 50

// ReferralMatch scores u against the skills a referral requires.
func ReferralMatch(u *model.User, required []string) int {
	skillScore := float64(neutralScore)
	if len(required) > 0 {
		matched, _ := matchSkills(u.Skills, required)
		skillScore = float64(len(matched)) / float64(len(required)) * 100
	}
	growth := u.SkillGrowthScore
	if growth == 0 {
		growth = neutralScore
	}
	raw := skillScore*0.6 + float64(u.ProfileStrengthScore)*0.25 + float64(growth)*0.15
	return Clamp(Round(raw), 0, MaxScore)
}

// SessionRelevance scores how relevant a session domain is to u.
func SessionRelevance(u *model.User, domain string) int {
	score := 0
	if lexicon.AnyContains(u.Skills, domain) {
		score += 40
	}
	if lexicon.ContainsEither(u.TargetRole, domain) {
		score += 30
	}
	matches := 0
	for _, tok := range domainTokens(domain) {
		if lexicon.AnyContains(u.Skills, tok) {
			matches++
		}
	}
	score += capAt(matches*10, 30)
	return Clamp(score, 0, MaxScore)
}

func domainTokens(domain string) []string {
	return strings.FieldsFunc(domain, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// Scores are the persisted scores a composite is built from.
type Scores struct {
	ProfileStrength int
	RoleReadiness   int
	Resume          int
	Growth          int
}

// ScoresOf reads the persisted scores from u.
func ScoresOf(u *model.User) Scores {
	return Scores{
		ProfileStrength: u.ProfileStrengthScore,
		RoleReadiness:   u.RoleReadinessScore,
		Resume:          u.ResumeScore,
		Growth:          u.SkillGrowthScore,
	}
}

// Composite is the leaderboard score.
func Composite(s Scores) int {
	raw := float64(s.ProfileStrength)*0.3 + float64(s.RoleReadiness)*0.25 +
		float64(s.Resume)*0.25 + float64(s.Growth)*0.2
	return Clamp(Round(raw), 0, MaxScore)
}

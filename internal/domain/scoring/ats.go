package scoring

import (
	"strings"

	"github.com/okian/alumnet/internal/domain/lexicon"
	"github.com/okian/alumnet/internal/domain/model"
)

const (
	maxATSMissing   = 8
	maxATSKeywords  = 6
	maxSuggestShown = 3
)

// ATSReport estimates how a profile fares in an applicant tracking system.
type ATSReport struct {
	Role              string   `json:"targetRole"`
	Score             int      `json:"atsScore"`
	FormatScore       int      `json:"formatScore"`
	SkillMatchScore   int      `json:"skillMatchScore"`
	Matched           []string `json:"matchedSkills"`
	Missing           []string `json:"missingSkills"`
	SuggestedKeywords []string `json:"suggestedKeywords"`
	Improvements      []string `json:"improvements"`
}

// FormatScore is the ATS layout score of a profile.
func FormatScore(u *model.User) int {
	score := 0
	if present(u.Name) {
		score += 10
	}
	if present(u.Email) {
		score += 10
	}
	if len(u.Skills) >= 5 {
		score += 15
	}
	if len(u.Projects) >= 2 {
		score += 15
	}
	if len(u.Internships) >= 1 {
		score += 15
	}
	if longerThan(u.Bio, 30) {
		score += 10
	}
	if len(u.Certifications) >= 1 {
		score += 10
	}
	if present(u.LinkedIn) {
		score += 5
	}
	if present(u.Location) {
		score += 5
	}
	if present(u.Course) {
		score += 5
	}
	return capAt(score, MaxScore)
}

// ATS scores u for role. An empty role uses the user's target role, then the
// catalog default.
func (e *Engine) ATS(u *model.User, role string) ATSReport {
	role = strings.TrimSpace(role)
	if role == "" {
		role = strings.TrimSpace(u.TargetRole)
	}
	if role == "" {
		role = lexicon.TitleCase(e.catalog.DefaultRole())
	}
	r, _ := e.catalog.Lookup(role)
	matched, missing := matchSkills(u.Skills, r.Skills)
	skillScore := float64(len(matched)) / float64(len(r.Skills)) * 100
	format := FormatScore(u)

	suggested := []string{}
	for _, kw := range e.catalog.ATSKeywords(role) {
		if !lexicon.AnyContains(u.Skills, kw) {
			suggested = append(suggested, kw)
		}
	}

	improvements := []string{}
	if len(missing) > 0 {
		improvements = append(improvements, "Add missing skills: "+strings.Join(head(missing, maxSuggestShown), ", "))
	}
	if !longerThan(u.Bio, 30) {
		improvements = append(improvements, "Write a detailed professional summary")
	}
	if len(u.Projects) < 2 {
		improvements = append(improvements, "Add more project experiences")
	}
	if !present(u.LinkedIn) {
		improvements = append(improvements, "Add your LinkedIn profile link")
	}
	if len(suggested) > 0 {
		improvements = append(improvements, "Include ATS keywords: "+strings.Join(head(suggested, maxSuggestShown), ", "))
	}

	return ATSReport{
		Role:              role,
		Score:             Clamp(Round(float64(format)*0.4+skillScore*0.6), 0, MaxScore),
		FormatScore:       format,
		SkillMatchScore:   Round(skillScore),
		Matched:           matched,
		Missing:           head(missing, maxATSMissing),
		SuggestedKeywords: head(suggested, maxATSKeywords),
		Improvements:      improvements,
	}
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

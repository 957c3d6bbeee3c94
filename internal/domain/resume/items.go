package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/okian/alumnet/internal/domain/lexicon"
	"github.com/okian/alumnet/internal/domain/model"
)

const (
	defaultCompany = "Company"

	maxProjectTechs   = 5
	maxSynthTechs     = 3
	maxRoleRunes      = 60
	fallbackRoleRunes = 50
	maxExpDescRunes   = 200
	maxCertNameRunes  = 80
)

var (
	titleRe    = regexp.MustCompile(`^([^\n.]+)`)
	descLeadRe = regexp.MustCompile(`^[-–—:]\s*`)

	companyRe  = regexp.MustCompile(`(?:^|\s)(?:at|@)\s*([A-Z][A-Za-z0-9&.]*(?:[ \t]+(?:[A-Z][A-Za-z0-9&.]*|&))*)`)
	roleRe     = regexp.MustCompile(`^([^\n|–—]+?)(?:\s*[-–—|]\s*|\s+at\s+|\s*\n)`)
	durationRe = regexp.MustCompile(`(?i)(\d+\s*(?:month|year|week)s?|\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s*\d{2,4}\s*(?:[-–—]+|to)\s*\w+\s*\d{0,4})`)

	certNameRe = regexp.MustCompile(`\s*[-–—|].*$`)
	issuerRe   = regexp.MustCompile(`(?:\b(?:issued by|by|from)\b|[–—|])\s*([A-Z][A-Za-z&. ]*)`)
	yearRe     = regexp.MustCompile(`\b(20\d{2})\b`)
)

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func truncate(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// parseProject turns an item into a project, or reports false when the item
// is too short or too long to be one.
func parseProject(item string, m *lexicon.Matcher) (model.Project, bool) {
	n := runeLen(item)
	if n <= 5 || n >= 200 {
		return model.Project{}, false
	}
	loc := titleRe.FindStringSubmatchIndex(item)
	if loc == nil {
		return model.Project{}, false
	}
	title := strings.TrimSpace(item[loc[2]:loc[3]])
	if tl := runeLen(title); tl <= 3 || tl >= 100 {
		return model.Project{}, false
	}

	rest := strings.TrimSpace(item[loc[1]:])
	rest = strings.TrimPrefix(rest, ".")
	desc := strings.TrimSpace(descLeadRe.ReplaceAllString(strings.TrimSpace(rest), ""))

	techs := m.Match(item)
	if len(techs) > maxProjectTechs {
		techs = techs[:maxProjectTechs]
	}
	if desc == "" {
		desc = synthesizeDescription(techs)
	}
	if techs == nil {
		techs = []string{}
	}
	return model.Project{Title: title, Description: desc, Technologies: techs}, true
}

func synthesizeDescription(techs []string) string {
	if len(techs) == 0 {
		return "Project involving various technologies"
	}
	if len(techs) > maxSynthTechs {
		techs = techs[:maxSynthTechs]
	}
	return "Project involving " + strings.Join(techs, ", ")
}

// parseInternship never fails on a missing field; unmatched parts fall back
// to placeholders.
func parseInternship(item string) (model.Internship, bool) {
	if runeLen(item) <= 10 {
		return model.Internship{}, false
	}
	out := model.Internship{
		Company:     defaultCompany,
		Description: truncate(item, maxExpDescRunes),
	}
	if m := companyRe.FindStringSubmatch(item); m != nil {
		out.Company = strings.TrimSpace(m[1])
	}
	if m := roleRe.FindStringSubmatch(item); m != nil {
		out.Role = truncate(strings.TrimSpace(m[1]), maxRoleRunes)
	} else {
		out.Role = truncate(item, fallbackRoleRunes)
	}
	if m := durationRe.FindStringSubmatch(item); m != nil {
		out.Duration = strings.TrimSpace(m[1])
	}
	return out, true
}

func parseCertification(item string) (model.Certification, bool) {
	n := runeLen(item)
	if n <= 5 || n >= 150 {
		return model.Certification{}, false
	}
	firstLine, _, _ := strings.Cut(item, "\n")
	out := model.Certification{
		Name: truncate(strings.TrimSpace(certNameRe.ReplaceAllString(firstLine, "")), maxCertNameRunes),
	}
	if m := issuerRe.FindStringSubmatch(item); m != nil {
		out.Issuer = strings.TrimSpace(m[1])
	}
	if m := yearRe.FindStringSubmatch(item); m != nil {
		out.Date = m[1]
	}
	return out, true
}

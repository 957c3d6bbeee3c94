package resume

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SectionKind labels a block of résumé text.
type SectionKind int

// Section kinds. Only projects, experience and certifications are captured;
// the remaining kinds exist so that their headings terminate a capture.
const (
	SectionNone SectionKind = iota
	SectionProjects
	SectionExperience
	SectionCertifications
	SectionOther
)

// headingRule maps a heading keyword to its section kind.
type headingRule struct {
	keyword string
	kind    SectionKind
}

// headingRules is ordered longest keyword first so that "work experience"
// wins over "work".
var headingRules = sortRules([]headingRule{
	{"projects", SectionProjects},
	{"project", SectionProjects},
	{"personal projects", SectionProjects},
	{"academic projects", SectionProjects},
	{"key projects", SectionProjects},
	{"projects done", SectionProjects},
	{"projects completed", SectionProjects},
	{"projects built", SectionProjects},
	{"projects developed", SectionProjects},

	{"experience", SectionExperience},
	{"work experience", SectionExperience},
	{"professional experience", SectionExperience},
	{"internship", SectionExperience},
	{"internships", SectionExperience},
	{"work history", SectionExperience},
	{"employment", SectionExperience},
	{"employment history", SectionExperience},

	{"certification", SectionCertifications},
	{"certifications", SectionCertifications},
	{"certificates", SectionCertifications},
	{"licenses & certifications", SectionCertifications},
	{"licenses and certifications", SectionCertifications},
	{"certified", SectionCertifications},

	{"education", SectionOther},
	{"skills", SectionOther},
	{"technical skills", SectionOther},
	{"achievement", SectionOther},
	{"achievements", SectionOther},
	{"award", SectionOther},
	{"awards", SectionOther},
	{"reference", SectionOther},
	{"references", SectionOther},
	{"hobby", SectionOther},
	{"hobbies", SectionOther},
	{"language", SectionOther},
	{"languages", SectionOther},
	{"summary", SectionOther},
	{"objective", SectionOther},
	{"interests", SectionOther},
	{"publications", SectionOther},
	{"contact", SectionOther},
})

func sortRules(rules []headingRule) []headingRule {
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].keyword) > len(rules[j].keyword)
	})
	return rules
}

// headingSeparators may follow a heading keyword on the same line.
const headingSeparators = ":-–—"

// classifyLine reports whether line is a heading and returns its kind and
// any inline content following the separator.
func classifyLine(line string) (SectionKind, string, bool) {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)
	for _, rule := range headingRules {
		if !strings.HasPrefix(lower, rule.keyword) {
			continue
		}
		rest := trimmed[len(rule.keyword):]
		restTrim := strings.TrimLeft(rest, " \t")
		if restTrim == "" {
			return rule.kind, "", true
		}
		r, size := utf8.DecodeRuneInString(restTrim)
		if strings.ContainsRune(headingSeparators, r) {
			return rule.kind, strings.TrimSpace(restTrim[size:]), true
		}
	}
	return SectionNone, "", false
}

// Section is a captured block of lines under a heading.
type Section struct {
	Kind  SectionKind
	Lines []string
}

// splitSections walks the lines of text once, switching state on every
// heading of another kind. The first non-empty occurrence of each captured
// kind wins.
func splitSections(text string) map[SectionKind]Section {
	out := make(map[SectionKind]Section)
	current := SectionNone
	capturing := false
	var lines []string

	flush := func() {
		if capturing && hasContent(lines) {
			if _, seen := out[current]; !seen {
				out[current] = Section{Kind: current, Lines: lines}
			}
		}
		lines = nil
	}

	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		if kind, inline, ok := classifyLine(line); ok {
			// "Project: Chat App" inside Projects is an item, not a new heading.
			if capturing && kind == current {
				if inline != "" {
					lines = append(lines, "- "+inline)
				}
				continue
			}
			flush()
			current = kind
			_, seen := out[kind]
			capturing = kind != SectionOther && !seen
			if capturing && inline != "" {
				lines = append(lines, inline)
			}
			continue
		}
		if capturing {
			lines = append(lines, line)
		}
	}
	flush()
	return out
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

var numberedMarker = regexp.MustCompile(`^\d+\.\s*`)

// bulletMarkers start a new list item.
const bulletMarkers = "-•●▪▸*"

// splitItems cuts a section into candidate items. A line opens a new item
// when it starts with a bullet, a numbered marker, or an upper-case letter;
// any other line continues the current item.
func splitItems(lines []string) []string {
	var items []string
	var cur []string
	push := func() {
		if len(cur) > 0 {
			items = append(items, strings.TrimSpace(strings.Join(cur, "\n")))
		}
		cur = nil
	}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if body, ok := stripMarker(line); ok {
			push()
			cur = append(cur, body)
			continue
		}
		r, _ := utf8.DecodeRuneInString(line)
		if unicode.IsUpper(r) {
			push()
		}
		cur = append(cur, line)
	}
	push()
	return items
}

// stripMarker removes a leading bullet or numbered marker.
func stripMarker(line string) (string, bool) {
	r, size := utf8.DecodeRuneInString(line)
	if strings.ContainsRune(bulletMarkers, r) {
		return strings.TrimSpace(line[size:]), true
	}
	if loc := numberedMarker.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:]), true
	}
	return line, false
}

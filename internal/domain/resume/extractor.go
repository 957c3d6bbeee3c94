// Package resume turns plain résumé text into profile sections.
package resume

import (
	"strings"

	"github.com/okian/alumnet/internal/domain/lexicon"
	"github.com/okian/alumnet/internal/domain/model"
)

// Section caps. Earliest items are kept.
const (
	MaxProjects       = 5
	MaxInternships    = 4
	MaxCertifications = 5

	// DefaultMinChars is the shortest trimmed text accepted as a résumé.
	DefaultMinChars = 20
)

// Extraction is the structured result of one résumé parse.
type Extraction struct {
	Skills         []string              `json:"skills"`
	Projects       []model.Project       `json:"projects"`
	Internships    []model.Internship    `json:"internships"`
	Certifications []model.Certification `json:"certifications"`
	TextLength     int                   `json:"rawTextLength"`
}

// Extractor parses résumé text against a skill lexicon.
type Extractor struct {
	matcher  *lexicon.Matcher
	minChars int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMinChars overrides the unreadable-document threshold.
func WithMinChars(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minChars = n
		}
	}
}

// NewExtractor returns an extractor backed by matcher.
func NewExtractor(matcher *lexicon.Matcher, opts ...Option) *Extractor {
	e := &Extractor{matcher: matcher, minChars: DefaultMinChars}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses text. It fails only when the text is too short to read;
// a section it cannot find comes back empty.
func (e *Extractor) Extract(text string) (Extraction, error) {
	trimmed := strings.TrimSpace(text)
	if runeLen(trimmed) < e.minChars {
		return Extraction{}, ErrUnreadableDocument
	}

	out := Extraction{
		Skills:         e.matcher.Match(text),
		Projects:       []model.Project{},
		Internships:    []model.Internship{},
		Certifications: []model.Certification{},
		TextLength:     runeLen(text),
	}
	if len(out.Skills) == 0 {
		out.Skills = append([]string(nil), lexicon.FallbackSkills...)
	}

	sections := splitSections(text)

	if s, ok := sections[SectionProjects]; ok {
		for _, item := range splitItems(s.Lines) {
			if len(out.Projects) == MaxProjects {
				break
			}
			if p, ok := parseProject(item, e.matcher); ok {
				out.Projects = append(out.Projects, p)
			}
		}
	}
	if s, ok := sections[SectionExperience]; ok {
		for _, item := range splitItems(s.Lines) {
			if len(out.Internships) == MaxInternships {
				break
			}
			if in, ok := parseInternship(item); ok {
				out.Internships = append(out.Internships, in)
			}
		}
	}
	if s, ok := sections[SectionCertifications]; ok {
		for _, item := range splitItems(s.Lines) {
			if len(out.Certifications) == MaxCertifications {
				break
			}
			if c, ok := parseCertification(item); ok {
				out.Certifications = append(out.Certifications, c)
			}
		}
	}
	return out, nil
}

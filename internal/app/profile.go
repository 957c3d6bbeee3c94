package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/okian/alumnet/internal/domain/history"
	"github.com/okian/alumnet/internal/domain/lexicon"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/resume"
	"github.com/okian/alumnet/internal/domain/scoring"
	"github.com/okian/alumnet/internal/domain/types"
	"github.com/okian/alumnet/pkg/logger"
	"github.com/okian/alumnet/pkg/metrics"
)

// CVResult is the outcome of a résumé upload.
type CVResult struct {
	Kind      string            `json:"kind"`
	Extracted resume.Extraction `json:"extracted"`
	Profile   *model.User       `json:"profile"`
}

// UploadCV extracts profile sections from a PDF, DOCX or text résumé and
// merges them into the user's profile.
func (s *Service) UploadCV(ctx context.Context, userID, filename string, data []byte) (*CVResult, error) {
	start := time.Now()
	kind, text, err := s.documents.Text(filename, data)
	if err != nil {
		metrics.RecordExtraction("unsupported", msSince(start))
		return nil, err
	}
	ex, err := s.extractor.Extract(text)
	if err != nil {
		metrics.RecordExtraction("unreadable", msSince(start))
		return nil, err
	}
	metrics.RecordExtraction("ok", msSince(start))
	metrics.RecordExtractedItems("skills", len(ex.Skills))
	metrics.RecordExtractedItems("projects", len(ex.Projects))
	metrics.RecordExtractedItems("internships", len(ex.Internships))
	metrics.RecordExtractedItems("certifications", len(ex.Certifications))

	u, err := s.mutateUser(ctx, userID, func(u *model.User) error {
		resume.Merge(u, ex)
		u.CVName = filename
		s.recompute(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "cv processed",
		logger.String("user_id", userID),
		logger.String("kind", string(kind)),
		logger.Int("skills", len(ex.Skills)),
		logger.Int("projects", len(ex.Projects)),
	)
	return &CVResult{Kind: string(kind), Extracted: ex, Profile: u}, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}

// GetAIProfile recomputes the derived scores and returns the profile.
func (s *Service) GetAIProfile(ctx context.Context, userID string) (*model.User, error) {
	return s.mutateUser(ctx, userID, func(u *model.User) error {
		s.recompute(u)
		return nil
	})
}

// AIProfileUpdate replaces the scored profile sections. Nil fields are kept.
type AIProfileUpdate struct {
	Skills         *[]string              `json:"skills"`
	Projects       *[]model.Project       `json:"projects"`
	Internships    *[]model.Internship    `json:"internships"`
	Certifications *[]model.Certification `json:"certifications"`
	TargetRole     *string                `json:"targetRole"`
}

// UpdateAIProfile applies in, recomputes scores, records today's history
// entry and refreshes the growth score.
func (s *Service) UpdateAIProfile(ctx context.Context, userID string, in AIProfileUpdate) (*model.User, error) {
	var appended bool
	u, err := s.mutateUser(ctx, userID, func(u *model.User) error {
		if in.Skills != nil {
			u.Skills = lexicon.UnionFold(nil, nonEmpty(*in.Skills))
		}
		if in.Projects != nil {
			u.Projects = append([]model.Project{}, *in.Projects...)
		}
		if in.Internships != nil {
			u.Internships = append([]model.Internship{}, *in.Internships...)
		}
		if in.Certifications != nil {
			u.Certifications = append([]model.Certification{}, *in.Certifications...)
		}
		if in.TargetRole != nil {
			u.TargetRole = strings.TrimSpace(*in.TargetRole)
		}
		s.recompute(u)

		u.ScoreHistory, appended = history.Record(u.ScoreHistory, model.ScoreEntry{
			ProfileStrength: u.ProfileStrengthScore,
			RoleReadiness:   u.RoleReadinessScore,
			ResumeScore:     u.ResumeScore,
		}, s.now(), s.historyLimit)
		u.SkillGrowthScore = history.Growth(u.ScoreHistory, u.SkillGrowthScore)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if appended {
		metrics.RecordHistoryAppend()
	}
	return u, nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ProfileScore recomputes and returns the score summary of a user.
func (s *Service) ProfileScore(ctx context.Context, userID string) (types.ProfileScore, error) {
	u, err := s.GetAIProfile(ctx, userID)
	if err != nil {
		return types.ProfileScore{}, err
	}
	today := len(u.ScoreHistory) > 0 && history.Day(u.ScoreHistory[len(u.ScoreHistory)-1].Date) == history.Day(s.now())
	return types.ProfileScore{
		ProfileStrength: u.ProfileStrengthScore,
		RoleReadiness:   u.RoleReadinessScore,
		ResumeScore:     u.ResumeScore,
		SkillGrowth:     u.SkillGrowthScore,
		RecordedToday:   today,
	}, nil
}

// RoleReadiness sets role as the user's target and scores it.
func (s *Service) RoleReadiness(ctx context.Context, userID, role string) (scoring.Readiness, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return scoring.Readiness{}, fmt.Errorf("%w: target role is required", ErrInvalidInput)
	}
	var report scoring.Readiness
	_, err := s.mutateUser(ctx, userID, func(u *model.User) error {
		u.TargetRole = role
		s.recompute(u)
		report = s.engine.RoleReadiness(u, role)
		return nil
	})
	return report, err
}

// ATSScore scores the profile for role and stores the result as the
// user's resume score.
func (s *Service) ATSScore(ctx context.Context, userID, role string) (scoring.ATSReport, error) {
	var report scoring.ATSReport
	_, err := s.mutateUser(ctx, userID, func(u *model.User) error {
		s.recompute(u)
		report = s.engine.ATS(u, role)
		u.ResumeScore = report.Score
		return nil
	})
	if err == nil {
		metrics.RecordScore("ats", report.Score)
	}
	return report, err
}

// GeneratedResume is a résumé assembled from the profile.
type GeneratedResume struct {
	Header         ResumeHeader          `json:"header"`
	Summary        string                `json:"summary"`
	Skills         []string              `json:"skills"`
	Projects       []model.Project       `json:"projects"`
	Internships    []model.Internship    `json:"internships"`
	Certifications []model.Certification `json:"certifications"`
	Education      ResumeEducation       `json:"education"`
	TargetRole     string                `json:"targetRole"`
	ReadinessScore int                   `json:"readinessScore"`
	Markdown       string                `json:"markdown"`
	HTML           string                `json:"html"`
}

// ResumeHeader is the contact block of a generated résumé.
type ResumeHeader struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedIn"`
	Location string `json:"location"`
}

// ResumeEducation is the education block of a generated résumé.
type ResumeEducation struct {
	Course string `json:"course"`
	Batch  string `json:"batch"`
}

const (
	fallbackCourse  = "Computer Science"
	summarySkillCap = 4
)

// GenerateResume builds a résumé for role, falling back to the target role
// and then the catalog default.
func (s *Service) GenerateResume(ctx context.Context, userID, role string) (*GeneratedResume, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = u.TargetRole
	}
	if role == "" {
		role = lexicon.TitleCase(s.catalog.DefaultRole())
	}
	course := u.Course
	if course == "" {
		course = fallbackCourse
	}
	top := u.Skills
	if len(top) > summarySkillCap {
		top = top[:summarySkillCap]
	}

	r := &GeneratedResume{
		Header:         ResumeHeader{Name: u.Name, Email: u.Email, LinkedIn: u.LinkedIn, Location: u.Location},
		Summary:        fmt.Sprintf("Motivated %s student with hands-on experience in %s. Seeking a %s role to leverage technical expertise and project experience.", course, strings.Join(top, ", "), role),
		Skills:         u.Skills,
		Projects:       u.Projects,
		Internships:    u.Internships,
		Certifications: u.Certifications,
		Education:      ResumeEducation{Course: u.Course, Batch: u.Batch},
		TargetRole:     role,
		ReadinessScore: s.engine.RoleReadiness(u, role).Score,
	}
	r.Markdown = renderMarkdown(r)
	r.HTML = renderHTML(r.Markdown)
	return r, nil
}

func renderMarkdown(r *GeneratedResume) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Header.Name)
	contact := make([]string, 0, 3)
	for _, c := range []string{r.Header.Email, r.Header.LinkedIn, r.Header.Location} {
		if c != "" {
			contact = append(contact, c)
		}
	}
	if len(contact) > 0 {
		b.WriteString(strings.Join(contact, " | ") + "\n\n")
	}
	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", r.Summary)
	if len(r.Skills) > 0 {
		fmt.Fprintf(&b, "## Skills\n\n%s\n\n", strings.Join(r.Skills, ", "))
	}
	if len(r.Projects) > 0 {
		b.WriteString("## Projects\n\n")
		for _, p := range r.Projects {
			fmt.Fprintf(&b, "- **%s**", p.Title)
			if p.Description != "" {
				fmt.Fprintf(&b, ": %s", p.Description)
			}
			if len(p.Technologies) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(p.Technologies, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if len(r.Internships) > 0 {
		b.WriteString("## Experience\n\n")
		for _, in := range r.Internships {
			fmt.Fprintf(&b, "- **%s**, %s", in.Role, in.Company)
			if in.Duration != "" {
				fmt.Fprintf(&b, " (%s)", in.Duration)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if len(r.Certifications) > 0 {
		b.WriteString("## Certifications\n\n")
		for _, c := range r.Certifications {
			line := c.Name
			if c.Issuer != "" {
				line += ", " + c.Issuer
			}
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
	if r.Education.Course != "" || r.Education.Batch != "" {
		fmt.Fprintf(&b, "## Education\n\n%s %s\n", r.Education.Course, r.Education.Batch)
	}
	return b.String()
}

// renderHTML drops raw HTML from user-supplied text.
func renderHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return string(markdown.Render(doc, renderer))
}

// TargetRoles lists the roles readiness can be scored against.
func (s *Service) TargetRoles() []string {
	return s.catalog.Roles()
}

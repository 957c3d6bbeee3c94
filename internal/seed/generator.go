package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	app "github.com/okian/alumnet/internal/app"
	"github.com/okian/alumnet/internal/catalog"
	"github.com/okian/alumnet/internal/domain/mentoring"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/referral"
)

const (
	maxSkills         = 10
	maxProjects       = 3
	maxInternships    = 2
	maxCertifications = 2
	emailDomain       = "seed.alumnet.dev"
)

var (
	batches   = []string{"2022", "2023", "2024", "2025", ""}
	courses   = []string{"B.Tech CSE", "B.Tech IT", "MCA", "B.Sc Data Science"}
	companies = []string{"Acme Corp", "Globex", "Initech", "Umbrella Labs", "Hooli", "Stark Industries"}
	issuers   = []string{"AWS", "Google", "Coursera", "Microsoft"}
)

// Student is a planned student account and the profile it will submit.
type Student struct {
	User    app.NewUser
	Profile profilePayload
}

// Alumnus is a planned alumni account with the referral and session it
// posts.
type Alumnus struct {
	User     app.NewUser
	Referral referral.Draft
	Session  mentoring.Draft
}

// Plan is a generated cohort.
type Plan struct {
	Students []Student
	Alumni   []Alumnus
}

// profilePayload mirrors the JSON body of PUT /api/profile/ai.
type profilePayload struct {
	Skills         []string              `json:"skills"`
	Projects       []model.Project       `json:"projects"`
	Internships    []model.Internship    `json:"internships"`
	Certifications []model.Certification `json:"certifications"`
	TargetRole     string                `json:"targetRole,omitempty"`
}

// generatePlan builds a reproducible cohort from cfg.Seed. Emails carry a
// per-run suffix so repeated runs against one server do not collide.
func generatePlan(cfg *Config, cat *catalog.Catalog, now time.Time) Plan {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	run := strings.SplitN(uuid.NewString(), "-", 2)[0]
	skills := cat.Skills()
	roles := cat.Roles()

	p := Plan{
		Students: make([]Student, cfg.Students),
		Alumni:   make([]Alumnus, cfg.Alumni),
	}
	for i := range p.Students {
		p.Students[i] = newStudent(rng, i, run, skills, roles)
	}
	for i := range p.Alumni {
		p.Alumni[i] = newAlumnus(rng, i, run, cat, roles, now)
	}
	return p
}

func newStudent(rng *rand.Rand, i int, run string, skills, roles []string) Student {
	s := Student{
		User: app.NewUser{
			Name:   fmt.Sprintf("Student %d", i+1),
			Email:  fmt.Sprintf("student-%d-%s@%s", i+1, run, emailDomain),
			Role:   model.RoleStudent,
			Course: pick(rng, courses),
			Batch:  pick(rng, batches),
		},
	}
	if rng.IntN(2) == 0 {
		s.User.Bio = "Aspiring engineer building side projects."
		s.User.LinkedIn = fmt.Sprintf("https://linkedin.com/in/student-%d", i+1)
	}

	own := sample(rng, skills, rng.IntN(maxSkills+1))
	s.Profile.Skills = own
	for j := range rng.IntN(maxProjects + 1) {
		s.Profile.Projects = append(s.Profile.Projects, model.Project{
			Title:        fmt.Sprintf("Project %d", j+1),
			Description:  "Built end to end with a small team.",
			Technologies: sample(rng, own, min(3, len(own))),
		})
	}
	for range rng.IntN(maxInternships + 1) {
		s.Profile.Internships = append(s.Profile.Internships, model.Internship{
			Company:  pick(rng, companies),
			Role:     "Software Intern",
			Duration: fmt.Sprintf("%d months", 2+rng.IntN(5)),
		})
	}
	for j := range rng.IntN(maxCertifications + 1) {
		s.Profile.Certifications = append(s.Profile.Certifications, model.Certification{
			Name:   fmt.Sprintf("Certificate %d", j+1),
			Issuer: pick(rng, issuers),
		})
	}
	if rng.IntN(4) != 0 {
		s.Profile.TargetRole = pick(rng, roles)
	}
	return s
}

func newAlumnus(rng *rand.Rand, i int, run string, cat *catalog.Catalog, roles []string, now time.Time) Alumnus {
	role := pick(rng, roles)
	company := pick(rng, companies)
	return Alumnus{
		User: app.NewUser{
			Name:    fmt.Sprintf("Alumnus %d", i+1),
			Email:   fmt.Sprintf("alumnus-%d-%s@%s", i+1, run, emailDomain),
			Role:    model.RoleAlumni,
			Company: company,
			JobRole: role,
			Batch:   pick(rng, batches[:len(batches)-1]),
		},
		Referral: referral.Draft{
			Company:         company,
			Role:            role,
			Description:     "Referral for a junior opening on my team.",
			RequiredSkills:  sample(rng, cat.RoleSkills(role), 3),
			MinProfileScore: 5 * rng.IntN(7),
			MaxApplicants:   5 + rng.IntN(10),
			Deadline:        now.Add(time.Duration(7+rng.IntN(30)) * 24 * time.Hour),
		},
		Session: mentoring.Draft{
			Title:           "Breaking into " + role,
			Description:     "Career talk and open Q&A.",
			Domain:          role,
			Type:            model.SessionGroup,
			DateTime:        now.Add(time.Duration(1+rng.IntN(14)) * 24 * time.Hour).Truncate(time.Hour),
			MaxParticipants: 5 + rng.IntN(20),
			CreditCost:      1 + rng.IntN(3),
		},
	}
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}

// sample returns up to n distinct elements of from.
func sample(rng *rand.Rand, from []string, n int) []string {
	if n > len(from) {
		n = len(from)
	}
	out := make([]string, 0, n)
	for _, idx := range rng.Perm(len(from))[:n] {
		out = append(out, from[idx])
	}
	return out
}

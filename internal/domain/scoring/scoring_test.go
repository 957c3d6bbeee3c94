package scoring_test

import (
	"strings"
	"testing"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func exampleUser() *model.User {
	return &model.User{
		Name:        "Asha",
		Bio:         strings.Repeat("b", 50),
		ProfilePic:  "pic.png",
		Course:      "B.Tech",
		Skills:      []string{"React", "Node.js", "MongoDB"},
		Projects:    []model.Project{{Title: "one"}, {Title: "two"}},
		Internships: []model.Internship{{Company: "Acme"}},
	}
}

func TestRound(t *testing.T) {
	Convey("Given half values", t, func() {
		So(scoring.Round(62.5), ShouldEqual, 63)
		So(scoring.Round(62.4), ShouldEqual, 62)
		So(scoring.Round(2.0/3.0*100*0.6+15+7.5), ShouldEqual, 63)
		So(scoring.Round(-0.5), ShouldEqual, 0)
		So(scoring.Clamp(120, 0, 100), ShouldEqual, 100)
		So(scoring.Clamp(-3, 0, 100), ShouldEqual, 0)
	})
}

func TestProfileStrength(t *testing.T) {
	Convey("Given the example profile", t, func() {
		u := exampleUser()

		Convey("Then the strength is 59", func() {
			So(scoring.ProfileStrength(u), ShouldEqual, 59)
		})

		Convey("Then recomputing yields the same score", func() {
			So(scoring.ProfileStrength(u), ShouldEqual, scoring.ProfileStrength(u))
		})

		Convey("When the bio is exactly 20 characters", func() {
			u.Bio = strings.Repeat("x", 20)

			Convey("Then no bio points are given", func() {
				So(scoring.ProfileStrength(u), ShouldEqual, 49)
			})
		})
	})

	Convey("Given a fully populated profile", t, func() {
		u := exampleUser()
		u.LinkedIn = "https://linkedin.com/in/asha"
		u.TargetRole = "Backend Developer"
		u.Skills = make([]string, 12)
		u.Projects = make([]model.Project, 6)
		u.Internships = make([]model.Internship, 3)
		u.Certifications = make([]model.Certification, 4)

		Convey("Then the score caps at 100", func() {
			So(scoring.ProfileStrength(u), ShouldEqual, 100)
		})
	})
}

func TestRoleReadiness(t *testing.T) {
	Convey("Given an engine and a frontend-leaning user", t, func() {
		e := scoring.NewEngine()
		u := &model.User{
			Skills:   []string{"HTML", "CSS", "JavaScript", "React"},
			Projects: []model.Project{{}, {}},
		}

		Convey("When scored against a known role", func() {
			r := e.RoleReadiness(u, "Frontend Developer")

			Convey("Then matched skills keep catalog order", func() {
				So(r.Recognized, ShouldBeTrue)
				So(r.Matched, ShouldResemble, []string{"html", "css", "javascript", "react"})
				So(len(r.Missing), ShouldEqual, 11)
				So(r.Score, ShouldEqual, 26)
			})
		})

		Convey("When scored against an unknown role", func() {
			r := e.RoleReadiness(u, "Astronaut")

			Convey("Then the default role is used", func() {
				So(r.Recognized, ShouldBeFalse)
				So(r.Score, ShouldEqual, 26)
				So(r.Missing, ShouldContain, "node.js")
			})
		})

		Convey("When the role is empty", func() {
			So(e.RoleReadiness(u, "  ").Score, ShouldEqual, 0)
		})

		Convey("When a required skill is added", func() {
			before := e.RoleReadiness(u, "Frontend Developer").Score
			u.Skills = append(u.Skills, "Redux")

			Convey("Then the score does not drop", func() {
				So(e.RoleReadiness(u, "Frontend Developer").Score, ShouldBeGreaterThanOrEqualTo, before)
			})
		})
	})
}

func TestATS(t *testing.T) {
	Convey("Given an engine", t, func() {
		e := scoring.NewEngine()

		Convey("When a complete devops profile is scored", func() {
			u := &model.User{
				Name:           "Ravi",
				Email:          "ravi@example.com",
				Bio:            strings.Repeat("r", 40),
				Location:       "Pune",
				Course:         "MCA",
				LinkedIn:       "in/ravi",
				Skills:         []string{"Docker", "Kubernetes", "AWS", "Linux", "Git"},
				Projects:       []model.Project{{}, {}},
				Internships:    []model.Internship{{}},
				Certifications: []model.Certification{{}},
			}
			r := e.ATS(u, "DevOps Engineer")

			Convey("Then format and skill scores combine", func() {
				So(r.FormatScore, ShouldEqual, 100)
				So(r.SkillMatchScore, ShouldEqual, 36)
				So(r.Score, ShouldEqual, 61)
				So(len(r.Missing), ShouldEqual, 8)
				So(len(r.SuggestedKeywords), ShouldEqual, 6)
			})

			Convey("Then improvements follow the fixed order", func() {
				So(r.Improvements, ShouldResemble, []string{
					"Add missing skills: azure, gcp, ci/cd",
					"Include ATS keywords: infrastructure as code, pipeline, containerization",
				})
			})
		})

		Convey("When an empty profile is scored without a role", func() {
			r := e.ATS(&model.User{}, "")

			Convey("Then the default role is used and every improvement applies", func() {
				So(r.Role, ShouldEqual, "Full Stack Developer")
				So(r.Score, ShouldEqual, 0)
				So(len(r.Improvements), ShouldEqual, 5)
				So(r.Improvements[1], ShouldEqual, "Write a detailed professional summary")
				So(r.Improvements[3], ShouldEqual, "Add your LinkedIn profile link")
			})
		})
	})
}

func TestReferralMatch(t *testing.T) {
	Convey("Given a user with two of three required skills", t, func() {
		u := &model.User{Skills: []string{"Python", "SQL"}, ProfileStrengthScore: 60}

		Convey("Then the match rounds 62.5 up to 63", func() {
			So(scoring.ReferralMatch(u, []string{"python", "django", "sql"}), ShouldEqual, 63)
		})

		Convey("Then no required skills count as a neutral 50", func() {
			So(scoring.ReferralMatch(u, nil), ShouldEqual, 53)
		})

		Convey("Then a set growth score replaces the neutral value", func() {
			u.SkillGrowthScore = 100
			So(scoring.ReferralMatch(u, []string{"python", "django", "sql"}), ShouldEqual, 70)
		})
	})
}

func TestSessionRelevance(t *testing.T) {
	Convey("Given a React user aiming at frontend", t, func() {
		u := &model.User{Skills: []string{"React", "CSS"}, TargetRole: "Frontend Developer"}

		Convey("Then a React Development session scores 50", func() {
			So(scoring.SessionRelevance(u, "React Development"), ShouldEqual, 50)
		})

		Convey("Then an empty domain scores 0", func() {
			So(scoring.SessionRelevance(u, ""), ShouldEqual, 0)
		})

		Convey("Then a role-matching domain adds the role bonus", func() {
			So(scoring.SessionRelevance(u, "frontend"), ShouldEqual, 30)
		})
	})
}

func TestComposite(t *testing.T) {
	Convey("Given persisted scores", t, func() {
		s := scoring.Scores{ProfileStrength: 80, RoleReadiness: 60, Resume: 70, Growth: 50}
		So(scoring.Composite(s), ShouldEqual, 67)
		So(scoring.Composite(scoring.Scores{}), ShouldEqual, 0)
	})
}

package resume_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/okian/alumnet/internal/domain/lexicon"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/resume"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleResume = `Jane Doe
Skills: React, Node.js, MongoDB
Projects:
- Chat Application. Realtime chat built with React and Node.js
- Portfolio Website
Experience
Frontend Intern at Acme Corp - 6 months
  built dashboards with React
Data Intern | Beta Labs | Jan 2022 to Mar 2022
Certifications
AWS Certified Cloud Practitioner | Amazon 2023
Google Data Analytics from Coursera 2022
Education
B.Tech 2024
`

func newExtractor() *resume.Extractor {
	return resume.NewExtractor(lexicon.NewMatcher([]string{"react", "node.js", "mongodb", "aws", "html"}))
}

func TestExtractor_Extract(t *testing.T) {
	Convey("Given an extractor", t, func() {
		ex := newExtractor()

		Convey("When the text is shorter than the readable minimum", func() {
			_, err := ex.Extract("   too short   ")

			Convey("Then it fails with ErrUnreadableDocument", func() {
				So(err, ShouldEqual, resume.ErrUnreadableDocument)
			})
		})

		Convey("When a full résumé is parsed", func() {
			got, err := ex.Extract(sampleResume)
			So(err, ShouldBeNil)

			Convey("Then skills come from the whole text", func() {
				So(got.Skills, ShouldResemble, []string{"React", "Node.js", "Mongodb", "Aws"})
			})

			Convey("Then projects are split on bullets", func() {
				So(len(got.Projects), ShouldEqual, 2)
				So(got.Projects[0].Title, ShouldEqual, "Chat Application")
				So(got.Projects[0].Description, ShouldEqual, "Realtime chat built with React and Node.js")
				So(got.Projects[0].Technologies, ShouldResemble, []string{"React", "Node.js"})
				So(got.Projects[1].Title, ShouldEqual, "Portfolio Website")
				So(got.Projects[1].Description, ShouldEqual, "Project involving various technologies")
				So(got.Projects[1].Technologies, ShouldBeEmpty)
			})

			Convey("Then experience items carry company, role and duration", func() {
				So(len(got.Internships), ShouldEqual, 2)
				So(got.Internships[0].Company, ShouldEqual, "Acme Corp")
				So(got.Internships[0].Role, ShouldEqual, "Frontend Intern")
				So(got.Internships[0].Duration, ShouldEqual, "6 months")
				So(got.Internships[0].Description, ShouldContainSubstring, "built dashboards")

				So(got.Internships[1].Company, ShouldEqual, "Company")
				So(got.Internships[1].Role, ShouldEqual, "Data Intern")
				So(got.Internships[1].Duration, ShouldEqual, "Jan 2022 to Mar 2022")
			})

			Convey("Then certifications carry name, issuer and year", func() {
				So(len(got.Certifications), ShouldEqual, 2)
				So(got.Certifications[0], ShouldResemble, model.Certification{
					Name: "AWS Certified Cloud Practitioner", Issuer: "Amazon", Date: "2023",
				})
				So(got.Certifications[1].Issuer, ShouldEqual, "Coursera")
				So(got.Certifications[1].Date, ShouldEqual, "2022")
			})
		})

		Convey("When no skill is recognised", func() {
			got, err := ex.Extract("Lorem ipsum dolor sit amet, consectetur adipiscing elit")
			So(err, ShouldBeNil)

			Convey("Then the fallback skill set is returned", func() {
				So(got.Skills, ShouldResemble, []string{"JavaScript", "HTML", "CSS"})
				So(got.Projects, ShouldBeEmpty)
				So(got.Internships, ShouldBeEmpty)
				So(got.Certifications, ShouldBeEmpty)
			})
		})

		Convey("When a section has more items than its cap", func() {
			var b strings.Builder
			b.WriteString("Projects\n")
			for i := 1; i <= 7; i++ {
				fmt.Fprintf(&b, "- Tool %d for teams\n", i)
			}
			got, err := ex.Extract(b.String())
			So(err, ShouldBeNil)

			Convey("Then the earliest items are kept", func() {
				So(len(got.Projects), ShouldEqual, resume.MaxProjects)
				So(got.Projects[0].Title, ShouldEqual, "Tool 1 for teams")
				So(got.Projects[4].Title, ShouldEqual, "Tool 5 for teams")
			})
		})

		Convey("When a heading carries inline content and repeats later", func() {
			text := "Projects: Weather App built in React\nSkills\nhtml\nProjects\n- Ignored Project Entry\n"
			got, err := ex.Extract(text)
			So(err, ShouldBeNil)

			Convey("Then only the first section is captured", func() {
				So(len(got.Projects), ShouldEqual, 1)
				So(got.Projects[0].Title, ShouldEqual, "Weather App built in React")
				So(got.Projects[0].Description, ShouldEqual, "Project involving React")
			})
		})

		Convey("When item lines repeat their section keyword", func() {
			text := "Jane Doe\nProjects\nProject: Chat App built with React and sockets\nProject: Weather Dashboard in Python\n" +
				"Experience\nInternship - Backend Intern at Acme Corp, 3 months\nInternship - Data Intern at Beta Labs, 2 months\n"
			got, err := ex.Extract(text)
			So(err, ShouldBeNil)

			Convey("Then each keyword line is captured as an item", func() {
				So(len(got.Projects), ShouldEqual, 2)
				So(got.Projects[0].Title, ShouldEqual, "Chat App built with React and sockets")
				So(got.Projects[0].Technologies, ShouldResemble, []string{"React"})
				So(got.Projects[1].Title, ShouldEqual, "Weather Dashboard in Python")

				So(len(got.Internships), ShouldEqual, 2)
				So(got.Internships[0].Role, ShouldEqual, "Backend Intern")
				So(got.Internships[0].Company, ShouldEqual, "Acme Corp")
				So(got.Internships[0].Duration, ShouldEqual, "3 months")
				So(got.Internships[1].Company, ShouldEqual, "Beta Labs")
			})
		})

		Convey("When a captured heading is empty and repeats later", func() {
			text := "Summary of a student\nProjects\n\nSkills\nhtml\nProjects\n- Portfolio Website\n"
			got, err := ex.Extract(text)
			So(err, ShouldBeNil)

			Convey("Then the later non-empty section is used", func() {
				So(len(got.Projects), ShouldEqual, 1)
				So(got.Projects[0].Title, ShouldEqual, "Portfolio Website")
			})
		})

		Convey("When numbered markers are used", func() {
			text := "Certifications -\n1. Scrum Master – Scrum Alliance 2021\n2. Kubernetes Admin by CNCF 2024\n"
			got, err := ex.Extract(text)
			So(err, ShouldBeNil)

			Convey("Then each number opens an item", func() {
				So(len(got.Certifications), ShouldEqual, 2)
				So(got.Certifications[0].Name, ShouldEqual, "Scrum Master")
				So(got.Certifications[0].Issuer, ShouldEqual, "Scrum Alliance")
				So(got.Certifications[1].Issuer, ShouldEqual, "CNCF")
				So(got.Certifications[1].Date, ShouldEqual, "2024")
			})
		})
	})
}

func TestMerge(t *testing.T) {
	Convey("Given a user with existing sections", t, func() {
		u := &model.User{
			Skills:      []string{"react", "Go"},
			Projects:    []model.Project{{Title: "Old"}},
			Internships: []model.Internship{{Company: "Acme"}},
		}

		Convey("When an extraction without list sections is merged", func() {
			resume.Merge(u, resume.Extraction{Skills: []string{"React", "Docker"}})

			Convey("Then skills are unioned and sections are untouched", func() {
				So(u.Skills, ShouldResemble, []string{"react", "Go", "Docker"})
				So(u.Projects, ShouldResemble, []model.Project{{Title: "Old"}})
				So(u.Internships, ShouldResemble, []model.Internship{{Company: "Acme"}})
			})
		})

		Convey("When an extraction with projects is merged", func() {
			resume.Merge(u, resume.Extraction{Projects: []model.Project{{Title: "New"}}})

			Convey("Then projects are replaced", func() {
				So(u.Projects, ShouldResemble, []model.Project{{Title: "New"}})
				So(u.Skills, ShouldResemble, []string{"react", "Go"})
			})
		})
	})
}

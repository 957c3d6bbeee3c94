package lexicon_test

import (
	"testing"

	"github.com/okian/alumnet/internal/domain/lexicon"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatcher_Match(t *testing.T) {
	Convey("Given a matcher over a small lexicon", t, func() {
		m := lexicon.NewMatcher([]string{"javascript", "java", "react", "react native", "node.js", "c++", "go", "machine learning", "ci/cd", "JAVA"})

		Convey("When the text mentions skills in mixed case", func() {
			got := m.Match("Built apps with JAVASCRIPT, React and Node.js.")

			Convey("Then matches are title-cased in catalog order", func() {
				So(got, ShouldResemble, []string{"Javascript", "React", "Node.js"})
			})
		})

		Convey("When a token only occurs inside a longer word", func() {
			got := m.Match("I love javascript and google")

			Convey("Then it is not matched", func() {
				So(got, ShouldNotContain, "Java")
				So(got, ShouldNotContain, "Go")
			})
		})

		Convey("When a token appears several times", func() {
			got := m.Match("react react REACT")

			Convey("Then it is reported once", func() {
				So(got, ShouldResemble, []string{"React"})
			})
		})

		Convey("When tokens carry punctuation", func() {
			got := m.Match("Languages: C++, Go; pipelines with CI/CD")

			Convey("Then whole-token boundaries still apply", func() {
				So(got, ShouldResemble, []string{"C++", "Go", "Ci/cd"})
			})
		})

		Convey("When a phrase contains another token", func() {
			got := m.Match("Shipped a React Native app")

			Convey("Then both the phrase and the inner token are reported", func() {
				So(got, ShouldResemble, []string{"React", "React Native"})
			})
		})

		Convey("When a multi-word token is present", func() {
			So(m.Match("Studied Machine Learning at school"), ShouldResemble, []string{"Machine Learning"})
		})

		Convey("When nothing matches", func() {
			So(m.Match("gardening and cooking"), ShouldBeEmpty)
		})
	})
}

func TestTitleCase(t *testing.T) {
	Convey("Given catalog tokens", t, func() {
		So(lexicon.TitleCase("javascript"), ShouldEqual, "Javascript")
		So(lexicon.TitleCase("machine learning"), ShouldEqual, "Machine Learning")
		So(lexicon.TitleCase("ui/ux"), ShouldEqual, "Ui/ux")
		So(lexicon.TitleCase(".net"), ShouldEqual, ".net")
		So(lexicon.TitleCase(""), ShouldEqual, "")
	})
}

func TestContainsEither(t *testing.T) {
	Convey("Given the containment rule", t, func() {
		So(lexicon.ContainsEither("React.js", "react"), ShouldBeTrue)
		So(lexicon.ContainsEither("sql", "PostgreSQL"), ShouldBeTrue)
		So(lexicon.ContainsEither("css", "html"), ShouldBeFalse)
		So(lexicon.ContainsEither("", "html"), ShouldBeFalse)
		So(lexicon.AnyContains([]string{"Python", "SQL"}, "django"), ShouldBeFalse)
		So(lexicon.AnyContains([]string{"Python", "SQL"}, "sql"), ShouldBeTrue)
	})
}

func TestUnionFold(t *testing.T) {
	Convey("Given existing and extracted skills", t, func() {
		got := lexicon.UnionFold([]string{"react", "Go"}, []string{"React", "Docker", "go", "Docker"})

		Convey("Then existing casing wins and new skills are appended once", func() {
			So(got, ShouldResemble, []string{"react", "Go", "Docker"})
		})
	})
}

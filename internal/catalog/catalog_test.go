package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/alumnet/internal/catalog"
	"github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	convey.Convey("Given the embedded catalog", t, func() {
		c := catalog.Default()

		convey.Convey("Then roles resolve case-insensitively", func() {
			r, ok := c.Lookup("  Frontend Developer ")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(r.Name, convey.ShouldEqual, "frontend developer")
			convey.So(r.Skills, convey.ShouldContain, "react")
		})

		convey.Convey("Then unknown roles fall back to the default role", func() {
			r, ok := c.Lookup("astronaut")
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(r.Name, convey.ShouldEqual, c.DefaultRole())
			convey.So(c.RoleSkills(""), convey.ShouldResemble, r.Skills)
		})

		convey.Convey("Then roles without ATS keywords use the default list", func() {
			convey.So(c.ATSKeywords("cloud engineer"), convey.ShouldResemble, c.ATSKeywords("full stack developer"))
			convey.So(c.ATSKeywords("devops engineer"), convey.ShouldContain, "orchestration")
		})

		convey.Convey("Then display names are title-cased", func() {
			roles := c.Roles()
			convey.So(len(roles), convey.ShouldEqual, 10)
			convey.So(roles, convey.ShouldContain, "Full Stack Developer")
		})

		convey.Convey("Then the skill lexicon is lower-case", func() {
			convey.So(c.Skills(), convey.ShouldContain, "node.js")
			convey.So(c.Skills(), convey.ShouldNotContain, "Node.js")
		})
	})
}

func TestLoad(t *testing.T) {
	convey.Convey("Given an override file", t, func() {
		dir := t.TempDir()
		write := func(body string) string {
			p := filepath.Join(dir, "catalog.yaml")
			convey.So(os.WriteFile(p, []byte(body), 0o600), convey.ShouldBeNil)
			return p
		}

		convey.Convey("When it replaces the skill list", func() {
			c, err := catalog.Load(context.Background(), write("skills: [Go, Rust, go]\n"))

			convey.Convey("Then the list is normalized and roles are kept", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(c.Skills(), convey.ShouldResemble, []string{"go", "rust"})
				_, ok := c.Lookup("data scientist")
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When it names a default role that does not exist", func() {
			_, err := catalog.Load(context.Background(), write("default_role: astronaut\n"))

			convey.Convey("Then the catalog is rejected", func() {
				convey.So(errors.Is(err, catalog.ErrInvalidCatalog), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file is missing", func() {
			_, err := catalog.Load(context.Background(), filepath.Join(dir, "nope.yaml"))

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, catalog.ErrLoadCatalog), convey.ShouldBeTrue)
			})
		})
	})
}

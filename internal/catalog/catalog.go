// Package catalog holds the fixed skill, role and ATS keyword catalogs used by
// the scoring engine. Catalogs are configuration data: an embedded YAML
// document is loaded once at process start and may be overridden by a file.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/alumnet/internal/domain/lexicon"
)

//go:embed catalog.yaml
var embedded []byte

// Role is a target career role with its required skills and ATS keywords.
type Role struct {
	Name        string   `koanf:"name"`
	Skills      []string `koanf:"skills"`
	ATSKeywords []string `koanf:"ats_keywords"`
}

type document struct {
	DefaultRole string   `koanf:"default_role"`
	Skills      []string `koanf:"skills"`
	Roles       []Role   `koanf:"roles"`
}

// Catalog is an immutable, normalized view of the catalogs.
type Catalog struct {
	defaultRole string
	skills      []string
	roles       []Role
	byName      map[string]int
}

// bytesProvider feeds raw bytes to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]interface{}, error) {
	return nil, ErrUnsupportedRead
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog built from the embedded document. It panics if
// the embedded document is malformed, which is a build-time defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(context.Background(), "")
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded document invalid: %v", defaultErr))
	}
	return defaultCat
}

// Load builds a catalog from the embedded document with an optional YAML
// override file layered on top. Lists in the override replace embedded lists.
func Load(_ context.Context, path string) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(bytesProvider(embedded), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: embedded: %v", ErrLoadCatalog, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadCatalog, path, err)
		}
	}

	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadCatalog, err)
	}
	return build(doc)
}

func build(doc document) (*Catalog, error) {
	c := &Catalog{
		defaultRole: normalize(doc.DefaultRole),
		skills:      dedupe(doc.Skills),
		byName:      make(map[string]int, len(doc.Roles)),
	}
	if len(c.skills) == 0 {
		return nil, fmt.Errorf("%w: empty skill lexicon", ErrInvalidCatalog)
	}
	for _, r := range doc.Roles {
		name := normalize(r.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: role without name", ErrInvalidCatalog)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate role %q", ErrInvalidCatalog, name)
		}
		if len(r.Skills) == 0 {
			return nil, fmt.Errorf("%w: role %q has no skills", ErrInvalidCatalog, name)
		}
		c.byName[name] = len(c.roles)
		c.roles = append(c.roles, Role{
			Name:        name,
			Skills:      dedupe(r.Skills),
			ATSKeywords: dedupe(r.ATSKeywords),
		})
	}
	if _, ok := c.byName[c.defaultRole]; !ok {
		return nil, fmt.Errorf("%w: default role %q not in catalog", ErrInvalidCatalog, doc.DefaultRole)
	}
	return c, nil
}

// Skills returns the skill lexicon in catalog order.
func (c *Catalog) Skills() []string {
	return append([]string(nil), c.skills...)
}

// DefaultRole returns the lower-case name of the fallback role.
func (c *Catalog) DefaultRole() string { return c.defaultRole }

// Lookup resolves a role name case-insensitively. Unknown or empty names
// resolve to the default role with recognized=false.
func (c *Catalog) Lookup(role string) (r Role, recognized bool) {
	if i, ok := c.byName[normalize(role)]; ok {
		return c.roles[i], true
	}
	return c.roles[c.byName[c.defaultRole]], false
}

// RoleSkills returns the required skills for role, falling back to the
// default role when role is unrecognized.
func (c *Catalog) RoleSkills(role string) []string {
	r, _ := c.Lookup(role)
	return r.Skills
}

// ATSKeywords returns the ATS keyword list for role. Roles without their own
// list use the default role's list.
func (c *Catalog) ATSKeywords(role string) []string {
	r, _ := c.Lookup(role)
	if len(r.ATSKeywords) > 0 {
		return r.ATSKeywords
	}
	def := c.roles[c.byName[c.defaultRole]]
	return def.ATSKeywords
}

// Roles returns display names of all roles in catalog order.
func (c *Catalog) Roles() []string {
	out := make([]string, 0, len(c.roles))
	for _, r := range c.roles {
		out = append(out, lexicon.TitleCase(r.Name))
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		n := normalize(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

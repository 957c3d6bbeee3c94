// Package lexicon matches a fixed vocabulary of skill tokens against free text.
package lexicon

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackSkills is reported when a document yields no catalog skill at all.
var FallbackSkills = []string{"JavaScript", "HTML", "CSS"}

// Matcher finds catalog tokens in text. It is safe for concurrent use.
type Matcher struct {
	tokens []string
}

// NewMatcher builds a matcher over tokens. Tokens are lower-cased and
// de-duplicated; catalog order is kept for output.
func NewMatcher(tokens []string) *Matcher {
	seen := make(map[string]struct{}, len(tokens))
	m := &Matcher{tokens: make([]string, 0, len(tokens))}
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		m.tokens = append(m.tokens, t)
	}
	return m
}

// Match returns the catalog tokens present in text as whole words or phrases,
// title-cased, in catalog order. Each token is reported at most once.
func (m *Matcher) Match(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, t := range m.tokens {
		if containsWord(lower, t) {
			out = append(out, TitleCase(t))
		}
	}
	return out
}

// containsWord scans every occurrence of token in text and accepts the first
// one not glued to a letter or digit on either side.
func containsWord(text, token string) bool {
	if token == "" {
		return false
	}
	for from := 0; from <= len(text)-len(token); {
		i := strings.Index(text[from:], token)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(token)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// TitleCase upper-cases the first rune of every space-separated word and
// leaves the rest untouched: "machine learning" -> "Machine Learning",
// "ci/cd" -> "Ci/cd".
func TitleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// ContainsEither is the containment rule shared by every scorer: a and b
// match when either contains the other, case-insensitively. Empty strings
// never match.
func ContainsEither(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// AnyContains reports whether any of candidates matches target under
// ContainsEither.
func AnyContains(candidates []string, target string) bool {
	for _, c := range candidates {
		if ContainsEither(c, target) {
			return true
		}
	}
	return false
}

// UnionFold appends to base every item of extra not already present
// case-insensitively. Existing entries keep their casing and order.
func UnionFold(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, s := range base {
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	for _, s := range extra {
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

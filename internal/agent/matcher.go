package agent

import (
	"regexp"
	"strings"
)

// Matcher is a compiled identification or classification pattern. Patterns
// are tried as case-insensitive regular expressions first; anything that
// fails to compile degrades to a literal substring match instead of
// aborting the pass that uses it.
type Matcher struct {
	re      *regexp.Regexp
	literal string
}

// Compile builds a Matcher from a pattern fragment.
func Compile(pattern string) Matcher {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Matcher{literal: strings.ToLower(pattern)}
	}
	return Matcher{re: re}
}

// CompileAll compiles a slice of pattern fragments.
func CompileAll(patterns []string) []Matcher {
	out := make([]Matcher, len(patterns))
	for i, p := range patterns {
		out[i] = Compile(p)
	}
	return out
}

// Match reports whether the pattern occurs anywhere in s.
func (m Matcher) Match(s string) bool {
	if s == "" {
		return false
	}
	if m.re != nil {
		return m.re.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), m.literal)
}

// MatchAny reports whether any matcher hits s.
func MatchAny(s string, matchers []Matcher) bool {
	for _, m := range matchers {
		if m.Match(s) {
			return true
		}
	}
	return false
}

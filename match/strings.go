package match

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Regex matches strings entirely matched by pattern. It panics if pattern
// does not compile.
func Regex(e Engine, pattern string) string {
	return push[string](e, &stringMatcher{
		name:    "regex",
		operand: pattern,
		test:    regexp.MustCompile(`^(?:` + pattern + `)$`).MatchString,
	})
}

// StartsWith matches strings with the given prefix.
func StartsWith(e Engine, prefix string) string {
	return push[string](e, &stringMatcher{
		name:    "startsWith",
		operand: prefix,
		test:    func(s string) bool { return strings.HasPrefix(s, prefix) },
	})
}

// EndsWith matches strings with the given suffix.
func EndsWith(e Engine, suffix string) string {
	return push[string](e, &stringMatcher{
		name:    "endsWith",
		operand: suffix,
		test:    func(s string) bool { return strings.HasSuffix(s, suffix) },
	})
}

type stringMatcher struct {
	name    string
	operand string
	test    func(string) bool
}

func (m *stringMatcher) Equal(other Matcher) bool {
	o, ok := other.(*stringMatcher)

	return ok && o.name == m.name && o.operand == m.operand
}

func (m *stringMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a string matching %s, got %v", m.String(), actual)
}

func (m *stringMatcher) Match(actual any) (bool, error) {
	s, ok := actual.(string)

	return ok && m.test(s), nil
}

func (m *stringMatcher) MatchedType() reflect.Type { return reflect.TypeFor[string]() }

func (m *stringMatcher) String() string {
	return fmt.Sprintf("%s(%q)", m.name, m.operand)
}

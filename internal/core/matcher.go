package core

import (
	"fmt"
	"reflect"
	"strings"
)

// Matcher is an argument predicate. The shape matches gomega's matchers so
// either kind can be plugged into a stub or verification.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// TypedMatcher is a matcher that only accepts values of one type. The type is
// checked against the parameter it binds to when a pattern is resolved.
type TypedMatcher interface {
	Matcher
	MatchedType() reflect.Type
}

// StackMatcher is a matcher that consumes other matchers from the stack when
// it is registered, such as And, Or and Not.
type StackMatcher interface {
	Matcher
	AddToStack(stack *MatcherStack) error
}

// EquatableMatcher compares matchers for stub rule replacement.
type EquatableMatcher interface {
	Matcher
	Equal(other Matcher) bool
}

// Capturer is a matcher that records the values it accepted. Capture is only
// called once the whole argument pattern has matched.
type Capturer interface {
	Matcher
	Capture(actual any)
}

// ArgKind tags a PatternArg.
type ArgKind int

const (
	// ArgImplicitEquals matches by deep equality with a literal argument.
	ArgImplicitEquals ArgKind = iota
	// ArgExplicit matches with a matcher pushed inside the DSL closure.
	ArgExplicit
)

// PatternArg is the condition for one parameter position.
type PatternArg struct {
	Kind    ArgKind
	Matcher Matcher
	Value   any
}

// Explicit wraps m as a pattern position.
func Explicit(m Matcher) PatternArg { return PatternArg{Kind: ArgExplicit, Matcher: m} }

// Equals matches positions deeply equal to v.
func Equals(v any) PatternArg { return PatternArg{Kind: ArgImplicitEquals, Value: v} }

// Matches reports whether actual satisfies the position. Matcher errors count
// as a mismatch.
func (a PatternArg) Matches(actual any) bool {
	if a.Kind == ArgImplicitEquals {
		return reflect.DeepEqual(a.Value, actual)
	}

	ok, err := a.Matcher.Match(actual)

	return err == nil && ok
}

// Equal reports semantic equality of two positions.
func (a PatternArg) Equal(other PatternArg) bool {
	if a.Kind != other.Kind {
		return false
	}

	if a.Kind == ArgImplicitEquals {
		return reflect.DeepEqual(a.Value, other.Value)
	}

	if eq, ok := a.Matcher.(EquatableMatcher); ok {
		return eq.Equal(other.Matcher)
	}

	return reflect.DeepEqual(a.Matcher, other.Matcher)
}

func (a PatternArg) String() string {
	if a.Kind == ArgImplicitEquals {
		return Inspect(a.Value)
	}

	return DescribeMatcher(a.Matcher)
}

// ArgumentPattern holds one PatternArg per formal parameter.
type ArgumentPattern []PatternArg

// Matches reports whether every position accepts the matching argument.
// It does not commit captures.
func (p ArgumentPattern) Matches(args []any) bool {
	if len(p) != len(args) {
		return false
	}

	for i, arg := range p {
		if !arg.Matches(args[i]) {
			return false
		}
	}

	return true
}

// Equal reports whether two patterns select exactly the same calls.
func (p ArgumentPattern) Equal(other ArgumentPattern) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}

	return true
}

func (p ArgumentPattern) String() string {
	parts := make([]string, len(p))
	for i, arg := range p {
		parts[i] = arg.String()
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// commit hands matched arguments to every captor in the pattern.
func (p ArgumentPattern) commit(args []any) {
	for i, arg := range p {
		if arg.Kind != ArgExplicit {
			continue
		}

		if c, ok := arg.Matcher.(Capturer); ok {
			c.Capture(args[i])
		}
	}
}

// DescribeMatcher renders m for messages.
func DescribeMatcher(m Matcher) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("<%T>", m)
}

// Inspect renders an argument value the way failure messages show it:
// strings are quoted, nil is "nil".
func Inspect(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", val)
	case Matcher:
		return DescribeMatcher(val)
	case error:
		return fmt.Sprintf("error(%q)", val.Error())
	default:
		return fmt.Sprintf("%v", val)
	}
}

func inspectArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Inspect(a)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

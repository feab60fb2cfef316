// Package match provides the argument matchers used inside moxy's When and
// AssertMock closures. Every matcher function registers its matcher with the
// engine and returns a zero placeholder of the parameter's type, so the call
// still compiles:
//
//	e.When(func() { store.Put(match.Any[string](e), match.Gt(e, 0)) }).ThenReturn(nil)
//
// When matchers are used for a call, every argument needs one; use Eq for
// plain values.
package match

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/roscopeco/moxy-sub002/internal/core"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Engine is where matchers are registered; *moxy.Engine implements it.
type Engine interface {
	PushMatcher(m core.Matcher)
}

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher = core.Matcher

// Any matches every value of the parameter.
func Any[T any](e Engine) T {
	return push[T](e, anyMatcher[T]{})
}

// Eq matches values deeply equal to want.
func Eq[T any](e Engine, want T) T {
	return push[T](e, &eqMatcher[T]{want: want})
}

// Neq matches values not deeply equal to want.
func Neq[T any](e Engine, want T) T {
	return push[T](e, &eqMatcher[T]{want: want, negate: true})
}

// Custom matches values of type T for which predicate returns true.
func Custom[T any](e Engine, predicate func(T) bool) T {
	return push[T](e, &satisfyMatcher[T]{
		name: "custom",
		predicate: func(v T) error {
			if predicate(v) {
				return nil
			}

			return errPredicateFalse
		},
	})
}

// Satisfy matches values for which predicate returns nil. The predicate should
// return an error describing the mismatch if it does not match.
//
// Example:
//
//	e.AssertMock(func() {
//	    calc.Add(match.Satisfy(e, func(x int) error {
//	        if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	        return nil
//	    }), match.Any[int](e))
//	}).WasCalled()
func Satisfy[T any](e Engine, predicate func(T) error) T {
	return push[T](e, &satisfyMatcher[T]{name: "satisfy", predicate: predicate})
}

// Register pushes a hand-written matcher bound to a parameter of type T.
func Register[T any](e Engine, m Matcher) T {
	return push[T](e, m)
}

// unexported variables.
var (
	errPredicateFalse = errors.New("predicate returned false")
)

// anyMatcher is the implementation of the Any matcher.
type anyMatcher[T any] struct{}

// FailureMessage returns an empty string since Any always matches.
func (anyMatcher[T]) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher[T]) Match(any) (bool, error) {
	return true, nil
}

func (anyMatcher[T]) MatchedType() reflect.Type { return reflect.TypeFor[T]() }

func (anyMatcher[T]) String() string { return "any " + reflect.TypeFor[T]().String() }

type eqMatcher[T any] struct {
	want   T
	negate bool
}

func (m *eqMatcher[T]) Equal(other Matcher) bool {
	o, ok := other.(*eqMatcher[T])

	return ok && o.negate == m.negate && reflect.DeepEqual(o.want, m.want)
}

func (m *eqMatcher[T]) FailureMessage(actual any) string {
	if m.negate {
		return fmt.Sprintf("expected anything but %s, got it", core.Inspect(m.want))
	}

	return fmt.Sprintf("expected %s, got %s", core.Inspect(m.want), core.Inspect(actual))
}

func (m *eqMatcher[T]) Match(actual any) (bool, error) {
	return reflect.DeepEqual(any(m.want), actual) != m.negate, nil
}

func (m *eqMatcher[T]) MatchedType() reflect.Type { return reflect.TypeFor[T]() }

func (m *eqMatcher[T]) String() string {
	if m.negate {
		return "neq(" + core.Inspect(m.want) + ")"
	}

	return "eq(" + core.Inspect(m.want) + ")"
}

type satisfyMatcher[T any] struct {
	name      string
	predicate func(T) error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if val, ok := asType[T](actual); ok {
		if err := m.predicate(val); err != nil {
			return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, err)
		}
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := asType[T](actual)
	if !ok {
		return false, fmt.Errorf("%w: expected %s, got %T", errTypeMismatch, reflect.TypeFor[T](), actual)
	}

	return m.predicate(val) == nil, nil
}

func (m *satisfyMatcher[T]) MatchedType() reflect.Type { return reflect.TypeFor[T]() }

func (m *satisfyMatcher[T]) String() string {
	return m.name + "(" + reflect.TypeFor[T]().String() + ")"
}

func push[T any](e Engine, m Matcher) T {
	e.PushMatcher(m)

	var zero T

	return zero
}

// asType converts actual to T, treating nil as T's zero value when T can be nil.
func asType[T any](actual any) (T, bool) {
	if actual == nil {
		var zero T

		typ := reflect.TypeFor[T]()
		switch typ.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return zero, true
		default:
			return zero, false
		}
	}

	val, ok := actual.(T)

	return val, ok
}

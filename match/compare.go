package match

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"

	"github.com/roscopeco/moxy-sub002/internal/core"
)

// Lt matches ordered values less than bound.
func Lt[T cmp.Ordered](e Engine, bound T) T {
	return push[T](e, &orderMatcher[T]{bound: bound, less: true})
}

// Gt matches ordered values greater than bound.
func Gt[T cmp.Ordered](e Engine, bound T) T {
	return push[T](e, &orderMatcher[T]{bound: bound})
}

// AnyOf matches values deeply equal to one of candidates.
func AnyOf[T any](e Engine, candidates ...T) T {
	return push[T](e, &anyOfMatcher[T]{candidates: candidates})
}

// InstanceOf matches values whose dynamic type is assignable to T, typically
// to narrow an interface parameter:
//
//	sink.Write(match.InstanceOf[*os.PathError](e))
func InstanceOf[T any](e Engine) T {
	return push[T](e, instanceOfMatcher[T]{})
}

type orderMatcher[T cmp.Ordered] struct {
	bound T
	less  bool
}

func (m *orderMatcher[T]) Equal(other Matcher) bool {
	o, ok := other.(*orderMatcher[T])

	return ok && o.less == m.less && o.bound == m.bound
}

func (m *orderMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value %s, got %s", m.String(), core.Inspect(actual))
}

func (m *orderMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)
	if !ok {
		return false, nil
	}

	if m.less {
		return cmp.Less(val, m.bound), nil
	}

	return cmp.Less(m.bound, val), nil
}

func (m *orderMatcher[T]) MatchedType() reflect.Type { return reflect.TypeFor[T]() }

func (m *orderMatcher[T]) String() string {
	if m.less {
		return "lt(" + core.Inspect(m.bound) + ")"
	}

	return "gt(" + core.Inspect(m.bound) + ")"
}

type anyOfMatcher[T any] struct {
	candidates []T
}

func (m *anyOfMatcher[T]) Equal(other Matcher) bool {
	o, ok := other.(*anyOfMatcher[T])

	return ok && reflect.DeepEqual(o.candidates, m.candidates)
}

func (m *anyOfMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %s, got %s", m.String(), core.Inspect(actual))
}

func (m *anyOfMatcher[T]) Match(actual any) (bool, error) {
	for _, c := range m.candidates {
		if reflect.DeepEqual(any(c), actual) {
			return true, nil
		}
	}

	return false, nil
}

func (m *anyOfMatcher[T]) MatchedType() reflect.Type { return reflect.TypeFor[T]() }

func (m *anyOfMatcher[T]) String() string {
	parts := make([]string, len(m.candidates))
	for i, c := range m.candidates {
		parts[i] = core.Inspect(c)
	}

	return "anyOf(" + strings.Join(parts, ", ") + ")"
}

type instanceOfMatcher[T any] struct{}

func (instanceOfMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected an instance of %s, got %T", reflect.TypeFor[T](), actual)
}

func (instanceOfMatcher[T]) Match(actual any) (bool, error) {
	_, ok := actual.(T)

	return ok, nil
}

func (instanceOfMatcher[T]) MatchedType() reflect.Type { return reflect.TypeFor[T]() }

func (instanceOfMatcher[T]) String() string {
	return "instanceOf(" + reflect.TypeFor[T]().String() + ")"
}

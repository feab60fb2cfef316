package match

import (
	"fmt"
	"reflect"

	"github.com/onsi/gomega/types"
)

// That adapts a gomega matcher for a parameter of type T:
//
//	calc.Add(match.That[int](e, BeNumerically(">", 0)), match.Any[int](e))
func That[T any](e Engine, matcher types.GomegaMatcher) T {
	return push[T](e, &gomegaMatcher[T]{inner: matcher})
}

type gomegaMatcher[T any] struct {
	inner types.GomegaMatcher
}

func (m *gomegaMatcher[T]) FailureMessage(actual any) string {
	return m.inner.FailureMessage(actual)
}

func (m *gomegaMatcher[T]) Match(actual any) (bool, error) {
	return m.inner.Match(actual)
}

func (m *gomegaMatcher[T]) MatchedType() reflect.Type { return reflect.TypeFor[T]() }

func (m *gomegaMatcher[T]) String() string {
	return fmt.Sprintf("that(%T)", m.inner)
}

package match

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Captor collects the arguments accepted at one position of a stub or
// verification pattern.
type Captor[T any] struct {
	mu     sync.Mutex
	values []T
}

// NewCaptor creates an empty captor.
func NewCaptor[T any]() *Captor[T] {
	return &Captor[T]{}
}

// Values returns every captured value, oldest first.
func (c *Captor[T]) Values() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.values)
}

// Last returns the most recent captured value.
func (c *Captor[T]) Last() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.values) == 0 {
		var zero T

		return zero, false
	}

	return c.values[len(c.values)-1], true
}

// Capture matches any value of type T and records it into c once the whole
// call pattern matched.
func Capture[T any](e Engine, c *Captor[T]) T {
	return push[T](e, &captorMatcher[T]{captor: c})
}

type captorMatcher[T any] struct {
	captor *Captor[T]
}

func (m *captorMatcher[T]) Capture(actual any) {
	val, _ := asType[T](actual)

	m.captor.mu.Lock()
	m.captor.values = append(m.captor.values, val)
	m.captor.mu.Unlock()
}

func (m *captorMatcher[T]) Equal(other Matcher) bool {
	o, ok := other.(*captorMatcher[T])

	return ok && o.captor == m.captor
}

func (m *captorMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value of type %s to capture, got %T", reflect.TypeFor[T](), actual)
}

func (m *captorMatcher[T]) Match(actual any) (bool, error) {
	_, ok := asType[T](actual)

	return ok, nil
}

func (m *captorMatcher[T]) MatchedType() reflect.Type { return reflect.TypeFor[T]() }

func (m *captorMatcher[T]) String() string {
	return "capture(" + reflect.TypeFor[T]().String() + ")"
}

// Package fixtures holds the target types moxy's own tests mock, together
// with their moxygen output.
package fixtures

import (
	"errors"
	"strings"
)

//go:generate go run ../../moxygen --out . Greeter Sequencer Store Notifier Combiner Counter

// Greeter says hello.
type Greeter interface {
	Greet(name string) string
}

// Sequencer has two calls whose order matters.
type Sequencer interface {
	Foo()
	Bar()
}

// Store keeps values under keys.
type Store interface {
	Put(key string, value any) (int, error)
	Get(key string) (any, bool)
}

// Notifier takes a variadic tail.
type Notifier interface {
	Notify(message string, ids ...int) bool
}

// Combiner takes three arguments.
type Combiner interface {
	Combine(a, b string, n int) string
}

// Sealed cannot be implemented outside this package.
type Sealed interface {
	Open() string
	seal()
}

// Empty has no methods to intercept.
type Empty interface{}

// Transformer is a func type mocked at runtime.
type Transformer func(in string) (string, error)

// Counter is a struct whose pointer methods are mocked.
type Counter struct {
	n int
}

// NewCounter starts a counter at start.
func NewCounter(start int) *Counter {
	return &Counter{n: start}
}

// Increment adds one and returns the new count.
func (c *Counter) Increment() int {
	c.n++

	return c.n
}

// Add adds d and returns the new count.
func (c *Counter) Add(d int) int {
	c.n += d

	return c.n
}

// PoliteGreeter is a real Greeter used behind spies.
type PoliteGreeter struct{}

// Greet returns a greeting for name.
func (PoliteGreeter) Greet(name string) string {
	return "Hello, " + name
}

// ShoutingGreeter is a second real Greeter, used as a delegate.
type ShoutingGreeter struct{}

// Greet returns an upper-cased greeting for name.
func (ShoutingGreeter) Greet(name string) string {
	return "HELLO, " + strings.ToUpper(name)
}

// ErrNotFound is returned by MapStore for missing keys.
var ErrNotFound = errors.New("not found")

// MapStore is a real Store.
type MapStore struct {
	values map[string]any
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{values: make(map[string]any)}
}

// Put stores value and returns the number of keys.
func (s *MapStore) Put(key string, value any) (int, error) {
	if key == "" {
		return 0, ErrNotFound
	}

	s.values[key] = value

	return len(s.values), nil
}

// Get returns the value under key.
func (s *MapStore) Get(key string) (any, bool) {
	v, ok := s.values[key]

	return v, ok
}

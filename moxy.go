// Package moxy provides test doubles for Go: substitutes whose calls can be
// stubbed, are recorded in a ledger, and can be verified afterwards.
//
// This is the public API entry point. Implementation lives in internal/core.
//
//	e := moxy.ForTest(t)
//	greeter := mocks.NewGreeterMock(e)
//	e.When(func() { greeter.Greet("X") }).ThenReturn("hi")
//	...
//	e.AssertMock(func() { greeter.Greet(match.Any[string](e)) }).WasCalledOnce()
package moxy

import (
	"log/slog"
	"os"
	"reflect"

	"github.com/roscopeco/moxy-sub002/internal/config"
	"github.com/roscopeco/moxy-sub002/internal/core"
)

// Types re-exported from internal/core.

// Engine owns the ledger, stub rules and DSL state of its substitutes.
type Engine = core.Engine

// Option configures an Engine.
type Option = core.Option

// MockOption configures one substitute.
type MockOption = core.MockOption

// Proxy is the handle every substitute method forwards to.
type Proxy = core.Proxy

// Mocked is implemented by every substitute.
type Mocked = core.Mocked

// FuncMock is a substitute for a func type; call Fn.
type FuncMock[F any] = core.FuncMock[F]

// Stubber chains behaviors onto a stub declared with When.
type Stubber = core.Stubber

// Verifier checks call counts for a call captured with AssertMock.
type Verifier = core.Verifier

// MultiVerifier checks counts and ordering for calls captured with AssertMocks.
type MultiVerifier = core.MultiVerifier

// InvocationRecord is one recorded call.
type InvocationRecord = core.InvocationRecord

// Outcome is what a recorded call returned or panicked with.
type Outcome = core.Outcome

// MockIdentity identifies one substitute.
type MockIdentity = core.MockIdentity

// MethodKey identifies one method of a target type.
type MethodKey = core.MethodKey

// Matcher is an argument predicate; gomega matchers satisfy it.
type Matcher = core.Matcher

// Mode is the DSL state of an engine.
type Mode = core.Mode

// TestReporter is the minimal interface moxy needs from test frameworks.
type TestReporter = core.TestReporter

// Errors re-exported from internal/core.

// IllegalMatcherStateError reports a composite matcher without its operands.
type IllegalMatcherStateError = core.IllegalMatcherStateError

// InvalidStubbingError reports a behavior that cannot apply to the stubbed method.
type InvalidStubbingError = core.InvalidStubbingError

// MatcherMisuseError reports a matcher registered outside When or AssertMock.
type MatcherMisuseError = core.MatcherMisuseError

// MatcherTypeError reports a matcher bound to a parameter of another type.
type MatcherTypeError = core.MatcherTypeError

// NoStubInProgressError reports a chained call with no captured mock call.
type NoStubInProgressError = core.NoStubInProgressError

// UnbalancedMatcherStackError reports matchers pushed for some arguments only.
type UnbalancedMatcherStackError = core.UnbalancedMatcherStackError

// UnmockableTypeError reports a type that cannot be substituted.
type UnmockableTypeError = core.UnmockableTypeError

// VerificationFailedError is the failure of a verification.
type VerificationFailedError = core.VerificationFailedError

// ErrMoxy is wrapped by every engine error.
var ErrMoxy = core.ErrMoxy

// Modes.
const (
	ModeIdle      = core.ModeIdle
	ModeStubbing  = core.ModeStubbing
	ModeVerifying = core.ModeVerifying
)

// Functions re-exported from internal/core.

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option { return core.WithLogger(logger) }

// WithReporter sends DSL failures to t.Fatalf.
func WithReporter(t TestReporter) Option { return core.WithReporter(t) }

// WithStrictMatcherTypes toggles the matcher-to-parameter type check.
func WithStrictMatcherTypes(strict bool) Option { return core.WithStrictMatcherTypes(strict) }

// WithName sets a substitute's display name (and a func substitute's method name).
func WithName(name string) MockOption { return core.WithName(name) }

// WithDelegate makes unstubbed calls run on delegate.
func WithDelegate(delegate any) MockOption { return core.WithDelegate(delegate) }

// New creates an engine configured from MOXY_* environment variables, then opts.
func New(opts ...Option) *Engine {
	return core.NewEngine(append(envOptions(), opts...)...)
}

// ForTest returns the engine of test t, creating it on first use. The engine
// reports failures to t and is reset when t finishes.
func ForTest(t TestReporter, opts ...Option) *Engine {
	return core.ForTest(t, append(envOptions(), opts...)...)
}

// Mock synthesizes a substitute for T: an interface with a generated mock,
// or a func type.
func Mock[T any](e *Engine, opts ...MockOption) (T, error) {
	var zero T

	substitute, err := e.Synthesize(reflect.TypeFor[T](), opts...)
	if err != nil {
		return zero, err
	}

	typed, ok := substitute.(T)
	if !ok {
		return zero, &UnmockableTypeError{Type: reflect.TypeFor[T](), Reason: "generated mock does not implement it"}
	}

	return typed, nil
}

// MustMock is Mock that panics on error.
func MustMock[T any](e *Engine, opts ...MockOption) T {
	substitute, err := Mock[T](e, opts...)
	if err != nil {
		panic(err)
	}

	return substitute
}

// MockFunc synthesizes a substitute for the func type F.
func MockFunc[F any](e *Engine, opts ...MockOption) (*FuncMock[F], error) {
	return core.NewFuncMock[F](e, opts...)
}

// Spy synthesizes a substitute for T whose unstubbed calls run on real.
func Spy[T any](e *Engine, real T, opts ...MockOption) (T, error) {
	if any(real) == nil {
		var zero T

		return zero, &UnmockableTypeError{Type: reflect.TypeFor[T](), Reason: "a spy needs a non-nil real value"}
	}

	return Mock[T](e, append(opts, WithDelegate(real))...)
}

// NewProxy synthesizes the proxy for a generated substitute of T.
func NewProxy[T any](e *Engine, opts ...MockOption) (*Proxy, error) {
	return e.NewProxy(reflect.TypeFor[T](), opts...)
}

// MustProxy is NewProxy that panics on error. Generated constructors use it.
func MustProxy[T any](e *Engine, opts ...MockOption) *Proxy {
	proxy, err := NewProxy[T](e, opts...)
	if err != nil {
		panic(err)
	}

	return proxy
}

// RegisterFactory makes T mockable with Mock. Generated files call it from init.
func RegisterFactory[T any](factory func(p *Proxy) T) {
	core.RegisterFactory(reflect.TypeFor[T](), func(p *Proxy) any { return factory(p) })
}

// IsMock reports whether v is a substitute of any engine.
func IsMock(v any) bool {
	m, ok := v.(Mocked)

	return ok && m.MoxyProxy() != nil
}

func envOptions() []Option {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}

	return []Option{
		WithLogger(cfg.Logger(os.Stderr)),
		WithStrictMatcherTypes(cfg.StrictMatcherTypes),
	}
}

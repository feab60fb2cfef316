// Package core implements the moxy engine: synthesis of substitutes, the
// invocation ledger, the matcher stack, and the stubbing and verification DSL.
package core

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Mode is the DSL state of an engine.
type Mode int

const (
	// ModeIdle intercepts calls normally: stubs apply and calls are recorded.
	ModeIdle Mode = iota
	// ModeStubbing captures the call made inside a When closure.
	ModeStubbing
	// ModeVerifying captures the calls made inside an AssertMock closure.
	ModeVerifying
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeStubbing:
		return "stubbing"
	case ModeVerifying:
		return "verifying"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Engine owns the ledger, the stub rules, and the DSL state for the
// substitutes it synthesizes. Use one engine per test.
type Engine struct {
	logger      *slog.Logger
	reporter    TestReporter
	strictTypes bool

	mu       sync.Mutex // guards mode, stack and captured
	mode     Mode
	stack    MatcherStack
	captured []capturedCall

	seq    atomic.Uint64
	ledger *Ledger
	rules  *ruleTable
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger that traces synthesis, interception and the DSL.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithReporter sends every DSL error to t.Fatalf as well as returning it.
func WithReporter(t TestReporter) Option {
	return func(e *Engine) { e.reporter = t }
}

// WithStrictMatcherTypes toggles the check that an explicit matcher's type
// fits the parameter it is bound to. It is on by default.
func WithStrictMatcherTypes(strict bool) Option {
	return func(e *Engine) { e.strictTypes = strict }
}

// NewEngine creates an idle engine with an empty ledger.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{
		logger:      slog.New(slog.DiscardHandler),
		strictTypes: true,
		ledger:      NewLedger(),
		rules:       newRuleTable(),
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// Mode is the current DSL state.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.mode
}

// PendingMatchers is the number of matchers pushed but not yet consumed.
func (e *Engine) PendingMatchers() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stack.Len()
}

// PushMatcher registers m for the next intercepted call. Matchers can only be
// registered inside a When or AssertMock closure; outside one it panics with
// a *MatcherMisuseError.
func (e *Engine) PushMatcher(m Matcher) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeIdle {
		panic(&MatcherMisuseError{Matcher: DescribeMatcher(m)})
	}

	if err := e.stack.register(m); err != nil {
		e.stack.Clear()
		panic(err)
	}
}

// IsMock reports whether v is a substitute synthesized by e.
func (e *Engine) IsMock(v any) bool {
	m, ok := v.(Mocked)
	if !ok {
		return false
	}

	proxy := m.MoxyProxy()

	return proxy != nil && proxy.engine == e
}

// Invocations returns the recorded calls of m, oldest first.
func (e *Engine) Invocations(m Mocked) []InvocationRecord {
	proxy := proxyOf(m)
	if proxy == nil {
		return nil
	}

	return e.ledger.Records(proxy.id)
}

// AllInvocations returns every recorded call, in sequence order.
func (e *Engine) AllInvocations() []InvocationRecord {
	return e.ledger.All()
}

// StubCount is the number of stub rules declared for m.
func (e *Engine) StubCount(m Mocked) int {
	proxy := proxyOf(m)
	if proxy == nil {
		return 0
	}

	return e.rules.count(proxy.id)
}

// Reset clears the ledger, every stub rule, the matcher stack and the mode.
// It is idempotent and never fails.
func (e *Engine) Reset() {
	e.ledger.Clear()
	e.rules.clear()
	e.resetDSL()
	e.logger.Debug("engine reset")
}

// ResetMock clears the records and stub rules of m, along with any lingering
// matcher stack or mode. A nil or foreign m only resets the DSL state.
func (e *Engine) ResetMock(m Mocked) {
	if proxy := proxyOf(m); proxy != nil {
		e.ledger.ClearMock(proxy.id)
		e.rules.clearMock(proxy.id)
		e.logger.Debug("mock reset", "mock", proxy.String())
	}

	e.resetDSL()
}

type capturedCall struct {
	proxy   *Proxy
	spec    *MethodSpec
	args    []any
	pattern ArgumentPattern
}

func (c capturedCall) describe() string {
	return describeCall(c.spec, c.pattern)
}

// matches reports whether rec is a call of c's method on c's mock with
// arguments accepted by c's pattern.
func (c capturedCall) matches(rec InvocationRecord) bool {
	return rec.Mock == c.proxy.id && rec.Method == c.spec.Key && c.pattern.Matches(rec.Args)
}

func (e *Engine) resetDSL() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mode = ModeIdle
	e.stack.Clear()
	e.captured = nil
}

// intercept is the body of every substitute method.
func (e *Engine) intercept(proxy *Proxy, spec *MethodSpec, args []any) []any {
	e.mu.Lock()

	mode := e.mode
	if mode != ModeIdle {
		pattern, err := e.stack.resolve(spec, args, e.strictTypes)
		if err == nil {
			e.captured = append(e.captured, capturedCall{
				proxy: proxy, spec: spec, args: slices.Clone(args), pattern: pattern,
			})
		}

		e.mu.Unlock()

		if err != nil {
			panic(err)
		}

		e.logger.Debug("captured call", "mode", mode.String(), "method", spec.Signature(),
			"pattern", pattern.String())

		return zeroResults(spec)
	}

	e.mu.Unlock()

	seq := e.seq.Add(1)
	e.logger.Debug("intercepted call", "method", spec.Signature(), "args", inspectArgs(args), "seq", seq)

	results, outcome := e.invoke(proxy, spec, args)

	e.ledger.Append(InvocationRecord{
		Mock:    proxy.id,
		Method:  spec.Key,
		Args:    slices.Clone(args),
		Outcome: outcome,
		Seq:     seq,
		spec:    spec,
	})

	if outcome.Panicked {
		panic(outcome.PanicValue)
	}

	return results
}

// invoke runs the stubbed or default behavior for one call, turning a panic
// into a failure outcome.
func (e *Engine) invoke(proxy *Proxy, spec *MethodSpec, args []any) (results []any, outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			outcome = Outcome{Panicked: true, PanicValue: r}
		}
	}()

	rule := e.rules.lookup(proxy.id, spec.Key, args)
	if rule == nil {
		results = e.fallback(proxy, spec, args)

		return results, Outcome{Returned: slices.Clone(results)}
	}

	behavior, actions, ok := e.rules.next(rule)
	for _, action := range actions {
		action(slices.Clone(args))
	}

	if !ok {
		results = e.fallback(proxy, spec, args)
	} else {
		results = e.perform(proxy, spec, behavior, args)
	}

	return results, Outcome{Returned: slices.Clone(results)}
}

func (e *Engine) fallback(proxy *Proxy, spec *MethodSpec, args []any) []any {
	if proxy.desc.Kind == KindDefaulted {
		return callThrough(proxy.real, spec, args)
	}

	return zeroResults(spec)
}

func (e *Engine) perform(proxy *Proxy, spec *MethodSpec, behavior Behavior, args []any) []any {
	switch behavior.kind {
	case behaviorReturn:
		return slices.Clone(behavior.values)
	case behaviorAnswer:
		out, err := normalizeResults(spec, behavior.answer(slices.Clone(args)))
		if err != nil {
			panic(err)
		}

		return out
	case behaviorThrow:
		panic(behavior.failure)
	case behaviorFail:
		return failResults(spec, behavior.err)
	case behaviorCallReal:
		return callThrough(proxy.real, spec, args)
	case behaviorDelegate:
		return callThrough(behavior.delegate, spec, args)
	default:
		return zeroResults(spec)
	}
}

// runDSL runs fn with the engine in mode and returns the calls it captured.
// Engine errors raised inside fn are returned; other panics propagate.
func (e *Engine) runDSL(mode Mode, fn func()) (calls []capturedCall, err error) {
	e.mu.Lock()

	if e.mode != ModeIdle {
		current := e.mode
		e.mu.Unlock()

		return nil, &InvalidStubbingError{
			Reason: fmt.Sprintf("cannot start %s while the engine is %s", mode, current),
		}
	}

	e.mode = mode
	e.stack.Clear()
	e.captured = nil
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		calls = e.captured
		leftover := e.stack.Describe()
		e.captured = nil
		e.stack.Clear()
		e.mode = ModeIdle
		e.mu.Unlock()

		if r := recover(); r != nil {
			engineErr, ok := r.(error)
			if !ok || !errors.Is(engineErr, ErrMoxy) {
				panic(r)
			}

			calls, err = nil, engineErr

			return
		}

		if len(leftover) > 0 {
			calls, err = nil, &UnbalancedMatcherStackError{Pushed: len(leftover), Stack: leftover}
		}
	}()

	fn()

	return calls, nil
}

// report hands err to the reporter, if any.
func (e *Engine) report(err error) {
	e.logger.Info("moxy failure", "error", err)

	if e.reporter == nil {
		return
	}

	e.reporter.Helper()
	e.reporter.Fatalf("%v", err)
}

func proxyOf(m Mocked) *Proxy {
	if m == nil {
		return nil
	}

	return m.MoxyProxy()
}

package core

import (
	"fmt"
	"reflect"
)

// Stubber chains behaviors onto the stub rule declared by When. The first
// error sticks: later calls are no-ops and Err returns it.
type Stubber struct {
	engine *Engine
	proxy  *Proxy
	spec   *MethodSpec
	rule   *StubRule
	err    error
}

// When runs fn in stubbing mode. The last mock call fn makes becomes the
// stub being declared; its arguments, or the matchers pushed for them, form
// the rule's pattern. Declaring a pattern that equals an existing rule's
// replaces that rule's behaviors.
func (e *Engine) When(fn func()) *Stubber {
	stubber := &Stubber{engine: e}

	calls, err := e.runDSL(ModeStubbing, fn)
	if err != nil {
		stubber.fail(err)

		return stubber
	}

	if len(calls) == 0 {
		return stubber
	}

	last := calls[len(calls)-1]
	stubber.proxy = last.proxy
	stubber.spec = last.spec
	stubber.rule = e.rules.declare(last.proxy.id, last.spec.Key, last.pattern)

	e.logger.Debug("stub declared", "mock", last.proxy.String(), "call", last.describe())

	return stubber
}

// Err returns the first error the chain hit.
func (s *Stubber) Err() error { return s.err }

// ThenReturn queues a behavior returning values, one per method result.
// Nil stands for the zero value; numeric values are converted.
func (s *Stubber) ThenReturn(values ...any) *Stubber {
	if !s.ready("ThenReturn") {
		return s
	}

	normalized, err := normalizeResults(s.spec, values)
	if err != nil {
		s.fail(err)

		return s
	}

	return s.add(Behavior{kind: behaviorReturn, values: normalized})
}

// ThenAnswer queues a behavior computing the results from the call's arguments.
func (s *Stubber) ThenAnswer(answer func(args []any) []any) *Stubber {
	if !s.ready("ThenAnswer") {
		return s
	}

	if answer == nil {
		s.fail(&InvalidStubbingError{Method: s.spec.Signature(), Reason: "nil answer"})

		return s
	}

	return s.add(Behavior{kind: behaviorAnswer, answer: answer})
}

// ThenThrow queues a behavior that panics with failure.
func (s *Stubber) ThenThrow(failure any) *Stubber {
	if !s.ready("ThenThrow") {
		return s
	}

	if failure == nil {
		s.fail(&InvalidStubbingError{Method: s.spec.Signature(), Reason: "cannot throw nil"})

		return s
	}

	return s.add(Behavior{kind: behaviorThrow, failure: failure})
}

// ThenFail queues a behavior returning zero values and err in the trailing
// error result.
func (s *Stubber) ThenFail(err error) *Stubber {
	if !s.ready("ThenFail") {
		return s
	}

	if !s.spec.HasErrorResult() {
		s.fail(&InvalidStubbingError{Method: s.spec.Signature(), Reason: "method has no trailing error result"})

		return s
	}

	return s.add(Behavior{kind: behaviorFail, err: err})
}

// ThenCallRealMethod queues a behavior running the real body.
func (s *Stubber) ThenCallRealMethod() *Stubber {
	if !s.ready("ThenCallRealMethod") {
		return s
	}

	if !canCallThrough(s.proxy.real, s.spec) {
		s.fail(&InvalidStubbingError{
			Method: s.spec.Signature(),
			Reason: fmt.Sprintf("%s mocks have no real method to call", s.proxy.desc.Kind),
		})

		return s
	}

	return s.add(Behavior{kind: behaviorCallReal})
}

// ThenDelegateTo queues a behavior calling the same method on delegate.
func (s *Stubber) ThenDelegateTo(delegate any) *Stubber {
	if !s.ready("ThenDelegateTo") {
		return s
	}

	val := reflect.ValueOf(delegate)
	if !canCallThrough(val, s.spec) {
		s.fail(&InvalidStubbingError{
			Method: s.spec.Signature(),
			Reason: fmt.Sprintf("delegate %T has no compatible %s method", delegate, s.spec.Name),
		})

		return s
	}

	return s.add(Behavior{kind: behaviorDelegate, delegate: val})
}

// ThenDo adds a side action run with the call's arguments before each
// behavior of the rule.
func (s *Stubber) ThenDo(action func(args []any)) *Stubber {
	if !s.ready("ThenDo") {
		return s
	}

	if action == nil {
		s.fail(&InvalidStubbingError{Method: s.spec.Signature(), Reason: "nil action"})

		return s
	}

	s.engine.rules.addAction(s.rule, action)

	return s
}

// Times makes the last queued behavior answer n calls in total before the
// next queued behavior takes over.
func (s *Stubber) Times(n int) *Stubber {
	if !s.ready("Times") {
		return s
	}

	if n < 1 {
		s.fail(&InvalidStubbingError{Method: s.spec.Signature(), Reason: fmt.Sprintf("Times(%d) must be positive", n)})

		return s
	}

	if !s.engine.rules.repeatLast(s.rule, n) {
		s.fail(&InvalidStubbingError{Method: s.spec.Signature(), Reason: "Times needs a behavior to repeat"})
	}

	return s
}

func (s *Stubber) ready(action string) bool {
	if s.err != nil {
		return false
	}

	if s.rule == nil {
		s.fail(&NoStubInProgressError{Action: action})

		return false
	}

	if !s.engine.rules.live(s.proxy.id, s.rule) {
		s.fail(&NoStubInProgressError{Action: action, Reason: "the stub was redeclared or reset"})

		return false
	}

	return true
}

func (s *Stubber) add(b Behavior) *Stubber {
	s.engine.rules.addBehavior(s.rule, b)

	return s
}

func (s *Stubber) fail(err error) {
	if s.err != nil {
		return
	}

	s.err = err
	s.engine.report(err)
}

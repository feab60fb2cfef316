package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrMoxy is wrapped by every error the engine produces, so callers can tell
// engine failures apart from failures thrown by stubbed behavior.
var ErrMoxy = errors.New("moxy")

// IllegalMatcherStateError reports a composite matcher that could not find
// its operands on the matcher stack.
type IllegalMatcherStateError struct {
	Matcher  string
	Expected int
	Found    int
}

func (e *IllegalMatcherStateError) Error() string {
	return fmt.Sprintf(
		"not enough matchers for %s (expected %d, found %d); ensure you're passing other matchers to %s",
		e.Matcher, e.Expected, e.Found, e.Matcher,
	)
}

func (e *IllegalMatcherStateError) Unwrap() error { return ErrMoxy }

// InvalidStubbingError reports a behavior that cannot apply to the stubbed method.
type InvalidStubbingError struct {
	Method string
	Reason string
}

func (e *InvalidStubbingError) Error() string {
	if e.Method == "" {
		return "invalid stubbing: " + e.Reason
	}

	return fmt.Sprintf("invalid stubbing of %s: %s", e.Method, e.Reason)
}

func (e *InvalidStubbingError) Unwrap() error { return ErrMoxy }

// MatcherMisuseError reports a matcher registered while no When or AssertMock
// closure was running.
type MatcherMisuseError struct {
	Matcher string
}

func (e *MatcherMisuseError) Error() string {
	return fmt.Sprintf("attempt to register matcher %s outside When() or AssertMock[s]()", e.Matcher)
}

func (e *MatcherMisuseError) Unwrap() error { return ErrMoxy }

// MatcherTypeError reports an explicit matcher whose matched type cannot hold
// values of the parameter it was bound to.
type MatcherTypeError struct {
	Method   string
	Position int
	Want     reflect.Type
	Got      reflect.Type
}

func (e *MatcherTypeError) Error() string {
	return fmt.Sprintf("matcher for argument %d of %s matches %s, which is incompatible with parameter type %s",
		e.Position, e.Method, e.Got, e.Want)
}

func (e *MatcherTypeError) Unwrap() error { return ErrMoxy }

// NoStubInProgressError reports a chained declaration made when no call was
// captured to attach it to, or whose rule was since replaced or reset.
type NoStubInProgressError struct {
	Action string
	Reason string
}

func (e *NoStubInProgressError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "the closure made no call on a mock"
	}

	return fmt.Sprintf("cannot %s: no stub in progress (%s)", e.Action, reason)
}

func (e *NoStubInProgressError) Unwrap() error { return ErrMoxy }

// UnbalancedMatcherStackError reports a call resolved with a number of pushed
// matchers other than zero or the method's arity.
type UnbalancedMatcherStackError struct {
	Method string
	Arity  int
	Pushed int
	Stack  []string
}

func (e *UnbalancedMatcherStackError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("inconsistent use of matchers: %d were pushed [%s] but no mock call consumed them",
			e.Pushed, strings.Join(e.Stack, ", "))
	}

	return fmt.Sprintf(
		"inconsistent use of matchers for %s: expected 0 or %d matchers, but %d were pushed [%s]; "+
			"if using matchers, all arguments must be supplied with them (use match.Eq for plain values)",
		e.Method, e.Arity, e.Pushed, strings.Join(e.Stack, ", "),
	)
}

func (e *UnbalancedMatcherStackError) Unwrap() error { return ErrMoxy }

// UnmockableTypeError reports a target type the synthesizer cannot substitute.
type UnmockableTypeError struct {
	Type   reflect.Type
	Reason string
}

func (e *UnmockableTypeError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}

	return fmt.Sprintf("cannot mock %s: %s", name, e.Reason)
}

func (e *UnmockableTypeError) Unwrap() error { return ErrMoxy }

// VerificationFailedError is the assertion failure produced by the verification DSL.
// Message carries the headline; Detail, when set, lists the recorded calls
// that came closest.
type VerificationFailedError struct {
	Message string
	Detail  string
}

func (e *VerificationFailedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "verification failed"
	}

	if e.Detail == "" {
		return msg
	}

	return msg + "\n" + e.Detail
}

func (e *VerificationFailedError) Unwrap() error { return ErrMoxy }

package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/akedrou/textdiff"
)

// Verifier checks the recorded calls matching the call captured by
// AssertMock. The first failure sticks: later checks are no-ops and Err
// returns it.
type Verifier struct {
	engine    *Engine
	call      *capturedCall
	err       error
	committed bool
}

// AssertMock runs fn in verifying mode. The last mock call fn makes, with its
// arguments or matchers, is the call pattern the chained checks count.
func (e *Engine) AssertMock(fn func()) *Verifier {
	verifier := &Verifier{engine: e}

	calls, err := e.runDSL(ModeVerifying, fn)
	if err != nil {
		verifier.fail(err)

		return verifier
	}

	if len(calls) > 0 {
		last := calls[len(calls)-1]
		verifier.call = &last
	}

	return verifier
}

// Err returns the first failure.
func (v *Verifier) Err() error { return v.err }

// WasCalled checks the call happened at least once.
func (v *Verifier) WasCalled() *Verifier {
	return v.check("WasCalled", atLeast, 1)
}

// WasCalledTimes checks the call happened exactly n times.
func (v *Verifier) WasCalledTimes(n int) *Verifier {
	return v.check("WasCalledTimes", exactly, n)
}

// WasCalledOnce checks the call happened exactly once.
func (v *Verifier) WasCalledOnce() *Verifier { return v.check("WasCalledOnce", exactly, 1) }

// WasCalledTwice checks the call happened exactly twice.
func (v *Verifier) WasCalledTwice() *Verifier { return v.check("WasCalledTwice", exactly, 2) }

// WasNotCalled checks the call never happened.
func (v *Verifier) WasNotCalled() *Verifier { return v.check("WasNotCalled", exactly, 0) }

// WasCalledAtLeast checks the call happened n times or more.
func (v *Verifier) WasCalledAtLeast(n int) *Verifier {
	return v.check("WasCalledAtLeast", atLeast, n)
}

// WasCalledAtMost checks the call happened n times or fewer.
func (v *Verifier) WasCalledAtMost(n int) *Verifier {
	return v.check("WasCalledAtMost", atMost, n)
}

// DidntThrow checks no matching call failed with failure. A reflect.Type
// matches any failure of that type, an error matches with errors.Is, and any
// other value matches by deep equality.
func (v *Verifier) DidntThrow(failure any) *Verifier {
	if !v.ready("DidntThrow") {
		return v
	}

	thrown := 0

	for _, rec := range v.matched() {
		if got := rec.Outcome.Failure(); got != nil && failureMatches(got, failure) {
			thrown++
		}
	}

	if thrown == 0 {
		return v
	}

	what := "exception " + Inspect(failure)
	if typ, ok := failure.(reflect.Type); ok {
		what = "exception type " + typ.String()
	}

	v.fail(&VerificationFailedError{Message: fmt.Sprintf("Expected mock %s never to throw %s, but it was thrown %s",
		v.call.describe(), what, readableTimes(thrown))})

	return v
}

// DidntThrowAny checks no matching call panicked or returned an error.
func (v *Verifier) DidntThrowAny() *Verifier {
	if !v.ready("DidntThrowAny") {
		return v
	}

	thrown := 0

	for _, rec := range v.matched() {
		if rec.Outcome.Failed() {
			thrown++
		}
	}

	if thrown > 0 {
		v.fail(&VerificationFailedError{Message: fmt.Sprintf(
			"Expected mock %s never to throw any exception, but exceptions were thrown %s",
			v.call.describe(), readableTimes(thrown))})
	}

	return v
}

func (v *Verifier) check(action string, cmp comparison, n int) *Verifier {
	if !v.ready(action) {
		return v
	}

	var (
		matched int
		others  []InvocationRecord
	)

	for _, rec := range v.engine.ledger.Records(v.call.proxy.id) {
		if rec.Method != v.call.spec.Key {
			continue
		}

		if v.call.pattern.Matches(rec.Args) {
			if !v.committed {
				v.call.pattern.commit(rec.Args)
			}

			matched++

			continue
		}

		others = append(others, rec)
	}

	// Captors see each matching call once, however many checks are chained.
	v.committed = true

	if cmp.accepts(matched, n) {
		return v
	}

	v.fail(&VerificationFailedError{
		Message: countMismatchMessage(*v.call, cmp, n, matched),
		Detail:  nearMisses(*v.call, others),
	})

	return v
}

func (v *Verifier) matched() []InvocationRecord {
	var out []InvocationRecord

	for _, rec := range v.engine.ledger.Records(v.call.proxy.id) {
		if rec.Method == v.call.spec.Key && v.call.pattern.Matches(rec.Args) {
			out = append(out, rec)
		}
	}

	return out
}

func (v *Verifier) ready(action string) bool {
	if v.err != nil {
		return false
	}

	if v.call == nil {
		v.fail(&NoStubInProgressError{Action: action})

		return false
	}

	return true
}

func (v *Verifier) fail(err error) {
	if v.err != nil {
		return
	}

	v.err = err
	v.engine.report(err)
}

// MultiVerifier checks several captured calls together, including the order
// they happened in.
type MultiVerifier struct {
	engine      *Engine
	calls       []capturedCall
	countsKnown bool
	committed   bool
	err         error
}

// AssertMocks runs fn in verifying mode and checks every mock call it makes.
func (e *Engine) AssertMocks(fn func()) *MultiVerifier {
	verifier := &MultiVerifier{engine: e}

	calls, err := e.runDSL(ModeVerifying, fn)
	if err != nil {
		verifier.fail(err)

		return verifier
	}

	verifier.calls = calls

	return verifier
}

// Err returns the first failure.
func (m *MultiVerifier) Err() error { return m.err }

// WereAllCalled checks every call happened at least once.
func (m *MultiVerifier) WereAllCalled() *MultiVerifier {
	return m.check("WereAllCalled", atLeast, 1)
}

// WereAllCalledExactly checks every call happened exactly n times.
func (m *MultiVerifier) WereAllCalledExactly(n int) *MultiVerifier {
	return m.check("WereAllCalledExactly", exactly, n)
}

// WereAllCalledOnce checks every call happened exactly once.
func (m *MultiVerifier) WereAllCalledOnce() *MultiVerifier {
	return m.check("WereAllCalledOnce", exactly, 1)
}

// WereAllCalledTwice checks every call happened exactly twice.
func (m *MultiVerifier) WereAllCalledTwice() *MultiVerifier {
	return m.check("WereAllCalledTwice", exactly, 2)
}

// WereAllCalledAtLeast checks every call happened n times or more.
func (m *MultiVerifier) WereAllCalledAtLeast(n int) *MultiVerifier {
	return m.check("WereAllCalledAtLeast", atLeast, n)
}

// WereAllCalledAtMost checks every call happened n times or fewer.
func (m *MultiVerifier) WereAllCalledAtMost(n int) *MultiVerifier {
	return m.check("WereAllCalledAtMost", atMost, n)
}

// WereNotCalled checks none of the calls happened.
func (m *MultiVerifier) WereNotCalled() *MultiVerifier {
	return m.check("WereNotCalled", exactly, 0)
}

// InThatOrder checks the calls happened in the order they were made in the
// closure. Other calls may happen in between.
func (m *MultiVerifier) InThatOrder() *MultiVerifier {
	return m.checkOrder("InThatOrder", false)
}

// ExclusivelyInThatOrder checks the calls happened in closure order with no
// other call on the same mocks in between.
func (m *MultiVerifier) ExclusivelyInThatOrder() *MultiVerifier {
	return m.checkOrder("ExclusivelyInThatOrder", true)
}

// InAnyOrder accepts any order. It reads as the end of a count check.
func (m *MultiVerifier) InAnyOrder() *MultiVerifier {
	m.ready("InAnyOrder")

	return m
}

func (m *MultiVerifier) check(action string, cmp comparison, n int) *MultiVerifier {
	if !m.ready(action) {
		return m
	}

	m.countsKnown = true
	records := m.engine.ledger.All()

	var failures []error

	for _, call := range m.calls {
		count := 0

		for _, rec := range records {
			if call.matches(rec) {
				if !m.committed {
					call.pattern.commit(rec.Args)
				}

				count++
			}
		}

		if !cmp.accepts(count, n) {
			failures = append(failures, &VerificationFailedError{Message: countMismatchMessage(call, cmp, n, count)})
		}
	}

	m.committed = true

	if len(failures) > 0 {
		m.fail(errors.Join(failures...))
	}

	return m
}

func (m *MultiVerifier) checkOrder(action string, exclusive bool) *MultiVerifier {
	if !m.ready(action) {
		return m
	}

	if orderedMatch(m.engine.ledger.All(), m.calls, exclusive) {
		return m
	}

	expected := make([]string, len(m.calls))
	for i, call := range m.calls {
		expected[i] = call.describe()
	}

	var msg strings.Builder

	msg.WriteString("Expected invocations:\n")

	for _, line := range expected {
		msg.WriteString("\t" + line + "\n")
	}

	if exclusive {
		msg.WriteString("exclusively ")
	}

	msg.WriteString("in that order, but they were ")

	if !m.countsKnown {
		msg.WriteString("not invoked or were ")
	}

	msg.WriteString("invoked out of order")

	m.fail(&VerificationFailedError{Message: msg.String()})

	return m
}

func (m *MultiVerifier) ready(action string) bool {
	if m.err != nil {
		return false
	}

	if len(m.calls) == 0 {
		m.fail(&NoStubInProgressError{Action: action})

		return false
	}

	return true
}

func (m *MultiVerifier) fail(err error) {
	if m.err != nil {
		return
	}

	m.err = err
	m.engine.report(err)
}

type comparison int

const (
	exactly comparison = iota
	atLeast
	atMost
)

func (c comparison) accepts(count, n int) bool {
	switch c {
	case atLeast:
		return count >= n
	case atMost:
		return count <= n
	default:
		return count == n
	}
}

func (c comparison) String() string {
	switch c {
	case atLeast:
		return "at least"
	case atMost:
		return "at most"
	default:
		return "exactly"
	}
}

func countMismatchMessage(call capturedCall, cmp comparison, expected, actual int) string {
	if cmp == atLeast && expected == 1 && actual == 0 {
		return fmt.Sprintf("Expected mock %s to be called at least once but it wasn't called at all", call.describe())
	}

	return fmt.Sprintf("Expected mock %s to be called %s %s but it was called %s",
		call.describe(), cmp, readableTimes(expected), readableTimes(actual))
}

func readableTimes(n int) string {
	switch n {
	case 0:
		return "zero times"
	case 1:
		return "once"
	case 2:
		return "twice"
	default:
		return fmt.Sprintf("%d times", n)
	}
}

// nearMisses lists the calls of the same method made with other arguments,
// with a diff against the latest one.
func nearMisses(call capturedCall, others []InvocationRecord) string {
	if len(others) == 0 {
		return ""
	}

	var detail strings.Builder

	detail.WriteString("Calls of " + call.spec.Signature() + " with other arguments:\n")

	for _, rec := range others {
		fmt.Fprintf(&detail, "\t#%d %s\n", rec.Seq, rec.String())
	}

	latest := others[len(others)-1]
	expected := diffLines(call.spec.Name, patternStrings(call.pattern))
	actual := diffLines(call.spec.Name, argStrings(latest.Args))

	detail.WriteString(textdiff.Unified("expected", fmt.Sprintf("call #%d", latest.Seq), expected, actual))

	return strings.TrimRight(detail.String(), "\n")
}

func diffLines(name string, args []string) string {
	var out strings.Builder

	out.WriteString(name + "(\n")

	for _, arg := range args {
		out.WriteString("\t" + arg + ",\n")
	}

	out.WriteString(")\n")

	return out.String()
}

func patternStrings(p ArgumentPattern) []string {
	out := make([]string, len(p))
	for i, arg := range p {
		out[i] = arg.String()
	}

	return out
}

func argStrings(args []any) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = Inspect(arg)
	}

	return out
}

// orderedMatch walks the ledger looking for the expected calls in order.
// In exclusive mode a call on one of the involved mocks that is not the next
// expected call restarts the walk.
func orderedMatch(records []InvocationRecord, expected []capturedCall, exclusive bool) bool {
	involved := make(map[MockIdentity]bool, len(expected))
	for _, call := range expected {
		involved[call.proxy.id] = true
	}

	next := 0

	for _, rec := range records {
		if next == len(expected) {
			return true
		}

		if expected[next].matches(rec) {
			next++

			continue
		}

		if exclusive && next > 0 && involved[rec.Mock] {
			next = 0
			if expected[0].matches(rec) {
				next = 1
			}
		}
	}

	return next == len(expected)
}

func failureMatches(got, want any) bool {
	if typ, ok := want.(reflect.Type); ok {
		return reflect.TypeOf(got) == typ || (typ.Kind() == reflect.Interface && reflect.TypeOf(got).Implements(typ))
	}

	if wantErr, ok := want.(error); ok {
		if gotErr, ok := got.(error); ok {
			return errors.Is(gotErr, wantErr)
		}
	}

	return reflect.DeepEqual(got, want)
}

package moxy_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	moxy "github.com/roscopeco/moxy-sub002"
	"github.com/roscopeco/moxy-sub002/internal/fixtures"
	"github.com/roscopeco/moxy-sub002/match"
)

// TestGreeter_StubAndVerify walks through stubbing one argument, calling with
// it and another, and verifying both.
func TestGreeter_StubAndVerify(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()
	greeter := moxy.MustMock[fixtures.Greeter](e)

	e.When(func() { greeter.Greet("X") }).ThenReturn("hi")

	g.Expect(greeter.Greet("X")).To(Equal("hi"))
	g.Expect(greeter.Greet("X")).To(Equal("hi"))
	g.Expect(greeter.Greet("Y")).To(BeEmpty())

	g.Expect(e.AssertMock(func() { greeter.Greet("X") }).WasCalled().Err()).NotTo(HaveOccurred())
	g.Expect(e.AssertMock(func() { greeter.Greet("Y") }).WasCalledOnce().Err()).NotTo(HaveOccurred())

	err := e.AssertMock(func() { greeter.Greet("X") }).WasCalledOnce().Err()

	var failed *moxy.VerificationFailedError
	g.Expect(errors.As(err, &failed)).To(BeTrue())
	g.Expect(failed.Message).To(Equal(
		`Expected mock Greeter.Greet(string) string with arguments ("X") to be called exactly once but it was called twice`))
}

// TestGreeter_ThrowForAnyArgument stubs every call to fail and checks the
// failure reaches the caller and the ledger.
func TestGreeter_ThrowForAnyArgument(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()
	greeter := moxy.MustMock[fixtures.Greeter](e)
	illegalState := errors.New("illegal state")

	e.When(func() { greeter.Greet(match.Any[string](e)) }).ThenThrow(illegalState)

	g.Expect(func() { greeter.Greet("anyone") }).To(PanicWith(MatchError(illegalState)))
	g.Expect(func() { greeter.Greet("") }).To(PanicWith(MatchError(illegalState)))

	records := e.Invocations(greeter.(moxy.Mocked))
	g.Expect(records).To(HaveLen(2))

	for _, rec := range records {
		g.Expect(rec.Outcome.Panicked).To(BeTrue())
		g.Expect(rec.Outcome.Failed()).To(BeTrue())
	}

	err := e.AssertMock(func() { greeter.Greet(match.Any[string](e)) }).DidntThrow(illegalState).Err()
	g.Expect(err).To(MatchError(ContainSubstring("but it was thrown twice")))
}

// TestSequencer_Ordering checks ordering verification in both directions.
func TestSequencer_Ordering(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()
	seq := moxy.MustMock[fixtures.Sequencer](e)

	seq.Foo()
	seq.Bar()

	err := e.AssertMocks(func() {
		seq.Foo()
		seq.Bar()
	}).InThatOrder().Err()
	g.Expect(err).NotTo(HaveOccurred())

	err = e.AssertMocks(func() {
		seq.Bar()
		seq.Foo()
	}).InThatOrder().Err()
	g.Expect(err).To(MatchError(ContainSubstring("in that order, but they were not invoked or were invoked out of order")))
}

func TestMock_Unmockable(t *testing.T) {
	t.Parallel()

	e := moxy.New()

	tests := []struct {
		name string
		mock func() error
	}{
		{"sealed interface", func() error { _, err := moxy.Mock[fixtures.Sealed](e); return err }},
		{"empty interface", func() error { _, err := moxy.Mock[fixtures.Empty](e); return err }},
		{"struct by value", func() error { _, err := moxy.Mock[fixtures.Counter](e); return err }},
		{"unregistered interface", func() error { _, err := moxy.Mock[interface{ Ping() }](e); return err }},
		{"basic type", func() error { _, err := moxy.Mock[int](e); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			err := tt.mock()

			var unmockable *moxy.UnmockableTypeError
			g.Expect(errors.As(err, &unmockable)).To(BeTrue())
			g.Expect(err).To(MatchError(moxy.ErrMoxy))
		})
	}
}

func TestMustMock_PanicsOnUnmockable(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()

	g.Expect(func() { moxy.MustMock[fixtures.Sealed](e) }).To(PanicWith(MatchError(moxy.ErrMoxy)))
	g.Expect(func() { moxy.MustProxy[fixtures.Empty](e) }).To(PanicWith(MatchError(moxy.ErrMoxy)))
}

func TestMockFunc(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()

	transform, err := moxy.MockFunc[fixtures.Transformer](e, moxy.WithName("transform"))
	g.Expect(err).NotTo(HaveOccurred())

	e.When(func() { _, _ = transform.Fn(match.StartsWith(e, "a")) }).ThenReturn("A", nil)
	e.When(func() { _, _ = transform.Fn("bad") }).ThenFail(errors.New("rejected"))

	out, err := transform.Fn("apple")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(Equal("A"))

	out, err = transform.Fn("bad")
	g.Expect(err).To(MatchError("rejected"))
	g.Expect(out).To(BeEmpty())

	g.Expect(moxy.IsMock(transform)).To(BeTrue())
	g.Expect(e.IsMock(transform)).To(BeTrue())

	err = e.AssertMock(func() { _, _ = transform.Fn("bad") }).DidntThrowAny().Err()
	g.Expect(err).To(MatchError(ContainSubstring(
		`Expected mock Transformer.transform(string) (string, error) with arguments ("bad") never to throw any exception`)))
}

func TestSpy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()

	greeter, err := moxy.Spy[fixtures.Greeter](e, fixtures.PoliteGreeter{})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(greeter.Greet("Ada")).To(Equal("Hello, Ada"))

	e.When(func() { greeter.Greet("Bob") }).ThenReturn("go away")

	g.Expect(greeter.Greet("Bob")).To(Equal("go away"))
	g.Expect(greeter.Greet("Cy")).To(Equal("Hello, Cy"))

	err = e.AssertMock(func() { greeter.Greet(match.Any[string](e)) }).WasCalledTimes(3).Err()
	g.Expect(err).NotTo(HaveOccurred())

	_, err = moxy.Spy[fixtures.Store](e, nil)
	g.Expect(err).To(MatchError(moxy.ErrMoxy))
}

func TestSpy_StructMock(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()
	counter := fixtures.NewCounterMock(e, moxy.WithDelegate(fixtures.NewCounter(10)))

	g.Expect(counter.Add(5)).To(Equal(15))
	g.Expect(counter.Increment()).To(Equal(16))

	e.When(func() { counter.Increment() }).ThenReturn(0)

	g.Expect(counter.Increment()).To(Equal(0))
	g.Expect(counter.Add(1)).To(Equal(17))
}

func TestIsMock(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()
	other := moxy.New()
	greeter := fixtures.NewGreeterMock(e)

	g.Expect(moxy.IsMock(greeter)).To(BeTrue())
	g.Expect(e.IsMock(greeter)).To(BeTrue())
	g.Expect(other.IsMock(greeter)).To(BeFalse())
	g.Expect(moxy.IsMock(fixtures.PoliteGreeter{})).To(BeFalse())
	g.Expect(moxy.IsMock(nil)).To(BeFalse())
	g.Expect(moxy.IsMock((*fixtures.GreeterMock)(nil))).To(BeFalse())
}

func TestMocksShareMethodKeysButNotLedgers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()
	first := fixtures.NewGreeterMock(e, moxy.WithName("first"))
	second := fixtures.NewGreeterMock(e, moxy.WithName("second"))

	e.When(func() { first.Greet("X") }).ThenReturn("from first")

	g.Expect(first.Greet("X")).To(Equal("from first"))
	g.Expect(second.Greet("X")).To(BeEmpty())

	g.Expect(e.AssertMock(func() { second.Greet("X") }).WasCalledOnce().Err()).NotTo(HaveOccurred())
	g.Expect(e.Invocations(first)[0].Method).To(Equal(e.Invocations(second)[0].Method))
	g.Expect(first.MoxyProxy().ID()).NotTo(Equal(second.MoxyProxy().ID()))
	g.Expect(first.MoxyProxy().Name()).To(Equal("first"))
}

func TestReset(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.New()
	store := fixtures.NewStoreMock(e)
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { store.Get("k") }).ThenReturn("v", true)
	e.When(func() { greeter.Greet("X") }).ThenReturn("hi")

	store.Get("k")
	greeter.Greet("X")

	e.ResetMock(store)

	g.Expect(e.Invocations(store)).To(BeEmpty())
	g.Expect(e.StubCount(store)).To(Equal(0))
	g.Expect(e.StubCount(greeter)).To(Equal(1))

	value, ok := store.Get("k")
	g.Expect(value).To(BeNil())
	g.Expect(ok).To(BeFalse())

	e.Reset()
	e.Reset()

	g.Expect(e.AllInvocations()).To(BeEmpty())
	g.Expect(greeter.Greet("X")).To(BeEmpty())
	g.Expect(e.Mode()).To(Equal(moxy.ModeIdle))
}

func TestForTest_ReportsFailuresToTheTest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &fakeReporter{}
	e := moxy.ForTest(reporter)
	greeter := fixtures.NewGreeterMock(e)

	e.AssertMock(func() { greeter.Greet("X") }).WasCalled()

	g.Expect(moxy.ForTest(reporter)).To(BeIdenticalTo(e))
	g.Expect(reporter.failures).To(ConsistOf(
		`Expected mock Greeter.Greet(string) string with arguments ("X") to be called at least once but it wasn't called at all`))
}

func TestForTest_WithTestingT(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := moxy.ForTest(t)
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { greeter.Greet("X") }).ThenReturn("hi")

	g.Expect(greeter.Greet("X")).To(Equal("hi"))
	e.AssertMock(func() { greeter.Greet("X") }).WasCalledOnce()
}

// fakeReporter records failures instead of stopping the test.
type fakeReporter struct {
	failures []string
}

func (f *fakeReporter) Fatalf(format string, args ...any) {
	f.failures = append(f.failures, format)
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			f.failures[len(f.failures)-1] = err.Error()
		}
	}
}

func (f *fakeReporter) Helper() {}

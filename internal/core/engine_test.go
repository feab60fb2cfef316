package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/roscopeco/moxy-sub002/internal/core"
	"github.com/roscopeco/moxy-sub002/internal/fixtures"
	"github.com/roscopeco/moxy-sub002/match"
)

func TestWhen_ThenReturn_StubsMatchingCallOnly(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	stub := e.When(func() { greeter.Greet("X") }).ThenReturn("hi")

	g.Expect(stub.Err()).NotTo(HaveOccurred())
	g.Expect(greeter.Greet("X")).To(Equal("hi"))
	g.Expect(greeter.Greet("Y")).To(BeEmpty())
	g.Expect(e.AssertMock(func() { greeter.Greet("X") }).WasCalledOnce().Err()).NotTo(HaveOccurred())
	g.Expect(e.AssertMock(func() { greeter.Greet("Y") }).WasCalledOnce().Err()).NotTo(HaveOccurred())
}

func TestWhen_DoesNotRecordTheDeclaringCall(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { greeter.Greet("X") }).ThenReturn("hi")
	e.AssertMock(func() { greeter.Greet("X") })

	g.Expect(e.Invocations(greeter)).To(BeEmpty())
	g.Expect(e.Mode()).To(Equal(core.ModeIdle))
}

func TestThenThrow_PanicsAndRecordsFailure(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)
	failure := errors.New("boom")

	e.When(func() { greeter.Greet("X") }).ThenThrow(failure)

	g.Expect(func() { greeter.Greet("X") }).To(PanicWith(failure))

	records := e.Invocations(greeter)
	g.Expect(records).To(HaveLen(1))
	g.Expect(records[0].Outcome.Panicked).To(BeTrue())
	g.Expect(records[0].Outcome.PanicValue).To(BeIdenticalTo(failure))
	g.Expect(records[0].Outcome.Failed()).To(BeTrue())
}

func TestStubReplacement_KeepsOneRule(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { greeter.Greet("X") }).ThenReturn("a")
	e.When(func() { greeter.Greet("X") }).ThenReturn("b")

	g.Expect(greeter.Greet("X")).To(Equal("b"))
	g.Expect(e.StubCount(greeter)).To(Equal(1))
}

func TestStubLookup_MostRecentMatchingRuleWins(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { greeter.Greet(match.Any[string](e)) }).ThenReturn("anyone")
	e.When(func() { greeter.Greet("X") }).ThenReturn("x")

	g.Expect(greeter.Greet("X")).To(Equal("x"))
	g.Expect(greeter.Greet("Y")).To(Equal("anyone"))

	// Re-declaring the broad rule makes it the most recent again.
	e.When(func() { greeter.Greet(match.Any[string](e)) }).ThenReturn("everyone")

	g.Expect(greeter.Greet("X")).To(Equal("everyone"))
	g.Expect(e.StubCount(greeter)).To(Equal(2))
}

func TestBehaviorQueue_FallsBackToLastBehavior(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { greeter.Greet("X") }).ThenReturn("1").ThenReturn("2")

	g.Expect(greeter.Greet("X")).To(Equal("1"))
	g.Expect(greeter.Greet("X")).To(Equal("2"))
	g.Expect(greeter.Greet("X")).To(Equal("2"))
	g.Expect(greeter.Greet("X")).To(Equal("2"))
}

func TestTimes_RepeatsLastBehavior(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	stub := e.When(func() { greeter.Greet("X") }).ThenReturn("a").Times(2).ThenReturn("b")

	g.Expect(stub.Err()).NotTo(HaveOccurred())
	g.Expect([]string{greeter.Greet("X"), greeter.Greet("X"), greeter.Greet("X"), greeter.Greet("X")}).
		To(Equal([]string{"a", "a", "b", "b"}))
}

func TestTimes_RejectsNonPositiveAndMissingBehavior(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	var invalid *core.InvalidStubbingError

	g.Expect(errors.As(e.When(func() { greeter.Greet("X") }).Times(2).Err(), &invalid)).To(BeTrue())
	g.Expect(errors.As(e.When(func() { greeter.Greet("X") }).ThenReturn("a").Times(0).Err(), &invalid)).To(BeTrue())
}

func TestThenReturn_ValidatesResults(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	store := fixtures.NewStoreMock(e)

	var invalid *core.InvalidStubbingError

	g.Expect(errors.As(e.When(func() { store.Put("k", 1) }).ThenReturn(1).Err(), &invalid)).To(BeTrue())
	g.Expect(errors.As(e.When(func() { store.Put("k", 1) }).ThenReturn("one", nil).Err(), &invalid)).To(BeTrue())

	// Numeric values convert and nil stands for the zero value.
	g.Expect(e.When(func() { store.Put("k", 1) }).ThenReturn(int64(7), nil).Err()).NotTo(HaveOccurred())

	count, err := store.Put("k", 1)
	g.Expect(count).To(Equal(7))
	g.Expect(err).NotTo(HaveOccurred())
}

func TestThenFail_ReturnsZeroValuesAndError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	store := fixtures.NewStoreMock(e)
	failure := errors.New("disk full")

	e.When(func() { store.Put("k", nil) }).ThenFail(failure)

	count, err := store.Put("k", nil)
	g.Expect(count).To(BeZero())
	g.Expect(err).To(MatchError(failure))

	records := e.Invocations(store)
	g.Expect(records).To(HaveLen(1))
	g.Expect(records[0].Outcome.Panicked).To(BeFalse())
	g.Expect(records[0].Outcome.Failure()).To(MatchError(failure))
}

func TestThenFail_RequiresTrailingError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	err := e.When(func() { greeter.Greet("X") }).ThenFail(errors.New("nope")).Err()

	var invalid *core.InvalidStubbingError
	g.Expect(errors.As(err, &invalid)).To(BeTrue())
	g.Expect(err).To(MatchError(core.ErrMoxy))
}

func TestThenAnswer_ComputesFromArguments(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { greeter.Greet(match.Any[string](e)) }).ThenAnswer(func(args []any) []any {
		name, _ := args[0].(string)

		return []any{"hi " + name}
	})

	g.Expect(greeter.Greet("Bob")).To(Equal("hi Bob"))
	g.Expect(greeter.Greet("Ann")).To(Equal("hi Ann"))
}

func TestThenAnswer_WrongResultCountPanics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { greeter.Greet("X") }).ThenAnswer(func([]any) []any { return nil })

	g.Expect(func() { greeter.Greet("X") }).To(PanicWith(BeAssignableToTypeOf(&core.InvalidStubbingError{})))
	g.Expect(e.Invocations(greeter)).To(HaveLen(1))
}

func TestThenDo_RunsBeforeBehavior(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	var seen []any

	e.When(func() { greeter.Greet(match.Any[string](e)) }).
		ThenDo(func(args []any) { seen = append(seen, args[0]) }).
		ThenReturn("ok")

	g.Expect(greeter.Greet("A")).To(Equal("ok"))
	g.Expect(greeter.Greet("B")).To(Equal("ok"))
	g.Expect(seen).To(Equal([]any{"A", "B"}))
}

func TestThenDo_WithoutBehaviorReturnsZeroValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)
	calls := 0

	e.When(func() { greeter.Greet("X") }).ThenDo(func([]any) { calls++ })

	g.Expect(greeter.Greet("X")).To(BeEmpty())
	g.Expect(calls).To(Equal(1))
}

func TestThenCallRealMethod_UsesZeroValueStruct(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	counter := fixtures.NewCounterMock(e)

	e.When(func() { counter.Increment() }).ThenCallRealMethod()

	g.Expect(counter.Increment()).To(Equal(1))
	g.Expect(counter.Increment()).To(Equal(2))
	g.Expect(counter.Add(5)).To(BeZero(), "unstubbed struct methods return zero values")
}

func TestThenCallRealMethod_RejectsInterfaceWithoutDelegate(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	err := e.When(func() { greeter.Greet("X") }).ThenCallRealMethod().Err()

	var invalid *core.InvalidStubbingError
	g.Expect(errors.As(err, &invalid)).To(BeTrue())
}

func TestThenDelegateTo_CallsDelegate(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { greeter.Greet(match.Any[string](e)) }).ThenDelegateTo(fixtures.ShoutingGreeter{})

	g.Expect(greeter.Greet("bob")).To(Equal("HELLO, BOB"))

	err := e.When(func() { greeter.Greet("X") }).ThenDelegateTo(fixtures.NewCounter(0)).Err()
	g.Expect(err).To(MatchError(ContainSubstring("no compatible Greet method")))
}

func TestDelegate_DefaultsUnstubbedCallsToRealBody(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	spy := fixtures.NewGreeterMock(e, core.WithDelegate(fixtures.PoliteGreeter{}))

	e.When(func() { spy.Greet("Mallory") }).ThenReturn("go away")

	g.Expect(spy.Greet("Bob")).To(Equal("Hello, Bob"))
	g.Expect(spy.Greet("Mallory")).To(Equal("go away"))
	g.Expect(spy.MoxyProxy().Descriptor().Kind).To(Equal(core.KindDefaulted))
	g.Expect(e.AssertMock(func() { spy.Greet("Bob") }).WasCalledOnce().Err()).NotTo(HaveOccurred())
}

func TestDelegate_StructSpyKeepsRealState(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	spy := fixtures.NewCounterMock(e, core.WithDelegate(fixtures.NewCounter(10)))

	g.Expect(spy.Increment()).To(Equal(11))
	g.Expect(spy.Add(4)).To(Equal(15))
}

func TestThenMethods_WithoutStubInProgress(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()

	err := e.When(func() {}).ThenReturn("x").Err()

	var noStub *core.NoStubInProgressError
	g.Expect(errors.As(err, &noStub)).To(BeTrue())
	g.Expect(noStub.Action).To(Equal("ThenReturn"))
}

func TestThenMethods_OnReplacedOrResetRule(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	older := e.When(func() { greeter.Greet("X") }).ThenReturn("old")
	e.When(func() { greeter.Greet("X") }).ThenReturn("new")

	var noStub *core.NoStubInProgressError
	g.Expect(errors.As(older.ThenReturn("lost").Err(), &noStub)).To(BeTrue())
	g.Expect(noStub.Action).To(Equal("ThenReturn"))
	g.Expect(noStub.Error()).To(ContainSubstring("redeclared or reset"))
	g.Expect(greeter.Greet("X")).To(Equal("new"))

	current := e.When(func() { greeter.Greet("Y") }).ThenReturn("y")
	e.ResetMock(greeter)

	g.Expect(errors.As(current.Times(2).Err(), &noStub)).To(BeTrue())
	g.Expect(e.StubCount(greeter)).To(Equal(0))
}

func TestWhen_PredicateMatchersNeverReplaceEachOther(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)
	short := func(s string) bool { return len(s) < 4 }

	e.When(func() { greeter.Greet(match.Custom(e, short)) }).ThenReturn("first")
	e.When(func() { greeter.Greet(match.Custom(e, short)) }).ThenReturn("second")

	g.Expect(e.StubCount(greeter)).To(Equal(2))
	g.Expect(greeter.Greet("Al")).To(Equal("second"))
}

func TestWhen_LastCallInClosureIsStubbed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() {
		greeter.Greet("first")
		greeter.Greet("second")
	}).ThenReturn("stubbed")

	g.Expect(greeter.Greet("first")).To(BeEmpty())
	g.Expect(greeter.Greet("second")).To(Equal("stubbed"))
}

func TestWhen_NestedDSLIsRejected(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	var inner error

	outer := e.When(func() {
		inner = e.When(func() { greeter.Greet("inner") }).Err()
		greeter.Greet("outer")
	}).ThenReturn("outer")

	g.Expect(inner).To(MatchError(ContainSubstring("cannot start stubbing while the engine is stubbing")))
	g.Expect(outer.Err()).NotTo(HaveOccurred())
	g.Expect(greeter.Greet("outer")).To(Equal("outer"))
}

func TestWhen_ForeignPanicPropagatesAndRestoresIdle(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()

	g.Expect(func() { e.When(func() { panic("not ours") }) }).To(PanicWith("not ours"))
	g.Expect(e.Mode()).To(Equal(core.ModeIdle))
}

func TestMatcherBalance_PartialMatchersAreRejected(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	combiner := fixtures.NewCombinerMock(e)

	err := e.When(func() { combiner.Combine(match.Any[string](e), "b", 1) }).ThenReturn("x").Err()

	var unbalanced *core.UnbalancedMatcherStackError
	g.Expect(errors.As(err, &unbalanced)).To(BeTrue())
	g.Expect(unbalanced.Arity).To(Equal(3))
	g.Expect(unbalanced.Pushed).To(Equal(1))
	g.Expect(e.PendingMatchers()).To(BeZero())
	g.Expect(e.Mode()).To(Equal(core.ModeIdle))
	g.Expect(e.StubCount(combiner)).To(BeZero())
}

func TestMatcherBalance_AllMatchersAccepted(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	combiner := fixtures.NewCombinerMock(e)

	err := e.When(func() {
		combiner.Combine(match.Any[string](e), match.Eq(e, "b"), match.Gt(e, 0))
	}).ThenReturn("x").Err()

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(combiner.Combine("a", "b", 1)).To(Equal("x"))
	g.Expect(combiner.Combine("a", "c", 1)).To(BeEmpty())
	g.Expect(combiner.Combine("a", "b", 0)).To(BeEmpty())
}

func TestMatcherBalance_UnconsumedMatchersAreRejected(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()

	err := e.When(func() { match.Any[string](e) }).Err()

	var unbalanced *core.UnbalancedMatcherStackError
	g.Expect(errors.As(err, &unbalanced)).To(BeTrue())
	g.Expect(unbalanced.Pushed).To(Equal(1))
	g.Expect(e.PendingMatchers()).To(BeZero())
}

func TestMatcherTypes_StrictCheckRejectsMismatch(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	err := e.When(func() {
		match.Any[int](e)
		greeter.Greet("")
	}).Err()

	var typeErr *core.MatcherTypeError
	g.Expect(errors.As(err, &typeErr)).To(BeTrue())
	g.Expect(typeErr.Position).To(BeZero())

	lenient := core.NewEngine(core.WithStrictMatcherTypes(false))
	other := fixtures.NewGreeterMock(lenient)

	err = lenient.When(func() {
		match.Any[int](lenient)
		other.Greet("")
	}).Err()
	g.Expect(err).NotTo(HaveOccurred())
}

func TestMatcherMisuse_OutsideDSLPanics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()

	g.Expect(func() { match.Any[string](e) }).To(PanicWith(BeAssignableToTypeOf(&core.MatcherMisuseError{})))
	g.Expect(e.PendingMatchers()).To(BeZero())
}

func TestReset_IsIdempotent(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	e.When(func() { greeter.Greet("X") }).ThenReturn("hi")
	greeter.Greet("X")

	e.Reset()
	e.Reset()

	g.Expect(e.Invocations(greeter)).To(BeEmpty())
	g.Expect(e.StubCount(greeter)).To(BeZero())
	g.Expect(e.Mode()).To(Equal(core.ModeIdle))
	g.Expect(e.PendingMatchers()).To(BeZero())
	g.Expect(greeter.Greet("X")).To(BeEmpty())
}

func TestResetMock_OnlyClearsThatMock(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	first := fixtures.NewGreeterMock(e)
	second := fixtures.NewGreeterMock(e)

	e.When(func() { first.Greet("X") }).ThenReturn("one")
	e.When(func() { second.Greet("X") }).ThenReturn("two")
	first.Greet("X")
	second.Greet("X")

	e.ResetMock(first)
	e.ResetMock(nil)

	g.Expect(e.Invocations(first)).To(BeEmpty())
	g.Expect(first.Greet("X")).To(BeEmpty())
	g.Expect(e.Invocations(second)).To(HaveLen(1))
	g.Expect(second.Greet("X")).To(Equal("two"))
}

func TestIsMock(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	other := core.NewEngine()
	greeter := fixtures.NewGreeterMock(e)

	g.Expect(e.IsMock(greeter)).To(BeTrue())
	g.Expect(other.IsMock(greeter)).To(BeFalse())
	g.Expect(e.IsMock(fixtures.PoliteGreeter{})).To(BeFalse())
	g.Expect(e.IsMock((*fixtures.GreeterMock)(nil))).To(BeFalse())
}

func TestMocksOfOneTypeShareMethodKeys(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	first := fixtures.NewGreeterMock(e)
	second := fixtures.NewGreeterMock(e)

	first.Greet("a")
	second.Greet("b")

	g.Expect(e.Invocations(first)[0].Method).To(Equal(e.Invocations(second)[0].Method))
	g.Expect(first.MoxyProxy().ID()).NotTo(Equal(second.MoxyProxy().ID()))
}

func TestVariadicArguments(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e := core.NewEngine()
	notifier := fixtures.NewNotifierMock(e)

	e.When(func() { notifier.Notify("up", 1, 2) }).ThenReturn(true)

	g.Expect(notifier.Notify("up", 1, 2)).To(BeTrue())
	g.Expect(notifier.Notify("up", 1)).To(BeFalse())
	g.Expect(e.Invocations(notifier)[0].Args).To(Equal([]any{"up", []int{1, 2}}))
}

func TestEngineErrorsWrapSentinel(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errs := []error{
		&core.IllegalMatcherStateError{},
		&core.InvalidStubbingError{},
		&core.MatcherMisuseError{},
		&core.MatcherTypeError{},
		&core.NoStubInProgressError{},
		&core.UnbalancedMatcherStackError{},
		&core.UnmockableTypeError{},
		&core.VerificationFailedError{},
	}

	for _, err := range errs {
		g.Expect(errors.Is(err, core.ErrMoxy)).To(BeTrue(), "%T", err)
		g.Expect(err.Error()).NotTo(BeEmpty())
	}
}

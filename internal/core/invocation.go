package core

import (
	"fmt"
	"slices"
)

// Outcome is what an intercepted call produced: its results, or the value it
// panicked with.
type Outcome struct {
	Returned   []any
	Panicked   bool
	PanicValue any
}

// Failed reports whether the call panicked or returned a non-nil trailing error.
func (o Outcome) Failed() bool {
	return o.Failure() != nil
}

// Failure is the panic value, or the non-nil trailing error, or nil.
func (o Outcome) Failure() any {
	if o.Panicked {
		return o.PanicValue
	}

	if len(o.Returned) == 0 {
		return nil
	}

	if err, ok := o.Returned[len(o.Returned)-1].(error); ok && err != nil {
		return err
	}

	return nil
}

// InvocationRecord is one entry in the ledger. Records are values; slices
// handed out by the engine are copies.
type InvocationRecord struct {
	Mock    MockIdentity
	Method  MethodKey
	Args    []any
	Outcome Outcome
	Seq     uint64

	spec *MethodSpec
}

// Signature renders the invoked method, e.g. "Greeter.Greet(string) string".
func (r InvocationRecord) Signature() string {
	if r.spec == nil {
		return r.Method.String()
	}

	return r.spec.Signature()
}

func (r InvocationRecord) String() string {
	return fmt.Sprintf("%s%s", r.callName(), inspectArgs(r.Args))
}

func (r InvocationRecord) callName() string {
	return declaringName(r.Method.Declaring) + "." + r.Method.Name
}

func (r InvocationRecord) clone() InvocationRecord {
	r.Args = slices.Clone(r.Args)
	r.Outcome.Returned = slices.Clone(r.Outcome.Returned)

	return r
}

// describeCall renders a method together with the arguments or matchers it
// was declared with, as used by verification messages.
func describeCall(spec *MethodSpec, pattern ArgumentPattern) string {
	if len(pattern) == 0 {
		return spec.Signature()
	}

	return spec.Signature() + " with arguments " + pattern.String()
}

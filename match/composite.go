package match

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/roscopeco/moxy-sub002/internal/core"
)

// And matches values accepted by every operand. Operands must be matcher
// expressions themselves:
//
//	match.And(e, match.Gt(e, 1), match.Lt(e, 10))
func And[T any](e Engine, operands ...T) T {
	return push[T](e, &compositeMatcher[T]{op: "and", arity: len(operands)})
}

// Or matches values accepted by at least one operand.
func Or[T any](e Engine, operands ...T) T {
	return push[T](e, &compositeMatcher[T]{op: "or", arity: len(operands)})
}

// Not matches values its operand rejects.
func Not[T any](e Engine, _ T) T {
	return push[T](e, &compositeMatcher[T]{op: "not", arity: 1})
}

// compositeMatcher takes its operands off the matcher stack when pushed.
type compositeMatcher[T any] struct {
	op       string
	arity    int
	operands []Matcher
}

// AddToStack pops the operands and pushes the composite in their place.
func (m *compositeMatcher[T]) AddToStack(stack *core.MatcherStack) error {
	popped := make([]Matcher, 0, m.arity)

	for range m.arity {
		operand, ok := stack.Pop()
		if !ok {
			return &core.IllegalMatcherStateError{Matcher: m.op + "()", Expected: m.arity, Found: len(popped)}
		}

		popped = append(popped, operand)
	}

	slices.Reverse(popped)
	m.operands = popped
	stack.Push(m)

	return nil
}

func (m *compositeMatcher[T]) Equal(other Matcher) bool {
	o, ok := other.(*compositeMatcher[T])
	if !ok || o.op != m.op || len(o.operands) != len(m.operands) {
		return false
	}

	for i := range m.operands {
		if !core.Explicit(m.operands[i]).Equal(core.Explicit(o.operands[i])) {
			return false
		}
	}

	return true
}

func (m *compositeMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value matching %s, got %s", m.String(), core.Inspect(actual))
}

func (m *compositeMatcher[T]) Match(actual any) (bool, error) {
	switch m.op {
	case "and":
		for _, operand := range m.operands {
			if !core.Explicit(operand).Matches(actual) {
				return false, nil
			}
		}

		return true, nil
	case "or":
		for _, operand := range m.operands {
			if core.Explicit(operand).Matches(actual) {
				return true, nil
			}
		}

		return false, nil
	default:
		return !core.Explicit(m.operands[0]).Matches(actual), nil
	}
}

func (m *compositeMatcher[T]) MatchedType() reflect.Type { return reflect.TypeFor[T]() }

func (m *compositeMatcher[T]) String() string {
	parts := make([]string, len(m.operands))
	for i, operand := range m.operands {
		parts[i] = core.DescribeMatcher(operand)
	}

	return m.op + "(" + strings.Join(parts, ", ") + ")"
}

// Capture forwards to operands so captors inside a composite still record.
func (m *compositeMatcher[T]) Capture(actual any) {
	if m.op == "not" {
		return
	}

	for _, operand := range m.operands {
		if c, ok := operand.(core.Capturer); ok && core.Explicit(operand).Matches(actual) {
			c.Capture(actual)
		}
	}
}

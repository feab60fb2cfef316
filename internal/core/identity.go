package core

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// MethodKey identifies one overridable method of a target type. It is stable
// across every substitute synthesized for that type and comparable, so it
// keys the ledger and the stub rule table.
type MethodKey struct {
	Declaring reflect.Type
	Name      string
	Params    string
}

func (k MethodKey) String() string {
	return declaringName(k.Declaring) + "." + k.Name + "(" + k.Params + ")"
}

// MockIdentity is the opaque handle of one synthesized substitute. Identities
// are never reused, even after a reset.
type MockIdentity struct {
	id uuid.UUID
}

// IsZero reports whether the identity was never assigned.
func (m MockIdentity) IsZero() bool { return m.id == uuid.Nil }

func (m MockIdentity) String() string { return m.id.String() }

func newMockIdentity() MockIdentity {
	return MockIdentity{id: uuid.New()}
}

func declaringName(t reflect.Type) string {
	switch {
	case t == nil:
		return "<nil>"
	case t.Name() != "":
		return t.Name()
	case t.Kind() == reflect.Pointer && t.Elem().Name() != "":
		return t.Elem().Name()
	case t.Kind() == reflect.Func:
		return "func"
	default:
		return t.String()
	}
}

func paramList(in []reflect.Type, variadic bool) string {
	parts := make([]string, len(in))
	for i, p := range in {
		if variadic && i == len(in)-1 {
			parts[i] = "..." + p.Elem().String()

			continue
		}

		parts[i] = p.String()
	}

	return strings.Join(parts, ", ")
}

func resultList(out []reflect.Type) string {
	switch len(out) {
	case 0:
		return ""
	case 1:
		return " " + out[0].String()
	default:
		parts := make([]string, len(out))
		for i, r := range out {
			parts[i] = r.String()
		}

		return " (" + strings.Join(parts, ", ") + ")"
	}
}

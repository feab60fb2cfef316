package core

import (
	"fmt"
	"reflect"
	"sync"
)

// Kind selects how a descriptor's substitute is produced and what an
// unstubbed call does.
type Kind int

const (
	// KindInterface substitutes an interface; unstubbed calls return zero values.
	KindInterface Kind = iota
	// KindStruct substitutes the pointer method set of a struct; the real
	// receiver is a zero value allocated without running any constructor.
	KindStruct
	// KindFunc substitutes a func type through reflect.MakeFunc.
	KindFunc
	// KindDefaulted runs the real body for unstubbed calls (spies and mocks
	// created with a delegate).
	KindDefaulted
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindStruct:
		return "struct"
	case KindFunc:
		return "func"
	case KindDefaulted:
		return "defaulted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MethodSpec describes one interceptable method.
type MethodSpec struct {
	Key      MethodKey
	Name     string
	In       []reflect.Type
	Out      []reflect.Type
	Variadic bool
}

// Arity is the number of formal parameters, counting a variadic tail as one.
func (s *MethodSpec) Arity() int { return len(s.In) }

// HasErrorResult reports whether the last result is of type error.
func (s *MethodSpec) HasErrorResult() bool {
	return len(s.Out) > 0 && s.Out[len(s.Out)-1] == errorType
}

// Signature renders the method the way failure messages show it, e.g.
// "Greeter.Greet(string) string".
func (s *MethodSpec) Signature() string {
	return declaringName(s.Key.Declaring) + "." + s.Name +
		"(" + paramList(s.In, s.Variadic) + ")" + resultList(s.Out)
}

// Descriptor is the interceptable surface of a target type.
type Descriptor struct {
	Type    reflect.Type
	Kind    Kind
	Methods []*MethodSpec

	byName map[string]*MethodSpec
}

// Method returns the spec for name, or nil.
func (d *Descriptor) Method(name string) *MethodSpec {
	return d.byName[name]
}

// Describe builds the descriptor of an interface or struct type. Pointer
// types describe their element. Results are cached per type.
func Describe(target reflect.Type) (*Descriptor, error) {
	if target == nil {
		return nil, &UnmockableTypeError{Reason: "no type given"}
	}

	if cached, ok := descriptors.Load(target); ok {
		desc, _ := cached.(*Descriptor)

		return desc, nil
	}

	var (
		desc *Descriptor
		err  error
	)

	switch {
	case target.Kind() == reflect.Interface:
		desc, err = describeInterface(target)
	case target.Kind() == reflect.Struct:
		desc, err = describeStruct(target)
	case target.Kind() == reflect.Pointer && target.Elem().Kind() == reflect.Struct:
		desc, err = describeStruct(target.Elem())
	case target.Kind() == reflect.Func:
		desc, err = DescribeFunc(target, defaultFuncMethod)
	default:
		err = &UnmockableTypeError{Type: target, Reason: fmt.Sprintf("%s types cannot be mocked", target.Kind())}
	}

	if err != nil {
		return nil, err
	}

	actual, _ := descriptors.LoadOrStore(target, desc)
	desc, _ = actual.(*Descriptor)

	return desc, nil
}

// DescribeFunc describes a func type as a single method called name.
func DescribeFunc(target reflect.Type, name string) (*Descriptor, error) {
	if target == nil || target.Kind() != reflect.Func {
		return nil, &UnmockableTypeError{Type: target, Reason: "not a func type"}
	}

	spec := newMethodSpec(target, name, target, 0)

	return newDescriptor(target, KindFunc, []*MethodSpec{spec}), nil
}

// withDefaults returns a copy of d whose unstubbed calls run the real body.
func (d *Descriptor) withDefaults() *Descriptor {
	clone := *d
	clone.Kind = KindDefaulted

	return &clone
}

// unexported constants.
const (
	defaultFuncMethod = "call"
)

// unexported variables.
var (
	//nolint:gochecknoglobals // descriptor cache shared by every engine
	descriptors sync.Map
	//nolint:gochecknoglobals // compared against every method's last result
	errorType = reflect.TypeFor[error]()
)

func describeInterface(target reflect.Type) (*Descriptor, error) {
	if target.NumMethod() == 0 {
		return nil, &UnmockableTypeError{Type: target, Reason: "interface has no methods"}
	}

	methods := make([]*MethodSpec, 0, target.NumMethod())

	for i := range target.NumMethod() {
		method := target.Method(i)
		if !method.IsExported() {
			return nil, &UnmockableTypeError{
				Type:   target,
				Reason: fmt.Sprintf("method %s is unexported and cannot be implemented outside its package", method.Name),
			}
		}

		methods = append(methods, newMethodSpec(target, method.Name, method.Type, 0))
	}

	return newDescriptor(target, KindInterface, methods), nil
}

func describeStruct(target reflect.Type) (*Descriptor, error) {
	ptr := reflect.PointerTo(target)
	if ptr.NumMethod() == 0 {
		return nil, &UnmockableTypeError{Type: target, Reason: "struct has no exported methods"}
	}

	methods := make([]*MethodSpec, 0, ptr.NumMethod())

	for i := range ptr.NumMethod() {
		method := ptr.Method(i)
		// method.Type carries the receiver as its first parameter.
		methods = append(methods, newMethodSpec(target, method.Name, method.Type, 1))
	}

	return newDescriptor(target, KindStruct, methods), nil
}

func newDescriptor(target reflect.Type, kind Kind, methods []*MethodSpec) *Descriptor {
	byName := make(map[string]*MethodSpec, len(methods))
	for _, m := range methods {
		byName[m.Name] = m
	}

	return &Descriptor{Type: target, Kind: kind, Methods: methods, byName: byName}
}

func newMethodSpec(declaring reflect.Type, name string, fn reflect.Type, skip int) *MethodSpec {
	in := make([]reflect.Type, 0, fn.NumIn()-skip)
	for i := skip; i < fn.NumIn(); i++ {
		in = append(in, fn.In(i))
	}

	out := make([]reflect.Type, 0, fn.NumOut())
	for i := range fn.NumOut() {
		out = append(out, fn.Out(i))
	}

	return &MethodSpec{
		Key:      MethodKey{Declaring: declaring, Name: name, Params: paramList(in, fn.IsVariadic())},
		Name:     name,
		In:       in,
		Out:      out,
		Variadic: fn.IsVariadic(),
	}
}

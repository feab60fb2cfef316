package core

import (
	"fmt"
	"reflect"
	"slices"
)

// Mocked is implemented by every synthesized substitute.
type Mocked interface {
	MoxyProxy() *Proxy
}

// Proxy is the handle a substitute forwards every method call to. It carries
// the substitute's identity, its descriptor, and the receiver used for
// call-through.
type Proxy struct {
	engine *Engine
	id     MockIdentity
	desc   *Descriptor
	name   string
	real   reflect.Value
}

// MockOption configures a substitute at synthesis time.
type MockOption func(*mockConfig)

// WithName sets the display name of the substitute. For func substitutes it
// is also the method name used in messages and keys.
func WithName(name string) MockOption {
	return func(c *mockConfig) { c.name = name }
}

// WithDelegate makes unstubbed calls run on delegate instead of returning
// zero values. Spies are built with it.
func WithDelegate(delegate any) MockOption {
	return func(c *mockConfig) { c.delegate = delegate }
}

// NewProxy synthesizes the proxy of a substitute for target.
func (e *Engine) NewProxy(target reflect.Type, opts ...MockOption) (*Proxy, error) {
	var cfg mockConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	desc, err := describeFor(target, cfg.name)
	if err != nil {
		e.logger.Debug("synthesis failed", "type", fmt.Sprint(target), "error", err)

		return nil, err
	}

	proxy := &Proxy{engine: e, id: newMockIdentity(), desc: desc, name: cfg.name}
	if proxy.name == "" {
		proxy.name = declaringName(desc.Type)
	}

	if desc.Kind == KindStruct {
		proxy.real = reflect.New(desc.Type)
	}

	if cfg.delegate != nil {
		real, err := delegateValue(desc, cfg.delegate)
		if err != nil {
			return nil, err
		}

		proxy.real = real
		proxy.desc = desc.withDefaults()
	}

	e.logger.Debug("synthesized mock", "type", desc.Type.String(), "kind", proxy.desc.Kind.String(),
		"id", proxy.id.String())

	return proxy, nil
}

// Invoke intercepts a call of method with args. Generated substitutes call it
// from every method body.
func (p *Proxy) Invoke(method string, args ...any) []any {
	spec := p.desc.Method(method)
	if spec == nil {
		panic(fmt.Sprintf("moxy: %s has no method %s", p.desc.Type, method))
	}

	return p.engine.intercept(p, spec, args)
}

// MoxyProxy lets a bare proxy stand in for its substitute.
func (p *Proxy) MoxyProxy() *Proxy { return p }

// ID is the identity of the substitute.
func (p *Proxy) ID() MockIdentity { return p.id }

// Engine is the engine the substitute records into.
func (p *Proxy) Engine() *Engine { return p.engine }

// Descriptor is the intercepted surface of the substitute.
func (p *Proxy) Descriptor() *Descriptor { return p.desc }

// Name is the display name of the substitute.
func (p *Proxy) Name() string { return p.name }

func (p *Proxy) String() string {
	return fmt.Sprintf("mock %s (%s)", p.name, p.id)
}

type mockConfig struct {
	name     string
	delegate any
}

func describeFor(target reflect.Type, name string) (*Descriptor, error) {
	if target != nil && target.Kind() == reflect.Func && name != "" {
		return DescribeFunc(target, name)
	}

	return Describe(target)
}

func delegateValue(desc *Descriptor, delegate any) (reflect.Value, error) {
	val := reflect.ValueOf(delegate)

	switch desc.Kind {
	case KindInterface:
		if val.Type().Implements(desc.Type) {
			return val, nil
		}
	case KindStruct:
		if val.Type() == reflect.PointerTo(desc.Type) {
			return val, nil
		}
	case KindFunc:
		if val.Type().AssignableTo(desc.Type) {
			return val, nil
		}
	case KindDefaulted:
	}

	return reflect.Value{}, &UnmockableTypeError{
		Type:   desc.Type,
		Reason: fmt.Sprintf("delegate of type %s cannot stand in for it", val.Type()),
	}
}

// callThrough runs spec on recv with args and returns the results.
func callThrough(recv reflect.Value, spec *MethodSpec, args []any) []any {
	fn := recv
	if recv.Kind() != reflect.Func {
		fn = recv.MethodByName(spec.Name)
	}

	if !fn.IsValid() {
		panic(&InvalidStubbingError{Method: spec.Signature(), Reason: "no real method to call"})
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = valueFor(arg, spec.In[i])
	}

	var out []reflect.Value
	if spec.Variadic {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}

	return results
}

func canCallThrough(recv reflect.Value, spec *MethodSpec) bool {
	if !recv.IsValid() {
		return false
	}

	if recv.Kind() == reflect.Func {
		return recv.Type().NumIn() == len(spec.In)
	}

	method := recv.MethodByName(spec.Name)

	return method.IsValid() && method.Type().NumIn() == len(spec.In) && method.Type().NumOut() == len(spec.Out)
}

// valueFor converts arg to a reflect.Value of exactly type t.
func valueFor(arg any, typ reflect.Type) reflect.Value {
	if arg == nil {
		return reflect.Zero(typ)
	}

	val := reflect.ValueOf(arg)
	if val.Type() == typ {
		return val
	}

	if val.Type().AssignableTo(typ) {
		out := reflect.New(typ).Elem()
		out.Set(val)

		return out
	}

	if convertible(val.Type(), typ) {
		return val.Convert(typ)
	}

	return val
}

// normalizeResults checks vals against the result types of spec, filling in
// zero values for nils and converting numeric literals.
func normalizeResults(spec *MethodSpec, vals []any) ([]any, error) {
	if len(vals) != len(spec.Out) {
		return nil, &InvalidStubbingError{
			Method: spec.Signature(),
			Reason: fmt.Sprintf("expected %d result values, got %d", len(spec.Out), len(vals)),
		}
	}

	out := make([]any, len(vals))

	for i, v := range vals {
		typ := spec.Out[i]
		if v == nil {
			out[i] = reflect.Zero(typ).Interface()

			continue
		}

		val := reflect.ValueOf(v)
		if !val.Type().AssignableTo(typ) && !convertible(val.Type(), typ) {
			return nil, &InvalidStubbingError{
				Method: spec.Signature(),
				Reason: fmt.Sprintf("result %d: %s is not assignable to %s", i, val.Type(), typ),
			}
		}

		if typ.Kind() == reflect.Interface {
			out[i] = v

			continue
		}

		out[i] = valueFor(v, typ).Interface()
	}

	return out, nil
}

func zeroResults(spec *MethodSpec) []any {
	out := make([]any, len(spec.Out))
	for i, typ := range spec.Out {
		out[i] = reflect.Zero(typ).Interface()
	}

	return out
}

func failResults(spec *MethodSpec, err error) []any {
	out := zeroResults(spec)
	out[len(out)-1] = err

	return out
}

func convertible(from, to reflect.Type) bool {
	return isNumeric(from.Kind()) && isNumeric(to.Kind()) && from.ConvertibleTo(to)
}

func isNumeric(k reflect.Kind) bool {
	return slices.Contains(numericKinds, k)
}

// unexported variables.
var (
	//nolint:gochecknoglobals // lookup table
	numericKinds = []reflect.Kind{
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
	}
)

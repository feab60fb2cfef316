package core

import (
	"fmt"
	"reflect"
	"sync"
)

// Factory builds a generated substitute around a proxy.
type Factory func(p *Proxy) any

// RegisterFactory makes target mockable at runtime through its generated
// substitute. Generated files call it from init.
func RegisterFactory(target reflect.Type, factory Factory) {
	factories.Store(target, factory)
}

// Synthesize produces a substitute for target: func types are built with
// reflect.MakeFunc, other types through their registered factory.
func (e *Engine) Synthesize(target reflect.Type, opts ...MockOption) (any, error) {
	if target != nil && target.Kind() == reflect.Func {
		proxy, err := e.NewProxy(target, opts...)
		if err != nil {
			return nil, err
		}

		return makeFunc(proxy).Interface(), nil
	}

	desc, err := Describe(target)
	if err != nil {
		return nil, err
	}

	if desc.Kind == KindStruct {
		return nil, &UnmockableTypeError{
			Type:   target,
			Reason: "struct types are substituted through their generated mock type, not by value",
		}
	}

	found, ok := factories.Load(target)
	if !ok {
		return nil, &UnmockableTypeError{
			Type:   target,
			Reason: fmt.Sprintf("no generated mock is registered; run moxygen for %s", target),
		}
	}

	proxy, err := e.NewProxy(target, opts...)
	if err != nil {
		return nil, err
	}

	factory, _ := found.(Factory)

	return factory(proxy), nil
}

// FuncMock is a synthesized func substitute. Fn intercepts every call.
type FuncMock[F any] struct {
	Fn F

	proxy *Proxy
}

// MoxyProxy returns the proxy Fn forwards to.
func (f *FuncMock[F]) MoxyProxy() *Proxy {
	if f == nil {
		return nil
	}

	return f.proxy
}

// NewFuncMock synthesizes a substitute for the func type F.
func NewFuncMock[F any](e *Engine, opts ...MockOption) (*FuncMock[F], error) {
	target := reflect.TypeFor[F]()
	if target.Kind() != reflect.Func {
		return nil, &UnmockableTypeError{Type: target, Reason: "not a func type"}
	}

	proxy, err := e.NewProxy(target, opts...)
	if err != nil {
		return nil, err
	}

	fn, _ := makeFunc(proxy).Interface().(F)

	return &FuncMock[F]{Fn: fn, proxy: proxy}, nil
}

// unexported variables.
var (
	//nolint:gochecknoglobals // generated substitutes register from init
	factories sync.Map
)

func makeFunc(proxy *Proxy) reflect.Value {
	spec := proxy.desc.Methods[0]

	return reflect.MakeFunc(proxy.desc.Type, func(in []reflect.Value) []reflect.Value {
		args := make([]any, len(in))
		for i, v := range in {
			args[i] = v.Interface()
		}

		results := proxy.engine.intercept(proxy, spec, args)

		out := make([]reflect.Value, len(spec.Out))
		for i, typ := range spec.Out {
			out[i] = valueFor(results[i], typ)
		}

		return out
	})
}

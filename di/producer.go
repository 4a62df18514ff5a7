/**
 * Copyright (c) 2025, The Loom Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package di

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
)

// producer is a registered source of values. Producers are created once per registration call and
// live as long as the registry holds them; their identity is their pointer.
type producer interface {
	// advertised returns the descriptor of the values this producer emits.
	advertised() Descriptor

	// mayProduce reports whether this producer may satisfy a query for the given terminal.
	mayProduce(t Terminal) bool

	// produce materializes a value, resolving any dependencies through r.
	produce(r *resolver) (interface{}, error)

	// describe renders the producer for diagnostics and resolve events.
	describe() string
}

//===----------------------------------------------------------------------------------------====//
// constProducer
//===----------------------------------------------------------------------------------------====//

// constProducer always emits the value it was registered with. Its advertised descriptor is
// derived from the value's dynamic type.
type constProducer struct {
	value interface{}
	desc  Descriptor
}

var _ producer = (*constProducer)(nil)

func newConstProducer(value interface{}) *constProducer {
	return &constProducer{
		value: value,
		desc:  DescriptorOf(value),
	}
}

func (p *constProducer) advertised() Descriptor { return p.desc }

func (p *constProducer) mayProduce(t Terminal) bool { return p.desc.Resolves(t) }

func (p *constProducer) produce(r *resolver) (interface{}, error) { return p.value, nil }

func (p *constProducer) describe() string { return fmt.Sprintf("instance(%s)", p.desc) }

//===----------------------------------------------------------------------------------------====//
// factoryProducer
//===----------------------------------------------------------------------------------------====//

// factoryParam records what a factory parameter needs from the resolver: its Go type, its
// descriptor, and whether it is variadic. A variadic parameter consumes every match of its
// element descriptor as an ordered collection rather than a single instance.
type factoryParam struct {
	typ      reflect.Type
	desc     Descriptor
	variadic bool
}

// factoryProducer invokes a user function, resolving each parameter through the container. The
// signature is inspected once, at registration time; the advertised descriptor comes from the
// declared first result.
type factoryProducer struct {
	fn     reflect.Value
	name   string
	ret    Descriptor
	params []factoryParam

	// hasErrResult is true when the factory's second result is an error.
	hasErrResult bool
}

var _ producer = (*factoryProducer)(nil)

func newFactoryProducer(fn interface{}) (*factoryProducer, error) {
	const op Op = "di.RegisterFactory"

	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, NewError(
			fmt.Sprintf("factory must be a function, got %T", fn), op, ErrKindRegistration)
	}

	ft := fv.Type()
	name := funcName(fv)

	hasErrResult := false
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorGoType {
			return nil, NewError(
				fmt.Sprintf("second result of factory %s must be an error, got %v", name, ft.Out(1)),
				op, ErrKindRegistration)
		}
		hasErrResult = true
	default:
		// Without a declared result type the container cannot know what the factory provides.
		return nil, NewError(
			fmt.Sprintf("factory %s must return exactly one value (plus an optional error)", name),
			op, ErrKindRegistration)
	}

	ret, err := TypeToDescriptor(ft.Out(0))
	if err != nil {
		return nil, NewError(
			fmt.Sprintf("result type of factory %s has no descriptor", name), op, err)
	}

	params := make([]factoryParam, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		variadic := ft.IsVariadic() && i == ft.NumIn()-1
		if variadic {
			pt = pt.Elem()
		}
		desc, err := TypeToDescriptor(pt)
		if err != nil {
			var path QueryPath
			path.AppendFactory(name)
			path.AppendParameter(i)
			return nil, NewError(
				fmt.Sprintf("parameter %d of factory %s has no descriptor", i, name), op, path, err)
		}
		params[i] = factoryParam{typ: pt, desc: desc, variadic: variadic}
	}

	return &factoryProducer{
		fn:           fv,
		name:         name,
		ret:          ret,
		params:       params,
		hasErrResult: hasErrResult,
	}, nil
}

func funcName(fv reflect.Value) string {
	if f := runtime.FuncForPC(fv.Pointer()); f != nil {
		return f.Name()
	}
	return fv.Type().String()
}

func (p *factoryProducer) advertised() Descriptor { return p.ret }

func (p *factoryProducer) mayProduce(t Terminal) bool { return p.ret.Resolves(t) }

func (p *factoryProducer) produce(r *resolver) (interface{}, error) {
	const op Op = "di.factoryProducer.produce"

	args := make([]reflect.Value, 0, len(p.params))
	for i, param := range p.params {
		if param.variadic {
			matches, err := drainSource(param.desc.instances(r))
			if err != nil {
				return nil, p.paramError(i, err)
			}
			for _, match := range matches {
				arg, err := convertToType(match, param.typ)
				if err != nil {
					return nil, p.paramError(i, err)
				}
				args = append(args, arg)
			}
			continue
		}

		value, err := param.desc.resolveSingle(r)
		if err != nil {
			return nil, p.paramError(i, err)
		}
		arg, err := convertToType(value, param.typ)
		if err != nil {
			return nil, p.paramError(i, err)
		}
		args = append(args, arg)
	}

	results := p.fn.Call(args)
	if p.hasErrResult && !results[1].IsNil() {
		var path QueryPath
		path.AppendFactory(p.name)
		return nil, NewError("factory returned an error", op, path, results[1].Interface().(error))
	}
	return results[0].Interface(), nil
}

func (p *factoryProducer) paramError(index int, err error) error {
	var path QueryPath
	path.AppendFactory(p.name)
	path.AppendParameter(index)
	return NewError(
		fmt.Sprintf("cannot resolve parameter %d of factory %s", index, p.name), path, err)
}

func (p *factoryProducer) describe() string { return p.name }

//===----------------------------------------------------------------------------------------====//
// singletonProducer
//===----------------------------------------------------------------------------------------====//

// singletonProducer wraps a factory with a fill-at-most-once memo. The memo is guarded by a lock
// scoped to this producer; a failed attempt leaves it empty so a later call may retry.
type singletonProducer struct {
	wrapped *factoryProducer

	mu     sync.Mutex
	memo   interface{}
	filled bool
}

var _ producer = (*singletonProducer)(nil)

func newSingletonProducer(wrapped *factoryProducer) *singletonProducer {
	return &singletonProducer{wrapped: wrapped}
}

func (p *singletonProducer) advertised() Descriptor { return p.wrapped.advertised() }

func (p *singletonProducer) mayProduce(t Terminal) bool { return p.wrapped.mayProduce(t) }

func (p *singletonProducer) produce(r *resolver) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filled {
		return p.memo, nil
	}
	value, err := p.wrapped.produce(r)
	if err != nil {
		return nil, err
	}
	p.memo = value
	p.filled = true
	return value, nil
}

// settleMemo replaces the memoized value with its canonical form after the resolver normalizes it
// (drained lazy sequences, placeholder-backed pointers), so that every later resolution observes
// the same identity.
func (p *singletonProducer) settleMemo(value interface{}) {
	p.mu.Lock()
	if p.filled {
		p.memo = value
	}
	p.mu.Unlock()
}

func (p *singletonProducer) describe() string { return "singleton(" + p.wrapped.describe() + ")" }

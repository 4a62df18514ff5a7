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

	"github.com/modern-go/concurrent"
	"github.com/modern-go/reflect2"
)

var (
	tupleGoType       = reflect.TypeOf(Tuple(nil))
	reflectTypeGoType = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	errorGoType       = reflect.TypeOf((*error)(nil)).Elem()
)

// descriptorCache memoizes TypeToDescriptor by type identity. The adapter is pure, so a mapping
// never changes once computed; only successful mappings are cached.
var descriptorCache = concurrent.NewMap()

// TypeToDescriptor converts a Go type into its descriptor. It is the adapter boundary between the
// host type system and the descriptor algebra:
//
//	concrete types            -> exact nominal descriptor
//	interfaces with methods   -> structural capability descriptor
//	interface{}               -> AnyType
//	[]E                       -> Sequence of E's descriptor
//	func(yield func(E) bool)  -> Stream of E's descriptor (the iter.Seq shape)
//	reflect.Type              -> type-token descriptor
//
// The function is pure and memoized by type identity. Types with no mapping (nil, or a named
// interface with an empty method set, which gives resolution nothing to verify) produce an error.
func TypeToDescriptor(t reflect.Type) (Descriptor, error) {
	const op Op = "di.TypeToDescriptor"

	if t == nil {
		return nil, NewError("cannot build a descriptor for a nil type", op, ErrKindUnsupportedType)
	}

	rtype := reflect2.Type2(t).RType()
	if cached, found := descriptorCache.Load(rtype); found {
		return cached.(Descriptor), nil
	}

	d, err := typeToDescriptor(t)
	if err != nil {
		return nil, err
	}
	descriptorCache.Store(rtype, d)
	return d, nil
}

func typeToDescriptor(t reflect.Type) (Descriptor, error) {
	switch {
	case t == tupleGoType:
		// The tuple carrier itself holds no component information; a bare Tuple registration or
		// parameter is matched nominally.
		return exact{typ: t}, nil

	case t == reflectTypeGoType:
		return TokenOf(AnyType), nil

	case t.Kind() == reflect.Interface:
		if t.NumMethod() == 0 {
			if t.Name() != "" {
				// A named marker interface carries no members to check at resolution time. This is
				// the host analog of a structural declaration without runtime checkability.
				_, err := CapabilityOfType(t)
				return nil, err
			}
			return AnyType, nil
		}
		return CapabilityOfType(t)

	case t.Kind() == reflect.Slice:
		elem, err := TypeToDescriptor(t.Elem())
		if err != nil {
			return nil, err
		}
		return SequenceOf(elem), nil

	case t.Kind() == reflect.Func:
		if elemType, ok := seqShape(t); ok {
			elem, err := TypeToDescriptor(elemType)
			if err != nil {
				return nil, err
			}
			return StreamOf(elem), nil
		}
		return exact{typ: t}, nil

	default:
		return exact{typ: t}, nil
	}
}

// DescriptorOf returns the descriptor advertised by a concrete value: nil maps to NoneType, a
// reflect.Type value to a type token, a Tuple to the product of its elements' dynamic
// descriptors, and everything else to the descriptor of its dynamic type.
func DescriptorOf(value interface{}) Descriptor {
	switch v := value.(type) {
	case nil:
		return NoneType

	case reflect.Type:
		return TokenOf(descriptorOfTypeToken(v))

	case Tuple:
		if len(v) == 0 {
			return exact{typ: tupleGoType}
		}
		components := make([]Descriptor, len(v))
		for i, item := range v {
			components[i] = DescriptorOf(item)
		}
		return TupleOf(components...)
	}

	d, err := TypeToDescriptor(reflect.TypeOf(value))
	if err != nil {
		// Dynamic types are always concrete and therefore always mappable.
		panic(fmt.Sprintf("di: no descriptor for dynamic type %T: %v", value, err))
	}
	return d
}

func descriptorOfTypeToken(t reflect.Type) Descriptor {
	if t.Kind() == reflect.Interface {
		if t.NumMethod() == 0 {
			return AnyType
		}
		return capability{iface: t}
	}
	return exact{typ: t}
}

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

import "reflect"

func goTypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Of builds the descriptor for T the same way a factory parameter of type T would be interpreted:
// interfaces with methods become capabilities, slices become sequences, iterator-shaped functions
// become streams, and everything else is the exact type. It panics when T maps to no descriptor
// (for example a named empty interface).
func Of[T any]() Descriptor {
	d, err := TypeToDescriptor(goTypeOf[T]())
	if err != nil {
		panic(err)
	}
	return d
}

// ExactOf builds the exact-type descriptor for T, bypassing the interface-to-capability mapping
// Of applies. T must not be an interface type.
func ExactOf[T any]() Terminal {
	return ExactOfType(goTypeOf[T]())
}

// CapabilityOf builds the capability descriptor for the interface type T. It panics when T is not
// an interface or declares no methods.
func CapabilityOf[T any]() Terminal {
	d, err := CapabilityOfType(goTypeOf[T]())
	if err != nil {
		panic(err)
	}
	return d
}

// OptionalOf builds a descriptor that resolves to a T when one is available and to nil otherwise.
func OptionalOf[T any]() Descriptor {
	return Optional(Of[T]())
}

// Resolve asks c for a single T.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	value, err := c.Resolve(Of[T]())
	if err != nil || value == nil {
		return zero, err
	}
	rv, err := convertToType(value, goTypeOf[T]())
	if err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container) T {
	value, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return value
}

// ResolveAll collects every T registered in c, newest registration first.
func ResolveAll[T any](c *Container) ([]T, error) {
	values, err := c.ResolveAll(Of[T]())
	if err != nil {
		return nil, err
	}
	out := make([]T, len(values))
	for i, value := range values {
		if value == nil {
			continue
		}
		rv, err := convertToType(value, goTypeOf[T]())
		if err != nil {
			return nil, err
		}
		out[i] = rv.Interface().(T)
	}
	return out, nil
}

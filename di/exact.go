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

	"github.com/botobag/loom/iterator"
)

// exact is the nominal terminal descriptor wrapping a concrete Go type. Go has no nominal
// inheritance, so an exact descriptor contains only itself; covariance across types is expressed
// structurally with capability descriptors instead.
type exact struct {
	typ reflect.Type
}

var _ Terminal = exact{}

// ExactOfType returns the terminal descriptor for a concrete Go type. It panics when given nil or
// an interface type; interface types are structural and must be described with CapabilityOfType.
func ExactOfType(t reflect.Type) Terminal {
	if t == nil {
		panic("di: ExactOfType requires a non-nil type")
	}
	if t.Kind() == reflect.Interface {
		panic(fmt.Sprintf("di: ExactOfType given interface type %v; use CapabilityOfType", t))
	}
	return exact{typ: t}
}

// GoType returns the wrapped Go type of an exact descriptor, or nil if d is not one.
func GoType(d Descriptor) reflect.Type {
	if e, ok := d.(exact); ok {
		return e.typ
	}
	return nil
}

// Contains implements Descriptor.
func (d exact) Contains(other Descriptor) bool {
	o, ok := other.(exact)
	return ok && o.typ == d.typ
}

// Resolves implements Descriptor. A producer of a concrete type satisfies a query for that type,
// for any interface the type implements, and for the wildcard.
func (d exact) Resolves(other Descriptor) bool {
	switch o := other.(type) {
	case exact:
		return o.typ == d.typ
	case capability:
		return d.typ.Implements(o.iface)
	case anyType:
		return true
	}
	return false
}

// AcceptsObject implements Descriptor.
func (d exact) AcceptsObject(value interface{}) bool {
	if value == nil {
		return false
	}
	return reflect.TypeOf(value) == d.typ
}

// TerminalForms implements Descriptor.
func (d exact) TerminalForms() []Terminal { return []Terminal{d} }

func (d exact) String() string { return d.typ.String() }

func (d exact) key() string { return "exact(" + typeKey(d.typ) + ")" }

func (d exact) resolveSingle(r *resolver) (interface{}, error) {
	value, err := r.terminalInstances(d).next()
	if err == iterator.Done {
		return nil, r.notResolvable(d)
	}
	return value, err
}

func (d exact) instances(r *resolver) instanceSource {
	return r.terminalInstances(d)
}

func (exact) terminalDescriptor() {}

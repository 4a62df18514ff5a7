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

// capability is the structural-interface terminal descriptor. A value satisfies it when the
// value's dynamic type implements the wrapped interface, independent of the type it was
// registered under.
type capability struct {
	iface reflect.Type
}

var _ Terminal = capability{}

// CapabilityOfType returns the structural descriptor for an interface type. It fails with a
// registration error when t is not an interface type, or when the interface declares no methods:
// an empty method set gives the engine nothing to verify at resolution time (the untyped
// interface{} maps to AnyType instead).
func CapabilityOfType(t reflect.Type) (Terminal, error) {
	const op Op = "di.CapabilityOfType"
	if t == nil || t.Kind() != reflect.Interface {
		return nil, NewError(
			fmt.Sprintf("capability descriptor requires an interface type, got %v", t),
			op, ErrKindRegistration)
	}
	if t.NumMethod() == 0 {
		return nil, NewError(
			fmt.Sprintf("interface %v declares no methods and cannot be verified at resolution time", t),
			op, ErrKindRegistration)
	}
	return capability{iface: t}, nil
}

// Contains implements Descriptor. A capability contains every concrete type implementing it and
// every interface whose method set includes its own.
func (d capability) Contains(other Descriptor) bool {
	switch o := other.(type) {
	case exact:
		return o.typ.Implements(d.iface)
	case capability:
		return o.iface.Implements(d.iface)
	}
	return false
}

// Resolves implements Descriptor. A producer advertising an interface type may satisfy queries
// for that interface, for any interface implied by its method set, and for the wildcard. It may
// also satisfy an exact query for a type implementing the interface: the advertisement does not
// pin the dynamic type, so matching is optimistic and produced values are filtered against the
// query before they are handed out.
func (d capability) Resolves(other Descriptor) bool {
	switch o := other.(type) {
	case exact:
		return o.typ.Implements(d.iface)
	case capability:
		return d.iface.Implements(o.iface)
	case anyType:
		return true
	}
	return false
}

// AcceptsObject implements Descriptor.
func (d capability) AcceptsObject(value interface{}) bool {
	if value == nil {
		return false
	}
	return reflect.TypeOf(value).Implements(d.iface)
}

// TerminalForms implements Descriptor.
func (d capability) TerminalForms() []Terminal { return []Terminal{d} }

func (d capability) String() string { return d.iface.String() }

func (d capability) key() string { return "capability(" + typeKey(d.iface) + ")" }

func (d capability) resolveSingle(r *resolver) (interface{}, error) {
	value, err := r.terminalInstances(d).next()
	if err == iterator.Done {
		return nil, r.notResolvable(d)
	}
	return value, err
}

func (d capability) instances(r *resolver) instanceSource {
	return r.terminalInstances(d)
}

func (capability) terminalDescriptor() {}

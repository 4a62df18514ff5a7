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
	"reflect"

	"github.com/botobag/loom/iterator"
)

// token is the type-token terminal descriptor: a query for a reflect.Type value whose described
// instances would satisfy the inner descriptor. It supports higher-order registrations, i.e.
// producers of types rather than of instances.
type token struct {
	inner Descriptor
}

var _ Terminal = token{}

// TokenOf returns the type-token descriptor over an inner descriptor. TokenOf(AnyType) matches
// every registered type token.
func TokenOf(inner Descriptor) Terminal {
	return token{inner: inner}
}

// Contains implements Descriptor.
func (d token) Contains(other Descriptor) bool {
	o, ok := other.(token)
	return ok && d.inner.Contains(o.inner)
}

// Resolves implements Descriptor.
func (d token) Resolves(other Descriptor) bool {
	switch o := other.(type) {
	case token:
		return d.inner.Resolves(o.inner) || d.inner.Contains(o.inner) || isAny(d.inner) || isAny(o.inner)
	case anyType:
		return true
	}
	return false
}

func isAny(d Descriptor) bool {
	_, ok := d.(anyType)
	return ok
}

// AcceptsObject implements Descriptor. The value itself must be a type token.
func (d token) AcceptsObject(value interface{}) bool {
	t, ok := value.(reflect.Type)
	if !ok {
		return false
	}
	switch inner := d.inner.(type) {
	case anyType:
		return true
	case exact:
		return t == inner.typ
	case capability:
		return t.Implements(inner.iface)
	}
	return false
}

// TerminalForms implements Descriptor.
func (d token) TerminalForms() []Terminal { return []Terminal{d} }

func (d token) String() string { return "Type[" + d.inner.String() + "]" }

func (d token) key() string { return "token(" + d.inner.key() + ")" }

func (d token) resolveSingle(r *resolver) (interface{}, error) {
	value, err := r.terminalInstances(d).next()
	if err == iterator.Done {
		return nil, r.notResolvable(d)
	}
	return value, err
}

func (d token) instances(r *resolver) instanceSource {
	return r.terminalInstances(d)
}

func (token) terminalDescriptor() {}

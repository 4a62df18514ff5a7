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

// A Descriptor is an immutable value describing either a type query handed to a Container or the
// output type advertised by a registered producer. Descriptors form a small algebra: nominal types
// (Exact), structural interfaces (Capability), type tokens (Token), the absence-of-value type
// (NoneType), unions, ordered collections (Sequence), lazy collections (Stream), fixed-arity
// products (tuples) and the wildcard (AnyType).
//
// Descriptors compare structurally; use Equal. They are safe for concurrent use.
type Descriptor interface {
	// Contains reports whether every value matched by other is also matched by this descriptor.
	Contains(other Descriptor) bool

	// Resolves reports whether a producer advertising this descriptor may satisfy a query for
	// other. This is the covariant counterpart of Contains; for most descriptors the two coincide.
	Resolves(other Descriptor) bool

	// AcceptsObject reports whether a concrete produced value satisfies this descriptor.
	AcceptsObject(value interface{}) bool

	// TerminalForms returns the set of leaf descriptors under which a producer advertising this
	// descriptor should be indexed by a registry. The wildcard descriptor has no terminal forms.
	TerminalForms() []Terminal

	// String renders the descriptor for diagnostics.
	String() string

	// key returns the canonical form used for structural equality and registry bucketing.
	key() string

	// resolveSingle materializes the first value satisfying this descriptor, decomposing compound
	// descriptors as needed. Fails with a NotResolvable error when no producer or decomposition
	// path matches.
	resolveSingle(r *resolver) (interface{}, error)

	// instances returns a pull-based source over every value satisfying this descriptor, in
	// newest-registration-first order.
	instances(r *resolver) instanceSource
}

// Terminal marks descriptors that can serve as registry lookup keys.
type Terminal interface {
	Descriptor

	terminalDescriptor()
}

// Equal reports whether two descriptors are structurally equal. Member order inside a union does
// not affect equality.
func Equal(a, b Descriptor) bool {
	return a.key() == b.key()
}

// typeKey returns a collision-free identity string for a Go type. reflect.Type.String alone may
// collide across packages sharing a base name.
func typeKey(t reflect.Type) string {
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.String()
}

//===----------------------------------------------------------------------------------------====//
// instanceSource
//===----------------------------------------------------------------------------------------====//

// instanceSource is the pull-based iteration protocol used during resolution. next returns
// iterator.Done after the last value. It follows the conventions documented in the iterator
// package.
type instanceSource interface {
	next() (interface{}, error)
}

// oneShotSource yields exactly one value.
type oneShotSource struct {
	value interface{}
	spent bool
}

func (s *oneShotSource) next() (interface{}, error) {
	if s.spent {
		return nil, iterator.Done
	}
	s.spent = true
	return s.value, nil
}

// concatSource chains the instance sources of multiple descriptors, constructing each lazily.
type concatSource struct {
	r       *resolver
	members []Descriptor
	current instanceSource
}

func (s *concatSource) next() (interface{}, error) {
	for {
		if s.current == nil {
			if len(s.members) == 0 {
				return nil, iterator.Done
			}
			s.current = s.members[0].instances(s.r)
			s.members = s.members[1:]
		}

		value, err := s.current.next()
		if err == iterator.Done {
			s.current = nil
			continue
		}
		return value, err
	}
}

//===----------------------------------------------------------------------------------------====//
// AnyType
//===----------------------------------------------------------------------------------------====//

// anyType is the wildcard descriptor. See AnyType.
type anyType struct{}

// AnyType matches every registered producer. It has no terminal forms and therefore cannot be
// advertised usefully by a producer; it only makes sense as a query.
var AnyType Descriptor = anyType{}

// Contains implements Descriptor.
func (anyType) Contains(other Descriptor) bool { return true }

// Resolves implements Descriptor.
func (anyType) Resolves(other Descriptor) bool { return true }

// AcceptsObject implements Descriptor.
func (anyType) AcceptsObject(value interface{}) bool { return true }

// TerminalForms implements Descriptor. The wildcard is a special case with no indexable forms.
func (anyType) TerminalForms() []Terminal { return nil }

func (anyType) String() string { return "Any" }

func (anyType) key() string { return "any" }

func (d anyType) resolveSingle(r *resolver) (interface{}, error) {
	value, err := d.instances(r).next()
	if err == iterator.Done {
		return nil, NewNotResolvableError(d)
	}
	return value, err
}

func (anyType) instances(r *resolver) instanceSource {
	return r.allInstances()
}

//===----------------------------------------------------------------------------------------====//
// NoneType
//===----------------------------------------------------------------------------------------====//

// noneType is the absence-of-value descriptor. See NoneType.
type noneType struct{}

// NoneType describes the absence of a value. It accepts untyped nil and resolves to nil without
// consulting the registry, which makes Optional queries total: Union(T, NoneType) falls back to
// nil when no producer satisfies T.
var NoneType Terminal = noneType{}

// Contains implements Descriptor.
func (noneType) Contains(other Descriptor) bool {
	_, ok := other.(noneType)
	return ok
}

// Resolves implements Descriptor.
func (d noneType) Resolves(other Descriptor) bool { return d.Contains(other) }

// AcceptsObject implements Descriptor.
func (noneType) AcceptsObject(value interface{}) bool { return value == nil }

// TerminalForms implements Descriptor.
func (d noneType) TerminalForms() []Terminal { return []Terminal{d} }

func (noneType) String() string { return "None" }

func (noneType) key() string { return "none" }

func (noneType) resolveSingle(r *resolver) (interface{}, error) { return nil, nil }

func (noneType) instances(r *resolver) instanceSource {
	return &oneShotSource{value: nil}
}

func (noneType) terminalDescriptor() {}

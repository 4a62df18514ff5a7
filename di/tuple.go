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
	"github.com/botobag/loom/internal/util"
	"github.com/botobag/loom/iterator"
)

// Tuple is the fixed-arity heterogeneous product value. Go has no tuple type, so registered and
// assembled tuples are carried as this slice type; its identity is preserved through registration
// and resolution.
type Tuple []interface{}

// tuple is the fixed-arity product descriptor. It is a terminal: a registered whole-tuple
// producer is discoverable both as the tuple itself and, through its terminal forms, as a
// provider of each component.
type tuple struct {
	components []Descriptor
}

var _ Terminal = tuple{}

// TupleOf returns the fixed-arity product descriptor over the given component descriptors.
func TupleOf(components ...Descriptor) Terminal {
	copied := make([]Descriptor, len(components))
	copy(copied, components)
	return tuple{components: copied}
}

// Contains implements Descriptor. Tuples are compared arity- and pointwise.
func (d tuple) Contains(other Descriptor) bool {
	o, ok := other.(tuple)
	if !ok || len(o.components) != len(d.components) {
		return false
	}
	for i, c := range d.components {
		if !c.Contains(o.components[i]) {
			return false
		}
	}
	return true
}

// Resolves implements Descriptor. A tuple producer satisfies a query for the whole tuple and,
// through component extraction, a query any of its components satisfies directly.
func (d tuple) Resolves(other Descriptor) bool {
	if o, ok := other.(tuple); ok && len(o.components) == len(d.components) {
		match := true
		for i, c := range d.components {
			if !c.Resolves(o.components[i]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	for _, c := range d.components {
		if c.Resolves(other) {
			return true
		}
	}
	return false
}

// AcceptsObject implements Descriptor.
func (d tuple) AcceptsObject(value interface{}) bool {
	items, ok := value.(Tuple)
	if !ok || len(items) != len(d.components) {
		return false
	}
	for i, c := range d.components {
		if !c.AcceptsObject(items[i]) {
			return false
		}
	}
	return true
}

// structural reports whether any component matches beyond its nominal key. A covariant tuple
// query has a key no registered whole tuple carries, so its candidates must be scanned.
func (d tuple) structural() bool {
	for _, c := range d.components {
		if structuralComponent(c) {
			return true
		}
	}
	return false
}

func structuralComponent(c Descriptor) bool {
	switch o := c.(type) {
	case exact, noneType:
		return false
	case sequence:
		return structuralComponent(o.elem)
	case stream:
		return structuralComponent(o.elem)
	case tuple:
		return o.structural()
	}
	return true
}

// TerminalForms implements Descriptor. A tuple contributes its components' terminals plus itself.
func (d tuple) TerminalForms() []Terminal {
	var terminals []Terminal
	for _, c := range d.components {
		terminals = append(terminals, c.TerminalForms()...)
	}
	return append(terminals, d)
}

func (d tuple) String() string {
	var b util.StringBuilder
	b.WriteString("Tuple[")
	for i, c := range d.components {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteString("]")
	return b.String()
}

func (d tuple) key() string {
	var b util.StringBuilder
	b.WriteString("tuple(")
	for i, c := range d.components {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(c.key())
	}
	b.WriteString(")")
	return b.String()
}

func (d tuple) resolveSingle(r *resolver) (interface{}, error) {
	// A whole tuple of the exact shape may have been registered.
	value, err := r.terminalInstances(d).next()
	if err == nil {
		return value, nil
	}
	if err != iterator.Done {
		return nil, err
	}

	// Otherwise assemble one from independently resolved components.
	assembled := make(Tuple, len(d.components))
	for i, c := range d.components {
		item, err := c.resolveSingle(r)
		if err != nil {
			if IsNotResolvable(err) {
				return nil, r.notResolvable(d)
			}
			return nil, err
		}
		assembled[i] = item
	}
	return assembled, nil
}

// instances implements Descriptor. Iteration covers registered whole tuples only; assembly is a
// single-resolve fallback.
func (d tuple) instances(r *resolver) instanceSource {
	return r.terminalInstances(d)
}

func (tuple) terminalDescriptor() {}

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
	"sort"

	"github.com/botobag/loom/internal/util"
)

// union is the logical OR of descriptors. Member order is significant only for resolution:
// single-resolve tries members strictly left to right and stops at the first success. Structural
// equality ignores member order.
type union struct {
	members []Descriptor
}

var _ Descriptor = union{}

// UnionOf combines descriptors into a union. A single-member union collapses to its member at
// construction time. UnionOf panics when called with no members.
func UnionOf(members ...Descriptor) Descriptor {
	if len(members) == 0 {
		panic("di: UnionOf requires at least one member")
	}
	if len(members) == 1 {
		return members[0]
	}
	copied := make([]Descriptor, len(members))
	copy(copied, members)
	return union{members: copied}
}

// Optional returns Union(d, NoneType): a query that resolves to nil instead of failing when d
// cannot be satisfied.
func Optional(d Descriptor) Descriptor {
	return UnionOf(d, NoneType)
}

// Contains implements Descriptor.
func (d union) Contains(other Descriptor) bool {
	for _, m := range d.members {
		if m.Contains(other) {
			return true
		}
	}
	return false
}

// Resolves implements Descriptor.
func (d union) Resolves(other Descriptor) bool {
	for _, m := range d.members {
		if m.Resolves(other) {
			return true
		}
	}
	return false
}

// AcceptsObject implements Descriptor.
func (d union) AcceptsObject(value interface{}) bool {
	for _, m := range d.members {
		if m.AcceptsObject(value) {
			return true
		}
	}
	return false
}

// TerminalForms implements Descriptor. A union contributes the terminal forms of each member.
func (d union) TerminalForms() []Terminal {
	var terminals []Terminal
	for _, m := range d.members {
		terminals = append(terminals, m.TerminalForms()...)
	}
	return terminals
}

func (d union) String() string {
	var b util.StringBuilder
	b.WriteString("Union[")
	for i, m := range d.members {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.String())
	}
	b.WriteString("]")
	return b.String()
}

func (d union) key() string {
	keys := make([]string, len(d.members))
	for i, m := range d.members {
		keys[i] = m.key()
	}
	// Member order must not affect equality.
	sort.Strings(keys)

	var b util.StringBuilder
	b.WriteString("union(")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(k)
	}
	b.WriteString(")")
	return b.String()
}

func (d union) resolveSingle(r *resolver) (interface{}, error) {
	for _, m := range d.members {
		value, err := m.resolveSingle(r)
		if err == nil {
			return value, nil
		}
		if !IsNotResolvable(err) {
			return nil, err
		}
	}

	names := make([]string, len(d.members))
	for i, m := range d.members {
		names[i] = m.String()
	}
	return nil, NewError(
		"container is not able to resolve "+util.OrList(names, 0, true)+"; make sure one of them is registered",
		Descriptor(d), ErrKindNotResolvable)
}

func (d union) instances(r *resolver) instanceSource {
	return &concatSource{r: r, members: append([]Descriptor(nil), d.members...)}
}

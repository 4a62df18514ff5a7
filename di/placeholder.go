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
)

// placeholder is the cycle-breaking stand-in handed to a producer whose dependency graph cycles
// back to a value still being materialized. The Go realization is pre-allocation: for a
// pointer-to-struct producer the backing struct is allocated up front and the real pointer is
// handed out immediately; when the factory finishes, its result is copied into the backing and
// the pre-allocated pointer becomes the canonical value. Every holder then shares one identity,
// and member access and field writes forward naturally.
//
// Only pointer-to-struct shapes can be pre-allocated this way; a cycle through any other shape is
// a programming error reported with ErrKindCycle.
type placeholder struct {
	ptr reflect.Value
}

func newPlaceholder(advertised Descriptor) (*placeholder, error) {
	e, ok := advertised.(exact)
	if !ok || e.typ.Kind() != reflect.Ptr || e.typ.Elem().Kind() != reflect.Struct {
		return nil, NewError(
			fmt.Sprintf("cannot break a cycle through %s: only pointer-to-struct values support placeholder references", advertised),
			ErrKindCycle)
	}
	return &placeholder{ptr: reflect.New(e.typ.Elem())}, nil
}

// ref returns the pre-allocated pointer. Field reads before the backing value is filled observe
// zero values.
func (ph *placeholder) ref() interface{} {
	return ph.ptr.Interface()
}

// fill copies the produced value into the backing struct and returns the canonical pointer.
func (ph *placeholder) fill(produced interface{}) (interface{}, error) {
	pv := reflect.ValueOf(produced)
	if !pv.IsValid() || pv.Type() != ph.ptr.Type() || pv.IsNil() {
		return nil, NewError(
			fmt.Sprintf("cyclic producer returned %v where %v was required to back its placeholder",
				reflect.TypeOf(produced), ph.ptr.Type()),
			ErrKindCycle)
	}
	ph.ptr.Elem().Set(pv.Elem())
	return ph.ref(), nil
}

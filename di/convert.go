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
	"iter"
	"reflect"
)

// convertToType shapes a resolved value into the Go type a caller declared: resolved collections
// arrive as []interface{} and resolved streams as iter.Seq[interface{}], while factory parameters
// and generic helpers want []E and iter.Seq[E]. nil (the none value) converts to the type's zero
// value.
func convertToType(value interface{}, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if t.Kind() == reflect.Slice {
		if items, ok := value.([]interface{}); ok {
			out := reflect.MakeSlice(t, len(items), len(items))
			for i, item := range items {
				cv, err := convertToType(item, t.Elem())
				if err != nil {
					return reflect.Value{}, err
				}
				out.Index(i).Set(cv)
			}
			return out, nil
		}
	}

	if _, ok := seqShape(t); ok {
		if raw, ok := value.(iter.Seq[interface{}]); ok {
			return typedSeq(raw, t), nil
		}
	}

	return reflect.Value{}, NewError(
		fmt.Sprintf("resolved value of type %T is not convertible to %v", value, t),
		ErrKindInternal)
}

// typedSeq wraps an untyped lazy sequence into a caller-declared iter.Seq[E] shape. Elements that
// fail to convert end the iteration, mirroring how a lazy consumer has no error channel.
func typedSeq(raw iter.Seq[interface{}], t reflect.Type) reflect.Value {
	return reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
		yield := args[0]
		elemType := yield.Type().In(0)
		raw(func(value interface{}) bool {
			cv, err := convertToType(value, elemType)
			if err != nil {
				return false
			}
			return yield.Call([]reflect.Value{cv})[0].Bool()
		})
		return nil
	})
}

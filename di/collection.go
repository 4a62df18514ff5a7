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
	"iter"
	"reflect"

	"github.com/botobag/loom/iterator"
)

// sequence is the eager "ordered collection of element" descriptor. A sequence query never fails:
// it materializes every matching element instance into a []interface{}, possibly empty.
type sequence struct {
	elem Descriptor
}

var _ Descriptor = sequence{}

// SequenceOf returns the ordered-collection descriptor over an element descriptor. It corresponds
// to a []E query or an advertised []E return type.
func SequenceOf(elem Descriptor) Descriptor {
	return sequence{elem: elem}
}

// Contains implements Descriptor. Containment is elementwise and only against the same collection
// kind.
func (d sequence) Contains(other Descriptor) bool {
	o, ok := other.(sequence)
	return ok && d.elem.Contains(o.elem)
}

// Resolves implements Descriptor. A collection producer may satisfy any query its elements can
// satisfy, since produced collections are flattened during filtering.
func (d sequence) Resolves(other Descriptor) bool {
	if o, ok := other.(sequence); ok {
		return d.elem.Resolves(o.elem) || d.elem.Contains(o.elem)
	}
	return d.elem.Resolves(other)
}

// AcceptsObject implements Descriptor.
func (d sequence) AcceptsObject(value interface{}) bool {
	items, ok := value.([]interface{})
	if !ok {
		return false
	}
	for _, item := range items {
		if !d.elem.AcceptsObject(item) {
			return false
		}
	}
	return true
}

// TerminalForms implements Descriptor. A collection is indexed under its element's terminals.
func (d sequence) TerminalForms() []Terminal { return d.elem.TerminalForms() }

func (d sequence) String() string { return "Sequence[" + d.elem.String() + "]" }

func (d sequence) key() string { return "sequence(" + d.elem.key() + ")" }

// resolveSingle implements Descriptor. The collection itself is the single resolved value.
func (d sequence) resolveSingle(r *resolver) (interface{}, error) {
	return drainSource(d.elem.instances(r))
}

func (d sequence) instances(r *resolver) instanceSource {
	collected, err := drainSource(d.elem.instances(r))
	if err != nil {
		return &failedSource{err: err}
	}
	return &oneShotSource{value: collected}
}

// failedSource propagates a materialization failure through the iteration protocol.
type failedSource struct {
	err error
}

func (s *failedSource) next() (interface{}, error) { return nil, s.err }

// drainSource collects every value of a source into an eager ordered collection.
func drainSource(src instanceSource) ([]interface{}, error) {
	collected := []interface{}{}
	for {
		value, err := src.next()
		if err == iterator.Done {
			return collected, nil
		}
		if err != nil {
			return nil, err
		}
		collected = append(collected, value)
	}
}

//===----------------------------------------------------------------------------------------====//
// Stream
//===----------------------------------------------------------------------------------------====//

// stream is the lazy counterpart of sequence. For matching purposes the two are equivalent; they
// differ in materialization: a stream query yields a fresh iter.Seq that pulls producers on
// demand instead of an eager collection.
type stream struct {
	elem Descriptor
}

var _ Descriptor = stream{}

// StreamOf returns the lazy-collection descriptor over an element descriptor. It corresponds to
// an iter.Seq[E] query or an advertised iter.Seq[E] return type.
func StreamOf(elem Descriptor) Descriptor {
	return stream{elem: elem}
}

// Contains implements Descriptor. Streams are iteration-compatible supersets of eager
// collections, so a stream also contains a sequence of a contained element.
func (d stream) Contains(other Descriptor) bool {
	switch o := other.(type) {
	case stream:
		return d.elem.Contains(o.elem)
	case sequence:
		return d.elem.Contains(o.elem)
	}
	return false
}

// Resolves implements Descriptor.
func (d stream) Resolves(other Descriptor) bool {
	switch o := other.(type) {
	case stream:
		return d.elem.Resolves(o.elem) || d.elem.Contains(o.elem)
	case sequence:
		return d.elem.Resolves(o.elem) || d.elem.Contains(o.elem)
	}
	return d.elem.Resolves(other)
}

// AcceptsObject implements Descriptor. A produced lazy sequence is drained into an eager
// collection before it is ever filtered, so acceptance is checked against the drained form.
func (d stream) AcceptsObject(value interface{}) bool {
	return sequence{elem: d.elem}.AcceptsObject(value)
}

// TerminalForms implements Descriptor.
func (d stream) TerminalForms() []Terminal { return d.elem.TerminalForms() }

func (d stream) String() string { return "Stream[" + d.elem.String() + "]" }

func (d stream) key() string { return "stream(" + d.elem.key() + ")" }

// resolveSingle implements Descriptor. The resolved value is a fresh lazy sequence; the session
// stays alive until the caller drops the iterator.
func (d stream) resolveSingle(r *resolver) (interface{}, error) {
	return d.lazySeq(r), nil
}

func (d stream) instances(r *resolver) instanceSource {
	return &oneShotSource{value: d.lazySeq(r)}
}

func (d stream) lazySeq(r *resolver) iter.Seq[interface{}] {
	return func(yield func(interface{}) bool) {
		src := d.elem.instances(r)
		for {
			value, err := src.next()
			if err != nil {
				// iterator.Done or a producer failure; a lazy consumer has no error channel, so
				// a failed producer simply ends the stream.
				return
			}
			if !yield(value) {
				return
			}
		}
	}
}

// seqShape reports whether t has the shape of an iter.Seq: func(yield func(E) bool). It returns
// the element type when it does.
func seqShape(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return nil, false
	}
	y := t.In(0)
	if y.Kind() != reflect.Func || y.NumIn() != 1 || y.NumOut() != 1 || y.Out(0).Kind() != reflect.Bool {
		return nil, false
	}
	return y.In(0), true
}

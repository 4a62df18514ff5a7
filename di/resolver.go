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

	"github.com/google/uuid"
)

// materialization phases of a producer within one session.
type phase uint8

const (
	phasePending phase = iota
	phaseDone
)

// sessionState tracks one producer's materialization within a session. The placeholder is
// created lazily, at the moment a cycle back to a pending producer is detected.
type sessionState struct {
	phase phase
	value interface{}
	ph    *placeholder
}

// resolver is the per-call resolution session. It caches producer results so that a producer
// materializes at most once per top-level call, and it breaks reference cycles with
// placeholders. A resolver must not be shared across goroutines; it lives for one Resolve /
// ResolveAll / IterateAll call (or, for lazy results, until the returned iterator is dropped).
type resolver struct {
	reg    *registry
	id     uuid.UUID
	states map[producer]*sessionState
}

func newResolver(reg *registry) *resolver {
	return &resolver{
		reg:    reg,
		id:     uuid.New(),
		states: make(map[producer]*sessionState),
	}
}

func (r *resolver) notResolvable(d Descriptor) error {
	return NewNotResolvableError(d)
}

// terminalInstances returns a source over every instance satisfying a terminal query, in
// newest-registration-first order, flattening produced collections along the way.
func (r *resolver) terminalInstances(t Terminal) instanceSource {
	return &terminalSource{r: r, terminal: t, producers: r.reg.query(t)}
}

// allInstances is terminalInstances for the wildcard: every producer, every leaf value.
func (r *resolver) allInstances() instanceSource {
	return &terminalSource{r: r, producers: r.reg.query(nil)}
}

// materialize obtains a producer's value for this session.
func (r *resolver) materialize(p producer) (interface{}, error) {
	if st, ok := r.states[p]; ok {
		switch st.phase {
		case phaseDone:
			return st.value, nil

		case phasePending:
			// The producer's dependency graph cycled back to itself. Hand out a placeholder
			// reference now; it is backed by the real value once produce returns.
			if st.ph == nil {
				ph, err := newPlaceholder(p.advertised())
				if err != nil {
					return nil, WrapErrorf(err, "dependency cycle through %s", p.describe())
				}
				st.ph = ph
			}
			return st.ph.ref(), nil
		}
	}

	st := &sessionState{phase: phasePending}
	r.states[p] = st

	value, err := p.produce(r)
	if err != nil {
		// Clear the pending mark so a later attempt may retry.
		delete(r.states, p)
		return nil, err
	}

	// A lazy sequence may be inspected multiple times within one resolution; it is consumed
	// exactly once here and cached in its drained form.
	value = drainIfLazy(value)

	if st.ph != nil {
		// The placeholder escaped into the object graph during produce; make it the canonical
		// value so every holder shares one identity.
		value, err = st.ph.fill(value)
		if err != nil {
			delete(r.states, p)
			return nil, err
		}
	}

	if s, ok := p.(*singletonProducer); ok {
		s.settleMemo(value)
	}

	st.phase = phaseDone
	st.value = value
	return value, nil
}

// drainIfLazy eagerly consumes an iter.Seq-shaped value into a fixed ordered collection.
func drainIfLazy(value interface{}) interface{} {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return value
	}
	if _, ok := seqShape(rv.Type()); !ok {
		return value
	}
	if rv.IsNil() {
		return []interface{}{}
	}

	collected := []interface{}{}
	yield := reflect.MakeFunc(rv.Type().In(0), func(args []reflect.Value) []reflect.Value {
		collected = append(collected, args[0].Interface())
		return []reflect.Value{reflect.ValueOf(true)}
	})
	rv.Call([]reflect.Value{yield})
	return collected
}

//===----------------------------------------------------------------------------------------====//
// terminalSource
//===----------------------------------------------------------------------------------------====//

// terminalSource iterates the instances satisfying a terminal query: producers are materialized
// one at a time as values are pulled, and each produced value is flattened through nested
// collections and filtered against the terminal. A nil terminal accepts every leaf.
type terminalSource struct {
	r         *resolver
	terminal  Terminal
	producers []producer
	queue     []interface{}
}

func (s *terminalSource) next() (interface{}, error) {
	for {
		if len(s.queue) > 0 {
			value := s.queue[0]
			s.queue = s.queue[1:]
			return value, nil
		}

		if len(s.producers) == 0 {
			return nil, iterator.Done
		}
		p := s.producers[0]
		s.producers = s.producers[1:]

		value, err := s.r.materialize(p)
		if err != nil {
			return nil, err
		}
		s.queue = appendMatches(s.queue, value, s.terminal)
	}
}

// appendMatches implements the flatten rule: a produced value is walked recursively through any
// collection wrapper until a leaf is found that satisfies the terminal (or, for the wildcard, any
// leaf at all).
func appendMatches(out []interface{}, value interface{}, t Terminal) []interface{} {
	if t != nil {
		if t.AcceptsObject(value) {
			return append(out, value)
		}
	} else if !isCollection(value) {
		return append(out, value)
	}

	rv := reflect.ValueOf(value)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		for i := 0; i < rv.Len(); i++ {
			out = appendMatches(out, rv.Index(i).Interface(), t)
		}
	}
	return out
}

func isCollection(value interface{}) bool {
	rv := reflect.ValueOf(value)
	return rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array)
}

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

import "sync"

// registry is the append-only, insertion-ordered collection of producers. Producers are indexed
// under every terminal form of their advertised descriptor; structural terminals (capabilities
// and type tokens) cannot be matched against nominal bucket keys, so queries for them scan the
// whole list instead, and a registered producer that only advertises structural or wildcard
// forms moves nominal queries onto the same scan path. Query order is newest-first: later
// registrations shadow earlier ones for the same type.
//
// add and query are serialized so the container can be shared by a multi-threaded host.
type registry struct {
	mu sync.RWMutex

	// Registration order; never compacted.
	producers []producer

	// terminal key -> producers advertising that terminal, in registration order.
	buckets map[string][]producer

	// Number of producers nominal bucket lookups cannot see: those advertising structural
	// element terminals (capabilities) or wildcard elements with no terminal forms at all.
	// While any are registered, nominal queries fall back to scanning the registration list.
	nonIndexable int

	// Human renderings of known terminals, for "did you mean" diagnostics.
	termNames map[string]string
}

func newRegistry() *registry {
	return &registry{
		buckets:   make(map[string][]producer),
		termNames: make(map[string]string),
	}
}

func (reg *registry) add(p producer) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.producers = append(reg.producers, p)

	forms := p.advertised().TerminalForms()
	indexable := len(forms) > 0
	for _, t := range forms {
		k := t.key()
		reg.buckets[k] = append(reg.buckets[k], p)
		reg.termNames[k] = t.String()
		if _, ok := t.(capability); ok {
			indexable = false
		}
	}
	if !indexable {
		reg.nonIndexable++
	}
}

// query returns the candidate producers for a terminal query in most-recently-registered-first
// order. Bucket hits are re-checked with mayProduce to reject collisions; a nil terminal stands
// for the wildcard and returns every producer.
func (reg *registry) query(t Terminal) []producer {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	var candidates []producer
	if t == nil {
		candidates = reg.producers
	} else {
		switch o := t.(type) {
		case capability, token:
			candidates = reg.producers
		case tuple:
			if o.structural() || reg.nonIndexable > 0 {
				candidates = reg.producers
			} else {
				candidates = reg.buckets[t.key()]
			}
		default:
			if reg.nonIndexable > 0 {
				candidates = reg.producers
			} else {
				candidates = reg.buckets[t.key()]
			}
		}
	}

	matched := make([]producer, 0, len(candidates))
	for i := len(candidates) - 1; i >= 0; i-- {
		p := candidates[i]
		if t == nil || p.mayProduce(t) {
			matched = append(matched, p)
		}
	}
	return matched
}

// knownTerminals returns the renderings of every terminal the registry has indexed, for
// suggestion diagnostics.
func (reg *registry) knownTerminals() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.termNames))
	for _, name := range reg.termNames {
		names = append(names, name)
	}
	return names
}

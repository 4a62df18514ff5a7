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
	"sync"

	"github.com/botobag/loom/internal/util"
	"github.com/botobag/loom/iterator"
	"github.com/google/uuid"
)

// A ResolveEvent describes one completed top-level resolution. Session identifies the resolution
// pass that produced the value; two events with the same Session share one instance cache.
type ResolveEvent struct {
	// Session is the unique id of the resolution pass.
	Session uuid.UUID

	// Query is the descriptor that was asked for.
	Query Descriptor

	// Value is what the query resolved to. For ResolveAll this is the collected []interface{}.
	Value interface{}
}

// Container owns a set of registered producers and answers queries against them. A Container is
// safe for concurrent use. The zero value is not usable; call New.
//
// Every Container registers itself on creation, so factories may declare a *Container parameter to
// receive the container they were registered with.
type Container struct {
	reg *registry

	mu           sync.RWMutex
	afterResolve []func(ResolveEvent)
}

// New creates an empty Container and registers the container itself as an instance.
func New() *Container {
	c := &Container{
		reg: newRegistry(),
	}
	c.RegisterInstance(c)
	return c
}

// RegisterInstance registers an already-built value. The value is advertised under the descriptor
// derived from it (see DescriptorOf) and is returned as-is on every resolution.
//
// Later registrations shadow earlier ones for single-value queries; collection queries see all of
// them, newest first.
func (c *Container) RegisterInstance(value interface{}) {
	c.reg.add(newConstProducer(value))
}

// RegisterFactory registers a function whose return type determines what it provides. The
// function must return one value, optionally followed by an error. Its parameters are resolved
// from the container each time the factory runs; a new value is produced for every resolution
// session.
func (c *Container) RegisterFactory(fn interface{}) error {
	p, err := newFactoryProducer(fn)
	if err != nil {
		return err
	}
	c.reg.add(p)
	return nil
}

// MustRegisterFactory is like RegisterFactory but panics on error. It is intended for
// registrations made at program setup time with statically known factories.
func (c *Container) MustRegisterFactory(fn interface{}) {
	if err := c.RegisterFactory(fn); err != nil {
		panic(err)
	}
}

// RegisterSingletonFactory registers a factory that runs at most once. The first successful
// production is cached in the container and shared by all later resolutions, across sessions. A
// failed production is not cached and the factory is retried on the next query.
func (c *Container) RegisterSingletonFactory(fn interface{}) error {
	p, err := newFactoryProducer(fn)
	if err != nil {
		return err
	}
	c.reg.add(newSingletonProducer(p))
	return nil
}

// MustRegisterSingletonFactory is like RegisterSingletonFactory but panics on error.
func (c *Container) MustRegisterSingletonFactory(fn interface{}) {
	if err := c.RegisterSingletonFactory(fn); err != nil {
		panic(err)
	}
}

// AfterResolve installs a callback invoked after every successful top-level Resolve or ResolveAll.
// Callbacks run synchronously on the resolving goroutine, in registration order.
func (c *Container) AfterResolve(callback func(ResolveEvent)) {
	c.mu.Lock()
	c.afterResolve = append(c.afterResolve, callback)
	c.mu.Unlock()
}

// Resolve answers query with a single value, running factories as needed. Values produced while
// answering are cached for the duration of the call, so a dependency shared by two factories is
// built once.
func (c *Container) Resolve(query Descriptor) (interface{}, error) {
	r := newResolver(c.reg)
	value, err := query.resolveSingle(r)
	if err != nil {
		return nil, c.decorateNotResolvable(query, err)
	}
	c.fireResolved(r, query, value)
	return value, nil
}

// ResolveAll collects every value that answers query, newest registration first. Registered
// collections matching the element type are flattened into the result. An empty result is not an
// error.
func (c *Container) ResolveAll(query Descriptor) ([]interface{}, error) {
	r := newResolver(c.reg)
	values, err := drainSource(query.instances(r))
	if err != nil {
		return nil, err
	}
	c.fireResolved(r, query, values)
	return values, nil
}

// IterateAll returns an iterator over every value that answers query, produced lazily as the
// iterator advances. All values share one resolution session.
func (c *Container) IterateAll(query Descriptor) *InstanceIter {
	r := newResolver(c.reg)
	return &InstanceIter{
		src: query.instances(r),
	}
}

// An InstanceIter walks resolved instances one at a time. Producers only run as the iterator
// advances, so an erroring factory late in the registry does not prevent seeing the values before
// it.
type InstanceIter struct {
	src instanceSource
}

// Next returns the next resolved instance. It returns iterator.Done when the iteration ends.
func (it *InstanceIter) Next() (interface{}, error) {
	value, err := it.src.next()
	if err == iterator.Done {
		return nil, iterator.Done
	}
	return value, err
}

func (c *Container) fireResolved(r *resolver, query Descriptor, value interface{}) {
	c.mu.RLock()
	callbacks := c.afterResolve
	c.mu.RUnlock()
	if len(callbacks) == 0 {
		return
	}
	event := ResolveEvent{
		Session: r.id,
		Query:   query,
		Value:   value,
	}
	for _, callback := range callbacks {
		callback(event)
	}
}

// decorateNotResolvable augments a not-resolvable failure for a terminal query with suggestions
// drawn from the registered terminal names.
func (c *Container) decorateNotResolvable(query Descriptor, err error) error {
	if !IsNotResolvable(err) {
		return err
	}
	if _, ok := query.(Terminal); !ok {
		return err
	}

	suggestions := util.SuggestionList(query.String(), c.reg.knownTerminals())
	if len(suggestions) == 0 {
		return err
	}

	message := "did you mean " + util.OrList(suggestions, 5, true) + "?"
	return NewError(message, query, err)
}

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

package di_test

import (
	"errors"
	"reflect"

	"github.com/botobag/loom/di"
	"github.com/botobag/loom/internal/testutil"
	"github.com/botobag/loom/iterator"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type appleCrate struct {
	count int
}

type appleCrates struct{}

var _ = Describe("Container", func() {
	var c *di.Container

	BeforeEach(func() {
		c = di.New()
	})

	Describe("RegisterInstance", func() {
		It("resolves a registered value by its exact type", func() {
			c.RegisterInstance(door{name: "front"})
			value, err := c.Resolve(di.ExactOf[door]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(door{name: "front"}))
		})

		It("registers the dynamic type, not the static one", func() {
			var p portal = door{name: "front"}
			c.RegisterInstance(p)

			value, err := c.Resolve(di.ExactOf[door]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(door{name: "front"}))
		})

		It("lets the newest registration win", func() {
			c.RegisterInstance(door{name: "first"})
			c.RegisterInstance(door{name: "second"})

			value, err := c.Resolve(di.ExactOf[door]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(door{name: "second"}))
		})

		It("registers the container itself", func() {
			Expect(di.MustResolve[*di.Container](c)).Should(BeIdenticalTo(c))
		})
	})

	Describe("Resolve", func() {
		It("resolves structural queries against any implementing registration", func() {
			c.RegisterInstance(door{name: "front"})

			value, err := c.Resolve(di.CapabilityOf[portal]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(door{name: "front"}))
		})

		It("fails with a not-resolvable error for an unknown type", func() {
			_, err := c.Resolve(di.ExactOf[door]())
			Expect(err).Should(HaveOccurred())
			Expect(di.IsNotResolvable(err)).Should(BeTrue())
		})

		It("suggests similarly named registrations", func() {
			c.RegisterInstance(appleCrate{})

			_, err := c.Resolve(di.ExactOf[appleCrates]())
			Expect(di.IsNotResolvable(err)).Should(BeTrue())
			Expect(err).Should(testutil.MatchResolveError(
				testutil.MessageContainSubstring(`did you mean "di_test.appleCrate"?`),
			))
		})

		It("tries union members left to right", func() {
			c.RegisterInstance(door{name: "front"})
			c.RegisterInstance(wall{})

			value, err := c.Resolve(di.UnionOf(di.ExactOf[wall](), di.ExactOf[door]()))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(wall{}))

			value, err = c.Resolve(di.UnionOf(di.ExactOf[vault](), di.ExactOf[door]()))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(door{name: "front"}))
		})

		It("fails a union when every member is exhausted", func() {
			_, err := c.Resolve(di.UnionOf(di.ExactOf[vault](), di.ExactOf[wall]()))
			Expect(di.IsNotResolvable(err)).Should(BeTrue())
			Expect(err).Should(testutil.MatchResolveError(
				testutil.MessageEqual(`container is not able to resolve "di_test.vault" or ` +
					`"di_test.wall"; make sure one of them is registered`),
			))
		})

		It("resolves an optional query to nil when the member is unknown", func() {
			value, err := c.Resolve(di.OptionalOf[door]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(BeNil())
		})

		It("resolves a sequence query to every match, even when empty", func() {
			value, err := c.Resolve(di.SequenceOf(di.ExactOf[door]()))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal([]interface{}{}))
		})

		It("extracts components from a registered tuple", func() {
			c.RegisterInstance(di.Tuple{door{name: "front"}, wall{}})

			value, err := c.Resolve(di.ExactOf[wall]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(wall{}))
		})

		It("prefers a registered whole tuple over assembly", func() {
			c.RegisterInstance(door{name: "loose"})
			c.RegisterInstance(wall{})
			c.RegisterInstance(di.Tuple{door{name: "paired"}, wall{}})

			value, err := c.Resolve(di.TupleOf(di.ExactOf[door](), di.ExactOf[wall]()))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(di.Tuple{door{name: "paired"}, wall{}}))
		})

		It("prefers a registered whole tuple for covariant component queries", func() {
			c.RegisterInstance(di.Tuple{door{name: "paired"}, vault{}})
			c.RegisterInstance(door{name: "loose"})

			value, err := c.Resolve(di.TupleOf(di.CapabilityOf[portal](), di.CapabilityOf[lockable]()))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(di.Tuple{door{name: "paired"}, vault{}}))
		})

		It("assembles a tuple from independent registrations", func() {
			c.RegisterInstance(door{name: "loose"})
			c.RegisterInstance(wall{})

			value, err := c.Resolve(di.TupleOf(di.ExactOf[door](), di.ExactOf[wall]()))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(di.Tuple{door{name: "loose"}, wall{}}))
		})

		It("fails tuple assembly when a component is unknown", func() {
			c.RegisterInstance(door{name: "loose"})

			_, err := c.Resolve(di.TupleOf(di.ExactOf[door](), di.ExactOf[wall]()))
			Expect(di.IsNotResolvable(err)).Should(BeTrue())
		})

		It("resolves registered type tokens", func() {
			c.RegisterInstance(reflect.TypeOf(door{}))

			value, err := di.Resolve[reflect.Type](c)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(reflect.TypeOf(door{})))

			tokenValue, err := c.Resolve(di.TokenOf(di.CapabilityOf[portal]()))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(tokenValue).Should(Equal(reflect.TypeOf(door{})))
		})
	})

	Describe("ResolveAll", func() {
		It("collects matches newest first", func() {
			c.RegisterInstance(door{name: "first"})
			c.RegisterInstance(door{name: "second"})

			values, err := c.ResolveAll(di.ExactOf[door]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(values).Should(Equal([]interface{}{
				door{name: "second"},
				door{name: "first"},
			}))
		})

		It("flattens registered collections into element queries", func() {
			c.RegisterInstance([]door{{name: "a"}, {name: "b"}})
			c.RegisterInstance(door{name: "c"})

			values, err := c.ResolveAll(di.ExactOf[door]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(values).Should(Equal([]interface{}{
				door{name: "c"},
				door{name: "a"},
				door{name: "b"},
			}))
		})

		It("flattens collections beneath the wildcard down to leaves", func() {
			c.RegisterInstance([]door{{name: "a"}, {name: "b"}})

			values, err := c.ResolveAll(di.AnyType)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(values).Should(HaveLen(3))
			Expect(values[0]).Should(Equal(door{name: "a"}))
			Expect(values[1]).Should(Equal(door{name: "b"}))
			Expect(values[2]).Should(BeIdenticalTo(c))
		})

		It("collects structural matches across unrelated registrations", func() {
			c.RegisterInstance(door{name: "front"})
			c.RegisterInstance(wall{})
			c.RegisterInstance(vault{})

			values, err := c.ResolveAll(di.CapabilityOf[portal]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(values).Should(Equal([]interface{}{vault{}, door{name: "front"}}))
		})

		It("returns an empty collection for an unknown type", func() {
			values, err := c.ResolveAll(di.ExactOf[door]())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(values).Should(BeEmpty())
		})

		It("supports the typed helper", func() {
			c.RegisterInstance(door{name: "a"})
			c.RegisterInstance(door{name: "b"})

			doors, err := di.ResolveAll[door](c)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(doors).Should(Equal([]door{{name: "b"}, {name: "a"}}))
		})
	})

	Describe("IterateAll", func() {
		It("walks matches one at a time", func() {
			c.RegisterInstance(door{name: "a"})
			c.RegisterInstance(door{name: "b"})

			iter := c.IterateAll(di.ExactOf[door]())

			value, err := iter.Next()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(door{name: "b"}))

			value, err = iter.Next()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(door{name: "a"}))

			_, err = iter.Next()
			Expect(err).Should(BeIdenticalTo(iterator.Done))
		})

		It("yields values registered before a failing factory", func() {
			c.MustRegisterFactory(func() (door, error) {
				return door{}, errors.New("hinges missing")
			})
			c.RegisterInstance(door{name: "solid"})

			iter := c.IterateAll(di.ExactOf[door]())

			value, err := iter.Next()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(door{name: "solid"}))

			_, err = iter.Next()
			Expect(err).Should(HaveOccurred())
			Expect(err).ShouldNot(BeIdenticalTo(iterator.Done))
		})
	})

	Describe("AfterResolve", func() {
		It("notifies callbacks about completed resolutions", func() {
			c.RegisterInstance(door{name: "front"})

			var events []di.ResolveEvent
			c.AfterResolve(func(event di.ResolveEvent) {
				events = append(events, event)
			})

			_, err := c.Resolve(di.ExactOf[door]())
			Expect(err).ShouldNot(HaveOccurred())

			Expect(events).Should(HaveLen(1))
			Expect(events[0].Session).ShouldNot(Equal(uuid.Nil))
			Expect(di.Equal(events[0].Query, di.ExactOf[door]())).Should(BeTrue())
			Expect(events[0].Value).Should(Equal(door{name: "front"}))
		})

		It("assigns a fresh session to every top-level call", func() {
			c.RegisterInstance(door{name: "front"})

			var sessions []uuid.UUID
			c.AfterResolve(func(event di.ResolveEvent) {
				sessions = append(sessions, event.Session)
			})

			_, err := c.Resolve(di.ExactOf[door]())
			Expect(err).ShouldNot(HaveOccurred())
			_, err = c.Resolve(di.ExactOf[door]())
			Expect(err).ShouldNot(HaveOccurred())

			Expect(sessions).Should(HaveLen(2))
			Expect(sessions[0]).ShouldNot(Equal(sessions[1]))
		})

		It("does not fire on failed resolutions", func() {
			fired := false
			c.AfterResolve(func(di.ResolveEvent) { fired = true })

			_, err := c.Resolve(di.ExactOf[door]())
			Expect(err).Should(HaveOccurred())
			Expect(fired).Should(BeFalse())
		})
	})
})

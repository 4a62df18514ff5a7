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
	"fmt"
	"iter"
	"strings"

	"github.com/botobag/loom/di"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// Fixtures for factory and cycle tests.
type hinge struct{}

type builtDoor struct {
	hinges []hinge
	label  string
}

type houseService struct {
	door *doorService
}

type doorService struct {
	house *houseService
}

type roomSpec struct{}

type floorSpec struct{}

var _ = Describe("Factory resolution", func() {
	var c *di.Container

	BeforeEach(func() {
		c = di.New()
	})

	It("runs the factory with resolved parameters", func() {
		c.RegisterInstance(hinge{})
		c.MustRegisterFactory(func(h hinge) builtDoor {
			return builtDoor{hinges: []hinge{h}, label: "hung"}
		})

		value, err := di.Resolve[builtDoor](c)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(value).Should(Equal(builtDoor{hinges: []hinge{{}}, label: "hung"}))
	})

	It("produces a fresh value per resolution call", func() {
		calls := 0
		c.MustRegisterFactory(func() builtDoor {
			calls++
			return builtDoor{}
		})

		_, err := c.Resolve(di.ExactOf[builtDoor]())
		Expect(err).ShouldNot(HaveOccurred())
		_, err = c.Resolve(di.ExactOf[builtDoor]())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(calls).Should(Equal(2))
	})

	It("materializes a shared dependency once within one call", func() {
		calls := 0
		c.MustRegisterFactory(func() hinge {
			calls++
			return hinge{}
		})
		c.MustRegisterFactory(func(a hinge, b hinge) builtDoor {
			return builtDoor{hinges: []hinge{a, b}}
		})

		_, err := c.Resolve(di.ExactOf[builtDoor]())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(calls).Should(Equal(1))
	})

	It("receives every registered match through a slice parameter", func() {
		c.RegisterInstance(hinge{})
		c.RegisterInstance(hinge{})
		c.MustRegisterFactory(func(hinges []hinge) builtDoor {
			return builtDoor{hinges: hinges}
		})

		value, err := di.Resolve[builtDoor](c)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(value.hinges).Should(HaveLen(2))
	})

	It("receives every registered match through a variadic parameter", func() {
		c.RegisterInstance(hinge{})
		c.RegisterInstance(hinge{})
		c.RegisterInstance(hinge{})
		c.MustRegisterFactory(func(label string, hinges ...hinge) builtDoor {
			return builtDoor{hinges: hinges, label: label}
		})
		c.RegisterInstance("back")

		value, err := di.Resolve[builtDoor](c)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(value.label).Should(Equal("back"))
		Expect(value.hinges).Should(HaveLen(3))
	})

	It("reports the resolution path when a parameter is unknown", func() {
		c.MustRegisterFactory(func(h hinge) builtDoor {
			return builtDoor{hinges: []hinge{h}}
		})

		_, err := c.Resolve(di.ExactOf[builtDoor]())
		Expect(err).Should(HaveOccurred())
		Expect(di.IsNotResolvable(err)).Should(BeTrue())
		Expect(err.Error()).Should(ContainSubstring("cannot resolve parameter 0"))
	})

	It("wraps an error returned by the factory", func() {
		c.MustRegisterFactory(func() (builtDoor, error) {
			return builtDoor{}, errors.New("no wood left")
		})

		_, err := c.Resolve(di.ExactOf[builtDoor]())
		Expect(err).Should(HaveOccurred())
		Expect(err.Error()).Should(ContainSubstring("no wood left"))
		Expect(di.IsNotResolvable(err)).Should(BeFalse())
	})

	It("rejects non-function registrations", func() {
		err := c.RegisterFactory(42)
		Expect(di.IsRegistrationError(err)).Should(BeTrue())
	})

	It("rejects factories without a declared result", func() {
		err := c.RegisterFactory(func() {})
		Expect(di.IsRegistrationError(err)).Should(BeTrue())

		err = c.RegisterFactory(func() (int, string) { return 0, "" })
		Expect(di.IsRegistrationError(err)).Should(BeTrue())
	})

	It("rejects factories whose parameters have no descriptor", func() {
		err := c.RegisterFactory(func(marker) builtDoor { return builtDoor{} })
		Expect(di.IsRegistrationError(err)).Should(BeTrue())
	})

	It("panics through the Must variant", func() {
		Expect(func() { c.MustRegisterFactory(42) }).Should(Panic())
	})
})

var _ = Describe("Singleton resolution", func() {
	var c *di.Container

	BeforeEach(func() {
		c = di.New()
	})

	It("runs the factory at most once across calls", func() {
		calls := 0
		c.MustRegisterSingletonFactory(func() *builtDoor {
			calls++
			return &builtDoor{label: "unique"}
		})

		first, err := di.Resolve[*builtDoor](c)
		Expect(err).ShouldNot(HaveOccurred())
		second, err := di.Resolve[*builtDoor](c)
		Expect(err).ShouldNot(HaveOccurred())

		Expect(calls).Should(Equal(1))
		Expect(first).Should(BeIdenticalTo(second))
	})

	It("retries after a failed production", func() {
		calls := 0
		c.MustRegisterSingletonFactory(func() (*builtDoor, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("warming up")
			}
			return &builtDoor{}, nil
		})

		_, err := di.Resolve[*builtDoor](c)
		Expect(err).Should(HaveOccurred())

		value, err := di.Resolve[*builtDoor](c)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(value).ShouldNot(BeNil())
		Expect(calls).Should(Equal(2))
	})
})

var _ = Describe("Cycle resolution", func() {
	var c *di.Container

	BeforeEach(func() {
		c = di.New()
	})

	It("closes a two-party reference cycle with one shared identity", func() {
		c.MustRegisterFactory(func(d *doorService) *houseService {
			return &houseService{door: d}
		})
		c.MustRegisterFactory(func(h *houseService) *doorService {
			return &doorService{house: h}
		})

		house, err := di.Resolve[*houseService](c)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(house.door).ShouldNot(BeNil())
		Expect(house.door.house).Should(BeIdenticalTo(house))
	})

	It("closes a self-referential cycle", func() {
		c.MustRegisterFactory(func(h *houseService) *houseService {
			return &houseService{}
		})

		house, err := di.Resolve[*houseService](c)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(house).ShouldNot(BeNil())
	})

	It("fails cycles through non-pointer values", func() {
		c.MustRegisterFactory(func(floorSpec) roomSpec { return roomSpec{} })
		c.MustRegisterFactory(func(roomSpec) floorSpec { return floorSpec{} })

		_, err := c.Resolve(di.ExactOf[roomSpec]())
		Expect(err).Should(HaveOccurred())
		Expect(di.IsCycleError(err)).Should(BeTrue())
	})
})

var _ = Describe("Stream resolution", func() {
	var c *di.Container

	BeforeEach(func() {
		c = di.New()
	})

	It("yields matches lazily through an iter.Seq query", func() {
		c.RegisterInstance(door{name: "a"})
		c.RegisterInstance(door{name: "b"})

		seq, err := di.Resolve[iter.Seq[door]](c)
		Expect(err).ShouldNot(HaveOccurred())

		var names []string
		for d := range seq {
			names = append(names, d.name)
		}
		Expect(names).Should(Equal([]string{"b", "a"}))
	})

	It("stops early when the consumer does", func() {
		calls := 0
		c.MustRegisterFactory(func() door {
			calls++
			return door{name: "factory"}
		})
		c.RegisterInstance(door{name: "instance"})

		seq, err := di.Resolve[iter.Seq[door]](c)
		Expect(err).ShouldNot(HaveOccurred())

		for range seq {
			break
		}
		// The newest registration is the plain instance; the factory never ran.
		Expect(calls).Should(Equal(0))
	})

	It("drains a lazy factory result exactly once per call", func() {
		calls := 0
		c.MustRegisterFactory(func() iter.Seq[string] {
			return func(yield func(string) bool) {
				calls++
				if !yield("a") {
					return
				}
				yield("b")
			}
		})
		c.MustRegisterFactory(func(first []string, second []string) builtDoor {
			return builtDoor{label: strings.Join(first, "") + strings.Join(second, "")}
		})

		value, err := di.Resolve[builtDoor](c)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(value.label).Should(Equal("abab"))
		Expect(calls).Should(Equal(1))
	})

	It("flattens a drained lazy result into element queries", func() {
		c.MustRegisterFactory(func() iter.Seq[string] {
			return func(yield func(string) bool) {
				if !yield("x") {
					return
				}
				yield("y")
			}
		})

		values, err := c.ResolveAll(di.ExactOf[string]())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(values).Should(Equal([]interface{}{"x", "y"}))
	})

	It("partitions a mixed lazy result by element type", func() {
		calls := 0
		c.MustRegisterFactory(func() iter.Seq[portal] {
			return func(yield func(portal) bool) {
				calls++
				if !yield(door{name: "a"}) {
					return
				}
				if !yield(vault{}) {
					return
				}
				yield(door{name: "b"})
			}
		})
		c.MustRegisterFactory(func(doors []door, vaults []vault) builtDoor {
			return builtDoor{label: fmt.Sprintf("%d/%d", len(doors), len(vaults))}
		})

		value, err := di.Resolve[builtDoor](c)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(value.label).Should(Equal("2/1"))
		Expect(calls).Should(Equal(1))
	})
})

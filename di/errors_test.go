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

	"github.com/botobag/loom/di"
	"github.com/botobag/loom/internal/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Error", func() {
	It("builds from typed arguments", func() {
		err := di.NewError("something broke", di.Op("di.Resolve"), di.ErrKindInternal)
		Expect(err).Should(testutil.MatchResolveError(
			testutil.MessageEqual("something broke"),
			testutil.KindIs(di.ErrKindInternal),
		))
		Expect(err.Error()).Should(Equal("di.Resolve: something broke: internal error"))
	})

	It("carries the failed query", func() {
		err := di.NewNotResolvableError(di.ExactOf[door]())
		Expect(err).Should(testutil.MatchResolveError(
			testutil.MessageContainSubstring("not able to resolve"),
			testutil.KindIs(di.ErrKindNotResolvable),
			testutil.QueryStringEqual("di_test.door"),
		))
		Expect(di.IsNotResolvable(err)).Should(BeTrue())
	})

	It("propagates query, path and kind from the wrapped error", func() {
		inner := di.NewNotResolvableError(di.ExactOf[door]())
		err := di.WrapError(inner, "cannot build the house")
		Expect(err).Should(testutil.MatchResolveError(
			testutil.MessageEqual("cannot build the house"),
			testutil.KindIs(di.ErrKindNotResolvable),
			testutil.QueryStringEqual("di_test.door"),
		))
		Expect(di.IsNotResolvable(err)).Should(BeTrue())
	})

	It("unwraps to the underlying error", func() {
		cause := errors.New("disk on fire")
		err := di.WrapErrorf(cause, "factory %s exploded", "buildDoor")
		Expect(errors.Unwrap(err)).Should(BeIdenticalTo(cause))
		Expect(err.Error()).Should(Equal("factory buildDoor exploded: disk on fire"))
	})

	It("cascades wrapped errors onto indented lines", func() {
		inner := di.NewError("inner detail")
		err := di.WrapError(inner, "outer context")
		Expect(err.Error()).Should(Equal("outer context:\n  inner detail"))
	})

	It("suppresses a kind already printed by the outer error", func() {
		inner := di.NewError("inner detail", di.ErrKindCycle)
		err := di.NewError("outer context", di.ErrKindCycle, inner)
		Expect(err.Error()).Should(Equal("outer context: cycle error:\n  inner detail"))
	})

	It("serializes to JSON", func() {
		var path di.QueryPath
		path.AppendFactory("buildDoor")
		path.AppendParameter(0)

		err := di.NewError("bad door", di.ExactOf[door](), path, di.ErrKindNotResolvable)
		Expect(err).Should(testutil.SerializeToJSONAs(map[string]interface{}{
			"message": "bad door",
			"kind":    "not resolvable",
			"query":   "di_test.door",
			"path":    []interface{}{"buildDoor", float64(0)},
		}))
	})
})

var _ = Describe("QueryPath", func() {
	It("renders factory names and parameter positions", func() {
		var path di.QueryPath
		Expect(path.Empty()).Should(BeTrue())
		Expect(path.String()).Should(BeEmpty())

		path.AppendFactory("buildHouse")
		path.AppendParameter(1)
		path.AppendFactory("buildDoor")
		path.AppendParameter(0)
		Expect(path.Empty()).Should(BeFalse())
		Expect(path.String()).Should(Equal("buildHouse[1].buildDoor[0]"))
	})

	It("clones deeply", func() {
		var path di.QueryPath
		path.AppendFactory("buildHouse")

		clone := path.Clone()
		path.AppendParameter(2)
		Expect(clone.String()).Should(Equal("buildHouse"))
		Expect(path.String()).Should(Equal("buildHouse[2]"))
	})

	It("serializes to a JSON array", func() {
		var path di.QueryPath
		path.AppendFactory("buildHouse")
		path.AppendParameter(1)
		Expect(&path).Should(testutil.SerializeToJSONAs([]interface{}{"buildHouse", float64(1)}))
	})
})

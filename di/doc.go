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

// Package di implements a typed service-location and dependency-assembly engine. Values and
// factory functions are registered into a Container and later resolved by type query.
//
// Queries and advertised outputs are both expressed as descriptors (see Descriptor), a small
// algebra over Go types: concrete types match nominally, interfaces match structurally by method
// set, and compound descriptors (unions, collections, streams, tuples, type tokens) decompose in
// terms of their parts. Factories declare their dependencies as ordinary function parameters and
// the container assembles the graph, caching each produced value within one resolution call and
// breaking pointer-to-struct reference cycles with pre-allocated placeholders.
//
// A minimal session looks like,
//
//	c := di.New()
//	c.RegisterInstance(config)
//	c.MustRegisterFactory(database.Open)
//	c.MustRegisterSingletonFactory(server.New)
//
//	s, err := di.Resolve[*server.Server](c)
package di

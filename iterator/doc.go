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

// Package iterator documents the guidelines for using the iterator pattern in Loom. The pattern
// draws significant inspiration from the Iterator Guidelines established for Google Cloud Client
// Libraries for Go [0].
//
// An "iterable" resource provides a method which returns an iterator over its elements. When
// appropriate, naming the method after the element (in plural) is preferred. For example,
//
//	type Shelf struct {
//		books []*Book
//	}
//
//	// Books returns an iterator over the books in the shelf.
//	func (shelf *Shelf) Books() *BookIterator {
//		...
//	}
//
// The result iterator has just one method, Next, for walking over individual elements:
//
//	type BookIterator struct {
//		...
//	}
//
//	// Next returns the next book in the iteration. It returns iterator.Done to indicate that
//	// there's no more element.
//	func (iter *BookIterator) Next() (*Book, error) {
//		...
//	}
//
// And the loop on the caller side looks like,
//
//	iter := shelf.Books()
//	for {
//		book, err := iter.Next()
//		if err == iterator.Done {
//			break
//		} else if err != nil {
//			handleError(err)
//		}
//		process(book)
//	}
//
// di.InstanceIter follows this shape for walking resolved instances.
//
// [0]: https://github.com/googleapis/google-cloud-go/wiki/Iterator-Guidelines
package iterator

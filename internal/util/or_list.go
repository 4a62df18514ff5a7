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

package util

// OrList transforms a string array like ["A", "B", "C"] into `A, B, or C`. If quoted is true,
// returns `"A", "B", or "C"`. If a positive integer is provided in limit, only transforms up to
// that number of items.
func OrList(items []string, limit int, quoted bool) string {
	if len(items) == 0 {
		return ""
	}

	numItems := len(items)
	if limit > 0 && numItems > limit {
		items = items[:limit]
		numItems = limit
	}

	var out StringBuilder

	writeItem := func(item string) {
		if quoted {
			out.WriteString(`"`)
			out.WriteString(item)
			out.WriteString(`"`)
		} else {
			out.WriteString(item)
		}
	}

	writeItem(items[0])

	if numItems == 1 {
		return out.String()
	}

	if numItems == 2 {
		out.WriteString(" or ")
		writeItem(items[1])
	} else {
		for _, item := range items[1 : numItems-1] {
			out.WriteString(", ")
			writeItem(item)
		}
		out.WriteString(", or ")
		writeItem(items[numItems-1])
	}

	return out.String()
}

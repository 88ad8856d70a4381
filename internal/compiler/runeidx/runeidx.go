// Package runeidx provides the Unicode-scalar width computation spec §9
// requires for TEXT indexing: LDPL addresses characters by Unicode
// scalar value, never by byte, so the emitter's compile-time checks of
// literal operands (the GET CHARACTER AT index and SUBSTRING OF start
// bounds, used for diagnostics) must count scalars the same way the
// runtime (internal/compiler/emitter's embedded ldpl_text) does.
//
// Grounded on SPEC_FULL.md's DOMAIN STACK section: wires in
// golang.org/x/text/unicode/norm, seen in the retrieval pack's
// Heliodex-coputer go.mod, since no pack example reaches for Unicode
// segmentation directly and norm.Iter is the library's general-purpose
// "walk scalar/segment boundaries of a string" primitive.
package runeidx

import (
	"golang.org/x/text/unicode/norm"
)

// ScalarLen reports the number of Unicode scalar values (codepoints) in
// s, the same unit ldpl_text's operator[]/size() count at runtime.
func ScalarLen(s string) int {
	var it norm.Iter
	it.InitString(norm.NFC, s)
	n := 0
	for !it.Done() {
		it.Next()
		n++
	}
	return n
}

// Scalars splits s into its individual Unicode scalar values, each still
// a UTF-8-encoded string, in order — the same segmentation
// ldpl_text's internal buffer uses.
func Scalars(s string) []string {
	var it norm.Iter
	it.InitString(norm.NFC, s)
	var out []string
	for !it.Done() {
		out = append(out, string(it.Next()))
	}
	return out
}

// Substring returns the scalar-indexed substring of s starting at from
// (0-based, in scalars) spanning count scalars, clamped to s's length,
// matching what the runtime's ldpl_text::substr does.
func Substring(s string, from, count int) string {
	scalars := Scalars(s)
	if from < 0 {
		from = 0
	}
	if from >= len(scalars) {
		return ""
	}
	end := from + count
	if end > len(scalars) {
		end = len(scalars)
	}
	var out string
	for _, sc := range scalars[from:end] {
		out += sc
	}
	return out
}

// IndexOf returns the scalar index of the first occurrence of needle in
// haystack, or -1, matching the runtime's utf8_get_index_of semantics
// (GET INDEX OF, §4.4).
func IndexOf(haystack, needle string) int {
	h, n := Scalars(haystack), Scalars(needle)
	if len(n) == 0 || len(n) > len(h) {
		return -1
	}
	for i := 0; i+len(n) <= len(h); i++ {
		if scalarsEqual(h[i:i+len(n)], n) {
			return i
		}
	}
	return -1
}

// Count returns the number of non-overlapping occurrences of needle in
// haystack by scalar, matching the runtime's utf8_count (COUNT, §4.4).
func Count(haystack, needle string) int {
	h, n := Scalars(haystack), Scalars(needle)
	if len(n) == 0 || len(n) > len(h) {
		return 0
	}
	count := 0
	for i := 0; i+len(n) <= len(h); i++ {
		if scalarsEqual(h[i:i+len(n)], n) {
			count++
			i += len(n) - 1
		}
	}
	return count
}

func scalarsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

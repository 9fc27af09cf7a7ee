// Package segment provides grapheme-cluster segmentation for cursor math.
//
// Cursor offsets throughout the module are counted in user-perceived
// characters (grapheme clusters), never raw bytes or runes. Every package
// that measures visible text goes through this package so the counting
// rules stay in one place.
package segment

import (
	"github.com/rivo/uniseg"
)

// Placeholder is the zero-width character used to mark an empty formatted
// span awaiting typed input. It occupies one cursor unit.
const Placeholder = "\u200b"

// AtomRune is the visible stand-in for a content-less inline atom. An atom
// always occupies exactly one cursor unit.
const AtomRune = "\ufffc"

// Count returns the number of grapheme clusters in s.
func Count(s string) int {
	if s == "" {
		return 0
	}
	if isASCII(s) {
		return len(s)
	}
	return uniseg.GraphemeClusterCount(s)
}

// Clusters splits s into its grapheme clusters.
func Clusters(s string) []string {
	if s == "" {
		return nil
	}
	if isASCII(s) {
		out := make([]string, len(s))
		for i := 0; i < len(s); i++ {
			out[i] = s[i : i+1]
		}
		return out
	}
	var out []string
	state := -1
	for len(s) > 0 {
		var c string
		c, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, c)
	}
	return out
}

// First returns the first grapheme cluster of s and the remainder.
// Returns "" when s is empty.
func First(s string) (cluster, rest string) {
	if s == "" {
		return "", ""
	}
	if s[0] < 0x80 {
		return s[:1], s[1:]
	}
	c, r, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return c, r
}

// Last returns the final grapheme cluster of s, or "" when s is empty.
func Last(s string) string {
	if s == "" {
		return ""
	}
	var last string
	state := -1
	for len(s) > 0 {
		last, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
	}
	return last
}

// ByteOffset returns the byte offset of the n-th grapheme boundary in s.
// n is clamped to [0, Count(s)].
func ByteOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	if isASCII(s) {
		if n > len(s) {
			return len(s)
		}
		return n
	}
	off := 0
	state := -1
	rest := s
	for i := 0; i < n && len(rest) > 0; i++ {
		var c string
		c, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		off += len(c)
	}
	return off
}

// Slice returns the substring of s covering grapheme units [start, end).
// Both bounds are clamped.
func Slice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	a := ByteOffset(s, start)
	b := ByteOffset(s, end)
	return s[a:b]
}

// At returns the grapheme cluster at unit index i, or "" when out of range.
func At(s string, i int) string {
	if i < 0 {
		return ""
	}
	return Slice(s, i, i+1)
}

// IsPlaceholder reports whether the cluster is the zero-width placeholder.
func IsPlaceholder(cluster string) bool {
	return cluster == Placeholder
}

// isASCII reports whether s contains only single-byte characters, allowing
// the one-byte-per-unit fast path.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Package cursormap maintains the bidirectional position map between the
// visible (cursor-unit) representation and the syntax-marked source text.
//
// Source offsets are byte offsets; cursor offsets are grapheme counts.
// Each cursor boundary records a backward and a forward source offset.
// The two differ only at positions adjacent to source-only syntax, letting
// one cursor offset resolve to either side of a marker depending on
// intent.
package cursormap

import (
	"sort"

	"github.com/dshills/inkline/internal/doc"
)

// Boundary is the pair of source offsets corresponding to one cursor
// boundary. SourceBackward <= SourceForward always holds; the interval
// between them covers source-only syntax.
type Boundary struct {
	SourceBackward int
	SourceForward  int
}

// Map resolves cursor offsets to source offsets and back. A Map for a
// document of cursor length n holds n+1 boundaries.
type Map struct {
	cursorLen  int
	boundaries []Boundary
}

// NewMap builds a map from a boundary list. The list must hold one entry
// per cursor boundary, i.e. cursor length + 1 entries.
func NewMap(boundaries []Boundary) *Map {
	if len(boundaries) == 0 {
		boundaries = []Boundary{{}}
	}
	return &Map{cursorLen: len(boundaries) - 1, boundaries: boundaries}
}

// CursorLen returns the cursor length of the mapped document.
func (m *Map) CursorLen() int {
	return m.cursorLen
}

// SourceLen returns the source length of the mapped document in bytes.
func (m *Map) SourceLen() int {
	return m.boundaries[m.cursorLen].SourceForward
}

// BoundaryAt returns the boundary for cursor offset i, clamped to range.
func (m *Map) BoundaryAt(i int) Boundary {
	if i < 0 {
		i = 0
	}
	if i > m.cursorLen {
		i = m.cursorLen
	}
	return m.boundaries[i]
}

// CursorToSource resolves a cursor offset to a source offset. Backward
// affinity lands before any source-only syntax at the boundary, forward
// after it. Out-of-range offsets are clamped; callers are expected to
// pass clamped offsets.
func (m *Map) CursorToSource(offset int, aff doc.Affinity) int {
	b := m.BoundaryAt(offset)
	if aff == doc.Forward {
		return b.SourceForward
	}
	return b.SourceBackward
}

// SourceToCursor resolves a source offset to the cursor unit whose
// boundary interval contains it. Offsets strictly inside a source-only
// gap resolve to that boundary's cursor unit; offsets strictly inside a
// unit's own source span (an atom's syntax, or mid-grapheme) round per
// bias. The result is always within [0, CursorLen].
func (m *Map) SourceToCursor(offset int, bias doc.Affinity) int {
	if offset <= 0 {
		return 0
	}
	n := len(m.boundaries)
	j := sort.Search(n, func(i int) bool {
		return m.boundaries[i].SourceForward >= offset
	})
	if j >= n {
		return m.cursorLen
	}
	b := m.boundaries[j]
	if offset < b.SourceBackward {
		// Inside the source span of the unit ending at boundary j.
		if bias == doc.Backward && j > 0 {
			return j - 1
		}
		return j
	}
	return j
}

package doc

import "fmt"

// Affinity disambiguates a collapsed cursor offset that maps to two
// different source offsets, e.g. immediately before vs. after a formatting
// marker.
type Affinity uint8

// Affinity values.
const (
	Backward Affinity = iota
	Forward
)

// Opposite returns the other affinity.
func (a Affinity) Opposite() Affinity {
	if a == Forward {
		return Backward
	}
	return Forward
}

// String returns the affinity name.
func (a Affinity) String() string {
	if a == Forward {
		return "forward"
	}
	return "backward"
}

// Selection is a cursor range in the visible representation, counted in
// cursor units. Producers need not order Start <= End; Normalize does.
// Selection is an immutable value type.
type Selection struct {
	Start    int
	End      int
	Affinity Affinity
}

// NewSelection creates a selection over [start, end].
func NewSelection(start, end int, aff Affinity) Selection {
	return Selection{Start: start, End: end, Affinity: aff}
}

// Caret creates a collapsed selection at the given offset.
func Caret(offset int, aff Affinity) Selection {
	return Selection{Start: offset, End: offset, Affinity: aff}
}

// IsCaret reports whether the selection is collapsed.
func (s Selection) IsCaret() bool {
	return s.Start == s.End
}

// Len returns the selection extent in cursor units.
func (s Selection) Len() int {
	n := s.Normalize()
	return n.End - n.Start
}

// Normalize returns the selection with Start <= End.
func (s Selection) Normalize() Selection {
	if s.Start <= s.End {
		return s
	}
	return Selection{Start: s.End, End: s.Start, Affinity: s.Affinity}
}

// Clamp bounds both offsets to [0, max].
func (s Selection) Clamp(max int) Selection {
	c := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > max {
			return max
		}
		return v
	}
	return Selection{Start: c(s.Start), End: c(s.End), Affinity: s.Affinity}
}

// CollapseToStart collapses the selection to its lower bound.
func (s Selection) CollapseToStart() Selection {
	n := s.Normalize()
	return Caret(n.Start, s.Affinity)
}

// CollapseToEnd collapses the selection to its upper bound.
func (s Selection) CollapseToEnd() Selection {
	n := s.Normalize()
	return Caret(n.End, s.Affinity)
}

// WithAffinity returns the selection with a different affinity.
func (s Selection) WithAffinity(aff Affinity) Selection {
	s.Affinity = aff
	return s
}

// Equal reports whether two selections match exactly.
func (s Selection) Equal(o Selection) bool {
	return s == o
}

// String returns a debug representation.
func (s Selection) String() string {
	if s.IsCaret() {
		return fmt.Sprintf("Caret(%d,%s)", s.Start, s.Affinity)
	}
	return fmt.Sprintf("Selection(%d..%d,%s)", s.Start, s.End, s.Affinity)
}

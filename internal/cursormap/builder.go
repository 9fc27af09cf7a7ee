package cursormap

import (
	"strings"

	"github.com/dshills/inkline/internal/segment"
)

// Builder accumulates source text and its cursor boundaries during
// serialization. Text advances both the cursor and source lengths;
// source-only syntax advances only the source length, widening the
// forward bound of the previous boundary.
type Builder struct {
	src        strings.Builder
	boundaries []Boundary
}

// NewBuilder returns an empty builder holding the zero boundary.
func NewBuilder() *Builder {
	return &Builder{boundaries: []Boundary{{}}}
}

// SourceLen returns the source length emitted so far in bytes.
func (b *Builder) SourceLen() int {
	return b.src.Len()
}

// CursorLen returns the cursor length emitted so far.
func (b *Builder) CursorLen() int {
	return len(b.boundaries) - 1
}

// AppendText emits visible text. Each grapheme cluster advances the
// cursor length by one and closes a boundary with equal backward and
// forward offsets.
func (b *Builder) AppendText(t string) {
	for t != "" {
		var c string
		c, t = segment.First(t)
		b.src.WriteString(c)
		n := b.src.Len()
		b.boundaries = append(b.boundaries, Boundary{SourceBackward: n, SourceForward: n})
	}
}

// AppendSourceOnly emits syntax characters that occupy no cursor units,
// widening the forward bound of the previous boundary.
func (b *Builder) AppendSourceOnly(t string) {
	if t == "" {
		return
	}
	b.src.WriteString(t)
	b.boundaries[len(b.boundaries)-1].SourceForward = b.src.Len()
}

// AppendAtom emits the full source syntax of a content-less atom as a
// single cursor unit.
func (b *Builder) AppendAtom(source string) {
	b.src.WriteString(source)
	n := b.src.Len()
	b.boundaries = append(b.boundaries, Boundary{SourceBackward: n, SourceForward: n})
}

// AppendSerialized splices a child builder's output, offsetting its
// boundaries by the current source length. The child's leading boundary
// merges into this builder's current boundary.
func (b *Builder) AppendSerialized(child *Builder) {
	base := b.src.Len()
	b.boundaries[len(b.boundaries)-1].SourceForward = base + child.boundaries[0].SourceForward
	for _, cb := range child.boundaries[1:] {
		b.boundaries = append(b.boundaries, Boundary{
			SourceBackward: base + cb.SourceBackward,
			SourceForward:  base + cb.SourceForward,
		})
	}
	b.src.WriteString(child.src.String())
}

// Build yields the accumulated source text and its map.
func (b *Builder) Build() (string, *Map) {
	bounds := make([]Boundary, len(b.boundaries))
	copy(bounds, b.boundaries)
	return b.src.String(), NewMap(bounds)
}

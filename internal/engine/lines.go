// Package engine implements the structural edit algorithm: it flattens
// the document into logical lines, maps a cursor selection onto them,
// computes the replacement content as runs, and rebuilds the affected
// subtree.
package engine

import (
	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/segment"
)

// Line is one logical line of the document: a leaf block paired with its
// position in the tree and its visible measurements.
type Line struct {
	// Block is the leaf: *doc.Paragraph or *doc.BlockAtom.
	Block doc.Block

	// Path holds the child indexes from the document root to the leaf.
	Path []int

	// Runs is the paragraph's run list; nil for atoms.
	Runs []doc.Run

	// Text is the visible text of the line.
	Text string

	// Length is the line's cursor length.
	Length int

	// HasNewline marks whether a caret-addressable line break follows.
	HasNewline bool
}

// FlattenLines lists the document's logical lines in order.
func FlattenLines(d *doc.Doc) []Line {
	var lines []Line
	var walk func(blocks []doc.Block, path []int)
	walk = func(blocks []doc.Block, path []int) {
		for i, b := range blocks {
			p := append(append([]int(nil), path...), i)
			switch n := b.(type) {
			case *doc.Paragraph:
				runs := doc.RunsFromInlines(n.Content)
				text := doc.RunsText(runs)
				lines = append(lines, Line{
					Block:  n,
					Path:   p,
					Runs:   runs,
					Text:   text,
					Length: doc.RunsLen(runs),
				})
			case *doc.BlockAtom:
				lines = append(lines, Line{
					Block:  n,
					Path:   p,
					Text:   segment.AtomRune,
					Length: 1,
				})
			case *doc.BlockWrapper:
				walk(n.Blocks, p)
			}
		}
	}
	walk(d.Blocks, nil)
	for i := range lines {
		lines[i].HasNewline = i < len(lines)-1
	}
	return lines
}

// TotalLen returns the document's cursor length: line lengths plus one
// unit per line break.
func TotalLen(lines []Line) int {
	if len(lines) == 0 {
		return 0
	}
	n := len(lines) - 1
	for _, ln := range lines {
		n += ln.Length
	}
	return n
}

// LineStart returns the global cursor offset of line i's first unit.
func LineStart(lines []Line, i int) int {
	off := 0
	for j := 0; j < i && j < len(lines); j++ {
		off += lines[j].Length + 1
	}
	return off
}

// Resolve maps a global cursor offset to a {line, offset-in-line} pair by
// walking cumulative lengths. An offset exactly on a line boundary stays
// at the end of the earlier line; the position after the separating
// newline belongs to the following line.
func Resolve(lines []Line, offset int) (line, off int) {
	if offset < 0 {
		return 0, 0
	}
	rem := offset
	for i, ln := range lines {
		if rem <= ln.Length {
			return i, rem
		}
		rem -= ln.Length + 1
	}
	last := len(lines) - 1
	return last, lines[last].Length
}

// sameParent reports whether two lines share their full wrapper ancestor
// chain, i.e. live in the same child list.
func sameParent(a, b Line) bool {
	if len(a.Path) != len(b.Path) {
		return false
	}
	for i := 0; i < len(a.Path)-1; i++ {
		if a.Path[i] != b.Path[i] {
			return false
		}
	}
	return true
}

// graphemeAt returns the visible grapheme at a global cursor offset, or
// "" at a line break or document end.
func graphemeAt(lines []Line, offset int) string {
	li, off := Resolve(lines, offset)
	if off >= lines[li].Length {
		return ""
	}
	return segment.At(lines[li].Text, off)
}

// Package serializer is the inverse of the parser: it re-emits source
// text from a document tree and derives a fresh cursor-source map while
// doing so.
package serializer

import (
	"github.com/dshills/inkline/internal/cursormap"
	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
	"github.com/dshills/inkline/internal/segment"
)

// Serialize emits the source text and cursor map for a document.
func Serialize(d *doc.Doc, reg *extension.Registry) (string, *cursormap.Map) {
	ctx := &serCtx{reg: reg, b: cursormap.NewBuilder()}
	ctx.SerializeBlocks(d.Blocks)
	return ctx.b.Build()
}

// SerializeBlocksStandalone emits a block list as standalone source text.
// Used to extract a selection as its own document fragment.
func SerializeBlocksStandalone(blocks []doc.Block, reg *extension.Registry) string {
	ctx := &serCtx{reg: reg, b: cursormap.NewBuilder()}
	ctx.SerializeBlocks(blocks)
	src, _ := ctx.b.Build()
	return src
}

type serCtx struct {
	reg *extension.Registry
	b   *cursormap.Builder
}

func (s *serCtx) AppendText(t string)       { s.b.AppendText(t) }
func (s *serCtx) AppendSourceOnly(t string) { s.b.AppendSourceOnly(t) }
func (s *serCtx) AppendAtom(source string)  { s.b.AppendAtom(source) }

// SerializeBlocks serializes sibling blocks, separating them with a
// newline that does allocate a cursor unit: the break between logical
// lines is caret-addressable.
func (s *serCtx) SerializeBlocks(blocks []doc.Block) {
	for i, bk := range blocks {
		if i > 0 {
			s.b.AppendText("\n")
		}
		child := cursormap.NewBuilder()
		sub := &serCtx{reg: s.reg, b: child}
		sub.serializeBlock(bk)
		s.b.AppendSerialized(child)
	}
}

func (s *serCtx) serializeBlock(bk doc.Block) {
	for _, e := range s.reg.Extensions() {
		if e.SerializeBlock(s, bk) {
			return
		}
	}
	switch n := bk.(type) {
	case *doc.Paragraph:
		s.SerializeInlines(n.Content)
	case *doc.BlockWrapper:
		s.SerializeBlocks(n.Blocks)
	case *doc.BlockAtom:
		// No rule owns this atom; keep it addressable as one unit.
		s.b.AppendAtom(segment.AtomRune)
	}
}

// SerializeInlines serializes inline content through extension rules,
// falling back to literal defaults.
func (s *serCtx) SerializeInlines(content []doc.Inline) {
	for _, in := range content {
		matched := false
		for _, e := range s.reg.Extensions() {
			if e.SerializeInline(s, in) {
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		switch n := in.(type) {
		case *doc.Text:
			s.b.AppendText(n.Text)
		case *doc.InlineWrapper:
			s.SerializeInlines(n.Children)
		case *doc.InlineAtom:
			s.b.AppendAtom(segment.AtomRune)
		}
	}
}

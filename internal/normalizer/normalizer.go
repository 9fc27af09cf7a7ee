// Package normalizer prunes empty wrapper nodes produced by parsing or
// editing and applies extension-defined normalize rules.
//
// The pass is depth-first: children are normalized before their parent,
// so emptiness pruning sees the post-prune child set. Normalization is
// idempotent provided extension rules are.
package normalizer

import (
	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
)

// Normalize returns a normalized copy of the document. The result always
// holds at least one block.
func Normalize(d *doc.Doc, reg *extension.Registry) *doc.Doc {
	blocks := normalizeBlocks(d.Blocks, reg)
	if len(blocks) == 0 {
		return doc.New()
	}
	return &doc.Doc{Blocks: blocks}
}

func normalizeBlocks(blocks []doc.Block, reg *extension.Registry) []doc.Block {
	var out []doc.Block
	for _, b := range blocks {
		if nb := normalizeBlock(b, reg); nb != nil {
			out = append(out, nb)
		}
	}
	return out
}

func normalizeBlock(b doc.Block, reg *extension.Registry) doc.Block {
	switch n := b.(type) {
	case *doc.Paragraph:
		b = &doc.Paragraph{Content: NormalizeInlines(n.Content, reg)}
	case *doc.BlockWrapper:
		b = &doc.BlockWrapper{Kind: n.Kind, Data: n.Data, Blocks: normalizeBlocks(n.Blocks, reg)}
	}

	for _, e := range reg.Extensions() {
		nb, ok := e.NormalizeBlock(b)
		if !ok {
			continue
		}
		if nb == nil {
			return nil
		}
		b = nb
	}

	if w, ok := b.(*doc.BlockWrapper); ok && len(w.Blocks) == 0 {
		return nil
	}
	return b
}

// NormalizeInlines normalizes inline content: extension rules run on each
// node after its children, empty text and empty wrappers are pruned, and
// adjacent text nodes merge.
func NormalizeInlines(content []doc.Inline, reg *extension.Registry) []doc.Inline {
	var out []doc.Inline
	for _, in := range content {
		nin := normalizeInline(in, reg)
		if nin == nil {
			continue
		}
		if t, ok := nin.(*doc.Text); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*doc.Text); ok {
				out[len(out)-1] = &doc.Text{Text: prev.Text + t.Text}
				continue
			}
		}
		out = append(out, nin)
	}
	return out
}

func normalizeInline(in doc.Inline, reg *extension.Registry) doc.Inline {
	switch n := in.(type) {
	case *doc.Text:
		if n.Text == "" {
			return nil
		}
	case *doc.InlineWrapper:
		in = &doc.InlineWrapper{Kind: n.Kind, Data: n.Data, Children: NormalizeInlines(n.Children, reg)}
	}

	for _, e := range reg.Extensions() {
		nin, ok := e.NormalizeInline(in)
		if !ok {
			continue
		}
		if nin == nil {
			return nil
		}
		in = nin
	}

	if w, ok := in.(*doc.InlineWrapper); ok && len(w.Children) == 0 {
		return nil
	}
	return in
}

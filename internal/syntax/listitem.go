package syntax

import (
	"strings"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
)

// ListItem is one "- "-prefixed line. Items are independent blocks; list
// grouping is a presentation concern, not a tree one.
type ListItem struct {
	extension.Base
}

func (ListItem) Name() string { return "list-item" }

func (ListItem) ParseBlock(pc extension.ParseContext, src string, pos int) (doc.Block, int, bool) {
	if !strings.HasPrefix(src[pos:], "- ") {
		return nil, 0, false
	}
	lineEnd := len(src)
	next := len(src)
	if i := strings.IndexByte(src[pos:], '\n'); i >= 0 {
		lineEnd = pos + i
		next = lineEnd + 1
	}
	w := &doc.BlockWrapper{
		Kind:   "list-item",
		Blocks: []doc.Block{&doc.Paragraph{Content: pc.ParseInlineRange(src, pos+2, lineEnd)}},
	}
	return w, next, true
}

func (ListItem) SerializeBlock(s extension.SerializeContext, b doc.Block) bool {
	w, ok := b.(*doc.BlockWrapper)
	if !ok || w.Kind != "list-item" {
		return false
	}
	s.AppendSourceOnly("- ")
	s.SerializeBlocks(w.Blocks)
	return true
}

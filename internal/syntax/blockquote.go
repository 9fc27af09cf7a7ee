package syntax

import (
	"strings"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
)

// Blockquote groups consecutive "> "-prefixed lines into one wrapper and
// parses the stripped interior as nested blocks.
type Blockquote struct {
	extension.Base
}

func (Blockquote) Name() string { return "blockquote" }

func (Blockquote) ParseBlock(pc extension.ParseContext, src string, pos int) (doc.Block, int, bool) {
	var inner []string
	for pos < len(src) {
		lineEnd := len(src)
		next := len(src)
		if i := strings.IndexByte(src[pos:], '\n'); i >= 0 {
			lineEnd = pos + i
			next = lineEnd + 1
		}
		line := src[pos:lineEnd]
		switch {
		case strings.HasPrefix(line, "> "):
			inner = append(inner, line[2:])
		case line == ">":
			inner = append(inner, "")
		default:
			if len(inner) == 0 {
				return nil, 0, false
			}
			return &doc.BlockWrapper{Kind: "blockquote", Blocks: pc.ParseBlocks(strings.Join(inner, "\n"))}, pos, true
		}
		pos = next
	}
	if len(inner) == 0 {
		return nil, 0, false
	}
	return &doc.BlockWrapper{Kind: "blockquote", Blocks: pc.ParseBlocks(strings.Join(inner, "\n"))}, pos, true
}

func (Blockquote) SerializeBlock(s extension.SerializeContext, b doc.Block) bool {
	w, ok := b.(*doc.BlockWrapper)
	if !ok || w.Kind != "blockquote" {
		return false
	}
	for i, c := range w.Blocks {
		if i > 0 {
			s.AppendText("\n")
		}
		s.AppendSourceOnly("> ")
		s.SerializeBlocks([]doc.Block{c})
	}
	return true
}

package syntax

import (
	"strings"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
)

// Rule is the horizontal rule block atom: a line holding exactly "---".
type Rule struct {
	extension.Base
}

func (Rule) Name() string { return "rule" }

func (Rule) ParseBlock(pc extension.ParseContext, src string, pos int) (doc.Block, int, bool) {
	lineEnd := len(src)
	next := len(src)
	if i := strings.IndexByte(src[pos:], '\n'); i >= 0 {
		lineEnd = pos + i
		next = lineEnd + 1
	}
	if src[pos:lineEnd] != "---" {
		return nil, 0, false
	}
	return &doc.BlockAtom{Kind: "rule"}, next, true
}

func (Rule) SerializeBlock(s extension.SerializeContext, b doc.Block) bool {
	a, ok := b.(*doc.BlockAtom)
	if !ok || a.Kind != "rule" {
		return false
	}
	s.AppendAtom("---")
	return true
}

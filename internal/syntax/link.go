package syntax

import (
	"strings"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
)

// Link is the [text](href) wrapper. It is non-inclusive: a caret at its
// end boundary sits outside it, so typing after a link extends plain
// text, not the link.
type Link struct {
	extension.Base
}

func (Link) Name() string { return "link" }

func (Link) ParseInline(pc extension.ParseContext, src string, pos, end int) (doc.Inline, int, bool) {
	if src[pos] != '[' {
		return nil, 0, false
	}
	rel := strings.Index(src[pos:end], "](")
	if rel <= 1 {
		// No closing, or empty link text.
		return nil, 0, false
	}
	textEnd := pos + rel
	hrefStart := textEnd + 2
	hrefRel := strings.IndexByte(src[hrefStart:end], ')')
	if hrefRel < 0 {
		return nil, 0, false
	}
	w := &doc.InlineWrapper{
		Kind:     "link",
		Data:     map[string]string{"href": src[hrefStart : hrefStart+hrefRel]},
		Children: pc.ParseInlineRange(src, pos+1, textEnd),
	}
	return w, hrefStart + hrefRel + 1, true
}

func (Link) SerializeInline(s extension.SerializeContext, in doc.Inline) bool {
	w, ok := in.(*doc.InlineWrapper)
	if !ok || w.Kind != "link" {
		return false
	}
	s.AppendSourceOnly("[")
	s.SerializeInlines(w.Children)
	s.AppendSourceOnly("](" + w.Data["href"] + ")")
	return true
}

func (Link) Affinity(kind string) (bool, bool) {
	return false, kind == "link"
}

package syntax

import (
	"strings"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
)

// Image is the ![alt](src) inline atom: one cursor unit, no editable
// interior.
type Image struct {
	extension.Base
}

func (Image) Name() string { return "image" }

func (Image) ParseInline(pc extension.ParseContext, src string, pos, end int) (doc.Inline, int, bool) {
	if !strings.HasPrefix(src[pos:end], "![") {
		return nil, 0, false
	}
	rel := strings.Index(src[pos:end], "](")
	if rel < 2 {
		return nil, 0, false
	}
	altEnd := pos + rel
	srcStart := altEnd + 2
	srcRel := strings.IndexByte(src[srcStart:end], ')')
	if srcRel < 0 {
		return nil, 0, false
	}
	atom := &doc.InlineAtom{
		Kind: "image",
		Data: map[string]string{
			"alt": src[pos+2 : altEnd],
			"src": src[srcStart : srcStart+srcRel],
		},
	}
	return atom, srcStart + srcRel + 1, true
}

func (Image) SerializeInline(s extension.SerializeContext, in doc.Inline) bool {
	a, ok := in.(*doc.InlineAtom)
	if !ok || a.Kind != "image" {
		return false
	}
	s.AppendAtom("![" + a.Data["alt"] + "](" + a.Data["src"] + ")")
	return true
}

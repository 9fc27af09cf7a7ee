package syntax

import (
	"strconv"
	"strings"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/engine"
	"github.com/dshills/inkline/internal/extension"
)

// Heading is the #-prefixed block wrapper, levels 1 through 6. The prefix
// is source-only syntax; the heading text starts at cursor offset zero.
type Heading struct {
	extension.Base
}

func (Heading) Name() string { return "heading" }

func (Heading) ParseBlock(pc extension.ParseContext, src string, pos int) (doc.Block, int, bool) {
	n := 0
	for pos+n < len(src) && src[pos+n] == '#' && n < 6 {
		n++
	}
	if n == 0 || pos+n >= len(src) || src[pos+n] != ' ' {
		return nil, 0, false
	}
	lineEnd := len(src)
	next := len(src)
	if i := strings.IndexByte(src[pos:], '\n'); i >= 0 {
		lineEnd = pos + i
		next = lineEnd + 1
	}
	w := &doc.BlockWrapper{
		Kind: "heading",
		Data: map[string]string{"level": strconv.Itoa(n)},
		Blocks: []doc.Block{
			&doc.Paragraph{Content: pc.ParseInlineRange(src, pos+n+1, lineEnd)},
		},
	}
	return w, next, true
}

func (Heading) SerializeBlock(s extension.SerializeContext, b doc.Block) bool {
	w, ok := b.(*doc.BlockWrapper)
	if !ok || w.Kind != "heading" {
		return false
	}
	level, err := strconv.Atoi(w.Data["level"])
	if err != nil || level < 1 || level > 6 {
		level = 1
	}
	s.AppendSourceOnly(strings.Repeat("#", level) + " ")
	s.SerializeBlocks(w.Blocks)
	return true
}

// OnEdit turns a line break at the very end of a heading into an exit:
// the new line becomes a plain paragraph after the heading instead of a
// second heading line.
func (Heading) OnEdit(cmd extension.Command, st extension.State) (*extension.Handled, *extension.Command) {
	if cmd.Name != extension.CmdInsertLineBreak {
		return nil, nil
	}
	sel := st.Selection()
	if !sel.IsCaret() {
		return nil, nil
	}
	d := st.Document()
	lines := engine.FlattenLines(d)
	li, off := engine.Resolve(lines, sel.Normalize().Start)
	ln := lines[li]
	if off != ln.Length || len(ln.Path) < 2 {
		return nil, nil
	}
	top, ok := d.Blocks[ln.Path[0]].(*doc.BlockWrapper)
	if !ok || top.Kind != "heading" {
		return nil, nil
	}
	if li+1 < len(lines) && lines[li+1].Path[0] == ln.Path[0] {
		return nil, nil
	}
	return nil, &extension.Command{Name: extension.CmdExitBlockWrapper}
}

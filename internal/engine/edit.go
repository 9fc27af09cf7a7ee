package engine

import (
	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
	"github.com/dshills/inkline/internal/parser"
	"github.com/dshills/inkline/internal/segment"
)

// Result is a structural edit's outcome: the rebuilt tree and the caret
// after the edit. The caller re-serializes, normalizes, and re-parses.
type Result struct {
	Doc       *doc.Doc
	Selection doc.Selection
}

// Apply runs a structural edit against the tree in one pass, preserving
// the marks that apply to surviving and inserted text.
//
// It returns nil when the edit would cross incompatible wrapper
// boundaries; the caller is expected to fall back to an unscoped source
// splice.
func Apply(d *doc.Doc, cmd extension.Command, sel doc.Selection, reg *extension.Registry) *Result {
	lines := FlattenLines(d)
	total := TotalLen(lines)
	sel = sel.Normalize().Clamp(total)
	start, end := sel.Start, sel.End

	if cmd.Name == extension.CmdExitBlockWrapper {
		return exitWrapper(d, lines, sel)
	}

	var text string
	switch cmd.Name {
	case extension.CmdInsert:
		text = cmd.Text
	case extension.CmdInsertLineBreak:
		text = "\n"
	case extension.CmdDeleteBackward, extension.CmdDeleteForward:
	default:
		return nil
	}

	// Effective edit range: collapsed deletes widen by one unit; an
	// insert swallows a placeholder grapheme sitting at the caret.
	if sel.IsCaret() {
		switch cmd.Name {
		case extension.CmdDeleteBackward:
			if start == 0 {
				return &Result{Doc: d, Selection: sel}
			}
			start--
		case extension.CmdDeleteForward:
			if end == total {
				return &Result{Doc: d, Selection: sel}
			}
			end++
		case extension.CmdInsert, extension.CmdInsertLineBreak:
			if segment.IsPlaceholder(graphemeAt(lines, end)) {
				end++
			}
		}
	}

	sli, soff := Resolve(lines, start)
	eli, eoff := Resolve(lines, end)

	if res, handled := atomEdit(d, cmd, lines, sli, soff, eli, eoff, start); handled {
		return res
	}

	if _, ok := lines[sli].Block.(*doc.Paragraph); !ok {
		return nil
	}
	if _, ok := lines[eli].Block.(*doc.Paragraph); !ok {
		return nil
	}
	if !sameParent(lines[sli], lines[eli]) {
		return nil
	}

	// Base mark set for inserted text: the span intersection for a real
	// selection, or the affinity-resolved stack at a collapsed caret.
	var base []doc.Mark
	if start == end {
		base = doc.StackAt(lines[sli].Runs, soff, sel.Affinity)
	} else {
		base = commonMarksRange(lines, sli, soff, eli, eoff)
	}

	before, _ := doc.SplitRuns(lines[sli].Runs, soff)
	_, after := doc.SplitRuns(lines[eli].Runs, eoff)

	// The replacement parses in isolation so typed or pasted syntax gets
	// its own structure.
	repl := parser.Parse(text, reg).Blocks
	newBlocks := spliceBlocks(before, after, repl, base)

	parentPath := lines[sli].Path[:len(lines[sli].Path)-1]
	i := lines[sli].Path[len(lines[sli].Path)-1]
	j := lines[eli].Path[len(lines[eli].Path)-1]
	nd := &doc.Doc{Blocks: ReplaceRange(d.Blocks, parentPath, i, j, newBlocks)}

	caret := start + blocksVisLen(repl)
	return &Result{Doc: nd, Selection: doc.Caret(caret, resultAffinity(nd, caret, cmd))}
}

// atomEdit covers the special-cased behavior of content-less blocks.
func atomEdit(d *doc.Doc, cmd extension.Command, lines []Line, sli, soff, eli, eoff, start int) (*Result, bool) {
	ln := lines[sli]
	atom, isAtom := ln.Block.(*doc.BlockAtom)

	// Line break at an atom inserts a fresh empty paragraph after it.
	if cmd.Name == extension.CmdInsertLineBreak && isAtom && sli == eli {
		parent := ln.Path[:len(ln.Path)-1]
		i := ln.Path[len(ln.Path)-1]
		nd := &doc.Doc{Blocks: ReplaceRange(d.Blocks, parent, i, i, []doc.Block{atom, &doc.Paragraph{}})}
		caret := LineStart(lines, sli) + ln.Length + 1
		return &Result{Doc: nd, Selection: doc.Caret(caret, doc.Forward)}, true
	}

	if cmd.Name != extension.CmdDeleteBackward && cmd.Name != extension.CmdDeleteForward {
		return nil, false
	}

	// A delete covering exactly the atom's unit removes the atom.
	if isAtom && sli == eli && soff == 0 && eoff == 1 {
		parent := ln.Path[:len(ln.Path)-1]
		i := ln.Path[len(ln.Path)-1]
		nd := &doc.Doc{Blocks: ReplaceRange(d.Blocks, parent, i, i, nil)}
		return &Result{Doc: nd, Selection: doc.Caret(start, doc.Backward)}, true
	}

	// Backward delete at the start of the paragraph right after an atom
	// swaps the paragraph above the atom, keeping the atom addressable.
	if cmd.Name == extension.CmdDeleteBackward && isAtom && eli == sli+1 &&
		soff == ln.Length && eoff == 0 && sameParent(ln, lines[eli]) {
		para, ok := lines[eli].Block.(*doc.Paragraph)
		if !ok {
			return nil, false
		}
		parent := ln.Path[:len(ln.Path)-1]
		i := ln.Path[len(ln.Path)-1]
		j := lines[eli].Path[len(lines[eli].Path)-1]
		nd := &doc.Doc{Blocks: ReplaceRange(d.Blocks, parent, i, j, []doc.Block{para, atom})}
		return &Result{Doc: nd, Selection: doc.Caret(LineStart(lines, sli), doc.Backward)}, true
	}

	return nil, false
}

// exitWrapper splits out of the top-level wrapper containing the caret:
// a fresh empty paragraph is inserted after the wrapper at the root.
func exitWrapper(d *doc.Doc, lines []Line, sel doc.Selection) *Result {
	li, _ := Resolve(lines, sel.Normalize().Start)
	path := lines[li].Path
	if len(path) < 2 {
		return nil
	}
	top := path[0]
	last := li
	for last+1 < len(lines) && lines[last+1].Path[0] == top {
		last++
	}
	nd := &doc.Doc{Blocks: ReplaceRange(d.Blocks, nil, top, top, []doc.Block{d.Blocks[top], &doc.Paragraph{}})}
	caret := LineStart(lines, last) + lines[last].Length + 1
	return &Result{Doc: nd, Selection: doc.Caret(caret, doc.Forward)}
}

// commonMarksRange intersects mark stacks over a possibly multi-line
// cursor span, position-wise by stack prefix.
func commonMarksRange(lines []Line, sli, soff, eli, eoff int) []doc.Mark {
	var common []doc.Mark
	first := true
	for i := sli; i <= eli; i++ {
		ln := lines[i]
		if _, ok := ln.Block.(*doc.Paragraph); !ok {
			continue
		}
		lo, hi := 0, ln.Length
		if i == sli {
			lo = soff
		}
		if i == eli {
			hi = eoff
		}
		if hi <= lo {
			continue
		}
		cm := doc.CommonMarks(ln.Runs, lo, hi)
		if first {
			common = cm
			first = false
			continue
		}
		common = doc.CommonPrefix(common, cm)
		if len(common) == 0 {
			return nil
		}
	}
	return common
}

// spliceBlocks assembles the replacement block list: before-runs, the
// isolated replacement blocks with base marks prefixed onto their
// paragraphs, and after-runs, merging adjacent runs at the seams.
func spliceBlocks(before, after []doc.Run, repl []doc.Block, base []doc.Mark) []doc.Block {
	prefixed := func(p *doc.Paragraph) []doc.Run {
		return doc.PrefixRuns(doc.RunsFromInlines(p.Content), base)
	}
	paraOf := func(runs []doc.Run) *doc.Paragraph {
		return &doc.Paragraph{Content: doc.InlinesFromRuns(doc.MergeRuns(runs))}
	}
	joined := func(a, b []doc.Run) *doc.Paragraph {
		runs := make([]doc.Run, 0, len(a)+len(b))
		runs = append(runs, a...)
		runs = append(runs, b...)
		return paraOf(runs)
	}

	if len(repl) == 0 {
		return []doc.Block{joined(before, after)}
	}
	if len(repl) == 1 {
		if p, ok := repl[0].(*doc.Paragraph); ok {
			runs := make([]doc.Run, 0, len(before)+len(after)+1)
			runs = append(runs, before...)
			runs = append(runs, prefixed(p)...)
			runs = append(runs, after...)
			return []doc.Block{paraOf(runs)}
		}
		return []doc.Block{paraOf(before), repl[0], paraOf(after)}
	}

	var out []doc.Block
	if p, ok := repl[0].(*doc.Paragraph); ok {
		out = append(out, joined(before, prefixed(p)))
	} else {
		out = append(out, paraOf(before), repl[0])
	}
	for _, b := range repl[1 : len(repl)-1] {
		if p, ok := b.(*doc.Paragraph); ok {
			out = append(out, paraOf(prefixed(p)))
		} else {
			out = append(out, b)
		}
	}
	lastB := repl[len(repl)-1]
	if p, ok := lastB.(*doc.Paragraph); ok {
		out = append(out, joined(prefixed(p), after))
	} else {
		out = append(out, lastB, paraOf(after))
	}
	return out
}

// ReplaceRange rebuilds the tree with children[i..j] of the container at
// parentPath replaced by repl, copying only along the changed path.
func ReplaceRange(blocks []doc.Block, parentPath []int, i, j int, repl []doc.Block) []doc.Block {
	if len(parentPath) == 0 {
		out := make([]doc.Block, 0, len(blocks)-(j-i+1)+len(repl))
		out = append(out, blocks[:i]...)
		out = append(out, repl...)
		out = append(out, blocks[j+1:]...)
		return out
	}
	k := parentPath[0]
	w, ok := blocks[k].(*doc.BlockWrapper)
	if !ok {
		return blocks
	}
	nw := &doc.BlockWrapper{
		Kind:   w.Kind,
		Data:   w.Data,
		Blocks: ReplaceRange(w.Blocks, parentPath[1:], i, j, repl),
	}
	out := make([]doc.Block, len(blocks))
	copy(out, blocks)
	out[k] = nw
	return out
}

// blocksVisLen measures a block list's cursor length, line breaks
// included.
func blocksVisLen(blocks []doc.Block) int {
	return TotalLen(FlattenLines(&doc.Doc{Blocks: blocks}))
}

// resultAffinity recomputes the caret's affinity at the new gap from the
// mark stacks on either side.
func resultAffinity(d *doc.Doc, caret int, cmd extension.Command) doc.Affinity {
	lines := FlattenLines(d)
	li, off := Resolve(lines, caret)
	left := doc.StackAt(lines[li].Runs, off, doc.Backward)
	right := doc.StackAt(lines[li].Runs, off, doc.Forward)
	if doc.IsStrictPrefix(left, right) {
		return doc.Forward
	}
	if doc.IsStrictPrefix(right, left) {
		return doc.Backward
	}
	switch cmd.Name {
	case extension.CmdDeleteForward, extension.CmdInsertLineBreak:
		return doc.Forward
	default:
		return doc.Backward
	}
}

// Package toggle implements inline mark toggling. A collapsed caret
// toggles pending marks through placeholder graphemes; a range toggle
// wraps or unwraps the selected span, line by line.
package toggle

import (
	"strings"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/engine"
	"github.com/dshills/inkline/internal/extension"
	"github.com/dshills/inkline/internal/segment"
	"github.com/dshills/inkline/internal/serializer"
)

// Apply toggles the wrapper kind behind marker over the state's selection.
// It returns the new source and selection, or ok=false when the marker is
// not registered or the caret does not sit on toggleable content.
func Apply(st extension.State, marker string, reg *extension.Registry) (string, doc.Selection, bool) {
	tp, ok := reg.ToggleFor(marker)
	if !ok {
		return "", doc.Selection{}, false
	}

	d := st.Document()
	lines := engine.FlattenLines(d)
	sel := st.Selection().Normalize().Clamp(engine.TotalLen(lines))

	if sel.IsCaret() {
		return toggleCaret(st.Source(), d, lines, sel, tp, reg)
	}
	return toggleRange(st, lines, sel, marker, tp)
}

// toggleCaret toggles a pending mark at a collapsed caret. The tree is
// edited directly and re-serialized; the caret's global offset never
// moves, only its affinity may.
func toggleCaret(src string, d *doc.Doc, lines []engine.Line, sel doc.Selection, tp extension.TogglePair, reg *extension.Registry) (string, doc.Selection, bool) {
	li, off := engine.Resolve(lines, sel.Start)
	ln := lines[li]
	if _, ok := ln.Block.(*doc.Paragraph); !ok {
		return "", doc.Selection{}, false
	}
	runs := ln.Runs

	// A placeholder at the caret is a pending-mark carrier: toggling
	// mutates its stack in place, and an emptied stack drops it.
	if segment.IsPlaceholder(segment.At(ln.Text, off)) {
		newRuns, ok := togglePlaceholder(runs, off, tp)
		if !ok {
			return "", doc.Selection{}, false
		}
		return rebuildLine(d, lines, li, newRuns, reg), sel.WithAffinity(doc.Forward), true
	}

	cur := doc.StackAt(runs, off, sel.Affinity)
	opp := doc.StackAt(runs, off, sel.Affinity.Opposite())

	var want []doc.Mark
	if doc.ContainsKind(cur, tp.Kind) {
		want = removeKind(cur, tp.Kind)
	} else {
		want = append(append([]doc.Mark(nil), cur...), doc.NewMark(tp.Kind, tp.Data))
	}

	// When the other side of the caret already carries exactly the target
	// stack, flipping affinity is the whole edit.
	if doc.EqualStacks(want, opp) {
		return src, sel.WithAffinity(sel.Affinity.Opposite()), true
	}

	before, after := doc.SplitRuns(runs, off)
	newRuns := make([]doc.Run, 0, len(runs)+1)
	newRuns = append(newRuns, before...)
	newRuns = append(newRuns, doc.Run{Text: segment.Placeholder, Marks: want})
	newRuns = append(newRuns, after...)
	return rebuildLine(d, lines, li, newRuns, reg), sel.WithAffinity(doc.Forward), true
}

// togglePlaceholder flips the toggle kind on the placeholder run at the
// given line offset.
func togglePlaceholder(runs []doc.Run, off int, tp extension.TogglePair) ([]doc.Run, bool) {
	pos := 0
	for i, r := range runs {
		n := r.Len()
		if off >= pos+n {
			pos += n
			continue
		}
		// Offset inside run i; isolate the placeholder grapheme.
		local := off - pos
		before, rest := doc.SplitRuns([]doc.Run{r}, local)
		mid, after := doc.SplitRuns(rest, 1)
		if len(mid) != 1 || !segment.IsPlaceholder(mid[0].Text) {
			return nil, false
		}

		var stack []doc.Mark
		if doc.ContainsKind(mid[0].Marks, tp.Kind) {
			stack = removeKind(mid[0].Marks, tp.Kind)
		} else {
			stack = append(append([]doc.Mark(nil), mid[0].Marks...), doc.NewMark(tp.Kind, tp.Data))
		}

		out := make([]doc.Run, 0, len(runs)+2)
		out = append(out, runs[:i]...)
		out = append(out, before...)
		if len(stack) > 0 {
			out = append(out, doc.Run{Text: segment.Placeholder, Marks: stack})
		}
		out = append(out, after...)
		out = append(out, runs[i+1:]...)
		return out, true
	}
	return nil, false
}

// rebuildLine swaps new runs into the paragraph at line li and serializes
// the resulting document.
func rebuildLine(d *doc.Doc, lines []engine.Line, li int, runs []doc.Run, reg *extension.Registry) string {
	para := &doc.Paragraph{Content: doc.InlinesFromRuns(doc.MergeRuns(runs))}
	path := lines[li].Path
	parent := path[:len(path)-1]
	i := path[len(path)-1]
	nd := &doc.Doc{Blocks: engine.ReplaceRange(d.Blocks, parent, i, i, []doc.Block{para})}
	src, _ := serializer.Serialize(nd, reg)
	return src
}

// toggleRange wraps or unwraps a non-empty selection, one covered line at
// a time. Each line decides independently from its own content whether it
// unwraps; mixed selections therefore toggle per line. The splice happens
// in source space so cursor offsets survive unchanged, markers being
// cursor-invisible.
func toggleRange(st extension.State, lines []engine.Line, sel doc.Selection, marker string, tp extension.TogglePair) (string, doc.Selection, bool) {
	src := st.Source()
	m := st.SourceMap()
	end := sel.End

	sli, soff := engine.Resolve(lines, sel.Start)
	eli, eoff := engine.Resolve(lines, end)

	// Reverse order keeps earlier source offsets valid across splices.
	for i := eli; i >= sli; i-- {
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
		base := engine.LineStart(lines, i)
		sLo := m.CursorToSource(base+lo, doc.Forward)
		sHi := m.CursorToSource(base+hi, doc.Backward)

		if doc.ContainsKind(doc.CommonMarks(ln.Runs, lo, hi), tp.Kind) {
			var shrink int
			src, shrink = unwrapSpan(src, sLo, sHi, tp)
			// Removing cursor-visible characters on any covered line
			// shifts every offset after it, selection end included.
			end -= shrink
		} else {
			src = src[:sLo] + marker + src[sLo:sHi] + marker + src[sHi:]
		}
	}

	return src, doc.NewSelection(sel.Start, end, sel.Affinity), true
}

// unwrapSpan removes the kind's wrapping around src[sLo:sHi]. Markers
// sitting immediately outside the span are deleted; markers carried
// inside the span as literal text are deleted and the cursor length of
// the span shrinks; a span strictly inside a larger wrapper is split out
// by closing and reopening the wrapper at its edges.
func unwrapSpan(src string, sLo, sHi int, tp extension.TogglePair) (string, int) {
	for _, mm := range tp.Markers {
		if strings.HasSuffix(src[:sLo], mm) && strings.HasPrefix(src[sHi:], mm) {
			return src[:sLo-len(mm)] + src[sLo:sHi] + src[sHi+len(mm):], 0
		}
	}
	span := src[sLo:sHi]
	for _, mm := range tp.Markers {
		if len(span) > 2*len(mm) && strings.HasPrefix(span, mm) && strings.HasSuffix(span, mm) {
			return src[:sLo] + span[len(mm):len(span)-len(mm)] + src[sHi:], 2 * segment.Count(mm)
		}
	}
	mm := tp.Markers[0]
	return src[:sLo] + mm + span + mm + src[sHi:], 0
}

// removeKind drops the innermost mark of the given kind from a stack.
func removeKind(stack []doc.Mark, kind string) []doc.Mark {
	for i := len(stack) - 1; i >= 0; i-- {
		if !stack[i].Atom && stack[i].Kind == kind {
			out := make([]doc.Mark, 0, len(stack)-1)
			out = append(out, stack[:i]...)
			out = append(out, stack[i+1:]...)
			return out
		}
	}
	return stack
}

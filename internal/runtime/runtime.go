// Package runtime is the façade over the editing core. It owns the
// parse-normalize-serialize pipeline that keeps source, tree, map, and
// selection consistent, and routes edit commands to extensions, the
// toggle engine, or the structural edit engine.
package runtime

import (
	"errors"

	"github.com/dshills/inkline/internal/cursormap"
	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/engine"
	"github.com/dshills/inkline/internal/extension"
	"github.com/dshills/inkline/internal/normalizer"
	"github.com/dshills/inkline/internal/parser"
	"github.com/dshills/inkline/internal/segment"
	"github.com/dshills/inkline/internal/serializer"
	"github.com/dshills/inkline/internal/toggle"
)

// ErrUnknownCommand reports an edit command name no route recognizes.
var ErrUnknownCommand = errors.New("unknown edit command")

// SelectionKind classifies where a selection update came from; each
// origin resolves boundary affinity differently.
type SelectionKind int

const (
	// SelectionView is a selection reported back by the view layer.
	SelectionView SelectionKind = iota

	// SelectionKeyboard is caret movement by key.
	SelectionKeyboard

	// SelectionProgram is a selection set by calling code; its affinity
	// is taken as given.
	SelectionProgram
)

// Runtime drives all state transitions against one extension registry.
// A Runtime is stateless and safe for concurrent use; all mutable data
// lives in the immutable States it hands out.
type Runtime struct {
	reg *extension.Registry
}

// New builds a runtime over the given registry.
func New(reg *extension.Registry) *Runtime {
	return &Runtime{reg: reg}
}

// Registry returns the runtime's extension registry.
func (r *Runtime) Registry() *extension.Registry { return r.reg }

// Parse parses source into a normalized tree under the runtime's
// registry.
func (r *Runtime) Parse(source string) *doc.Doc {
	return normalizer.Normalize(parser.Parse(source, r.reg), r.reg)
}

// Serialize serializes a tree back to source with its cursor map.
func (r *Runtime) Serialize(d *doc.Doc) (string, *cursormap.Map) {
	return serializer.Serialize(d, r.reg)
}

// CreateState builds a state from raw source. The source is parsed,
// normalized, and re-serialized; the state carries the canonical
// serialization, which may differ from the input.
func (r *Runtime) CreateState(source string, sel doc.Selection) *State {
	d := normalizer.Normalize(parser.Parse(source, r.reg), r.reg)
	src, m := serializer.Serialize(d, r.reg)
	if src != source {
		// Canonicalization changed the text; re-derive the tree from
		// what the state will actually hold.
		d = normalizer.Normalize(parser.Parse(src, r.reg), r.reg)
		src, m = serializer.Serialize(d, r.reg)
	}
	sel = sel.Normalize().Clamp(m.CursorLen())
	return &State{source: src, doc: d, smap: m, sel: sel, rev: newRevision()}
}

// ApplyEdit routes one edit command and returns the resulting state.
// Extensions get first refusal; toggle commands go to the toggle engine;
// structural commands go to the edit engine, falling back to a raw
// source splice when the engine refuses the selection shape.
func (r *Runtime) ApplyEdit(st *State, cmd extension.Command) (*State, error) {
	h, cmd, err := r.reg.DispatchEdit(cmd, st)
	if err != nil {
		return st, err
	}
	if h != nil {
		return r.CreateState(h.Source, h.Selection), nil
	}

	switch cmd.Name {
	case extension.CmdToggleInline:
		src, sel, ok := toggle.Apply(st, cmd.Marker, r.reg)
		if !ok {
			return st, nil
		}
		return r.CreateState(src, sel), nil

	case extension.CmdInsert, extension.CmdInsertLineBreak,
		extension.CmdDeleteBackward, extension.CmdDeleteForward,
		extension.CmdExitBlockWrapper:
		res := engine.Apply(st.doc, cmd, st.sel, r.reg)
		if res == nil {
			return r.rawSplice(st, cmd), nil
		}
		if res.Doc == st.doc {
			// Boundary no-op, e.g. backspace at offset zero.
			return st, nil
		}
		return r.commit(res), nil

	case extension.CmdIndent, extension.CmdOutdent:
		// Core has no nesting levels; these exist for extensions.
		return st, nil

	default:
		return st, ErrUnknownCommand
	}
}

// commit turns an engine result into a canonical state. The caret rides
// through source space: normalization and re-parsing may change cursor
// geometry, but the caret's source position is stable across both.
func (r *Runtime) commit(res *engine.Result) *State {
	nd := normalizer.Normalize(res.Doc, r.reg)
	src1, m1 := serializer.Serialize(nd, r.reg)
	caret := res.Selection.Normalize().Clamp(m1.CursorLen())
	srcCaret := m1.CursorToSource(caret.Start, caret.Affinity)

	d2 := normalizer.Normalize(parser.Parse(src1, r.reg), r.reg)
	src2, m2 := serializer.Serialize(d2, r.reg)
	cur := m2.SourceToCursor(srcCaret, caret.Affinity)
	sel := doc.Caret(cur, caret.Affinity).Clamp(m2.CursorLen())
	return &State{source: src2, doc: d2, smap: m2, sel: sel, rev: newRevision()}
}

// rawSplice is the unscoped fallback: the edit is applied directly to
// the source text through the map. Structure is not preserved beyond
// what re-parsing recovers.
func (r *Runtime) rawSplice(st *State, cmd extension.Command) *State {
	var text string
	switch cmd.Name {
	case extension.CmdInsert:
		text = cmd.Text
	case extension.CmdInsertLineBreak:
		text = "\n"
	case extension.CmdDeleteBackward, extension.CmdDeleteForward:
	default:
		return st
	}

	total := st.smap.CursorLen()
	sel := st.sel.Normalize().Clamp(total)
	start, end := sel.Start, sel.End
	if sel.IsCaret() {
		switch cmd.Name {
		case extension.CmdDeleteBackward:
			if start == 0 {
				return st
			}
			start--
		case extension.CmdDeleteForward:
			if end == total {
				return st
			}
			end++
		}
	}

	srcStart := st.smap.CursorToSource(start, doc.Forward)
	srcEnd := st.smap.CursorToSource(end, doc.Backward)
	if srcEnd < srcStart {
		srcEnd = srcStart
	}
	src := st.source[:srcStart] + text + st.source[srcEnd:]
	return r.CreateState(src, doc.Caret(start+segment.Count(text), doc.Backward))
}

// UpdateSelection moves the selection without editing. Collapsed carets
// get their boundary affinity resolved according to the update's origin.
func (r *Runtime) UpdateSelection(st *State, sel doc.Selection, kind SelectionKind) *State {
	sel = sel.Normalize().Clamp(st.smap.CursorLen())
	if sel.IsCaret() {
		sel = sel.WithAffinity(r.caretAffinity(st, sel.Start, sel.Affinity, kind))
	}
	if sel.Equal(st.sel) {
		return st
	}
	ns := *st
	ns.sel = sel
	ns.rev = newRevision()
	return &ns
}

// caretAffinity resolves a collapsed caret's affinity at wrapper
// boundaries. Keyboard movement prefers staying inside inclusive
// wrappers and outside non-inclusive ones; view updates keep their
// reported affinity unless it would trap the caret inside a
// non-inclusive wrapper; programmatic updates are taken as given.
func (r *Runtime) caretAffinity(st *State, offset int, given doc.Affinity, kind SelectionKind) doc.Affinity {
	if kind == SelectionProgram {
		return given
	}
	lines := engine.FlattenLines(st.doc)
	li, off := engine.Resolve(lines, offset)
	runs := lines[li].Runs
	left := doc.StackAt(runs, off, doc.Backward)
	right := doc.StackAt(runs, off, doc.Forward)

	switch {
	case doc.IsStrictPrefix(right, left):
		// Closing boundary; the caret is exiting left's extra marks.
		for _, m := range left[len(right):] {
			if !m.Atom && !r.reg.Inclusive(m.Kind) {
				return doc.Forward
			}
		}
		if kind == SelectionKeyboard {
			return doc.Backward
		}
		return given
	case doc.IsStrictPrefix(left, right):
		if kind == SelectionKeyboard {
			return doc.Backward
		}
		return given
	default:
		return given
	}
}

// SerializeSelection extracts the selected span as standalone source,
// wrapper structure included. A collapsed selection yields "".
func (r *Runtime) SerializeSelection(st *State) string {
	sel := st.sel.Normalize().Clamp(st.smap.CursorLen())
	if sel.IsCaret() {
		return ""
	}
	lines := engine.FlattenLines(st.doc)
	sli, soff := engine.Resolve(lines, sel.Start)
	eli, eoff := engine.Resolve(lines, sel.End)

	var blocks []doc.Block
	for i := sli; i <= eli; i++ {
		ln := lines[i]
		lo, hi := 0, ln.Length
		if i == sli {
			lo = soff
		}
		if i == eli {
			hi = eoff
		}
		switch b := ln.Block.(type) {
		case *doc.Paragraph:
			runs := doc.SliceRuns(ln.Runs, lo, hi)
			blocks = append(blocks, &doc.Paragraph{Content: doc.InlinesFromRuns(runs)})
		case *doc.BlockAtom:
			if lo == 0 && hi == 1 {
				blocks = append(blocks, doc.CloneBlock(b))
			} else {
				blocks = append(blocks, &doc.Paragraph{})
			}
		}
	}
	return serializer.SerializeBlocksStandalone(blocks, r.reg)
}

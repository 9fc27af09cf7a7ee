package doc

import (
	"strings"

	"github.com/dshills/inkline/internal/segment"
)

// Run is a maximal span of text sharing one ordered mark stack. A
// paragraph's inline content converts to a run list and back without loss;
// the edit engine does all its splicing on runs.
type Run struct {
	Text  string
	Marks []Mark
}

// Len returns the run's length in cursor units.
func (r Run) Len() int {
	return segment.Count(r.Text)
}

// IsAtom reports whether the run stands for an inline atom.
func (r Run) IsAtom() bool {
	return len(r.Marks) > 0 && r.Marks[len(r.Marks)-1].Atom
}

// wrapperMarks returns the run's stack without a trailing atom mark.
func (r Run) wrapperMarks() []Mark {
	if r.IsAtom() {
		return r.Marks[:len(r.Marks)-1]
	}
	return r.Marks
}

// RunsFromInlines flattens inline content into its run list.
func RunsFromInlines(content []Inline) []Run {
	return appendRuns(nil, content, nil)
}

func appendRuns(runs []Run, content []Inline, stack []Mark) []Run {
	for _, in := range content {
		switch n := in.(type) {
		case *Text:
			if n.Text == "" {
				continue
			}
			runs = append(runs, Run{Text: n.Text, Marks: stack})
		case *InlineWrapper:
			child := make([]Mark, len(stack)+1)
			copy(child, stack)
			child[len(stack)] = MarkFor(n)
			runs = appendRuns(runs, n.Children, child)
		case *InlineAtom:
			child := make([]Mark, len(stack)+1)
			copy(child, stack)
			child[len(stack)] = NewAtomMark(n.Kind, n.Data)
			runs = append(runs, Run{Text: segment.AtomRune, Marks: child})
		}
	}
	return runs
}

// InlinesFromRuns rebuilds an inline tree from a run list, nesting
// wrappers according to each run's mark stack.
func InlinesFromRuns(runs []Run) []Inline {
	var root []Inline
	var open []*InlineWrapper
	var openMarks []Mark

	appendChild := func(in Inline) {
		if len(open) == 0 {
			if t, ok := in.(*Text); ok && len(root) > 0 {
				if prev, ok := root[len(root)-1].(*Text); ok {
					prev.Text += t.Text
					return
				}
			}
			root = append(root, in)
			return
		}
		top := open[len(open)-1]
		if t, ok := in.(*Text); ok && len(top.Children) > 0 {
			if prev, ok := top.Children[len(top.Children)-1].(*Text); ok {
				prev.Text += t.Text
				return
			}
		}
		top.Children = append(top.Children, in)
	}

	for _, r := range runs {
		var atom *Mark
		marks := r.Marks
		if r.IsAtom() {
			a := r.Marks[len(r.Marks)-1]
			atom = &a
			marks = r.Marks[:len(r.Marks)-1]
		} else if r.Text == "" {
			continue
		}

		keep := len(CommonPrefix(openMarks, marks))
		open = open[:keep]
		openMarks = openMarks[:keep]
		for _, m := range marks[keep:] {
			w := m.Wrapper()
			appendChild(w)
			open = append(open, w)
			openMarks = append(openMarks, m)
		}

		if atom != nil {
			appendChild(&InlineAtom{Kind: atom.Kind, Data: cloneData(atom.Data)})
		} else {
			appendChild(&Text{Text: r.Text})
		}
	}
	return root
}

// MergeRuns coalesces adjacent runs with identical mark stacks. Atom runs
// are never merged; each stands for one node.
func MergeRuns(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		if r.Text == "" && !r.IsAtom() {
			continue
		}
		if len(out) > 0 {
			last := &out[len(out)-1]
			if !last.IsAtom() && !r.IsAtom() && EqualStacks(last.Marks, r.Marks) {
				last.Text += r.Text
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// RunsLen returns the total cursor length of a run list.
func RunsLen(runs []Run) int {
	n := 0
	for _, r := range runs {
		n += r.Len()
	}
	return n
}

// RunsText returns the visible text of a run list.
func RunsText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// SplitRuns splits a run list at a cursor-unit offset. The offset is
// clamped to [0, RunsLen].
func SplitRuns(runs []Run, at int) (left, right []Run) {
	if at <= 0 {
		return nil, runs
	}
	rem := at
	for i, r := range runs {
		n := r.Len()
		if rem > n || (rem == n && i == len(runs)-1) {
			rem -= n
			continue
		}
		if rem == n {
			left = append(left, runs[:i+1]...)
			right = append(right, runs[i+1:]...)
			return left, right
		}
		// Split inside this run.
		cut := segment.ByteOffset(r.Text, rem)
		left = append(left, runs[:i]...)
		if cut > 0 {
			left = append(left, Run{Text: r.Text[:cut], Marks: r.Marks})
		}
		right = append(right, Run{Text: r.Text[cut:], Marks: r.Marks})
		right = append(right, runs[i+1:]...)
		return left, right
	}
	return runs, nil
}

// StackAt resolves the wrapper mark stack at a cursor offset within a run
// list. Backward affinity inspects the grapheme to the left of the offset,
// forward the one to the right. Positions past either edge yield nil.
func StackAt(runs []Run, offset int, aff Affinity) []Mark {
	idx := offset
	if aff == Backward {
		idx = offset - 1
	}
	if idx < 0 {
		return nil
	}
	for _, r := range runs {
		n := r.Len()
		if idx < n {
			return r.wrapperMarks()
		}
		idx -= n
	}
	return nil
}

// CommonMarks intersects the mark stacks over the cursor range
// [start, end) by position-wise prefix. An empty range yields nil.
func CommonMarks(runs []Run, start, end int) []Mark {
	if end <= start {
		return nil
	}
	var common []Mark
	first := true
	pos := 0
	for _, r := range runs {
		n := r.Len()
		lo, hi := pos, pos+n
		pos = hi
		if hi <= start || lo >= end {
			continue
		}
		if first {
			common = r.wrapperMarks()
			first = false
			continue
		}
		common = CommonPrefix(common, r.wrapperMarks())
		if len(common) == 0 {
			return nil
		}
	}
	if first {
		return nil
	}
	return common
}

// PrefixRuns returns a copy of runs with base prepended to every run's
// mark stack.
func PrefixRuns(runs []Run, base []Mark) []Run {
	if len(base) == 0 {
		return runs
	}
	out := make([]Run, len(runs))
	for i, r := range runs {
		marks := make([]Mark, 0, len(base)+len(r.Marks))
		marks = append(marks, base...)
		marks = append(marks, r.Marks...)
		out[i] = Run{Text: r.Text, Marks: marks}
	}
	return out
}

// SliceRuns extracts the cursor range [start, end) as a new run list.
func SliceRuns(runs []Run, start, end int) []Run {
	_, tail := SplitRuns(runs, start)
	mid, _ := SplitRuns(tail, end-start)
	return mid
}

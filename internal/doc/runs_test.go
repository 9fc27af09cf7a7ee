package doc

import "testing"

func strongMark() Mark { return NewMark("strong", nil) }
func emMark() Mark     { return NewMark("em", map[string]string{"delim": "*"}) }

func TestRunsFromInlinesFlattensNesting(t *testing.T) {
	content := []Inline{
		&Text{Text: "a"},
		&InlineWrapper{Kind: "strong", Children: []Inline{
			&Text{Text: "b"},
			&InlineWrapper{Kind: "em", Data: map[string]string{"delim": "*"}, Children: []Inline{
				&Text{Text: "c"},
			}},
		}},
	}
	runs := RunsFromInlines(content)
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].Text != "a" || len(runs[0].Marks) != 0 {
		t.Errorf("run 0: expected plain %q, got %+v", "a", runs[0])
	}
	if runs[1].Text != "b" || !EqualStacks(runs[1].Marks, []Mark{strongMark()}) {
		t.Errorf("run 1: expected strong %q, got %+v", "b", runs[1])
	}
	if runs[2].Text != "c" || !EqualStacks(runs[2].Marks, []Mark{strongMark(), emMark()}) {
		t.Errorf("run 2: expected strong+em %q, got %+v", "c", runs[2])
	}
}

func TestInlinesFromRunsRebuildsNesting(t *testing.T) {
	runs := []Run{
		{Text: "a"},
		{Text: "b", Marks: []Mark{strongMark()}},
		{Text: "c", Marks: []Mark{strongMark(), emMark()}},
		{Text: "d", Marks: []Mark{strongMark()}},
	}
	content := InlinesFromRuns(runs)
	if len(content) != 2 {
		t.Fatalf("expected 2 top-level inlines, got %d", len(content))
	}
	w, ok := content[1].(*InlineWrapper)
	if !ok || w.Kind != "strong" {
		t.Fatalf("expected strong wrapper, got %T", content[1])
	}
	// b, em(c), d under one strong wrapper.
	if len(w.Children) != 3 {
		t.Fatalf("expected 3 children under strong, got %d", len(w.Children))
	}
	if back := RunsFromInlines(content); !runsEqual(back, runs) {
		t.Errorf("round trip changed runs: %+v", back)
	}
}

func runsEqual(a, b []Run) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text || !EqualStacks(a[i].Marks, b[i].Marks) {
			return false
		}
	}
	return true
}

func TestSplitRuns(t *testing.T) {
	runs := []Run{
		{Text: "ab", Marks: []Mark{strongMark()}},
		{Text: "cd"},
	}
	left, right := SplitRuns(runs, 3)
	if got := RunsText(left); got != "abc" {
		t.Errorf("left text: expected %q, got %q", "abc", got)
	}
	if got := RunsText(right); got != "d" {
		t.Errorf("right text: expected %q, got %q", "d", got)
	}
	if !EqualStacks(left[0].Marks, []Mark{strongMark()}) {
		t.Errorf("left run 0 lost its marks")
	}

	left, right = SplitRuns(runs, 0)
	if left != nil || RunsText(right) != "abcd" {
		t.Errorf("split at 0: expected nil left, got %v / %v", left, right)
	}
	left, right = SplitRuns(runs, 4)
	if RunsText(left) != "abcd" || right != nil {
		t.Errorf("split at end: expected nil right, got %v / %v", left, right)
	}
}

func TestStackAtAffinity(t *testing.T) {
	runs := []Run{
		{Text: "a", Marks: []Mark{strongMark()}},
		{Text: "b"},
	}
	if got := StackAt(runs, 1, Backward); !EqualStacks(got, []Mark{strongMark()}) {
		t.Errorf("backward at 1: expected strong, got %v", got)
	}
	if got := StackAt(runs, 1, Forward); len(got) != 0 {
		t.Errorf("forward at 1: expected empty, got %v", got)
	}
	if got := StackAt(runs, 0, Backward); got != nil {
		t.Errorf("backward at 0: expected nil, got %v", got)
	}
	if got := StackAt(runs, 2, Forward); got != nil {
		t.Errorf("forward past end: expected nil, got %v", got)
	}
}

func TestStackAtSkipsAtomMark(t *testing.T) {
	runs := []Run{
		{Text: "￼", Marks: []Mark{strongMark(), NewAtomMark("image", nil)}},
	}
	if got := StackAt(runs, 0, Forward); !EqualStacks(got, []Mark{strongMark()}) {
		t.Errorf("expected atom mark stripped, got %v", got)
	}
}

func TestCommonMarks(t *testing.T) {
	runs := []Run{
		{Text: "a", Marks: []Mark{strongMark()}},
		{Text: "b", Marks: []Mark{strongMark(), emMark()}},
		{Text: "c"},
	}
	if got := CommonMarks(runs, 0, 2); !EqualStacks(got, []Mark{strongMark()}) {
		t.Errorf("[0,2): expected strong, got %v", got)
	}
	if got := CommonMarks(runs, 0, 3); len(got) != 0 {
		t.Errorf("[0,3): expected empty, got %v", got)
	}
	if got := CommonMarks(runs, 1, 2); !EqualStacks(got, []Mark{strongMark(), emMark()}) {
		t.Errorf("[1,2): expected strong+em, got %v", got)
	}
	if got := CommonMarks(runs, 1, 1); got != nil {
		t.Errorf("empty range: expected nil, got %v", got)
	}
}

func TestMergeRunsKeepsAtomsSeparate(t *testing.T) {
	atom := NewAtomMark("image", nil)
	runs := []Run{
		{Text: "a"},
		{Text: "b"},
		{Text: "￼", Marks: []Mark{atom}},
		{Text: "￼", Marks: []Mark{atom}},
	}
	merged := MergeRuns(runs)
	if len(merged) != 3 {
		t.Fatalf("expected 3 runs after merge, got %d", len(merged))
	}
	if merged[0].Text != "ab" {
		t.Errorf("expected text runs merged into %q, got %q", "ab", merged[0].Text)
	}
}

func TestMarkEquality(t *testing.T) {
	a := NewMark("link", map[string]string{"href": "x"})
	b := NewMark("link", map[string]string{"href": "x"})
	c := NewMark("link", map[string]string{"href": "y"})
	if !a.Equal(b) {
		t.Errorf("marks with equal kind and data should be equal")
	}
	if a.Equal(c) {
		t.Errorf("marks with different data should differ")
	}
	if a.Equal(NewAtomMark("link", map[string]string{"href": "x"})) {
		t.Errorf("atom and wrapper marks should differ")
	}
}

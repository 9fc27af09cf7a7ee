package runtime_test

import (
	"testing"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
	"github.com/dshills/inkline/internal/runtime"
	"github.com/dshills/inkline/internal/syntax"
)

func newRuntime() *runtime.Runtime {
	return runtime.New(syntax.Default())
}

func TestCreateStateCanonicalizes(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("hello", doc.Caret(2, doc.Backward))
	if st.Source() != "hello" {
		t.Errorf("expected source kept, got %q", st.Source())
	}
	if st.Selection().Start != 2 {
		t.Errorf("expected caret 2, got %v", st.Selection())
	}
	if st.Revision() == "" {
		t.Errorf("expected a revision id")
	}

	// Out-of-range selections clamp.
	st = rt.CreateState("ab", doc.Caret(99, doc.Backward))
	if st.Selection().Start != 2 {
		t.Errorf("expected clamped caret 2, got %v", st.Selection())
	}
}

func TestApplyEditInsertTyping(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("", doc.Caret(0, doc.Backward))
	for _, ch := range []string{"h", "i"} {
		var err error
		st, err = rt.ApplyEdit(st, extension.Insert(ch))
		if err != nil {
			t.Fatalf("insert %q: %v", ch, err)
		}
	}
	if st.Source() != "hi" {
		t.Errorf("expected %q, got %q", "hi", st.Source())
	}
	if st.Selection().Start != 2 {
		t.Errorf("expected caret 2, got %v", st.Selection())
	}
}

func TestApplyEditInsertInsideStrong(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("**a**", doc.Caret(1, doc.Backward))
	st, err := rt.ApplyEdit(st, extension.Insert("X"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if st.Source() != "**aX**" {
		t.Errorf("expected %q, got %q", "**aX**", st.Source())
	}
	if st.Selection().Start != 2 {
		t.Errorf("expected caret 2, got %v", st.Selection())
	}
}

func TestToggleThenTypeThenToggleOff(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("", doc.Caret(0, doc.Backward))

	st, err := rt.ApplyEdit(st, extension.ToggleInline("**"))
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if st.Source() != "**\u200b**" {
		t.Fatalf("expected placeholder pair, got %q", st.Source())
	}

	st, err = rt.ApplyEdit(st, extension.Insert("X"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if st.Source() != "**X**" {
		t.Errorf("expected placeholder swallowed, got %q", st.Source())
	}
	if st.Selection().Start != 1 {
		t.Errorf("expected caret 1, got %v", st.Selection())
	}
}

func TestToggleOnThenOffIsIdentity(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("", doc.Caret(0, doc.Backward))
	st, _ = rt.ApplyEdit(st, extension.ToggleInline("**"))
	st, _ = rt.ApplyEdit(st, extension.ToggleInline("**"))
	if st.Source() != "" {
		t.Errorf("expected empty source after double toggle, got %q", st.Source())
	}
}

func TestChainedTogglesNestAroundPlaceholder(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("", doc.Caret(0, doc.Backward))

	st, err := rt.ApplyEdit(st, extension.ToggleInline("**"))
	if err != nil {
		t.Fatalf("toggle strong: %v", err)
	}
	st, err = rt.ApplyEdit(st, extension.ToggleInline("*"))
	if err != nil {
		t.Fatalf("toggle em: %v", err)
	}
	if st.Source() != "***\u200b***" {
		t.Fatalf("expected nested placeholder pair, got %q", st.Source())
	}

	st, err = rt.ApplyEdit(st, extension.Insert("X"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if st.Source() != "***X***" {
		t.Errorf("expected %q, got %q", "***X***", st.Source())
	}
	if st.Selection().Start != 1 {
		t.Errorf("expected caret 1, got %v", st.Selection())
	}
}

func TestInsertAfterLinkLandsOutside(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("[a](url)b", doc.Caret(0, doc.Backward))

	// Keyboard movement to the link's end boundary resolves forward,
	// so typing continues outside the link.
	st = rt.UpdateSelection(st, doc.Caret(1, doc.Backward), runtime.SelectionKeyboard)
	st, err := rt.ApplyEdit(st, extension.Insert("X"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if st.Source() != "[a](url)Xb" {
		t.Errorf("expected %q, got %q", "[a](url)Xb", st.Source())
	}
	if st.Selection().Start != 2 {
		t.Errorf("expected caret 2, got %v", st.Selection())
	}
}

func TestMultiLineToggleRestoresSource(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("ab\ncd", doc.NewSelection(0, 5, doc.Backward))

	st, err := rt.ApplyEdit(st, extension.ToggleInline("**"))
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if st.Source() != "**ab**\n**cd**" {
		t.Fatalf("expected per-line wrap, got %q", st.Source())
	}

	st, err = rt.ApplyEdit(st, extension.ToggleInline("**"))
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if st.Source() != "ab\ncd" {
		t.Errorf("expected original source restored, got %q", st.Source())
	}
	if sel := st.Selection(); sel.Start != 0 || sel.End != 5 {
		t.Errorf("expected selection preserved, got %v", sel)
	}
}

func TestHeadingEnterExitsWrapper(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("# h", doc.Caret(1, doc.Backward))
	st, err := rt.ApplyEdit(st, extension.Command{Name: extension.CmdInsertLineBreak})
	if err != nil {
		t.Fatalf("line break: %v", err)
	}
	if st.Source() != "# h\n" {
		t.Errorf("expected %q, got %q", "# h\n", st.Source())
	}
	if st.Selection().Start != 2 {
		t.Errorf("expected caret on new plain line, got %v", st.Selection())
	}

	st, err = rt.ApplyEdit(st, extension.Insert("p"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if st.Source() != "# h\np" {
		t.Errorf("expected paragraph after heading, got %q", st.Source())
	}
}

func TestCrossParentDeleteFallsBackToSplice(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("# h\npara", doc.NewSelection(0, 3, doc.Backward))
	st, err := rt.ApplyEdit(st, extension.Command{Name: extension.CmdDeleteBackward})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if st.Source() != "# ara" {
		t.Errorf("expected raw splice result %q, got %q", "# ara", st.Source())
	}
}

func TestDeleteAtomThroughRuntime(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("---", doc.Caret(1, doc.Backward))
	st, err := rt.ApplyEdit(st, extension.Command{Name: extension.CmdDeleteBackward})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if st.Source() != "" {
		t.Errorf("expected atom removed, got %q", st.Source())
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("ab", doc.Caret(0, doc.Backward))
	if _, err := rt.ApplyEdit(st, extension.Command{Name: "frobnicate"}); err != runtime.ErrUnknownCommand {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestUpdateSelectionKeyboardAffinity(t *testing.T) {
	rt := newRuntime()

	// Strong is inclusive: a keyboard caret at its end boundary stays
	// inside.
	st := rt.CreateState("**a**b", doc.Caret(0, doc.Backward))
	st = rt.UpdateSelection(st, doc.Caret(1, doc.Forward), runtime.SelectionKeyboard)
	if st.Selection().Affinity != doc.Backward {
		t.Errorf("strong boundary: expected backward, got %v", st.Selection())
	}

	// Links are non-inclusive: the caret lands outside.
	st = rt.CreateState("[a](u)b", doc.Caret(0, doc.Backward))
	st = rt.UpdateSelection(st, doc.Caret(1, doc.Backward), runtime.SelectionKeyboard)
	if st.Selection().Affinity != doc.Forward {
		t.Errorf("link boundary: expected forward, got %v", st.Selection())
	}
}

func TestUpdateSelectionProgramKeepsAffinity(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("**a**b", doc.Caret(0, doc.Backward))
	st = rt.UpdateSelection(st, doc.Caret(1, doc.Forward), runtime.SelectionProgram)
	if st.Selection().Affinity != doc.Forward {
		t.Errorf("expected given affinity kept, got %v", st.Selection())
	}
}

func TestUpdateSelectionSameSelectionKeepsState(t *testing.T) {
	rt := newRuntime()
	st := rt.CreateState("ab", doc.Caret(1, doc.Backward))
	if ns := rt.UpdateSelection(st, doc.Caret(1, doc.Backward), runtime.SelectionProgram); ns != st {
		t.Errorf("expected identical state for unchanged selection")
	}
}

func TestSerializeSelection(t *testing.T) {
	rt := newRuntime()

	st := rt.CreateState("**ab**", doc.NewSelection(1, 2, doc.Backward))
	if got := rt.SerializeSelection(st); got != "**b**" {
		t.Errorf("expected %q, got %q", "**b**", got)
	}

	st = rt.CreateState("a\nb", doc.NewSelection(0, 3, doc.Backward))
	if got := rt.SerializeSelection(st); got != "a\nb" {
		t.Errorf("expected %q, got %q", "a\nb", got)
	}

	st = rt.CreateState("ab", doc.Caret(1, doc.Backward))
	if got := rt.SerializeSelection(st); got != "" {
		t.Errorf("expected empty extraction for caret, got %q", got)
	}
}

func TestApplyEditDelegationLoopBounded(t *testing.T) {
	loop := &loopExt{}
	rt := runtime.New(extension.NewRegistry(loop))
	st := rt.CreateState("ab", doc.Caret(0, doc.Backward))
	if _, err := rt.ApplyEdit(st, extension.Insert("x")); err != extension.ErrDelegationLoop {
		t.Errorf("expected ErrDelegationLoop, got %v", err)
	}
}

// loopExt delegates every edit back to itself forever.
type loopExt struct {
	extension.Base
}

func (loopExt) Name() string { return "loop" }

func (loopExt) OnEdit(cmd extension.Command, st extension.State) (*extension.Handled, *extension.Command) {
	next := cmd
	return nil, &next
}

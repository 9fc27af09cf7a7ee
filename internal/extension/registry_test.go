package extension_test

import (
	"testing"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
)

type fakeExt struct {
	extension.Base

	name    string
	toggles []extension.TogglePair
	onEdit  func(extension.Command) (*extension.Handled, *extension.Command)
}

func (f *fakeExt) Name() string { return f.name }

func (f *fakeExt) Toggles() []extension.TogglePair { return f.toggles }

func (f *fakeExt) Affinity(kind string) (bool, bool) {
	for _, tp := range f.toggles {
		if tp.Kind == kind {
			return tp.Inclusive, true
		}
	}
	return false, false
}

func (f *fakeExt) OnEdit(cmd extension.Command, _ extension.State) (*extension.Handled, *extension.Command) {
	if f.onEdit == nil {
		return nil, nil
	}
	return f.onEdit(cmd)
}

func TestToggleForResolvesMarkers(t *testing.T) {
	reg := extension.NewRegistry(&fakeExt{
		name: "em",
		toggles: []extension.TogglePair{
			{Kind: "em", Markers: []string{"*", "_"}, Inclusive: true},
		},
	})

	for _, marker := range []string{"*", "_"} {
		tp, ok := reg.ToggleFor(marker)
		if !ok || tp.Kind != "em" {
			t.Errorf("marker %q: expected em pair, got %+v ok=%v", marker, tp, ok)
		}
	}
	if _, ok := reg.ToggleFor("~~"); ok {
		t.Errorf("expected unknown marker to miss")
	}
}

func TestMarkerForIsFirstDeclared(t *testing.T) {
	reg := extension.NewRegistry(&fakeExt{
		name: "em",
		toggles: []extension.TogglePair{
			{Kind: "em", Markers: []string{"*", "_"}, Inclusive: true},
		},
	})
	if m, ok := reg.MarkerFor("em"); !ok || m != "*" {
		t.Errorf("expected canonical marker %q, got %q ok=%v", "*", m, ok)
	}
	if _, ok := reg.MarkerFor("strong"); ok {
		t.Errorf("expected unknown kind to miss")
	}
}

func TestInclusiveDefaultsTrue(t *testing.T) {
	reg := extension.NewRegistry(&fakeExt{
		name: "link",
		toggles: []extension.TogglePair{
			{Kind: "link", Markers: []string{"["}, Inclusive: false},
		},
	})
	if reg.Inclusive("link") {
		t.Errorf("expected declared kind to be non-inclusive")
	}
	if !reg.Inclusive("unheard-of") {
		t.Errorf("expected undeclared kind to default inclusive")
	}
}

func TestDispatchEditFirstMatchWins(t *testing.T) {
	handled := &extension.Handled{Source: "done", Selection: doc.Caret(0, doc.Backward)}
	first := &fakeExt{name: "first", onEdit: func(extension.Command) (*extension.Handled, *extension.Command) {
		return handled, nil
	}}
	second := &fakeExt{name: "second", onEdit: func(extension.Command) (*extension.Handled, *extension.Command) {
		t.Errorf("second extension should not be consulted")
		return nil, nil
	}}

	h, _, err := extension.NewRegistry(first, second).DispatchEdit(extension.Insert("x"), nil)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if h != handled {
		t.Errorf("expected first extension's resolution, got %+v", h)
	}
}

func TestDispatchEditFollowsDelegation(t *testing.T) {
	// The first extension rewrites inserts into line breaks; the second
	// resolves line breaks.
	rewriter := &fakeExt{name: "rewriter", onEdit: func(cmd extension.Command) (*extension.Handled, *extension.Command) {
		if cmd.Name == extension.CmdInsert {
			return nil, &extension.Command{Name: extension.CmdInsertLineBreak}
		}
		return nil, nil
	}}
	resolver := &fakeExt{name: "resolver", onEdit: func(cmd extension.Command) (*extension.Handled, *extension.Command) {
		if cmd.Name == extension.CmdInsertLineBreak {
			return &extension.Handled{Source: "break"}, nil
		}
		return nil, nil
	}}

	h, _, err := extension.NewRegistry(rewriter, resolver).DispatchEdit(extension.Insert("x"), nil)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if h == nil || h.Source != "break" {
		t.Errorf("expected delegated resolution, got %+v", h)
	}
}

func TestDispatchEditDeclinedReturnsFinalCommand(t *testing.T) {
	rewriter := &fakeExt{name: "rewriter", onEdit: func(cmd extension.Command) (*extension.Handled, *extension.Command) {
		if cmd.Name == extension.CmdInsert {
			return nil, &extension.Command{Name: extension.CmdExitBlockWrapper}
		}
		return nil, nil
	}}

	h, final, err := extension.NewRegistry(rewriter).DispatchEdit(extension.Insert("x"), nil)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if h != nil {
		t.Errorf("expected no resolution, got %+v", h)
	}
	if final.Name != extension.CmdExitBlockWrapper {
		t.Errorf("expected rewritten command for core routing, got %q", final.Name)
	}
}

func TestDispatchEditBoundsDelegation(t *testing.T) {
	loop := &fakeExt{name: "loop", onEdit: func(cmd extension.Command) (*extension.Handled, *extension.Command) {
		next := cmd
		return nil, &next
	}}
	if _, _, err := extension.NewRegistry(loop).DispatchEdit(extension.Insert("x"), nil); err != extension.ErrDelegationLoop {
		t.Errorf("expected ErrDelegationLoop, got %v", err)
	}
}

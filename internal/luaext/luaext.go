// Package luaext runs user-scripted syntax rules in sandboxed Lua. A
// script returns a descriptor table; its hooks cross the boundary as
// JSON so the Lua side never sees Go structures.
package luaext

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
)

// ErrNoDescriptor reports a script that did not return a descriptor
// table.
var ErrNoDescriptor = errors.New("lua script did not return a descriptor table")

// Ext is one scripted extension. Hooks serialize their input to JSON,
// call into the script, and decode the reply. The Lua state is single
// threaded; a mutex serializes hook calls.
type Ext struct {
	extension.Base

	mu      sync.Mutex
	L       *lua.LState
	name    string
	onEdit  *lua.LFunction
	toggles []extension.TogglePair
}

// Load reads and runs a script file, returning the extension it
// describes.
func Load(path string) (*Ext, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extension script: %w", err)
	}
	return LoadScript(path, string(src))
}

// LoadScript runs script source directly; name is used in errors when
// the descriptor carries none.
func LoadScript(name, src string) (*Ext, error) {
	L := lua.NewState()
	sandbox(L)

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("run extension script %s: %w", name, err)
	}
	desc, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoDescriptor)
	}
	L.Pop(1)

	e := &Ext{L: L, name: name}
	if s, ok := desc.RawGetString("name").(lua.LString); ok {
		e.name = string(s)
	}
	if f, ok := desc.RawGetString("on_edit").(*lua.LFunction); ok {
		e.onEdit = f
	}
	if t, ok := desc.RawGetString("toggles").(*lua.LTable); ok {
		e.toggles = decodeToggles(t)
	}
	return e, nil
}

// Close releases the Lua state.
func (e *Ext) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.L.Close()
}

func (e *Ext) Name() string { return e.name }

func (e *Ext) Toggles() []extension.TogglePair { return e.toggles }

func (e *Ext) Affinity(kind string) (bool, bool) {
	for _, tp := range e.toggles {
		if tp.Kind == kind {
			return tp.Inclusive, true
		}
	}
	return false, false
}

// OnEdit forwards the command to the script's on_edit hook. The hook
// receives one JSON argument and replies with nil (decline), a
// {"handled": ...} object, or a {"command": ...} delegation.
func (e *Ext) OnEdit(cmd extension.Command, st extension.State) (*extension.Handled, *extension.Command) {
	if e.onEdit == nil {
		return nil, nil
	}

	payload := encodeEdit(cmd, st)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.L.Push(e.onEdit)
	e.L.Push(lua.LString(payload))
	if err := e.L.PCall(1, 1, nil); err != nil {
		// A failing script declines; the core route still applies.
		return nil, nil
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)

	reply, ok := ret.(lua.LString)
	if !ok {
		return nil, nil
	}
	return decodeReply(string(reply))
}

// encodeEdit flattens the command and state into the hook's JSON
// payload.
func encodeEdit(cmd extension.Command, st extension.State) string {
	sel := st.Selection()
	out := "{}"
	out, _ = sjson.Set(out, "command.name", cmd.Name)
	out, _ = sjson.Set(out, "command.text", cmd.Text)
	out, _ = sjson.Set(out, "command.marker", cmd.Marker)
	if cmd.Data != "" && gjson.Valid(cmd.Data) {
		out, _ = sjson.SetRaw(out, "command.data", cmd.Data)
	}
	out, _ = sjson.Set(out, "source", st.Source())
	out, _ = sjson.Set(out, "selection.start", sel.Start)
	out, _ = sjson.Set(out, "selection.end", sel.End)
	out, _ = sjson.Set(out, "selection.affinity", sel.Affinity.String())
	return out
}

// decodeReply reads the hook's JSON reply.
func decodeReply(reply string) (*extension.Handled, *extension.Command) {
	if !gjson.Valid(reply) {
		return nil, nil
	}
	if h := gjson.Get(reply, "handled"); h.Exists() {
		sel := doc.NewSelection(
			int(h.Get("selection.start").Int()),
			int(h.Get("selection.end").Int()),
			affinityOf(h.Get("selection.affinity").String()),
		)
		return &extension.Handled{Source: h.Get("source").String(), Selection: sel}, nil
	}
	if c := gjson.Get(reply, "command"); c.Exists() {
		next := &extension.Command{
			Name:   c.Get("name").String(),
			Text:   c.Get("text").String(),
			Marker: c.Get("marker").String(),
		}
		if d := c.Get("data"); d.Exists() {
			next.Data = d.Raw
		}
		return nil, next
	}
	return nil, nil
}

func affinityOf(s string) doc.Affinity {
	if s == "forward" {
		return doc.Forward
	}
	return doc.Backward
}

// decodeToggles reads the descriptor's toggles array.
func decodeToggles(t *lua.LTable) []extension.TogglePair {
	var out []extension.TogglePair
	t.ForEach(func(_, v lua.LValue) {
		entry, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		tp := extension.TogglePair{Inclusive: true}
		if s, ok := entry.RawGetString("kind").(lua.LString); ok {
			tp.Kind = string(s)
		}
		if s, ok := entry.RawGetString("marker").(lua.LString); ok {
			tp.Markers = []string{string(s)}
		}
		if b, ok := entry.RawGetString("inclusive").(lua.LBool); ok {
			tp.Inclusive = bool(b)
		}
		if tp.Kind != "" && len(tp.Markers) > 0 {
			out = append(out, tp)
		}
	})
	return out
}

package extension

import "errors"

// ErrDelegationLoop reports an OnEdit delegation chain that exceeded the
// iteration bound. This is an extension contract violation, not a
// recoverable runtime state.
var ErrDelegationLoop = errors.New("extension edit delegation exceeded bound")

// maxDelegation bounds the OnEdit re-dispatch loop.
const maxDelegation = 16

// Registry is the fixed, ordered list of syntax rules. It is built once
// and never mutated during a call; dispatch iterates in registration
// order and the first matching rule wins.
type Registry struct {
	exts []Extension
}

// NewRegistry builds a registry over the given extensions in order.
func NewRegistry(exts ...Extension) *Registry {
	return &Registry{exts: exts}
}

// Extensions returns the registered extensions in dispatch order.
func (r *Registry) Extensions() []Extension {
	return r.exts
}

// ToggleFor resolves a literal marker to its declared toggle pair.
func (r *Registry) ToggleFor(marker string) (TogglePair, bool) {
	for _, e := range r.exts {
		for _, tp := range e.Toggles() {
			for _, m := range tp.Markers {
				if m == marker {
					return tp, true
				}
			}
		}
	}
	return TogglePair{}, false
}

// MarkerFor returns the canonical (first declared) marker for a wrapper
// kind.
func (r *Registry) MarkerFor(kind string) (string, bool) {
	for _, e := range r.exts {
		for _, tp := range e.Toggles() {
			if tp.Kind == kind && len(tp.Markers) > 0 {
				return tp.Markers[0], true
			}
		}
	}
	return "", false
}

// Inclusive reports whether a caret at the end boundary of a wrapper of
// the given kind is considered still inside it. Kinds no extension
// declares default to inclusive.
func (r *Registry) Inclusive(kind string) bool {
	for _, e := range r.exts {
		if inc, ok := e.Affinity(kind); ok {
			return inc
		}
	}
	return true
}

// DispatchEdit offers a command to every extension in order, following
// delegations until one resolves the edit or none delegates further.
// It returns the resolution (nil if no extension handled the edit) and
// the final command for the core to classify.
func (r *Registry) DispatchEdit(cmd Command, st State) (*Handled, Command, error) {
	for i := 0; i < maxDelegation; i++ {
		delegated := false
		for _, e := range r.exts {
			h, next := e.OnEdit(cmd, st)
			if h != nil {
				return h, cmd, nil
			}
			if next != nil {
				cmd = *next
				delegated = true
				break
			}
		}
		if !delegated {
			return nil, cmd, nil
		}
	}
	return nil, cmd, ErrDelegationLoop
}

package runtime

import (
	"github.com/dshills/inkline/internal/cursormap"
	"github.com/dshills/inkline/internal/doc"
	"github.com/google/uuid"
)

// State is one immutable editing state: canonical source, the tree
// parsed from it, the cursor-source map derived while serializing, and
// the selection. Every edit produces a fresh State; a State is never
// mutated after construction, so readers need no locking.
type State struct {
	source string
	doc    *doc.Doc
	smap   *cursormap.Map
	sel    doc.Selection
	rev    string
}

// Source returns the canonical source text.
func (s *State) Source() string { return s.source }

// Document returns the parsed tree. Callers must treat it as read-only.
func (s *State) Document() *doc.Doc { return s.doc }

// Selection returns the current selection in cursor units.
func (s *State) Selection() doc.Selection { return s.sel }

// SourceMap returns the cursor-source position map.
func (s *State) SourceMap() *cursormap.Map { return s.smap }

// Revision identifies this state; two states with equal content still
// carry distinct revisions.
func (s *State) Revision() string { return s.rev }

func newRevision() string { return uuid.NewString() }

// Package extension defines the capability protocol that keeps the core
// syntax-agnostic. Independent syntax rules (bold, links, headings...)
// implement Extension and register in order; dispatch is registration
// order, first match wins, and that order is a public contract.
package extension

import (
	"github.com/dshills/inkline/internal/cursormap"
	"github.com/dshills/inkline/internal/doc"
)

// ParseContext gives parse rules recursive access to the parser without a
// package dependency on it.
type ParseContext interface {
	// ParseInline parses a source fragment as inline content.
	ParseInline(src string) []doc.Inline

	// ParseInlineRange parses src[start:end) as inline content.
	ParseInlineRange(src string, start, end int) []doc.Inline

	// ParseBlocks parses a source fragment as a standalone block list,
	// letting container rules recurse into their stripped content.
	ParseBlocks(src string) []doc.Block
}

// SerializeContext gives serialize rules access to the active source
// builder and recursive serialization.
type SerializeContext interface {
	// AppendText emits visible text, advancing the cursor length.
	AppendText(t string)

	// AppendSourceOnly emits syntax that occupies no cursor units.
	AppendSourceOnly(t string)

	// AppendAtom emits an atom's full syntax as one cursor unit.
	AppendAtom(source string)

	// SerializeInlines recursively serializes inline content.
	SerializeInlines(content []doc.Inline)

	// SerializeBlocks recursively serializes child blocks, separating
	// siblings with a cursor-addressable newline.
	SerializeBlocks(blocks []doc.Block)
}

// State is the read-only view of a runtime state passed to edit hooks.
type State interface {
	Source() string
	Document() *doc.Doc
	Selection() doc.Selection
	SourceMap() *cursormap.Map
}

// Handled is an edit fully resolved by an extension: the new source text
// and selection replace the state wholesale.
type Handled struct {
	Source    string
	Selection doc.Selection
}

// TogglePair declares which literal markers toggle which wrapper kind.
// Data, when set, is stamped onto marks the toggle creates, so kinds with
// several surface spellings keep their spelling across a round trip.
type TogglePair struct {
	Kind      string
	Markers   []string
	Inclusive bool
	Data      map[string]string
}

// Extension is one syntax rule. All methods are optional in the sense
// that Base provides refusing defaults; dispatch moves to the next
// extension when a hook refuses.
type Extension interface {
	// Name identifies the extension in configuration and errors.
	Name() string

	// ParseBlock attempts to parse a block starting at pos. It returns
	// the block, the position after it (past any trailing newline the
	// rule consumed), and whether it matched.
	ParseBlock(p ParseContext, src string, pos int) (doc.Block, int, bool)

	// ParseInline attempts to parse an inline node at pos within
	// [pos, end). It returns the node, the position after it, and
	// whether it matched.
	ParseInline(p ParseContext, src string, pos, end int) (doc.Inline, int, bool)

	// SerializeBlock serializes a block it owns, returning false to
	// pass.
	SerializeBlock(s SerializeContext, b doc.Block) bool

	// SerializeInline serializes an inline node it owns, returning
	// false to pass.
	SerializeInline(s SerializeContext, in doc.Inline) bool

	// NormalizeBlock may replace a block (return replacement, true) or
	// delete it (return nil, true). Returning false leaves it alone.
	NormalizeBlock(b doc.Block) (doc.Block, bool)

	// NormalizeInline is NormalizeBlock for inline nodes.
	NormalizeInline(in doc.Inline) (doc.Inline, bool)

	// OnEdit gets first refusal on any edit command. It may fully
	// resolve the edit, delegate by returning a replacement command,
	// or decline with both results nil.
	OnEdit(cmd Command, st State) (*Handled, *Command)

	// Toggles declares the marker-to-kind mappings this extension
	// serves for toggle-inline.
	Toggles() []TogglePair

	// Affinity reports whether a caret at the end boundary of a
	// wrapper of the given kind is still inside it. ok is false for
	// kinds the extension does not own.
	Affinity(kind string) (inclusive, ok bool)
}

// Base is a no-op Extension for embedding; each hook refuses so dispatch
// falls through to the next extension or the core default.
type Base struct{}

func (Base) ParseBlock(ParseContext, string, int) (doc.Block, int, bool) { return nil, 0, false }
func (Base) ParseInline(ParseContext, string, int, int) (doc.Inline, int, bool) {
	return nil, 0, false
}
func (Base) SerializeBlock(SerializeContext, doc.Block) bool       { return false }
func (Base) SerializeInline(SerializeContext, doc.Inline) bool     { return false }
func (Base) NormalizeBlock(doc.Block) (doc.Block, bool)            { return nil, false }
func (Base) NormalizeInline(doc.Inline) (doc.Inline, bool)         { return nil, false }
func (Base) OnEdit(Command, State) (*Handled, *Command)            { return nil, nil }
func (Base) Toggles() []TogglePair                                 { return nil }
func (Base) Affinity(string) (bool, bool)                          { return false, false }

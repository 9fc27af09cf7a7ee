// Package syntax holds the built-in syntax rules. Each rule is an
// independent extension; Default wires them in their contractual
// dispatch order.
package syntax

import (
	"strings"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
)

// Pair is an inline wrapper delimited by a symmetric literal marker, the
// shape shared by strong and emphasis. Markers are tried in declaration
// order, so longer spellings must come first when they share a prefix.
type Pair struct {
	extension.Base
	kind      string
	markers   []string
	inclusive bool

	// dataKey, when set, records the matched marker in the wrapper's
	// data so the spelling survives a round trip.
	dataKey string
}

// NewPair builds a symmetric marker-pair rule.
func NewPair(kind string, inclusive bool, dataKey string, markers ...string) *Pair {
	return &Pair{kind: kind, markers: markers, inclusive: inclusive, dataKey: dataKey}
}

// Strong is the ** wrapper.
func Strong() *Pair {
	return NewPair("strong", true, "", "**")
}

// Emphasis is the single-delimiter wrapper; both spellings map to one
// kind and the data records which was used.
func Emphasis() *Pair {
	return NewPair("em", true, "delim", "*", "_")
}

func (p *Pair) Name() string { return p.kind }

func (p *Pair) ParseInline(pc extension.ParseContext, src string, pos, end int) (doc.Inline, int, bool) {
	for _, mm := range p.markers {
		if !strings.HasPrefix(src[pos:end], mm) {
			continue
		}
		innerStart := pos + len(mm)
		rel := strings.Index(src[innerStart:end], mm)
		if rel <= 0 {
			// Unclosed, or an empty pair; both stay literal.
			continue
		}
		innerEnd := innerStart + rel
		if delimRun(mm) {
			// A closer overlapping a longer run of the delimiter slides
			// to the run's end, keeping the extra characters inside the
			// span: ***x*** is strong around em, not a split-off star.
			for innerEnd+len(mm) < end && src[innerEnd+len(mm)] == mm[0] {
				innerEnd++
			}
		}
		w := &doc.InlineWrapper{
			Kind:     p.kind,
			Children: pc.ParseInlineRange(src, innerStart, innerEnd),
		}
		if p.dataKey != "" {
			w.Data = map[string]string{p.dataKey: mm}
		}
		return w, innerEnd + len(mm), true
	}
	return nil, 0, false
}

// delimRun reports whether a marker is a run of one repeated byte. Only
// such markers can overlap a longer run at the closing position.
func delimRun(mm string) bool {
	for i := 1; i < len(mm); i++ {
		if mm[i] != mm[0] {
			return false
		}
	}
	return true
}

func (p *Pair) SerializeInline(s extension.SerializeContext, in doc.Inline) bool {
	w, ok := in.(*doc.InlineWrapper)
	if !ok || w.Kind != p.kind {
		return false
	}
	mm := p.markers[0]
	if p.dataKey != "" {
		if d, ok := w.Data[p.dataKey]; ok {
			for _, m := range p.markers {
				if m == d {
					mm = d
					break
				}
			}
		}
	}
	s.AppendSourceOnly(mm)
	s.SerializeInlines(w.Children)
	s.AppendSourceOnly(mm)
	return true
}

func (p *Pair) Toggles() []extension.TogglePair {
	if p.dataKey == "" {
		return []extension.TogglePair{{Kind: p.kind, Markers: p.markers, Inclusive: p.inclusive}}
	}
	out := make([]extension.TogglePair, len(p.markers))
	for i, mm := range p.markers {
		out[i] = extension.TogglePair{
			Kind:      p.kind,
			Markers:   []string{mm},
			Inclusive: p.inclusive,
			Data:      map[string]string{p.dataKey: mm},
		}
	}
	return out
}

func (p *Pair) Affinity(kind string) (bool, bool) {
	return p.inclusive, kind == p.kind
}

// Package parser converts syntax-marked source text into a document tree.
//
// Parsing is extension-dispatched: at each position every registered
// rule is tried in registration order and the first match wins. Positions
// no rule claims fall back to literal text, so malformed or unbalanced
// syntax always parses, never errors.
package parser

import (
	"strings"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/extension"
	"github.com/dshills/inkline/internal/segment"
)

// maxClusterLookahead bounds how far the segmenter scans for one grapheme
// cluster during literal fallback.
const maxClusterLookahead = 64

// Parse converts source text into a document tree.
//
// Empty source and source ending in a line break each yield one explicit
// trailing empty paragraph, so the cursor representation always exposes
// an addressable empty line.
func Parse(src string, reg *extension.Registry) *doc.Doc {
	p := &parseCtx{reg: reg}
	var blocks []doc.Block

	pos := 0
	for pos < len(src) {
		if b, next, ok := p.parseBlockAt(src, pos); ok {
			blocks = append(blocks, b)
			pos = next
			continue
		}
		// Literal paragraph up to the next line break.
		lineEnd := len(src)
		next := len(src)
		if i := strings.IndexByte(src[pos:], '\n'); i >= 0 {
			lineEnd = pos + i
			next = lineEnd + 1
		}
		blocks = append(blocks, &doc.Paragraph{Content: p.ParseInlineRange(src, pos, lineEnd)})
		pos = next
	}

	if src == "" || strings.HasSuffix(src, "\n") {
		blocks = append(blocks, &doc.Paragraph{})
	}
	return &doc.Doc{Blocks: blocks}
}

type parseCtx struct {
	reg *extension.Registry
}

// parseBlockAt dispatches block rules at pos. A matching rule consumes
// through any trailing newline it owns.
func (p *parseCtx) parseBlockAt(src string, pos int) (doc.Block, int, bool) {
	for _, e := range p.reg.Extensions() {
		if b, next, ok := e.ParseBlock(p, src, pos); ok && next > pos {
			return b, next, true
		}
	}
	return nil, 0, false
}

// ParseBlocks parses a source fragment as a standalone block list.
func (p *parseCtx) ParseBlocks(src string) []doc.Block {
	return Parse(src, p.reg).Blocks
}

// ParseInline parses a whole source fragment as inline content.
func (p *parseCtx) ParseInline(src string) []doc.Inline {
	return p.ParseInlineRange(src, 0, len(src))
}

// ParseInlineRange parses src[start:end) as inline content. Unmatched
// positions consume exactly one grapheme as literal text, with a
// single-byte fast path for ASCII.
func (p *parseCtx) ParseInlineRange(src string, start, end int) []doc.Inline {
	if end > len(src) {
		end = len(src)
	}
	var out []doc.Inline
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			out = append(out, &doc.Text{Text: lit.String()})
			lit.Reset()
		}
	}

	pos := start
	for pos < end {
		matched := false
		for _, e := range p.reg.Extensions() {
			if in, next, ok := e.ParseInline(p, src, pos, end); ok && next > pos {
				flush()
				out = append(out, in)
				pos = next
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if c := src[pos]; c < 0x80 {
			lit.WriteByte(c)
			pos++
			continue
		}
		window := end
		if window > pos+maxClusterLookahead {
			window = pos + maxClusterLookahead
		}
		cluster, _ := segment.First(src[pos:window])
		lit.WriteString(cluster)
		pos += len(cluster)
	}
	flush()
	return out
}

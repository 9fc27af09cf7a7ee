// Package doc defines the document tree and the value types shared by the
// parser, serializer, and edit engines.
//
// A Doc holds an ordered sequence of blocks. Leaf blocks (Paragraph,
// BlockAtom) are the logical lines of the document; BlockWrapper nests
// recursively and contributes source-only syntax around its children.
// Inline content is a tree of text, wrappers, and one-unit atoms.
package doc

// Doc is the document root. A valid Doc always contains at least one block.
type Doc struct {
	Blocks []Block
}

// New returns a document holding a single empty paragraph.
func New() *Doc {
	return &Doc{Blocks: []Block{&Paragraph{}}}
}

// Block is a block-level node. Implemented by *Paragraph, *BlockWrapper,
// and *BlockAtom.
type Block interface {
	isBlock()
}

// Paragraph is a leaf block holding inline content.
type Paragraph struct {
	Content []Inline
}

// BlockWrapper is a block that wraps child blocks (heading, blockquote,
// list item). Its children are logical lines.
type BlockWrapper struct {
	Kind   string
	Data   map[string]string
	Blocks []Block
}

// BlockAtom is a content-less block occupying one logical line of exactly
// one cursor unit (e.g. a thematic break or embed placeholder).
type BlockAtom struct {
	Kind string
	Data map[string]string
}

func (*Paragraph) isBlock()    {}
func (*BlockWrapper) isBlock() {}
func (*BlockAtom) isBlock()    {}

// Inline is an inline-level node. Implemented by *Text, *InlineWrapper,
// and *InlineAtom.
type Inline interface {
	isInline()
}

// Text is a literal text node.
type Text struct {
	Text string
}

// InlineWrapper wraps child inlines with a formatting mark (bold, italic,
// link). The wrapper's syntax characters are source-only.
type InlineWrapper struct {
	Kind     string
	Data     map[string]string
	Children []Inline
}

// InlineAtom is a content-less inline occupying exactly one cursor unit;
// its visible text is a single placeholder character.
type InlineAtom struct {
	Kind string
	Data map[string]string
}

func (*Text) isInline()          {}
func (*InlineWrapper) isInline() {}
func (*InlineAtom) isInline()    {}

// CloneBlock returns a deep copy of a block.
func CloneBlock(b Block) Block {
	switch n := b.(type) {
	case *Paragraph:
		return &Paragraph{Content: CloneInlines(n.Content)}
	case *BlockWrapper:
		blocks := make([]Block, len(n.Blocks))
		for i, c := range n.Blocks {
			blocks[i] = CloneBlock(c)
		}
		return &BlockWrapper{Kind: n.Kind, Data: cloneData(n.Data), Blocks: blocks}
	case *BlockAtom:
		return &BlockAtom{Kind: n.Kind, Data: cloneData(n.Data)}
	default:
		return b
	}
}

// CloneInlines returns a deep copy of an inline list.
func CloneInlines(content []Inline) []Inline {
	if content == nil {
		return nil
	}
	out := make([]Inline, len(content))
	for i, in := range content {
		out[i] = CloneInline(in)
	}
	return out
}

// CloneInline returns a deep copy of an inline node.
func CloneInline(in Inline) Inline {
	switch n := in.(type) {
	case *Text:
		return &Text{Text: n.Text}
	case *InlineWrapper:
		return &InlineWrapper{Kind: n.Kind, Data: cloneData(n.Data), Children: CloneInlines(n.Children)}
	case *InlineAtom:
		return &InlineAtom{Kind: n.Kind, Data: cloneData(n.Data)}
	default:
		return in
	}
}

func cloneData(data map[string]string) map[string]string {
	if data == nil {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

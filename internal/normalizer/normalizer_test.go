package normalizer_test

import (
	"testing"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/normalizer"
	"github.com/dshills/inkline/internal/serializer"
	"github.com/dshills/inkline/internal/syntax"
)

func TestNormalizeMergesAdjacentText(t *testing.T) {
	reg := syntax.Default()
	d := &doc.Doc{Blocks: []doc.Block{
		&doc.Paragraph{Content: []doc.Inline{
			&doc.Text{Text: "a"},
			&doc.Text{Text: ""},
			&doc.Text{Text: "b"},
		}},
	}}
	nd := normalizer.Normalize(d, reg)
	p := nd.Blocks[0].(*doc.Paragraph)
	if len(p.Content) != 1 {
		t.Fatalf("expected 1 inline, got %d", len(p.Content))
	}
	if txt := p.Content[0].(*doc.Text); txt.Text != "ab" {
		t.Errorf("expected merged %q, got %q", "ab", txt.Text)
	}
}

func TestNormalizePrunesEmptyWrappers(t *testing.T) {
	reg := syntax.Default()
	d := &doc.Doc{Blocks: []doc.Block{
		&doc.Paragraph{Content: []doc.Inline{
			&doc.InlineWrapper{Kind: "strong"},
			&doc.Text{Text: "x"},
		}},
		&doc.BlockWrapper{Kind: "blockquote"},
	}}
	nd := normalizer.Normalize(d, reg)
	if len(nd.Blocks) != 1 {
		t.Fatalf("expected empty block wrapper pruned, got %d blocks", len(nd.Blocks))
	}
	p := nd.Blocks[0].(*doc.Paragraph)
	if len(p.Content) != 1 {
		t.Errorf("expected empty inline wrapper pruned, got %+v", p.Content)
	}
}

func TestNormalizeKeepsAtLeastOneBlock(t *testing.T) {
	reg := syntax.Default()
	nd := normalizer.Normalize(&doc.Doc{}, reg)
	if len(nd.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(nd.Blocks))
	}
	if _, ok := nd.Blocks[0].(*doc.Paragraph); !ok {
		t.Errorf("expected empty paragraph, got %T", nd.Blocks[0])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	reg := syntax.Default()
	d := &doc.Doc{Blocks: []doc.Block{
		&doc.Paragraph{Content: []doc.Inline{
			&doc.Text{Text: "a"},
			&doc.InlineWrapper{Kind: "strong", Children: []doc.Inline{&doc.Text{Text: "b"}}},
		}},
	}}
	once := normalizer.Normalize(d, reg)
	twice := normalizer.Normalize(once, reg)
	a, _ := serializer.Serialize(once, reg)
	b, _ := serializer.Serialize(twice, reg)
	if a != b {
		t.Errorf("normalize not idempotent: %q then %q", a, b)
	}
}

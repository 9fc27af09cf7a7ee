package serializer_test

import (
	"testing"

	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/parser"
	"github.com/dshills/inkline/internal/serializer"
	"github.com/dshills/inkline/internal/syntax"
)

func TestRoundTrip(t *testing.T) {
	reg := syntax.Default()
	cases := []string{
		"",
		"hello",
		"a\nb",
		"a\n\nb",
		"a\n",
		"**bold** and *em*",
		"a_b_c",
		"***a***",
		"**a",
		"# Title\ntext",
		"###### deep",
		"> quoted\n> lines",
		"> > nested",
		"- item\n- two",
		"---\ntext",
		"![alt](i.png) and [t](u)",
		"[text **bold**](url)",
	}
	for _, src := range cases {
		d := parser.Parse(src, reg)
		out, m := serializer.Serialize(d, reg)
		if out != src {
			t.Errorf("round trip %q: got %q", src, out)
		}
		if m.SourceLen() != len(out) {
			t.Errorf("%q: map source length %d, source is %d bytes", src, m.SourceLen(), len(out))
		}
	}
}

func TestSerializeCursorLengthExcludesSyntax(t *testing.T) {
	reg := syntax.Default()
	cases := []struct {
		src string
		len int
	}{
		{"ab", 2},
		{"**ab**", 2},
		{"# ab", 2},
		{"a\nb", 3},
		{"![x](y)", 1},
		{"---", 1},
		{"> a", 1},
	}
	for _, tc := range cases {
		d := parser.Parse(tc.src, reg)
		_, m := serializer.Serialize(d, reg)
		if got := m.CursorLen(); got != tc.len {
			t.Errorf("%q: expected cursor length %d, got %d", tc.src, tc.len, got)
		}
	}
}

func TestSerializeBlocksStandalone(t *testing.T) {
	reg := syntax.Default()
	blocks := []doc.Block{
		&doc.Paragraph{Content: []doc.Inline{
			&doc.InlineWrapper{Kind: "strong", Children: []doc.Inline{&doc.Text{Text: "b"}}},
		}},
		&doc.BlockAtom{Kind: "rule"},
	}
	if got := serializer.SerializeBlocksStandalone(blocks, reg); got != "**b**\n---" {
		t.Errorf("expected %q, got %q", "**b**\n---", got)
	}
}

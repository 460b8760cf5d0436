// Package mdtext converts Markdown to plain text for excerpt building.
package mdtext

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ExcerptLength is the rune budget for post excerpts
const ExcerptLength = 200

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Plain renders Markdown source to plain text. Inline markup is dropped,
// block boundaries collapse to single spaces, code block content is kept.
func Plain(src []byte) string {
	doc := md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}

		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.CodeBlock:
			writeLines(&b, src, t)
		case *ast.FencedCodeBlock:
			writeLines(&b, src, t)
		}
		return ast.WalkContinue, nil
	})

	// collapse runs of whitespace left by block separators
	return strings.Join(strings.Fields(b.String()), " ")
}

func writeLines(b *strings.Builder, src []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
		b.WriteByte(' ')
	}
}

// Excerpt truncates s to at most n runes, appending an ellipsis when the
// text was cut. Truncation is rune-safe, multi-byte characters are never
// split.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}

package layout

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// RenderMarkdown renders a Markdown string into PDF pages using goldmark.
func (e *Engine) RenderMarkdown(source string) error {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))
	e.walkMarkdown(doc, src)
	return nil
}

func (e *Engine) walkMarkdown(node ast.Node, source []byte) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			e.renderHeading(n.Level, string(n.Text(source)))
		case *ast.Paragraph:
			e.renderParagraph(inlineText(n, source))
		case *ast.List:
			e.walkMarkdown(n, source)
		case *ast.ListItem:
			e.renderMarkdownListItem(n, source)
		case *ast.FencedCodeBlock:
			e.renderCodeBlock(blockLines(n, source))
		case *ast.CodeBlock:
			e.renderCodeBlock(blockLines(n, source))
		case *ast.Blockquote:
			e.walkMarkdown(n, source)
		case *ast.ThematicBreak:
			e.renderParagraph(strings.Repeat("-", 40))
		}
	}
}

func (e *Engine) renderMarkdownListItem(n *ast.ListItem, source []byte) {
	var textContent string
	if child := n.FirstChild(); child != nil {
		if p, ok := child.(*ast.Paragraph); ok {
			textContent = inlineText(p, source)
		} else if tb, ok := child.(*ast.TextBlock); ok {
			textContent = inlineText(tb, source)
		} else {
			textContent = string(child.Text(source))
		}
	}
	e.renderListItem(textContent)

	// nested lists
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if l, ok := child.(*ast.List); ok {
			e.walkMarkdown(l, source)
		}
	}
}

// inlineText concatenates the text of all inline children of a block node,
// flattening emphasis and code spans to plain text.
func inlineText(node ast.Node, source []byte) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.WriteString(string(child.Text(source)))
	}
	return sb.String()
}

func blockLines(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

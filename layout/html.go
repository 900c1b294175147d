package layout

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML renders an HTML string into PDF pages.
func (e *Engine) RenderHTML(source string) error {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return err
	}
	e.walkHTML(doc)
	return nil
}

func (e *Engine) walkHTML(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head:
			return
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			e.renderHeading(htmlHeadingLevel(n.DataAtom), collapseSpace(textContent(n)))
			return
		case atom.P:
			e.renderParagraph(collapseSpace(textContent(n)))
			return
		case atom.Li:
			e.renderListItem(collapseSpace(textContent(n)))
			return
		case atom.Pre:
			e.renderCodeBlock(textContent(n))
			return
		case atom.Tr:
			e.renderTableRow(n)
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walkHTML(c)
	}
}

// renderTableRow lays a table row out as a single line with cells separated
// by two spaces. Real column layout is left to the external engines.
func (e *Engine) renderTableRow(n *html.Node) {
	var cells []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, collapseSpace(textContent(c)))
		}
	}
	if len(cells) == 0 {
		return
	}
	e.renderParagraph(strings.Join(cells, "  "))
}

func htmlHeadingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	default:
		return 4
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

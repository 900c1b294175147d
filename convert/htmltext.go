package convert

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DocInfo is the structure recovered from an HTML document: the json export
// emits it and template extraction reuses it for best-effort parsing.
type DocInfo struct {
	Title  string     `json:"title"`
	Text   string     `json:"text"`
	Links  []string   `json:"links"`
	Images []string   `json:"images"`
	Tables [][]string `json:"tables,omitempty"`
}

// Inspect parses an HTML document and recovers whatever structure it can.
func Inspect(source string) (*DocInfo, error) {
	root, err := parseHTML(source)
	if err != nil {
		return nil, err
	}
	return inspectHTML(root), nil
}

func parseHTML(source string) (*html.Node, error) {
	return html.Parse(strings.NewReader(source))
}

func inspectHTML(root *html.Node) *DocInfo {
	info := &DocInfo{Links: []string{}, Images: []string{}}
	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Title:
				info.Title = strings.TrimSpace(nodeText(n))
				return
			case atom.A:
				if href := attr(n, "href"); href != "" {
					info.Links = append(info.Links, href)
				}
			case atom.Img:
				if src := attr(n, "src"); src != "" {
					info.Images = append(info.Images, src)
				}
			case atom.Table:
				info.Tables = append(info.Tables, tableRows(n)...)
			case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Li, atom.Td, atom.Th:
				if text := strings.Join(strings.Fields(nodeText(n)), " "); text != "" {
					blocks = append(blocks, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	info.Text = strings.Join(blocks, "\n")
	return info
}

func nodeText(n *html.Node) string {
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

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// renderBody returns the serialized children of the document's body element,
// or the empty string when no body exists.
func renderBody(root *html.Node) string {
	body := findNode(root, atom.Body)
	if body == nil {
		return ""
	}
	var sb strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return ""
		}
	}
	return sb.String()
}

func findNode(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, a); found != nil {
			return found
		}
	}
	return nil
}

// tableRows flattens a table element into rows of cell text.
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					cells = append(cells, strings.Join(strings.Fields(nodeText(c)), " "))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

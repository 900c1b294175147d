package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	stdhtml "html"
	"os"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"redoc/format"
	"redoc/layout"
)

// HTMLConverter is the converter bound to the html format. HTML doubles as
// the intermediate markup for template rendering, so its template branch
// emits the rendered markup directly.
type HTMLConverter struct {
	core
}

// NewHTMLConverter constructs the html converter.
func NewHTMLConverter(deps Deps) *HTMLConverter {
	c := &HTMLConverter{}
	c.core = core{native: format.HTML, renderer: deps.Renderer, log: deps.logger()}
	c.exports = map[format.ID]stepFunc{
		format.PDF:  c.toPDF,
		format.TXT:  c.toText,
		format.MD:   c.toMarkdown,
		format.JSON: c.toJSON,
		format.XML:  c.toXML,
		format.EPUB: c.toEPUB,
	}
	c.imports = map[format.ID]stepFunc{
		format.MD: c.fromMarkdown,
	}
	return c
}

func (c *HTMLConverter) toPDF(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	engine := layout.NewEngine()
	if err := engine.RenderHTML(string(data)); err != nil {
		return err
	}
	return engine.WriteFile(dst)
}

func (c *HTMLConverter) toText(ctx context.Context, src, dst string, opts Options) error {
	root, err := parseHTMLFile(src)
	if err != nil {
		return err
	}
	info := inspectHTML(root)
	return os.WriteFile(dst, []byte(info.Text+"\n"), 0o644)
}

func (c *HTMLConverter) toMarkdown(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	markdown, err := md.NewConverter("", true, nil).ConvertString(string(data))
	if err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(markdown+"\n"), 0o644)
}

func (c *HTMLConverter) toJSON(ctx context.Context, src, dst string, opts Options) error {
	root, err := parseHTMLFile(src)
	if err != nil {
		return err
	}
	indent := 2
	if n, ok := opts.Int("indent"); ok {
		indent = n
	}
	data, err := marshalIndent(inspectHTML(root), indent)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (c *HTMLConverter) toXML(ctx context.Context, src, dst string, opts Options) error {
	root, err := parseHTMLFile(src)
	if err != nil {
		return err
	}
	// Re-serializing the parse tree closes unbalanced tags, which is as far
	// as "well-formed" goes for tag-soup input.
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return err
	}
	return os.WriteFile(dst, buf.Bytes(), 0o644)
}

func (c *HTMLConverter) toEPUB(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	root, err := parseHTML(string(data))
	if err != nil {
		return err
	}
	title := inspectHTML(root).Title
	if t, ok := opts.String("title"); ok && t != "" {
		title = t
	}
	return writeEPUB(dst, title, string(data))
}

func (c *HTMLConverter) fromMarkdown(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	var body bytes.Buffer
	if err := goldmark.New().Convert(data, &body); err != nil {
		return err
	}
	title, _ := opts.String("title")
	page := fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n%s</body>\n</html>\n",
		htmlEscape(title), body.String())
	return os.WriteFile(dst, []byte(page), 0o644)
}

func parseHTMLFile(path string) (*html.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseHTML(string(data))
}

func marshalIndent(v interface{}, indent int) ([]byte, error) {
	if indent <= 0 {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", spaces(indent))
}

func spaces(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

func htmlEscape(s string) string { return stdhtml.EscapeString(s) }

package convert

import (
	"bytes"
	"context"
	"os"

	"github.com/yuin/goldmark"

	"redoc/format"
)

// EpubConverter is the converter bound to the epub format. Imports from
// markup build the EPUB container in process; everything else delegates to
// Calibre's ebook-convert.
type EpubConverter struct {
	core
	deps Deps
}

// NewEpubConverter constructs the epub converter.
func NewEpubConverter(deps Deps) *EpubConverter {
	c := &EpubConverter{deps: deps}
	c.core = core{native: format.EPUB, renderer: deps.Renderer, log: deps.logger()}
	c.exports = map[format.ID]stepFunc{
		format.PDF:  c.viaCalibre,
		format.TXT:  c.viaCalibre,
		format.DOCX: c.viaCalibre,
	}
	c.imports = map[format.ID]stepFunc{
		format.HTML: c.fromHTML,
		format.MD:   c.fromMarkdown,
		format.DOCX: c.viaCalibre,
	}
	return c
}

func (c *EpubConverter) viaCalibre(ctx context.Context, src, dst string, opts Options) error {
	var extra []string
	if lang, ok := opts.String("lang"); ok && lang != "" {
		extra = append(extra, "--language", lang)
	}
	if title, ok := opts.String("title"); ok && title != "" {
		extra = append(extra, "--title", title)
	}
	return c.deps.Tools.ConvertEbook(ctx, src, dst, extra...)
}

func (c *EpubConverter) fromHTML(ctx context.Context, src, dst string, opts Options) error {
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

func (c *EpubConverter) fromMarkdown(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	var body bytes.Buffer
	if err := goldmark.New().Convert(data, &body); err != nil {
		return err
	}
	title, _ := opts.String("title")
	return writeEPUB(dst, title, body.String())
}

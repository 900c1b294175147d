package convert

import (
	"bytes"
	"context"
	"os"

	"github.com/yuin/goldmark"

	"redoc/format"
)

// DocxConverter is the converter bound to the docx format. Every pair runs
// through a headless LibreOffice conversion; Markdown sources are first
// rendered to HTML so LibreOffice can ingest them.
type DocxConverter struct {
	core
	deps Deps
}

// NewDocxConverter constructs the docx converter.
func NewDocxConverter(deps Deps) *DocxConverter {
	c := &DocxConverter{deps: deps}
	c.core = core{native: format.DOCX, renderer: deps.Renderer, log: deps.logger()}
	c.exports = map[format.ID]stepFunc{
		format.PDF:  c.exportTo(format.PDF),
		format.HTML: c.exportTo(format.HTML),
		format.TXT:  c.exportTo(format.TXT),
		format.ODT:  c.exportTo(format.ODT),
		format.RTF:  c.exportTo(format.RTF),
	}
	c.imports = map[format.ID]stepFunc{
		format.HTML: c.fromOffice,
		format.ODT:  c.fromOffice,
		format.RTF:  c.fromOffice,
		format.TXT:  c.fromOffice,
		format.MD:   c.fromMarkdown,
	}
	return c
}

func (c *DocxConverter) exportTo(to format.ID) stepFunc {
	return func(ctx context.Context, src, dst string, opts Options) error {
		return c.deps.Tools.ConvertWithSoffice(ctx, src, dst, to)
	}
}

func (c *DocxConverter) fromOffice(ctx context.Context, src, dst string, opts Options) error {
	return c.deps.Tools.ConvertWithSoffice(ctx, src, dst, format.DOCX)
}

func (c *DocxConverter) fromMarkdown(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	var body bytes.Buffer
	if err := goldmark.New().Convert(data, &body); err != nil {
		return err
	}
	tmp, err := os.CreateTemp("", "redoc-md-*.html")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(body.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return c.deps.Tools.ConvertWithSoffice(ctx, tmpName, dst, format.DOCX)
}

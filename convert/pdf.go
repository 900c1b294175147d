package convert

import (
	"context"
	"os"

	"redoc/format"
	"redoc/layout"
)

// PDFConverter is the converter bound to the pdf format. Exports go through
// the poppler utilities; imports from markup formats use the in-process
// layout engine and office formats go through LibreOffice.
type PDFConverter struct {
	core
	deps Deps
}

// NewPDFConverter constructs the pdf converter.
func NewPDFConverter(deps Deps) *PDFConverter {
	c := &PDFConverter{deps: deps}
	c.core = core{native: format.PDF, renderer: deps.Renderer, log: deps.logger()}
	c.exports = map[format.ID]stepFunc{
		format.HTML: c.toHTML,
		format.TXT:  c.toText,
	}
	c.imports = map[format.ID]stepFunc{
		format.HTML: c.fromHTML,
		format.MD:   c.fromMarkdown,
		format.DOCX: c.fromOffice,
		format.ODT:  c.fromOffice,
		format.RTF:  c.fromOffice,
	}
	return c
}

func (c *PDFConverter) toHTML(ctx context.Context, src, dst string, opts Options) error {
	return c.deps.Tools.ExtractHTML(ctx, src, dst)
}

func (c *PDFConverter) toText(ctx context.Context, src, dst string, opts Options) error {
	return c.deps.Tools.ExtractText(ctx, src, dst)
}

func (c *PDFConverter) fromHTML(ctx context.Context, src, dst string, opts Options) error {
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

func (c *PDFConverter) fromMarkdown(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	engine := layout.NewEngine()
	if err := engine.RenderMarkdown(string(data)); err != nil {
		return err
	}
	return engine.WriteFile(dst)
}

func (c *PDFConverter) fromOffice(ctx context.Context, src, dst string, opts Options) error {
	return c.deps.Tools.ConvertWithSoffice(ctx, src, dst, format.PDF)
}

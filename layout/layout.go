// Package layout renders structured markup (HTML, Markdown) into fixed-layout
// PDF pages. It is the in-process import path for html->pdf and md->pdf
// conversions, so those pairs work without any external tool.
package layout

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Engine handles the layout and rendering of structured content into PDF
// pages on top of gofpdf.
type Engine struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string

	DefaultFont     string
	DefaultFontSize float64
	LineHeight      float64 // multiplier, e.g. 1.2
	Margins         Margins
}

// Option defines a configuration option for the Engine.
type Option func(*Engine)

// WithDefaultFont sets the default font family.
func WithDefaultFont(font string) Option {
	return func(e *Engine) { e.DefaultFont = font }
}

// WithDefaultFontSize sets the default font size in points.
func WithDefaultFontSize(size float64) Option {
	return func(e *Engine) { e.DefaultFontSize = size }
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(height float64) Option {
	return func(e *Engine) { e.LineHeight = height }
}

// WithMargins sets the page margins.
func WithMargins(margins Margins) Option {
	return func(e *Engine) { e.Margins = margins }
}

// NewEngine creates a new layout engine producing A4 portrait pages.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		DefaultFont:     "Helvetica",
		DefaultFontSize: 12,
		LineHeight:      1.2,
		Margins: Margins{
			Top:    50,
			Bottom: 50,
			Left:   50,
			Right:  50,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(e.Margins.Left, e.Margins.Top, e.Margins.Right)
	pdf.SetAutoPageBreak(true, e.Margins.Bottom)
	e.pdf = pdf
	e.tr = pdf.UnicodeTranslatorFromDescriptor("")
	return e
}

// ensurePage makes sure there is a current page.
func (e *Engine) ensurePage() {
	if e.pdf.PageCount() == 0 {
		e.pdf.AddPage()
	}
}

// headingSize maps a heading level to a font size using the default size as
// the base.
func (e *Engine) headingSize(level int) float64 {
	switch {
	case level <= 1:
		return e.DefaultFontSize * 2.0
	case level == 2:
		return e.DefaultFontSize * 1.5
	default:
		return e.DefaultFontSize * 1.25
	}
}

func (e *Engine) renderHeading(level int, text string) {
	if text == "" {
		return
	}
	e.ensurePage()
	size := e.headingSize(level)
	e.pdf.SetFont(e.DefaultFont, "B", size)
	e.pdf.MultiCell(0, size*e.LineHeight, e.tr(text), "", "L", false)
	e.pdf.Ln(size * 0.5)
}

func (e *Engine) renderParagraph(text string) {
	if text == "" {
		return
	}
	e.ensurePage()
	e.pdf.SetFont(e.DefaultFont, "", e.DefaultFontSize)
	e.pdf.MultiCell(0, e.DefaultFontSize*e.LineHeight, e.tr(text), "", "L", false)
	e.pdf.Ln(e.DefaultFontSize * 0.5)
}

func (e *Engine) renderListItem(text string) {
	if text == "" {
		return
	}
	e.ensurePage()
	e.pdf.SetFont(e.DefaultFont, "", e.DefaultFontSize)
	indent := 15.0
	e.pdf.SetX(e.Margins.Left)
	e.pdf.CellFormat(indent, e.DefaultFontSize*e.LineHeight, "-", "", 0, "L", false, 0, "")
	e.pdf.MultiCell(0, e.DefaultFontSize*e.LineHeight, e.tr(text), "", "L", false)
}

func (e *Engine) renderCodeBlock(code string) {
	if code == "" {
		return
	}
	e.ensurePage()
	e.pdf.SetFont("Courier", "", e.DefaultFontSize*0.9)
	e.pdf.MultiCell(0, e.DefaultFontSize*e.LineHeight, e.tr(code), "", "L", false)
	e.pdf.Ln(e.DefaultFontSize * 0.5)
}

// WriteFile renders the accumulated pages to path. An empty document still
// produces a single blank page so the artifact is a well-formed PDF.
func (e *Engine) WriteFile(path string) error {
	e.ensurePage()
	return e.pdf.OutputFileAndClose(path)
}

// Output renders the accumulated pages to w.
func (e *Engine) Output(w io.Writer) error {
	e.ensurePage()
	return e.pdf.Output(w)
}

package ocr

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"redoc/format"
	"redoc/observability"
	"redoc/tool"
)

// PageResult is the recognition outcome for one page, numbered from 1 in
// source order.
type PageResult struct {
	Page     int               `json:"page"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	// Err holds the page's recognition failure when partial results are
	// enabled; the message is mirrored in Metadata["error"] for encoding.
	Err error `json:"-"`
}

// ProcessResult aggregates recognition over a whole source.
type ProcessResult struct {
	Success bool `json:"success"`
	// Text is the concatenated text of all pages.
	Text string `json:"text"`
	// Pages holds per-page results in ascending page order, 1..N.
	Pages []PageResult `json:"pages"`
	// OutputPath names the searchable artifact, when one was requested.
	OutputPath string `json:"output_file,omitempty"`
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithPartialResults makes per-page recognition failures non-fatal: a failed
// page is recorded with an error note in its metadata and processing
// continues. Without it the first page failure aborts the call.
func WithPartialResults() ProcessorOption {
	return func(p *Processor) { p.partial = true }
}

// Processor drives OCR over image and PDF sources: PDF pages are rasterized
// with pdftoppm and recognized independently in page order; an optional
// searchable PDF overlays the recognized text invisibly on the page rasters.
type Processor struct {
	engine  Engine
	tools   *tool.Set
	log     observability.Logger
	partial bool
}

// NewProcessor constructs a processor. A nil engine selects the process-wide
// default.
func NewProcessor(engine Engine, tools *tool.Set, log observability.Logger, opts ...ProcessorOption) *Processor {
	if engine == nil {
		engine = DefaultEngine()
	}
	if log == nil {
		log = observability.NopLogger{}
	}
	p := &Processor{engine: engine, tools: tools, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process recognizes text in source. When output is non-empty a searchable
// PDF is written there in addition to the returned text.
func (p *Processor) Process(ctx context.Context, source, output string, opts ...InputOption) (*ProcessResult, error) {
	if !p.engine.Available() {
		return nil, &EngineUnavailableError{Engine: p.engine.Name()}
	}
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("ocr source: %w", err)
	}

	proto := Input{Languages: []string{"eng"}}
	for _, opt := range opts {
		opt(&proto)
	}
	if proto.DPI <= 0 {
		proto.DPI = 150
	}

	switch id := format.FromPath(source); {
	case id == format.PDF:
		return p.processPDF(ctx, source, output, proto)
	case id.IsImage():
		return p.processImage(ctx, source, output, proto)
	default:
		return nil, fmt.Errorf("unsupported ocr source format: %s", id)
	}
}

func (p *Processor) processImage(ctx context.Context, source, output string, proto Input) (*ProcessResult, error) {
	page, err := p.recognizePage(ctx, source, 1, proto)
	if err != nil {
		return nil, err
	}
	result := &ProcessResult{Success: true, Text: page.Text, Pages: []PageResult{page}}
	if output != "" {
		if err := p.writeSearchablePDF(output, []searchablePage{{image: source, text: page.Text, dpi: proto.DPI}}); err != nil {
			return nil, err
		}
		result.OutputPath = output
	}
	return result, nil
}

func (p *Processor) processPDF(ctx context.Context, source, output string, proto Input) (*ProcessResult, error) {
	dir, err := os.MkdirTemp("", "redoc-ocr-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	rasters, err := p.tools.Rasterize(ctx, source, dir, proto.DPI)
	if err != nil {
		return nil, fmt.Errorf("rasterize pdf: %w", err)
	}

	result := &ProcessResult{Success: true, Pages: make([]PageResult, 0, len(rasters))}
	searchable := make([]searchablePage, 0, len(rasters))
	var text strings.Builder
	for i, raster := range rasters {
		pageNum := i + 1
		page, err := p.recognizePage(ctx, raster, pageNum, proto)
		if err != nil {
			if !p.partial {
				return nil, err
			}
			p.log.Warn("page recognition failed",
				observability.Int("page", pageNum),
				observability.Error("error", err))
			page = PageResult{Page: pageNum, Err: err, Metadata: map[string]string{"error": err.Error()}}
		}
		result.Pages = append(result.Pages, page)
		searchable = append(searchable, searchablePage{image: raster, text: page.Text, dpi: proto.DPI})
		if page.Text != "" {
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(page.Text)
		}
	}
	result.Text = text.String()

	if output != "" {
		if err := p.writeSearchablePDF(output, searchable); err != nil {
			return nil, err
		}
		result.OutputPath = output
	}
	return result, nil
}

func (p *Processor) recognizePage(ctx context.Context, imagePath string, pageNum int, proto Input) (PageResult, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return PageResult{}, &PageError{Page: pageNum, Err: err}
	}
	in := proto
	in.ID = fmt.Sprintf("page-%d", pageNum)
	in.Image = data
	in.Page = pageNum
	res, err := p.engine.Recognize(ctx, in)
	if err != nil {
		return PageResult{}, &PageError{Page: pageNum, Err: err}
	}
	meta := map[string]string{"engine": p.engine.Name()}
	if res.Language != "" {
		meta["language"] = res.Language
	}
	return PageResult{Page: pageNum, Text: res.Text, Metadata: meta}, nil
}

type searchablePage struct {
	image string
	text  string
	dpi   int
}

// writeSearchablePDF lays every page raster at its natural print size and
// overlays the recognized text at zero alpha, so the artifact looks like the
// original but is selectable and indexable.
func (p *Processor) writeSearchablePDF(dst string, pages []searchablePage) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	pdf := gofpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, page := range pages {
		w, h, err := imageSizePt(page.image, page.dpi)
		if err != nil {
			return err
		}
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		pdf.ImageOptions(page.image, 0, 0, w, h, false,
			gofpdf.ImageOptions{ImageType: imageType(page.image)}, 0, "")
		if page.text != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetAlpha(0, "Normal")
			pdf.SetXY(0, 0)
			pdf.MultiCell(w, 12, tr(page.text), "", "L", false)
			pdf.SetAlpha(1, "Normal")
		}
	}
	if err := pdf.OutputFileAndClose(dst); err != nil {
		return fmt.Errorf("write searchable pdf: %w", err)
	}
	return nil
}

// imageSizePt converts pixel dimensions to points at the given raster DPI.
func imageSizePt(path string, dpi int) (w, h float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if dpi <= 0 {
		dpi = 150
	}
	scale := 72.0 / float64(dpi)
	return float64(cfg.Width) * scale, float64(cfg.Height) * scale, nil
}

func imageType(path string) string {
	switch format.FromPath(path) {
	case format.JPG, format.JPEG:
		return "JPG"
	default:
		return "PNG"
	}
}

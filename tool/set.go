package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"redoc/format"
	"redoc/observability"
)

// Paths overrides the binary names or locations for the external tools.
// Empty fields fall back to the conventional names.
type Paths struct {
	Soffice      string `mapstructure:"soffice"`
	EbookConvert string `mapstructure:"ebook_convert"`
	PdfToText    string `mapstructure:"pdftotext"`
	PdfToHTML    string `mapstructure:"pdftohtml"`
	PdfToPPM     string `mapstructure:"pdftoppm"`
}

// Set bundles the external tools used by the converters and the OCR
// processor.
type Set struct {
	Soffice      *Tool
	EbookConvert *Tool
	PdfToText    *Tool
	PdfToHTML    *Tool
	PdfToPPM     *Tool
}

// NewSet builds a Set from the given path overrides.
func NewSet(paths Paths, log observability.Logger) *Set {
	pick := func(override, fallback string) string {
		if override != "" {
			return override
		}
		return fallback
	}
	return &Set{
		Soffice:      New(pick(paths.Soffice, "soffice"), log),
		EbookConvert: New(pick(paths.EbookConvert, "ebook-convert"), log),
		PdfToText:    New(pick(paths.PdfToText, "pdftotext"), log),
		PdfToHTML:    New(pick(paths.PdfToHTML, "pdftohtml"), log),
		PdfToPPM:     New(pick(paths.PdfToPPM, "pdftoppm"), log),
	}
}

// ConvertWithSoffice converts src to the format of dst using a headless
// LibreOffice run. LibreOffice picks the output file name itself, so the
// produced file is renamed to dst afterwards.
func (s *Set) ConvertWithSoffice(ctx context.Context, src, dst string, to format.ID) error {
	outDir := filepath.Dir(dst)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := s.Soffice.Run(ctx, "--headless", "--convert-to", string(to), "--outdir", outDir, src); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	produced := filepath.Join(outDir, base+to.Ext())
	if produced == dst {
		return nil
	}
	if err := os.Rename(produced, dst); err != nil {
		return fmt.Errorf("rename soffice output: %w", err)
	}
	return nil
}

// ConvertEbook converts src to dst with ebook-convert. The target format is
// taken from the dst extension, which is how the tool itself decides.
func (s *Set) ConvertEbook(ctx context.Context, src, dst string, extraArgs ...string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	args := append([]string{src, dst}, extraArgs...)
	return s.EbookConvert.Run(ctx, args...)
}

// ExtractText converts a PDF to plain text with pdftotext, preserving the
// original layout.
func (s *Set) ExtractText(ctx context.Context, src, dst string) error {
	return s.PdfToText.Run(ctx, "-layout", src, dst)
}

// ExtractHTML converts a PDF to a single standalone HTML document with
// pdftohtml.
func (s *Set) ExtractHTML(ctx context.Context, src, dst string) error {
	// pdftohtml appends .html itself when the target lacks the extension.
	target := strings.TrimSuffix(dst, ".html")
	return s.PdfToHTML.Run(ctx, "-s", "-i", "-noframes", src, target)
}

// Rasterize renders every page of a PDF into PNG files inside dir and
// returns the file paths in ascending page order.
func (s *Set) Rasterize(ctx context.Context, src, dir string, dpi int) ([]string, error) {
	if dpi <= 0 {
		dpi = 150
	}
	prefix := filepath.Join(dir, "page")
	if err := s.PdfToPPM.Run(ctx, "-png", "-r", strconv.Itoa(dpi), src, prefix); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages for %s", src)
	}
	return SortPages(matches), nil
}

// SortPages orders rasterized page files by their numeric page suffix.
// pdftoppm emits "page-1.png" ... "page-10.png", so a plain lexical sort
// would interleave pages.
func SortPages(paths []string) []string {
	sorted := append([]string(nil), paths...)
	sort.Slice(sorted, func(i, j int) bool {
		ni, oki := pageNumber(sorted[i])
		nj, okj := pageNumber(sorted[j])
		if oki && okj {
			return ni < nj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func pageNumber(path string) (int, bool) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndex(name, "-")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

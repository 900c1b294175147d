package redoc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"redoc/convert"
	"redoc/template"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNewRegistersBuiltins(t *testing.T) {
	r := New(nil)
	if got := len(r.Registry().Formats()); got != 6 {
		t.Fatalf("got %d registered formats, want 6", got)
	}
}

func TestConvertUnknownTarget(t *testing.T) {
	r := New(nil)
	src := writeFile(t, "doc.dat", "payload")
	_, err := r.Convert(context.Background(), src, "tiff", "", nil)
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("facade must wrap errors in *Error, got %T", err)
	}
	var ufe *convert.UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("cause should stay reachable, got %v", err)
	}
}

func TestConvertImportOnlyTargetUnsupported(t *testing.T) {
	// md has no registered converter and is only an import of the pdf one, so
	// the source-converter fallback must not pick it up: the failure stays an
	// unsupported-format error, never a conversion failure.
	r := New(nil)
	src := writeFile(t, "doc.pdf", "%PDF-1.4 stub")
	_, err := r.Convert(context.Background(), src, "md", "", nil)

	var ufe *convert.UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
	if ufe.Format != "md" {
		t.Fatalf("error names format %q, want md", ufe.Format)
	}
	var ce *convert.ConversionError
	if errors.As(err, &ce) {
		t.Fatalf("unknown target must not surface as a ConversionError: %v", err)
	}
}

func TestConvertTemplateDocMissingData(t *testing.T) {
	r := New(nil)
	out := filepath.Join(t.TempDir(), "invoice.html")
	_, err := r.Convert(context.Background(), map[string]interface{}{
		"template": "invoice.html",
	}, "html", out, nil)

	var verr *template.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, statErr := os.Stat(out); statErr == nil {
		t.Fatalf("invalid request must not create an output file")
	}
}

func TestConvertTemplateDocNeverInfersPath(t *testing.T) {
	r := New(nil)
	// No output path at all: a mapping source must reach the template branch,
	// not extension inference.
	art, err := r.Convert(context.Background(), map[string]interface{}{
		"template": "invoice.html",
		"data": map[string]interface{}{
			"invoice_number": "INV-7",
			"items":          []interface{}{},
		},
	}, "html", "", nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(art.Content, "INV-7") {
		t.Fatalf("rendered content not returned: %q", art.Content)
	}
}

func TestConvertInvoiceEndToEnd(t *testing.T) {
	r := New(nil)
	out := filepath.Join(t.TempDir(), "invoice.html")
	_, err := r.Convert(context.Background(), map[string]interface{}{
		"template": "invoice.html",
		"data": map[string]interface{}{
			"invoice_number": "INV-1",
			"items": []interface{}{
				map[string]interface{}{
					"description": "A",
					"quantity":    2.0,
					"unit_price":  5.0,
					"tax_rate":    0.1,
				},
			},
		},
	}, "html", out, nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	page := string(data)
	if !strings.Contains(page, "INV-1") {
		t.Fatalf("invoice number missing from artifact")
	}
	// The built-in template computes the tax-inclusive total: 2 * 5.00 * 1.1.
	if !strings.Contains(page, "11.00") {
		t.Fatalf("computed total missing from artifact:\n%s", page)
	}
}

func TestConvertJSONToYAML(t *testing.T) {
	r := New(nil)
	src := writeFile(t, "doc.json", `{"name":"redoc","count":3}`)
	out := filepath.Join(t.TempDir(), "doc.yaml")
	// There is no yaml-native converter; the facade falls back to the json
	// converter's yaml export.
	art, err := r.Convert(context.Background(), src, "yaml", out, nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	data, err := os.ReadFile(art.Path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var got map[string]interface{}
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("artifact is not valid YAML: %v", err)
	}
	if got["name"] != "redoc" {
		t.Fatalf("unexpected content: %v", got)
	}
}

func TestConvertDerivesOutputFromSource(t *testing.T) {
	r := New(nil)
	src := writeFile(t, "page.html", "<h1>Title</h1><p>Body</p>")
	art, err := r.Convert(context.Background(), src, "txt", "", nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want := strings.TrimSuffix(src, ".html") + ".txt"
	if art.Path != want {
		t.Fatalf("derived output = %q, want %q", art.Path, want)
	}
}

func TestConvertUnsupportedSourceType(t *testing.T) {
	r := New(nil)
	_, err := r.Convert(context.Background(), 42, "pdf", "", nil)
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *Error, got %v", err)
	}
}

func TestGenerateNotImplemented(t *testing.T) {
	r := New(nil)
	_, err := r.Generate(context.Background(), "write a report", "pdf", "", nil)
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Op != "generate" {
		t.Fatalf("error does not name the operation: %v", err)
	}
}

func TestOCRWrapsErrors(t *testing.T) {
	r := New(nil)
	_, err := r.OCR(context.Background(), filepath.Join(t.TempDir(), "missing.png"), "", nil)
	if err == nil {
		t.Fatalf("expected error for missing source")
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Op != "ocr" {
		t.Fatalf("facade must wrap OCR failures, got %v", err)
	}
}

func TestCustomConverterOverride(t *testing.T) {
	r := New(nil)
	r.Registry().Register("json", func() convert.Converter {
		return convert.NewXMLConverter(convert.Deps{})
	})
	conv, err := r.Registry().Resolve("json")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if conv.Native() != "xml" {
		t.Fatalf("registration override did not take effect")
	}
}

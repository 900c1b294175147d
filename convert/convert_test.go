package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"redoc/format"
	"redoc/observability"
)

// copyStep is a trivial conversion step used to exercise the dispatch core.
func copyStep(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

type staticRenderer struct{ out string }

func (s staticRenderer) RenderDoc(ctx context.Context, doc *TemplateDoc) (string, error) {
	return s.out, nil
}

func newFakeConverter(renderer TemplateRenderer) *core {
	return &core{
		native:   format.ID("fake"),
		exports:  map[format.ID]stepFunc{format.TXT: copyStep},
		imports:  map[format.ID]stepFunc{format.HTML: copyStep},
		renderer: renderer,
		log:      observability.NopLogger{},
	}
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestConvertMissingTargetOption(t *testing.T) {
	c := newFakeConverter(nil)
	src := writeSource(t, "doc.fake", "payload")
	_, err := c.Convert(context.Background(), &Request{Path: src})
	if !errors.Is(err, ErrMissingTarget) {
		t.Fatalf("expected ErrMissingTarget, got %v", err)
	}
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("missing option should surface as ConversionError, got %T", err)
	}
}

func TestConvertDerivesOutputFromToOption(t *testing.T) {
	c := newFakeConverter(nil)
	src := writeSource(t, "doc.fake", "payload")
	art, err := c.Convert(context.Background(), &Request{Path: src, Options: Options{"to": "txt"}})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want := format.ReplaceExt(src, format.TXT)
	if art.Path != want {
		t.Fatalf("derived output = %q, want %q", art.Path, want)
	}
	if art.Format != format.TXT {
		t.Fatalf("unexpected artifact format: %s", art.Format)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
}

func TestConvertUndeclaredPair(t *testing.T) {
	c := newFakeConverter(nil)
	src := writeSource(t, "doc.fake", "payload")
	_, err := c.Convert(context.Background(), &Request{Path: src, Options: Options{"to": "epub"}})
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "fake -> epub") {
		t.Fatalf("error does not name the unsupported pair: %v", err)
	}
}

func TestExportsExcludeImports(t *testing.T) {
	c := newFakeConverter(nil)
	exp := c.Exports()
	if len(exp) != 1 || exp[0] != format.TXT {
		t.Fatalf("Exports() = %v, want [txt]", exp)
	}
}

func TestConvertImportDirection(t *testing.T) {
	c := newFakeConverter(nil)
	src := writeSource(t, "page.html", "<p>hi</p>")
	dst := filepath.Join(t.TempDir(), "nested", "out.fake")
	art, err := c.Convert(context.Background(), &Request{Path: src, Output: dst})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if art.Format != format.ID("fake") {
		t.Fatalf("import should produce the native format, got %s", art.Format)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("missing output directory was not created: %v", err)
	}
}

func TestConvertExplicitFormatOptionsOverrideExtensions(t *testing.T) {
	c := newFakeConverter(nil)
	// The file is named .bin but declared as html via options.
	src := writeSource(t, "payload.bin", "<p>hi</p>")
	dst := filepath.Join(t.TempDir(), "out.bin")
	_, err := c.Convert(context.Background(), &Request{
		Path:    src,
		Output:  dst,
		Options: Options{"from": "html", "to": "fake"},
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
}

func TestConvertTemplateSourceSkipsPathInference(t *testing.T) {
	c := newFakeConverter(staticRenderer{out: "<p>rendered</p>"})
	dst := filepath.Join(t.TempDir(), "out.fake")
	// No Path at all: a template source must never reach extension
	// inference or stat the filesystem for a source file.
	art, err := c.Convert(context.Background(), &Request{
		Template: &TemplateDoc{Template: "invoice.html", Data: map[string]interface{}{}},
		Output:   dst,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	data, err := os.ReadFile(art.Path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "<p>rendered</p>" {
		t.Fatalf("unexpected artifact content: %q", data)
	}
}

func TestConvertTemplateWithoutRenderer(t *testing.T) {
	c := newFakeConverter(nil)
	_, err := c.Convert(context.Background(), &Request{
		Template: &TemplateDoc{Template: "invoice.html"},
		Output:   filepath.Join(t.TempDir(), "out.fake"),
	})
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
	if strings.Contains(err.Error(), "extension") {
		t.Fatalf("template branch must not raise path-related errors: %v", err)
	}
}

func TestFormatsSortedUnion(t *testing.T) {
	c := newFakeConverter(nil)
	got := c.Formats()
	if len(got) != 2 || got[0] != format.HTML || got[1] != format.TXT {
		t.Fatalf("unexpected formats: %v", got)
	}
}

func TestOptionsGetters(t *testing.T) {
	opts := Options{"to": "pdf", "dpi": float64(300), "psm": "6", "partial": true}
	if s, ok := opts.String("to"); !ok || s != "pdf" {
		t.Fatalf("String() = %q, %v", s, ok)
	}
	if n, ok := opts.Int("dpi"); !ok || n != 300 {
		t.Fatalf("Int(dpi) = %d, %v", n, ok)
	}
	if n, ok := opts.Int("psm"); !ok || n != 6 {
		t.Fatalf("Int(psm) = %d, %v", n, ok)
	}
	if !opts.Bool("partial") {
		t.Fatalf("Bool(partial) = false")
	}
	if _, ok := opts.String("missing"); ok {
		t.Fatalf("missing key reported present")
	}
}

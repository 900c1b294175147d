package template

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"redoc/convert"
	"redoc/format"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	renderer := NewRenderer("")
	registry := convert.NewRegistry()
	convert.RegisterBuiltins(registry, convert.Deps{Renderer: renderer})
	return NewManager(renderer, registry, nil)
}

func TestValidateDocMissingData(t *testing.T) {
	m := newManager(t)
	_, err := m.ValidateDoc(map[string]interface{}{"template": "invoice.html"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) == 0 {
		t.Fatalf("no violations reported")
	}
	if !strings.Contains(verr.Error(), "data") {
		t.Fatalf("violation does not name the missing key: %v", verr)
	}
}

func TestValidateDocBatchesViolations(t *testing.T) {
	m := newManager(t)
	_, err := m.ValidateDoc(map[string]interface{}{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	msg := verr.Error()
	if !strings.Contains(msg, "template") || !strings.Contains(msg, "data") {
		t.Fatalf("expected both missing keys reported, got %q", msg)
	}
}

func TestValidateDocWrongTypes(t *testing.T) {
	m := newManager(t)
	_, err := m.ValidateDoc(map[string]interface{}{
		"template": 42,
		"data":     "not a mapping",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) < 2 {
		t.Fatalf("expected a violation per field, got %v", verr.Violations)
	}
}

func TestValidateDocAccepts(t *testing.T) {
	m := newManager(t)
	doc, err := m.ValidateDoc(map[string]interface{}{
		"template": "invoice.html",
		"data":     map[string]interface{}{"invoice_number": "INV-1"},
		"styles":   map[string]interface{}{"color": "red"},
	})
	if err != nil {
		t.Fatalf("ValidateDoc() error = %v", err)
	}
	if doc.Template != "invoice.html" || doc.Data["invoice_number"] != "INV-1" || doc.Styles["color"] != "red" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestRenderToArtifactHTML(t *testing.T) {
	m := newManager(t)
	out := filepath.Join(t.TempDir(), "invoice.html")
	art, err := m.RenderToArtifact(context.Background(), "invoice.html", invoiceData(), out, "")
	if err != nil {
		t.Fatalf("RenderToArtifact() error = %v", err)
	}
	if art.Format != format.HTML {
		t.Fatalf("artifact format = %s", art.Format)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.Contains(string(data), "INV-1") {
		t.Fatalf("rendered artifact missing invoice number")
	}
}

func TestRenderToArtifactPDF(t *testing.T) {
	m := newManager(t)
	out := filepath.Join(t.TempDir(), "invoice.pdf")
	art, err := m.RenderToArtifact(context.Background(), "invoice.html", invoiceData(), out, format.PDF)
	if err != nil {
		t.Fatalf("RenderToArtifact() error = %v", err)
	}
	data, err := os.ReadFile(art.Path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("output is not a PDF document")
	}
}

func TestRenderToArtifactFailureWritesNothing(t *testing.T) {
	m := newManager(t)
	out := filepath.Join(t.TempDir(), "out.html")
	_, err := m.RenderToArtifact(context.Background(), "no_such.html", invoiceData(), out, "")
	if err == nil {
		t.Fatalf("expected error for missing template")
	}
	if _, statErr := os.Stat(out); statErr == nil {
		t.Fatalf("failed render must not leave an output file")
	}
}

func TestExtractFromHTML(t *testing.T) {
	m := newManager(t)
	src := filepath.Join(t.TempDir(), "invoice.html")
	if _, err := m.RenderToArtifact(context.Background(), "invoice.html", invoiceData(), src, ""); err != nil {
		t.Fatalf("render fixture: %v", err)
	}

	extracted, err := m.Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	content, ok := extracted["content"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing content section: %v", extracted)
	}
	text, _ := content["text"].(string)
	if !strings.Contains(text, "INV-1") {
		t.Fatalf("invoice number not recovered: %q", text)
	}
	tables, ok := extracted["tables"].([][]string)
	if !ok || len(tables) < 2 {
		t.Fatalf("line item table not recovered: %v", extracted["tables"])
	}
	meta, _ := extracted["metadata"].(map[string]interface{})
	if meta["format"] != "html" {
		t.Fatalf("unexpected metadata: %v", meta)
	}
}

func TestExtractUnknownFormat(t *testing.T) {
	m := newManager(t)
	if _, err := m.Extract(context.Background(), "artifact"); err == nil {
		t.Fatalf("expected error for extensionless path")
	}
}

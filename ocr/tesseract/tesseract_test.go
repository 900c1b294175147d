package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"redoc/ocr"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderTextPNG(t *testing.T, text string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 240, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString(text)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	engine := New()
	if !engine.Available() {
		t.Fatalf("Available() = false with tesseract installed")
	}
	res, err := engine.Recognize(context.Background(), ocr.Input{
		ID:        "page-1",
		Image:     renderTextPNG(t, "Hello Redoc"),
		Page:      1,
		DPI:       300,
		Languages: []string{"eng"},
	})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	got := strings.ToLower(res.Text)
	if !strings.Contains(got, "hello") {
		t.Fatalf("unexpected OCR output: %q", res.Text)
	}
	if res.InputID != "page-1" || res.Language != "eng" {
		t.Fatalf("result metadata not echoed: %+v", res)
	}
}

func TestDefaultEngineIsTesseract(t *testing.T) {
	if ocr.DefaultEngine().Name() != "tesseract" {
		t.Fatalf("importing this package should install the tesseract engine")
	}
}

func TestCropImage(t *testing.T) {
	full := renderTextPNG(t, "Hello Redoc")

	same, err := cropImage(full, nil)
	if err != nil {
		t.Fatalf("cropImage(nil region): %v", err)
	}
	if !bytes.Equal(same, full) {
		t.Fatalf("nil region should pass the image through unchanged")
	}

	cropped, err := cropImage(full, &ocr.Region{X: 0, Y: 0, Width: 120, Height: 40})
	if err != nil {
		t.Fatalf("cropImage: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(cropped))
	if err != nil {
		t.Fatalf("decode cropped: %v", err)
	}
	if got := img.Bounds(); got.Dx() != 120 || got.Dy() != 40 {
		t.Fatalf("cropped bounds = %v, want 120x40", got)
	}

	if _, err := cropImage(full, &ocr.Region{X: 1000, Y: 1000, Width: 10, Height: 10}); err == nil {
		t.Fatalf("expected error for region outside image bounds")
	}
}

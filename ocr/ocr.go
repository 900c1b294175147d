// Package ocr defines the OCR engine contract and the processor that drives
// recognition over images and multi-page PDF sources. The Engine interface is
// intentionally small so providers can be backed by native libraries, local
// binaries, or remote APIs without leaking provider-specific concerns into
// callers; the default provider is Tesseract, wired in by importing the
// tesseract subpackage.
package ocr

import "context"

// Region describes a rectangular area in pixel coordinates with the origin
// in the upper-left corner of the image.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in the
	// corresponding Result.
	ID string
	// Image is the encoded image payload.
	Image []byte
	// Page links the input back to the one-based page number of a multi-page
	// source; zero for single images.
	Page int
	// DPI carries the effective dots-per-inch for the image. Providers use
	// this for scaling and layout heuristics; zero means unknown.
	DPI int
	// Languages is a list of language hints (e.g., "eng", "deu") that
	// providers can use to select trained data.
	Languages []string
	// Region restricts recognition to a subsection of the image. Nil means
	// the full image is processed.
	Region *Region
	// Metadata passes engine-specific knobs (e.g., a page segmentation mode
	// for Tesseract) without hard-coding them into the API surface.
	Metadata map[string]string
}

// Result captures recognition output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// Text contains the linearized text extracted from the image.
	Text string
	// Language indicates the language used for recognition, if known.
	Language string
}

// Engine is the OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	// Available reports whether the engine's backing dependency is usable.
	// Processing fails fast with EngineUnavailableError when it is not.
	Available() bool
	Recognize(ctx context.Context, input Input) (Result, error)
}

// BatchEngine handles multiple images in a single call, for providers that
// amortize setup costs or remote round-trips.
type BatchEngine interface {
	Engine
	RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error)
}

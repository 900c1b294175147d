package ocr

import "strconv"

// InputOption mutates the prototype input applied to every page submitted to
// the engine.
type InputOption func(*Input)

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithDPI overrides the DPI used for rasterization and recognition.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithRegion restricts recognition to a sub-rectangle of the image. An empty
// region clears any previous restriction.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// WithTesseractPSM sets the page segmentation mode variable for Tesseract.
func WithTesseractPSM(mode int) InputOption {
	return setMetadata("tessedit_pageseg_mode", strconv.Itoa(mode))
}

// WithTesseractOEM sets the engine mode variable for Tesseract.
func WithTesseractOEM(mode int) InputOption {
	return setMetadata("tessedit_ocr_engine_mode", strconv.Itoa(mode))
}

// WithTesseractWhitelist restricts recognition to the provided characters.
func WithTesseractWhitelist(chars string) InputOption {
	return setMetadata("tessedit_char_whitelist", chars)
}

func setMetadata(key, value string) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata[key] = value
	}
}

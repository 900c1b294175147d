package ocr

import "fmt"

// EngineUnavailableError reports that the OCR engine's backing dependency is
// missing. It fails the whole call before any page is processed.
type EngineUnavailableError struct {
	Engine string
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("ocr engine unavailable: %s", e.Engine)
}

// PageError attributes a recognition failure to a specific page of a
// multi-page source.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("ocr page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

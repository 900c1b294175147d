package ocr

import (
	"context"
	"fmt"
)

var defaultEngine Engine = noopEngine{}

// DefaultEngine returns the process-wide OCR engine. Importing the tesseract
// subpackage replaces the initial no-op engine with Tesseract.
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine sets the process-wide OCR engine.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}

// RecognizeAll runs every input through the engine. Engines implementing
// BatchEngine get the whole slice in one call; others are driven sequentially
// with a cancellation check between inputs.
func RecognizeAll(ctx context.Context, engine Engine, inputs []Input) ([]Result, error) {
	if b, ok := engine.(BatchEngine); ok {
		return b.RecognizeBatch(ctx, inputs)
	}
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res, err := engine.Recognize(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// noopEngine reports itself unavailable so that processing without a real
// provider fails fast instead of silently returning empty text.
type noopEngine struct{}

func (noopEngine) Name() string    { return "noop" }
func (noopEngine) Available() bool { return false }

func (noopEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	return Result{InputID: input.ID}, nil
}

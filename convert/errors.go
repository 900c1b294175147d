package convert

import (
	"errors"
	"fmt"

	"redoc/format"
)

// ErrMissingTarget is returned when neither an output path nor a "to" option
// identifies the target format.
var ErrMissingTarget = errors.New(`either an output path or the "to" option must be specified`)

var (
	errNilRequest  = errors.New("nil conversion request")
	errEmptySource = errors.New("source path is empty")
	errNoRenderer  = errors.New("no template renderer configured")
)

// UnsupportedFormatError reports a format identifier with no registered
// converter.
type UnsupportedFormatError struct {
	Format format.ID
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no converter available for format: %s", e.Format)
}

// ConversionError is the single error kind crossing the converter boundary.
// Underlying tool and library failures are wrapped here with their cause
// preserved for errors.Is/As.
type ConversionError struct {
	// Format is the native format of the converter that failed.
	Format format.ID
	// Op names the conversion direction or stage ("html to pdf", "template").
	Op string
	// Err is the original cause.
	Err error
}

func (e *ConversionError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s conversion failed: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("%s conversion failed (%s): %v", e.Format, e.Op, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func errUnsupportedPair(from, to format.ID) error {
	return fmt.Errorf("unsupported conversion pair: %s -> %s", from, to)
}

// wrapConversion wraps err as a ConversionError unless it already is one, so
// nested converter calls do not double-wrap.
func wrapConversion(native format.ID, op string, err error) error {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return err
	}
	return &ConversionError{Format: native, Op: op, Err: err}
}

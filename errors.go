package redoc

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks a reserved operation that has no implementation
// yet. Generate fails with it explicitly instead of silently doing nothing.
var ErrNotImplemented = errors.New("not implemented")

// Error is the top-level error type every facade operation wraps its failures
// in. The original cause stays reachable through Unwrap for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("redoc %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

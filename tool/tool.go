// Package tool wraps the external command-line programs the converters
// delegate to: LibreOffice for office formats, Calibre's ebook-convert for
// e-book formats, and the poppler utilities for PDF text extraction and
// rasterization. Every invocation is a blocking subprocess call; callers
// supply deadlines through the context.
package tool

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"redoc/observability"
)

// Tool is one external command-line dependency.
type Tool struct {
	path string
	log  observability.Logger
}

// New creates a Tool for the given binary. Path may be a bare name resolved
// through PATH or an absolute location.
func New(path string, log observability.Logger) *Tool {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Tool{path: path, log: log}
}

// Name returns the configured binary name or path.
func (t *Tool) Name() string { return t.path }

// Available reports whether the underlying binary can be resolved.
func (t *Tool) Available() bool {
	_, err := exec.LookPath(t.path)
	return err == nil
}

// Run executes the tool and waits for it to finish. A non-zero exit wraps the
// process error together with trimmed stderr output.
func (t *Tool) Run(ctx context.Context, args ...string) error {
	if _, err := exec.LookPath(t.path); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", t.path, err)
	}
	cmd := exec.CommandContext(ctx, t.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	t.log.Debug("run external tool",
		observability.String("tool", t.path),
		observability.String("args", strings.Join(args, " ")))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", t.path, err, msg)
		}
		return fmt.Errorf("%s: %w", t.path, err)
	}
	return nil
}

// Output executes the tool and returns its stdout.
func (t *Tool) Output(ctx context.Context, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(t.path); err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", t.path, err)
	}
	cmd := exec.CommandContext(ctx, t.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", t.path, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", t.path, err)
	}
	return stdout.Bytes(), nil
}

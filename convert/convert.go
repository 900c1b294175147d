// Package convert implements the converter contract, the format registry,
// and the per-format converters (pdf, html, docx, epub, json, xml). Heavy
// transformation work is delegated to external tools (LibreOffice, Calibre,
// poppler) or in-process engines (gofpdf layout, goldmark); this package owns
// the dispatch rules and the uniform error boundary around them.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"redoc/format"
	"redoc/observability"
	"redoc/tool"
)

// Options is an open-ended option mapping forwarded to converters. Unknown
// keys are ignored by converters that do not recognize them.
type Options map[string]interface{}

// String returns the option value as a string.
func (o Options) String(key string) (string, bool) {
	v, ok := o[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the option value as an int, converting from the numeric types
// JSON decoding produces.
func (o Options) Int(key string) (int, bool) {
	v, ok := o[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// Bool returns the option value as a bool.
func (o Options) Bool(key string) bool {
	v, ok := o[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// TemplateDoc pairs a markup template with the data used to fill it. A
// request carrying a TemplateDoc takes the template-rendering branch instead
// of file-based conversion.
type TemplateDoc struct {
	// Template is the path or built-in name of the markup template.
	Template string
	// Data maps template variable names to values.
	Data map[string]interface{}
	// Styles carries optional styling hints forwarded to the renderer.
	Styles map[string]interface{}
}

// TemplateRenderer turns a TemplateDoc into intermediate markup. The template
// package provides the implementation; converters only depend on this
// interface.
type TemplateRenderer interface {
	RenderDoc(ctx context.Context, doc *TemplateDoc) (string, error)
}

// Request describes one conversion call.
type Request struct {
	// Path is the source file. Ignored when Template is set.
	Path string
	// Template, when non-nil, switches the converter into the
	// template-rendering branch.
	Template *TemplateDoc
	// Output is the destination path. When empty the "to" option is required
	// and the output path is derived from the source path.
	Output string
	// Options holds conversion options ("from", "to", "dpi", ...).
	Options Options
}

// Artifact is the product of a conversion: a file on disk, or in-memory
// content when no output path was requested.
type Artifact struct {
	Path    string
	Format  format.ID
	Content string
}

// Converter implements bidirectional conversion for one native format.
type Converter interface {
	// Convert dispatches the request to the declared export or import step.
	Convert(ctx context.Context, req *Request) (*Artifact, error)
	// Native returns the format this converter is bound to.
	Native() format.ID
	// Formats enumerates the formats this converter can transform to or from
	// its native format. Purely descriptive.
	Formats() []format.ID
}

// Deps carries the shared collaborators injected into the built-in
// converters.
type Deps struct {
	Renderer TemplateRenderer
	Tools    *tool.Set
	Log      observability.Logger
}

func (d Deps) logger() observability.Logger {
	if d.Log == nil {
		return observability.NopLogger{}
	}
	return d.Log
}

// stepFunc performs one declared conversion pair: src and dst are file
// paths, opts is the forwarded option mapping.
type stepFunc func(ctx context.Context, src, dst string, opts Options) error

// core implements the shared dispatch state machine: template branch or file
// branch, export or import, directory creation, and the uniform error
// boundary. Each concrete converter declares its pairs in the exports and
// imports tables.
type core struct {
	native   format.ID
	exports  map[format.ID]stepFunc // native -> other
	imports  map[format.ID]stepFunc // other -> native
	renderer TemplateRenderer
	log      observability.Logger
}

func (c *core) Native() format.ID { return c.native }

func (c *core) Formats() []format.ID {
	seen := make(map[format.ID]struct{}, len(c.exports)+len(c.imports))
	for id := range c.exports {
		seen[id] = struct{}{}
	}
	for id := range c.imports {
		seen[id] = struct{}{}
	}
	out := make([]format.ID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Exports enumerates the formats this converter can produce from its native
// format, excluding import-only pairs.
func (c *core) Exports() []format.ID {
	out := make([]format.ID, 0, len(c.exports))
	for id := range c.exports {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *core) Convert(ctx context.Context, req *Request) (*Artifact, error) {
	if req == nil {
		return nil, &ConversionError{Format: c.native, Op: "convert", Err: errNilRequest}
	}
	// Template documents branch before any path handling so a structured
	// source never hits file-extension inference.
	if req.Template != nil {
		return c.convertTemplate(ctx, req)
	}
	if req.Path == "" {
		return nil, &ConversionError{Format: c.native, Op: "convert", Err: errEmptySource}
	}

	output := req.Output
	if output == "" {
		to, ok := req.Options.String("to")
		if !ok || to == "" {
			return nil, &ConversionError{Format: c.native, Op: "convert", Err: ErrMissingTarget}
		}
		output = format.ReplaceExt(req.Path, format.Normalize(to))
	}

	from := optionFormat(req.Options, "from")
	if from == "" {
		from = format.FromPath(req.Path)
	}
	to := optionFormat(req.Options, "to")
	if to == "" {
		to = format.FromPath(output)
	}

	var (
		step stepFunc
		op   string
		out  format.ID
	)
	if from == c.native {
		step = c.exports[to]
		op = fmt.Sprintf("%s to %s", c.native, to)
		out = to
	} else {
		step = c.imports[from]
		op = fmt.Sprintf("%s to %s", from, c.native)
		out = c.native
	}
	if step == nil {
		return nil, &ConversionError{Format: c.native, Op: op, Err: errUnsupportedPair(from, to)}
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, &ConversionError{Format: c.native, Op: op, Err: err}
	}
	c.log.Debug("convert",
		observability.String("converter", string(c.native)),
		observability.String("from", string(from)),
		observability.String("to", string(out)),
		observability.String("output", output))
	if err := step(ctx, req.Path, output, req.Options); err != nil {
		return nil, wrapConversion(c.native, op, err)
	}
	return &Artifact{Path: output, Format: out}, nil
}

// convertTemplate renders the template to intermediate HTML, then imports the
// HTML through the converter's declared html import step. The html-native
// converter short-circuits and emits the rendered markup directly.
func (c *core) convertTemplate(ctx context.Context, req *Request) (*Artifact, error) {
	const op = "template"
	if c.renderer == nil {
		return nil, &ConversionError{Format: c.native, Op: op, Err: errNoRenderer}
	}
	content, err := c.renderer.RenderDoc(ctx, req.Template)
	if err != nil {
		return nil, wrapConversion(c.native, op, err)
	}

	if c.native == format.HTML {
		if req.Output == "" {
			return &Artifact{Format: format.HTML, Content: content}, nil
		}
		if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
			return nil, &ConversionError{Format: c.native, Op: op, Err: err}
		}
		if err := os.WriteFile(req.Output, []byte(content), 0o644); err != nil {
			return nil, &ConversionError{Format: c.native, Op: op, Err: err}
		}
		return &Artifact{Path: req.Output, Format: format.HTML}, nil
	}

	if req.Output == "" {
		return nil, &ConversionError{Format: c.native, Op: op, Err: ErrMissingTarget}
	}
	step := c.imports[format.HTML]
	if step == nil {
		return nil, &ConversionError{Format: c.native, Op: op, Err: errUnsupportedPair(format.HTML, c.native)}
	}

	tmp, err := os.CreateTemp("", "redoc-template-*.html")
	if err != nil {
		return nil, &ConversionError{Format: c.native, Op: op, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return nil, &ConversionError{Format: c.native, Op: op, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return nil, &ConversionError{Format: c.native, Op: op, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
		return nil, &ConversionError{Format: c.native, Op: op, Err: err}
	}
	if err := step(ctx, tmpName, req.Output, req.Options); err != nil {
		return nil, wrapConversion(c.native, op, err)
	}
	return &Artifact{Path: req.Output, Format: c.native}, nil
}

func optionFormat(opts Options, key string) format.ID {
	if s, ok := opts.String(key); ok && s != "" {
		return format.Normalize(s)
	}
	return ""
}

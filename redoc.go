// Package redoc is a document-format conversion toolkit. It dispatches
// conversion requests to per-format converters through a registry, renders
// structured documents from templates, and runs OCR over images and PDFs.
// The Redoc facade is the single entry point; every failure it returns is an
// *Error wrapping the underlying cause.
package redoc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"redoc/config"
	"redoc/convert"
	"redoc/format"
	"redoc/observability"
	"redoc/ocr"
	_ "redoc/ocr/tesseract"
	"redoc/template"
	"redoc/tool"
)

// Redoc bundles the registry, template manager, external tools, and OCR
// wiring behind one synchronous API. A Redoc value is safe for concurrent
// use; each call blocks until the conversion completes.
type Redoc struct {
	cfg       *config.Config
	log       observability.Logger
	tools     *tool.Set
	registry  *convert.Registry
	templates *template.Manager
}

// New builds a facade from cfg, registering every built-in converter. A nil
// cfg selects the defaults.
func New(cfg *config.Config) *Redoc {
	if cfg == nil {
		cfg = config.Default()
	}
	log := observability.NewZapLogger(cfg.Log.Level, cfg.Log.Format)
	tools := tool.NewSet(cfg.Tools, log)
	renderer := template.NewRenderer(cfg.TemplateDir)
	registry := convert.NewRegistry()
	convert.RegisterBuiltins(registry, convert.Deps{Renderer: renderer, Tools: tools, Log: log})
	return &Redoc{
		cfg:       cfg,
		log:       log,
		tools:     tools,
		registry:  registry,
		templates: template.NewManager(renderer, registry, log),
	}
}

// Registry exposes the format registry so callers can register custom
// converters before converting.
func (r *Redoc) Registry() *convert.Registry { return r.registry }

// Templates exposes the template manager for direct render and extract calls.
func (r *Redoc) Templates() *template.Manager { return r.templates }

// Tools exposes the external tool set.
func (r *Redoc) Tools() *tool.Set { return r.tools }

// Convert transforms source into target format. Source is a file path, a
// *convert.TemplateDoc, or a raw template-document mapping ({"template": ...,
// "data": ...}); a mapping is validated before any file is touched. Output
// may be empty for conversions that can return content directly or derive the
// path from the source.
func (r *Redoc) Convert(ctx context.Context, source interface{}, target, output string, opts convert.Options) (*convert.Artifact, error) {
	const op = "convert"
	id := format.Normalize(target)
	if id == "" {
		return nil, &Error{Op: op, Err: fmt.Errorf("no target format")}
	}

	req := &convert.Request{Output: output, Options: cloneOptions(opts)}
	switch src := source.(type) {
	case *convert.TemplateDoc:
		req.Template = src
	case map[string]interface{}:
		doc, err := r.templates.ValidateDoc(src)
		if err != nil {
			return nil, &Error{Op: op, Err: err}
		}
		req.Template = doc
	case string:
		req.Path = src
		if _, ok := req.Options["to"]; !ok {
			req.Options["to"] = string(id)
		}
	default:
		return nil, &Error{Op: op, Err: fmt.Errorf("unsupported source type %T", source)}
	}

	conv, err := r.resolveFor(req, id)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	art, err := conv.Convert(ctx, req)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return art, nil
}

// resolveFor picks the converter for a request: the one native to the target
// format when registered, otherwise the source format's converter when it
// declares the target as an export. json to yaml, for example, has no
// yaml-native converter but is an export of the json one.
func (r *Redoc) resolveFor(req *convert.Request, target format.ID) (convert.Converter, error) {
	conv, err := r.registry.Resolve(string(target))
	if err == nil {
		return conv, nil
	}
	var ufe *convert.UnsupportedFormatError
	if !errors.As(err, &ufe) || req.Path == "" {
		return nil, err
	}
	from := format.FromPath(req.Path)
	if f, ok := req.Options.String("from"); ok && f != "" {
		from = format.Normalize(f)
	}
	src, serr := r.registry.Resolve(string(from))
	if serr != nil {
		return nil, err
	}
	// Formats() mixes imports and exports; only an export of the source
	// converter can serve as a fallback target. Import-only formats keep the
	// registry's unsupported-format error.
	exp, ok := src.(interface{ Exports() []format.ID })
	if !ok {
		return nil, err
	}
	for _, f := range exp.Exports() {
		if f == target {
			return src, nil
		}
	}
	return nil, err
}

// OCR recognizes text in source, writing a searchable PDF to output when it
// is non-empty. Recognized options: "language" (codes joined with "+"),
// "dpi", "psm", "oem", and "partial" to tolerate per-page failures.
func (r *Redoc) OCR(ctx context.Context, source, output string, opts convert.Options) (*ocr.ProcessResult, error) {
	const op = "ocr"

	var inputOpts []ocr.InputOption
	lang := r.cfg.OCR.Language
	if l, ok := opts.String("language"); ok && l != "" {
		lang = l
	}
	if lang != "" {
		inputOpts = append(inputOpts, ocr.WithLanguages(strings.Split(lang, "+")...))
	}
	dpi := r.cfg.OCR.DPI
	if n, ok := opts.Int("dpi"); ok {
		dpi = n
	}
	if dpi > 0 {
		inputOpts = append(inputOpts, ocr.WithDPI(dpi))
	}
	if n, ok := opts.Int("psm"); ok {
		inputOpts = append(inputOpts, ocr.WithTesseractPSM(n))
	}
	if n, ok := opts.Int("oem"); ok {
		inputOpts = append(inputOpts, ocr.WithTesseractOEM(n))
	}

	var procOpts []ocr.ProcessorOption
	if opts.Bool("partial") {
		procOpts = append(procOpts, ocr.WithPartialResults())
	}

	p := ocr.NewProcessor(nil, r.tools, r.log, procOpts...)
	res, err := p.Process(ctx, source, output, inputOpts...)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return res, nil
}

// Generate is a reserved extension point for model-driven document
// generation. It always fails with ErrNotImplemented.
func (r *Redoc) Generate(ctx context.Context, prompt, target, output string, opts convert.Options) (*convert.Artifact, error) {
	return nil, &Error{Op: "generate", Err: ErrNotImplemented}
}

func cloneOptions(opts convert.Options) convert.Options {
	out := make(convert.Options, len(opts)+1)
	for k, v := range opts {
		out[k] = v
	}
	return out
}

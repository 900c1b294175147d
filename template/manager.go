package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"

	"redoc/convert"
	"redoc/format"
	"redoc/observability"
)

// docSchema is the shape contract for a template document: template and data
// are required, styles is optional.
const docSchema = `{
	"type": "object",
	"required": ["template", "data"],
	"properties": {
		"template": {"type": "string", "minLength": 1},
		"data": {"type": "object"},
		"styles": {"type": "object"}
	}
}`

// Manager validates template documents, renders them, converts rendered
// markup into final artifacts, and extracts structure back out of artifacts.
type Manager struct {
	renderer *Renderer
	registry *convert.Registry
	log      observability.Logger
}

// NewManager constructs a manager. The registry supplies the converters used
// by RenderToArtifact and Extract.
func NewManager(renderer *Renderer, registry *convert.Registry, log observability.Logger) *Manager {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Manager{renderer: renderer, registry: registry, log: log}
}

// Renderer exposes the underlying renderer for direct wiring into converters.
func (m *Manager) Renderer() *Renderer { return m.renderer }

// ValidateDoc checks a raw template-document mapping against the shape
// contract and reports every violation at once. On success it returns the
// typed document.
func (m *Manager) ValidateDoc(doc map[string]interface{}) (*convert.TemplateDoc, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(docSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validate template document: %w", err)
	}
	if !result.Valid() {
		verr := &ValidationError{}
		for _, re := range result.Errors() {
			verr.Violations = append(verr.Violations, Violation{
				Field:   re.Field(),
				Message: re.Description(),
			})
		}
		return nil, verr
	}

	td := &convert.TemplateDoc{}
	td.Template, _ = doc["template"].(string)
	if data, ok := doc["data"].(map[string]interface{}); ok {
		td.Data = data
	}
	if styles, ok := doc["styles"].(map[string]interface{}); ok {
		td.Styles = styles
	}
	return td, nil
}

// Render fills the named template with data.
func (m *Manager) Render(name string, data map[string]interface{}) (string, error) {
	return m.renderer.Render(name, data)
}

// RenderToArtifact renders the template to intermediate markup and converts
// it into the target format at output. The intermediate file is removed on
// every exit path. An empty target is inferred from the output extension.
func (m *Manager) RenderToArtifact(ctx context.Context, name string, data map[string]interface{}, output string, target format.ID) (*convert.Artifact, error) {
	content, err := m.renderer.Render(name, data)
	if err != nil {
		return nil, err
	}
	if target == "" {
		target = format.FromPath(output)
	}
	if target == "" {
		return nil, fmt.Errorf("render %s: no target format", name)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, err
	}
	if target == format.HTML {
		if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
			return nil, err
		}
		return &convert.Artifact{Path: output, Format: format.HTML}, nil
	}

	tmp, err := os.CreateTemp("", "redoc-render-*.html")
	if err != nil {
		return nil, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	conv, err := m.registry.Resolve(string(target))
	if err != nil {
		return nil, err
	}
	m.log.Debug("render to artifact",
		observability.String("template", name),
		observability.String("target", string(target)),
		observability.String("output", output))
	return conv.Convert(ctx, &convert.Request{Path: tmpName, Output: output})
}

// Extract recovers structure from a rendered artifact: the artifact is
// converted back to intermediate markup, then parsed into a mapping carrying
// the markup, its plain text, and any tables. Extraction is best effort, not
// an inverse of rendering.
func (m *Manager) Extract(ctx context.Context, path string) (map[string]interface{}, error) {
	from := format.FromPath(path)
	if from == "" {
		return nil, fmt.Errorf("extract %s: cannot determine source format", path)
	}

	var markup string
	if from == format.HTML {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		markup = string(data)
	} else {
		conv, err := m.registry.Resolve(string(from))
		if err != nil {
			return nil, err
		}
		dir, err := os.MkdirTemp("", "redoc-extract-")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(dir)
		intermediate := filepath.Join(dir, "extract.html")
		if _, err := conv.Convert(ctx, &convert.Request{Path: path, Output: intermediate}); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(intermediate)
		if err != nil {
			return nil, err
		}
		markup = string(data)
	}

	info, err := convert.Inspect(markup)
	if err != nil {
		return nil, err
	}
	extracted := map[string]interface{}{
		"metadata": map[string]interface{}{
			"source": path,
			"format": string(from),
		},
		"content": map[string]interface{}{
			"html":  markup,
			"text":  info.Text,
			"title": info.Title,
		},
	}
	if len(info.Tables) > 0 {
		extracted["tables"] = info.Tables
	}
	return extracted, nil
}

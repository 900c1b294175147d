// Package template implements the render, validate, extract round trip used
// for structured documents. Templates are Go html/template files loaded from
// a configured directory with a small set of built-ins compiled in; input
// data is validated before rendering so an invalid request never touches the
// filesystem.
package template

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"

	"redoc/convert"
)

//go:embed templates/*.html
var builtinFS embed.FS

// Renderer loads templates by name and fills them with data. Lookup order:
// the configured directory, the name as a literal path, then the compiled-in
// built-ins (invoice.html, json_viewer.html).
type Renderer struct {
	dir   string
	funcs htmltemplate.FuncMap
}

// NewRenderer constructs a renderer. dir may be empty, leaving only literal
// paths and built-ins resolvable.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir, funcs: builtinFuncs()}
}

// Render fills the named template with data and returns the rendered markup.
// A reference to a variable absent from data fails the render; optional
// variables are reached through the index builtin, which tolerates missing
// keys.
func (r *Renderer) Render(name string, data map[string]interface{}) (string, error) {
	source, err := r.load(name)
	if err != nil {
		return "", err
	}
	tpl, err := htmltemplate.New(filepath.Base(name)).
		Funcs(r.funcs).
		Option("missingkey=error").
		Parse(source)
	if err != nil {
		return "", &RenderError{Name: name, Err: err}
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", &RenderError{Name: name, Err: err}
	}
	return buf.String(), nil
}

// RenderDoc implements convert.TemplateRenderer. Styles, when present, are
// exposed to the template under the "styles" key.
func (r *Renderer) RenderDoc(ctx context.Context, doc *convert.TemplateDoc) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("nil template document")
	}
	data := doc.Data
	if doc.Styles != nil {
		data = make(map[string]interface{}, len(doc.Data)+1)
		for k, v := range doc.Data {
			data[k] = v
		}
		data["styles"] = doc.Styles
	}
	return r.Render(doc.Template, data)
}

func (r *Renderer) load(name string) (string, error) {
	if r.dir != "" {
		if data, err := os.ReadFile(filepath.Join(r.dir, name)); err == nil {
			return string(data), nil
		}
	}
	if data, err := os.ReadFile(name); err == nil {
		return string(data), nil
	}
	if data, err := builtinFS.ReadFile("templates/" + filepath.Base(name)); err == nil {
		return string(data), nil
	}
	return "", &NotFoundError{Name: name}
}

func builtinFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"money":     money,
		"mul":       mul,
		"json":      toJSON,
		"linetax":   lineTax,
		"linetotal": lineTotal,
		"total":     itemsTotal,
	}
}

// toJSON pretty-prints a value for embedding in a page. A value json cannot
// encode renders as an error marker instead of failing the template.
func toJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("<json error: %v>", err)
	}
	return string(data)
}

func money(v interface{}) string { return fmt.Sprintf("%.2f", toFloat(v)) }

func mul(a, b interface{}) float64 { return toFloat(a) * toFloat(b) }

// lineTax is the tax amount for one line item map: quantity * unit_price *
// tax_rate, with quantity defaulting to 1.
func lineTax(item interface{}) float64 {
	qty, price, rate := lineFields(item)
	return qty * price * rate
}

// lineTotal is the tax-inclusive total for one line item map.
func lineTotal(item interface{}) float64 {
	qty, price, rate := lineFields(item)
	return qty * price * (1 + rate)
}

// itemsTotal sums lineTotal over a slice of line item maps.
func itemsTotal(items interface{}) float64 {
	var sum float64
	switch list := items.(type) {
	case []interface{}:
		for _, item := range list {
			sum += lineTotal(item)
		}
	case []map[string]interface{}:
		for _, item := range list {
			sum += lineTotal(item)
		}
	}
	return sum
}

func lineFields(item interface{}) (qty, price, rate float64) {
	m, ok := item.(map[string]interface{})
	if !ok {
		return 0, 0, 0
	}
	qty = 1
	if v, ok := m["quantity"]; ok {
		qty = toFloat(v)
	}
	price = toFloat(m["unit_price"])
	rate = toFloat(m["tax_rate"])
	return qty, price, rate
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

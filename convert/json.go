package convert

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	stdhtml "html"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"redoc/format"
	"redoc/layout"
)

// JSONConverter is the converter bound to the json format. All pairs run in
// process: YAML through yaml.v3, CSV through encoding/csv, XML through the
// package's xmltodict-style codec, and HTML/PDF through the template
// renderer and layout engine.
type JSONConverter struct {
	core
	deps Deps
}

// NewJSONConverter constructs the json converter.
func NewJSONConverter(deps Deps) *JSONConverter {
	c := &JSONConverter{deps: deps}
	c.core = core{native: format.JSON, renderer: deps.Renderer, log: deps.logger()}
	c.exports = map[format.ID]stepFunc{
		format.YAML: c.toYAML,
		format.CSV:  c.toCSV,
		format.XML:  c.toXML,
		format.HTML: c.toHTML,
		format.PDF:  c.toPDF,
	}
	c.imports = map[format.ID]stepFunc{
		format.YAML: c.fromYAML,
		format.CSV:  c.fromCSV,
		format.XML:  c.fromXML,
	}
	return c
}

func (c *JSONConverter) toYAML(ctx context.Context, src, dst string, opts Options) error {
	value, err := readJSONValue(src)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (c *JSONConverter) fromYAML(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	var value interface{}
	if err := yaml.Unmarshal(data, &value); err != nil {
		return err
	}
	return writeJSONValue(dst, value, opts)
}

// toCSV handles an array of flat objects; a single object is treated as a
// one-row array. Field names are the sorted union across all rows.
func (c *JSONConverter) toCSV(ctx context.Context, src, dst string, opts Options) error {
	value, err := readJSONValue(src)
	if err != nil {
		return err
	}
	rows, ok := value.([]interface{})
	if !ok {
		rows = []interface{}{value}
	}
	fieldSet := make(map[string]struct{})
	for _, row := range rows {
		if m, ok := row.(map[string]interface{}); ok {
			for k := range m {
				fieldSet[k] = struct{}{}
			}
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for k := range fieldSet {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if len(fields) > 0 {
		if err := w.Write(fields); err != nil {
			f.Close()
			return err
		}
		for _, row := range rows {
			m, ok := row.(map[string]interface{})
			if !ok {
				continue
			}
			record := make([]string, len(fields))
			for i, field := range fields {
				if v, ok := m[field]; ok && v != nil {
					record[i] = fmt.Sprint(v)
				}
			}
			if err := w.Write(record); err != nil {
				f.Close()
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *JSONConverter) fromCSV(ctx context.Context, src, dst string, opts Options) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return err
	}
	rows := []interface{}{}
	if len(records) > 1 {
		header := records[0]
		for _, record := range records[1:] {
			row := make(map[string]interface{}, len(header))
			for i, field := range header {
				if i < len(record) {
					row[field] = record[i]
				}
			}
			rows = append(rows, row)
		}
	}
	return writeJSONValue(dst, rows, opts)
}

func (c *JSONConverter) toXML(ctx context.Context, src, dst string, opts Options) error {
	value, err := readJSONValue(src)
	if err != nil {
		return err
	}
	rootTag, _ := opts.String("root_tag")
	itemTag, _ := opts.String("item_tag")
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := encodeXML(f, value, rootTag, itemTag); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *JSONConverter) fromXML(ctx context.Context, src, dst string, opts Options) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	value, err := decodeXML(f)
	if err != nil {
		return err
	}
	return writeJSONValue(dst, value, opts)
}

func (c *JSONConverter) toHTML(ctx context.Context, src, dst string, opts Options) error {
	page, err := c.renderJSONPage(ctx, src, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(page), 0o644)
}

func (c *JSONConverter) toPDF(ctx context.Context, src, dst string, opts Options) error {
	page, err := c.renderJSONPage(ctx, src, opts)
	if err != nil {
		return err
	}
	engine := layout.NewEngine()
	if err := engine.RenderHTML(page); err != nil {
		return err
	}
	return engine.WriteFile(dst)
}

// renderJSONPage produces an HTML view of a JSON document, preferring the
// json_viewer template when a renderer is wired in.
func (c *JSONConverter) renderJSONPage(ctx context.Context, src string, opts Options) (string, error) {
	value, err := readJSONValue(src)
	if err != nil {
		return "", err
	}
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	title, _ := opts.String("title")
	if title == "" {
		title = "JSON Viewer"
	}
	if c.renderer != nil {
		return c.renderer.RenderDoc(ctx, &TemplateDoc{
			Template: "json_viewer.html",
			Data: map[string]interface{}{
				"title": title,
				"json":  string(pretty),
			},
		})
	}
	return fmt.Sprintf("<!DOCTYPE html>\n<html><head><title>%s</title></head><body><h1>%s</h1><pre>%s</pre></body></html>\n",
		stdhtml.EscapeString(title), stdhtml.EscapeString(title), stdhtml.EscapeString(string(pretty))), nil
}

func readJSONValue(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func writeJSONValue(path string, value interface{}, opts Options) error {
	indent := 2
	if n, ok := opts.Int("indent"); ok {
		indent = n
	}
	data, err := marshalIndent(value, indent)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

package convert

import (
	"context"
	"fmt"
	stdhtml "html"
	"os"

	"gopkg.in/yaml.v3"

	"redoc/format"
)

// XMLConverter is the converter bound to the xml format, built on the
// package's xmltodict-style codec.
type XMLConverter struct {
	core
}

// NewXMLConverter constructs the xml converter.
func NewXMLConverter(deps Deps) *XMLConverter {
	c := &XMLConverter{}
	c.core = core{native: format.XML, renderer: deps.Renderer, log: deps.logger()}
	c.exports = map[format.ID]stepFunc{
		format.JSON: c.toJSON,
		format.YAML: c.toYAML,
		format.HTML: c.toHTML,
	}
	c.imports = map[format.ID]stepFunc{
		format.JSON: c.fromJSON,
	}
	return c
}

func (c *XMLConverter) toJSON(ctx context.Context, src, dst string, opts Options) error {
	value, err := readXMLValue(src)
	if err != nil {
		return err
	}
	return writeJSONValue(dst, value, opts)
}

func (c *XMLConverter) toYAML(ctx context.Context, src, dst string, opts Options) error {
	value, err := readXMLValue(src)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// toHTML renders the XML source as an escaped preformatted view.
func (c *XMLConverter) toHTML(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	// Parse first so malformed XML fails here instead of producing a page.
	if _, err := readXMLValue(src); err != nil {
		return err
	}
	title, _ := opts.String("title")
	if title == "" {
		title = "XML Document"
	}
	page := fmt.Sprintf("<!DOCTYPE html>\n<html><head><title>%s</title></head><body><pre>%s</pre></body></html>\n",
		stdhtml.EscapeString(title), stdhtml.EscapeString(string(data)))
	return os.WriteFile(dst, []byte(page), 0o644)
}

func (c *XMLConverter) fromJSON(ctx context.Context, src, dst string, opts Options) error {
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

func readXMLValue(path string) (map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeXML(f)
}

package convert

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// encodeXML serializes a decoded JSON/YAML value into indented XML. Map keys
// are emitted in sorted order so output is deterministic; array elements
// repeat the itemTag element.
func encodeXML(w io.Writer, value interface{}, rootTag, itemTag string) error {
	if rootTag == "" {
		rootTag = "document"
	}
	if itemTag == "" {
		itemTag = "item"
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return encodeXMLElement(w, rootTag, value, itemTag, 0)
}

func encodeXMLElement(w io.Writer, tag string, value interface{}, itemTag string, depth int) error {
	indent := strings.Repeat("  ", depth)
	tag = sanitizeTag(tag)
	switch v := value.(type) {
	case map[string]interface{}:
		if _, err := fmt.Fprintf(w, "%s<%s>\n", indent, tag); err != nil {
			return err
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := encodeXMLElement(w, k, v[k], itemTag, depth+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s</%s>\n", indent, tag)
		return err
	case []interface{}:
		if _, err := fmt.Fprintf(w, "%s<%s>\n", indent, tag); err != nil {
			return err
		}
		for _, item := range v {
			if err := encodeXMLElement(w, itemTag, item, itemTag, depth+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s</%s>\n", indent, tag)
		return err
	case nil:
		_, err := fmt.Fprintf(w, "%s<%s/>\n", indent, tag)
		return err
	default:
		var text strings.Builder
		if err := xml.EscapeText(&text, []byte(fmt.Sprint(v))); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%s<%s>%s</%s>\n", indent, tag, text.String(), tag)
		return err
	}
}

// sanitizeTag makes an arbitrary map key usable as an XML element name.
func sanitizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "field"
	}
	var sb strings.Builder
	for i, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case (r >= '0' && r <= '9') || r == '-' || r == '.':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// decodeXML parses an XML document into a nested map, xmltodict style:
// repeated sibling elements become arrays, attributes are keyed "@name",
// and mixed element/text content keeps its text under "#text".
func decodeXML(r io.Reader) (map[string]interface{}, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("xml document has no root element")
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			value, err := decodeXMLElement(dec, start)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{start.Name.Local: value}, nil
		}
	}
}

func decodeXMLElement(dec *xml.Decoder, start xml.StartElement) (interface{}, error) {
	children := make(map[string]interface{})
	var text strings.Builder

	for _, a := range start.Attr {
		children["@"+a.Name.Local] = a.Value
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeXMLElement(dec, t)
			if err != nil {
				return nil, err
			}
			appendXMLChild(children, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			content := strings.TrimSpace(text.String())
			if len(children) == 0 {
				if content == "" {
					return nil, nil
				}
				return content, nil
			}
			if content != "" {
				children["#text"] = content
			}
			return children, nil
		}
	}
}

func appendXMLChild(parent map[string]interface{}, name string, value interface{}) {
	existing, ok := parent[name]
	if !ok {
		parent[name] = value
		return
	}
	if list, ok := existing.([]interface{}); ok {
		parent[name] = append(list, value)
		return
	}
	parent[name] = []interface{}{existing, value}
}

// Package format defines the identifiers used to name document formats across
// the conversion toolkit. Identifiers are lowercase tokens ("pdf", "html");
// the set is open, so unknown tokens survive normalization unchanged and new
// formats can be registered at runtime.
package format

import (
	"path/filepath"
	"strings"
)

// ID identifies a document format by its lowercase token.
type ID string

const (
	PDF  ID = "pdf"
	HTML ID = "html"
	XML  ID = "xml"
	JSON ID = "json"
	DOCX ID = "docx"
	EPUB ID = "epub"
	MD   ID = "md"
	TXT  ID = "txt"
	YAML ID = "yaml"
	CSV  ID = "csv"
	ODT  ID = "odt"
	RTF  ID = "rtf"

	PNG  ID = "png"
	JPEG ID = "jpeg"
	JPG  ID = "jpg"
	TIFF ID = "tiff"
)

// Normalize lowercases a format token and strips a leading dot, so ".PDF",
// "Pdf" and "pdf" all map to the same identifier.
func Normalize(s string) ID {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, ".")
	return ID(s)
}

// FromPath infers the format from the extension of path. The empty ID is
// returned when the path has no extension.
func FromPath(path string) ID {
	return Normalize(filepath.Ext(path))
}

// Ext returns the file extension for the format, including the leading dot.
func (id ID) Ext() string {
	if id == "" {
		return ""
	}
	return "." + string(id)
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// IsImage reports whether the format is a raster image type accepted as OCR
// input.
func (id ID) IsImage() bool {
	switch id {
	case PNG, JPEG, JPG, TIFF:
		return true
	}
	return false
}

// ReplaceExt returns path with its extension replaced by the one for id.
func ReplaceExt(path string, id ID) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + id.Ext()
}

package convert

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// writeEPUB builds a minimal single-chapter EPUB 2 container around an HTML
// payload: stored mimetype entry first, OCF container descriptor, OPF
// package, NCX table of contents, and the content document.
func writeEPUB(dst, title, htmlContent string) error {
	if title == "" {
		title = "Untitled Document"
	}
	// Deterministic identifier derived from the content.
	id := fmt.Sprintf("urn:redoc:%x", sha1.Sum([]byte(title+htmlContent)))

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	// The mimetype entry must come first and must not be compressed.
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return closeEPUB(zw, f, err)
	}
	if _, err := mt.Write([]byte("application/epub+zip")); err != nil {
		return closeEPUB(zw, f, err)
	}

	entries := []struct{ name, content string }{
		{"META-INF/container.xml", epubContainerXML},
		{"OEBPS/content.opf", epubOPF(id, title)},
		{"OEBPS/toc.ncx", epubNCX(id, title)},
		{"OEBPS/content.xhtml", epubXHTML(title, htmlContent)},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return closeEPUB(zw, f, err)
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			return closeEPUB(zw, f, err)
		}
	}
	return closeEPUB(zw, f, nil)
}

func closeEPUB(zw *zip.Writer, f *os.File, err error) error {
	if zerr := zw.Close(); err == nil {
		err = zerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

const epubContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

func epubOPF(id, title string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="bookid" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="bookid">%s</dc:identifier>
    <dc:title>%s</dc:title>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="content" href="content.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="content"/>
  </spine>
</package>
`, xmlEscape(id), xmlEscape(title))
}

func epubNCX(id, title string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="%s"/>
  </head>
  <docTitle><text>%s</text></docTitle>
  <navMap>
    <navPoint id="content" playOrder="1">
      <navLabel><text>Content</text></navLabel>
      <content src="content.xhtml"/>
    </navPoint>
  </navMap>
</ncx>
`, xmlEscape(id), xmlEscape(title))
}

// epubXHTML wraps the payload in an XHTML shell. A full HTML document is
// reduced to its body content; fragments are used as-is.
func epubXHTML(title, htmlContent string) string {
	body := htmlContent
	if root, err := parseHTML(htmlContent); err == nil {
		if extracted := renderBody(root); extracted != "" {
			body = extracted
		}
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>%s</title></head>
<body>
%s
</body>
</html>
`, xmlEscape(title), body)
}

func xmlEscape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

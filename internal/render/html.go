package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/temirov/pkgdoc/internal/types"
)

const (
	htmlDocumentHead = "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n"
	htmlDocumentTail = "</body>\n</html>\n"
	htmlFilePerm     = 0o644
	defaultHTMLTitle = "Package documentation"
)

// HTML converts documents into a standalone HTML page.
func (renderer Renderer) HTML(title string, documents []types.PackageDocumentation) ([]byte, error) {
	loaded, loadError := renderer.Load(documents)
	if loadError != nil {
		return nil, loadError
	}
	converter := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	var body bytes.Buffer
	if convertError := converter.Convert([]byte(Markdown(loaded)), &body); convertError != nil {
		return nil, fmt.Errorf("convert markdown to html: %w", convertError)
	}
	if title == "" {
		title = defaultHTMLTitle
	}
	var page bytes.Buffer
	page.WriteString(fmt.Sprintf(htmlDocumentHead, html.EscapeString(title)))
	page.Write(body.Bytes())
	page.WriteString(htmlDocumentTail)
	return page.Bytes(), nil
}

// WriteHTML renders documents as HTML and writes them atomically to outputPath.
func (renderer Renderer) WriteHTML(outputPath string, title string, documents []types.PackageDocumentation) error {
	page, htmlError := renderer.HTML(title, documents)
	if htmlError != nil {
		return htmlError
	}
	if writeError := renderer.fileSystem.AtomicWrite(outputPath, page, htmlFilePerm); writeError != nil {
		return fmt.Errorf("write html %s: %w", outputPath, writeError)
	}
	return nil
}

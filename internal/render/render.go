// Package render turns planned documentation into raw text, terminal markdown, JSON,
// XML or a standalone HTML page.
package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/types"
	"github.com/temirov/pkgdoc/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	packageHeaderFormat  = "===== %s =====\n"
	itemHeaderFormat     = "----- %s -----\n"
	itemSourceFormat     = "Source: %s (%s)\n"
	separatorLine        = "----------------------------------------"
	emptyDocumentation   = "(no documentation found)"
	binaryContentOmitted = "(binary content omitted)"

	defaultWordWrap  = 100
	autoStyleName    = "auto"
	markdownRuleLine = "\n---\n\n"
)

// Renderer formats planned documentation. File-backed items are read when rendered.
type Renderer struct {
	fileSystem fsops.FS
	style      string
	wordWrap   int
}

// NewRenderer constructs a Renderer; a nil fileSystem uses the real filesystem.
func NewRenderer(fileSystem fsops.FS) Renderer {
	if fileSystem == nil {
		fileSystem = fsops.NewOSFS()
	}
	return Renderer{fileSystem: fileSystem, style: autoStyleName, wordWrap: defaultWordWrap}
}

// WithStyle selects a glamour standard style such as "dark", "light" or "notty".
func (renderer Renderer) WithStyle(style string) Renderer {
	if trimmed := strings.TrimSpace(style); trimmed != "" {
		renderer.style = trimmed
	}
	return renderer
}

// WithWordWrap sets the terminal width used by the markdown format.
func (renderer Renderer) WithWordWrap(width int) Renderer {
	if width > 0 {
		renderer.wordWrap = width
	}
	return renderer
}

// Render formats documents in the requested format.
func (renderer Renderer) Render(format string, documents []types.PackageDocumentation) (string, error) {
	loaded, loadError := renderer.Load(documents)
	if loadError != nil {
		return "", loadError
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", types.FormatRaw:
		return renderRaw(loaded), nil
	case types.FormatMarkdown:
		return renderer.renderTerminalMarkdown(loaded)
	case types.FormatJSON:
		encoded, encodeError := json.MarshalIndent(loaded, indentPrefix, indentSpacer)
		if encodeError != nil {
			return "", fmt.Errorf("encode json: %w", encodeError)
		}
		return string(encoded), nil
	case types.FormatXML:
		return renderXML(loaded)
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

// Load returns a copy of documents with the content of file-backed items filled in.
func (renderer Renderer) Load(documents []types.PackageDocumentation) ([]types.PackageDocumentation, error) {
	loaded := make([]types.PackageDocumentation, 0, len(documents))
	for _, document := range documents {
		items := make([]types.ContentItem, 0, len(document.Items))
		for _, item := range document.Items {
			if item.Type == types.ContentTypeFile && item.Content == "" && item.Path != "" {
				data, readError := renderer.fileSystem.ReadFile(item.Path)
				if readError != nil {
					return nil, fmt.Errorf("read %s: %w", item.Path, readError)
				}
				item.Content = string(data)
				if utils.IsBinary(data) {
					item.Content = binaryContentOmitted
				}
			}
			items = append(items, item)
		}
		document.Items = items
		loaded = append(loaded, document)
	}
	return loaded, nil
}

// Markdown builds one markdown document out of every package. Each item becomes a
// second-level section holding its content with the headings nested below it.
func Markdown(documents []types.PackageDocumentation) string {
	var buffer bytes.Buffer
	for documentIndex, document := range documents {
		if documentIndex > 0 {
			buffer.WriteString(markdownRuleLine)
		}
		buffer.WriteString("# " + packageHeading(document.Package) + "\n\n")
		if len(document.Items) == 0 {
			buffer.WriteString("_" + emptyDocumentation + "_\n")
			continue
		}
		for _, item := range document.Items {
			buffer.WriteString("## " + item.Title + "\n\n")
			buffer.WriteString(nestMarkdown(item.Content) + "\n\n")
		}
	}
	return buffer.String()
}

func (renderer Renderer) renderTerminalMarkdown(documents []types.PackageDocumentation) (string, error) {
	options := []glamour.TermRendererOption{glamour.WithWordWrap(renderer.wordWrap)}
	if renderer.style == autoStyleName {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStandardStyle(renderer.style))
	}
	termRenderer, rendererError := glamour.NewTermRenderer(options...)
	if rendererError != nil {
		return "", fmt.Errorf("create markdown renderer: %w", rendererError)
	}
	rendered, renderError := termRenderer.Render(Markdown(documents))
	if renderError != nil {
		return "", fmt.Errorf("render markdown: %w", renderError)
	}
	return rendered, nil
}

func renderRaw(documents []types.PackageDocumentation) string {
	var buffer bytes.Buffer
	for _, document := range documents {
		buffer.WriteString(fmt.Sprintf(packageHeaderFormat, packageHeading(document.Package)))
		if len(document.Items) == 0 {
			buffer.WriteString(emptyDocumentation + "\n\n")
			continue
		}
		for _, item := range document.Items {
			buffer.WriteString(fmt.Sprintf(itemHeaderFormat, item.Title))
			if item.Path != "" {
				buffer.WriteString(fmt.Sprintf(itemSourceFormat, item.Path, item.Tier))
			}
			buffer.WriteString(strings.TrimRight(item.Content, "\n") + "\n")
			buffer.WriteString(separatorLine + "\n\n")
		}
	}
	return buffer.String()
}

func renderXML(documents []types.PackageDocumentation) (string, error) {
	wrapper := struct {
		XMLName  xml.Name                     `xml:"documentation"`
		Packages []types.PackageDocumentation `xml:"package"`
	}{Packages: documents}
	encoded, encodeError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
	if encodeError != nil {
		return "", fmt.Errorf("encode xml: %w", encodeError)
	}
	return xml.Header + string(encoded), nil
}

func packageHeading(reference types.PackageReference) string {
	if reference.Version == "" {
		return reference.Name
	}
	return reference.Name + " " + reference.Version
}

package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/types"
)

func sampleDocuments(t *testing.T) []types.PackageDocumentation {
	t.Helper()
	readmePath := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(readmePath, []byte("# Demo\n\nUse **demo** wisely.\n"), 0o644); err != nil {
		t.Fatalf("write readme: %v", err)
	}
	return []types.PackageDocumentation{{
		Package: types.PackageReference{Name: "demo", Version: "1.0.0"},
		Items: []types.ContentItem{
			{Title: "Readme", Kind: types.KindReadme, Type: types.ContentTypeFile, Path: readmePath, Tier: types.TierLocal},
			{Title: "Introduction", Kind: types.KindIntro, Type: types.ContentTypeText, Content: "Hello there", Tier: types.TierManifestText},
		},
	}}
}

func TestRenderFormats(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		format    string
		fragments []string
	}{
		{
			name:      "raw",
			format:    types.FormatRaw,
			fragments: []string{"===== demo 1.0.0 =====", "----- Readme -----", "Use **demo** wisely.", "(local)", "Hello there"},
		},
		{
			name:      "xml",
			format:    types.FormatXML,
			fragments: []string{"<documentation>", "<kind>readme</kind>", "<tier>manifest_text</tier>"},
		},
		{
			name:      "markdown",
			format:    types.FormatMarkdown,
			fragments: []string{"demo 1.0.0", "Hello there"},
		},
	}

	renderer := NewRenderer(fsops.NewOSFS()).WithStyle("notty")
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			output, err := renderer.Render(testCase.format, sampleDocuments(t))
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			for _, fragment := range testCase.fragments {
				if !strings.Contains(output, fragment) {
					t.Fatalf("expected %q in output:\n%s", fragment, output)
				}
			}
		})
	}
}

func TestRenderJSONLoadsFileContent(t *testing.T) {
	t.Parallel()
	output, err := NewRenderer(nil).Render(types.FormatJSON, sampleDocuments(t))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	var decoded []types.PackageDocumentation
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(decoded) != 1 || len(decoded[0].Items) != 2 {
		t.Fatalf("unexpected decoded output %+v", decoded)
	}
	if !strings.Contains(decoded[0].Items[0].Content, "Use **demo** wisely.") {
		t.Fatalf("expected readme content to be loaded, got %q", decoded[0].Items[0].Content)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	t.Parallel()
	if _, err := NewRenderer(nil).Render("yaml", nil); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()
	outputPath := filepath.Join(t.TempDir(), "out", "demo.html")
	if err := NewRenderer(fsops.NewOSFS()).WriteHTML(outputPath, "demo <docs>", sampleDocuments(t)); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	page := string(data)
	for _, fragment := range []string{"<title>demo &lt;docs&gt;</title>", "<strong>demo</strong>", "<h2 id=\"readme\">Readme</h2>"} {
		if !strings.Contains(page, fragment) {
			t.Fatalf("expected %q in page:\n%s", fragment, page)
		}
	}
}

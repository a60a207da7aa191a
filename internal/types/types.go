// Package types defines every cross‑package data structure used by the pkgdoc CLI.
package types

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	FormatRaw      = "raw"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatXML      = "xml"

	kindNameAll = "all"
)

// DocumentKind identifies one kind of package documentation.
type DocumentKind string

const (
	// KindReadme is the package readme.
	KindReadme DocumentKind = "readme"
	// KindChangelog is the package changelog.
	KindChangelog DocumentKind = "changelog"
	// KindLicense is the package license.
	KindLicense DocumentKind = "license"
	// KindIntro is the manifest-declared introduction narrative.
	KindIntro DocumentKind = "intro"
	// KindUpgrade is the upgrade narrative.
	KindUpgrade DocumentKind = "upgrade"
	// KindLinks is the list of important links declared by the manifest.
	KindLinks DocumentKind = "links"
)

var fileNamePrefixes = map[DocumentKind]string{
	KindReadme:    "README",
	KindChangelog: "CHANGELOG",
	KindLicense:   "LICENSE",
	KindUpgrade:   "UPGRADE",
}

var kindTitles = map[DocumentKind]string{
	KindReadme:    "Readme",
	KindChangelog: "Changelog",
	KindLicense:   "License",
	KindIntro:     "Introduction",
	KindUpgrade:   "Upgrade",
	KindLinks:     "Important links",
}

// AllDocumentKinds returns the kinds requested by "all" in display order.
func AllDocumentKinds() []DocumentKind {
	return []DocumentKind{KindReadme, KindChangelog, KindLicense, KindIntro, KindUpgrade}
}

// FileNamePrefix returns the case-insensitive filename prefix for the kind, if it has one.
func (kind DocumentKind) FileNamePrefix() (string, bool) {
	prefix, found := fileNamePrefixes[kind]
	return prefix, found
}

// Title returns the human-readable name of the kind.
func (kind DocumentKind) Title() string {
	if title, found := kindTitles[kind]; found {
		return title
	}
	return string(kind)
}

// IsNarrative reports whether the kind is resolved from manifest narrative content.
func (kind DocumentKind) IsNarrative() bool {
	return kind == KindIntro || kind == KindUpgrade
}

// ParseDocumentKinds converts names such as "readme" or "all" into document kinds.
// Duplicates are removed while the first occurrence keeps its position.
func ParseDocumentKinds(names []string) ([]DocumentKind, error) {
	seen := make(map[DocumentKind]struct{})
	var kinds []DocumentKind
	appendKind := func(kind DocumentKind) {
		if _, exists := seen[kind]; exists {
			return
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}
	for _, rawName := range names {
		normalizedName := strings.ToLower(strings.TrimSpace(rawName))
		if normalizedName == "" {
			continue
		}
		if normalizedName == kindNameAll {
			for _, kind := range AllDocumentKinds() {
				appendKind(kind)
			}
			continue
		}
		kind := DocumentKind(normalizedName)
		if _, known := kindTitles[kind]; !known || kind == KindLinks {
			return nil, fmt.Errorf("unknown document kind %q", rawName)
		}
		appendKind(kind)
	}
	if len(kinds) == 0 {
		return AllDocumentKinds(), nil
	}
	return kinds, nil
}

// SourceTier names where a content item was resolved from.
type SourceTier string

const (
	TierLocal        SourceTier = "local"
	TierInternals    SourceTier = "internals"
	TierManifestText SourceTier = "manifest_text"
	TierRemote       SourceTier = "remote"
)

// ContentType distinguishes file-backed items from in-memory text.
type ContentType string

const (
	ContentTypeFile ContentType = "file"
	ContentTypeText ContentType = "text"
)

// ContentItem is one unit of documentation to display.
type ContentItem struct {
	XMLName xml.Name     `json:"-" xml:"item"`
	Title   string       `json:"title" xml:"title"`
	Kind    DocumentKind `json:"kind" xml:"kind"`
	Type    ContentType  `json:"type" xml:"type"`
	Path    string       `json:"path,omitempty" xml:"path,omitempty"`
	Content string       `json:"content,omitempty" xml:"content,omitempty"`
	Tier    SourceTier   `json:"tier" xml:"tier"`
}

// PackageReference identifies an installed package.
type PackageReference struct {
	Name    string `json:"name" xml:"name"`
	Version string `json:"version,omitempty" xml:"version,omitempty"`
	Root    string `json:"root" xml:"root"`
}

// PackageDocumentation groups the resolved items of one package for output.
type PackageDocumentation struct {
	XMLName xml.Name         `json:"-" xml:"package"`
	Package PackageReference `json:"package" xml:"reference"`
	Items   []ContentItem    `json:"items" xml:"items>item"`
}

package docs

import (
	"path/filepath"
	"strings"

	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/types"
)

// Location is a local file found for a document kind.
type Location struct {
	Path string
	Tier types.SourceTier
}

// Locate finds the local file for kind in the package root and internals folder.
//
// In each directory the shortest matching file name wins, ties broken
// lexicographically. The internals match is returned when preferInternals is set,
// otherwise the root match takes precedence. The declared doc folders are searched
// last, in order. Kinds without a file name pattern are never found.
func Locate(fileSystem fsops.FS, bases ResolvedBases, kind types.DocumentKind, preferInternals bool) (Location, bool) {
	prefix, hasPattern := kind.FileNamePrefix()
	if !hasPattern {
		return Location{}, false
	}
	rootMatch, rootFound := bestMatch(fileSystem, bases.RootBase, prefix)
	var internalsMatch string
	var internalsFound bool
	if bases.HasInternals() {
		internalsMatch, internalsFound = bestMatch(fileSystem, bases.InternalsBase, prefix)
	}

	switch {
	case preferInternals && internalsFound:
		return Location{Path: internalsMatch, Tier: types.TierInternals}, true
	case rootFound:
		return Location{Path: rootMatch, Tier: types.TierLocal}, true
	case internalsFound:
		return Location{Path: internalsMatch, Tier: types.TierInternals}, true
	}
	for _, docsBase := range bases.DocsBases {
		if docsMatch, docsFound := bestMatch(fileSystem, docsBase, prefix); docsFound {
			return Location{Path: docsMatch, Tier: types.TierLocal}, true
		}
	}
	return Location{}, false
}

// MatchesKind reports whether fileName carries the kind's case-insensitive prefix.
func MatchesKind(fileName string, kind types.DocumentKind) bool {
	prefix, hasPattern := kind.FileNamePrefix()
	if !hasPattern {
		return false
	}
	return strings.HasPrefix(strings.ToUpper(fileName), prefix)
}

func bestMatch(fileSystem fsops.FS, directory string, prefix string) (string, bool) {
	if directory == "" {
		return "", false
	}
	entries, readError := fileSystem.ReadDir(directory)
	if readError != nil {
		return "", false
	}
	best := ""
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(strings.ToUpper(name), prefix) {
			continue
		}
		if entry.IsDir() || !fsops.IsRegularFile(fileSystem, filepath.Join(directory, name)) {
			continue
		}
		if best == "" || len(name) < len(best) || (len(name) == len(best) && name < best) {
			best = name
		}
	}
	if best == "" {
		return "", false
	}
	return filepath.Join(directory, best), true
}

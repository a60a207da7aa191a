// Package packages locates installed packages below configured search roots.
package packages

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/manifest"
	"github.com/temirov/pkgdoc/internal/types"
)

// ErrPackageNotFound indicates that no search root holds the requested package.
var ErrPackageNotFound = errors.New("package not found")

// Registry finds packages laid out as <root>/<name>/<version>/ or <root>/<name>/.
type Registry struct {
	searchPaths []string
	fileSystem  fsops.FS
	reader      manifest.Reader
}

// NewRegistry constructs a Registry over searchPaths; a nil fileSystem uses the real filesystem.
func NewRegistry(searchPaths []string, fileSystem fsops.FS) Registry {
	if fileSystem == nil {
		fileSystem = fsops.NewOSFS()
	}
	var cleanedPaths []string
	for _, searchPath := range searchPaths {
		trimmed := strings.TrimSpace(searchPath)
		if trimmed == "" {
			continue
		}
		cleanedPaths = append(cleanedPaths, filepath.Clean(trimmed))
	}
	return Registry{
		searchPaths: cleanedPaths,
		fileSystem:  fileSystem,
		reader:      manifest.NewReader(fileSystem),
	}
}

// Find returns the package matching name and, when non-empty, version.
// Without a version the highest semantic version across all search roots wins.
// A name that is an existing directory holding a manifest is accepted as a package root.
func (registry Registry) Find(name string, version string) (types.PackageReference, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return types.PackageReference{}, fmt.Errorf("%w: name is required", ErrPackageNotFound)
	}
	if reference, ok := registry.fromDirectory(trimmedName, version); ok {
		return reference, nil
	}

	var candidates []types.PackageReference
	for _, searchPath := range registry.searchPaths {
		packageDirectory := filepath.Join(searchPath, trimmedName)
		if !fsops.IsDirectory(registry.fileSystem, packageDirectory) {
			continue
		}
		candidates = append(candidates, registry.candidatesIn(trimmedName, packageDirectory)...)
	}

	requestedVersion := strings.TrimSpace(version)
	var matching []types.PackageReference
	for _, candidate := range candidates {
		if requestedVersion == "" || sameVersion(candidate.Version, requestedVersion) {
			matching = append(matching, candidate)
		}
	}
	if len(matching) == 0 {
		if requestedVersion != "" {
			return types.PackageReference{}, fmt.Errorf("%w: %s %s", ErrPackageNotFound, trimmedName, requestedVersion)
		}
		return types.PackageReference{}, fmt.Errorf("%w: %s", ErrPackageNotFound, trimmedName)
	}
	sort.SliceStable(matching, func(left, right int) bool {
		return compareVersions(matching[left].Version, matching[right].Version) > 0
	})
	return matching[0], nil
}

func (registry Registry) fromDirectory(path string, version string) (types.PackageReference, bool) {
	if !fsops.IsDirectory(registry.fileSystem, path) {
		return types.PackageReference{}, false
	}
	packageManifest, readError := registry.reader.Read(path)
	if readError != nil && !errors.Is(readError, manifest.ErrMalformed) {
		return types.PackageReference{}, false
	}
	if version != "" && !sameVersion(packageManifest.Version, version) {
		return types.PackageReference{}, false
	}
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		absolutePath = path
	}
	packageName := packageManifest.Name
	if packageName == "" {
		packageName = filepath.Base(absolutePath)
	}
	return types.PackageReference{Name: packageName, Version: packageManifest.Version, Root: absolutePath}, true
}

func (registry Registry) candidatesIn(name string, packageDirectory string) []types.PackageReference {
	var candidates []types.PackageReference
	if _, findError := registry.reader.FindManifest(packageDirectory); findError == nil {
		packageManifest, _ := registry.reader.Read(packageDirectory)
		candidates = append(candidates, types.PackageReference{
			Name:    name,
			Version: packageManifest.Version,
			Root:    packageDirectory,
		})
	}
	entries, readError := registry.fileSystem.ReadDir(packageDirectory)
	if readError != nil {
		return candidates
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		versionDirectory := filepath.Join(packageDirectory, entry.Name())
		if _, findError := registry.reader.FindManifest(versionDirectory); findError != nil {
			continue
		}
		candidateVersion := entry.Name()
		if packageManifest, manifestError := registry.reader.Read(versionDirectory); manifestError == nil && packageManifest.Version != "" {
			candidateVersion = packageManifest.Version
		}
		candidates = append(candidates, types.PackageReference{
			Name:    name,
			Version: candidateVersion,
			Root:    versionDirectory,
		})
	}
	return candidates
}

func canonicalVersion(version string) string {
	trimmed := strings.TrimSpace(version)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "v") {
		trimmed = "v" + trimmed
	}
	return trimmed
}

func sameVersion(left string, right string) bool {
	canonicalLeft := canonicalVersion(left)
	canonicalRight := canonicalVersion(right)
	if semver.IsValid(canonicalLeft) && semver.IsValid(canonicalRight) {
		return semver.Compare(canonicalLeft, canonicalRight) == 0
	}
	return strings.EqualFold(strings.TrimSpace(left), strings.TrimSpace(right))
}

// compareVersions orders valid semantic versions above invalid ones.
func compareVersions(left string, right string) int {
	canonicalLeft := canonicalVersion(left)
	canonicalRight := canonicalVersion(right)
	leftValid := semver.IsValid(canonicalLeft)
	rightValid := semver.IsValid(canonicalRight)
	switch {
	case leftValid && rightValid:
		return semver.Compare(canonicalLeft, canonicalRight)
	case leftValid:
		return 1
	case rightValid:
		return -1
	default:
		return strings.Compare(left, right)
	}
}

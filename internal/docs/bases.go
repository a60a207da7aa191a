// Package docs resolves which documentation a package offers and where each piece
// comes from: local files, manifest narrative or the package's remote repository.
package docs

import (
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/manifest"
)

// ManifestReader reads the manifest stored in a package root.
type ManifestReader interface {
	Read(packageRoot string) (manifest.Manifest, error)
}

// ResolvedBases are the directories and delivery metadata of one package.
type ResolvedBases struct {
	RootBase string
	// InternalsBase is empty when the internals folder does not exist.
	InternalsBase string
	// ScriptsBase is empty when the scripts folder does not exist.
	ScriptsBase string
	// DocsBases are the declared extra doc folders that exist, in manifest order.
	DocsBases  []string
	Options    manifest.DeliveryOptions
	Repository manifest.RepositoryInfo
	ProjectURI string
}

// HasInternals reports whether the package ships an internals folder.
func (bases ResolvedBases) HasInternals() bool {
	return bases.InternalsBase != ""
}

// BaseResolver computes ResolvedBases for package roots.
type BaseResolver struct {
	fileSystem fsops.FS
	reader     ManifestReader
	logger     *zap.Logger
}

// NewBaseResolver constructs a BaseResolver. A nil fileSystem uses the real
// filesystem, a nil reader uses manifest.NewReader over it.
func NewBaseResolver(fileSystem fsops.FS, reader ManifestReader, logger *zap.Logger) BaseResolver {
	if fileSystem == nil {
		fileSystem = fsops.NewOSFS()
	}
	if reader == nil {
		reader = manifest.NewReader(fileSystem)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return BaseResolver{fileSystem: fileSystem, reader: reader, logger: logger}
}

// Resolve never fails. A missing manifest yields the default delivery options; a
// malformed one keeps every block that parsed and defaults the rest.
func (resolver BaseResolver) Resolve(packageRoot string) ResolvedBases {
	bases := ResolvedBases{
		RootBase: packageRoot,
		Options:  manifest.DefaultDeliveryOptions(),
	}
	packageManifest, readError := resolver.reader.Read(packageRoot)
	switch {
	case readError == nil:
		bases.Options = packageManifest.Delivery.WithDefaults()
		bases.Repository = packageManifest.Repository
	case errors.Is(readError, manifest.ErrMalformed):
		resolver.logger.Debug("keeping the parsable parts of a malformed manifest",
			zap.String("root", packageRoot),
			zap.Error(readError))
		bases.Options = packageManifest.Delivery.WithDefaults()
		bases.Repository = packageManifest.Repository
	default:
		resolver.logger.Debug("using default delivery options",
			zap.String("root", packageRoot),
			zap.Error(readError))
	}
	bases.ProjectURI = strings.TrimSpace(packageManifest.ProjectURI)

	bases.InternalsBase = resolver.existingDirectory(packageRoot, bases.Options.InternalsPath)
	bases.ScriptsBase = resolver.existingDirectory(packageRoot, bases.Options.ScriptsPath)
	seen := map[string]struct{}{}
	for _, docsPath := range bases.Options.DocsPaths {
		docsBase := resolver.existingDirectory(packageRoot, docsPath)
		if docsBase == "" {
			continue
		}
		if _, duplicate := seen[docsBase]; duplicate {
			continue
		}
		seen[docsBase] = struct{}{}
		bases.DocsBases = append(bases.DocsBases, docsBase)
	}
	return bases
}

// existingDirectory joins a manifest-relative path onto packageRoot. It returns an
// empty string for blank paths, paths leaving the package and missing directories.
func (resolver BaseResolver) existingDirectory(packageRoot string, relativePath string) string {
	trimmed := strings.TrimSpace(relativePath)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return ""
	}
	cleaned := filepath.Clean(filepath.FromSlash(trimmed))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		resolver.logger.Debug("ignoring folder outside the package",
			zap.String("root", packageRoot),
			zap.String("path", trimmed))
		return ""
	}
	candidate := filepath.Join(packageRoot, cleaned)
	if !fsops.IsDirectory(resolver.fileSystem, candidate) {
		return ""
	}
	return candidate
}

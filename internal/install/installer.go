package install

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/pkgdoc/internal/docs"
	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/types"
)

const introFileNamePrefix = "INTRO"

// rootDocumentKinds are the kinds whose root-level files are installed.
var rootDocumentKinds = []types.DocumentKind{types.KindReadme, types.KindChangelog, types.KindLicense, types.KindUpgrade}

// Request describes one install.
type Request struct {
	Package      types.PackageReference
	Bases        docs.ResolvedBases
	BasePath     string
	Layout       Layout
	Policy       ConflictPolicy
	Force        bool
	ListOnly     bool
	ExcludeIntro bool
}

// FileCopy is one file of the install plan.
type FileCopy struct {
	Source string
	// RelativePath is the slash-separated path below the destination.
	RelativePath string
	Size         int64
}

// Plan is everything an install will copy and where.
type Plan struct {
	SourceInternalsDir string
	// SourceExtraDirs are the doc and scripts folders copied beside the internals.
	SourceExtraDirs []string
	SourceRootFiles []string
	DestinationDir  string
	Policy          ConflictPolicy
	Force           bool
	Files           []FileCopy
}

// TotalBytes sums the sizes of every planned file.
func (plan Plan) TotalBytes() int64 {
	var total int64
	for _, file := range plan.Files {
		total += file.Size
	}
	return total
}

// Result reports what an install did, or would do when ListOnly is set.
type Result struct {
	Destination string
	Plan        Plan
	Copied      []string
	Skipped     []string
	ListOnly    bool
}

// Installer copies documentation through an fsops.FS.
type Installer struct {
	fileSystem fsops.FS
	logger     *zap.Logger
}

// NewInstaller constructs an Installer; a nil fileSystem uses the real filesystem.
func NewInstaller(fileSystem fsops.FS, logger *zap.Logger) Installer {
	if fileSystem == nil {
		fileSystem = fsops.NewOSFS()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Installer{fileSystem: fileSystem, logger: logger}
}

// Destination computes and validates the destination of request. It never reads or
// writes the package or the destination.
func (installer Installer) Destination(request Request) (string, error) {
	destination := PlanDestination(request.Package.Name, request.Package.Version, request.BasePath, request.Layout)
	if validationError := validateDestination(sourceRoot(request), request.Bases.InternalsBase, destination, request.Policy); validationError != nil {
		return "", validationError
	}
	return destination, nil
}

// Install copies the internals subtree, the declared doc and scripts folders and the
// root documentation files of a package.
//
// PolicyStop checks every target before the first write, so a conflict leaves the
// destination untouched. Nothing outside the destination is ever removed.
func (installer Installer) Install(request Request) (Result, error) {
	policy := request.Policy
	if policy == "" {
		policy = PolicyStop
	}
	request.Policy = policy

	source := sourceRoot(request)
	if !fsops.IsDirectory(installer.fileSystem, source) {
		return Result{}, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
	}
	destination, destinationError := installer.Destination(request)
	if destinationError != nil {
		return Result{}, destinationError
	}
	plan, planError := installer.buildPlan(request, source, destination)
	if planError != nil {
		return Result{}, planError
	}
	result := Result{Destination: destination, Plan: plan, ListOnly: request.ListOnly}
	if request.ListOnly {
		return result, nil
	}

	switch policy {
	case PolicyStop:
		var conflicts []string
		for _, file := range plan.Files {
			if installer.targetExists(destination, file) {
				conflicts = append(conflicts, file.RelativePath)
			}
		}
		if len(conflicts) > 0 {
			return Result{}, &ConflictError{Destination: destination, Paths: conflicts}
		}
	case PolicyOverwrite:
		if removeError := installer.fileSystem.RemoveAll(destination); removeError != nil {
			return Result{}, fmt.Errorf("remove destination %s: %w", destination, removeError)
		}
	}

	if mkdirError := installer.fileSystem.MkdirAll(destination, 0o755); mkdirError != nil {
		return Result{}, fmt.Errorf("create destination %s: %w", destination, mkdirError)
	}
	for _, file := range plan.Files {
		replace := policy == PolicyStop || policy == PolicyOverwrite || (policy == PolicyMerge && request.Force)
		if !replace && installer.targetExists(destination, file) {
			installer.logger.Debug("keeping existing file",
				zap.String("path", file.RelativePath),
				zap.String("policy", string(policy)))
			result.Skipped = append(result.Skipped, file.RelativePath)
			continue
		}
		target := filepath.Join(destination, filepath.FromSlash(file.RelativePath))
		if copyError := installer.fileSystem.CopyFile(file.Source, target); copyError != nil {
			return result, fmt.Errorf("install %s: %w", file.RelativePath, copyError)
		}
		result.Copied = append(result.Copied, file.RelativePath)
	}

	installer.logger.Info("documentation installed",
		zap.String("package", request.Package.Name),
		zap.String("destination", destination),
		zap.String("policy", string(policy)),
		zap.Int("copied", len(result.Copied)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (installer Installer) buildPlan(request Request, source string, destination string) (Plan, error) {
	plan := Plan{DestinationDir: destination, Policy: request.Policy, Force: request.Force}
	seen := map[string]struct{}{}
	addFile := func(sourcePath string, relativePath string) {
		if request.ExcludeIntro && strings.HasPrefix(strings.ToUpper(path.Base(relativePath)), introFileNamePrefix) {
			return
		}
		if _, exists := seen[relativePath]; exists {
			return
		}
		seen[relativePath] = struct{}{}
		plan.Files = append(plan.Files, FileCopy{Source: sourcePath, RelativePath: relativePath})
	}

	introPath := declaredPath(source, request.Bases.Options.IntroFile)
	addTree := func(directory string) error {
		directoryRelative, relativeError := filepath.Rel(source, directory)
		if relativeError != nil || directoryRelative == ".." || strings.HasPrefix(directoryRelative, ".."+string(filepath.Separator)) {
			return fmt.Errorf("locate folder %s in package: %w", directory, ErrSourceNotFound)
		}
		return fsops.WalkFiles(installer.fileSystem, directory, func(relativePath string) error {
			sourcePath := filepath.Join(directory, filepath.FromSlash(relativePath))
			if request.ExcludeIntro && sourcePath == introPath {
				return nil
			}
			addFile(sourcePath, path.Join(filepath.ToSlash(directoryRelative), relativePath))
			return nil
		})
	}

	if request.Bases.HasInternals() {
		plan.SourceInternalsDir = request.Bases.InternalsBase
		if walkError := addTree(request.Bases.InternalsBase); walkError != nil {
			return Plan{}, walkError
		}
	}
	extraDirectories := append([]string(nil), request.Bases.DocsBases...)
	if request.Bases.ScriptsBase != "" {
		extraDirectories = append(extraDirectories, request.Bases.ScriptsBase)
	}
	for _, directory := range extraDirectories {
		if walkError := addTree(directory); walkError != nil {
			return Plan{}, walkError
		}
		plan.SourceExtraDirs = append(plan.SourceExtraDirs, directory)
	}

	entries, readError := installer.fileSystem.ReadDir(source)
	if readError != nil {
		return Plan{}, fmt.Errorf("read package root %s: %w", source, readError)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isRootDocument(entry.Name()) {
			continue
		}
		sourcePath := filepath.Join(source, entry.Name())
		if !fsops.IsRegularFile(installer.fileSystem, sourcePath) {
			continue
		}
		plan.SourceRootFiles = append(plan.SourceRootFiles, sourcePath)
		addFile(sourcePath, entry.Name())
	}

	narrativeFiles := []string{declaredPath(source, request.Bases.Options.UpgradeFile)}
	if !request.ExcludeIntro {
		narrativeFiles = append(narrativeFiles, introPath)
	}
	for _, narrativePath := range narrativeFiles {
		if narrativePath == "" || !fsops.IsRegularFile(installer.fileSystem, narrativePath) {
			continue
		}
		relativePath, relativeError := filepath.Rel(source, narrativePath)
		if relativeError != nil || strings.HasPrefix(relativePath, "..") {
			installer.logger.Debug("ignoring narrative file outside the package", zap.String("path", narrativePath))
			continue
		}
		addFile(narrativePath, filepath.ToSlash(relativePath))
	}

	sort.Slice(plan.Files, func(left, right int) bool {
		return plan.Files[left].RelativePath < plan.Files[right].RelativePath
	})
	for index := range plan.Files {
		if information, statError := installer.fileSystem.Stat(plan.Files[index].Source); statError == nil {
			plan.Files[index].Size = information.Size()
		}
	}
	return plan, nil
}

func (installer Installer) targetExists(destination string, file FileCopy) bool {
	exists, _ := fsops.Exists(installer.fileSystem, filepath.Join(destination, filepath.FromSlash(file.RelativePath)))
	return exists
}

func isRootDocument(fileName string) bool {
	for _, kind := range rootDocumentKinds {
		if docs.MatchesKind(fileName, kind) {
			return true
		}
	}
	return false
}

func declaredPath(source string, declared string) string {
	trimmed := strings.TrimSpace(declared)
	if trimmed == "" {
		return ""
	}
	return filepath.Join(source, filepath.FromSlash(trimmed))
}

func sourceRoot(request Request) string {
	if request.Package.Root != "" {
		return filepath.Clean(request.Package.Root)
	}
	return filepath.Clean(request.Bases.RootBase)
}

func absolutePath(candidate string) string {
	absolute, absoluteError := filepath.Abs(candidate)
	if absoluteError != nil {
		return filepath.Clean(candidate)
	}
	return absolute
}

// validateDestination rejects filesystem roots, the source itself, destinations inside
// the internals folder and, for PolicyOverwrite, any ancestor of the source.
func validateDestination(source string, internals string, destination string, policy ConflictPolicy) error {
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("%w: empty destination", ErrUnsafeDestination)
	}
	cleanDestination := absolutePath(destination)
	source = absolutePath(source)
	if filepath.Dir(cleanDestination) == cleanDestination {
		return fmt.Errorf("%w: %s is a filesystem root", ErrUnsafeDestination, cleanDestination)
	}
	if cleanDestination == source {
		return fmt.Errorf("%w: %s is the package source", ErrUnsafeDestination, cleanDestination)
	}
	if internals != "" && sameOrWithin(cleanDestination, absolutePath(internals)) {
		return fmt.Errorf("%w: %s is inside the internals folder", ErrUnsafeDestination, cleanDestination)
	}
	if policy == PolicyOverwrite && sameOrWithin(source, cleanDestination) {
		return fmt.Errorf("%w: overwriting %s would remove the package source", ErrUnsafeDestination, cleanDestination)
	}
	return nil
}

// sameOrWithin reports whether candidate equals parent or lies below it.
func sameOrWithin(candidate string, parent string) bool {
	if candidate == parent {
		return true
	}
	relativePath, relativeError := filepath.Rel(parent, candidate)
	if relativeError != nil {
		return false
	}
	return relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) && !filepath.IsAbs(relativePath)
}

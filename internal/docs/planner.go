package docs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/pkgdoc/internal/docs/remotedoc"
	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/types"
)

const (
	linkLineTemplate   = "- [%s](%s)"
	narrativeSeparator = "\n"
)

// remoteCandidateNames lists the file names tried remotely per kind, in order.
var remoteCandidateNames = map[types.DocumentKind][]string{
	types.KindReadme:    {"README.md", "readme.md", "README"},
	types.KindChangelog: {"CHANGELOG.md", "changelog.md", "CHANGELOG"},
	types.KindLicense:   {"LICENSE", "LICENSE.md", "LICENSE.txt"},
	types.KindUpgrade:   {"UPGRADE.md", "upgrade.md"},
	types.KindIntro:     {"INTRO.md"},
}

type remoteFetcher interface {
	Fetch(ctx context.Context, ref remotedoc.Ref) (remotedoc.Document, error)
}

// RemoteSettings controls the remote fallback tier.
type RemoteSettings struct {
	Enabled bool
	// ProjectURI overrides the manifest's project URI.
	ProjectURI string
	// Branch overrides the manifest's repository branch.
	Branch string
	// ExtraPaths are directory prefixes tried after the repository root.
	ExtraPaths []string
	// Token overrides stored and environment credentials.
	Token string
}

// Request describes one documentation lookup.
type Request struct {
	Bases   ResolvedBases
	Package types.PackageReference
	// Kinds are resolved in order. All, or an empty Kinds, requests every kind plus
	// the important links.
	Kinds           []types.DocumentKind
	All             bool
	PreferInternals bool
	Remote          RemoteSettings
	Title           string
}

// PlanResult is the ordered documentation of one package.
type PlanResult struct {
	Title   string
	Package types.PackageReference
	Items   []types.ContentItem
	// AuthRequired lists kinds whose remote lookup was refused for lack of a credential.
	AuthRequired []types.DocumentKind
}

// Documentation converts the result into its output shape.
func (result PlanResult) Documentation() types.PackageDocumentation {
	return types.PackageDocumentation{Package: result.Package, Items: result.Items}
}

// Planner resolves document kinds through the local, manifest and remote tiers.
type Planner struct {
	fileSystem fsops.FS
	fetcher    remoteFetcher
	logger     *zap.Logger
}

// NewPlanner constructs a Planner. A nil fetcher disables the remote tier.
func NewPlanner(fileSystem fsops.FS, fetcher remoteFetcher, logger *zap.Logger) Planner {
	if fileSystem == nil {
		fileSystem = fsops.NewOSFS()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Planner{fileSystem: fileSystem, fetcher: fetcher, logger: logger}
}

// Plan resolves every requested kind and returns the items in request order. Kinds
// that resolve nowhere are omitted; remote failures never fail the plan. Only
// context cancellation is returned as an error.
func (planner Planner) Plan(ctx context.Context, request Request) (PlanResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := PlanResult{Title: planTitle(request), Package: request.Package}
	includeAll := request.All || len(request.Kinds) == 0
	kinds := request.Kinds
	if includeAll {
		kinds = types.AllDocumentKinds()
	}
	remote := planner.newRemoteTier(request)

	for _, kind := range kinds {
		if contextError := ctx.Err(); contextError != nil {
			return PlanResult{}, contextError
		}
		item, resolved, authRequired := planner.resolveKind(ctx, request, remote, kind)
		if contextError := ctx.Err(); contextError != nil {
			return PlanResult{}, contextError
		}
		if authRequired {
			result.AuthRequired = append(result.AuthRequired, kind)
		}
		if !resolved {
			planner.logger.Debug("document omitted",
				zap.String("package", request.Package.Name),
				zap.String("kind", string(kind)))
			continue
		}
		result.Items = append(result.Items, item)
	}

	if includeAll {
		if linksItem, hasLinks := importantLinksItem(request.Bases); hasLinks {
			result.Items = append(result.Items, linksItem)
		}
	}
	return result, nil
}

// resolveKind tries the tiers of kind in order. Narrative kinds consult the manifest
// before shipped files; every other kind only has shipped files before the remote tier.
func (planner Planner) resolveKind(ctx context.Context, request Request, remote remoteTier, kind types.DocumentKind) (types.ContentItem, bool, bool) {
	if kind.IsNarrative() {
		if item, found := planner.narrativeItem(request.Bases, kind); found {
			return item, true, false
		}
	}
	if location, found := Locate(planner.fileSystem, request.Bases, kind, request.PreferInternals); found {
		return types.ContentItem{
			Title: kind.Title(),
			Kind:  kind,
			Type:  types.ContentTypeFile,
			Path:  location.Path,
			Tier:  location.Tier,
		}, true, false
	}
	return planner.remoteItem(ctx, remote, kind)
}

// narrativeItem resolves intro and upgrade content: declared file first, inline text second.
func (planner Planner) narrativeItem(bases ResolvedBases, kind types.DocumentKind) (types.ContentItem, bool) {
	declaredFile := bases.Options.IntroFile
	inlineText := bases.Options.IntroText
	if kind == types.KindUpgrade {
		declaredFile = bases.Options.UpgradeFile
		inlineText = bases.Options.UpgradeText
	}

	if trimmedFile := strings.TrimSpace(declaredFile); trimmedFile != "" {
		filePath := filepath.Join(bases.RootBase, filepath.FromSlash(trimmedFile))
		if fsops.IsRegularFile(planner.fileSystem, filePath) {
			return types.ContentItem{
				Title: kind.Title(),
				Kind:  kind,
				Type:  types.ContentTypeFile,
				Path:  filePath,
				Tier:  types.TierManifestText,
			}, true
		}
		planner.logger.Debug("declared narrative file missing",
			zap.String("kind", string(kind)),
			zap.String("path", filePath))
	}

	content := strings.Join(inlineText, narrativeSeparator)
	if strings.TrimSpace(content) == "" {
		return types.ContentItem{}, false
	}
	return types.ContentItem{
		Title:   kind.Title(),
		Kind:    kind,
		Type:    types.ContentTypeText,
		Content: content,
		Tier:    types.TierManifestText,
	}, true
}

func (planner Planner) remoteItem(ctx context.Context, remote remoteTier, kind types.DocumentKind) (types.ContentItem, bool, bool) {
	if !remote.available || planner.fetcher == nil {
		return types.ContentItem{}, false, false
	}
	ref := remote.ref
	ref.CandidatePaths = RemoteCandidates(kind, remote.extraPaths)
	if len(ref.CandidatePaths) == 0 {
		return types.ContentItem{}, false, false
	}
	document, fetchError := planner.fetcher.Fetch(ctx, ref)
	if fetchError != nil {
		planner.logger.Debug("remote tier failed",
			zap.String("kind", string(kind)),
			zap.String("host", string(ref.Host)),
			zap.Error(fetchError))
		return types.ContentItem{}, false, errors.Is(fetchError, remotedoc.ErrAuthRequired)
	}
	return types.ContentItem{
		Title:   kind.Title(),
		Kind:    kind,
		Type:    types.ContentTypeText,
		Path:    document.Path,
		Content: document.Content,
		Tier:    types.TierRemote,
	}, true, false
}

// remoteTier is the repository reference shared by every kind of one request.
type remoteTier struct {
	available  bool
	ref        remotedoc.Ref
	extraPaths []string
}

func (planner Planner) newRemoteTier(request Request) remoteTier {
	if !request.Remote.Enabled {
		return remoteTier{}
	}
	projectURI := strings.TrimSpace(request.Remote.ProjectURI)
	if projectURI == "" {
		projectURI = request.Bases.ProjectURI
	}
	if projectURI == "" {
		planner.logger.Debug("remote tier unavailable: no project URI",
			zap.String("package", request.Package.Name))
		return remoteTier{}
	}
	ref, parseError := remotedoc.ParseProjectURI(projectURI)
	if parseError != nil {
		planner.logger.Debug("remote tier unavailable",
			zap.String("package", request.Package.Name),
			zap.Error(parseError))
		return remoteTier{}
	}
	ref.Branch = firstNonEmpty(request.Remote.Branch, request.Bases.Repository.Branch)
	ref.Token = strings.TrimSpace(request.Remote.Token)
	return remoteTier{
		available:  true,
		ref:        ref,
		extraPaths: mergePaths(request.Remote.ExtraPaths, request.Bases.Repository.ExtraPaths),
	}
}

// RemoteCandidates returns the remote paths tried for kind: the bare names first,
// then each name under every extra path prefix.
func RemoteCandidates(kind types.DocumentKind, extraPaths []string) []string {
	names := remoteCandidateNames[kind]
	candidates := append([]string(nil), names...)
	for _, prefix := range extraPaths {
		for _, name := range names {
			candidates = append(candidates, path.Join(prefix, name))
		}
	}
	return candidates
}

func importantLinksItem(bases ResolvedBases) (types.ContentItem, bool) {
	var lines []string
	for _, link := range bases.Options.ImportantLinks {
		linkURL := strings.TrimSpace(link.URL)
		if linkURL == "" {
			continue
		}
		linkTitle := strings.TrimSpace(link.Title)
		if linkTitle == "" {
			linkTitle = linkURL
		}
		lines = append(lines, fmt.Sprintf(linkLineTemplate, linkTitle, linkURL))
	}
	if len(lines) == 0 {
		return types.ContentItem{}, false
	}
	return types.ContentItem{
		Title:   types.KindLinks.Title(),
		Kind:    types.KindLinks,
		Type:    types.ContentTypeText,
		Content: strings.Join(lines, narrativeSeparator),
		Tier:    types.TierManifestText,
	}, true
}

func planTitle(request Request) string {
	if title := strings.TrimSpace(request.Title); title != "" {
		return title
	}
	if request.Package.Version == "" {
		return request.Package.Name
	}
	return request.Package.Name + " " + request.Package.Version
}

func mergePaths(groups ...[]string) []string {
	seen := map[string]struct{}{}
	var merged []string
	for _, group := range groups {
		for _, rawPath := range group {
			cleaned := strings.Trim(strings.TrimSpace(filepath.ToSlash(rawPath)), "/")
			if cleaned == "" || cleaned == "." {
				continue
			}
			if _, exists := seen[cleaned]; exists {
				continue
			}
			seen[cleaned] = struct{}{}
			merged = append(merged, cleaned)
		}
	}
	return merged
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

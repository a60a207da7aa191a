package remotedoc

import (
	"fmt"
	"net/url"
	"strings"
)

// HostKind selects the remote host API shape.
type HostKind string

const (
	// HostGitHub is a GitHub-style host serving raw file content.
	HostGitHub HostKind = "github"
	// HostAzureDevOps is an Azure DevOps Git repository.
	HostAzureDevOps HostKind = "azure_devops"

	// DefaultBranch is used when neither caller nor manifest names a branch.
	DefaultBranch = "main"

	gitHubHostName        = "github.com"
	azureDevOpsHostName   = "dev.azure.com"
	visualStudioSuffix    = ".visualstudio.com"
	azureGitPathSegment   = "_git"
	gitRepositorySuffix   = ".git"
	scpGitHubPrefix       = "git@github.com:"
	defaultURIScheme      = "https://"
	uriSchemeSeparator    = "://"
	pathSegmentSeparator  = "/"
	minimumGitHubSegments = 2
)

// Ref identifies remote documentation: where the repository lives and which
// paths to try, in order.
type Ref struct {
	Host HostKind
	// Owner is the GitHub owner or the Azure DevOps organization.
	Owner string
	// Project is the Azure DevOps project; unused for GitHub.
	Project        string
	Repository     string
	Branch         string
	CandidatePaths []string
	// Token, when set, overrides any stored credential for this fetch.
	Token string
}

// EffectiveBranch returns the branch to request, falling back to DefaultBranch.
func (ref Ref) EffectiveBranch() string {
	if branch := strings.TrimSpace(ref.Branch); branch != "" {
		return branch
	}
	return DefaultBranch
}

func (ref Ref) validate() error {
	if strings.TrimSpace(ref.Owner) == "" {
		return errMissingOwner
	}
	if strings.TrimSpace(ref.Repository) == "" {
		return errMissingRepository
	}
	if ref.Host == HostAzureDevOps && strings.TrimSpace(ref.Project) == "" {
		return errMissingProject
	}
	if len(ref.CandidatePaths) == 0 {
		return errMissingCandidates
	}
	return nil
}

// ParseProjectURI derives host, owner, project and repository from a project URI such as
// https://github.com/owner/repo, https://dev.azure.com/org/project/_git/repo or
// https://org.visualstudio.com/project/_git/repo.
func ParseProjectURI(projectURI string) (Ref, error) {
	trimmed := strings.TrimSpace(projectURI)
	if trimmed == "" {
		return Ref{}, fmt.Errorf("%w: empty project URI", ErrUnsupportedHost)
	}
	if strings.HasPrefix(trimmed, scpGitHubPrefix) {
		trimmed = defaultURIScheme + gitHubHostName + pathSegmentSeparator + strings.TrimPrefix(trimmed, scpGitHubPrefix)
	}
	if !strings.Contains(trimmed, uriSchemeSeparator) {
		trimmed = defaultURIScheme + trimmed
	}
	parsedURL, parseError := url.Parse(trimmed)
	if parseError != nil {
		return Ref{}, fmt.Errorf("%w: %s: %v", ErrUnsupportedHost, projectURI, parseError)
	}
	hostName := strings.ToLower(parsedURL.Hostname())
	segments := splitPath(parsedURL.Path)

	switch {
	case hostName == gitHubHostName || hostName == "www."+gitHubHostName:
		if len(segments) < minimumGitHubSegments {
			return Ref{}, fmt.Errorf("%w: %s: expected owner and repository", ErrUnsupportedHost, projectURI)
		}
		return Ref{
			Host:       HostGitHub,
			Owner:      segments[0],
			Repository: strings.TrimSuffix(segments[1], gitRepositorySuffix),
		}, nil
	case hostName == azureDevOpsHostName:
		// /{organization}/{project}/_git/{repository}
		if len(segments) < 4 || segments[2] != azureGitPathSegment {
			return Ref{}, fmt.Errorf("%w: %s: expected organization/project/_git/repository", ErrUnsupportedHost, projectURI)
		}
		return Ref{
			Host:       HostAzureDevOps,
			Owner:      segments[0],
			Project:    segments[1],
			Repository: strings.TrimSuffix(segments[3], gitRepositorySuffix),
		}, nil
	case strings.HasSuffix(hostName, visualStudioSuffix):
		// {organization}.visualstudio.com/{project}/_git/{repository}
		if len(segments) < 3 || segments[1] != azureGitPathSegment {
			return Ref{}, fmt.Errorf("%w: %s: expected project/_git/repository", ErrUnsupportedHost, projectURI)
		}
		return Ref{
			Host:       HostAzureDevOps,
			Owner:      strings.TrimSuffix(hostName, visualStudioSuffix),
			Project:    segments[0],
			Repository: strings.TrimSuffix(segments[2], gitRepositorySuffix),
		}, nil
	default:
		return Ref{}, fmt.Errorf("%w: %s", ErrUnsupportedHost, hostName)
	}
}

func splitPath(rawPath string) []string {
	var segments []string
	for _, segment := range strings.Split(rawPath, pathSegmentSeparator) {
		if segment == "" {
			continue
		}
		if unescaped, unescapeError := url.PathUnescape(segment); unescapeError == nil {
			segment = unescaped
		}
		segments = append(segments, segment)
	}
	return segments
}

func escapePath(itemPath string) string {
	cleaned := strings.Trim(strings.TrimSpace(itemPath), pathSegmentSeparator)
	var escaped []string
	for _, segment := range strings.Split(cleaned, pathSegmentSeparator) {
		if segment == "" {
			continue
		}
		escaped = append(escaped, url.PathEscape(segment))
	}
	return strings.Join(escaped, pathSegmentSeparator)
}

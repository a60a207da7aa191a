package remotedoc

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultAzureDevOpsBase = "https://dev.azure.com"
	azureAPIVersion        = "7.0"
	azureVersionTypeBranch = "branch"
	azureFormatOctetStream = "octetStream"
)

type azureDevOpsStrategy struct {
	base string
}

func newAzureDevOpsStrategy(base string) azureDevOpsStrategy {
	return azureDevOpsStrategy{base: strings.TrimRight(strings.TrimSpace(base), pathSegmentSeparator)}
}

// buildRequest targets the Git items endpoint:
// {base}/{organization}/{project}/_apis/git/repositories/{repository}/items?path=/{path}&...
func (strategy azureDevOpsStrategy) buildRequest(ctx context.Context, ref Ref, itemPath string, token string) (*http.Request, error) {
	parsedURL, parseError := url.Parse(strategy.base)
	if parseError != nil {
		return nil, parseError
	}
	prefix := strings.TrimSuffix(parsedURL.Path, pathSegmentSeparator)
	segments := []string{
		strings.TrimSpace(ref.Owner),
		strings.TrimSpace(ref.Project),
		"_apis", "git", "repositories",
		strings.TrimSpace(ref.Repository),
		"items",
	}
	parsedURL.Path = prefix + pathSegmentSeparator + strings.Join(segments, pathSegmentSeparator)
	parsedURL.RawPath = ""

	query := url.Values{}
	query.Set("path", pathSegmentSeparator+strings.Trim(itemPath, pathSegmentSeparator))
	query.Set("versionDescriptor.version", ref.EffectiveBranch())
	query.Set("versionDescriptor.versionType", azureVersionTypeBranch)
	query.Set("includeContent", "true")
	query.Set("api-version", azureAPIVersion)
	query.Set("$format", azureFormatOctetStream)
	parsedURL.RawQuery = query.Encode()

	request, requestError := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if requestError != nil {
		return nil, requestError
	}
	if trimmedToken := strings.TrimSpace(token); trimmedToken != "" {
		request.SetBasicAuth("", trimmedToken)
	}
	return request, nil
}

// authStatus treats 203 as an authentication failure: Azure DevOps answers
// unauthenticated API calls with a sign-in page and status 203.
func (azureDevOpsStrategy) authStatus(statusCode int) bool {
	return statusCode == http.StatusUnauthorized ||
		statusCode == http.StatusForbidden ||
		statusCode == http.StatusNonAuthoritativeInfo
}

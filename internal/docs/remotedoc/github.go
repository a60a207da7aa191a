package remotedoc

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultGitHubRawBase      = "https://raw.githubusercontent.com"
	headerAuthorization       = "Authorization"
	authorizationBearerPrefix = "Bearer "
	authorizationTokenPrefix  = "token "
)

type gitHubStrategy struct {
	rawBase string
}

func newGitHubStrategy(rawBase string) gitHubStrategy {
	return gitHubStrategy{rawBase: strings.TrimRight(strings.TrimSpace(rawBase), pathSegmentSeparator)}
}

// buildRequest targets {rawBase}/{owner}/{repository}/{branch}/{path}.
func (strategy gitHubStrategy) buildRequest(ctx context.Context, ref Ref, itemPath string, token string) (*http.Request, error) {
	var builder strings.Builder
	builder.WriteString(strategy.rawBase)
	builder.WriteString(pathSegmentSeparator)
	builder.WriteString(url.PathEscape(strings.TrimSpace(ref.Owner)))
	builder.WriteString(pathSegmentSeparator)
	builder.WriteString(url.PathEscape(strings.TrimSpace(ref.Repository)))
	builder.WriteString(pathSegmentSeparator)
	builder.WriteString(escapePath(ref.EffectiveBranch()))
	builder.WriteString(pathSegmentSeparator)
	builder.WriteString(escapePath(itemPath))

	request, requestError := http.NewRequestWithContext(ctx, http.MethodGet, builder.String(), nil)
	if requestError != nil {
		return nil, requestError
	}
	if headerValue := formatAuthorizationHeaderValue(token); headerValue != "" {
		request.Header.Set(headerAuthorization, headerValue)
	}
	return request, nil
}

// authStatus only sees 401 and 403 for rejected credentials. raw.githubusercontent.com
// answers 404 for a private repository fetched without a token, so that case is
// indistinguishable from a missing file and is reported as not found.
func (gitHubStrategy) authStatus(statusCode int) bool {
	return statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden
}

func formatAuthorizationHeaderValue(rawToken string) string {
	trimmed := strings.TrimSpace(rawToken)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	bearerLower := strings.ToLower(authorizationBearerPrefix)
	tokenLower := strings.ToLower(authorizationTokenPrefix)
	if strings.HasPrefix(lower, bearerLower) || strings.HasPrefix(lower, tokenLower) {
		return trimmed
	}
	if strings.Contains(trimmed, ".") {
		return authorizationBearerPrefix + trimmed
	}
	return authorizationTokenPrefix + trimmed
}

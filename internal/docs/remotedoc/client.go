// Package remotedoc fetches raw documentation files from GitHub and Azure DevOps repositories.
package remotedoc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPITimeout        = 30 * time.Second
	defaultUserAgent         = "pkgdoc-remote-client"
	headerUserAgent          = "User-Agent"
	maximumDocumentBytes     = 10 << 20
	maximumErrorSnippetBytes = 8 * 1024
)

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// TokenSource supplies stored credentials when a Ref carries no explicit token.
type TokenSource interface {
	Token(host HostKind) (string, bool)
}

// Document is the raw content fetched for one candidate path.
type Document struct {
	Path    string
	Content string
}

// hostStrategy adapts one host API shape.
type hostStrategy interface {
	buildRequest(ctx context.Context, ref Ref, itemPath string, token string) (*http.Request, error)
	// authStatus reports whether a status code means the credential was missing or rejected.
	authStatus(statusCode int) bool
}

// Client fetches raw file content with ordered candidate-path fallback.
type Client struct {
	client     httpClient
	userAgent  string
	timeout    time.Duration
	strategies map[HostKind]hostStrategy
	tokens     TokenSource
	logger     *zap.Logger
}

// NewClient constructs a Client for the public GitHub and Azure DevOps endpoints.
func NewClient(client httpClient) Client {
	if client == nil {
		client = &http.Client{Timeout: defaultAPITimeout}
	}
	return Client{
		client:    client,
		userAgent: defaultUserAgent,
		timeout:   defaultAPITimeout,
		strategies: map[HostKind]hostStrategy{
			HostGitHub:      newGitHubStrategy(defaultGitHubRawBase),
			HostAzureDevOps: newAzureDevOpsStrategy(defaultAzureDevOpsBase),
		},
		logger: zap.NewNop(),
	}
}

// WithGitHubRawBase points GitHub fetches at base instead of raw.githubusercontent.com.
func (remoteClient Client) WithGitHubRawBase(base string) Client {
	if strings.TrimSpace(base) == "" {
		return remoteClient
	}
	remoteClient.strategies = remoteClient.cloneStrategies()
	remoteClient.strategies[HostGitHub] = newGitHubStrategy(base)
	return remoteClient
}

// WithAzureDevOpsBase points Azure DevOps fetches at base instead of dev.azure.com.
func (remoteClient Client) WithAzureDevOpsBase(base string) Client {
	if strings.TrimSpace(base) == "" {
		return remoteClient
	}
	remoteClient.strategies = remoteClient.cloneStrategies()
	remoteClient.strategies[HostAzureDevOps] = newAzureDevOpsStrategy(base)
	return remoteClient
}

func (remoteClient Client) WithUserAgent(agent string) Client {
	if agent == "" {
		return remoteClient
	}
	remoteClient.userAgent = agent
	return remoteClient
}

// WithTimeout bounds every candidate request. The underlying HTTP client is left unchanged.
func (remoteClient Client) WithTimeout(duration time.Duration) Client {
	if duration <= 0 {
		return remoteClient
	}
	remoteClient.timeout = duration
	return remoteClient
}

// WithTokenSource configures where credentials come from when a Ref has no token.
func (remoteClient Client) WithTokenSource(source TokenSource) Client {
	remoteClient.tokens = source
	return remoteClient
}

func (remoteClient Client) WithLogger(logger *zap.Logger) Client {
	if logger == nil {
		return remoteClient
	}
	remoteClient.logger = logger
	return remoteClient
}

func (remoteClient Client) cloneStrategies() map[HostKind]hostStrategy {
	cloned := make(map[HostKind]hostStrategy, len(remoteClient.strategies))
	for host, strategy := range remoteClient.strategies {
		cloned[host] = strategy
	}
	return cloned
}

// Fetch tries ref.CandidatePaths in order and returns the first document found.
//
// A missing path advances to the next candidate. An authentication rejection stops
// immediately with ErrAuthRequired. Transport failures and unexpected statuses stop
// with ErrTransient; nothing is retried.
func (remoteClient Client) Fetch(ctx context.Context, ref Ref) (Document, error) {
	strategy, supported := remoteClient.strategies[ref.Host]
	if !supported {
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedHost, ref.Host)
	}
	if validationError := ref.validate(); validationError != nil {
		return Document{}, fmt.Errorf("invalid remote reference: %w", validationError)
	}
	token := remoteClient.resolveToken(ref)

	var attempted []string
	for _, candidatePath := range ref.CandidatePaths {
		itemPath := strings.Trim(strings.TrimSpace(candidatePath), pathSegmentSeparator)
		if itemPath == "" {
			continue
		}
		attempted = append(attempted, itemPath)
		content, fetchError := remoteClient.fetchOne(ctx, strategy, ref, itemPath, token)
		if fetchError == nil {
			return Document{Path: itemPath, Content: content}, nil
		}
		if fetchError.Kind == ErrNotFound {
			remoteClient.logger.Debug("remote candidate missing",
				zap.String("host", string(ref.Host)),
				zap.String("path", itemPath))
			continue
		}
		return Document{}, fetchError
	}
	return Document{}, &FetchError{
		Host: ref.Host,
		Path: strings.Join(attempted, ", "),
		Kind: ErrNotFound,
	}
}

func (remoteClient Client) resolveToken(ref Ref) string {
	if explicit := strings.TrimSpace(ref.Token); explicit != "" {
		return explicit
	}
	if remoteClient.tokens == nil {
		return ""
	}
	if stored, found := remoteClient.tokens.Token(ref.Host); found {
		return strings.TrimSpace(stored)
	}
	return ""
}

func (remoteClient Client) fetchOne(ctx context.Context, strategy hostStrategy, ref Ref, itemPath string, token string) (string, *FetchError) {
	if ctx == nil {
		ctx = context.Background()
	}
	if remoteClient.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, remoteClient.timeout)
		defer cancel()
	}
	request, requestError := strategy.buildRequest(ctx, ref, itemPath, token)
	if requestError != nil {
		return "", &FetchError{Host: ref.Host, Path: itemPath, Kind: ErrTransient, Cause: requestError}
	}
	if remoteClient.userAgent != "" {
		request.Header.Set(headerUserAgent, remoteClient.userAgent)
	}
	response, responseError := remoteClient.client.Do(request)
	if responseError != nil {
		return "", &FetchError{Host: ref.Host, Path: itemPath, Kind: ErrTransient, Cause: responseError}
	}
	defer response.Body.Close()

	switch {
	case strategy.authStatus(response.StatusCode):
		return "", &FetchError{Host: ref.Host, Path: itemPath, Status: response.StatusCode, Kind: ErrAuthRequired}
	case response.StatusCode == http.StatusNotFound:
		return "", &FetchError{Host: ref.Host, Path: itemPath, Status: response.StatusCode, Kind: ErrNotFound}
	case response.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(response.Body, maximumErrorSnippetBytes))
		return "", &FetchError{
			Host:   ref.Host,
			Path:   itemPath,
			Status: response.StatusCode,
			Kind:   ErrTransient,
			Cause:  fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}
	contentBytes, readError := io.ReadAll(io.LimitReader(response.Body, maximumDocumentBytes))
	if readError != nil {
		return "", &FetchError{Host: ref.Host, Path: itemPath, Status: response.StatusCode, Kind: ErrTransient, Cause: readError}
	}
	return string(contentBytes), nil
}

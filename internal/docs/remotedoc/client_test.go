package remotedoc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"
)

type staticTokenSource map[HostKind]string

func (source staticTokenSource) Token(host HostKind) (string, bool) {
	token, found := source[host]
	return token, found
}

type recordedRequest struct {
	path          string
	query         string
	authorization string
}

type recordingServer struct {
	mutex    sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

func newRecordingServer(t *testing.T, handler func(writer http.ResponseWriter, request *http.Request)) *recordingServer {
	t.Helper()
	recorder := &recordingServer{}
	recorder.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorder.mutex.Lock()
		recorder.requests = append(recorder.requests, recordedRequest{
			path:          request.URL.Path,
			query:         request.URL.RawQuery,
			authorization: request.Header.Get(headerAuthorization),
		})
		recorder.mutex.Unlock()
		handler(writer, request)
	}))
	t.Cleanup(recorder.server.Close)
	return recorder
}

func (recorder *recordingServer) paths() []string {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	paths := make([]string, 0, len(recorder.requests))
	for _, request := range recorder.requests {
		paths = append(paths, request.path)
	}
	return paths
}

func TestClientFetchFallsThroughMissingCandidates(t *testing.T) {
	t.Parallel()
	recorder := newRecordingServer(t, func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/acme/example/main/README" {
			_, _ = writer.Write([]byte("plain readme"))
			return
		}
		http.NotFound(writer, request)
	})
	client := NewClient(recorder.server.Client()).WithGitHubRawBase(recorder.server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	document, err := client.Fetch(ctx, Ref{
		Host:           HostGitHub,
		Owner:          "acme",
		Repository:     "example",
		CandidatePaths: []string{"README.md", "readme.md", "README"},
	})
	if err != nil {
		t.Fatalf("expected fetch to succeed, got %v", err)
	}
	if document.Path != "README" || document.Content != "plain readme" {
		t.Fatalf("unexpected document %+v", document)
	}
	expectedPaths := []string{
		"/acme/example/main/README.md",
		"/acme/example/main/readme.md",
		"/acme/example/main/README",
	}
	if !reflect.DeepEqual(recorder.paths(), expectedPaths) {
		t.Fatalf("unexpected request order: got %v want %v", recorder.paths(), expectedPaths)
	}
}

func TestClientFetchClassifiesFailures(t *testing.T) {
	testCases := []struct {
		name          string
		host          HostKind
		status        int
		token         string
		expectedError error
		expectedCalls int
	}{
		{name: "all missing", host: HostGitHub, status: http.StatusNotFound, expectedError: ErrNotFound, expectedCalls: 2},
		{name: "unauthorized without token", host: HostGitHub, status: http.StatusUnauthorized, expectedError: ErrAuthRequired, expectedCalls: 1},
		{name: "forbidden with token", host: HostGitHub, status: http.StatusForbidden, token: "abc", expectedError: ErrAuthRequired, expectedCalls: 1},
		{name: "server error", host: HostGitHub, status: http.StatusInternalServerError, expectedError: ErrTransient, expectedCalls: 1},
		{name: "azure sign-in page", host: HostAzureDevOps, status: http.StatusNonAuthoritativeInfo, expectedError: ErrAuthRequired, expectedCalls: 1},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			recorder := newRecordingServer(t, func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(testCase.status)
			})
			client := NewClient(recorder.server.Client()).
				WithGitHubRawBase(recorder.server.URL).
				WithAzureDevOpsBase(recorder.server.URL)
			_, err := client.Fetch(context.Background(), Ref{
				Host:           testCase.host,
				Owner:          "acme",
				Project:        "tools",
				Repository:     "example",
				CandidatePaths: []string{"README.md", "readme.md"},
				Token:          testCase.token,
			})
			if !errors.Is(err, testCase.expectedError) {
				t.Fatalf("expected %v, got %v", testCase.expectedError, err)
			}
			var fetchError *FetchError
			if !errors.As(err, &fetchError) {
				t.Fatalf("expected *FetchError, got %T", err)
			}
			if len(recorder.paths()) != testCase.expectedCalls {
				t.Fatalf("expected %d requests, got %d", testCase.expectedCalls, len(recorder.paths()))
			}
		})
	}
}

func TestClientFetchTransportFailureIsTransient(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(nil).WithGitHubRawBase(baseURL).WithTimeout(time.Second)
	_, err := client.Fetch(context.Background(), Ref{
		Host:           HostGitHub,
		Owner:          "acme",
		Repository:     "example",
		CandidatePaths: []string{"README.md"},
	})
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestClientTimeoutLeavesSharedHTTPClientUntouched(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	recorder := newRecordingServer(t, func(writer http.ResponseWriter, request *http.Request) {
		select {
		case <-request.Context().Done():
		case <-release:
		}
	})
	t.Cleanup(func() { close(release) })
	sharedClient := &http.Client{}

	client := NewClient(sharedClient).WithGitHubRawBase(recorder.server.URL).WithTimeout(50 * time.Millisecond)
	started := time.Now()
	_, err := client.Fetch(context.Background(), Ref{
		Host:           HostGitHub,
		Owner:          "acme",
		Repository:     "example",
		CandidatePaths: []string{"README.md"},
	})
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient after the timeout, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > 5*time.Second {
		t.Fatalf("timeout was not applied, request took %s", elapsed)
	}
	if sharedClient.Timeout != 0 {
		t.Fatalf("expected shared client timeout to stay unset, got %s", sharedClient.Timeout)
	}
}

func TestClientTokenPrecedence(t *testing.T) {
	testCases := []struct {
		name                  string
		explicitToken         string
		storedToken           string
		expectedAuthorization string
	}{
		{name: "stored token used", storedToken: "stored", expectedAuthorization: "token stored"},
		{name: "explicit token wins", explicitToken: "explicit", storedToken: "stored", expectedAuthorization: "token explicit"},
		{name: "no token", expectedAuthorization: ""},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			recorder := newRecordingServer(t, func(writer http.ResponseWriter, request *http.Request) {
				_, _ = writer.Write([]byte("ok"))
			})
			source := staticTokenSource{}
			if testCase.storedToken != "" {
				source[HostGitHub] = testCase.storedToken
			}
			client := NewClient(recorder.server.Client()).
				WithGitHubRawBase(recorder.server.URL).
				WithTokenSource(source)
			if _, err := client.Fetch(context.Background(), Ref{
				Host:           HostGitHub,
				Owner:          "acme",
				Repository:     "example",
				CandidatePaths: []string{"README.md"},
				Token:          testCase.explicitToken,
			}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			recorder.mutex.Lock()
			authorization := recorder.requests[0].authorization
			recorder.mutex.Unlock()
			if authorization != testCase.expectedAuthorization {
				t.Fatalf("expected authorization %q, got %q", testCase.expectedAuthorization, authorization)
			}
		})
	}
}

func TestClientAzureDevOpsRequestShape(t *testing.T) {
	t.Parallel()
	recorder := newRecordingServer(t, func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte("azure readme"))
	})
	client := NewClient(recorder.server.Client()).WithAzureDevOpsBase(recorder.server.URL)
	document, err := client.Fetch(context.Background(), Ref{
		Host:           HostAzureDevOps,
		Owner:          "acme",
		Project:        "tools",
		Repository:     "example",
		Branch:         "develop",
		CandidatePaths: []string{"docs/README.md"},
		Token:          "pat",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if document.Content != "azure readme" {
		t.Fatalf("unexpected content %q", document.Content)
	}
	recorder.mutex.Lock()
	request := recorder.requests[0]
	recorder.mutex.Unlock()
	if request.path != "/acme/tools/_apis/git/repositories/example/items" {
		t.Fatalf("unexpected path %s", request.path)
	}
	expectedQuery := "%24format=octetStream&api-version=7.0&includeContent=true&path=%2Fdocs%2FREADME.md&versionDescriptor.version=develop&versionDescriptor.versionType=branch"
	if request.query != expectedQuery {
		t.Fatalf("unexpected query:\n got %s\nwant %s", request.query, expectedQuery)
	}
	// base64(":pat")
	if request.authorization != "Basic OnBhdA==" {
		t.Fatalf("unexpected authorization %q", request.authorization)
	}
}

func TestClientRejectsInvalidReferences(t *testing.T) {
	t.Parallel()
	client := NewClient(nil)
	if _, err := client.Fetch(context.Background(), Ref{Host: "gitlab", Owner: "a", Repository: "b", CandidatePaths: []string{"x"}}); !errors.Is(err, ErrUnsupportedHost) {
		t.Fatalf("expected ErrUnsupportedHost, got %v", err)
	}
	if _, err := client.Fetch(context.Background(), Ref{Host: HostGitHub, Repository: "b", CandidatePaths: []string{"x"}}); !errors.Is(err, errMissingOwner) {
		t.Fatalf("expected missing owner error, got %v", err)
	}
	if _, err := client.Fetch(context.Background(), Ref{Host: HostAzureDevOps, Owner: "a", Repository: "b", CandidatePaths: []string{"x"}}); !errors.Is(err, errMissingProject) {
		t.Fatalf("expected missing project error, got %v", err)
	}
}

func TestFormatAuthorizationHeaderValue(t *testing.T) {
	testCases := []struct {
		name     string
		token    string
		expected string
	}{
		{name: "personal access token", token: "abc123", expected: authorizationTokenPrefix + "abc123"},
		{name: "explicit bearer prefix retained", token: "Bearer prefixed", expected: "Bearer prefixed"},
		{name: "explicit token prefix retained", token: "token prefixed", expected: "token prefixed"},
		{name: "jwt token defaults to bearer", token: "a.b.c", expected: authorizationBearerPrefix + "a.b.c"},
		{name: "without token", token: "  ", expected: ""},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if actual := formatAuthorizationHeaderValue(testCase.token); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

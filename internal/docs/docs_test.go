package docs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/temirov/pkgdoc/internal/docs/remotedoc"
	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/manifest"
	"github.com/temirov/pkgdoc/internal/types"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for relativePath, content := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", fullPath, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", fullPath, err)
		}
	}
}

func resolveTestBases(t *testing.T, root string) ResolvedBases {
	t.Helper()
	return NewBaseResolver(fsops.NewOSFS(), nil, nil).Resolve(root)
}

type pathRecorder struct {
	mutex sync.Mutex
	paths []string
}

func (recorder *pathRecorder) add(path string) {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.paths = append(recorder.paths, path)
}

func (recorder *pathRecorder) snapshot() []string {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]string(nil), recorder.paths...)
}

// newRawServer serves the given paths and answers 404 for everything else.
func newRawServer(t *testing.T, served map[string]string, status int) (*httptest.Server, *pathRecorder) {
	t.Helper()
	recorder := &pathRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorder.add(request.URL.Path)
		if status != 0 {
			writer.WriteHeader(status)
			return
		}
		content, found := served[request.URL.Path]
		if !found {
			http.NotFound(writer, request)
			return
		}
		_, _ = writer.Write([]byte(content))
	}))
	t.Cleanup(server.Close)
	return server, recorder
}

func newTestPlanner(server *httptest.Server) Planner {
	var fetcher remoteFetcher
	if server != nil {
		fetcher = remotedoc.NewClient(server.Client()).WithGitHubRawBase(server.URL)
	}
	return NewPlanner(fsops.NewOSFS(), fetcher, nil)
}

func TestResolveBasesWithoutManifestOrInternals(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"README.md": "# root"})

	bases := resolveTestBases(t, root)
	if bases.HasInternals() {
		t.Fatalf("expected no internals base, got %q", bases.InternalsBase)
	}
	if !reflect.DeepEqual(bases.Options, manifest.DefaultDeliveryOptions()) {
		t.Fatalf("expected default options, got %+v", bases.Options)
	}
	location, found := Locate(fsops.NewOSFS(), bases, types.KindReadme, true)
	if !found {
		t.Fatalf("expected readme in root")
	}
	if location.Path != filepath.Join(root, "README.md") || location.Tier != types.TierLocal {
		t.Fatalf("unexpected location %+v", location)
	}
}

func TestResolveBasesAbsorbsMalformedManifest(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"pkgdoc.yaml":         "name: broken\nproject_uri: https://github.com/acme/broken\nprivate_data:\n  delivery: just-a-string\n",
		"Internals/README.md": "# internals",
	})

	bases := resolveTestBases(t, root)
	if bases.Options.InternalsPath != manifest.DefaultInternalsPath {
		t.Fatalf("expected default internals path, got %q", bases.Options.InternalsPath)
	}
	if bases.InternalsBase != filepath.Join(root, "Internals") {
		t.Fatalf("expected internals base to exist, got %q", bases.InternalsBase)
	}
	if bases.ProjectURI != "https://github.com/acme/broken" {
		t.Fatalf("expected project URI to survive, got %q", bases.ProjectURI)
	}
}

func TestResolveBasesHonorsDeclaredInternalsPath(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"pkgdoc.yaml":         "name: custom\nprivate_data:\n  delivery:\n    internals_path: Bundle\n  repository:\n    branch: develop\n",
		"Bundle/CHANGELOG.md": "changes",
	})

	bases := resolveTestBases(t, root)
	if bases.InternalsBase != filepath.Join(root, "Bundle") {
		t.Fatalf("expected Bundle internals, got %q", bases.InternalsBase)
	}
	if bases.Repository.Branch != "develop" {
		t.Fatalf("expected develop branch, got %q", bases.Repository.Branch)
	}
}

func TestResolveBasesKeepsValidBlockOfMalformedManifest(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name                  string
		manifest              string
		expectedInternalsPath string
		expectedIntroText     manifest.Lines
		expectedBranch        string
	}{
		{
			name: "malformed repository keeps delivery",
			manifest: "name: n\nprivate_data:\n  delivery:\n    internals_path: Bundle\n    intro_text: [hello]\n" +
				"  repository:\n    paths: {bad: 1}\n",
			expectedInternalsPath: "Bundle",
			expectedIntroText:     manifest.Lines{"hello"},
		},
		{
			name:                  "malformed delivery keeps repository",
			manifest:              "name: n\nprivate_data:\n  delivery: just-a-string\n  repository:\n    branch: develop\n",
			expectedInternalsPath: manifest.DefaultInternalsPath,
			expectedBranch:        "develop",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			writeFiles(t, root, map[string]string{
				"pkgdoc.yaml":         testCase.manifest,
				"Bundle/README.md":    "bundle",
				"Internals/README.md": "internals",
			})

			bases := resolveTestBases(t, root)
			if bases.Options.InternalsPath != testCase.expectedInternalsPath {
				t.Fatalf("expected internals path %q, got %q", testCase.expectedInternalsPath, bases.Options.InternalsPath)
			}
			expectedBase := filepath.Join(root, filepath.FromSlash(testCase.expectedInternalsPath))
			if bases.InternalsBase != expectedBase {
				t.Fatalf("expected internals base %q, got %q", expectedBase, bases.InternalsBase)
			}
			if len(testCase.expectedIntroText) > 0 && !reflect.DeepEqual(bases.Options.IntroText, testCase.expectedIntroText) {
				t.Fatalf("expected intro text %v, got %v", testCase.expectedIntroText, bases.Options.IntroText)
			}
			if bases.Repository.Branch != testCase.expectedBranch {
				t.Fatalf("expected branch %q, got %q", testCase.expectedBranch, bases.Repository.Branch)
			}
		})
	}
}

func TestResolveBasesResolvesScriptsAndDocFolders(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"pkgdoc.yaml": "name: n\nprivate_data:\n  delivery:\n    scripts_path: tools\n" +
			"    docs_paths: [guides, missing, ../outside, guides/, docs]\n",
		"tools/setup.sh":   "echo",
		"guides/intro.md":  "guide",
		"docs/overview.md": "docs",
	})

	bases := resolveTestBases(t, root)
	if bases.ScriptsBase != filepath.Join(root, "tools") {
		t.Fatalf("expected tools scripts base, got %q", bases.ScriptsBase)
	}
	expectedDocs := []string{filepath.Join(root, "guides"), filepath.Join(root, "docs")}
	if !reflect.DeepEqual(bases.DocsBases, expectedDocs) {
		t.Fatalf("expected doc folders %v, got %v", expectedDocs, bases.DocsBases)
	}
	if bases.HasInternals() {
		t.Fatalf("expected no internals base, got %q", bases.InternalsBase)
	}
}

func TestLocateSelection(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name            string
		files           map[string]string
		kind            types.DocumentKind
		preferInternals bool
		expectedPath    string
		expectedTier    types.SourceTier
		expectedFound   bool
	}{
		{
			name:          "shortest name wins",
			files:         map[string]string{"README.LEGACY.md": "old", "README.md": "new"},
			kind:          types.KindReadme,
			expectedPath:  "README.md",
			expectedTier:  types.TierLocal,
			expectedFound: true,
		},
		{
			name:          "ties broken lexicographically",
			files:         map[string]string{"LICENSE.txt": "t", "LICENSE.md": "m"},
			kind:          types.KindLicense,
			expectedPath:  "LICENSE.md",
			expectedTier:  types.TierLocal,
			expectedFound: true,
		},
		{
			name:          "prefix match is case insensitive",
			files:         map[string]string{"Changelog.rst": "c"},
			kind:          types.KindChangelog,
			expectedPath:  "Changelog.rst",
			expectedTier:  types.TierLocal,
			expectedFound: true,
		},
		{
			name:          "root wins without preference",
			files:         map[string]string{"README.md": "root", "Internals/README.md": "internal"},
			kind:          types.KindReadme,
			expectedPath:  "README.md",
			expectedTier:  types.TierLocal,
			expectedFound: true,
		},
		{
			name:            "internals wins with preference",
			files:           map[string]string{"README.md": "root", "Internals/README.md": "internal"},
			kind:            types.KindReadme,
			preferInternals: true,
			expectedPath:    "Internals/README.md",
			expectedTier:    types.TierInternals,
			expectedFound:   true,
		},
		{
			name:          "internals used when root lacks a match",
			files:         map[string]string{"Internals/UPGRADE.md": "u"},
			kind:          types.KindUpgrade,
			expectedPath:  "Internals/UPGRADE.md",
			expectedTier:  types.TierInternals,
			expectedFound: true,
		},
		{
			name: "declared doc folders searched after root and internals",
			files: map[string]string{
				"pkgdoc.yaml":          "name: n\nprivate_data:\n  delivery:\n    docs_paths: [missing, docs, guides]\n",
				"docs/CHANGELOG.md":    "docs",
				"guides/CHANGELOG.md":  "guides",
				"Internals/LICENSE.md": "license",
			},
			kind:          types.KindChangelog,
			expectedPath:  "docs/CHANGELOG.md",
			expectedTier:  types.TierLocal,
			expectedFound: true,
		},
		{
			name: "package files win over doc folders",
			files: map[string]string{
				"pkgdoc.yaml":    "name: n\nprivate_data:\n  delivery:\n    docs_paths: [docs]\n",
				"docs/README.md": "docs",
				"README.md":      "root",
			},
			kind:          types.KindReadme,
			expectedPath:  "README.md",
			expectedTier:  types.TierLocal,
			expectedFound: true,
		},
		{
			name:  "directories are ignored",
			files: map[string]string{"README/index.md": "nested"},
			kind:  types.KindReadme,
		},
		{
			name:  "intro has no file pattern",
			files: map[string]string{"INTRO.md": "intro"},
			kind:  types.KindIntro,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			writeFiles(t, root, testCase.files)
			bases := resolveTestBases(t, root)

			location, found := Locate(fsops.NewOSFS(), bases, testCase.kind, testCase.preferInternals)
			if found != testCase.expectedFound {
				t.Fatalf("expected found=%v, got %v (%+v)", testCase.expectedFound, found, location)
			}
			if !found {
				return
			}
			expectedPath := filepath.Join(root, filepath.FromSlash(testCase.expectedPath))
			if location.Path != expectedPath || location.Tier != testCase.expectedTier {
				t.Fatalf("expected %s (%s), got %s (%s)", expectedPath, testCase.expectedTier, location.Path, location.Tier)
			}
		})
	}
}

func TestPlannerPrefersInternalsForEveryFileKind(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"README.md":              "root",
		"CHANGELOG.md":           "root",
		"LICENSE":                "root",
		"Internals/README.md":    "internal",
		"Internals/CHANGELOG.md": "internal",
		"Internals/LICENSE":      "internal",
	})
	planner := newTestPlanner(nil)
	kinds := []types.DocumentKind{types.KindReadme, types.KindChangelog, types.KindLicense}

	result, err := planner.Plan(context.Background(), Request{
		Bases:           resolveTestBases(t, root),
		Kinds:           kinds,
		PreferInternals: true,
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(result.Items) != len(kinds) {
		t.Fatalf("expected %d items, got %+v", len(kinds), result.Items)
	}
	for index, item := range result.Items {
		if item.Kind != kinds[index] {
			t.Fatalf("item %d: expected kind %s, got %s", index, kinds[index], item.Kind)
		}
		if item.Tier != types.TierInternals || !strings.HasPrefix(item.Path, filepath.Join(root, "Internals")) {
			t.Fatalf("item %d: expected internals file, got %+v", index, item)
		}
	}
}

func TestPlannerAllIncludesShippedUpgradeNotes(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"README.md":            "readme",
		"Internals/UPGRADE.md": "upgrade",
	})

	result, err := newTestPlanner(nil).Plan(context.Background(), Request{
		Bases:           resolveTestBases(t, root),
		All:             true,
		PreferInternals: true,
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	var kinds []types.DocumentKind
	for _, item := range result.Items {
		kinds = append(kinds, item.Kind)
	}
	expectedKinds := []types.DocumentKind{types.KindReadme, types.KindUpgrade}
	if !reflect.DeepEqual(kinds, expectedKinds) {
		t.Fatalf("expected kinds %v, got %v", expectedKinds, kinds)
	}
	upgradeItem := result.Items[1]
	if upgradeItem.Tier != types.TierInternals || upgradeItem.Path != filepath.Join(root, "Internals", "UPGRADE.md") {
		t.Fatalf("expected shipped upgrade file, got %+v", upgradeItem)
	}
}

func TestPlannerOmitsUnresolvedKindsWithoutRemote(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"README.md":   "readme",
		"pkgdoc.yaml": "name: demo\nproject_uri: https://github.com/acme/demo\n",
	})
	planner := newTestPlanner(nil)

	result, err := planner.Plan(context.Background(), Request{
		Bases: resolveTestBases(t, root),
		Kinds: []types.DocumentKind{types.KindChangelog, types.KindReadme, types.KindLicense},
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Kind != types.KindReadme {
		t.Fatalf("expected only the readme, got %+v", result.Items)
	}
}

func TestPlannerNarrativeTierOrder(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name            string
		files           map[string]string
		remote          map[string]string
		kind            types.DocumentKind
		expectedType    types.ContentType
		expectedTier    types.SourceTier
		expectedContent string
		expectedPath    string
	}{
		{
			name: "declared file beats inline text",
			files: map[string]string{
				"pkgdoc.yaml":        "name: n\nproject_uri: https://github.com/acme/n\nprivate_data:\n  delivery:\n    intro_file: Internals/Intro.md\n    intro_text: [inline]\n",
				"Internals/Intro.md": "from file",
			},
			remote:       map[string]string{"/acme/n/main/INTRO.md": "remote"},
			kind:         types.KindIntro,
			expectedType: types.ContentTypeFile,
			expectedTier: types.TierManifestText,
			expectedPath: "Internals/Intro.md",
		},
		{
			name: "inline text used when declared file is missing",
			files: map[string]string{
				"pkgdoc.yaml": "name: n\nproject_uri: https://github.com/acme/n\nprivate_data:\n  delivery:\n    upgrade_file: Upgrade.md\n    upgrade_text: [first, second]\n",
				"UPGRADE.md":  "shipped upgrade notes rank below manifest text",
			},
			remote:          map[string]string{"/acme/n/main/UPGRADE.md": "remote"},
			kind:            types.KindUpgrade,
			expectedType:    types.ContentTypeText,
			expectedTier:    types.TierManifestText,
			expectedContent: "first\nsecond",
		},
		{
			name: "shipped upgrade file used when manifest declares nothing",
			files: map[string]string{
				"pkgdoc.yaml":          "name: n\nproject_uri: https://github.com/acme/n\n",
				"Internals/UPGRADE.md": "shipped",
			},
			remote:       map[string]string{"/acme/n/main/UPGRADE.md": "remote"},
			kind:         types.KindUpgrade,
			expectedType: types.ContentTypeFile,
			expectedTier: types.TierInternals,
			expectedPath: "Internals/UPGRADE.md",
		},
		{
			name: "remote used when nothing local declares or ships the document",
			files: map[string]string{
				"pkgdoc.yaml": "name: n\nproject_uri: https://github.com/acme/n\n",
			},
			remote:          map[string]string{"/acme/n/main/upgrade.md": "remote upgrade"},
			kind:            types.KindUpgrade,
			expectedType:    types.ContentTypeText,
			expectedTier:    types.TierRemote,
			expectedContent: "remote upgrade",
			expectedPath:    "upgrade.md",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			writeFiles(t, root, testCase.files)
			server, _ := newRawServer(t, testCase.remote, 0)
			planner := newTestPlanner(server)

			result, err := planner.Plan(context.Background(), Request{
				Bases:  resolveTestBases(t, root),
				Kinds:  []types.DocumentKind{testCase.kind},
				Remote: RemoteSettings{Enabled: true},
			})
			if err != nil {
				t.Fatalf("Plan failed: %v", err)
			}
			if len(result.Items) != 1 {
				t.Fatalf("expected one item, got %+v", result.Items)
			}
			item := result.Items[0]
			if item.Type != testCase.expectedType || item.Tier != testCase.expectedTier {
				t.Fatalf("expected %s/%s, got %s/%s", testCase.expectedType, testCase.expectedTier, item.Type, item.Tier)
			}
			if testCase.expectedContent != "" && item.Content != testCase.expectedContent {
				t.Fatalf("expected content %q, got %q", testCase.expectedContent, item.Content)
			}
			if testCase.expectedPath != "" {
				expectedPath := testCase.expectedPath
				if item.Tier != types.TierRemote {
					expectedPath = filepath.Join(root, filepath.FromSlash(expectedPath))
				}
				if item.Path != expectedPath {
					t.Fatalf("expected path %q, got %q", expectedPath, item.Path)
				}
			}
		})
	}
}

func TestPlannerRemoteReadmeUsesThirdCandidate(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"pkgdoc.yaml": "name: remote\nproject_uri: https://github.com/acme/remote\n"})
	server, recorder := newRawServer(t, map[string]string{"/acme/remote/main/README": "third"}, 0)
	planner := newTestPlanner(server)

	result, err := planner.Plan(context.Background(), Request{
		Bases:  resolveTestBases(t, root),
		Kinds:  []types.DocumentKind{types.KindReadme},
		Remote: RemoteSettings{Enabled: true},
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected one item, got %+v", result.Items)
	}
	item := result.Items[0]
	if item.Tier != types.TierRemote || item.Content != "third" || item.Path != "README" {
		t.Fatalf("unexpected remote item %+v", item)
	}
	expectedPaths := []string{"/acme/remote/main/README.md", "/acme/remote/main/readme.md", "/acme/remote/main/README"}
	if !reflect.DeepEqual(recorder.snapshot(), expectedPaths) {
		t.Fatalf("expected requests %v, got %v", expectedPaths, recorder.snapshot())
	}
}

func TestPlannerBranchPrecedence(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name            string
		manifestBranch  string
		requestBranch   string
		expectedRequest string
	}{
		{name: "host default", expectedRequest: "/acme/b/main/LICENSE"},
		{name: "manifest branch", manifestBranch: "develop", expectedRequest: "/acme/b/develop/LICENSE"},
		{name: "request branch", manifestBranch: "develop", requestBranch: "release", expectedRequest: "/acme/b/release/LICENSE"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			manifestText := "name: b\nproject_uri: https://github.com/acme/b\n"
			if testCase.manifestBranch != "" {
				manifestText += "private_data:\n  repository:\n    branch: " + testCase.manifestBranch + "\n"
			}
			writeFiles(t, root, map[string]string{"pkgdoc.yaml": manifestText})
			server, recorder := newRawServer(t, map[string]string{testCase.expectedRequest: "license"}, 0)
			planner := newTestPlanner(server)

			result, err := planner.Plan(context.Background(), Request{
				Bases:  resolveTestBases(t, root),
				Kinds:  []types.DocumentKind{types.KindLicense},
				Remote: RemoteSettings{Enabled: true, Branch: testCase.requestBranch},
			})
			if err != nil {
				t.Fatalf("Plan failed: %v", err)
			}
			if len(result.Items) != 1 {
				t.Fatalf("expected license item, requests were %v", recorder.snapshot())
			}
			if recorder.snapshot()[0] != testCase.expectedRequest {
				t.Fatalf("expected first request %s, got %v", testCase.expectedRequest, recorder.snapshot())
			}
		})
	}
}

func TestPlannerReportsAuthRequired(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"README.md":   "local readme",
		"pkgdoc.yaml": "name: private\nproject_uri: https://github.com/acme/private\n",
	})
	server, _ := newRawServer(t, nil, http.StatusUnauthorized)
	planner := newTestPlanner(server)

	result, err := planner.Plan(context.Background(), Request{
		Bases:  resolveTestBases(t, root),
		Kinds:  []types.DocumentKind{types.KindReadme, types.KindChangelog},
		Remote: RemoteSettings{Enabled: true},
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Kind != types.KindReadme {
		t.Fatalf("expected only the local readme, got %+v", result.Items)
	}
	if !reflect.DeepEqual(result.AuthRequired, []types.DocumentKind{types.KindChangelog}) {
		t.Fatalf("expected changelog to require auth, got %v", result.AuthRequired)
	}
}

func TestPlannerAllOrderAndLinks(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"LICENSE":   "license",
		"README.md": "readme",
		"pkgdoc.yaml": "name: all\nversion: 1.0.0\nprivate_data:\n  delivery:\n    intro_text: hello\n" +
			"    important_links:\n      - title: Docs\n        url: https://example.com/docs\n      - url: https://example.com/bare\n",
	})
	planner := newTestPlanner(nil)

	result, err := planner.Plan(context.Background(), Request{
		Bases:   resolveTestBases(t, root),
		Package: types.PackageReference{Name: "all", Version: "1.0.0", Root: root},
		All:     true,
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	var kinds []types.DocumentKind
	for _, item := range result.Items {
		kinds = append(kinds, item.Kind)
	}
	expectedKinds := []types.DocumentKind{types.KindReadme, types.KindLicense, types.KindIntro, types.KindLinks}
	if !reflect.DeepEqual(kinds, expectedKinds) {
		t.Fatalf("expected kinds %v, got %v", expectedKinds, kinds)
	}
	linksItem := result.Items[len(result.Items)-1]
	expectedLinks := "- [Docs](https://example.com/docs)\n- [https://example.com/bare](https://example.com/bare)"
	if linksItem.Content != expectedLinks {
		t.Fatalf("unexpected links content %q", linksItem.Content)
	}
	if result.Title != "all 1.0.0" {
		t.Fatalf("unexpected title %q", result.Title)
	}
}

func TestPlannerStopsOnCancelledContext(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"README.md": "readme"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestPlanner(nil).Plan(ctx, Request{Bases: resolveTestBases(t, root)}); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestRemoteCandidatesWithExtraPaths(t *testing.T) {
	t.Parallel()
	candidates := RemoteCandidates(types.KindUpgrade, mergePaths([]string{"docs/", "docs"}, []string{"/guide"}))
	expected := []string{"UPGRADE.md", "upgrade.md", "docs/UPGRADE.md", "docs/upgrade.md", "guide/UPGRADE.md", "guide/upgrade.md"}
	if !reflect.DeepEqual(candidates, expected) {
		t.Fatalf("expected %v, got %v", expected, candidates)
	}
	if RemoteCandidates(types.KindLinks, nil) != nil {
		t.Fatalf("expected no candidates for links")
	}
}

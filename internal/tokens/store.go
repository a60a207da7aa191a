// Package tokens persists access tokens for remote documentation hosts.
package tokens

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/temirov/pkgdoc/internal/docs/remotedoc"
	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/utils"
)

const (
	tokenFileName       = "tokens.yaml"
	tokenFilePermission = 0o600
)

// tokenFile is the on-disk layout; each entry is optional.
type tokenFile struct {
	Protector   string `yaml:"protector,omitempty"`
	GitHub      string `yaml:"github,omitempty"`
	AzureDevOps string `yaml:"azure_devops,omitempty"`
}

func (file *tokenFile) slot(host remotedoc.HostKind) (*string, error) {
	switch host {
	case remotedoc.HostGitHub:
		return &file.GitHub, nil
	case remotedoc.HostAzureDevOps:
		return &file.AzureDevOps, nil
	default:
		return nil, fmt.Errorf("%w: %q", remotedoc.ErrUnsupportedHost, host)
	}
}

func (file tokenFile) empty() bool {
	return file.GitHub == "" && file.AzureDevOps == ""
}

// Store keeps tokens in a single per-user file. Nothing is cached between calls.
type Store struct {
	path       string
	fileSystem fsops.FS
	protector  SecretProtector
}

// DefaultPath returns the per-user token file location.
func DefaultPath() (string, error) {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return "", fmt.Errorf("resolve home directory for tokens: %w", homeError)
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, tokenFileName), nil
}

// NewStore constructs a Store. A nil fileSystem uses the real filesystem and a nil
// protector uses DefaultProtector.
func NewStore(path string, fileSystem fsops.FS, protector SecretProtector) Store {
	if fileSystem == nil {
		fileSystem = fsops.NewOSFS()
	}
	if protector == nil {
		protector = DefaultProtector()
	}
	return Store{path: path, fileSystem: fileSystem, protector: protector}
}

// Path returns the token file location.
func (store Store) Path() string {
	return store.path
}

// ProtectorName names the mechanism used to obscure tokens at rest.
func (store Store) ProtectorName() string {
	return store.protector.Name()
}

// Save stores the provided tokens. A nil argument leaves that host's token
// untouched; an empty string removes it.
func (store Store) Save(gitHubToken *string, azureDevOpsToken *string) error {
	current, loadError := store.load()
	if loadError != nil {
		return loadError
	}
	updates := []struct {
		host  remotedoc.HostKind
		value *string
	}{
		{host: remotedoc.HostGitHub, value: gitHubToken},
		{host: remotedoc.HostAzureDevOps, value: azureDevOpsToken},
	}
	for _, update := range updates {
		if update.value == nil {
			continue
		}
		slot, _ := current.slot(update.host)
		trimmed := strings.TrimSpace(*update.value)
		if trimmed == "" {
			*slot = ""
			continue
		}
		protected, protectError := store.protector.Protect([]byte(trimmed))
		if protectError != nil {
			return fmt.Errorf("protect %s token: %w", update.host, protectError)
		}
		*slot = base64.StdEncoding.EncodeToString(protected)
	}
	if current.empty() {
		return store.Clear()
	}
	current.Protector = store.protector.Name()
	data, marshalError := yaml.Marshal(current)
	if marshalError != nil {
		return fmt.Errorf("encode token file: %w", marshalError)
	}
	if writeError := store.fileSystem.AtomicWrite(store.path, data, tokenFilePermission); writeError != nil {
		return fmt.Errorf("write token file %s: %w", store.path, writeError)
	}
	return nil
}

// ModifiedAt returns when the token file was last written; ok is false when no file exists.
func (store Store) ModifiedAt() (time.Time, bool) {
	information, statError := store.fileSystem.Stat(store.path)
	if statError != nil {
		return time.Time{}, false
	}
	return information.ModTime(), true
}

// Clear removes every stored token.
func (store Store) Clear() error {
	removeError := store.fileSystem.Remove(store.path)
	if removeError != nil && !errors.Is(removeError, fs.ErrNotExist) {
		return fmt.Errorf("remove token file %s: %w", store.path, removeError)
	}
	return nil
}

// Read returns the token stored for host. It never touches the network.
func (store Store) Read(host remotedoc.HostKind) (string, bool, error) {
	current, loadError := store.load()
	if loadError != nil {
		return "", false, loadError
	}
	slot, slotError := current.slot(host)
	if slotError != nil {
		return "", false, slotError
	}
	if *slot == "" {
		return "", false, nil
	}
	protected, decodeError := base64.StdEncoding.DecodeString(*slot)
	if decodeError != nil {
		return "", false, fmt.Errorf("decode %s token: %w", host, decodeError)
	}
	plain, unprotectError := store.protector.Unprotect(protected)
	if unprotectError != nil {
		return "", false, fmt.Errorf("unprotect %s token: %w", host, unprotectError)
	}
	return string(plain), true, nil
}

func (store Store) load() (tokenFile, error) {
	data, readError := store.fileSystem.ReadFile(store.path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return tokenFile{}, nil
		}
		return tokenFile{}, fmt.Errorf("read token file %s: %w", store.path, readError)
	}
	var current tokenFile
	if unmarshalError := yaml.Unmarshal(data, &current); unmarshalError != nil {
		return tokenFile{}, fmt.Errorf("parse token file %s: %w", store.path, unmarshalError)
	}
	return current, nil
}

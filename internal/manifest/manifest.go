// Package manifest reads pkgdoc package manifests into typed delivery metadata.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/temirov/pkgdoc/internal/fsops"
)

const (
	// DefaultInternalsPath is the conventional folder holding bundled content.
	DefaultInternalsPath = "Internals"
	// DefaultScriptsPath is the conventional folder holding bundled scripts.
	DefaultScriptsPath = "Internals/Scripts"

	formatYAML = "yaml"
	formatTOML = "toml"
	formatJSON = "json"
)

var (
	// ErrNotFound indicates that the package root holds no manifest.
	ErrNotFound = errors.New("manifest not found")
	// ErrMalformed indicates that a manifest exists but cannot be decoded.
	ErrMalformed = errors.New("manifest is malformed")
)

// FileNames lists the manifest file names probed in order.
var FileNames = []string{"pkgdoc.yaml", "pkgdoc.yml", "pkgdoc.toml", "pkgdoc.json"}

// Link is a titled URL declared by a package.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Lines holds narrative text; it decodes from either a string or a list of strings.
type Lines []string

// UnmarshalJSON accepts a single string or an array of strings.
func (lines *Lines) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*lines = nil
		return nil
	}
	var single string
	if json.Unmarshal(data, &single) == nil {
		*lines = strings.Split(single, "\n")
		return nil
	}
	var multiple []string
	if unmarshalError := json.Unmarshal(data, &multiple); unmarshalError != nil {
		return fmt.Errorf("text must be a string or list of strings: %w", unmarshalError)
	}
	*lines = multiple
	return nil
}

// DeliveryOptions controls where bundled documentation and scripts are found.
// Paths are relative to the package root.
type DeliveryOptions struct {
	InternalsPath  string   `json:"internals_path"`
	ScriptsPath    string   `json:"scripts_path"`
	DocsPaths      []string `json:"docs_paths"`
	ImportantLinks []Link   `json:"important_links"`
	IntroText      Lines    `json:"intro_text"`
	UpgradeText    Lines    `json:"upgrade_text"`
	IntroFile      string   `json:"intro_file"`
	UpgradeFile    string   `json:"upgrade_file"`
}

// DefaultDeliveryOptions returns the options used when a manifest declares nothing.
func DefaultDeliveryOptions() DeliveryOptions {
	return DeliveryOptions{
		InternalsPath: DefaultInternalsPath,
		ScriptsPath:   DefaultScriptsPath,
	}
}

// WithDefaults fills every unset field with its default.
func (options DeliveryOptions) WithDefaults() DeliveryOptions {
	result := options
	if strings.TrimSpace(result.InternalsPath) == "" {
		result.InternalsPath = DefaultInternalsPath
	}
	if strings.TrimSpace(result.ScriptsPath) == "" {
		result.ScriptsPath = DefaultScriptsPath
	}
	return result
}

// RepositoryInfo carries remote repository overrides declared by a package.
type RepositoryInfo struct {
	Branch     string   `json:"branch"`
	ExtraPaths []string `json:"paths"`
}

// Manifest is the typed view of a package manifest.
type Manifest struct {
	Name       string
	Version    string
	ProjectURI string
	Delivery   DeliveryOptions
	Repository RepositoryInfo
	// Path is the manifest file the values were read from.
	Path string
}

type rawManifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	ProjectURI  string `json:"project_uri"`
	PrivateData struct {
		Delivery   json.RawMessage `json:"delivery"`
		Repository json.RawMessage `json:"repository"`
	} `json:"private_data"`
}

// Reader reads manifests from package roots.
type Reader struct {
	fileSystem fsops.FS
}

// NewReader constructs a Reader; a nil fileSystem uses the real filesystem.
func NewReader(fileSystem fsops.FS) Reader {
	if fileSystem == nil {
		fileSystem = fsops.NewOSFS()
	}
	return Reader{fileSystem: fileSystem}
}

// FindManifest returns the first manifest file present in packageRoot.
func (reader Reader) FindManifest(packageRoot string) (string, error) {
	for _, fileName := range FileNames {
		candidatePath := filepath.Join(packageRoot, fileName)
		if fsops.IsRegularFile(reader.fileSystem, candidatePath) {
			return candidatePath, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNotFound, packageRoot)
}

// Read locates and decodes the manifest of packageRoot.
//
// When only the delivery or repository block is malformed the returned Manifest still
// carries name, version and project URI, and the error wraps ErrMalformed.
func (reader Reader) Read(packageRoot string) (Manifest, error) {
	manifestPath, findError := reader.FindManifest(packageRoot)
	if findError != nil {
		return Manifest{}, findError
	}
	return reader.ReadFile(manifestPath)
}

// ReadFile decodes the manifest stored at manifestPath.
func (reader Reader) ReadFile(manifestPath string) (Manifest, error) {
	data, readError := reader.fileSystem.ReadFile(manifestPath)
	if readError != nil {
		return Manifest{}, fmt.Errorf("read manifest %s: %w", manifestPath, readError)
	}
	return Decode(manifestPath, data)
}

// Decode parses manifest bytes; the format is chosen by the file extension of name.
func Decode(name string, data []byte) (Manifest, error) {
	generic, decodeError := decodeGeneric(formatForName(name), data)
	if decodeError != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %v", ErrMalformed, name, decodeError)
	}
	normalized, normalizeError := json.Marshal(generic)
	if normalizeError != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %v", ErrMalformed, name, normalizeError)
	}
	var raw rawManifest
	if unmarshalError := json.Unmarshal(normalized, &raw); unmarshalError != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %v", ErrMalformed, name, unmarshalError)
	}

	result := Manifest{
		Name:       strings.TrimSpace(raw.Name),
		Version:    strings.TrimSpace(raw.Version),
		ProjectURI: strings.TrimSpace(raw.ProjectURI),
		Delivery:   DefaultDeliveryOptions(),
		Path:       name,
	}

	var blockErrors []error
	if len(raw.PrivateData.Delivery) > 0 && string(raw.PrivateData.Delivery) != "null" {
		var delivery DeliveryOptions
		if unmarshalError := json.Unmarshal(raw.PrivateData.Delivery, &delivery); unmarshalError != nil {
			blockErrors = append(blockErrors, fmt.Errorf("delivery: %v", unmarshalError))
		} else {
			result.Delivery = delivery.WithDefaults()
		}
	}
	if len(raw.PrivateData.Repository) > 0 && string(raw.PrivateData.Repository) != "null" {
		var repository RepositoryInfo
		if unmarshalError := json.Unmarshal(raw.PrivateData.Repository, &repository); unmarshalError != nil {
			blockErrors = append(blockErrors, fmt.Errorf("repository: %v", unmarshalError))
		} else {
			result.Repository = repository
		}
	}
	if len(blockErrors) > 0 {
		return result, fmt.Errorf("%w: %s: %v", ErrMalformed, name, errors.Join(blockErrors...))
	}
	return result, nil
}

func formatForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return formatTOML
	case ".json":
		return formatJSON
	default:
		return formatYAML
	}
}

func decodeGeneric(format string, data []byte) (map[string]interface{}, error) {
	generic := map[string]interface{}{}
	var decodeError error
	switch format {
	case formatTOML:
		decodeError = toml.Unmarshal(data, &generic)
	case formatJSON:
		decodeError = json.Unmarshal(data, &generic)
	default:
		decodeError = yaml.Unmarshal(data, &generic)
	}
	if decodeError != nil {
		return nil, decodeError
	}
	return generic, nil
}

// Package config loads pkgdoc configuration files and writes the starter template.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/pkgdoc/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Packages PackagesConfiguration `mapstructure:"packages"`
	Show     ShowConfiguration     `mapstructure:"show"`
	Remote   RemoteConfiguration   `mapstructure:"remote"`
	Install  InstallConfiguration  `mapstructure:"install"`
}

// PackagesConfiguration lists where installed packages are searched for.
type PackagesConfiguration struct {
	SearchPaths []string `mapstructure:"search_paths"`
}

// ShowConfiguration defines defaults for the show command.
type ShowConfiguration struct {
	Format          string `mapstructure:"format"`
	Style           string `mapstructure:"style"`
	PreferInternals *bool  `mapstructure:"prefer_internals"`
	Remote          *bool  `mapstructure:"remote"`
	Clipboard       *bool  `mapstructure:"clipboard"`
}

// RemoteConfiguration configures the remote repository client.
type RemoteConfiguration struct {
	GitHubRawBase   string        `mapstructure:"github_raw_base"`
	AzureDevOpsBase string        `mapstructure:"azure_devops_base"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// InstallConfiguration defines defaults for the install command.
type InstallConfiguration struct {
	Layout       string `mapstructure:"layout"`
	Policy       string `mapstructure:"policy"`
	ExcludeIntro *bool  `mapstructure:"exclude_intro"`
	Open         *bool  `mapstructure:"open"`
}

// LoadApplicationConfiguration loads configuration from the global file and then the
// local (or explicit) file; later values override earlier ones key by key.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Packages.SearchPaths = utils.DeduplicateStrings(merged.Packages.SearchPaths)
	return merged, nil
}

// PackageSearchPaths returns the configured search roots followed by the entries of
// PKGDOC_PACKAGES_PATH and the default ~/.pkgdoc/packages root.
func (config ApplicationConfiguration) PackageSearchPaths(lookupEnv func(string) (string, bool)) []string {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	var searchPaths []string
	for _, configuredPath := range config.Packages.SearchPaths {
		searchPaths = append(searchPaths, utils.ExpandHomePath(configuredPath))
	}
	if environmentValue, present := lookupEnv(utils.PackagesPathEnvironmentVariable); present {
		searchPaths = append(searchPaths, utils.SplitPathList(environmentValue)...)
	}
	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		searchPaths = append(searchPaths, filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.PackagesDirectoryName))
	}
	return utils.DeduplicateStrings(searchPaths)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName)
}

func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if len(override.Packages.SearchPaths) > 0 {
		result.Packages.SearchPaths = append([]string{}, override.Packages.SearchPaths...)
	}
	result.Show = result.Show.merge(override.Show)
	result.Remote = result.Remote.merge(override.Remote)
	result.Install = result.Install.merge(override.Install)
	return result
}

func (config ShowConfiguration) merge(override ShowConfiguration) ShowConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Style != "" {
		result.Style = override.Style
	}
	if override.PreferInternals != nil {
		result.PreferInternals = cloneBool(override.PreferInternals)
	}
	if override.Remote != nil {
		result.Remote = cloneBool(override.Remote)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config RemoteConfiguration) merge(override RemoteConfiguration) RemoteConfiguration {
	result := config
	if override.GitHubRawBase != "" {
		result.GitHubRawBase = override.GitHubRawBase
	}
	if override.AzureDevOpsBase != "" {
		result.AzureDevOpsBase = override.AzureDevOpsBase
	}
	if override.Timeout > 0 {
		result.Timeout = override.Timeout
	}
	return result
}

func (config InstallConfiguration) merge(override InstallConfiguration) InstallConfiguration {
	result := config
	if override.Layout != "" {
		result.Layout = override.Layout
	}
	if override.Policy != "" {
		result.Policy = override.Policy
	}
	if override.ExcludeIntro != nil {
		result.ExcludeIntro = cloneBool(override.ExcludeIntro)
	}
	if override.Open != nil {
		result.Open = cloneBool(override.Open)
	}
	return result
}

// BoolValue dereferences value, returning fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

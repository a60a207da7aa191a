package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configurationFilePermission = 0o600

	defaultConfigurationTemplate = `packages:
  search_paths:
    - ~/.pkgdoc/packages
show:
  format: raw
  style: auto
  prefer_internals: false
  remote: true
  clipboard: false
remote:
  github_raw_base: https://raw.githubusercontent.com
  azure_devops_base: https://dev.azure.com
  timeout: 30s
install:
  layout: module-and-version
  policy: stop
  exclude_intro: false
  open: false
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	FileSystem       fsops.FS
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = fsops.NewOSFS()
	}
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		destinationPath = filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	exists, err := fsops.Exists(fileSystem, destinationPath)
	if err != nil {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}
	if exists && !options.Force {
		return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
	}

	if err := fileSystem.AtomicWrite(destinationPath, []byte(defaultConfigurationTemplate), configurationFilePermission); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}

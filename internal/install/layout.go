// Package install copies package documentation into a destination directory.
package install

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Layout selects the shape of the destination directory.
type Layout string

const (
	// LayoutDirect installs into the base path itself.
	LayoutDirect Layout = "direct"
	// LayoutModule installs into base/name.
	LayoutModule Layout = "module"
	// LayoutModuleAndVersion installs into base/name/version.
	LayoutModuleAndVersion Layout = "module-and-version"
)

// ParseLayout converts a layout name; an empty name selects LayoutModuleAndVersion.
func ParseLayout(name string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return LayoutModuleAndVersion, nil
	case LayoutDirect:
		return LayoutDirect, nil
	case LayoutModule:
		return LayoutModule, nil
	case LayoutModuleAndVersion:
		return LayoutModuleAndVersion, nil
	default:
		return "", fmt.Errorf("unknown layout %q (expected %s, %s or %s)", name, LayoutDirect, LayoutModule, LayoutModuleAndVersion)
	}
}

// LayoutFromLegacy maps the boolean include-version toggle onto a Layout.
func LayoutFromLegacy(includeVersion bool) Layout {
	if includeVersion {
		return LayoutModuleAndVersion
	}
	return LayoutDirect
}

// PlanDestination computes the install directory. It performs no I/O.
// LayoutModuleAndVersion degrades to LayoutModule when version is empty.
func PlanDestination(name string, version string, basePath string, layout Layout) string {
	cleanBase := filepath.Clean(basePath)
	trimmedName := strings.TrimSpace(name)
	trimmedVersion := strings.TrimSpace(version)
	switch layout {
	case LayoutModule:
		return filepath.Join(cleanBase, trimmedName)
	case LayoutModuleAndVersion:
		if trimmedVersion == "" {
			return filepath.Join(cleanBase, trimmedName)
		}
		return filepath.Join(cleanBase, trimmedName, trimmedVersion)
	default:
		return cleanBase
	}
}

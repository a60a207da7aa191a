// Package utils contains general helpers shared by the pkgdoc packages.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const homePrefix = "~"

// DeduplicateStrings removes duplicate values from a slice while preserving order.
// The first occurrence of each unique value is kept; empty values are dropped.
func DeduplicateStrings(values []string) []string {
	encounteredValues := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, exists := encounteredValues[value]; !exists {
			encounteredValues[value] = struct{}{}
			result = append(result, value)
		}
	}
	return result
}

// ExpandHomePath replaces a leading "~" with the current user's home directory.
// Paths without the prefix, or when the home directory is unknown, are returned cleaned.
func ExpandHomePath(path string) string {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return ""
	}
	if trimmedPath != homePrefix && !strings.HasPrefix(trimmedPath, homePrefix+"/") && !strings.HasPrefix(trimmedPath, homePrefix+string(filepath.Separator)) {
		return filepath.Clean(trimmedPath)
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil || homeDirectory == "" {
		return filepath.Clean(trimmedPath)
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(trimmedPath, homePrefix))
}

// SplitPathList splits an os.PathListSeparator separated list such as the value of
// PKGDOC_PACKAGES_PATH, expanding home-relative entries.
func SplitPathList(value string) []string {
	var paths []string
	for _, entry := range filepath.SplitList(value) {
		if expanded := ExpandHomePath(entry); expanded != "" {
			paths = append(paths, expanded)
		}
	}
	return paths
}

// Package fsops provides the filesystem seam used by pkgdoc.
//
// Documentation lookup, token persistence and installation all reach the disk
// through the FS interface so that tests can observe or replace every access.
// Writes of small state files go through AtomicWrite (temp file + rename).
package fsops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const temporaryFilePattern = ".pkgdoc-tmp-*"

// FS provides an abstraction for filesystem operations.
type FS interface {
	// Stat returns file info, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// ReadDir lists the entries of a directory.
	ReadDir(path string) ([]os.DirEntry, error)

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// RemoveAll removes a path and all its contents.
	RemoveAll(path string) error

	// CopyFile copies a single regular file, creating parent directories.
	CopyFile(src, dst string) error

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error
}

// OSFS implements FS using actual OS operations.
type OSFS struct{}

// NewOSFS creates a new OSFS.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info, following symlinks.
func (fileSystem *OSFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists the entries of a directory sorted by name.
func (fileSystem *OSFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// ReadFile reads the entire contents of a file.
//
// #nosec G304
func (fileSystem *OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MkdirAll creates a directory and all parent directories.
func (fileSystem *OSFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes a file or empty directory.
func (fileSystem *OSFS) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll removes a path and all its contents.
func (fileSystem *OSFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// CopyFile copies a single regular file from src to dst preserving its mode.
//
// #nosec G304
func (fileSystem *OSFS) CopyFile(src, dst string) error {
	sourceInformation, statError := os.Stat(src)
	if statError != nil {
		return fmt.Errorf("stat source %s: %w", src, statError)
	}
	if sourceInformation.IsDir() {
		return fmt.Errorf("copy source %s is a directory", src)
	}
	sourceFile, openError := os.Open(src)
	if openError != nil {
		return fmt.Errorf("open source %s: %w", src, openError)
	}
	defer func() {
		_ = sourceFile.Close()
	}()

	if mkdirError := os.MkdirAll(filepath.Dir(dst), 0o755); mkdirError != nil {
		return fmt.Errorf("create parent directory for %s: %w", dst, mkdirError)
	}
	destinationFile, createError := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, sourceInformation.Mode().Perm())
	if createError != nil {
		return fmt.Errorf("create destination %s: %w", dst, createError)
	}
	if _, copyError := io.Copy(destinationFile, sourceFile); copyError != nil {
		_ = destinationFile.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, copyError)
	}
	return destinationFile.Close()
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (fileSystem *OSFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	directory := filepath.Dir(path)
	if mkdirError := os.MkdirAll(directory, 0o700); mkdirError != nil {
		return fmt.Errorf("create parent directory %s: %w", directory, mkdirError)
	}

	temporaryFile, createError := os.CreateTemp(directory, temporaryFilePattern)
	if createError != nil {
		return fmt.Errorf("create temp file in %s: %w", directory, createError)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = temporaryFile.Close()
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(data); writeError != nil {
		return fmt.Errorf("write temp file: %w", writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		return fmt.Errorf("sync temp file: %w", syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf("close temp file: %w", closeError)
	}
	if chmodError := os.Chmod(temporaryPath, perm); chmodError != nil {
		return fmt.Errorf("set permissions on %s: %w", temporaryPath, chmodError)
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, renameError)
	}
	committed = true
	return nil
}

// Exists reports whether path exists. Errors other than "not exist" are returned.
func Exists(fileSystem FS, path string) (bool, error) {
	_, statError := fileSystem.Stat(path)
	if statError == nil {
		return true, nil
	}
	if errors.Is(statError, fs.ErrNotExist) {
		return false, nil
	}
	return false, statError
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(fileSystem FS, path string) bool {
	information, statError := fileSystem.Stat(path)
	return statError == nil && information.IsDir()
}

// IsRegularFile reports whether path exists and is not a directory.
func IsRegularFile(fileSystem FS, path string) bool {
	information, statError := fileSystem.Stat(path)
	return statError == nil && !information.IsDir()
}

// WalkFiles calls visit for every non-directory below root with its slash-separated
// path relative to root. Directories are visited in ReadDir order.
func WalkFiles(fileSystem FS, root string, visit func(relativePath string) error) error {
	return walkFiles(fileSystem, root, "", visit)
}

func walkFiles(fileSystem FS, root string, relativeDirectory string, visit func(string) error) error {
	entries, readError := fileSystem.ReadDir(filepath.Join(root, filepath.FromSlash(relativeDirectory)))
	if readError != nil {
		return fmt.Errorf("read directory %s: %w", filepath.Join(root, relativeDirectory), readError)
	}
	for _, entry := range entries {
		relativePath := entry.Name()
		if relativeDirectory != "" {
			relativePath = relativeDirectory + "/" + entry.Name()
		}
		if entry.IsDir() {
			if walkError := walkFiles(fileSystem, root, relativePath, visit); walkError != nil {
				return walkError
			}
			continue
		}
		if visitError := visit(relativePath); visitError != nil {
			return visitError
		}
	}
	return nil
}

var _ FS = (*OSFS)(nil)

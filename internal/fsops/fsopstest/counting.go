// Package fsopstest provides filesystem doubles for tests.
package fsopstest

import (
	"os"
	"sync/atomic"

	"github.com/temirov/pkgdoc/internal/fsops"
)

// CountingFS wraps an FS and counts every call that reaches it.
type CountingFS struct {
	inner  fsops.FS
	calls  atomic.Int64
	writes atomic.Int64
}

// NewCountingFS wraps inner; a nil inner uses the real filesystem.
func NewCountingFS(inner fsops.FS) *CountingFS {
	if inner == nil {
		inner = fsops.NewOSFS()
	}
	return &CountingFS{inner: inner}
}

// Calls returns the number of filesystem calls observed so far.
func (counting *CountingFS) Calls() int64 {
	return counting.calls.Load()
}

// Writes returns the number of calls that could have modified the filesystem.
func (counting *CountingFS) Writes() int64 {
	return counting.writes.Load()
}

func (counting *CountingFS) Stat(path string) (os.FileInfo, error) {
	counting.calls.Add(1)
	return counting.inner.Stat(path)
}

func (counting *CountingFS) ReadDir(path string) ([]os.DirEntry, error) {
	counting.calls.Add(1)
	return counting.inner.ReadDir(path)
}

func (counting *CountingFS) ReadFile(path string) ([]byte, error) {
	counting.calls.Add(1)
	return counting.inner.ReadFile(path)
}

func (counting *CountingFS) MkdirAll(path string, perm os.FileMode) error {
	counting.calls.Add(1)
	counting.writes.Add(1)
	return counting.inner.MkdirAll(path, perm)
}

func (counting *CountingFS) Remove(path string) error {
	counting.calls.Add(1)
	counting.writes.Add(1)
	return counting.inner.Remove(path)
}

func (counting *CountingFS) RemoveAll(path string) error {
	counting.calls.Add(1)
	counting.writes.Add(1)
	return counting.inner.RemoveAll(path)
}

func (counting *CountingFS) CopyFile(src, dst string) error {
	counting.calls.Add(1)
	counting.writes.Add(1)
	return counting.inner.CopyFile(src, dst)
}

func (counting *CountingFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	counting.calls.Add(1)
	counting.writes.Add(1)
	return counting.inner.AtomicWrite(path, data, perm)
}

var _ fsops.FS = (*CountingFS)(nil)

// Package testutil provides test helpers and fixtures for dupescan tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestFixture holds a scratch directory tree for scanner tests
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates a new test fixture rooted in a temp directory
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()

	return &TestFixture{
		T:       t,
		RootDir: t.TempDir(),
	}
}

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFileWithAge creates a file and sets its modification time to the past
func (f *TestFixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	oldTime := time.Now().Add(-age)

	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateRandomFile creates a file of the given size filled with random bytes
func (f *TestFixture) CreateRandomFile(relPath string, size int) string {
	f.T.Helper()

	content := make([]byte, size)
	if _, err := rand.Read(content); err != nil {
		f.T.Fatalf("failed to generate random content: %v", err)
	}

	return f.CreateFile(relPath, content)
}

// CreateSymlink creates a symbolic link and returns its path; the test is
// skipped on platforms that do not support symlinks
func (f *TestFixture) CreateSymlink(target, relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.Symlink(target, fullPath); err != nil {
		f.T.Skipf("symlinks not supported: %v", err)
	}

	return fullPath
}

// CreateHardLink creates a hard link to an existing file; the test is
// skipped if the filesystem refuses
func (f *TestFixture) CreateHardLink(target, relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.Link(target, fullPath); err != nil {
		f.T.Skipf("hard links not supported: %v", err)
	}

	return fullPath
}

// Path returns the absolute path for a fixture-relative path
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// Repeat returns a byte slice of the pattern repeated until it reaches size
func Repeat(pattern byte, size int) []byte {
	content := make([]byte, size)
	for i := range content {
		content[i] = pattern
	}
	return content
}

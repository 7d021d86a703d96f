package testing

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// FileAssertions provides utilities for asserting file system state in tests.
// Paths are slash separated and relative to the base directory.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// AssertFileExists validates that a regular file exists.
func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	info, err := os.Stat(fa.path(rel))
	switch {
	case err != nil:
		fa.t.Errorf("Expected file to exist: %s (%v)", rel, err)
	case info.IsDir():
		fa.t.Errorf("Expected %s to be a file, but it's a directory", rel)
	}
	return fa
}

// AssertFileNotExists validates that nothing exists at rel.
func (fa *FileAssertions) AssertFileNotExists(rel string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(rel)); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", rel)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content.
func (fa *FileAssertions) AssertFileContains(rel, expected string) *FileAssertions {
	fa.t.Helper()
	content := fa.Read(rel)
	if !strings.Contains(content, expected) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", rel, expected, content)
	}
	return fa
}

// Read returns the content of a file, failing the test when it is missing.
func (fa *FileAssertions) Read(rel string) string {
	fa.t.Helper()
	// #nosec G304 -- test helper reading generated output.
	content, err := os.ReadFile(fa.path(rel))
	if err != nil {
		fa.t.Fatalf("Failed to read file %s: %v", rel, err)
	}
	return string(content)
}

// Tree returns every file below the base directory mapped to its content.
// A missing base directory yields an empty map.
func (fa *FileAssertions) Tree() map[string]string {
	fa.t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(fa.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(fa.baseDir, p)
		if err != nil {
			return err
		}
		// #nosec G304 -- test helper reading generated output.
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		fa.t.Fatalf("Failed to walk %s: %v", fa.baseDir, err)
	}
	return tree
}

// ListFiles returns the sorted relative paths of every file below the base directory.
func (fa *FileAssertions) ListFiles() []string {
	fa.t.Helper()
	tree := fa.Tree()
	files := make([]string, 0, len(tree))
	for p := range tree {
		files = append(files, p)
	}
	sort.Strings(files)
	return files
}

package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// Project is a temporary site project with a content directory.
type Project struct {
	t    *testing.T
	Root string
	cfg  *config.Config
}

// Post describes a content document written by WritePost.
type Post struct {
	File        string // file name inside the content directory; defaults to <Slug>.mdx
	Title       string
	Slug        string
	Description string
	Tags        []string
	CreatedAt   string
	Body        string
}

// NewProject creates an empty project using the default configuration.
func NewProject(t *testing.T) *Project {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.ProjectRoot = root
	p := &Project{t: t, Root: root, cfg: cfg}
	if err := os.MkdirAll(p.ContentDir(), testDirPermissions); err != nil {
		t.Fatalf("create content directory: %v", err)
	}
	return p
}

// Config returns the project configuration. Callers may modify it.
func (p *Project) Config() *config.Config { return p.cfg }

// ContentDir is the absolute content directory.
func (p *Project) ContentDir() string { return p.cfg.ContentDir() }

// OutputDir is the absolute output directory.
func (p *Project) OutputDir() string { return filepath.Join(p.Root, p.cfg.Output.Directory) }

// WriteFile writes a file relative to the project root.
func (p *Project) WriteFile(rel, content string) string {
	p.t.Helper()
	full := filepath.Join(p.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), testDirPermissions); err != nil {
		p.t.Fatalf("create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), testFilePermissions); err != nil {
		p.t.Fatalf("write %s: %v", rel, err)
	}
	return full
}

// WritePost writes a content document with front matter built from post.
// Empty metadata fields are filled with placeholders.
func (p *Project) WritePost(post Post) string {
	p.t.Helper()
	if post.File == "" {
		post.File = post.Slug + p.cfg.Content.Extension
	}
	if post.Title == "" {
		post.Title = post.Slug
	}
	if post.Description == "" {
		post.Description = "About " + post.Title
	}
	if post.CreatedAt == "" {
		post.CreatedAt = "2020-01-01"
	}
	tags := "[]"
	if len(post.Tags) > 0 {
		tags = "[" + strings.Join(post.Tags, ", ") + "]"
	}
	content := fmt.Sprintf("---\ntitle: %q\nslug: %q\ndescription: %q\ntags: %s\ncreatedAt: %s\n---\n%s",
		post.Title, post.Slug, post.Description, tags, post.CreatedAt, post.Body)
	return p.WriteFile(filepath.ToSlash(filepath.Join(p.cfg.Content.Directory, post.File)), content)
}

// Output returns assertions rooted at the output directory.
func (p *Project) Output() *FileAssertions {
	return NewFileAssertions(p.t, p.OutputDir())
}

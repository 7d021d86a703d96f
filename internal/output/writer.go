// Package output writes the generated file tree. Every path is checked to
// resolve inside the output root before anything touches the disk.
package output

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// File is one generated artifact. Path is relative to the output root.
type File struct {
	Path    string
	Content string
}

// Writer writes Files below a single output root inside the project root.
type Writer struct {
	projectRoot string
	rootName    string
	clean       bool
	recorder    metrics.Recorder
	logger      *slog.Logger
	written     int
}

// Option configures a Writer.
type Option func(*Writer)

// WithRecorder observes every written file.
func WithRecorder(r metrics.Recorder) Option {
	return func(w *Writer) {
		if r != nil {
			w.recorder = r
		}
	}
}

// WithLogger sets the logger used for per-file debug output.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithClean makes Write empty the output root before writing.
func WithClean(clean bool) Option {
	return func(w *Writer) { w.clean = clean }
}

// NewWriter returns a writer for outputDir, which is resolved against
// projectRoot and must name a directory strictly inside it.
func NewWriter(projectRoot, outputDir string, opts ...Option) (*Writer, error) {
	absProject, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, errors.ConfigInvalid("project_root", err.Error())
	}
	out := outputDir
	if !filepath.IsAbs(out) {
		out = filepath.Join(absProject, out)
	}
	rel, err := filepath.Rel(absProject, filepath.Clean(out))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, errors.ConfigInvalid("output.directory", "must be a directory inside the project root: "+outputDir)
	}

	w := &Writer{
		projectRoot: absProject,
		rootName:    rel,
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Root returns the absolute output root.
func (w *Writer) Root() string { return filepath.Join(w.projectRoot, w.rootName) }

// RootName returns the output root relative to the project root.
func (w *Writer) RootName() string { return w.rootName }

// Written reports how many files the last Write call wrote.
func (w *Writer) Written() int { return w.written }

// Resolve returns the absolute target of a logical output path, or a path
// safety error when it does not resolve below the output root.
func (w *Writer) Resolve(path string) (string, error) {
	target := filepath.Join(w.projectRoot, w.rootName, path)
	rel, err := filepath.Rel(w.projectRoot, target)
	if err != nil || !w.contains(rel) {
		return "", errors.PathEscapes(path, w.rootName)
	}
	return target, nil
}

// contains reports whether rel starts with every segment of the output root
// name and names something below it.
func (w *Writer) contains(rel string) bool {
	root := strings.Split(w.rootName, string(filepath.Separator))
	segments := strings.Split(rel, string(filepath.Separator))
	if len(segments) <= len(root) {
		return false
	}
	for i := range root {
		if segments[i] != root[i] {
			return false
		}
	}
	return true
}

// Clean removes and recreates the output root.
func (w *Writer) Clean() error {
	root := w.Root()
	if err := os.RemoveAll(root); err != nil {
		return errors.IOFailed("clean output directory", root, err)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return errors.IOFailed("create output directory", root, err)
	}
	return nil
}

// Write writes files one at a time, in order, overwriting existing files.
// All paths are resolved first; one escaping path fails the call before
// anything is written.
func (w *Writer) Write(ctx context.Context, files []File) error {
	w.written = 0
	targets := make([]string, len(files))
	for i, f := range files {
		target, err := w.Resolve(f.Path)
		if err != nil {
			return err
		}
		targets[i] = target
	}

	if w.clean {
		if err := w.Clean(); err != nil {
			return err
		}
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := targets[i]
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return errors.IOFailed("create directory", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0o644); err != nil { //nolint:gosec // public site output
			return errors.IOFailed("write file", target, err)
		}
		w.written++
		w.recorder.ObserveFileWritten(len(f.Content))
		w.logger.Debug("Wrote output file", logfields.Path(f.Path), logfields.Bytes(len(f.Content)))
	}
	return nil
}

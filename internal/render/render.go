// Package render produces the output files of documents and static pages:
// the server-rendered HTML page plus the sources needed to hydrate it.
package render

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/compiler"
	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/templates"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

// Fixed file names and paths referenced from generated pages.
const (
	RenderedOutputFile = "renderedOutput.txt"
	CompiledSourceFile = "compiledSource.txt"
	PostIndexFile      = "index.html"
	postRootPath       = "../../"
	pageRootPath       = "./"
	prismScript        = "prism.js"
	pagesSourceDir     = "../src/pages/"
)

// Renderer turns documents and static pages into output files. It holds no
// per-render state and never mutates the SiteData it is given.
type Renderer struct {
	siteName  string
	templates *templates.Set
	registry  *components.Registry
	compiler  compiler.Compiler
}

// New returns a Renderer. siteName is appended to every page title.
func New(siteName string, set *templates.Set, registry *components.Registry, c compiler.Compiler) *Renderer {
	return &Renderer{siteName: siteName, templates: set, registry: registry, compiler: c}
}

// PostDir is the output directory of the document with the given slug.
func PostDir(slug string) string { return "posts/" + slug + "/" }

// RenderDocument compiles doc and returns, in order, its rendered output,
// compiled source, post module, hydration entry and HTML page.
func (r *Renderer) RenderDocument(ctx context.Context, doc site.Document) ([]output.File, error) {
	meta := doc.Metadata
	res, err := r.compiler.Compile(ctx, doc.Body, r.registry)
	if err != nil {
		return nil, errors.CompileFailed(meta.Slug, err).WithContext("source", doc.SourcePath)
	}

	shell, ok := r.registry.Lookup(components.NamePost)
	if !ok {
		return nil, errors.CompileFailed(meta.Slug, fmt.Errorf("component %s is not registered", components.NamePost))
	}
	content, err := shell.Render(components.Props{
		"slug":        meta.Slug,
		"title":       meta.Title,
		"description": meta.Description,
		"createdAt":   meta.CreatedAt.Format("2006-01-02"),
		"tags":        strings.Join(meta.Tags, ","),
	}, res.RenderedOutput)
	if err != nil {
		return nil, errors.CompileFailed(meta.Slug, fmt.Errorf("component %s: %w", components.NamePost, err))
	}

	dir := PostDir(meta.Slug)
	postModule := meta.Slug + "-post"

	page := r.templates.Execute(templates.PageHTML, map[string]string{
		"title":              html.EscapeString(r.title(meta.Title)),
		"description":        html.EscapeString(meta.Description),
		"keywords":           html.EscapeString(strings.Join(meta.Tags, ",")),
		"htmlContent":        content,
		"relativePathToRoot": postRootPath,
		"hydrateScriptPath":  "./" + postModule + "-hydrate.js",
		"headAfterAll":       `<link rel="stylesheet" href="` + postRootPath + theme.StylesheetPath + `" />`,
		"bodyBeforeHydrate":  `<script src="` + postRootPath + prismScript + `"></script>`,
	})
	module := r.templates.Execute(templates.Post, map[string]string{
		"renderedOutputPath": "./" + RenderedOutputFile,
		"compiledSourcePath": "./" + CompiledSourceFile,
		"sourceVersion":      strconv.Itoa(compiler.SourceVersion),
	})
	hydrate := r.templates.Execute(templates.PageHydrate, map[string]string{
		"pageImportPath":     "./" + postModule,
		"relativePathToRoot": postRootPath,
	})

	return []output.File{
		{Path: dir + RenderedOutputFile, Content: res.RenderedOutput},
		{Path: dir + CompiledSourceFile, Content: res.CompiledSource},
		{Path: dir + postModule + ".tsx", Content: module},
		{Path: dir + postModule + "-hydrate.tsx", Content: hydrate},
		{Path: dir + PostIndexFile, Content: page},
	}, nil
}

// RenderPage renders a static page against data and returns its HTML page
// and hydration entry.
func (r *Renderer) RenderPage(ctx context.Context, page site.StaticPage, data *site.SiteData) ([]output.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page.Component == nil {
		return nil, errors.CompileFailed(page.Name, fmt.Errorf("page has no component"))
	}
	content, err := page.Component.Render(data)
	if err != nil {
		return nil, errors.CompileFailed(page.Name, err)
	}

	stem := page.FileStem()
	doc := r.templates.Execute(templates.PageHTML, map[string]string{
		"title":              html.EscapeString(r.title(page.Title)),
		"description":        html.EscapeString(page.Description),
		"keywords":           html.EscapeString(strings.Join(page.Tags, ", ")),
		"htmlContent":        content,
		"relativePathToRoot": pageRootPath,
		"hydrateScriptPath":  "./" + stem + "-hydrate.js",
		"headAfterAll":       "",
		"bodyBeforeHydrate":  "",
	})
	hydrate := r.templates.Execute(templates.PageHydrate, map[string]string{
		"pageImportPath":     pagesSourceDir + stem,
		"relativePathToRoot": pageRootPath,
	})

	return []output.File{
		{Path: stem + ".html", Content: doc},
		{Path: stem + "-hydrate.tsx", Content: hydrate},
	}, nil
}

func (r *Renderer) title(t string) string { return t + " - " + r.siteName }

package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/siteindex"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageDiscover        StageName = "discover"
	StageParse           StageName = "parse"
	StageIndex           StageName = "index"
	StageRenderPages     StageName = "render_pages"
	StageRenderDocuments StageName = "render_documents"
	StageManifest        StageName = "manifest"
	StageAssets          StageName = "assets"
	StageWrite           StageName = "write"
)

// ManifestPath is the output path of the serialized SiteData.
const ManifestPath = "site-data.json"

// Stage is one step of a build.
type Stage func(ctx context.Context, bs *buildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

func (p *Pipeline) stages() []StageDef {
	return []StageDef{
		{StageDiscover, p.stageDiscover},
		{StageParse, p.stageParse},
		{StageIndex, p.stageIndex},
		{StageRenderPages, p.stageRenderPages},
		{StageRenderDocuments, p.stageRenderDocuments},
		{StageManifest, p.stageManifest},
		{StageAssets, p.stageAssets},
		{StageWrite, p.stageWrite},
	}
}

// stageDiscover lists content files directly inside the content directory,
// sorted by name. Hidden files are skipped.
func (p *Pipeline) stageDiscover(_ context.Context, bs *buildState) error {
	dir := p.cfg.ContentDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.IOFailed("content directory does not exist", dir, err)
		}
		return errors.IOFailed("read content directory", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !strings.HasSuffix(e.Name(), p.cfg.Content.Extension) {
			continue
		}
		bs.sources = append(bs.sources, filepath.ToSlash(filepath.Join(p.cfg.Content.Directory, e.Name())))
	}
	bs.logger.Info("Discovered content documents", logfields.Files(len(bs.sources)))
	return nil
}

func (p *Pipeline) stageParse(ctx context.Context, bs *buildState) error {
	docs, err := MapSeries(ctx, bs.sources, func(_ context.Context, source string) (site.Document, error) {
		path := filepath.Join(p.cfg.ProjectRoot, filepath.FromSlash(source))
		// #nosec G304 -- path is a discovered entry of the content directory.
		raw, err := os.ReadFile(path)
		if err != nil {
			return site.Document{}, errors.IOFailed("read document", path, err)
		}
		doc, err := frontmatter.ParseDocument(source, raw)
		if err != nil {
			return site.Document{}, err
		}
		bs.logger.Debug("Parsed document", logfields.Source(source), logfields.Slug(doc.Metadata.Slug), logfields.Fingerprint(doc.Fingerprint))
		return doc, nil
	})
	if err != nil {
		return err
	}
	bs.docs = docs
	bs.report.Documents = len(docs)
	return nil
}

func (p *Pipeline) stageIndex(_ context.Context, bs *buildState) error {
	if err := siteindex.ValidateSlugs(bs.docs); err != nil {
		return err
	}
	data := siteindex.Build(bs.docs, p.pages)
	bs.siteData = &data
	return nil
}

func (p *Pipeline) stageRenderPages(ctx context.Context, bs *buildState) error {
	rendered, err := MapSeries(ctx, p.pages, func(ctx context.Context, page site.StaticPage) ([]output.File, error) {
		files, err := p.renderer.RenderPage(ctx, page, bs.siteData)
		if err != nil {
			return nil, err
		}
		bs.logger.Debug("Rendered page", logfields.Page(page.Name), logfields.Files(len(files)))
		return files, nil
	})
	if err != nil {
		return err
	}
	bs.pageFiles = flatten(rendered)
	bs.report.Pages = len(rendered)
	return nil
}

func (p *Pipeline) stageRenderDocuments(ctx context.Context, bs *buildState) error {
	rendered, err := MapSeries(ctx, bs.docs, func(ctx context.Context, doc site.Document) ([]output.File, error) {
		files, err := p.renderer.RenderDocument(ctx, doc)
		if err != nil {
			return nil, err
		}
		p.recorder.IncDocumentsRendered()
		bs.logger.Debug("Rendered document", logfields.Slug(doc.Metadata.Slug), logfields.Files(len(files)))
		return files, nil
	})
	if err != nil {
		return err
	}
	bs.docFiles = flatten(rendered)
	return nil
}

func (p *Pipeline) stageManifest(_ context.Context, bs *buildState) error {
	data, err := json.MarshalIndent(bs.siteData, "", "  ")
	if err != nil {
		return errors.InternalError("encode site data", err)
	}
	bs.manifest = output.File{Path: ManifestPath, Content: string(data)}
	return nil
}

func (p *Pipeline) stageAssets(_ context.Context, bs *buildState) error {
	bs.assets = []output.File{{Path: theme.StylesheetPath, Content: theme.Stylesheet(p.theme)}}
	return nil
}

// stageWrite hands every file to the writer: pages, documents, manifest and
// assets, in that order.
func (p *Pipeline) stageWrite(ctx context.Context, bs *buildState) error {
	files := make([]output.File, 0, len(bs.pageFiles)+len(bs.docFiles)+1+len(bs.assets))
	files = append(files, bs.pageFiles...)
	files = append(files, bs.docFiles...)
	files = append(files, bs.manifest)
	files = append(files, bs.assets...)

	err := p.writer.Write(ctx, files)
	bs.report.FilesWritten = p.writer.Written()
	if err != nil {
		return err
	}
	bs.logger.Info("Wrote output tree", logfields.Path(p.writer.Root()), logfields.Files(p.writer.Written()))
	return nil
}

func flatten(groups [][]output.File) []output.File {
	var out []output.File
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

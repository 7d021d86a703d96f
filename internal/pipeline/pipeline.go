// Package pipeline runs a complete site build: discover and parse content,
// build the site index, render pages and documents, then write the output
// tree. Every step is sequential and the first failure aborts the build
// before anything is written.
package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/compiler"
	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/pages"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/templates"
	"git.home.luguber.info/inful/sitebuilder/internal/theme"
)

// Deps are the collaborators of a Pipeline. Zero fields get defaults.
type Deps struct {
	Logger    *slog.Logger
	Recorder  metrics.Recorder
	Registry  *components.Registry
	Compiler  compiler.Compiler
	Templates *templates.Set
	Pages     []site.StaticPage
	Theme     theme.Table
	// NewBuildID returns the id of the next build.
	NewBuildID func() string
}

// Pipeline builds one site. It may be run repeatedly; every run regenerates
// the whole output tree.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	renderer *render.Renderer
	writer   *output.Writer
	pages    []site.StaticPage
	theme    theme.Table
	newID    func() string
}

// buildState carries the intermediate results of one run between stages.
type buildState struct {
	logger    *slog.Logger
	report    *Report
	sources   []string
	docs      []site.Document
	siteData  *site.SiteData
	pageFiles []output.File
	docFiles  []output.File
	manifest  output.File
	assets    []output.File
}

// New validates cfg and wires a Pipeline.
func New(cfg *config.Config, deps Deps) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	if deps.Registry == nil {
		deps.Registry = components.Default()
	}
	if deps.Compiler == nil {
		deps.Compiler = compiler.New()
	}
	if deps.Templates == nil {
		set, err := templates.LoadSet(cfg.Templates.Directory)
		if err != nil {
			return nil, err
		}
		deps.Templates = set
	}
	for _, name := range templates.Names {
		if info := deps.Templates.Info(name); info.Source == "file" {
			deps.Logger.Debug("Using template override", logfields.Path(info.Path))
		}
	}
	if deps.Pages == nil {
		ps, err := pages.Registry(deps.Registry)
		if err != nil {
			return nil, errors.InternalError("build page registry", err)
		}
		deps.Pages = ps
	}
	if deps.Theme == nil {
		deps.Theme = theme.Default()
	}
	if deps.NewBuildID == nil {
		deps.NewBuildID = uuid.NewString
	}

	writer, err := output.NewWriter(cfg.ProjectRoot, cfg.Output.Directory,
		output.WithClean(cfg.Output.Clean),
		output.WithRecorder(deps.Recorder),
		output.WithLogger(deps.Logger))
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:      cfg,
		logger:   deps.Logger,
		recorder: deps.Recorder,
		renderer: render.New(cfg.SiteName, deps.Templates, deps.Registry, deps.Compiler),
		writer:   writer,
		pages:    deps.Pages,
		theme:    deps.Theme,
		newID:    deps.NewBuildID,
	}, nil
}

// Run executes one build. The returned report is never nil; its Outcome
// reflects err.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := newReport(p.newID())
	logger := p.logger.With(logfields.BuildID(report.BuildID))
	obs := observers{logObserver{logger: logger}, recorderObserver{rec: p.recorder}}
	bs := &buildState{logger: logger, report: report}

	logger.Info("Build started", logfields.Path(p.cfg.ContentDir()))
	err := runStages(ctx, bs, p.stages(), obs)
	report.finish(err)
	obs.OnBuildComplete(report)
	return report, err
}

// runStages executes stages in order, recording timing and stopping on the
// first error.
func runStages(ctx context.Context, bs *buildState, stages []StageDef, obs BuildObserver) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			ce := errors.Canceled(string(st.Name), err)
			bs.report.recordStage(st.Name, 0, metrics.ResultCanceled)
			obs.OnStageComplete(st.Name, 0, metrics.ResultCanceled, ce)
			return ce
		}

		obs.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultFatal
			if ctx.Err() != nil || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				result = metrics.ResultCanceled
				if !errors.IsCategory(err, errors.CategoryCanceled) {
					err = errors.Canceled(string(st.Name), err)
				}
			}
		}
		bs.report.recordStage(st.Name, dur, result)
		obs.OnStageComplete(st.Name, dur, result, err)
		if err != nil {
			return err
		}
	}
	return nil
}

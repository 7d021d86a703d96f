package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Root   string `short:"r" help:"Project root (overrides project_root)"`
	Output string `short:"o" help:"Output directory relative to the project root (overrides output.directory)"`
}

func (b *BuildCmd) Run(ctx context.Context, root *CLI) error {
	loaded, err := config.LoadEnvFiles(filepath.Dir(root.Config))
	if err != nil {
		return err
	}
	for _, f := range loaded {
		slog.Debug("Loaded environment file", logfields.Path(f))
	}

	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return err
	}
	if b.Root != "" {
		cfg.ProjectRoot = b.Root
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	return RunBuild(ctx, cfg, root)
}

// RunBuild runs one build with cfg and exports metrics when configured.
func RunBuild(ctx context.Context, cfg *config.Config, root *CLI) error {
	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		prom     *metrics.PrometheusRecorder
	)
	if cfg.Metrics.Textfile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	p, err := pipeline.New(cfg, pipeline.Deps{Logger: slog.Default(), Recorder: recorder})
	if err != nil {
		return err
	}

	report, runErr := p.Run(ctx)
	if prom != nil {
		if err := prom.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Warn("Failed to export metrics", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	_, _ = fmt.Fprintln(root.outWriter(), report.Summary())
	return nil
}

package pipeline

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and build lifecycle.
type BuildObserver interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result metrics.ResultLabel, err error)
	OnBuildComplete(report *Report)
}

// recorderObserver adapts metrics.Recorder into a BuildObserver.
type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnStageStart(StageName) {}

func (r recorderObserver) OnStageComplete(stage StageName, d time.Duration, result metrics.ResultLabel, _ error) {
	r.rec.ObserveStageDuration(string(stage), d)
	r.rec.IncStageResult(string(stage), result)
}

func (r recorderObserver) OnBuildComplete(report *Report) {
	r.rec.ObserveBuildDuration(report.Duration())
	r.rec.IncBuildOutcome(report.Outcome)
}

// logObserver writes stage and build progress to a logger.
type logObserver struct{ logger *slog.Logger }

func (l logObserver) OnStageStart(stage StageName) {
	l.logger.Debug("Stage started", logfields.Stage(string(stage)))
}

func (l logObserver) OnStageComplete(stage StageName, d time.Duration, result metrics.ResultLabel, err error) {
	attrs := []any{logfields.Stage(string(stage)), logfields.DurationMS(float64(d.Microseconds()) / 1000), logfields.Outcome(string(result))}
	if err != nil {
		l.logger.Error("Stage failed", append(attrs, logfields.Error(err))...)
		return
	}
	l.logger.Debug("Stage completed", attrs...)
}

func (l logObserver) OnBuildComplete(report *Report) {
	l.logger.Info("Build finished",
		logfields.Outcome(string(report.Outcome)),
		logfields.Files(report.FilesWritten),
		logfields.DurationMS(float64(report.Duration().Microseconds())/1000),
		slog.Int("documents", report.Documents),
		slog.Int("pages", report.Pages))
}

// observers fans callbacks out in order.
type observers []BuildObserver

func (o observers) OnStageStart(stage StageName) {
	for _, ob := range o {
		ob.OnStageStart(stage)
	}
}

func (o observers) OnStageComplete(stage StageName, d time.Duration, result metrics.ResultLabel, err error) {
	for _, ob := range o {
		ob.OnStageComplete(stage, d, result, err)
	}
}

func (o observers) OnBuildComplete(report *Report) {
	for _, ob := range o {
		ob.OnBuildComplete(report)
	}
}

package pipeline

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Report captures what a single build did.
type Report struct {
	BuildID        string
	Start          time.Time
	End            time.Time
	Stages         []StageName // stages that ran, in order
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]metrics.ResultLabel
	FailedStage    StageName
	Documents      int // documents parsed
	Pages          int // static pages rendered
	FilesWritten   int
	Outcome        metrics.BuildOutcomeLabel
	Err            error
}

func newReport(buildID string) *Report {
	return &Report{
		BuildID:        buildID,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]metrics.ResultLabel),
	}
}

func (r *Report) recordStage(stage StageName, d time.Duration, result metrics.ResultLabel) {
	r.Stages = append(r.Stages, stage)
	r.StageDurations[stage] = d
	r.StageResults[stage] = result
	if result != metrics.ResultSuccess {
		r.FailedStage = stage
	}
}

// finish stamps the end time and derives the outcome from err.
func (r *Report) finish(err error) {
	r.End = time.Now()
	r.Err = err
	switch {
	case err == nil:
		r.Outcome = metrics.BuildOutcomeSuccess
	case r.StageResults[r.FailedStage] == metrics.ResultCanceled:
		r.Outcome = metrics.BuildOutcomeCanceled
	default:
		r.Outcome = metrics.BuildOutcomeFailed
	}
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("build=%s documents=%d pages=%d files=%d stages=%d duration=%s outcome=%s",
		r.BuildID, r.Documents, r.Pages, r.FilesWritten, len(r.Stages), r.Duration().Truncate(time.Millisecond), r.Outcome)
}

package pipeline

import (
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

type countingRecorder struct {
	stages    map[StageName]metrics.ResultLabel
	outcomes  []metrics.BuildOutcomeLabel
	documents int
	files     int
}

func (c *countingRecorder) ObserveStageDuration(string, time.Duration) {}
func (c *countingRecorder) ObserveBuildDuration(time.Duration)         {}
func (c *countingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	c.stages[StageName(stage)] = result
}
func (c *countingRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) {
	c.outcomes = append(c.outcomes, o)
}
func (c *countingRecorder) IncDocumentsRendered()  { c.documents++ }
func (c *countingRecorder) ObserveFileWritten(int) { c.files++ }

package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testRecorder counts calls.
type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[BuildOutcomeLabel]int
	documents      int
	files, bytes   int
}

var _ Recorder = (*testRecorder)(nil)
var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func newTestRecorder() *testRecorder {
	return &testRecorder{stageDurations: map[string]int{}, stageResults: map[string]map[ResultLabel]int{}, buildOutcomes: map[BuildOutcomeLabel]int{}}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveBuildDuration(_ time.Duration) { t.buildDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) { t.buildOutcomes[outcome]++ }
func (t *testRecorder) IncDocumentsRendered()                     { t.documents++ }
func (t *testRecorder) ObserveFileWritten(bytes int)              { t.files++; t.bytes += bytes }

func TestRecorderImplementations(t *testing.T) {
	for _, r := range []Recorder{NoopRecorder{}, newTestRecorder()} {
		r.ObserveStageDuration("write", time.Millisecond)
		r.IncStageResult("write", ResultSuccess)
		r.IncBuildOutcome(BuildOutcomeSuccess)
		r.ObserveFileWritten(3)
	}

	rec := newTestRecorder()
	rec.ObserveFileWritten(3)
	rec.ObserveFileWritten(4)
	rec.IncStageResult("write", ResultFatal)
	require.Equal(t, 2, rec.files)
	require.Equal(t, 7, rec.bytes)
	require.Equal(t, 1, rec.stageResults["write"][ResultFatal])
}

package metrics

import (
	"testing"
	"time"
)

// Compile-time interface checks.
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveFactoryDuration("routes", time.Second)
	r.IncFactoryResult("routes", ResultFailed)
	r.ObservePipelineDuration(time.Second)
	r.IncPipelineOutcome(OutcomeCanceled)
	r.SetModuleCount(SourcePlugin, 3)
	r.IncDuplicateModule("virtual-site-data")
}

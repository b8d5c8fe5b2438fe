package metrics

import "time"

// ResultLabel enumerates factory result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// OutcomeLabel enumerates the final status of a generation pass.
type OutcomeLabel string

const (
	OutcomeSuccess   OutcomeLabel = "success"
	OutcomeFailed    OutcomeLabel = "failed"
	OutcomeDuplicate OutcomeLabel = "duplicate"
	OutcomeCanceled  OutcomeLabel = "canceled"
)

// Module sources used with SetModuleCount.
const (
	SourceInternal = "internal"
	SourcePlugin   = "plugin"
)

// Recorder defines observability hooks for factory runs and whole generation
// passes. Implementations may forward to Prometheus.
type Recorder interface {
	ObserveFactoryDuration(factory string, d time.Duration)
	IncFactoryResult(factory string, result ResultLabel)
	ObservePipelineDuration(d time.Duration)
	IncPipelineOutcome(outcome OutcomeLabel)
	SetModuleCount(source string, n int)
	IncDuplicateModule(id string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFactoryDuration(string, time.Duration) {}
func (NoopRecorder) IncFactoryResult(string, ResultLabel)         {}
func (NoopRecorder) ObservePipelineDuration(time.Duration)        {}
func (NoopRecorder) IncPipelineOutcome(OutcomeLabel)              {}
func (NoopRecorder) SetModuleCount(string, int)                   {}
func (NoopRecorder) IncDuplicateModule(string)                    {}

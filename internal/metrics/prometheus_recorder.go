package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docvm"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	factoryDuration  *prom.HistogramVec
	factoryResults   *prom.CounterVec
	pipelineDuration prom.Histogram
	pipelineOutcome  *prom.CounterVec
	moduleCount      *prom.GaugeVec
	duplicates       *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		factoryDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "factory_duration_seconds",
			Help:      "Duration of individual runtime module factories",
			Buckets:   prom.DefBuckets,
		}, []string{"factory"}),
		factoryResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "factory_results_total",
			Help:      "Factory result counts by outcome",
		}, []string{"factory", "result"}),
		pipelineDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Total duration of a runtime module generation pass",
			Buckets:   prom.DefBuckets,
		}),
		pipelineOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generation_outcomes_total",
			Help:      "Generation passes by final status",
		}, []string{"outcome"}),
		moduleCount: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "runtime_modules",
			Help:      "Number of runtime modules produced by the last pass, by source",
		}, []string{"source"}),
		duplicates: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_modules_total",
			Help:      "Plugin contributions rejected because the identifier was already taken",
		}, []string{"module_id"}),
	}
	reg.MustRegister(pr.factoryDuration, pr.factoryResults, pr.pipelineDuration, pr.pipelineOutcome, pr.moduleCount, pr.duplicates)
	return pr
}

func (p *PrometheusRecorder) ObserveFactoryDuration(factory string, d time.Duration) {
	if p == nil {
		return
	}
	p.factoryDuration.WithLabelValues(factory).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFactoryResult(factory string, result ResultLabel) {
	if p == nil {
		return
	}
	p.factoryResults.WithLabelValues(factory, string(result)).Inc()
}

func (p *PrometheusRecorder) ObservePipelineDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.pipelineDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPipelineOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.pipelineOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetModuleCount(source string, n int) {
	if p == nil {
		return
	}
	p.moduleCount.WithLabelValues(source).Set(float64(n))
}

func (p *PrometheusRecorder) IncDuplicateModule(id string) {
	if p == nil {
		return
	}
	p.duplicates.WithLabelValues(id).Inc()
}

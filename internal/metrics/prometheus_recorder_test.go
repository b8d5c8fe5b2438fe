package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveFactoryDuration("routes", 150*time.Millisecond)
	pr.IncFactoryResult("routes", ResultSuccess)
	pr.IncFactoryResult("routes", ResultSuccess)
	pr.ObservePipelineDuration(500 * time.Millisecond)
	pr.IncPipelineOutcome(OutcomeSuccess)
	pr.SetModuleCount(SourceInternal, 9)
	pr.IncDuplicateModule("virtual-routes")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}
	require.InDelta(t, 2, values["docvm_factory_results_total"], 0)
	require.InDelta(t, 9, values["docvm_runtime_modules"], 0)
	require.InDelta(t, 1, values["docvm_duplicate_modules_total"], 0)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncPipelineOutcome(OutcomeFailed)
		pr.SetModuleCount(SourcePlugin, 1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncPipelineOutcome(OutcomeDuplicate)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `docvm_generation_outcomes_total{outcome="duplicate"} 1`))
}

// Package metrics provides observability hooks for runtime module generation.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	gen := runtimemodule.NewGenerator(factories, runtimemodule.WithRecorder(metrics.NoopRecorder{}))
//
// When Prometheus is configured, swap in a PrometheusRecorder and expose its
// registry with HTTPHandler:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics

// Package metrics provides build metrics for sitebuilder.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks:
//
//	recorder := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.Metrics.Textfile != "" {
//	    recorder = metrics.NewPrometheusRecorder(nil)
//	}
//
// A build is a short-lived process, so PrometheusRecorder values are exported
// with WriteTextfile once the run has finished instead of being scraped.
package metrics

// Package metrics counts garden events and exposes the garden's size as Prometheus
// gauges. Recorder is the seam: NoopRecorder when metrics are off, PrometheusRecorder
// when an exposition endpoint is served.
package metrics

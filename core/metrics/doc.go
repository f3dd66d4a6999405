// Package metrics exposes reconciliation counters to Prometheus.
//
// Metrics.Recorder adapts the registry to reconcile.Recorder; each list view
// gets its own label value. The start command serves Metrics.Handler on
// /metrics through Fiber's net/http adaptor.
package metrics

package metrics

import (
	"net/http"

	"reminders/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a Prometheus registry and the reconciliation collectors.
type Metrics struct {
	registry   *prometheus.Registry
	batches    *prometheus.CounterVec
	operations *prometheus.CounterVec
	faults     *prometheus.CounterVec
	reloads    *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_reconcile_batches_total",
			Help: "Batches and snapshot diffs applied to list views",
		}, []string{"view", "mode"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_reconcile_operations_total",
			Help: "Row and section operations sent to list views",
		}, []string{"view", "kind"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_reconcile_faults_total",
			Help: "Consistency faults between the store and a list view",
		}, []string{"view", "mode"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_reconcile_reloads_total",
			Help: "Full reloads of a list view",
		}, []string{"view", "mode"}),
	}
	m.registry.MustRegister(
		m.batches, m.operations, m.faults, m.reloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Recorder returns a reconcile.Recorder that labels its samples with view.
func (m *Metrics) Recorder(view string) reconcile.Recorder {
	return &recorder{m: m, view: view}
}

type recorder struct {
	m    *Metrics
	view string
}

func (r *recorder) Batch(mode reconcile.Mode) {
	r.m.batches.WithLabelValues(r.view, string(mode)).Inc()
}

func (r *recorder) Operation(kind reconcile.ChangeKind) {
	r.m.operations.WithLabelValues(r.view, string(kind)).Inc()
}

func (r *recorder) Fault(mode reconcile.Mode) {
	r.m.faults.WithLabelValues(r.view, string(mode)).Inc()
}

func (r *recorder) Reload(mode reconcile.Mode) {
	r.m.reloads.WithLabelValues(r.view, string(mode)).Inc()
}

// Package metrics exposes Prometheus metrics for pipeline runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/mlgridgo/internal/nodestore"
)

// Metrics holds all Prometheus metrics of the application. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	nodesTotal            *prometheus.CounterVec
	nodeDuration          *prometheus.HistogramVec
	materializationsTotal *prometheus.CounterVec
	runsTotal             *prometheus.CounterVec
	runDuration           *prometheus.HistogramVec
	registry              *prometheus.Registry
}

// New creates a Metrics instance with its own registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mlgridgo"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.nodesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Total number of settled graph nodes by final status",
		},
		[]string{"status"},
	)

	m.nodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_duration_seconds",
			Help:      "Execution time of graph nodes in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
		[]string{"node"},
	)

	m.materializationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "materializations_total",
			Help:      "Total number of saves and loads by backend",
		},
		[]string{"kind", "direction", "status"},
	)

	m.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of pipeline executions",
		},
		[]string{"status"},
	)

	m.runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of pipeline executions in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"status"},
	)

	m.registry.MustRegister(
		m.nodesTotal,
		m.nodeDuration,
		m.materializationsTotal,
		m.runsTotal,
		m.runDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveNode records a settled node. Skipped nodes add no duration sample.
func (m *Metrics) ObserveNode(id string, status nodestore.Status, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.nodesTotal.WithLabelValues(status.String()).Inc()
	if status != nodestore.StatusSkipped {
		m.nodeDuration.WithLabelValues(id).Observe(elapsed.Seconds())
	}
}

// ObserveMaterialization records one save ("save") or load ("load").
func (m *Metrics) ObserveMaterialization(kind, direction string, err error) {
	if m == nil {
		return
	}
	m.materializationsTotal.WithLabelValues(kind, direction, statusLabel(err)).Inc()
}

// ObserveRun records one pipeline execution.
func (m *Metrics) ObserveRun(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := statusLabel(err)
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry:          m.registry,
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	})
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

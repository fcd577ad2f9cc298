package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IngestMetrics holds the Prometheus collectors exported on /metrics.
type IngestMetrics struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	records  *prometheus.CounterVec
	pruned   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lastRun  *prometheus.GaugeVec
}

// NewIngestMetrics builds a registry with the ingestion collectors plus the
// Go runtime and process collectors.
func NewIngestMetrics() *IngestMetrics {
	m := &IngestMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopsight",
			Subsystem: "ingest",
			Name:      "runs_total",
			Help:      "Ingestion runs by entity kind and status.",
		}, []string{"tenant_id", "kind", "status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopsight",
			Subsystem: "ingest",
			Name:      "records_saved_total",
			Help:      "Remote records upserted.",
		}, []string{"tenant_id", "kind"}),
		pruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopsight",
			Subsystem: "ingest",
			Name:      "records_pruned_total",
			Help:      "Local rows removed because they vanished remotely.",
		}, []string{"tenant_id", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shopsight",
			Subsystem: "ingest",
			Name:      "run_duration_seconds",
			Help:      "Wall time of one ingestion run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"kind"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "shopsight",
			Subsystem: "ingest",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}, []string{"tenant_id", "kind"}),
	}

	m.registry.MustRegister(
		m.runs, m.records, m.pruned, m.duration, m.lastRun,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun records one finished run.
func (m *IngestMetrics) ObserveRun(tenantID, kind, status string, saved int, pruned int64, elapsed time.Duration, finishedAt time.Time) {
	m.runs.WithLabelValues(tenantID, kind, status).Inc()
	if saved > 0 {
		m.records.WithLabelValues(tenantID, kind).Add(float64(saved))
	}
	if pruned > 0 {
		m.pruned.WithLabelValues(tenantID, kind).Add(float64(pruned))
	}
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if status == "SUCCESS" {
		m.lastRun.WithLabelValues(tenantID, kind).Set(float64(finishedAt.Unix()))
	}
}

// Registry exposes the underlying registry.
func (m *IngestMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *IngestMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

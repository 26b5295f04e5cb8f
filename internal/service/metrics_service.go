package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "previsa_console"

// MetricsService owns a private Prometheus registry, so several instances can coexist in tests.
type MetricsService struct {
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	backendTotal    *prometheus.CounterVec
	staleServed     *prometheus.CounterVec
	snapshotReads   *prometheus.CounterVec
	snapshotLatency prometheus.Histogram
	snapshotWrite   prometheus.Histogram
	dbQueryDuration *prometheus.HistogramVec
}

// NewMetricsService registers the console collectors plus the Go runtime and process collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsService{
		handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of console API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Console API requests by route and status.",
		}, []string{"method", "route", "status"}),
		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of calls to the Pre-Visa backend.",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation", "outcome"}),
		backendTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "backend_requests_total",
			Help:      "Calls to the Pre-Visa backend by operation and outcome.",
		}, []string{"operation", "outcome"}),
		staleServed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stale_snapshots_served_total",
			Help:      "Lists answered from the last good snapshot after a backend failure.",
		}, []string{"list"}),
		snapshotReads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "snapshot_reads_total",
			Help:      "Snapshot store reads by result.",
		}, []string{"result"}),
		snapshotLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "snapshot_read_seconds",
			Help:      "Latency of snapshot store reads.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		snapshotWrite: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "snapshot_write_seconds",
			Help:      "Latency of snapshot store writes.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "db_query_duration_seconds",
			Help:      "Duration of audit database work.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, code).Inc()
}

// ObserveBackendCall records one exchange with the backend.
func (m *MetricsService) ObserveBackendCall(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	m.backendDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
	m.backendTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordStaleServed counts a list answered from its snapshot.
func (m *MetricsService) RecordStaleServed(list string) {
	if m == nil {
		return
	}
	m.staleServed.WithLabelValues(list).Inc()
}

// RecordCacheOperation records a snapshot read and whether it hit.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.snapshotLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.snapshotReads.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks snapshot write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.snapshotWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records audit database timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

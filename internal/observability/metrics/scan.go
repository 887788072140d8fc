package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScanMetrics covers the worker side: scan runs, per-file outcomes,
// classifier cache efficiency and remote backend calls. It satisfies the
// classifier's MetricsRecorder interface.
type ScanMetrics struct {
	registry *prometheus.Registry
	service  string

	scanTotal     *prometheus.CounterVec
	scanDuration  *prometheus.HistogramVec
	scanInFlight  prometheus.Gauge
	filesTotal    *prometheus.CounterVec
	cacheOutcomes *prometheus.CounterVec
	backendCalls  *prometheus.CounterVec
}

func NewScanMetrics(service string) *ScanMetrics {
	registry := prometheus.NewRegistry()

	scanTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsight",
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total folder scans by status.",
		},
		[]string{"service", "status"},
	)
	scanDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsight",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Folder scan duration in seconds by status.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	scanInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docsight",
			Subsystem: "scan",
			Name:      "in_flight",
			Help:      "Number of folder scans currently running.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	filesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsight",
			Subsystem: "scan",
			Name:      "files_total",
			Help:      "Total files processed during scans by document status.",
		},
		[]string{"service", "status"},
	)
	cacheOutcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsight",
			Subsystem: "classifier",
			Name:      "cache_outcomes_total",
			Help:      "Classification cache lookups by outcome.",
		},
		[]string{"service", "outcome"},
	)
	backendCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsight",
			Subsystem: "classifier",
			Name:      "backend_calls_total",
			Help:      "Classifier backend calls by outcome.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(scanTotal, scanDuration, scanInFlight, filesTotal, cacheOutcomes, backendCalls)

	return &ScanMetrics{
		registry:      registry,
		service:       service,
		scanTotal:     scanTotal,
		scanDuration:  scanDuration,
		scanInFlight:  scanInFlight,
		filesTotal:    filesTotal,
		cacheOutcomes: cacheOutcomes,
		backendCalls:  backendCalls,
	}
}

func (m *ScanMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ScanMetrics) StartScan() {
	m.scanInFlight.Inc()
}

func (m *ScanMetrics) FinishScan(duration time.Duration, err error) {
	m.scanInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.scanTotal.WithLabelValues(m.service, status).Inc()
	m.scanDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *ScanMetrics) ObserveFile(status string) {
	m.filesTotal.WithLabelValues(m.service, status).Inc()
}

func (m *ScanMetrics) CacheHit() {
	m.cacheOutcomes.WithLabelValues(m.service, "hit").Inc()
}

func (m *ScanMetrics) CacheMiss() {
	m.cacheOutcomes.WithLabelValues(m.service, "miss").Inc()
}

func (m *ScanMetrics) BackendCall(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.backendCalls.WithLabelValues(m.service, outcome).Inc()
}

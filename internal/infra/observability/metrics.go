package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the analysis pipeline.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	Registry *prometheus.Registry

	stageDuration     *prometheus.HistogramVec
	externalErrors    *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	parseWarnings     prometheus.Counter
	analysesTotal     *prometheus.CounterVec
	classifierBatches *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "helios_stage_duration_seconds",
				Help:    "Duration of pipeline stages.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helios_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helios_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helios_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		parseWarnings: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "helios_parse_warnings_total",
				Help: "Total skipped statement lines.",
			},
		),
		analysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helios_analyses_total",
				Help: "Total analyses processed.",
			},
			[]string{"status"},
		),
		classifierBatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helios_classifier_batches_total",
				Help: "Total remote classification batches by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

// RecordStageDuration records the duration of a pipeline stage.
func (m *Metrics) RecordStageDuration(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// AddParseWarnings counts lines the parser skipped.
func (m *Metrics) AddParseWarnings(n int) {
	m.parseWarnings.Add(float64(n))
}

// IncrAnalysis increments the analyses counter with a status label.
func (m *Metrics) IncrAnalysis(status string) {
	m.analysesTotal.WithLabelValues(status).Inc()
}

// IncrClassifierBatch counts one dispatched batch by outcome
// (success, fallback).
func (m *Metrics) IncrClassifierBatch(outcome string) {
	m.classifierBatches.WithLabelValues(outcome).Inc()
}

// Snapshot summarizes pipeline counters for log reporting at shutdown.
type Snapshot struct {
	Analyses         float64
	AnalysisFailures float64
	CacheHitRate     float64
	FallbackBatches  float64
}

// GetSnapshot reads the current counter values.
func (m *Metrics) GetSnapshot() Snapshot {
	hits := getCounterValue(m.cacheHits, "merchant")
	misses := getCounterValue(m.cacheMisses, "merchant")

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return Snapshot{
		Analyses:         getCounterValue(m.analysesTotal, "success") + getCounterValue(m.analysesTotal, "error"),
		AnalysisFailures: getCounterValue(m.analysesTotal, "error"),
		CacheHitRate:     hitRate,
		FallbackBatches:  getCounterValue(m.classifierBatches, "fallback"),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// emission-calculation pipeline.
type Metrics struct {
	RowsProcessed   prometheus.Counter
	RowStatus       *prometheus.CounterVec // label: status
	BatchesTotal    prometheus.Counter
	BatchesInFlight prometheus.Gauge

	BatchSize     prometheus.Histogram
	BatchDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // label: outcome={success,not_found,error}
	GeocodeCache       *prometheus.CounterVec // label: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "co2calc",
			Name:      "rows_processed_total",
			Help:      "Total trip rows run through the pipeline.",
		}),
		RowStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "co2calc",
			Name:      "row_status_total",
			Help:      "Terminal row statuses by name.",
		}, []string{"status"}),
		BatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "co2calc",
			Name:      "batches_total",
			Help:      "Total batches processed to completion.",
		}),
		BatchesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "co2calc",
			Name:      "batches_in_flight",
			Help:      "Batches currently being processed.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "co2calc",
			Name:      "batch_size_rows",
			Help:      "Number of rows per uploaded batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "co2calc",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete batch run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "co2calc",
			Name:      "geocode_requests_total",
			Help:      "OneMap search requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "co2calc",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "co2calc",
			Name:      "geocode_api_duration_seconds",
			Help:      "OneMap search request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.RowsProcessed,
		m.RowStatus,
		m.BatchesTotal,
		m.BatchesInFlight,
		m.BatchSize,
		m.BatchDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsProcessed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "co2calc", Name: "rows_processed_total"}),
		RowStatus:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "co2calc", Name: "row_status_total"}, []string{"status"}),
		BatchesTotal:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "co2calc", Name: "batches_total"}),
		BatchesInFlight:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "co2calc", Name: "batches_in_flight"}),
		BatchSize:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "co2calc", Name: "batch_size_rows"}),
		BatchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "co2calc", Name: "batch_duration_seconds"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "co2calc", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "co2calc", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "co2calc", Name: "geocode_api_duration_seconds"}),
	}
}

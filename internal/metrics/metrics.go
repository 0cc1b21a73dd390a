// Package metrics exposes Prometheus instruments for load computation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/loadboard/internal/model"
)

const namespace = "loadboard"

// Metrics holds the application's collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	parseFailures *prometheus.CounterVec
	loads         *prometheus.GaugeVec
	pendingCubage prometheus.Gauge
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
}

// New registers all collectors, including the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Numeric cells that could not be parsed and were read as zero.",
		}, []string{"column"}),
		loads: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loads",
			Help:      "Loads found in the most recent computation, by status.",
		}, []string{"status"}),
		pendingCubage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_cubage_cubic_meters",
			Help:      "Total cubage of pending loads in the most recent computation.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Load computations, by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_duration_seconds",
			Help:      "Time spent fetching and computing loads.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.parseFailures,
		m.loads,
		m.pendingCubage,
		m.runs,
		m.runDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordParseFailure counts a cell that did not parse as a number.
func (m *Metrics) RecordParseFailure(column, _ string) {
	m.parseFailures.WithLabelValues(column).Inc()
}

// ObserveRun records the outcome of one fetch-and-compute cycle.
func (m *Metrics) ObserveRun(elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}

// SetLoads publishes load counts and the pending cubage total.
func (m *Metrics) SetLoads(pending, completed int, pendingCubage float64) {
	m.loads.WithLabelValues(string(model.StatusPending)).Set(float64(pending))
	m.loads.WithLabelValues(string(model.StatusCompleted)).Set(float64(completed))
	m.pendingCubage.Set(pendingCubage)
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for site class calculations and reports.
type Metrics struct {
	Calculations        *prometheus.CounterVec // labels: site_class={A..E}
	CalculationFailures *prometheus.CounterVec // labels: code
	CalculationDuration prometheus.Histogram
	LayersPerProfile    prometheus.Histogram

	Reports *prometheus.CounterVec // labels: format={xlsx,pdf}
}

func newMetrics() *Metrics {
	return &Metrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siteclass",
			Name:      "calculations_total",
			Help:      "Completed site class calculations by resulting class.",
		}, []string{"site_class"}),
		CalculationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siteclass",
			Name:      "calculation_failures_total",
			Help:      "Rejected or failed calculations by error code.",
		}, []string{"code"}),
		CalculationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "siteclass",
			Name:      "calculation_duration_seconds",
			Help:      "Time spent validating and calculating one profile.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		LayersPerProfile: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "siteclass",
			Name:      "layers_per_profile",
			Help:      "Number of layers consumed before reaching the depth of influence.",
			Buckets:   []float64{1, 2, 3, 5, 8, 12, 20},
		}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siteclass",
			Name:      "reports_total",
			Help:      "Generated reports by format.",
		}, []string{"format"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Calculations,
		m.CalculationFailures,
		m.CalculationDuration,
		m.LayersPerProfile,
		m.Reports,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func (m *Metrics) CalculationDone(siteClass string, layersUsed int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(siteClass).Inc()
	m.LayersPerProfile.Observe(float64(layersUsed))
	m.CalculationDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) CalculationFailed(code string) {
	if m == nil {
		return
	}
	m.CalculationFailures.WithLabelValues(code).Inc()
}

func (m *Metrics) ReportGenerated(format string) {
	if m == nil {
		return
	}
	m.Reports.WithLabelValues(format).Inc()
}

// Package metrics provides the Prometheus collectors of the productivity service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

// ProductivityMetrics counts field events. It satisfies the use cases'
// telemetry port.
type ProductivityMetrics struct {
	jobsImportedTotal   *prometheus.CounterVec
	checkinsTotal       prometheus.Counter
	pausesTotal         *prometheus.CounterVec
	checkoutsTotal      prometheus.Counter
	sessionNetMinutes   prometheus.Histogram
	sessionProductivity prometheus.Histogram
	benchmarkFoldsTotal prometheus.Counter
}

func NewProductivityMetrics(registry prometheus.Registerer) (*ProductivityMetrics, error) {
	m := &ProductivityMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ProductivityMetrics) initMetrics() {
	m.jobsImportedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fpt_jobs_imported_total",
			Help: "Total number of jobs imported from the job source",
		},
		[]string{"branch"},
	)
	m.checkinsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fpt_session_checkins_total",
		Help: "Total number of work sessions opened",
	})
	m.pausesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fpt_session_pauses_total",
			Help: "Total number of pauses opened",
		},
		[]string{"reason"},
	)
	m.checkoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fpt_session_checkouts_total",
		Help: "Total number of work sessions completed",
	})
	// 5 minutes up to ~21 hours.
	m.sessionNetMinutes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fpt_session_net_minutes",
		Help:    "Net working minutes of completed sessions",
		Buckets: prometheus.ExponentialBuckets(5, 2, 9),
	})
	m.sessionProductivity = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fpt_session_productivity_m2_per_hour",
		Help:    "Productivity of completed sessions with a known area",
		Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32, 64},
	})
	m.benchmarkFoldsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fpt_benchmark_folds_total",
		Help: "Total number of samples folded into benchmarks",
	})
}

func (m *ProductivityMetrics) JobImported(branch string) {
	m.jobsImportedTotal.WithLabelValues(branch).Inc()
}

func (m *ProductivityMetrics) SessionCheckedIn() {
	m.checkinsTotal.Inc()
}

func (m *ProductivityMetrics) SessionPaused(reason domain.PauseReason) {
	m.pausesTotal.WithLabelValues(string(reason)).Inc()
}

func (m *ProductivityMetrics) SessionCheckedOut(netMinutes int, productivity *float64) {
	m.checkoutsTotal.Inc()
	m.sessionNetMinutes.Observe(float64(netMinutes))
	if productivity != nil {
		m.sessionProductivity.Observe(*productivity)
	}
}

func (m *ProductivityMetrics) BenchmarkFolded() {
	m.benchmarkFoldsTotal.Inc()
}

func (m *ProductivityMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.jobsImportedTotal.Describe(ch)
	m.checkinsTotal.Describe(ch)
	m.pausesTotal.Describe(ch)
	m.checkoutsTotal.Describe(ch)
	m.sessionNetMinutes.Describe(ch)
	m.sessionProductivity.Describe(ch)
	m.benchmarkFoldsTotal.Describe(ch)
}

func (m *ProductivityMetrics) Collect(ch chan<- prometheus.Metric) {
	m.jobsImportedTotal.Collect(ch)
	m.checkinsTotal.Collect(ch)
	m.pausesTotal.Collect(ch)
	m.checkoutsTotal.Collect(ch)
	m.sessionNetMinutes.Collect(ch)
	m.sessionProductivity.Collect(ch)
	m.benchmarkFoldsTotal.Collect(ch)
}

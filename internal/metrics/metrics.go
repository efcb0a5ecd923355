package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	backtestsTotal    *prometheus.CounterVec
	backtestDuration  prometheus.Histogram
	signalEvaluations *prometheus.CounterVec
	analyticsQueries  *prometheus.CounterVec
	tradesLoaded      prometheus.Gauge
	reportsArchived   *prometheus.CounterVec
	jobsActive        prometheus.Gauge
	watchlistSymbols  prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxlab_backtests_total",
			Help: "Total number of backtests",
		},
		[]string{"status"},
	)
	r.backtestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fxlab_backtest_duration_seconds",
			Help:    "Backtest duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)
	r.signalEvaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxlab_signal_evaluations_total",
			Help: "Total number of signal source evaluations",
		},
		[]string{"source", "status"},
	)
	r.analyticsQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxlab_analytics_queries_total",
			Help: "Total number of analytics queries served",
		},
		[]string{"query"},
	)
	r.tradesLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fxlab_trades_loaded",
			Help: "Number of trades in the analytics snapshot",
		},
	)
	r.reportsArchived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxlab_reports_archived_total",
			Help: "Total number of backtest reports archived",
		},
		[]string{"backend"},
	)
	r.jobsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fxlab_jobs_active",
			Help: "Number of backtest jobs currently tracked",
		},
	)
	r.watchlistSymbols = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fxlab_watchlist_symbols",
			Help: "Number of symbols in watchlist",
		},
	)

	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.signalEvaluations)
	reg.MustRegister(r.analyticsQueries)
	reg.MustRegister(r.tradesLoaded)
	reg.MustRegister(r.reportsArchived)
	reg.MustRegister(r.jobsActive)
	reg.MustRegister(r.watchlistSymbols)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(status string, duration float64) {
	r.backtestsTotal.WithLabelValues(status).Inc()
	r.backtestDuration.Observe(duration)
}

// RecordSignalEvaluation records one signal source evaluation.
func (r *Registry) RecordSignalEvaluation(source, status string) {
	r.signalEvaluations.WithLabelValues(source, status).Inc()
}

// RecordAnalyticsQuery records one analytics query.
func (r *Registry) RecordAnalyticsQuery(query string) {
	r.analyticsQueries.WithLabelValues(query).Inc()
}

// SetTradesLoaded sets the analytics snapshot size.
func (r *Registry) SetTradesLoaded(count int) {
	r.tradesLoaded.Set(float64(count))
}

// RecordReportArchived records one archived report.
func (r *Registry) RecordReportArchived(backend string) {
	r.reportsArchived.WithLabelValues(backend).Inc()
}

// SetJobsActive sets the number of tracked jobs.
func (r *Registry) SetJobsActive(count int) {
	r.jobsActive.Set(float64(count))
}

// SetWatchlistSize sets the watchlist size.
func (r *Registry) SetWatchlistSize(size int) {
	r.watchlistSymbols.Set(float64(size))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

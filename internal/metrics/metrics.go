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
	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	signalsEmitted   *prometheus.CounterVec
	batchesTotal     *prometheus.CounterVec
	batchDuration    prometheus.Histogram
	batchSymbols     *prometheus.CounterVec
	jobsActive       *prometheus.GaugeVec
	resultsStored    prometheus.Gauge
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
	r.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gannwheel_analyses_total",
			Help: "Total number of analyses by engine and outcome",
		},
		[]string{"engine", "status"},
	)
	r.analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gannwheel_analysis_duration_seconds",
			Help:    "Analysis duration in seconds by engine",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)
	r.signalsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gannwheel_signals_emitted_total",
			Help: "Total number of trading signals emitted",
		},
		[]string{"kind"},
	)
	r.batchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gannwheel_batches_total",
			Help: "Total number of batch runs",
		},
		[]string{"status"},
	)
	r.batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gannwheel_batch_duration_seconds",
			Help:    "Batch run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)
	r.batchSymbols = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gannwheel_batch_symbols_total",
			Help: "Total symbols processed in batches by outcome",
		},
		[]string{"outcome"},
	)
	r.jobsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gannwheel_jobs_active",
			Help: "Number of active jobs",
		},
		[]string{"type"},
	)
	r.resultsStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gannwheel_results_stored",
			Help: "Number of results held in the store",
		},
	)

	reg.MustRegister(r.analysesTotal)
	reg.MustRegister(r.analysisDuration)
	reg.MustRegister(r.signalsEmitted)
	reg.MustRegister(r.batchesTotal)
	reg.MustRegister(r.batchDuration)
	reg.MustRegister(r.batchSymbols)
	reg.MustRegister(r.jobsActive)
	reg.MustRegister(r.resultsStored)

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

// RecordAnalysis records one engine run.
func (r *Registry) RecordAnalysis(engine, status string, duration float64) {
	r.analysesTotal.WithLabelValues(engine, status).Inc()
	r.analysisDuration.WithLabelValues(engine).Observe(duration)
}

// RecordSignals records emitted trading signals.
func (r *Registry) RecordSignals(kind string, count int) {
	r.signalsEmitted.WithLabelValues(kind).Add(float64(count))
}

// RecordBatch records a batch run.
func (r *Registry) RecordBatch(status string, succeeded, failed int, duration float64) {
	r.batchesTotal.WithLabelValues(status).Inc()
	r.batchDuration.Observe(duration)
	r.batchSymbols.WithLabelValues("succeeded").Add(float64(succeeded))
	r.batchSymbols.WithLabelValues("failed").Add(float64(failed))
}

// SetJobsActive sets the number of active jobs of a type.
func (r *Registry) SetJobsActive(jobType string, count int) {
	r.jobsActive.WithLabelValues(jobType).Set(float64(count))
}

// SetResultsStored sets the stored-results gauge.
func (r *Registry) SetResultsStored(count int) {
	r.resultsStored.Set(float64(count))
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

package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// generation engines.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	runGenerations       prometheus.Counter
	runsCreated          prometheus.Counter
	runFlightsAssigned   prometheus.Counter
	staffRunGenerations  prometheus.Counter
	staffRunsCreated     prometheus.Counter
	staffFlightsAssigned prometheus.Counter
	staffFlightsSkipped  prometheus.Counter
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total listing cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total listing cache misses",
	})

	runGenerations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "run_generations_total",
		Help: "Total run generation requests completed",
	})

	runsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "runs_created_total",
		Help: "Total runs created across generations",
	})

	runFlightsAssigned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "run_flights_assigned_total",
		Help: "Total flights assigned to runs",
	})

	staffRunGenerations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "staff_run_generations_total",
		Help: "Total staff run generation requests completed",
	})

	staffRunsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "staff_runs_created_total",
		Help: "Total staff runs created across generations",
	})

	staffFlightsAssigned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "staff_run_flights_assigned_total",
		Help: "Total flights assigned to staff shifts",
	})

	staffFlightsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "staff_run_flights_unassigned_total",
		Help: "Total flights left unassigned by staff run generation",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal, cacheHits, cacheMisses,
		runGenerations, runsCreated, runFlightsAssigned,
		staffRunGenerations, staffRunsCreated, staffFlightsAssigned, staffFlightsSkipped,
		goroutines,
	)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		runGenerations:       runGenerations,
		runsCreated:          runsCreated,
		runFlightsAssigned:   runFlightsAssigned,
		staffRunGenerations:  staffRunGenerations,
		staffRunsCreated:     staffRunsCreated,
		staffFlightsAssigned: staffFlightsAssigned,
		staffFlightsSkipped:  staffFlightsSkipped,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records per-request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a listing cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveRunGeneration records the outcome of one run generation pass.
func (m *MetricsService) ObserveRunGeneration(runsCreated, flightsAssigned int) {
	if m == nil {
		return
	}
	m.runGenerations.Inc()
	m.runsCreated.Add(float64(runsCreated))
	m.runFlightsAssigned.Add(float64(flightsAssigned))
}

// ObserveStaffRunGeneration records the outcome of one staff run generation pass.
func (m *MetricsService) ObserveStaffRunGeneration(staffRunsCreated, flightsAssigned, flightsUnassigned int) {
	if m == nil {
		return
	}
	m.staffRunGenerations.Inc()
	m.staffRunsCreated.Add(float64(staffRunsCreated))
	m.staffFlightsAssigned.Add(float64(flightsAssigned))
	m.staffFlightsSkipped.Add(float64(flightsUnassigned))
}

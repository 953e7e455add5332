package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// generation engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	runTotal       *prometheus.CounterVec
	runDuration    prometheus.Observer
	runPlaced      prometheus.Gauge
	runUnassigned  prometheus.Gauge
	runFitness     prometheus.Gauge
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	exportDuration *prometheus.HistogramVec
}

// NewMetricsService registers the core collectors.
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

	runTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_runs_total",
		Help: "Total timetable generation runs",
	}, []string{"strategy", "outcome"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_run_duration_seconds",
		Help:    "Duration of timetable generation runs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	})

	runPlaced := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_run_placed",
		Help: "Lessons placed by the most recent run",
	})

	runUnassigned := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_run_unassigned",
		Help: "Demand periods left unassigned by the most recent run",
	})

	runFitness := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_run_fitness",
		Help: "Fitness score of the most recent run",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	exportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_export_duration_seconds",
		Help:    "Duration of timetable export jobs",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})

	registry.MustRegister(requestDuration, requestTotal, runTotal, runDuration,
		runPlaced, runUnassigned, runFitness, cacheHits, cacheMisses, exportDuration)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		runTotal:        runTotal,
		runDuration:     runDuration,
		runPlaced:       runPlaced,
		runUnassigned:   runUnassigned,
		runFitness:      runFitness,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		exportDuration:  exportDuration,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// RecordRequest observes one HTTP request.
func (s *MetricsService) RecordRequest(method, path, status string, duration time.Duration) {
	if s == nil {
		return
	}
	s.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordRun observes one generation run.
func (s *MetricsService) RecordRun(strategy, outcome string, placed, unassigned int, fitness float64, duration time.Duration) {
	if s == nil {
		return
	}
	s.runTotal.WithLabelValues(strategy, outcome).Inc()
	s.runDuration.Observe(duration.Seconds())
	if outcome == "ok" {
		s.runPlaced.Set(float64(placed))
		s.runUnassigned.Set(float64(unassigned))
		s.runFitness.Set(fitness)
	}
}

// RecordCacheLookup counts a cache hit or miss.
func (s *MetricsService) RecordCacheLookup(hit bool) {
	if s == nil {
		return
	}
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}

// RecordExport observes one export job.
func (s *MetricsService) RecordExport(format string, duration time.Duration) {
	if s == nil {
		return
	}
	s.exportDuration.WithLabelValues(format).Observe(duration.Seconds())
}

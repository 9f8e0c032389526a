package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	selections      *prometheus.CounterVec
	malformedTimes  *prometheus.CounterVec
	imports         *prometheus.CounterVec
}

func New() *Metrics {
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

	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "athan_next_event_total",
		Help: "Next-prayer selections by selected event",
	}, []string{"event"})

	malformedTimes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "athan_malformed_time_total",
		Help: "Schedule fields that could not be read as a time of day",
	}, []string{"field"})

	imports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "athan_timetable_imports_total",
		Help: "Timetable workbook imports by outcome",
	}, []string{"status"})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		selections,
		malformedTimes,
		imports,
		collectors.NewGoCollector(),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		selections:      selections,
		malformedTimes:  malformedTimes,
		imports:         imports,
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

func (m *Metrics) ObserveSelection(event string) {
	if m == nil {
		return
	}
	m.selections.WithLabelValues(event).Inc()
}

func (m *Metrics) ObserveMalformedTime(field string) {
	if m == nil {
		return
	}
	m.malformedTimes.WithLabelValues(field).Inc()
}

func (m *Metrics) ObserveImport(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.imports.WithLabelValues(status).Inc()
}

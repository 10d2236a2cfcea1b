package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the kiosk's prometheus collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	requestCount *prometheus.CounterVec
	requestTime  *prometheus.HistogramVec
	errorCount   *prometheus.CounterVec
	logins       *prometheus.CounterVec
	validations  *prometheus.CounterVec
	revocations  *prometheus.CounterVec
	cleared      *prometheus.CounterVec
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_http_requests_total",
			Help: "HTTP requests served by the kiosk.",
		}, []string{"path", "method", "status"}),
		requestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kiosk_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_http_errors_total",
			Help: "HTTP requests that ended in an error envelope.",
		}, []string{"path", "method", "code"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_login_attempts_total",
			Help: "PIN login attempts by outcome.",
		}, []string{"outcome"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_session_validations_total",
			Help: "Stored-session validations by outcome.",
		}, []string{"outcome"}),
		revocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_session_revocations_total",
			Help: "Best-effort backend revocations by outcome.",
		}, []string{"outcome"}),
		cleared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_sessions_cleared_total",
			Help: "Sessions removed from the kiosk by reason.",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(
		m.requestCount,
		m.requestTime,
		m.errorCount,
		m.logins,
		m.validations,
		m.revocations,
		m.cleared,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestTime.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordValidation(outcome string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordRevocation(outcome string) {
	if m == nil {
		return
	}
	m.revocations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordSessionCleared(reason string) {
	if m == nil {
		return
	}
	m.cleared.WithLabelValues(reason).Inc()
}

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	errors             *prometheus.CounterVec
	signatures         *prometheus.CounterVec
	duplicates         *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	thankYouFallbacks  prometheus.Counter
	visits             *prometheus.CounterVec
	adminActions       *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "petition_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_http_errors_total",
			Help: "Error responses by route, method and error code",
		}, []string{"route", "method", "code"}),
		signatures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_signatures_submitted_total",
			Help: "Signatures persisted, by signer type",
		}, []string{"type"}),
		duplicates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_signatures_duplicate_total",
			Help: "Submissions rejected as duplicates, by signer type",
		}, []string{"type"}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_signatures_invalid_total",
			Help: "Submissions rejected by validation, by signer type",
		}, []string{"type"}),
		thankYouFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "petition_thank_you_fallback_total",
			Help: "Thank-you messages served from the localized template",
		}),
		visits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_visits_logged_total",
			Help: "Visits recorded, by outcome",
		}, []string{"outcome"}),
		adminActions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_admin_actions_total",
			Help: "Admin console mutations, by action",
		}, []string{"action"}),
	}
}

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

func (m *Metrics) SignatureSubmitted(t domain.SignerType) {
	if m == nil {
		return
	}
	m.signatures.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) DuplicateRejected(t domain.SignerType) {
	if m == nil {
		return
	}
	m.duplicates.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) ValidationFailed(t domain.SignerType) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) ThankYouFallback() {
	if m == nil {
		return
	}
	m.thankYouFallbacks.Inc()
}

// VisitLogged records a visit outcome: logged, bot, or failed.
func (m *Metrics) VisitLogged(outcome string) {
	if m == nil {
		return
	}
	m.visits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AdminAction(action string) {
	if m == nil {
		return
	}
	m.adminActions.WithLabelValues(action).Inc()
}

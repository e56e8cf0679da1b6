// Package metrics holds the Prometheus collectors of the session core.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	AuthChecks         *prometheus.CounterVec
	Invalidations      *prometheus.CounterVec
	APIErrors          *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil reg uses a private registry so
// tests and embedded clients never collide on the default one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		AuthChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_auth_checks_total",
				Help: "Auth state checks by result (valid or the invalid reason)",
			},
			[]string{"result"},
		),
		Invalidations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_session_invalidations_total",
				Help: "Forced logouts by reason",
			},
			[]string{"reason"},
		),
		APIErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_api_errors_total",
				Help: "Failed backend calls by status class",
			},
			[]string{"class"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_api_request_duration_seconds",
				Help:    "Backend request latency in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"code", "method"},
		),
	}
}

// StatusClass buckets an HTTP status for the api errors counter. Zero is a
// network failure.
func StatusClass(status int) string {
	switch {
	case status == 0:
		return "network"
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return strconv.Itoa(status)
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "other"
	}
}

// InstrumentTransport records request latency for every backend call.
func (m *Metrics) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperDuration(m.APIRequestDuration, next)
}

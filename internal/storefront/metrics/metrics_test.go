package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/storefront/internal/storefront/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersUseOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Invalidations.WithLabelValues("TOKEN_EXPIRED").Inc()
	m.Invalidations.WithLabelValues("TOKEN_EXPIRED").Inc()
	m.AuthChecks.WithLabelValues("valid").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Invalidations.WithLabelValues("TOKEN_EXPIRED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AuthChecks.WithLabelValues("valid")))

	// A second set on a fresh registry must not panic on duplicate names.
	require.NotPanics(t, func() { metrics.New(nil) })
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{
		0:   "network",
		401: "401",
		403: "403",
		404: "4xx",
		400: "4xx",
		500: "5xx",
		503: "5xx",
		302: "other",
	}
	for status, want := range tests {
		assert.Equal(t, want, metrics.StatusClass(status), "status %d", status)
	}
}

func TestInstrumentTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	client := &http.Client{Transport: m.InstrumentTransport(nil)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	count, err := testutil.GatherAndCount(reg, "storefront_api_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

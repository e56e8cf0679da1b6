package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "10")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "5")
	t.Setenv("RATELIMIT_TEST_BURST", "bogus")

	cfg := httpx.ParseRateLimitFromEnv("TEST", httpx.DefaultLimit)
	require.Equal(t, 10, cfg.RequestsPerWindow)
	require.Equal(t, 5*time.Second, cfg.Window)
	require.Equal(t, httpx.DefaultLimit.Burst, cfg.Burst)
}

func TestRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	config := httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Hour,
		Burst:             2,
	}
	client := &http.Client{Transport: httpx.Chain(nil, httpx.RateLimit(config))}

	t.Run("allows burst", func(t *testing.T) {
		for i := range 2 {
			resp, err := client.Get(srv.URL)
			require.NoError(t, err, "request %d should succeed", i+1)
			_ = resp.Body.Close()
		}
	})

	t.Run("waits beyond burst and honours context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		_, err = client.Do(req)
		require.Error(t, err)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}

	base := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	_, err := httpx.Chain(base, mark("first"), nil, mark("second")).RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second", "base"}, order)
}

package httpx

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines the client-side throttle for backend calls.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// DefaultLimit keeps a single client well under the backend's per-IP limit.
// Override with: RATELIMIT_CLIENT_REQUESTS, RATELIMIT_CLIENT_WINDOW_SEC, RATELIMIT_CLIENT_BURST
var DefaultLimit = RateLimitConfig{
	RequestsPerWindow: 600,
	Window:            time.Minute,
	Burst:             20,
}

// ParseRateLimitFromEnv reads rate limit configuration from environment variables.
// Environment variables follow the pattern: RATELIMIT_{prefix}_{field}
// For example: RATELIMIT_CLIENT_REQUESTS, RATELIMIT_CLIENT_WINDOW_SEC, RATELIMIT_CLIENT_BURST
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
		}
	}

	return config
}

// Limit converts the config into a token bucket rate.
func (c RateLimitConfig) Limit() rate.Limit {
	if c.RequestsPerWindow <= 0 || c.Window <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds())
}

// RateLimit blocks each outgoing request until the shared limiter allows it.
// Waiting honours the request context, a cancelled request fails without
// being sent.
func RateLimit(config RateLimitConfig) Middleware {
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(config.Limit(), burst)

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
			return next.RoundTrip(req)
		})
	}
}

package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/idx"
)

// Transport logs outbound requests and tags them with an X-Request-ID so a
// failing call can be matched with the backend's logs. The id comes from the
// request header, then the context (WithRequestID), then a fresh ULID. A
// logger stored in the context wins over Logger.
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, logger *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{Base: base, Logger: logger}
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	reqID := r.Header.Get("X-Request-ID")
	if reqID == "" {
		if id, ok := RequestID(r.Context()); ok {
			reqID = id
		} else {
			reqID = idx.New().String()
		}
		r = r.Clone(r.Context())
		r.Header.Set("X-Request-ID", reqID)
	}

	logger := FromContext(r.Context(), t.Logger).With(
		"method", r.Method,
		"path", r.URL.Path,
	)
	if _, ok := RequestID(r.Context()); !ok {
		logger = logger.With("req_id", reqID)
	}

	resp, err := t.Base.RoundTrip(r)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		logger.Warn("http_request_failed", "error", err, "duration_ms", duration)
		return nil, err
	}

	logger.Debug("http_request",
		"status", resp.StatusCode,
		"duration_ms", duration,
	)
	return resp, nil
}

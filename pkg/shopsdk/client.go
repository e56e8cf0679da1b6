package shopsdk

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token attached to authenticated calls. It
// returns ErrNoToken when there is no session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ErrorInterceptor sees every failed call before it is returned. It reports
// whether it fully handled the failure (for example by ending the session).
type ErrorInterceptor interface {
	Intercept(ctx context.Context, err error) bool
}

// Client talks to the storefront backend REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger

	// Tokens is consulted on every authenticated request. Requests go out
	// without Authorization when nil.
	Tokens TokenSource

	// Interceptor is optional.
	Interceptor ErrorInterceptor

	// OAuth is used by the OAuth2 redirect helpers.
	OAuth OAuthConfig
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Transport middlewares passed with
// WithMiddleware are applied on top of its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTPClient.Timeout = d }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.Tokens = ts }
}

func WithInterceptor(i ErrorInterceptor) Option {
	return func(c *Client) { c.Interceptor = i }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

func WithOAuth(cfg OAuthConfig) Option {
	return func(c *Client) { c.OAuth = cfg }
}

// WithMiddleware wraps the client's transport. The first middleware sees the
// request first.
func WithMiddleware(mws ...httpx.Middleware) Option {
	return func(c *Client) {
		c.HTTPClient.Transport = httpx.Chain(c.HTTPClient.Transport, mws...)
	}
}

// NewClient creates a backend client. Outbound requests are logged through
// slogx.Transport.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.HTTPClient.Transport = slogx.NewTransport(c.HTTPClient.Transport, c.Logger)
	return c
}

package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/metrics"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/internal/storefront/testutil"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInterceptDecisions(t *testing.T) {
	messages := domain.Messages("en")

	tests := []struct {
		name        string
		err         error
		handled     bool
		invalidated []string
		notice      string
	}{
		{
			name:        "401 token expired",
			err:         &shopsdk.APIError{StatusCode: 401, Message: "Token expired", Authenticated: true},
			handled:     true,
			invalidated: []string{string(domain.AuthErrTokenExpired)},
		},
		{
			name:        "401 structured invalid token code",
			err:         &shopsdk.APIError{StatusCode: 401, Code: "TOKEN_INVALID", Authenticated: true},
			handled:     true,
			invalidated: []string{string(domain.AuthErrInvalidToken)},
		},
		{
			name:        "401 without detail",
			err:         &shopsdk.APIError{StatusCode: 401, Message: "Unauthorized", Authenticated: true},
			handled:     true,
			invalidated: []string{string(domain.AuthErrUnauthorized)},
		},
		{
			name:    "401 on a request without a session",
			err:     &shopsdk.APIError{StatusCode: 401, Message: "Bad credentials"},
			handled: false,
			notice:  "Bad credentials",
		},
		{
			name:        "403 banned",
			err:         &shopsdk.APIError{StatusCode: 403, Message: "Account has been banned", Authenticated: true},
			handled:     true,
			invalidated: []string{string(domain.AuthErrAccountBanned)},
		},
		{
			name:        "403 inactive",
			err:         &shopsdk.APIError{StatusCode: 403, Code: "ACCOUNT_INACTIVE", Authenticated: true},
			handled:     true,
			invalidated: []string{string(domain.AuthErrAccountInactive)},
		},
		{
			name:    "403 insufficient permissions",
			err:     &shopsdk.APIError{StatusCode: 403, Message: "Insufficient permissions", Authenticated: true},
			handled: true,
			notice:  messages.PermissionDenied,
		},
		{
			name:    "404",
			err:     &shopsdk.APIError{StatusCode: 404, Message: "Product not found"},
			handled: false,
			notice:  "Product not found",
		},
		{
			name:    "400 validation",
			err:     &shopsdk.APIError{StatusCode: 400, Message: "Quantity must be positive"},
			handled: false,
			notice:  "Quantity must be positive",
		},
		{
			name:    "500",
			err:     &shopsdk.APIError{StatusCode: 503, Message: "upstream down"},
			handled: false,
			notice:  messages.ServerError,
		},
		{
			name:    "network",
			err:     &shopsdk.APIError{StatusCode: 0, Message: "dial tcp: refused"},
			handled: false,
			notice:  messages.NetworkError,
		},
		{
			name:    "not an api error",
			err:     errors.New("boom"),
			handled: false,
			notice:  messages.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ender := &testutil.RecordingEnder{}
			notifier := &testutil.RecordingNotifier{}

			i := service.NewInterceptor(ender, notifier, messages, nil)
			handled := i.Intercept(context.Background(), tt.err)

			require.Equal(t, tt.handled, handled)
			require.Equal(t, tt.invalidated, ender.Reasons)
			if tt.notice != "" {
				require.Equal(t, []string{tt.notice}, notifier.Messages())
			} else {
				require.Empty(t, notifier.Messages())
			}
		})
	}
}

func TestInterceptCountsErrors(t *testing.T) {
	m := metrics.New(nil)
	i := service.NewInterceptor(nil, nil, domain.Messages("en"), nil)
	i.Metrics = m

	i.Intercept(context.Background(), &shopsdk.APIError{StatusCode: 404})
	i.Intercept(context.Background(), &shopsdk.APIError{StatusCode: 502})

	require.Equal(t, 1.0, promtest.ToFloat64(m.APIErrors.WithLabelValues("4xx")))
	require.Equal(t, 1.0, promtest.ToFloat64(m.APIErrors.WithLabelValues("5xx")))
}

// backendSession wires a client, interceptor and invalidator against a
// fake backend the way the application does.
type backendSession struct {
	store    store.Store
	notifier *testutil.RecordingNotifier
	nav      *service.MemoryNavigator
	client   *shopsdk.Client
}

func newBackendSession(t *testing.T, handler http.HandlerFunc) *backendSession {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := &backendSession{
		store:    testutil.NewStore(),
		notifier: &testutil.RecordingNotifier{},
		nav:      service.NewMemoryNavigator("/orders"),
	}
	messages := domain.Messages("en")

	inv := service.NewInvalidator(s.store, nil, s.notifier, s.nav, messages, nil)
	inv.RedirectDelay = 0

	s.client = shopsdk.NewClient(srv.URL,
		shopsdk.WithTokenSource(service.StoreTokenSource{Store: s.store}),
		shopsdk.WithInterceptor(service.NewInterceptor(inv, s.notifier, messages, nil)),
	)

	user := testutil.ActiveUser()
	testutil.Seed(t, s.store, testutil.TokenExpiringIn(t, time.Hour), &user)
	return s
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestBackendRejectsExpiredToken(t *testing.T) {
	s := newBackendSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("Authorization"))
		respond(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "Token expired"})
	})
	ctx := context.Background()

	_, err := s.client.ListOrders(ctx)

	apiErr, ok := shopsdk.AsAPIError(err)
	require.True(t, ok)
	require.True(t, apiErr.Handled)

	_, err = s.store.Tokens().GetToken(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.store.Users().GetUser(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.Equal(t, []string{domain.Messages("en").TokenExpired}, s.notifier.Messages())
	require.Equal(t, []string{"/login?redirect=%2Forders"}, s.nav.History())
}

func TestBackendForbidsWithoutEndingSession(t *testing.T) {
	s := newBackendSession(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusForbidden, map[string]any{"status": 403, "message": "Insufficient permissions"})
	})
	ctx := context.Background()

	_, err := s.client.CancelOrder(ctx, "o1")

	apiErr, ok := shopsdk.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.True(t, apiErr.Handled)

	_, err = s.store.Tokens().GetToken(ctx)
	require.NoError(t, err)
	require.Empty(t, s.nav.History())
	require.Equal(t, []string{domain.Messages("en").PermissionDenied}, s.notifier.Messages())
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/app"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/testutil"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	*cli
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestCLI(t *testing.T, apiURL string) *testCLI {
	t.Helper()

	cfg := app.Config{
		APIURL:          apiURL,
		StoreDriver:     app.DriverSQLite,
		DatabaseFile:    filepath.Join(t.TempDir(), "session.db"),
		Locale:          "en",
		LoginPath:       service.DefaultLoginPath,
		MonitorInterval: time.Minute,
		HTTPTimeout:     5 * time.Second,
		RateLimit:       httpx.DefaultLimit,
		Env:             "test",
	}

	tc := &testCLI{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	tc.cli = &cli{
		out:        tc.stdout,
		errOut:     tc.stderr,
		loadConfig: func() app.Config { return cfg },
		options:    []app.Option{app.WithLogger(slogx.Discard())},
	}
	return tc
}

// run executes one command the way main does, including teardown.
func (tc *testCLI) run(args ...string) error {
	tc.stdout.Reset()
	tc.stderr.Reset()

	root := tc.rootCmd()
	root.SetArgs(args)
	root.SetOut(tc.stdout)
	root.SetErr(tc.stderr)

	err := root.ExecuteContext(context.Background())
	if closeErr := tc.teardown(); err == nil {
		err = closeErr
	}
	return err
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestVersionNeedsNoSession(t *testing.T) {
	tc := newTestCLI(t, "http://127.0.0.1:1")

	require.NoError(t, tc.run("version"))
	assert.Contains(t, tc.stdout.String(), app.BuildVersion)
	assert.Nil(t, tc.app)
}

func TestSessionCommands(t *testing.T) {
	token := testutil.TokenExpiringIn(t, time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, map[string]any{
			"accessToken": token,
			"user":        map[string]any{"id": "u1", "name": "Lan", "email": "lan@example.com", "active": true},
		})
	})
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusUnauthorized, map[string]any{"message": "Token expired"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tc := newTestCLI(t, srv.URL)

	require.NoError(t, tc.run("status"))
	assert.Contains(t, tc.stdout.String(), "Signed out (NO_TOKEN)")

	require.NoError(t, tc.run("login", "--email", "lan@example.com", "--password", "secret"))
	assert.Contains(t, tc.stdout.String(), "lan@example.com")
	assert.Contains(t, tc.stderr.String(), "Signed in as Lan.")

	require.NoError(t, tc.run("status"))
	assert.Contains(t, tc.stdout.String(), "Signed in as Lan <lan@example.com>")

	err := tc.run("orders", "list")
	require.Error(t, err)
	assert.True(t, alreadyReported(err))
	assert.Contains(t, tc.stderr.String(), "Your session has expired")
	assert.Contains(t, tc.stderr.String(), "→ sign in again")
	assert.Contains(t, tc.stderr.String(), "/orders")

	require.NoError(t, tc.run("status"))
	assert.Contains(t, tc.stdout.String(), "Signed out (NO_TOKEN)")
}

func TestProtectedCommandWithoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	tc := newTestCLI(t, srv.URL)

	err := tc.run("orders", "list")
	require.ErrorIs(t, err, service.ErrLoginRequired)
	assert.Contains(t, tc.stderr.String(), "You are not signed in.")
}

func TestGuestCart(t *testing.T) {
	tc := newTestCLI(t, "http://127.0.0.1:1")

	require.NoError(t, tc.run("cart", "add", "p1", "--qty", "2", "--size", "M", "--price", "12.5"))
	assert.Contains(t, tc.stdout.String(), "subtotal 25.00")

	require.NoError(t, tc.run("--json", "cart", "list"))
	assert.Contains(t, tc.stdout.String(), `"productId": "p1"`)

	require.NoError(t, tc.run("cart", "update", "p1", "0", "--size", "M"))
	assert.Contains(t, tc.stdout.String(), "Your cart is empty")
}

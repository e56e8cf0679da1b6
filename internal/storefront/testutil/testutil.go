// Package testutil holds fixtures shared by the session core tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/internal/storefront/store/drivers/memory"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// MintToken signs a token with a throwaway key. The client never verifies
// signatures, only the claims matter.
func MintToken(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// TokenExpiringIn mints a token for user u1 that expires d from now.
func TokenExpiringIn(t testing.TB, d time.Duration) string {
	t.Helper()
	return MintToken(t, jwt.MapClaims{
		"sub":  "u1",
		"role": "ROLE_USER",
		"exp":  time.Now().Add(d).Unix(),
	})
}

// ActiveUser is a cached user record that passes validation.
func ActiveUser() domain.User {
	return domain.User{ID: "u1", Name: "Lan", Email: "lan@example.com", Active: true}
}

// NewStore returns an empty in-memory session store.
func NewStore() store.Store {
	return memory.NewStore(store.Options{})
}

// Seed writes token and user into st, skipping empty values.
func Seed(t testing.TB, st store.Store, token string, user *domain.User) {
	t.Helper()
	ctx := context.Background()

	if token != "" {
		require.NoError(t, st.Tokens().SaveToken(ctx, token))
	}
	if user != nil {
		require.NoError(t, st.Users().SaveUser(ctx, *user))
	}
}

// Notification is one recorded message.
type Notification struct {
	Level   service.Level
	Message string
}

// RecordingNotifier remembers every notification.
type RecordingNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, level service.Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{Level: level, Message: message})
}

func (n *RecordingNotifier) All() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.items...)
}

func (n *RecordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]string, 0, len(n.items))
	for _, it := range n.items {
		out = append(out, it.Message)
	}
	return out
}

// RecordingEnder counts Invalidate calls instead of ending anything.
type RecordingEnder struct {
	mu      sync.Mutex
	Reasons []string
}

func (r *RecordingEnder) Invalidate(_ context.Context, reason, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reasons = append(r.Reasons, reason)
}

func (r *RecordingEnder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Reasons)
}

package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/events"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/internal/storefront/testutil"
	"github.com/stretchr/testify/require"
)

type invalidatorFixture struct {
	store    store.Store
	bus      *events.Bus
	notifier *testutil.RecordingNotifier
	nav      *service.MemoryNavigator
	inv      *service.Invalidator
}

func newInvalidatorFixture(t *testing.T, start string, delay time.Duration) *invalidatorFixture {
	t.Helper()

	f := &invalidatorFixture{
		store:    testutil.NewStore(),
		bus:      events.NewBus(nil),
		notifier: &testutil.RecordingNotifier{},
		nav:      service.NewMemoryNavigator(start),
	}
	f.inv = service.NewInvalidator(f.store, f.bus, f.notifier, f.nav, domain.Messages("en"), nil)
	f.inv.RedirectDelay = delay

	user := testutil.ActiveUser()
	testutil.Seed(t, f.store, testutil.TokenExpiringIn(t, time.Hour), &user)
	require.NoError(t, f.store.Carts().SaveCart(context.Background(), domain.Cart{
		Items: []domain.CartItem{{ProductID: "p1", Quantity: 1}},
	}))
	return f
}

func TestInvalidateClearsSession(t *testing.T) {
	f := newInvalidatorFixture(t, "/orders", 0)
	ctx := context.Background()

	var got []events.AuthChanged
	f.bus.Subscribe(func(_ context.Context, ev events.AuthChanged) { got = append(got, ev) })

	f.inv.Invalidate(ctx, string(domain.AuthErrTokenExpired), "session over")

	_, err := f.store.Tokens().GetToken(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.store.Users().GetUser(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
	cart, err := f.store.Carts().GetCart(ctx)
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())

	require.Len(t, got, 1)
	require.False(t, got[0].Authenticated)
	require.Equal(t, string(domain.AuthErrTokenExpired), got[0].Reason)

	require.Equal(t, []string{"session over"}, f.notifier.Messages())
	require.Equal(t, service.LevelWarning, f.notifier.All()[0].Level)

	require.Equal(t, []string{"/login?redirect=%2Forders"}, f.nav.History())
}

func TestInvalidateDefaultMessage(t *testing.T) {
	f := newInvalidatorFixture(t, "/", 0)

	f.inv.Invalidate(context.Background(), "UNKNOWN_ERROR", "")

	require.Equal(t, []string{domain.Messages("en").LoginAgain}, f.notifier.Messages())
}

func TestInvalidateOnLoginRouteDoesNotRedirect(t *testing.T) {
	f := newInvalidatorFixture(t, "/login?redirect=%2Fcart", 0)

	f.inv.Invalidate(context.Background(), "TOKEN_EXPIRED", "")

	require.Empty(t, f.nav.History())
	require.False(t, f.inv.RedirectPending())
}

func TestInvalidateIsIdempotent(t *testing.T) {
	f := newInvalidatorFixture(t, "/profile", 0)
	ctx := context.Background()

	f.inv.Invalidate(ctx, "TOKEN_EXPIRED", "")
	f.inv.Invalidate(ctx, "TOKEN_EXPIRED", "")

	_, err := f.store.Tokens().GetToken(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	// The second call finds the user on the login route already.
	require.Len(t, f.nav.History(), 1)
}

func TestConcurrentInvalidationsRedirectOnce(t *testing.T) {
	f := newInvalidatorFixture(t, "/checkout", 200*time.Millisecond)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.inv.Invalidate(ctx, "TOKEN_EXPIRED", "")
		}()
	}
	wg.Wait()

	require.True(t, f.inv.RedirectPending())

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, f.inv.WaitRedirect(waitCtx))

	require.Equal(t, []string{"/login?redirect=%2Fcheckout"}, f.nav.History())
	require.False(t, f.inv.RedirectPending())
}

func TestDelayedRedirectSkippedWhenUserReachedLogin(t *testing.T) {
	f := newInvalidatorFixture(t, "/orders", 50*time.Millisecond)
	ctx := context.Background()

	f.inv.Invalidate(ctx, "TOKEN_EXPIRED", "")
	f.nav.Navigate("/login")

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, f.inv.WaitRedirect(waitCtx))

	require.Equal(t, []string{"/login"}, f.nav.History())
}

func TestWaitRedirectHonoursContext(t *testing.T) {
	f := newInvalidatorFixture(t, "/orders", time.Hour)

	f.inv.Invalidate(context.Background(), "TOKEN_EXPIRED", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, f.inv.WaitRedirect(ctx), context.Canceled)
}

func TestWaitRedirectWithoutPending(t *testing.T) {
	f := newInvalidatorFixture(t, "/", 0)
	require.NoError(t, f.inv.WaitRedirect(context.Background()))
}

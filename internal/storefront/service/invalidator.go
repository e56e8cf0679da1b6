package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/events"
	"github.com/aussiebroadwan/storefront/internal/storefront/metrics"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
)

const (
	DefaultLoginPath     = "/login"
	DefaultRedirectDelay = 1500 * time.Millisecond
)

// SessionEnder tears down the local session.
type SessionEnder interface {
	Invalidate(ctx context.Context, reason, message string)
}

// Invalidator is the single place that forcibly ends a session. It is safe
// to call concurrently: storage is always cleared, but at most one redirect
// is pending at a time.
type Invalidator struct {
	Store     store.Store
	Bus       *events.Bus
	Notifier  Notifier
	Navigator Navigator
	Messages  domain.Catalog
	Logger    *slog.Logger
	Metrics   *metrics.Metrics

	LoginPath string

	// RedirectDelay gives the notification time to be seen before the
	// route changes. Zero navigates immediately.
	RedirectDelay time.Duration

	mu      sync.Mutex
	pending chan struct{}
}

func NewInvalidator(
	st store.Store,
	bus *events.Bus,
	notifier Notifier,
	navigator Navigator,
	messages domain.Catalog,
	logger *slog.Logger,
) *Invalidator {
	return &Invalidator{
		Store:         st,
		Bus:           bus,
		Notifier:      notifier,
		Navigator:     navigator,
		Messages:      messages,
		Logger:        logger,
		LoginPath:     DefaultLoginPath,
		RedirectDelay: DefaultRedirectDelay,
	}
}

// Invalidate clears token, user record and cart, broadcasts the change,
// shows message and then redirects to the login route unless the user is
// already there.
func (i *Invalidator) Invalidate(ctx context.Context, reason, message string) {
	if message == "" {
		message = i.Messages.LoginAgain
	}

	i.logger().InfoContext(ctx, "invalidating session", "reason", reason)

	i.Clear(ctx)

	if i.Bus != nil {
		i.Bus.Publish(ctx, events.AuthChanged{Authenticated: false, Reason: reason})
	}

	if i.Notifier != nil {
		i.Notifier.Notify(ctx, LevelWarning, message)
	}

	if i.Metrics != nil {
		i.Metrics.Invalidations.WithLabelValues(reason).Inc()
	}

	i.scheduleRedirect()
}

// Clear removes the session entries. Each removal is independent, a failing
// one does not stop the others.
func (i *Invalidator) Clear(ctx context.Context) {
	if err := i.Store.Tokens().DeleteToken(ctx); err != nil {
		i.logger().ErrorContext(ctx, "failed to delete token", "error", err)
	}
	if err := i.Store.Users().DeleteUser(ctx); err != nil {
		i.logger().ErrorContext(ctx, "failed to delete user", "error", err)
	}
	if err := i.Store.Carts().DeleteCart(ctx); err != nil {
		i.logger().ErrorContext(ctx, "failed to delete cart", "error", err)
	}
}

func (i *Invalidator) scheduleRedirect() {
	if i.Navigator == nil {
		return
	}

	loginPath := i.loginPath()
	if routePath(i.Navigator.CurrentPath()) == loginPath {
		return
	}

	i.mu.Lock()
	if i.pending != nil {
		i.mu.Unlock()
		return
	}
	done := make(chan struct{})
	i.pending = done
	i.mu.Unlock()

	redirect := func() {
		defer func() {
			i.mu.Lock()
			i.pending = nil
			i.mu.Unlock()
			close(done)
		}()

		// The user may have moved to the login route on their own meanwhile.
		current := i.Navigator.CurrentPath()
		if routePath(current) == loginPath {
			return
		}
		i.Navigator.Navigate(loginRoute(loginPath, current))
	}

	if i.RedirectDelay <= 0 {
		redirect()
		return
	}
	time.AfterFunc(i.RedirectDelay, redirect)
}

// WaitRedirect blocks until a pending redirect has happened or ctx is done.
func (i *Invalidator) WaitRedirect(ctx context.Context) error {
	i.mu.Lock()
	done := i.pending
	i.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RedirectPending reports whether a redirect is scheduled.
func (i *Invalidator) RedirectPending() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending != nil
}

func (i *Invalidator) loginPath() string {
	if i.LoginPath == "" {
		return DefaultLoginPath
	}
	return i.LoginPath
}

func (i *Invalidator) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.Default()
	}
	return i.Logger
}

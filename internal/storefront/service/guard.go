package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
)

var ErrLoginRequired = errors.New("login required")

// DefaultProtectedRoutes need a valid session.
var DefaultProtectedRoutes = []string{"/checkout", "/orders", "/profile", "/addresses"}

// Guard decides whether a route may be entered. Protected routes require a
// valid session; otherwise the user is sent to the login route with a
// redirect back.
type Guard struct {
	Validator Checker
	Navigator Navigator
	Notifier  Notifier
	LoginPath string
	Protected []string

	// Ender tears down a stored session the guard found invalid. Without
	// one the guard only notifies and redirects.
	Ender SessionEnder
}

func NewGuard(validator Checker, navigator Navigator, notifier Notifier) *Guard {
	return &Guard{
		Validator: validator,
		Navigator: navigator,
		Notifier:  notifier,
		LoginPath: DefaultLoginPath,
		Protected: DefaultProtectedRoutes,
	}
}

// IsProtected reports whether route needs a session.
func (g *Guard) IsProtected(route string) bool {
	p := routePath(route)
	for _, prefix := range g.Protected {
		if p == prefix || strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

// Enter navigates to route when allowed. Entering a protected route without a
// valid session redirects to login and returns ErrLoginRequired wrapped with
// the verdict's message. A stale session (anything but NO_TOKEN) is also
// ended through Ender; a guest's cart survives a missing token.
func (g *Guard) Enter(ctx context.Context, route string) (domain.Verdict, error) {
	if !g.IsProtected(route) {
		g.navigate(route)
		return domain.ValidVerdict(), nil
	}

	v := g.Validator.Validate(ctx)
	if v.Valid {
		g.navigate(route)
		return v, nil
	}

	loginPath := g.LoginPath
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	// Navigating first leaves the ender nothing to redirect.
	g.navigate(loginRoute(loginPath, route))

	switch {
	case g.Ender != nil && v.Reason != domain.ReasonNoToken:
		g.Ender.Invalidate(ctx, string(v.Reason), v.Message)
	case g.Notifier != nil:
		g.Notifier.Notify(ctx, LevelWarning, v.Message)
	}
	return v, errors.Join(ErrLoginRequired, errors.New(v.Message))
}

func (g *Guard) navigate(route string) {
	if g.Navigator != nil {
		g.Navigator.Navigate(route)
	}
}

package service

import (
	"net/url"
	"strings"
	"sync"
)

// Navigator moves the user between routes. A browser would change the
// location, the CLI prints what to run next.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// MemoryNavigator keeps the current route and every navigation in memory.
type MemoryNavigator struct {
	mu      sync.Mutex
	current string
	history []string
	onMove  func(path string)
}

func NewMemoryNavigator(start string) *MemoryNavigator {
	if start == "" {
		start = "/"
	}
	return &MemoryNavigator{current: start}
}

// OnNavigate registers a hook run after every navigation.
func (n *MemoryNavigator) OnNavigate(fn func(path string)) {
	n.mu.Lock()
	n.onMove = fn
	n.mu.Unlock()
}

func (n *MemoryNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *MemoryNavigator) Navigate(path string) {
	n.mu.Lock()
	n.current = path
	n.history = append(n.history, path)
	hook := n.onMove
	n.mu.Unlock()

	if hook != nil {
		hook(path)
	}
}

// History returns every path navigated to, oldest first.
func (n *MemoryNavigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}

// routePath strips the query and fragment of a route.
func routePath(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	return route
}

// loginRoute builds "<login>?redirect=<from>" so the user lands back where
// they were after signing in.
func loginRoute(loginPath, from string) string {
	if from == "" || routePath(from) == loginPath {
		return loginPath
	}
	return loginPath + "?redirect=" + url.QueryEscape(from)
}

// RedirectTarget extracts the redirect parameter of a login route, "/" when
// absent or not a local path.
func RedirectTarget(route string) string {
	_, query, ok := strings.Cut(route, "?")
	if !ok {
		return "/"
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return "/"
	}
	target := values.Get("redirect")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}

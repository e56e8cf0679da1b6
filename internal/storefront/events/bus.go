// Package events implements the in-process "auth changed" broadcast.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AuthChanged is published whenever the session is established or torn down.
type AuthChanged struct {
	Authenticated bool
	UserID        string
	Reason        string
	At            time.Time
}

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine and must not block.
type Handler func(ctx context.Context, ev AuthChanged)

// Bus fans AuthChanged events out to subscribers.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]Handler
	logger   *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[uint64]Handler),
		logger:   logger,
	}
}

// Subscribe registers h and returns a function that removes it again.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every current subscriber. A panicking handler is
// logged and does not stop delivery to the others.
func (b *Bus) Publish(ctx context.Context, ev AuthChanged) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	b.logger.DebugContext(ctx, "auth changed",
		"authenticated", ev.Authenticated,
		"reason", ev.Reason,
		"subscribers", len(handlers),
	)

	for _, h := range handlers {
		b.dispatch(ctx, h, ev)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, ev AuthChanged) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "auth changed handler panicked", "panic", r)
		}
	}()
	h(ctx, ev)
}

// Subscribers returns the number of registered handlers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

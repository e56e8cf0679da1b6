// Package memory is an in-process session store, used by tests and by
// short-lived commands that should not touch disk.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/aussiebroadwan/storefront/internal/storefront/store"
)

type KV struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func New() *KV {
	return &KV{data: make(map[string][]byte)}
}

func (m *KV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, store.ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *KV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return store.ErrClosed
	}
	m.data[key] = bytes.Clone(value)
	return nil
}

func (m *KV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return store.ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *KV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *KV) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return store.ErrClosed
	}
	return nil
}

// Len returns the number of stored entries.
func (m *KV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// NewStore returns a Store backed by a fresh in-memory KV.
func NewStore(opts store.Options) store.Store {
	return store.New(New(), opts)
}

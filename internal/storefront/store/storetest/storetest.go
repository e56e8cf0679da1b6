// Package storetest holds the behaviour every session store driver must
// share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/stretchr/testify/require"
)

// RunKV exercises a raw driver.
func RunKV(t *testing.T, kv store.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("put get overwrite", func(t *testing.T) {
		require.NoError(t, kv.Put(ctx, "k", []byte("one")))
		require.NoError(t, kv.Put(ctx, "k", []byte("two")))

		got, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, []byte("two"), got)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, kv.Put(ctx, "gone", []byte("x")))
		require.NoError(t, kv.Delete(ctx, "gone"))
		require.NoError(t, kv.Delete(ctx, "gone"))

		_, err := kv.Get(ctx, "gone")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, kv.Ping(ctx))
	})
}

// RunStore exercises the typed repositories on top of a driver.
func RunStore(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("token", func(t *testing.T) {
		_, err := s.Tokens().GetToken(ctx)
		require.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.Tokens().SaveToken(ctx, "a.b.c"))
		tok, err := s.Tokens().GetToken(ctx)
		require.NoError(t, err)
		require.Equal(t, "a.b.c", tok)

		require.NoError(t, s.Tokens().DeleteToken(ctx))
		_, err = s.Tokens().GetToken(ctx)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("user", func(t *testing.T) {
		_, err := s.Users().GetUser(ctx)
		require.ErrorIs(t, err, store.ErrNotFound)

		u := domain.User{ID: "u1", Name: "Lan", Email: "lan@example.com", Active: true}
		require.NoError(t, s.Users().SaveUser(ctx, u))

		got, err := s.Users().GetUser(ctx)
		require.NoError(t, err)
		require.Equal(t, u, got)

		require.NoError(t, s.Users().DeleteUser(ctx))
		_, err = s.Users().GetUser(ctx)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("cart", func(t *testing.T) {
		empty, err := s.Carts().GetCart(ctx)
		require.NoError(t, err)
		require.True(t, empty.IsEmpty())

		c := domain.Cart{Items: []domain.CartItem{{ProductID: "p1", Size: "M", Quantity: 2, Price: 9.5}}}
		require.NoError(t, s.Carts().SaveCart(ctx, c))

		got, err := s.Carts().GetCart(ctx)
		require.NoError(t, err)
		require.Equal(t, c, got)

		require.NoError(t, s.Carts().DeleteCart(ctx))
		got, err = s.Carts().GetCart(ctx)
		require.NoError(t, err)
		require.True(t, got.IsEmpty())
	})

	t.Run("pending login", func(t *testing.T) {
		p := domain.PendingLogin{
			Provider:  "google",
			State:     "st",
			Verifier:  "ver",
			CreatedAt: time.Unix(1_700_000_000, 0).UTC(),
		}
		require.NoError(t, s.PendingLogins().SavePendingLogin(ctx, p))

		got, err := s.PendingLogins().GetPendingLogin(ctx)
		require.NoError(t, err)
		require.Equal(t, p, got)

		require.NoError(t, s.PendingLogins().DeletePendingLogin(ctx))
		_, err = s.PendingLogins().GetPendingLogin(ctx)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/stretchr/testify/require"
)

func TestCartAddMergesTriple(t *testing.T) {
	var c domain.Cart

	require.NoError(t, c.Add(domain.CartItem{ProductID: "p1", Size: "M", StoreID: "s1", Quantity: 1, Price: 10}))
	require.NoError(t, c.Add(domain.CartItem{ProductID: "p1", Size: "M", StoreID: "s1", Quantity: 2}))
	require.NoError(t, c.Add(domain.CartItem{ProductID: "p1", Size: "L", StoreID: "s1", Quantity: 1, Price: 12}))

	require.Len(t, c.Items, 2)
	require.Equal(t, 3, c.Items[0].Quantity)
	require.Equal(t, float64(10), c.Items[0].Price)
	require.Equal(t, 4, c.Count())
	require.InDelta(t, 42.0, c.Subtotal(), 0.0001)
}

func TestCartAddRejectsBadItems(t *testing.T) {
	var c domain.Cart

	require.ErrorIs(t, c.Add(domain.CartItem{ProductID: "p1"}), domain.ErrInvalidQuantity)
	require.ErrorIs(t, c.Add(domain.CartItem{Quantity: 1}), domain.ErrMissingProduct)
	require.True(t, c.IsEmpty())
}

func TestCartSetQuantity(t *testing.T) {
	c := domain.Cart{Items: []domain.CartItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	}}

	require.NoError(t, c.SetQuantity(domain.CartKey{ProductID: "p1"}, 5))
	require.Equal(t, 5, c.Items[0].Quantity)

	t.Run("below one removes", func(t *testing.T) {
		require.NoError(t, c.SetQuantity(domain.CartKey{ProductID: "p1"}, 0))
		require.Len(t, c.Items, 1)
		require.Equal(t, "p2", c.Items[0].ProductID)
	})

	t.Run("unknown line", func(t *testing.T) {
		require.ErrorIs(t, c.SetQuantity(domain.CartKey{ProductID: "nope"}, 1), domain.ErrItemNotFound)
	})
}

func TestCartMerge(t *testing.T) {
	c := domain.Cart{Items: []domain.CartItem{{ProductID: "p1", Quantity: 1}}}
	c.Merge(domain.Cart{Items: []domain.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p3", Quantity: 0},
		{Quantity: 4},
	}})

	require.Len(t, c.Items, 2)
	require.Equal(t, 3, c.Items[0].Quantity)
	require.Equal(t, "p2", c.Items[1].ProductID)
}

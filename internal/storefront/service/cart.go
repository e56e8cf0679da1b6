package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartService keeps the local cart snapshot and mirrors changes to the
// backend cart while a session is valid. The local snapshot is written first
// so a guest can shop without an account.
type CartService struct {
	Store     store.Store
	Client    *shopsdk.Client
	Validator Checker
	Logger    *slog.Logger
}

func (s *CartService) List(ctx context.Context) (domain.Cart, error) {
	return s.Store.Carts().GetCart(ctx)
}

// Add merges item into the cart.
func (s *CartService) Add(ctx context.Context, item domain.CartItem) (domain.Cart, error) {
	cart, err := s.update(ctx, func(c *domain.Cart) error { return c.Add(item) })
	if err != nil {
		return cart, err
	}

	if s.online(ctx) {
		_, err = s.Client.AddCartItem(ctx, itemRequest(item))
	}
	return cart, err
}

// SetQuantity changes a line's quantity, removing it below 1.
func (s *CartService) SetQuantity(ctx context.Context, key domain.CartKey, quantity int) (domain.Cart, error) {
	cart, err := s.update(ctx, func(c *domain.Cart) error { return c.SetQuantity(key, quantity) })
	if err != nil {
		return cart, err
	}

	if s.online(ctx) {
		if quantity < 1 {
			err = s.Client.RemoveCartItem(ctx, key)
		} else {
			_, err = s.Client.UpdateCartItem(ctx, shopsdk.CartItemRequest{
				ProductID: key.ProductID,
				Size:      key.Size,
				StoreID:   key.StoreID,
				Quantity:  quantity,
			})
		}
	}
	return cart, err
}

func (s *CartService) Remove(ctx context.Context, key domain.CartKey) (domain.Cart, error) {
	return s.SetQuantity(ctx, key, 0)
}

func (s *CartService) Clear(ctx context.Context) error {
	if err := s.Store.Carts().DeleteCart(ctx); err != nil {
		return err
	}
	if s.online(ctx) {
		return s.Client.ClearCart(ctx)
	}
	return nil
}

// Sync pushes local lines the backend does not know yet and then adopts the
// backend cart as the local snapshot. Lines on both sides keep the backend
// quantity.
func (s *CartService) Sync(ctx context.Context) (domain.Cart, error) {
	if !s.online(ctx) {
		return domain.Cart{}, ErrLoginRequired
	}

	local, err := s.Store.Carts().GetCart(ctx)
	if err != nil {
		return domain.Cart{}, err
	}

	remote, err := s.Client.GetCart(ctx)
	if err != nil {
		return domain.Cart{}, err
	}

	known := make(map[domain.CartKey]struct{}, len(remote.Items))
	for _, item := range remote.Items {
		known[item.Key()] = struct{}{}
	}

	pushed := 0
	for _, item := range local.Items {
		if _, ok := known[item.Key()]; ok {
			continue
		}
		if _, err := s.Client.AddCartItem(ctx, itemRequest(item)); err != nil {
			return domain.Cart{}, err
		}
		pushed++
	}

	if pushed > 0 {
		if remote, err = s.Client.GetCart(ctx); err != nil {
			return domain.Cart{}, err
		}
	}

	if err := s.Store.Carts().SaveCart(ctx, *remote); err != nil {
		return domain.Cart{}, err
	}

	s.logger().DebugContext(ctx, "cart synced", "pushed", pushed, "lines", len(remote.Items))
	return *remote, nil
}

// update is a read-modify-write of the snapshot. Concurrent writers race,
// the last write wins.
func (s *CartService) update(ctx context.Context, fn func(*domain.Cart) error) (domain.Cart, error) {
	cart, err := s.Store.Carts().GetCart(ctx)
	if err != nil {
		return domain.Cart{}, err
	}

	if err := fn(&cart); err != nil {
		return cart, err
	}

	if cart.IsEmpty() {
		err = s.Store.Carts().DeleteCart(ctx)
	} else {
		err = s.Store.Carts().SaveCart(ctx, cart)
	}
	return cart, err
}

func (s *CartService) online(ctx context.Context) bool {
	return s.Client != nil && s.Validator != nil && s.Validator.Validate(ctx).Valid
}

func (s *CartService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func itemRequest(item domain.CartItem) shopsdk.CartItemRequest {
	return shopsdk.CartItemRequest{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Size:      item.Size,
		StoreID:   item.StoreID,
	}
}

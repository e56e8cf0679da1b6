package shopsdk

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
)

// GetCart returns the server-side cart of the signed-in user.
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/cart", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddCartItem(ctx context.Context, req CartItemRequest) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/cart/items", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, req CartItemRequest) (*domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/api/cart/items/" + url.PathEscape(req.ProductID),
		body:   req,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, key domain.CartKey) error {
	q := url.Values{}
	if key.Size != "" {
		q.Set("size", key.Size)
	}
	if key.StoreID != "" {
		q.Set("storeId", key.StoreID)
	}
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/api/cart/items/" + url.PathEscape(key.ProductID),
		query:  q,
	})
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/api/cart"})
}

package shopsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/orders", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/orders/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder places an order. Pricing and stock are the backend's concern.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/orders", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/orders/" + url.PathEscape(id) + "/cancel",
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePaymentURL asks the backend for the payment gateway URL of an order.
func (c *Client) CreatePaymentURL(ctx context.Context, orderID string) (string, error) {
	var out PaymentURL
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/payments/" + url.PathEscape(orderID) + "/url",
		out:    &out,
	})
	if err != nil {
		return "", err
	}
	return out.PaymentURL, nil
}

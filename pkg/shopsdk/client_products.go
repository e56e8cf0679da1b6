package shopsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/categories", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProducts searches and filters the catalogue.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*Page[Product], error) {
	var out Page[Product]
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/products",
		query:  q.Values(),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/products/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

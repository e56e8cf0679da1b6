package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
)

// StoreTokenSource feeds the stored session token to the API client.
type StoreTokenSource struct {
	Store store.Store
}

func (s StoreTokenSource) Token(ctx context.Context) (string, error) {
	token, err := s.Store.Tokens().GetToken(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "", shopsdk.ErrNoToken
	}
	return token, err
}

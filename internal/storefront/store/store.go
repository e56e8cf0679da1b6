package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrClosed   = errors.New("store: closed")
)

// Keys of the session entries. The invalidator clears token, user and cart
// together.
const (
	KeyToken   = "token"
	KeyUser    = "user"
	KeyCart    = "cart"
	KeyPending = "oauth_pending"
)

// Store is the local session storage. It is the only state shared between
// the validator, the invalidator, the API client and the cart. There is no
// locking across entries: last write wins.
type Store interface {
	Tokens() Tokens
	Users() Users
	Carts() Carts
	PendingLogins() PendingLogins

	// Close releases the underlying driver.
	Close() error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error
}

type Tokens interface {
	// GetToken returns the raw bearer token or ErrNotFound.
	GetToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	DeleteToken(ctx context.Context) error
}

type Users interface {
	// GetUser returns the cached user record or ErrNotFound.
	GetUser(ctx context.Context) (domain.User, error)
	SaveUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context) error
}

type Carts interface {
	// GetCart returns the cart snapshot. A missing snapshot is an empty cart,
	// not an error.
	GetCart(ctx context.Context) (domain.Cart, error)
	SaveCart(ctx context.Context, c domain.Cart) error
	DeleteCart(ctx context.Context) error
}

type PendingLogins interface {
	GetPendingLogin(ctx context.Context) (domain.PendingLogin, error)
	SavePendingLogin(ctx context.Context, p domain.PendingLogin) error
	DeletePendingLogin(ctx context.Context) error
}

// KV is implemented by the storage drivers (memory, sqlite, redis). Get
// returns ErrNotFound for absent keys and Delete of an absent key is not an
// error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
	Ping(ctx context.Context) error
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
)

// ChangeFunc is called after an entry was written (deleted false) or removed
// (deleted true).
type ChangeFunc func(ctx context.Context, key string, deleted bool)

type Options struct {
	// Sealer encrypts values at rest. Values are stored in the clear when nil.
	Sealer *cryptox.Sealer

	// OnChange observes every successful write and delete.
	OnChange ChangeFunc
}

// kvStore implements Store on top of a KV driver.
type kvStore struct {
	kv       KV
	sealer   *cryptox.Sealer
	onChange ChangeFunc
}

// New wraps a driver into a Store.
func New(kv KV, opts Options) Store {
	return &kvStore{
		kv:       kv,
		sealer:   opts.Sealer,
		onChange: opts.OnChange,
	}
}

func (s *kvStore) Tokens() Tokens               { return &tokensRepo{s: s} }
func (s *kvStore) Users() Users                 { return &usersRepo{s: s} }
func (s *kvStore) Carts() Carts                 { return &cartsRepo{s: s} }
func (s *kvStore) PendingLogins() PendingLogins { return &pendingRepo{s: s} }

func (s *kvStore) Close() error                   { return s.kv.Close() }
func (s *kvStore) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

func (s *kvStore) get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.sealer == nil {
		return raw, nil
	}

	plain, err := s.sealer.Open(raw, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", key, err)
	}
	return plain, nil
}

func (s *kvStore) put(ctx context.Context, key string, value []byte) error {
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(value, []byte(key))
		if err != nil {
			return fmt.Errorf("store: seal %s: %w", key, err)
		}
		value = sealed
	}

	if err := s.kv.Put(ctx, key, value); err != nil {
		return err
	}
	s.changed(ctx, key, false)
	return nil
}

func (s *kvStore) delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return err
	}
	s.changed(ctx, key, true)
	return nil
}

func (s *kvStore) changed(ctx context.Context, key string, deleted bool) {
	if s.onChange != nil {
		s.onChange(ctx, key, deleted)
	}
}

func (s *kvStore) getJSON(ctx context.Context, key string, v any) error {
	raw, err := s.get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("store: decode %s: %w", key, err)
	}
	return nil
}

func (s *kvStore) putJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return s.put(ctx, key, raw)
}

type tokensRepo struct{ s *kvStore }

func (r *tokensRepo) GetToken(ctx context.Context) (string, error) {
	raw, err := r.s.get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", ErrNotFound
	}
	return string(raw), nil
}

func (r *tokensRepo) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return r.DeleteToken(ctx)
	}
	return r.s.put(ctx, KeyToken, []byte(token))
}

func (r *tokensRepo) DeleteToken(ctx context.Context) error {
	return r.s.delete(ctx, KeyToken)
}

type usersRepo struct{ s *kvStore }

func (r *usersRepo) GetUser(ctx context.Context) (domain.User, error) {
	var u domain.User
	if err := r.s.getJSON(ctx, KeyUser, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) SaveUser(ctx context.Context, u domain.User) error {
	return r.s.putJSON(ctx, KeyUser, u)
}

func (r *usersRepo) DeleteUser(ctx context.Context) error {
	return r.s.delete(ctx, KeyUser)
}

type cartsRepo struct{ s *kvStore }

func (r *cartsRepo) GetCart(ctx context.Context) (domain.Cart, error) {
	var c domain.Cart
	err := r.s.getJSON(ctx, KeyCart, &c)
	if errors.Is(err, ErrNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

func (r *cartsRepo) SaveCart(ctx context.Context, c domain.Cart) error {
	return r.s.putJSON(ctx, KeyCart, c)
}

func (r *cartsRepo) DeleteCart(ctx context.Context) error {
	return r.s.delete(ctx, KeyCart)
}

type pendingRepo struct{ s *kvStore }

func (r *pendingRepo) GetPendingLogin(ctx context.Context) (domain.PendingLogin, error) {
	var p domain.PendingLogin
	if err := r.s.getJSON(ctx, KeyPending, &p); err != nil {
		return domain.PendingLogin{}, err
	}
	return p, nil
}

func (r *pendingRepo) SavePendingLogin(ctx context.Context, p domain.PendingLogin) error {
	return r.s.putJSON(ctx, KeyPending, p)
}

func (r *pendingRepo) DeletePendingLogin(ctx context.Context) error {
	return r.s.delete(ctx, KeyPending)
}

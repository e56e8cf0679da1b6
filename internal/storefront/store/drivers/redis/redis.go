// Package redis keeps the session in Redis so several client processes on
// one machine share a login.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultPrefix = "storefront:session:"

type Config struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces the keys, DefaultPrefix when empty.
	Prefix string

	// TTL bounds how long an entry lives without being rewritten. Zero keeps
	// entries until deleted.
	TTL time.Duration
}

type KV struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// New connects and pings the server.
func New(cfg Config) (*KV, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg.Prefix, cfg.TTL), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, prefix string, ttl time.Duration) *KV {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KV{client: client, prefix: prefix, ttl: ttl}
}

func (r *KV) key(k string) string { return r.prefix + k }

func (r *KV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *KV) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.key(key), value, r.ttl).Err()
}

func (r *KV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *KV) Close() error { return r.client.Close() }

func (r *KV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NewStore connects to Redis and wraps it into a Store.
func NewStore(cfg Config, opts store.Options) (store.Store, error) {
	kv, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return store.New(kv, opts), nil
}

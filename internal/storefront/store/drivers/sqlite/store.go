package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	_ "modernc.org/sqlite"
)

// KV keeps session entries in a single SQLite table. Call ApplyMigrations
// before first use.
type KV struct {
	db  *sql.DB
	dsn string
}

func New(dsn string) (*KV, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// ":memory:" databases are per connection.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &KV{db: db, dsn: dsn}, nil
}

func (s *KV) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *KV) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_kv WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return value, nil
}

func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	return err
}

func (s *KV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_kv WHERE key = ?`, key)
	return err
}

// NewStore opens dsn, applies migrations and wraps it into a Store.
func NewStore(dsn string, opts store.Options) (store.Store, error) {
	kv, err := New(dsn)
	if err != nil {
		return nil, err
	}
	if err := kv.ApplyMigrations(); err != nil {
		_ = kv.Close()
		return nil, err
	}
	return store.New(kv, opts), nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/pauselab/internal/model"
)

var _ model.KeyValueStore = (*KVRepository)(nil)

// KVRepository keeps key-value pairs in the local kv_store table.
type KVRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_store WHERE key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return []byte(value), nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, key, string(value), r.now().UTC()); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv_store WHERE key = ?`

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	return nil
}

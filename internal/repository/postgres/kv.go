package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/pauselab/internal/model"
)

var _ model.KeyValueStore = (*KVRepository)(nil)

// querier is the subset of *pgxpool.Pool used by KVRepository.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// KVRepository keeps key-value pairs in the kv_store table.
type KVRepository struct {
	db querier
}

func NewKVRepository(db *Connection) *KVRepository {
	return &KVRepository{
		db: db,
	}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_store WHERE key = $1`

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return []byte(value), nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv_store WHERE key = $1`

	if _, err := r.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// KVStore persists preferences in the preferences table.
type KVStore struct {
	pool *pgxpool.Pool
}

func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM preferences WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/quantum-mirror/internal/model"
)

var _ model.Backend = (*KVRepository)(nil)

// querier is the subset of *pgxpool.Pool used by KVRepository.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type KVRepository struct {
	db   querier
	conn *Connection
}

func NewKVRepository(conn *Connection) *KVRepository {
	return &KVRepository{
		db:   conn,
		conn: conn,
	}
}

func (r *KVRepository) Load(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv WHERE key = $1`

	var blob []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return blob, nil
}

func (r *KVRepository) Save(ctx context.Context, key string, blob []byte) error {
	const query = `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query, key, blob); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv WHERE key = $1`

	if _, err := r.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

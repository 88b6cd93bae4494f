package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CounterRepository provides durable, atomically incremented sequences.
type CounterRepository interface {
	// Increment bumps the counter for key by one and returns the new value.
	// Every call yields a unique, strictly greater value, including under
	// concurrent callers; values are never reused or decremented.
	Increment(ctx context.Context, key string) (int64, error)
}

type counterRepository struct {
	pool *pgxpool.Pool
}

// NewCounterRepository returns a Postgres-backed implementation.
func NewCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &counterRepository{pool: pool}
}

func (r *counterRepository) Increment(ctx context.Context, key string) (int64, error) {
	// Single-statement upsert; row-level locking makes the read-modify-write
	// indivisible without an explicit transaction.
	const query = `
        INSERT INTO counters (id, value) VALUES ($1, 1)
        ON CONFLICT (id) DO UPDATE SET value = counters.value + 1
        RETURNING value`

	var value int64
	if err := r.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

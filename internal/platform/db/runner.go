package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Runner executes fn with transactional semantics. Services depend on this
// type instead of a concrete pool so tests can supply a pass-through runner.
type Runner func(ctx context.Context, fn func(ctx context.Context) error) error

// PoolRunner returns a Runner that executes fn inside a database
// transaction on the given pool.
func PoolRunner(pool *pgxpool.Pool) Runner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return WithTx(ctx, pool, fn)
	}
}

// PassthroughRunner returns a Runner that executes fn directly, with no
// transaction. Intended for tests with in-memory repositories.
func PassthroughRunner() Runner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
}

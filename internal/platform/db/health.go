package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Health reports the liveness of the database connection pool.
type Health struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CheckHealth pings the database with a short timeout and reports the result.
func CheckHealth(ctx context.Context, pool *pgxpool.Pool) Health {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := pool.Ping(ctx); err != nil {
		return Health{Status: "down", Error: err.Error()}
	}
	return Health{Status: "up", Latency: time.Since(start).String()}
}

package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/actiontracker/tracker/pkg/composables"
	"github.com/actiontracker/tracker/pkg/configuration"
)

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	conf := configuration.Use()
	ctx, cancel := context.WithTimeout(ctx, conf.Database.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// withDB connects, binds the pool to ctx and runs fn. Errors from fn are classified.
func withDB(ctx context.Context, fn func(ctx context.Context) error) error {
	pool, err := connectDB(ctx)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()
	return classify(fn(composables.WithPool(ctx, pool)))
}

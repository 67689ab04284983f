// Package migrations holds the goose SQL migrations for the tracker schema.
package migrations

import (
	"context"
	"embed"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Up applies every pending migration using the pool's connection settings.
func Up(ctx context.Context, pool *pgxpool.Pool) ([]*goose.MigrationResult, error) {
	provider, err := newProvider(pool)
	if err != nil {
		return nil, err
	}
	defer func() { _ = provider.Close() }()

	results, err := provider.Up(ctx)
	if err != nil {
		return results, errors.Wrap(err, "apply migrations")
	}
	return results, nil
}

// Status reports the applied/pending state of every migration.
func Status(ctx context.Context, pool *pgxpool.Pool) ([]*goose.MigrationStatus, error) {
	provider, err := newProvider(pool)
	if err != nil {
		return nil, err
	}
	defer func() { _ = provider.Close() }()

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "migration status")
	}
	return statuses, nil
}

func newProvider(pool *pgxpool.Pool) (*goose.Provider, error) {
	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, FS)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create migration provider")
	}
	return provider, nil
}

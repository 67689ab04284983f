package itf

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/actiontracker/tracker/migrations"
	"github.com/actiontracker/tracker/pkg/composables"
)

// TestContext provides a fluent API for building test contexts
type TestContext struct {
	ctx    context.Context
	logger *logrus.Logger
	dbName string
}

func NewTestContext() *TestContext {
	return &TestContext{ctx: context.Background()}
}

// WithDBName sets a custom database name
func (tc *TestContext) WithDBName(tb testing.TB, name string) *TestContext {
	tb.Helper()
	if tc.dbName == "" {
		tc.dbName = name
	}
	return tc
}

func (tc *TestContext) WithLogger(logger *logrus.Logger) *TestContext {
	tc.logger = logger
	return tc
}

// Build creates a fresh migrated database and a context bound to its pool.
// The test is skipped when Postgres is not reachable outside CI.
func (tc *TestContext) Build(tb testing.TB) *TestEnvironment {
	tb.Helper()
	RequirePostgres(tb)

	if tc.dbName == "" {
		tc.dbName = tb.Name()
	}
	CreateDB(tc.dbName)
	pool := NewPool(DbOpts(tc.dbName))
	tb.Cleanup(pool.Close)

	if _, err := migrations.Up(tc.ctx, pool); err != nil {
		tb.Fatal(err)
	}

	logger := tc.logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	ctx := composables.WithPool(tc.ctx, pool)
	ctx = composables.WithLogger(ctx, logrus.NewEntry(logger))

	return &TestEnvironment{Ctx: ctx, Pool: pool}
}

// Setup is shorthand for NewTestContext().Build(tb).
func Setup(tb testing.TB) *TestEnvironment {
	tb.Helper()
	return NewTestContext().Build(tb)
}

type TestEnvironment struct {
	Ctx  context.Context
	Pool *pgxpool.Pool
}

// Count returns the number of rows in table.
func (te *TestEnvironment) Count(tb testing.TB, table string) int {
	tb.Helper()
	var n int
	if err := te.Pool.QueryRow(te.Ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		tb.Fatal(err)
	}
	return n
}

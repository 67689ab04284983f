package composables

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// fakeTx implements only the pgx.Tx methods runInTx touches.
type fakeTx struct {
	pgx.Tx
	committed   bool
	rolledBack  bool
	rollbackErr error
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return f.rollbackErr
}

func TestUseTx_FallsBackToPool(t *testing.T) {
	_, err := UseTx(context.Background())
	require.ErrorIs(t, err, ErrNoPool)

	tx := &fakeTx{}
	got, err := UseTx(WithTx(context.Background(), tx))
	require.NoError(t, err)
	require.Same(t, tx, got)
}

func TestInTx_RequiresPool(t *testing.T) {
	err := InTx(context.Background(), func(context.Context) error { return nil })
	require.ErrorIs(t, err, ErrNoPool)
}

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	err := runInTx(context.Background(), tx, func(ctx context.Context) error {
		got, err := UseTx(ctx)
		require.NoError(t, err)
		require.Same(t, tx, got)
		return nil
	})
	require.NoError(t, err)
	require.True(t, tx.committed)
	require.False(t, tx.rolledBack)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	boom := errors.New("boom")
	rbErr := errors.New("conn closed")
	tx := &fakeTx{rollbackErr: rbErr}

	err := runInTx(context.Background(), tx, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, rbErr)
	require.True(t, tx.rolledBack)
	require.False(t, tx.committed)
}

func TestUseLogger_FallsBackToStandardLogger(t *testing.T) {
	require.Equal(t, logrus.StandardLogger(), UseLogger(context.Background()).Logger)

	entry := logrus.NewEntry(logrus.New()).WithField("run_id", "x")
	require.Same(t, entry, UseLogger(WithLogger(context.Background(), entry)))
}

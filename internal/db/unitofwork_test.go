package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countLists(t *testing.T, database DBTX) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM lists").Scan(&n))
	return n
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	uow := NewSQLiteUnitOfWork(database)
	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO lists (id, name, color, sort_order) VALUES ('a', 'A', '#fff', 1)")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 2, countLists(t, database)) // inbox + a
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	boom := errors.New("boom")
	uow := NewSQLiteUnitOfWork(database)
	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO lists (id, name, color, sort_order) VALUES ('a', 'A', '#fff', 1)"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 1, countLists(t, database), "only the seeded inbox survives")
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	uow := NewSQLiteUnitOfWork(database)
	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO lists (id, name, color, sort_order) VALUES ('a', 'A', '#fff', 1)"); err != nil {
				return err
			}
			panic("midway")
		})
	})

	assert.Equal(t, 1, countLists(t, database))
}

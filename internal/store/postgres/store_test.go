package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/pawsit/pawsit/internal/domain"
)

func newStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewWithDB(mock), mock
}

func TestStore_InTx_CommitsOnSuccess(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := s.InTx(context.Background(), func(tx *Store) error {
		return tx.Reviews().Delete(context.Background(), 7)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InTx_RollsBackOnError(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx *Store) error {
		return tx.Reviews().Delete(context.Background(), 7)
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InTx_RollsBackOnNotFound(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE reviews SET`).
		WithArgs(5, "late", int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx *Store) error {
		return tx.Reviews().Update(context.Background(), &domain.Review{ID: 99, Rating: 5, Comment: "late"})
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

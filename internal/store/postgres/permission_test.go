package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/pawsit/pawsit/internal/domain"
)

// expectReplace registers the transactional delete-then-insert sequence for
// one Replace call. pgxmock enforces statement order, which is the load-
// bearing property here: the clear must commit its effect before the insert's
// unique check runs, so the two cannot share a statement. The server-side
// constraint behavior itself is beyond a mock pool.
func expectReplace(mock pgxmock.PgxPoolIface, userID int64, resources, levels []string) {
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_permissions WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if len(resources) > 0 {
		mock.ExpectExec(`INSERT INTO user_permissions`).
			WithArgs(userID, resources, levels).
			WillReturnResult(pgxmock.NewResult("INSERT", int64(len(resources))))
	}
	mock.ExpectCommit()
}

func TestPermissionRepo_Replace(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	expectReplace(mock, 5, []string{"dogs"}, []string{"write"})

	err := NewPermissionRepo(s.db).Replace(context.Background(), 5, domain.GrantMap{
		domain.ResourceDogs: domain.PermissionWrite,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepo_Replace_ResourceSurvivingRecompute(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	// Steady state: the same resource is present before and after a
	// recompute, only its level changes. Each pass must clear the old row
	// before reinserting the key.
	expectReplace(mock, 5, []string{"dogs"}, []string{"write"})
	expectReplace(mock, 5, []string{"dogs"}, []string{"admin"})

	repo := NewPermissionRepo(s.db)
	require.NoError(t, repo.Replace(context.Background(), 5, domain.GrantMap{
		domain.ResourceDogs: domain.PermissionWrite,
	}))
	require.NoError(t, repo.Replace(context.Background(), 5, domain.GrantMap{
		domain.ResourceDogs: domain.PermissionAdmin,
	}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepo_Replace_EmptyMapClearsAll(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	expectReplace(mock, 5, nil, nil)

	err := NewPermissionRepo(s.db).Replace(context.Background(), 5, domain.GrantMap{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepo_Replace_InsertFailureRollsBack(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_permissions WHERE user_id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	boom := errors.New("boom")
	mock.ExpectExec(`INSERT INTO user_permissions`).
		WithArgs(int64(5), []string{"dogs"}, []string{"write"}).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := NewPermissionRepo(s.db).Replace(context.Background(), 5, domain.GrantMap{
		domain.ResourceDogs: domain.PermissionWrite,
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepo_Get(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT resource, permission FROM user_permissions WHERE user_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"resource", "permission"}).
			AddRow("dogs", "write").
			AddRow("bookings", "read"))

	perms, err := NewPermissionRepo(s.db).Get(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, domain.GrantMap{
		domain.ResourceDogs:     domain.PermissionWrite,
		domain.ResourceBookings: domain.PermissionRead,
	}, perms)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepo_Level_AbsentRowIsNotAnError(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT permission FROM user_permissions WHERE user_id = \$1 AND resource = \$2`).
		WithArgs(int64(5), domain.ResourceDogs).
		WillReturnRows(pgxmock.NewRows([]string{"permission"}))

	level, ok, err := NewPermissionRepo(s.db).Level(context.Background(), 5, domain.ResourceDogs)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, level)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepo_Level(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT permission FROM user_permissions WHERE user_id = \$1 AND resource = \$2`).
		WithArgs(int64(5), domain.ResourceDogs).
		WillReturnRows(pgxmock.NewRows([]string{"permission"}).AddRow("admin"))

	level, ok, err := NewPermissionRepo(s.db).Level(context.Background(), 5, domain.ResourceDogs)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.PermissionAdmin, level)
	require.NoError(t, mock.ExpectationsWereMet())
}

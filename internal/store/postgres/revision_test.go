package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/pawsit/pawsit/internal/domain"
)

func TestRevisionRepo_Create(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	actor := int64(12)
	rev := &domain.Revision{
		Resource:      domain.ResourceDogs,
		RecordID:      "3",
		ActorID:       &actor,
		Action:        domain.ActionUpdate,
		Before:        domain.Snapshot{"id": int64(3), "name": "Rex"},
		After:         domain.Snapshot{"id": int64(3), "name": "Rexford"},
		ChangedFields: []string{"name"},
		CreatedAt:     time.Now(),
	}

	before, err := json.Marshal(rev.Before)
	require.NoError(t, err)
	after, err := json.Marshal(rev.After)
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO revisions`).
		WithArgs(rev.Resource, rev.RecordID, rev.ActorID, rev.Action,
			before, after, rev.ChangedFields, rev.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(41)))

	err = NewRevisionRepo(s.db).Create(context.Background(), rev)
	require.NoError(t, err)
	require.Equal(t, int64(41), rev.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepo_Create_NilSnapshotsStayNull(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	rev := &domain.Revision{
		Resource:      domain.ResourceDogs,
		RecordID:      "3",
		Action:        domain.ActionInsert,
		After:         domain.Snapshot{"id": int64(3)},
		ChangedFields: []string{"id"},
		CreatedAt:     time.Now(),
	}

	after, err := json.Marshal(rev.After)
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO revisions`).
		WithArgs(rev.Resource, rev.RecordID, (*int64)(nil), rev.Action,
			[]byte(nil), after, rev.ChangedFields, rev.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	err = NewRevisionRepo(s.db).Create(context.Background(), rev)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepo_GetByID_NotFound(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM revisions WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "resource", "record_id", "actor_id", "action",
			"old_values", "new_values", "changed_fields", "created_at",
		}))

	_, err := NewRevisionRepo(s.db).GetByID(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepo_List_FiltersByResourceAndField(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	now := time.Now()
	after, err := json.Marshal(map[string]any{"id": 3, "name": "Rex"})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .+ FROM revisions WHERE resource = \$1 AND changed_fields @> ARRAY\[\$2\] ORDER BY created_at DESC, id DESC LIMIT \$3`).
		WithArgs(domain.ResourceDogs, "name", 100).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "resource", "record_id", "actor_id", "action",
			"old_values", "new_values", "changed_fields", "created_at",
		}).AddRow(
			int64(9), domain.ResourceDogs, "3", (*int64)(nil), domain.ActionInsert,
			[]byte(nil), after, []string{"id", "name"}, now,
		))

	revs, err := NewRevisionRepo(s.db).List(context.Background(), domain.RevisionFilter{
		Resource: domain.ResourceDogs,
		Field:    "name",
	})
	require.NoError(t, err)
	require.Len(t, revs, 1)
	require.Equal(t, int64(9), revs[0].ID)
	require.Nil(t, revs[0].Before)
	require.Equal(t, "Rex", revs[0].After["name"])
	require.Equal(t, []string{"id", "name"}, revs[0].ChangedFields)
	require.NoError(t, mock.ExpectationsWereMet())
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pawsit/pawsit/internal/domain"
)

// RevisionRepo is the append-only revision store. It intentionally has no
// update or delete statements.
type RevisionRepo struct {
	db DBTX
}

func NewRevisionRepo(db DBTX) *RevisionRepo {
	return &RevisionRepo{db: db}
}

func (r *RevisionRepo) Create(ctx context.Context, rev *domain.Revision) error {
	before, after, err := marshalSnapshots(rev.Before, rev.After)
	if err != nil {
		return fmt.Errorf("revisionRepo.Create: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO revisions (resource, record_id, actor_id, action, old_values, new_values, changed_fields, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		rev.Resource, rev.RecordID, rev.ActorID, rev.Action,
		before, after, rev.ChangedFields, rev.CreatedAt,
	).Scan(&rev.ID)
	if err != nil {
		return fmt.Errorf("revisionRepo.Create: %w", err)
	}

	return nil
}

func (r *RevisionRepo) GetByID(ctx context.Context, id int64) (*domain.Revision, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, resource, record_id, actor_id, action, old_values, new_values, changed_fields, created_at
		 FROM revisions WHERE id = $1`,
		id,
	)

	rev, err := scanRevision(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("revisionRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("revisionRepo.GetByID: %w", err)
	}

	return rev, nil
}

// List returns revisions matching the filter, newest first.
func (r *RevisionRepo) List(ctx context.Context, filter domain.RevisionFilter) ([]*domain.Revision, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Resource != "" {
		where = append(where, "resource = "+arg(filter.Resource))
	}
	if filter.RecordID != "" {
		where = append(where, "record_id = "+arg(filter.RecordID))
	}
	if filter.ActorID != nil {
		where = append(where, "actor_id = "+arg(*filter.ActorID))
	}
	if !filter.Since.IsZero() {
		where = append(where, "created_at >= "+arg(filter.Since))
	}
	if !filter.Until.IsZero() {
		where = append(where, "created_at < "+arg(filter.Until))
	}
	if filter.Field != "" {
		// GIN-indexed containment: "who touched field X".
		where = append(where, "changed_fields @> ARRAY["+arg(filter.Field)+"]")
	}

	query := `SELECT id, resource, record_id, actor_id, action, old_values, new_values, changed_fields, created_at
		 FROM revisions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT " + arg(limit)
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("revisionRepo.List: %w", err)
	}
	defer rows.Close()

	var revs []*domain.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("revisionRepo.List: scan: %w", err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("revisionRepo.List: rows: %w", err)
	}

	return revs, nil
}

func marshalSnapshots(before, after domain.Snapshot) ([]byte, []byte, error) {
	var (
		beforeJSON, afterJSON []byte
		err                   error
	)
	if before != nil {
		beforeJSON, err = json.Marshal(before)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal old_values: %w", err)
		}
	}
	if after != nil {
		afterJSON, err = json.Marshal(after)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal new_values: %w", err)
		}
	}
	return beforeJSON, afterJSON, nil
}

func scanRevision(row pgx.Row) (*domain.Revision, error) {
	var (
		rev           domain.Revision
		before, after []byte
	)

	err := row.Scan(
		&rev.ID, &rev.Resource, &rev.RecordID, &rev.ActorID, &rev.Action,
		&before, &after, &rev.ChangedFields, &rev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(before) > 0 {
		if err := json.Unmarshal(before, &rev.Before); err != nil {
			return nil, fmt.Errorf("unmarshal old_values: %w", err)
		}
	}
	if len(after) > 0 {
		if err := json.Unmarshal(after, &rev.After); err != nil {
			return nil, fmt.Errorf("unmarshal new_values: %w", err)
		}
	}

	return &rev, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pawsit/pawsit/internal/domain"
)

// PermissionRepo stores the materialized per-user effective permissions.
// Only the permission resolver writes through it.
type PermissionRepo struct {
	db DB
}

func NewPermissionRepo(db DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

// Replace swaps a user's whole permission map inside one transaction, so a
// concurrent reader sees either the old map or the new one, never a mix.
// The delete must run as its own statement before the insert: folding it
// into a data-modifying CTE leaves the insert's unique check looking at the
// old rows, which violates the primary key whenever a resource survives a
// recompute.
func (r *PermissionRepo) Replace(ctx context.Context, userID int64, perms domain.GrantMap) error {
	resources := make([]string, 0, len(perms))
	levels := make([]string, 0, len(perms))
	for res, level := range perms {
		resources = append(resources, string(res))
		levels = append(levels, string(level))
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("permissionRepo.Replace: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`DELETE FROM user_permissions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("permissionRepo.Replace: clear user %d: %w", userID, err)
	}

	if len(perms) > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO user_permissions (user_id, resource, permission)
			 SELECT $1, t.resource::resource_name, t.permission::permission_level
			 FROM unnest($2::text[], $3::text[]) AS t(resource, permission)`,
			userID, resources, levels,
		)
		if err != nil {
			return fmt.Errorf("permissionRepo.Replace: user %d: %w", userID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("permissionRepo.Replace: commit: %w", err)
	}

	return nil
}

func (r *PermissionRepo) Get(ctx context.Context, userID int64) (domain.GrantMap, error) {
	rows, err := r.db.Query(ctx,
		`SELECT resource, permission FROM user_permissions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("permissionRepo.Get: %w", err)
	}
	defer rows.Close()

	perms := make(domain.GrantMap)
	for rows.Next() {
		var res, level string
		if err := rows.Scan(&res, &level); err != nil {
			return nil, fmt.Errorf("permissionRepo.Get: scan: %w", err)
		}
		perms[domain.Resource(res)] = domain.PermissionLevel(level)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("permissionRepo.Get: rows: %w", err)
	}

	return perms, nil
}

// Level reads one entry of the materialized map. A missing row means the user
// has no grant on the resource; it is not an error.
func (r *PermissionRepo) Level(ctx context.Context, userID int64, res domain.Resource) (domain.PermissionLevel, bool, error) {
	var level string

	err := r.db.QueryRow(ctx,
		`SELECT permission FROM user_permissions WHERE user_id = $1 AND resource = $2`,
		userID, res,
	).Scan(&level)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("permissionRepo.Level: %w", err)
	}

	return domain.PermissionLevel(level), true, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pawsit/pawsit/internal/domain"
)

type GroupRepo struct {
	db DBTX
}

func NewGroupRepo(db DBTX) *GroupRepo {
	return &GroupRepo{db: db}
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.UserGroup) error {
	perms, err := marshalGrants(g.Permissions)
	if err != nil {
		return fmt.Errorf("groupRepo.Create: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO user_groups (name, description, permissions, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		g.Name, g.Description, perms, g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("groupRepo.Create: %w", err)
	}

	return nil
}

func (r *GroupRepo) GetByID(ctx context.Context, id int64) (*domain.UserGroup, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, description, permissions, created_at, updated_at
		 FROM user_groups WHERE id = $1`,
		id,
	)

	g, err := scanGroup(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("groupRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("groupRepo.GetByID: %w", err)
	}

	return g, nil
}

func (r *GroupRepo) GetByName(ctx context.Context, name string) (*domain.UserGroup, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, description, permissions, created_at, updated_at
		 FROM user_groups WHERE name = $1`,
		name,
	)

	g, err := scanGroup(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("groupRepo.GetByName: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("groupRepo.GetByName: %w", err)
	}

	return g, nil
}

func (r *GroupRepo) Update(ctx context.Context, g *domain.UserGroup) error {
	perms, err := marshalGrants(g.Permissions)
	if err != nil {
		return fmt.Errorf("groupRepo.Update: %w", err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE user_groups SET name = $1, description = $2, permissions = $3, updated_at = now()
		 WHERE id = $4`,
		g.Name, g.Description, perms, g.ID,
	)
	if err != nil {
		return fmt.Errorf("groupRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("groupRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *GroupRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("groupRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("groupRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *GroupRepo) List(ctx context.Context) ([]*domain.UserGroup, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, permissions, created_at, updated_at
		 FROM user_groups ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.List: %w", err)
	}
	defer rows.Close()

	var groups []*domain.UserGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("groupRepo.List: scan: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("groupRepo.List: rows: %w", err)
	}

	return groups, nil
}

func (r *GroupRepo) AddMember(ctx context.Context, userID, groupID int64) (*domain.GroupMembership, error) {
	m := &domain.GroupMembership{UserID: userID, GroupID: groupID}

	err := r.db.QueryRow(ctx,
		`INSERT INTO user_group_memberships (user_id, group_id)
		 VALUES ($1, $2)
		 RETURNING created_at`,
		userID, groupID,
	).Scan(&m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.AddMember: %w", err)
	}

	return m, nil
}

// RemoveMember deletes the membership and returns the removed row so the
// caller can record its pre-image.
func (r *GroupRepo) RemoveMember(ctx context.Context, userID, groupID int64) (*domain.GroupMembership, error) {
	m := &domain.GroupMembership{UserID: userID, GroupID: groupID}

	err := r.db.QueryRow(ctx,
		`DELETE FROM user_group_memberships
		 WHERE user_id = $1 AND group_id = $2
		 RETURNING created_at`,
		userID, groupID,
	).Scan(&m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("groupRepo.RemoveMember: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("groupRepo.RemoveMember: %w", err)
	}

	return m, nil
}

func (r *GroupRepo) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM user_group_memberships WHERE group_id = $1`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.MemberIDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("groupRepo.MemberIDs: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("groupRepo.MemberIDs: rows: %w", err)
	}

	return ids, nil
}

func (r *GroupRepo) GroupsForUser(ctx context.Context, userID int64) ([]*domain.UserGroup, error) {
	rows, err := r.db.Query(ctx,
		`SELECT g.id, g.name, g.description, g.permissions, g.created_at, g.updated_at
		 FROM user_groups g
		 JOIN user_group_memberships m ON m.group_id = g.id
		 WHERE m.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.GroupsForUser: %w", err)
	}
	defer rows.Close()

	var groups []*domain.UserGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("groupRepo.GroupsForUser: scan: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("groupRepo.GroupsForUser: rows: %w", err)
	}

	return groups, nil
}

func marshalGrants(grants domain.GrantMap) ([]byte, error) {
	flat := make(map[string]string, len(grants))
	for res, level := range grants {
		flat[string(res)] = string(level)
	}
	data, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("marshal permissions: %w", err)
	}
	return data, nil
}

func scanGroup(row pgx.Row) (*domain.UserGroup, error) {
	var (
		g     domain.UserGroup
		perms []byte
	)

	err := row.Scan(&g.ID, &g.Name, &g.Description, &perms, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	flat := make(map[string]string)
	if len(perms) > 0 {
		if err := json.Unmarshal(perms, &flat); err != nil {
			return nil, fmt.Errorf("unmarshal permissions: %w", err)
		}
	}

	g.Permissions = make(domain.GrantMap, len(flat))
	for res, level := range flat {
		g.Permissions[domain.Resource(res)] = domain.PermissionLevel(level)
	}

	return &g, nil
}

package domain

import (
	"context"
	"fmt"
	"time"
)

// GrantMap maps a resource to the permission level a group grants on it.
// Resources absent from the map carry no grant at all.
type GrantMap map[Resource]PermissionLevel

// Validate rejects grants naming an unknown resource or level. The analog of
// the write-time check the admin API applies before persisting a group.
func (g GrantMap) Validate() error {
	for res, level := range g {
		if !res.Valid() {
			return fmt.Errorf("grant for %q: %w", res, ErrInvalidResource)
		}
		if !level.Valid() {
			return fmt.Errorf("grant %q for %q: %w", level, res, ErrInvalidPermission)
		}
	}
	return nil
}

// Equal reports whether two grant maps carry exactly the same grants.
func (g GrantMap) Equal(other GrantMap) bool {
	if len(g) != len(other) {
		return false
	}
	for res, level := range g {
		if other[res] != level {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the grant map.
func (g GrantMap) Clone() GrantMap {
	if g == nil {
		return nil
	}
	out := make(GrantMap, len(g))
	for res, level := range g {
		out[res] = level
	}
	return out
}

// FullGrant returns a grant map giving level on every tracked resource.
func FullGrant(level PermissionLevel) GrantMap {
	out := make(GrantMap, len(Resources()))
	for _, res := range Resources() {
		out[res] = level
	}
	return out
}

// UserGroup is a named permission group. Its grants are the sole source of
// the permissions its members receive.
type UserGroup struct {
	ID          int64
	Name        string
	Description string
	Permissions GrantMap
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GroupMembership links a user to a group. Identified by the (user, group)
// pair; mutating this relation triggers permission recomputation.
type GroupMembership struct {
	UserID    int64
	GroupID   int64
	CreatedAt time.Time
}

// Snapshot returns the membership's audit snapshot.
func (m *GroupMembership) Snapshot() Snapshot {
	return Snapshot{
		"user_id":    m.UserID,
		"group_id":   m.GroupID,
		"created_at": m.CreatedAt,
	}
}

// Snapshot returns the group's audit snapshot.
func (g *UserGroup) Snapshot() Snapshot {
	perms := make(map[string]string, len(g.Permissions))
	for res, level := range g.Permissions {
		perms[string(res)] = string(level)
	}
	return Snapshot{
		"id":          g.ID,
		"name":        g.Name,
		"description": g.Description,
		"permissions": perms,
		"created_at":  g.CreatedAt,
		"updated_at":  g.UpdatedAt,
	}
}

// GroupRepository manages groups and their memberships.
type GroupRepository interface {
	Create(ctx context.Context, g *UserGroup) error
	GetByID(ctx context.Context, id int64) (*UserGroup, error)
	GetByName(ctx context.Context, name string) (*UserGroup, error)
	Update(ctx context.Context, g *UserGroup) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*UserGroup, error)

	// Memberships.
	AddMember(ctx context.Context, userID, groupID int64) (*GroupMembership, error)
	RemoveMember(ctx context.Context, userID, groupID int64) (*GroupMembership, error)
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
	GroupsForUser(ctx context.Context, userID int64) ([]*UserGroup, error)
}

// EffectivePermissionRepository is the materialized per-user resource->level
// store. Only the permission resolver writes it; Replace swaps a user's
// whole map atomically so readers never observe a partial update.
type EffectivePermissionRepository interface {
	Replace(ctx context.Context, userID int64, perms GrantMap) error
	Get(ctx context.Context, userID int64) (GrantMap, error)
	Level(ctx context.Context, userID int64, res Resource) (PermissionLevel, bool, error)
}

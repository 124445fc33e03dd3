// Package permission maintains each user's effective permission map: the
// union, by strongest level, of every grant from the groups the user belongs
// to. Recomputation is triggered by membership and group-grant changes; the
// materialized map is the only thing the authorization layer reads.
package permission

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pawsit/pawsit/internal/domain"
)

// defaultCascadeLimit bounds how many members of a group are recomputed in
// parallel when the group's grants change.
const defaultCascadeLimit = 8

// GroupSource is the slice of the group store the resolver reads: the fresh
// membership and grant state a recomputation derives from.
type GroupSource interface {
	GroupsForUser(ctx context.Context, userID int64) ([]*domain.UserGroup, error)
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

// Notifier broadcasts that a user's effective permissions were replaced.
// Delivery is best-effort; failures are logged, never propagated.
type Notifier interface {
	PermissionsChanged(ctx context.Context, userID int64) error
}

// Resolver owns the materialized effective-permission store. It is the only
// writer; per-user recomputations are serialized while recomputations for
// different users run independently.
type Resolver struct {
	groups    GroupSource
	effective domain.EffectivePermissionRepository
	notifier  Notifier // nil disables broadcasting
	log       zerolog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewResolver creates a Resolver. notifier may be nil.
func NewResolver(groups GroupSource, effective domain.EffectivePermissionRepository, notifier Notifier, log zerolog.Logger) *Resolver {
	return &Resolver{
		groups:    groups,
		effective: effective,
		notifier:  notifier,
		log:       log,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// OnMembershipChanged recomputes one user's effective permissions after a
// membership row involving that user was inserted or deleted.
func (r *Resolver) OnMembershipChanged(ctx context.Context, userID int64) error {
	if err := r.recompute(ctx, userID); err != nil {
		return fmt.Errorf("permission.OnMembershipChanged: user %d: %w", userID, err)
	}
	return nil
}

// OnGroupPermissionsChanged recomputes every current member of the group.
// Each member is recomputed independently: one failure neither aborts the
// rest of the cascade nor hides other failures, which are joined into the
// returned error. Parallelism is bounded so a large group cannot fan out
// without limit.
func (r *Resolver) OnGroupPermissionsChanged(ctx context.Context, groupID int64) error {
	members, err := r.groups.MemberIDs(ctx, groupID)
	if err != nil {
		return fmt.Errorf("permission.OnGroupPermissionsChanged: group %d: %w", groupID, err)
	}

	var (
		errMu sync.Mutex
		errs  []error
	)

	var eg errgroup.Group
	eg.SetLimit(defaultCascadeLimit)
	for _, userID := range members {
		eg.Go(func() error {
			if rerr := r.recompute(ctx, userID); rerr != nil {
				r.log.Warn().Err(rerr).
					Int64("user_id", userID).
					Int64("group_id", groupID).
					Msg("permission: cascade recomputation failed for user")
				errMu.Lock()
				errs = append(errs, fmt.Errorf("user %d: %w", userID, rerr))
				errMu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("permission.OnGroupPermissionsChanged: group %d: %w", groupID, errors.Join(errs...))
	}
	return nil
}

// EffectivePermission reads the materialized level a user holds on a
// resource. It never recomputes; a user with no materialized entry simply has
// no permissions.
func (r *Resolver) EffectivePermission(ctx context.Context, userID int64, res domain.Resource) (domain.PermissionLevel, bool, error) {
	level, ok, err := r.effective.Level(ctx, userID, res)
	if err != nil {
		return "", false, fmt.Errorf("permission.EffectivePermission: user %d: %w", userID, err)
	}
	return level, ok, nil
}

// EffectivePermissions reads a user's whole materialized map, for the admin
// display API.
func (r *Resolver) EffectivePermissions(ctx context.Context, userID int64) (domain.GrantMap, error) {
	perms, err := r.effective.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("permission.EffectivePermissions: user %d: %w", userID, err)
	}
	return perms, nil
}

// recompute rebuilds one user's map from current source state and replaces
// the stored map atomically. The per-user lock serializes racing triggers;
// source state is read under the lock, so the last recomputation to run wins
// with fresh data rather than a stale pre-trigger snapshot.
func (r *Resolver) recompute(ctx context.Context, userID int64) error {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	groups, err := r.groups.GroupsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading groups: %w", err)
	}

	merged := Merge(groups)

	if err := r.effective.Replace(ctx, userID, merged); err != nil {
		return fmt.Errorf("replacing effective permissions: %w", err)
	}

	if r.notifier != nil {
		if nerr := r.notifier.PermissionsChanged(ctx, userID); nerr != nil {
			r.log.Warn().Err(nerr).Int64("user_id", userID).Msg("permission: change broadcast failed")
		}
	}

	return nil
}

// Merge combines group grant maps by strongest level. Resources granted by
// no group are absent from the result; unknown levels never win a merge.
func Merge(groups []*domain.UserGroup) domain.GrantMap {
	merged := make(domain.GrantMap)
	for _, g := range groups {
		for res, level := range g.Permissions {
			if !level.Valid() {
				continue
			}
			if current, ok := merged[res]; ok {
				merged[res] = domain.MaxLevel(current, level)
			} else {
				merged[res] = level
			}
		}
	}
	return merged
}

// userLock returns the mutex serializing recomputations for one user. Locks
// are retained for the life of the resolver; the map grows with the set of
// users ever recomputed.
func (r *Resolver) userLock(userID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}

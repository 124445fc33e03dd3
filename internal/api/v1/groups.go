package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pawsit/pawsit/internal/domain"
)

type CreateGroupInput struct {
	Body struct {
		Name        string            `json:"name" minLength:"1" maxLength:"255" doc:"Group name"`
		Description string            `json:"description,omitempty" maxLength:"1024"`
		Permissions map[string]string `json:"permissions,omitempty" doc:"Resource to permission level grants"`
	}
}

type CreateGroupOutput struct {
	Body *domain.UserGroup `json:"group"`
}

type ListGroupsOutput struct {
	Body []*domain.UserGroup `json:"groups"`
}

type GetGroupInput struct {
	ID int64 `path:"id" doc:"Group ID"`
}

type GetGroupOutput struct {
	Body *domain.UserGroup `json:"group"`
}

type UpdateGroupInput struct {
	ID   int64 `path:"id" doc:"Group ID"`
	Body struct {
		Name        *string `json:"name,omitempty" maxLength:"255"`
		Description *string `json:"description,omitempty" maxLength:"1024"`
	}
}

type UpdateGroupOutput struct {
	Body *domain.UserGroup `json:"group"`
}

type SetGroupPermissionsInput struct {
	ID   int64 `path:"id" doc:"Group ID"`
	Body struct {
		Permissions map[string]string `json:"permissions" doc:"Resource to permission level grants; replaces the full set"`
	}
}

type SetGroupPermissionsOutput struct {
	Body *domain.UserGroup `json:"group"`
}

type DeleteGroupInput struct {
	ID int64 `path:"id" doc:"Group ID"`
}

type AddMemberInput struct {
	GroupID int64 `path:"id" doc:"Group ID"`
	Body    struct {
		UserID int64 `json:"user_id" doc:"User to add"`
	}
}

type AddMemberOutput struct {
	Body *domain.GroupMembership `json:"membership"`
}

type RemoveMemberInput struct {
	GroupID int64 `path:"id" doc:"Group ID"`
	UserID  int64 `path:"userID" doc:"User to remove"`
}

type ListMembersInput struct {
	GroupID int64 `path:"id" doc:"Group ID"`
}

type ListMembersOutput struct {
	Body struct {
		UserIDs []int64 `json:"user_ids"`
	}
}

// grantMapFromBody converts the wire form of a grant set and validates it
// against the closed resource and level sets.
func grantMapFromBody(raw map[string]string) (domain.GrantMap, error) {
	grants := make(domain.GrantMap, len(raw))
	for res, level := range raw {
		grants[domain.Resource(res)] = domain.PermissionLevel(level)
	}
	if err := grants.Validate(); err != nil {
		return nil, err
	}
	return grants, nil
}

func RegisterGroupRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder, perms PermissionCascader) {
	huma.Register(api, huma.Operation{
		OperationID: "create-group",
		Method:      http.MethodPost,
		Path:        "/groups",
		Summary:     "Create a permission group",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *CreateGroupInput) (*CreateGroupOutput, error) {
		grants, err := grantMapFromBody(input.Body.Permissions)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		g := &domain.UserGroup{
			Name:        input.Body.Name,
			Description: input.Body.Description,
			Permissions: grants,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Groups().Create(ctx, g); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceUserGroups, domain.ActionInsert, nil, g.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create group", err)
		}

		return &CreateGroupOutput{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-groups",
		Method:      http.MethodGet,
		Path:        "/groups",
		Summary:     "List permission groups",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, _ *struct{}) (*ListGroupsOutput, error) {
		groups, err := store.Groups().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list groups", err)
		}
		return &ListGroupsOutput{Body: groups}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-group",
		Method:      http.MethodGet,
		Path:        "/groups/{id}",
		Summary:     "Get a group by ID",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *GetGroupInput) (*GetGroupOutput, error) {
		g, err := store.Groups().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("group not found")
			}
			return nil, huma.Error500InternalServerError("failed to get group", err)
		}
		return &GetGroupOutput{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-group",
		Method:      http.MethodPut,
		Path:        "/groups/{id}",
		Summary:     "Rename or describe a group",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *UpdateGroupInput) (*UpdateGroupOutput, error) {
		g, err := store.Groups().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("group not found")
			}
			return nil, huma.Error500InternalServerError("failed to get group", err)
		}

		before := g.Snapshot()
		if input.Body.Name != nil {
			g.Name = *input.Body.Name
		}
		if input.Body.Description != nil {
			g.Description = *input.Body.Description
		}
		g.UpdatedAt = time.Now()

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Groups().Update(ctx, g); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceUserGroups, domain.ActionUpdate, before, g.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update group", err)
		}

		return &UpdateGroupOutput{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-group-permissions",
		Method:      http.MethodPut,
		Path:        "/groups/{id}/permissions",
		Summary:     "Replace a group's grants",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *SetGroupPermissionsInput) (*SetGroupPermissionsOutput, error) {
		grants, err := grantMapFromBody(input.Body.Permissions)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		g, err := store.Groups().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("group not found")
			}
			return nil, huma.Error500InternalServerError("failed to get group", err)
		}

		// Identical grants change nothing: no revision, no cascade.
		if g.Permissions.Equal(grants) {
			return &SetGroupPermissionsOutput{Body: g}, nil
		}

		before := g.Snapshot()
		g.Permissions = grants
		g.UpdatedAt = time.Now()

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Groups().Update(ctx, g); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceGroupPermissions, domain.ActionUpdate, before, g.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update group grants", err)
		}

		// Cascade after commit so recomputations read the new grants.
		if err := perms.OnGroupPermissionsChanged(ctx, g.ID); err != nil {
			return nil, huma.Error500InternalServerError("grants saved but permission recompute failed", err)
		}

		return &SetGroupPermissionsOutput{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-group",
		Method:      http.MethodDelete,
		Path:        "/groups/{id}",
		Summary:     "Delete a group",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *DeleteGroupInput) (*struct{}, error) {
		g, err := store.Groups().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("group not found")
			}
			return nil, huma.Error500InternalServerError("failed to get group", err)
		}

		// Membership rows go with the group. Capture who needs a recompute
		// inside the delete's transaction, so a membership committed after
		// the handler started is still in the captured set.
		var members []int64
		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			members, err = txs.Groups().MemberIDs(ctx, input.ID)
			if err != nil {
				return err
			}
			if err := txs.Groups().Delete(ctx, input.ID); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceUserGroups, domain.ActionDelete, g.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("group not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete group", err)
		}

		var cascadeErrs []error
		for _, userID := range members {
			if err := perms.OnMembershipChanged(ctx, userID); err != nil {
				cascadeErrs = append(cascadeErrs, err)
			}
		}
		if len(cascadeErrs) > 0 {
			return nil, huma.Error500InternalServerError("group deleted but permission recompute failed", errors.Join(cascadeErrs...))
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-group-member",
		Method:      http.MethodPost,
		Path:        "/groups/{id}/members",
		Summary:     "Add a user to a group",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *AddMemberInput) (*AddMemberOutput, error) {
		if _, err := store.Groups().GetByID(ctx, input.GroupID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("group not found")
			}
			return nil, huma.Error500InternalServerError("failed to get group", err)
		}
		if _, err := store.Users().GetByID(ctx, input.Body.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		var m *domain.GroupMembership
		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			var err error
			m, err = txs.Groups().AddMember(ctx, input.Body.UserID, input.GroupID)
			if err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceUserGroupMemberships, domain.ActionInsert, nil, m.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to add member", err)
		}

		if err := perms.OnMembershipChanged(ctx, input.Body.UserID); err != nil {
			return nil, huma.Error500InternalServerError("member added but permission recompute failed", err)
		}

		return &AddMemberOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-group-member",
		Method:      http.MethodDelete,
		Path:        "/groups/{id}/members/{userID}",
		Summary:     "Remove a user from a group",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			m, err := txs.Groups().RemoveMember(ctx, input.UserID, input.GroupID)
			if err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceUserGroupMemberships, domain.ActionDelete, m.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("membership not found")
			}
			return nil, huma.Error500InternalServerError("failed to remove member", err)
		}

		if err := perms.OnMembershipChanged(ctx, input.UserID); err != nil {
			return nil, huma.Error500InternalServerError("member removed but permission recompute failed", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-group-members",
		Method:      http.MethodGet,
		Path:        "/groups/{id}/members",
		Summary:     "List a group's member IDs",
		Tags:        []string{"Groups"},
	}, func(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
		ids, err := store.Groups().MemberIDs(ctx, input.GroupID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}

		out := &ListMembersOutput{}
		out.Body.UserIDs = ids
		return out, nil
	})
}

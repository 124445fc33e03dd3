package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/server/middleware"
)

type ListUsersInput struct {
	Limit  int `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Page size"`
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

type ListUsersOutput struct {
	Body []*domain.User `json:"users"`
}

type GetUserInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

type GetUserOutput struct {
	Body *domain.User `json:"user"`
}

type UpdateUserInput struct {
	ID   int64 `path:"id" doc:"User ID"`
	Body struct {
		FirstName *string `json:"first_name,omitempty" maxLength:"255"`
		LastName  *string `json:"last_name,omitempty" maxLength:"255"`
		Phone     *string `json:"phone,omitempty" maxLength:"32"`
		AvatarURL *string `json:"avatar_url,omitempty" maxLength:"1024"`
	}
}

type UpdateUserOutput struct {
	Body *domain.User `json:"user"`
}

type DeleteUserInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

type SetAdminInput struct {
	ID   int64 `path:"id" doc:"User ID"`
	Body struct {
		IsAdmin bool `json:"is_admin"`
	}
}

type SetAdminOutput struct {
	Body *domain.User `json:"user"`
}

type GetUserPermissionsInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

type GetUserPermissionsOutput struct {
	Body struct {
		Permissions domain.GrantMap `json:"permissions"`
	}
}

func RegisterUserRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder, perms PermissionCascader) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List users",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
		users, err := store.Users().List(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}
		for _, u := range users {
			u.PasswordHash = ""
		}
		return &ListUsersOutput{Body: users}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get a user by ID",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetUserInput) (*GetUserOutput, error) {
		user, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}
		user.PasswordHash = ""
		return &GetUserOutput{Body: user}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPut,
		Path:        "/users/{id}",
		Summary:     "Update a user profile",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UpdateUserInput) (*UpdateUserOutput, error) {
		user, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		before := user.Snapshot()
		if input.Body.FirstName != nil {
			user.FirstName = *input.Body.FirstName
		}
		if input.Body.LastName != nil {
			user.LastName = *input.Body.LastName
		}
		if input.Body.Phone != nil {
			user.Phone = *input.Body.Phone
		}
		if input.Body.AvatarURL != nil {
			user.AvatarURL = *input.Body.AvatarURL
		}
		user.UpdatedAt = time.Now()

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Users().Update(ctx, user); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceUsers, domain.ActionUpdate, before, user.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update user", err)
		}

		user.PasswordHash = ""
		return &UpdateUserOutput{Body: user}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-user",
		Method:      http.MethodDelete,
		Path:        "/users/{id}",
		Summary:     "Delete a user",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *DeleteUserInput) (*struct{}, error) {
		user, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Users().Delete(ctx, input.ID); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceUsers, domain.ActionDelete, user.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete user", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-user-admin",
		Method:      http.MethodPatch,
		Path:        "/users/{id}/admin",
		Summary:     "Grant or revoke the admin flag",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *SetAdminInput) (*SetAdminOutput, error) {
		// The admin flag bypasses all permission checks, so only an
		// existing admin may change it.
		if !middleware.IsAdminFromContext(ctx) {
			return nil, huma.Error403Forbidden("admin access required")
		}

		user, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		before := user.Snapshot()
		user.IsAdmin = input.Body.IsAdmin
		user.UpdatedAt = time.Now()

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Users().Update(ctx, user); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceAdminUsers, domain.ActionUpdate, before, user.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update admin flag", err)
		}

		user.PasswordHash = ""
		return &SetAdminOutput{Body: user}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user-permissions",
		Method:      http.MethodGet,
		Path:        "/users/{id}/permissions",
		Summary:     "Get a user's effective permissions",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetUserPermissionsInput) (*GetUserPermissionsOutput, error) {
		grants, err := perms.EffectivePermissions(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load permissions", err)
		}

		out := &GetUserPermissionsOutput{}
		out.Body.Permissions = grants
		return out, nil
	})
}

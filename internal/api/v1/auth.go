package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pawsit/pawsit/internal/auth"
	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/server/middleware"
)

type RegisterInput struct {
	Body struct {
		Email     string `json:"email" minLength:"3" maxLength:"255" doc:"Account email"`
		Password  string `json:"password" minLength:"8" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
		FirstName string `json:"first_name" minLength:"1" maxLength:"255" doc:"First name"`
		LastName  string `json:"last_name" maxLength:"255" doc:"Last name"`
	}
}

type RegisterOutput struct {
	Body struct {
		User         *domain.User `json:"user"`
		AccessToken  string       `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string       `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"Account email"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body struct {
		AccessToken  string `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" minLength:"1" doc:"Refresh token"` //nolint:gosec // G117: token refresh DTO
	}
}

type RefreshOutput struct {
	Body struct {
		AccessToken string `json:"access_token"` //nolint:gosec // G117: auth response DTO
	}
}

type MeOutput struct {
	Body struct {
		User *domain.User `json:"user"`
	}
}

type OAuthRedirectInput struct {
	Provider string `path:"provider" enum:"google,github" doc:"OAuth provider"`
}

type OAuthRedirectOutput struct {
	Body struct {
		AuthURL string `json:"auth_url"`
		State   string `json:"state"`
	}
}

type OAuthCallbackInput struct {
	Provider string `path:"provider" enum:"google,github" doc:"OAuth provider"`
	Code     string `query:"code" required:"true" doc:"Authorization code"`
	State    string `query:"state" doc:"Opaque state echoed by the provider"`
}

type OAuthCallbackOutput struct {
	Body struct {
		User         *domain.User `json:"user"`
		AccessToken  string       `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string       `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

func RegisterAuthRoutes(api huma.API, store DataStore, authSvc AuthService, rec Recorder, providers map[string]*auth.OAuthProvider) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new account",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		user, err := authSvc.Register(ctx, input.Body.Email, input.Body.Password, input.Body.FirstName, input.Body.LastName)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("user already exists")
			}
			return nil, huma.Error500InternalServerError("failed to register user", err)
		}

		// Self-registration: the new account is its own actor.
		if err := record(middleware.WithActor(ctx, user.ID), rec, store.Revisions(), domain.ResourceUsers, domain.ActionInsert, nil, user.Snapshot()); err != nil {
			return nil, huma.Error500InternalServerError("failed to record registration", err)
		}

		accessToken, refreshToken, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("registered but failed to issue tokens", err)
		}

		user.PasswordHash = ""

		out := &RegisterOutput{}
		out.Body.User = user
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		accessToken, refreshToken, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid email or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		out := &LoginOutput{}
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Refresh access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		accessToken, err := authSvc.RefreshToken(ctx, input.Body.RefreshToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired refresh token")
		}

		out := &RefreshOutput{}
		out.Body.AccessToken = accessToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-current-user",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Get the authenticated account",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*MeOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		user, err := authSvc.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to load user", err)
		}

		user.PasswordHash = ""

		out := &MeOutput{}
		out.Body.User = user
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "oauth-authorize",
		Method:      http.MethodGet,
		Path:        "/auth/oauth/{provider}",
		Summary:     "Get the provider authorization URL",
		Tags:        []string{"Auth"},
	}, func(_ context.Context, input *OAuthRedirectInput) (*OAuthRedirectOutput, error) {
		p, ok := providers[input.Provider]
		if !ok {
			return nil, huma.Error404NotFound("unknown oauth provider: " + input.Provider)
		}

		state := auth.NewState()

		out := &OAuthRedirectOutput{}
		out.Body.AuthURL = p.AuthorizationURL(state)
		out.Body.State = state
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "oauth-callback",
		Method:      http.MethodGet,
		Path:        "/auth/oauth/{provider}/callback",
		Summary:     "Complete an OAuth login",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *OAuthCallbackInput) (*OAuthCallbackOutput, error) {
		p, ok := providers[input.Provider]
		if !ok {
			return nil, huma.Error404NotFound("unknown oauth provider: " + input.Provider)
		}

		user, accessToken, refreshToken, err := authSvc.LoginWithOAuth(ctx, p, input.Code)
		if err != nil {
			return nil, huma.Error401Unauthorized("oauth login failed")
		}

		user.PasswordHash = ""

		out := &OAuthCallbackOutput{}
		out.Body.User = user
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})
}

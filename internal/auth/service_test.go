package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsit/pawsit/internal/auth"
	"github.com/pawsit/pawsit/internal/domain"
)

// mockUserRepo is a configurable mock implementing domain.UserRepository.
// It captures calls and returns preconfigured responses for service-level tests.
type mockUserRepo struct {
	// GetByEmail behavior.
	getByEmailUser *domain.User
	getByEmailErr  error

	// GetByID behavior.
	getByIDUser *domain.User
	getByIDErr  error

	// Create behavior.
	createErr   error
	createdUser *domain.User // captures the user passed to Create.

	// OAuth account behavior.
	getOAuthAccount *domain.OAuthAccount
	getOAuthErr     error
	createdOAuth    *domain.OAuthAccount
	createOAuthErr  error
}

func (m *mockUserRepo) Create(_ context.Context, u *domain.User) error {
	u.ID = 1
	m.createdUser = u
	return m.createErr
}

func (m *mockUserRepo) GetByID(context.Context, int64) (*domain.User, error) {
	return m.getByIDUser, m.getByIDErr
}

func (m *mockUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return m.getByEmailUser, m.getByEmailErr
}

func (m *mockUserRepo) Update(context.Context, *domain.User) error { return nil }

func (m *mockUserRepo) Delete(context.Context, int64) error { return nil }

func (m *mockUserRepo) List(context.Context, int, int) ([]*domain.User, error) { return nil, nil }

func (m *mockUserRepo) CreateOAuthAccount(_ context.Context, a *domain.OAuthAccount) error {
	m.createdOAuth = a
	return m.createOAuthErr
}

func (m *mockUserRepo) GetOAuthAccount(context.Context, string, string) (*domain.OAuthAccount, error) {
	return m.getOAuthAccount, m.getOAuthErr
}

func (m *mockUserRepo) DeleteOAuthAccount(context.Context, int64) (*domain.OAuthAccount, error) {
	return nil, nil
}

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testEmail     = "alice@example.com"
	testPassword  = "correct-horse-battery-staple"
)

var (
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = 7 * 24 * time.Hour
)

// newTestService creates a Service with the given mock and standard test config.
func newTestService(repo *mockUserRepo) *auth.Service {
	return auth.NewService(repo, testJWTSecret, testAccessTTL, testRefreshTTL)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("happy path creates user with correct fields", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		repo := &mockUserRepo{getByEmailErr: domain.ErrNotFound}
		svc := newTestService(repo)

		user, err := svc.Register(ctx, testEmail, testPassword, "Alice", "Archer")

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, testEmail, user.Email)
		assert.Equal(t, "Alice", user.FirstName)
		assert.Equal(t, "Archer", user.LastName)
		assert.False(t, user.IsAdmin, "new accounts must not be admin")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt must be set")
		assert.False(t, user.UpdatedAt.IsZero(), "UpdatedAt must be set")
	})

	t.Run("password is hashed not stored as plaintext", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		repo := &mockUserRepo{getByEmailErr: domain.ErrNotFound}
		svc := newTestService(repo)

		user, err := svc.Register(ctx, testEmail, testPassword, "Alice", "Archer")

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.NotEqual(t, testPassword, user.PasswordHash, "password must not be stored as plaintext")
		assert.NotEmpty(t, user.PasswordHash, "password hash must not be empty")
		assert.Contains(t, user.PasswordHash, "$", "argon2id hash must contain salt$hash separator")
	})

	t.Run("user already exists returns ErrUserAlreadyExists", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		repo := &mockUserRepo{
			getByEmailUser: &domain.User{ID: 7, Email: testEmail},
		}
		svc := newTestService(repo)

		user, err := svc.Register(ctx, testEmail, testPassword, "Alice", "Archer")

		require.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
	})

	t.Run("repo Create error is propagated", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		repoErr := errors.New("database connection refused")
		repo := &mockUserRepo{
			getByEmailErr: domain.ErrNotFound,
			createErr:     repoErr,
		}
		svc := newTestService(repo)

		user, err := svc.Register(ctx, testEmail, testPassword, "Alice", "Archer")

		require.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	// registerAndGetUser registers a user via the service and returns the
	// captured repo user (with hashed password) for Login tests.
	registerAndGetUser := func(t *testing.T) *domain.User {
		t.Helper()

		repo := &mockUserRepo{getByEmailErr: domain.ErrNotFound}
		svc := newTestService(repo)

		_, err := svc.Register(t.Context(), testEmail, testPassword, "Alice", "Archer")
		require.NoError(t, err)
		require.NotNil(t, repo.createdUser)

		return repo.createdUser
	}

	t.Run("happy path returns two valid tokens", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		registeredUser := registerAndGetUser(t)
		repo := &mockUserRepo{getByEmailUser: registeredUser}
		svc := newTestService(repo)

		accessToken, refreshToken, err := svc.Login(ctx, testEmail, testPassword)

		require.NoError(t, err)
		assert.NotEmpty(t, accessToken, "access token must not be empty")
		assert.NotEmpty(t, refreshToken, "refresh token must not be empty")
		assert.NotEqual(t, accessToken, refreshToken, "access and refresh tokens must differ")
	})

	t.Run("returned access token carries correct claims", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		registeredUser := registerAndGetUser(t)
		repo := &mockUserRepo{getByEmailUser: registeredUser}
		svc := newTestService(repo)

		accessToken, _, err := svc.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)

		claims, err := auth.ValidateToken(testJWTSecret, accessToken)
		require.NoError(t, err)
		id, err := claims.Subject()
		require.NoError(t, err)
		assert.Equal(t, registeredUser.ID, id)
		assert.False(t, claims.IsAdmin)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("wrong password returns ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		registeredUser := registerAndGetUser(t)
		repo := &mockUserRepo{getByEmailUser: registeredUser}
		svc := newTestService(repo)

		_, _, err := svc.Login(ctx, testEmail, "wrong-password")

		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email returns ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		repo := &mockUserRepo{getByEmailErr: domain.ErrNotFound}
		svc := newTestService(repo)

		_, _, err := svc.Login(ctx, "nobody@example.com", testPassword)

		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("happy path issues a new access token", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		user := &domain.User{ID: 9, Email: testEmail}
		repo := &mockUserRepo{getByIDUser: user}
		svc := newTestService(repo)

		refresh, err := auth.IssueRefreshToken(testJWTSecret, user.ID, false, testRefreshTTL)
		require.NoError(t, err)

		access, err := svc.RefreshToken(ctx, refresh)
		require.NoError(t, err)

		claims, err := auth.ValidateToken(testJWTSecret, access)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.TokenType)
		id, err := claims.Subject()
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("access token is rejected as refresh token", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		repo := &mockUserRepo{getByIDUser: &domain.User{ID: 9}}
		svc := newTestService(repo)

		access, err := auth.IssueAccessToken(testJWTSecret, 9, false, testAccessTTL)
		require.NoError(t, err)

		_, err = svc.RefreshToken(ctx, access)

		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("deleted user returns ErrUserNotFound", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		repo := &mockUserRepo{getByIDErr: domain.ErrNotFound}
		svc := newTestService(repo)

		refresh, err := auth.IssueRefreshToken(testJWTSecret, 9, false, testRefreshTTL)
		require.NoError(t, err)

		_, err = svc.RefreshToken(ctx, refresh)

		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		svc := newTestService(&mockUserRepo{})

		_, err := svc.RefreshToken(ctx, "not-a-jwt")

		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsit/pawsit/internal/auth"
	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/server/middleware"
)

const testSecret = "middleware-test-secret-0123456789ab"

// setUser injects an authenticated user into the request context using the
// same context keys as the Auth middleware.
func setUser(r *http.Request, userID int64, isAdmin bool) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyIsAdmin, isAdmin)
	return r.WithContext(ctx)
}

// okHandler is a simple handler that writes 200 OK.
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// fakePerms implements middleware.PermissionSource from a fixed map.
type fakePerms struct {
	levels map[int64]map[domain.Resource]domain.PermissionLevel
	err    error
}

func (f *fakePerms) EffectivePermission(_ context.Context, userID int64, res domain.Resource) (domain.PermissionLevel, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	level, ok := f.levels[userID][res]
	return level, ok, nil
}

// --- Auth tests ---

func TestAuth_ValidBearerToken(t *testing.T) {
	t.Parallel()

	token, err := auth.IssueAccessToken(testSecret, 7, true, time.Minute)
	require.NoError(t, err)

	var gotUserID int64
	var gotAdmin bool
	handler := middleware.Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = middleware.UserIDFromContext(r.Context())
		gotAdmin = middleware.IsAdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), gotUserID)
	assert.True(t, gotAdmin)
}

func TestAuth_MissingToken(t *testing.T) {
	t.Parallel()

	handler := middleware.Auth(testSecret)(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing or invalid credentials")
}

func TestAuth_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := auth.IssueAccessToken("another-secret-another-secret-xx", 7, false, time.Minute)
	require.NoError(t, err)

	handler := middleware.Auth(testSecret)(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- Permit tests ---

func TestPermit_AllowsCoveringLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		held     domain.PermissionLevel
		required domain.PermissionLevel
		want     int
	}{
		{name: "write covers read", held: domain.PermissionWrite, required: domain.PermissionRead, want: http.StatusOK},
		{name: "admin covers write", held: domain.PermissionAdmin, required: domain.PermissionWrite, want: http.StatusOK},
		{name: "exact match passes", held: domain.PermissionRead, required: domain.PermissionRead, want: http.StatusOK},
		{name: "read does not cover write", held: domain.PermissionRead, required: domain.PermissionWrite, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			perms := &fakePerms{levels: map[int64]map[domain.Resource]domain.PermissionLevel{
				3: {domain.ResourceDogs: tt.held},
			}}
			handler := middleware.Permit(perms, domain.ResourceDogs, tt.required)(okHandler)

			req := setUser(httptest.NewRequest(http.MethodGet, "/", http.NoBody), 3, false)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPermit_AbsentEntryMeansNoAccess(t *testing.T) {
	t.Parallel()

	perms := &fakePerms{levels: map[int64]map[domain.Resource]domain.PermissionLevel{}}
	handler := middleware.Permit(perms, domain.ResourceBookings, domain.PermissionRead)(okHandler)

	req := setUser(httptest.NewRequest(http.MethodGet, "/", http.NoBody), 3, false)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "insufficient permissions")
}

func TestPermit_AdminBypassesCheck(t *testing.T) {
	t.Parallel()

	perms := &fakePerms{levels: map[int64]map[domain.Resource]domain.PermissionLevel{}}
	handler := middleware.Permit(perms, domain.ResourceBookings, domain.PermissionAdmin)(okHandler)

	req := setUser(httptest.NewRequest(http.MethodGet, "/", http.NoBody), 3, true)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPermit_UnauthenticatedReturns401(t *testing.T) {
	t.Parallel()

	perms := &fakePerms{}
	handler := middleware.Permit(perms, domain.ResourceDogs, domain.PermissionRead)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermit_LookupErrorReturns500(t *testing.T) {
	t.Parallel()

	perms := &fakePerms{err: errors.New("database gone")}
	handler := middleware.Permit(perms, domain.ResourceDogs, domain.PermissionRead)(okHandler)

	req := setUser(httptest.NewRequest(http.MethodGet, "/", http.NoBody), 3, false)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPermitWrites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		held   map[domain.Resource]domain.PermissionLevel
		want   int
	}{
		{name: "GET passes without any grant", method: http.MethodGet, held: nil, want: http.StatusOK},
		{name: "HEAD passes without any grant", method: http.MethodHead, held: nil, want: http.StatusOK},
		{name: "POST without grant forbidden", method: http.MethodPost, held: nil, want: http.StatusForbidden},
		{name: "POST with read grant forbidden", method: http.MethodPost, held: map[domain.Resource]domain.PermissionLevel{domain.ResourceDogBreeds: domain.PermissionRead}, want: http.StatusForbidden},
		{name: "DELETE with write grant allowed", method: http.MethodDelete, held: map[domain.Resource]domain.PermissionLevel{domain.ResourceDogBreeds: domain.PermissionWrite}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			perms := &fakePerms{levels: map[int64]map[domain.Resource]domain.PermissionLevel{3: tt.held}}
			handler := middleware.PermitWrites(perms, domain.ResourceDogBreeds)(okHandler)

			req := setUser(httptest.NewRequest(tt.method, "/", http.NoBody), 3, false)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// --- RequireAdmin tests ---

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		userID  *int64
		isAdmin bool
		want    int
	}{
		{name: "admin passes", userID: ptr(int64(1)), isAdmin: true, want: http.StatusOK},
		{name: "non-admin blocked", userID: ptr(int64(2)), isAdmin: false, want: http.StatusForbidden},
		{name: "unauthenticated blocked", userID: nil, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := middleware.RequireAdmin()(okHandler)
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.userID != nil {
				req = setUser(req, *tt.userID, tt.isAdmin)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// --- Rate limit tests ---

func TestRateLimitByIP_BlocksAfterBurst(t *testing.T) {
	t.Parallel()

	handler := middleware.RateLimitByIP(t.Context(), 1, 2)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "10.0.0.1:1234"

	for range 2 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_PerUserIsolation(t *testing.T) {
	t.Parallel()

	handler := middleware.RateLimit(t.Context(), 1, 1)(okHandler)

	reqA := setUser(httptest.NewRequest(http.MethodGet, "/", http.NoBody), 1, false)
	reqB := setUser(httptest.NewRequest(http.MethodGet, "/", http.NoBody), 2, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, reqA)
	assert.Equal(t, http.StatusOK, rec.Code)

	// User 1 exhausted its burst; user 2 is unaffected.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, reqA)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, reqB)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_SkipsUnauthenticated(t *testing.T) {
	t.Parallel()

	handler := middleware.RateLimit(t.Context(), 1, 1)(okHandler)

	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func ptr[T any](v T) *T { return &v }

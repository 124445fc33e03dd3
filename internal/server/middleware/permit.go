package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pawsit/pawsit/internal/domain"
)

// PermissionSource reads a user's materialized access level for a resource.
// Implemented by permission.Resolver.
type PermissionSource interface {
	EffectivePermission(ctx context.Context, userID int64, res domain.Resource) (domain.PermissionLevel, bool, error)
}

// Permit returns middleware that checks the authenticated user's effective
// permission on a resource. It must be chained after Auth.
//
// Admin accounts bypass the check. An absent entry in the materialized map
// means no access. Returns 401 when no user is in context and 403 when the
// stored level does not cover the required one.
func Permit(perms PermissionSource, res domain.Resource, required domain.PermissionLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if IsAdminFromContext(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}

			level, found, err := perms.EffectivePermission(r.Context(), userID, res)
			if err != nil {
				log.Error().Err(err).Int64("user_id", userID).Str("resource", string(res)).
					Msg("permit: permission lookup failed")
				http.Error(w, `{"title":"Internal Server Error","status":500,"detail":"permission lookup failed"}`, http.StatusInternalServerError)
				return
			}

			if !found || !level.Covers(required) {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"insufficient permissions"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PermitWrites guards only the mutating methods of a subtree: GET, HEAD and
// OPTIONS pass through while everything else requires write on the resource.
// Used for reference data anyone may read but only privileged users change.
func PermitWrites(perms PermissionSource, res domain.Resource) func(http.Handler) http.Handler {
	guard := Permit(perms, res, domain.PermissionWrite)
	return func(next http.Handler) http.Handler {
		guarded := guard(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				guarded.ServeHTTP(w, r)
			}
		})
	}
}

// RequireAdmin restricts a route to admin accounts.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); !ok {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if !IsAdminFromContext(r.Context()) {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"insufficient permissions"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

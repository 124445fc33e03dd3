package middleware

import "context"

type contextKey string

const (
	ContextKeyUserID  contextKey = "user_id"
	ContextKeyIsAdmin contextKey = "is_admin"
)

func UserIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(int64)
	return v, ok
}

func IsAdminFromContext(ctx context.Context) bool {
	v, ok := ctx.Value(ContextKeyIsAdmin).(bool)
	return ok && v
}

// WithActor returns a context carrying userID as the authenticated user.
// Used where the acting user is established outside the auth middleware,
// such as self-registration.
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// ActorFromContext returns the authenticated user id as a revision actor
// reference, or nil when the request is unauthenticated.
func ActorFromContext(ctx context.Context) *int64 {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &id
}

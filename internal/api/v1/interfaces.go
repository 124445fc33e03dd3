package v1

import (
	"context"

	"github.com/pawsit/pawsit/internal/auth"
	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/revision"
	"github.com/pawsit/pawsit/internal/server/middleware"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Sitters() domain.SitterRepository
	Dogs() domain.DogRepository
	Bookings() domain.BookingRepository
	Reviews() domain.ReviewRepository
	Groups() domain.GroupRepository
	Revisions() domain.RevisionRepository
}

// TxRunner runs fn against a DataStore whose repositories share one database
// transaction. fn returning an error rolls the whole transaction back, so a
// mutation and the revision documenting it commit or fail together. The
// context passed to fn is transaction-scoped: revisions recorded under it
// hold their feed announcements until the transaction commits.
type TxRunner func(ctx context.Context, fn func(ctx context.Context, tx DataStore) error) error

// Recorder abstracts revision recording for handler testing.
// *revision.Recorder satisfies this interface.
type Recorder interface {
	Record(ctx context.Context, repo domain.RevisionRepository, in revision.RecordInput) (*domain.Revision, error)
}

// PermissionCascader abstracts effective-permission recomputation for handler
// testing. *permission.Resolver satisfies this interface.
type PermissionCascader interface {
	OnMembershipChanged(ctx context.Context, userID int64) error
	OnGroupPermissionsChanged(ctx context.Context, groupID int64) error
	EffectivePermissions(ctx context.Context, userID int64) (domain.GrantMap, error)
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	LoginWithOAuth(ctx context.Context, p *auth.OAuthProvider, code string) (*domain.User, string, string, error)
}

// record writes one revision entry through the given repository, stamping the
// acting user from the request context. Called inside the same transaction as
// the mutation it documents.
func record(ctx context.Context, rec Recorder, repo domain.RevisionRepository, res domain.Resource, action domain.RevisionAction, before, after domain.Snapshot) error {
	_, err := rec.Record(ctx, repo, revision.RecordInput{
		Resource: res,
		Action:   action,
		Before:   before,
		After:    after,
		ActorID:  middleware.ActorFromContext(ctx),
	})
	return err
}

package domain

import (
	"context"
	"time"
)

// User is a marketplace account: a dog owner, a sitter, or both. IsAdmin
// grants unrestricted access to the admin surface regardless of group
// membership.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // argon2id, empty for OAuth-only accounts
	FirstName    string
	LastName     string
	Phone        string
	AvatarURL    string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Snapshot returns the user's audit snapshot. The password hash is
// deliberately excluded from the revision log.
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"phone":      u.Phone,
		"avatar_url": u.AvatarURL,
		"is_admin":   u.IsAdmin,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// OAuthAccount links a user to an external identity provider.
type OAuthAccount struct {
	ID         int64
	UserID     int64
	Provider   string // "google", "github"
	ProviderID string
	Email      string
	CreatedAt  time.Time
}

// Snapshot returns the OAuth account's audit snapshot.
func (a *OAuthAccount) Snapshot() Snapshot {
	return Snapshot{
		"id":          a.ID,
		"user_id":     a.UserID,
		"provider":    a.Provider,
		"provider_id": a.ProviderID,
		"email":       a.Email,
		"created_at":  a.CreatedAt,
	}
}

// UserRepository persists marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*User, error)

	// OAuth accounts.
	CreateOAuthAccount(ctx context.Context, a *OAuthAccount) error
	GetOAuthAccount(ctx context.Context, provider, providerID string) (*OAuthAccount, error)
	DeleteOAuthAccount(ctx context.Context, id int64) (*OAuthAccount, error)
}

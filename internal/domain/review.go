package domain

import (
	"context"
	"time"
)

// Review is an owner's rating of a completed booking.
type Review struct {
	ID        int64
	BookingID int64
	AuthorID  int64
	SitterID  int64
	Rating    int // 1..5
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot returns the review's audit snapshot.
func (r *Review) Snapshot() Snapshot {
	return Snapshot{
		"id":         r.ID,
		"booking_id": r.BookingID,
		"author_id":  r.AuthorID,
		"sitter_id":  r.SitterID,
		"rating":     r.Rating,
		"comment":    r.Comment,
		"created_at": r.CreatedAt,
		"updated_at": r.UpdatedAt,
	}
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id int64) error
	ListBySitter(ctx context.Context, sitterID int64, limit, offset int) ([]*Review, error)
}

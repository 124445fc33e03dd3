package domain

import (
	"context"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ValidTransition reports whether a booking may move from s to target.
// Completed and cancelled are terminal.
func (s BookingStatus) ValidTransition(target BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return target == BookingStatusConfirmed || target == BookingStatusCancelled
	case BookingStatusConfirmed:
		return target == BookingStatusCompleted || target == BookingStatusCancelled
	default:
		return false
	}
}

// Booking is a sitting engagement between an owner and a sitter.
type Booking struct {
	ID         int64
	OwnerID    int64
	SitterID   int64
	DogID      int64
	Status     BookingStatus
	StartsAt   time.Time
	EndsAt     time.Time
	PriceTotal int64 // cents
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Snapshot returns the booking's audit snapshot.
func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		"id":          b.ID,
		"owner_id":    b.OwnerID,
		"sitter_id":   b.SitterID,
		"dog_id":      b.DogID,
		"status":      string(b.Status),
		"starts_at":   b.StartsAt,
		"ends_at":     b.EndsAt,
		"price_total": b.PriceTotal,
		"notes":       b.Notes,
		"created_at":  b.CreatedAt,
		"updated_at":  b.UpdatedAt,
	}
}

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*Booking, error)
	ListBySitter(ctx context.Context, sitterID int64, limit, offset int) ([]*Booking, error)
}

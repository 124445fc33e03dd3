package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pawsit/pawsit/internal/domain"
)

type BookingRepo struct {
	db DBTX
}

func NewBookingRepo(db DBTX) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, owner_id, sitter_id, dog_id, status, starts_at, ends_at, price_total, notes, created_at, updated_at`

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO bookings (owner_id, sitter_id, dog_id, status, starts_at, ends_at, price_total, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		b.OwnerID, b.SitterID, b.DogID, b.Status, b.StartsAt, b.EndsAt,
		b.PriceTotal, b.Notes, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("bookingRepo.Create: %w", err)
	}

	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("bookingRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("bookingRepo.GetByID: %w", err)
	}

	return b, nil
}

func (r *BookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $1, starts_at = $2, ends_at = $3, price_total = $4, notes = $5, updated_at = now()
		 WHERE id = $6`,
		b.Status, b.StartsAt, b.EndsAt, b.PriceTotal, b.Notes, b.ID,
	)
	if err != nil {
		return fmt.Errorf("bookingRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bookingRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *BookingRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("bookingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bookingRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*domain.Booking, error) {
	return r.list(ctx, "owner_id", ownerID, limit, offset)
}

func (r *BookingRepo) ListBySitter(ctx context.Context, sitterID int64, limit, offset int) ([]*domain.Booking, error) {
	return r.list(ctx, "sitter_id", sitterID, limit, offset)
}

func (r *BookingRepo) list(ctx context.Context, column string, id int64, limit, offset int) ([]*domain.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE `+column+` = $1
		 ORDER BY starts_at DESC LIMIT $2 OFFSET $3`,
		id, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("bookingRepo.list: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("bookingRepo.list: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookingRepo.list: rows: %w", err)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking

	err := row.Scan(
		&b.ID, &b.OwnerID, &b.SitterID, &b.DogID, &b.Status, &b.StartsAt,
		&b.EndsAt, &b.PriceTotal, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

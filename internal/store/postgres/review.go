package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pawsit/pawsit/internal/domain"
)

type ReviewRepo struct {
	db DBTX
}

func NewReviewRepo(db DBTX) *ReviewRepo {
	return &ReviewRepo{db: db}
}

const reviewColumns = `id, booking_id, author_id, sitter_id, rating, comment, created_at, updated_at`

func (r *ReviewRepo) Create(ctx context.Context, rev *domain.Review) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO reviews (booking_id, author_id, sitter_id, rating, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		rev.BookingID, rev.AuthorID, rev.SitterID, rev.Rating, rev.Comment,
		rev.CreatedAt, rev.UpdatedAt,
	).Scan(&rev.ID)
	if err != nil {
		return fmt.Errorf("reviewRepo.Create: %w", err)
	}

	return nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	rev, err := scanReview(r.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reviewRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reviewRepo.GetByID: %w", err)
	}

	return rev, nil
}

func (r *ReviewRepo) Update(ctx context.Context, rev *domain.Review) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reviews SET rating = $1, comment = $2, updated_at = now() WHERE id = $3`,
		rev.Rating, rev.Comment, rev.ID,
	)
	if err != nil {
		return fmt.Errorf("reviewRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reviewRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("reviewRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reviewRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ReviewRepo) ListBySitter(ctx context.Context, sitterID int64, limit, offset int) ([]*domain.Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE sitter_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		sitterID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("reviewRepo.ListBySitter: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("reviewRepo.ListBySitter: scan: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reviewRepo.ListBySitter: rows: %w", err)
	}

	return reviews, nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rev domain.Review

	err := row.Scan(
		&rev.ID, &rev.BookingID, &rev.AuthorID, &rev.SitterID, &rev.Rating,
		&rev.Comment, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &rev, nil
}

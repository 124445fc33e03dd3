package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pawsit/pawsit/internal/domain"
)

type SitterRepo struct {
	db DBTX
}

func NewSitterRepo(db DBTX) *SitterRepo {
	return &SitterRepo{db: db}
}

const sitterColumns = `id, user_id, bio, hourly_rate, city, latitude, longitude, verified, created_at, updated_at`

func (r *SitterRepo) Create(ctx context.Context, s *domain.Sitter) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO sitters (user_id, bio, hourly_rate, city, latitude, longitude, verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		s.UserID, s.Bio, s.HourlyRate, s.City, s.Latitude, s.Longitude,
		s.Verified, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("sitterRepo.Create: %w", err)
	}

	return nil
}

func (r *SitterRepo) GetByID(ctx context.Context, id int64) (*domain.Sitter, error) {
	s, err := scanSitter(r.db.QueryRow(ctx,
		`SELECT `+sitterColumns+` FROM sitters WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sitterRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.GetByID: %w", err)
	}

	return s, nil
}

func (r *SitterRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Sitter, error) {
	s, err := scanSitter(r.db.QueryRow(ctx,
		`SELECT `+sitterColumns+` FROM sitters WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sitterRepo.GetByUserID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.GetByUserID: %w", err)
	}

	return s, nil
}

func (r *SitterRepo) Update(ctx context.Context, s *domain.Sitter) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sitters SET bio = $1, hourly_rate = $2, city = $3, latitude = $4,
		        longitude = $5, verified = $6, updated_at = now()
		 WHERE id = $7`,
		s.Bio, s.HourlyRate, s.City, s.Latitude, s.Longitude, s.Verified, s.ID,
	)
	if err != nil {
		return fmt.Errorf("sitterRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sitterRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SitterRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sitters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("sitterRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sitterRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SitterRepo) List(ctx context.Context, limit, offset int) ([]*domain.Sitter, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sitterColumns+` FROM sitters ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.List: %w", err)
	}
	defer rows.Close()

	var sitters []*domain.Sitter
	for rows.Next() {
		s, err := scanSitter(rows)
		if err != nil {
			return nil, fmt.Errorf("sitterRepo.List: scan: %w", err)
		}
		sitters = append(sitters, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sitterRepo.List: rows: %w", err)
	}

	return sitters, nil
}

func (r *SitterRepo) AddCertificate(ctx context.Context, c *domain.SitterCertificate) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO sitter_certificates (sitter_id, title, issuer, issued_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		c.SitterID, c.Title, c.Issuer, c.IssuedAt, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("sitterRepo.AddCertificate: %w", err)
	}

	return nil
}

func (r *SitterRepo) DeleteCertificate(ctx context.Context, id int64) (*domain.SitterCertificate, error) {
	var c domain.SitterCertificate

	err := r.db.QueryRow(ctx,
		`DELETE FROM sitter_certificates WHERE id = $1
		 RETURNING id, sitter_id, title, issuer, issued_at, created_at`,
		id,
	).Scan(&c.ID, &c.SitterID, &c.Title, &c.Issuer, &c.IssuedAt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sitterRepo.DeleteCertificate: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.DeleteCertificate: %w", err)
	}

	return &c, nil
}

func (r *SitterRepo) ListCertificates(ctx context.Context, sitterID int64) ([]*domain.SitterCertificate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sitter_id, title, issuer, issued_at, created_at
		 FROM sitter_certificates WHERE sitter_id = $1 ORDER BY id`,
		sitterID,
	)
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.ListCertificates: %w", err)
	}
	defer rows.Close()

	var certs []*domain.SitterCertificate
	for rows.Next() {
		var c domain.SitterCertificate
		if err := rows.Scan(&c.ID, &c.SitterID, &c.Title, &c.Issuer, &c.IssuedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sitterRepo.ListCertificates: scan: %w", err)
		}
		certs = append(certs, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sitterRepo.ListCertificates: rows: %w", err)
	}

	return certs, nil
}

func (r *SitterRepo) AddService(ctx context.Context, s *domain.SitterService) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO sitter_services (sitter_id, name, price, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		s.SitterID, s.Name, s.Price, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("sitterRepo.AddService: %w", err)
	}

	return nil
}

func (r *SitterRepo) DeleteService(ctx context.Context, id int64) (*domain.SitterService, error) {
	var s domain.SitterService

	err := r.db.QueryRow(ctx,
		`DELETE FROM sitter_services WHERE id = $1
		 RETURNING id, sitter_id, name, price, created_at`,
		id,
	).Scan(&s.ID, &s.SitterID, &s.Name, &s.Price, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sitterRepo.DeleteService: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.DeleteService: %w", err)
	}

	return &s, nil
}

func (r *SitterRepo) ListServices(ctx context.Context, sitterID int64) ([]*domain.SitterService, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sitter_id, name, price, created_at
		 FROM sitter_services WHERE sitter_id = $1 ORDER BY id`,
		sitterID,
	)
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.ListServices: %w", err)
	}
	defer rows.Close()

	var services []*domain.SitterService
	for rows.Next() {
		var s domain.SitterService
		if err := rows.Scan(&s.ID, &s.SitterID, &s.Name, &s.Price, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sitterRepo.ListServices: scan: %w", err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sitterRepo.ListServices: rows: %w", err)
	}

	return services, nil
}

func (r *SitterRepo) AddAvailability(ctx context.Context, a *domain.Availability) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO availability (sitter_id, weekday, start_time, end_time, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		a.SitterID, a.Weekday, a.StartTime, a.EndTime, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("sitterRepo.AddAvailability: %w", err)
	}

	return nil
}

func (r *SitterRepo) DeleteAvailability(ctx context.Context, id int64) (*domain.Availability, error) {
	var a domain.Availability

	err := r.db.QueryRow(ctx,
		`DELETE FROM availability WHERE id = $1
		 RETURNING id, sitter_id, weekday, start_time, end_time, created_at`,
		id,
	).Scan(&a.ID, &a.SitterID, &a.Weekday, &a.StartTime, &a.EndTime, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sitterRepo.DeleteAvailability: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.DeleteAvailability: %w", err)
	}

	return &a, nil
}

func (r *SitterRepo) ListAvailability(ctx context.Context, sitterID int64) ([]*domain.Availability, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sitter_id, weekday, start_time, end_time, created_at
		 FROM availability WHERE sitter_id = $1 ORDER BY weekday, start_time`,
		sitterID,
	)
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.ListAvailability: %w", err)
	}
	defer rows.Close()

	var slots []*domain.Availability
	for rows.Next() {
		var a domain.Availability
		if err := rows.Scan(&a.ID, &a.SitterID, &a.Weekday, &a.StartTime, &a.EndTime, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("sitterRepo.ListAvailability: scan: %w", err)
		}
		slots = append(slots, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sitterRepo.ListAvailability: rows: %w", err)
	}

	return slots, nil
}

func (r *SitterRepo) AddUnavailableDate(ctx context.Context, u *domain.UnavailableDate) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO unavailable_dates (sitter_id, date, reason, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		u.SitterID, u.Date, u.Reason, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("sitterRepo.AddUnavailableDate: %w", err)
	}

	return nil
}

func (r *SitterRepo) DeleteUnavailableDate(ctx context.Context, id int64) (*domain.UnavailableDate, error) {
	var u domain.UnavailableDate

	err := r.db.QueryRow(ctx,
		`DELETE FROM unavailable_dates WHERE id = $1
		 RETURNING id, sitter_id, date, reason, created_at`,
		id,
	).Scan(&u.ID, &u.SitterID, &u.Date, &u.Reason, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sitterRepo.DeleteUnavailableDate: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.DeleteUnavailableDate: %w", err)
	}

	return &u, nil
}

func (r *SitterRepo) ListUnavailableDates(ctx context.Context, sitterID int64) ([]*domain.UnavailableDate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sitter_id, date, reason, created_at
		 FROM unavailable_dates WHERE sitter_id = $1 ORDER BY date`,
		sitterID,
	)
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.ListUnavailableDates: %w", err)
	}
	defer rows.Close()

	var dates []*domain.UnavailableDate
	for rows.Next() {
		var u domain.UnavailableDate
		if err := rows.Scan(&u.ID, &u.SitterID, &u.Date, &u.Reason, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("sitterRepo.ListUnavailableDates: scan: %w", err)
		}
		dates = append(dates, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sitterRepo.ListUnavailableDates: rows: %w", err)
	}

	return dates, nil
}

func (r *SitterRepo) AddBreedSpecialty(ctx context.Context, s *domain.SitterBreedSpecialty) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO sitter_breed_specialties (sitter_id, breed_id)
		 VALUES ($1, $2)
		 RETURNING created_at`,
		s.SitterID, s.BreedID,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("sitterRepo.AddBreedSpecialty: %w", err)
	}

	return nil
}

func (r *SitterRepo) RemoveBreedSpecialty(ctx context.Context, sitterID, breedID int64) (*domain.SitterBreedSpecialty, error) {
	s := &domain.SitterBreedSpecialty{SitterID: sitterID, BreedID: breedID}

	err := r.db.QueryRow(ctx,
		`DELETE FROM sitter_breed_specialties
		 WHERE sitter_id = $1 AND breed_id = $2
		 RETURNING created_at`,
		sitterID, breedID,
	).Scan(&s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sitterRepo.RemoveBreedSpecialty: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.RemoveBreedSpecialty: %w", err)
	}

	return s, nil
}

func (r *SitterRepo) ListBreedSpecialties(ctx context.Context, sitterID int64) ([]*domain.SitterBreedSpecialty, error) {
	rows, err := r.db.Query(ctx,
		`SELECT sitter_id, breed_id, created_at
		 FROM sitter_breed_specialties WHERE sitter_id = $1 ORDER BY breed_id`,
		sitterID,
	)
	if err != nil {
		return nil, fmt.Errorf("sitterRepo.ListBreedSpecialties: %w", err)
	}
	defer rows.Close()

	var specialties []*domain.SitterBreedSpecialty
	for rows.Next() {
		var s domain.SitterBreedSpecialty
		if err := rows.Scan(&s.SitterID, &s.BreedID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sitterRepo.ListBreedSpecialties: scan: %w", err)
		}
		specialties = append(specialties, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sitterRepo.ListBreedSpecialties: rows: %w", err)
	}

	return specialties, nil
}

func scanSitter(row pgx.Row) (*domain.Sitter, error) {
	var s domain.Sitter

	err := row.Scan(
		&s.ID, &s.UserID, &s.Bio, &s.HourlyRate, &s.City,
		&s.Latitude, &s.Longitude, &s.Verified, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

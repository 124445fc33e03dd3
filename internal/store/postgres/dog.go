package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pawsit/pawsit/internal/domain"
)

type DogRepo struct {
	db DBTX
}

func NewDogRepo(db DBTX) *DogRepo {
	return &DogRepo{db: db}
}

const dogColumns = `id, owner_id, breed_id, name, birth_date, weight, notes, created_at, updated_at`

func (r *DogRepo) Create(ctx context.Context, d *domain.Dog) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO dogs (owner_id, breed_id, name, birth_date, weight, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		d.OwnerID, d.BreedID, d.Name, d.BirthDate, d.Weight, d.Notes, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("dogRepo.Create: %w", err)
	}

	return nil
}

func (r *DogRepo) GetByID(ctx context.Context, id int64) (*domain.Dog, error) {
	d, err := scanDog(r.db.QueryRow(ctx,
		`SELECT `+dogColumns+` FROM dogs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("dogRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("dogRepo.GetByID: %w", err)
	}

	return d, nil
}

func (r *DogRepo) Update(ctx context.Context, d *domain.Dog) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE dogs SET breed_id = $1, name = $2, birth_date = $3, weight = $4, notes = $5, updated_at = now()
		 WHERE id = $6`,
		d.BreedID, d.Name, d.BirthDate, d.Weight, d.Notes, d.ID,
	)
	if err != nil {
		return fmt.Errorf("dogRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dogRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *DogRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("dogRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dogRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *DogRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Dog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+dogColumns+` FROM dogs WHERE owner_id = $1 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("dogRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var dogs []*domain.Dog
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, fmt.Errorf("dogRepo.ListByOwner: scan: %w", err)
		}
		dogs = append(dogs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dogRepo.ListByOwner: rows: %w", err)
	}

	return dogs, nil
}

func (r *DogRepo) CreateBreed(ctx context.Context, b *domain.DogBreed) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO dog_breeds (name, size_class, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		b.Name, b.SizeClass, b.CreatedAt,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("dogRepo.CreateBreed: %w", err)
	}

	return nil
}

func (r *DogRepo) GetBreed(ctx context.Context, id int64) (*domain.DogBreed, error) {
	var b domain.DogBreed

	err := r.db.QueryRow(ctx,
		`SELECT id, name, size_class, created_at FROM dog_breeds WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Name, &b.SizeClass, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("dogRepo.GetBreed: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("dogRepo.GetBreed: %w", err)
	}

	return &b, nil
}

func (r *DogRepo) ListBreeds(ctx context.Context) ([]*domain.DogBreed, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, size_class, created_at FROM dog_breeds ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("dogRepo.ListBreeds: %w", err)
	}
	defer rows.Close()

	var breeds []*domain.DogBreed
	for rows.Next() {
		var b domain.DogBreed
		if err := rows.Scan(&b.ID, &b.Name, &b.SizeClass, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("dogRepo.ListBreeds: scan: %w", err)
		}
		breeds = append(breeds, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dogRepo.ListBreeds: rows: %w", err)
	}

	return breeds, nil
}

func scanDog(row pgx.Row) (*domain.Dog, error) {
	var d domain.Dog

	err := row.Scan(
		&d.ID, &d.OwnerID, &d.BreedID, &d.Name, &d.BirthDate,
		&d.Weight, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

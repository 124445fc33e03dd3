package domain

import (
	"context"
	"time"
)

// DogBreed is a catalogue entry dogs and sitter specialties reference.
type DogBreed struct {
	ID        int64
	Name      string
	SizeClass string // "small", "medium", "large"
	CreatedAt time.Time
}

// Snapshot returns the breed's audit snapshot.
func (b *DogBreed) Snapshot() Snapshot {
	return Snapshot{
		"id":         b.ID,
		"name":       b.Name,
		"size_class": b.SizeClass,
		"created_at": b.CreatedAt,
	}
}

// Dog is a pet owned by a user.
type Dog struct {
	ID        int64
	OwnerID   int64
	BreedID   *int64 // nil for mixed/unknown
	Name      string
	BirthDate *time.Time
	Weight    float64 // kg
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot returns the dog's audit snapshot.
func (d *Dog) Snapshot() Snapshot {
	snap := Snapshot{
		"id":         d.ID,
		"owner_id":   d.OwnerID,
		"name":       d.Name,
		"weight":     d.Weight,
		"notes":      d.Notes,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}
	if d.BreedID != nil {
		snap["breed_id"] = *d.BreedID
	} else {
		snap["breed_id"] = nil
	}
	if d.BirthDate != nil {
		snap["birth_date"] = *d.BirthDate
	} else {
		snap["birth_date"] = nil
	}
	return snap
}

// DogRepository persists dogs and the breed catalogue.
type DogRepository interface {
	Create(ctx context.Context, d *Dog) error
	GetByID(ctx context.Context, id int64) (*Dog, error)
	Update(ctx context.Context, d *Dog) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*Dog, error)

	// Breeds.
	CreateBreed(ctx context.Context, b *DogBreed) error
	GetBreed(ctx context.Context, id int64) (*DogBreed, error)
	ListBreeds(ctx context.Context) ([]*DogBreed, error)
}

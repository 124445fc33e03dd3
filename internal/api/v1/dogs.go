package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/server/middleware"
)

type CreateDogInput struct {
	Body struct {
		Name      string     `json:"name" minLength:"1" maxLength:"255" doc:"Dog name"`
		BreedID   *int64     `json:"breed_id,omitempty" doc:"Breed catalogue ID, omit for mixed/unknown"`
		BirthDate *time.Time `json:"birth_date,omitempty"`
		Weight    float64    `json:"weight" minimum:"0" doc:"Weight in kg"`
		Notes     string     `json:"notes,omitempty" maxLength:"4000"`
	}
}

type CreateDogOutput struct {
	Body *domain.Dog `json:"dog"`
}

type ListDogsOutput struct {
	Body []*domain.Dog `json:"dogs"`
}

type GetDogInput struct {
	ID int64 `path:"id" doc:"Dog ID"`
}

type GetDogOutput struct {
	Body *domain.Dog `json:"dog"`
}

type UpdateDogInput struct {
	ID   int64 `path:"id" doc:"Dog ID"`
	Body struct {
		Name      *string    `json:"name,omitempty" maxLength:"255"`
		BreedID   *int64     `json:"breed_id,omitempty"`
		BirthDate *time.Time `json:"birth_date,omitempty"`
		Weight    *float64   `json:"weight,omitempty" minimum:"0"`
		Notes     *string    `json:"notes,omitempty" maxLength:"4000"`
	}
}

type UpdateDogOutput struct {
	Body *domain.Dog `json:"dog"`
}

type DeleteDogInput struct {
	ID int64 `path:"id" doc:"Dog ID"`
}

type CreateBreedInput struct {
	Body struct {
		Name      string `json:"name" minLength:"1" maxLength:"255" doc:"Breed name"`
		SizeClass string `json:"size_class" enum:"small,medium,large" doc:"Size class"`
	}
}

type CreateBreedOutput struct {
	Body *domain.DogBreed `json:"breed"`
}

type ListBreedsOutput struct {
	Body []*domain.DogBreed `json:"breeds"`
}

type GetBreedInput struct {
	ID int64 `path:"id" doc:"Breed ID"`
}

type GetBreedOutput struct {
	Body *domain.DogBreed `json:"breed"`
}

func RegisterDogRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-dog",
		Method:      http.MethodPost,
		Path:        "/dogs",
		Summary:     "Register a dog",
		Tags:        []string{"Dogs"},
	}, func(ctx context.Context, input *CreateDogInput) (*CreateDogOutput, error) {
		ownerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		d := &domain.Dog{
			OwnerID:   ownerID,
			BreedID:   input.Body.BreedID,
			Name:      input.Body.Name,
			BirthDate: input.Body.BirthDate,
			Weight:    input.Body.Weight,
			Notes:     input.Body.Notes,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Dogs().Create(ctx, d); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceDogs, domain.ActionInsert, nil, d.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create dog", err)
		}

		return &CreateDogOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-dogs",
		Method:      http.MethodGet,
		Path:        "/dogs",
		Summary:     "List the authenticated owner's dogs",
		Tags:        []string{"Dogs"},
	}, func(ctx context.Context, _ *struct{}) (*ListDogsOutput, error) {
		ownerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		dogs, err := store.Dogs().ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list dogs", err)
		}
		return &ListDogsOutput{Body: dogs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-dog",
		Method:      http.MethodGet,
		Path:        "/dogs/{id}",
		Summary:     "Get a dog by ID",
		Tags:        []string{"Dogs"},
	}, func(ctx context.Context, input *GetDogInput) (*GetDogOutput, error) {
		d, err := store.Dogs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("dog not found")
			}
			return nil, huma.Error500InternalServerError("failed to get dog", err)
		}
		return &GetDogOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-dog",
		Method:      http.MethodPut,
		Path:        "/dogs/{id}",
		Summary:     "Update a dog",
		Tags:        []string{"Dogs"},
	}, func(ctx context.Context, input *UpdateDogInput) (*UpdateDogOutput, error) {
		d, err := store.Dogs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("dog not found")
			}
			return nil, huma.Error500InternalServerError("failed to get dog", err)
		}

		before := d.Snapshot()
		if input.Body.Name != nil {
			d.Name = *input.Body.Name
		}
		if input.Body.BreedID != nil {
			d.BreedID = input.Body.BreedID
		}
		if input.Body.BirthDate != nil {
			d.BirthDate = input.Body.BirthDate
		}
		if input.Body.Weight != nil {
			d.Weight = *input.Body.Weight
		}
		if input.Body.Notes != nil {
			d.Notes = *input.Body.Notes
		}
		d.UpdatedAt = time.Now()

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Dogs().Update(ctx, d); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceDogs, domain.ActionUpdate, before, d.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update dog", err)
		}

		return &UpdateDogOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-dog",
		Method:      http.MethodDelete,
		Path:        "/dogs/{id}",
		Summary:     "Delete a dog",
		Tags:        []string{"Dogs"},
	}, func(ctx context.Context, input *DeleteDogInput) (*struct{}, error) {
		d, err := store.Dogs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("dog not found")
			}
			return nil, huma.Error500InternalServerError("failed to get dog", err)
		}

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Dogs().Delete(ctx, input.ID); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceDogs, domain.ActionDelete, d.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("dog not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete dog", err)
		}

		return nil, nil
	})
}

// RegisterBreedRoutes mounts the breed catalogue separately so writes can be
// guarded without restricting the rest of the dog surface.
func RegisterBreedRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-breed",
		Method:      http.MethodPost,
		Path:        "/breeds",
		Summary:     "Add a breed to the catalogue",
		Tags:        []string{"Dogs"},
	}, func(ctx context.Context, input *CreateBreedInput) (*CreateBreedOutput, error) {
		b := &domain.DogBreed{
			Name:      input.Body.Name,
			SizeClass: input.Body.SizeClass,
			CreatedAt: time.Now(),
		}

		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Dogs().CreateBreed(ctx, b); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceDogBreeds, domain.ActionInsert, nil, b.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create breed", err)
		}

		return &CreateBreedOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-breeds",
		Method:      http.MethodGet,
		Path:        "/breeds",
		Summary:     "List the breed catalogue",
		Tags:        []string{"Dogs"},
	}, func(ctx context.Context, _ *struct{}) (*ListBreedsOutput, error) {
		breeds, err := store.Dogs().ListBreeds(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list breeds", err)
		}
		return &ListBreedsOutput{Body: breeds}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-breed",
		Method:      http.MethodGet,
		Path:        "/breeds/{id}",
		Summary:     "Get a breed by ID",
		Tags:        []string{"Dogs"},
	}, func(ctx context.Context, input *GetBreedInput) (*GetBreedOutput, error) {
		b, err := store.Dogs().GetBreed(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("breed not found")
			}
			return nil, huma.Error500InternalServerError("failed to get breed", err)
		}
		return &GetBreedOutput{Body: b}, nil
	})
}

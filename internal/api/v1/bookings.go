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

type CreateBookingInput struct {
	Body struct {
		SitterID   int64     `json:"sitter_id" doc:"Sitter ID"`
		DogID      int64     `json:"dog_id" doc:"Dog ID"`
		StartsAt   time.Time `json:"starts_at"`
		EndsAt     time.Time `json:"ends_at"`
		PriceTotal int64     `json:"price_total" minimum:"0" doc:"Total price in cents"`
		Notes      string    `json:"notes,omitempty" maxLength:"4000"`
	}
}

type CreateBookingOutput struct {
	Body *domain.Booking `json:"booking"`
}

type ListBookingsInput struct {
	Role   string `query:"role" enum:"owner,sitter" default:"owner" doc:"List bookings where the caller is the owner or the sitter"`
	Limit  int    `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Page size"`
	Offset int    `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

type ListBookingsOutput struct {
	Body []*domain.Booking `json:"bookings"`
}

type GetBookingInput struct {
	ID int64 `path:"id" doc:"Booking ID"`
}

type GetBookingOutput struct {
	Body *domain.Booking `json:"booking"`
}

type UpdateBookingInput struct {
	ID   int64 `path:"id" doc:"Booking ID"`
	Body struct {
		StartsAt   *time.Time `json:"starts_at,omitempty"`
		EndsAt     *time.Time `json:"ends_at,omitempty"`
		PriceTotal *int64     `json:"price_total,omitempty" minimum:"0"`
		Notes      *string    `json:"notes,omitempty" maxLength:"4000"`
	}
}

type UpdateBookingOutput struct {
	Body *domain.Booking `json:"booking"`
}

type TransitionBookingStatusInput struct {
	ID   int64 `path:"id" doc:"Booking ID"`
	Body struct {
		Status string `json:"status" enum:"confirmed,completed,cancelled" doc:"Target status"`
	}
}

type TransitionBookingStatusOutput struct {
	Body *domain.Booking `json:"booking"`
}

type DeleteBookingInput struct {
	ID int64 `path:"id" doc:"Booking ID"`
}

func RegisterBookingRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-booking",
		Method:      http.MethodPost,
		Path:        "/bookings",
		Summary:     "Request a booking",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *CreateBookingInput) (*CreateBookingOutput, error) {
		ownerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if !input.Body.EndsAt.After(input.Body.StartsAt) {
			return nil, huma.Error400BadRequest("ends_at must be after starts_at")
		}

		dog, err := store.Dogs().GetByID(ctx, input.Body.DogID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("dog not found")
			}
			return nil, huma.Error500InternalServerError("failed to get dog", err)
		}
		if dog.OwnerID != ownerID {
			return nil, huma.Error403Forbidden("dog belongs to another owner")
		}

		if _, err := store.Sitters().GetByID(ctx, input.Body.SitterID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("sitter not found")
			}
			return nil, huma.Error500InternalServerError("failed to get sitter", err)
		}

		b := &domain.Booking{
			OwnerID:    ownerID,
			SitterID:   input.Body.SitterID,
			DogID:      input.Body.DogID,
			Status:     domain.BookingStatusPending,
			StartsAt:   input.Body.StartsAt,
			EndsAt:     input.Body.EndsAt,
			PriceTotal: input.Body.PriceTotal,
			Notes:      input.Body.Notes,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Bookings().Create(ctx, b); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceBookings, domain.ActionInsert, nil, b.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create booking", err)
		}

		return &CreateBookingOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-bookings",
		Method:      http.MethodGet,
		Path:        "/bookings",
		Summary:     "List the caller's bookings",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *ListBookingsInput) (*ListBookingsOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if input.Role == "sitter" {
			sitter, err := store.Sitters().GetByUserID(ctx, userID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("sitter profile not found")
				}
				return nil, huma.Error500InternalServerError("failed to get sitter profile", err)
			}
			bookings, err := store.Bookings().ListBySitter(ctx, sitter.ID, input.Limit, input.Offset)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to list bookings", err)
			}
			return &ListBookingsOutput{Body: bookings}, nil
		}

		bookings, err := store.Bookings().ListByOwner(ctx, userID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list bookings", err)
		}
		return &ListBookingsOutput{Body: bookings}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-booking",
		Method:      http.MethodGet,
		Path:        "/bookings/{id}",
		Summary:     "Get a booking by ID",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *GetBookingInput) (*GetBookingOutput, error) {
		b, err := store.Bookings().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("booking not found")
			}
			return nil, huma.Error500InternalServerError("failed to get booking", err)
		}
		return &GetBookingOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-booking",
		Method:      http.MethodPut,
		Path:        "/bookings/{id}",
		Summary:     "Update a booking",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *UpdateBookingInput) (*UpdateBookingOutput, error) {
		b, err := store.Bookings().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("booking not found")
			}
			return nil, huma.Error500InternalServerError("failed to get booking", err)
		}

		if b.Status != domain.BookingStatusPending {
			return nil, huma.Error409Conflict("only pending bookings can be edited")
		}

		before := b.Snapshot()
		if input.Body.StartsAt != nil {
			b.StartsAt = *input.Body.StartsAt
		}
		if input.Body.EndsAt != nil {
			b.EndsAt = *input.Body.EndsAt
		}
		if input.Body.PriceTotal != nil {
			b.PriceTotal = *input.Body.PriceTotal
		}
		if input.Body.Notes != nil {
			b.Notes = *input.Body.Notes
		}
		if !b.EndsAt.After(b.StartsAt) {
			return nil, huma.Error400BadRequest("ends_at must be after starts_at")
		}
		b.UpdatedAt = time.Now()

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Bookings().Update(ctx, b); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceBookings, domain.ActionUpdate, before, b.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update booking", err)
		}

		return &UpdateBookingOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-booking-status",
		Method:      http.MethodPatch,
		Path:        "/bookings/{id}/status",
		Summary:     "Transition booking status",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *TransitionBookingStatusInput) (*TransitionBookingStatusOutput, error) {
		b, err := store.Bookings().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("booking not found")
			}
			return nil, huma.Error500InternalServerError("failed to get booking", err)
		}

		target := domain.BookingStatus(input.Body.Status)
		if !b.Status.ValidTransition(target) {
			return nil, huma.Error400BadRequest("invalid status transition from " + string(b.Status) + " to " + string(target))
		}

		before := b.Snapshot()
		b.Status = target
		b.UpdatedAt = time.Now()

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Bookings().Update(ctx, b); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceBookings, domain.ActionUpdate, before, b.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update booking status", err)
		}

		return &TransitionBookingStatusOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-booking",
		Method:      http.MethodDelete,
		Path:        "/bookings/{id}",
		Summary:     "Delete a booking",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *DeleteBookingInput) (*struct{}, error) {
		b, err := store.Bookings().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("booking not found")
			}
			return nil, huma.Error500InternalServerError("failed to get booking", err)
		}

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Bookings().Delete(ctx, input.ID); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceBookings, domain.ActionDelete, b.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("booking not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete booking", err)
		}

		return nil, nil
	})
}

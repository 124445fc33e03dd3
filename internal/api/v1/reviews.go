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

type CreateReviewInput struct {
	BookingID int64 `path:"id" doc:"Booking ID"`
	Body      struct {
		Rating  int    `json:"rating" minimum:"1" maximum:"5"`
		Comment string `json:"comment,omitempty" maxLength:"4000"`
	}
}

type CreateReviewOutput struct {
	Body *domain.Review `json:"review"`
}

type GetReviewInput struct {
	ID int64 `path:"id" doc:"Review ID"`
}

type GetReviewOutput struct {
	Body *domain.Review `json:"review"`
}

type ListSitterReviewsInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
	Limit    int   `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Page size"`
	Offset   int   `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

type ListSitterReviewsOutput struct {
	Body []*domain.Review `json:"reviews"`
}

type UpdateReviewInput struct {
	ID   int64 `path:"id" doc:"Review ID"`
	Body struct {
		Rating  *int    `json:"rating,omitempty" minimum:"1" maximum:"5"`
		Comment *string `json:"comment,omitempty" maxLength:"4000"`
	}
}

type UpdateReviewOutput struct {
	Body *domain.Review `json:"review"`
}

type DeleteReviewInput struct {
	ID int64 `path:"id" doc:"Review ID"`
}

func RegisterReviewRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-review",
		Method:      http.MethodPost,
		Path:        "/bookings/{id}/reviews",
		Summary:     "Review a completed booking",
		Tags:        []string{"Reviews"},
	}, func(ctx context.Context, input *CreateReviewInput) (*CreateReviewOutput, error) {
		authorID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		b, err := store.Bookings().GetByID(ctx, input.BookingID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("booking not found")
			}
			return nil, huma.Error500InternalServerError("failed to get booking", err)
		}
		if b.OwnerID != authorID {
			return nil, huma.Error403Forbidden("only the booking owner can review it")
		}
		if b.Status != domain.BookingStatusCompleted {
			return nil, huma.Error409Conflict("only completed bookings can be reviewed")
		}

		r := &domain.Review{
			BookingID: b.ID,
			AuthorID:  authorID,
			SitterID:  b.SitterID,
			Rating:    input.Body.Rating,
			Comment:   input.Body.Comment,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Reviews().Create(ctx, r); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceReviews, domain.ActionInsert, nil, r.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create review", err)
		}

		return &CreateReviewOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sitter-reviews",
		Method:      http.MethodGet,
		Path:        "/sitters/{id}/reviews",
		Summary:     "List reviews for a sitter",
		Tags:        []string{"Reviews"},
	}, func(ctx context.Context, input *ListSitterReviewsInput) (*ListSitterReviewsOutput, error) {
		reviews, err := store.Reviews().ListBySitter(ctx, input.SitterID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list reviews", err)
		}
		return &ListSitterReviewsOutput{Body: reviews}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-review",
		Method:      http.MethodGet,
		Path:        "/reviews/{id}",
		Summary:     "Get a review by ID",
		Tags:        []string{"Reviews"},
	}, func(ctx context.Context, input *GetReviewInput) (*GetReviewOutput, error) {
		r, err := store.Reviews().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("review not found")
			}
			return nil, huma.Error500InternalServerError("failed to get review", err)
		}
		return &GetReviewOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-review",
		Method:      http.MethodPut,
		Path:        "/reviews/{id}",
		Summary:     "Update a review",
		Tags:        []string{"Reviews"},
	}, func(ctx context.Context, input *UpdateReviewInput) (*UpdateReviewOutput, error) {
		r, err := store.Reviews().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("review not found")
			}
			return nil, huma.Error500InternalServerError("failed to get review", err)
		}

		if authorID, ok := middleware.UserIDFromContext(ctx); ok && !middleware.IsAdminFromContext(ctx) && r.AuthorID != authorID {
			return nil, huma.Error403Forbidden("only the author can edit a review")
		}

		before := r.Snapshot()
		if input.Body.Rating != nil {
			r.Rating = *input.Body.Rating
		}
		if input.Body.Comment != nil {
			r.Comment = *input.Body.Comment
		}
		r.UpdatedAt = time.Now()

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Reviews().Update(ctx, r); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceReviews, domain.ActionUpdate, before, r.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update review", err)
		}

		return &UpdateReviewOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-review",
		Method:      http.MethodDelete,
		Path:        "/reviews/{id}",
		Summary:     "Delete a review",
		Tags:        []string{"Reviews"},
	}, func(ctx context.Context, input *DeleteReviewInput) (*struct{}, error) {
		r, err := store.Reviews().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("review not found")
			}
			return nil, huma.Error500InternalServerError("failed to get review", err)
		}

		if authorID, ok := middleware.UserIDFromContext(ctx); ok && !middleware.IsAdminFromContext(ctx) && r.AuthorID != authorID {
			return nil, huma.Error403Forbidden("only the author can delete a review")
		}

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Reviews().Delete(ctx, input.ID); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceReviews, domain.ActionDelete, r.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("review not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete review", err)
		}

		return nil, nil
	})
}

package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pawsit/pawsit/internal/domain"
)

type ListRevisionsInput struct {
	Resource string    `query:"resource" doc:"Filter by resource name"`
	RecordID string    `query:"record_id" doc:"Filter by record identifier"`
	ActorID  *int64    `query:"actor_id" doc:"Filter by acting user"`
	Field    string    `query:"field" doc:"Only revisions whose changed fields include this field"`
	Since    time.Time `query:"since" doc:"Only revisions at or after this instant"`
	Until    time.Time `query:"until" doc:"Only revisions before this instant"`
	Limit    int       `query:"limit" minimum:"1" maximum:"500" default:"100" doc:"Page size"`
	Offset   int       `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

type ListRevisionsOutput struct {
	Body []*domain.Revision `json:"revisions"`
}

type GetRevisionInput struct {
	ID int64 `path:"id" doc:"Revision ID"`
}

type GetRevisionOutput struct {
	Body *domain.Revision `json:"revision"`
}

func RegisterRevisionRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-revisions",
		Method:      http.MethodGet,
		Path:        "/revisions",
		Summary:     "List audit revisions",
		Tags:        []string{"Revisions"},
	}, func(ctx context.Context, input *ListRevisionsInput) (*ListRevisionsOutput, error) {
		if input.Resource != "" && !domain.Resource(input.Resource).Valid() {
			return nil, huma.Error400BadRequest("unknown resource: " + input.Resource)
		}

		filter := domain.RevisionFilter{
			Resource: domain.Resource(input.Resource),
			RecordID: input.RecordID,
			ActorID:  input.ActorID,
			Since:    input.Since,
			Until:    input.Until,
			Field:    input.Field,
			Limit:    input.Limit,
			Offset:   input.Offset,
		}

		revs, err := store.Revisions().List(ctx, filter)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list revisions", err)
		}
		return &ListRevisionsOutput{Body: revs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-revision",
		Method:      http.MethodGet,
		Path:        "/revisions/{id}",
		Summary:     "Get a revision by ID",
		Tags:        []string{"Revisions"},
	}, func(ctx context.Context, input *GetRevisionInput) (*GetRevisionOutput, error) {
		rev, err := store.Revisions().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("revision not found")
			}
			return nil, huma.Error500InternalServerError("failed to get revision", err)
		}
		return &GetRevisionOutput{Body: rev}, nil
	})
}

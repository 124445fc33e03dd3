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

type CreateSitterInput struct {
	Body struct {
		Bio        string  `json:"bio,omitempty" maxLength:"4000"`
		HourlyRate int64   `json:"hourly_rate" minimum:"0" doc:"Hourly rate in cents"`
		City       string  `json:"city" minLength:"1" maxLength:"255"`
		Latitude   float64 `json:"latitude" minimum:"-90" maximum:"90"`
		Longitude  float64 `json:"longitude" minimum:"-180" maximum:"180"`
	}
}

type CreateSitterOutput struct {
	Body *domain.Sitter `json:"sitter"`
}

type ListSittersInput struct {
	Limit  int `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Page size"`
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

type ListSittersOutput struct {
	Body []*domain.Sitter `json:"sitters"`
}

type GetSitterInput struct {
	ID int64 `path:"id" doc:"Sitter ID"`
}

type GetSitterOutput struct {
	Body *domain.Sitter `json:"sitter"`
}

type UpdateSitterInput struct {
	ID   int64 `path:"id" doc:"Sitter ID"`
	Body struct {
		Bio        *string  `json:"bio,omitempty" maxLength:"4000"`
		HourlyRate *int64   `json:"hourly_rate,omitempty" minimum:"0"`
		City       *string  `json:"city,omitempty" maxLength:"255"`
		Latitude   *float64 `json:"latitude,omitempty" minimum:"-90" maximum:"90"`
		Longitude  *float64 `json:"longitude,omitempty" minimum:"-180" maximum:"180"`
		Verified   *bool    `json:"verified,omitempty"`
	}
}

type UpdateSitterOutput struct {
	Body *domain.Sitter `json:"sitter"`
}

type DeleteSitterInput struct {
	ID int64 `path:"id" doc:"Sitter ID"`
}

type AddCertificateInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
	Body     struct {
		Title    string    `json:"title" minLength:"1" maxLength:"255"`
		Issuer   string    `json:"issuer" minLength:"1" maxLength:"255"`
		IssuedAt time.Time `json:"issued_at"`
	}
}

type AddCertificateOutput struct {
	Body *domain.SitterCertificate `json:"certificate"`
}

type ListCertificatesInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
}

type ListCertificatesOutput struct {
	Body []*domain.SitterCertificate `json:"certificates"`
}

type DeleteCertificateInput struct {
	SitterID      int64 `path:"id" doc:"Sitter ID"`
	CertificateID int64 `path:"certID" doc:"Certificate ID"`
}

type AddServiceInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
	Body     struct {
		Name  string `json:"name" minLength:"1" maxLength:"255" doc:"Service name (walking, boarding, daycare)"`
		Price int64  `json:"price" minimum:"0" doc:"Price in cents"`
	}
}

type AddServiceOutput struct {
	Body *domain.SitterService `json:"service"`
}

type ListServicesInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
}

type ListServicesOutput struct {
	Body []*domain.SitterService `json:"services"`
}

type DeleteServiceInput struct {
	SitterID  int64 `path:"id" doc:"Sitter ID"`
	ServiceID int64 `path:"serviceID" doc:"Service ID"`
}

type AddAvailabilityInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
	Body     struct {
		Weekday   int    `json:"weekday" minimum:"0" maximum:"6" doc:"0 = Sunday"`
		StartTime string `json:"start_time" pattern:"^[0-2][0-9]:[0-5][0-9]$" doc:"HH:MM"`
		EndTime   string `json:"end_time" pattern:"^[0-2][0-9]:[0-5][0-9]$" doc:"HH:MM"`
	}
}

type AddAvailabilityOutput struct {
	Body *domain.Availability `json:"availability"`
}

type ListAvailabilityInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
}

type ListAvailabilityOutput struct {
	Body []*domain.Availability `json:"availability"`
}

type DeleteAvailabilityInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
	SlotID   int64 `path:"slotID" doc:"Availability slot ID"`
}

type AddUnavailableDateInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
	Body     struct {
		Date   time.Time `json:"date"`
		Reason string    `json:"reason,omitempty" maxLength:"255"`
	}
}

type AddUnavailableDateOutput struct {
	Body *domain.UnavailableDate `json:"unavailable_date"`
}

type ListUnavailableDatesInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
}

type ListUnavailableDatesOutput struct {
	Body []*domain.UnavailableDate `json:"unavailable_dates"`
}

type DeleteUnavailableDateInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
	DateID   int64 `path:"dateID" doc:"Blocked date ID"`
}

type AddSpecialtyInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
	Body     struct {
		BreedID int64 `json:"breed_id" doc:"Breed catalogue ID"`
	}
}

type AddSpecialtyOutput struct {
	Body *domain.SitterBreedSpecialty `json:"specialty"`
}

type ListSpecialtiesInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
}

type ListSpecialtiesOutput struct {
	Body []*domain.SitterBreedSpecialty `json:"specialties"`
}

type RemoveSpecialtyInput struct {
	SitterID int64 `path:"id" doc:"Sitter ID"`
	BreedID  int64 `path:"breedID" doc:"Breed catalogue ID"`
}

func RegisterSitterRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-sitter",
		Method:      http.MethodPost,
		Path:        "/sitters",
		Summary:     "Create a sitter profile for the authenticated user",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *CreateSitterInput) (*CreateSitterOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if _, err := store.Sitters().GetByUserID(ctx, userID); err == nil {
			return nil, huma.Error409Conflict("sitter profile already exists")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to check sitter profile", err)
		}

		s := &domain.Sitter{
			UserID:     userID,
			Bio:        input.Body.Bio,
			HourlyRate: input.Body.HourlyRate,
			City:       input.Body.City,
			Latitude:   input.Body.Latitude,
			Longitude:  input.Body.Longitude,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}

		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Sitters().Create(ctx, s); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceSitters, domain.ActionInsert, nil, s.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create sitter", err)
		}

		return &CreateSitterOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sitters",
		Method:      http.MethodGet,
		Path:        "/sitters",
		Summary:     "List sitters",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *ListSittersInput) (*ListSittersOutput, error) {
		sitters, err := store.Sitters().List(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list sitters", err)
		}
		return &ListSittersOutput{Body: sitters}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-sitter",
		Method:      http.MethodGet,
		Path:        "/sitters/{id}",
		Summary:     "Get a sitter by ID",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *GetSitterInput) (*GetSitterOutput, error) {
		s, err := store.Sitters().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("sitter not found")
			}
			return nil, huma.Error500InternalServerError("failed to get sitter", err)
		}
		return &GetSitterOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-sitter",
		Method:      http.MethodPut,
		Path:        "/sitters/{id}",
		Summary:     "Update a sitter profile",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *UpdateSitterInput) (*UpdateSitterOutput, error) {
		s, err := store.Sitters().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("sitter not found")
			}
			return nil, huma.Error500InternalServerError("failed to get sitter", err)
		}

		before := s.Snapshot()
		if input.Body.Bio != nil {
			s.Bio = *input.Body.Bio
		}
		if input.Body.HourlyRate != nil {
			s.HourlyRate = *input.Body.HourlyRate
		}
		if input.Body.City != nil {
			s.City = *input.Body.City
		}
		if input.Body.Latitude != nil {
			s.Latitude = *input.Body.Latitude
		}
		if input.Body.Longitude != nil {
			s.Longitude = *input.Body.Longitude
		}
		if input.Body.Verified != nil {
			s.Verified = *input.Body.Verified
		}
		s.UpdatedAt = time.Now()

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Sitters().Update(ctx, s); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceSitters, domain.ActionUpdate, before, s.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update sitter", err)
		}

		return &UpdateSitterOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-sitter",
		Method:      http.MethodDelete,
		Path:        "/sitters/{id}",
		Summary:     "Delete a sitter profile",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *DeleteSitterInput) (*struct{}, error) {
		s, err := store.Sitters().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("sitter not found")
			}
			return nil, huma.Error500InternalServerError("failed to get sitter", err)
		}

		err = tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Sitters().Delete(ctx, input.ID); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceSitters, domain.ActionDelete, s.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("sitter not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete sitter", err)
		}

		return nil, nil
	})

	registerCertificateRoutes(api, store, tx, rec)
	registerServiceRoutes(api, store, tx, rec)
	registerAvailabilityRoutes(api, store, tx, rec)
	registerSpecialtyRoutes(api, store, tx, rec)
}

func registerCertificateRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "add-sitter-certificate",
		Method:      http.MethodPost,
		Path:        "/sitters/{id}/certificates",
		Summary:     "Attach a certificate to a sitter",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *AddCertificateInput) (*AddCertificateOutput, error) {
		c := &domain.SitterCertificate{
			SitterID:  input.SitterID,
			Title:     input.Body.Title,
			Issuer:    input.Body.Issuer,
			IssuedAt:  input.Body.IssuedAt,
			CreatedAt: time.Now(),
		}

		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Sitters().AddCertificate(ctx, c); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceSitterCertificates, domain.ActionInsert, nil, c.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to add certificate", err)
		}

		return &AddCertificateOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sitter-certificates",
		Method:      http.MethodGet,
		Path:        "/sitters/{id}/certificates",
		Summary:     "List a sitter's certificates",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *ListCertificatesInput) (*ListCertificatesOutput, error) {
		certs, err := store.Sitters().ListCertificates(ctx, input.SitterID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list certificates", err)
		}
		return &ListCertificatesOutput{Body: certs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-sitter-certificate",
		Method:      http.MethodDelete,
		Path:        "/sitters/{id}/certificates/{certID}",
		Summary:     "Remove a certificate",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *DeleteCertificateInput) (*struct{}, error) {
		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			c, err := txs.Sitters().DeleteCertificate(ctx, input.CertificateID)
			if err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceSitterCertificates, domain.ActionDelete, c.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("certificate not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete certificate", err)
		}
		return nil, nil
	})
}

func registerServiceRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "add-sitter-service",
		Method:      http.MethodPost,
		Path:        "/sitters/{id}/services",
		Summary:     "Add a service a sitter offers",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *AddServiceInput) (*AddServiceOutput, error) {
		s := &domain.SitterService{
			SitterID:  input.SitterID,
			Name:      input.Body.Name,
			Price:     input.Body.Price,
			CreatedAt: time.Now(),
		}

		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Sitters().AddService(ctx, s); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceSitterServices, domain.ActionInsert, nil, s.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to add service", err)
		}

		return &AddServiceOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sitter-services",
		Method:      http.MethodGet,
		Path:        "/sitters/{id}/services",
		Summary:     "List a sitter's services",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *ListServicesInput) (*ListServicesOutput, error) {
		services, err := store.Sitters().ListServices(ctx, input.SitterID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list services", err)
		}
		return &ListServicesOutput{Body: services}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-sitter-service",
		Method:      http.MethodDelete,
		Path:        "/sitters/{id}/services/{serviceID}",
		Summary:     "Remove a service",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *DeleteServiceInput) (*struct{}, error) {
		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			s, err := txs.Sitters().DeleteService(ctx, input.ServiceID)
			if err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceSitterServices, domain.ActionDelete, s.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("service not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete service", err)
		}
		return nil, nil
	})
}

func registerAvailabilityRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "add-sitter-availability",
		Method:      http.MethodPost,
		Path:        "/sitters/{id}/availability",
		Summary:     "Add a weekly availability slot",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *AddAvailabilityInput) (*AddAvailabilityOutput, error) {
		a := &domain.Availability{
			SitterID:  input.SitterID,
			Weekday:   input.Body.Weekday,
			StartTime: input.Body.StartTime,
			EndTime:   input.Body.EndTime,
			CreatedAt: time.Now(),
		}

		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Sitters().AddAvailability(ctx, a); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceAvailability, domain.ActionInsert, nil, a.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to add availability", err)
		}

		return &AddAvailabilityOutput{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sitter-availability",
		Method:      http.MethodGet,
		Path:        "/sitters/{id}/availability",
		Summary:     "List a sitter's weekly availability",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *ListAvailabilityInput) (*ListAvailabilityOutput, error) {
		slots, err := store.Sitters().ListAvailability(ctx, input.SitterID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list availability", err)
		}
		return &ListAvailabilityOutput{Body: slots}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-sitter-availability",
		Method:      http.MethodDelete,
		Path:        "/sitters/{id}/availability/{slotID}",
		Summary:     "Remove an availability slot",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *DeleteAvailabilityInput) (*struct{}, error) {
		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			a, err := txs.Sitters().DeleteAvailability(ctx, input.SlotID)
			if err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceAvailability, domain.ActionDelete, a.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("availability slot not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete availability", err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-sitter-unavailable-date",
		Method:      http.MethodPost,
		Path:        "/sitters/{id}/unavailable-dates",
		Summary:     "Block a calendar date",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *AddUnavailableDateInput) (*AddUnavailableDateOutput, error) {
		u := &domain.UnavailableDate{
			SitterID:  input.SitterID,
			Date:      input.Body.Date,
			Reason:    input.Body.Reason,
			CreatedAt: time.Now(),
		}

		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Sitters().AddUnavailableDate(ctx, u); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceUnavailableDates, domain.ActionInsert, nil, u.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to block date", err)
		}

		return &AddUnavailableDateOutput{Body: u}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sitter-unavailable-dates",
		Method:      http.MethodGet,
		Path:        "/sitters/{id}/unavailable-dates",
		Summary:     "List a sitter's blocked dates",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *ListUnavailableDatesInput) (*ListUnavailableDatesOutput, error) {
		dates, err := store.Sitters().ListUnavailableDates(ctx, input.SitterID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list blocked dates", err)
		}
		return &ListUnavailableDatesOutput{Body: dates}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-sitter-unavailable-date",
		Method:      http.MethodDelete,
		Path:        "/sitters/{id}/unavailable-dates/{dateID}",
		Summary:     "Unblock a calendar date",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *DeleteUnavailableDateInput) (*struct{}, error) {
		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			u, err := txs.Sitters().DeleteUnavailableDate(ctx, input.DateID)
			if err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceUnavailableDates, domain.ActionDelete, u.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("blocked date not found")
			}
			return nil, huma.Error500InternalServerError("failed to unblock date", err)
		}
		return nil, nil
	})
}

func registerSpecialtyRoutes(api huma.API, store DataStore, tx TxRunner, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "add-sitter-specialty",
		Method:      http.MethodPost,
		Path:        "/sitters/{id}/specialties",
		Summary:     "Mark a breed specialty",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *AddSpecialtyInput) (*AddSpecialtyOutput, error) {
		s := &domain.SitterBreedSpecialty{
			SitterID:  input.SitterID,
			BreedID:   input.Body.BreedID,
			CreatedAt: time.Now(),
		}

		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			if err := txs.Sitters().AddBreedSpecialty(ctx, s); err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceSitterBreedSpecialty, domain.ActionInsert, nil, s.Snapshot())
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to add specialty", err)
		}

		return &AddSpecialtyOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sitter-specialties",
		Method:      http.MethodGet,
		Path:        "/sitters/{id}/specialties",
		Summary:     "List a sitter's breed specialties",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *ListSpecialtiesInput) (*ListSpecialtiesOutput, error) {
		specialties, err := store.Sitters().ListBreedSpecialties(ctx, input.SitterID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list specialties", err)
		}
		return &ListSpecialtiesOutput{Body: specialties}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-sitter-specialty",
		Method:      http.MethodDelete,
		Path:        "/sitters/{id}/specialties/{breedID}",
		Summary:     "Remove a breed specialty",
		Tags:        []string{"Sitters"},
	}, func(ctx context.Context, input *RemoveSpecialtyInput) (*struct{}, error) {
		err := tx(ctx, func(ctx context.Context, txs DataStore) error {
			s, err := txs.Sitters().RemoveBreedSpecialty(ctx, input.SitterID, input.BreedID)
			if err != nil {
				return err
			}
			return record(ctx, rec, txs.Revisions(), domain.ResourceSitterBreedSpecialty, domain.ActionDelete, s.Snapshot(), nil)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("specialty not found")
			}
			return nil, huma.Error500InternalServerError("failed to remove specialty", err)
		}
		return nil, nil
	})
}

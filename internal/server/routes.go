package server

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	v1 "github.com/pawsit/pawsit/internal/api/v1"
	"github.com/pawsit/pawsit/internal/auth"
	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/revision"
	"github.com/pawsit/pawsit/internal/server/middleware"
	"github.com/pawsit/pawsit/internal/store/postgres"
)

func newAPI(r chi.Router, title string) huma.API {
	cfg := huma.DefaultConfig(title, "1.0.0")
	cfg.Servers = []*huma.Server{{URL: "/api/v1"}}
	return humachi.New(r, cfg)
}

// mountAPI wires /api/v1. Auth routes are public behind a per-IP limiter;
// everything else requires a valid token. Admin surfaces additionally go
// through effective-permission checks.
func (s *Server) mountAPI(router chi.Router, providers map[string]*auth.OAuthProvider) {
	txRun := v1.TxRunner(func(ctx context.Context, fn func(ctx context.Context, tx v1.DataStore) error) error {
		// Feed announcements for revisions recorded inside the transaction
		// are held back until the commit succeeds.
		heldCtx, pending := revision.Hold(ctx)
		err := s.store.InTx(heldCtx, func(tx *postgres.Store) error {
			return fn(heldCtx, tx)
		})
		if err != nil {
			return err
		}
		s.recorder.Announce(ctx, pending.Drain()...)
		return nil
	})

	router.Route("/api/v1", func(r chi.Router) {
		// Public auth routes (register, login, refresh, OAuth).
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(context.Background(), s.cfg.Server.RateLimit, s.cfg.Server.RateBurst))
			api := newAPI(r, "Pawsit Auth API")
			v1.RegisterAuthRoutes(api, s.store, s.auth, s.recorder, providers)
		})

		// Marketplace routes: any authenticated user, ownership enforced
		// in the handlers.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(s.cfg.JWT.Secret))
			r.Use(middleware.RateLimit(context.Background(), s.cfg.Server.RateLimit, s.cfg.Server.RateBurst))
			api := newAPI(r, "Pawsit API")
			v1.RegisterSitterRoutes(api, s.store, txRun, s.recorder)
			v1.RegisterDogRoutes(api, s.store, txRun, s.recorder)
			v1.RegisterBookingRoutes(api, s.store, txRun, s.recorder)
			v1.RegisterReviewRoutes(api, s.store, txRun, s.recorder)
		})

		// Breed catalogue: anyone authenticated may read, writes need a
		// dog_breeds grant.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(s.cfg.JWT.Secret))
			r.Use(middleware.RateLimit(context.Background(), s.cfg.Server.RateLimit, s.cfg.Server.RateBurst))
			r.Use(middleware.PermitWrites(s.resolver, domain.ResourceDogBreeds))
			api := newAPI(r, "Pawsit Breeds API")
			v1.RegisterBreedRoutes(api, s.store, txRun, s.recorder)
		})

		// Account administration: read and write guarded by the users
		// resource.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(s.cfg.JWT.Secret))
			r.Use(middleware.RateLimit(context.Background(), s.cfg.Server.RateLimit, s.cfg.Server.RateBurst))
			r.Use(middleware.Permit(s.resolver, domain.ResourceUsers, domain.PermissionRead))
			r.Use(middleware.PermitWrites(s.resolver, domain.ResourceUsers))
			api := newAPI(r, "Pawsit Users API")
			v1.RegisterUserRoutes(api, s.store, txRun, s.recorder, s.resolver)
		})

		// Permission group management: admin grant on user_groups.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(s.cfg.JWT.Secret))
			r.Use(middleware.RateLimit(context.Background(), s.cfg.Server.RateLimit, s.cfg.Server.RateBurst))
			r.Use(middleware.Permit(s.resolver, domain.ResourceUserGroups, domain.PermissionAdmin))
			api := newAPI(r, "Pawsit Groups API")
			v1.RegisterGroupRoutes(api, s.store, txRun, s.recorder, s.resolver)
		})

		// Audit log: read-only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(s.cfg.JWT.Secret))
			r.Use(middleware.RateLimit(context.Background(), s.cfg.Server.RateLimit, s.cfg.Server.RateBurst))
			r.Use(middleware.Permit(s.resolver, domain.ResourceRevisions, domain.PermissionRead))
			api := newAPI(r, "Pawsit Revisions API")
			v1.RegisterRevisionRoutes(api, s.store)
		})
	})
}

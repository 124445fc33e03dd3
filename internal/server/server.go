package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/pawsit/pawsit/internal/api/ws"
	"github.com/pawsit/pawsit/internal/auth"
	"github.com/pawsit/pawsit/internal/config"
	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/permission"
	"github.com/pawsit/pawsit/internal/revision"
	"github.com/pawsit/pawsit/internal/server/middleware"
	"github.com/pawsit/pawsit/internal/store/postgres"
	redisstore "github.com/pawsit/pawsit/internal/store/redis"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	resolver   *permission.Resolver
	recorder   *revision.Recorder
	cfg        *config.Config
}

// New creates a Server with all routes wired. providers maps OAuth provider
// names to their configured clients and may be empty.
func New(cfg *config.Config, store *postgres.Store, authSvc *auth.Service, resolver *permission.Resolver, recorder *revision.Recorder, pubsub *redisstore.PubSub, providers map[string]*auth.OAuthProvider) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router:   router,
		store:    store,
		auth:     authSvc,
		resolver: resolver,
		recorder: recorder,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	s.mountAPI(router, providers)

	// Live event streams. Permission updates are scoped to the caller;
	// the revision feed requires a read grant on the revisions resource.
	hub := ws.NewHub(pubsub)
	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret))
		r.Get("/permissions", hub.ServePermissions)
		r.With(middleware.Permit(resolver, domain.ResourceRevisions, domain.PermissionRead)).
			Get("/revisions/{resource}", hub.ServeRevisions)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

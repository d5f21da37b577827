package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig wires handlers and the token verifier into the API router.
type RouterConfig struct {
	Auth      *AuthHandler
	UserData  *UserDataHandler
	Schedules *ScheduleHandler
	Libraries *LibraryHandler
	Verifier  TokenVerifier
	Logger    *slog.Logger
}

// NewRouter assembles the API surface. Share and public listing routes
// accept anonymous requests; everything else requires a valid token.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := defaultLogger(cfg.Logger)
	requireAuth := RequireAuth(cfg.Verifier, logger)
	optionalAuth := OptionalAuth(cfg.Verifier, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	if cfg.Auth != nil {
		r.Post("/auth/register", cfg.Auth.Register)
		r.Post("/auth/login", cfg.Auth.Login)
	}

	if cfg.UserData != nil {
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/user-data", cfg.UserData.Get)
			r.Post("/user-data", cfg.UserData.Save)
		})
	}

	if cfg.Schedules != nil {
		r.Route("/schedules", func(r chi.Router) {
			// Static "public" segments take precedence over the {id} param.
			r.With(optionalAuth).Get("/public", cfg.Schedules.ListPublic)
			r.With(optionalAuth).Get("/public/{uniqueId}", cfg.Schedules.GetShared)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", cfg.Schedules.List)
				r.Post("/", cfg.Schedules.Save)
				r.Get("/{id}", cfg.Schedules.Get)
				r.Put("/{id}", cfg.Schedules.Update)
				r.Delete("/{id}", cfg.Schedules.Delete)
			})
		})
	}

	if cfg.Libraries != nil {
		r.Route("/emoji-libraries", func(r chi.Router) {
			r.With(optionalAuth).Get("/public", cfg.Libraries.ListPublic)
			r.With(optionalAuth).Get("/public/{uniqueId}", cfg.Libraries.GetShared)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", cfg.Libraries.List)
				r.Post("/", cfg.Libraries.Save)
				r.Get("/{id}", cfg.Libraries.Get)
				r.Put("/{id}", cfg.Libraries.Update)
				r.Delete("/{id}", cfg.Libraries.Delete)
			})
		})

		r.With(requireAuth).Post("/merge-emoji-library", cfg.Libraries.Merge)
	}

	return r
}

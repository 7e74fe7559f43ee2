package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	"github.com/MrJamesThe3rd/caixa/internal/http/export"
	"github.com/MrJamesThe3rd/caixa/internal/http/importcsv"
	"github.com/MrJamesThe3rd/caixa/internal/http/movement"
	"github.com/MrJamesThe3rd/caixa/internal/http/session"
)

type Options struct {
	AllowedOrigins []string
}

func New(
	authenticator *auth.Authenticator,
	movementsV1 *movement.Handler,
	sessionsV1 *session.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.OrganizationHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticator.Middleware)

		r.Route("/cash/movements", func(r chi.Router) {
			exportV1.Routes(r)
			importV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				movementsV1.Routes(r)
			})
		})

		r.Route("/cash/sessions", sessionsV1.Routes)
	})

	return router
}

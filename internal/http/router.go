package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quinworks/pricematch/internal/http/auth"
	catalogHandler "github.com/quinworks/pricematch/internal/http/catalog"
	matchHandler "github.com/quinworks/pricematch/internal/http/match"
)

func New(
	matchV1 *matchHandler.Handler,
	catalogV1 *catalogHandler.Handler,
	authSecret string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(authSecret))

		r.Route("/match", matchV1.Routes)
		r.Route("/catalog", catalogV1.Routes)
	})

	return router
}

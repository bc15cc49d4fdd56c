// ABOUTME: Chi router wiring for the curator REST surface
// ABOUTME: Logging, panic recovery, and consistent path handling
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", apiHandler.ChatHandler)
		r.Post("/sessions/end", apiHandler.EndSessionHandler)
		r.Get("/decisions", apiHandler.DecisionsHandler)
		r.Get("/intents", apiHandler.IntentsHandler)
		r.Get("/metadata", apiHandler.MetadataHandler)
		r.Get("/health", apiHandler.HealthHandler)
	})

	return r
}

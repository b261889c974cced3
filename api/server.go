/*
server.go - HTTP router and middleware configuration

ROUTER: chi
  Lightweight, context-based, RESTful route patterns.

MIDDLEWARE STACK:
  1. Logger:     request logging
  2. Recoverer:  panic recovery (500 instead of crash)
  3. RequestID:  unique ID per request for tracing
  4. CORS:       cross-origin requests for the dashboard frontend

SECURITY NOTE:
  No authentication middleware. The engine sits behind the main bakery
  app, which owns sessions and admin auth.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.ListInventory)
			r.Get("/{name}", h.GetInventoryItem)
			r.Get("/{name}/history", h.GetHistory)
			r.Get("/{name}/usage", h.GetUsage)
			r.Post("/{name}/restock", h.Restock)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Get("/{product}", h.GetRecipe)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/check", h.CheckAvailability)
			r.Post("/deduct", h.Deduct)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/seed", h.Seed)
		})
	})

	return r
}

/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Lightweight, context-based, RESTful route patterns.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the desk frontend

ROUTE GROUPS:
  /book, /cancel, /get_*   Public booking surface (original route names)
  /events                  SSE subscription stream
  /admin/verify            Password -> token exchange
  /extract_booking,
  /admin/*                 Token-gated admin surface

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Booking surface
	r.Post("/book", h.Book)
	r.Post("/cancel", h.Cancel)
	r.Get("/get_bookings", h.GetBookings)
	r.Post("/get_bookings", h.GetBookings)
	r.Get("/get_names", h.GetNames)
	r.Get("/get_current_dates", h.GetCurrentDates)
	r.Get("/get_current_time", h.GetCurrentTime)
	r.Get("/get_server_date", h.GetServerDate)

	// Live updates
	r.Get("/events", h.Events)

	// Admin
	r.Post("/admin/verify", h.VerifyAdmin)
	r.Group(func(r chi.Router) {
		r.Use(h.Admin.RequireAdmin)
		r.Post("/extract_booking", h.Extract)
		r.Get("/admin/ledgers", h.ListLedgers)
		r.Post("/admin/reload_names", h.ReloadNames)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

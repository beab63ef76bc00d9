package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wayfarer-labs/travel-log-api/internal/app/auth"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: handlers decode/encode the wire
// contract and delegate to the application services; this package wires
// routes and middleware.
func NewRouter(s *Server, authSvc *auth.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Unauthenticated liveness probe.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/register", s.Register)
	r.Post("/login", s.Login)

	r.Group(func(r chi.Router) {
		r.Use(NewAuthMiddleware(authSvc))

		r.Post("/logout", s.Logout)
		r.Route("/travels", func(r chi.Router) {
			r.Get("/", s.ListTravels)
			r.Post("/", s.CreateTravel)
			r.Get("/{id}", s.GetTravel)
			r.Put("/{id}", s.UpdateTravel)
			r.Delete("/{id}", s.DeleteTravel)
		})
	})

	return r
}

package httpapi

import (
	"github.com/wayfarer-labs/travel-log-api/internal/app/auth"
	"github.com/wayfarer-labs/travel-log-api/internal/app/travels"
)

// Server holds the application services the HTTP handlers delegate to.
type Server struct {
	auth    *auth.Service
	travels *travels.Service
}

func NewServer(authSvc *auth.Service, travelSvc *travels.Service) *Server {
	return &Server{auth: authSvc, travels: travelSvc}
}

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/wayfarer-labs/travel-log-api/internal/app/auth"
)

// Register handles POST /register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSONBody(w)
		return
	}

	u, err := s.auth.Register(r.Context(), auth.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"data":    toUserResponse(u),
	})
}

// Login handles POST /login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSONBody(w)
		return
	}

	u, token, err := s.auth.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login success",
		"user":    toUserResponse(u),
		"token":   token,
	})
}

// Logout handles POST /logout. It revokes only the token used for this
// request; other sessions of the same user stay live.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	raw, ok := BearerTokenFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := s.auth.Logout(r.Context(), raw); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

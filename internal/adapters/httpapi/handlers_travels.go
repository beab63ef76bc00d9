package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"

	"github.com/wayfarer-labs/travel-log-api/internal/app/travels"
	"github.com/wayfarer-labs/travel-log-api/internal/domain"
)

// ListTravels handles GET /travels?page=N.
func (s *Server) ListTravels(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	pg, err := s.travels.List(r.Context(), caller.ID, page)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": toPageResponse(pg)})
}

// GetTravel handles GET /travels/{id}.
func (s *Server) GetTravel(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	t, err := s.travels.Get(r.Context(), caller.ID, domain.TravelID(chi.URLParam(r, "id")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": toTravelResponse(t)})
}

// CreateTravel handles POST /travels.
//
// Success answers 200, not 201: the travel flow has always used 200 and
// existing clients depend on it, asymmetric as it is with /register.
func (s *Server) CreateTravel(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	in, ok := decodeTravelInput(w, r)
	if !ok {
		return
	}

	t, err := s.travels.Create(r.Context(), caller.ID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Travel created successfully.",
		"data":    toTravelResponse(t),
	})
}

// UpdateTravel handles PUT /travels/{id}.
func (s *Server) UpdateTravel(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	in, ok := decodeTravelInput(w, r)
	if !ok {
		return
	}

	t, err := s.travels.Update(r.Context(), caller.ID, domain.TravelID(chi.URLParam(r, "id")), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Travel updated successfully.",
		"data":    toTravelResponse(t),
	})
}

// DeleteTravel handles DELETE /travels/{id}.
func (s *Server) DeleteTravel(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.travels.Delete(r.Context(), caller.ID, domain.TravelID(chi.URLParam(r, "id"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Travel deleted successfully.")
}

func decodeTravelInput(w http.ResponseWriter, r *http.Request) (travels.Input, bool) {
	var req travelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSONBody(w)
		return travels.Input{}, false
	}
	return travels.Input{
		Origin:      req.Origin,
		Destination: req.Destination,
		Type:        req.Type,
		StartDate:   datePtr(req.StartDate),
		EndDate:     datePtr(req.EndDate),
		Description: req.Description,
	}, true
}

func datePtr(d *types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

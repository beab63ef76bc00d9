package httpapi

import (
	"time"

	"github.com/oapi-codegen/runtime/types"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
)

// Wire DTOs. Field names are part of the external contract and must not
// change casually.

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse deliberately has no credential field: the password hash
// never appears on the wire.
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type travelRequest struct {
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	Type        string      `json:"type"`
	StartDate   *types.Date `json:"start_date"`
	EndDate     *types.Date `json:"end_date"`
	Description string      `json:"description"`
}

type travelResponse struct {
	ID          string     `json:"id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Type        string     `json:"type"`
	StartDate   types.Date `json:"start_date"`
	EndDate     types.Date `json:"end_date"`
	Description string     `json:"description"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type pageResponse struct {
	CurrentPage int              `json:"current_page"`
	Data        []travelResponse `json:"data"`
	PerPage     int              `json:"per_page"`
	Total       int              `json:"total"`
	LastPage    int              `json:"last_page"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        string(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toTravelResponse(t domain.Travel) travelResponse {
	return travelResponse{
		ID:          string(t.ID),
		Origin:      t.Origin,
		Destination: t.Destination,
		Type:        t.Type,
		StartDate:   types.Date{Time: t.StartDate},
		EndDate:     types.Date{Time: t.EndDate},
		Description: t.Description,
		UserID:      string(t.OwnerID),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toPageResponse(pg travelrepo.Page) pageResponse {
	data := make([]travelResponse, 0, len(pg.Data))
	for _, t := range pg.Data {
		data = append(data, toTravelResponse(t))
	}
	return pageResponse{
		CurrentPage: pg.CurrentPage,
		Data:        data,
		PerPage:     pg.PerPage,
		Total:       pg.Total,
		LastPage:    pg.LastPage,
	}
}

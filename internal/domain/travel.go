package domain

import "time"

// Travel is a single owner-scoped travel record.
//
// StartDate and EndDate carry date-only semantics at the edges; the time
// portion is always midnight UTC.
type Travel struct {
	ID      TravelID
	OwnerID UserID

	Origin      string
	Destination string
	Type        string
	StartDate   time.Time
	EndDate     time.Time
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

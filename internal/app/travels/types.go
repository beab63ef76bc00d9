package travels

import "time"

// Input carries the travel form fields for create and update.
//
// Dates are pointers so the service can distinguish an absent field from
// a zero value; when present they must carry date-only semantics.
type Input struct {
	Origin      string
	Destination string
	Type        string
	StartDate   *time.Time
	EndDate     *time.Time
	Description string
}

package domain

// UserID is an internal identifier for a registered user.
type UserID string

// TravelID is an internal identifier for a travel record.
type TravelID string

// TokenID is an internal identifier for an issued bearer token.
type TokenID string

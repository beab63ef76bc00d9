package travelrepo

import "errors"

var (
	// ErrNotFound indicates the travel does not exist or is not owned by the caller.
	ErrNotFound = errors.New("travel not found")

	// ErrAlreadyExists indicates a travel already exists with the provided ID.
	ErrAlreadyExists = errors.New("travel already exists")
)

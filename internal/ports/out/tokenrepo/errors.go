package tokenrepo

import "errors"

var (
	// ErrNotFound indicates no live token matches the presented credential.
	ErrNotFound = errors.New("token not found")

	// ErrAlreadyExists indicates a token already exists with the provided hash.
	ErrAlreadyExists = errors.New("token already exists")
)

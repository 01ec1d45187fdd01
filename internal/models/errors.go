package models

import "errors"

var (
	// ErrNotFound covers both a record that does not exist and a record
	// owned by another user; callers must not be able to tell them apart.
	ErrNotFound = errors.New("not found")

	ErrDuplicateEmail = errors.New("email already exists")
	ErrValidation     = errors.New("validation error")
)

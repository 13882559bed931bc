package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches, including when a
	// record exists but belongs to another owner.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

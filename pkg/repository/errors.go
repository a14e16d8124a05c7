package repository

import (
	"errors"
	"fmt"
)

// Common errors returned by the repository.
var (
	// ErrNotFound is returned when an operation references an id absent from the store.
	ErrNotFound = errors.New("entity not found")
)

// NotFoundError records the operation and id that missed.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Op string
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.ID, ErrNotFound)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(op, id string) error {
	return &NotFoundError{Op: op, ID: id}
}

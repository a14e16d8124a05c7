package items

import (
	"errors"

	"github.com/Sternrassler/item-cache/pkg/repository"
)

// Common errors returned by the service.
var (
	// ErrInvalidInput is returned when fields are rejected before reaching the repository.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is the repository's not-found error, propagated unchanged.
	ErrNotFound = repository.ErrNotFound
)

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the core itself, distinct from StoreError.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEventIDRequired is returned before any query when the event id is empty.
	ErrEventIDRequired = fmt.Errorf("%w: eventId is required", ErrInvalidInput)
)

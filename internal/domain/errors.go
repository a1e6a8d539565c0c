package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by all layers. Packages wrap one of these with %w so
// the HTTP layer can map any error to a status code with errors.Is.
var (
	// ErrValidation malformed or missing input, or a failed state guard (400)
	ErrValidation = errors.New("validation error")

	// ErrInvalidDate date outside the bookable window (400)
	ErrInvalidDate = fmt.Errorf("%w: invalid date", ErrValidation)

	// ErrNotFound unknown service, department or appointment (404)
	ErrNotFound = errors.New("not found")

	// ErrSlotConflict slot is no longer free (409)
	ErrSlotConflict = errors.New("slot conflict")

	// ErrAuthorization wrong role, owner or department (403)
	ErrAuthorization = errors.New("authorization error")

	// ErrAlreadyExists duplicate feedback (400)
	ErrAlreadyExists = errors.New("already exists")

	// ErrServiceUnavailable storage failure or timeout (503)
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Date window errors.
var (
	ErrPastDate        = fmt.Errorf("%w: past date", ErrInvalidDate)
	ErrTooFarInAdvance = fmt.Errorf("%w: too far in advance", ErrInvalidDate)
)

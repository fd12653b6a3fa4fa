package rating

import "errors"

var (
	// ErrValidation wraps malformed or incomplete input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound covers an unknown doctor and an appointment reference that
	// does not belong to the (patient, doctor) pair.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRated is returned when the appointment already has a rating.
	ErrAlreadyRated = errors.New("appointment already rated")
)

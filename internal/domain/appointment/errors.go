package appointment

import "errors"

var (
	// ErrValidation wraps malformed or incomplete input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointment not found")

	// ErrDoctorNotFound is returned when booking against an unknown doctor.
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrDoctorNotActive is returned when booking a doctor whose profile is
	// not active.
	ErrDoctorNotActive = errors.New("doctor is not accepting appointments")

	// ErrForbidden is returned when the caller does not own the appointment
	// or is not allowed to perform the requested transition.
	ErrForbidden = errors.New("not allowed for this appointment")

	// ErrInvalidTransition is returned for a status change the transition
	// graph does not permit.
	ErrInvalidTransition = errors.New("invalid status transition")
)

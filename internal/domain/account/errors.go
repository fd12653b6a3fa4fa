package account

import "errors"

var (
	// ErrValidation wraps malformed or incomplete input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when a user or profile row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login with an unknown email or
	// a password that does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPendingApproval is returned when a doctor whose profile has not
	// been activated by an admin attempts to log in.
	ErrPendingApproval = errors.New("doctor account awaiting admin approval")

	// ErrPatientProfileNotFound is returned when a user id has no patient
	// profile row.
	ErrPatientProfileNotFound = errors.New("patient profile not found")

	// ErrDoctorProfileNotFound is returned when a user id has no doctor
	// profile row.
	ErrDoctorProfileNotFound = errors.New("doctor profile not found")
)

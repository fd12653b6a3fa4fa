package record

import "errors"

var (
	// ErrValidation wraps malformed or incomplete input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPatientNotFound is returned when the target patient does not exist.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrNoCompletedAppointment is returned when a doctor has no completed
	// appointment with the patient and so may not touch their chart.
	ErrNoCompletedAppointment = errors.New("no completed appointment with this patient")

	// ErrAppointmentMismatch is returned when the referenced appointment does
	// not belong to the doctor/patient pair or is not completed.
	ErrAppointmentMismatch = errors.New("appointment does not match this doctor and patient")
)

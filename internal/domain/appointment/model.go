package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
)

// Appointment statuses. An appointment starts pending and moves through the
// transition graph below; completed and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// transitions is the full status graph. A status absent from the map is
// terminal.
var transitions = map[string][]string{
	StatusPending:   {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment maps to the appointments table.
type Appointment struct {
	ID                uuid.UUID         `db:"id" json:"id"`
	PatientID         account.PatientID `db:"patient_id" json:"patient_id"`
	DoctorID          account.DoctorID  `db:"doctor_id" json:"doctor_id"`
	StartsAt          time.Time         `db:"starts_at" json:"starts_at"`
	Type              *string           `db:"appointment_type" json:"appointment_type,omitempty"`
	Reason            string            `db:"reason" json:"reason"`
	Notes             *string           `db:"notes" json:"notes,omitempty"`
	Status            string            `db:"status" json:"status"`
	InsuranceProvider *string           `db:"insurance_provider" json:"insurance_provider,omitempty"`
	InsuranceNumber   *string           `db:"insurance_number" json:"insurance_number,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// Detail is an appointment joined with the counterpart display fields the
// list endpoints return.
type Detail struct {
	Appointment
	PatientName          string  `json:"patient_name"`
	DoctorName           string  `json:"doctor_name"`
	DoctorSpecialization *string `json:"doctor_specialization,omitempty"`
}

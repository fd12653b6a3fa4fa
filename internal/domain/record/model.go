package record

import (
	"time"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
)

// MedicalRecord maps to the medical_records table. Records are append-only;
// there is no update or delete path.
type MedicalRecord struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	PatientID     account.PatientID `db:"patient_id" json:"patient_id"`
	DoctorID      account.DoctorID  `db:"doctor_id" json:"doctor_id"`
	AppointmentID *uuid.UUID        `db:"appointment_id" json:"appointment_id,omitempty"`
	Diagnosis     string            `db:"diagnosis" json:"diagnosis"`
	Prescription  *string           `db:"prescription" json:"prescription,omitempty"`
	Notes         *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
}

// Detail is a record joined with the authoring doctor's display fields.
type Detail struct {
	MedicalRecord
	DoctorName           string  `json:"doctor_name"`
	DoctorSpecialization *string `json:"doctor_specialization,omitempty"`
}

// PatientSummary is the header block returned alongside a patient's chart:
// identity, derived age and the parsed medical history list.
type PatientSummary struct {
	PatientID      account.PatientID `json:"patient_id"`
	Name           string            `json:"name"`
	DateOfBirth    *time.Time        `json:"date_of_birth,omitempty"`
	Age            *int              `json:"age,omitempty"`
	MedicalHistory []string          `json:"medical_history"`
}

// Chart is a patient summary plus their records, newest first.
type Chart struct {
	Patient PatientSummary `json:"patient"`
	Records []*Detail      `json:"records"`
}

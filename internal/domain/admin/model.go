package admin

import (
	"time"

	"github.com/google/uuid"
)

// UserRow is one row of the admin user listing.
type UserRow struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DoctorRow is a doctor profile joined with its user for the admin views.
type DoctorRow struct {
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Email           string    `db:"email" json:"email"`
	Specialization  *string   `db:"specialization" json:"specialization,omitempty"`
	LicenseNumber   *string   `db:"license_number" json:"license_number,omitempty"`
	Hospital        *string   `db:"hospital" json:"hospital,omitempty"`
	YearsExperience *int      `db:"years_experience" json:"years_experience,omitempty"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// PatientRow is a patient profile joined with its user for the admin views.
type PatientRow struct {
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Email       string     `db:"email" json:"email"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Stats is the platform dashboard payload.
type Stats struct {
	TotalUsers           int            `json:"total_users"`
	TotalPatients        int            `json:"total_patients"`
	TotalDoctors         int            `json:"total_doctors"`
	PendingDoctors       int            `json:"pending_doctors"`
	TotalAppointments    int            `json:"total_appointments"`
	AppointmentsByStatus map[string]int `json:"appointments_by_status"`
	TotalMedicalRecords  int            `json:"total_medical_records"`
	TotalRatings         int            `json:"total_ratings"`
}

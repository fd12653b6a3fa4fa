package account

import (
	"time"

	"github.com/google/uuid"
)

// PatientID is the id of a row in the patients table. It is distinct from
// the owning user's id; the typed wrapper keeps the two from being mixed up.
type PatientID uuid.UUID

func (id PatientID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id PatientID) String() string  { return uuid.UUID(id).String() }

// DoctorID is the id of a row in the doctors table.
type DoctorID uuid.UUID

func (id DoctorID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id DoctorID) String() string  { return uuid.UUID(id).String() }

// Doctor profile statuses. New doctor accounts start pending and cannot log
// in until an admin activates them.
const (
	DoctorPending  = "pending"
	DoctorActive   = "active"
	DoctorInactive = "inactive"
)

// User maps to the users table.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PatientProfile maps to the patients table (1:1 extension of users).
type PatientProfile struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address        *string    `db:"address" json:"address,omitempty"`
	MedicalHistory *string    `db:"medical_history" json:"medical_history,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// DoctorProfile maps to the doctors table (1:1 extension of users).
type DoctorProfile struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	Specialization  *string   `db:"specialization" json:"specialization,omitempty"`
	LicenseNumber   *string   `db:"license_number" json:"license_number,omitempty"`
	Hospital        *string   `db:"hospital" json:"hospital,omitempty"`
	YearsExperience *int      `db:"years_experience" json:"years_experience,omitempty"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ProfileSnapshot is the user plus their role profile, returned by login
// and the profile endpoints.
type ProfileSnapshot struct {
	User    User            `json:"user"`
	Patient *PatientProfile `json:"patient,omitempty"`
	Doctor  *DoctorProfile  `json:"doctor,omitempty"`
}

// AuthResult is the payload returned by register and login.
type AuthResult struct {
	Token   string          `json:"token"`
	Profile ProfileSnapshot `json:"profile"`
}

// DoctorListing is a doctor-directory entry with the rating summary
// computed on read.
type DoctorListing struct {
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Specialization  *string   `db:"specialization" json:"specialization,omitempty"`
	Hospital        *string   `db:"hospital" json:"hospital,omitempty"`
	YearsExperience *int      `db:"years_experience" json:"years_experience,omitempty"`
	AverageRating   float64   `db:"average_rating" json:"average_rating"`
	RatingCount     int       `db:"rating_count" json:"rating_count"`
}

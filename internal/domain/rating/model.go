package rating

import (
	"time"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
)

// Rating maps to the ratings table. The appointment reference is optional;
// when set, at most one rating exists per appointment (unique index on
// appointment_id, NULLs exempt).
type Rating struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	PatientID     account.PatientID `db:"patient_id" json:"patient_id"`
	DoctorID      account.DoctorID  `db:"doctor_id" json:"doctor_id"`
	AppointmentID *uuid.UUID        `db:"appointment_id" json:"appointment_id,omitempty"`
	Score         int               `db:"rating" json:"rating"`
	Review        *string           `db:"comment" json:"review,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
}

// Detail is a rating joined with the rating patient's display name.
type Detail struct {
	Rating
	PatientName string `json:"patient_name"`
}

// DoctorRatings is the public rating page for one doctor: the computed
// summary plus the individual ratings, newest first.
type DoctorRatings struct {
	DoctorID      account.DoctorID `json:"doctor_id"`
	AverageRating float64          `json:"average_rating"`
	RatingCount   int              `json:"rating_count"`
	Ratings       []*Detail        `json:"ratings"`
}

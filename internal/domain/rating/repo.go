package rating

import (
	"context"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
)

type Repository interface {
	Create(ctx context.Context, r *Rating) error
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Rating, error)
	ListByPatient(ctx context.Context, patientID account.PatientID) ([]*Rating, error)
	ListByDoctor(ctx context.Context, doctorID account.DoctorID, limit, offset int) ([]*Detail, int, error)

	// Summary returns the average score and rating count for a doctor.
	Summary(ctx context.Context, doctorID account.DoctorID) (float64, int, error)
}

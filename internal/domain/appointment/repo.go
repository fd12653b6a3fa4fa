package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) error

	ListByPatient(ctx context.Context, patientID account.PatientID, limit, offset int) ([]*Detail, int, error)
	ListByDoctor(ctx context.Context, doctorID account.DoctorID, limit, offset int) ([]*Detail, int, error)

	// ListUnratedCompleted returns the patient's completed appointments that
	// have no rating yet.
	ListUnratedCompleted(ctx context.Context, patientID account.PatientID) ([]*Detail, error)

	// HasCompleted reports whether the patient has at least one completed
	// appointment with the doctor.
	HasCompleted(ctx context.Context, patientID account.PatientID, doctorID account.DoctorID) (bool, error)
}

package admin

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*UserRow, int, error)
	ListDoctors(ctx context.Context, status string, limit, offset int) ([]*DoctorRow, int, error)
	ListPatients(ctx context.Context, limit, offset int) ([]*PatientRow, int, error)

	// SetDoctorStatus updates a doctor's status by doctor profile id.
	SetDoctorStatus(ctx context.Context, doctorID uuid.UUID, status string) error

	// DeleteUser removes a user; profile rows and their dependents go with
	// it through the foreign keys.
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	Stats(ctx context.Context) (*Stats, error)
}

package record

import (
	"context"

	"github.com/carewell/hms/internal/domain/account"
)

type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	ListByPatient(ctx context.Context, patientID account.PatientID) ([]*Detail, error)
}

package admin

import (
	"context"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*UserRow, int, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorRow, int, error) {
	return s.repo.ListDoctors(ctx, "", limit, offset)
}

// PendingDoctors returns the approval queue.
func (s *Service) PendingDoctors(ctx context.Context, limit, offset int) ([]*DoctorRow, int, error) {
	return s.repo.ListDoctors(ctx, account.DoctorPending, limit, offset)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*PatientRow, int, error) {
	return s.repo.ListPatients(ctx, limit, offset)
}

// SetDoctorStatus approves or deactivates a doctor. Moving a doctor back to
// pending is not supported.
func (s *Service) SetDoctorStatus(ctx context.Context, doctorID uuid.UUID, status string) error {
	if status != account.DoctorActive && status != account.DoctorInactive {
		return ErrInvalidStatus
	}
	return s.repo.SetDoctorStatus(ctx, doctorID, status)
}

// DeleteUser removes a user account and everything hanging off it. Admins
// cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, callerUserID, userID uuid.UUID) error {
	if callerUserID == userID {
		return ErrSelfDelete
	}
	return s.repo.DeleteUser(ctx, userID)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

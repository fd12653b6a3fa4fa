package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
	"github.com/carewell/hms/internal/platform/auth"
)

// ProfileResolver resolves user accounts to their role-profile ids. The
// account service satisfies it.
type ProfileResolver interface {
	PatientIDForUser(ctx context.Context, userID uuid.UUID) (account.PatientID, error)
	DoctorIDForUser(ctx context.Context, userID uuid.UUID) (account.DoctorID, error)
	GetDoctor(ctx context.Context, id account.DoctorID) (*account.DoctorProfile, error)
}

// BookRequest is the booking payload. The start time is either a single
// RFC 3339 timestamp or a separate date and time pair.
type BookRequest struct {
	DoctorID          uuid.UUID `json:"doctor_id"`
	StartsAt          string    `json:"starts_at,omitempty"`
	Date              string    `json:"date,omitempty"`
	Time              string    `json:"time,omitempty"`
	Type              *string   `json:"appointment_type,omitempty"`
	Reason            string    `json:"reason"`
	Notes             *string   `json:"notes,omitempty"`
	InsuranceProvider *string   `json:"insurance_provider,omitempty"`
	InsuranceNumber   *string   `json:"insurance_number,omitempty"`
}

// Accepted layouts for the date+time pair form.
var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 3:04 PM",
	"2006-01-02 03:04 PM",
}

func (r *BookRequest) startTime() (time.Time, error) {
	if r.StartsAt != "" {
		t, err := time.Parse(time.RFC3339, r.StartsAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: starts_at must be RFC 3339", ErrValidation)
		}
		return t, nil
	}
	if r.Date == "" || r.Time == "" {
		return time.Time{}, fmt.Errorf("%w: starts_at or date and time are required", ErrValidation)
	}
	combined := r.Date + " " + strings.ToUpper(strings.TrimSpace(r.Time))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, combined); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date or time format", ErrValidation)
}

// UpdateStatusRequest carries a status change plus optional doctor notes.
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

type Service struct {
	repo     Repository
	profiles ProfileResolver
}

func NewService(repo Repository, profiles ProfileResolver) *Service {
	return &Service{repo: repo, profiles: profiles}
}

// Book creates a pending appointment for the calling patient. The doctor
// must exist and be active.
func (s *Service) Book(ctx context.Context, callerUserID uuid.UUID, req *BookRequest) (*Appointment, error) {
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	startsAt, err := req.startTime()
	if err != nil {
		return nil, err
	}

	patientID, err := s.profiles.PatientIDForUser(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	doctorID := account.DoctorID(req.DoctorID)
	doctor, err := s.profiles.GetDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	if doctor.Status != account.DoctorActive {
		return nil, ErrDoctorNotActive
	}

	appt := &Appointment{
		PatientID:         patientID,
		DoctorID:          doctorID,
		StartsAt:          startsAt,
		Type:              req.Type,
		Reason:            strings.TrimSpace(req.Reason),
		Notes:             req.Notes,
		Status:            StatusPending,
		InsuranceProvider: req.InsuranceProvider,
		InsuranceNumber:   req.InsuranceNumber,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// UpdateStatus applies a status change on behalf of the caller. Doctors may
// move their own appointments along the transition graph; patients may only
// cancel their own; admins may apply any legal transition.
func (s *Service) UpdateStatus(ctx context.Context, identity auth.Identity, apptID uuid.UUID, req *UpdateStatusRequest) (*Appointment, error) {
	if !ValidStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}

	appt, err := s.repo.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}

	switch identity.Role {
	case auth.RoleDoctor:
		doctorID, err := s.profiles.DoctorIDForUser(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		if doctorID != appt.DoctorID {
			return nil, ErrForbidden
		}
	case auth.RolePatient:
		patientID, err := s.profiles.PatientIDForUser(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		if patientID != appt.PatientID {
			return nil, ErrForbidden
		}
		if req.Status != StatusCancelled {
			return nil, ErrForbidden
		}
	case auth.RoleAdmin:
	default:
		return nil, ErrForbidden
	}

	if !CanTransition(appt.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, req.Status)
	}

	if err := s.repo.UpdateStatus(ctx, apptID, req.Status, req.Notes); err != nil {
		return nil, err
	}
	appt.Status = req.Status
	if req.Notes != nil {
		appt.Notes = req.Notes
	}
	return appt, nil
}

// ListForUser returns the caller's appointments, resolved through their role
// profile.
func (s *Service) ListForUser(ctx context.Context, identity auth.Identity, limit, offset int) ([]*Detail, int, error) {
	switch identity.Role {
	case auth.RolePatient:
		patientID, err := s.profiles.PatientIDForUser(ctx, identity.UserID)
		if err != nil {
			return nil, 0, err
		}
		return s.repo.ListByPatient(ctx, patientID, limit, offset)
	case auth.RoleDoctor:
		doctorID, err := s.profiles.DoctorIDForUser(ctx, identity.UserID)
		if err != nil {
			return nil, 0, err
		}
		return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
	default:
		return nil, 0, ErrForbidden
	}
}

// ListUnrated returns the calling patient's completed appointments that have
// no rating yet.
func (s *Service) ListUnrated(ctx context.Context, callerUserID uuid.UUID) ([]*Detail, error) {
	patientID, err := s.profiles.PatientIDForUser(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListUnratedCompleted(ctx, patientID)
}

// HasCompleted reports whether the patient has a completed appointment with
// the doctor. Medical record writes and ratings use it as their proof of a
// prior consultation.
func (s *Service) HasCompleted(ctx context.Context, patientID account.PatientID, doctorID account.DoctorID) (bool, error) {
	return s.repo.HasCompleted(ctx, patientID, doctorID)
}

// Get returns a single appointment by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

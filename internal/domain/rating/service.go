package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
	"github.com/carewell/hms/internal/domain/appointment"
	"github.com/carewell/hms/internal/platform/db"
)

// ProfileResolver is the slice of the account service this package needs.
type ProfileResolver interface {
	PatientIDForUser(ctx context.Context, userID uuid.UUID) (account.PatientID, error)
	GetDoctor(ctx context.Context, id account.DoctorID) (*account.DoctorProfile, error)
}

// AppointmentReader loads the appointment being rated.
type AppointmentReader interface {
	Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

// SubmitRequest is the rating payload. The appointment reference is
// optional; when present it ties the rating to one specific visit.
type SubmitRequest struct {
	DoctorID      uuid.UUID  `json:"doctor_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Score         int        `json:"rating"`
	Review        *string    `json:"review,omitempty"`
}

type Service struct {
	repo         Repository
	profiles     ProfileResolver
	appointments AppointmentReader
	inTx         db.Runner
}

func NewService(repo Repository, profiles ProfileResolver, appointments AppointmentReader, inTx db.Runner) *Service {
	return &Service{repo: repo, profiles: profiles, appointments: appointments, inTx: inTx}
}

// Submit records a patient's rating of a doctor. When an appointment id is
// supplied the appointment must belong to the calling patient and the rated
// doctor and may carry at most one rating; the duplicate check and the
// insert run in one transaction, with the unique index on appointment_id
// backing the check up under concurrency.
func (s *Service) Submit(ctx context.Context, callerUserID uuid.UUID, req *SubmitRequest) (*Rating, error) {
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	if req.Score < 1 || req.Score > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	patientID, err := s.profiles.PatientIDForUser(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	doctorID := account.DoctorID(req.DoctorID)
	if _, err := s.profiles.GetDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.AppointmentID != nil {
		appt, err := s.appointments.Get(ctx, *req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointment.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if appt.PatientID != patientID || appt.DoctorID != doctorID {
			return nil, ErrNotFound
		}
	}

	rt := &Rating{
		PatientID:     patientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Score:         req.Score,
		Review:        req.Review,
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if req.AppointmentID != nil {
			if _, err := s.repo.GetByAppointment(ctx, *req.AppointmentID); err == nil {
				return ErrAlreadyRated
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}
		}
		return s.repo.Create(ctx, rt)
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// ListForPatient returns the calling patient's own ratings.
func (s *Service) ListForPatient(ctx context.Context, callerUserID uuid.UUID) ([]*Rating, error) {
	patientID, err := s.profiles.PatientIDForUser(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Rating{}
	}
	return items, nil
}

// ForDoctor returns a doctor's rating page: the computed summary plus the
// individual ratings.
func (s *Service) ForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) (*DoctorRatings, error) {
	did := account.DoctorID(doctorID)
	if _, err := s.profiles.GetDoctor(ctx, did); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	avg, count, err := s.repo.Summary(ctx, did)
	if err != nil {
		return nil, err
	}
	items, _, err := s.repo.ListByDoctor(ctx, did, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Detail{}
	}
	return &DoctorRatings{
		DoctorID:      did,
		AverageRating: avg,
		RatingCount:   count,
		Ratings:       items,
	}, nil
}

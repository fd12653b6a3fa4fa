package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
	"github.com/carewell/hms/internal/domain/appointment"
)

// ProfileResolver is the slice of the account service this package needs.
type ProfileResolver interface {
	PatientIDForUser(ctx context.Context, userID uuid.UUID) (account.PatientID, error)
	DoctorIDForUser(ctx context.Context, userID uuid.UUID) (account.DoctorID, error)
	GetPatient(ctx context.Context, id account.PatientID) (*account.PatientProfile, error)
	GetUser(ctx context.Context, id uuid.UUID) (*account.User, error)
}

// AppointmentChecker proves a prior consultation between a doctor and a
// patient. The appointment service satisfies it.
type AppointmentChecker interface {
	HasCompleted(ctx context.Context, patientID account.PatientID, doctorID account.DoctorID) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

// CreateRequest is the payload a doctor submits to add a chart entry.
type CreateRequest struct {
	PatientID     uuid.UUID  `json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Diagnosis     string     `json:"diagnosis"`
	Prescription  *string    `json:"prescription,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

type Service struct {
	repo         Repository
	profiles     ProfileResolver
	appointments AppointmentChecker
}

func NewService(repo Repository, profiles ProfileResolver, appointments AppointmentChecker) *Service {
	return &Service{repo: repo, profiles: profiles, appointments: appointments}
}

// Create adds a chart entry for a patient. The calling doctor must have a
// completed appointment with the patient, and a referenced appointment must
// belong to the same pair and be completed.
func (s *Service) Create(ctx context.Context, callerUserID uuid.UUID, req *CreateRequest) (*MedicalRecord, error) {
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if strings.TrimSpace(req.Diagnosis) == "" {
		return nil, fmt.Errorf("%w: diagnosis is required", ErrValidation)
	}

	doctorID, err := s.profiles.DoctorIDForUser(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	// The patient must exist before the consultation proof is judged, so an
	// unknown id reads as not-found rather than forbidden.
	patientID := account.PatientID(req.PatientID)
	if _, err := s.profiles.GetPatient(ctx, patientID); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	ok, err := s.appointments.HasCompleted(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoCompletedAppointment
	}

	if req.AppointmentID != nil {
		appt, err := s.appointments.Get(ctx, *req.AppointmentID)
		if err != nil {
			return nil, ErrAppointmentMismatch
		}
		if appt.PatientID != patientID || appt.DoctorID != doctorID ||
			appt.Status != appointment.StatusCompleted {
			return nil, ErrAppointmentMismatch
		}
	}

	rec := &MedicalRecord{
		PatientID:     patientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     strings.TrimSpace(req.Diagnosis),
		Prescription:  req.Prescription,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ChartForPatient returns the calling patient's own chart.
func (s *Service) ChartForPatient(ctx context.Context, callerUserID uuid.UUID) (*Chart, error) {
	patientID, err := s.profiles.PatientIDForUser(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	return s.buildChart(ctx, patientID)
}

// ChartForDoctor returns a patient's chart to a doctor who has a completed
// appointment with them.
func (s *Service) ChartForDoctor(ctx context.Context, callerUserID uuid.UUID, patientID uuid.UUID) (*Chart, error) {
	doctorID, err := s.profiles.DoctorIDForUser(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	pid := account.PatientID(patientID)
	if _, err := s.profiles.GetPatient(ctx, pid); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	ok, err := s.appointments.HasCompleted(ctx, pid, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoCompletedAppointment
	}
	return s.buildChart(ctx, pid)
}

func (s *Service) buildChart(ctx context.Context, patientID account.PatientID) (*Chart, error) {
	profile, err := s.profiles.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	user, err := s.profiles.GetUser(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*Detail{}
	}

	summary := PatientSummary{
		PatientID:      patientID,
		Name:           user.FirstName + " " + user.LastName,
		DateOfBirth:    profile.DateOfBirth,
		MedicalHistory: parseHistory(profile.MedicalHistory),
	}
	if profile.DateOfBirth != nil {
		age := ageAt(*profile.DateOfBirth, time.Now())
		summary.Age = &age
	}

	return &Chart{Patient: summary, Records: records}, nil
}

// parseHistory accepts either a JSON string array or a free-text comma
// separated list; both forms occur in stored profiles.
func parseHistory(raw *string) []string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(*raw), &items); err == nil {
		return items
	}
	for _, part := range strings.Split(*raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func ageAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

package rating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
	"github.com/carewell/hms/internal/domain/appointment"
	"github.com/carewell/hms/internal/platform/db"
)

type mockRepo struct {
	ratings map[uuid.UUID]*Rating // keyed by rating id
}

func newMockRepo() *mockRepo {
	return &mockRepo{ratings: make(map[uuid.UUID]*Rating)}
}

func (m *mockRepo) Create(_ context.Context, r *Rating) error {
	if r.AppointmentID != nil {
		for _, existing := range m.ratings {
			if existing.AppointmentID != nil && *existing.AppointmentID == *r.AppointmentID {
				return ErrAlreadyRated
			}
		}
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	cp := *r
	m.ratings[r.ID] = &cp
	return nil
}

func (m *mockRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*Rating, error) {
	for _, r := range m.ratings {
		if r.AppointmentID != nil && *r.AppointmentID == appointmentID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID account.PatientID) ([]*Rating, error) {
	var items []*Rating
	for _, r := range m.ratings {
		if r.PatientID == patientID {
			cp := *r
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID account.DoctorID, limit, offset int) ([]*Detail, int, error) {
	var items []*Detail
	for _, r := range m.ratings {
		if r.DoctorID == doctorID {
			items = append(items, &Detail{Rating: *r, PatientName: "Jane Doe"})
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) Summary(_ context.Context, doctorID account.DoctorID) (float64, int, error) {
	var sum, count int
	for _, r := range m.ratings {
		if r.DoctorID == doctorID {
			sum += r.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type mockProfiles struct {
	patientByUser map[uuid.UUID]account.PatientID
	doctors       map[account.DoctorID]*account.DoctorProfile
}

func newMockProfiles() *mockProfiles {
	return &mockProfiles{
		patientByUser: make(map[uuid.UUID]account.PatientID),
		doctors:       make(map[account.DoctorID]*account.DoctorProfile),
	}
}

func (m *mockProfiles) PatientIDForUser(_ context.Context, userID uuid.UUID) (account.PatientID, error) {
	id, ok := m.patientByUser[userID]
	if !ok {
		return account.PatientID{}, account.ErrPatientProfileNotFound
	}
	return id, nil
}

func (m *mockProfiles) GetDoctor(_ context.Context, id account.DoctorID) (*account.DoctorProfile, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	return d, nil
}

type mockAppointments struct {
	appts map[uuid.UUID]*appointment.Appointment
}

func (m *mockAppointments) Get(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, appointment.ErrNotFound
	}
	return a, nil
}

type fixture struct {
	svc         *Service
	repo        *mockRepo
	profiles    *mockProfiles
	appts       *mockAppointments
	patientUser uuid.UUID
	patientID   account.PatientID
	doctorID    account.DoctorID
	completed   *appointment.Appointment
}

func newFixture() *fixture {
	repo := newMockRepo()
	profiles := newMockProfiles()
	appts := &mockAppointments{appts: make(map[uuid.UUID]*appointment.Appointment)}

	f := &fixture{
		repo:        repo,
		profiles:    profiles,
		appts:       appts,
		patientUser: uuid.New(),
		patientID:   account.PatientID(uuid.New()),
		doctorID:    account.DoctorID(uuid.New()),
	}
	profiles.patientByUser[f.patientUser] = f.patientID
	profiles.doctors[f.doctorID] = &account.DoctorProfile{ID: f.doctorID.UUID(), Status: account.DoctorActive}

	f.completed = &appointment.Appointment{
		ID:        uuid.New(),
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Status:    appointment.StatusCompleted,
	}
	appts.appts[f.completed.ID] = f.completed

	f.svc = NewService(repo, profiles, appts, db.PassthroughRunner())
	return f
}

func TestSubmit(t *testing.T) {
	f := newFixture()

	review := "very thorough"
	rt, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		DoctorID:      f.doctorID.UUID(),
		AppointmentID: &f.completed.ID,
		Score:         5,
		Review:        &review,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if rt.DoctorID != f.doctorID {
		t.Error("rating attributed to wrong doctor")
	}
	if rt.Score != 5 {
		t.Errorf("expected score 5, got %d", rt.Score)
	}
	if rt.AppointmentID == nil || *rt.AppointmentID != f.completed.ID {
		t.Error("appointment reference not stored")
	}
}

func TestSubmitWithoutAppointment(t *testing.T) {
	f := newFixture()

	rt, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		DoctorID: f.doctorID.UUID(),
		Score:    5,
	})
	if err != nil {
		t.Fatalf("Submit without appointment failed: %v", err)
	}
	if rt.AppointmentID != nil {
		t.Errorf("expected no appointment reference, got %v", rt.AppointmentID)
	}

	// Unreferenced ratings are not subject to the one-per-appointment rule.
	if _, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		DoctorID: f.doctorID.UUID(),
		Score:    3,
	}); err != nil {
		t.Fatalf("second Submit without appointment failed: %v", err)
	}
	if len(f.repo.ratings) != 2 {
		t.Errorf("expected 2 stored ratings, got %d", len(f.repo.ratings))
	}
}

func TestSubmitDuplicate(t *testing.T) {
	f := newFixture()

	req := &SubmitRequest{DoctorID: f.doctorID.UUID(), AppointmentID: &f.completed.ID, Score: 4}
	if _, err := f.svc.Submit(context.Background(), f.patientUser, req); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), f.patientUser, req); !errors.Is(err, ErrAlreadyRated) {
		t.Errorf("expected ErrAlreadyRated, got %v", err)
	}
}

func TestSubmitRejections(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		DoctorID: f.doctorID.UUID(), Score: 6,
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for score 6, got %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		DoctorID: f.doctorID.UUID(), Score: 0,
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for score 0, got %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		Score: 3,
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing doctor, got %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		DoctorID: uuid.New(), Score: 3,
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown doctor, got %v", err)
	}

	unknown := uuid.New()
	if _, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		DoctorID: f.doctorID.UUID(), AppointmentID: &unknown, Score: 3,
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown appointment, got %v", err)
	}

	// The referenced appointment must belong to the (patient, doctor) pair.
	foreign := &appointment.Appointment{
		ID: uuid.New(), PatientID: account.PatientID(uuid.New()), DoctorID: f.doctorID,
		Status: appointment.StatusCompleted,
	}
	f.appts.appts[foreign.ID] = foreign
	if _, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		DoctorID: f.doctorID.UUID(), AppointmentID: &foreign.ID, Score: 3,
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another patient's appointment, got %v", err)
	}

	otherDoctor := account.DoctorID(uuid.New())
	f.profiles.doctors[otherDoctor] = &account.DoctorProfile{ID: otherDoctor.UUID(), Status: account.DoctorActive}
	if _, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
		DoctorID: otherDoctor.UUID(), AppointmentID: &f.completed.ID, Score: 3,
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another doctor's appointment, got %v", err)
	}
}

func TestForDoctor(t *testing.T) {
	f := newFixture()

	// Two completed appointments, two ratings.
	second := &appointment.Appointment{
		ID: uuid.New(), PatientID: f.patientID, DoctorID: f.doctorID,
		Status: appointment.StatusCompleted,
	}
	f.appts.appts[second.ID] = second

	for i, id := range []uuid.UUID{f.completed.ID, second.ID} {
		apptID := id
		if _, err := f.svc.Submit(context.Background(), f.patientUser, &SubmitRequest{
			DoctorID: f.doctorID.UUID(), AppointmentID: &apptID, Score: 4 + i,
		}); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}

	page, err := f.svc.ForDoctor(context.Background(), f.doctorID.UUID(), 20, 0)
	if err != nil {
		t.Fatalf("ForDoctor failed: %v", err)
	}
	if page.RatingCount != 2 {
		t.Errorf("expected 2 ratings, got %d", page.RatingCount)
	}
	if page.AverageRating != 4.5 {
		t.Errorf("expected average 4.5, got %v", page.AverageRating)
	}

	if _, err := f.svc.ForDoctor(context.Background(), uuid.New(), 20, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown doctor, got %v", err)
	}
}

func TestListForPatientEmpty(t *testing.T) {
	f := newFixture()

	items, err := f.svc.ListForPatient(context.Background(), f.patientUser)
	if err != nil {
		t.Fatalf("ListForPatient failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected an empty slice, got %v", items)
	}
}

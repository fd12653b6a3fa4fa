package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
)

type mockRepo struct {
	users   map[uuid.UUID]*UserRow
	doctors map[uuid.UUID]*DoctorRow
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:   make(map[uuid.UUID]*UserRow),
		doctors: make(map[uuid.UUID]*DoctorRow),
	}
}

func (m *mockRepo) ListUsers(_ context.Context, limit, offset int) ([]*UserRow, int, error) {
	var items []*UserRow
	for _, u := range m.users {
		items = append(items, u)
	}
	return items, len(items), nil
}

func (m *mockRepo) ListDoctors(_ context.Context, status string, limit, offset int) ([]*DoctorRow, int, error) {
	var items []*DoctorRow
	for _, d := range m.doctors {
		if status == "" || d.Status == status {
			items = append(items, d)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListPatients(_ context.Context, limit, offset int) ([]*PatientRow, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) SetDoctorStatus(_ context.Context, doctorID uuid.UUID, status string) error {
	d, ok := m.doctors[doctorID]
	if !ok {
		return ErrNotFound
	}
	d.Status = status
	return nil
}

func (m *mockRepo) DeleteUser(_ context.Context, userID uuid.UUID) error {
	if _, ok := m.users[userID]; !ok {
		return ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

func (m *mockRepo) Stats(_ context.Context) (*Stats, error) {
	pending := 0
	for _, d := range m.doctors {
		if d.Status == account.DoctorPending {
			pending++
		}
	}
	return &Stats{
		TotalUsers:           len(m.users),
		TotalDoctors:         len(m.doctors),
		PendingDoctors:       pending,
		AppointmentsByStatus: map[string]int{},
	}, nil
}

func (m *mockRepo) addDoctor(status string) uuid.UUID {
	id := uuid.New()
	m.doctors[id] = &DoctorRow{DoctorID: id, Status: status}
	return id
}

func (m *mockRepo) addUser(role string) uuid.UUID {
	id := uuid.New()
	m.users[id] = &UserRow{ID: id, Role: role}
	return id
}

func TestSetDoctorStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	doctorID := repo.addDoctor(account.DoctorPending)

	if err := svc.SetDoctorStatus(context.Background(), doctorID, account.DoctorActive); err != nil {
		t.Fatalf("SetDoctorStatus failed: %v", err)
	}
	if repo.doctors[doctorID].Status != account.DoctorActive {
		t.Errorf("expected active, got %s", repo.doctors[doctorID].Status)
	}

	if err := svc.SetDoctorStatus(context.Background(), doctorID, account.DoctorInactive); err != nil {
		t.Fatalf("SetDoctorStatus failed: %v", err)
	}

	if err := svc.SetDoctorStatus(context.Background(), doctorID, account.DoctorPending); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus for pending, got %v", err)
	}
	if err := svc.SetDoctorStatus(context.Background(), doctorID, "banned"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus for unknown status, got %v", err)
	}
	if err := svc.SetDoctorStatus(context.Background(), uuid.New(), account.DoctorActive); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPendingDoctors(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.addDoctor(account.DoctorPending)
	repo.addDoctor(account.DoctorActive)

	items, total, err := svc.PendingDoctors(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("PendingDoctors failed: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("expected 1 pending doctor, got %d", total)
	}
	if items[0].Status != account.DoctorPending {
		t.Errorf("expected pending, got %s", items[0].Status)
	}
}

func TestDeleteUser(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	adminID := repo.addUser("admin")
	targetID := repo.addUser("patient")

	if err := svc.DeleteUser(context.Background(), adminID, adminID); !errors.Is(err, ErrSelfDelete) {
		t.Errorf("expected ErrSelfDelete, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), adminID, targetID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, ok := repo.users[targetID]; ok {
		t.Error("user not deleted")
	}
	if err := svc.DeleteUser(context.Background(), adminID, targetID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/platform/auth"
	"github.com/carewell/hms/internal/platform/db"
)

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

type mockPatientRepo struct {
	patients  map[uuid.UUID]*PatientProfile
	createErr error
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*PatientProfile)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *PatientProfile) error {
	if m.createErr != nil {
		return m.createErr
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*PatientProfile, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*PatientProfile, error) {
	for _, p := range m.patients {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockPatientRepo) Update(_ context.Context, p *PatientProfile) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*DoctorProfile
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*DoctorProfile)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *DoctorProfile) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DoctorPending
	}
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*DoctorProfile, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	for _, d := range m.doctors {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockDoctorRepo) Update(_ context.Context, d *DoctorProfile) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return ErrNotFound
	}
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockDoctorRepo) ListDirectory(_ context.Context, limit, offset int) ([]*DoctorListing, int, error) {
	var items []*DoctorListing
	for _, d := range m.doctors {
		if d.Status != DoctorActive {
			continue
		}
		items = append(items, &DoctorListing{DoctorID: d.ID, Specialization: d.Specialization})
	}
	return items, len(items), nil
}

// rollbackRunner gives the in-memory repos transaction semantics: when the
// wrapped function fails, the maps are restored to their pre-call state.
func rollbackRunner(users *mockUserRepo, patients *mockPatientRepo, doctors *mockDoctorRepo) db.Runner {
	return func(ctx context.Context, fn func(context.Context) error) error {
		savedUsers := copyMap(users.users)
		savedPatients := copyMap(patients.patients)
		savedDoctors := copyMap(doctors.doctors)
		if err := fn(ctx); err != nil {
			users.users = savedUsers
			patients.patients = savedPatients
			doctors.doctors = savedDoctors
			return err
		}
		return nil
	}
}

func copyMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	cp := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func newTestService(t *testing.T) (*Service, *mockUserRepo, *mockPatientRepo, *mockDoctorRepo) {
	t.Helper()
	users := newMockUserRepo()
	patients := newMockPatientRepo()
	doctors := newMockDoctorRepo()
	issuer := auth.NewIssuer("test-secret", time.Hour)
	svc := NewService(users, patients, doctors, issuer, db.PassthroughRunner())
	return svc, users, patients, doctors
}

func patientRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		UserType:  auth.RolePatient,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "supersecret",
	}
}

func TestRegisterPatient(t *testing.T) {
	svc, users, patients, _ := newTestService(t)

	result, err := svc.Register(context.Background(), patientRegisterRequest())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
	if result.Profile.User.Role != auth.RolePatient {
		t.Errorf("expected role patient, got %s", result.Profile.User.Role)
	}
	if result.Profile.Patient == nil {
		t.Fatal("expected a patient profile")
	}
	if result.Profile.User.PasswordHash == "supersecret" {
		t.Error("password stored in plain text")
	}
	if len(users.users) != 1 || len(patients.patients) != 1 {
		t.Errorf("expected 1 user and 1 patient, got %d and %d", len(users.users), len(patients.patients))
	}
}

func TestRegisterDoctorStartsPending(t *testing.T) {
	svc, _, _, doctors := newTestService(t)

	specialization := "cardiology"
	result, err := svc.Register(context.Background(), &RegisterRequest{
		UserType:  auth.RoleDoctor,
		FirstName: "Greg",
		LastName:  "House",
		Email:     "house@example.com",
		Password:  "vicodin12",
		Doctor:    &DoctorRegistration{Specialization: &specialization},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.Profile.Doctor == nil {
		t.Fatal("expected a doctor profile")
	}
	if result.Profile.Doctor.Status != DoctorPending {
		t.Errorf("expected status pending, got %s", result.Profile.Doctor.Status)
	}
	stored, err := doctors.GetByID(context.Background(), result.Profile.Doctor.ID)
	if err != nil {
		t.Fatalf("doctor profile not persisted: %v", err)
	}
	if stored.Specialization == nil || *stored.Specialization != "cardiology" {
		t.Errorf("specialization not persisted: %v", stored.Specialization)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing name", func(r *RegisterRequest) { r.FirstName = "" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }},
		{"bad user type", func(r *RegisterRequest) { r.UserType = "admin" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := patientRegisterRequest()
			tc.mutate(req)
			if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users, patients, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), patientRegisterRequest()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), patientRegisterRequest()); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(users.users) != 1 || len(patients.patients) != 1 {
		t.Errorf("duplicate registration must not add rows, got %d users and %d patients",
			len(users.users), len(patients.patients))
	}
}

func TestRegisterRollsBackUserOnProfileFailure(t *testing.T) {
	users := newMockUserRepo()
	patients := newMockPatientRepo()
	doctors := newMockDoctorRepo()
	issuer := auth.NewIssuer("test-secret", time.Hour)
	svc := NewService(users, patients, doctors, issuer, rollbackRunner(users, patients, doctors))

	patients.createErr = errors.New("insert failed")
	if _, err := svc.Register(context.Background(), patientRegisterRequest()); err == nil {
		t.Fatal("expected Register to fail when the profile insert fails")
	}
	if len(users.users) != 0 {
		t.Errorf("user row survived a failed registration, got %d users", len(users.users))
	}

	// The email must be free for a retry.
	patients.createErr = nil
	if _, err := svc.Register(context.Background(), patientRegisterRequest()); err != nil {
		t.Fatalf("Register retry after rollback failed: %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.Register(context.Background(), patientRegisterRequest()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "jane@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
	if result.Profile.Patient == nil {
		t.Error("expected the patient profile on login")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.Register(context.Background(), patientRegisterRequest()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "jane@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLoginPendingDoctorBlocked(t *testing.T) {
	svc, _, _, doctors := newTestService(t)

	result, err := svc.Register(context.Background(), &RegisterRequest{
		UserType:  auth.RoleDoctor,
		FirstName: "Greg",
		LastName:  "House",
		Email:     "house@example.com",
		Password:  "vicodin12",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "house@example.com", "vicodin12"); !errors.Is(err, ErrPendingApproval) {
		t.Errorf("expected ErrPendingApproval, got %v", err)
	}

	d, _ := doctors.GetByID(context.Background(), result.Profile.Doctor.ID)
	d.Status = DoctorActive
	if err := doctors.Update(context.Background(), d); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "house@example.com", "vicodin12"); err != nil {
		t.Errorf("active doctor should log in, got %v", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	result, err := svc.Register(context.Background(), patientRegisterRequest())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	userID := result.Profile.User.ID

	phone := "555-0101"
	address := "1 Main St"
	snapshot, err := svc.UpdateProfile(context.Background(), userID, &UpdateProfileRequest{
		Phone:   &phone,
		Patient: &PatientRegistration{Address: &address},
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if snapshot.User.Phone == nil || *snapshot.User.Phone != phone {
		t.Errorf("phone not updated: %v", snapshot.User.Phone)
	}
	if snapshot.User.FirstName != "Jane" {
		t.Errorf("untouched field changed: %s", snapshot.User.FirstName)
	}
	if snapshot.Patient == nil || snapshot.Patient.Address == nil || *snapshot.Patient.Address != address {
		t.Error("patient address not updated")
	}
}

func TestProfileIDResolvers(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	result, err := svc.Register(context.Background(), patientRegisterRequest())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	userID := result.Profile.User.ID

	pid, err := svc.PatientIDForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("PatientIDForUser failed: %v", err)
	}
	if pid.UUID() != result.Profile.Patient.ID {
		t.Errorf("resolver returned %s, want %s", pid, result.Profile.Patient.ID)
	}

	if _, err := svc.DoctorIDForUser(context.Background(), userID); !errors.Is(err, ErrDoctorProfileNotFound) {
		t.Errorf("expected ErrDoctorProfileNotFound, got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, users, _, _ := newTestService(t)

	if err := svc.EnsureAdmin(context.Background(), "admin@example.com", "changeme1"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	admin, err := users.GetByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.Role != auth.RoleAdmin {
		t.Errorf("expected role admin, got %s", admin.Role)
	}

	// Second run must be a no-op.
	if err := svc.EnsureAdmin(context.Background(), "admin@example.com", "changeme1"); err != nil {
		t.Fatalf("second EnsureAdmin failed: %v", err)
	}
	if len(users.users) != 1 {
		t.Errorf("expected 1 user, got %d", len(users.users))
	}

	// Unset config disables seeding.
	if err := svc.EnsureAdmin(context.Background(), "", ""); err != nil {
		t.Fatalf("EnsureAdmin with empty config failed: %v", err)
	}
	if len(users.users) != 1 {
		t.Errorf("empty config should not create users, got %d", len(users.users))
	}
}

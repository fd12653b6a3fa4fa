package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/platform/auth"
	"github.com/carewell/hms/internal/platform/db"
)

// RegisterRequest is the registration payload. The role-specific sections
// are discriminated by UserType and validated before any row is written.
type RegisterRequest struct {
	UserType  string  `json:"user_type"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Phone     *string `json:"phone,omitempty"`

	Patient *PatientRegistration `json:"patient,omitempty"`
	Doctor  *DoctorRegistration  `json:"doctor,omitempty"`
}

// PatientRegistration carries the patient-profile fields of a registration.
type PatientRegistration struct {
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Address        *string    `json:"address,omitempty"`
	MedicalHistory *string    `json:"medical_history,omitempty"`
}

// DoctorRegistration carries the doctor-profile fields of a registration.
type DoctorRegistration struct {
	Specialization  *string `json:"specialization,omitempty"`
	LicenseNumber   *string `json:"license_number,omitempty"`
	Hospital        *string `json:"hospital,omitempty"`
	YearsExperience *int    `json:"years_experience,omitempty"`
}

// Validate checks the request before any business logic runs.
func (r *RegisterRequest) Validate() error {
	if r.FirstName == "" || r.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	switch r.UserType {
	case auth.RolePatient, auth.RoleDoctor:
	default:
		return fmt.Errorf("%w: user_type must be patient or doctor", ErrValidation)
	}
	return nil
}

// UpdateProfileRequest carries a partial update of the caller's own user
// and role-profile fields. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`

	Patient *PatientRegistration `json:"patient,omitempty"`
	Doctor  *DoctorRegistration  `json:"doctor,omitempty"`
}

type Service struct {
	users    UserRepository
	patients PatientRepository
	doctors  DoctorRepository
	issuer   *auth.Issuer
	inTx     db.Runner
}

func NewService(users UserRepository, patients PatientRepository, doctors DoctorRepository, issuer *auth.Issuer, inTx db.Runner) *Service {
	return &Service{users: users, patients: patients, doctors: doctors, issuer: issuer, inTx: inTx}
}

// Register creates a user and its role profile in one transaction and
// returns a signed session token. A duplicate email aborts the whole
// transaction, so no orphan profile row is ever left behind.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         req.UserType,
	}

	snapshot := ProfileSnapshot{}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}

		switch req.UserType {
		case auth.RolePatient:
			p := &PatientProfile{UserID: user.ID}
			if req.Patient != nil {
				p.DateOfBirth = req.Patient.DateOfBirth
				p.Address = req.Patient.Address
				p.MedicalHistory = req.Patient.MedicalHistory
			}
			if err := s.patients.Create(ctx, p); err != nil {
				return err
			}
			snapshot.Patient = p
		case auth.RoleDoctor:
			d := &DoctorProfile{UserID: user.ID, Status: DoctorPending}
			if req.Doctor != nil {
				d.Specialization = req.Doctor.Specialization
				d.LicenseNumber = req.Doctor.LicenseNumber
				d.Hospital = req.Doctor.Hospital
				d.YearsExperience = req.Doctor.YearsExperience
			}
			if err := s.doctors.Create(ctx, d); err != nil {
				return err
			}
			snapshot.Doctor = d
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Sign(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	snapshot.User = *user
	return &AuthResult{Token: token, Profile: snapshot}, nil
}

// Login authenticates an email/password pair. Doctors whose profile has not
// been activated by an admin are refused with ErrPendingApproval.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	snapshot := ProfileSnapshot{User: *user}
	switch user.Role {
	case auth.RolePatient:
		p, err := s.patients.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		snapshot.Patient = p
	case auth.RoleDoctor:
		d, err := s.doctors.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrDoctorProfileNotFound
			}
			return nil, err
		}
		if d.Status != DoctorActive {
			return nil, ErrPendingApproval
		}
		snapshot.Doctor = d
	}

	token, err := s.issuer.Sign(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Profile: snapshot}, nil
}

// Profile returns the user and role profile for the given user id.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileSnapshot, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot := &ProfileSnapshot{User: *user}
	switch user.Role {
	case auth.RolePatient:
		p, err := s.patients.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		snapshot.Patient = p
	case auth.RoleDoctor:
		d, err := s.doctors.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		snapshot.Doctor = d
	}
	return snapshot, nil
}

// UpdateProfile applies a partial update to the caller's user row and role
// profile inside one transaction.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*ProfileSnapshot, error) {
	var snapshot *ProfileSnapshot
	err := s.inTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if req.Phone != nil {
			user.Phone = req.Phone
		}
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}

		snapshot = &ProfileSnapshot{User: *user}
		switch user.Role {
		case auth.RolePatient:
			p, err := s.patients.GetByUserID(ctx, userID)
			if err != nil {
				return err
			}
			if req.Patient != nil {
				if req.Patient.DateOfBirth != nil {
					p.DateOfBirth = req.Patient.DateOfBirth
				}
				if req.Patient.Address != nil {
					p.Address = req.Patient.Address
				}
				if req.Patient.MedicalHistory != nil {
					p.MedicalHistory = req.Patient.MedicalHistory
				}
				if err := s.patients.Update(ctx, p); err != nil {
					return err
				}
			}
			snapshot.Patient = p
		case auth.RoleDoctor:
			d, err := s.doctors.GetByUserID(ctx, userID)
			if err != nil {
				return err
			}
			if req.Doctor != nil {
				if req.Doctor.Specialization != nil {
					d.Specialization = req.Doctor.Specialization
				}
				if req.Doctor.LicenseNumber != nil {
					d.LicenseNumber = req.Doctor.LicenseNumber
				}
				if req.Doctor.Hospital != nil {
					d.Hospital = req.Doctor.Hospital
				}
				if req.Doctor.YearsExperience != nil {
					d.YearsExperience = req.Doctor.YearsExperience
				}
				if err := s.doctors.Update(ctx, d); err != nil {
					return err
				}
			}
			snapshot.Doctor = d
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// PatientIDForUser resolves the patient profile id owned by a user account.
// Every handler that needs a patient id goes through this resolver.
func (s *Service) PatientIDForUser(ctx context.Context, userID uuid.UUID) (PatientID, error) {
	p, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PatientID{}, ErrPatientProfileNotFound
		}
		return PatientID{}, err
	}
	return PatientID(p.ID), nil
}

// DoctorIDForUser resolves the doctor profile id owned by a user account.
func (s *Service) DoctorIDForUser(ctx context.Context, userID uuid.UUID) (DoctorID, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DoctorID{}, ErrDoctorProfileNotFound
		}
		return DoctorID{}, err
	}
	return DoctorID(d.ID), nil
}

// GetPatient returns the patient profile for a profile id.
func (s *Service) GetPatient(ctx context.Context, id PatientID) (*PatientProfile, error) {
	return s.patients.GetByID(ctx, id.UUID())
}

// GetDoctor returns the doctor profile for a profile id.
func (s *Service) GetDoctor(ctx context.Context, id DoctorID) (*DoctorProfile, error) {
	return s.doctors.GetByID(ctx, id.UUID())
}

// GetUser returns the user row for a user id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// ListDoctors returns the active-doctor directory with rating summaries.
func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorListing, int, error) {
	return s.doctors.ListDirectory(ctx, limit, offset)
}

// EnsureAdmin creates the admin account from configuration if it does not
// exist yet. Called once on server start; a second run is a no-op.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &User{
		FirstName:    "System",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil
		}
		return err
	}
	return nil
}

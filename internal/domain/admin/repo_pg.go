package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carewell/hms/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) ListUsers(ctx context.Context, limit, offset int) ([]*UserRow, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, first_name, last_name, email, role, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*UserRow
	for rows.Next() {
		var u UserRow
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &u)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListDoctors(ctx context.Context, status string, limit, offset int) ([]*DoctorRow, int, error) {
	where := ``
	args := []any{limit, offset}
	if status != "" {
		where = `WHERE d.status = $3`
		args = append(args, status)
	}

	var total int
	var err error
	if status != "" {
		err = r.conn(ctx).QueryRow(ctx,
			`SELECT COUNT(*) FROM doctors WHERE status = $1`, status).Scan(&total)
	} else {
		err = r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&total)
	}
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT d.id, d.user_id, u.first_name, u.last_name, u.email,
			d.specialization, d.license_number, d.hospital, d.years_experience,
			d.status, d.created_at
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		`+where+`
		ORDER BY d.created_at DESC
		LIMIT $1 OFFSET $2`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DoctorRow
	for rows.Next() {
		var d DoctorRow
		if err := rows.Scan(&d.DoctorID, &d.UserID, &d.FirstName, &d.LastName, &d.Email,
			&d.Specialization, &d.LicenseNumber, &d.Hospital, &d.YearsExperience,
			&d.Status, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListPatients(ctx context.Context, limit, offset int) ([]*PatientRow, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.user_id, u.first_name, u.last_name, u.email, p.date_of_birth, p.created_at
		FROM patients p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*PatientRow
	for rows.Next() {
		var p PatientRow
		if err := rows.Scan(&p.PatientID, &p.UserID, &p.FirstName, &p.LastName, &p.Email,
			&p.DateOfBirth, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) SetDoctorStatus(ctx context.Context, doctorID uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctors SET status = $2, updated_at = NOW() WHERE id = $1`,
		doctorID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{AppointmentsByStatus: make(map[string]int)}

	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM doctors),
			(SELECT COUNT(*) FROM doctors WHERE status = 'pending'),
			(SELECT COUNT(*) FROM appointments),
			(SELECT COUNT(*) FROM medical_records),
			(SELECT COUNT(*) FROM ratings)`).
		Scan(&s.TotalUsers, &s.TotalPatients, &s.TotalDoctors, &s.PendingDoctors,
			&s.TotalAppointments, &s.TotalMedicalRecords, &s.TotalRatings)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		s.AppointmentsByStatus[status] = count
	}
	return s, rows.Err()
}

package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carewell/hms/internal/domain/account"
	"github.com/carewell/hms/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const apptCols = `id, patient_id, doctor_id, starts_at, appointment_type, reason, notes, status,
	insurance_provider, insurance_number, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var patientID, doctorID uuid.UUID
	err := row.Scan(&a.ID, &patientID, &doctorID, &a.StartsAt, &a.Type, &a.Reason, &a.Notes,
		&a.Status, &a.InsuranceProvider, &a.InsuranceNumber, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	a.PatientID = account.PatientID(patientID)
	a.DoctorID = account.DoctorID(doctorID)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, starts_at, appointment_type,
			reason, notes, status, insurance_provider, insurance_number)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.PatientID.UUID(), a.DoctorID.UUID(), a.StartsAt, a.Type, a.Reason, a.Notes,
		a.Status, a.InsuranceProvider, a.InsuranceNumber)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments
		SET status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $1`,
		id, status, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const detailSelect = `
	SELECT a.id, a.patient_id, a.doctor_id, a.starts_at, a.appointment_type, a.reason,
		a.notes, a.status, a.insurance_provider, a.insurance_number,
		a.created_at, a.updated_at,
		pu.first_name || ' ' || pu.last_name,
		du.first_name || ' ' || du.last_name,
		d.specialization
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN users pu ON pu.id = p.user_id
	JOIN doctors d ON d.id = a.doctor_id
	JOIN users du ON du.id = d.user_id`

func scanDetailRows(rows pgx.Rows) ([]*Detail, error) {
	defer rows.Close()
	var items []*Detail
	for rows.Next() {
		var dt Detail
		var patientID, doctorID uuid.UUID
		if err := rows.Scan(&dt.ID, &patientID, &doctorID, &dt.StartsAt, &dt.Type, &dt.Reason,
			&dt.Notes, &dt.Status, &dt.InsuranceProvider, &dt.InsuranceNumber,
			&dt.CreatedAt, &dt.UpdatedAt,
			&dt.PatientName, &dt.DoctorName, &dt.DoctorSpecialization); err != nil {
			return nil, err
		}
		dt.PatientID = account.PatientID(patientID)
		dt.DoctorID = account.DoctorID(doctorID)
		items = append(items, &dt)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID account.PatientID, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID.UUID()).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, detailSelect+`
		WHERE a.patient_id = $1
		ORDER BY a.starts_at DESC
		LIMIT $2 OFFSET $3`,
		patientID.UUID(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := scanDetailRows(rows)
	return items, total, err
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID account.DoctorID, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE doctor_id = $1`, doctorID.UUID()).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, detailSelect+`
		WHERE a.doctor_id = $1
		ORDER BY a.starts_at DESC
		LIMIT $2 OFFSET $3`,
		doctorID.UUID(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := scanDetailRows(rows)
	return items, total, err
}

func (r *repoPG) ListUnratedCompleted(ctx context.Context, patientID account.PatientID) ([]*Detail, error) {
	rows, err := r.conn(ctx).Query(ctx, detailSelect+`
		LEFT JOIN ratings rt ON rt.appointment_id = a.id
		WHERE a.patient_id = $1 AND a.status = $2 AND rt.id IS NULL
		ORDER BY a.starts_at DESC`,
		patientID.UUID(), StatusCompleted)
	if err != nil {
		return nil, err
	}
	return scanDetailRows(rows)
}

func (r *repoPG) HasCompleted(ctx context.Context, patientID account.PatientID, doctorID account.DoctorID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE patient_id = $1 AND doctor_id = $2 AND status = $3
		)`,
		patientID.UUID(), doctorID.UUID(), StatusCompleted).Scan(&exists)
	return exists, err
}

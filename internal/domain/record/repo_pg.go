package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carewell/hms/internal/domain/account"
	"github.com/carewell/hms/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_records (id, patient_id, doctor_id, appointment_id, diagnosis, prescription, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.PatientID.UUID(), rec.DoctorID.UUID(), rec.AppointmentID,
		rec.Diagnosis, rec.Prescription, rec.Notes)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID account.PatientID) ([]*Detail, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.id, m.patient_id, m.doctor_id, m.appointment_id, m.diagnosis,
			m.prescription, m.notes, m.created_at,
			du.first_name || ' ' || du.last_name,
			d.specialization
		FROM medical_records m
		JOIN doctors d ON d.id = m.doctor_id
		JOIN users du ON du.id = d.user_id
		WHERE m.patient_id = $1
		ORDER BY m.created_at DESC`,
		patientID.UUID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Detail
	for rows.Next() {
		var dt Detail
		var pid, did uuid.UUID
		if err := rows.Scan(&dt.ID, &pid, &did, &dt.AppointmentID, &dt.Diagnosis,
			&dt.Prescription, &dt.Notes, &dt.CreatedAt,
			&dt.DoctorName, &dt.DoctorSpecialization); err != nil {
			return nil, err
		}
		dt.PatientID = account.PatientID(pid)
		dt.DoctorID = account.DoctorID(did)
		items = append(items, &dt)
	}
	return items, rows.Err()
}

package rating

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carewell/hms/internal/domain/account"
	"github.com/carewell/hms/internal/platform/db"
)

const uniqueViolation = "23505"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const ratingCols = `id, patient_id, doctor_id, appointment_id, rating, comment, created_at`

func scanRating(row pgx.Row) (*Rating, error) {
	var rt Rating
	var pid, did uuid.UUID
	err := row.Scan(&rt.ID, &pid, &did, &rt.AppointmentID, &rt.Score, &rt.Review, &rt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	rt.PatientID = account.PatientID(pid)
	rt.DoctorID = account.DoctorID(did)
	return &rt, err
}

func (r *repoPG) Create(ctx context.Context, rt *Rating) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ratings (id, patient_id, doctor_id, appointment_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rt.ID, rt.PatientID.UUID(), rt.DoctorID.UUID(), rt.AppointmentID, rt.Score, rt.Review)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyRated
	}
	return err
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Rating, error) {
	return scanRating(r.conn(ctx).QueryRow(ctx,
		`SELECT `+ratingCols+` FROM ratings WHERE appointment_id = $1`, appointmentID))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID account.PatientID) ([]*Rating, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+ratingCols+` FROM ratings WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID.UUID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Rating
	for rows.Next() {
		var rt Rating
		var pid, did uuid.UUID
		if err := rows.Scan(&rt.ID, &pid, &did, &rt.AppointmentID, &rt.Score, &rt.Review, &rt.CreatedAt); err != nil {
			return nil, err
		}
		rt.PatientID = account.PatientID(pid)
		rt.DoctorID = account.DoctorID(did)
		items = append(items, &rt)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID account.DoctorID, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM ratings WHERE doctor_id = $1`, doctorID.UUID()).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT rt.id, rt.patient_id, rt.doctor_id, rt.appointment_id, rt.rating, rt.comment, rt.created_at,
			pu.first_name || ' ' || pu.last_name
		FROM ratings rt
		JOIN patients p ON p.id = rt.patient_id
		JOIN users pu ON pu.id = p.user_id
		WHERE rt.doctor_id = $1
		ORDER BY rt.created_at DESC
		LIMIT $2 OFFSET $3`,
		doctorID.UUID(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Detail
	for rows.Next() {
		var dt Detail
		var pid, did uuid.UUID
		if err := rows.Scan(&dt.ID, &pid, &did, &dt.AppointmentID, &dt.Score, &dt.Review,
			&dt.CreatedAt, &dt.PatientName); err != nil {
			return nil, 0, err
		}
		dt.PatientID = account.PatientID(pid)
		dt.DoctorID = account.DoctorID(did)
		items = append(items, &dt)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Summary(ctx context.Context, doctorID account.DoctorID) (float64, int, error) {
	var avg float64
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM ratings WHERE doctor_id = $1`,
		doctorID.UUID()).Scan(&avg, &count)
	return avg, count, err
}

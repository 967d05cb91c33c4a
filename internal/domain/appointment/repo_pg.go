package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, appointment_number, patient_id, doctor_id, appointment_date,
	appointment_time, type, notes, status, created_by, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.AppointmentNumber, &a.PatientID, &a.DoctorID, &a.AppointmentDate,
		&a.AppointmentTime, &a.Type, &a.Notes, &a.Status, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

const queueCols = `id, appointment_id, queue_number, queue_date, status, called_at, completed_at, created_at`

func scanQueueEntry(row pgx.Row) (*QueueEntry, error) {
	var q QueueEntry
	err := row.Scan(&q.ID, &q.AppointmentID, &q.QueueNumber, &q.QueueDate, &q.Status,
		&q.CalledAt, &q.CompletedAt, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &q, err
}

// Book reserves the slot and seats the patient in the day's queue in a
// single transaction. The queue position is COUNT+1 over non-cancelled
// appointments for the doctor and day; the partial unique index on
// (doctor_id, appointment_date, appointment_time) is the authoritative
// conflict signal, so a lost race surfaces as a unique violation on the
// insert rather than a double booking.
func (r *repoPG) Book(ctx context.Context, a *Appointment) (*QueueEntry, error) {
	var q QueueEntry
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var position int
		err := tx.QueryRow(ctx, `
			SELECT COUNT(*) + 1 FROM appointments
			WHERE doctor_id = $1 AND appointment_date = $2 AND status <> 'cancelled'`,
			a.DoctorID, a.AppointmentDate).Scan(&position)
		if err != nil {
			return err
		}

		a.ID = uuid.New()
		a.Status = StatusScheduled
		err = tx.QueryRow(ctx, `
			INSERT INTO appointments (id, appointment_number, patient_id, doctor_id,
				appointment_date, appointment_time, type, notes, status, created_by)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING created_at, updated_at`,
			a.ID, a.AppointmentNumber, a.PatientID, a.DoctorID,
			a.AppointmentDate, a.AppointmentTime, a.Type, a.Notes, a.Status, a.CreatedBy).
			Scan(&a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return err
		}

		q = QueueEntry{
			ID:            uuid.New(),
			AppointmentID: a.ID,
			QueueNumber:   position,
			QueueDate:     a.AppointmentDate,
			Status:        QueueWaiting,
		}
		return tx.QueryRow(ctx, `
			INSERT INTO appointment_queue (id, appointment_id, queue_number, queue_date, status)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING created_at`,
			q.ID, q.AppointmentID, q.QueueNumber, q.QueueDate, q.Status).Scan(&q.CreatedAt)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "appointments_slot") {
			return nil, ErrSlotTaken
		}
		if db.IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repoPG) Transition(ctx context.Context, id uuid.UUID, to string) (*Appointment, error) {
	var appt *Appointment
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM appointments WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !CanTransition(current, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, to)
		}

		appt, err = scanAppointment(tx.QueryRow(ctx, `
			UPDATE appointments SET status = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+apptCols, id, to))
		if err != nil {
			return err
		}

		if qs := QueueStatusFor(to); qs != "" {
			var stamp string
			switch qs {
			case QueueCalled:
				stamp = `, called_at = NOW()`
			case QueueCompleted:
				stamp = `, completed_at = NOW()`
			}
			_, err = tx.Exec(ctx,
				`UPDATE appointment_queue SET status = $2`+stamp+` WHERE appointment_id = $1`, id, qs)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) GetQueueEntry(ctx context.Context, appointmentID uuid.UUID) (*QueueEntry, error) {
	return scanQueueEntry(r.pool.QueryRow(ctx,
		`SELECT `+queueCols+` FROM appointment_queue WHERE appointment_id = $1`, appointmentID))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + apptCols + ` FROM appointments WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM appointments WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.DoctorID != uuid.Nil {
		query += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		args = append(args, f.DoctorID)
		idx++
	}
	if f.PatientID != uuid.Nil {
		query += fmt.Sprintf(` AND patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, f.PatientID)
		idx++
	}
	if f.Date != "" {
		query += fmt.Sprintf(` AND appointment_date = $%d`, idx)
		countQuery += fmt.Sprintf(` AND appointment_date = $%d`, idx)
		args = append(args, f.Date)
		idx++
	}
	if f.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY appointment_date DESC, appointment_time DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListQueue(ctx context.Context, doctorID uuid.UUID, date string) ([]*QueueEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+qualifiedQueueCols+`
		FROM appointment_queue q
		JOIN appointments a ON a.id = q.appointment_id
		WHERE a.doctor_id = $1 AND q.queue_date = $2
		ORDER BY q.queue_number`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*QueueEntry
	for rows.Next() {
		q, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, q)
	}
	return items, rows.Err()
}

const qualifiedQueueCols = `q.id, q.appointment_id, q.queue_number, q.queue_date, q.status, q.called_at, q.completed_at, q.created_at`

package visit

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

const visitCols = `id, visit_number, patient_id, doctor_id, appointment_id, complaint,
	diagnosis, notes, idempotency_key, created_at, updated_at`

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(&v.ID, &v.VisitNumber, &v.PatientID, &v.DoctorID, &v.AppointmentID, &v.Complaint,
		&v.Diagnosis, &v.Notes, &v.IdempotencyKey, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &v, err
}

func (r *repoPG) Create(ctx context.Context, v *Visit, tests []*TestRecommendation) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		v.ID = uuid.New()
		err := tx.QueryRow(ctx, `
			INSERT INTO visits (id, visit_number, patient_id, doctor_id, appointment_id,
				complaint, diagnosis, notes, idempotency_key)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING created_at, updated_at`,
			v.ID, v.VisitNumber, v.PatientID, v.DoctorID, v.AppointmentID,
			v.Complaint, v.Diagnosis, v.Notes, v.IdempotencyKey).
			Scan(&v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return err
		}
		for _, t := range tests {
			t.ID = uuid.New()
			t.VisitID = v.ID
			if _, err := tx.Exec(ctx, `
				INSERT INTO test_recommendations (id, visit_id, test_name, urgency, notes)
				VALUES ($1,$2,$3,$4,$5)`,
				t.ID, t.VisitID, t.TestName, t.Urgency, t.Notes); err != nil {
				return err
			}
		}
		return nil
	})
	if db.IsUniqueViolation(err, "visits_idempotency_key") {
		return ErrDuplicateRequest
	}
	if db.IsForeignKeyViolation(err) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) AddPrescription(ctx context.Context, p *Prescription, items []*PrescriptionItem) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		p.ID = uuid.New()
		err := tx.QueryRow(ctx, `
			INSERT INTO prescriptions (id, visit_id, notes)
			VALUES ($1,$2,$3)
			RETURNING created_at`,
			p.ID, p.VisitID, p.Notes).Scan(&p.CreatedAt)
		if err != nil {
			return err
		}
		for _, it := range items {
			it.ID = uuid.New()
			it.PrescriptionID = p.ID
			if _, err := tx.Exec(ctx, `
				INSERT INTO prescription_items (id, prescription_id, medication, dosage, frequency, duration_days, instructions)
				VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				it.ID, it.PrescriptionID, it.Medication, it.Dosage, it.Frequency, it.DurationDays, it.Instructions); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return scanVisit(r.pool.QueryRow(ctx, `SELECT `+visitCols+` FROM visits WHERE id = $1`, id))
}

func (r *repoPG) GetTests(ctx context.Context, visitID uuid.UUID) ([]*TestRecommendation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, visit_id, test_name, urgency, notes
		FROM test_recommendations WHERE visit_id = $1 ORDER BY test_name`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TestRecommendation
	for rows.Next() {
		var t TestRecommendation
		if err := rows.Scan(&t.ID, &t.VisitID, &t.TestName, &t.Urgency, &t.Notes); err != nil {
			return nil, err
		}
		items = append(items, &t)
	}
	return items, rows.Err()
}

func (r *repoPG) GetPrescriptions(ctx context.Context, visitID uuid.UUID) ([]*PrescriptionDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, visit_id, notes, created_at
		FROM prescriptions WHERE visit_id = $1 ORDER BY created_at`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var details []*PrescriptionDetail
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.VisitID, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		details = append(details, &PrescriptionDetail{Prescription: &p})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, d := range details {
		itemRows, err := r.pool.Query(ctx, `
			SELECT id, prescription_id, medication, dosage, frequency, duration_days, instructions
			FROM prescription_items WHERE prescription_id = $1 ORDER BY medication`, d.Prescription.ID)
		if err != nil {
			return nil, err
		}
		for itemRows.Next() {
			var it PrescriptionItem
			if err := itemRows.Scan(&it.ID, &it.PrescriptionID, &it.Medication, &it.Dosage,
				&it.Frequency, &it.DurationDays, &it.Instructions); err != nil {
				itemRows.Close()
				return nil, err
			}
			d.Items = append(d.Items, &it)
		}
		itemRows.Close()
		if err := itemRows.Err(); err != nil {
			return nil, err
		}
	}
	return details, nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Visit, int, error) {
	query := `SELECT ` + visitCols + ` FROM visits WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM visits WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.PatientID != uuid.Nil {
		query += fmt.Sprintf(` AND patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, f.PatientID)
		idx++
	}
	if f.DoctorID != uuid.Nil {
		query += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		args = append(args, f.DoctorID)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

package patient

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

const patientCols = `id, patient_code, first_name, last_name, phone, email, gender,
	date_of_birth, blood_group, address, emergency_contact, allergies, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.PatientCode, &p.FirstName, &p.LastName, &p.Phone, &p.Email, &p.Gender,
		&p.DateOfBirth, &p.BloodGroup, &p.Address, &p.EmergencyContact, &p.Allergies, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, patient_code, first_name, last_name, phone, email, gender,
			date_of_birth, blood_group, address, emergency_contact, allergies)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		p.ID, p.PatientCode, p.FirstName, p.LastName, p.Phone, p.Email, p.Gender,
		p.DateOfBirth, p.BloodGroup, p.Address, p.EmergencyContact, p.Allergies).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if db.IsUniqueViolation(err, "patients_phone") {
		return ErrDuplicatePhone
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	where := ``
	var args []interface{}
	idx := 1
	if query != "" {
		where = fmt.Sprintf(` WHERE first_name ILIKE $%d OR last_name ILIKE $%d OR phone ILIKE $%d OR patient_code ILIKE $%d`,
			idx, idx, idx, idx)
		args = append(args, "%"+query+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+patientCols+` FROM patients`+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, u Update) (*Patient, error) {
	set := `updated_at = NOW()`
	var args []interface{}
	args = append(args, id)
	idx := 2

	add := func(col string, v *string) {
		if v != nil {
			set += fmt.Sprintf(`, %s = $%d`, col, idx)
			args = append(args, *v)
			idx++
		}
	}
	add("first_name", u.FirstName)
	add("last_name", u.LastName)
	add("email", u.Email)
	add("address", u.Address)
	add("blood_group", u.BloodGroup)
	add("emergency_contact", u.EmergencyContact)
	add("allergies", u.Allergies)

	return scanPatient(r.pool.QueryRow(ctx,
		`UPDATE patients SET `+set+` WHERE id = $1 RETURNING `+patientCols, args...))
}

func (r *repoPG) RecentVisits(ctx context.Context, patientID uuid.UUID, limit int) ([]*VisitSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, visit_number, doctor_id, diagnosis, created_at
		FROM visits WHERE patient_id = $1
		ORDER BY created_at DESC LIMIT $2`, patientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*VisitSummary
	for rows.Next() {
		var v VisitSummary
		if err := rows.Scan(&v.ID, &v.VisitNumber, &v.DoctorID, &v.Diagnosis, &v.VisitedAt); err != nil {
			return nil, err
		}
		items = append(items, &v)
	}
	return items, rows.Err()
}

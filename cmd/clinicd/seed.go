package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors, _ := cmd.Flags().GetInt("doctors")
			patients, _ := cmd.Flags().GetInt("patients")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			gofakeit.Seed(time.Now().UnixNano())

			doctorIDs, err := seedDoctors(ctx, pool, doctors)
			if err != nil {
				return fmt.Errorf("seed doctors: %w", err)
			}
			patientIDs, err := seedPatients(ctx, pool, patients)
			if err != nil {
				return fmt.Errorf("seed patients: %w", err)
			}
			booked, err := seedAppointments(ctx, pool, doctorIDs, patientIDs)
			if err != nil {
				return fmt.Errorf("seed appointments: %w", err)
			}

			fmt.Printf("Seeded %d doctors, %d patients, %d appointments.\n",
				len(doctorIDs), len(patientIDs), booked)
			return nil
		},
	}
	cmd.Flags().Int("doctors", 10, "Number of demo doctors")
	cmd.Flags().Int("patients", 50, "Number of demo patients")
	return cmd
}

var specialties = []string{
	"General Medicine",
	"Cardiology",
	"Dermatology",
	"Orthopedics",
	"Pediatrics",
	"ENT",
	"Ophthalmology",
	"Gynecology",
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]
		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, specialty)
			VALUES ($1, $2, $3)`,
			id, "Dr. "+gofakeit.Name(), spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	genders := []string{"male", "female", "other"}
	for i := 0; i < count; i++ {
		id := uuid.New()
		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC))
		email := gofakeit.Email()
		gender := genders[gofakeit.Number(0, len(genders)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (id, patient_code, first_name, last_name, phone,
				email, gender, date_of_birth, address)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, fmt.Sprintf("P%06d", 100000+i), gofakeit.FirstName(), gofakeit.LastName(),
			gofakeit.Phone(), email, gender, dob, gofakeit.Address().Address)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// seedAppointments books each patient a near-future slot, spreading them
// across doctors so demo queues have a few entries each.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, doctorIDs, patientIDs []uuid.UUID) (int, error) {
	if len(doctorIDs) == 0 || len(patientIDs) == 0 {
		return 0, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	booked := 0
	date := time.Now().AddDate(0, 0, 1)
	for i, patientID := range patientIDs {
		doctorID := doctorIDs[i%len(doctorIDs)]
		slot := i / len(doctorIDs)
		apptTime := fmt.Sprintf("%02d:%02d", 9+slot/2, (slot%2)*30)

		apptID := uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, appointment_number, patient_id, doctor_id,
				appointment_date, appointment_time, type, status)
			VALUES ($1, $2, $3, $4, $5, $6, 'consultation', 'scheduled')`,
			apptID, fmt.Sprintf("A%06d", 100000+i), patientID, doctorID, date, apptTime)
		if err != nil {
			return 0, err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO appointment_queue (id, appointment_id, queue_number, queue_date, status)
			VALUES ($1, $2, $3, $4, 'waiting')`,
			uuid.New(), apptID, slot+1, date)
		if err != nil {
			return 0, err
		}
		booked++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return booked, nil
}

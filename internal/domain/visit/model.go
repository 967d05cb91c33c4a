package visit

import (
	"time"

	"github.com/google/uuid"
)

// Visit maps to the visits table. IdempotencyKey, when present, is
// unique: replaying a create with the same key is rejected instead of
// producing a second visit.
type Visit struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	VisitNumber    string     `db:"visit_number" json:"visit_number"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID       uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	AppointmentID  *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Complaint      *string    `db:"complaint" json:"complaint,omitempty"`
	Diagnosis      *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	IdempotencyKey *string    `db:"idempotency_key" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// TestRecommendation maps to the test_recommendations table.
type TestRecommendation struct {
	ID       uuid.UUID `db:"id" json:"id"`
	VisitID  uuid.UUID `db:"visit_id" json:"visit_id"`
	TestName string    `db:"test_name" json:"test_name"`
	Urgency  *string   `db:"urgency" json:"urgency,omitempty"`
	Notes    *string   `db:"notes" json:"notes,omitempty"`
}

// Prescription maps to the prescriptions table.
type Prescription struct {
	ID        uuid.UUID `db:"id" json:"id"`
	VisitID   uuid.UUID `db:"visit_id" json:"visit_id"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PrescriptionItem maps to the prescription_items table.
type PrescriptionItem struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	Medication     string    `db:"medication" json:"medication"`
	Dosage         *string   `db:"dosage" json:"dosage,omitempty"`
	Frequency      *string   `db:"frequency" json:"frequency,omitempty"`
	DurationDays   *int      `db:"duration_days" json:"duration_days,omitempty"`
	Instructions   *string   `db:"instructions" json:"instructions,omitempty"`
}

// Detail pairs a visit with what was ordered during it.
type Detail struct {
	Visit         *Visit                `json:"visit"`
	Tests         []*TestRecommendation `json:"tests"`
	Prescriptions []*PrescriptionDetail `json:"prescriptions"`
}

// PrescriptionDetail pairs a prescription header with its items.
type PrescriptionDetail struct {
	Prescription *Prescription       `json:"prescription"`
	Items        []*PrescriptionItem `json:"items"`
}

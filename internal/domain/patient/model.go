package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. Phone is unique across the
// clinic and drives duplicate detection at registration.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PatientCode      string     `db:"patient_code" json:"patient_code"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastName         string     `db:"last_name" json:"last_name"`
	Phone            string     `db:"phone" json:"phone"`
	Email            *string    `db:"email" json:"email,omitempty"`
	Gender           *string    `db:"gender" json:"gender,omitempty"`
	DateOfBirth      *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	BloodGroup       *string    `db:"blood_group" json:"blood_group,omitempty"`
	Address          *string    `db:"address" json:"address,omitempty"`
	EmergencyContact *string    `db:"emergency_contact" json:"emergency_contact,omitempty"`
	Allergies        *string    `db:"allergies" json:"allergies,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// VisitSummary is one line of a patient's recent history.
type VisitSummary struct {
	ID          uuid.UUID `db:"id" json:"id"`
	VisitNumber string    `db:"visit_number" json:"visit_number"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Diagnosis   *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	VisitedAt   time.Time `db:"visited_at" json:"visited_at"`
}

// Detail pairs a patient with their recent visits.
type Detail struct {
	Patient *Patient        `json:"patient"`
	Visits  []*VisitSummary `json:"recent_visits"`
}

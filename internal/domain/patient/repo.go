package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no patient matches the given id.
	ErrNotFound = errors.New("patient not found")
	// ErrDuplicatePhone means another patient already registered the
	// phone number.
	ErrDuplicatePhone = errors.New("phone number already registered")
)

// Update carries the fields a partial update may touch. Nil fields are
// left unchanged; phone and patient_code are immutable here.
type Update struct {
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Address          *string `json:"address,omitempty"`
	BloodGroup       *string `json:"blood_group,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	Allergies        *string `json:"allergies,omitempty"`
}

type Repository interface {
	// Create inserts the patient; a phone collision on the unique
	// constraint comes back as ErrDuplicatePhone.
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, id uuid.UUID, u Update) (*Patient, error)
	RecentVisits(ctx context.Context, patientID uuid.UUID, limit int) ([]*VisitSummary, error)
}

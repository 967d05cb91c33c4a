package visit

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no visit matches the given id.
	ErrNotFound = errors.New("visit not found")
	// ErrDuplicateRequest means the idempotency key was already used;
	// the original visit stands and the replay is rejected whole.
	ErrDuplicateRequest = errors.New("duplicate request")
)

// Filter narrows visit listings. Zero values are ignored.
type Filter struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
}

type Repository interface {
	// Create inserts the visit and its test recommendations in one
	// transaction. A replayed idempotency key rolls everything back
	// and returns ErrDuplicateRequest.
	Create(ctx context.Context, v *Visit, tests []*TestRecommendation) error

	// AddPrescription inserts the header and its items in one
	// transaction.
	AddPrescription(ctx context.Context, p *Prescription, items []*PrescriptionItem) error

	GetByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	GetTests(ctx context.Context, visitID uuid.UUID) ([]*TestRecommendation, error)
	GetPrescriptions(ctx context.Context, visitID uuid.UUID) ([]*PrescriptionDetail, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Visit, int, error)
}

package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrSlotTaken means another booking holds the same doctor/date/time.
	ErrSlotTaken = errors.New("appointment slot already taken")
	// ErrNotFound means no appointment matches the given id.
	ErrNotFound = errors.New("appointment not found")
	// ErrInvalidTransition means the requested status change is not
	// allowed from the appointment's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Filter narrows appointment listings. Zero values are ignored.
type Filter struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      string // YYYY-MM-DD
	Status    string
}

type Repository interface {
	// Book atomically reserves a slot: it inserts the appointment and
	// its queue entry in one transaction, assigning the day's next
	// queue position. Returns ErrSlotTaken when the slot is held by a
	// non-cancelled appointment.
	Book(ctx context.Context, a *Appointment) (*QueueEntry, error)

	// Transition moves an appointment to the given status and updates
	// the mirrored queue entry in the same transaction. Returns
	// ErrNotFound or ErrInvalidTransition.
	Transition(ctx context.Context, id uuid.UUID, to string) (*Appointment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetQueueEntry(ctx context.Context, appointmentID uuid.UUID) (*QueueEntry, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error)
	ListQueue(ctx context.Context, doctorID uuid.UUID, date string) ([]*QueueEntry, error)
}

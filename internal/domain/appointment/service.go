package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPastSlot means the requested slot is not in the future.
	ErrPastSlot = errors.New("appointment slot must be in the future")
	// ErrValidation wraps request-shape errors caught before any
	// transaction is opened.
	ErrValidation = errors.New("invalid request")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// BookRequest is the payload for reserving a slot.
type BookRequest struct {
	PatientID       uuid.UUID `json:"patient_id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	AppointmentDate string    `json:"appointment_date"` // YYYY-MM-DD
	AppointmentTime string    `json:"appointment_time"` // HH:MM, 24h
	Type            *string   `json:"type,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
}

// Book validates the request and reserves the slot. The repository owns
// the transactional race; a losing booking comes back as ErrSlotTaken.
func (s *Service) Book(ctx context.Context, req BookRequest, createdBy string) (*Booking, error) {
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	date, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: appointment_date must be YYYY-MM-DD", ErrValidation)
	}
	t, err := time.Parse("15:04", req.AppointmentTime)
	if err != nil {
		return nil, fmt.Errorf("%w: appointment_time must be HH:MM", ErrValidation)
	}
	slot := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
	if !slot.After(s.now()) {
		return nil, ErrPastSlot
	}

	a := &Appointment{
		AppointmentNumber: s.newAppointmentNumber(),
		PatientID:         req.PatientID,
		DoctorID:          req.DoctorID,
		AppointmentDate:   date,
		AppointmentTime:   req.AppointmentTime,
		Type:              req.Type,
		Notes:             req.Notes,
		Status:            StatusScheduled,
	}
	if createdBy != "" {
		a.CreatedBy = &createdBy
	}
	q, err := s.repo.Book(ctx, a)
	if err != nil {
		return nil, err
	}
	return &Booking{Appointment: a, Queue: q}, nil
}

// Transition moves an appointment through its lifecycle. Target status
// validity is checked here; whether the move is legal from the current
// status is decided inside the repository transaction.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to string) (*Appointment, error) {
	if !ValidStatus(to) {
		return nil, fmt.Errorf("%w: unknown appointment status %q", ErrValidation, to)
	}
	return s.repo.Transition(ctx, id, to)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	q, err := s.repo.GetQueueEntry(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return &Booking{Appointment: a, Queue: q}, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) Queue(ctx context.Context, doctorID uuid.UUID, date string) ([]*QueueEntry, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return s.repo.ListQueue(ctx, doctorID, date)
}

// newAppointmentNumber derives a short human-readable reference from
// the clock. Uniqueness is not load-bearing; the slot index is.
func (s *Service) newAppointmentNumber() string {
	return fmt.Sprintf("A%06d", s.now().UnixMilli()%1000000)
}

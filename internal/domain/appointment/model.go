package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled  = "scheduled"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no-show"
)

// Queue entry statuses.
const (
	QueueWaiting   = "waiting"
	QueueCalled    = "called"
	QueueCompleted = "completed"
	QueueCancelled = "cancelled"
	QueueSkipped   = "skipped"
)

// Appointment maps to the appointments table.
type Appointment struct {
	ID                uuid.UUID `db:"id" json:"id"`
	AppointmentNumber string    `db:"appointment_number" json:"appointment_number"`
	PatientID         uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID          uuid.UUID `db:"doctor_id" json:"doctor_id"`
	AppointmentDate   time.Time `db:"appointment_date" json:"appointment_date"`
	AppointmentTime   string    `db:"appointment_time" json:"appointment_time"`
	Type              *string   `db:"type" json:"type,omitempty"`
	Notes             *string   `db:"notes" json:"notes,omitempty"`
	Status            string    `db:"status" json:"status"`
	CreatedBy         *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// QueueEntry maps to the appointment_queue table. One entry is created
// per booking; queue_number is the patient's position for that doctor
// and day at booking time.
type QueueEntry struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AppointmentID uuid.UUID  `db:"appointment_id" json:"appointment_id"`
	QueueNumber   int        `db:"queue_number" json:"queue_number"`
	QueueDate     time.Time  `db:"queue_date" json:"queue_date"`
	Status        string     `db:"status" json:"status"`
	CalledAt      *time.Time `db:"called_at" json:"called_at,omitempty"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Booking is the result of a successful slot reservation.
type Booking struct {
	Appointment *Appointment `json:"appointment"`
	Queue       *QueueEntry  `json:"queue"`
}

var validTransitions = map[string][]string{
	StatusScheduled:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// CanTransition reports whether the status change from -> to is allowed.
func CanTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool {
	_, ok := validTransitions[s]
	return ok
}

// QueueStatusFor returns the queue status that mirrors an appointment
// status change, or "" when the queue entry is untouched.
func QueueStatusFor(apptStatus string) string {
	switch apptStatus {
	case StatusInProgress:
		return QueueCalled
	case StatusCompleted:
		return QueueCompleted
	case StatusCancelled:
		return QueueCancelled
	case StatusNoShow:
		return QueueSkipped
	}
	return ""
}

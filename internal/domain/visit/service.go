package visit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrValidation wraps request-shape errors caught before storage.
var ErrValidation = errors.New("invalid request")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// TestRequest is one recommended test in a create request.
type TestRequest struct {
	TestName string  `json:"test_name"`
	Urgency  *string `json:"urgency,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// CreateRequest is the payload for recording a visit.
type CreateRequest struct {
	PatientID     uuid.UUID     `json:"patient_id"`
	DoctorID      uuid.UUID     `json:"doctor_id"`
	AppointmentID *uuid.UUID    `json:"appointment_id,omitempty"`
	Complaint     *string       `json:"complaint,omitempty"`
	Diagnosis     *string       `json:"diagnosis,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	Tests         []TestRequest `json:"tests,omitempty"`
}

// Create records a visit and its test recommendations. idempotencyKey
// comes from the Idempotency-Key header and may be empty; when set, a
// replay returns ErrDuplicateRequest instead of a second visit.
func (s *Service) Create(ctx context.Context, req CreateRequest, idempotencyKey string) (*Detail, error) {
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	tests := make([]*TestRecommendation, 0, len(req.Tests))
	for _, tr := range req.Tests {
		if strings.TrimSpace(tr.TestName) == "" {
			return nil, fmt.Errorf("%w: test_name is required", ErrValidation)
		}
		tests = append(tests, &TestRecommendation{
			TestName: strings.TrimSpace(tr.TestName),
			Urgency:  tr.Urgency,
			Notes:    tr.Notes,
		})
	}

	v := &Visit{
		VisitNumber:   s.newVisitNumber(),
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		AppointmentID: req.AppointmentID,
		Complaint:     req.Complaint,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
	}
	if idempotencyKey != "" {
		v.IdempotencyKey = &idempotencyKey
	}
	if err := s.repo.Create(ctx, v, tests); err != nil {
		return nil, err
	}
	return &Detail{Visit: v, Tests: tests}, nil
}

// ItemRequest is one medication line in a prescription request.
type ItemRequest struct {
	Medication   string  `json:"medication"`
	Dosage       *string `json:"dosage,omitempty"`
	Frequency    *string `json:"frequency,omitempty"`
	DurationDays *int    `json:"duration_days,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
}

// PrescribeRequest is the payload for attaching a prescription.
type PrescribeRequest struct {
	Notes *string       `json:"notes,omitempty"`
	Items []ItemRequest `json:"items"`
}

// Prescribe attaches a prescription with its items to a visit.
func (s *Service) Prescribe(ctx context.Context, visitID uuid.UUID, req PrescribeRequest) (*PrescriptionDetail, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	items := make([]*PrescriptionItem, 0, len(req.Items))
	for _, ir := range req.Items {
		if strings.TrimSpace(ir.Medication) == "" {
			return nil, fmt.Errorf("%w: medication is required", ErrValidation)
		}
		if ir.DurationDays != nil && *ir.DurationDays <= 0 {
			return nil, fmt.Errorf("%w: duration_days must be positive", ErrValidation)
		}
		items = append(items, &PrescriptionItem{
			Medication:   strings.TrimSpace(ir.Medication),
			Dosage:       ir.Dosage,
			Frequency:    ir.Frequency,
			DurationDays: ir.DurationDays,
			Instructions: ir.Instructions,
		})
	}

	if _, err := s.repo.GetByID(ctx, visitID); err != nil {
		return nil, err
	}
	p := &Prescription{VisitID: visitID, Notes: req.Notes}
	if err := s.repo.AddPrescription(ctx, p, items); err != nil {
		return nil, err
	}
	return &PrescriptionDetail{Prescription: p, Items: items}, nil
}

// Get returns the visit with its tests and prescriptions.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tests, err := s.repo.GetTests(ctx, id)
	if err != nil {
		return nil, err
	}
	prescriptions, err := s.repo.GetPrescriptions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Visit: v, Tests: tests, Prescriptions: prescriptions}, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Visit, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) newVisitNumber() string {
	return fmt.Sprintf("V%06d", s.now().UnixMilli()%1000000)
}

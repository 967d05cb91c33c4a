package patient

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

const recentVisitLimit = 10

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// RegisterRequest is the payload for registering a patient.
type RegisterRequest struct {
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Phone            string  `json:"phone"`
	Email            *string `json:"email,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	BloodGroup       *string `json:"blood_group,omitempty"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	Allergies        *string `json:"allergies,omitempty"`
}

// Register creates a patient with a generated code. A phone collision
// surfaces as ErrDuplicatePhone.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Patient, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.FirstName == "" {
		return nil, fmt.Errorf("%w: first_name is required", ErrValidation)
	}
	if req.Phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}

	p := &Patient{
		PatientCode:      s.newPatientCode(),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		Email:            req.Email,
		Gender:           req.Gender,
		BloodGroup:       req.BloodGroup,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Allergies:        req.Allergies,
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrValidation)
		}
		p.DateOfBirth = &dob
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the patient together with their recent visit history.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	visits, err := s.repo.RecentVisits(ctx, id, recentVisitLimit)
	if err != nil {
		return nil, err
	}
	return &Detail{Patient: p, Visits: visits}, nil
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.Search(ctx, strings.TrimSpace(query), limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, u Update) (*Patient, error) {
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) == "" {
		return nil, fmt.Errorf("%w: first_name must not be blank", ErrValidation)
	}
	return s.repo.Update(ctx, id, u)
}

func (s *Service) newPatientCode() string {
	return fmt.Sprintf("P%06d", s.now().UnixMilli()%1000000)
}

package patient

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
	visits   map[uuid.UUID][]*VisitSummary
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients: make(map[uuid.UUID]*Patient),
		visits:   make(map[uuid.UUID][]*VisitSummary),
	}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	for _, other := range m.patients {
		if other.Phone == p.Phone {
			return ErrDuplicatePhone
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	var items []*Patient
	for _, p := range m.patients {
		if query == "" || strings.Contains(strings.ToLower(p.FirstName), strings.ToLower(query)) ||
			strings.Contains(p.Phone, query) || strings.Contains(p.PatientCode, query) {
			items = append(items, p)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) Update(_ context.Context, id uuid.UUID, u Update) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.Email != nil {
		p.Email = u.Email
	}
	if u.Address != nil {
		p.Address = u.Address
	}
	p.UpdatedAt = time.Now()
	return p, nil
}

func (m *mockRepo) RecentVisits(_ context.Context, patientID uuid.UUID, limit int) ([]*VisitSummary, error) {
	v := m.visits[patientID]
	if len(v) > limit {
		v = v[:limit]
	}
	return v, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo)
	return svc, repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	dob := "1990-04-12"
	p, err := svc.Register(context.Background(), RegisterRequest{
		FirstName:   "Asha",
		LastName:    "Verma",
		Phone:       "9876543210",
		DateOfBirth: &dob,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PatientCode == "" || !strings.HasPrefix(p.PatientCode, "P") {
		t.Errorf("expected generated patient code, got %q", p.PatientCode)
	}
	if p.DateOfBirth == nil || p.DateOfBirth.Year() != 1990 {
		t.Error("expected parsed date of birth")
	}
}

func TestRegister_DuplicatePhone(t *testing.T) {
	svc, _ := newTestService()
	req := RegisterRequest{FirstName: "Asha", Phone: "9876543210"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.FirstName = "Another"
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrDuplicatePhone) {
		t.Errorf("expected ErrDuplicatePhone, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), RegisterRequest{Phone: "123"}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing name, got %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterRequest{FirstName: "Asha"}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing phone, got %v", err)
	}
	bad := "12/04/1990"
	_, err := svc.Register(context.Background(), RegisterRequest{FirstName: "Asha", Phone: "123", DateOfBirth: &bad})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for bad dob, got %v", err)
	}
}

func TestGet_IncludesRecentVisits(t *testing.T) {
	svc, repo := newTestService()
	p, _ := svc.Register(context.Background(), RegisterRequest{FirstName: "Asha", Phone: "111"})
	repo.visits[p.ID] = []*VisitSummary{
		{ID: uuid.New(), VisitNumber: "V000001", DoctorID: uuid.New(), VisitedAt: time.Now()},
	}

	detail, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Visits) != 1 {
		t.Errorf("expected 1 recent visit, got %d", len(detail.Visits))
	}

	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()
	p, _ := svc.Register(context.Background(), RegisterRequest{FirstName: "Asha", Phone: "111"})

	name := "Aisha"
	got, err := svc.Update(context.Background(), p.ID, Update{FirstName: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FirstName != "Aisha" {
		t.Errorf("expected updated name, got %q", got.FirstName)
	}

	blank := "  "
	if _, err := svc.Update(context.Background(), p.ID, Update{FirstName: &blank}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

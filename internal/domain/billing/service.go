package billing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ErrValidation wraps request-shape errors caught before any
// transaction is opened.
var ErrValidation = errors.New("invalid request")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ItemRequest is one invoice line in a draft request.
type ItemRequest struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// DraftRequest is the payload for creating a draft invoice.
type DraftRequest struct {
	PatientID      uuid.UUID     `json:"patient_id"`
	VisitID        *uuid.UUID    `json:"visit_id,omitempty"`
	Items          []ItemRequest `json:"items"`
	DiscountAmount float64       `json:"discount_amount"`
	TaxRate        float64       `json:"tax_rate"`
	Notes          *string       `json:"notes,omitempty"`
}

// InvoiceDetail pairs an invoice with its line items.
type InvoiceDetail struct {
	Invoice *Invoice       `json:"invoice"`
	Items   []*InvoiceItem `json:"items"`
}

// CreateDraft computes line and invoice totals and stores the draft.
// Drafts carry no number; numbering happens at finalize time only.
func (s *Service) CreateDraft(ctx context.Context, req DraftRequest, createdBy string) (*InvoiceDetail, error) {
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	if req.DiscountAmount < 0 || req.TaxRate < 0 {
		return nil, fmt.Errorf("%w: discount_amount and tax_rate must not be negative", ErrValidation)
	}

	var subtotal float64
	items := make([]*InvoiceItem, 0, len(req.Items))
	for _, ir := range req.Items {
		if ir.Description == "" {
			return nil, fmt.Errorf("%w: item description is required", ErrValidation)
		}
		if ir.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		if ir.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: item unit_price must not be negative", ErrValidation)
		}
		line := round2(float64(ir.Quantity) * ir.UnitPrice)
		subtotal += line
		items = append(items, &InvoiceItem{
			Description: ir.Description,
			Quantity:    ir.Quantity,
			UnitPrice:   ir.UnitPrice,
			LineTotal:   line,
		})
	}
	subtotal = round2(subtotal)
	if req.DiscountAmount > subtotal {
		return nil, fmt.Errorf("%w: discount_amount exceeds subtotal", ErrValidation)
	}
	tax := round2((subtotal - req.DiscountAmount) * req.TaxRate)

	inv := &Invoice{
		PatientID:      req.PatientID,
		VisitID:        req.VisitID,
		Subtotal:       subtotal,
		DiscountAmount: req.DiscountAmount,
		TaxAmount:      tax,
		TotalAmount:    round2(subtotal - req.DiscountAmount + tax),
		Status:         StatusDraft,
		PaymentStatus:  PaymentPending,
		Notes:          req.Notes,
	}
	if createdBy != "" {
		inv.CreatedBy = &createdBy
	}
	if err := s.repo.CreateDraft(ctx, inv, items); err != nil {
		return nil, err
	}
	return &InvoiceDetail{Invoice: inv, Items: items}, nil
}

// Finalize assigns the invoice its permanent number for the current
// year. The repository owns the transactional race.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.Finalize(ctx, id, s.now().Year())
}

// RecordPayment applies a payment against a finalized invoice.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, amount float64, method string) (*Invoice, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	return s.repo.RecordPayment(ctx, id, amount, method)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*InvoiceDetail, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &InvoiceDetail{Invoice: inv, Items: items}, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Invoice, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

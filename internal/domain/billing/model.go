package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invoice statuses.
const (
	StatusDraft     = "draft"
	StatusFinalized = "finalized"
)

// Payment statuses, derived from paid_amount against total.
const (
	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// Invoice maps to the invoices table. InvoiceNumber stays empty until
// the invoice is finalized; numbers are sequential per year and have
// no gaps among issued invoices.
type Invoice struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	InvoiceNumber  *string    `db:"invoice_number" json:"invoice_number,omitempty"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	VisitID        *uuid.UUID `db:"visit_id" json:"visit_id,omitempty"`
	Subtotal       float64    `db:"subtotal" json:"subtotal"`
	DiscountAmount float64    `db:"discount_amount" json:"discount_amount"`
	TaxAmount      float64    `db:"tax_amount" json:"tax_amount"`
	TotalAmount    float64    `db:"total_amount" json:"total_amount"`
	PaidAmount     float64    `db:"paid_amount" json:"paid_amount"`
	PaymentStatus  string     `db:"payment_status" json:"payment_status"`
	PaymentMethod  *string    `db:"payment_method" json:"payment_method,omitempty"`
	Status         string     `db:"status" json:"status"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedBy      *string    `db:"created_by" json:"created_by,omitempty"`
	FinalizedAt    *time.Time `db:"finalized_at" json:"finalized_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// InvoiceItem maps to the invoice_items table.
type InvoiceItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	InvoiceID   uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Description string    `db:"description" json:"description"`
	Quantity    int       `db:"quantity" json:"quantity"`
	UnitPrice   float64   `db:"unit_price" json:"unit_price"`
	LineTotal   float64   `db:"line_total" json:"line_total"`
}

// FormatNumber renders a finalized invoice number, e.g. INV-2026-0042.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// PaymentStatusFor derives the payment status from amounts.
func PaymentStatusFor(paid, total float64) string {
	switch {
	case total > 0 && paid >= total:
		return PaymentPaid
	case paid > 0:
		return PaymentPartial
	}
	return PaymentPending
}

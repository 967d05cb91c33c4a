package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no invoice matches the given id.
	ErrNotFound = errors.New("invoice not found")
	// ErrAlreadyFinalized means finalize was called on an invoice that
	// already carries a number. The sequence is never consumed for a
	// rejected finalize.
	ErrAlreadyFinalized = errors.New("invoice already finalized")
)

// Filter narrows invoice listings. Zero values are ignored.
type Filter struct {
	PatientID     uuid.UUID
	Status        string
	PaymentStatus string
}

type Repository interface {
	// CreateDraft inserts the invoice and its items in one transaction.
	CreateDraft(ctx context.Context, inv *Invoice, items []*InvoiceItem) error

	// Finalize assigns the next sequential number for the given year
	// and stamps the invoice, all in one transaction. The draft-status
	// check happens under a row lock before the sequence is touched,
	// so ErrNotFound and ErrAlreadyFinalized never burn a number.
	Finalize(ctx context.Context, id uuid.UUID, year int) (*Invoice, error)

	// RecordPayment adds to paid_amount and rederives payment_status.
	RecordPayment(ctx context.Context, id uuid.UUID, amount float64, method string) (*Invoice, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceItem, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Invoice, int, error)
}

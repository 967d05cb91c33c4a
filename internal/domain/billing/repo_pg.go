package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const invoiceCols = `id, invoice_number, patient_id, visit_id, subtotal, discount_amount,
	tax_amount, total_amount, paid_amount, payment_status, payment_method, status,
	notes, created_by, finalized_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.PatientID, &inv.VisitID, &inv.Subtotal,
		&inv.DiscountAmount, &inv.TaxAmount, &inv.TotalAmount, &inv.PaidAmount, &inv.PaymentStatus,
		&inv.PaymentMethod, &inv.Status, &inv.Notes, &inv.CreatedBy, &inv.FinalizedAt,
		&inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &inv, err
}

func (r *repoPG) CreateDraft(ctx context.Context, inv *Invoice, items []*InvoiceItem) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		inv.ID = uuid.New()
		inv.Status = StatusDraft
		inv.PaymentStatus = PaymentPending
		err := tx.QueryRow(ctx, `
			INSERT INTO invoices (id, patient_id, visit_id, subtotal, discount_amount,
				tax_amount, total_amount, payment_status, status, notes, created_by)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			RETURNING created_at, updated_at`,
			inv.ID, inv.PatientID, inv.VisitID, inv.Subtotal, inv.DiscountAmount,
			inv.TaxAmount, inv.TotalAmount, inv.PaymentStatus, inv.Status, inv.Notes, inv.CreatedBy).
			Scan(&inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return err
		}
		for _, it := range items {
			it.ID = uuid.New()
			it.InvoiceID = inv.ID
			if _, err := tx.Exec(ctx, `
				INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, line_total)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				it.ID, it.InvoiceID, it.Description, it.Quantity, it.UnitPrice, it.LineTotal); err != nil {
				return err
			}
		}
		return nil
	})
}

// Finalize hands out the next number for the year. The status check
// runs under FOR UPDATE before the sequence row is touched; concurrent
// finalizers queue on either the invoice row or the sequence row, so
// numbers come out distinct and consecutive. The sequence upsert is a
// single statement, which also seeds the first number of a new year
// without a read-then-write race.
func (r *repoPG) Finalize(ctx context.Context, id uuid.UUID, year int) (*Invoice, error) {
	var inv *Invoice
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM invoices WHERE id = $1 FOR UPDATE`, id).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if status == StatusFinalized {
			return ErrAlreadyFinalized
		}

		var seq int
		err = tx.QueryRow(ctx, `
			INSERT INTO invoice_sequences (year, last_val) VALUES ($1, 1)
			ON CONFLICT (year) DO UPDATE SET last_val = invoice_sequences.last_val + 1
			RETURNING last_val`, year).Scan(&seq)
		if err != nil {
			return err
		}

		inv, err = scanInvoice(tx.QueryRow(ctx, `
			UPDATE invoices
			SET invoice_number = $2, status = 'finalized', finalized_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING `+invoiceCols, id, FormatNumber(year, seq)))
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repoPG) RecordPayment(ctx context.Context, id uuid.UUID, amount float64, method string) (*Invoice, error) {
	var inv *Invoice
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var paid, total float64
		err := tx.QueryRow(ctx,
			`SELECT paid_amount, total_amount FROM invoices WHERE id = $1 FOR UPDATE`, id).Scan(&paid, &total)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		paid += amount
		inv, err = scanInvoice(tx.QueryRow(ctx, `
			UPDATE invoices
			SET paid_amount = $2, payment_status = $3, payment_method = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING `+invoiceCols, id, paid, PaymentStatusFor(paid, total), method))
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id))
}

func (r *repoPG) GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit_price, line_total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY description`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*InvoiceItem
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Invoice, int, error) {
	query := `SELECT ` + invoiceCols + ` FROM invoices WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM invoices WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.PatientID != uuid.Nil {
		query += fmt.Sprintf(` AND patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, f.PatientID)
		idx++
	}
	if f.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.PaymentStatus != "" {
		query += fmt.Sprintf(` AND payment_status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND payment_status = $%d`, idx)
		args = append(args, f.PaymentStatus)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, rows.Err()
}

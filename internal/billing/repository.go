package billing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

const invoiceColumns = `id, invoice_number, status, patient_id, invoice_date, due_date,
	total_net, tax_amount, total_gross, amount_paid, balance_due,
	payment_method, payment_date, description, created_at, updated_at`

// Repository persists invoices in PostgreSQL
type Repository struct {
	db *sql.DB
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates an invoice repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanInvoice(scan func(dest ...interface{}) error) (*Invoice, error) {
	var inv Invoice
	var dueDate, paymentDate, updatedAt sql.NullTime
	var paymentMethod, description sql.NullString

	err := scan(
		&inv.ID, &inv.InvoiceNumber, &inv.Status, &inv.PatientID, &inv.InvoiceDate, &dueDate,
		&inv.TotalNet, &inv.TaxAmount, &inv.TotalGross, &inv.AmountPaid, &inv.BalanceDue,
		&paymentMethod, &paymentDate, &description, &inv.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.PaymentMethod = paymentMethod.String
	inv.Description = description.String
	if dueDate.Valid {
		t := dueDate.Time
		inv.DueDate = &t
	}
	if paymentDate.Valid {
		t := paymentDate.Time
		inv.PaymentDate = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		inv.UpdatedAt = &t
	}
	return &inv, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Create inserts a new invoice
func (r *Repository) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	inv.ID = uuid.New().String()
	inv.CreatedAt = time.Now().UTC()

	query := fmt.Sprintf(`INSERT INTO invoices (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING %s`, invoiceColumns, invoiceColumns)

	row := r.db.QueryRowContext(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.Status, inv.PatientID, inv.InvoiceDate, inv.DueDate,
		inv.TotalNet, inv.TaxAmount, inv.TotalGross, inv.AmountPaid, inv.BalanceDue,
		nullIfEmpty(inv.PaymentMethod), inv.PaymentDate, nullIfEmpty(inv.Description),
		inv.CreatedAt, nil,
	)
	created, err := scanInvoice(row.Scan)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrDuplicateInvoiceNumber
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return created, nil
}

// Get fetches a single invoice by ID
func (r *Repository) Get(ctx context.Context, id string) (*Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1`, invoiceColumns)
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// List returns invoices matching the filters, newest first
func (r *Repository) List(ctx context.Context, f Filters, params pagination.Params) ([]*Invoice, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, f.Status)
		argIndex++
	}
	if f.PatientID != "" {
		where += fmt.Sprintf(" AND patient_id = $%d", argIndex)
		args = append(args, f.PatientID)
		argIndex++
	}
	if f.Overdue {
		where += " AND due_date < CURRENT_DATE AND balance_due > 0" +
			" AND status NOT IN ('cancelled', 'entered-in-error')"
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM invoices %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM invoices %s
		ORDER BY invoice_date DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, argIndex, argIndex+1)
	args = append(args, params.Limit, params.CalculateOffset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []*Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

// Update replaces every mutable field of an invoice
func (r *Repository) Update(ctx context.Context, inv *Invoice) (*Invoice, error) {
	query := fmt.Sprintf(`UPDATE invoices SET
		invoice_number = $2, status = $3, patient_id = $4, invoice_date = $5, due_date = $6,
		total_net = $7, tax_amount = $8, total_gross = $9, amount_paid = $10, balance_due = $11,
		payment_method = $12, payment_date = $13, description = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, invoiceColumns)

	row := r.db.QueryRowContext(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.Status, inv.PatientID, inv.InvoiceDate, inv.DueDate,
		inv.TotalNet, inv.TaxAmount, inv.TotalGross, inv.AmountPaid, inv.BalanceDue,
		nullIfEmpty(inv.PaymentMethod), inv.PaymentDate, nullIfEmpty(inv.Description),
	)
	updated, err := scanInvoice(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrDuplicateInvoiceNumber
		}
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return updated, nil
}

// Delete removes an invoice
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
